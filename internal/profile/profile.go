// Package profile saves the user's settings and profile picture. The local
// save always happens first; remote failures are reported with ErrRemoteSave
// and never undo it.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

// ErrRemoteSave means the settings were saved on this device but not remotely
var ErrRemoteSave = errors.New("saved locally, but the cloud copy could not be updated")

type Store interface {
	GetSettings() (*models.Settings, error)
	SaveSettings(models.Settings) error
}

type Objects interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

type Mirror interface {
	Put(ctx context.Context, ref mirror.CollectionRef, id string, data json.RawMessage) error
}

type Session interface {
	UserID() (string, error)
}

// Picture is an image to upload as the profile picture
type Picture struct {
	Name        string
	ContentType string
	Body        io.Reader
}

type Service struct {
	store   Store
	objects Objects
	mirror  Mirror
	session Session
}

// New returns a profile service. objects, mirror and session may be nil.
func New(store Store, objects Objects, m Mirror, session Session) *Service {
	return &Service{store: store, objects: objects, mirror: m, session: session}
}

// Save replaces the settings locally, then uploads pic (if any) and mirrors
// the settings document. The returned settings are what is stored locally.
func (s *Service) Save(ctx context.Context, settings models.Settings, pic *Picture) (models.Settings, error) {
	if err := s.store.SaveSettings(settings); err != nil {
		return models.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	saved, err := s.current()
	if err != nil {
		return models.Settings{}, err
	}

	userID, ok := s.remoteUser()
	if !ok {
		if pic != nil {
			return saved, fmt.Errorf("%w: not signed in, profile picture not uploaded", ErrRemoteSave)
		}
		return saved, nil
	}

	if pic != nil {
		if s.objects == nil {
			return saved, fmt.Errorf("%w: no object store configured", ErrRemoteSave)
		}
		key := mirror.ObjectKey(userID, "profile", path.Base(pic.Name))
		if err := s.objects.Put(ctx, key, pic.Body, pic.ContentType); err != nil {
			logger.Warn("Profile picture upload failed", "error", err)
			return saved, fmt.Errorf("%w: %v", ErrRemoteSave, err)
		}

		saved.ProfilePicURL = key
		if err := s.store.SaveSettings(saved); err != nil {
			return saved, fmt.Errorf("failed to save settings: %w", err)
		}
		if saved, err = s.current(); err != nil {
			return models.Settings{}, err
		}
	}

	if s.mirror != nil {
		data, err := json.Marshal(saved)
		if err != nil {
			return saved, err
		}
		ref := mirror.CollectionRef{UserID: userID, Name: string(storage.Settings)}
		if err := s.mirror.Put(ctx, ref, strconv.Itoa(constants.SettingsID), data); err != nil {
			logger.Warn("Settings mirror failed", "error", err)
			return saved, fmt.Errorf("%w: %v", ErrRemoteSave, err)
		}
	}

	return saved, nil
}

func (s *Service) current() (models.Settings, error) {
	saved, err := s.store.GetSettings()
	if err != nil {
		return models.Settings{}, err
	}
	if saved == nil {
		return models.Settings{}, fmt.Errorf("settings missing after save")
	}
	return *saved, nil
}

func (s *Service) remoteUser() (string, bool) {
	if s.session == nil || (s.objects == nil && s.mirror == nil) {
		return "", false
	}
	userID, err := s.session.UserID()
	if err != nil {
		return "", false
	}
	return userID, true
}
