// Package syncer writes records to the local store first and then copies them
// to the mirror. The local write is the one that counts; mirror failures are
// logged and the record stays queued as unsynced.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

// ErrNoRemote is returned by Flush when there is no mirror or no signed-in user
var ErrNoRemote = errors.New("no remote mirror available")

type Store interface {
	PutEntry(models.Entry) error
	PutReminder(models.Reminder) error
	PutGoal(models.Goal) error
	PutTask(models.Task) error
	PutVaultItem(models.VaultItem) error

	GetUnsyncedEntries() ([]models.Entry, error)
	GetUnsyncedReminders() ([]models.Reminder, error)
	GetUnsyncedGoals() ([]models.Goal, error)
	GetUnsyncedTasks() ([]models.Task, error)
	GetUnsyncedVaultItems() ([]models.VaultItem, error)
}

type Mirror interface {
	Put(ctx context.Context, ref mirror.CollectionRef, id string, data json.RawMessage) error
}

type Session interface {
	UserID() (string, error)
}

type Syncer struct {
	store   Store
	mirror  Mirror
	session Session
}

// New returns a syncer. mirror and session may be nil, in which case records
// are only written locally.
func New(store Store, m Mirror, session Session) *Syncer {
	return &Syncer{store: store, mirror: m, session: session}
}

func (s *Syncer) SaveEntry(ctx context.Context, e models.Entry) error {
	e.IsSynced = false
	if err := s.store.PutEntry(e); err != nil {
		return err
	}
	s.tryMirror(ctx, storage.Entries, e.ID, e, func() error {
		e.IsSynced = true
		return s.store.PutEntry(e)
	})
	return nil
}

func (s *Syncer) SaveReminder(ctx context.Context, r models.Reminder) error {
	r.IsSynced = false
	if err := s.store.PutReminder(r); err != nil {
		return err
	}
	s.tryMirror(ctx, storage.Reminders, r.ID, r, func() error {
		r.IsSynced = true
		return s.store.PutReminder(r)
	})
	return nil
}

func (s *Syncer) SaveGoal(ctx context.Context, g models.Goal) error {
	g.IsSynced = false
	if err := s.store.PutGoal(g); err != nil {
		return err
	}
	s.tryMirror(ctx, storage.Goals, g.ID, g, func() error {
		g.IsSynced = true
		return s.store.PutGoal(g)
	})
	return nil
}

func (s *Syncer) SaveTask(ctx context.Context, t models.Task) error {
	t.IsSynced = false
	if err := s.store.PutTask(t); err != nil {
		return err
	}
	s.tryMirror(ctx, storage.Tasks, t.ID, t, func() error {
		t.IsSynced = true
		return s.store.PutTask(t)
	})
	return nil
}

func (s *Syncer) SaveVaultItem(ctx context.Context, v models.VaultItem) error {
	v.IsSynced = false
	if err := s.store.PutVaultItem(v); err != nil {
		return err
	}
	s.tryMirror(ctx, storage.VaultItems, v.ID, v, func() error {
		v.IsSynced = true
		return s.store.PutVaultItem(v)
	})
	return nil
}

func (s *Syncer) tryMirror(ctx context.Context, collection storage.Collection, id string, record any, markSynced func() error) {
	userID, ok := s.remoteUser()
	if !ok {
		return
	}
	if err := s.push(ctx, userID, collection, id, record, markSynced); err != nil {
		logger.Warn("Record saved locally but not mirrored", "collection", collection, "id", id, "error", err)
	}
}

func (s *Syncer) push(ctx context.Context, userID string, collection storage.Collection, id string, record any, markSynced func() error) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	ref := mirror.CollectionRef{UserID: userID, Name: string(collection)}
	if err := s.mirror.Put(ctx, ref, id, data); err != nil {
		return err
	}
	if err := markSynced(); err != nil {
		return fmt.Errorf("mirrored but failed to mark synced: %w", err)
	}
	return nil
}

func (s *Syncer) remoteUser() (string, bool) {
	if s.mirror == nil || s.session == nil {
		return "", false
	}
	userID, err := s.session.UserID()
	if err != nil {
		return "", false
	}
	return userID, true
}
