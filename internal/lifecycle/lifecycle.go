// Package lifecycle owns the operations that touch every collection at once:
// exporting a snapshot and deleting all user data.
package lifecycle

import (
	"context"
	"io"
	"time"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/export"
	"github.com/julianstephens/curiosity/internal/mirror"
	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

// Store is the primary, authoritative store. Its failures are never hidden.
type Store interface {
	GetAllEntries() ([]models.Entry, error)
	GetAllReminders() ([]models.Reminder, error)
	GetSettings() (*models.Settings, error)
	GetAllGoals() ([]models.Goal, error)
	GetAllTasks() ([]models.Task, error)
	GetAllVaultItems() ([]models.VaultItem, error)
	Clear(storage.Collection) error
}

// Mirror is the best-effort remote copy
type Mirror interface {
	ListAll(ctx context.Context, ref mirror.CollectionRef) ([]mirror.Document, error)
	BatchDelete(ctx context.Context, ref mirror.CollectionRef, ids []string) (int64, error)
}

// Credentials holds the lock-screen secrets kept outside the store
type Credentials interface {
	ClearLocalCredentials() error
}

// Session reports the signed-in user
type Session interface {
	UserID() (string, error)
}

// Reloader rebuilds in-memory state from the store
type Reloader interface {
	Reload() error
}

// Controller runs export and delete-all against a primary store and an
// optional mirror. Mirror, Session and Reloader may be left nil.
type Controller struct {
	Store       Store
	Credentials Credentials
	Mirror      Mirror
	Session     Session
	Reloader    Reloader
	ReloadDelay time.Duration

	now       func() time.Time
	afterFunc func(time.Duration, func())
}

func New(store Store, creds Credentials) *Controller {
	return &Controller{
		Store:       store,
		Credentials: creds,
		ReloadDelay: constants.ReloadDelay,
		now:         time.Now,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Export writes a snapshot of every collection to w in the given format
func (c *Controller) Export(format string, w io.Writer) error {
	snap, err := c.Snapshot()
	if err != nil {
		return err
	}
	return export.Write(w, format, snap)
}
