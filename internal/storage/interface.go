package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/curiosity/internal/models"
)

// ErrNotFound is returned by the Get methods when no record has the requested key
var ErrNotFound = errors.New("record not found")

// Collection names one of the local collections
type Collection string

const (
	Entries    Collection = "entries"
	Reminders  Collection = "reminders"
	Settings   Collection = "settings"
	Goals      Collection = "goals"
	Tasks      Collection = "tasks"
	VaultItems Collection = "vaultItems"
)

// AllCollections lists every local collection in the order they are cleared
var AllCollections = []Collection{Entries, Reminders, Settings, Goals, Tasks, VaultItems}

// MirroredCollections lists the collections that have a remote counterpart.
// Settings are mirrored through the profile document instead.
var MirroredCollections = []Collection{Entries, Reminders, Goals, Tasks, VaultItems}

// Valid reports whether c names a known collection
func (c Collection) Valid() bool {
	for _, known := range AllCollections {
		if c == known {
			return true
		}
	}
	return false
}

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (*models.Settings, error)
	SaveSettings(models.Settings) error

	// Entries
	PutEntry(models.Entry) error
	GetEntry(id string) (models.Entry, error)
	GetAllEntries() ([]models.Entry, error)
	GetEntriesByTag(tag string) ([]models.Entry, error)
	GetEntriesBetween(from, to time.Time) ([]models.Entry, error)
	GetUnsyncedEntries() ([]models.Entry, error)
	DeleteEntry(id string) error

	// Reminders
	PutReminder(models.Reminder) error
	GetReminder(id string) (models.Reminder, error)
	GetAllReminders() ([]models.Reminder, error)
	GetRemindersBetween(from, to time.Time) ([]models.Reminder, error)
	// GetDueReminders returns reminders dated at or before now that have not fired yet
	GetDueReminders(now time.Time) ([]models.Reminder, error)
	GetUnsyncedReminders() ([]models.Reminder, error)
	DeleteReminder(id string) error

	// Goals
	PutGoal(models.Goal) error
	GetGoal(id string) (models.Goal, error)
	GetAllGoals() ([]models.Goal, error)
	GetGoalsByStatus(status models.GoalStatus) ([]models.Goal, error)
	GetUnsyncedGoals() ([]models.Goal, error)
	DeleteGoal(id string) error

	// Tasks
	PutTask(models.Task) error
	GetTask(id string) (models.Task, error)
	GetAllTasks() ([]models.Task, error)
	GetTasksForGoal(goalID string) ([]models.Task, error)
	GetUnsyncedTasks() ([]models.Task, error)
	DeleteTask(id string) error

	// Vault
	PutVaultItem(models.VaultItem) error
	GetVaultItem(id string) (models.VaultItem, error)
	GetAllVaultItems() ([]models.VaultItem, error)
	GetUnsyncedVaultItems() ([]models.VaultItem, error)
	DeleteVaultItem(id string) error

	// Clear empties one collection. Each call is its own transaction.
	Clear(Collection) error

	// Utils
	GetConfigPath() string
}
