package lifecycle

import (
	"fmt"

	"github.com/julianstephens/curiosity/internal/models"
)

// Snapshot reads all six collections from the store
func (c *Controller) Snapshot() (models.Snapshot, error) {
	snap := models.Snapshot{TakenAt: c.now().UTC()}
	var err error

	if snap.Entries, err = c.Store.GetAllEntries(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read entries: %w", err)
	}
	if snap.Reminders, err = c.Store.GetAllReminders(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read reminders: %w", err)
	}
	if snap.Settings, err = c.Store.GetSettings(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read settings: %w", err)
	}
	if snap.Goals, err = c.Store.GetAllGoals(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read goals: %w", err)
	}
	if snap.Tasks, err = c.Store.GetAllTasks(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read tasks: %w", err)
	}
	if snap.VaultItems, err = c.Store.GetAllVaultItems(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to read vault items: %w", err)
	}

	return snap, nil
}
