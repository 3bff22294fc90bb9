package syncer

import (
	"context"
	"fmt"

	"github.com/julianstephens/curiosity/internal/logger"
	"github.com/julianstephens/curiosity/internal/storage"
)

// Flush pushes every unsynced record, collection by collection, and stops at
// the first mirror error. It returns how many records were pushed.
func (s *Syncer) Flush(ctx context.Context) (int, error) {
	userID, ok := s.remoteUser()
	if !ok {
		return 0, ErrNoRemote
	}

	pushed := 0
	push := func(collection storage.Collection, id string, record any, markSynced func() error) error {
		if err := s.push(ctx, userID, collection, id, record, markSynced); err != nil {
			return fmt.Errorf("%s/%s: %w", collection, id, err)
		}
		pushed++
		return nil
	}

	entries, err := s.store.GetUnsyncedEntries()
	if err != nil {
		return pushed, err
	}
	for _, e := range entries {
		if err := push(storage.Entries, e.ID, e, func() error { e.IsSynced = true; return s.store.PutEntry(e) }); err != nil {
			return pushed, err
		}
	}

	reminders, err := s.store.GetUnsyncedReminders()
	if err != nil {
		return pushed, err
	}
	for _, r := range reminders {
		if err := push(storage.Reminders, r.ID, r, func() error { r.IsSynced = true; return s.store.PutReminder(r) }); err != nil {
			return pushed, err
		}
	}

	goals, err := s.store.GetUnsyncedGoals()
	if err != nil {
		return pushed, err
	}
	for _, g := range goals {
		if err := push(storage.Goals, g.ID, g, func() error { g.IsSynced = true; return s.store.PutGoal(g) }); err != nil {
			return pushed, err
		}
	}

	tasks, err := s.store.GetUnsyncedTasks()
	if err != nil {
		return pushed, err
	}
	for _, t := range tasks {
		if err := push(storage.Tasks, t.ID, t, func() error { t.IsSynced = true; return s.store.PutTask(t) }); err != nil {
			return pushed, err
		}
	}

	items, err := s.store.GetUnsyncedVaultItems()
	if err != nil {
		return pushed, err
	}
	for _, v := range items {
		if err := push(storage.VaultItems, v.ID, v, func() error { v.IsSynced = true; return s.store.PutVaultItem(v) }); err != nil {
			return pushed, err
		}
	}

	logger.Info("Sync flushed", "pushed", pushed)
	return pushed, nil
}
