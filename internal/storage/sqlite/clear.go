package sqlite

import (
	"fmt"

	"github.com/julianstephens/curiosity/internal/storage"
)

var collectionTables = map[storage.Collection][]string{
	storage.Entries:    {"entry_tags", "entries"},
	storage.Reminders:  {"reminders"},
	storage.Settings:   {"settings"},
	storage.Goals:      {"goals"},
	storage.Tasks:      {"tasks"},
	storage.VaultItems: {"vault_items"},
}

// Clear removes every record of one collection in a single transaction
func (s *Store) Clear(collection storage.Collection) error {
	tables, ok := collectionTables[collection]
	if !ok {
		return fmt.Errorf("unknown collection: %q", collection)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to clear %s: %w", collection, err)
	}
	return nil
}

func (s *Store) deleteByID(table, id string) error {
	res, err := s.db.Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", table, id, storage.ErrNotFound)
	}
	return nil
}
