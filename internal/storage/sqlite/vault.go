package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

const vaultColumns = "id, title, type, encrypted_data, created_at, updated_at, is_synced"

func (s *Store) PutVaultItem(item models.VaultItem) error {
	if item.ID == "" {
		return fmt.Errorf("vault item id is required")
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO vault_items (`+vaultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID, item.Title, item.Type, item.EncryptedData,
		formatTime(item.CreatedAt), formatTime(item.UpdatedAt), item.IsSynced,
	)
	if err != nil {
		return fmt.Errorf("failed to put vault item: %w", err)
	}
	return nil
}

func (s *Store) GetVaultItem(id string) (models.VaultItem, error) {
	row := s.db.QueryRow("SELECT "+vaultColumns+" FROM vault_items WHERE id = ?", id)
	item, err := scanVaultItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VaultItem{}, fmt.Errorf("vault item %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.VaultItem{}, fmt.Errorf("failed to get vault item: %w", err)
	}
	return item, nil
}

func (s *Store) GetAllVaultItems() ([]models.VaultItem, error) {
	return s.queryVaultItems("SELECT " + vaultColumns + " FROM vault_items ORDER BY id")
}

func (s *Store) GetUnsyncedVaultItems() ([]models.VaultItem, error) {
	return s.queryVaultItems("SELECT " + vaultColumns + " FROM vault_items WHERE is_synced = 0 ORDER BY id")
}

func (s *Store) DeleteVaultItem(id string) error {
	return s.deleteByID("vault_items", id)
}

func (s *Store) queryVaultItems(query string, args ...any) ([]models.VaultItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query vault items: %w", err)
	}
	defer rows.Close()

	items := []models.VaultItem{}
	for rows.Next() {
		item, err := scanVaultItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vault item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanVaultItem(row rowScanner) (models.VaultItem, error) {
	var item models.VaultItem
	var createdAtStr, updatedAtStr string

	if err := row.Scan(
		&item.ID, &item.Title, &item.Type, &item.EncryptedData,
		&createdAtStr, &updatedAtStr, &item.IsSynced,
	); err != nil {
		return models.VaultItem{}, err
	}

	var err error
	if item.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return models.VaultItem{}, err
	}
	if item.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return models.VaultItem{}, err
	}
	return item, nil
}
