package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

const entryColumns = "id, title, content, type, created_at, updated_at, is_synced"

func (s *Store) PutEntry(entry models.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID, entry.Title, entry.Content, string(entry.Type),
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt), entry.IsSynced,
	)
	if err != nil {
		return fmt.Errorf("failed to put entry: %w", err)
	}

	// Tags are replaced with the entry; foreign keys are not enabled so the
	// old rows are removed here rather than by cascade.
	if _, err := tx.Exec("DELETE FROM entry_tags WHERE entry_id = ?", entry.ID); err != nil {
		return fmt.Errorf("failed to replace entry tags: %w", err)
	}
	for _, tag := range normalizeTags(entry.Tags) {
		if _, err := tx.Exec("INSERT INTO entry_tags (entry_id, tag) VALUES (?, ?)", entry.ID, tag); err != nil {
			return fmt.Errorf("failed to insert entry tag: %w", err)
		}
	}

	return tx.Commit()
}

func (s *Store) GetEntry(id string) (models.Entry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Entry{}, fmt.Errorf("failed to get entry: %w", err)
	}

	entries := []models.Entry{entry}
	if err := s.attachTags(entries); err != nil {
		return models.Entry{}, err
	}
	return entries[0], nil
}

func (s *Store) GetAllEntries() ([]models.Entry, error) {
	return s.queryEntries("SELECT " + entryColumns + " FROM entries ORDER BY id")
}

// GetEntriesByTag returns the entries carrying tag, ordered by id
func (s *Store) GetEntriesByTag(tag string) ([]models.Entry, error) {
	return s.queryEntries(`
		SELECT e.id, e.title, e.content, e.type, e.created_at, e.updated_at, e.is_synced
		FROM entries e
		JOIN entry_tags t ON t.entry_id = e.id
		WHERE t.tag = ?
		ORDER BY e.id
	`, strings.TrimSpace(tag))
}

// GetEntriesBetween returns entries created within [from, to], oldest first
func (s *Store) GetEntriesBetween(from, to time.Time) ([]models.Entry, error) {
	return s.queryEntries(
		"SELECT "+entryColumns+" FROM entries WHERE created_at >= ? AND created_at <= ? ORDER BY created_at, id",
		formatTime(from), formatTime(to),
	)
}

func (s *Store) GetUnsyncedEntries() ([]models.Entry, error) {
	return s.queryEntries("SELECT " + entryColumns + " FROM entries WHERE is_synced = 0 ORDER BY id")
}

func (s *Store) DeleteEntry(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entry_tags WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete entry tags: %w", err)
	}
	res, err := tx.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}

	return tx.Commit()
}

func (s *Store) queryEntries(query string, args ...any) ([]models.Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Release the connection before the tag query runs on it.
	rows.Close()

	if err := s.attachTags(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Store) attachTags(entries []models.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	index := make(map[string]int, len(entries))
	placeholders := make([]string, len(entries))
	args := make([]any, len(entries))
	for i, e := range entries {
		index[e.ID] = i
		placeholders[i] = "?"
		args[i] = e.ID
	}

	rows, err := s.db.Query(
		"SELECT entry_id, tag FROM entry_tags WHERE entry_id IN ("+strings.Join(placeholders, ",")+") ORDER BY entry_id, tag",
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query entry tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entryID, tag string
		if err := rows.Scan(&entryID, &tag); err != nil {
			return fmt.Errorf("failed to scan entry tag: %w", err)
		}
		if i, ok := index[entryID]; ok {
			entries[i].Tags = append(entries[i].Tags, tag)
		}
	}
	return rows.Err()
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var entry models.Entry
	var entryType, createdAtStr, updatedAtStr string

	if err := row.Scan(
		&entry.ID, &entry.Title, &entry.Content, &entryType,
		&createdAtStr, &updatedAtStr, &entry.IsSynced,
	); err != nil {
		return models.Entry{}, err
	}

	entry.Type = models.EntryType(entryType)
	var err error
	if entry.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return models.Entry{}, err
	}
	if entry.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return models.Entry{}, err
	}
	entry.Tags = []string{}
	return entry, nil
}

// normalizeTags trims, drops blanks and removes duplicates
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
