package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/curiosity/internal/models"
	"github.com/julianstephens/curiosity/internal/storage"
)

const reminderColumns = "id, text, date, created_at, is_synced, fired_at"

func (s *Store) PutReminder(reminder models.Reminder) error {
	if reminder.ID == "" {
		return fmt.Errorf("reminder id is required")
	}

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO reminders (`+reminderColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		reminder.ID, reminder.Text, formatTime(reminder.Date), formatTime(reminder.CreatedAt),
		reminder.IsSynced, formatNullableTime(reminder.FiredAt),
	)
	if err != nil {
		return fmt.Errorf("failed to put reminder: %w", err)
	}
	return nil
}

func (s *Store) GetReminder(id string) (models.Reminder, error) {
	row := s.db.QueryRow("SELECT "+reminderColumns+" FROM reminders WHERE id = ?", id)
	reminder, err := scanReminder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Reminder{}, fmt.Errorf("reminder %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return models.Reminder{}, fmt.Errorf("failed to get reminder: %w", err)
	}
	return reminder, nil
}

func (s *Store) GetAllReminders() ([]models.Reminder, error) {
	return s.queryReminders("SELECT " + reminderColumns + " FROM reminders ORDER BY id")
}

// GetRemindersBetween returns reminders dated within [from, to], earliest first
func (s *Store) GetRemindersBetween(from, to time.Time) ([]models.Reminder, error) {
	return s.queryReminders(
		"SELECT "+reminderColumns+" FROM reminders WHERE date >= ? AND date <= ? ORDER BY date, id",
		formatTime(from), formatTime(to),
	)
}

func (s *Store) GetDueReminders(now time.Time) ([]models.Reminder, error) {
	return s.queryReminders(
		"SELECT "+reminderColumns+" FROM reminders WHERE fired_at IS NULL AND date <= ? ORDER BY date, id",
		formatTime(now),
	)
}

func (s *Store) GetUnsyncedReminders() ([]models.Reminder, error) {
	return s.queryReminders("SELECT " + reminderColumns + " FROM reminders WHERE is_synced = 0 ORDER BY id")
}

func (s *Store) DeleteReminder(id string) error {
	return s.deleteByID("reminders", id)
}

func (s *Store) queryReminders(query string, args ...any) ([]models.Reminder, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	reminders := []models.Reminder{}
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	return reminders, rows.Err()
}

func scanReminder(row rowScanner) (models.Reminder, error) {
	var reminder models.Reminder
	var dateStr, createdAtStr string
	var firedAtStr *string

	if err := row.Scan(
		&reminder.ID, &reminder.Text, &dateStr, &createdAtStr, &reminder.IsSynced, &firedAtStr,
	); err != nil {
		return models.Reminder{}, err
	}

	var err error
	if reminder.Date, err = parseTime(dateStr); err != nil {
		return models.Reminder{}, err
	}
	if reminder.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return models.Reminder{}, err
	}
	if reminder.FiredAt, err = parseNullableTime(firedAtStr); err != nil {
		return models.Reminder{}, err
	}
	return reminder, nil
}
