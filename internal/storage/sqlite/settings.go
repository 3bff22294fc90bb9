package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/curiosity/internal/constants"
	"github.com/julianstephens/curiosity/internal/models"
)

// GetSettings returns the settings row, or nil if settings were never saved
func (s *Store) GetSettings() (*models.Settings, error) {
	var settings models.Settings
	var updatedAtStr string

	err := s.db.QueryRow(`
		SELECT id, username, profile_pic_url, theme_color, font_family, theme_mode, font_size, updated_at
		FROM settings
		WHERE id = ?
	`, constants.SettingsID).Scan(
		&settings.ID, &settings.Username, &settings.ProfilePicURL, &settings.ThemeColor,
		&settings.FontFamily, &settings.ThemeMode, &settings.FontSize, &updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	if settings.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings replaces the whole settings row. Fields left empty in settings
// are stored empty; nothing is merged from the previous row. The id is forced
// to the singleton key and UpdatedAt to the current time.
func (s *Store) SaveSettings(settings models.Settings) error {
	settings.ID = constants.SettingsID
	settings.UpdatedAt = s.now()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO settings (
			id, username, profile_pic_url, theme_color, font_family, theme_mode, font_size, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		settings.ID, settings.Username, settings.ProfilePicURL, settings.ThemeColor,
		settings.FontFamily, settings.ThemeMode, settings.FontSize, formatTime(settings.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
