package models

import (
	"time"

	"github.com/julianstephens/curiosity/internal/constants"
)

// Settings is the singleton preferences row. It is always stored under
// constants.SettingsID and replaced as a whole on save.
type Settings struct {
	ID            int       `json:"id" yaml:"id"`
	Username      string    `json:"username" yaml:"username"`
	ProfilePicURL string    `json:"profilePicUrl" yaml:"profilePicUrl"`
	ThemeColor    string    `json:"themeColor" yaml:"themeColor"`
	FontFamily    string    `json:"fontFamily" yaml:"fontFamily"`
	ThemeMode     string    `json:"themeMode" yaml:"themeMode"`
	FontSize      string    `json:"fontSize" yaml:"fontSize"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updatedAt"`
}

// DefaultSettings returns the settings a fresh install starts from
func DefaultSettings() Settings {
	return Settings{
		ID:         constants.SettingsID,
		ThemeColor: constants.DefaultThemeColor,
		FontFamily: constants.DefaultFontFamily,
		ThemeMode:  constants.DefaultThemeMode,
		FontSize:   constants.DefaultFontSize,
	}
}
