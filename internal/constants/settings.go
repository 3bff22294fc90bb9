package constants

const (
	// SettingsID is the fixed primary key of the singleton settings row
	SettingsID = 1

	// Default Settings Values
	DefaultThemeColor = "#6366f1"
	DefaultFontFamily = "Inter"
	DefaultThemeMode  = "system"
	DefaultFontSize   = "medium"
)
