package constants

import "time"

const (
	AppName           = "curiosity"
	Version           = "v0.3.0"
	DefaultConfigPath = "~/.config/curiosity/curiosity.db"
	DatabaseName      = "curiosity.db"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimestampFormat is how timestamps are persisted in the local database.
	// Values are stored in UTC with a fixed width so they sort as text.
	TimestampFormat = "2006-01-02T15:04:05.000000000Z07:00"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "curiosity-"
	BackupFileSuffix = ".db"

	// Keyring constants. The credential keys share the CredentialKeyPrefix namespace.
	CredentialKeyPrefix          = "curiosity_"
	KeyringPINHash               = CredentialKeyPrefix + "pin_hash"
	KeyringBiometricCredentialID = CredentialKeyPrefix + "biometric_credential_id"
	KeyringSessionToken          = CredentialKeyPrefix + "session_token"
	KeyringMirrorConnection      = CredentialKeyPrefix + "mirror_connection"

	// Mirror constants
	MirrorBatchSize     = 500
	MirrorTableName     = "mirror_documents"
	MirrorUserNamespace = "users"

	// Lifecycle constants
	ReloadDelay = 2 * time.Second

	// Export formats
	ExportFormatMarkdown = "markdown"
	ExportFormatPDF      = "pdf"
	ExportFormatJSON     = "json"
)
