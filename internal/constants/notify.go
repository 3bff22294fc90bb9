package constants

const (
	// Notification defaults applied when a push payload omits a field
	DefaultNotificationTitle = "Curiosity Reminder"
	DefaultNotificationBody  = "You have a new reminder!"
	DefaultNotificationURL   = "/"
	NotificationIcon         = "/icons/icon-192x192.png"

	// Tray companion
	NotifierLockfileName = "curiosity-notifier.lock"
	TrayAppIdentifier    = "com.julianstephens.curiosity"
	TrayExecutablePrefix = "curiosity-tray"
	TraySecretHeader     = "X-Curiosity-Secret"

	// Push receiver
	DefaultPushAddr  = "127.0.0.1:7777"
	PushSecretHeader = "X-Curiosity-Secret"
	PushMaxBodyBytes = 64 * 1024
)
