package constants

const (
	// General Settings
	SettingNotificationsEnabled = "notifications_enabled"
	SettingTimezone             = "timezone"
	SettingTheme                = "theme"
	SettingLastDecaySweep       = "last_decay_sweep"

	// Default Settings Values
	DefaultNotificationsEnabled = true
	DefaultTimezone             = "Local" // Use system local timezone by default
	DefaultTheme                = "spring"
)
