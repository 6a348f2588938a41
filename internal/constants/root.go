package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "habitbloom"
	DefaultKeyringUser = "api-token"
	DefaultConfigPath  = "~/.config/habitbloom/habitbloom.db"
	ConfigFileName     = "config.yaml"
	EnvPrefix          = "HABITBLOOM_"
	Version            = "v1.0.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DefaultUserID is the singleton profile created by the first migration
	DefaultUserID int64 = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "habitbloom-"
	BackupFileSuffix = ".db"

	// Export constants
	ExportVersion = "1.0"

	// Notify constants
	NotifyMaxRetries       = 3
	NotifyRetryDelay       = 100 * time.Millisecond
	NotifierLockfileName   = "habitbloom-notifier.lock"
	NotifierSecretHeader   = "X-HabitBloom-Secret"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.habitbloom"
	TrayExecutablePrefix   = "habitbloom-tray"

	// Background service intervals
	ReminderPollInterval = time.Minute
	DecaySweepInterval   = time.Hour

	// API server
	DefaultServerAddr      = "127.0.0.1:8765"
	DefaultRateLimit       = 120
	DefaultRateLimitWindow = time.Minute
)

// Session States
const (
	StateToday SessionState = iota
	StateGarden
	StateStats
	StateAddHabit
)

// TabCount is the number of tabbed views; states from StateAddHabit on are
// overlays.
const TabCount = 3
