package models

// Settings represents application-wide settings
type Settings struct {
	NotificationsEnabled bool   `json:"notifications_enabled"`      // whether reminders are delivered
	Timezone             string `json:"timezone"`                   // IANA timezone name or "Local"
	Theme                string `json:"theme"`                      // one of the garden color themes
	LastDecaySweep       string `json:"last_decay_sweep,omitempty"` // YYYY-MM-DD of the last health decay sweep
}
