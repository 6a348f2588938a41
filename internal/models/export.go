package models

// ExportData is the full-database JSON backup document
type ExportData struct {
	ExportTime   string        `json:"export_time"`
	Version      string        `json:"version"`
	Users        []User        `json:"users"`
	Habits       []Habit       `json:"habits"`
	Records      []HabitRecord `json:"records"`
	Reminders    []Reminder    `json:"reminders"`
	Achievements []Achievement `json:"achievements"`
	GardenStates []GardenState `json:"garden_states"`
}

// Counts summarises row totals per table
func (d *ExportData) Counts() map[string]int {
	return map[string]int{
		"users":         len(d.Users),
		"habits":        len(d.Habits),
		"records":       len(d.Records),
		"reminders":     len(d.Reminders),
		"achievements":  len(d.Achievements),
		"garden_states": len(d.GardenStates),
	}
}
