package models

// GardenState is the plant attached to one habit
type GardenState struct {
	ID          int64  `json:"state_id"`
	UserID      int64  `json:"user_id"`
	HabitID     int64  `json:"habit_id"`
	PlantGrowth int    `json:"plant_growth"`
	PlantHealth int    `json:"plant_health"`
	LastWatered string `json:"last_watered,omitempty"` // YYYY-MM-DD format, empty if never watered
	Stage       int    `json:"stage"`
}
