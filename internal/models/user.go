package models

import "time"

// User is the singleton garden owner profile
type User struct {
	ID            int64      `json:"user_id"`
	Username      string     `json:"username" validate:"required,max=50"`
	AvatarColor   string     `json:"avatar_color" validate:"required,hexcolor"`
	DailyGoalTime string     `json:"daily_goal_time" validate:"required,hhmm"`
	CreatedAt     time.Time  `json:"created_at"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

func (u *User) Validate() error {
	return validateStruct(u)
}
