package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
)

// Reminder schedules a nudge for a habit at a time of day on selected weekdays
type Reminder struct {
	ID             int64  `json:"reminder_id"`
	HabitID        int64  `json:"habit_id"`
	ReminderTime   string `json:"reminder_time" validate:"required,hhmm"`   // HH:MM format
	DaysOfWeek     string `json:"days_of_week" validate:"required,daymask"` // ISO weekdays, 1=Monday ... 7=Sunday
	IsActive       bool   `json:"is_active"`
	NotificationID string `json:"notification_id"`
}

func (r *Reminder) Validate() error {
	if _, err := time.Parse(constants.TimeFormat, r.ReminderTime); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	if _, err := ParseDayMask(r.DaysOfWeek); err != nil {
		return err
	}
	return validateStruct(r)
}

// Days returns the parsed weekday mask. An invalid mask yields nil.
func (r *Reminder) Days() []int {
	days, _ := ParseDayMask(r.DaysOfWeek)
	return days
}

// FiresOn reports whether the reminder is scheduled for t's weekday
func (r *Reminder) FiresOn(t time.Time) bool {
	iso := ISOWeekday(t)
	for _, d := range r.Days() {
		if d == iso {
			return true
		}
	}
	return false
}

// ISOWeekday returns 1 for Monday through 7 for Sunday
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// ParseDayMask parses a comma-separated list of ISO weekdays, sorted and de-duplicated
func ParseDayMask(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("days of week cannot be empty")
	}
	seen := make(map[int]bool)
	var days []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 7 {
			return nil, fmt.Errorf("invalid weekday %q (expected 1-7, Monday=1)", strings.TrimSpace(part))
		}
		if !seen[n] {
			seen[n] = true
			days = append(days, n)
		}
	}
	sort.Ints(days)
	return days, nil
}

// FormatDayMask is the inverse of ParseDayMask
func FormatDayMask(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}
