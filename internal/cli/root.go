package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/julianstephens/habitbloom/internal/config"
	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/garden"
	"github.com/julianstephens/habitbloom/internal/reminder"
	"github.com/julianstephens/habitbloom/internal/stats"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/tracker"
	"github.com/julianstephens/habitbloom/internal/utils"
)

type Context struct {
	Store  storage.Provider
	Config config.Config
	Now    utils.Clock
	UserID int64
	Out    io.Writer
	In     io.Reader
}

func (c *Context) clock() utils.Clock {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

func (c *Context) userID() int64 {
	if c.UserID == 0 {
		return constants.DefaultUserID
	}
	return c.UserID
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(b))
	return nil
}

// confirm asks a yes/no question on In; anything but y/yes declines.
func (c *Context) confirm(question string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.printf("%s [y/N]: ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func (c *Context) Habits() *tracker.HabitManager {
	return tracker.NewHabitManager(c.Store, c.clock())
}

func (c *Context) Garden() *garden.Manager {
	return garden.NewManager(c.Store, c.clock())
}

func (c *Context) Stats() *stats.Service {
	return stats.NewService(c.Store, c.clock())
}

func (c *Context) Reminders() *reminder.Manager {
	return reminder.NewManager(c.Store, c.clock())
}

var weekdayNames = map[string]int{
	"mon": 1, "monday": 1,
	"tue": 2, "tuesday": 2,
	"wed": 3, "wednesday": 3,
	"thu": 4, "thursday": 4,
	"fri": 5, "friday": 5,
	"sat": 6, "saturday": 6,
	"sun": 7, "sunday": 7,
}

// parseDays reads a comma-separated weekday list as ISO weekdays (1=Monday).
// "daily" or an empty string selects every day.
func parseDays(s string) ([]int, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "daily" {
		return nil, nil
	}
	if s == "weekdays" {
		return []int{1, 2, 3, 4, 5}, nil
	}
	if s == "weekends" {
		return []int{6, 7}, nil
	}

	var days []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if d, ok := weekdayNames[part]; ok {
			days = append(days, d)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 1 || num > 7 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, num)
	}
	return days, nil
}

var isoDayAbbrev = [...]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func formatDays(days []int) string {
	if len(days) == 0 || len(days) == 7 {
		return "daily"
	}
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 1 && d <= 7 {
			names = append(names, isoDayAbbrev[d])
		}
	}
	return strings.Join(names, ",")
}

// yearMonth fills in the current year and month for zero values.
func (c *Context) yearMonth(year, month int) (int, time.Month, error) {
	now := c.clock()()
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month: %d", month)
	}
	return year, time.Month(month), nil
}

func bar(pct, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func checkmark(done bool) string {
	if done {
		return "✓"
	}
	return " "
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...)
}

func printUnlocked(ctx *Context, unlocked []constants.AchievementInfo) {
	for _, a := range unlocked {
		ctx.printf("🏆 Achievement unlocked: %s %s - %s\n", a.Icon, a.Title, a.Description)
	}
}
