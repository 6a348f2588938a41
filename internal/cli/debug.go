package cli

import (
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/utils"
)

type DebugCmd struct {
	DBPath    DebugDBPathCmd    `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit DebugDumpHabitCmd `cmd:"" help:"Dump a habit with its plant and reminders as JSON."`
	DumpDay   DebugDumpDayCmd   `cmd:"" help:"Dump every check-in of a day as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpHabitCmd struct {
	ID int64 `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	h, err := ctx.Store.GetHabit(cmd.ID)
	if err != nil {
		return err
	}
	plant, err := ctx.Store.GetGardenState(cmd.ID)
	if err != nil {
		return err
	}
	reminders, err := ctx.Store.GetReminders(cmd.ID)
	if err != nil {
		return err
	}
	dates, err := ctx.Store.GetCompletedDates(cmd.ID)
	if err != nil {
		return err
	}
	return ctx.printJSON(map[string]any{
		"habit":           h,
		"plant":           plant,
		"reminders":       reminders,
		"completed_dates": dates,
	})
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	now := ctx.clock()()
	date := cmd.Date
	if date == "today" {
		date = utils.FormatDate(now)
	}
	if _, err := utils.ParseDate(date, now.Location()); err != nil {
		return apperrors.Invalid("invalid date %q (expected YYYY-MM-DD)", date)
	}
	records, err := ctx.Store.GetRecordsForUser(ctx.userID(), date, date)
	if err != nil {
		return err
	}
	if records == nil {
		records = []models.HabitRecord{}
	}
	return ctx.printJSON(records)
}
