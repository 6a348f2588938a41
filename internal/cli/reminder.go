package cli

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/notifier"
	"github.com/julianstephens/habitbloom/internal/reminder"
)

type ReminderCmd struct {
	Add    ReminderAddCmd    `cmd:"" help:"Schedule a reminder for a habit."`
	List   ReminderListCmd   `cmd:"" help:"List reminders." default:"1"`
	Edit   ReminderEditCmd   `cmd:"" help:"Change a reminder's time or days."`
	Toggle ReminderToggleCmd `cmd:"" help:"Pause or resume a reminder."`
	Delete ReminderDeleteCmd `cmd:"" help:"Delete a reminder."`
	Next   ReminderNextCmd   `cmd:"" help:"Show when a habit's next reminder fires."`
	Check  ReminderCheckCmd  `cmd:"" help:"Deliver reminders due this minute to the terminal."`
}

type ReminderAddCmd struct {
	HabitID int64  `arg:"" help:"Habit ID."`
	Time    string `arg:"" help:"Time of day (HH:MM)."`
	Days    string `help:"Weekdays, e.g. mon,wed,fri or 1,3,5; also daily, weekdays, weekends." default:"daily"`
}

func (c *ReminderAddCmd) Run(ctx *Context) error {
	days, err := parseDays(c.Days)
	if err != nil {
		return err
	}
	r, err := ctx.Reminders().Create(c.HabitID, c.Time, days)
	if err != nil {
		return err
	}
	ctx.printf("⏰ Reminder %d set for %s on %s\n", r.ID, r.ReminderTime, formatDays(r.Days()))
	return nil
}

type ReminderListCmd struct {
	Habit int64 `help:"Only show reminders for this habit."`
	JSON  bool  `name:"json" help:"Print as JSON."`
}

func (c *ReminderListCmd) Run(ctx *Context) error {
	mgr := ctx.Reminders()
	if c.Habit != 0 {
		if _, err := ctx.Habits().GetHabit(c.Habit); err != nil {
			return err
		}
		list, err := mgr.List(c.Habit)
		if err != nil {
			return err
		}
		if c.JSON {
			if list == nil {
				list = []models.Reminder{}
			}
			return ctx.printJSON(list)
		}
		printReminders(ctx, list, nil)
		return nil
	}

	all, err := mgr.List(0)
	if err != nil {
		return err
	}
	if c.JSON {
		if all == nil {
			all = []models.Reminder{}
		}
		return ctx.printJSON(all)
	}
	habits, err := ctx.Habits().ListHabits(ctx.userID(), false)
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Icon + " " + h.Name
	}
	printReminders(ctx, all, names)
	return nil
}

func printReminders(ctx *Context, list []models.Reminder, names map[int64]string) {
	if len(list) == 0 {
		ctx.println("No reminders scheduled.")
		return
	}
	t := newTable("ID", "Habit", "Time", "Days", "Active")
	for _, r := range list {
		habit := strconv.FormatInt(r.HabitID, 10)
		if n, ok := names[r.HabitID]; ok {
			habit = n
		}
		active := "yes"
		if !r.IsActive {
			active = "paused"
		}
		t.Row(strconv.FormatInt(r.ID, 10), habit, r.ReminderTime, formatDays(r.Days()), active)
	}
	ctx.println(t.String())
}

type ReminderEditCmd struct {
	ID   int64  `arg:"" help:"Reminder ID."`
	Time string `help:"New time of day (HH:MM)."`
	Days string `help:"New weekdays."`
}

func (c *ReminderEditCmd) Run(ctx *Context) error {
	if c.Time == "" && c.Days == "" {
		return fmt.Errorf("nothing to update; pass --time or --days")
	}
	var days []int
	if c.Days != "" {
		var err error
		if days, err = parseDays(c.Days); err != nil {
			return err
		}
		if days == nil {
			days = []int{1, 2, 3, 4, 5, 6, 7}
		}
	}
	r, err := ctx.Reminders().Update(c.ID, c.Time, days)
	if err != nil {
		return err
	}
	ctx.printf("✓ Reminder %d now fires at %s on %s\n", r.ID, r.ReminderTime, formatDays(r.Days()))
	return nil
}

type ReminderToggleCmd struct {
	ID int64 `arg:"" help:"Reminder ID."`
}

func (c *ReminderToggleCmd) Run(ctx *Context) error {
	r, err := ctx.Reminders().Toggle(c.ID)
	if err != nil {
		return err
	}
	if r.IsActive {
		ctx.printf("✓ Reminder %d resumed\n", r.ID)
	} else {
		ctx.printf("✓ Reminder %d paused\n", r.ID)
	}
	return nil
}

type ReminderDeleteCmd struct {
	ID int64 `arg:"" help:"Reminder ID."`
}

func (c *ReminderDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Reminders().Delete(c.ID); err != nil {
		return err
	}
	ctx.printf("✓ Reminder %d deleted\n", c.ID)
	return nil
}

type ReminderNextCmd struct {
	HabitID int64 `arg:"" help:"Habit ID."`
}

func (c *ReminderNextCmd) Run(ctx *Context) error {
	next, err := ctx.Reminders().NextFor(c.HabitID)
	if err != nil {
		return err
	}
	ctx.printf("⏰ Next reminder (ID %d): %s\n", next.Reminder.ID, next.At.Format("Mon 2006-01-02 "+constants.TimeFormat))
	return nil
}

type ReminderCheckCmd struct{}

func (c *ReminderCheckCmd) Run(ctx *Context) error {
	svc := reminder.NewService(ctx.Reminders(), ctx.Garden(), notifier.NewConsole(ctx.out()),
		reminder.StoreSettings{Store: ctx.Store})
	svc.UserID = ctx.userID()
	n, err := svc.CheckReminders(ctx.clock()())
	if err != nil {
		return err
	}
	if n == 0 {
		ctx.println("No reminders due.")
	}
	return nil
}
