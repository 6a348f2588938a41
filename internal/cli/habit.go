package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/habitbloom/internal/constants"
	apperrors "github.com/julianstephens/habitbloom/internal/errors"
	"github.com/julianstephens/habitbloom/internal/garden"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Plant a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Deactivate or delete a habit."`
	Checkin HabitCheckinCmd `cmd:"" help:"Check in a habit for today or a past date."`
	Undo    HabitUndoCmd    `cmd:"" help:"Undo a check-in."`
	History HabitHistoryCmd `cmd:"" help:"Show recent check-ins for a habit."`
	Today   HabitTodayCmd   `cmd:"" help:"Show today's habits." default:"1"`
	Stats   HabitStatsCmd   `cmd:"" help:"Show a habit's month calendar and completion rate."`
}

type HabitAddCmd struct {
	Name       string `arg:"" help:"Habit name."`
	Icon       string `help:"Emoji icon." default:"🌱"`
	Category   string `help:"Category (health, study, work, life)." default:"life"`
	Plant      string `help:"Plant type (flower, tree, cactus, herb)." default:"flower"`
	Difficulty int    `help:"Difficulty from 1 (easy) to 5 (challenge)." default:"1"`
	Frequency  int    `help:"Target check-ins per week." default:"7"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := checkKinds(&c.Category, &c.Plant); err != nil {
		return err
	}
	h, unlocked, err := ctx.Habits().CreateHabit(models.Habit{
		UserID:          ctx.userID(),
		Name:            c.Name,
		Icon:            c.Icon,
		Category:        constants.Category(c.Category),
		PlantType:       constants.PlantType(c.Plant),
		Difficulty:      c.Difficulty,
		TargetFrequency: c.Frequency,
	})
	if err != nil {
		return err
	}

	ctx.printf("✓ Planted %s %s (ID: %d) as a %s\n", h.Icon, h.Name, h.ID, constants.PlantTypes[h.PlantType].Name)
	printUnlocked(ctx, unlocked)
	return nil
}

type HabitListCmd struct {
	All      bool   `help:"Include deactivated habits."`
	Category string `help:"Only show one category."`
	JSON     bool   `name:"json" help:"Print as JSON."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	if err := checkKinds(&c.Category, nil); err != nil {
		return err
	}
	habits, err := ctx.Habits().ListHabits(ctx.userID(), !c.All)
	if err != nil {
		return err
	}
	if c.Category != "" {
		kept := habits[:0]
		for _, h := range habits {
			if string(h.Category) == c.Category {
				kept = append(kept, h)
			}
		}
		habits = kept
	}
	if c.JSON {
		if habits == nil {
			habits = []models.Habit{}
		}
		return ctx.printJSON(habits)
	}

	if len(habits) == 0 {
		ctx.println("No habits found. Plant one with: habitbloom habit add <name>")
		return nil
	}

	t := newTable("ID", "Habit", "Category", "Plant", "Difficulty", "Streak", "Best", "Total", "Active")
	for _, h := range habits {
		active := "yes"
		if !h.IsActive {
			active = "no"
		}
		t.Row(
			strconv.FormatInt(h.ID, 10),
			h.Icon+" "+h.Name,
			constants.Categories[h.Category].Name,
			constants.PlantTypes[h.PlantType].Name,
			constants.DifficultyLevels[h.Difficulty].Name,
			strconv.Itoa(h.CurrentStreak),
			strconv.Itoa(h.LongestStreak),
			strconv.Itoa(h.TotalCompleted),
			active,
		)
	}
	ctx.println(t.String())
	return nil
}

type HabitEditCmd struct {
	ID         int64   `arg:"" help:"Habit ID."`
	Name       *string `help:"New name."`
	Icon       *string `help:"New icon."`
	Category   *string `help:"New category (health, study, work, life)."`
	Plant      *string `help:"New plant type (flower, tree, cactus, herb)."`
	Difficulty *int    `help:"New difficulty (1-5)."`
	Frequency  *int    `help:"New weekly target."`
	Active     *bool   `help:"Set whether the habit is active."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	patch := models.HabitPatch{
		Name:            c.Name,
		Icon:            c.Icon,
		Category:        c.Category,
		PlantType:       c.Plant,
		Difficulty:      c.Difficulty,
		TargetFrequency: c.Frequency,
		IsActive:        c.Active,
	}
	if err := checkKinds(c.Category, c.Plant); err != nil {
		return err
	}
	if patch.IsEmpty() {
		return fmt.Errorf("nothing to update; pass at least one flag")
	}
	h, err := ctx.Habits().UpdateHabit(c.ID, patch)
	if err != nil {
		return err
	}
	ctx.printf("✓ Updated %s %s (ID: %d)\n", h.Icon, h.Name, h.ID)
	return nil
}

type HabitDeleteCmd struct {
	ID   int64 `arg:"" help:"Habit ID."`
	Hard bool  `help:"Remove the habit and all of its history instead of deactivating it."`
	Yes  bool  `short:"y" help:"Skip confirmation for --hard."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habits := ctx.Habits()
	h, err := habits.GetHabit(c.ID)
	if err != nil {
		return err
	}
	if c.Hard && !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Permanently delete %q and all of its check-ins?", h.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}
	if err := habits.DeleteHabit(c.ID, c.Hard); err != nil {
		return err
	}
	if c.Hard {
		ctx.printf("✓ Deleted %s and its history\n", h.Name)
	} else {
		ctx.printf("✓ Deactivated %s; its history is kept\n", h.Name)
	}
	return nil
}

type HabitCheckinCmd struct {
	ID    int64  `arg:"" help:"Habit ID."`
	Notes string `help:"Optional note for the day."`
	Date  string `help:"Date to check in (YYYY-MM-DD), defaults to today."`
}

func (c *HabitCheckinCmd) Run(ctx *Context) error {
	res, err := ctx.Habits().CheckIn(c.ID, c.Notes, c.Date)
	if err != nil {
		return err
	}
	h := res.Habit
	ctx.printf("✓ Watered %s %s\n", h.Icon, h.Name)
	ctx.printf("  Streak: %d day(s)  Total: %d\n", res.CurrentStreak, res.TotalCompleted)
	ctx.printf("  Plant: %s %s  growth %d/100  health %d/100\n",
		garden.StageIcon(h.PlantType, res.Plant.Stage), garden.StageName(res.Plant.Stage),
		res.Plant.PlantGrowth, res.Plant.PlantHealth)
	printUnlocked(ctx, res.Unlocked)
	return nil
}

type HabitUndoCmd struct {
	ID   int64  `arg:"" help:"Habit ID."`
	Date string `help:"Date to undo (YYYY-MM-DD), defaults to today."`
}

func (c *HabitUndoCmd) Run(ctx *Context) error {
	h, err := ctx.Habits().UndoCheckIn(c.ID, c.Date)
	if err != nil {
		return err
	}
	ctx.printf("✓ Undid check-in for %s (streak now %d)\n", h.Name, h.CurrentStreak)
	return nil
}

type HabitHistoryCmd struct {
	ID   int64 `arg:"" help:"Habit ID."`
	Days int   `help:"Number of days to show." default:"7"`
}

func (c *HabitHistoryCmd) Run(ctx *Context) error {
	habits := ctx.Habits()
	h, err := habits.GetHabit(c.ID)
	if err != nil {
		return err
	}
	days, err := habits.History(c.ID, c.Days)
	if err != nil {
		return err
	}

	ctx.printf("%s %s - last %d days\n\n", h.Icon, h.Name, len(days))
	done := 0
	for _, d := range days {
		if d.Completed {
			done++
		}
		line := fmt.Sprintf("  [%s] %s", checkmark(d.Completed), d.Date)
		if d.Notes != "" {
			line += "  " + d.Notes
		}
		ctx.println(line)
	}
	ctx.printf("\n%d/%d days completed\n", done, len(days))
	return nil
}

type HabitTodayCmd struct {
	JSON bool `name:"json" help:"Print as JSON."`
}

func (c *HabitTodayCmd) Run(ctx *Context) error {
	items, err := ctx.Habits().TodayStatus(ctx.userID())
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(items)
	}

	today := utils.FormatDate(ctx.clock()())
	if len(items) == 0 {
		ctx.printf("Your garden is empty on %s. Plant a habit with: habitbloom habit add <name>\n", today)
		return nil
	}

	done := 0
	ctx.printf("Today (%s)\n\n", today)
	for _, it := range items {
		if it.CompletedToday {
			done++
		}
		ctx.printf("  [%s] %3d  %s %-24s %s  streak %d\n",
			checkmark(it.CompletedToday), it.Habit.ID, it.Habit.Icon, it.Habit.Name,
			garden.StageIcon(it.Habit.PlantType, it.Stage), it.Habit.CurrentStreak)
	}
	ctx.printf("\n%d/%d habits watered today\n", done, len(items))
	return nil
}

type HabitStatsCmd struct {
	ID    int64 `arg:"" help:"Habit ID."`
	Year  int   `help:"Year, defaults to the current year."`
	Month int   `help:"Month (1-12), defaults to the current month."`
}

func (c *HabitStatsCmd) Run(ctx *Context) error {
	year, month, err := ctx.yearMonth(c.Year, c.Month)
	if err != nil {
		return err
	}
	habits := ctx.Habits()
	h, err := habits.GetHabit(c.ID)
	if err != nil {
		return err
	}
	st, err := habits.CompletionStats(c.ID, year, month)
	if err != nil {
		return err
	}

	ctx.printf("%s %s - %s %d\n\n", h.Icon, h.Name, month, year)
	var sb strings.Builder
	for day := 1; day <= st.TotalDays; day++ {
		mark := "·"
		if st.Calendar[day] {
			mark = "●"
		}
		fmt.Fprintf(&sb, "%2d%s ", day, mark)
		if day%7 == 0 {
			sb.WriteString("\n")
		}
	}
	ctx.println(strings.TrimRight(sb.String(), "\n "))
	ctx.printf("\nCompleted %d/%d days (%.1f%%)\n", st.CompletedCount, st.TotalDays, st.CompletionRate)
	ctx.printf("Current streak: %d  Longest streak: %d\n", st.CurrentStreak, st.LongestStreak)
	return nil
}

// checkKinds rejects unknown categories and plant types; nil or empty values
// are left alone.
func checkKinds(category, plant *string) error {
	if category != nil && *category != "" && !constants.IsValidCategory(*category) {
		return apperrors.Invalid("unknown category %q (want health, study, work or life)", *category)
	}
	if plant != nil && *plant != "" && !constants.IsValidPlantType(*plant) {
		return apperrors.Invalid("unknown plant type %q (want flower, tree, cactus or herb)", *plant)
	}
	return nil
}
