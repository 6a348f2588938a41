package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/stats"
)

type StatsCmd struct {
	Overview   StatsOverviewCmd   `cmd:"" help:"Show overall statistics." default:"1"`
	Weekly     StatsWeeklyCmd     `cmd:"" help:"Show a Monday-to-Sunday week."`
	Monthly    StatsMonthlyCmd    `cmd:"" help:"Show a calendar month with its trend."`
	Ranking    StatsRankingCmd    `cmd:"" help:"Rank habits by current streak."`
	Categories StatsCategoriesCmd `cmd:"" help:"Show statistics per category."`
	Calendar   StatsCalendarCmd   `cmd:"" help:"Show a habit's completed and missed days in a month."`
}

type StatsOverviewCmd struct {
	JSON bool `name:"json" help:"Print as JSON."`
}

func (c *StatsOverviewCmd) Run(ctx *Context) error {
	ov, err := ctx.Stats().Overview(ctx.userID())
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(ov)
	}

	ctx.println("📊 Overview")
	ctx.println()
	ctx.printf("  Active habits:       %d\n", ov.TotalHabits)
	ctx.printf("  Total check-ins:     %d\n", ov.TotalCompletions)
	ctx.printf("  Best current streak: %d\n", ov.CurrentMaxStreak)
	ctx.printf("  Longest streak:      %d\n", ov.LongestStreak)
	ctx.printf("  Today:               %d/%d (%.1f%%)\n", ov.CompletedToday, ov.HabitsToday, ov.TodayRate)
	ctx.printf("  Last 30 days:        %.1f%%\n", ov.MonthlyRate)
	ctx.printf("  Achievements:        %d/%d\n", ov.UnlockedAchievements, ov.TotalAchievements)
	return nil
}

type StatsWeeklyCmd struct {
	WeeksAgo int  `help:"How many weeks back (0 is this week)." default:"0"`
	JSON     bool `name:"json" help:"Print as JSON."`
}

func (c *StatsWeeklyCmd) Run(ctx *Context) error {
	if c.WeeksAgo < 0 {
		return fmt.Errorf("weeks-ago cannot be negative")
	}
	ws, err := ctx.Stats().Weekly(ctx.userID(), c.WeeksAgo)
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(ws)
	}

	ctx.printf("📅 Week %s to %s\n\n", ws.StartDate, ws.EndDate)
	printDays(ctx, ws.Days)
	ctx.printf("\n%d/%d check-ins (%.1f%%)\n", ws.TotalCompleted, ws.TotalExpected, ws.Rate)
	return nil
}

func printDays(ctx *Context, days []stats.DayStat) {
	for _, d := range days {
		ctx.printf("  %s %s  %s %d/%d\n", d.Weekday, d.Date, bar(int(d.Rate), 20), d.Completed, d.Total)
	}
}

type StatsMonthlyCmd struct {
	Year  int  `help:"Year, defaults to the current year."`
	Month int  `help:"Month (1-12), defaults to the current month."`
	JSON  bool `name:"json" help:"Print as JSON."`
}

func (c *StatsMonthlyCmd) Run(ctx *Context) error {
	year, month, err := ctx.yearMonth(c.Year, c.Month)
	if err != nil {
		return err
	}
	ms, err := ctx.Stats().Monthly(ctx.userID(), year, month)
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(ms)
	}

	ctx.printf("🗓  %s %d\n\n", ms.Month, ms.Year)
	printDays(ctx, ms.Days)
	ctx.println()
	ctx.printf("  Completed:      %d/%d (%.1f%%)\n", ms.TotalCompleted, ms.ExpectedCompletions, ms.CompletionRate)
	ctx.printf("  Longest streak: %d  Current streak: %d\n", ms.LongestStreak, ms.CurrentStreak)
	ctx.printf("  Trend:          %s\n", trendArrow(ms.Trend))
	return nil
}

func trendArrow(trend string) string {
	switch trend {
	case stats.TrendUp:
		return "↑ up"
	case stats.TrendDown:
		return "↓ down"
	default:
		return "→ stable"
	}
}

type StatsRankingCmd struct {
	JSON bool `name:"json" help:"Print as JSON."`
}

func (c *StatsRankingCmd) Run(ctx *Context) error {
	ranks, err := ctx.Stats().Ranking(ctx.userID())
	if err != nil {
		return err
	}
	if c.JSON {
		if ranks == nil {
			ranks = []stats.RankEntry{}
		}
		return ctx.printJSON(ranks)
	}
	if len(ranks) == 0 {
		ctx.println("No active habits to rank.")
		return nil
	}

	t := newTable("#", "Habit", "Streak", "Best", "Total")
	for _, r := range ranks {
		t.Row(
			strconv.Itoa(r.Rank),
			r.Icon+" "+r.Name,
			strconv.Itoa(r.CurrentStreak),
			strconv.Itoa(r.LongestStreak),
			strconv.Itoa(r.TotalCompleted),
		)
	}
	ctx.println(t.String())
	return nil
}

type StatsCategoriesCmd struct {
	JSON bool `name:"json" help:"Print as JSON."`
}

func (c *StatsCategoriesCmd) Run(ctx *Context) error {
	cats, err := ctx.Stats().CategoryStats(ctx.userID())
	if err != nil {
		return err
	}
	if c.JSON {
		if cats == nil {
			cats = []stats.CategoryStat{}
		}
		return ctx.printJSON(cats)
	}
	if len(cats) == 0 {
		ctx.println("No active habits yet.")
		return nil
	}

	t := newTable("Category", "Habits", "Check-ins", "Avg streak")
	for _, cs := range cats {
		t.Row(
			cs.Icon+" "+cs.Name,
			strconv.Itoa(cs.Habits),
			strconv.Itoa(cs.TotalCompleted),
			strconv.FormatFloat(cs.AvgStreak, 'f', 1, 64),
		)
	}
	ctx.println(t.String())
	return nil
}

type StatsCalendarCmd struct {
	ID    int64 `arg:"" help:"Habit ID."`
	Year  int   `help:"Year, defaults to the current year."`
	Month int   `help:"Month (1-12), defaults to the current month."`
}

func (c *StatsCalendarCmd) Run(ctx *Context) error {
	year, month, err := ctx.yearMonth(c.Year, c.Month)
	if err != nil {
		return err
	}
	cal, err := ctx.Stats().StreakCalendar(c.ID, year, month)
	if err != nil {
		return err
	}
	ctx.printf("%s %d\n", month, year)
	ctx.println(renderCalendar(year, month, cal))
	ctx.println("● completed  ○ missed  · upcoming")
	return nil
}

// renderCalendar draws a Monday-first month grid.
func renderCalendar(year int, month time.Month, cal map[int]string) string {
	var sb strings.Builder
	sb.WriteString(" Mo Tu We Th Fr Sa Su\n")
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	sb.WriteString(strings.Repeat("   ", offset))

	days := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	for day := 1; day <= days; day++ {
		mark := "·"
		switch cal[day] {
		case stats.DayCompleted:
			mark = "●"
		case stats.DayMissed:
			mark = "○"
		}
		sb.WriteString("  " + mark)
		if (offset+day)%7 == 0 && day != days {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

type AchievementsCmd struct {
	Check bool `help:"Evaluate every achievement rule and unlock the ones met."`
	JSON  bool `name:"json" help:"Print as JSON."`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	svc := ctx.Stats()
	if c.Check {
		unlocked, err := svc.CheckAndUnlockAchievements(ctx.userID())
		if err != nil {
			return err
		}
		if !c.JSON {
			if len(unlocked) == 0 {
				ctx.println("No new achievements.")
			}
			printUnlocked(ctx, unlocked)
			ctx.println()
		}
	}

	list, err := svc.Achievements(ctx.userID())
	if err != nil {
		return err
	}
	if c.JSON {
		return ctx.printJSON(list)
	}

	unlockedCount := 0
	for _, a := range list {
		if a.Unlocked {
			unlockedCount++
			when := ""
			if a.UnlockedAt != nil {
				when = " (unlocked " + a.UnlockedAt.Format(constants.DateFormat) + ")"
			}
			ctx.printf("  %s %-14s %s%s\n", a.Icon, a.Title, a.Description, when)
		} else {
			ctx.printf("  🔒 %-14s %s\n", a.Title, a.Description)
		}
	}
	ctx.printf("\n%d/%d achievements unlocked\n", unlockedCount, len(list))
	return nil
}
