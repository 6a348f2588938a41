package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitbloom/internal/stats"
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Data is everything the stats tab shows
type Data struct {
	Overview     stats.OverviewStats
	Week         stats.WeekStats
	Ranking      []stats.RankEntry
	Achievements []stats.AchievementStatus
}

type Model struct {
	viewport viewport.Model
	data     *Data
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetData(d Data) {
	m.data = &d
	m.Render()
}

func row(label string, value interface{}) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func (m *Model) Render() {
	if m.data == nil {
		m.viewport.SetContent("No statistics loaded.")
		return
	}
	d := m.data
	var b strings.Builder

	b.WriteString(headingStyle.Render("Overview") + "\n")
	b.WriteString(row("Habits", d.Overview.TotalHabits) + "\n")
	b.WriteString(row("Today", fmt.Sprintf("%d/%d (%.1f%%)", d.Overview.CompletedToday, d.Overview.HabitsToday, d.Overview.TodayRate)) + "\n")
	b.WriteString(row("This month", fmt.Sprintf("%.1f%%", d.Overview.MonthlyRate)) + "\n")
	b.WriteString(row("Best streak now", d.Overview.CurrentMaxStreak) + "\n")
	b.WriteString(row("Longest streak", d.Overview.LongestStreak) + "\n")
	b.WriteString(row("Check-ins", d.Overview.TotalCompletions) + "\n\n")

	b.WriteString(headingStyle.Render("This week") + "\n")
	for _, day := range d.Week.Days {
		b.WriteString(row(fmt.Sprintf("%s %s", day.Weekday, day.Date[5:]), fmt.Sprintf("%d/%d", day.Completed, day.Total)) + "\n")
	}
	b.WriteString(row("Rate", fmt.Sprintf("%.1f%%", d.Week.Rate)) + "\n\n")

	if len(d.Ranking) > 0 {
		b.WriteString(headingStyle.Render("Ranking") + "\n")
		for _, r := range d.Ranking {
			b.WriteString(fmt.Sprintf("%2d. %s %s  🔥%d (best %d)\n", r.Rank, r.Icon, r.Name, r.CurrentStreak, r.LongestStreak))
		}
		b.WriteString("\n")
	}

	b.WriteString(headingStyle.Render(fmt.Sprintf("Achievements %d/%d", d.Overview.UnlockedAchievements, d.Overview.TotalAchievements)) + "\n")
	for _, a := range d.Achievements {
		line := fmt.Sprintf("%s %s - %s", a.Icon, a.Title, a.Description)
		if !a.Unlocked {
			line = lockedStyle.Render("🔒 " + a.Title + " - " + a.Description)
		}
		b.WriteString(line + "\n")
	}

	m.viewport.SetContent(b.String())
}
