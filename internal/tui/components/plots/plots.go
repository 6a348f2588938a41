package plots

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/garden"
)

const cardWidth = 24

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("34")).
			Padding(0, 1).
			Width(cardWidth)

	thirstyCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("214"))

	wiltingCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("196"))

	nameStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Model struct {
	viewport viewport.Model
	overview garden.Overview
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height), width: width, height: height}
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
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetGarden(ov garden.Overview) {
	m.overview = ov
	m.Render()
}

// Bar draws a ten-cell progress bar for a 0-100 value.
func Bar(pct int) string {
	filled := max(0, min(10, pct/10))
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

// Card renders one plant.
func Card(p garden.PlantInfo) string {
	style := cardStyle
	switch {
	case p.Health < constants.HealthyThreshold:
		style = wiltingCardStyle
	case p.NeedsWater:
		style = thirstyCardStyle
	}

	status := mutedStyle.Render("not yet today")
	if p.CompletedToday {
		status = "✓ checked in"
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render(fmt.Sprintf("%s %s", p.Icon, p.Name)),
		fmt.Sprintf("%s  %s", p.PlantIcon, p.StageName),
		fmt.Sprintf("growth %s", Bar(p.Growth)),
		fmt.Sprintf("health %s", Bar(p.Health)),
		fmt.Sprintf("🔥 %d days", p.CurrentStreak),
		status,
	)
	return style.Render(body)
}

func (m *Model) Render() {
	ov := m.overview
	if len(ov.Plants) == 0 {
		m.viewport.SetContent("No plants yet. Add a habit to start your garden.")
		return
	}

	perRow := max(1, m.width/(cardWidth+4))
	var rows []string
	for i := 0; i < len(ov.Plants); i += perRow {
		end := min(i+perRow, len(ov.Plants))
		cards := make([]string, 0, end-i)
		for _, p := range ov.Plants[i:end] {
			cards = append(cards, Card(p))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	header := fmt.Sprintf("%d plants | %d healthy | %d blooming | garden health %d%%",
		ov.TotalPlants, ov.HealthyPlants, ov.BloomingPlants, ov.GardenHealth)
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n")))
}
