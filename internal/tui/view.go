package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitbloom/internal/constants"
)

var tabTitles = []string{"Today", "Garden", "Stats"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateToday:
		content = m.todayModel.View()
	case constants.StateGarden:
		content = docStyle.Render(m.plotsModel.View())
	case constants.StateStats:
		content = docStyle.Render(m.summaryModel.View())
	case constants.StateAddHabit:
		content = docStyle.Render(m.form.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewProgress(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range tabTitles {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewProgress() string {
	done, total := m.todayModel.Done()
	return progressStyle.Render(fmt.Sprintf("%d/%d habits watered today", done, total))
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return dangerStyle.Render("⚠ " + m.status)
	}
	return statusStyle.Render(m.status)
}
