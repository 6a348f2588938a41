package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/models"
	"github.com/julianstephens/habitbloom/internal/tui/components/today"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == constants.StateAddHabit {
		return m.updateAddHabit(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h := max(1, msg.Height-chromeHeight)
		m.todayModel.SetSize(msg.Width, h)
		m.plotsModel.SetSize(msg.Width, h)
		m.summaryModel.SetSize(msg.Width, h)
		return m, nil

	case today.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Category:   constants.DefaultCategory,
			PlantType:  constants.DefaultPlantType,
			Difficulty: constants.DefaultDifficulty,
		}
		m.form = NewHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case today.CheckInMsg:
		res, err := m.habits.CheckIn(msg.ID, "", "")
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Checked in %s: streak %d, growth %d%%%s",
			res.Habit.Name, res.CurrentStreak, res.Plant.PlantGrowth, unlockedSuffix(res.Unlocked)))
		m.refresh()
		return m, nil

	case today.UndoMsg:
		h, err := m.habits.UndoCheckIn(msg.ID, "")
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Undid today's check-in for %s", h.Name))
		m.refresh()
		return m, nil

	case today.WaterMsg:
		p, err := m.garden.WaterPlant(msg.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Watered %s: health %d%%", p.Name, p.Health))
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % constants.TabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + constants.TabCount) % constants.TabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case constants.StateGarden:
		m.plotsModel, cmd = m.plotsModel.Update(msg)
	case constants.StateStats:
		m.summaryModel, cmd = m.summaryModel.Update(msg)
	}
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	var cmds []tea.Cmd
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	cmds = append(cmds, cmd)

	switch m.form.State {
	case huh.StateCompleted:
		h, unlocked, err := m.habits.CreateHabit(models.Habit{
			UserID:     m.userID,
			Name:       m.habitForm.Name,
			Icon:       m.habitForm.Icon,
			Category:   m.habitForm.Category,
			PlantType:  m.habitForm.PlantType,
			Difficulty: m.habitForm.Difficulty,
		})
		if err != nil {
			// Stay in the form so the user can fix the input or cancel
			m.setError(err)
			m.form.State = huh.StateNormal
			return m, tea.Batch(cmds...)
		}
		m.setStatus(fmt.Sprintf("Planted %s %s%s", h.Icon, h.Name, unlockedSuffix(unlocked)))
		m.refresh()
		m.state = constants.StateToday
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, tea.Batch(cmds...)
}

func unlockedSuffix(unlocked []constants.AchievementInfo) string {
	if len(unlocked) == 0 {
		return ""
	}
	names := make([]string, len(unlocked))
	for i, a := range unlocked {
		names[i] = a.Icon + " " + a.Title
	}
	return " | unlocked " + strings.Join(names, ", ")
}
