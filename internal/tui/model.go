// Package tui is the interactive garden: today's check-ins, the plant cards
// and a statistics summary in three tabs.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitbloom/internal/constants"
	"github.com/julianstephens/habitbloom/internal/garden"
	"github.com/julianstephens/habitbloom/internal/stats"
	"github.com/julianstephens/habitbloom/internal/storage"
	"github.com/julianstephens/habitbloom/internal/tracker"
	"github.com/julianstephens/habitbloom/internal/tui/components/plots"
	"github.com/julianstephens/habitbloom/internal/tui/components/summary"
	"github.com/julianstephens/habitbloom/internal/tui/components/today"
	"github.com/julianstephens/habitbloom/internal/utils"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// tabs, progress line, status line and help
	chromeHeight = 6
)

type HabitFormModel struct {
	Name       string
	Icon       string
	Category   constants.Category
	PlantType  constants.PlantType
	Difficulty int
}

type Model struct {
	habits        *tracker.HabitManager
	garden        *garden.Manager
	stats         *stats.Service
	userID        int64
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	todayModel    today.Model
	plotsModel    plots.Model
	summaryModel  summary.Model
	form          *huh.Form
	habitForm     *HabitFormModel
	status        string
	statusErr     bool
	quitting      bool
	width         int
	height        int
}

func NewModel(store storage.Provider, now utils.Clock) Model {
	if now == nil {
		now = time.Now
	}
	h := defaultHeight - chromeHeight
	m := Model{
		habits:       tracker.NewHabitManager(store, now),
		garden:       garden.NewManager(store, now),
		stats:        stats.NewService(store, now),
		userID:       constants.DefaultUserID,
		state:        constants.StateToday,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		todayModel:   today.New(nil, defaultWidth, h),
		plotsModel:   plots.New(defaultWidth, h),
		summaryModel: summary.New(defaultWidth, h),
		width:        defaultWidth,
		height:       defaultHeight,
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	if m.state == constants.StateToday {
		keys = append(keys, m.keys.Add, m.keys.CheckIn, m.keys.Undo, m.keys.Water)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == constants.StateToday {
		actions = []key.Binding{m.keys.Add, m.keys.CheckIn, m.keys.Undo, m.keys.Water}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads every tab from storage.
func (m *Model) refresh() {
	items, err := m.habits.TodayStatus(m.userID)
	if err != nil {
		m.setError(err)
		return
	}
	m.todayModel.SetItems(items)

	ov, err := m.garden.Overview(m.userID)
	if err != nil {
		m.setError(err)
		return
	}
	m.plotsModel.SetGarden(ov)

	var d summary.Data
	if d.Overview, err = m.stats.Overview(m.userID); err != nil {
		m.setError(err)
		return
	}
	if d.Week, err = m.stats.Weekly(m.userID, 0); err != nil {
		m.setError(err)
		return
	}
	if d.Ranking, err = m.stats.Ranking(m.userID); err != nil {
		m.setError(err)
		return
	}
	if d.Achievements, err = m.stats.Achievements(m.userID); err != nil {
		m.setError(err)
		return
	}
	m.summaryModel.SetData(d)
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}
