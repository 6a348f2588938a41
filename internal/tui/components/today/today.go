package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitbloom/internal/garden"
	"github.com/julianstephens/habitbloom/internal/tracker"
)

type AddHabitMsg struct{}

type CheckInMsg struct {
	ID int64
}

type UndoMsg struct {
	ID int64
}

type WaterMsg struct {
	ID int64
}

type Item struct {
	tracker.TodayItem
}

func (i Item) Title() string {
	mark := "○"
	if i.CompletedToday {
		mark = "✓"
	}
	return fmt.Sprintf("%s %s %s", mark, i.Habit.Icon, i.Habit.Name)
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s %s | streak %d | health %d%%",
		garden.StageIcon(i.Habit.PlantType, i.Stage), garden.StageName(i.Stage), i.Habit.CurrentStreak, i.PlantHealth)
	if i.CompletedToday && i.Notes != "" {
		desc += " | " + i.Notes
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	CheckIn key.Binding
	Undo    key.Binding
	Water   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		CheckIn: key.NewBinding(
			key.WithKeys("c", " "),
			key.WithHelp("c", "check in"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Water: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "water"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []tracker.TodayItem, width, height int) Model {
	l := list.New(toItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.CheckIn, keys.Undo, keys.Water}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys

	return Model{list: l, keys: keys}
}

func toItems(items []tracker.TodayItem) []list.Item {
	out := make([]list.Item, len(items))
	for i, it := range items {
		out[i] = Item{TodayItem: it}
	}
	return out
}

func (m *Model) SetItems(items []tracker.TodayItem) {
	m.list.SetItems(toItems(items))
}

// Done returns how many items are checked in.
func (m Model) Done() (int, int) {
	done := 0
	for _, it := range m.list.Items() {
		if i, ok := it.(Item); ok && i.CompletedToday {
			done++
		}
	}
	return done, len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.CheckIn):
			if i, ok := m.list.SelectedItem().(Item); ok && !i.CompletedToday {
				return m, func() tea.Msg { return CheckInMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Undo):
			if i, ok := m.list.SelectedItem().(Item); ok && i.CompletedToday {
				return m, func() tea.Msg { return UndoMsg{ID: i.Habit.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Water):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return WaterMsg{ID: i.Habit.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  Your garden is empty.\n  Press 'a' to plant a habit."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
