package tasklist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeplan/internal/models"
)

type AddTaskMsg struct {
	IsDaily bool
}

type ToggleTaskMsg struct {
	ID string
}

type DeleteTaskMsg struct {
	ID string
}

type EditTaskMsg struct {
	Task models.Task
}

type MoveTaskMsg struct {
	ID string
}

// EmptySelectionMsg is sent when an action needs a task and none is selected
type EmptySelectionMsg struct{}

type Item struct {
	Task models.Task
}

func (i Item) Title() string {
	return i.Task.Mark() + " " + i.Task.Description
}

func (i Item) Description() string {
	if i.Task.Done() && i.Task.CompletedAt != nil {
		return "completed " + i.Task.CompletedAt.Format("Jan 2 03:04PM")
	}
	return "added " + i.Task.CreatedAt.Format("Jan 2 03:04PM")
}

func (i Item) FilterValue() string { return i.Task.Description }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Edit   key.Binding
	Delete key.Binding
	Move   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to today"),
		),
	}
}

// Model is one task list: today's tasks or the backlog
type Model struct {
	list    list.Model
	keys    KeyMap
	isDaily bool
}

func New(tasks []models.Task, isDaily bool, width, height int) Model {
	l := list.New(items(tasks), list.NewDefaultDelegate(), width, height)
	l.Title = "Backlog"
	if isDaily {
		l.Title = "Today"
	}
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)
	// quitting is handled by the main model
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	keys := DefaultKeyMap()
	bindings := []key.Binding{keys.Add, keys.Toggle, keys.Edit, keys.Delete}
	if !isDaily {
		bindings = append(bindings, keys.Move)
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	return Model{list: l, keys: keys, isDaily: isDaily}
}

func items(tasks []models.Task) []list.Item {
	out := make([]list.Item, len(tasks))
	for i, t := range tasks {
		out[i] = Item{Task: t}
	}
	return out
}

func (m *Model) SetTasks(tasks []models.Task) {
	m.list.SetItems(items(tasks))
}

func (m Model) IsDaily() bool {
	return m.isDaily
}

// Selected returns the highlighted task
func (m Model) Selected() (models.Task, bool) {
	i, ok := m.list.SelectedItem().(Item)
	if !ok {
		return models.Task{}, false
	}
	return i.Task, true
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			isDaily := m.isDaily
			return m, func() tea.Msg { return AddTaskMsg{IsDaily: isDaily} }
		case key.Matches(msg, m.keys.Toggle):
			return m, m.withSelected(func(t models.Task) tea.Msg { return ToggleTaskMsg{ID: t.ID} })
		case key.Matches(msg, m.keys.Edit):
			return m, m.withSelected(func(t models.Task) tea.Msg { return EditTaskMsg{Task: t} })
		case key.Matches(msg, m.keys.Delete):
			return m, m.withSelected(func(t models.Task) tea.Msg { return DeleteTaskMsg{ID: t.ID} })
		case key.Matches(msg, m.keys.Move):
			if m.isDaily {
				return m, nil
			}
			return m, m.withSelected(func(t models.Task) tea.Msg { return MoveTaskMsg{ID: t.ID} })
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) withSelected(build func(models.Task) tea.Msg) tea.Cmd {
	t, ok := m.Selected()
	if !ok {
		return func() tea.Msg { return EmptySelectionMsg{} }
	}
	return func() tea.Msg { return build(t) }
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  " + m.list.Title + "\n\n  No tasks yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
