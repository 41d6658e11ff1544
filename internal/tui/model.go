package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifeplan/internal/autosave"
	"github.com/julianstephens/lifeplan/internal/constants"
	"github.com/julianstephens/lifeplan/internal/legacy"
	"github.com/julianstephens/lifeplan/internal/logger"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/planner"
	"github.com/julianstephens/lifeplan/internal/tui/components/editor"
	"github.com/julianstephens/lifeplan/internal/tui/components/tasklist"
	"github.com/julianstephens/lifeplan/internal/utils"
	"github.com/julianstephens/lifeplan/internal/validation"
)

// Field ids double as autosave keys
const (
	fieldAffirmation    = "affirmation"
	fieldWeekStart      = "week:start"
	fieldWeekIntentions = "week:intentions"
	fieldJournalDate    = "journal:date"
	fieldJournalTime    = "journal:time"
	fieldJournalContent = "journal:content"
	priorityFieldPrefix = "priority:"
	weekDayFieldPrefix  = "week:day:"
)

func priorityField(c models.Category) string {
	return priorityFieldPrefix + string(c)
}

func weekDayField(i int) string {
	return weekDayFieldPrefix + strconv.Itoa(i)
}

type TaskFormModel struct {
	Description string
	IsDaily     bool
}

type DeleteFormModel struct {
	ID          string
	Description string
	Confirmed   bool
}

type Model struct {
	planner   *planner.Service
	debouncer *autosave.Debouncer
	state     constants.SessionState
	keys      KeyMap
	help      help.Model

	dashboard editor.Model

	today     tasklist.Model
	backlog   tasklist.Model
	onBacklog bool

	weekly    editor.Model
	weekStart string

	journal  editor.Model
	feedback string
	history  []models.JournalEntry
	// historyDate is the date the history panel shows
	historyDate string

	form        *huh.Form
	taskForm    *TaskFormModel
	deleteForm  *DeleteFormModel
	editingTask *models.Task

	status            string
	statusIsError     bool
	validationWarning string
	quitting          bool
	width             int
	height            int
}

// New builds the TUI over the planner. Autosaves fire after delay of quiet input.
func New(p *planner.Service, delay time.Duration) Model {
	if delay <= 0 {
		delay = constants.DefaultAutosaveDelay
	}

	var dashFields []editor.Field
	for _, c := range models.Categories {
		dashFields = append(dashFields, editor.Field{ID: priorityField(c), Label: c.Title(), Lines: 2})
	}
	dashFields = append(dashFields, editor.Field{ID: fieldAffirmation, Label: "Affirmation", Lines: 3})

	weekFields := []editor.Field{{ID: fieldWeekStart, Label: "Week of (YYYY-MM-DD)", Lines: 1}}
	for i := 0; i < models.DaysPerWeek; i++ {
		weekFields = append(weekFields, editor.Field{ID: weekDayField(i), Label: time.Weekday((i + 1) % 7).String(), Lines: 2})
	}
	weekFields = append(weekFields, editor.Field{ID: fieldWeekIntentions, Label: "Intentions", Lines: 3})

	m := Model{
		planner:   p,
		debouncer: autosave.New(delay),
		state:     constants.StateDashboard,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		dashboard: editor.New(dashFields...),
		today:     tasklist.New(nil, true, 0, 0),
		backlog:   tasklist.New(nil, false, 0, 0),
		weekly:    editor.New(weekFields...),
		journal: editor.New(
			editor.Field{ID: fieldJournalDate, Label: "Date (YYYY-MM-DD)", Lines: 1},
			editor.Field{ID: fieldJournalTime, Label: "Time (HH:MMAM)", Lines: 1, Placeholder: "blank means now"},
			editor.Field{ID: fieldJournalContent, Label: "Reflection", Lines: 8, Placeholder: "How did today go?"},
		),
	}

	m.loadDashboard()
	m.refreshTasks()
	m.loadWeek(p.CurrentWeekStart())
	m.journal.SetValue(fieldJournalDate, p.Today())
	m.journal.SetValue(fieldJournalTime, utils.FormatClock(p.Now()))
	m.loadHistory(p.Today())
	m.updateValidationStatus()
	return m
}

func (m Model) Init() tea.Cmd {
	return waitForAutosave(m.debouncer)
}

func (m Model) ShortHelp() []key.Binding {
	if m.editing() {
		return []key.Binding{m.keys.Done, m.keys.Save}
	}
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDashboard:
		keys = append(keys, m.keys.Enter)
	case constants.StateTasks:
		keys = append(keys, m.keys.Add, m.keys.Toggle, m.keys.Delete, m.keys.Switch)
	case constants.StateWeekly:
		keys = append(keys, m.keys.Enter, m.keys.Prev, m.keys.Next)
	case constants.StateJournal:
		keys = append(keys, m.keys.Enter, m.keys.Submit, m.keys.Copy, m.keys.Prev, m.keys.Next)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Done, m.keys.Save}

	var actions []key.Binding
	switch m.state {
	case constants.StateTasks:
		actions = []key.Binding{m.keys.Add, m.keys.Toggle, m.keys.Edit, m.keys.Delete, m.keys.Move, m.keys.Switch}
	case constants.StateWeekly:
		actions = []key.Binding{m.keys.Prev, m.keys.Next}
	case constants.StateJournal:
		actions = []key.Binding{m.keys.Submit, m.keys.Copy, m.keys.NewEntry, m.keys.Prev, m.keys.Next}
	}
	return [][]key.Binding{global, navigation, actions}
}

// editing reports whether a text area on the current tab has focus
func (m Model) editing() bool {
	switch m.state {
	case constants.StateDashboard:
		return m.dashboard.Editing()
	case constants.StateWeekly:
		return m.weekly.Editing()
	case constants.StateJournal:
		return m.journal.Editing()
	}
	return false
}

func (m *Model) setStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusIsError = false
}

// setError shows err on the status line and logs it
func (m *Model) setError(action string, err error) {
	logger.Error("TUI action failed", "action", action, "error", err)
	m.status = fmt.Sprintf("%s: %v", action, err)
	m.statusIsError = true
}

func (m *Model) loadDashboard() {
	priorities, err := m.planner.Priorities()
	if err != nil {
		m.setError("Failed to load priorities", err)
		return
	}
	for _, p := range priorities {
		m.dashboard.SetValue(priorityField(p.Category), p.Description)
	}
	affirmation, err := m.planner.Affirmation()
	if err != nil {
		m.setError("Failed to load affirmation", err)
		return
	}
	m.dashboard.SetValue(fieldAffirmation, affirmation)
}

func (m *Model) refreshTasks() {
	today, err := m.planner.ListTasks(true)
	if err != nil {
		m.setError("Failed to load tasks", err)
		return
	}
	backlog, err := m.planner.ListTasks(false)
	if err != nil {
		m.setError("Failed to load tasks", err)
		return
	}
	m.today.SetTasks(today)
	m.backlog.SetTasks(backlog)
}

// loadWeek shows the week containing date, labelling each day with its date
func (m *Model) loadWeek(date string) {
	plan, err := m.planner.LoadWeek(date)
	if err != nil {
		m.setError("Failed to load week", err)
		m.weekly.SetValue(fieldWeekStart, m.weekStart)
		return
	}
	dates, err := m.planner.WeekDates(plan.WeekStart)
	if err != nil {
		m.setError("Failed to load week", err)
		return
	}

	m.weekStart = plan.WeekStart
	m.weekly.SetValue(fieldWeekStart, plan.WeekStart)
	for i := 0; i < models.DaysPerWeek; i++ {
		m.weekly.SetLabel(weekDayField(i), dates[i].Format("Monday, Jan 2"))
		m.weekly.SetValue(weekDayField(i), plan.Days[i])
	}
	m.weekly.SetValue(fieldWeekIntentions, plan.Intentions)
}

// loadHistory fills the history panel for date
func (m *Model) loadHistory(date string) {
	entries, err := m.planner.JournalHistory(date)
	if err != nil {
		m.setError("Failed to load journal", err)
		return
	}
	m.historyDate = date
	m.history = entries
}

// openJournalEntry loads the entry at the editor's date and time, or clears the editor
func (m *Model) openJournalEntry() {
	date := strings.TrimSpace(m.journal.Value(fieldJournalDate))
	clock := strings.TrimSpace(m.journal.Value(fieldJournalTime))
	m.feedback = ""
	entry, err := m.planner.JournalEntry(date, clock)
	if err == nil {
		m.journal.SetValue(fieldJournalContent, entry.Content)
		if entry.Feedback != nil {
			m.feedback = *entry.Feedback
		}
	} else {
		m.journal.SetValue(fieldJournalContent, "")
	}
	m.loadHistory(date)
}

// updateValidationStatus runs the data checks and updates the warning message
func (m *Model) updateValidationStatus() {
	snap, err := legacy.FromProvider(m.planner.Store())
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	result := validation.New().ValidateSnapshot(snap)
	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run '%s validate'", len(result.Conflicts), constants.AppName)
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	w := width - 6
	m.dashboard.SetWidth(w)
	m.weekly.SetWidth(w)
	m.journal.SetWidth(w / 2)
	listH := height - 8
	if listH < 5 {
		listH = 5
	}
	m.today.SetSize(w/2, listH)
	m.backlog.SetSize(w/2, listH)
	m.help.Width = width
}
