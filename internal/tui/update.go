package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/lifeplan/internal/constants"
	apperrors "github.com/julianstephens/lifeplan/internal/errors"
	"github.com/julianstephens/lifeplan/internal/planner"
	"github.com/julianstephens/lifeplan/internal/tui/components/editor"
	"github.com/julianstephens/lifeplan/internal/tui/components/tasklist"
)

type copiedMsg struct {
	err error
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)
		return m, nil

	case autosaveMsg:
		m.autosave(msg.field)
		return m, tea.Batch(waitForAutosave(m.debouncer), cmdClearStatus())

	case clearStatusMsg:
		if !m.statusIsError {
			m.status = ""
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.setError("Copy failed", msg.err)
		} else {
			m.setStatus("✓ Feedback copied to clipboard")
		}
		return m, cmdClearStatus()

	case tasklist.AddTaskMsg:
		m.taskForm = &TaskFormModel{IsDaily: msg.IsDaily}
		m.form = NewAddTaskForm(m.taskForm)
		m.state = constants.StateAddTask
		return m, m.form.Init()

	case tasklist.EditTaskMsg:
		task := msg.Task
		m.editingTask = &task
		m.taskForm = &TaskFormModel{Description: task.Description, IsDaily: task.IsDaily}
		m.form = NewEditTaskForm(m.taskForm)
		m.state = constants.StateEditTask
		return m, m.form.Init()

	case tasklist.DeleteTaskMsg:
		task, err := m.planner.FindTask(msg.ID)
		if err != nil {
			m.setError("Delete failed", err)
			return m, nil
		}
		m.deleteForm = &DeleteFormModel{ID: task.ID, Description: task.Description}
		m.form = NewDeleteConfirm(task.Description, &m.deleteForm.Confirmed)
		m.state = constants.StateConfirmDelete
		return m, m.form.Init()

	case tasklist.ToggleTaskMsg:
		task, err := m.planner.ToggleTask(msg.ID)
		if err != nil {
			m.setError("Toggle failed", err)
			return m, nil
		}
		m.refreshTasks()
		m.setStatus("%s %s", task.Mark(), task.Description)
		return m, cmdClearStatus()

	case tasklist.MoveTaskMsg:
		task, err := m.planner.MoveTaskToDaily(msg.ID)
		if err != nil {
			m.setError("Move failed", err)
			return m, nil
		}
		m.refreshTasks()
		m.setStatus("Moved %q to today", task.Description)
		return m, cmdClearStatus()

	case tasklist.EmptySelectionMsg:
		m.status = apperrors.ErrNoSelection.Error()
		m.statusIsError = true
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forwardToEditor(msg)
	}

	if keyMsg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.editing() {
		return m.updateEditing(keyMsg)
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m.quit()
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.switchTab(1)
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.switchTab(-1)
		return m, nil
	case key.Matches(keyMsg, m.keys.Save):
		m.saveNow()
		return m, cmdClearStatus()
	}

	switch m.state {
	case constants.StateDashboard:
		return m.updateEditorNav(keyMsg, &m.dashboard)
	case constants.StateTasks:
		return m.updateTasks(keyMsg)
	case constants.StateWeekly:
		return m.updateWeekly(keyMsg)
	case constants.StateJournal:
		return m.updateJournal(keyMsg)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	// pending autosaves are dropped
	m.debouncer.Stop()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) switchTab(step int) {
	views := constants.MainViews
	idx := 0
	for i, v := range views {
		if v == m.state {
			idx = i
		}
	}
	m.state = views[(idx+step+len(views))%len(views)]
}

// saveNow writes the pending fields and the selected field of the current tab
func (m *Model) saveNow() {
	m.flush()
	var field string
	switch m.state {
	case constants.StateDashboard:
		field = m.dashboard.Selected()
	case constants.StateWeekly:
		field = m.weekly.Selected()
	case constants.StateJournal:
		field = m.journal.Selected()
	}
	if autosaved(field) {
		m.debouncer.Cancel(field)
		m.autosave(field)
	}
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.applyForm()
		m.closeForm()
		return m, tea.Batch(cmd, cmdClearStatus())
	case huh.StateAborted:
		m.closeForm()
	}
	return m, cmd
}

func (m *Model) applyForm() {
	switch m.state {
	case constants.StateAddTask:
		task, err := m.planner.AddTask(m.taskForm.Description, m.taskForm.IsDaily)
		if err != nil {
			m.setError("Add failed", err)
			return
		}
		m.onBacklog = !task.IsDaily
		m.setStatus("Added %q", task.Description)

	case constants.StateEditTask:
		if m.editingTask == nil {
			return
		}
		task, err := m.planner.EditTask(m.editingTask.ID, m.taskForm.Description)
		if err != nil {
			m.setError("Edit failed", err)
			return
		}
		m.setStatus("Updated %q", task.Description)

	case constants.StateConfirmDelete:
		if m.deleteForm == nil || !m.deleteForm.Confirmed {
			return
		}
		if err := m.planner.DeleteTask(m.deleteForm.ID); err != nil {
			m.setError("Delete failed", err)
			return
		}
		m.setStatus("Deleted %q", m.deleteForm.Description)
	}
	m.refreshTasks()
	m.updateValidationStatus()
}

func (m *Model) closeForm() {
	m.form = nil
	m.taskForm = nil
	m.deleteForm = nil
	m.editingTask = nil
	m.state = constants.StateTasks
}

// current returns the editor of the active tab
func (m *Model) current() *editor.Model {
	switch m.state {
	case constants.StateDashboard:
		return &m.dashboard
	case constants.StateWeekly:
		return &m.weekly
	case constants.StateJournal:
		return &m.journal
	}
	return nil
}

func (m Model) forwardToEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	ed := m.current()
	if ed == nil || !ed.Editing() {
		return m, nil
	}
	var cmd tea.Cmd
	*ed, cmd, _ = ed.Update(msg)
	return m, cmd
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ed := m.current()
	if ed == nil {
		return m, nil
	}
	field := ed.Selected()
	singleLine := field == fieldWeekStart || field == fieldJournalDate || field == fieldJournalTime

	switch {
	case key.Matches(msg, m.keys.Done), singleLine && msg.Type == tea.KeyEnter:
		ed.StopEditing()
		m.finishField(field)
		return m, nil
	case key.Matches(msg, m.keys.Save):
		m.saveNow()
		return m, cmdClearStatus()
	}

	var cmd tea.Cmd
	var changed string
	*ed, cmd, changed = ed.Update(msg)
	if changed != "" && autosaved(changed) {
		m.debouncer.Schedule(changed)
	}
	return m, cmd
}

// finishField reacts to leaving a field: navigation inputs reload their tab
func (m *Model) finishField(field string) {
	switch field {
	case fieldWeekStart:
		m.flush(weekDayFieldPrefix, fieldWeekIntentions)
		m.loadWeek(strings.TrimSpace(m.weekly.Value(fieldWeekStart)))
	case fieldJournalDate, fieldJournalTime:
		m.flush(fieldJournalContent)
		m.openJournalEntry()
	}
}

func (m Model) updateEditorNav(msg tea.KeyMsg, ed *editor.Model) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		ed.Prev()
	case key.Matches(msg, m.keys.Down):
		ed.Next()
	case key.Matches(msg, m.keys.Enter):
		return m, ed.StartEditing()
	}
	return m, nil
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Switch) {
		m.onBacklog = !m.onBacklog
		return m, nil
	}
	var cmd tea.Cmd
	if m.onBacklog {
		m.backlog, cmd = m.backlog.Update(msg)
	} else {
		m.today, cmd = m.today.Update(msg)
	}
	return m, cmd
}

func (m Model) updateWeekly(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	step := 0
	switch {
	case key.Matches(msg, m.keys.Prev):
		step = -1
	case key.Matches(msg, m.keys.Next):
		step = 1
	default:
		return m.updateEditorNav(msg, &m.weekly)
	}

	m.flush(weekDayFieldPrefix, fieldWeekIntentions)
	target, err := m.planner.ShiftWeek(m.weekStart, step)
	if err != nil {
		m.setError("Failed to change week", err)
		return m, nil
	}
	m.loadWeek(target)
	return m, nil
}

func (m Model) updateJournal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.submitJournal()
		return m, cmdClearStatus()

	case key.Matches(msg, m.keys.Copy):
		if strings.TrimSpace(m.feedback) == "" {
			m.status = "Nothing to copy: submit an entry first"
			m.statusIsError = true
			return m, nil
		}
		return m, cmdCopyToClipboard(m.feedback)

	case key.Matches(msg, m.keys.NewEntry):
		m.flush(fieldJournalContent)
		m.journal.SetValue(fieldJournalDate, m.planner.Today())
		m.journal.SetValue(fieldJournalTime, "")
		m.journal.SetValue(fieldJournalContent, "")
		m.feedback = ""
		m.loadHistory(m.planner.Today())
		m.journal.Select(fieldJournalContent)
		return m, m.journal.StartEditing()

	case key.Matches(msg, m.keys.Prev):
		m.stepJournal(planner.Earlier)
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.stepJournal(planner.Later)
		return m, nil
	}
	return m.updateEditorNav(msg, &m.journal)
}

func (m *Model) submitJournal() {
	m.debouncer.Cancel(fieldJournalContent)
	entry, err := m.planner.SubmitJournal(
		strings.TrimSpace(m.journal.Value(fieldJournalDate)),
		strings.TrimSpace(m.journal.Value(fieldJournalTime)),
		m.journal.Value(fieldJournalContent),
	)
	if err != nil {
		if apperrors.IsValidation(err) {
			m.status = err.Error()
			m.statusIsError = true
			return
		}
		m.setError("Submit failed", err)
		return
	}

	if entry.Feedback != nil {
		m.feedback = *entry.Feedback
	}
	m.journal.SetValue(fieldJournalTime, entry.Clock())
	m.journal.SetValue(fieldJournalContent, entry.Content)
	m.loadHistory(entry.Date())
	m.updateValidationStatus()
	m.setStatus("✓ Entry saved for %s %s", entry.Date(), entry.Clock())
}

func (m *Model) stepJournal(dir planner.Direction) {
	m.flush(fieldJournalContent)
	current := strings.TrimSpace(m.journal.Value(fieldJournalDate))
	date, ok, err := m.planner.AdjacentJournalDate(current, dir)
	if err != nil {
		m.setError("Failed to load journal", err)
		return
	}
	if !ok {
		word := "later"
		if dir == planner.Earlier {
			word = "earlier"
		}
		m.status = fmt.Sprintf("No %s journal entries", word)
		m.statusIsError = false
		return
	}

	m.journal.SetValue(fieldJournalDate, date)
	m.loadHistory(date)
	if len(m.history) > 0 {
		m.journal.SetValue(fieldJournalTime, m.history[0].Clock())
	}
	m.openJournalEntry()
}
