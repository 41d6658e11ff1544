package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/lifeplan/internal/autosave"
	"github.com/julianstephens/lifeplan/internal/models"
	"github.com/julianstephens/lifeplan/internal/utils"
)

// autosaveMsg carries a field whose quiet window elapsed
type autosaveMsg struct {
	field string
}

type clearStatusMsg struct{}

// waitForAutosave blocks on the debouncer channel so saves run inside Update
func waitForAutosave(d *autosave.Debouncer) tea.Cmd {
	return func() tea.Msg {
		field, ok := <-d.C()
		if !ok {
			return nil
		}
		return autosaveMsg{field: field}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// autosaved reports whether edits to field are saved by the debouncer
func autosaved(field string) bool {
	switch {
	case strings.HasPrefix(field, priorityFieldPrefix),
		strings.HasPrefix(field, weekDayFieldPrefix),
		field == fieldAffirmation,
		field == fieldWeekIntentions,
		field == fieldJournalContent:
		return true
	}
	return false
}

// saveField writes the current text of field
func (m *Model) saveField(field string) error {
	switch {
	case strings.HasPrefix(field, priorityFieldPrefix):
		category := strings.TrimPrefix(field, priorityFieldPrefix)
		return m.planner.SavePriority(category, m.dashboard.Value(field))

	case field == fieldAffirmation:
		return m.planner.SaveAffirmation(m.dashboard.Value(field))

	case strings.HasPrefix(field, weekDayFieldPrefix):
		day, err := strconv.Atoi(strings.TrimPrefix(field, weekDayFieldPrefix))
		if err != nil || day < 0 || day >= models.DaysPerWeek {
			return nil
		}
		_, err = m.planner.SaveWeekDay(m.weekStart, day, m.weekly.Value(field))
		return err

	case field == fieldWeekIntentions:
		_, err := m.planner.SaveIntentions(m.weekStart, m.weekly.Value(field))
		return err

	case field == fieldJournalContent:
		at, err := m.planner.AutoSaveJournal(
			strings.TrimSpace(m.journal.Value(fieldJournalDate)),
			strings.TrimSpace(m.journal.Value(fieldJournalTime)),
			m.journal.Value(fieldJournalContent),
		)
		if err != nil {
			return err
		}
		// a blank time resolved to now; pin it so later saves hit the same entry
		m.journal.SetValue(fieldJournalTime, utils.FormatClock(at))
		m.loadHistory(utils.FormatDate(at))
		return nil
	}
	return nil
}

// autosave handles a fired debouncer field
func (m *Model) autosave(field string) {
	if err := m.saveField(field); err != nil {
		m.setError("Autosave failed", err)
		return
	}
	m.setStatus("Saved %s", time.Now().Format("03:04:05PM"))
}

// flush saves every pending field now, so nothing is lost when the context it was typed
// in (a week or a journal date) changes
func (m *Model) flush(prefixes ...string) {
	for _, field := range m.debouncer.PendingFields() {
		if !matchesAny(field, prefixes) {
			continue
		}
		m.debouncer.Cancel(field)
		m.autosave(field)
	}
}

func matchesAny(field string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(field, p) {
			return true
		}
	}
	return false
}
