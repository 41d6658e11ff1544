package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/lifeplan/internal/constants"
)

var tabTitles = map[constants.SessionState]string{
	constants.StateDashboard: "Dashboard",
	constants.StateTasks:     "Tasks",
	constants.StateWeekly:    "Weekly",
	constants.StateJournal:   "Journal",
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StateTasks:
		content = m.viewTasks()
	case constants.StateWeekly:
		content = m.viewWeekly()
	case constants.StateJournal:
		content = m.viewJournal()
	case constants.StateAddTask, constants.StateEditTask, constants.StateConfirmDelete:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case constants.StateAddTask, constants.StateEditTask, constants.StateConfirmDelete:
		active = constants.StateTasks
	}

	var tabs []string
	for _, view := range constants.MainViews {
		if view == active {
			tabs = append(tabs, activeTabStyle.Render(tabTitles[view]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabTitles[view]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	var parts []string
	if m.status != "" {
		if m.statusIsError {
			parts = append(parts, dangerStyle.Render(m.status))
		} else {
			parts = append(parts, okStyle.Render(m.status))
		}
	}
	if m.validationWarning != "" {
		parts = append(parts, warningStyle.Render(m.validationWarning))
	}
	return strings.Join(parts, "  ")
}

func (m Model) viewDashboard() string {
	return docStyle.Render(
		headingStyle.Render("Priorities") + "\n\n" + m.dashboard.View(),
	)
}

func (m Model) viewTasks() string {
	today := panelStyle
	backlog := panelStyle
	if m.onBacklog {
		backlog = backlog.BorderForeground(accent)
	} else {
		today = today.BorderForeground(accent)
	}
	return docStyle.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		today.Render(m.today.View()),
		backlog.Render(m.backlog.View()),
	))
}

func (m Model) viewWeekly() string {
	title := headingStyle.Render("Week of " + m.weekStart)
	return docStyle.Render(title + "\n\n" + m.weekly.View())
}

func (m Model) viewJournal() string {
	left := m.journal.View()
	if m.feedback != "" {
		left += "\n" + headingStyle.Render("Feedback") + "\n" + m.feedback + "\n"
	}

	return docStyle.Render(lipgloss.JoinHorizontal(
		lipgloss.Top,
		left,
		panelStyle.Render(m.viewHistory()),
	))
}

func (m Model) viewHistory() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render("Entries for " + m.historyDate))
	b.WriteString("\n")
	if len(m.history) == 0 {
		b.WriteString(mutedStyle.Render("No entries yet"))
		return b.String()
	}
	for _, e := range m.history {
		mark := " "
		if e.HasFeedback() {
			mark = "✓"
		}
		b.WriteString(fmt.Sprintf("%s %s  %s\n", mark, e.Clock(), mutedStyle.Render(preview(e.Content, 40))))
	}
	return b.String()
}

// preview returns the first line of s cut to n runes
func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
