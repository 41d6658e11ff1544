// Package editor stacks labelled text areas. One field is selected at a time; it only
// takes keystrokes while editing.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// Field describes one text area
type Field struct {
	ID    string
	Label string
	// Lines is the visible height; 1 makes a single-line input where enter does not insert
	// a newline
	Lines       int
	Placeholder string
}

type entry struct {
	Field
	area textarea.Model
}

type Model struct {
	entries  []entry
	selected int
	editing  bool
	width    int
}

func New(fields ...Field) Model {
	m := Model{width: 60}
	for _, f := range fields {
		if f.Lines < 1 {
			f.Lines = 1
		}
		ta := textarea.New()
		ta.Placeholder = f.Placeholder
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.SetHeight(f.Lines)
		ta.SetWidth(m.width)
		if f.Lines == 1 {
			ta.KeyMap.InsertNewline.SetEnabled(false)
		}
		m.entries = append(m.entries, entry{Field: f, area: ta})
	}
	return m
}

func (m *Model) index(id string) int {
	for i, e := range m.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// Value returns the text of field id, or "" for an unknown id
func (m Model) Value(id string) string {
	if i := m.index(id); i >= 0 {
		return m.entries[i].area.Value()
	}
	return ""
}

// SetValue replaces the text of field id
func (m *Model) SetValue(id, value string) {
	if i := m.index(id); i >= 0 {
		m.entries[i].area.SetValue(value)
	}
}

// SetLabel changes the label shown above field id
func (m *Model) SetLabel(id, label string) {
	if i := m.index(id); i >= 0 {
		m.entries[i].Label = label
	}
}

// Selected returns the id of the selected field
func (m Model) Selected() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[m.selected].ID
}

func (m *Model) Select(id string) {
	if i := m.index(id); i >= 0 {
		m.StopEditing()
		m.selected = i
	}
}

func (m Model) Editing() bool {
	return m.editing
}

// Next moves the selection down, wrapping at the end
func (m *Model) Next() {
	if len(m.entries) == 0 || m.editing {
		return
	}
	m.selected = (m.selected + 1) % len(m.entries)
}

// Prev moves the selection up, wrapping at the start
func (m *Model) Prev() {
	if len(m.entries) == 0 || m.editing {
		return
	}
	m.selected = (m.selected - 1 + len(m.entries)) % len(m.entries)
}

// StartEditing focuses the selected field
func (m *Model) StartEditing() tea.Cmd {
	if len(m.entries) == 0 {
		return nil
	}
	m.editing = true
	return m.entries[m.selected].area.Focus()
}

func (m *Model) StopEditing() {
	if len(m.entries) == 0 {
		return
	}
	m.editing = false
	m.entries[m.selected].area.Blur()
}

func (m *Model) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	m.width = width
	for i := range m.entries {
		m.entries[i].area.SetWidth(width)
	}
}

// Update forwards msg to the field being edited. changed is the field id when its text
// differs afterwards, or "".
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd, string) {
	if !m.editing || len(m.entries) == 0 {
		return m, nil, ""
	}
	e := &m.entries[m.selected]
	before := e.area.Value()
	var cmd tea.Cmd
	e.area, cmd = e.area.Update(msg)
	if e.area.Value() != before {
		return m, cmd, e.ID
	}
	return m, cmd, ""
}

func (m Model) View() string {
	var b strings.Builder
	for i, e := range m.entries {
		label := labelStyle.Render(e.Label)
		if i == m.selected {
			marker := "▸ "
			if m.editing {
				marker = "✎ "
			}
			label = selectedStyle.Render(marker + e.Label)
		} else {
			label = "  " + label
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(e.area.View())
		b.WriteString("\n")
	}
	return b.String()
}
