// Package editor implements the note editing view.
package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notry/internal/store"
	"notry/internal/tui/messages"
	"notry/internal/tui/theme"
)

var (
	labelStyle = theme.Muted
	errStyle   = theme.Error
)

type focusTarget int

const (
	focusTitle focusTarget = iota
	focusBody
)

// Model edits a single note. Ctrl+S validates and saves; Esc asks the root
// model to confirm when there are unsaved changes.
type Model struct {
	noteID int64

	title textinput.Model
	body  textarea.Model
	focus focusTarget

	originalTitle string
	originalBody  string
	validationErr string

	width  int
	height int
}

// New creates an editor over the given note.
func New(n store.Note) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.SetValue(n.Title)

	ta := textarea.New()
	ta.CharLimit = 0
	ta.SetValue(n.Body)
	ta.Focus()

	return Model{
		noteID:        n.ID,
		title:         ti,
		body:          ta,
		focus:         focusBody,
		originalTitle: n.Title,
		originalBody:  n.Body,
	}
}

// NoteID returns the id of the note being edited.
func (m *Model) NoteID() int64 {
	return m.noteID
}

// Dirty reports whether the buffer differs from the note as loaded.
func (m *Model) Dirty() bool {
	return m.title.Value() != m.originalTitle || m.body.Value() != m.originalBody
}

// SetSize updates the dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.title.Width = width - 12
	m.body.SetWidth(width - 4)
	m.body.SetHeight(max(3, height-7))
}

// Update handles messages for the editor
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.forward(msg)
	}

	switch keyMsg.String() {
	case "ctrl+s":
		title := strings.TrimSpace(m.title.Value())
		if title == "" {
			m.validationErr = "Title must not be empty"
			m.focus = focusTitle
			m.body.Blur()
			return m, m.title.Focus()
		}
		id, body := m.noteID, m.body.Value()
		return m, func() tea.Msg {
			return messages.SaveNoteMsg{ID: id, Title: title, Body: body}
		}

	case "esc":
		if m.Dirty() {
			return m, func() tea.Msg { return messages.DiscardRequestMsg{} }
		}
		return m, func() tea.Msg { return messages.CloseViewMsg{} }

	case "enter":
		// The title line doubles as a command line: :q abandons the
		// edit without saving, bypassing the discard prompt.
		if m.focus == focusTitle {
			switch strings.TrimSpace(m.title.Value()) {
			case ":q", ":quit":
				return m, func() tea.Msg { return messages.CloseViewMsg{} }
			}
		}
		m.validationErr = ""
		return m.forward(msg)

	case "tab":
		if m.focus == focusTitle {
			m.focus = focusBody
			m.title.Blur()
			return m, m.body.Focus()
		}
		m.focus = focusTitle
		m.body.Blur()
		return m, m.title.Focus()
	}

	m.validationErr = ""
	return m.forward(msg)
}

func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	return m, cmd
}

// View renders the editor
func (m Model) View() string {
	titleStyle := theme.Pane
	bodyStyle := theme.PaneFocused
	if m.focus == focusTitle {
		titleStyle, bodyStyle = theme.PaneFocused, theme.Pane
	}

	titleBox := titleStyle.Width(max(10, m.width-2)).Render(
		labelStyle.Render("Title: ") + m.title.View(),
	)
	bodyBox := bodyStyle.Width(max(10, m.width-2)).Render(m.body.View())

	parts := []string{titleBox, bodyBox}
	if m.validationErr != "" {
		parts = append(parts, errStyle.Render(m.validationErr))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
