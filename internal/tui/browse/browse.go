// Package browse implements the card view over marked notes.
package browse

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notry/internal/marks"
	"notry/internal/store"
	"notry/internal/tui/messages"
	"notry/internal/tui/theme"
)

const bodyPreviewLen = 150

var (
	headerStyle = theme.Subtitle
	mutedStyle  = theme.Muted
	markStyle   = theme.Marked
	titleStyle  = theme.Title
)

// Model shows the notes that were marked when browse mode was entered, one
// card each. The card list is a snapshot; marks themselves live in the
// shared set, so toggles here are visible everywhere immediately.
type Model struct {
	st     *store.Store
	marked *marks.Set

	cards  []store.Note
	cursor int
	scroll int

	width  int
	height int
}

// New snapshots the currently marked notes into a card list.
func New(st *store.Store, marked *marks.Set) Model {
	m := Model{st: st, marked: marked}
	for _, id := range marked.IDs() {
		n, err := st.Get(id)
		if err != nil {
			continue
		}
		m.cards = append(m.cards, n)
	}
	return m
}

// SetSize updates the dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// Update handles messages for the browse view
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.cards)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
		return m, nil

	case "g":
		m.cursor = 0
		m.ensureCursorVisible()
		return m, nil

	case "G":
		m.cursor = max(0, len(m.cards)-1)
		m.ensureCursorVisible()
		return m, nil

	case " ", "m":
		if m.cursor < len(m.cards) {
			m.marked.Toggle(m.cards[m.cursor].ID)
			if m.cursor < len(m.cards)-1 {
				m.cursor++
				m.ensureCursorVisible()
			}
		}
		return m, nil

	case "a":
		for _, c := range m.cards {
			m.marked.Add(c.ID)
		}
		return m, status(fmt.Sprintf("Marked all %d notes in browse mode", len(m.cards)))

	case "c":
		count := m.marked.Len()
		m.marked.Clear()
		return m, status(fmt.Sprintf("Cleared %d marked notes", count))

	case "enter":
		if m.cursor < len(m.cards) {
			id := m.cards[m.cursor].ID
			return m, func() tea.Msg { return messages.OpenNoteMsg{ID: id} }
		}
		return m, nil

	case "esc":
		return m, func() tea.Msg { return messages.CloseViewMsg{} }
	}

	return m, nil
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return messages.StatusMsg{Text: text} }
}

const cardHeight = 6 // 4 content lines + 2 border lines

func (m *Model) visibleCards() int {
	return max(1, (m.height-1)/cardHeight)
}

func (m *Model) ensureCursorVisible() {
	v := m.visibleCards()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+v {
		m.scroll = m.cursor - v + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the browse view
func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("BROWSE — %d notes", len(m.cards)))

	if len(m.cards) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header,
			mutedStyle.Render("No marked notes."))
	}

	parts := []string{header}
	end := min(len(m.cards), m.scroll+m.visibleCards())
	for i := m.scroll; i < end; i++ {
		parts = append(parts, m.renderCard(i))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderCard(i int) string {
	n := m.cards[i]

	mark := " "
	if m.marked.Contains(n.ID) {
		mark = markStyle.Render("✓")
	}

	body := strings.ReplaceAll(n.Body, "\n", " ")
	if r := []rune(body); len(r) > bodyPreviewLen {
		body = string(r[:bodyPreviewLen]) + "..."
	}

	content := fmt.Sprintf("[%s] #%d %s\n%s\n%s",
		mark, n.ID, titleStyle.Render(n.Title),
		body,
		mutedStyle.Render("Updated: "+n.UpdatedAt.Format("2006-01-02 15:04")))

	style := theme.Card
	if i == m.cursor {
		style = theme.CardFocused
	}
	return style.Width(max(20, m.width-2)).Render(content)
}
