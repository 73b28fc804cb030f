// Package search implements the main screen: query input, result list and
// preview pane.
package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notry/internal/logs"
	"notry/internal/marks"
	"notry/internal/store"
	"notry/internal/tui/messages"
	"notry/internal/tui/theme"
)

var (
	markStyle    = theme.Marked
	cursorStyle  = theme.Cursor
	mutedStyle   = theme.Muted
	previewMeta  = theme.Muted
	previewTitle = theme.Title
)

// Model is the search view: a live-filtering query box over the store with a
// result list and a preview of the selected note.
type Model struct {
	st     *store.Store
	marked *marks.Set

	input   textinput.Model
	results []store.Note

	cursor      int
	scroll      int
	listFocused bool

	maxRows int
	width   int
	height  int
}

// New creates the search view. The mark set is shared with the root model.
func New(st *store.Store, marked *marks.Set, maxRows int) Model {
	ti := textinput.New()
	ti.Placeholder = "Search or :command"
	ti.CharLimit = 256
	ti.Focus()

	m := Model{
		st:      st,
		marked:  marked,
		input:   ti,
		maxRows: maxRows,
	}
	m.Refresh()
	return m
}

// SetSize updates the dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	m.ensureCursorVisible()
}

// Refresh re-runs the current query against the store and lazily prunes
// marks whose notes no longer exist. Command input is not a query; the
// result list stays as it was while a command is being typed.
func (m *Model) Refresh() {
	query := m.input.Value()
	if strings.HasPrefix(query, ":") {
		return
	}

	results, err := m.st.Search(query, m.maxRows)
	if err != nil {
		logs.Logger.Printf("search %q: %v", query, err)
		return
	}
	m.results = results

	m.marked.Prune(func(id int64) bool {
		_, err := m.st.Get(id)
		return err == nil
	})

	if m.cursor >= len(m.results) {
		m.cursor = max(0, len(m.results)-1)
	}
	if len(m.results) == 0 {
		m.listFocused = false
		m.input.Focus()
	}
	m.ensureCursorVisible()
}

// ClearQuery empties the query box and reloads the full note list.
func (m *Model) ClearQuery() {
	m.input.SetValue("")
	m.Refresh()
}

// Rows returns the number of visible results.
func (m *Model) Rows() int {
	return len(m.results)
}

// VisibleIDs returns the ids of the current result set, in display order.
func (m *Model) VisibleIDs() []int64 {
	ids := make([]int64, len(m.results))
	for i, n := range m.results {
		ids[i] = n.ID
	}
	return ids
}

// Selected returns the note under the cursor.
func (m *Model) Selected() (store.Note, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return store.Note{}, false
	}
	return m.results[m.cursor], true
}

// Update handles messages for the search view
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	if m.listFocused {
		return m.updateList(keyMsg)
	}
	return m.updateInput(keyMsg)
}

func (m Model) updateInput(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submit()

	case "down", "tab":
		if len(m.results) > 0 {
			m.listFocused = true
			m.input.Blur()
		}
		return m, nil

	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.Refresh()
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.Refresh()
	}
	return m, cmd
}

// submit resolves the Enter key while the query box has focus: commands are
// dispatched, a matching query opens the first hit, a non-matching query
// becomes a new note.
func (m Model) submit() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(text, ":") {
		return m, m.runCommand(strings.TrimPrefix(text, ":"))
	}

	if text != "" {
		if len(m.results) > 0 {
			id := m.results[0].ID
			return m, func() tea.Msg { return messages.OpenNoteMsg{ID: id} }
		}
		return m, func() tea.Msg { return messages.CreateNoteMsg{Title: text} }
	}

	if n, ok := m.Selected(); ok {
		return m, func() tea.Msg { return messages.OpenNoteMsg{ID: n.ID} }
	}
	return m, nil
}

func (m Model) runCommand(cmdline string) tea.Cmd {
	tokens := strings.Fields(cmdline)
	if len(tokens) == 0 {
		return nil
	}

	switch strings.ToLower(tokens[0]) {
	case "q", "quit":
		return func() tea.Msg { return messages.QuitMsg{} }
	case "help":
		return func() tea.Msg { return messages.ShowHelpMsg{} }
	}
	name := tokens[0]
	return func() tea.Msg {
		return messages.StatusMsg{Text: fmt.Sprintf("Unknown command: %s", name)}
	}
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.results)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
		return m, nil

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		} else {
			m.listFocused = false
			m.input.Focus()
		}
		return m, nil

	case "g":
		m.cursor = 0
		m.ensureCursorVisible()
		return m, nil

	case "G":
		m.cursor = max(0, len(m.results)-1)
		m.ensureCursorVisible()
		return m, nil

	case " ", "m":
		return m.toggleMark()

	case "a":
		ids := m.VisibleIDs()
		if len(ids) == 0 {
			return m, status("No notes to mark")
		}
		m.marked.MarkAll(ids)
		return m, status(fmt.Sprintf("Marked all %d notes in current view", len(ids)))

	case "c":
		if m.marked.Len() == 0 {
			return m, status("No notes are marked")
		}
		count := m.marked.Len()
		m.marked.Clear()
		return m, status(fmt.Sprintf("Cleared %d marked notes", count))

	case "b":
		return m, func() tea.Msg { return messages.BrowseRequestMsg{} }

	case "enter":
		if n, ok := m.Selected(); ok {
			id := n.ID
			return m, func() tea.Msg { return messages.OpenNoteMsg{ID: id} }
		}
		return m, nil

	case "esc", "/":
		m.listFocused = false
		m.input.Focus()
		return m, nil
	}

	return m, nil
}

func (m Model) toggleMark() (Model, tea.Cmd) {
	n, ok := m.Selected()
	if !ok {
		return m, nil
	}
	m.marked.Toggle(n.ID)
	// Advance to the next row, matching the original mark-and-move flow.
	if m.cursor < len(m.results)-1 {
		m.cursor++
		m.ensureCursorVisible()
	}
	return m, nil
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return messages.StatusMsg{Text: text} }
}

func (m *Model) listHeight() int {
	// Input box takes 3 lines; panes have 2 border lines.
	return max(1, m.height-5)
}

func (m *Model) ensureCursorVisible() {
	h := m.listHeight()
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// View renders the search view
func (m Model) View() string {
	inputStyle := theme.Pane
	if !m.listFocused {
		inputStyle = theme.PaneFocused
	}
	inputBox := inputStyle.Width(max(10, m.width-2)).Render(m.input.View())

	listWidth := m.width / 2
	previewWidth := m.width - listWidth

	listStyle := theme.Pane
	if m.listFocused {
		listStyle = theme.PaneFocused
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listStyle.Width(max(10, listWidth-2)).Height(m.listHeight()).Render(m.renderList(listWidth-4)),
		theme.Pane.Width(max(10, previewWidth-2)).Height(m.listHeight()).Render(m.renderPreview(previewWidth-4)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, inputBox, body)
}

func (m Model) renderList(width int) string {
	if len(m.results) == 0 {
		return mutedStyle.Render("No notes. Type a title and press Enter to create one.")
	}

	h := m.listHeight()
	end := min(len(m.results), m.scroll+h)

	var b strings.Builder
	for i := m.scroll; i < end; i++ {
		n := m.results[i]

		mark := " "
		if m.marked.Contains(n.ID) {
			mark = markStyle.Render("✓")
		}

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		line := fmt.Sprintf("%s[%s] #%-4d %s", prefix, mark, n.ID, snippet(n, width-14))
		if i == m.cursor && m.listFocused {
			line = theme.Selected.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderPreview(width int) string {
	n, ok := m.Selected()
	if !ok {
		return mutedStyle.Render("No notes.")
	}

	meta := fmt.Sprintf("Created: %s · Updated: %s",
		n.CreatedAt.Format("2006-01-02 15:04"),
		n.UpdatedAt.Format("2006-01-02 15:04"))

	return previewTitle.Render(n.Title) + "\n" +
		previewMeta.Render(meta) + "\n\n" +
		n.Body
}

func snippet(n store.Note, width int) string {
	s := n.Title + " " + strings.ReplaceAll(n.Body, "\n", " ")
	if r := []rune(s); width > 0 && len(r) > width {
		s = string(r[:width])
	}
	return s
}
