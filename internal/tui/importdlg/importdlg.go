// Package importdlg implements the file-selection dialog for imports.
package importdlg

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"notry/internal/importer"
	"notry/internal/tui/messages"
	"notry/internal/tui/theme"
)

var (
	headerStyle = theme.Subtitle
	pathStyle   = theme.Muted
	dirStyle    = lipgloss.NewStyle().Foreground(theme.Secondary)
	markStyle   = theme.Marked
	cursorStyle = theme.Cursor
	mutedStyle  = theme.Muted
	errStyle    = theme.Error
)

// Model navigates a directory tree and collects files to import. Only the
// paths of confirmed files leave the dialog; the actual import runs in the
// root model.
type Model struct {
	dir      string
	entries  []importer.Entry
	selected map[string]bool

	// filtered holds indexes into entries; identity ordering unless a
	// fuzzy filename filter is active.
	filtered     []int
	filterActive bool
	filterQuery  string

	cursor int
	scroll int
	errMsg string

	width  int
	height int
}

// New opens the dialog at dir.
func New(dir string) Model {
	m := Model{
		dir:      dir,
		selected: make(map[string]bool),
	}
	m.loadDir(dir)
	return m
}

// SetSize updates the dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

func (m *Model) loadDir(dir string) {
	entries, err := importer.ListDir(dir)
	if err != nil {
		m.errMsg = fmt.Sprintf("Cannot read %s: %v", dir, err)
		return
	}
	m.dir = dir
	m.entries = entries
	m.errMsg = ""
	m.cursor = 0
	m.scroll = 0
	m.filterQuery = ""
	m.filterActive = false
	m.applyFilter()
}

// applyFilter recomputes the visible entry indexes from the fuzzy query.
// Directories always stay visible so navigation keeps working mid-filter.
func (m *Model) applyFilter() {
	if m.filterQuery == "" {
		m.filtered = make([]int, len(m.entries))
		for i := range m.entries {
			m.filtered[i] = i
		}
		return
	}

	var names []string
	var fileIdx []int
	m.filtered = m.filtered[:0]
	for i, e := range m.entries {
		if e.IsDir {
			m.filtered = append(m.filtered, i)
			continue
		}
		names = append(names, e.Name)
		fileIdx = append(fileIdx, i)
	}
	for _, match := range fuzzy.Find(m.filterQuery, names) {
		m.filtered = append(m.filtered, fileIdx[match.Index])
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m *Model) current() (importer.Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return importer.Entry{}, false
	}
	return m.entries[m.filtered[m.cursor]], true
}

func (m *Model) selectedPaths() []string {
	var out []string
	for _, e := range m.entries {
		if !e.IsDir && m.selected[e.Path] {
			out = append(out, e.Path)
		}
	}
	return out
}

// Update handles messages for the import dialog
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filterActive {
		return m.updateFilter(keyMsg)
	}

	switch keyMsg.String() {
	case "j", "down":
		if m.cursor < len(m.filtered)-1 {
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
		m.cursor = max(0, len(m.filtered)-1)
		m.ensureCursorVisible()
		return m, nil

	case " ":
		if e, ok := m.current(); ok && !e.IsDir {
			m.selected[e.Path] = !m.selected[e.Path]
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
				m.ensureCursorVisible()
			}
		}
		return m, nil

	case "a":
		// Select only what the filter currently shows.
		for _, idx := range m.filtered {
			if e := m.entries[idx]; !e.IsDir {
				m.selected[e.Path] = true
			}
		}
		return m, nil

	case "n":
		m.selected = make(map[string]bool)
		return m, nil

	case "h", "u":
		if parent := filepath.Dir(m.dir); parent != m.dir {
			m.loadDir(parent)
		}
		return m, nil

	case "l":
		if e, ok := m.current(); ok && e.IsDir {
			m.loadDir(e.Path)
		}
		return m, nil

	case "/":
		m.filterActive = true
		return m, nil

	case "enter":
		if e, ok := m.current(); ok && e.IsDir {
			m.loadDir(e.Path)
			return m, nil
		}
		paths := m.selectedPaths()
		if len(paths) == 0 {
			if e, ok := m.current(); ok && !e.IsDir {
				paths = []string{e.Path}
			}
		}
		if len(paths) == 0 {
			return m, nil
		}
		return m, func() tea.Msg { return messages.ImportConfirmMsg{Paths: paths} }

	case "esc":
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.applyFilter()
			return m, nil
		}
		return m, func() tea.Msg { return messages.ImportCancelMsg{} }
	}

	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filterActive = false
		return m, nil

	case "esc":
		m.filterActive = false
		m.filterQuery = ""
		m.applyFilter()
		return m, nil

	case "backspace":
		if m.filterQuery != "" {
			r := []rune(m.filterQuery)
			m.filterQuery = string(r[:len(r)-1])
			m.applyFilter()
		}
		return m, nil
	}

	if msg.Type == tea.KeyRunes {
		m.filterQuery += string(msg.Runes)
		m.applyFilter()
	}
	return m, nil
}

func (m *Model) listHeight() int {
	// Header, path line, stats line, hint line.
	return max(1, m.height-4)
}

func (m *Model) ensureCursorVisible() {
	h := m.listHeight() / 2 // two lines per entry
	if h < 1 {
		h = 1
	}
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

// View renders the import dialog
func (m Model) View() string {
	header := headerStyle.Render("IMPORT — select files to import")
	path := pathStyle.Render(m.dir)

	var list string
	switch {
	case m.errMsg != "":
		list = errStyle.Render(m.errMsg)
	case len(m.filtered) == 0:
		list = mutedStyle.Render("No matching files or directories found")
	default:
		list = m.renderEntries()
	}

	files := 0
	for _, e := range m.entries {
		if !e.IsDir {
			files++
		}
	}
	stats := mutedStyle.Render(fmt.Sprintf("%d of %d files selected", len(m.selectedPaths()), files))

	filterLine := ""
	if m.filterActive || m.filterQuery != "" {
		filterLine = "Filter: " + m.filterQuery
		if m.filterActive {
			filterLine += "▌"
		}
	}

	parts := []string{header, path, list, stats}
	if filterLine != "" {
		parts = append(parts, filterLine)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderEntries() string {
	visible := m.listHeight() / 2
	if visible < 1 {
		visible = 1
	}
	end := min(len(m.filtered), m.scroll+visible)

	var b strings.Builder
	for i := m.scroll; i < end; i++ {
		e := m.entries[m.filtered[i]]

		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		if e.IsDir {
			b.WriteString(prefix + dirStyle.Render(e.Name+"/") + "\n")
			continue
		}

		check := "☐"
		if m.selected[e.Path] {
			check = markStyle.Render("☑")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n    %s\n",
			prefix, check, e.Name, mutedStyle.Render(e.Preview)))
	}
	return strings.TrimRight(b.String(), "\n")
}
