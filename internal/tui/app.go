package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"notry/internal/config"
	"notry/internal/exporter"
	"notry/internal/importer"
	"notry/internal/logs"
	"notry/internal/marks"
	"notry/internal/store"
	browseview "notry/internal/tui/browse"
	editorview "notry/internal/tui/editor"
	importview "notry/internal/tui/importdlg"
	searchview "notry/internal/tui/search"
	"notry/internal/tui/shared"
	"notry/internal/tui/theme"
)

// AppModel is the root model. It owns the mode state machine, the store
// handle and the session mark set, and dispatches each key event to exactly
// one mode handler.
type AppModel struct {
	cfg    *config.Config
	st     *store.Store
	marked *marks.Set

	mode       Mode
	searchView searchview.Model
	editorView editorview.Model
	browseView browseview.Model
	importView importview.Model

	// Non-nil while the unsaved-changes prompt is up.
	confirm *shared.ConfirmationModal

	status   string
	showHelp bool
	width    int
	height   int
	ready    bool
}

// NewAppModel creates the root application model
func NewAppModel(cfg *config.Config, st *store.Store) AppModel {
	marked := marks.New()
	return AppModel{
		cfg:        cfg,
		st:         st,
		marked:     marked,
		mode:       ModeSearch,
		searchView: searchview.New(st, marked, cfg.MaxRows),
		status:     "Enter=edit | Space=mark | a=mark all | c=clear marks | :help for more",
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 3 // Reserve space for status bar
		m.searchView.SetSize(msg.Width, contentHeight)
		m.editorView.SetSize(msg.Width, contentHeight)
		m.browseView.SetSize(msg.Width, contentHeight)
		m.importView.SetSize(msg.Width, contentHeight)
		return m, nil

	case StatusMsg:
		m.status = msg.Text
		return m, nil

	case OpenNoteMsg:
		return m.openEditor(msg.ID)

	case CreateNoteMsg:
		n, err := m.st.Insert(msg.Title, "", "")
		if err != nil {
			logs.Logger.Printf("create note: %v", err)
			m.status = fmt.Sprintf("Create failed: %v", err)
			return m, nil
		}
		m.searchView.Refresh()
		return m.openEditor(n.ID)

	case SaveNoteMsg:
		if _, err := m.st.Update(msg.ID, msg.Title, msg.Body); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				m.status = fmt.Sprintf("Note %d not found", msg.ID)
			} else {
				logs.Logger.Printf("save note %d: %v", msg.ID, err)
				m.status = fmt.Sprintf("Save failed: %v", err)
			}
			return m, nil
		}
		m.status = fmt.Sprintf("Saved note #%d", msg.ID)
		return m.toSearch(), nil

	case DiscardRequestMsg:
		m.confirm = shared.NewConfirmationModal(
			"Discard unsaved changes?",
			"The note has not been saved.",
			min(60, m.width-4))
		return m, nil

	case shared.ConfirmationResultMsg:
		m.confirm = nil
		if msg.Confirmed {
			m.status = "Discarded unsaved changes"
			return m.toSearch(), nil
		}
		return m, nil

	case BrowseRequestMsg:
		if m.marked.Len() == 0 {
			m.status = "No notes marked. Mark with Space first."
			return m, nil
		}
		m.browseView = browseview.New(m.st, m.marked)
		m.browseView.SetSize(m.width, m.height-3)
		m.mode = ModeBrowse
		return m, nil

	case CloseViewMsg:
		return m.toSearch(), nil

	case ImportConfirmMsg:
		report := importer.ImportFiles(m.st, msg.Paths)
		m.marked.MarkAll(report.NoteIDs)
		m.status = report.Summary()
		next := m.toSearch()
		next.searchView.ClearQuery()
		return next, nil

	case ImportCancelMsg:
		m.status = "Import cancelled"
		return m.toSearch(), nil

	case QuitMsg:
		return m, tea.Quit

	case ShowHelpMsg:
		m.showHelp = true
		return m, nil

	case tea.KeyMsg:
		// Global keys: ctrl+c always quits
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		// Dismiss help overlay on any key
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		// The confirmation prompt swallows all keys while up.
		if m.confirm != nil {
			return m, m.confirm.Update(msg)
		}

		// F2/F3 work from search and browse without a mode transition
		// for export, and open the import dialog for F2.
		if m.mode == ModeSearch || m.mode == ModeBrowse {
			switch msg.String() {
			case "f2":
				m.importView = importview.New(m.cfg.ImportDir)
				m.importView.SetSize(m.width, m.height-3)
				m.mode = ModeImport
				return m, nil
			case "f3":
				m.doExport()
				return m, nil
			}
		}
	}

	// Dispatch to the current mode's view
	var cmd tea.Cmd
	switch m.mode {
	case ModeSearch:
		m.searchView, cmd = m.searchView.Update(msg)
		return m, cmd
	case ModeEdit:
		m.editorView, cmd = m.editorView.Update(msg)
		return m, cmd
	case ModeBrowse:
		m.browseView, cmd = m.browseView.Update(msg)
		return m, cmd
	case ModeImport:
		m.importView, cmd = m.importView.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m AppModel) openEditor(id int64) (tea.Model, tea.Cmd) {
	n, err := m.st.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			m.status = fmt.Sprintf("Note %d not found", id)
		} else {
			logs.Logger.Printf("open note %d: %v", id, err)
			m.status = fmt.Sprintf("Open failed: %v", err)
		}
		return m, nil
	}
	m.editorView = editorview.New(n)
	m.editorView.SetSize(m.width, m.height-3)
	m.mode = ModeEdit
	m.status = fmt.Sprintf("Editing #%d: %s (Ctrl+S=save, Esc=back)", n.ID, n.Title)
	return m, nil
}

func (m AppModel) toSearch() AppModel {
	m.mode = ModeSearch
	m.searchView.Refresh()
	return m
}

// doExport runs the export pipeline over the marked notes. A failure to
// create the output directory aborts the operation; everything lands on the
// status bar either way.
func (m *AppModel) doExport() {
	if m.marked.Len() == 0 {
		m.status = "No notes marked for export. Mark notes with Space, or press 'a' to mark all"
		return
	}

	report, err := exporter.Export(m.st, m.marked.IDs(), m.cfg.ExportDir)
	if err != nil {
		logs.Logger.Printf("export: %v", err)
		m.status = fmt.Sprintf("Export failed: %v", err)
		return
	}
	m.status = report.Summary()
}

func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var content string
	switch m.mode {
	case ModeSearch:
		content = m.searchView.View()
	case ModeEdit:
		content = m.editorView.View()
	case ModeBrowse:
		content = m.browseView.View()
	case ModeImport:
		content = m.importView.View()
	}

	if m.confirm != nil {
		content = lipgloss.Place(m.width, m.height-3, lipgloss.Center, lipgloss.Center, m.confirm.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m AppModel) renderStatusBar() string {
	left := fmt.Sprintf("MODE: %-8s │ Rows: %-3d │ Marked: %-3d",
		m.mode, m.searchView.Rows(), m.marked.Len())
	if m.status != "" {
		left += " │ " + m.status
	}

	var hints string
	switch m.mode {
	case ModeSearch:
		hints = "enter:edit  space:mark  a:all  c:clear  b:browse  f2:import  f3:export  :help"
	case ModeEdit:
		hints = "ctrl+s:save  tab:title/body  esc:back"
	case ModeBrowse:
		hints = "j/k:navigate  space:mark  a:all  c:clear  enter:edit  f3:export  esc:back"
	case ModeImport:
		hints = "j/k:navigate  space:toggle  a:all  n:none  h:parent  l:open  /:filter  enter:import  esc:cancel"
	}

	return theme.StatusBar.Width(m.width).Render(
		theme.NavActive.Render(left) + "\n" + theme.HelpHint.Render(hints),
	)
}

func (m AppModel) renderHelpOverlay() string {
	helpBoxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(1, 2)

	sectionStyle := theme.Title
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	descStyle := lipgloss.NewStyle().Foreground(theme.Text)

	line := func(key, desc string) string {
		return "  " + keyStyle.Width(14).Render(key) + descStyle.Render(desc)
	}

	var content string
	content += sectionStyle.Render("Notry — Keyboard Shortcuts") + "\n\n"

	content += sectionStyle.Render("Search") + "\n"
	content += line("type", "Filter notes as you type") + "\n"
	content += line("enter", "Edit first match, or create a new note") + "\n"
	content += line("down / tab", "Move into the result list") + "\n"
	content += line("j / k", "Navigate results") + "\n"
	content += line("space", "Mark / unmark note") + "\n"
	content += line("a / c", "Mark all visible / clear marks") + "\n"
	content += line("b", "Browse marked notes") + "\n"
	content += line("f2 / f3", "Import files / export marked") + "\n"
	content += line(":q", "Quit") + "\n\n"

	content += sectionStyle.Render("Edit") + "\n"
	content += line("ctrl+s", "Save and return") + "\n"
	content += line("tab", "Switch between title and body") + "\n"
	content += line(":q", "Discard changes and return (title line)") + "\n"
	content += line("esc", "Back (confirms if unsaved)") + "\n\n"

	content += sectionStyle.Render("Browse / Import") + "\n"
	content += line("j / k", "Navigate") + "\n"
	content += line("space", "Toggle mark / selection") + "\n"
	content += line("h / l", "Parent / open directory (import)") + "\n"
	content += line("/", "Fuzzy filename filter (import)") + "\n"
	content += line("esc", "Back") + "\n\n"

	content += theme.HelpHint.Render("Press any key to close")

	box := helpBoxStyle.Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
