package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"notry/internal/config"
	"notry/internal/store"
)

func newTestApp(t *testing.T) AppModel {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := &config.Config{
		DBPath:    "test.db",
		ImportDir: t.TempDir(),
		ExportDir: t.TempDir(),
		MaxRows:   500,
	}

	m := NewAppModel(cfg, st)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(AppModel)
}

// drive feeds a message and chases the resulting command chain until no
// command is produced, mirroring what the bubbletea runtime would do.
func drive(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	for msg != nil {
		next, cmd := m.Update(msg)
		m = next.(AppModel)
		if cmd == nil {
			return m
		}
		msg = cmd()
	}
	return m
}

func TestStartsInSearchMode(t *testing.T) {
	m := newTestApp(t)
	if m.mode != ModeSearch {
		t.Errorf("expected ModeSearch, got %v", m.mode)
	}
}

func TestBrowse_RequiresMarks(t *testing.T) {
	m := newTestApp(t)

	m = drive(t, m, BrowseRequestMsg{})

	if m.mode != ModeSearch {
		t.Errorf("expected to stay in search mode, got %v", m.mode)
	}
	if !strings.Contains(m.status, "No notes marked") {
		t.Errorf("expected no-marks message, got %q", m.status)
	}
}

func TestBrowse_EntersWithMarks(t *testing.T) {
	m := newTestApp(t)
	n, err := m.st.Insert("Alpha", "body", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	m.marked.Add(n.ID)

	m = drive(t, m, BrowseRequestMsg{})

	if m.mode != ModeBrowse {
		t.Errorf("expected ModeBrowse, got %v", m.mode)
	}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != ModeSearch {
		t.Errorf("expected Esc to return to search, got %v", m.mode)
	}
}

func TestExport_NoMarksIsNoOp(t *testing.T) {
	m := newTestApp(t)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyF3})

	if !strings.Contains(m.status, "No notes marked for export") {
		t.Errorf("expected no-op message, got %q", m.status)
	}

	entries, err := os.ReadDir(m.cfg.ExportDir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no export directory to be created, got %v", entries)
	}
}

func TestExport_WritesMarkedNotes(t *testing.T) {
	m := newTestApp(t)
	n, err := m.st.Insert("Alpha", "body", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	m.marked.Add(n.ID)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyF3})

	if !strings.Contains(m.status, "Exported 1 notes") {
		t.Errorf("expected export summary, got %q", m.status)
	}
	entries, err := os.ReadDir(m.cfg.ExportDir)
	if err != nil {
		t.Fatalf("read export dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 export directory, got %d", len(entries))
	}
}

func TestCreateNote_EntersEditMode(t *testing.T) {
	m := newTestApp(t)

	m = drive(t, m, CreateNoteMsg{Title: "Fresh"})

	if m.mode != ModeEdit {
		t.Fatalf("expected ModeEdit, got %v", m.mode)
	}

	results, err := m.st.Search("Fresh", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the note to be created, got %d results", len(results))
	}
}

func TestOpenNote_NotFoundStaysInSearch(t *testing.T) {
	m := newTestApp(t)

	m = drive(t, m, OpenNoteMsg{ID: 77})

	if m.mode != ModeSearch {
		t.Errorf("expected to stay in search mode, got %v", m.mode)
	}
	if !strings.Contains(m.status, "not found") {
		t.Errorf("expected not-found message, got %q", m.status)
	}
}

func TestSaveNote_PersistsAndReturnsToSearch(t *testing.T) {
	m := newTestApp(t)
	n, err := m.st.Insert("Before", "old", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	m = drive(t, m, OpenNoteMsg{ID: n.ID})
	if m.mode != ModeEdit {
		t.Fatalf("expected ModeEdit, got %v", m.mode)
	}

	m = drive(t, m, SaveNoteMsg{ID: n.ID, Title: "After", Body: "new"})

	if m.mode != ModeSearch {
		t.Errorf("expected ModeSearch after save, got %v", m.mode)
	}
	got, err := m.st.Get(n.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "After" || got.Body != "new" {
		t.Errorf("expected After/new, got %q/%q", got.Title, got.Body)
	}
}

func TestDiscardPrompt_ConfirmReturnsToSearch(t *testing.T) {
	m := newTestApp(t)
	n, err := m.st.Insert("Note", "body", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	m = drive(t, m, OpenNoteMsg{ID: n.ID})

	m = drive(t, m, DiscardRequestMsg{})
	if m.confirm == nil {
		t.Fatal("expected confirmation prompt")
	}

	// "n" keeps editing.
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.confirm != nil {
		t.Error("expected prompt to be dismissed")
	}
	if m.mode != ModeEdit {
		t.Errorf("expected to stay in edit mode, got %v", m.mode)
	}

	// "y" discards.
	m = drive(t, m, DiscardRequestMsg{})
	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if m.mode != ModeSearch {
		t.Errorf("expected search mode after discard, got %v", m.mode)
	}
}

func TestImportFlow_MarksImportedNotes(t *testing.T) {
	m := newTestApp(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("imported content"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyF2})
	if m.mode != ModeImport {
		t.Fatalf("expected ModeImport, got %v", m.mode)
	}

	m = drive(t, m, ImportConfirmMsg{Paths: []string{path}})

	if m.mode != ModeSearch {
		t.Errorf("expected search mode after import, got %v", m.mode)
	}
	if m.marked.Len() != 1 {
		t.Errorf("expected the imported note to be marked, got %d marks", m.marked.Len())
	}
	if !strings.Contains(m.status, "Imported 1 new") {
		t.Errorf("expected import summary, got %q", m.status)
	}
}

func TestImportCancel(t *testing.T) {
	m := newTestApp(t)

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyF2})
	m = drive(t, m, ImportCancelMsg{})

	if m.mode != ModeSearch {
		t.Errorf("expected search mode after cancel, got %v", m.mode)
	}
	if m.status != "Import cancelled" {
		t.Errorf("expected cancel message, got %q", m.status)
	}
}

func TestHelpOverlay_DismissedOnAnyKey(t *testing.T) {
	m := newTestApp(t)

	m = drive(t, m, ShowHelpMsg{})
	if !m.showHelp {
		t.Fatal("expected help overlay")
	}
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help content in view")
	}

	m = drive(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.showHelp {
		t.Error("expected help overlay to be dismissed")
	}
}
