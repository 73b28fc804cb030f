package search

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"notry/internal/marks"
	"notry/internal/store"
	"notry/internal/tui/messages"
)

func newTestModel(t *testing.T) (Model, *store.Store, *marks.Set) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	for _, title := range []string{"Alpha", "Beta", "Gamma"} {
		if _, err := st.Insert(title, "body of "+title, ""); err != nil {
			t.Fatalf("insert %s: %v", title, err)
		}
	}

	marked := marks.New()
	m := New(st, marked, 500)
	m.SetSize(100, 30)
	return m, st, marked
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMarkAll_OnlyMarksFilteredRows(t *testing.T) {
	m, st, marked := newTestModel(t)

	m.input.SetValue("Be")
	m.Refresh()
	if m.Rows() != 1 {
		t.Fatalf("expected 1 visible row for %q, got %d", "Be", m.Rows())
	}

	m.listFocused = true
	m, _ = m.Update(keyRunes("a"))

	if marked.Len() != 1 {
		t.Fatalf("expected exactly 1 mark, got %d", marked.Len())
	}

	all, err := st.Search("", 0)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, n := range all {
		if n.Title == "Beta" && !marked.Contains(n.ID) {
			t.Error("expected Beta to be marked")
		}
		if n.Title != "Beta" && marked.Contains(n.ID) {
			t.Errorf("note %q outside the filter must not be marked", n.Title)
		}
	}
}

func TestSubmit_CreatesWhenNoMatch(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.input.SetValue("Zeta thoughts")
	m.Refresh()
	if m.Rows() != 0 {
		t.Fatalf("expected no matches, got %d", m.Rows())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	create, ok := msg.(messages.CreateNoteMsg)
	if !ok {
		t.Fatalf("expected CreateNoteMsg, got %T", msg)
	}
	if create.Title != "Zeta thoughts" {
		t.Errorf("expected title from query, got %q", create.Title)
	}
}

func TestSubmit_OpensFirstMatch(t *testing.T) {
	m, st, _ := newTestModel(t)

	m.input.SetValue("Gamma")
	m.Refresh()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	open, ok := msg.(messages.OpenNoteMsg)
	if !ok {
		t.Fatalf("expected OpenNoteMsg, got %T", msg)
	}
	n, err := st.Get(open.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if n.Title != "Gamma" {
		t.Errorf("expected to open Gamma, got %q", n.Title)
	}
}

func TestRefresh_KeepsResultsWhileTypingCommand(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.input.SetValue("Gamma")
	m.Refresh()
	if m.Rows() != 1 {
		t.Fatalf("expected 1 row for %q, got %d", "Gamma", m.Rows())
	}

	// Clearing the box to type a command must not blow away the list.
	m.input.SetValue(":q")
	m.Refresh()
	if m.Rows() != 1 {
		t.Errorf("expected result list untouched while typing a command, got %d rows", m.Rows())
	}
	if n, ok := m.Selected(); !ok || n.Title != "Gamma" {
		t.Errorf("expected Gamma still selected")
	}
}

func TestSubmit_QuitCommand(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.input.SetValue(":q")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	if _, ok := msg.(messages.QuitMsg); !ok {
		t.Errorf("expected QuitMsg, got %T", msg)
	}
}

func TestSubmit_UnknownCommand(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.input.SetValue(":frobnicate")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := runCmd(t, cmd)

	status, ok := msg.(messages.StatusMsg)
	if !ok {
		t.Fatalf("expected StatusMsg, got %T", msg)
	}
	if status.Text != "Unknown command: frobnicate" {
		t.Errorf("unexpected message %q", status.Text)
	}
}

func TestToggleMark_AdvancesCursor(t *testing.T) {
	m, _, marked := newTestModel(t)

	m.listFocused = true
	first, _ := m.Selected()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})

	if !marked.Contains(first.ID) {
		t.Error("expected first note to be marked")
	}
	second, _ := m.Selected()
	if second.ID == first.ID {
		t.Error("expected cursor to advance after marking")
	}
}

func TestBrowseKey_EmitsRequest(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.listFocused = true
	m, cmd := m.Update(keyRunes("b"))
	msg := runCmd(t, cmd)

	if _, ok := msg.(messages.BrowseRequestMsg); !ok {
		t.Errorf("expected BrowseRequestMsg, got %T", msg)
	}
}
