package marks

import "testing"

func TestToggle(t *testing.T) {
	s := New()

	if !s.Toggle(1) {
		t.Error("first toggle should mark")
	}
	if !s.Contains(1) {
		t.Error("expected 1 to be marked")
	}

	if s.Toggle(1) {
		t.Error("second toggle should unmark")
	}
	if s.Contains(1) {
		t.Error("expected 1 to be unmarked")
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Add(1)
	s.Add(2)

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty set after clear, got %d", s.Len())
	}
	if s.Contains(1) {
		t.Error("contains(1) should be false after clear")
	}
}

func TestMarkAll_OnlyVisibleIDs(t *testing.T) {
	s := New()

	s.MarkAll([]int64{2, 3})

	if s.Len() != 2 {
		t.Fatalf("expected 2 marks, got %d", s.Len())
	}
	if !s.Contains(2) || !s.Contains(3) {
		t.Error("expected visible ids to be marked")
	}
	if s.Contains(1) {
		t.Error("id outside the visible list must not be marked")
	}
}

func TestIDs_Sorted(t *testing.T) {
	s := New()
	s.Add(30)
	s.Add(10)
	s.Add(20)

	ids := s.IDs()
	expected := []int64{10, 20, 30}
	if len(ids) != len(expected) {
		t.Fatalf("expected %d ids, got %d", len(expected), len(ids))
	}
	for i, want := range expected {
		if ids[i] != want {
			t.Errorf("ids[%d]: expected %d, got %d", i, want, ids[i])
		}
	}
}

func TestPrune(t *testing.T) {
	s := New()
	s.Add(1)
	s.Add(2)
	s.Add(3)

	s.Prune(func(id int64) bool { return id != 2 })

	if s.Contains(2) {
		t.Error("expected 2 to be pruned")
	}
	if !s.Contains(1) || !s.Contains(3) {
		t.Error("expected surviving ids to stay marked")
	}
}
