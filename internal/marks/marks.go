// Package marks holds the per-session set of selected note ids.
//
// The set is owned by the root TUI model and passed by pointer to every view
// that reads it, so a mark toggled in one view is immediately visible in all
// others. It is never persisted; each process starts with an empty set.
package marks

import "sort"

// Set is a mutable set of note ids.
type Set struct {
	ids map[int64]struct{}
}

// New returns an empty mark set.
func New() *Set {
	return &Set{ids: make(map[int64]struct{})}
}

// Toggle adds id if absent, removes it if present. Returns true when the id
// is marked after the call.
func (s *Set) Toggle(id int64) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Add marks id.
func (s *Set) Add(id int64) {
	s.ids[id] = struct{}{}
}

// MarkAll marks every id in visible. Ids outside the slice are untouched.
func (s *Set) MarkAll(visible []int64) {
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

// Clear removes all marks.
func (s *Set) Clear() {
	s.ids = make(map[int64]struct{})
}

// Contains reports whether id is marked.
func (s *Set) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of marked ids.
func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns the marked ids in ascending order.
func (s *Set) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Prune drops any mark whose id valid does not report as existing. Used to
// lazily discard marks for notes no longer present in the store.
func (s *Set) Prune(valid func(int64) bool) {
	for id := range s.ids {
		if !valid(id) {
			delete(s.ids, id)
		}
	}
}
