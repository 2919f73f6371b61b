package variant

import "strings"

// Set is an insertion-ordered collection of distinct variants. The first
// element is always the word that was expanded.
type Set struct {
	items []string
	index map[string]struct{}
	limit int
}

func newSet(limit int) *Set {
	return &Set{
		items: make([]string, 0, 16),
		index: make(map[string]struct{}, 16),
		limit: limit,
	}
}

// add inserts v unless it is empty, already present, or the set is full.
func (s *Set) add(v string) bool {
	if v == "" || s.full() {
		return false
	}
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *Set) full() bool {
	return s.limit > 0 && len(s.items) >= s.limit
}

// snapshot returns the current items so a stage can iterate over them
// while adding new ones.
func (s *Set) snapshot() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Items returns the variants in generation order.
func (s Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of variants.
func (s Set) Len() int { return len(s.items) }

// Contains reports whether v is one of the variants.
func (s Set) Contains(v string) bool {
	_, ok := s.index[v]
	return ok
}

// String joins the variants with spaces, the form a search query expects.
func (s Set) String() string {
	return strings.Join(s.items, " ")
}
