package linkset

import "sync"

// Set is an insertion-ordered collection of unique strings.
type Set struct {
	mu    sync.Mutex
	index map[string]struct{}
	items []string
}

// New creates an empty Set.
func New() *Set {
	return &Set{
		index: make(map[string]struct{}),
		items: []string{},
	}
}

// Add appends value if it is not present yet and reports whether it was added.
func (s *Set) Add(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[value]; ok {
		return false
	}

	s.index[value] = struct{}{}
	s.items = append(s.items, value)

	return true
}

// Contains reports whether value has been added.
func (s *Set) Contains(value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.index[value]
	return ok
}

// Len returns the number of values.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Values returns a copy of the values in insertion order.
func (s *Set) Values() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.items))
	copy(out, s.items)

	return out
}
