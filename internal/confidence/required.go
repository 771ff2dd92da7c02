package confidence

import (
	"maps"
	"slices"
)

// RequiredSet names the fields that count toward a document's confidence.
//
// A nil *RequiredSet treats every field as required. A non-nil empty set
// requires nothing.
type RequiredSet struct {
	names map[string]struct{}
}

// NewRequiredSet returns a set containing names. Calling it with no names
// returns an empty, non-nil set.
func NewRequiredSet(names ...string) *RequiredSet {
	s := &RequiredSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		s.names[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is required.
func (s *RequiredSet) Contains(name string) bool {
	if s == nil {
		return true
	}
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the set, or -1 for a nil set.
func (s *RequiredSet) Len() int {
	if s == nil {
		return -1
	}
	return len(s.names)
}

// Names returns the set's names in sorted order.
func (s *RequiredSet) Names() []string {
	if s == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(s.names))
}
