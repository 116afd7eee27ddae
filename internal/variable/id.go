package variable

import (
	"slices"
	"sync/atomic"
)

// ID is the process-unique identifier of a Variable.
type ID int64

// AlwaysDirty is the reserved id an expression reports when it reads state
// that is not modeled by any variable. A dependency on it means "re-evaluate
// whenever any root changes".
const AlwaysDirty ID = -1

var lastID atomic.Int64

// nextID hands out ids starting at 1.
func nextID() ID {
	return ID(lastID.Add(1))
}

// IDSet is a set of variable ids.
type IDSet map[ID]struct{}

// NewIDSet creates a set holding the given ids.
func NewIDSet(ids ...ID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id ID) {
	s[id] = struct{}{}
}

// Remove deletes id from the set.
func (s IDSet) Remove(id ID) {
	delete(s, id)
}

// Has reports whether id is in the set.
func (s IDSet) Has(id ID) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []ID {
	out := make([]ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
