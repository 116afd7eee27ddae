package valuestore

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/vk/varflow/internal/param"
	"github.com/vk/varflow/internal/variable"
	"github.com/vk/varflow/internal/varpath"
	"github.com/zclconf/go-cty/cty"
)

// Entry is one delivered value.
type Entry struct {
	Address varpath.Address
	Value   cty.Value
}

// Store keeps the last delivered value of each variable.
type Store struct {
	values sync.Map // Key: address string, Value: Entry
	errors sync.Map // Key: address string, Value: error
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Record stores val as the current value of v and clears any failure.
func (s *Store) Record(ctx context.Context, v *variable.Variable, val cty.Value) error {
	key := v.Address().String()
	s.values.Store(key, Entry{Address: v.Address(), Value: val})
	s.errors.Delete(key)
	return nil
}

// SetError records a failure for the variable at addr.
func (s *Store) SetError(addr varpath.Address, err error) {
	s.errors.Store(addr.String(), err)
}

// Get returns the last value recorded for addr.
func (s *Store) Get(addr varpath.Address) (cty.Value, bool) {
	e, ok := s.values.Load(addr.String())
	if !ok {
		return cty.NilVal, false
	}
	return e.(Entry).Value, true
}

// Error returns the failure recorded for addr, if any.
func (s *Store) Error(addr varpath.Address) error {
	err, ok := s.errors.Load(addr.String())
	if !ok {
		return nil
	}
	return err.(error)
}

// Entries returns every recorded value ordered by address.
func (s *Store) Entries() []Entry {
	var out []Entry
	s.values.Range(func(_, v any) bool {
		out = append(out, v.(Entry))
		return true
	})
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.Address.String(), b.Address.String())
	})
	return out
}

// Sink returns a param.Sink that records into the store.
func (s *Store) Sink() param.Sink {
	return s.Record
}

// Parameter wraps v in a parameter delivering to the store.
func (s *Store) Parameter(v *variable.Variable) *param.Parameter {
	return param.New(v, s.Record)
}
