package deps

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/variable"
)

// ErrReadOnlyDependent is returned when a read-only variable is registered as
// a dependent. Read-only variables are only ever roots.
var ErrReadOnlyDependent = errors.New("read-only variable cannot be a dependent")

// Parameter delivers the value of a variable to a consumer.
type Parameter interface {
	Variable() *variable.Variable
	Update(ctx context.Context) error
}

// Updater keeps the variables of one consumer up to date. It caches the
// update list computed by its Map until its roots or targets change.
// An Updater is not safe for concurrent use; several Updaters may share a Map.
type Updater struct {
	m            *Map
	independents []*variable.Variable
	dependents   []Parameter
	schedule     []*variable.Variable
	valid        bool
}

// NewUpdater creates an Updater whose only root is the map's dummy.
func NewUpdater(m *Map) *Updater {
	return &Updater{
		m:            m,
		independents: []*variable.Variable{m.Dummy()},
	}
}

// AddIndependent registers a read-only variable as a root.
func (u *Updater) AddIndependent(p Parameter) error {
	return u.AddIndependentVariable(p.Variable())
}

// AddIndependentVariable registers v as a root without a consumer.
func (u *Updater) AddIndependentVariable(v *variable.Variable) error {
	if !v.IsReadOnly() {
		return graphErrorf(ErrNotReadOnly, "%s", v)
	}
	if !u.m.Contains(v) {
		return graphErrorf(ErrUnknownVariable, "%s (id %d)", v, v.ID())
	}
	if u.hasIndependent(v) {
		return nil
	}
	u.independents = append(u.independents, v)
	u.valid = false
	return nil
}

// RemoveIndependent unregisters a root. The dummy cannot be removed.
func (u *Updater) RemoveIndependent(v *variable.Variable) bool {
	if v == u.m.Dummy() {
		return false
	}
	i := slices.Index(u.independents, v)
	if i < 0 {
		return false
	}
	u.independents = slices.Delete(u.independents, i, i+1)
	u.valid = false
	return true
}

func (u *Updater) hasIndependent(v *variable.Variable) bool {
	return slices.Contains(u.independents, v)
}

// Independents returns the registered roots, the dummy first.
func (u *Updater) Independents() []*variable.Variable {
	return slices.Clone(u.independents)
}

// AddDependent registers a target; registering the same parameter again is a
// no-op. Constants never change, so their value is delivered immediately and
// they are not scheduled.
func (u *Updater) AddDependent(ctx context.Context, p Parameter) error {
	v := p.Variable()
	if v.IsConstant() {
		return p.Update(ctx)
	}
	if v.IsReadOnly() {
		return graphErrorf(ErrReadOnlyDependent, "%s", v)
	}
	if !u.m.Contains(v) {
		return graphErrorf(ErrUnknownVariable, "%s (id %d)", v, v.ID())
	}
	if slices.Contains(u.dependents, p) {
		return nil
	}
	u.dependents = append(u.dependents, p)
	u.valid = false
	return nil
}

// ClearDependent drops every registered target.
func (u *Updater) ClearDependent() {
	u.dependents = nil
	u.valid = false
}

// IsValid reports whether the cached schedule matches the current roots and
// targets.
func (u *Updater) IsValid() bool {
	return u.valid
}

// Schedule returns the update list, recomputing it if needed.
func (u *Updater) Schedule(ctx context.Context) ([]*variable.Variable, error) {
	if !u.valid {
		vars := make([]*variable.Variable, len(u.dependents))
		for i, p := range u.dependents {
			vars[i] = p.Variable()
		}
		schedule, err := u.m.MakeUpdateList(ctx, u.independents, vars)
		if err != nil {
			return nil, err
		}
		u.schedule = schedule
		u.valid = true
		ctxlog.FromContext(ctx).Debug("Updater schedule rebuilt.", "updates", len(schedule))
	}
	return slices.Clone(u.schedule), nil
}

// Update re-evaluates the scheduled variables and delivers every target.
// The first evaluation failure aborts the pass before anything is delivered.
func (u *Updater) Update(ctx context.Context) error {
	schedule, err := u.Schedule(ctx)
	if err != nil {
		return err
	}
	for _, v := range schedule {
		if ferr := evaluate(v); ferr != nil {
			return ferr
		}
	}
	for _, p := range u.dependents {
		if err := p.Update(ctx); err != nil {
			return fmt.Errorf("delivering %s: %w", p.Variable(), err)
		}
	}
	return nil
}
