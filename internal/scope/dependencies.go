package scope

import (
	"fmt"

	"github.com/vk/varflow/internal/variable"
)

// Dependencies reports the ids of the variables v's expression reads,
// resolved from v's own scope outwards. Constants are omitted because they
// never change. Calls to impure functions add variable.AlwaysDirty.
func (s *Scope) Dependencies(v *variable.Variable) (variable.IDSet, error) {
	deps := variable.NewIDSet()
	if v.IsConstant() || v.Expression() == nil {
		return deps, nil
	}

	owner, err := s.owner(v)
	if err != nil {
		return nil, err
	}
	analysis, ok := owner.exprs[v.ID()]
	if !ok {
		return nil, fmt.Errorf("%s: %w", v, ErrNotInHierarchy)
	}

	for _, name := range analysis.RootNames() {
		dep, ok := owner.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s reads %q: %w", v, name, ErrUndefinedReference)
		}
		if dep == v {
			// A self-reference is kept so ordering reports it as a cycle.
			deps.Add(dep.ID())
			continue
		}
		if !dep.IsConstant() {
			deps.Add(dep.ID())
		}
	}
	if analysis.Calls(ImpureFunctions...) {
		deps.Add(variable.AlwaysDirty)
	}
	return deps, nil
}

// Finalize folds every expression variable that depends only on constants
// into a constant, repeating until nothing changes. It returns the number of
// variables folded.
func (s *Scope) Finalize() (int, error) {
	folded := 0
	for {
		progress := false
		for _, v := range s.AllVariables() {
			if v.IsConstant() || v.IsReadOnly() {
				continue
			}
			deps, err := s.Dependencies(v)
			if err != nil {
				return folded, err
			}
			if len(deps) != 0 {
				continue
			}
			if err := v.Fold(); err != nil {
				return folded, err
			}
			folded++
			progress = true
		}
		if !progress {
			return folded, nil
		}
	}
}
