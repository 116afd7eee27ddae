package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/varflow/internal/ctxlog"
	"github.com/vk/varflow/internal/deps"
	"github.com/vk/varflow/internal/hcl_adapter"
	"github.com/vk/varflow/internal/render"
	"github.com/vk/varflow/internal/scope"
	"github.com/vk/varflow/internal/valuestore"
	"github.com/vk/varflow/internal/variable"
	"github.com/vk/varflow/internal/varpath"
)

// Run executes one load-update-render cycle.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	model, err := a.loader.Load(ctx, a.config.Paths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	root, err := scope.FromModel(ctx, model)
	if err != nil {
		return fmt.Errorf("failed to build scopes: %w", err)
	}

	depMap, err := deps.NewMap(ctx, root, root)
	if err != nil {
		return fmt.Errorf("failed to build dependency map: %w", err)
	}

	if err := a.applyInputs(root); err != nil {
		return err
	}

	store := valuestore.New()
	var failures []*deps.EvaluationError
	if a.config.All {
		failures, err = a.updateAll(ctx, root, depMap, store)
	} else {
		err = a.updateTargets(ctx, root, depMap, store)
	}
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(a.config.Output)
	if err != nil {
		return err
	}
	if err := render.Write(a.outW, format, store.Entries()); err != nil {
		return fmt.Errorf("failed to render values: %w", err)
	}

	a.logger.Debug("App.Run method finished.")
	if len(failures) > 0 {
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f
		}
		return fmt.Errorf("%d variable(s) failed to evaluate: %w", len(failures), errors.Join(errs...))
	}
	return nil
}

func (a *App) applyInputs(root *scope.Scope) error {
	for _, raw := range a.config.Inputs {
		addr, val, err := hcl_adapter.ParseAssignment(raw)
		if err != nil {
			return err
		}
		v, ok := root.Resolve(addr)
		if !ok {
			return fmt.Errorf("cannot set %s: no such variable", addr)
		}
		if !v.IsReadOnly() {
			return fmt.Errorf("cannot set %s: only inputs can be set", addr)
		}
		if err := v.Set(val); err != nil {
			return err
		}
		a.logger.Debug("Input set.", "variable", addr.String())
	}
	return nil
}

// updateAll evaluates every variable without stopping at failures, which
// are recorded in the store and returned.
func (a *App) updateAll(ctx context.Context, root *scope.Scope, depMap *deps.Map, store *valuestore.Store) ([]*deps.EvaluationError, error) {
	failures, err := depMap.UpdateAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, v := range root.AllVariables() {
		if err := store.Record(ctx, v, v.Value()); err != nil {
			return nil, err
		}
	}

	for _, f := range failures {
		if info, ok := depMap.Info(f.ID); ok {
			store.SetError(info.Variable.Address(), f)
		}
	}
	a.logger.Info("Full update finished.", "variables", depMap.Len()-1, "failures", len(failures))
	return failures, nil
}

// updateTargets refreshes the requested variables from every input.
func (a *App) updateTargets(ctx context.Context, root *scope.Scope, depMap *deps.Map, store *valuestore.Store) error {
	targets, err := a.resolveTargets(root)
	if err != nil {
		return err
	}

	u := deps.NewUpdater(depMap)
	for _, v := range root.AllVariables() {
		if v.IsReadOnly() {
			if err := u.AddIndependent(store.Parameter(v)); err != nil {
				return err
			}
		}
	}

	for _, v := range targets {
		p := store.Parameter(v)
		if v.IsReadOnly() {
			if err := p.Update(ctx); err != nil {
				return err
			}
			continue
		}
		if err := u.AddDependent(ctx, p); err != nil {
			return err
		}
	}

	if err := u.Update(ctx); err != nil {
		return err
	}
	a.logger.Info("Update finished.", "targets", len(targets), "independents", len(u.Independents())-1)
	return nil
}

func (a *App) resolveTargets(root *scope.Scope) ([]*variable.Variable, error) {
	if len(a.config.Targets) == 0 {
		return root.AllVariables(), nil
	}

	targets := make([]*variable.Variable, 0, len(a.config.Targets))
	for _, raw := range a.config.Targets {
		addr, err := varpath.Parse(raw)
		if err != nil {
			return nil, err
		}
		v, ok := root.Resolve(addr)
		if !ok {
			return nil, fmt.Errorf("unknown target %s", addr)
		}
		targets = append(targets, v)
	}
	return targets, nil
}
