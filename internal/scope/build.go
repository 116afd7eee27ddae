package scope

import (
	"context"
	"fmt"

	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// FromModel builds the scope hierarchy a configuration model describes and
// folds constant expressions.
func FromModel(ctx context.Context, model *config.Model) (*Scope, error) {
	logger := ctxlog.FromContext(ctx)

	root := NewRoot()
	if model == nil || model.Root == nil {
		return root, nil
	}
	if err := populate(root, model.Root); err != nil {
		return nil, err
	}

	folded, err := root.Finalize()
	if err != nil {
		return nil, err
	}
	logger.Debug("Scope hierarchy built.",
		"variables", len(root.AllVariables()),
		"folded", folded,
	)
	return root, nil
}

func populate(s *Scope, def *config.ScopeDef) error {
	for _, in := range def.Inputs {
		initial := cty.NilVal
		if in.Default != nil {
			initial = *in.Default
		}
		if _, err := s.DeclareInput(in.Name, in.Type, initial); err != nil {
			return fmt.Errorf("%s: %w", in.DefRange, err)
		}
	}
	for _, vd := range def.Vars {
		if _, err := s.Define(vd.Name, vd.Expr); err != nil {
			return fmt.Errorf("%s: %w", vd.DefRange, err)
		}
	}
	for _, cd := range def.Children {
		child, err := s.NewChild(cd.Name)
		if err != nil {
			return fmt.Errorf("%s: %w", cd.DefRange, err)
		}
		if err := populate(child, cd); err != nil {
			return err
		}
	}
	return nil
}
