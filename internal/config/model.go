package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a configuration.
type Model struct {
	Root *ScopeDef
}

// ScopeDef is one scope of the hierarchy. The root scope has an empty name.
type ScopeDef struct {
	Name     string
	Inputs   []*InputDef
	Vars     []*VarDef
	Children []*ScopeDef
	DefRange hcl.Range
}

// InputDef declares an input variable whose value is supplied from outside.
type InputDef struct {
	Name        string
	Description string
	Type        cty.Type
	Default     *cty.Value
	DefRange    hcl.Range
}

// VarDef declares a variable computed from an expression.
type VarDef struct {
	Name     string
	Expr     hcl.Expression
	DefRange hcl.Range
}

// NewModel returns a model with an empty root scope.
func NewModel() *Model {
	return &Model{Root: &ScopeDef{}}
}

// Walk visits every scope definition depth-first, parents before children.
func (s *ScopeDef) Walk(fn func(path []string, def *ScopeDef) error) error {
	return s.walk(nil, fn)
}

func (s *ScopeDef) walk(path []string, fn func([]string, *ScopeDef) error) error {
	if err := fn(path, s); err != nil {
		return err
	}
	for _, c := range s.Children {
		childPath := append(append([]string(nil), path...), c.Name)
		if err := c.walk(childPath, fn); err != nil {
			return err
		}
	}
	return nil
}
