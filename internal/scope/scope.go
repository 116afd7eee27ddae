package scope

import (
	"errors"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/varflow/internal/varexpr"
	"github.com/vk/varflow/internal/variable"
	"github.com/vk/varflow/internal/varpath"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

var (
	// ErrDuplicateName is returned when a name is declared twice in one scope.
	ErrDuplicateName = errors.New("duplicate name in scope")
	// ErrUndefinedReference is returned when an expression reads a name no
	// enclosing scope declares.
	ErrUndefinedReference = errors.New("reference to undeclared variable")
	// ErrNotInHierarchy is returned for variables the hierarchy does not own.
	ErrNotInHierarchy = errors.New("variable does not belong to this scope hierarchy")
)

// Scope is a node of the variable-scope hierarchy.
type Scope struct {
	name     string
	path     []string
	parent   *Scope
	vars     map[string]*variable.Variable
	order    []*variable.Variable
	exprs    map[variable.ID]*varexpr.Container
	children []*Scope
	byName   map[string]*Scope
	funcs    map[string]function.Function
}

// NewRoot creates an empty root scope with the default function table.
func NewRoot() *Scope {
	return newScope("", nil, nil, Functions())
}

func newScope(name string, path []string, parent *Scope, funcs map[string]function.Function) *Scope {
	return &Scope{
		name:   name,
		path:   path,
		parent: parent,
		vars:   make(map[string]*variable.Variable),
		exprs:  make(map[variable.ID]*varexpr.Container),
		byName: make(map[string]*Scope),
		funcs:  funcs,
	}
}

// NewChild appends a named child scope.
func (s *Scope) NewChild(name string) (*Scope, error) {
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("scope %q in %q: %w", name, s, ErrDuplicateName)
	}
	path := append(slices.Clone(s.path), name)
	child := newScope(name, path, s, s.funcs)
	s.children = append(s.children, child)
	s.byName[name] = child
	return child, nil
}

// Name returns the scope's own name, empty for the root.
func (s *Scope) Name() string { return s.name }

// Path returns the names of the scopes from the root down to s.
func (s *Scope) Path() []string { return slices.Clone(s.path) }

// String implements fmt.Stringer.
func (s *Scope) String() string {
	if len(s.path) == 0 {
		return "<root>"
	}
	return varpath.Address{Scope: s.path[:len(s.path)-1], Name: s.name}.String()
}

// Parent returns the enclosing scope, nil for the root.
func (s *Scope) Parent() *Scope { return s.parent }

// Variables returns the locally declared variables in declaration order.
func (s *Scope) Variables() []*variable.Variable { return slices.Clone(s.order) }

// Children returns the child scopes in declaration order.
func (s *Scope) Children() []*Scope { return slices.Clone(s.children) }

// Child returns the direct child scope with the given name.
func (s *Scope) Child(name string) (*Scope, bool) {
	c, ok := s.byName[name]
	return c, ok
}

func (s *Scope) declare(v *variable.Variable) error {
	if _, ok := s.vars[v.Name()]; ok {
		return fmt.Errorf("variable %q in %s: %w", v.Name(), s, ErrDuplicateName)
	}
	s.vars[v.Name()] = v
	s.order = append(s.order, v)
	return nil
}

func (s *Scope) address(name string) varpath.Address {
	return varpath.New(name, s.path...)
}

// DeclareInput declares a read-only input variable.
func (s *Scope) DeclareInput(name string, ty cty.Type, initial cty.Value) (*variable.Variable, error) {
	v, err := variable.NewInput(s.address(name), ty, initial)
	if err != nil {
		return nil, err
	}
	if err := s.declare(v); err != nil {
		return nil, err
	}
	return v, nil
}

// DeclareConstant declares a variable with a fixed value.
func (s *Scope) DeclareConstant(name string, val cty.Value) (*variable.Variable, error) {
	v := variable.NewConstant(s.address(name), val)
	if err := s.declare(v); err != nil {
		return nil, err
	}
	return v, nil
}

// Define declares a variable computed from expr. Expressions that read no
// variables and call no functions become constants immediately.
func (s *Scope) Define(name string, expr hcl.Expression) (*variable.Variable, error) {
	analysis := varexpr.NewContainer(expr)
	if analysis.IsStatic() {
		val, diags := expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating %s: %w", s.address(name), diags)
		}
		return s.DeclareConstant(name, val)
	}

	v := variable.NewExpression(s.address(name), expr, s)
	if err := s.declare(v); err != nil {
		return nil, err
	}
	s.exprs[v.ID()] = analysis
	return v, nil
}

// Lookup resolves a name from this scope outwards.
func (s *Scope) Lookup(name string) (*variable.Variable, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Resolve finds the variable at addr relative to s, descending into child
// scopes. Unlike Lookup it never searches enclosing scopes.
func (s *Scope) Resolve(addr varpath.Address) (*variable.Variable, bool) {
	target, ok := s.descend(addr.Scope)
	if !ok {
		return nil, false
	}
	v, ok := target.vars[addr.Name]
	return v, ok
}

func (s *Scope) descend(path []string) (*Scope, bool) {
	cur := s
	for _, name := range path {
		next, ok := cur.byName[name]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Walk visits s and all of its descendants depth-first, parents before children.
func (s *Scope) Walk(fn func(*Scope) error) error {
	if err := fn(s); err != nil {
		return err
	}
	for _, c := range s.children {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// AllVariables returns every variable of the hierarchy rooted at s.
func (s *Scope) AllVariables() []*variable.Variable {
	var all []*variable.Variable
	_ = s.Walk(func(sc *Scope) error {
		all = append(all, sc.order...)
		return nil
	})
	return all
}

func (s *Scope) root() *Scope {
	cur := s
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// owner returns the scope that declared v.
func (s *Scope) owner(v *variable.Variable) (*Scope, error) {
	sc, ok := s.root().descend(v.Address().Scope)
	if !ok || sc.vars[v.Name()] != v {
		return nil, fmt.Errorf("%s: %w", v, ErrNotInHierarchy)
	}
	return sc, nil
}
