package variable

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/varflow/internal/varpath"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrNotSettable is returned by Set for variables that are not inputs.
var ErrNotSettable = errors.New("variable is not an input")

// Env supplies the evaluation context an expression is evaluated in. It is
// implemented by the scope that owns the variable.
type Env interface {
	EvalContext() *hcl.EvalContext
}

// Variable is a single named value in a scope hierarchy.
type Variable struct {
	id       ID
	addr     varpath.Address
	constant bool
	readOnly bool
	expr     hcl.Expression
	env      Env
	typ      cty.Type
	value    cty.Value
}

// NewConstant creates a variable whose value never changes.
func NewConstant(addr varpath.Address, value cty.Value) *Variable {
	return &Variable{
		id:       nextID(),
		addr:     addr,
		constant: true,
		value:    value,
	}
}

// NewInput creates a read-only variable whose value is supplied from outside
// through Set. Values are converted to ty; cty.NilType accepts any value.
// A missing initial value becomes a null of type ty.
func NewInput(addr varpath.Address, ty cty.Type, initial cty.Value) (*Variable, error) {
	if ty == cty.NilType {
		ty = cty.DynamicPseudoType
	}
	v := &Variable{
		id:       nextID(),
		addr:     addr,
		readOnly: true,
		typ:      ty,
		value:    cty.NullVal(ty),
	}
	if initial != cty.NilVal && !initial.IsNull() {
		if err := v.Set(initial); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// NewExpression creates a variable computed from expr. The value stays
// unknown until the first Evaluate.
func NewExpression(addr varpath.Address, expr hcl.Expression, env Env) *Variable {
	return &Variable{
		id:    nextID(),
		addr:  addr,
		expr:  expr,
		env:   env,
		value: cty.DynamicVal,
	}
}

// ID returns the process-unique id assigned at creation.
func (v *Variable) ID() ID { return v.id }

// Name returns the unqualified variable name.
func (v *Variable) Name() string { return v.addr.Name }

// Address returns the scope-qualified address of the variable.
func (v *Variable) Address() varpath.Address { return v.addr }

// String implements fmt.Stringer.
func (v *Variable) String() string { return v.addr.String() }

// IsConstant reports whether the variable is fixed at setup.
func (v *Variable) IsConstant() bool { return v.constant }

// IsReadOnly reports whether the variable may only serve as a root.
func (v *Variable) IsReadOnly() bool { return v.readOnly }

// Expression returns the defining expression, nil for constants and inputs.
func (v *Variable) Expression() hcl.Expression { return v.expr }

// Value returns the value computed by the last Evaluate or Set.
func (v *Variable) Value() cty.Value { return v.value }

// Type returns the type constraint of an input variable.
func (v *Variable) Type() cty.Type {
	if v.typ == cty.NilType {
		return cty.DynamicPseudoType
	}
	return v.typ
}

// Set assigns the value of an input variable, converting it to the
// variable's type constraint.
func (v *Variable) Set(val cty.Value) error {
	if !v.readOnly || v.constant {
		return fmt.Errorf("cannot set %s: %w", v.addr, ErrNotSettable)
	}
	converted, err := convert.Convert(val, v.Type())
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", v.addr, err)
	}
	v.value = converted
	return nil
}

// Evaluate recomputes the stored value from the expression. Variables without
// an expression keep their value.
func (v *Variable) Evaluate() error {
	if v.constant || v.expr == nil {
		return nil
	}

	var evalCtx *hcl.EvalContext
	if v.env != nil {
		evalCtx = v.env.EvalContext()
	}

	val, diags := v.expr.Value(evalCtx)
	if diags.HasErrors() {
		return fmt.Errorf("evaluating %s: %w", v.addr, diags)
	}
	v.value = val
	return nil
}

// Fold evaluates an expression variable once and turns it into a constant.
// It is used for expressions whose inputs are all constants.
func (v *Variable) Fold() error {
	if v.constant {
		return nil
	}
	if v.readOnly {
		return fmt.Errorf("cannot fold input %s", v.addr)
	}
	if err := v.Evaluate(); err != nil {
		return err
	}
	v.constant = true
	return nil
}
