// Package param connects variables to the consumers of their values.
package param

import (
	"context"
	"fmt"

	"github.com/vk/varflow/internal/variable"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Sink receives the value of a variable each time it is delivered.
type Sink func(ctx context.Context, v *variable.Variable, val cty.Value) error

// Parameter wraps a variable for delivery to a sink.
type Parameter struct {
	v    *variable.Variable
	sink Sink
}

// New creates a parameter delivering v's value to sink.
func New(v *variable.Variable, sink Sink) *Parameter {
	return &Parameter{v: v, sink: sink}
}

// Bind creates a parameter that decodes v's value into the Go value target
// points to. Unknown and null values leave target untouched.
func Bind(v *variable.Variable, target any) *Parameter {
	return New(v, func(_ context.Context, v *variable.Variable, val cty.Value) error {
		if !val.IsWhollyKnown() || val.IsNull() {
			return nil
		}
		if err := gocty.FromCtyValue(val, target); err != nil {
			return fmt.Errorf("binding %s: %w", v, err)
		}
		return nil
	})
}

// Variable returns the wrapped variable.
func (p *Parameter) Variable() *variable.Variable { return p.v }

// Update pushes the variable's current value to the sink.
func (p *Parameter) Update(ctx context.Context) error {
	if p.sink == nil {
		return nil
	}
	return p.sink(ctx, p.v, p.v.Value())
}
