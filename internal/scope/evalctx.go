package scope

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// EvalContext builds the evaluation context for expressions declared in s.
// Each enclosing scope contributes one context level, so inner names shadow
// outer ones. Functions are registered on the outermost level only.
func (s *Scope) EvalContext() *hcl.EvalContext {
	var ctx *hcl.EvalContext
	if s.parent == nil {
		ctx = &hcl.EvalContext{Functions: s.funcs}
	} else {
		ctx = s.parent.EvalContext().NewChild()
	}
	ctx.Variables = s.values()
	return ctx
}

func (s *Scope) values() map[string]cty.Value {
	vals := make(map[string]cty.Value, len(s.order))
	for _, v := range s.order {
		vals[v.Name()] = v.Value()
	}
	return vals
}
