package hcl_adapter

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/varflow/internal/varpath"
	"github.com/zclconf/go-cty/cty"
)

// ParseValue parses raw as a constant HCL expression. A bare word that does
// not parse as a literal, such as `hello`, is taken as a string.
func ParseValue(raw string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(raw), "<value>", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.StringVal(raw), nil
	}
	if len(expr.Variables()) > 0 {
		return cty.StringVal(raw), nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("invalid value %q: %w", raw, diags)
	}
	return val, nil
}

// ParseAssignment splits a `path=value` pair and parses both halves.
func ParseAssignment(raw string) (varpath.Address, cty.Value, error) {
	name, value, ok := strings.Cut(raw, "=")
	if !ok {
		return varpath.Address{}, cty.NilVal, fmt.Errorf("invalid assignment %q: expected name=value", raw)
	}
	addr, err := varpath.Parse(strings.TrimSpace(name))
	if err != nil {
		return varpath.Address{}, cty.NilVal, err
	}
	val, err := ParseValue(strings.TrimSpace(value))
	if err != nil {
		return varpath.Address{}, cty.NilVal, err
	}
	return addr, val, nil
}
