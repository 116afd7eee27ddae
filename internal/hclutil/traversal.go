// Package hclutil holds small helpers shared by the packages that work with
// raw HCL syntax.
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an hcl.Traversal,
// suitable for use as a map key.
func TraversalKey(t hcl.Traversal) string {
	// e.g., grid.dx or inputs[0]
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// IsExprDefined reports whether an expression was actually present in the
// source. gohcl populates omitted optional attributes with zero-width
// placeholder expressions, so a nil check is not enough.
func IsExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}
