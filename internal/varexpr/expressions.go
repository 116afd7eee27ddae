package varexpr

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/varflow/internal/hclutil"
)

// extract walks through HCL expressions to find all unique variable
// traversals, their root names and function calls. The returned slices are
// sorted to ensure a deterministic order.
func extract(exprs ...hcl.Expression) ([]hcl.Traversal, []string, []string) {
	traversals := make(map[string]hcl.Traversal)
	roots := make(map[string]struct{})
	functions := make(map[string]struct{})

	for _, expr := range exprs {
		if expr == nil {
			continue
		}

		// Variables() already excludes the iterator symbols of for expressions.
		for _, traversal := range expr.Variables() {
			traversals[hclutil.TraversalKey(traversal)] = traversal
			roots[traversal.RootName()] = struct{}{}
		}

		if syntaxExpr, ok := expr.(hclsyntax.Expression); ok {
			walkForFunctions(syntaxExpr, functions)
		}
	}

	traversalKeys := make([]string, 0, len(traversals))
	for k := range traversals {
		traversalKeys = append(traversalKeys, k)
	}
	sort.Strings(traversalKeys)

	traversalSlice := make([]hcl.Traversal, 0, len(traversals))
	for _, k := range traversalKeys {
		traversalSlice = append(traversalSlice, traversals[k])
	}

	return traversalSlice, sortedKeys(roots), sortedKeys(functions)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// walkForFunctions records the name of every function call in the syntax
// tree, template directives included.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	hclsyntax.VisitAll(expr, func(node hclsyntax.Node) hcl.Diagnostics {
		if call, ok := node.(*hclsyntax.FunctionCallExpr); ok {
			functions[call.Name] = struct{}{}
		}
		return nil
	})
}
