// Package varexpr analyzes the HCL expressions that define variables: which
// names they read and which functions they call.
package varexpr

import (
	"github.com/hashicorp/hcl/v2"
)

// Container holds the analysis of a set of HCL expressions: variable
// references and function calls. It is computed once at construction and is
// safe for concurrent reads.
type Container struct {
	references      []hcl.Traversal
	rootNames       []string
	calledFunctions []string
}

// NewContainer analyzes the given expressions. Nil expressions are ignored.
func NewContainer(exprs ...hcl.Expression) *Container {
	refs, roots, funcs := extract(exprs...)
	return &Container{
		references:      refs,
		rootNames:       roots,
		calledFunctions: funcs,
	}
}

// References returns all unique variable traversals found in the expressions.
func (c *Container) References() []hcl.Traversal {
	return c.references
}

// RootNames returns the unique root names of all traversals, i.e. the
// variable names the expressions read.
func (c *Container) RootNames() []string {
	return c.rootNames
}

// CalledFunctions returns all unique function calls found in the expressions.
func (c *Container) CalledFunctions() []string {
	return c.calledFunctions
}

// IsStatic reports whether the expressions neither read variables nor call
// functions, so their value can be computed once without a context.
func (c *Container) IsStatic() bool {
	return len(c.references) == 0 && len(c.calledFunctions) == 0
}

// Calls reports whether any of the named functions is called.
func (c *Container) Calls(names ...string) bool {
	for _, called := range c.calledFunctions {
		for _, name := range names {
			if called == name {
				return true
			}
		}
	}
	return false
}
