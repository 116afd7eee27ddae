package varexpr_test

import (
	"sync"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/hclutil"
	"github.com/vk/varflow/internal/varexpr"
)

// parseExpr is a test helper to quickly get an hcl.Expression from a string.
func parseExpr(t *testing.T, exprStr string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(exprStr), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "Expression parsing failed: %s", diags.Error())
	return expr
}

func TestContainer_AddAndExtract(t *testing.T) {
	c := varexpr.NewContainer(
		parseExpr(t, `upper("hello")`),
		parseExpr(t, `grid.dx * n`),
		parseExpr(t, `max(grid.dx, t)`),
		parseExpr(t, `grid.dx`), // duplicate reference
	)

	require.Equal(t, []string{"max", "upper"}, c.CalledFunctions())
	require.Equal(t, []string{"grid", "n", "t"}, c.RootNames())

	var keys []string
	for _, ref := range c.References() {
		keys = append(keys, hclutil.TraversalKey(ref))
	}
	require.Equal(t, []string{"grid.dx", "n", "t"}, keys)
}

func TestContainer_NestedFunctionCalls(t *testing.T) {
	testCases := []struct {
		name  string
		expr  string
		funcs []string
		roots []string
	}{
		{name: "conditional", expr: `a > 0 ? floor(a) : ceil(b)`, funcs: []string{"ceil", "floor"}, roots: []string{"a", "b"}},
		{name: "template", expr: `"run-${upper(name)}"`, funcs: []string{"upper"}, roots: []string{"name"}},
		{name: "tuple and object", expr: `{ k = [abs(x)] }`, funcs: []string{"abs"}, roots: []string{"x"}},
		{name: "for expression", expr: `[for v in values : pow(v, 2)]`, funcs: []string{"pow"}, roots: []string{"values"}},
		{name: "index", expr: `items[length(items) - 1]`, funcs: []string{"length"}, roots: []string{"items"}},
		{name: "parentheses and unary", expr: `-(signum(a))`, funcs: []string{"signum"}, roots: []string{"a"}},
		{name: "impure call without args", expr: `timestamp()`, funcs: []string{"timestamp"}, roots: []string{}},
		{name: "template for directive", expr: `"%{ for i in [n] }${uuid()}%{ endfor }"`, funcs: []string{"uuid"}, roots: []string{"n"}},
		{name: "template if directive", expr: `"%{ if a > 0 }${env("HOME")}%{ else }${lower(b)}%{ endif }"`, funcs: []string{"env", "lower"}, roots: []string{"a", "b"}},
		{name: "splat", expr: `items[*].name`, funcs: []string{}, roots: []string{"items"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := varexpr.NewContainer(parseExpr(t, tc.expr))
			assert.Equal(t, tc.funcs, c.CalledFunctions())
			assert.Equal(t, tc.roots, c.RootNames())
		})
	}
}

func TestContainer_IsStaticAndCalls(t *testing.T) {
	assert.True(t, varexpr.NewContainer(parseExpr(t, `1 + 2 * 3`)).IsStatic())
	assert.True(t, varexpr.NewContainer(parseExpr(t, `"text"`)).IsStatic())
	assert.False(t, varexpr.NewContainer(parseExpr(t, `a + 1`)).IsStatic())
	assert.False(t, varexpr.NewContainer(parseExpr(t, `timestamp()`)).IsStatic())

	c := varexpr.NewContainer(parseExpr(t, `"${uuid()}-${a}"`))
	assert.True(t, c.Calls("timestamp", "uuid"))
	assert.False(t, c.Calls("env"))
}

func TestContainer_ConcurrentAccess(t *testing.T) {
	c := varexpr.NewContainer(
		parseExpr(t, `a`),
		parseExpr(t, `b`),
		parseExpr(t, `func_a()`),
	)

	var wg sync.WaitGroup
	numGoroutines := 100
	wg.Add(numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				assert.Len(t, c.References(), 2)
			} else {
				assert.Len(t, c.CalledFunctions(), 1)
			}
		}()
	}

	wg.Wait()
}

func TestContainer_EdgeCases(t *testing.T) {
	t.Run("Empty Container", func(t *testing.T) {
		c := varexpr.NewContainer()
		require.Empty(t, c.References())
		require.Empty(t, c.CalledFunctions())
		require.True(t, c.IsStatic())
	})

	t.Run("Adding Nil Expressions", func(t *testing.T) {
		c := varexpr.NewContainer(nil, parseExpr(t, `a`), nil)
		require.Len(t, c.References(), 1)
		require.Equal(t, "a", hclutil.TraversalKey(c.References()[0]))
	})
}
