package scope

import (
	"context"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/variable"
	"github.com/vk/varflow/internal/varpath"
	"github.com/zclconf/go-cty/cty"
)

func parse(t *testing.T, src string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(src), "test.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return expr
}

func TestDefine_StaticBecomesConstant(t *testing.T) {
	root := NewRoot()

	v, err := root.Define("answer", parse(t, "40 + 2"))
	require.NoError(t, err)
	assert.True(t, v.IsConstant())
	assert.True(t, v.Value().RawEquals(cty.NumberIntVal(42)))

	e, err := root.Define("twice", parse(t, "answer * 2"))
	require.NoError(t, err)
	assert.False(t, e.IsConstant())
}

func TestDeclare_DuplicateName(t *testing.T) {
	root := NewRoot()
	_, err := root.DeclareInput("x", cty.Number, cty.NilVal)
	require.NoError(t, err)

	_, err = root.Define("x", parse(t, "1"))
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = root.NewChild("inner")
	require.NoError(t, err)
	_, err = root.NewChild("inner")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestLookup_InnermostFirst(t *testing.T) {
	root := NewRoot()
	outer, err := root.DeclareConstant("x", cty.NumberIntVal(1))
	require.NoError(t, err)
	_, err = root.DeclareConstant("y", cty.NumberIntVal(2))
	require.NoError(t, err)

	child, err := root.NewChild("inner")
	require.NoError(t, err)
	inner, err := child.DeclareConstant("x", cty.NumberIntVal(10))
	require.NoError(t, err)

	got, ok := child.Lookup("x")
	require.True(t, ok)
	assert.Same(t, inner, got)

	got, ok = root.Lookup("x")
	require.True(t, ok)
	assert.Same(t, outer, got)

	got, ok = child.Lookup("y")
	require.True(t, ok)
	assert.Equal(t, "y", got.Name())

	_, ok = child.Lookup("z")
	assert.False(t, ok)
}

func TestResolve(t *testing.T) {
	root := NewRoot()
	child, err := root.NewChild("net")
	require.NoError(t, err)
	port, err := child.DeclareInput("port", cty.Number, cty.NumberIntVal(80))
	require.NoError(t, err)

	got, ok := root.Resolve(varpath.MustParse("net.port"))
	require.True(t, ok)
	assert.Same(t, port, got)

	_, ok = root.Resolve(varpath.MustParse("port"))
	assert.False(t, ok)
	_, ok = root.Resolve(varpath.MustParse("missing.port"))
	assert.False(t, ok)
}

func TestEvalContext_ChildShadowsParent(t *testing.T) {
	root := NewRoot()
	_, err := root.DeclareConstant("x", cty.NumberIntVal(1))
	require.NoError(t, err)
	_, err = root.DeclareConstant("y", cty.NumberIntVal(5))
	require.NoError(t, err)

	child, err := root.NewChild("inner")
	require.NoError(t, err)
	_, err = child.DeclareConstant("x", cty.NumberIntVal(100))
	require.NoError(t, err)
	sum, err := child.Define("sum", parse(t, "x + y"))
	require.NoError(t, err)

	require.NoError(t, sum.Evaluate())
	assert.True(t, sum.Value().RawEquals(cty.NumberIntVal(105)))
}

func TestEvalContext_FunctionsVisibleInChildren(t *testing.T) {
	root := NewRoot()
	in, err := root.DeclareInput("name", cty.String, cty.StringVal("world"))
	require.NoError(t, err)
	child, err := root.NewChild("greeting")
	require.NoError(t, err)
	msg, err := child.Define("msg", parse(t, `upper(format("hello %s", name))`))
	require.NoError(t, err)

	require.NoError(t, msg.Evaluate())
	assert.Equal(t, "HELLO WORLD", msg.Value().AsString())

	require.NoError(t, in.Set(cty.StringVal("go")))
	require.NoError(t, msg.Evaluate())
	assert.Equal(t, "HELLO GO", msg.Value().AsString())
}

func TestDependencies(t *testing.T) {
	root := NewRoot()
	a, err := root.DeclareInput("a", cty.Number, cty.NumberIntVal(1))
	require.NoError(t, err)
	_, err = root.DeclareConstant("k", cty.NumberIntVal(3))
	require.NoError(t, err)
	b, err := root.Define("b", parse(t, "a + k"))
	require.NoError(t, err)
	c, err := root.Define("c", parse(t, `"${b}-${uuid()}"`))
	require.NoError(t, err)

	deps, err := root.Dependencies(b)
	require.NoError(t, err)
	assert.Equal(t, []variable.ID{a.ID()}, deps.Sorted())

	deps, err = root.Dependencies(c)
	require.NoError(t, err)
	assert.Equal(t, []variable.ID{variable.AlwaysDirty, b.ID()}, deps.Sorted())

	loop, err := root.Define("loop", parse(t, `"%{ for i in [b] }${uuid()}%{ endfor }"`))
	require.NoError(t, err)
	deps, err = root.Dependencies(loop)
	require.NoError(t, err)
	assert.Equal(t, []variable.ID{variable.AlwaysDirty, b.ID()}, deps.Sorted())

	deps, err = root.Dependencies(a)
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func TestDependencies_ResolvesFromOwningScope(t *testing.T) {
	root := NewRoot()
	outer, err := root.DeclareInput("x", cty.Number, cty.NumberIntVal(1))
	require.NoError(t, err)
	child, err := root.NewChild("inner")
	require.NoError(t, err)
	inner, err := child.DeclareInput("x", cty.Number, cty.NumberIntVal(2))
	require.NoError(t, err)
	useInner, err := child.Define("y", parse(t, "x"))
	require.NoError(t, err)
	useOuter, err := root.Define("z", parse(t, "x"))
	require.NoError(t, err)

	// The root visitor resolves names from each variable's own scope.
	deps, err := root.Dependencies(useInner)
	require.NoError(t, err)
	assert.Equal(t, []variable.ID{inner.ID()}, deps.Sorted())

	deps, err = root.Dependencies(useOuter)
	require.NoError(t, err)
	assert.Equal(t, []variable.ID{outer.ID()}, deps.Sorted())
}

func TestDependencies_Errors(t *testing.T) {
	root := NewRoot()
	bad, err := root.Define("bad", parse(t, "nope + 1"))
	require.NoError(t, err)

	_, err = root.Dependencies(bad)
	assert.ErrorIs(t, err, ErrUndefinedReference)

	stranger := variable.NewExpression(varpath.New("bad"), parse(t, "nope"), root)
	_, err = root.Dependencies(stranger)
	assert.ErrorIs(t, err, ErrNotInHierarchy)
}

func TestFinalize_FoldsConstantChains(t *testing.T) {
	root := NewRoot()
	_, err := root.DeclareConstant("base", cty.NumberIntVal(2))
	require.NoError(t, err)
	sq, err := root.Define("sq", parse(t, "pow(base, 2)"))
	require.NoError(t, err)
	cube, err := root.Define("cube", parse(t, "sq * base"))
	require.NoError(t, err)
	in, err := root.DeclareInput("n", cty.Number, cty.NumberIntVal(1))
	require.NoError(t, err)
	live, err := root.Define("live", parse(t, "cube + n"))
	require.NoError(t, err)
	stamp, err := root.Define("stamp", parse(t, "timestamp()"))
	require.NoError(t, err)

	folded, err := root.Finalize()
	require.NoError(t, err)
	assert.Equal(t, 2, folded)

	assert.True(t, sq.IsConstant())
	assert.True(t, cube.IsConstant())
	assert.True(t, cube.Value().RawEquals(cty.NumberIntVal(8)))
	assert.False(t, in.IsConstant())
	assert.False(t, live.IsConstant())
	assert.False(t, stamp.IsConstant())
}

func TestFromModel(t *testing.T) {
	def := cty.NumberIntVal(8080)
	model := &config.Model{Root: &config.ScopeDef{
		Inputs: []*config.InputDef{{Name: "port", Type: cty.Number, Default: &def}},
		Vars:   []*config.VarDef{{Name: "url", Expr: parse(t, `"http://localhost:${port}"`)}},
		Children: []*config.ScopeDef{{
			Name: "admin",
			Vars: []*config.VarDef{{Name: "port", Expr: parse(t, "9000")}},
		}},
	}}

	root, err := FromModel(context.Background(), model)
	require.NoError(t, err)

	port, ok := root.Lookup("port")
	require.True(t, ok)
	assert.True(t, port.IsReadOnly())

	url, ok := root.Lookup("url")
	require.True(t, ok)
	require.NoError(t, url.Evaluate())
	assert.Equal(t, "http://localhost:8080", url.Value().AsString())

	admin, ok := root.Child("admin")
	require.True(t, ok)
	adminPort, ok := admin.Lookup("port")
	require.True(t, ok)
	assert.True(t, adminPort.IsConstant())
	assert.Len(t, root.AllVariables(), 3)
}

func TestFromModel_DuplicateScope(t *testing.T) {
	model := &config.Model{Root: &config.ScopeDef{
		Children: []*config.ScopeDef{{Name: "a"}, {Name: "a"}},
	}}
	_, err := FromModel(context.Background(), model)
	assert.ErrorIs(t, err, ErrDuplicateName)
}
