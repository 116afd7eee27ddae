package app

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/varflow/internal/config"
	"github.com/vk/varflow/internal/deps"
	"github.com/zclconf/go-cty/cty"
)

// stubLoader returns a fixed model without touching the file system.
type stubLoader struct {
	model *config.Model
	err   error
}

func (l *stubLoader) Load(context.Context, ...string) (*config.Model, error) {
	return l.model, l.err
}

func expr(t *testing.T, src string) hcl.Expression {
	t.Helper()
	e, diags := hclsyntax.ParseExpression([]byte(src), "stub.hcl", hcl.InitialPos)
	require.False(t, diags.HasErrors(), diags.Error())
	return e
}

func stubModel(t *testing.T) *config.Model {
	def := cty.NumberIntVal(3)
	return &config.Model{Root: &config.ScopeDef{
		Inputs: []*config.InputDef{{Name: "x", Type: cty.Number, Default: &def}},
		Vars: []*config.VarDef{
			{Name: "sq", Expr: expr(t, "x * x")},
			{Name: "half", Expr: expr(t, "sq / 2")},
		},
	}}
}

func runStub(t *testing.T, loader config.Loader, cfg Config) (string, string, error) {
	t.Helper()
	cfg.Paths = []string{"unused"}
	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	var out, logs bytes.Buffer
	err = NewApp(&out, &logs, appConfig, loader).Run(context.Background())
	return out.String(), logs.String(), err
}

func TestRun_Targets(t *testing.T) {
	out, logs, err := runStub(t, &stubLoader{model: stubModel(t)}, Config{
		Targets: []string{"half"},
		Inputs:  []string{"x=4"},
		Output:  "json",
	})
	require.NoError(t, err, logs)
	assert.JSONEq(t, `{"half": 8}`, out)
	assert.Contains(t, logs, "Input set.")
	assert.Contains(t, logs, "Update finished.")
}

func TestRun_All(t *testing.T) {
	out, logs, err := runStub(t, &stubLoader{model: stubModel(t)}, Config{All: true, Output: "json"})
	require.NoError(t, err, logs)
	assert.JSONEq(t, `{"x": 3, "sq": 9, "half": 4.5}`, out)
	assert.Contains(t, logs, "Full update finished.")
}

func TestRun_LoaderError(t *testing.T) {
	boom := errors.New("boom")
	_, _, err := runStub(t, &stubLoader{err: boom}, Config{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestRun_EvaluationError(t *testing.T) {
	model := stubModel(t)
	model.Root.Vars = append(model.Root.Vars, &config.VarDef{Name: "bad", Expr: expr(t, `x + "y"`)})

	out, _, err := runStub(t, &stubLoader{model: model}, Config{Targets: []string{"bad"}})
	assert.ErrorIs(t, err, deps.ErrEvaluation)
	assert.Empty(t, out)
}
