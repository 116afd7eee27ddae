package scope

import (
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// ImpureFunctions lists the functions whose result depends on state outside
// the scope hierarchy. Expressions calling them are re-evaluated whenever
// any root changes.
var ImpureFunctions = []string{"env", "timestamp", "uuid"}

// TimestampFunc returns the current UTC time in RFC 3339 format.
var TimestampFunc = function.New(&function.Spec{
	Params: []function.Parameter{},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(time.Now().UTC().Format(time.RFC3339Nano)), nil
	},
})

// UUIDFunc returns a freshly generated random UUID.
var UUIDFunc = function.New(&function.Spec{
	Params: []function.Parameter{},
	Type:   function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(uuid.NewString()), nil
	},
})

// EnvFunc returns the value of an environment variable, or an empty string.
var EnvFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

// Functions returns the function table available to every expression.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"abs":       stdlib.AbsoluteFunc,
		"ceil":      stdlib.CeilFunc,
		"coalesce":  stdlib.CoalesceFunc,
		"concat":    stdlib.ConcatFunc,
		"floor":     stdlib.FloorFunc,
		"format":    stdlib.FormatFunc,
		"join":      stdlib.JoinFunc,
		"length":    stdlib.LengthFunc,
		"log":       stdlib.LogFunc,
		"lower":     stdlib.LowerFunc,
		"max":       stdlib.MaxFunc,
		"min":       stdlib.MinFunc,
		"pow":       stdlib.PowFunc,
		"signum":    stdlib.SignumFunc,
		"strlen":    stdlib.StrlenFunc,
		"upper":     stdlib.UpperFunc,
		"env":       EnvFunc,
		"timestamp": TimestampFunc,
		"uuid":      UUIDFunc,
	}
}
