package deps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/varflow/internal/variable"
)

var (
	ErrDuplicateVariableID = errors.New("duplicate variable id")
	ErrCyclicDependency    = errors.New("cyclic dependency")
	ErrUnknownVariable     = errors.New("variable is not part of the dependency map")
	ErrNotReadOnly         = errors.New("independent variable must be read-only")
	ErrEvaluation          = errors.New("evaluation failed")
)

// GraphError wraps structural failures of the dependency graph.
type GraphError struct {
	Kind error
	Msg  string
}

func (e *GraphError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *GraphError) Unwrap() error { return e.Kind }

func graphErrorf(kind error, format string, args ...any) error {
	return &GraphError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// CycleError is returned when the requested variables cannot be ordered.
// Variables names one strongly connected component of the stuck subgraph.
type CycleError struct {
	Variables []string
}

func (e *CycleError) Error() string {
	if len(e.Variables) == 0 {
		return ErrCyclicDependency.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Variables, " <-> "))
}

func (e *CycleError) Unwrap() error { return ErrCyclicDependency }

// EvaluationError records the failed evaluation of one variable.
type EvaluationError struct {
	ID   variable.ID
	Name string
	Err  error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrEvaluation, e.Name, e.Err)
}

// Unwrap exposes both the evaluation kind and the underlying cause.
func (e *EvaluationError) Unwrap() []error { return []error{ErrEvaluation, e.Err} }

func evaluate(v *variable.Variable) *EvaluationError {
	if err := v.Evaluate(); err != nil {
		return &EvaluationError{ID: v.ID(), Name: v.String(), Err: err}
	}
	return nil
}
