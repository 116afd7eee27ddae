package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// DecodeJSONOutput parses the JSON document a run rendered.
func DecodeJSONOutput(t *testing.T, result *HarnessResult) map[string]any {
	t.Helper()
	require.NoError(t, result.Err, "run failed; logs:\n%s", result.LogOutput)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Output), &doc), "output:\n%s", result.Output)
	return doc
}

// AssertLogged checks that the run's log output contains substr.
func AssertLogged(t *testing.T, result *HarnessResult, substr string) {
	t.Helper()
	require.Contains(t, result.LogOutput, substr, "expected log output was not found")
}
