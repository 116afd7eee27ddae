package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{Paths: []string{"conf"}})
	require.NoError(t, err)
	assert.Equal(t, "hcl", cfg.Output)

	_, err = NewConfig(Config{})
	assert.ErrorContains(t, err, "configuration path is required")

	_, err = NewConfig(Config{Paths: []string{"conf"}, All: true, Targets: []string{"a"}})
	assert.ErrorContains(t, err, "-all cannot be combined")

	_, err = NewConfig(Config{Paths: []string{"conf"}, Output: "toml"})
	assert.ErrorContains(t, err, "unknown output format")
}
