package app

import (
	"errors"

	"github.com/vk/varflow/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths   []string // hcl files or directories
	Targets []string // dotted variable paths; empty means every variable
	Inputs  []string // name=value assignments for input variables
	All     bool     // evaluate the whole graph, tolerating failures
	Output  string   // hcl or json

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	if cfg.All && len(cfg.Targets) > 0 {
		return nil, errors.New("-all cannot be combined with explicit targets")
	}
	if cfg.Output == "" {
		cfg.Output = string(render.FormatHCL)
	}
	if _, err := render.ParseFormat(cfg.Output); err != nil {
		return nil, err
	}
	return &cfg, nil
}
