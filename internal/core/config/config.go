// Package config provides configuration management for fabric-transform runs.
package config

import (
	"fmt"
	"unicode/utf8"
)

// Output modes for batch runs.
const (
	OutputFixed     = "fixed"     // concatenate padded fields positionally
	OutputDelimited = "delimited" // join fields with OutputDelimiter
)

// RunnerConfig holds configuration for the batch transformation runner.
type RunnerConfig struct {
	DatabaseURL     string
	DataDir         string
	InputDelimiter  string // single character, CSV field separator
	OutputMode      string // fixed or delimited
	OutputDelimiter string
	NullToken       string // input cell value treated as absent, default ""
	MaxRecordFields int
}

// DefaultRunnerConfig returns configuration with default values.
func DefaultRunnerConfig() *RunnerConfig {
	return &RunnerConfig{
		DataDir:         "./data",
		InputDelimiter:  ",",
		OutputMode:      OutputFixed,
		OutputDelimiter: "|",
		NullToken:       "",
		MaxRecordFields: 1024,
	}
}

// Validate checks delimiter shape, output mode, and limits.
func (cfg *RunnerConfig) Validate() error {
	if utf8.RuneCountInString(cfg.InputDelimiter) != 1 {
		return fmt.Errorf("input_delimiter must be a single character, got %q", cfg.InputDelimiter)
	}
	if cfg.OutputMode != OutputFixed && cfg.OutputMode != OutputDelimited {
		return fmt.Errorf("output_mode must be %q or %q, got %q", OutputFixed, OutputDelimited, cfg.OutputMode)
	}
	if cfg.OutputMode == OutputDelimited && cfg.OutputDelimiter == "" {
		return fmt.Errorf("output_delimiter must not be empty in delimited mode")
	}
	if cfg.MaxRecordFields <= 0 {
		return fmt.Errorf("max_record_fields must be positive, got %d", cfg.MaxRecordFields)
	}
	return nil
}
