package main

import (
	"fmt"
	"strings"

	"capgen/internal/config"
)

// modelValue is a pflag.Value restricted to the accepted transcription model
// sizes, so invalid selections are rejected at flag-parse time.
type modelValue struct {
	value string
	set   bool
}

func (m *modelValue) String() string { return m.value }

func (m *modelValue) Set(value string) error {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if !config.ValidModel(normalized) {
		return fmt.Errorf("must be one of %s", strings.Join(config.ModelSizes, ", "))
	}
	m.value = normalized
	m.set = true
	return nil
}

func (m *modelValue) Type() string { return "model" }
