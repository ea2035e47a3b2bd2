package config

import (
	"fmt"
	"time"
)

const (
	defaultAgentName   = "Assistant"
	defaultInstruction = "You are a helpful assistant"
	defaultMaxTurns    = 20
	defaultRetries     = 2
	defaultRetryDelay  = time.Second
)

// Agent holds conversation settings.
type Agent struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Instruction string `yaml:"instruction,omitempty" json:"instruction,omitempty" toml:"instruction,omitempty"`
	// Servers selects configured MCP servers by name pattern, see matcher.Match.
	// Empty selects every server.
	Servers    []string `yaml:"servers,omitempty" json:"servers,omitempty" toml:"servers,omitempty"`
	MaxTurns   int      `yaml:"max_turns,omitempty" json:"max_turns,omitempty" toml:"max_turns,omitempty" validate:"gte=1"`
	Retries    int      `yaml:"retries,omitempty" json:"retries,omitempty" toml:"retries,omitempty" validate:"gte=1"`
	RetryDelay string   `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty" toml:"retry_delay,omitempty"`
	// RequestsPerMinute paces LLM calls; zero disables pacing.
	RequestsPerMinute int `yaml:"requests_per_minute,omitempty" json:"requests_per_minute,omitempty" toml:"requests_per_minute,omitempty" validate:"gte=0"`
}

// Delay returns the parsed retry delay, falling back to one second.
func (a *Agent) Delay() time.Duration {
	if a.RetryDelay == "" {
		return defaultRetryDelay
	}
	d, err := time.ParseDuration(a.RetryDelay)
	if err != nil {
		return defaultRetryDelay
	}
	return d
}

// Validate checks the agent section.
func (a *Agent) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid agent config: %w", err)
	}
	if a.RetryDelay != "" {
		d, err := time.ParseDuration(a.RetryDelay)
		if err != nil {
			return fmt.Errorf("invalid agent config: retry_delay %q: %w", a.RetryDelay, err)
		}
		if d < 0 {
			return fmt.Errorf("invalid agent config: retry_delay %q is negative", a.RetryDelay)
		}
	}
	return nil
}

func (a *Agent) init() {
	if a.Name == "" {
		a.Name = defaultAgentName
	}
	if a.Instruction == "" {
		a.Instruction = defaultInstruction
	}
	if a.MaxTurns == 0 {
		a.MaxTurns = defaultMaxTurns
	}
	if a.Retries == 0 {
		a.Retries = defaultRetries
	}
}

func (a *Agent) merge(overlay *Agent) {
	setIfNotEmpty(&a.Name, overlay.Name)
	setIfNotEmpty(&a.Instruction, overlay.Instruction)
	setIfNotEmpty(&a.RetryDelay, overlay.RetryDelay)
	if len(overlay.Servers) > 0 {
		a.Servers = append([]string{}, overlay.Servers...)
	}
	if overlay.MaxTurns != 0 {
		a.MaxTurns = overlay.MaxTurns
	}
	if overlay.Retries != 0 {
		a.Retries = overlay.Retries
	}
	if overlay.RequestsPerMinute != 0 {
		a.RequestsPerMinute = overlay.RequestsPerMinute
	}
}
