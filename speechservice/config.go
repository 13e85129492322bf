package speechservice

import (
	"time"

	"github.com/kbukum/voicelens/validation"
)

// Defaults for the speech service connection.
const (
	DefaultBaseURL       = "http://localhost:5001"
	DefaultTimeout       = 10 * time.Minute
	DefaultHealthTimeout = 3 * time.Second
)

// Config configures the speech service client.
type Config struct {
	// Provider selects the transcription and diarization factory.
	Provider string `mapstructure:"provider" yaml:"provider"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"`
	// Timeout bounds a single analysis request. Whisper on CPU is slow.
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	HealthTimeout time.Duration `mapstructure:"health_timeout" yaml:"health_timeout"`
}

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderName
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HealthTimeout == 0 {
		c.HealthTimeout = DefaultHealthTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.New().
		Required("speech_service.provider", c.Provider).
		AbsoluteURL("speech_service.base_url", c.BaseURL).
		Custom(c.Timeout >= 0, "speech_service.timeout", "must not be negative").
		Custom(c.HealthTimeout >= 0, "speech_service.health_timeout", "must not be negative").
		Err()
}

// Options is the option map handed to the provider factories.
func (c *Config) Options() map[string]any {
	return map[string]any{
		"base_url":       c.BaseURL,
		"timeout":        c.Timeout,
		"health_timeout": c.HealthTimeout,
	}
}
