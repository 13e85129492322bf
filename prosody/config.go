package prosody

import (
	"time"

	"github.com/kbukum/voicelens/resilience"
	"github.com/kbukum/voicelens/validation"
)

// Defaults for the batch API.
const (
	DefaultBaseURL      = "https://api.hume.ai"
	DefaultTimeout      = 60 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultMaxAttempts  = 60

	// APIKeyHeader carries the credential on every request.
	APIKeyHeader = "X-Hume-Api-Key"

	placeholderAPIKey = "your_actual_api_key_here"
)

// Config configures the batch client.
type Config struct {
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// ApplyDefaults fills in zero values.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
}

// Validate checks a defaulted configuration. A missing API key is not an
// error: the service starts and reports it on /health.
func (c *Config) Validate() error {
	return validation.New().
		AbsoluteURL("hume.base_url", c.BaseURL).
		Custom(c.PollInterval >= 0, "prosody.poll_interval", "must not be negative").
		Positive("prosody.max_attempts", c.MaxAttempts).
		Err()
}

// KeyConfigured reports whether a usable API key is set.
func (c *Config) KeyConfigured() bool {
	return c.APIKey != "" && c.APIKey != placeholderAPIKey
}

// PollConfig returns the poller settings.
func (c *Config) PollConfig() resilience.PollConfig {
	return resilience.PollConfig{Interval: c.PollInterval, MaxAttempts: c.MaxAttempts}
}
