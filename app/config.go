package app

import (
	"fmt"
	"time"

	"github.com/kbukum/voicelens/config"
	"github.com/kbukum/voicelens/ingest"
	"github.com/kbukum/voicelens/observability"
	"github.com/kbukum/voicelens/prosody"
	"github.com/kbukum/voicelens/server"
	"github.com/kbukum/voicelens/speechservice"
	"github.com/kbukum/voicelens/storage"
	"github.com/kbukum/voicelens/util"
	"github.com/kbukum/voicelens/validation"
)

// ServiceName selects the config file and env file searched at startup.
const ServiceName = "voicelens"

// Config is the service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Hume          HumeConfig           `yaml:"hume" mapstructure:"hume"`
	Prosody       PollingConfig        `yaml:"prosody" mapstructure:"prosody"`
	SpeechService speechservice.Config `yaml:"speech_service" mapstructure:"speech_service"`
	Upload        UploadConfig         `yaml:"upload" mapstructure:"upload"`
	Staging       storage.Config       `yaml:"staging" mapstructure:"staging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// HumeConfig holds the credentials shared by batch inference and synthesis.
type HumeConfig struct {
	// Provider names the prosody backend in the provider registry.
	Provider string        `yaml:"provider" mapstructure:"provider" validate:"required"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// PollingConfig bounds the wait for a batch job.
type PollingConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" mapstructure:"poll_interval" validate:"gte=0"`
	MaxAttempts  int           `yaml:"max_attempts" mapstructure:"max_attempts" validate:"gte=0"`
}

// UploadConfig limits uploads and the lifetime of staged copies.
type UploadConfig struct {
	MaxSize string `yaml:"max_size" mapstructure:"max_size" validate:"required"`
	// StagingTTL is the age after which leftover staged files are swept at
	// startup. Zero disables the sweep.
	StagingTTL time.Duration `yaml:"staging_ttl" mapstructure:"staging_ttl" validate:"gte=0"`
}

// MaxBytes returns the upload cap in bytes.
func (u UploadConfig) MaxBytes() int64 {
	return util.ParseSize(u.MaxSize, ingest.DefaultMaxSize)
}

// ApplyDefaults fills in zero values across every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()

	if c.Hume.Provider == "" {
		c.Hume.Provider = prosody.ProviderName
	}
	if c.Hume.BaseURL == "" {
		c.Hume.BaseURL = prosody.DefaultBaseURL
	}
	if c.Hume.Timeout == 0 {
		c.Hume.Timeout = prosody.DefaultTimeout
	}
	if c.Prosody.PollInterval == 0 {
		c.Prosody.PollInterval = prosody.DefaultPollInterval
	}
	if c.Prosody.MaxAttempts == 0 {
		c.Prosody.MaxAttempts = prosody.DefaultMaxAttempts
	}

	c.SpeechService.ApplyDefaults()

	if c.Upload.MaxSize == "" {
		c.Upload.MaxSize = "10MB"
	}
	if c.Upload.StagingTTL == 0 {
		c.Upload.StagingTTL = time.Hour
	}

	c.Staging.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks struct rules first, then each section's own checks.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c); err != nil {
		return err
	}
	v := validation.New().Check("config.server", c.Server.Validate())
	if body := util.ParseSize(c.Server.MaxBodySize, 0); body > 0 && body <= c.Upload.MaxBytes() {
		v.AddError("config.server.max_body_size",
			fmt.Sprintf("%s must exceed upload.max_size (%s)", c.Server.MaxBodySize, c.Upload.MaxSize))
	}
	return v.Check("config.speech_service", c.SpeechService.Validate()).
		Check("config.staging", c.Staging.Validate()).
		Check("config.observability", c.Observability.Validate()).
		Err()
}

// ProsodyOptions is the option map handed to the prosody provider factory.
func (c *Config) ProsodyOptions() map[string]any {
	return map[string]any{
		"api_key":       c.Hume.APIKey,
		"base_url":      c.Hume.BaseURL,
		"timeout":       c.Hume.Timeout,
		"poll_interval": c.Prosody.PollInterval,
		"max_attempts":  c.Prosody.MaxAttempts,
	}
}

// KeyConfigured reports whether a usable Hume API key is set.
func (c *Config) KeyConfigured() bool {
	pc := prosody.Config{APIKey: c.Hume.APIKey}
	return pc.KeyConfigured()
}

// Load reads the config file, .env and environment into a Config. Explicit
// paths override the search.
func Load(configFile, envFile string) (*Config, error) {
	var opts []config.LoaderOption
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	cfg := &Config{}
	if err := config.LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
