package storage

import (
	"os"
	"path/filepath"

	"github.com/kbukum/voicelens/validation"
)

// Provider names.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

const DefaultRegion = "us-east-1"

// Config selects and configures the staging backend.
type Config struct {
	Provider string `yaml:"provider" mapstructure:"provider"`

	// BasePath is the root directory for the local provider.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`

	// S3 settings.
	Bucket         string `yaml:"bucket" mapstructure:"bucket"`
	Region         string `yaml:"region" mapstructure:"region"`
	Endpoint       string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey      string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey      string `yaml:"secret_key" mapstructure:"secret_key"`
	ForcePathStyle bool   `yaml:"force_path_style" mapstructure:"force_path_style"`

	// Prefix is prepended to every key, e.g. "staging/".
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderLocal
	}
	if c.Provider == ProviderLocal && c.BasePath == "" {
		c.BasePath = filepath.Join(os.TempDir(), "voicelens")
	}
	if c.Provider == ProviderS3 && c.Region == "" {
		c.Region = DefaultRegion
	}
}

// Validate checks that the configuration is complete for the selected provider.
func (c *Config) Validate() error {
	v := validation.New().OneOf("staging.provider", c.Provider, []string{ProviderLocal, ProviderS3})
	switch c.Provider {
	case ProviderLocal:
		v.Required("staging.base_path", c.BasePath)
	case ProviderS3:
		v.Required("staging.bucket", c.Bucket).
			Required("staging.region", c.Region).
			Custom((c.AccessKey == "") == (c.SecretKey == ""), "staging.secret_key", "must be set together with access_key")
	case "":
		v.AddError("staging.provider", "is required")
	}
	return v.Err()
}
