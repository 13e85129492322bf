// Package config loads service configuration with Viper.
//
// A YAML file (cmd/<service>/config.yml by default) supplies the base values,
// an optional .env file is loaded into the environment, and environment
// variables override file values through their nested key variants:
//
//	HUME_API_KEY            -> hume.api_key
//	SPEECH_SERVICE_BASE_URL -> speech_service.base_url
//
// Service configs embed ServiceConfig with mapstructure:",squash".
package config
