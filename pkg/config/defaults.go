package config

import (
	"os"
	"time"
)

// Default values for configuration.
const (
	DefaultEndpointTimeout = 30 * time.Second
	DefaultOutputFormat    = "text"
)

// Environment variable names.
const (
	EnvEndpointUser = "LOGLENS_ENDPOINT_USER"
	EnvEndpointPass = "LOGLENS_ENDPOINT_PASS"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
	}
}

// applyEnvironmentOverrides fills endpoint credentials from the environment
// when the config file leaves them blank, so passwords can stay out of
// checked-in YAML.
func (c *Config) applyEnvironmentOverrides() {
	user := os.Getenv(EnvEndpointUser)
	pass := os.Getenv(EnvEndpointPass)
	for i := range c.Endpoints {
		if c.Endpoints[i].Username == "" && user != "" {
			c.Endpoints[i].Username = user
		}
		if c.Endpoints[i].Password == "" && pass != "" {
			c.Endpoints[i].Password = pass
		}
	}
}
