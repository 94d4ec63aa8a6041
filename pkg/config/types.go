// Package config provides configuration loading and validation for loglens.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Endpoints are named remote log sources for the fetch command.
	Endpoints []EndpointConfig `yaml:"endpoints,omitempty"`

	// Output holds default output preferences.
	Output OutputConfig `yaml:"output,omitempty"`
}

// EndpointConfig defines a remote HTTP log source.
type EndpointConfig struct {
	// Name identifies the endpoint on the command line (required).
	Name string `yaml:"name"`

	// URL is the endpoint to GET raw log text from (required).
	URL string `yaml:"url"`

	// Username and Password are optional HTTP Basic credentials.
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 30s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// OutputConfig holds default output preferences.
type OutputConfig struct {
	// Format is the default output format (text or json).
	Format string `yaml:"format,omitempty"`
}

// Endpoint returns the named endpoint, or nil if not configured.
func (c *Config) Endpoint(name string) *EndpointConfig {
	for i := range c.Endpoints {
		if c.Endpoints[i].Name == name {
			return &c.Endpoints[i]
		}
	}
	return nil
}
