package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	seen := make(map[string]bool)
	for i := range cfg.Endpoints {
		ep := &cfg.Endpoints[i]
		if err := validateEndpoint(ep); err != nil {
			name := ep.Name
			if name == "" {
				name = ep.URL
			}
			return fmt.Errorf("endpoints[%d] (%s): %w", i, name, err)
		}
		if seen[ep.Name] {
			return fmt.Errorf("endpoints[%d]: duplicate name %q", i, ep.Name)
		}
		seen[ep.Name] = true
	}

	switch cfg.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.format: invalid format %q (must be text or json)", cfg.Output.Format)
	}

	return nil
}

func validateEndpoint(ep *EndpointConfig) error {
	if ep.Name == "" {
		return errors.New("name is required")
	}

	if ep.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(ep.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url scheme %q (must be http or https)", u.Scheme)
	}

	if ep.Password != "" && ep.Username == "" {
		return errors.New("password set without username")
	}

	if ep.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	if ep.Timeout == 0 {
		ep.Timeout = DefaultEndpointTimeout
	}

	return nil
}
