package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/feedhub/feedhub/pkg/domain"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the feeds configuration loaded once at pipeline start.
type Config struct {
	Feeds []Feed `yaml:"feeds" json:"feeds" jsonschema:"required,description=List of RSS/Atom feeds to collect"`
}

// Feed describes a single configured feed source.
type Feed struct {
	Name string `yaml:"name" json:"name" jsonschema:"required,description=Unique feed name"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=RSS/Atom feed URL"`
}

// Load reads configuration from a JSON file (or YAML, by extension).
// Any problem with the file is a fatal configuration error, surfaced to the
// caller before a single fetch is attempted.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	default:
		if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Descriptors converts configured feeds to domain descriptors, preserving
// configuration order.
func (c *Config) Descriptors() []domain.FeedDescriptor {
	res := make([]domain.FeedDescriptor, 0, len(c.Feeds))
	for _, f := range c.Feeds {
		res = append(res, domain.FeedDescriptor{Name: f.Name, URL: f.URL})
	}
	return res
}

func (c *Config) validate() error {
	if len(c.Feeds) == 0 {
		return fmt.Errorf("config has no feeds")
	}

	seen := make(map[string]struct{}, len(c.Feeds))
	for i, f := range c.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed %d has no name", i)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %q has no url", f.Name)
		}
		if _, ok := seen[f.Name]; ok {
			return fmt.Errorf("duplicate feed name %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
