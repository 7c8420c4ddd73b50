package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration consumed by the aggregator.
//
// Providers maps a provider id to its raw transport configuration. The
// value is deliberately loosely typed: upstream configuration sources
// (agent frontends, hand-written YAML, generated JSON) disagree on key
// spellings and structure, so resolution happens in ResolveTransport
// rather than through struct tags.
type Config struct {
	// Providers maps provider id to a raw transport configuration value.
	Providers map[string]any `yaml:"providers"`

	// PrefixAll forces provider prefixes on every registered tool name
	// instead of only on collisions.
	PrefixAll bool `yaml:"prefixAll"`

	// Filter holds the optional allow/deny rules applied after naming.
	Filter FilterRules `yaml:"filter"`
}

// FilterRules configures which tools are exposed. Empty rules expose
// everything. Provider-level rules win over the global lists when both
// apply to a tool.
type FilterRules struct {
	Allow     []string                 `yaml:"allow"`
	Deny      []string                 `yaml:"deny"`
	Providers map[string]ProviderRules `yaml:"providers"`
}

// ProviderRules are per-provider allow/deny overrides.
type ProviderRules struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}
