package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
	"go.yaml.in/yaml/v3"
)

const (
	// EnvConfigPath names the environment variable holding the config file path.
	EnvConfigPath = "IONOS_DNS01_CONFIG"
	// DefaultConfigPath is used when neither a flag nor EnvConfigPath is set.
	DefaultConfigPath = "~/.config/yk-ionos-dns01/ionos.yaml"
	// DefaultProvider is assumed when the file does not name one.
	DefaultProvider = "ionos"
)

// ProviderConfig holds the DNS provider type, challenge options, and
// provider-specific connection settings.
type ProviderConfig struct {
	Provider           string            `yaml:"provider"`
	TTL                int               `yaml:"ttl"`
	PropagationSeconds int               `yaml:"propagation_seconds"`
	Settings           map[string]string `yaml:"settings"`
}

// ExpandPath resolves a leading "~" in path to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding config path %q: %w", path, err)
	}
	return expanded, nil
}

// LoadProviderConfigFromPath reads the DNS provider configuration from the
// given file path.
func LoadProviderConfigFromPath(path string) (*ProviderConfig, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading provider config file: %w", err)
	}

	var cfg ProviderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing provider config file: %w", err)
	}

	if cfg.Provider == "" {
		cfg.Provider = DefaultProvider
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("provider config: 'ttl' must not be negative, got %d", cfg.TTL)
	}
	if cfg.PropagationSeconds < 0 {
		return nil, fmt.Errorf("provider config: 'propagation_seconds' must not be negative, got %d", cfg.PropagationSeconds)
	}
	if cfg.Settings == nil {
		cfg.Settings = map[string]string{}
	}

	// Expand ${ENV_VAR} references in setting values.
	for k, v := range cfg.Settings {
		cfg.Settings[k] = os.ExpandEnv(v)
	}

	return &cfg, nil
}

// GroupOrWorldAccessible reports whether the file at path can be read or
// written by users other than its owner. Credentials files should not be.
func GroupOrWorldAccessible(path string) (bool, os.FileMode, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, 0, fmt.Errorf("checking config file permissions: %w", err)
	}
	mode := info.Mode().Perm()
	return mode&0o077 != 0, mode, nil
}
