package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nspcc-dev/neo-txauth/pkg/config/netmode"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is the default path to the config directory.
	DefaultConfigPath = "./config"

	// DefaultMaxTransactionSize is the maximum size of a transaction accepted
	// by nodes, in bytes.
	DefaultMaxTransactionSize = 102400
	// DefaultMaxValidUntilBlockIncrement is the default upper bound for the
	// ValidUntilBlock distance from the current height (one day of 15s blocks).
	DefaultMaxValidUntilBlockIncrement = 5760
)

// Version is the version of the tool, set at build time.
var Version string

// Config top level struct representing the config for the tool.
type Config struct {
	ProtocolConfiguration    ProtocolConfiguration    `yaml:"ProtocolConfiguration"`
	ApplicationConfiguration ApplicationConfiguration `yaml:"ApplicationConfiguration"`
}

// Load attempts to load the config from the given path for the given netMode.
func Load(path string, netMode netmode.Magic) (Config, error) {
	configPath := filepath.Join(path, fmt.Sprintf("protocol.%s.yml", netMode))
	return LoadFile(configPath)
}

// LoadFile loads config from the provided path. Unknown fields are rejected.
func LoadFile(configPath string) (Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("config '%s' doesn't exist", configPath)
	}

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config: %w", err)
	}

	config := Default(0)
	decoder := yaml.NewDecoder(bytes.NewReader(configData))
	decoder.KnownFields(true)
	err = decoder.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	err = config.ProtocolConfiguration.Validate()
	if err != nil {
		return Config{}, err
	}

	return config, nil
}

// Default returns the configuration used when no config file is given.
func Default(magic netmode.Magic) Config {
	return Config{
		ProtocolConfiguration: ProtocolConfiguration{
			Magic:                       magic,
			MaxTransactionSize:          DefaultMaxTransactionSize,
			MaxValidUntilBlockIncrement: DefaultMaxValidUntilBlockIncrement,
		},
		ApplicationConfiguration: ApplicationConfiguration{
			LogLevel: "info",
		},
	}
}
