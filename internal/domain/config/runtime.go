package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	ArtifactsDir string // resolved artifacts directory, empty when none was found

	// Context settings
	Environment  string // id of the environment selected at startup
	Account      string // address or index of the account selected at startup
	Environments []EnvironmentConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	Format         string // text, json or yaml
	DeployTimeout  time.Duration
	ProbeInterval  time.Duration

	// Record the selected environment on transactions instead of "local"
	TagLiveEnvironment bool
}

// EnvironmentConfig describes a target network as configured in catapult.toml
type EnvironmentConfig struct {
	ID          string   `toml:"-"`
	Name        string   `toml:"name"`
	RPCURL      string   `toml:"rpc_url"`
	ChainID     uint64   `toml:"chain_id"`
	PrivateKeys []string `toml:"private_keys"`
}

// FileConfig is the layout of catapult.toml
type FileConfig struct {
	DefaultEnvironment string                       `toml:"default_environment"`
	ArtifactsDir       string                       `toml:"artifacts_dir"`
	Environments       map[string]EnvironmentConfig `toml:"environments"`
}

// FindEnvironment returns the configured environment with the given id
func (c *RuntimeConfig) FindEnvironment(id string) (EnvironmentConfig, bool) {
	for _, env := range c.Environments {
		if env.ID == id {
			return env, true
		}
	}
	return EnvironmentConfig{}, false
}
