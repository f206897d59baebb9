package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

//go:embed defaults.toml
var defaultsTOML string

type fileConfig struct {
	config.FileConfig
}

// loadEnvFiles loads .env files so secrets can be referenced as ${VAR} in catapult.toml
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadCatapultConfig decodes the built-in defaults and overlays the project's catapult.toml
func loadCatapultConfig(projectRoot string) (*fileConfig, error) {
	var merged fileConfig
	if _, err := toml.Decode(defaultsTOML, &merged.FileConfig); err != nil {
		return nil, fmt.Errorf("failed to parse built-in defaults: %w", err)
	}

	path := filepath.Join(projectRoot, "catapult.toml")
	if _, err := os.Stat(path); err == nil {
		var project config.FileConfig
		if _, err := toml.DecodeFile(path, &project); err != nil {
			return nil, fmt.Errorf("failed to parse catapult.toml: %w", err)
		}
		merged.overlay(&project)
	}

	return &merged, nil
}

// overlay applies project settings on top of the receiver; environments are replaced by id
func (f *fileConfig) overlay(project *config.FileConfig) {
	if project.DefaultEnvironment != "" {
		f.DefaultEnvironment = project.DefaultEnvironment
	}
	if project.ArtifactsDir != "" {
		f.ArtifactsDir = project.ArtifactsDir
	}
	if f.Environments == nil {
		f.Environments = make(map[string]config.EnvironmentConfig)
	}
	for id, env := range project.Environments {
		f.Environments[id] = env
	}
}

// environments returns the configured environments sorted by id with ${VAR} references expanded.
// Keys that expand to nothing are dropped.
func (f *fileConfig) environments() []config.EnvironmentConfig {
	ids := make([]string, 0, len(f.Environments))
	for id := range f.Environments {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	envs := make([]config.EnvironmentConfig, 0, len(ids))
	for _, id := range ids {
		env := f.Environments[id]
		env.ID = id
		warnings := unsetWarnings(id, "rpc_url", env.RPCURL)
		env.RPCURL = resolveRPCURL(id, env.RPCURL)

		keys := make([]string, 0, len(env.PrivateKeys))
		for i, key := range env.PrivateKeys {
			warnings = append(warnings, unsetWarnings(id, fmt.Sprintf("private key %d", i), key)...)
			if expanded := strings.TrimSpace(os.ExpandEnv(key)); expanded != "" {
				keys = append(keys, expanded)
			}
		}
		env.PrivateKeys = keys

		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}

		envs = append(envs, env)
	}
	return envs
}
