package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// RuntimeConfig is re-exported for wire providers
type RuntimeConfig = config.RuntimeConfig

// projectMarkers identify a project root, in lookup order
var projectMarkers = []string{
	"catapult.toml",
	"foundry.toml",
	"hardhat.config.ts",
	"hardhat.config.js",
}

// artifactDirs are probed when no artifacts directory is configured
var artifactDirs = []string{
	"out",          // forge
	"artifacts-zk", // hardhat-zksync
	"artifacts",    // hardhat
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	fileCfg, err := loadCatapultConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &RuntimeConfig{
		ProjectRoot:        projectRoot,
		Environment:        v.GetString("env"),
		Account:            v.GetString("account"),
		Environments:       fileCfg.environments(),
		Debug:              v.GetBool("debug"),
		NonInteractive:     v.GetBool("non_interactive"),
		Format:             v.GetString("format"),
		DeployTimeout:      v.GetDuration("deploy_timeout"),
		ProbeInterval:      v.GetDuration("probe_interval"),
		TagLiveEnvironment: v.GetBool("tag_live_environment"),
	}

	if cfg.Environment == "" {
		cfg.Environment = fileCfg.DefaultEnvironment
	}
	if _, ok := cfg.FindEnvironment(cfg.Environment); !ok {
		return nil, fmt.Errorf("environment %q is not configured", cfg.Environment)
	}

	artifacts := v.GetString("artifacts")
	if artifacts == "" {
		artifacts = fileCfg.ArtifactsDir
	}
	cfg.ArtifactsDir = resolveArtifactsDir(projectRoot, artifacts)

	return cfg, nil
}

// FindProjectRoot walks up from the current directory to the first project marker.
// The current directory is used when no marker is found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd, nil
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("catapult.local")
	v.AddConfigPath(projectRoot)

	// Set up environment variables
	v.SetEnvPrefix("CATAPULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("env", "")
	v.SetDefault("format", "text")
	v.SetDefault("deploy_timeout", "2m")
	v.SetDefault("probe_interval", "10s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("tag_live_environment", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		bind := func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil {
				panic(err)
			}
		}
		cmd.Flags().VisitAll(bind)
		cmd.InheritedFlags().VisitAll(bind)
	}

	return v
}

func resolveArtifactsDir(projectRoot, configured string) string {
	if configured != "" {
		if filepath.IsAbs(configured) {
			return configured
		}
		return filepath.Join(projectRoot, configured)
	}

	for _, dir := range artifactDirs {
		candidate := filepath.Join(projectRoot, dir)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return ""
}
