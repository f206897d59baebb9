package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestViper(projectRoot string) *viper.Viper {
	v := SetupViper(projectRoot, nil)
	return v
}

func TestProvider(t *testing.T) {
	t.Run("built-in defaults", func(t *testing.T) {
		root := t.TempDir()

		cfg, err := Provider(newTestViper(root))
		require.NoError(t, err)

		assert.Equal(t, root, cfg.ProjectRoot)
		assert.Equal(t, "local", cfg.Environment)
		assert.Equal(t, 2*time.Minute, cfg.DeployTimeout)
		assert.Equal(t, 10*time.Second, cfg.ProbeInterval)
		assert.Equal(t, "text", cfg.Format)
		assert.False(t, cfg.TagLiveEnvironment)
		assert.Empty(t, cfg.ArtifactsDir)

		local, ok := cfg.FindEnvironment("local")
		require.True(t, ok)
		assert.Equal(t, uint64(31337), local.ChainID)
		assert.Equal(t, "http://127.0.0.1:8545", local.RPCURL)
		assert.Len(t, local.PrivateKeys, 3)

		_, ok = cfg.FindEnvironment("local-era")
		assert.True(t, ok)
	})

	t.Run("project file overrides and expands env vars", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, ".env"), "CATAPULT_TEST_SEPOLIA_KEY=0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d\n")
		writeFile(t, filepath.Join(root, "catapult.toml"), `
default_environment = "sepolia"
artifacts_dir = "build/artifacts"

[environments.sepolia]
name = "Sepolia"
rpc_url = "https://rpc.sepolia.org"
chain_id = 11155111
private_keys = ["${CATAPULT_TEST_SEPOLIA_KEY}", "${CATAPULT_TEST_UNSET_KEY}"]

[environments.local]
name = "Custom Anvil"
rpc_url = "http://127.0.0.1:9545"
chain_id = 31337
`)

		cfg, err := Provider(newTestViper(root))
		require.NoError(t, err)

		assert.Equal(t, "sepolia", cfg.Environment)
		assert.Equal(t, filepath.Join(root, "build/artifacts"), cfg.ArtifactsDir)

		sepolia, ok := cfg.FindEnvironment("sepolia")
		require.True(t, ok)
		assert.Equal(t, []string{"0x59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"}, sepolia.PrivateKeys)

		local, ok := cfg.FindEnvironment("local")
		require.True(t, ok)
		assert.Equal(t, "Custom Anvil", local.Name)
		assert.Empty(t, local.PrivateKeys)

		ids := make([]string, 0, len(cfg.Environments))
		for _, env := range cfg.Environments {
			ids = append(ids, env.ID)
		}
		assert.Equal(t, []string{"local", "local-era", "sepolia"}, ids)
	})

	t.Run("viper values win over the file default", func(t *testing.T) {
		root := t.TempDir()
		v := newTestViper(root)
		v.Set("env", "local-era")
		v.Set("tag_live_environment", true)

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "local-era", cfg.Environment)
		assert.True(t, cfg.TagLiveEnvironment)
	})

	t.Run("unknown environment", func(t *testing.T) {
		root := t.TempDir()
		v := newTestViper(root)
		v.Set("env", "mainnet")

		_, err := Provider(v)
		assert.ErrorContains(t, err, `environment "mainnet" is not configured`)
	})

	t.Run("artifacts directory is detected", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, "artifacts-zk"), 0o755))

		cfg, err := Provider(newTestViper(root))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "artifacts-zk"), cfg.ArtifactsDir)
	})
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foundry.toml"), "[profile.default]\n")
	nested := filepath.Join(root, "src", "tokens")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	found, err := FindProjectRoot()
	require.NoError(t, err)

	// macOS temp dirs resolve through /private
	expected, _ := filepath.EvalSymlinks(root)
	actual, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, expected, actual)
}
