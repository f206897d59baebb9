package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEnvVar(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		envVar string
		isVar  bool
	}{
		{name: "whole value", raw: "${SEPOLIA_RPC_URL}", envVar: "SEPOLIA_RPC_URL", isVar: true},
		{name: "leading underscore", raw: "${_DEPLOYER_KEY}", envVar: "_DEPLOYER_KEY", isVar: true},
		{name: "literal url", raw: "http://127.0.0.1:8545", envVar: "", isVar: false},
		{name: "reference inside a url", raw: "https://rpc.example.org/${API_KEY}", envVar: "", isVar: false},
		{name: "two references", raw: "${HOST}${PATH_SUFFIX}", envVar: "", isVar: false},
		{name: "unbraced", raw: "$DEPLOYER_KEY", envVar: "", isVar: false},
		{name: "unclosed", raw: "${DEPLOYER_KEY", envVar: "", isVar: false},
		{name: "empty", raw: "", envVar: "", isVar: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envVar, isVar := DetectEnvVar(tt.raw)
			assert.Equal(t, tt.envVar, envVar)
			assert.Equal(t, tt.isVar, isVar)
		})
	}
}

func TestGenerateEnvVarName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{id: "sepolia", want: "SEPOLIA_RPC_URL"},
		{id: "base-sepolia", want: "BASE_SEPOLIA_RPC_URL"},
		{id: "local-era", want: "LOCAL_ERA_RPC_URL"},
		{id: "MAINNET", want: "MAINNET_RPC_URL"},
		{id: "polygon.zkevm", want: "POLYGON_ZKEVM_RPC_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateEnvVarName(tt.id))
		})
	}
}

func TestUnsetEnvVars(t *testing.T) {
	t.Setenv("CATAPULT_TEST_HOST", "rpc.example.org")

	assert.Empty(t, UnsetEnvVars("https://${CATAPULT_TEST_HOST}/v1"))
	assert.Empty(t, UnsetEnvVars("http://127.0.0.1:8545"))
	assert.Equal(t,
		[]string{"CATAPULT_TEST_MISSING_KEY"},
		UnsetEnvVars("https://${CATAPULT_TEST_HOST}/${CATAPULT_TEST_MISSING_KEY}"),
	)
}

func TestUnsetWarnings(t *testing.T) {
	t.Setenv("CATAPULT_TEST_HOST", "rpc.example.org")
	t.Setenv("CATAPULT_TEST_SET_KEY", "0x01")

	tests := []struct {
		name  string
		field string
		raw   string
		want  []string
	}{
		{
			name:  "single unset reference",
			field: "private key 0",
			raw:   "${CATAPULT_TEST_UNSET_KEY}",
			want:  []string{"environment sepolia: private key 0 comes from CATAPULT_TEST_UNSET_KEY, which is not set"},
		},
		{
			name:  "single set reference",
			field: "private key 0",
			raw:   "${CATAPULT_TEST_SET_KEY}",
		},
		{
			name:  "unset reference inside a value",
			field: "rpc_url",
			raw:   "https://${CATAPULT_TEST_HOST}/${CATAPULT_TEST_UNSET_TOKEN}",
			want:  []string{"environment sepolia: rpc_url references unset variable CATAPULT_TEST_UNSET_TOKEN"},
		},
		{
			name:  "literal",
			field: "rpc_url",
			raw:   "https://rpc.sepolia.org",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unsetWarnings("sepolia", tt.field, tt.raw))
		})
	}
}

func TestResolveRPCURL(t *testing.T) {
	t.Setenv("BASE_SEPOLIA_RPC_URL", "https://sepolia.base.org")
	t.Setenv("CATAPULT_TEST_KEY", "abc")

	tests := []struct {
		name string
		id   string
		raw  string
		want string
	}{
		{name: "literal", id: "local", raw: "http://127.0.0.1:8545", want: "http://127.0.0.1:8545"},
		{name: "expanded", id: "local", raw: "https://rpc.example.org/${CATAPULT_TEST_KEY}", want: "https://rpc.example.org/abc"},
		{name: "conventional fallback", id: "base-sepolia", raw: "", want: "https://sepolia.base.org"},
		{name: "no fallback set", id: "mainnet", raw: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveRPCURL(tt.id, tt.raw))
		})
	}
}
