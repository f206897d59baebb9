package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envRefPattern matches ${VAR_NAME} references in catapult.toml values
var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// DetectEnvVar checks if a raw value is a simple ${VAR_NAME} reference.
// Returns the variable name and true if the value is a pure env var reference.
func DetectEnvVar(rawValue string) (string, bool) {
	matches := envRefPattern.FindStringSubmatch(rawValue)
	if len(matches) == 2 && matches[0] == rawValue {
		return matches[1], true
	}
	return "", false
}

// GenerateEnvVarName generates the conventional env var name for an environment's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(environmentID string) string {
	name := strings.ToUpper(environmentID)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// UnsetEnvVars returns the ${VAR} references in raw whose variables are not set
func UnsetEnvVars(raw string) []string {
	var unset []string
	for _, m := range envRefPattern.FindAllStringSubmatch(raw, -1) {
		if _, ok := os.LookupEnv(m[1]); !ok {
			unset = append(unset, m[1])
		}
	}
	return unset
}

// unsetWarnings describes the unset variables a configured value depends on.
// A value that is a single ${VAR} reference gets one specific warning.
func unsetWarnings(environmentID, field, raw string) []string {
	if name, ok := DetectEnvVar(raw); ok {
		if _, set := os.LookupEnv(name); set {
			return nil
		}
		return []string{fmt.Sprintf("environment %s: %s comes from %s, which is not set", environmentID, field, name)}
	}

	var warnings []string
	for _, name := range UnsetEnvVars(raw) {
		warnings = append(warnings, fmt.Sprintf("environment %s: %s references unset variable %s", environmentID, field, name))
	}
	return warnings
}

// resolveRPCURL expands the configured RPC URL. An environment without one
// falls back to the conventional <ID>_RPC_URL variable.
func resolveRPCURL(environmentID, raw string) string {
	if strings.TrimSpace(raw) == "" {
		return os.Getenv(GenerateEnvVarName(environmentID))
	}
	return os.ExpandEnv(raw)
}
