package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// skippedSources are compiled sources that are never deployed from the session
var skippedSources = []string{".t.sol", ".s.sol"}

// Loader reads compiled contracts from a forge or hardhat artifacts directory
type Loader struct {
	dir string
	log *slog.Logger
}

// NewLoader creates a new artifact loader for the configured artifacts directory
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{dir: cfg.ArtifactsDir, log: log.With("component", "artifacts")}
}

// artifact covers both the forge and the hardhat artifact layouts
type artifact struct {
	ContractName string              `json:"contractName"`
	SourceName   string              `json:"sourceName"`
	ABI          []models.ABIElement `json:"abi"`
	Bytecode     json.RawMessage     `json:"bytecode"`
	Metadata     struct {
		Settings struct {
			CompilationTarget map[string]string `json:"compilationTarget"`
		} `json:"settings"`
	} `json:"metadata"`
}

// LoadContracts returns the deployable contracts sorted by name.
// A missing artifacts directory yields no contracts.
func (l *Loader) LoadContracts(ctx context.Context) ([]*models.CompiledContract, error) {
	if l.dir == "" {
		return []*models.CompiledContract{}, nil
	}
	if _, err := os.Stat(l.dir); os.IsNotExist(err) {
		return []*models.CompiledContract{}, nil
	}

	byName := make(map[string]*models.CompiledContract)
	err := filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}

		contract, err := l.readArtifact(path)
		if err != nil {
			l.log.Debug("skipping artifact", "path", path, "error", err)
			return nil
		}
		if contract == nil {
			return nil
		}

		if existing, ok := byName[contract.Name]; ok {
			l.log.Debug("duplicate contract name", "name", contract.Name, "kept", existing.SourcePath, "skipped", contract.SourcePath)
			return nil
		}
		byName[contract.Name] = contract
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read artifacts in %s: %w", l.dir, err)
	}

	contracts := lo.Values(byName)
	sort.Slice(contracts, func(i, j int) bool { return contracts[i].Name < contracts[j].Name })
	return contracts, nil
}

// readArtifact parses one artifact file; nil is returned for artifacts with nothing to deploy
func (l *Loader) readArtifact(path string) (*models.CompiledContract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	if a.ABI == nil || len(a.Bytecode) == 0 {
		return nil, nil
	}

	bytecode, err := decodeBytecode(a.Bytecode)
	if err != nil {
		return nil, err
	}
	if bytecode == "" || bytecode == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}

	name, source := a.ContractName, a.SourceName
	for target, contract := range a.Metadata.Settings.CompilationTarget {
		source, name = target, contract
		break
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".json")
	}
	if lo.SomeBy(skippedSources, func(suffix string) bool { return strings.HasSuffix(source, suffix) }) {
		return nil, nil
	}

	return &models.CompiledContract{
		Name:       name,
		ABI:        a.ABI,
		Bytecode:   bytecode,
		SourcePath: source,
	}, nil
}

// decodeBytecode accepts both "0x..." and {"object": "0x..."} shapes
func decodeBytecode(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var object struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(raw, &object); err != nil {
		return "", fmt.Errorf("unsupported bytecode format: %w", err)
	}
	return object.Object, nil
}

// Ensure Loader implements ArtifactLoader
var _ usecase.ArtifactLoader = (*Loader)(nil)
