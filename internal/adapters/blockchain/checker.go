package blockchain

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// probeTimeout bounds a single liveness check
const probeTimeout = 5 * time.Second

// Checker implements the EnvironmentProber interface using ethclient
type Checker struct {
	timeout time.Duration
}

// NewChecker creates a new liveness checker
func NewChecker() *Checker {
	return &Checker{timeout: probeTimeout}
}

// Probe reports whether the environment's node answers with the expected chain ID
func (c *Checker) Probe(ctx context.Context, env *models.Environment) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, env.RPCURL)
	if err != nil {
		return false, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	networkChainID, err := client.ChainID(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get chain ID: %w", err)
	}

	// A zero chain ID accepts whatever the node reports
	if env.ChainID != 0 && networkChainID.Uint64() != env.ChainID {
		return false, fmt.Errorf("chain ID mismatch: expected %d, got %d", env.ChainID, networkChainID.Uint64())
	}
	return true, nil
}

// Ensure Checker implements EnvironmentProber
var _ usecase.EnvironmentProber = (*Checker)(nil)
