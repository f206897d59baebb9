package blockchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Backend is the part of a node client the deployer needs.
// Both *ethclient.Client and the simulated backend's client satisfy it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// Dialer opens a backend for an RPC URL
type Dialer func(ctx context.Context, rpcURL string) (Backend, error)

// DialEthclient dials a node over JSON-RPC
func DialEthclient(ctx context.Context, rpcURL string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}
	return client, nil
}

// Deployer sends contract creation transactions with go-ethereum's bind package
type Deployer struct {
	dial    Dialer
	timeout time.Duration
	log     *slog.Logger

	mu      sync.Mutex
	clients map[string]Backend
}

// NewDeployer creates a new deployer dialing environments over JSON-RPC
func NewDeployer(cfg *config.RuntimeConfig, log *slog.Logger) *Deployer {
	return NewDeployerWithDialer(DialEthclient, cfg.DeployTimeout, log)
}

// NewDeployerWithDialer creates a new deployer using dial to reach environments
func NewDeployerWithDialer(dial Dialer, timeout time.Duration, log *slog.Logger) *Deployer {
	return &Deployer{
		dial:    dial,
		timeout: timeout,
		log:     log.With("component", "Deployer"),
		clients: make(map[string]Backend),
	}
}

// Deploy signs and sends the creation transaction
func (d *Deployer) Deploy(ctx context.Context, req usecase.DeployRequest) (*usecase.PendingDeployment, error) {
	if req.Environment == nil {
		return nil, domain.NewDeployError(domain.CodeNetworkError, domain.ErrNoEnvironment)
	}
	if req.Contract == nil {
		return nil, domain.NewDeployError(domain.CodeInvalidArgument, domain.ErrMissingContract)
	}
	if req.Account == nil {
		return nil, domain.NewDeployError(domain.CodeInvalidArgument, domain.ErrMissingAccount)
	}

	parsed, err := req.Contract.ParsedABI()
	if err != nil {
		return nil, domain.NewDeployError(domain.CodeInvalidArgument, err)
	}
	bytecode, err := decodeBytecode(req.Contract.Bytecode)
	if err != nil {
		return nil, domain.NewDeployError(domain.CodeInvalidArgument, fmt.Errorf("contract %s: %w", req.Contract.Name, err))
	}
	args, err := CoerceArgs(parsed.Constructor.Inputs, req.Args)
	if err != nil {
		return nil, err
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	backend, err := d.backend(ctx, req.Environment)
	if err != nil {
		return nil, classify(err)
	}

	chainID, err := d.chainID(ctx, backend, req.Environment)
	if err != nil {
		return nil, classify(err)
	}

	opts, err := req.Account.Transactor(chainID)
	if err != nil {
		return nil, domain.NewDeployError(domain.CodeActionRejected, err)
	}
	opts.Context = ctx

	address, tx, _, err := bind.DeployContract(opts, *parsed, bytecode, backend, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to deploy contract: %w", err))
	}

	d.log.
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Debug("contract deployment transaction sent", "contract", req.Contract.Name, "env", req.Environment.ID)

	return &usecase.PendingDeployment{
		Environment: req.Environment,
		Address:     address,
		Transaction: tx,
		Payload:     payloadFromTx(tx, req.Account.Address, chainID),
	}, nil
}

// WaitDeployed waits for the creation transaction to be mined and checks the code was stored
func (d *Deployer) WaitDeployed(ctx context.Context, pending *usecase.PendingDeployment) (*usecase.DeployReceipt, error) {
	if pending == nil || pending.Transaction == nil {
		return nil, domain.NewDeployError(domain.CodeInvalidArgument, errors.New("no pending deployment"))
	}

	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	backend, err := d.backend(ctx, pending.Environment)
	if err != nil {
		return nil, classify(err)
	}

	receipt, err := bind.WaitMined(ctx, backend, pending.Transaction)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to wait for transaction: %w", err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, domain.NewDeployError(domain.CodeCallException,
			fmt.Errorf("contract deployment failed with status %d", receipt.Status))
	}

	code, err := backend.CodeAt(ctx, receipt.ContractAddress, nil)
	if err != nil {
		return nil, classify(err)
	}
	if len(code) == 0 {
		return nil, classify(bind.ErrNoCodeAfterDeploy)
	}

	return &usecase.DeployReceipt{
		Address:         receipt.ContractAddress,
		TransactionHash: receipt.TxHash,
		Payload:         pending.Payload,
	}, nil
}

// Close closes every cached client
func (d *Deployer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for url, client := range d.clients {
		if c, ok := client.(interface{ Close() }); ok {
			c.Close()
		}
		delete(d.clients, url)
	}
}

func (d *Deployer) backend(ctx context.Context, env *models.Environment) (Backend, error) {
	if env == nil {
		return nil, domain.ErrNoEnvironment
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if client, ok := d.clients[env.RPCURL]; ok {
		return client, nil
	}
	client, err := d.dial(ctx, env.RPCURL)
	if err != nil {
		return nil, err
	}
	d.clients[env.RPCURL] = client
	return client, nil
}

func (d *Deployer) chainID(ctx context.Context, backend Backend, env *models.Environment) (*big.Int, error) {
	if env.ChainID != 0 {
		return new(big.Int).SetUint64(env.ChainID), nil
	}
	id, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	return id, nil
}

func (d *Deployer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d.timeout)
}

func decodeBytecode(bytecode string) ([]byte, error) {
	bytecode = strings.TrimSpace(bytecode)
	if !strings.HasPrefix(bytecode, "0x") {
		bytecode = "0x" + bytecode
	}
	code, err := hexutil.Decode(bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode: %w", err)
	}
	if len(code) == 0 {
		return nil, errors.New("empty bytecode")
	}
	return code, nil
}

func payloadFromTx(tx *types.Transaction, from common.Address, chainID *big.Int) models.TxPayload {
	payload := models.TxPayload{
		Type:     tx.Type(),
		Hash:     tx.Hash().Hex(),
		From:     from.Hex(),
		Nonce:    tx.Nonce(),
		GasLimit: tx.Gas(),
		Value:    tx.Value().String(),
		ChainID:  chainID.Uint64(),
		Data:     hexutil.Encode(tx.Data()),
	}
	if tx.To() != nil {
		payload.To = tx.To().Hex()
	}

	switch tx.Type() {
	case types.LegacyTxType, types.AccessListTxType:
		payload.GasPrice = tx.GasPrice().String()
	default:
		payload.GasTipCap = tx.GasTipCap().String()
		payload.GasFeeCap = tx.GasFeeCap().String()
	}
	return payload
}

// Ensure Deployer implements ContractDeployer
var _ usecase.ContractDeployer = (*Deployer)(nil)
