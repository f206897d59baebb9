package models

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
)

// Environment is a selectable target network with its liveness and available accounts
type Environment struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	RPCURL   string     `json:"rpcUrl"`
	ChainID  uint64     `json:"chainId"`
	Alive    bool       `json:"alive"`
	Accounts []*Account `json:"accounts"`
}

// DisplayName returns the name, falling back to the id
func (e *Environment) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// HasAccount reports whether an account with the given address belongs to the environment
func (e *Environment) HasAccount(address common.Address) bool {
	return lo.ContainsBy(e.Accounts, func(a *Account) bool { return a.Address == address })
}

// WithAlive returns a copy of the environment with the liveness flag replaced
func (e *Environment) WithAlive(alive bool) *Environment {
	cp := *e
	cp.Alive = alive
	return &cp
}

// Account is an address with signing capability
type Account struct {
	Address common.Address `json:"address"`
	Label   string         `json:"label,omitempty"`

	key *ecdsa.PrivateKey
}

// NewAccount creates an account from a hex private key
func NewAccount(privateKeyHex string, label string) (*Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &Account{
		Address: crypto.PubkeyToAddress(key.PublicKey),
		Label:   label,
		key:     key,
	}, nil
}

// CanSign reports whether the account holds a signing key
func (a *Account) CanSign() bool {
	return a != nil && a.key != nil
}

// Transactor returns transaction options signing with the account key
func (a *Account) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	if !a.CanSign() {
		return nil, fmt.Errorf("account %s has no signing key", a.Address.Hex())
	}
	return bind.NewKeyedTransactorWithChainID(a.key, chainID)
}
