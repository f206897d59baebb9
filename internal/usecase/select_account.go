package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// SelectAccount selects one of the selected environment's accounts
type SelectAccount struct {
	store *state.Store
}

// NewSelectAccount creates a new SelectAccount use case
func NewSelectAccount(store *state.Store) *SelectAccount {
	return &SelectAccount{store: store}
}

// Run selects the account referenced by an address or a 0-based index.
// An empty reference clears the selection.
func (uc *SelectAccount) Run(ctx context.Context, ref string) (*models.Account, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		uc.store.SelectedAccount.Set(nil)
		return nil, nil
	}

	var selected *models.Account
	err := uc.store.Update(func(tx *state.Tx) error {
		env := uc.store.Environment.Read(tx)
		if env == nil {
			return domain.ErrNoEnvironment
		}

		account, err := resolveAccount(uc.store.Accounts.Read(tx), ref)
		if err != nil {
			return fmt.Errorf("%w: %s in %s", err, ref, env.ID)
		}

		selected = account
		uc.store.SelectedAccount.Write(tx, account)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selected, nil
}

func resolveAccount(accounts []*models.Account, ref string) (*models.Account, error) {
	if common.IsHexAddress(ref) {
		address := common.HexToAddress(ref)
		account, ok := lo.Find(accounts, func(a *models.Account) bool { return a.Address == address })
		if !ok {
			return nil, domain.ErrAccountNotInEnvironment
		}
		return account, nil
	}

	index, err := strconv.Atoi(ref)
	if err != nil {
		return nil, fmt.Errorf("account must be an address or an index: %w", domain.ErrAccountNotInEnvironment)
	}
	if index < 0 || index >= len(accounts) {
		return nil, domain.ErrAccountNotInEnvironment
	}
	return accounts[index], nil
}
