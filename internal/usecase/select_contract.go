package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
	"github.com/trebuchet-org/catapult/internal/state"
)

// SelectContract selects a compiled contract by name
type SelectContract struct {
	store *state.Store
}

// NewSelectContract creates a new SelectContract use case
func NewSelectContract(store *state.Store) *SelectContract {
	return &SelectContract{store: store}
}

// Run selects the contract with the given name; an empty name clears the selection
func (uc *SelectContract) Run(ctx context.Context, name string) (*models.CompiledContract, error) {
	var selected *models.CompiledContract
	err := uc.store.Update(func(tx *state.Tx) error {
		if name != "" {
			contract, ok := lo.Find(uc.store.Contracts.Read(tx), func(c *models.CompiledContract) bool {
				return c.Name == name
			})
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrContractNotFound, name)
			}
			selected = contract
		}
		uc.store.SelectedContract.Write(tx, selected)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selected, nil
}

// SelectDeployed selects one of the deployed contracts by address
type SelectDeployed struct {
	store *state.Store
}

// NewSelectDeployed creates a new SelectDeployed use case
func NewSelectDeployed(store *state.Store) *SelectDeployed {
	return &SelectDeployed{store: store}
}

// Run selects the deployed contract at address
func (uc *SelectDeployed) Run(ctx context.Context, address string) (*models.DeployedContract, error) {
	var selected *models.DeployedContract
	err := uc.store.Update(func(tx *state.Tx) error {
		deployed, ok := lo.Find(uc.store.DeployedContracts().Read(tx), func(d *models.DeployedContract) bool {
			return strings.EqualFold(d.Address, address)
		})
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrDeployedContractNotFound, address)
		}
		selected = deployed
		uc.store.SelectedDeployed.Write(tx, deployed)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return selected, nil
}

// EditConstructorInputs edits the constructor inputs of the selected contract
type EditConstructorInputs struct {
	store *state.Store
}

// NewEditConstructorInputs creates a new EditConstructorInputs use case
func NewEditConstructorInputs(store *state.Store) *EditConstructorInputs {
	return &EditConstructorInputs{store: store}
}

// Run replaces all inputs; the count must match the constructor parameters
func (uc *EditConstructorInputs) Run(ctx context.Context, values []string) error {
	return uc.store.SetConstructorInputs(values)
}

// SetInput edits a single input slot
func (uc *EditConstructorInputs) SetInput(ctx context.Context, index int, value string) error {
	return uc.store.SetConstructorInput(index, value)
}
