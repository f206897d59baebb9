package state

import (
	"sync"

	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// Store holds the canonical session state as a set of independently subscribable cells.
//
// Writes happen in batches (Update). A batch is applied under an exclusive lock and
// rolled back entirely if it fails, so readers never observe part of a batch.
// Batches are serialized and their notifications are delivered, in write order,
// before Update returns.
type Store struct {
	turn sync.Mutex
	mu   sync.RWMutex

	Environment       *Cell[*models.Environment]
	Accounts          *Cell[[]*models.Account]
	SelectedAccount   *Cell[*models.Account]
	Contracts         *Cell[[]*models.CompiledContract]
	SelectedContract  *Cell[*models.CompiledContract]
	SelectedDeployed  *Cell[*models.DeployedContract]
	ActiveTab         *Cell[models.Tab]

	constructorInputs *Cell[[]string]
	deployedContracts *Cell[[]*models.DeployedContract]
	transactions      *Cell[[]*models.Transaction]
}

// NewStore creates an empty store with the constructor input binder attached
func NewStore() *Store {
	s := &Store{}
	s.Environment = newCell[*models.Environment](s, "environment", nil)
	s.Accounts = newCell(s, "accounts", []*models.Account{})
	s.SelectedAccount = newCell[*models.Account](s, "selectedAccount", nil)
	s.Contracts = newCell(s, "contracts", []*models.CompiledContract{})
	s.SelectedContract = newCell[*models.CompiledContract](s, "selectedContract", nil)
	s.SelectedDeployed = newCell[*models.DeployedContract](s, "deployedSelectedContract", nil)
	s.ActiveTab = newCell(s, "activeTab", models.TabDeployment)
	s.constructorInputs = newCell(s, "constructorInputs", []string{})
	s.deployedContracts = newCell(s, "deployedContracts", []*models.DeployedContract{})
	s.transactions = newCell(s, "transactions", []*models.Transaction{})

	bindConstructorInputs(s)

	return s
}

// ConstructorInputs exposes the binder-owned constructor inputs read-only
func (s *Store) ConstructorInputs() View[[]string] {
	return cloneView[string]{cell: s.constructorInputs}
}

// DeployedContracts exposes the deployed contracts read-only, newest first
func (s *Store) DeployedContracts() View[[]*models.DeployedContract] {
	return cloneView[*models.DeployedContract]{cell: s.deployedContracts}
}

// Transactions exposes the transaction history read-only, newest first
func (s *Store) Transactions() View[[]*models.Transaction] {
	return cloneView[*models.Transaction]{cell: s.transactions}
}

// PublishDeployment records a successful deployment within tx: the contract is prepended
// and selected, the interaction tab activated and the transaction prepended, in that order.
// It is the only write path for both histories.
func (s *Store) PublishDeployment(tx *Tx, deployed *models.DeployedContract, transaction *models.Transaction) {
	s.deployedContracts.Update(tx, func(list []*models.DeployedContract) []*models.DeployedContract {
		return append([]*models.DeployedContract{deployed}, list...)
	})
	s.SelectedDeployed.Write(tx, deployed)
	s.ActiveTab.Write(tx, models.TabInteraction)
	s.transactions.Update(tx, func(list []*models.Transaction) []*models.Transaction {
		return append([]*models.Transaction{transaction}, list...)
	})
}

// Update applies fn as one atomic batch of writes
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.turn.Lock()
	defer s.turn.Unlock()

	s.mu.Lock()
	tx := &Tx{store: s}
	err := fn(tx)
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
	}
	tx.done = true
	s.mu.Unlock()

	if err != nil {
		return err
	}
	for _, notify := range tx.notify {
		notify()
	}
	return nil
}

// Snapshot is a consistent copy of every cell
type Snapshot struct {
	Environment       *models.Environment
	Accounts          []*models.Account
	SelectedAccount   *models.Account
	Contracts         []*models.CompiledContract
	SelectedContract  *models.CompiledContract
	ConstructorInputs []string
	DeployedContracts []*models.DeployedContract
	SelectedDeployed  *models.DeployedContract
	Transactions      []*models.Transaction
	ActiveTab         models.Tab
}

// Snapshot reads every cell under a single read lock
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Environment:       s.Environment.value,
		Accounts:          s.Accounts.value,
		SelectedAccount:   s.SelectedAccount.value,
		Contracts:         s.Contracts.value,
		SelectedContract:  s.SelectedContract.value,
		ConstructorInputs: append([]string{}, s.constructorInputs.value...),
		DeployedContracts: s.deployedContracts.value,
		SelectedDeployed:  s.SelectedDeployed.value,
		Transactions:      s.transactions.value,
		ActiveTab:         s.ActiveTab.value,
	}
}
