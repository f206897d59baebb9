package models

import "time"

// TransactionKind is the kind of state-changing operation a transaction performed
type TransactionKind string

const (
	TransactionKindDeploy TransactionKind = "deploy"
)

// TransactionEnvironmentLocal is the environment tag recorded on transactions by default
const TransactionEnvironmentLocal = "local"

// Transaction is a record of a state-changing operation that obtained a transaction id
type Transaction struct {
	Kind          TransactionKind `json:"type"`
	TransactionID string          `json:"txId"`
	Environment   string          `json:"env"`
	CreatedAt     time.Time       `json:"createdAt"`
}
