package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrMissingContract is returned when a deploy is attempted without a selected contract
	ErrMissingContract = errors.New("no contract selected")

	// ErrMissingAccount is returned when a deploy is attempted without a selected account
	ErrMissingAccount = errors.New("no account selected")

	// ErrDeployInProgress is returned when the selected contract already has a deploy in flight
	ErrDeployInProgress = errors.New("deployment already in progress")

	// ErrConstructorArity is returned when constructor inputs don't match the constructor parameters
	ErrConstructorArity = errors.New("constructor argument count mismatch")

	// ErrInputIndexOutOfRange is returned when editing a constructor input slot that doesn't exist
	ErrInputIndexOutOfRange = errors.New("constructor input index out of range")

	// ErrEnvironmentNotFound is returned when an environment id is unknown
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrNoEnvironment is returned when an operation needs a selected environment
	ErrNoEnvironment = errors.New("no environment selected")

	// ErrAccountNotInEnvironment is returned when an account is not available in the selected environment
	ErrAccountNotInEnvironment = errors.New("account not available in environment")

	// ErrContractNotFound is returned when a contract can't be found
	ErrContractNotFound = errors.New("contract not found")

	// ErrDeployedContractNotFound is returned when a deployed contract address is unknown
	ErrDeployedContractNotFound = errors.New("deployed contract not found")
)

// Error classification codes forwarded from the deploy call.
const (
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeNetworkError         = "NETWORK_ERROR"
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeInvalidArgumentCount = "INVALID_ARGUMENT_COUNT"
	CodeActionRejected       = "ACTION_REJECTED"
	CodeNonceExpired         = "NONCE_EXPIRED"
	CodeCallException        = "CALL_EXCEPTION"
	CodeTimeout              = "TIMEOUT"
	CodeUnknown              = "UNKNOWN_ERROR"
)

// DeployError is a failure of the external deploy call carrying its classification code
type DeployError struct {
	Code string
	Err  error
}

func (e *DeployError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *DeployError) Unwrap() error {
	return e.Err
}

// NewDeployError wraps err with a classification code
func NewDeployError(code string, err error) *DeployError {
	return &DeployError{Code: code, Err: err}
}

// ErrorCode returns the classification code carried by err, or CodeUnknown
func ErrorCode(err error) string {
	var deployErr *DeployError
	if errors.As(err, &deployErr) && deployErr.Code != "" {
		return deployErr.Code
	}
	return CodeUnknown
}
