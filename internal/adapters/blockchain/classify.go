package blockchain

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// errorPatterns maps node and library messages to classification codes, checked in order
var errorPatterns = []struct {
	code    string
	needles []string
}{
	{domain.CodeInsufficientFunds, []string{"insufficient funds", "insufficient balance", "gas required exceeds allowance"}},
	{domain.CodeNonceExpired, []string{"nonce too low", "nonce has already been used", "replacement transaction underpriced", "already known"}},
	{domain.CodeActionRejected, []string{"user rejected", "user denied", "no signing key", "not authorized"}},
	{domain.CodeCallException, []string{"execution reverted", "invalid opcode", "out of gas", "stack underflow"}},
	{domain.CodeInvalidArgument, []string{"abi:", "argument count mismatch", "invalid argument"}},
	{domain.CodeNetworkError, []string{"connection refused", "no such host", "dial tcp", "eof", "connection reset", "network is unreachable", "chain id mismatch"}},
	{domain.CodeTimeout, []string{"timeout", "deadline exceeded"}},
}

// classify wraps err in a *domain.DeployError carrying its classification code.
// Errors that are already classified pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var deployErr *domain.DeployError
	if errors.As(err, &deployErr) {
		return err
	}
	return domain.NewDeployError(classifyCode(err), err)
}

func classifyCode(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.CodeTimeout
	case errors.Is(err, core.ErrInsufficientFunds), errors.Is(err, core.ErrInsufficientFundsForTransfer):
		return domain.CodeInsufficientFunds
	case errors.Is(err, core.ErrNonceTooLow):
		return domain.CodeNonceExpired
	case errors.Is(err, bind.ErrNoCodeAfterDeploy):
		return domain.CodeCallException
	}

	msg := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		for _, needle := range p.needles {
			if strings.Contains(msg, needle) {
				return p.code
			}
		}
	}

	var netErr net.Error
	var urlErr *url.Error
	if errors.As(err, &netErr) || errors.As(err, &urlErr) {
		return domain.CodeNetworkError
	}
	return domain.CodeUnknown
}
