package usecase

import (
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/models"
)

// CanDeploy checks the deploy preconditions. A missing contract is reported before a missing account.
func CanDeploy(contract *models.CompiledContract, account *models.Account) error {
	if contract == nil {
		return domain.ErrMissingContract
	}
	if account == nil {
		return domain.ErrMissingAccount
	}
	return nil
}

// preconditionMessage is the notification shown for a failed precondition
func preconditionMessage(err error) string {
	switch err {
	case domain.ErrMissingContract:
		return "No contract selected"
	case domain.ErrMissingAccount:
		return "No account selected"
	default:
		return err.Error()
	}
}
