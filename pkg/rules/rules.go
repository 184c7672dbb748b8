// Package rules holds the invariant checks consulted before a commit.
package rules

import (
	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
)

// RequirePositive rejects zero and negative amounts.
func RequirePositive(field string, amount int64) error {
	if amount <= 0 {
		return &apperrors.ValidationError{Field: field, Message: "must be greater than zero"}
	}
	return nil
}

// RequireAvailable fails unless balance - blockedBalance covers amount.
func RequireAvailable(acc *models.BankAccount, amount int64) error {
	if available := acc.Available(); available < amount {
		return &apperrors.InsufficientFundsError{
			AccountID: acc.ID,
			Available: available,
			Requested: amount,
		}
	}
	return nil
}

// RequireWithinRemaining enforces 0 < amount <= remaining for installment payments.
func RequireWithinRemaining(amount, remaining int64) error {
	if amount <= 0 {
		return apperrors.InvalidState("payment amount %d must be positive", amount)
	}
	if amount > remaining {
		return apperrors.InvalidState("payment amount %d exceeds remaining amount %d", amount, remaining)
	}
	return nil
}

// RequireNoHistory forbids deleting a loan or debt that still has payments.
func RequireNoHistory(kind string, paidInstallments int) error {
	if paidInstallments > 0 {
		return apperrors.InvalidState("%s has %d recorded payments; delete them first", kind, paidInstallments)
	}
	return nil
}

// RequirePending fails for a check that has already cleared.
func RequirePending(chk *models.Check) error {
	if chk.Status != models.PENDING {
		return apperrors.InvalidState("check %s is already %s", chk.ID, chk.Status)
	}
	return nil
}

// RequireActiveGoal fails for an achieved goal.
func RequireActiveGoal(goal *models.FinancialGoal) error {
	if goal.IsAchieved {
		return apperrors.InvalidState("goal %s is already achieved", goal.ID)
	}
	return nil
}

// RequireAchievedGoal fails for a goal that has not been achieved.
func RequireAchievedGoal(goal *models.FinancialGoal) error {
	if !goal.IsAchieved {
		return apperrors.InvalidState("goal %s is not achieved", goal.ID)
	}
	return nil
}

// RequireOwner rejects unknown owners.
func RequireOwner(owner models.OwnerID) error {
	if !owner.Valid() {
		return &apperrors.ValidationError{Field: "owner_id", Message: "unknown owner " + string(owner)}
	}
	return nil
}

// RequireNoBackReference refuses to delete a journal entry owned by a
// compound operation; its inverse operation removes it.
func RequireNoBackReference(e *models.Expense) error {
	if e.HasBackReference() {
		return apperrors.InvalidState("expense %s belongs to a compound operation", e.ID)
	}
	return nil
}
