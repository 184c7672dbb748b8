package processor

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/storage"
)

// get decodes one record of type T or returns a NotFoundError naming kind.
func get[T any](ctx context.Context, tx storage.Reader, c storage.Collection, kind, id string) (*T, error) {
	var out T
	if err := tx.Get(ctx, c, id, &out); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Kind: kind, ID: id}
		}
		return nil, fmt.Errorf("failed to get %s: %w", kind, err)
	}
	return &out, nil
}

func getGoal(ctx context.Context, tx storage.Reader, id string) (*models.FinancialGoal, error) {
	return get[models.FinancialGoal](ctx, tx, storage.FinancialGoals, "goal", id)
}

func getCheck(ctx context.Context, tx storage.Reader, id string) (*models.Check, error) {
	return get[models.Check](ctx, tx, storage.Checks, "check", id)
}

func getLoan(ctx context.Context, tx storage.Reader, id string) (*models.Loan, error) {
	return get[models.Loan](ctx, tx, storage.Loans, "loan", id)
}

func getLoanPayment(ctx context.Context, tx storage.Reader, id string) (*models.LoanPayment, error) {
	return get[models.LoanPayment](ctx, tx, storage.LoanPayments, "loan payment", id)
}

func getDebt(ctx context.Context, tx storage.Reader, id string) (*models.PreviousDebt, error) {
	return get[models.PreviousDebt](ctx, tx, storage.PreviousDebts, "debt", id)
}

func getDebtPayment(ctx context.Context, tx storage.Reader, id string) (*models.DebtPayment, error) {
	return get[models.DebtPayment](ctx, tx, storage.DebtPayments, "debt payment", id)
}

// entry loads a journal entry that a parent record names by id. The parent
// was written in the same transaction as the entry, so a missing entry is
// journal drift and the reversal is refused.
func (p *Processor) entry(ctx context.Context, tx storage.Reader, id string) (*models.Expense, error) {
	e, err := p.journal.Expense(ctx, tx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.InvalidState("journal entry %s is missing", id)
	}
	return e, err
}

// refund reverses the expense a check or payment produced. Records written
// before the expense id was kept on them are resolved through the field=id
// index; an empty result there is treated as index lag and retried.
func (p *Processor) refund(ctx context.Context, tx storage.Tx, expenseID, field, id string) error {
	var (
		e   *models.Expense
		err error
	)
	if expenseID != "" {
		e, err = p.entry(ctx, tx, expenseID)
	} else {
		e, err = p.journal.ExpenseFor(ctx, tx, field, id)
		if err == nil && e == nil {
			err = fmt.Errorf("no expense indexed for %s %s: %w", field, id, storage.ErrIndexLag)
		}
	}
	if err != nil {
		return err
	}
	_, err = p.journal.ReverseExpense(ctx, tx, e)
	return err
}

// goalExpenses loads the entries AchieveGoal wrote. Goals achieved before the
// ids were kept are resolved through the goal_id index, whose result must
// cover at least the actual cost.
func (p *Processor) goalExpenses(ctx context.Context, tx storage.Reader, goal *models.FinancialGoal) ([]models.Expense, error) {
	if len(goal.ExpenseIDs) > 0 {
		out := make([]models.Expense, 0, len(goal.ExpenseIDs))
		for _, id := range goal.ExpenseIDs {
			e, err := p.entry(ctx, tx, id)
			if err != nil {
				return nil, err
			}
			out = append(out, *e)
		}
		return out, nil
	}

	es, err := p.journal.ExpensesBy(ctx, tx, models.FieldGoalID, goal.ID)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, e := range es {
		total += e.Amount
	}
	if total < goal.ActualCost {
		return nil, fmt.Errorf("goal %s: indexed expenses cover %d of %d: %w",
			goal.ID, total, goal.ActualCost, storage.ErrIndexLag)
	}
	return es, nil
}
