package processor

import (
	"context"

	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/notifier"
	"github.com/chris/household-ledger/pkg/rules"
	"github.com/chris/household-ledger/pkg/storage"
	"github.com/google/uuid"
)

// CreateGoalInput describes a new savings goal. When InitialAmount is set the
// amount is reserved on InitialAccountID as the first contribution.
type CreateGoalInput struct {
	OwnerID          models.OwnerID
	Title            string
	TargetAmount     int64
	InitialAccountID string
	InitialAmount    int64
	RegisteredBy     models.OwnerID
}

// ContributeInput reserves Amount on BankAccountID towards GoalID.
type ContributeInput struct {
	GoalID        string
	BankAccountID string
	Amount        int64
	RegisteredBy  models.OwnerID
}

// AchieveGoalInput spends a goal. PaymentCardID pays whatever the saved
// portion does not cover.
type AchieveGoalInput struct {
	GoalID        string
	ActualCost    int64
	PaymentCardID string
	RegisteredBy  models.OwnerID
}

// CreateGoal creates a goal, escrowing the optional initial contribution.
func (p *Processor) CreateGoal(ctx context.Context, in CreateGoalInput) (*models.FinancialGoal, error) {
	if err := rules.RequireOwner(in.OwnerID); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, &apperrors.ValidationError{Field: "title", Message: "is required"}
	}
	if err := rules.RequirePositive("target_amount", in.TargetAmount); err != nil {
		return nil, err
	}
	if in.InitialAmount < 0 {
		return nil, &apperrors.ValidationError{Field: "initial_amount", Message: "must not be negative"}
	}
	if in.InitialAmount > 0 && in.InitialAccountID == "" {
		return nil, &apperrors.ValidationError{Field: "initial_account_id", Message: "is required with an initial amount"}
	}

	id := uuid.New().String()
	var goal *models.FinancialGoal
	err := p.run(ctx, "create_goal", func(tx storage.Tx) error {
		now := p.now()
		goal = &models.FinancialGoal{
			ID:            id,
			OwnerID:       in.OwnerID,
			Title:         in.Title,
			TargetAmount:  in.TargetAmount,
			Contributions: []models.Contribution{},
			CreatedAt:     now,
		}
		if in.InitialAmount > 0 {
			if _, err := p.escrow.Block(ctx, tx, in.InitialAccountID, in.InitialAmount); err != nil {
				return err
			}
			goal.Contributions = append(goal.Contributions, models.Contribution{
				BankAccountID: in.InitialAccountID,
				Amount:        in.InitialAmount,
				Date:          now,
				RegisteredBy:  in.RegisteredBy,
			})
			goal.CurrentAmount = in.InitialAmount
		}
		return tx.Put(storage.FinancialGoals, goal.ID, goal)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventGoalCreated,
		Title:        goal.Title,
		Amount:       goal.TargetAmount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     goal.ID,
		Progress:     goal.Progress().String(),
	})
	return goal, nil
}

// ContributeToGoal reserves funds towards a goal. Nothing is spent and no
// journal entry is written.
func (p *Processor) ContributeToGoal(ctx context.Context, in ContributeInput) (*models.FinancialGoal, error) {
	if err := rules.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}

	var goal *models.FinancialGoal
	err := p.run(ctx, "contribute_to_goal", func(tx storage.Tx) error {
		var err error
		if goal, err = getGoal(ctx, tx, in.GoalID); err != nil {
			return err
		}
		if err := rules.RequireActiveGoal(goal); err != nil {
			return err
		}
		if _, err := p.escrow.Block(ctx, tx, in.BankAccountID, in.Amount); err != nil {
			return err
		}

		goal.Contributions = append(goal.Contributions, models.Contribution{
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			Date:          p.now(),
			RegisteredBy:  in.RegisteredBy,
		})
		goal.CurrentAmount += in.Amount
		return tx.Put(storage.FinancialGoals, goal.ID, goal)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventGoalContribution,
		Title:        goal.Title,
		Amount:       in.Amount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     goal.ID,
		AccountID:    in.BankAccountID,
		Progress:     goal.Progress().String(),
	})
	return goal, nil
}

// AchieveGoal converts every reservation into a spent expense and charges
// any shortfall to the payment card.
func (p *Processor) AchieveGoal(ctx context.Context, in AchieveGoalInput) (*models.FinancialGoal, error) {
	if err := rules.RequirePositive("actual_cost", in.ActualCost); err != nil {
		return nil, err
	}

	var goal *models.FinancialGoal
	err := p.run(ctx, "achieve_goal", func(tx storage.Tx) error {
		var err error
		if goal, err = getGoal(ctx, tx, in.GoalID); err != nil {
			return err
		}
		if err := rules.RequireActiveGoal(goal); err != nil {
			return err
		}

		now := p.now()
		savedPortion := goal.CurrentAmount
		cashNeeded := max(0, in.ActualCost-savedPortion)
		var expenseIDs []string

		for _, c := range goal.Contributions {
			if _, err := p.escrow.Unblock(ctx, tx, c.BankAccountID, c.Amount); err != nil {
				return err
			}
			e := &models.Expense{
				BankAccountID: c.BankAccountID,
				Amount:        c.Amount,
				Category:      "savings_goal",
				Description:   goal.Title,
				Date:          now,
				RegisteredBy:  c.RegisteredBy,
				GoalID:        goal.ID,
				SubType:       models.GoalSavedPortion,
			}
			if _, err := p.journal.Debit(ctx, tx, e); err != nil {
				return err
			}
			expenseIDs = append(expenseIDs, e.ID)
		}

		if cashNeeded > 0 {
			if in.PaymentCardID == "" {
				return &apperrors.ValidationError{Field: "payment_card_id", Message: "is required when the actual cost exceeds the saved amount"}
			}
			card, err := p.accounts.Get(ctx, tx, in.PaymentCardID)
			if err != nil {
				return err
			}
			if err := rules.RequireAvailable(card, cashNeeded); err != nil {
				return err
			}
			e := &models.Expense{
				BankAccountID: in.PaymentCardID,
				Amount:        cashNeeded,
				Category:      "savings_goal",
				Description:   goal.Title,
				Date:          now,
				RegisteredBy:  in.RegisteredBy,
				GoalID:        goal.ID,
				SubType:       models.GoalCashPortion,
			}
			if _, err := p.journal.Debit(ctx, tx, e); err != nil {
				return err
			}
			expenseIDs = append(expenseIDs, e.ID)
		}

		goal.IsAchieved = true
		goal.ActualCost = in.ActualCost
		goal.CurrentAmount = 0
		goal.Contributions = []models.Contribution{}
		goal.ExpenseIDs = expenseIDs
		goal.AchievedAt = &now
		return tx.Put(storage.FinancialGoals, goal.ID, goal)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventGoalAchieved,
		Title:        goal.Title,
		Amount:       goal.ActualCost,
		RegisteredBy: in.RegisteredBy,
		EntityID:     goal.ID,
	})
	return goal, nil
}

// RevertGoal undoes AchieveGoal. Every expense of the goal is reversed; the
// saved-portion ones are reserved again and become the goal's contributions.
// CurrentAmount is set to the reverted actual cost, not to the sum of the
// restored contributions.
func (p *Processor) RevertGoal(ctx context.Context, goalID string, registeredBy models.OwnerID) (*models.FinancialGoal, error) {
	var goal *models.FinancialGoal
	err := p.run(ctx, "revert_goal", func(tx storage.Tx) error {
		var err error
		if goal, err = getGoal(ctx, tx, goalID); err != nil {
			return err
		}
		if err := rules.RequireAchievedGoal(goal); err != nil {
			return err
		}

		expenses, err := p.goalExpenses(ctx, tx, goal)
		if err != nil {
			return err
		}

		contributions := []models.Contribution{}
		for i := range expenses {
			e := &expenses[i]
			if _, err := p.journal.ReverseExpense(ctx, tx, e); err != nil {
				return err
			}
			if e.SubType != models.GoalSavedPortion {
				continue
			}
			if _, err := p.escrow.Reinstate(ctx, tx, e.BankAccountID, e.Amount); err != nil {
				return err
			}
			contributions = append(contributions, models.Contribution{
				BankAccountID: e.BankAccountID,
				Amount:        e.Amount,
				Date:          e.Date,
				RegisteredBy:  e.RegisteredBy,
			})
		}

		goal.CurrentAmount = goal.ActualCost
		goal.IsAchieved = false
		goal.ActualCost = 0
		goal.AchievedAt = nil
		goal.Contributions = contributions
		goal.ExpenseIDs = nil
		return tx.Put(storage.FinancialGoals, goal.ID, goal)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventGoalReverted,
		Title:        goal.Title,
		Amount:       goal.CurrentAmount,
		RegisteredBy: registeredBy,
		EntityID:     goal.ID,
		Progress:     goal.Progress().String(),
	})
	return goal, nil
}

// DeleteGoal removes an active goal after releasing every reservation.
func (p *Processor) DeleteGoal(ctx context.Context, goalID string, registeredBy models.OwnerID) error {
	var goal *models.FinancialGoal
	err := p.run(ctx, "delete_goal", func(tx storage.Tx) error {
		var err error
		if goal, err = getGoal(ctx, tx, goalID); err != nil {
			return err
		}
		if err := rules.RequireActiveGoal(goal); err != nil {
			return err
		}
		for _, c := range goal.Contributions {
			if _, err := p.escrow.Unblock(ctx, tx, c.BankAccountID, c.Amount); err != nil {
				return err
			}
		}
		tx.Delete(storage.FinancialGoals, goal.ID)
		return nil
	})
	if err != nil {
		return err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventGoalDeleted,
		Title:        goal.Title,
		Amount:       goal.CurrentAmount,
		RegisteredBy: registeredBy,
		EntityID:     goal.ID,
	})
	return nil
}

// Goal returns a goal.
func (p *Processor) Goal(ctx context.Context, id string) (*models.FinancialGoal, error) {
	var goal *models.FinancialGoal
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		goal, err = getGoal(ctx, tx, id)
		return err
	})
	return goal, err
}

// Goals returns every goal.
func (p *Processor) Goals(ctx context.Context) ([]models.FinancialGoal, error) {
	var goals []models.FinancialGoal
	err := p.view(ctx, func(tx storage.Tx) error {
		return tx.List(ctx, storage.FinancialGoals, &goals)
	})
	return goals, err
}
