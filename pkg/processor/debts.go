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

// CreateDebtInput describes money owed to a person.
type CreateDebtInput struct {
	Person       string
	Amount       int64
	RegisteredBy models.OwnerID
}

// PayDebtInput pays Amount towards DebtID from BankAccountID.
type PayDebtInput struct {
	DebtID        string
	BankAccountID string
	Amount        int64
	RegisteredBy  models.OwnerID
}

// CreateDebt records a debt with nothing paid.
func (p *Processor) CreateDebt(ctx context.Context, in CreateDebtInput) (*models.PreviousDebt, error) {
	if in.Person == "" {
		return nil, &apperrors.ValidationError{Field: "person", Message: "is required"}
	}
	if err := rules.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}

	debt := &models.PreviousDebt{
		ID:              uuid.New().String(),
		Person:          in.Person,
		Amount:          in.Amount,
		RemainingAmount: in.Amount,
	}
	err := p.run(ctx, "create_debt", func(tx storage.Tx) error {
		debt.CreatedAt = p.now()
		return tx.Put(storage.PreviousDebts, debt.ID, debt)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventDebtCreated,
		Title:        debt.Person,
		Amount:       debt.Amount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     debt.ID,
	})
	return debt, nil
}

// PayDebt pays part of a debt and journals the payment.
func (p *Processor) PayDebt(ctx context.Context, in PayDebtInput) (*models.PreviousDebt, *models.DebtPayment, error) {
	var (
		debt    *models.PreviousDebt
		payment *models.DebtPayment
	)
	err := p.run(ctx, "pay_debt", func(tx storage.Tx) error {
		var err error
		if debt, err = getDebt(ctx, tx, in.DebtID); err != nil {
			return err
		}
		acc, err := p.accounts.Get(ctx, tx, in.BankAccountID)
		if err != nil {
			return err
		}
		if err := rules.RequireWithinRemaining(in.Amount, debt.RemainingAmount); err != nil {
			return err
		}
		if err := rules.RequireAvailable(acc, in.Amount); err != nil {
			return err
		}

		now := p.now()
		payment = &models.DebtPayment{
			ID:            uuid.New().String(),
			DebtID:        debt.ID,
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			PaymentDate:   now,
			RegisteredBy:  in.RegisteredBy,
		}
		e := &models.Expense{
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			Category:      "debt_payment",
			Description:   debt.Person,
			Date:          now,
			RegisteredBy:  in.RegisteredBy,
			DebtPaymentID: payment.ID,
		}
		if _, err := p.journal.Debit(ctx, tx, e); err != nil {
			return err
		}
		payment.ExpenseID = e.ID

		debt.RemainingAmount -= in.Amount
		debt.PaidInstallments++
		if err := tx.Put(storage.DebtPayments, payment.ID, payment); err != nil {
			return err
		}
		return tx.Put(storage.PreviousDebts, debt.ID, debt)
	})
	if err != nil {
		return nil, nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventDebtPayment,
		Title:        debt.Person,
		Amount:       payment.Amount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     payment.ID,
		AccountID:    payment.BankAccountID,
	})
	return debt, payment, nil
}

// DeleteDebtPayment undoes one payment towards a debt.
func (p *Processor) DeleteDebtPayment(ctx context.Context, paymentID string, registeredBy models.OwnerID) (*models.PreviousDebt, error) {
	var (
		debt    *models.PreviousDebt
		payment *models.DebtPayment
	)
	err := p.run(ctx, "delete_debt_payment", func(tx storage.Tx) error {
		var err error
		if payment, err = getDebtPayment(ctx, tx, paymentID); err != nil {
			return err
		}
		if debt, err = getDebt(ctx, tx, payment.DebtID); err != nil {
			return err
		}
		if err := p.refund(ctx, tx, payment.ExpenseID, models.FieldDebtPaymentID, payment.ID); err != nil {
			return err
		}

		debt.RemainingAmount += payment.Amount
		debt.PaidInstallments = max(0, debt.PaidInstallments-1)
		tx.Delete(storage.DebtPayments, payment.ID)
		return tx.Put(storage.PreviousDebts, debt.ID, debt)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventDebtPaymentUndo,
		Title:        debt.Person,
		Amount:       payment.Amount,
		RegisteredBy: registeredBy,
		EntityID:     payment.ID,
		AccountID:    payment.BankAccountID,
	})
	return debt, nil
}

// DeleteDebt removes a debt with no payment history.
func (p *Processor) DeleteDebt(ctx context.Context, debtID string, registeredBy models.OwnerID) error {
	var debt *models.PreviousDebt
	err := p.run(ctx, "delete_debt", func(tx storage.Tx) error {
		var err error
		if debt, err = getDebt(ctx, tx, debtID); err != nil {
			return err
		}
		if err := rules.RequireNoHistory("debt", debt.PaidInstallments); err != nil {
			return err
		}
		tx.Delete(storage.PreviousDebts, debt.ID)
		return nil
	})
	if err != nil {
		return err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventDebtDeleted,
		Title:        debt.Person,
		Amount:       debt.Amount,
		RegisteredBy: registeredBy,
		EntityID:     debt.ID,
	})
	return nil
}

// Debt returns a debt.
func (p *Processor) Debt(ctx context.Context, id string) (*models.PreviousDebt, error) {
	var debt *models.PreviousDebt
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		debt, err = getDebt(ctx, tx, id)
		return err
	})
	return debt, err
}

// DebtPayments returns the payments made towards a debt.
func (p *Processor) DebtPayments(ctx context.Context, debtID string) ([]models.DebtPayment, error) {
	var payments []models.DebtPayment
	err := p.view(ctx, func(tx storage.Tx) error {
		if _, err := getDebt(ctx, tx, debtID); err != nil {
			return err
		}
		return tx.Query(ctx, storage.DebtPayments, models.FieldDebtID, debtID, &payments)
	})
	return payments, err
}
