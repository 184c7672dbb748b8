package processor

import (
	"context"
	"time"

	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/notifier"
	"github.com/chris/household-ledger/pkg/rules"
	"github.com/chris/household-ledger/pkg/storage"
	"github.com/google/uuid"
)

// CreateCheckInput describes a check drawn on an account.
type CreateCheckInput struct {
	BankAccountID string
	Amount        int64
	Payee         string
	DueDate       time.Time
	RegisteredBy  models.OwnerID
}

// CreateCheck records a pending check. No funds move until it clears.
func (p *Processor) CreateCheck(ctx context.Context, in CreateCheckInput) (*models.Check, error) {
	if err := rules.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}
	if in.DueDate.IsZero() {
		return nil, &apperrors.ValidationError{Field: "due_date", Message: "is required"}
	}

	chk := &models.Check{
		ID:            uuid.New().String(),
		BankAccountID: in.BankAccountID,
		Amount:        in.Amount,
		Payee:         in.Payee,
		Status:        models.PENDING,
		DueDate:       in.DueDate,
		RegisteredBy:  in.RegisteredBy,
	}
	err := p.run(ctx, "create_check", func(tx storage.Tx) error {
		if _, err := p.accounts.Get(ctx, tx, in.BankAccountID); err != nil {
			return err
		}
		chk.CreatedAt = p.now()
		return tx.Put(storage.Checks, chk.ID, chk)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventCheckCreated,
		Title:        chk.Payee,
		Amount:       chk.Amount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     chk.ID,
		AccountID:    chk.BankAccountID,
	})
	return chk, nil
}

// ClearCheck pays a pending check from its account and journals the payment.
func (p *Processor) ClearCheck(ctx context.Context, checkID, receiptRef string, registeredBy models.OwnerID) (*models.Check, error) {
	var chk *models.Check
	err := p.run(ctx, "clear_check", func(tx storage.Tx) error {
		var err error
		if chk, err = getCheck(ctx, tx, checkID); err != nil {
			return err
		}
		if err := rules.RequirePending(chk); err != nil {
			return err
		}
		acc, err := p.accounts.Get(ctx, tx, chk.BankAccountID)
		if err != nil {
			return err
		}
		if err := rules.RequireAvailable(acc, chk.Amount); err != nil {
			return err
		}

		now := p.now()
		e := &models.Expense{
			BankAccountID: chk.BankAccountID,
			Amount:        chk.Amount,
			Category:      "check",
			Description:   chk.Payee,
			Date:          now,
			RegisteredBy:  registeredBy,
			CheckID:       chk.ID,
		}
		if _, err := p.journal.Debit(ctx, tx, e); err != nil {
			return err
		}

		chk.Status = models.CLEARED
		chk.ExpenseID = e.ID
		chk.ClearedDate = &now
		if receiptRef != "" {
			chk.ReceiptRef = receiptRef
		}
		return tx.Put(storage.Checks, chk.ID, chk)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventCheckCleared,
		Title:        chk.Payee,
		Amount:       chk.Amount,
		RegisteredBy: registeredBy,
		EntityID:     chk.ID,
		AccountID:    chk.BankAccountID,
	})
	return chk, nil
}

// DeleteCheck removes a check. A cleared check is refunded and its expense
// deleted first.
func (p *Processor) DeleteCheck(ctx context.Context, checkID string, registeredBy models.OwnerID) error {
	var chk *models.Check
	err := p.run(ctx, "delete_check", func(tx storage.Tx) error {
		var err error
		if chk, err = getCheck(ctx, tx, checkID); err != nil {
			return err
		}
		if chk.Status == models.CLEARED {
			if err := p.refund(ctx, tx, chk.ExpenseID, models.FieldCheckID, chk.ID); err != nil {
				return err
			}
		}
		tx.Delete(storage.Checks, chk.ID)
		return nil
	})
	if err != nil {
		return err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventCheckDeleted,
		Title:        chk.Payee,
		Amount:       chk.Amount,
		RegisteredBy: registeredBy,
		EntityID:     chk.ID,
		AccountID:    chk.BankAccountID,
	})
	return nil
}

// Check returns a check.
func (p *Processor) Check(ctx context.Context, id string) (*models.Check, error) {
	var chk *models.Check
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		chk, err = getCheck(ctx, tx, id)
		return err
	})
	return chk, err
}

// ChecksFor returns every check drawn on an account.
func (p *Processor) ChecksFor(ctx context.Context, accountID string) ([]models.Check, error) {
	var checks []models.Check
	err := p.view(ctx, func(tx storage.Tx) error {
		return tx.Query(ctx, storage.Checks, models.FieldBankAccountID, accountID, &checks)
	})
	return checks, err
}
