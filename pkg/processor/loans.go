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

// CreateLoanInput describes a new loan.
type CreateLoanInput struct {
	Title             string
	Amount            int64
	InstallmentAmount int64
	RegisteredBy      models.OwnerID
}

// PayLoanInput pays Amount towards LoanID from BankAccountID.
type PayLoanInput struct {
	LoanID        string
	BankAccountID string
	Amount        int64
	RegisteredBy  models.OwnerID
}

// CreateLoan records a loan with nothing paid.
func (p *Processor) CreateLoan(ctx context.Context, in CreateLoanInput) (*models.Loan, error) {
	if in.Title == "" {
		return nil, &apperrors.ValidationError{Field: "title", Message: "is required"}
	}
	if err := rules.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}
	if err := rules.RequirePositive("installment_amount", in.InstallmentAmount); err != nil {
		return nil, err
	}

	loan := &models.Loan{
		ID:                uuid.New().String(),
		Title:             in.Title,
		Amount:            in.Amount,
		InstallmentAmount: in.InstallmentAmount,
		RemainingAmount:   in.Amount,
	}
	err := p.run(ctx, "create_loan", func(tx storage.Tx) error {
		loan.CreatedAt = p.now()
		return tx.Put(storage.Loans, loan.ID, loan)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventLoanCreated,
		Title:        loan.Title,
		Amount:       loan.Amount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     loan.ID,
	})
	return loan, nil
}

// PayLoanInstallment pays part of a loan and journals the payment.
func (p *Processor) PayLoanInstallment(ctx context.Context, in PayLoanInput) (*models.Loan, *models.LoanPayment, error) {
	var (
		loan    *models.Loan
		payment *models.LoanPayment
	)
	err := p.run(ctx, "pay_loan_installment", func(tx storage.Tx) error {
		var err error
		if loan, err = getLoan(ctx, tx, in.LoanID); err != nil {
			return err
		}
		acc, err := p.accounts.Get(ctx, tx, in.BankAccountID)
		if err != nil {
			return err
		}
		if err := rules.RequireWithinRemaining(in.Amount, loan.RemainingAmount); err != nil {
			return err
		}
		if err := rules.RequireAvailable(acc, in.Amount); err != nil {
			return err
		}

		now := p.now()
		payment = &models.LoanPayment{
			ID:            uuid.New().String(),
			LoanID:        loan.ID,
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			PaymentDate:   now,
			RegisteredBy:  in.RegisteredBy,
		}
		e := &models.Expense{
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			Category:      "loan_installment",
			Description:   loan.Title,
			Date:          now,
			RegisteredBy:  in.RegisteredBy,
			LoanPaymentID: payment.ID,
		}
		if _, err := p.journal.Debit(ctx, tx, e); err != nil {
			return err
		}
		payment.ExpenseID = e.ID

		loan.RemainingAmount -= in.Amount
		loan.PaidInstallments++
		if err := tx.Put(storage.LoanPayments, payment.ID, payment); err != nil {
			return err
		}
		return tx.Put(storage.Loans, loan.ID, loan)
	})
	if err != nil {
		return nil, nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventLoanPayment,
		Title:        loan.Title,
		Amount:       payment.Amount,
		RegisteredBy: in.RegisteredBy,
		EntityID:     payment.ID,
		AccountID:    payment.BankAccountID,
	})
	return loan, payment, nil
}

// DeleteLoanPayment undoes one installment: the account is refunded, the
// expense deleted and the loan's remaining amount restored.
func (p *Processor) DeleteLoanPayment(ctx context.Context, paymentID string, registeredBy models.OwnerID) (*models.Loan, error) {
	var (
		loan    *models.Loan
		payment *models.LoanPayment
	)
	err := p.run(ctx, "delete_loan_payment", func(tx storage.Tx) error {
		var err error
		if payment, err = getLoanPayment(ctx, tx, paymentID); err != nil {
			return err
		}
		if loan, err = getLoan(ctx, tx, payment.LoanID); err != nil {
			return err
		}
		if err := p.refund(ctx, tx, payment.ExpenseID, models.FieldLoanPaymentID, payment.ID); err != nil {
			return err
		}

		loan.RemainingAmount += payment.Amount
		loan.PaidInstallments = max(0, loan.PaidInstallments-1)
		tx.Delete(storage.LoanPayments, payment.ID)
		return tx.Put(storage.Loans, loan.ID, loan)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventLoanPaymentUndo,
		Title:        loan.Title,
		Amount:       payment.Amount,
		RegisteredBy: registeredBy,
		EntityID:     payment.ID,
		AccountID:    payment.BankAccountID,
	})
	return loan, nil
}

// DeleteLoan removes a loan with no payment history.
func (p *Processor) DeleteLoan(ctx context.Context, loanID string, registeredBy models.OwnerID) error {
	var loan *models.Loan
	err := p.run(ctx, "delete_loan", func(tx storage.Tx) error {
		var err error
		if loan, err = getLoan(ctx, tx, loanID); err != nil {
			return err
		}
		if err := rules.RequireNoHistory("loan", loan.PaidInstallments); err != nil {
			return err
		}
		tx.Delete(storage.Loans, loan.ID)
		return nil
	})
	if err != nil {
		return err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventLoanDeleted,
		Title:        loan.Title,
		Amount:       loan.Amount,
		RegisteredBy: registeredBy,
		EntityID:     loan.ID,
	})
	return nil
}

// Loan returns a loan.
func (p *Processor) Loan(ctx context.Context, id string) (*models.Loan, error) {
	var loan *models.Loan
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		loan, err = getLoan(ctx, tx, id)
		return err
	})
	return loan, err
}

// LoanPayments returns the payments made towards a loan.
func (p *Processor) LoanPayments(ctx context.Context, loanID string) ([]models.LoanPayment, error) {
	var payments []models.LoanPayment
	err := p.view(ctx, func(tx storage.Tx) error {
		if _, err := getLoan(ctx, tx, loanID); err != nil {
			return err
		}
		return tx.Query(ctx, storage.LoanPayments, models.FieldLoanID, loanID, &payments)
	})
	return payments, err
}
