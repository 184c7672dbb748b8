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

// CreateAccountInput describes a new bank account.
type CreateAccountInput struct {
	OwnerID        models.OwnerID
	Name           string
	InitialBalance int64
	RegisteredBy   models.OwnerID
}

// RecordExpenseInput describes a plain expense with no compound origin.
type RecordExpenseInput struct {
	BankAccountID string
	Amount        int64
	Category      string
	Description   string
	Date          time.Time
	RegisteredBy  models.OwnerID
}

// RecordIncomeInput describes a plain income.
type RecordIncomeInput struct {
	BankAccountID string
	Amount        int64
	Source        string
	Description   string
	Date          time.Time
	RegisteredBy  models.OwnerID
}

// AccountJournal is every journal entry booked on one account.
type AccountJournal struct {
	Account  *models.BankAccount
	Expenses []models.Expense
	Incomes  []models.Income
}

// CreateAccount opens an account with nothing blocked.
func (p *Processor) CreateAccount(ctx context.Context, in CreateAccountInput) (*models.BankAccount, error) {
	if err := rules.RequireOwner(in.OwnerID); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, &apperrors.ValidationError{Field: "name", Message: "is required"}
	}

	acc := &models.BankAccount{
		ID:             uuid.New().String(),
		OwnerID:        in.OwnerID,
		Name:           in.Name,
		Balance:        in.InitialBalance,
		InitialBalance: in.InitialBalance,
	}
	err := p.run(ctx, "create_account", func(tx storage.Tx) error {
		acc.CreatedAt = p.now()
		return p.accounts.Put(tx, acc)
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventAccountCreated,
		Title:        acc.Name,
		Amount:       acc.Balance,
		RegisteredBy: in.RegisteredBy,
		EntityID:     acc.ID,
		AccountID:    acc.ID,
	})
	return acc, nil
}

// RecordExpense spends from an account's available balance.
func (p *Processor) RecordExpense(ctx context.Context, in RecordExpenseInput) (*models.Expense, error) {
	if err := rules.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}

	var e *models.Expense
	err := p.run(ctx, "record_expense", func(tx storage.Tx) error {
		acc, err := p.accounts.Get(ctx, tx, in.BankAccountID)
		if err != nil {
			return err
		}
		if err := rules.RequireAvailable(acc, in.Amount); err != nil {
			return err
		}
		e = &models.Expense{
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			Category:      in.Category,
			Description:   in.Description,
			Date:          p.dateOr(in.Date),
			RegisteredBy:  in.RegisteredBy,
		}
		_, err = p.journal.Debit(ctx, tx, e)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventExpenseRecorded,
		Title:        e.Category,
		Amount:       e.Amount,
		Date:         e.Date,
		RegisteredBy: in.RegisteredBy,
		EntityID:     e.ID,
		AccountID:    e.BankAccountID,
	})
	return e, nil
}

// RecordIncome adds to an account's balance.
func (p *Processor) RecordIncome(ctx context.Context, in RecordIncomeInput) (*models.Income, error) {
	if err := rules.RequirePositive("amount", in.Amount); err != nil {
		return nil, err
	}

	var income *models.Income
	err := p.run(ctx, "record_income", func(tx storage.Tx) error {
		income = &models.Income{
			BankAccountID: in.BankAccountID,
			Amount:        in.Amount,
			Source:        in.Source,
			Description:   in.Description,
			Date:          p.dateOr(in.Date),
			RegisteredBy:  in.RegisteredBy,
		}
		_, err := p.journal.Credit(ctx, tx, income)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventIncomeRecorded,
		Title:        income.Source,
		Amount:       income.Amount,
		Date:         income.Date,
		RegisteredBy: in.RegisteredBy,
		EntityID:     income.ID,
		AccountID:    income.BankAccountID,
	})
	return income, nil
}

// DeleteExpense reverses a plain expense. Expenses that belong to a goal,
// check or payment are refused; the inverse compound operation removes them.
func (p *Processor) DeleteExpense(ctx context.Context, id string, registeredBy models.OwnerID) error {
	var e *models.Expense
	err := p.run(ctx, "delete_expense", func(tx storage.Tx) error {
		var err error
		if e, err = p.journal.Expense(ctx, tx, id); err != nil {
			return err
		}
		if err := rules.RequireNoBackReference(e); err != nil {
			return err
		}
		_, err = p.journal.ReverseExpense(ctx, tx, e)
		return err
	})
	if err != nil {
		return err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventEntryDeleted,
		Title:        e.Category,
		Amount:       e.Amount,
		RegisteredBy: registeredBy,
		EntityID:     e.ID,
		AccountID:    e.BankAccountID,
	})
	return nil
}

// DeleteIncome reverses an income.
func (p *Processor) DeleteIncome(ctx context.Context, id string, registeredBy models.OwnerID) error {
	var income *models.Income
	err := p.run(ctx, "delete_income", func(tx storage.Tx) error {
		var err error
		if income, err = p.journal.Income(ctx, tx, id); err != nil {
			return err
		}
		_, err = p.journal.ReverseIncome(ctx, tx, income)
		return err
	})
	if err != nil {
		return err
	}

	p.notify(ctx, notifier.Event{
		Type:         notifier.EventEntryDeleted,
		Title:        income.Source,
		Amount:       income.Amount,
		RegisteredBy: registeredBy,
		EntityID:     income.ID,
		AccountID:    income.BankAccountID,
	})
	return nil
}

// Account returns an account.
func (p *Processor) Account(ctx context.Context, id string) (*models.BankAccount, error) {
	var acc *models.BankAccount
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		acc, err = p.accounts.Get(ctx, tx, id)
		return err
	})
	return acc, err
}

// Accounts returns every account.
func (p *Processor) Accounts(ctx context.Context) ([]models.BankAccount, error) {
	var accs []models.BankAccount
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		accs, err = p.accounts.List(ctx, tx)
		return err
	})
	return accs, err
}

// AccountJournal returns an account with every entry booked on it.
func (p *Processor) AccountJournal(ctx context.Context, accountID string) (*AccountJournal, error) {
	out := &AccountJournal{}
	err := p.view(ctx, func(tx storage.Tx) error {
		var err error
		if out.Account, err = p.accounts.Get(ctx, tx, accountID); err != nil {
			return err
		}
		if out.Expenses, err = p.journal.ExpensesBy(ctx, tx, models.FieldBankAccountID, accountID); err != nil {
			return err
		}
		out.Incomes, err = p.journal.IncomesFor(ctx, tx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Processor) dateOr(d time.Time) time.Time {
	if d.IsZero() {
		return p.now()
	}
	return d
}
