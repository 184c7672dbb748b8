package storage

import "context"

// Collection names a set of records of one type.
type Collection string

const (
	BankAccounts   Collection = "bankAccounts"
	FinancialGoals Collection = "financialGoals"
	Checks         Collection = "checks"
	Loans          Collection = "loans"
	LoanPayments   Collection = "loanPayments"
	PreviousDebts  Collection = "previousDebts"
	DebtPayments   Collection = "debtPayments"
	Expenses       Collection = "expenses"
	Incomes        Collection = "incomes"
)

// RecordStore defines the root interface for the entire data layer.
// Every read and write happens inside a transaction obtained from Begin.
type RecordStore interface {
	// Begin opens a transaction. Nothing written through it is visible to
	// others until Commit succeeds.
	Begin(ctx context.Context) (Tx, error)
}

// Reader defines the read half of a transaction. Every record returned joins
// the transaction's read set and is re-validated at commit.
type Reader interface {
	// Get decodes the record into out, or returns ErrNotFound.
	Get(ctx context.Context, c Collection, id string, out any) error

	// Query decodes into out (a pointer to a slice) every record whose string
	// attribute field equals value.
	Query(ctx context.Context, c Collection, field, value string, out any) error

	// List decodes every record of the collection into out.
	List(ctx context.Context, c Collection, out any) error
}

// Writer defines the buffered write half of a transaction.
type Writer interface {
	// Put replaces the whole record.
	Put(c Collection, id string, item any) error

	// Delete removes the record.
	Delete(c Collection, id string)
}

// Tx is one optimistic transactional unit.
type Tx interface {
	Reader
	Writer

	// Commit applies every buffered write atomically, or returns ErrConflict
	// if any record in the read set changed since it was read.
	Commit(ctx context.Context) error

	// Rollback discards the buffered writes. It is safe to call after Commit.
	Rollback()
}
