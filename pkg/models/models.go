package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OwnerID identifies who an account or goal belongs to.
type OwnerID string

const (
	OwnerAli     OwnerID = "ali"
	OwnerFatemeh OwnerID = "fatemeh"
	OwnerShared  OwnerID = "shared_account"
)

// Valid reports whether o is one of the known owners.
func (o OwnerID) Valid() bool {
	switch o {
	case OwnerAli, OwnerFatemeh, OwnerShared:
		return true
	}
	return false
}

// IsPerson reports whether o names a family member rather than the shared pool.
func (o OwnerID) IsPerson() bool {
	return o == OwnerAli || o == OwnerFatemeh
}

// CheckStatus defines the possible states of a check.
type CheckStatus string

const (
	PENDING CheckStatus = "pending"
	CLEARED CheckStatus = "cleared"
)

// ExpenseSubType tags the expenses produced by goal achievement.
type ExpenseSubType string

const (
	GoalSavedPortion ExpenseSubType = "goal_saved_portion"
	GoalCashPortion  ExpenseSubType = "goal_cash_portion"
)

// BankAccount is a card or account whose balance the engine keeps in step with the journal.
type BankAccount struct {
	ID             string    `json:"id" dynamodbav:"id"`
	OwnerID        OwnerID   `json:"owner_id" dynamodbav:"owner_id"`
	Name           string    `json:"name" dynamodbav:"name"`
	Balance        int64     `json:"balance" dynamodbav:"balance"`
	BlockedBalance int64     `json:"blocked_balance" dynamodbav:"blocked_balance"`
	InitialBalance int64     `json:"initial_balance" dynamodbav:"initial_balance"`
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}

// Available is the ceiling for any new spend or escrow reservation.
func (a *BankAccount) Available() int64 {
	return a.Balance - a.BlockedBalance
}

// Contribution is an amount reserved on an account towards a goal.
type Contribution struct {
	BankAccountID string    `json:"bank_account_id" dynamodbav:"bank_account_id"`
	Amount        int64     `json:"amount" dynamodbav:"amount"`
	Date          time.Time `json:"date" dynamodbav:"date"`
	RegisteredBy  OwnerID   `json:"registered_by" dynamodbav:"registered_by"`
}

// FinancialGoal is a savings goal funded by escrowed contributions.
type FinancialGoal struct {
	ID            string         `json:"id" dynamodbav:"id"`
	OwnerID       OwnerID        `json:"owner_id" dynamodbav:"owner_id"`
	Title         string         `json:"title" dynamodbav:"title"`
	TargetAmount  int64          `json:"target_amount" dynamodbav:"target_amount"`
	CurrentAmount int64          `json:"current_amount" dynamodbav:"current_amount"`
	IsAchieved    bool           `json:"is_achieved" dynamodbav:"is_achieved"`
	ActualCost    int64          `json:"actual_cost" dynamodbav:"actual_cost"`
	AchievedAt    *time.Time     `json:"achieved_at,omitempty" dynamodbav:"achieved_at,omitempty"`
	Contributions []Contribution `json:"contributions" dynamodbav:"contributions"`
	// ExpenseIDs names the entries written when the goal was achieved.
	ExpenseIDs    []string       `json:"expense_ids,omitempty" dynamodbav:"expense_ids,omitempty"`
	CreatedAt     time.Time      `json:"created_at" dynamodbav:"created_at"`
}

// Progress returns CurrentAmount/TargetAmount rounded to four places.
func (g *FinancialGoal) Progress() decimal.Decimal {
	if g.TargetAmount <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(g.CurrentAmount).Div(decimal.NewFromInt(g.TargetAmount)).Round(4)
}

// ContributedFrom sums the contributions reserved on the given account.
func (g *FinancialGoal) ContributedFrom(accountID string) int64 {
	var total int64
	for _, c := range g.Contributions {
		if c.BankAccountID == accountID {
			total += c.Amount
		}
	}
	return total
}

// Check is a dated check drawn on an account.
type Check struct {
	ID            string      `json:"id" dynamodbav:"id"`
	BankAccountID string      `json:"bank_account_id" dynamodbav:"bank_account_id"`
	Amount        int64       `json:"amount" dynamodbav:"amount"`
	Payee         string      `json:"payee" dynamodbav:"payee"`
	Status        CheckStatus `json:"status" dynamodbav:"status"`
	DueDate       time.Time   `json:"due_date" dynamodbav:"due_date"`
	ClearedDate   *time.Time  `json:"cleared_date,omitempty" dynamodbav:"cleared_date,omitempty"`
	ReceiptRef    string      `json:"receipt_ref,omitempty" dynamodbav:"receipt_ref,omitempty"`
	ExpenseID     string      `json:"expense_id,omitempty" dynamodbav:"expense_id,omitempty"`
	RegisteredBy  OwnerID     `json:"registered_by" dynamodbav:"registered_by"`
	CreatedAt     time.Time   `json:"created_at" dynamodbav:"created_at"`
}

// Loan is a bank loan repaid in installments.
type Loan struct {
	ID                string    `json:"id" dynamodbav:"id"`
	Title             string    `json:"title" dynamodbav:"title"`
	Amount            int64     `json:"amount" dynamodbav:"amount"`
	InstallmentAmount int64     `json:"installment_amount" dynamodbav:"installment_amount"`
	RemainingAmount   int64     `json:"remaining_amount" dynamodbav:"remaining_amount"`
	PaidInstallments  int       `json:"paid_installments" dynamodbav:"paid_installments"`
	CreatedAt         time.Time `json:"created_at" dynamodbav:"created_at"`
}

// IsSettled reports whether nothing remains to be paid.
func (l *Loan) IsSettled() bool { return l.RemainingAmount == 0 }

// LoanPayment records one installment paid towards a loan.
type LoanPayment struct {
	ID            string    `json:"id" dynamodbav:"id"`
	LoanID        string    `json:"loan_id" dynamodbav:"loan_id"`
	BankAccountID string    `json:"bank_account_id" dynamodbav:"bank_account_id"`
	Amount        int64     `json:"amount" dynamodbav:"amount"`
	PaymentDate   time.Time `json:"payment_date" dynamodbav:"payment_date"`
	RegisteredBy  OwnerID   `json:"registered_by" dynamodbav:"registered_by"`
	ExpenseID     string    `json:"expense_id,omitempty" dynamodbav:"expense_id,omitempty"`
}

// PreviousDebt is money owed to a person outside the bank.
type PreviousDebt struct {
	ID               string    `json:"id" dynamodbav:"id"`
	Person           string    `json:"person" dynamodbav:"person"`
	Amount           int64     `json:"amount" dynamodbav:"amount"`
	RemainingAmount  int64     `json:"remaining_amount" dynamodbav:"remaining_amount"`
	PaidInstallments int       `json:"paid_installments" dynamodbav:"paid_installments"`
	CreatedAt        time.Time `json:"created_at" dynamodbav:"created_at"`
}

// IsSettled reports whether nothing remains to be paid.
func (d *PreviousDebt) IsSettled() bool { return d.RemainingAmount == 0 }

// DebtPayment records one payment towards a previous debt.
type DebtPayment struct {
	ID            string    `json:"id" dynamodbav:"id"`
	DebtID        string    `json:"debt_id" dynamodbav:"debt_id"`
	BankAccountID string    `json:"bank_account_id" dynamodbav:"bank_account_id"`
	Amount        int64     `json:"amount" dynamodbav:"amount"`
	PaymentDate   time.Time `json:"payment_date" dynamodbav:"payment_date"`
	RegisteredBy  OwnerID   `json:"registered_by" dynamodbav:"registered_by"`
	ExpenseID     string    `json:"expense_id,omitempty" dynamodbav:"expense_id,omitempty"`
}

// Expense is a journal entry that decreased an account balance.
// At most one back-reference is set; it names the compound operation that produced it.
type Expense struct {
	ID            string         `json:"id" dynamodbav:"id"`
	BankAccountID string         `json:"bank_account_id" dynamodbav:"bank_account_id"`
	Amount        int64          `json:"amount" dynamodbav:"amount"`
	Category      string         `json:"category,omitempty" dynamodbav:"category,omitempty"`
	Description   string         `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Date          time.Time      `json:"date" dynamodbav:"date"`
	BalanceBefore int64          `json:"balance_before" dynamodbav:"balance_before"`
	BalanceAfter  int64          `json:"balance_after" dynamodbav:"balance_after"`
	RegisteredBy  OwnerID        `json:"registered_by" dynamodbav:"registered_by"`
	GoalID        string         `json:"goal_id,omitempty" dynamodbav:"goal_id,omitempty"`
	SubType       ExpenseSubType `json:"sub_type,omitempty" dynamodbav:"sub_type,omitempty"`
	CheckID       string         `json:"check_id,omitempty" dynamodbav:"check_id,omitempty"`
	LoanPaymentID string         `json:"loan_payment_id,omitempty" dynamodbav:"loan_payment_id,omitempty"`
	DebtPaymentID string         `json:"debt_payment_id,omitempty" dynamodbav:"debt_payment_id,omitempty"`
}

// HasBackReference reports whether the expense belongs to a compound operation.
func (e *Expense) HasBackReference() bool {
	return e.GoalID != "" || e.CheckID != "" || e.LoanPaymentID != "" || e.DebtPaymentID != ""
}

// Income is a journal entry that increased an account balance.
type Income struct {
	ID            string    `json:"id" dynamodbav:"id"`
	BankAccountID string    `json:"bank_account_id" dynamodbav:"bank_account_id"`
	Amount        int64     `json:"amount" dynamodbav:"amount"`
	Source        string    `json:"source,omitempty" dynamodbav:"source,omitempty"`
	Description   string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Date          time.Time `json:"date" dynamodbav:"date"`
	BalanceBefore int64     `json:"balance_before" dynamodbav:"balance_before"`
	BalanceAfter  int64     `json:"balance_after" dynamodbav:"balance_after"`
	RegisteredBy  OwnerID   `json:"registered_by" dynamodbav:"registered_by"`
}
