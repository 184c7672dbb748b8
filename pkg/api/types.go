// Package api holds the request and response payloads of the HTTP API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Owner defines model for Owner.
type Owner string

// Defines values for Owner.
const (
	Ali           Owner = "ali"
	Fatemeh       Owner = "fatemeh"
	SharedAccount Owner = "shared_account"
)

// CheckStatus defines model for Check.Status.
type CheckStatus string

// Defines values for CheckStatus.
const (
	Pending CheckStatus = "pending"
	Cleared CheckStatus = "cleared"
)

// Error defines model for Error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAccount defines model for NewAccount.
type NewAccount struct {
	OwnerId        Owner  `json:"owner_id"`
	Name           string `json:"name"`
	InitialBalance int64  `json:"initial_balance"`
}

// Account defines model for Account.
type Account struct {
	Id             string    `json:"id"`
	OwnerId        Owner     `json:"owner_id"`
	Name           string    `json:"name"`
	Balance        int64     `json:"balance"`
	BlockedBalance int64     `json:"blocked_balance"`
	Available      int64     `json:"available"`
	InitialBalance int64     `json:"initial_balance"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewExpense defines model for NewExpense.
type NewExpense struct {
	Amount      int64               `json:"amount"`
	Category    string              `json:"category"`
	Description *string             `json:"description,omitempty"`
	Date        *openapi_types.Date `json:"date,omitempty"`
}

// Expense defines model for Expense.
type Expense struct {
	Id            string    `json:"id"`
	BankAccountId string    `json:"bank_account_id"`
	Amount        int64     `json:"amount"`
	Category      string    `json:"category,omitempty"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"date"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	RegisteredBy  Owner     `json:"registered_by,omitempty"`
	GoalId        *string   `json:"goal_id,omitempty"`
	SubType       *string   `json:"sub_type,omitempty"`
	CheckId       *string   `json:"check_id,omitempty"`
	LoanPaymentId *string   `json:"loan_payment_id,omitempty"`
	DebtPaymentId *string   `json:"debt_payment_id,omitempty"`
}

// NewIncome defines model for NewIncome.
type NewIncome struct {
	Amount      int64               `json:"amount"`
	Source      string              `json:"source"`
	Description *string             `json:"description,omitempty"`
	Date        *openapi_types.Date `json:"date,omitempty"`
}

// Income defines model for Income.
type Income struct {
	Id            string    `json:"id"`
	BankAccountId string    `json:"bank_account_id"`
	Amount        int64     `json:"amount"`
	Source        string    `json:"source,omitempty"`
	Description   string    `json:"description,omitempty"`
	Date          time.Time `json:"date"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
	RegisteredBy  Owner     `json:"registered_by,omitempty"`
}

// Journal defines model for Journal.
type Journal struct {
	Account  Account   `json:"account"`
	Expenses []Expense `json:"expenses"`
	Incomes  []Income  `json:"incomes"`
}

// NewGoal defines model for NewGoal.
type NewGoal struct {
	OwnerId          Owner   `json:"owner_id"`
	Title            string  `json:"title"`
	TargetAmount     int64   `json:"target_amount"`
	InitialAccountId *string `json:"initial_account_id,omitempty"`
	InitialAmount    *int64  `json:"initial_amount,omitempty"`
}

// Contribution defines model for Contribution.
type Contribution struct {
	BankAccountId string    `json:"bank_account_id"`
	Amount        int64     `json:"amount"`
	Date          time.Time `json:"date"`
	RegisteredBy  Owner     `json:"registered_by,omitempty"`
}

// Goal defines model for Goal.
type Goal struct {
	Id            string         `json:"id"`
	OwnerId       Owner          `json:"owner_id"`
	Title         string         `json:"title"`
	TargetAmount  int64          `json:"target_amount"`
	CurrentAmount int64          `json:"current_amount"`
	Progress      string         `json:"progress"`
	IsAchieved    bool           `json:"is_achieved"`
	ActualCost    int64          `json:"actual_cost"`
	AchievedAt    *time.Time     `json:"achieved_at,omitempty"`
	Contributions []Contribution `json:"contributions"`
}

// Contribute defines model for Contribute.
type Contribute struct {
	BankAccountId string `json:"bank_account_id"`
	Amount        int64  `json:"amount"`
}

// AchieveGoal defines model for AchieveGoal.
type AchieveGoal struct {
	ActualCost    int64   `json:"actual_cost"`
	PaymentCardId *string `json:"payment_card_id,omitempty"`
}

// NewCheck defines model for NewCheck.
type NewCheck struct {
	BankAccountId string             `json:"bank_account_id"`
	Amount        int64              `json:"amount"`
	Payee         string             `json:"payee"`
	DueDate       openapi_types.Date `json:"due_date"`
}

// Check defines model for Check.
type Check struct {
	Id            string             `json:"id"`
	BankAccountId string             `json:"bank_account_id"`
	Amount        int64              `json:"amount"`
	Payee         string             `json:"payee"`
	Status        CheckStatus        `json:"status"`
	DueDate       openapi_types.Date `json:"due_date"`
	ClearedDate   *time.Time         `json:"cleared_date,omitempty"`
	ReceiptRef    *string            `json:"receipt_ref,omitempty"`
}

// ClearCheck defines model for ClearCheck.
type ClearCheck struct {
	ReceiptRef *string `json:"receipt_ref,omitempty"`
}

// NewLoan defines model for NewLoan.
type NewLoan struct {
	Title             string `json:"title"`
	Amount            int64  `json:"amount"`
	InstallmentAmount int64  `json:"installment_amount"`
}

// Loan defines model for Loan.
type Loan struct {
	Id                string    `json:"id"`
	Title             string    `json:"title"`
	Amount            int64     `json:"amount"`
	InstallmentAmount int64     `json:"installment_amount"`
	RemainingAmount   int64     `json:"remaining_amount"`
	PaidInstallments  int       `json:"paid_installments"`
	Settled           bool      `json:"settled"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewDebt defines model for NewDebt.
type NewDebt struct {
	Person string `json:"person"`
	Amount int64  `json:"amount"`
}

// Debt defines model for Debt.
type Debt struct {
	Id               string    `json:"id"`
	Person           string    `json:"person"`
	Amount           int64     `json:"amount"`
	RemainingAmount  int64     `json:"remaining_amount"`
	PaidInstallments int       `json:"paid_installments"`
	Settled          bool      `json:"settled"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewPayment defines model for NewPayment.
type NewPayment struct {
	BankAccountId string `json:"bank_account_id"`
	Amount        int64  `json:"amount"`
}

// Payment defines model for Payment. ParentId is the loan or debt paid.
type Payment struct {
	Id            string    `json:"id"`
	ParentId      string    `json:"parent_id"`
	BankAccountId string    `json:"bank_account_id"`
	Amount        int64     `json:"amount"`
	PaymentDate   time.Time `json:"payment_date"`
	RegisteredBy  Owner     `json:"registered_by,omitempty"`
}
