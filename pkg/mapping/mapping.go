package mapping

import (
	"time"

	"github.com/chris/household-ledger/pkg/api"
	"github.com/chris/household-ledger/pkg/models"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToApiAccount converts a domain BankAccount to an API Account.
func ToApiAccount(acc *models.BankAccount) *api.Account {
	return &api.Account{
		Id:             acc.ID,
		OwnerId:        api.Owner(acc.OwnerID),
		Name:           acc.Name,
		Balance:        acc.Balance,
		BlockedBalance: acc.BlockedBalance,
		Available:      acc.Available(),
		InitialBalance: acc.InitialBalance,
		CreatedAt:      acc.CreatedAt,
	}
}

// ToApiExpense converts a domain Expense to an API Expense.
func ToApiExpense(e *models.Expense) *api.Expense {
	out := &api.Expense{
		Id:            e.ID,
		BankAccountId: e.BankAccountID,
		Amount:        e.Amount,
		Category:      e.Category,
		Description:   e.Description,
		Date:          e.Date,
		BalanceBefore: e.BalanceBefore,
		BalanceAfter:  e.BalanceAfter,
		RegisteredBy:  api.Owner(e.RegisteredBy),
		GoalId:        optional(e.GoalID),
		SubType:       optional(string(e.SubType)),
		CheckId:       optional(e.CheckID),
		LoanPaymentId: optional(e.LoanPaymentID),
		DebtPaymentId: optional(e.DebtPaymentID),
	}
	return out
}

// ToApiIncome converts a domain Income to an API Income.
func ToApiIncome(in *models.Income) *api.Income {
	return &api.Income{
		Id:            in.ID,
		BankAccountId: in.BankAccountID,
		Amount:        in.Amount,
		Source:        in.Source,
		Description:   in.Description,
		Date:          in.Date,
		BalanceBefore: in.BalanceBefore,
		BalanceAfter:  in.BalanceAfter,
		RegisteredBy:  api.Owner(in.RegisteredBy),
	}
}

// ToApiJournal converts an account and its entries to an API Journal.
func ToApiJournal(acc *models.BankAccount, expenses []models.Expense, incomes []models.Income) *api.Journal {
	out := &api.Journal{
		Account:  *ToApiAccount(acc),
		Expenses: make([]api.Expense, len(expenses)),
		Incomes:  make([]api.Income, len(incomes)),
	}
	for i := range expenses {
		out.Expenses[i] = *ToApiExpense(&expenses[i])
	}
	for i := range incomes {
		out.Incomes[i] = *ToApiIncome(&incomes[i])
	}
	return out
}

// ToApiGoal converts a domain FinancialGoal to an API Goal.
func ToApiGoal(g *models.FinancialGoal) *api.Goal {
	out := &api.Goal{
		Id:            g.ID,
		OwnerId:       api.Owner(g.OwnerID),
		Title:         g.Title,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Progress:      g.Progress().StringFixed(4),
		IsAchieved:    g.IsAchieved,
		ActualCost:    g.ActualCost,
		AchievedAt:    g.AchievedAt,
		Contributions: make([]api.Contribution, len(g.Contributions)),
	}
	for i, c := range g.Contributions {
		out.Contributions[i] = api.Contribution{
			BankAccountId: c.BankAccountID,
			Amount:        c.Amount,
			Date:          c.Date,
			RegisteredBy:  api.Owner(c.RegisteredBy),
		}
	}
	return out
}

// ToApiCheck converts a domain Check to an API Check.
func ToApiCheck(c *models.Check) *api.Check {
	return &api.Check{
		Id:            c.ID,
		BankAccountId: c.BankAccountID,
		Amount:        c.Amount,
		Payee:         c.Payee,
		Status:        api.CheckStatus(c.Status),
		DueDate:       openapi_types.Date{Time: c.DueDate},
		ClearedDate:   c.ClearedDate,
		ReceiptRef:    optional(c.ReceiptRef),
	}
}

// ToApiLoan converts a domain Loan to an API Loan.
func ToApiLoan(l *models.Loan) *api.Loan {
	return &api.Loan{
		Id:                l.ID,
		Title:             l.Title,
		Amount:            l.Amount,
		InstallmentAmount: l.InstallmentAmount,
		RemainingAmount:   l.RemainingAmount,
		PaidInstallments:  l.PaidInstallments,
		Settled:           l.IsSettled(),
		CreatedAt:         l.CreatedAt,
	}
}

// ToApiLoanPayment converts a domain LoanPayment to an API Payment.
func ToApiLoanPayment(p *models.LoanPayment) *api.Payment {
	return &api.Payment{
		Id:            p.ID,
		ParentId:      p.LoanID,
		BankAccountId: p.BankAccountID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		RegisteredBy:  api.Owner(p.RegisteredBy),
	}
}

// ToApiDebt converts a domain PreviousDebt to an API Debt.
func ToApiDebt(d *models.PreviousDebt) *api.Debt {
	return &api.Debt{
		Id:               d.ID,
		Person:           d.Person,
		Amount:           d.Amount,
		RemainingAmount:  d.RemainingAmount,
		PaidInstallments: d.PaidInstallments,
		Settled:          d.IsSettled(),
		CreatedAt:        d.CreatedAt,
	}
}

// ToApiDebtPayment converts a domain DebtPayment to an API Payment.
func ToApiDebtPayment(p *models.DebtPayment) *api.Payment {
	return &api.Payment{
		Id:            p.ID,
		ParentId:      p.DebtID,
		BankAccountId: p.BankAccountID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		RegisteredBy:  api.Owner(p.RegisteredBy),
	}
}

// FromApiDate converts an optional API date to a time, zero when absent.
func FromApiDate(d *openapi_types.Date) time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.Time
}

// FromApiString dereferences an optional API string.
func FromApiString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ToDomainOwner converts an API Owner to a domain OwnerID.
func ToDomainOwner(o api.Owner) models.OwnerID {
	return models.OwnerID(o)
}
