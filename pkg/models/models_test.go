package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankAccountAvailable(t *testing.T) {
	acc := BankAccount{Balance: 200000, BlockedBalance: 150000}
	assert.Equal(t, int64(50000), acc.Available())

	acc = BankAccount{Balance: -100, BlockedBalance: 0}
	assert.Equal(t, int64(-100), acc.Available())
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name string
		goal FinancialGoal
		want string
	}{
		{"Empty", FinancialGoal{TargetAmount: 100}, "0"},
		{"Partial", FinancialGoal{TargetAmount: 3, CurrentAmount: 2}, "0.6667"},
		{"Overfunded", FinancialGoal{TargetAmount: 100, CurrentAmount: 150}, "1.5"},
		{"No Target", FinancialGoal{CurrentAmount: 10}, "0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.goal.Progress().String())
		})
	}
}

func TestContributedFrom(t *testing.T) {
	g := FinancialGoal{Contributions: []Contribution{
		{BankAccountID: "a", Amount: 10},
		{BankAccountID: "b", Amount: 5},
		{BankAccountID: "a", Amount: 7},
	}}
	assert.Equal(t, int64(17), g.ContributedFrom("a"))
	assert.Equal(t, int64(0), g.ContributedFrom("c"))
}

func TestHasBackReference(t *testing.T) {
	assert.False(t, (&Expense{Category: "food"}).HasBackReference())
	assert.True(t, (&Expense{GoalID: "g", SubType: GoalCashPortion}).HasBackReference())
	assert.True(t, (&Expense{DebtPaymentID: "p"}).HasBackReference())
}

func TestOwnerID(t *testing.T) {
	assert.True(t, OwnerShared.Valid())
	assert.False(t, OwnerShared.IsPerson())
	assert.True(t, OwnerFatemeh.IsPerson())
	assert.False(t, OwnerID("bob").Valid())
}
