// Package notifier delivers best-effort events after a ledger operation has
// committed. A delivery failure never affects the committed operation.
package notifier

import (
	"context"
	"time"

	"github.com/chris/household-ledger/pkg/models"
)

// EventType names what happened.
type EventType string

const (
	EventAccountCreated   EventType = "account_created"
	EventIncomeRecorded   EventType = "income_recorded"
	EventExpenseRecorded  EventType = "expense_recorded"
	EventEntryDeleted     EventType = "journal_entry_deleted"
	EventGoalCreated      EventType = "goal_created"
	EventGoalContribution EventType = "goal_contribution"
	EventGoalAchieved     EventType = "goal_achieved"
	EventGoalReverted     EventType = "goal_reverted"
	EventGoalDeleted      EventType = "goal_deleted"
	EventCheckCreated     EventType = "check_created"
	EventCheckCleared     EventType = "check_cleared"
	EventCheckDeleted     EventType = "check_deleted"
	EventLoanCreated      EventType = "loan_created"
	EventLoanPayment      EventType = "loan_payment"
	EventLoanPaymentUndo  EventType = "loan_payment_deleted"
	EventLoanDeleted      EventType = "loan_deleted"
	EventDebtCreated      EventType = "debt_created"
	EventDebtPayment      EventType = "debt_payment"
	EventDebtPaymentUndo  EventType = "debt_payment_deleted"
	EventDebtDeleted      EventType = "debt_deleted"
)

// Event is what the family sees in their activity feed.
type Event struct {
	Type         EventType      `json:"type"`
	Title        string         `json:"title"`
	Amount       int64          `json:"amount"`
	Date         time.Time      `json:"date"`
	RegisteredBy models.OwnerID `json:"registered_by,omitempty"`
	EntityID     string         `json:"entity_id,omitempty"`
	AccountID    string         `json:"bank_account_id,omitempty"`
	Progress     string         `json:"progress,omitempty"`
}

// Notifier defines the interface for a component that delivers events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NoOp drops every event.
type NoOp struct{}

// Notify does nothing.
func (NoOp) Notify(context.Context, Event) error { return nil }

// Make sure we conform to the interface
var _ Notifier = NoOp{}
