// Package escrow reserves and releases funds on an account. A reservation
// moves nothing out of the account and produces no journal entry.
package escrow

import (
	"context"

	"github.com/chris/household-ledger/pkg/accounts"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/rules"
	"github.com/chris/household-ledger/pkg/storage"
)

// Manager mutates blockedBalance.
type Manager struct {
	accounts *accounts.Store
}

// New creates a Manager on top of the account store.
func New(accts *accounts.Store) *Manager {
	return &Manager{accounts: accts}
}

// Block reserves amount, failing with InsufficientFundsError when the
// available balance cannot cover it.
func (m *Manager) Block(ctx context.Context, tx storage.Tx, accountID string, amount int64) (*models.BankAccount, error) {
	acc, err := m.accounts.Get(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	if err := rules.RequireAvailable(acc, amount); err != nil {
		return nil, err
	}
	return m.accounts.SetBlockedBalance(ctx, tx, acc.ID, acc.BlockedBalance+amount)
}

// Unblock releases up to amount. The blocked balance never drops below zero,
// so releasing more than is held is tolerated.
func (m *Manager) Unblock(ctx context.Context, tx storage.Tx, accountID string, amount int64) (*models.BankAccount, error) {
	acc, err := m.accounts.Get(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	return m.accounts.SetBlockedBalance(ctx, tx, acc.ID, max(0, acc.BlockedBalance-amount))
}

// Reinstate re-reserves funds that an undone operation had released. Unlike
// Block it does not consult the available balance: the funds were reserved
// before and are being put back exactly as they were.
func (m *Manager) Reinstate(ctx context.Context, tx storage.Tx, accountID string, amount int64) (*models.BankAccount, error) {
	acc, err := m.accounts.Get(ctx, tx, accountID)
	if err != nil {
		return nil, err
	}
	return m.accounts.SetBlockedBalance(ctx, tx, acc.ID, acc.BlockedBalance+amount)
}
