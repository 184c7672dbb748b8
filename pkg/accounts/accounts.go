// Package accounts reads and writes bank-account records inside a caller's
// transaction. It enforces no business rules; see package rules.
package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/storage"
)

// Store is the account store.
type Store struct{}

// New creates an account Store.
func New() *Store { return &Store{} }

// Get retrieves an account or returns a NotFoundError.
func (s *Store) Get(ctx context.Context, tx storage.Reader, id string) (*models.BankAccount, error) {
	var acc models.BankAccount
	if err := tx.Get(ctx, storage.BankAccounts, id, &acc); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, &apperrors.NotFoundError{Kind: "bank account", ID: id}
		}
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return &acc, nil
}

// Put writes the whole account.
func (s *Store) Put(tx storage.Writer, acc *models.BankAccount) error {
	return tx.Put(storage.BankAccounts, acc.ID, acc)
}

// SetBalance overwrites the balance and returns the updated account.
func (s *Store) SetBalance(ctx context.Context, tx storage.Tx, id string, balance int64) (*models.BankAccount, error) {
	acc, err := s.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	acc.Balance = balance
	if err := s.Put(tx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// SetBlockedBalance overwrites the escrowed amount and returns the updated account.
func (s *Store) SetBlockedBalance(ctx context.Context, tx storage.Tx, id string, blocked int64) (*models.BankAccount, error) {
	acc, err := s.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	acc.BlockedBalance = blocked
	if err := s.Put(tx, acc); err != nil {
		return nil, err
	}
	return acc, nil
}

// List returns every account.
func (s *Store) List(ctx context.Context, tx storage.Reader) ([]models.BankAccount, error) {
	var accs []models.BankAccount
	if err := tx.List(ctx, storage.BankAccounts, &accs); err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	return accs, nil
}
