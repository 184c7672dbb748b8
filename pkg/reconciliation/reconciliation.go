// Package reconciliation audits every account against its journal and the
// goals holding funds on it. Drift is reported, never corrected.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/chris/household-ledger/pkg/accounts"
	"github.com/chris/household-ledger/pkg/journal"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/observability"
	"github.com/chris/household-ledger/pkg/storage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DriftKind names which invariant an account breaks.
type DriftKind string

const (
	// JournalDrift: incomes minus expenses differs from balance - initialBalance.
	JournalDrift DriftKind = "journal"
	// EscrowDrift: blockedBalance differs from the active goal contributions.
	EscrowDrift DriftKind = "escrow"
)

// Drift is one broken invariant on one account.
type Drift struct {
	AccountID string    `json:"bank_account_id"`
	Kind      DriftKind `json:"kind"`
	Expected  int64     `json:"expected"`
	Actual    int64     `json:"actual"`
}

// Report is the outcome of one audit.
type Report struct {
	Accounts  int      `json:"accounts"`
	Drifts    []Drift  `json:"drifts"`
	// Unsettled lists accounts that changed under every audit attempt.
	Unsettled []string `json:"unsettled,omitempty"`
}

// Auditor runs audits.
type Auditor struct {
	store       storage.RecordStore
	accounts    *accounts.Store
	journal     *journal.Journal
	logger      *zap.Logger
	metrics     *observability.Metrics
	concurrency int
	attempts    int
	backoff     time.Duration
}

// New creates an Auditor that checks up to four accounts at a time.
func New(store storage.RecordStore, logger *zap.Logger, metrics *observability.Metrics) *Auditor {
	accts := accounts.New()
	return &Auditor{
		store:       store,
		accounts:    accts,
		journal:     journal.New(accts),
		logger:      logger,
		metrics:     metrics,
		concurrency: 4,
		attempts:    3,
		backoff:     500 * time.Millisecond,
	}
}

// Run audits every account.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	ids, err := a.accountIDs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report = &Report{Accounts: len(ids)}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			found, err := a.check(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, storage.ErrConflict):
				report.Unsettled = append(report.Unsettled, id)
			case err != nil:
				return fmt.Errorf("failed to audit account %s: %w", id, err)
			default:
				report.Drifts = append(report.Drifts, found...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	drifts := report.Drifts
	sort.Slice(drifts, func(i, j int) bool {
		if drifts[i].AccountID != drifts[j].AccountID {
			return drifts[i].AccountID < drifts[j].AccountID
		}
		return drifts[i].Kind < drifts[j].Kind
	})
	sort.Strings(report.Unsettled)

	drifting := make(map[string]struct{})
	for _, d := range drifts {
		drifting[d.AccountID] = struct{}{}
		a.logger.Warn("account drift",
			zap.String("bank_account_id", d.AccountID),
			zap.String("kind", string(d.Kind)),
			zap.Int64("expected", d.Expected),
			zap.Int64("actual", d.Actual))
	}
	for _, id := range report.Unsettled {
		a.logger.Warn("account kept changing during audit", zap.String("bank_account_id", id))
	}
	if a.metrics != nil {
		a.metrics.SetDrifts(len(drifting))
	}
	a.logger.Info("reconciliation finished",
		zap.Int("accounts", report.Accounts),
		zap.Int("drifts", len(drifts)),
		zap.Int("unsettled", len(report.Unsettled)))

	return report, nil
}

func (a *Auditor) accountIDs(ctx context.Context) ([]string, error) {
	tx, err := a.store.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	accs, err := a.accounts.List(ctx, tx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(accs))
	for i := range accs {
		ids[i] = accs[i].ID
	}
	return ids, nil
}

// check audits one account until it gets a stable answer. A conflict means
// the account moved while it was read. A drift is confirmed by a second
// audit, since index lookups may trail the account record briefly.
func (a *Auditor) check(ctx context.Context, id string) ([]Drift, error) {
	var (
		drifts []Drift
		err    error
	)
	for attempt := 1; attempt <= a.attempts; attempt++ {
		drifts, err = a.audit(ctx, id)
		if err == nil && len(drifts) == 0 {
			return nil, nil
		}
		if err != nil && !errors.Is(err, storage.ErrConflict) {
			return nil, err
		}
		if attempt < a.attempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(a.backoff):
			}
		}
	}
	return drifts, err
}

// audit reads the account, its journal and the goals holding funds on it in
// one transaction and validates that read set before judging it.
func (a *Auditor) audit(ctx context.Context, id string) ([]Drift, error) {
	tx, err := a.store.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	acc, err := a.accounts.Get(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	expenses, err := a.journal.ExpensesBy(ctx, tx, models.FieldBankAccountID, id)
	if err != nil {
		return nil, err
	}
	incomes, err := a.journal.IncomesFor(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	var goals []models.FinancialGoal
	if err := tx.List(ctx, storage.FinancialGoals, &goals); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	var net, escrowed int64
	for _, in := range incomes {
		net += in.Amount
	}
	for _, e := range expenses {
		net -= e.Amount
	}
	for i := range goals {
		if !goals[i].IsAchieved {
			escrowed += goals[i].ContributedFrom(id)
		}
	}

	var drifts []Drift
	if want := acc.Balance - acc.InitialBalance; net != want {
		drifts = append(drifts, Drift{AccountID: id, Kind: JournalDrift, Expected: want, Actual: net})
	}
	if acc.BlockedBalance != escrowed {
		drifts = append(drifts, Drift{AccountID: id, Kind: EscrowDrift, Expected: escrowed, Actual: acc.BlockedBalance})
	}
	return drifts, nil
}
