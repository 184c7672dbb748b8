// Package processor runs the compound ledger operations. Each operation is
// one optimistic unit: begin, read everything it touches, check the rules,
// buffer the writes, commit. A commit that loses a race is retried against
// fresh state a bounded number of times.
package processor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/chris/household-ledger/pkg/accounts"
	"github.com/chris/household-ledger/pkg/apperrors"
	"github.com/chris/household-ledger/pkg/escrow"
	"github.com/chris/household-ledger/pkg/journal"
	"github.com/chris/household-ledger/pkg/notifier"
	"github.com/chris/household-ledger/pkg/observability"
	"github.com/chris/household-ledger/pkg/storage"
	"go.uber.org/zap"
)

// Config bounds the optimistic retry loop.
type Config struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultConfig is used when a zero Config is passed to New.
var DefaultConfig = Config{MaxAttempts: 3, Backoff: 25 * time.Millisecond}

// Processor holds the application's dependencies for running ledger operations.
type Processor struct {
	store    storage.RecordStore
	accounts *accounts.Store
	escrow   *escrow.Manager
	journal  *journal.Journal
	notifier notifier.Notifier
	logger   *zap.Logger
	metrics  *observability.Metrics
	cfg      Config
	now      func() time.Time
}

// New creates a Processor. A nil notifier drops events; a nil logger or
// metrics falls back to a no-op logger and a private registry.
func New(store storage.RecordStore, n notifier.Notifier, logger *zap.Logger, metrics *observability.Metrics, cfg Config) *Processor {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig.MaxAttempts
	}
	if n == nil {
		n = notifier.NoOp{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}

	accts := accounts.New()
	return &Processor{
		store:    store,
		accounts: accts,
		escrow:   escrow.New(accts),
		journal:  journal.New(accts),
		notifier: n,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// run executes fn as one transactional unit and retries it while the commit
// conflicts or fn reports storage.ErrConflict. fn must not keep state between
// attempts other than by overwriting captured results.
func (p *Processor) run(ctx context.Context, op string, fn func(tx storage.Tx) error) error {
	start := time.Now()
	attempts, err := p.attempt(ctx, op, fn)
	p.metrics.ObserveOperation(op, outcome(err), time.Since(start))

	log := p.logger.With(zap.String("operation", op), zap.Int("attempts", attempts))
	switch {
	case err == nil:
		log.Info("operation committed")
	case errors.Is(err, apperrors.ErrConflict):
		log.Warn("operation gave up after conflicts", zap.Error(err))
	case errors.Is(err, apperrors.ErrNotFound):
		log.Error("operation referenced a missing record", zap.Error(err))
	case apperrors.IsClientError(err):
		log.Info("operation rejected", zap.Error(err))
	default:
		log.Error("operation failed", zap.Error(err))
	}
	return err
}

func (p *Processor) attempt(ctx context.Context, op string, fn func(tx storage.Tx) error) (int, error) {
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt, err
		}

		tx, err := p.store.Begin(ctx)
		if err != nil {
			return attempt, fmt.Errorf("failed to begin transaction: %w", err)
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if !errors.Is(err, storage.ErrConflict) {
				return attempt, err
			}
		} else if err := tx.Commit(ctx); err != nil {
			if !errors.Is(err, storage.ErrConflict) {
				return attempt, fmt.Errorf("failed to commit %s: %w", op, err)
			}
		} else {
			return attempt, nil
		}

		p.metrics.IncrConflict(op)
		p.logger.Debug("commit conflict, retrying",
			zap.String("operation", op), zap.Int("attempt", attempt))

		if attempt < p.cfg.MaxAttempts {
			if err := p.sleep(ctx, attempt); err != nil {
				return attempt, err
			}
		}
	}
	return p.cfg.MaxAttempts, &apperrors.ConflictError{Operation: op, Attempts: p.cfg.MaxAttempts}
}

// sleep waits an exponentially growing, jittered backoff.
func (p *Processor) sleep(ctx context.Context, attempt int) error {
	if p.cfg.Backoff <= 0 {
		return nil
	}
	backoff := p.cfg.Backoff << (attempt - 1)
	wait := backoff + time.Duration(rand.Int63n(int64(backoff/2)+1))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// view runs a read-only function in a transaction that is never committed.
func (p *Processor) view(ctx context.Context, fn func(tx storage.Tx) error) error {
	tx, err := p.store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()
	return fn(tx)
}

// notify delivers an event after commit. Failures are logged and counted only.
func (p *Processor) notify(ctx context.Context, e notifier.Event) {
	if e.Date.IsZero() {
		e.Date = p.now()
	}
	if err := p.notifier.Notify(ctx, e); err != nil {
		p.metrics.IncrNotifyFailure(string(e.Type))
		p.logger.Warn("failed to deliver notification",
			zap.String("event", string(e.Type)),
			zap.String("entity_id", e.EntityID),
			zap.Error(err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, apperrors.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid_input"
	default:
		return "error"
	}
}
