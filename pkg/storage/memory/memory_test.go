package memory

import (
	"context"
	"testing"

	"github.com/chris/household-ledger/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	ID    string `dynamodbav:"id"`
	Owner string `dynamodbav:"owner,omitempty"`
	Value int64  `dynamodbav:"value"`
}

func TestTransaction(t *testing.T) {
	ctx := context.Background()
	const c = storage.Collection("docs")

	t.Run("Not Found", func(t *testing.T) {
		s := New()
		tx, err := s.Begin(ctx)
		require.NoError(t, err)

		var d doc
		assert.ErrorIs(t, tx.Get(ctx, c, "missing", &d), storage.ErrNotFound)
	})

	t.Run("Commit Makes Writes Visible", func(t *testing.T) {
		s := New()
		tx, _ := s.Begin(ctx)
		require.NoError(t, tx.Put(c, "a", doc{ID: "a", Value: 1}))
		require.NoError(t, tx.Commit(ctx))

		tx2, _ := s.Begin(ctx)
		var d doc
		require.NoError(t, tx2.Get(ctx, c, "a", &d))
		assert.Equal(t, int64(1), d.Value)
	})

	t.Run("Reads See Own Writes", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Seed(c, "a", doc{ID: "a", Value: 1}))

		tx, _ := s.Begin(ctx)
		var d doc
		require.NoError(t, tx.Get(ctx, c, "a", &d))
		d.Value = 7
		require.NoError(t, tx.Put(c, "a", d))

		var again doc
		require.NoError(t, tx.Get(ctx, c, "a", &again))
		assert.Equal(t, int64(7), again.Value)

		tx.Delete(c, "a")
		assert.ErrorIs(t, tx.Get(ctx, c, "a", &again), storage.ErrNotFound)
	})

	t.Run("Rollback Discards Writes", func(t *testing.T) {
		s := New()
		tx, _ := s.Begin(ctx)
		require.NoError(t, tx.Put(c, "a", doc{ID: "a"}))
		tx.Rollback()

		assert.Equal(t, 0, s.Len(c))
		assert.ErrorIs(t, tx.Commit(ctx), storage.ErrTxDone)
	})

	t.Run("Stale Read Conflicts", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Seed(c, "a", doc{ID: "a", Value: 10}))

		first, _ := s.Begin(ctx)
		second, _ := s.Begin(ctx)
		var d1, d2 doc
		require.NoError(t, first.Get(ctx, c, "a", &d1))
		require.NoError(t, second.Get(ctx, c, "a", &d2))

		d1.Value -= 6
		require.NoError(t, first.Put(c, "a", d1))
		d2.Value -= 6
		require.NoError(t, second.Put(c, "a", d2))

		require.NoError(t, first.Commit(ctx))
		assert.ErrorIs(t, second.Commit(ctx), storage.ErrConflict)

		check, _ := s.Begin(ctx)
		var d doc
		require.NoError(t, check.Get(ctx, c, "a", &d))
		assert.Equal(t, int64(4), d.Value)
	})

	t.Run("Read Of Absent Record Conflicts With Insert", func(t *testing.T) {
		s := New()
		tx, _ := s.Begin(ctx)
		var d doc
		require.ErrorIs(t, tx.Get(ctx, c, "a", &d), storage.ErrNotFound)
		require.NoError(t, tx.Put(c, "b", doc{ID: "b"}))

		require.NoError(t, s.Seed(c, "a", doc{ID: "a"}))
		assert.ErrorIs(t, tx.Commit(ctx), storage.ErrConflict)
		assert.Equal(t, 1, s.Len(c))
	})

	t.Run("Blind Insert Over Existing Record Conflicts", func(t *testing.T) {
		s := New()
		require.NoError(t, s.Seed(c, "a", doc{ID: "a"}))
		tx, _ := s.Begin(ctx)
		require.NoError(t, tx.Put(c, "a", doc{ID: "a", Value: 3}))
		assert.ErrorIs(t, tx.Commit(ctx), storage.ErrConflict)
	})

	t.Run("Cancelled Context Applies Nothing", func(t *testing.T) {
		s := New()
		tx, _ := s.Begin(ctx)
		require.NoError(t, tx.Put(c, "a", doc{ID: "a"}))

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, tx.Commit(cctx), context.Canceled)
		assert.Equal(t, 0, s.Len(c))
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	const c = storage.Collection("docs")
	s := New()
	require.NoError(t, s.Seed(c, "a", doc{ID: "a", Owner: "x", Value: 1}))
	require.NoError(t, s.Seed(c, "b", doc{ID: "b", Owner: "y", Value: 2}))
	require.NoError(t, s.Seed(c, "c", doc{ID: "c", Owner: "x", Value: 3}))

	tx, _ := s.Begin(ctx)
	tx.Delete(c, "c")
	require.NoError(t, tx.Put(c, "d", doc{ID: "d", Owner: "x", Value: 4}))
	require.NoError(t, tx.Put(c, "b", doc{ID: "b", Owner: "x", Value: 2}))

	var got []doc
	require.NoError(t, tx.Query(ctx, c, "owner", "x", &got))
	ids := make([]string, 0, len(got))
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"a", "b", "d"}, ids)

	var all []doc
	require.NoError(t, tx.List(ctx, c, &all))
	assert.Len(t, all, 3)
}
