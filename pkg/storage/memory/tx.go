package memory

import (
	"context"

	"github.com/chris/household-ledger/pkg/storage"
)

type tx struct {
	store  *Store
	reads  storage.ReadSet
	writes *storage.WriteSet
	done   bool
}

func (t *tx) Get(ctx context.Context, c storage.Collection, id string, out any) error {
	if t.done {
		return storage.ErrTxDone
	}
	k := storage.Key{Collection: c, ID: id}
	if w, ok := t.writes.Lookup(k); ok {
		if w.Delete {
			return storage.ErrNotFound
		}
		return storage.DecodeOne(w.Item, out)
	}

	t.store.mu.RLock()
	r, ok := t.store.records[k]
	t.reads.Observe(k, t.store.versionLocked(k))
	t.store.mu.RUnlock()

	if !ok {
		return storage.ErrNotFound
	}
	return storage.DecodeOne(r.item, out)
}

func (t *tx) Query(ctx context.Context, c storage.Collection, field, value string, out any) error {
	return t.scan(c, field, value, out)
}

func (t *tx) List(ctx context.Context, c storage.Collection, out any) error {
	return t.scan(c, "", "", out)
}

func (t *tx) scan(c storage.Collection, field, value string, out any) error {
	if t.done {
		return storage.ErrTxDone
	}
	items := make(map[string]storage.Item)

	t.store.mu.RLock()
	for k, r := range t.store.records {
		if k.Collection != c {
			continue
		}
		if field != "" && !storage.MatchesField(r.item, field, value) {
			continue
		}
		items[k.ID] = r.item
		t.reads.Observe(k, storage.Version{Exists: true, N: r.version})
	}
	t.store.mu.RUnlock()

	t.writes.Overlay(c, items, field, value)
	return storage.DecodeAll(items, out)
}

func (t *tx) Put(c storage.Collection, id string, item any) error {
	if t.done {
		return storage.ErrTxDone
	}
	return t.writes.Put(c, id, item)
}

func (t *tx) Delete(c storage.Collection, id string) {
	if t.done {
		return
	}
	t.writes.Delete(c, id)
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true
	return t.store.commit(ctx, t.reads, t.writes)
}

func (t *tx) Rollback() {
	t.done = true
}
