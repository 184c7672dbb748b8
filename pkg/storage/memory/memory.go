// Package memory provides an in-process RecordStore with optimistic
// concurrency. It backs tests and local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/chris/household-ledger/pkg/storage"
)

type record struct {
	item    storage.Item
	version int64
}

// Store keeps every record in memory, encoded the same way DynamoDB stores it.
type Store struct {
	mu      sync.RWMutex
	records map[storage.Key]record
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[storage.Key]record)}
}

// Make sure we conform to the interface
var _ storage.RecordStore = (*Store)(nil)

// Begin opens a transaction against the current state of the store.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &tx{
		store:  s,
		reads:  storage.ReadSet{},
		writes: storage.NewWriteSet(),
	}, nil
}

// Seed writes a record outside of any transaction. Fixtures only.
func (s *Store) Seed(c storage.Collection, id string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record %s: %w", c, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := storage.Key{Collection: c, ID: id}
	s.records[k] = record{item: av, version: s.records[k].version + 1}
	return nil
}

// Len returns the number of committed records in a collection.
func (s *Store) Len(c storage.Collection) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.records {
		if k.Collection == c {
			n++
		}
	}
	return n
}

func (s *Store) versionLocked(k storage.Key) storage.Version {
	r, ok := s.records[k]
	if !ok {
		return storage.Version{}
	}
	return storage.Version{Exists: true, N: r.version}
}

func (s *Store) commit(ctx context.Context, reads storage.ReadSet, writes *storage.WriteSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	// Validate the whole read set before touching anything.
	for k, seen := range reads {
		if s.versionLocked(k) != seen {
			return storage.ErrConflict
		}
	}
	err := writes.Each(func(k storage.Key, w storage.Write) error {
		if _, read := reads[k]; !read && !w.Delete && s.versionLocked(k).Exists {
			return storage.ErrConflict
		}
		return nil
	})
	if err != nil {
		return err
	}

	return writes.Each(func(k storage.Key, w storage.Write) error {
		if w.Delete {
			delete(s.records, k)
			return nil
		}
		s.records[k] = record{item: w.Item, version: s.records[k].version + 1}
		return nil
	})
}
