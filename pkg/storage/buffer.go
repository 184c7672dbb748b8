package storage

import (
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is the encoded form of a record, shared by every backend.
type Item = map[string]types.AttributeValue

// Key addresses a single record.
type Key struct {
	Collection Collection
	ID         string
}

// Version is what a transaction saw when it read a record.
type Version struct {
	Exists bool
	N      int64
}

// ReadSet tracks the first version seen for every record a transaction read.
type ReadSet map[Key]Version

// Observe records v for k unless k was already read.
func (r ReadSet) Observe(k Key, v Version) {
	if _, ok := r[k]; !ok {
		r[k] = v
	}
}

// Keys returns the keys in a stable order.
func (r ReadSet) Keys() []Key {
	keys := make([]Key, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

// Write is a pending put or delete.
type Write struct {
	Item   Item
	Delete bool
}

// WriteSet buffers a transaction's writes; the last write to a key wins.
type WriteSet struct {
	order  []Key
	writes map[Key]Write
}

// NewWriteSet creates an empty WriteSet.
func NewWriteSet() *WriteSet {
	return &WriteSet{writes: make(map[Key]Write)}
}

// Put encodes item and buffers it under (c, id).
func (w *WriteSet) Put(c Collection, id string, item any) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal %s record %s: %w", c, id, err)
	}
	w.set(Key{Collection: c, ID: id}, Write{Item: av})
	return nil
}

// Delete buffers the removal of (c, id).
func (w *WriteSet) Delete(c Collection, id string) {
	w.set(Key{Collection: c, ID: id}, Write{Delete: true})
}

func (w *WriteSet) set(k Key, wr Write) {
	if _, ok := w.writes[k]; !ok {
		w.order = append(w.order, k)
	}
	w.writes[k] = wr
}

// Lookup returns the pending write for k, if any.
func (w *WriteSet) Lookup(k Key) (Write, bool) {
	wr, ok := w.writes[k]
	return wr, ok
}

// Len returns the number of distinct keys written.
func (w *WriteSet) Len() int { return len(w.order) }

// Each visits pending writes in the order they were first made.
func (w *WriteSet) Each(fn func(Key, Write) error) error {
	for _, k := range w.order {
		if err := fn(k, w.writes[k]); err != nil {
			return err
		}
	}
	return nil
}

// Overlay applies the pending writes of collection c to a set of committed
// items keyed by id. A non-empty field restricts pending puts to those whose
// attribute matches value.
func (w *WriteSet) Overlay(c Collection, items map[string]Item, field, value string) {
	for _, k := range w.order {
		if k.Collection != c {
			continue
		}
		wr := w.writes[k]
		switch {
		case wr.Delete:
			delete(items, k.ID)
		case field == "" || MatchesField(wr.Item, field, value):
			items[k.ID] = wr.Item
		default:
			delete(items, k.ID)
		}
	}
}

// MatchesField reports whether item's string attribute field equals value.
func MatchesField(item Item, field, value string) bool {
	s, ok := item[field].(*types.AttributeValueMemberS)
	return ok && s.Value == value
}

// DecodeOne unmarshals a single item.
func DecodeOne(item Item, out any) error {
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}

// DecodeAll unmarshals items into out in id order.
func DecodeAll(items map[string]Item, out any) error {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	list := make([]Item, 0, len(ids))
	for _, id := range ids {
		list = append(list, items[id])
	}
	if err := attributevalue.UnmarshalListOfMaps(list, out); err != nil {
		return fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return nil
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Collection != keys[j].Collection {
			return keys[i].Collection < keys[j].Collection
		}
		return keys[i].ID < keys[j].ID
	})
}
