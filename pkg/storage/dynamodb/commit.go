package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/household-ledger/pkg/storage"
)

// Commit turns the write set into a single TransactWriteItems call.
// Every written record is conditioned on the version the transaction read
// (or on its absence), and every record that was only read gets a
// ConditionCheck, so the call fails as a whole if anything moved underneath.
// A read-only transaction is validated with ConditionChecks alone.
func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return storage.ErrTxDone
	}
	t.done = true

	items, err := t.transactItems()
	if err != nil {
		return err
	}
	if t.writes.Len() == 0 {
		return t.validate(ctx, items)
	}
	if len(items) > maxTransactItems {
		return fmt.Errorf("transaction touches %d records, limit is %d", len(items), maxTransactItems)
	}
	return t.execute(ctx, items)
}

// validate checks a read-only transaction's read set in batches. Every read
// happened before the first batch runs, so when each record still carries the
// version that was read, the reads all observed the state after the last one.
func (t *tx) validate(ctx context.Context, checks []types.TransactWriteItem) error {
	for start := 0; start < len(checks); start += maxTransactItems {
		end := min(start+maxTransactItems, len(checks))
		if err := t.execute(ctx, checks[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (t *tx) execute(ctx context.Context, items []types.TransactWriteItem) error {
	_, err := t.store.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err != nil {
		if isConflict(err) {
			return storage.ErrConflict
		}
		return fmt.Errorf("failed to execute transaction: %w", err)
	}
	return nil
}

func (t *tx) transactItems() ([]types.TransactWriteItem, error) {
	var items []types.TransactWriteItem

	err := t.writes.Each(func(k storage.Key, w storage.Write) error {
		seen, read := t.reads[k]
		table := aws.String(t.store.TableName(k.Collection))
		key := map[string]types.AttributeValue{keyAttribute: &types.AttributeValueMemberS{Value: k.ID}}

		if w.Delete {
			del := &types.Delete{TableName: table, Key: key}
			if read {
				del.ConditionExpression, del.ExpressionAttributeNames, del.ExpressionAttributeValues = condition(seen)
			}
			items = append(items, types.TransactWriteItem{Delete: del})
			return nil
		}

		item := make(storage.Item, len(w.Item)+2)
		for name, av := range w.Item {
			item[name] = av
		}
		item[keyAttribute] = &types.AttributeValueMemberS{Value: k.ID}
		item[versionAttribute] = &types.AttributeValueMemberN{Value: strconv.FormatInt(seen.N+1, 10)}

		put := &types.Put{TableName: table, Item: item}
		put.ConditionExpression, put.ExpressionAttributeNames, put.ExpressionAttributeValues = condition(seen)
		items = append(items, types.TransactWriteItem{Put: put})
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, k := range t.reads.Keys() {
		if _, written := t.writes.Lookup(k); written {
			continue
		}
		cc := &types.ConditionCheck{
			TableName: aws.String(t.store.TableName(k.Collection)),
			Key:       map[string]types.AttributeValue{keyAttribute: &types.AttributeValueMemberS{Value: k.ID}},
		}
		cc.ConditionExpression, cc.ExpressionAttributeNames, cc.ExpressionAttributeValues = condition(t.reads[k])
		items = append(items, types.TransactWriteItem{ConditionCheck: cc})
	}

	return items, nil
}

// condition asserts that a record is still at the version that was read.
// A zero Version (never read, or read as absent) asserts absence.
func condition(v storage.Version) (*string, map[string]string, map[string]types.AttributeValue) {
	names := map[string]string{"#id": keyAttribute, "#version": versionAttribute}
	switch {
	case !v.Exists:
		return aws.String("attribute_not_exists(#id)"), map[string]string{"#id": keyAttribute}, nil
	case v.N == 0:
		return aws.String("attribute_exists(#id) AND attribute_not_exists(#version)"), names, nil
	default:
		return aws.String("#version = :version"), map[string]string{"#version": versionAttribute},
			map[string]types.AttributeValue{
				":version": &types.AttributeValueMemberN{Value: strconv.FormatInt(v.N, 10)},
			}
	}
}

func isConflict(err error) bool {
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) {
		for _, reason := range tce.CancellationReasons {
			if reason.Code == nil {
				continue
			}
			switch *reason.Code {
			case "ConditionalCheckFailed", "TransactionConflict":
				return true
			}
		}
		return false
	}
	var conflict *types.TransactionConflictException
	return errors.As(err, &conflict)
}
