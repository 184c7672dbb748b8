package dynamodb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/household-ledger/pkg/storage"
)

type tx struct {
	store  *Store
	reads  storage.ReadSet
	writes *storage.WriteSet
	done   bool
}

// Get retrieves a record with a strongly consistent read.
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

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(t.store.TableName(c)),
		Key:            map[string]types.AttributeValue{keyAttribute: &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	}

	result, err := t.store.Client.GetItem(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to get %s record %s from DynamoDB: %w", c, id, err)
	}

	if result.Item == nil {
		t.reads.Observe(k, storage.Version{})
		return storage.ErrNotFound
	}

	v, err := versionOf(result.Item)
	if err != nil {
		return fmt.Errorf("%s record %s: %w", c, id, err)
	}
	t.reads.Observe(k, v)
	return storage.DecodeOne(result.Item, out)
}

// Query reads every record whose attribute field equals value through the
// field's secondary index.
func (t *tx) Query(ctx context.Context, c storage.Collection, field, value string, out any) error {
	if t.done {
		return storage.ErrTxDone
	}
	input := &dynamodb.QueryInput{
		TableName:              aws.String(t.store.TableName(c)),
		IndexName:              aws.String(indexName(field)),
		KeyConditionExpression: aws.String("#field = :value"),
		ExpressionAttributeNames: map[string]string{
			"#field": field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":value": &types.AttributeValueMemberS{Value: value},
		},
	}

	items := make(map[string]storage.Item)
	for {
		result, err := t.store.Client.Query(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to query %s by %s: %w", c, field, err)
		}
		if err := t.collect(c, result.Items, items); err != nil {
			return err
		}
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	t.writes.Overlay(c, items, field, value)
	return storage.DecodeAll(items, out)
}

// List scans the whole table.
func (t *tx) List(ctx context.Context, c storage.Collection, out any) error {
	if t.done {
		return storage.ErrTxDone
	}
	input := &dynamodb.ScanInput{
		TableName:      aws.String(t.store.TableName(c)),
		ConsistentRead: aws.Bool(true),
	}

	items := make(map[string]storage.Item)
	for {
		result, err := t.store.Client.Scan(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to scan %s table: %w", c, err)
		}
		if err := t.collect(c, result.Items, items); err != nil {
			return err
		}
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	t.writes.Overlay(c, items, "", "")
	return storage.DecodeAll(items, out)
}

func (t *tx) collect(c storage.Collection, page []map[string]types.AttributeValue, into map[string]storage.Item) error {
	for _, item := range page {
		id, ok := item[keyAttribute].(*types.AttributeValueMemberS)
		if !ok {
			return fmt.Errorf("%s record without a string %q attribute", c, keyAttribute)
		}
		v, err := versionOf(item)
		if err != nil {
			return fmt.Errorf("%s record %s: %w", c, id.Value, err)
		}
		t.reads.Observe(storage.Key{Collection: c, ID: id.Value}, v)
		into[id.Value] = item
	}
	return nil
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

func (t *tx) Rollback() {
	t.done = true
}

// versionOf reads the optimistic-lock counter. Records written before
// versioning was introduced have none and report N == 0.
func versionOf(item storage.Item) (storage.Version, error) {
	av, ok := item[versionAttribute]
	if !ok {
		return storage.Version{Exists: true}, nil
	}
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return storage.Version{}, fmt.Errorf("%q attribute is not a number", versionAttribute)
	}
	v, err := strconv.ParseInt(n.Value, 10, 64)
	if err != nil {
		return storage.Version{}, fmt.Errorf("failed to parse %q attribute: %w", versionAttribute, err)
	}
	return storage.Version{Exists: true, N: v}, nil
}
