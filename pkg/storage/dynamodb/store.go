package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/household-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the RecordStore interface using AWS DynamoDB.
// Each collection lives in its own table keyed by "id"; lookups by reference
// use a global secondary index named "<attribute>-index".
type Store struct {
	Client      DynamoDBAPI
	TablePrefix string
}

// New creates a new Store.
func New(client DynamoDBAPI, tablePrefix string) *Store {
	return &Store{
		Client:      client,
		TablePrefix: tablePrefix,
	}
}

// Make sure we conform to the interface
var _ storage.RecordStore = (*Store)(nil)

// TableName returns the table backing a collection.
func (s *Store) TableName(c storage.Collection) string {
	return s.TablePrefix + string(c)
}

// Begin opens a transaction. No request is made until the first read.
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

const (
	keyAttribute     = "id"
	versionAttribute = "version"

	// DynamoDB rejects transactions with more items than this.
	maxTransactItems = 100
)

func indexName(field string) string {
	return field + "-index"
}
