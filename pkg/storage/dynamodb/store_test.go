package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/household-ledger/pkg/models"
	"github.com/chris/household-ledger/pkg/storage"
	"github.com/chris/household-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func accountItem(t *testing.T, acc models.BankAccount, version string) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(acc)
	require.NoError(t, err)
	if version != "" {
		item["version"] = &types.AttributeValueMemberN{Value: version}
	}
	return item
}

func TestGet(t *testing.T) {
	acc := models.BankAccount{ID: "acc-1", OwnerID: models.OwnerAli, Balance: 500}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "test-")

		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "test-bankAccounts" && *in.ConsistentRead
		})).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "3")}, nil).Once()

		tx, _ := store.Begin(context.Background())
		var got models.BankAccount
		err := tx.Get(context.Background(), storage.BankAccounts, "acc-1", &got)

		assert.NoError(t, err)
		assert.Equal(t, int64(500), got.Balance)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: nil}, nil).Once()

		tx, _ := store.Begin(context.Background())
		var got models.BankAccount
		err := tx.Get(context.Background(), storage.BankAccounts, "acc-1", &got)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(nil, errors.New("get item failed")).Once()

		tx, _ := store.Begin(context.Background())
		var got models.BankAccount
		err := tx.Get(context.Background(), storage.BankAccounts, "acc-1", &got)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get bankAccounts record acc-1 from DynamoDB")
		mockClient.AssertExpectations(t)
	})
}

func TestCommit(t *testing.T) {
	acc := models.BankAccount{ID: "acc-1", OwnerID: models.OwnerAli, Balance: 500}

	t.Run("Versioned Put And Condition Check", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "bankAccounts"
		})).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "3")}, nil).Once()
		mockClient.On("GetItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.GetItemInput) bool {
			return *in.TableName == "checks"
		})).Return(&dynamodb.GetItemOutput{Item: map[string]types.AttributeValue{
			"id":      &types.AttributeValueMemberS{Value: "chk-1"},
			"version": &types.AttributeValueMemberN{Value: "7"},
		}}, nil).Once()

		var captured *dynamodb.TransactWriteItemsInput
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			captured = args.Get(1).(*dynamodb.TransactWriteItemsInput)
		}).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		var got models.BankAccount
		require.NoError(t, tx.Get(ctx, storage.BankAccounts, "acc-1", &got))
		var chk models.Check
		require.NoError(t, tx.Get(ctx, storage.Checks, "chk-1", &chk))
		got.Balance -= 100
		require.NoError(t, tx.Put(storage.BankAccounts, "acc-1", got))
		require.NoError(t, tx.Put(storage.Expenses, "exp-1", models.Expense{ID: "exp-1", BankAccountID: "acc-1", Amount: 100}))

		require.NoError(t, tx.Commit(ctx))
		require.NotNil(t, captured)
		require.Len(t, captured.TransactItems, 3)

		accPut := captured.TransactItems[0].Put
		require.NotNil(t, accPut)
		assert.Equal(t, "#version = :version", *accPut.ConditionExpression)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "3"}, accPut.ExpressionAttributeValues[":version"])
		assert.Equal(t, &types.AttributeValueMemberN{Value: "4"}, accPut.Item["version"])
		assert.Equal(t, &types.AttributeValueMemberN{Value: "400"}, accPut.Item["balance"])

		expPut := captured.TransactItems[1].Put
		require.NotNil(t, expPut)
		assert.Equal(t, "expenses", *expPut.TableName)
		assert.Equal(t, "attribute_not_exists(#id)", *expPut.ConditionExpression)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, expPut.Item["version"])

		cc := captured.TransactItems[2].ConditionCheck
		require.NotNil(t, cc)
		assert.Equal(t, "checks", *cc.TableName)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "7"}, cc.ExpressionAttributeValues[":version"])
		mockClient.AssertExpectations(t)
	})

	t.Run("Unversioned Record", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "")}, nil).Once()
		var captured *dynamodb.TransactWriteItemsInput
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			captured = args.Get(1).(*dynamodb.TransactWriteItemsInput)
		}).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		var got models.BankAccount
		require.NoError(t, tx.Get(ctx, storage.BankAccounts, "acc-1", &got))
		tx.Delete(storage.BankAccounts, "acc-1")
		require.NoError(t, tx.Commit(ctx))

		del := captured.TransactItems[0].Delete
		require.NotNil(t, del)
		assert.Equal(t, "attribute_exists(#id) AND attribute_not_exists(#version)", *del.ConditionExpression)
		mockClient.AssertExpectations(t)
	})

	t.Run("Conflict", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "3")}, nil).Once()
		reasons := []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: reasons}).Once()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		var got models.BankAccount
		require.NoError(t, tx.Get(ctx, storage.BankAccounts, "acc-1", &got))
		require.NoError(t, tx.Put(storage.BankAccounts, "acc-1", got))

		assert.ErrorIs(t, tx.Commit(ctx), storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed")).Once()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		require.NoError(t, tx.Put(storage.Incomes, "inc-1", models.Income{ID: "inc-1"}))

		err := tx.Commit(ctx)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "failed to execute transaction")
		mockClient.AssertExpectations(t)
	})

	t.Run("Empty Transaction Makes No Call", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		ctx := context.Background()
		tx, _ := store.Begin(ctx)

		assert.NoError(t, tx.Commit(ctx))
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Read Only Transaction Validates Reads", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "1")}, nil).Once()
		var captured *dynamodb.TransactWriteItemsInput
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			captured = args.Get(1).(*dynamodb.TransactWriteItemsInput)
		}).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		var got models.BankAccount
		require.NoError(t, tx.Get(ctx, storage.BankAccounts, "acc-1", &got))

		require.NoError(t, tx.Commit(ctx))
		require.Len(t, captured.TransactItems, 1)
		cc := captured.TransactItems[0].ConditionCheck
		require.NotNil(t, cc)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, cc.ExpressionAttributeValues[":version"])
		mockClient.AssertExpectations(t)
	})

	t.Run("Read Only Transaction Sees Change", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "1")}, nil).Once()
		reasons := []types.CancellationReason{{Code: aws.String("ConditionalCheckFailed")}}
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, &types.TransactionCanceledException{CancellationReasons: reasons}).Once()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		var got models.BankAccount
		require.NoError(t, tx.Get(ctx, storage.BankAccounts, "acc-1", &got))

		assert.ErrorIs(t, tx.Commit(ctx), storage.ErrConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Large Read Set Is Checked In Batches", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := New(mockClient, "")

		mockClient.On("GetItem", mock.Anything, mock.Anything).Return(&dynamodb.GetItemOutput{Item: accountItem(t, acc, "2")}, nil)
		var sizes []int
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			sizes = append(sizes, len(args.Get(1).(*dynamodb.TransactWriteItemsInput).TransactItems))
		}).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Twice()

		ctx := context.Background()
		tx, _ := store.Begin(ctx)
		for i := 0; i < 130; i++ {
			var got models.BankAccount
			require.NoError(t, tx.Get(ctx, storage.BankAccounts, fmt.Sprintf("acc-%d", i), &got))
		}

		require.NoError(t, tx.Commit(ctx))
		assert.Equal(t, []int{100, 30}, sizes)
		mockClient.AssertExpectations(t)
	})
}

func TestQuery(t *testing.T) {
	page1 := []map[string]types.AttributeValue{}
	page2 := []map[string]types.AttributeValue{}
	for _, e := range []models.Expense{{ID: "e1", GoalID: "g1", Amount: 10}, {ID: "e2", GoalID: "g1", Amount: 20}} {
		item, err := attributevalue.MarshalMap(e)
		require.NoError(t, err)
		item["version"] = &types.AttributeValueMemberN{Value: "1"}
		if e.ID == "e1" {
			page1 = append(page1, item)
		} else {
			page2 = append(page2, item)
		}
	}

	mockClient := new(mocks.DynamoDBAPI)
	store := New(mockClient, "")

	lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "e1"}}
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return *in.IndexName == "goal_id-index" && in.ExclusiveStartKey == nil
	})).Return(&dynamodb.QueryOutput{Items: page1, LastEvaluatedKey: lastKey}, nil).Once()
	mockClient.On("Query", mock.Anything, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
		return in.ExclusiveStartKey != nil
	})).Return(&dynamodb.QueryOutput{Items: page2}, nil).Once()

	ctx := context.Background()
	tx, _ := store.Begin(ctx)
	tx.Delete(storage.Expenses, "e2")

	var got []models.Expense
	require.NoError(t, tx.Query(ctx, storage.Expenses, models.FieldGoalID, "g1", &got))

	require.Len(t, got, 1)
	assert.Equal(t, "e1", got[0].ID)
	mockClient.AssertExpectations(t)
}
