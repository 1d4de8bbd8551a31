package dynamodb

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
	"github.com/corebank/ledger-engine/pkg/storage/dynamodb/mocks"
)

func sampleAccount() *models.Account {
	return &models.Account{
		ID:            "acc-1",
		AccountNumber: "1234567890",
		Currency:      "USD",
		Status:        models.ACTIVE,
		CustomerID:    "cust-1",
		CreatedAt:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestGetAccount(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		item, err := attributevalue.MarshalMap(toAccountRecord(sampleAccount()))
		require.NoError(t, err)

		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("GetItem", mock.Anything, mock.Anything).
			Return(&awsdynamodb.GetItemOutput{Item: item}, nil)

		account, err := newTestStore(mockDB).GetAccount(context.Background(), "acc-1")

		require.NoError(t, err)
		assert.Equal(t, sampleAccount(), account)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("GetItem", mock.Anything, mock.Anything).
			Return(&awsdynamodb.GetItemOutput{Item: nil}, nil)

		_, err := newTestStore(mockDB).GetAccount(context.Background(), "missing")

		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	})
}

func TestAccountNumberExists(t *testing.T) {
	t.Run("Probes The Account Number Index", func(t *testing.T) {
		var input *awsdynamodb.QueryInput
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("Query", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				input = args.Get(1).(*awsdynamodb.QueryInput)
			}).
			Return(&awsdynamodb.QueryOutput{Items: []map[string]types.AttributeValue{{}}}, nil)

		exists, err := newTestStore(mockDB).AccountNumberExists(context.Background(), "1234567890")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, accountNumberIndex, *input.IndexName)
		assert.Equal(t, &types.AttributeValueMemberS{Value: "1234567890"}, input.ExpressionAttributeValues[":number"])
	})

	t.Run("Unassigned Number", func(t *testing.T) {
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("Query", mock.Anything, mock.Anything).
			Return(&awsdynamodb.QueryOutput{Items: nil}, nil)

		exists, err := newTestStore(mockDB).AccountNumberExists(context.Background(), "1234567890")

		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCreateAccount(t *testing.T) {
	t.Run("Writes Account And Opening Balance Together", func(t *testing.T) {
		var input *awsdynamodb.TransactWriteItemsInput
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("TransactWriteItems", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				input = args.Get(1).(*awsdynamodb.TransactWriteItemsInput)
			}).
			Return(&awsdynamodb.TransactWriteItemsOutput{}, nil)

		account, err := newTestStore(mockDB).CreateAccount(context.Background(), sampleAccount())

		require.NoError(t, err)
		assert.Equal(t, sampleAccount(), account)
		require.Len(t, input.TransactItems, 2)

		balancePut := input.TransactItems[1].Put
		require.NotNil(t, balancePut)
		assert.Equal(t, "balances-table", *balancePut.TableName)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "0"}, balancePut.Item["balance"])
		assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, balancePut.Item["version"])
	})

	t.Run("Existing Account", func(t *testing.T) {
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("TransactWriteItems", mock.Anything, mock.Anything).
			Return(nil, &types.TransactionCanceledException{
				CancellationReasons: []types.CancellationReason{
					{Code: stringPtr("ConditionalCheckFailed")},
					{Code: stringPtr("None")},
				},
			})

		_, err := newTestStore(mockDB).CreateAccount(context.Background(), sampleAccount())

		assert.ErrorIs(t, err, storage.ErrAccountExists)
	})
}

func TestListAccounts(t *testing.T) {
	t.Run("Pages Through The Whole Table", func(t *testing.T) {
		first := sampleAccount()
		second := sampleAccount()
		second.ID = "acc-2"
		second.AccountNumber = "2345678901"

		firstItem, err := attributevalue.MarshalMap(toAccountRecord(first))
		require.NoError(t, err)
		secondItem, err := attributevalue.MarshalMap(toAccountRecord(second))
		require.NoError(t, err)

		lastKey := map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: "acc-1"},
		}

		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("Scan", mock.Anything, mock.Anything).
			Return(&awsdynamodb.ScanOutput{
				Items:            []map[string]types.AttributeValue{firstItem},
				LastEvaluatedKey: lastKey,
			}, nil).Once()
		mockDB.On("Scan", mock.Anything, mock.Anything).
			Return(&awsdynamodb.ScanOutput{
				Items: []map[string]types.AttributeValue{secondItem},
			}, nil).Once()

		accounts, err := newTestStore(mockDB).ListAccounts(context.Background())

		require.NoError(t, err)
		require.Len(t, accounts, 2)
		assert.Equal(t, "acc-1", accounts[0].ID)
		assert.Equal(t, "acc-2", accounts[1].ID)
		mockDB.AssertNumberOfCalls(t, "Scan", 2)
	})
}

func stringPtr(s string) *string { return &s }
