package dynamodb

import (
	"context"
	"testing"

	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/corebank/ledger-engine/pkg/storage"
	"github.com/corebank/ledger-engine/pkg/storage/dynamodb/mocks"
)

func TestGetBalanceSnapshot(t *testing.T) {
	t.Run("Decodes Numeric Attributes", func(t *testing.T) {
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("GetItem", mock.Anything, mock.Anything).
			Return(&awsdynamodb.GetItemOutput{Item: balanceItem("123.45", "7")}, nil)

		snapshot, err := newTestStore(mockDB).GetBalanceSnapshot(context.Background(), "acc-1")

		require.NoError(t, err)
		assert.Equal(t, "acc-1", snapshot.AccountID)
		assert.True(t, snapshot.Balance.Equal(decimal.RequireFromString("123.45")))
		assert.Equal(t, int64(7), snapshot.Version)
		assert.False(t, snapshot.UpdatedAt.IsZero())
	})

	t.Run("Missing Row", func(t *testing.T) {
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("GetItem", mock.Anything, mock.Anything).
			Return(&awsdynamodb.GetItemOutput{Item: nil}, nil)

		_, err := newTestStore(mockDB).GetBalanceSnapshot(context.Background(), "acc-1")

		assert.ErrorIs(t, err, storage.ErrBalanceNotFound)
	})

	t.Run("Non Numeric Balance Attribute", func(t *testing.T) {
		item := balanceItem("123.45", "7")
		item["balance"] = &types.AttributeValueMemberS{Value: "123.45"}

		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("GetItem", mock.Anything, mock.Anything).
			Return(&awsdynamodb.GetItemOutput{Item: item}, nil)

		_, err := newTestStore(mockDB).GetBalanceSnapshot(context.Background(), "acc-1")

		assert.Error(t, err)
	})
}

func TestRepairBalance(t *testing.T) {
	t.Run("Overwrites Balance And Advances Version", func(t *testing.T) {
		var input *awsdynamodb.UpdateItemInput
		mockDB := new(mocks.DynamoDBAPI)
		mockDB.On("UpdateItem", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				input = args.Get(1).(*awsdynamodb.UpdateItemInput)
			}).
			Return(&awsdynamodb.UpdateItemOutput{}, nil)

		err := newTestStore(mockDB).RepairBalance(context.Background(), "acc-1", decimal.RequireFromString("99.50"))

		require.NoError(t, err)
		assert.Equal(t, "balances-table", *input.TableName)
		assert.Equal(t, "SET balance = :balance, version = version + :inc, updated_at = :now", *input.UpdateExpression)
		assert.Equal(t, &types.AttributeValueMemberN{Value: "99.5"}, input.ExpressionAttributeValues[":balance"])
		assert.Equal(t, &types.AttributeValueMemberN{Value: "1"}, input.ExpressionAttributeValues[":inc"])
	})
}
