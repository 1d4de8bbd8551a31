package dynamodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// GetBalanceSnapshot reads the running-balance row for one account.
// The balance attribute is a DynamoDB number so the post path can apply
// arithmetic update expressions to it, which is why the item is decoded by hand
// instead of through attributevalue.
func (s *Store) GetBalanceSnapshot(ctx context.Context, accountID string) (*models.BalanceSnapshot, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"account_id": accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.BalancesTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get balance from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrBalanceNotFound
	}

	balanceAttr, ok := result.Item["balance"].(*types.AttributeValueMemberN)
	if !ok {
		return nil, fmt.Errorf("balance row for %s is missing a numeric balance attribute", accountID)
	}
	balance, err := decimal.NewFromString(balanceAttr.Value)
	if err != nil {
		return nil, fmt.Errorf("balance row for %s has unparseable value: %w", accountID, err)
	}

	versionAttr, ok := result.Item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return nil, fmt.Errorf("balance row for %s is missing a numeric version attribute", accountID)
	}
	version, err := strconv.ParseInt(versionAttr.Value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("balance row for %s has unparseable version: %w", accountID, err)
	}

	var updatedAt time.Time
	if attr, ok := result.Item["updated_at"].(*types.AttributeValueMemberS); ok {
		updatedAt, _ = time.Parse(accountSortTimeFormat, attr.Value)
	}

	return &models.BalanceSnapshot{
		AccountID: accountID,
		Balance:   balance,
		Version:   version,
		UpdatedAt: updatedAt,
	}, nil
}

// RepairBalance overwrites the cached running balance with a value recomputed from
// the entry history. The version still advances so in-flight posts conditioned on
// the stale version lose and retry.
func (s *Store) RepairBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	_, err := s.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(s.BalancesTableName),
		Key: map[string]types.AttributeValue{
			"account_id": &types.AttributeValueMemberS{Value: accountID},
		},
		UpdateExpression:    aws.String("SET balance = :balance, version = version + :inc, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(account_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":balance": &types.AttributeValueMemberN{Value: balance.String()},
			":inc":     &types.AttributeValueMemberN{Value: "1"},
			":now":     &types.AttributeValueMemberS{Value: time.Now().UTC().Format(accountSortTimeFormat)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to repair balance for account %s: %w", accountID, err)
	}

	return nil
}
