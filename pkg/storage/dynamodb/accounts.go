package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

const accountNumberIndex = "account_number-index"

// GetAccount retrieves an account from DynamoDB by its id.
func (s *Store) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account id: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrAccountNotFound
	}

	var record accountRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}

	account := record.toModel()
	return &account, nil
}

// AccountNumberExists probes the account-number GSI for an existing assignment.
func (s *Store) AccountNumberExists(ctx context.Context, accountNumber string) (bool, error) {
	result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.AccountsTableName),
		IndexName:              aws.String(accountNumberIndex),
		KeyConditionExpression: aws.String("account_number = :number"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":number": &types.AttributeValueMemberS{Value: accountNumber},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return false, fmt.Errorf("failed to query account number index: %w", err)
	}

	return len(result.Items) > 0, nil
}

// CreateAccount atomically writes the account row and its zero opening-balance row.
// An account never exists without a balance row, so the post path can rely on one
// being present.
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	accountAV, err := attributevalue.MarshalMap(toAccountRecord(account))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.AccountsTableName),
					Item:                accountAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(s.BalancesTableName),
					Item: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: account.ID},
						"balance":    &types.AttributeValueMemberN{Value: "0"},
						"version":    &types.AttributeValueMemberN{Value: "1"},
						"updated_at": &types.AttributeValueMemberS{Value: account.CreatedAt.UTC().Format(accountSortTimeFormat)},
					},
					ConditionExpression: aws.String("attribute_not_exists(account_id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			for _, reason := range tce.CancellationReasons {
				if reason.Code != nil && *reason.Code == conditionalCheckFailed {
					return nil, storage.ErrAccountExists
				}
			}
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// ListAccounts retrieves every account, paging through the full table.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(s.AccountsTableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan accounts table: %w", err)
		}

		var records []accountRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal accounts: %w", err)
		}
		for _, record := range records {
			accounts = append(accounts, record.toModel())
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return accounts, nil
}
