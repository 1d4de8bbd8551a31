package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/corebank/ledger-engine/pkg/models"
	"github.com/corebank/ledger-engine/pkg/storage"
)

// GetTransaction retrieves a posted transaction from DynamoDB by its id.
func (s *Store) GetTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": transactionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction id: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, storage.ErrTransactionNotFound
	}

	var record transactionRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	tx, err := record.toModel()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
