package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/corebank/ledger-engine/pkg/models"
)

const accountEntriesIndex = "account_id-account_sort-index"

// EntriesFor retrieves the entries posted against one account in posting order,
// optionally bounded to entries posted at or before asOf. The query pages through
// the index until exhausted, so the sequence is complete and restartable.
func (s *Store) EntriesFor(ctx context.Context, accountID string, asOf *time.Time) ([]models.LedgerEntry, error) {
	keyCondition := "account_id = :account"
	values := map[string]types.AttributeValue{
		":account": &types.AttributeValueMemberS{Value: accountID},
	}
	if asOf != nil {
		keyCondition += " AND account_sort <= :cutoff"
		values[":cutoff"] = &types.AttributeValueMemberS{Value: accountSortUpperBound(*asOf)}
	}

	var entries []models.LedgerEntry
	var startKey map[string]types.AttributeValue

	for {
		result, err := s.Client.Query(ctx, &dynamodb.QueryInput{
			TableName:                 aws.String(s.EntriesTableName),
			IndexName:                 aws.String(accountEntriesIndex),
			KeyConditionExpression:    aws.String(keyCondition),
			ExpressionAttributeValues: values,
			ScanIndexForward:          aws.Bool(true),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query ledger entries: %w", err)
		}

		var records []entryRecord
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
		}
		for _, record := range records {
			entry, err := record.toModel()
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	return entries, nil
}
