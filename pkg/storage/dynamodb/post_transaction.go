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

const conditionalCheckFailed = "ConditionalCheckFailed"

// Item positions inside the PostTransaction TransactWriteItems request.
// CancellationReasons come back in the same order, which is how a failure is
// attributed to the debit check versus the duplicate-transaction backstop.
const (
	itemDebitBalance = iota
	itemCreditBalance
	itemTransaction
	itemDebitEntry
	itemCreditEntry
)

// PostTransaction writes the transaction, both ledger entries and the
// running-balance adjustments as one all-or-nothing DynamoDB transaction.
//
// The debit-side update is conditioned on the balance covering the amount and on
// the version observed just before the write; that condition is what serializes
// concurrent transfers debiting the same account. The credit side only requires
// the balance row to exist, so concurrent credits to one account do not contend.
func (s *Store) PostTransaction(ctx context.Context, tx *models.Transaction, debit, credit *models.LedgerEntry) (*models.Transaction, error) {
	debitSnapshot, err := s.GetBalanceSnapshot(ctx, tx.DebitAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read debit balance before posting: %w", err)
	}

	txAV, err := attributevalue.MarshalMap(toTransactionRecord(tx))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}
	debitAV, err := attributevalue.MarshalMap(toEntryRecord(debit))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal debit entry: %w", err)
	}
	creditAV, err := attributevalue.MarshalMap(toEntryRecord(credit))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credit entry: %w", err)
	}

	amount := tx.Amount.String()
	now := tx.CreatedAt.UTC().Format(accountSortTimeFormat)

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// itemDebitBalance: debit the sender's running balance.
				Update: &types.Update{
					TableName: aws.String(s.BalancesTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: tx.DebitAccountID},
					},
					UpdateExpression:    aws.String("SET balance = balance - :amount, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("balance >= :amount AND version = :version"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount":  &types.AttributeValueMemberN{Value: amount},
						":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", debitSnapshot.Version)},
						":inc":     &types.AttributeValueMemberN{Value: "1"},
						":now":     &types.AttributeValueMemberS{Value: now},
					},
				},
			},
			{
				// itemCreditBalance: credit the receiver's running balance.
				Update: &types.Update{
					TableName: aws.String(s.BalancesTableName),
					Key: map[string]types.AttributeValue{
						"account_id": &types.AttributeValueMemberS{Value: tx.CreditAccountID},
					},
					UpdateExpression:    aws.String("SET balance = balance + :amount, version = version + :inc, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(account_id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":amount": &types.AttributeValueMemberN{Value: amount},
						":inc":    &types.AttributeValueMemberN{Value: "1"},
						":now":    &types.AttributeValueMemberS{Value: now},
					},
				},
			},
			{
				// itemTransaction: create the transaction record, once.
				Put: &types.Put{
					TableName:           aws.String(s.TransactionsTableName),
					Item:                txAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// itemDebitEntry: create the debit ledger entry.
				Put: &types.Put{
					TableName:           aws.String(s.EntriesTableName),
					Item:                debitAV,
					ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
				},
			},
			{
				// itemCreditEntry: create the credit ledger entry.
				Put: &types.Put{
					TableName:           aws.String(s.EntriesTableName),
					Item:                creditAV,
					ConditionExpression: aws.String("attribute_not_exists(transaction_id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		return nil, s.classifyPostFailure(ctx, err, tx)
	}

	return tx, nil
}

// classifyPostFailure maps a TransactWriteItems failure onto the storage error
// taxonomy using the per-item cancellation reasons.
func (s *Store) classifyPostFailure(ctx context.Context, err error, tx *models.Transaction) error {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return fmt.Errorf("failed to execute posting transaction: %w", err)
	}

	failed := func(i int) bool {
		return i < len(tce.CancellationReasons) &&
			tce.CancellationReasons[i].Code != nil &&
			*tce.CancellationReasons[i].Code == conditionalCheckFailed
	}

	switch {
	case failed(itemTransaction), failed(itemDebitEntry), failed(itemCreditEntry):
		// Already posted under this id. Not a failure: the caller returns the
		// original outcome.
		return storage.ErrTransactionConflict

	case failed(itemDebitBalance):
		// Either the funds genuinely don't cover the amount, or a concurrent
		// transfer bumped the version between our read and write. Re-read to
		// tell the two apart.
		snapshot, readErr := s.GetBalanceSnapshot(ctx, tx.DebitAccountID)
		if readErr != nil {
			return fmt.Errorf("posting cancelled and balance re-read failed: %w", readErr)
		}
		if snapshot.Balance.LessThan(tx.Amount) {
			return storage.ErrInsufficientFunds
		}
		return storage.ErrBalanceContention

	case failed(itemCreditBalance):
		return fmt.Errorf("credit account %s: %w", tx.CreditAccountID, storage.ErrBalanceNotFound)
	}

	return fmt.Errorf("posting transaction cancelled: %w", err)
}
