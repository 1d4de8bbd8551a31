package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"

	"github.com/corebank/ledger-engine/pkg/ledger"
	dydbstore "github.com/corebank/ledger-engine/pkg/storage/dynamodb"
)

var reconciler *ledger.Reconciler
var logger *slog.Logger

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	accountsTable := os.Getenv("DYNAMODB_ACCOUNTS_TABLE_NAME")
	transactionsTable := os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME")
	entriesTable := os.Getenv("DYNAMODB_LEDGER_ENTRIES_TABLE_NAME")
	balancesTable := os.Getenv("DYNAMODB_BALANCES_TABLE_NAME")

	if accountsTable == "" || transactionsTable == "" || entriesTable == "" || balancesTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	store := dydbstore.New(dbClient, accountsTable, transactionsTable, entriesTable, balancesTable)
	reconciler = ledger.NewReconciler(store, store, ledger.NewCalculator(store), logger)
}

// HandleRequest is triggered by an EventBridge Schedule. It recomputes every
// account balance from the entry history and repairs any drifted cache row.
func HandleRequest(ctx context.Context) error {
	logger.Info("starting balance reconciliation")

	report, err := reconciler.Run(ctx)
	if err != nil {
		logger.Error("reconciliation pass failed", "error", err)
		return err
	}

	logger.Info("balance reconciliation finished",
		"checked", report.Checked,
		"repaired", report.Repaired,
		"failed", report.Failed,
	)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
