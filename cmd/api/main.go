package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/corebank/ledger-engine/pkg/allocator"
	"github.com/corebank/ledger-engine/pkg/events"
	"github.com/corebank/ledger-engine/pkg/handlers"
	"github.com/corebank/ledger-engine/pkg/ledger"
	"github.com/corebank/ledger-engine/pkg/middleware"
	dydbstore "github.com/corebank/ledger-engine/pkg/storage/dynamodb"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// AWS Session
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

	// Transfer events are optional: without a queue URL the publisher is a no-op.
	var publisher events.Publisher = &events.NoOpPublisher{}
	if queueURL := os.Getenv("SQS_TRANSFER_EVENTS_QUEUE_URL"); queueURL != "" {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
	}

	balances := ledger.NewCalculator(store)
	engine := ledger.NewEngine(store, store, balances, logger)
	numbers := allocator.New(store)

	handler := handlers.New(engine, numbers, store, balances, publisher, logger)

	router := handlers.NewRouter(handler,
		chimiddleware.RequestID,
		middleware.NewStructuredLogger(logger),
	)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	logger.Info("starting server", "port", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
