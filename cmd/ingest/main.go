package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ananya/fraudlens/backend/internal/config"
	"github.com/ananya/fraudlens/backend/internal/graph"
	"github.com/ananya/fraudlens/backend/internal/linker"
	"github.com/ananya/fraudlens/backend/internal/logging"
	"github.com/ananya/fraudlens/backend/internal/repository"
	"github.com/ananya/fraudlens/backend/internal/seed"
	"github.com/ananya/fraudlens/backend/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir   = flag.String("dataset-dir", "./seed-data", "Directory containing users.json and transactions.json")
		usersPath    = flag.String("users", "", "Path to users.json (overrides dataset-dir)")
		transactions = flag.String("transactions", "", "Path to transactions.json (overrides dataset-dir)")
		workers      = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	userFile, txFile, err := resolveDatasetPaths(*datasetDir, *usersPath, *transactions)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	users, err := loadUserInputs(userFile)
	if err != nil {
		logger.Error("failed to load users", "error", err, "path", userFile)
		os.Exit(1)
	}
	if len(users) == 0 {
		logger.Error("users dataset empty", "path", userFile)
		os.Exit(1)
	}

	txs, err := loadTransactionInputs(txFile)
	if err != nil {
		logger.Error("failed to load transactions", "error", err, "path", txFile)
		os.Exit(1)
	}
	if len(txs) == 0 {
		logger.Error("transactions dataset empty", "path", txFile)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	engine := linker.NewEngine(repo, linker.WithPassTimeout(cfg.Linkage.PassTimeout))
	svc := service.NewLinkageService(repo, engine, service.ParseStrategy(cfg.Linkage.Strategy))
	ingestor := seed.NewIngestor(svc, *workers)

	start := time.Now()
	logger.Info("ingesting users", "count", len(users), "workers", *workers)
	if err := ingestor.IngestUsers(ctx, users); err != nil {
		logger.Error("user ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingesting transactions", "count", len(txs))
	if err := ingestor.IngestTransactions(ctx, txs); err != nil {
		logger.Error("transaction ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion complete", "duration", time.Since(start).String(), "users", len(users), "transactions", len(txs))
}

func resolveDatasetPaths(baseDir, usersPath, transactionsPath string) (string, string, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	usersFile, err := resolve(usersPath, "users.json")
	if err != nil {
		return "", "", err
	}
	txFile, err := resolve(transactionsPath, "transactions.json")
	if err != nil {
		return "", "", err
	}
	return usersFile, txFile, nil
}

func loadUserInputs(path string) ([]service.UserInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var users []service.UserInput
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return users, nil
}

func loadTransactionInputs(path string) ([]service.TransactionInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var txs []service.TransactionInput
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return txs, nil
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}

	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	return graph.NewNeo4jClient(ctx, opts)
}
