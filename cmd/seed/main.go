// Command seed loads the built-in demo population into the graph. The demo
// set is small but deliberately collision-heavy, so every derived
// relationship kind shows up after a single run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
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

func main() {
	workers := flag.Int("workers", 2, "Number of concurrent workers for ingestion")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "seed")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Graph.URI == "" {
		logger.Error("failed to create graph client", "error", graph.ErrMissingURI)
		os.Exit(1)
	}
	graphClient, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
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

	users := seed.DemoUsers()
	txs := seed.DemoTransactions()

	start := time.Now()
	logger.Info("seeding demo users", "count", len(users))
	if err := ingestor.IngestUsers(ctx, users); err != nil {
		logger.Error("user seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding demo transactions", "count", len(txs))
	if err := ingestor.IngestTransactions(ctx, txs); err != nil {
		logger.Error("transaction seeding failed", "error", err)
		os.Exit(1)
	}

	logger.Info("demo seed complete", "duration", time.Since(start).String(), "users", len(users), "transactions", len(txs))
}
