// Package seed feeds datasets through the ingestion facade: the embedded
// demo fraud ring for quick setups and generated JSON datasets for load
// shaping. Ingestion goes through the facade rather than raw cypher so every
// seeded entity gets the same validation and relinking as a live request.
package seed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ananya/fraudlens/backend/internal/service"
)

// Facade is the slice of the linkage service the ingestor needs.
type Facade interface {
	IngestUser(ctx context.Context, input service.UserInput) error
	IngestTransaction(ctx context.Context, input service.TransactionInput) error
}

// Ingestor pushes datasets through the facade with bounded concurrency.
// Concurrent ingestions are safe: the linkage engine serializes the global
// relinking passes internally.
type Ingestor struct {
	facade  Facade
	workers int
}

// NewIngestor creates an Ingestor with the provided concurrency.
func NewIngestor(facade Facade, workers int) *Ingestor {
	if workers <= 0 {
		workers = 4
	}
	return &Ingestor{facade: facade, workers: workers}
}

// IngestUsers processes the provided user inputs concurrently. The first
// failure cancels the remaining work.
func (i *Ingestor) IngestUsers(ctx context.Context, users []service.UserInput) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for _, user := range users {
		user := user
		g.Go(func() error {
			return i.facade.IngestUser(ctx, user)
		})
	}
	return g.Wait()
}

// IngestTransactions processes transaction inputs concurrently.
func (i *Ingestor) IngestTransactions(ctx context.Context, txs []service.TransactionInput) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for _, tx := range txs {
		tx := tx
		g.Go(func() error {
			return i.facade.IngestTransaction(ctx, tx)
		})
	}
	return g.Wait()
}
