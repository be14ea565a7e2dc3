package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ananya/fraudlens/backend/internal/domain"
	"github.com/ananya/fraudlens/backend/internal/metrics"
)

// GraphStore is the entity-store contract required by the facade.
type GraphStore interface {
	UpsertUser(ctx context.Context, user domain.User) error
	UpsertTransaction(ctx context.Context, tx domain.Transaction) error
	UpdateTransactionAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	ListTransactionsWithParties(ctx context.Context) ([]domain.TransactionWithParties, error)
	Neighborhood(ctx context.Context, kind domain.EntityKind, id string) ([]domain.NeighborEdge, error)
}

// RelationshipLinker is the linkage-engine contract: the flow merge plus the
// full and incremental relinking strategies.
type RelationshipLinker interface {
	LinkTransactionFlow(ctx context.Context, senderID, receiverID, transactionID string) error
	RelinkSharedAttributes(ctx context.Context) error
	RelinkRelatedTransactions(ctx context.Context) error
	RelinkSharedAttributesFor(ctx context.Context, userID string) error
	RelinkRelatedTransactionsFor(ctx context.Context, transactionID string) error
}

// Strategy selects how derived edges are reconciled after an ingestion.
type Strategy string

const (
	// StrategyFull rescans the entire population on every write.
	StrategyFull Strategy = "full"
	// StrategyIncremental touches only entities that can collide with the
	// newly written one. Must yield the same edge set as StrategyFull.
	StrategyIncremental Strategy = "incremental"
)

// ParseStrategy maps a config string onto a Strategy, defaulting to full.
func ParseStrategy(s string) Strategy {
	if Strategy(s) == StrategyIncremental {
		return StrategyIncremental
	}
	return StrategyFull
}

// LinkageService is the ingestion facade and neighborhood query service: the
// only entry points the HTTP layer calls.
type LinkageService struct {
	store    GraphStore
	linker   RelationshipLinker
	strategy Strategy
}

// NewLinkageService wires the facade over a store and a linkage engine.
func NewLinkageService(store GraphStore, linker RelationshipLinker, strategy Strategy) *LinkageService {
	return &LinkageService{
		store:    store,
		linker:   linker,
		strategy: strategy,
	}
}

// IngestUser validates and upserts a user, then reconciles SHARED_ATTRIBUTE
// edges across the population. A relink failure fails the whole ingestion
// even though the upsert persisted; retrying the ingestion re-runs the pass,
// which is safe because every merge is idempotent.
func (s *LinkageService) IngestUser(ctx context.Context, input UserInput) error {
	user := input.toDomain()
	if user.ID == "" {
		metrics.IngestsTotal.WithLabelValues("user", "rejected").Inc()
		return validationErrorf("user id is required")
	}

	if err := s.store.UpsertUser(ctx, user); err != nil {
		metrics.IngestsTotal.WithLabelValues("user", "error").Inc()
		return err
	}

	if err := s.relinkUsers(ctx, user.ID); err != nil {
		metrics.IngestsTotal.WithLabelValues("user", "error").Inc()
		return fmt.Errorf("user %s upserted, relink failed: %w", user.ID, err)
	}

	metrics.IngestsTotal.WithLabelValues("user", "ok").Inc()
	return nil
}

// IngestTransaction validates and upserts a transaction, merges its
// DEBIT/CREDIT flow edges, then reconciles RELATED_TO edges across the
// population.
func (s *LinkageService) IngestTransaction(ctx context.Context, input TransactionInput) error {
	tx := input.toDomain()
	if tx.ID == "" {
		metrics.IngestsTotal.WithLabelValues("transaction", "rejected").Inc()
		return validationErrorf("transaction id is required")
	}
	if tx.SenderID == "" || tx.ReceiverID == "" {
		metrics.IngestsTotal.WithLabelValues("transaction", "rejected").Inc()
		return validationErrorf("sender and receiver ids are required")
	}

	if err := s.store.UpsertTransaction(ctx, tx); err != nil {
		metrics.IngestsTotal.WithLabelValues("transaction", "error").Inc()
		return err
	}

	if err := s.linker.LinkTransactionFlow(ctx, tx.SenderID, tx.ReceiverID, tx.ID); err != nil {
		metrics.IngestsTotal.WithLabelValues("transaction", "error").Inc()
		return fmt.Errorf("transaction %s upserted, flow link failed: %w", tx.ID, err)
	}

	if err := s.relinkTransactions(ctx, tx.ID); err != nil {
		metrics.IngestsTotal.WithLabelValues("transaction", "error").Inc()
		return fmt.Errorf("transaction %s upserted, relink failed: %w", tx.ID, err)
	}

	metrics.IngestsTotal.WithLabelValues("transaction", "ok").Inc()
	return nil
}

// AmendTransactionAmount changes only the amount of an existing transaction.
// Amount is not a linkage attribute, so no relinking runs. Returns
// domain.ErrNotFound when the transaction does not exist.
func (s *LinkageService) AmendTransactionAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error) {
	if id == "" {
		return domain.Transaction{}, validationErrorf("transaction id is required")
	}
	return s.store.UpdateTransactionAmount(ctx, id, amount)
}

// ListUsers returns the full user population.
func (s *LinkageService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.store.GetAllUsers(ctx)
}

// ListTransactions returns every transaction with its resolved parties.
func (s *LinkageService) ListTransactions(ctx context.Context) ([]domain.TransactionWithParties, error) {
	return s.store.ListTransactionsWithParties(ctx)
}

// GetNeighborhood returns the one-hop relationship triples touching the
// entity. An entity with no relationships yields an empty slice, not an
// error.
func (s *LinkageService) GetNeighborhood(ctx context.Context, kind domain.EntityKind, id string) ([]domain.NeighborEdge, error) {
	if id == "" {
		return nil, validationErrorf("entity id is required")
	}
	if kind != domain.KindUser && kind != domain.KindTransaction {
		return nil, validationErrorf("unknown entity kind %q", kind)
	}
	return s.store.Neighborhood(ctx, kind, id)
}

func (s *LinkageService) relinkUsers(ctx context.Context, userID string) error {
	start := time.Now()
	var err error
	switch s.strategy {
	case StrategyIncremental:
		err = s.linker.RelinkSharedAttributesFor(ctx, userID)
		metrics.LinkPassDuration.WithLabelValues("shared_attribute_incremental").Observe(time.Since(start).Seconds())
	default:
		err = s.linker.RelinkSharedAttributes(ctx)
		metrics.LinkPassDuration.WithLabelValues("shared_attribute_full").Observe(time.Since(start).Seconds())
	}
	return err
}

func (s *LinkageService) relinkTransactions(ctx context.Context, transactionID string) error {
	start := time.Now()
	var err error
	switch s.strategy {
	case StrategyIncremental:
		err = s.linker.RelinkRelatedTransactionsFor(ctx, transactionID)
		metrics.LinkPassDuration.WithLabelValues("related_to_incremental").Observe(time.Since(start).Seconds())
	default:
		err = s.linker.RelinkRelatedTransactions(ctx)
		metrics.LinkPassDuration.WithLabelValues("related_to_full").Observe(time.Since(start).Seconds())
	}
	return err
}
