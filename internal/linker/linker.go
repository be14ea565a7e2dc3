// Package linker maintains the derived relationship edges of the graph:
// DEBIT/CREDIT money flow between users and transactions, SHARED_ATTRIBUTE
// between users with a matching attribute, and RELATED_TO between
// transactions sharing an IP or device.
//
// Every merge is idempotent, so a pass can run any number of times over a
// fixed population and converge to the same edge set. A failed pass leaves
// already-merged edges in place; the safe recovery is to re-run the whole
// pass.
package linker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ananya/fraudlens/backend/internal/domain"
)

// Store is the entity-store contract the engine links against: full-label
// snapshots in, idempotent edge merges out.
type Store interface {
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	GetAllTransactions(ctx context.Context) ([]domain.Transaction, error)
	MergeDebit(ctx context.Context, userID, transactionID string) error
	MergeCredit(ctx context.Context, transactionID, userID string) error
	MergeSharedAttribute(ctx context.Context, firstUserID, secondUserID string) error
	MergeRelatedTo(ctx context.Context, firstTxID, secondTxID string) error
}

// Engine computes and materializes derived relationships. Full-population
// passes are serialized per relationship kind so concurrent global rescans
// cannot race each other.
type Engine struct {
	store       Store
	passTimeout time.Duration

	usersMu sync.Mutex
	txsMu   sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithPassTimeout bounds each full-population relinking pass. Zero disables
// the bound.
func WithPassTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.passTimeout = d
	}
}

// NewEngine constructs an Engine over the given store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// LinkTransactionFlow merges the DEBIT edge sender->transaction and the
// CREDIT edge transaction->receiver. Party existence and self-transfers are
// caller policy, not checked here.
func (e *Engine) LinkTransactionFlow(ctx context.Context, senderID, receiverID, transactionID string) error {
	if err := e.store.MergeDebit(ctx, senderID, transactionID); err != nil {
		return fmt.Errorf("link transaction flow: %w", err)
	}
	if err := e.store.MergeCredit(ctx, transactionID, receiverID); err != nil {
		return fmt.Errorf("link transaction flow: %w", err)
	}
	return nil
}

// RelinkSharedAttributes runs the full pairwise pass over the user
// population, merging a symmetric SHARED_ATTRIBUTE pair for every two
// distinct users sharing email, phone, address or payment-method set.
// Deliberately O(n²): correctness over the whole population beats per-write
// locality for this workload.
func (e *Engine) RelinkSharedAttributes(ctx context.Context) error {
	e.usersMu.Lock()
	defer e.usersMu.Unlock()

	ctx, cancel := e.passContext(ctx)
	defer cancel()

	users, err := e.store.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("relink shared attributes: %w", err)
	}

	for i := range users {
		for j := i + 1; j < len(users); j++ {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("relink shared attributes: %w", err)
			}
			if !usersShareAttribute(users[i], users[j]) {
				continue
			}
			if err := e.store.MergeSharedAttribute(ctx, users[i].ID, users[j].ID); err != nil {
				return fmt.Errorf("relink shared attributes: %w", err)
			}
		}
	}
	return nil
}

// RelinkRelatedTransactions runs the full pairwise pass over the transaction
// population, merging a symmetric RELATED_TO pair for every two distinct
// transactions sharing an IP address or device id.
func (e *Engine) RelinkRelatedTransactions(ctx context.Context) error {
	e.txsMu.Lock()
	defer e.txsMu.Unlock()

	ctx, cancel := e.passContext(ctx)
	defer cancel()

	txs, err := e.store.GetAllTransactions(ctx)
	if err != nil {
		return fmt.Errorf("relink related transactions: %w", err)
	}

	for i := range txs {
		for j := i + 1; j < len(txs); j++ {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("relink related transactions: %w", err)
			}
			if !transactionsRelated(txs[i], txs[j]) {
				continue
			}
			if err := e.store.MergeRelatedTo(ctx, txs[i].ID, txs[j].ID); err != nil {
				return fmt.Errorf("relink related transactions: %w", err)
			}
		}
	}
	return nil
}

func (e *Engine) passContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.passTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.passTimeout)
}
