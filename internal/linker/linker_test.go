package linker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ananya/fraudlens/backend/internal/domain"
	"github.com/ananya/fraudlens/backend/internal/generator"
)

// fakeStore keeps populations in memory and records merged edges as
// unordered pairs, mirroring how the symmetric cypher merges behave.
type fakeStore struct {
	mu    sync.Mutex
	users []domain.User
	txs   []domain.Transaction

	flow        []string
	sharedPairs map[string]struct{}
	relatedPair map[string]struct{}

	usersErr   error
	mergeErr   error
	usersDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sharedPairs: make(map[string]struct{}),
		relatedPair: make(map[string]struct{}),
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "->" + b
}

func (f *fakeStore) GetAllUsers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	if f.usersDelay > 0 {
		time.Sleep(f.usersDelay)
	}
	return append([]domain.User(nil), f.users...), nil
}

func (f *fakeStore) GetAllTransactions(context.Context) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Transaction(nil), f.txs...), nil
}

func (f *fakeStore) MergeDebit(_ context.Context, userID, transactionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flow = append(f.flow, fmt.Sprintf("DEBIT %s->%s", userID, transactionID))
	return nil
}

func (f *fakeStore) MergeCredit(_ context.Context, transactionID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flow = append(f.flow, fmt.Sprintf("CREDIT %s->%s", transactionID, userID))
	return nil
}

func (f *fakeStore) MergeSharedAttribute(_ context.Context, firstUserID, secondUserID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mergeErr != nil {
		return f.mergeErr
	}
	if firstUserID == secondUserID {
		return fmt.Errorf("self loop %s", firstUserID)
	}
	f.sharedPairs[pairKey(firstUserID, secondUserID)] = struct{}{}
	return nil
}

func (f *fakeStore) MergeRelatedTo(_ context.Context, firstTxID, secondTxID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if firstTxID == secondTxID {
		return fmt.Errorf("self loop %s", firstTxID)
	}
	f.relatedPair[pairKey(firstTxID, secondTxID)] = struct{}{}
	return nil
}

func (f *fakeStore) sharedKeys() map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.sharedPairs))
	for k := range f.sharedPairs {
		out[k] = struct{}{}
	}
	return out
}

func (f *fakeStore) relatedKeys() map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.relatedPair))
	for k := range f.relatedPair {
		out[k] = struct{}{}
	}
	return out
}

func TestLinkTransactionFlow(t *testing.T) {
	store := newFakeStore()
	engine := NewEngine(store)

	err := engine.LinkTransactionFlow(context.Background(), "u1", "u2", "TXN1001")
	require.NoError(t, err)

	require.Len(t, store.flow, 2)
	assert.Equal(t, "DEBIT u1->TXN1001", store.flow[0])
	assert.Equal(t, "CREDIT TXN1001->u2", store.flow[1])
}

func TestRelinkSharedAttributes_Matching(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Email: "family1@mail.com", Phone: "9001111111"},
		{ID: "u2", Email: "family1@mail.com", Phone: "9002222222"},
		{ID: "u3", Email: "rohan@mail.com", Phone: "9001111111"},
		{ID: "u4", Email: "neha@mail.com", Phone: "9004444444", Address: "Koramangala"},
		{ID: "u5", Email: "kiran@mail.com", Phone: "9005555555", Address: "Koramangala"},
		{ID: "u6", PaymentMethods: []string{"card-9", "upi-9"}},
		{ID: "u7", PaymentMethods: []string{"upi-9", "card-9", "card-9"}},
		{ID: "u8"},
	}
	engine := NewEngine(store)

	require.NoError(t, engine.RelinkSharedAttributes(context.Background()))

	want := map[string]struct{}{
		pairKey("u1", "u2"): {}, // shared email
		pairKey("u1", "u3"): {}, // shared phone
		pairKey("u4", "u5"): {}, // shared address
		pairKey("u6", "u7"): {}, // same payment-method set, order and dupes ignored
	}
	assert.Equal(t, want, store.sharedKeys())
}

func TestRelinkSharedAttributes_EmptyValuesNeverMatch(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Name: "blank one"},
		{ID: "u2", Name: "blank two"},
		{ID: "u3", Email: "  ", Phone: " "},
	}
	engine := NewEngine(store)

	require.NoError(t, engine.RelinkSharedAttributes(context.Background()))
	assert.Empty(t, store.sharedKeys())
}

func TestRelinkSharedAttributes_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Email: "shared@mail.com"},
		{ID: "u2", Email: "shared@mail.com"},
		{ID: "u3", Email: "shared@mail.com"},
	}
	engine := NewEngine(store)

	require.NoError(t, engine.RelinkSharedAttributes(context.Background()))
	first := store.sharedKeys()
	require.Len(t, first, 3)

	require.NoError(t, engine.RelinkSharedAttributes(context.Background()))
	assert.Equal(t, first, store.sharedKeys())
}

func TestRelinkSharedAttributes_StoreError(t *testing.T) {
	boom := errors.New("write refused")
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Email: "shared@mail.com"},
		{ID: "u2", Email: "shared@mail.com"},
	}
	store.mergeErr = boom
	engine := NewEngine(store)

	err := engine.RelinkSharedAttributes(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRelinkSharedAttributes_SnapshotError(t *testing.T) {
	boom := errors.New("graph unavailable")
	store := newFakeStore()
	store.usersErr = boom
	engine := NewEngine(store)

	require.ErrorIs(t, engine.RelinkSharedAttributes(context.Background()), boom)
}

func TestRelinkSharedAttributes_ContextCancelled(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Email: "shared@mail.com"},
		{ID: "u2", Email: "shared@mail.com"},
	}
	engine := NewEngine(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := engine.RelinkSharedAttributes(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRelinkSharedAttributes_PassTimeout(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Email: "shared@mail.com"},
		{ID: "u2", Email: "shared@mail.com"},
	}
	store.usersDelay = 5 * time.Millisecond
	engine := NewEngine(store, WithPassTimeout(time.Millisecond))

	err := engine.RelinkSharedAttributes(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRelinkRelatedTransactions_Matching(t *testing.T) {
	store := newFakeStore()
	store.txs = []domain.Transaction{
		{ID: "TXN1001", IP: "192.168.1.1", DeviceID: "DVC5001"},
		{ID: "TXN1004", IP: "192.168.1.1", DeviceID: "DVC5004"},
		{ID: "TXN1011", IP: "192.168.1.6", DeviceID: "DVC5006"},
		{ID: "TXN1006", IP: "10.0.0.9", DeviceID: "DVC5006"},
		{ID: "TXN1009", IP: "192.168.1.9", DeviceID: "DVC5009"},
		{ID: "TXN2000"},
	}
	engine := NewEngine(store)

	require.NoError(t, engine.RelinkRelatedTransactions(context.Background()))

	want := map[string]struct{}{
		pairKey("TXN1001", "TXN1004"): {}, // shared IP
		pairKey("TXN1011", "TXN1006"): {}, // shared device
	}
	assert.Equal(t, want, store.relatedKeys())
}

func TestRelinkSharedAttributesFor_TargetMissing(t *testing.T) {
	store := newFakeStore()
	store.users = []domain.User{
		{ID: "u1", Email: "shared@mail.com"},
		{ID: "u2", Email: "shared@mail.com"},
	}
	engine := NewEngine(store)

	require.NoError(t, engine.RelinkSharedAttributesFor(context.Background(), "ghost"))
	assert.Empty(t, store.sharedKeys())
}

func TestRelinkRelatedTransactionsFor_MergesOnlyAroundTarget(t *testing.T) {
	store := newFakeStore()
	store.txs = []domain.Transaction{
		{ID: "TXN1001", IP: "192.168.1.1"},
		{ID: "TXN1004", IP: "192.168.1.1"},
		{ID: "TXN1002", IP: "192.168.1.2"},
		{ID: "TXN1008", IP: "192.168.1.2"},
	}
	engine := NewEngine(store)

	require.NoError(t, engine.RelinkRelatedTransactionsFor(context.Background(), "TXN1004"))

	want := map[string]struct{}{
		pairKey("TXN1001", "TXN1004"): {},
	}
	assert.Equal(t, want, store.relatedKeys())
}

// The incremental strategy replayed over an insertion sequence must produce
// exactly the edge set of a final brute-force pass, across randomized
// populations dense with attribute collisions.
func TestIncrementalEquivalence_Randomized(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1337} {
		seed := seed
		t.Run(fmt.Sprintf("seed_%d", seed), func(t *testing.T) {
			cfg := generator.Config{
				NumUsers:           60,
				NumTransactions:    120,
				EmailShareChance:   0.4,
				PhoneShareChance:   0.3,
				AddressShareChance: 0.3,
				PaymentShareChance: 0.3,
				IPShareChance:      0.5,
				DeviceShareChance:  0.5,
				Seed:               seed,
			}
			dataset, err := generator.New(cfg).Generate(context.Background())
			require.NoError(t, err)

			users := make([]domain.User, len(dataset.Users))
			for i, u := range dataset.Users {
				users[i] = domain.User{
					ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone,
					Address: u.Address, PaymentMethods: u.PaymentMethods,
				}
			}
			txs := make([]domain.Transaction, len(dataset.Transactions))
			for i, tx := range dataset.Transactions {
				txs[i] = domain.Transaction{
					ID: tx.ID, SenderID: tx.SenderID, ReceiverID: tx.ReceiverID,
					Amount: tx.Amount, IP: tx.IP, DeviceID: tx.DeviceID,
				}
			}

			full := newFakeStore()
			full.users = users
			full.txs = txs
			fullEngine := NewEngine(full)
			require.NoError(t, fullEngine.RelinkSharedAttributes(context.Background()))
			require.NoError(t, fullEngine.RelinkRelatedTransactions(context.Background()))

			incr := newFakeStore()
			incrEngine := NewEngine(incr)
			for _, u := range users {
				incr.mu.Lock()
				incr.users = append(incr.users, u)
				incr.mu.Unlock()
				require.NoError(t, incrEngine.RelinkSharedAttributesFor(context.Background(), u.ID))
			}
			for _, tx := range txs {
				incr.mu.Lock()
				incr.txs = append(incr.txs, tx)
				incr.mu.Unlock()
				require.NoError(t, incrEngine.RelinkRelatedTransactionsFor(context.Background(), tx.ID))
			}

			assert.Equal(t, full.sharedKeys(), incr.sharedKeys(), "SHARED_ATTRIBUTE edge sets diverged")
			assert.Equal(t, full.relatedKeys(), incr.relatedKeys(), "RELATED_TO edge sets diverged")
		})
	}
}

// Generator datasets reference only generated user ids, so linked flows
// always have resolvable parties.
func TestGeneratedDatasetPartiesResolve(t *testing.T) {
	dataset, err := generator.New(generator.DefaultConfig()).Generate(context.Background())
	require.NoError(t, err)

	ids := make(map[string]struct{}, len(dataset.Users))
	for _, u := range dataset.Users {
		ids[u.ID] = struct{}{}
	}
	for _, tx := range dataset.Transactions {
		_, senderOK := ids[tx.SenderID]
		_, receiverOK := ids[tx.ReceiverID]
		require.True(t, senderOK, "sender %s not generated", tx.SenderID)
		require.True(t, receiverOK, "receiver %s not generated", tx.ReceiverID)
	}
}
