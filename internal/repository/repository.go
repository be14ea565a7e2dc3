package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ananya/fraudlens/backend/internal/domain"
	"github.com/ananya/fraudlens/backend/internal/graph"
)

// Repository is the entity store: key-addressed User and Transaction nodes
// plus the idempotent edge-merge and one-hop read primitives the linkage
// engine and the query service are built on.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// UpsertUser merges a user node by id and overwrites its attributes. Existing
// nodes are updated in place; a duplicate is never created.
func (r *Repository) UpsertUser(ctx context.Context, user domain.User) error {
	if user.ID == "" {
		return errors.New("user id is required")
	}

	params := map[string]any{
		"id":             user.ID,
		"name":           user.Name,
		"email":          user.Email,
		"phone":          user.Phone,
		"address":        user.Address,
		"paymentMethods": user.PaymentMethods,
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertUserCypher, params); err != nil {
		return fmt.Errorf("upsert user %s: %w", user.ID, err)
	}
	return nil
}

// UpsertTransaction merges a transaction node by id, overwriting amount, ip,
// device and party ids.
func (r *Repository) UpsertTransaction(ctx context.Context, tx domain.Transaction) error {
	if tx.ID == "" {
		return errors.New("transaction id is required")
	}

	params := map[string]any{
		"id":         tx.ID,
		"amount":     tx.Amount,
		"ip":         tx.IP,
		"deviceId":   tx.DeviceID,
		"senderId":   tx.SenderID,
		"receiverId": tx.ReceiverID,
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertTransactionCypher, params); err != nil {
		return fmt.Errorf("upsert transaction %s: %w", tx.ID, err)
	}
	return nil
}

// UpdateTransactionAmount is the narrow amount-only update path. It returns
// domain.ErrNotFound when no transaction carries the id; no relationships are
// touched.
func (r *Repository) UpdateTransactionAmount(ctx context.Context, id string, amount float64) (domain.Transaction, error) {
	if id == "" {
		return domain.Transaction{}, errors.New("transaction id is required")
	}

	res, err := r.client.ExecuteWrite(ctx, updateTransactionAmountCypher, map[string]any{
		"id":     id,
		"amount": amount,
	})
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("update transaction %s amount: %w", id, err)
	}
	if len(res.Records) == 0 {
		return domain.Transaction{}, fmt.Errorf("transaction %s: %w", id, domain.ErrNotFound)
	}

	props, ok := res.Records[0]["tx"].(map[string]any)
	if !ok {
		return domain.Transaction{}, fmt.Errorf("update transaction %s amount: malformed record", id)
	}
	return transactionFromProps(props), nil
}

// GetAllUsers returns the full user population. Order carries no meaning; the
// snapshot feeds the linkage passes.
func (r *Repository) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	res, err := r.client.ExecuteRead(ctx, allUsersCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	users := make([]domain.User, 0, len(res.Records))
	for _, record := range res.Records {
		props, ok := record["user"].(map[string]any)
		if !ok {
			continue
		}
		users = append(users, userFromProps(props))
	}
	return users, nil
}

// GetAllTransactions returns the full transaction population.
func (r *Repository) GetAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	res, err := r.client.ExecuteRead(ctx, allTransactionsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("scan transactions: %w", err)
	}

	txs := make([]domain.Transaction, 0, len(res.Records))
	for _, record := range res.Records {
		props, ok := record["tx"].(map[string]any)
		if !ok {
			continue
		}
		txs = append(txs, transactionFromProps(props))
	}
	return txs, nil
}

// ListTransactionsWithParties resolves each transaction's sender and receiver
// through the DEBIT and CREDIT edges. Parties are nil when the flow edges do
// not exist.
func (r *Repository) ListTransactionsWithParties(ctx context.Context) ([]domain.TransactionWithParties, error) {
	res, err := r.client.ExecuteRead(ctx, transactionsWithPartiesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	rows := make([]domain.TransactionWithParties, 0, len(res.Records))
	for _, record := range res.Records {
		props, ok := record["tx"].(map[string]any)
		if !ok {
			continue
		}
		row := domain.TransactionWithParties{Transaction: transactionFromProps(props)}
		if senderProps, ok := record["sender"].(map[string]any); ok {
			sender := userFromProps(senderProps)
			row.Sender = &sender
		}
		if receiverProps, ok := record["receiver"].(map[string]any); ok {
			receiver := userFromProps(receiverProps)
			row.Receiver = &receiver
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MergeDebit creates the sender->transaction DEBIT edge if absent.
func (r *Repository) MergeDebit(ctx context.Context, userID, transactionID string) error {
	_, err := r.client.ExecuteWrite(ctx, mergeDebitCypher, map[string]any{
		"userId":        userID,
		"transactionId": transactionID,
	})
	if err != nil {
		return fmt.Errorf("merge DEBIT %s->%s: %w", userID, transactionID, err)
	}
	return nil
}

// MergeCredit creates the transaction->receiver CREDIT edge if absent.
func (r *Repository) MergeCredit(ctx context.Context, transactionID, userID string) error {
	_, err := r.client.ExecuteWrite(ctx, mergeCreditCypher, map[string]any{
		"transactionId": transactionID,
		"userId":        userID,
	})
	if err != nil {
		return fmt.Errorf("merge CREDIT %s->%s: %w", transactionID, userID, err)
	}
	return nil
}

// MergeSharedAttribute materializes the symmetric SHARED_ATTRIBUTE pair
// between two users, one directed edge each way, in a single statement.
func (r *Repository) MergeSharedAttribute(ctx context.Context, firstUserID, secondUserID string) error {
	_, err := r.client.ExecuteWrite(ctx, mergeSharedAttributeCypher, map[string]any{
		"firstId":  firstUserID,
		"secondId": secondUserID,
	})
	if err != nil {
		return fmt.Errorf("merge SHARED_ATTRIBUTE %s<->%s: %w", firstUserID, secondUserID, err)
	}
	return nil
}

// MergeRelatedTo materializes the symmetric RELATED_TO pair between two
// transactions.
func (r *Repository) MergeRelatedTo(ctx context.Context, firstTxID, secondTxID string) error {
	_, err := r.client.ExecuteWrite(ctx, mergeRelatedToCypher, map[string]any{
		"firstId":  firstTxID,
		"secondId": secondTxID,
	})
	if err != nil {
		return fmt.Errorf("merge RELATED_TO %s<->%s: %w", firstTxID, secondTxID, err)
	}
	return nil
}

// Neighborhood returns every relationship touching the entity, one hop, with
// the stored edge direction preserved. An entity without relationships yields
// an empty slice.
func (r *Repository) Neighborhood(ctx context.Context, kind domain.EntityKind, id string) ([]domain.NeighborEdge, error) {
	if id == "" {
		return nil, errors.New("entity id is required")
	}

	query, err := neighborhoodQuery(kind)
	if err != nil {
		return nil, err
	}

	res, err := r.client.ExecuteRead(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s neighborhood: %w", kind, id, err)
	}

	edges := make([]domain.NeighborEdge, 0, len(res.Records))
	for _, record := range res.Records {
		edges = append(edges, domain.NeighborEdge{
			Source: domain.NodeRef{
				Kind: domain.EntityKind(toString(record["sourceKind"])),
				ID:   toString(record["sourceId"]),
			},
			Relationship: toString(record["relType"]),
			Target: domain.NodeRef{
				Kind: domain.EntityKind(toString(record["targetKind"])),
				ID:   toString(record["targetId"]),
			},
		})
	}
	return edges, nil
}

// neighborhoodQuery picks the label-specific statement. Node labels cannot be
// parametrized in cypher, so the two variants are fixed constants rather than
// an interpolated template.
func neighborhoodQuery(kind domain.EntityKind) (string, error) {
	switch kind {
	case domain.KindUser:
		return userNeighborhoodCypher, nil
	case domain.KindTransaction:
		return transactionNeighborhoodCypher, nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}
}

func userFromProps(props map[string]any) domain.User {
	return domain.User{
		ID:             toString(props["id"]),
		Name:           toString(props["name"]),
		Email:          toString(props["email"]),
		Phone:          toString(props["phone"]),
		Address:        toString(props["address"]),
		PaymentMethods: toStringSlice(props["paymentMethods"]),
	}
}

func transactionFromProps(props map[string]any) domain.Transaction {
	return domain.Transaction{
		ID:         toString(props["id"]),
		SenderID:   toString(props["senderId"]),
		ReceiverID: toString(props["receiverId"]),
		Amount:     toFloat64(props["amount"]),
		IP:         toString(props["ip"]),
		DeviceID:   toString(props["deviceId"]),
	}
}

func toString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func toFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

func toStringSlice(val any) []string {
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s := toString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

const upsertUserCypher = `
MERGE (u:User {id: $id})
SET u.name = $name,
    u.email = $email,
    u.phone = $phone,
    u.address = $address,
    u.paymentMethods = $paymentMethods
RETURN u.id AS id
`

const upsertTransactionCypher = `
MERGE (t:Transaction {id: $id})
SET t.amount = $amount,
    t.ip = $ip,
    t.deviceId = $deviceId,
    t.senderId = $senderId,
    t.receiverId = $receiverId
RETURN t.id AS id
`

const updateTransactionAmountCypher = `
MATCH (t:Transaction {id: $id})
SET t.amount = $amount
RETURN t { .* } AS tx
`

const allUsersCypher = `
MATCH (u:User)
RETURN u { .* } AS user
`

const allTransactionsCypher = `
MATCH (t:Transaction)
RETURN t { .* } AS tx
`

const transactionsWithPartiesCypher = `
MATCH (t:Transaction)
OPTIONAL MATCH (sender:User)-[:DEBIT]->(t)
OPTIONAL MATCH (t)-[:CREDIT]->(receiver:User)
RETURN DISTINCT t { .* } AS tx,
       sender { .* } AS sender,
       receiver { .* } AS receiver
`

const mergeDebitCypher = `
MATCH (u:User {id: $userId}), (t:Transaction {id: $transactionId})
MERGE (u)-[:DEBIT]->(t)
`

const mergeCreditCypher = `
MATCH (t:Transaction {id: $transactionId}), (u:User {id: $userId})
MERGE (t)-[:CREDIT]->(u)
`

const mergeSharedAttributeCypher = `
MATCH (a:User {id: $firstId}), (b:User {id: $secondId})
MERGE (a)-[:SHARED_ATTRIBUTE]->(b)
MERGE (b)-[:SHARED_ATTRIBUTE]->(a)
`

const mergeRelatedToCypher = `
MATCH (a:Transaction {id: $firstId}), (b:Transaction {id: $secondId})
MERGE (a)-[:RELATED_TO]->(b)
MERGE (b)-[:RELATED_TO]->(a)
`

const userNeighborhoodCypher = `
MATCH (e:User {id: $id})-[r]-(n)
RETURN type(r) AS relType,
       startNode(r).id AS sourceId,
       labels(startNode(r))[0] AS sourceKind,
       endNode(r).id AS targetId,
       labels(endNode(r))[0] AS targetKind
`

const transactionNeighborhoodCypher = `
MATCH (e:Transaction {id: $id})-[r]-(n)
RETURN type(r) AS relType,
       startNode(r).id AS sourceId,
       labels(startNode(r))[0] AS sourceKind,
       endNode(r).id AS targetId,
       labels(endNode(r))[0] AS targetKind
`
