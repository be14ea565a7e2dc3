package domain

import "errors"

// EntityKind discriminates the two node labels stored in the graph.
type EntityKind string

const (
	KindUser        EntityKind = "User"
	KindTransaction EntityKind = "Transaction"
)

// Derived relationship types. DEBIT and CREDIT carry money flow between a
// user and a transaction; SHARED_ATTRIBUTE and RELATED_TO are attribute
// matches materialized as one directed edge each way.
const (
	RelDebit           = "DEBIT"
	RelCredit          = "CREDIT"
	RelSharedAttribute = "SHARED_ATTRIBUTE"
	RelRelatedTo       = "RELATED_TO"
)

// NodeRef identifies an entity touched by a relationship.
type NodeRef struct {
	Kind EntityKind
	ID   string
}

// NeighborEdge is a single one-hop relationship triple. Source and Target
// reflect the stored edge direction, not the queried entity.
type NeighborEdge struct {
	Source       NodeRef
	Relationship string
	Target       NodeRef
}

// ErrNotFound is returned when an operation names an entity that does not
// exist in the graph.
var ErrNotFound = errors.New("entity not found")
