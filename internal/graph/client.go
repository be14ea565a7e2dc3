package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract the entity store needs from the underlying
// property graph database.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Record groups the key-value pairs of a single returned row.
type Record map[string]any

// Result is a fully consumed query response.
type Result struct {
	Records []Record
}

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
