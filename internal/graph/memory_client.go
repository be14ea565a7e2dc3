package graph

import (
	"context"
	"sync"
)

// ExecutedQuery captures a cypher statement and its parameters as executed
// against the client.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// MemoryClient is an in-memory Client used to unit test store logic without a
// running graph database. It records every executed statement and replays
// queued results in FIFO order.
type MemoryClient struct {
	mu           sync.Mutex
	writes       []ExecutedQuery
	reads        []ExecutedQuery
	readResults  []Result
	writeResults []Result
	err          error
	connectivity error
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent execute call fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return err.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// QueueReadResult appends a result returned by the next ExecuteRead call.
func (m *MemoryClient) QueueReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, res)
}

// QueueWriteResult appends a result returned by the next ExecuteWrite call.
func (m *MemoryClient) QueueWriteResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, res)
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	m.writes = append(m.writes, ExecutedQuery{Query: cypher, Params: cloneParams(params)})

	if len(m.writeResults) == 0 {
		return Result{}, nil
	}
	res := m.writeResults[0]
	m.writeResults = m.writeResults[1:]
	return res, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	m.reads = append(m.reads, ExecutedQuery{Query: cypher, Params: cloneParams(params)})

	if len(m.readResults) == 0 {
		return Result{}, nil
	}
	res := m.readResults[0]
	m.readResults = m.readResults[1:]
	return res, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// WriteCalls returns a snapshot of executed write statements.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writes...)
}

// ReadCalls returns a snapshot of executed read statements.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.reads...)
}

func cloneParams(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
