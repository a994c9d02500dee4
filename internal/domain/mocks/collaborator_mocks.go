package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/user/threat-monitor/internal/domain"
)

// MockSnapshotStore is an in-memory implementation of domain.SnapshotStore
// for testing. GetErr/PutErr force the respective operation to fail.
type MockSnapshotStore struct {
	mu        sync.Mutex
	Snapshots map[string][]byte
	GetErr    error
	PutErr    error
	PutCalls  int
}

func (m *MockSnapshotStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	payload, ok := m.Snapshots[key]
	return payload, ok, nil
}

func (m *MockSnapshotStore) Put(ctx context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++
	if m.PutErr != nil {
		return m.PutErr
	}
	if m.Snapshots == nil {
		m.Snapshots = make(map[string][]byte)
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.Snapshots[key] = cp
	return nil
}

// MockCompleter is a scripted implementation of domain.Completer. The
// response text is delivered as a stream of Chunks; CompleteErr fails the
// call up front, StreamErr fails it mid-stream after the chunks.
type MockCompleter struct {
	Chunks      []string
	CompleteErr error
	StreamErr   error
	LastPrompt  string
	LastTemp    float64
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string, temperature float64) (domain.CompletionStream, error) {
	m.LastPrompt = prompt
	m.LastTemp = temperature
	if m.CompleteErr != nil {
		return nil, m.CompleteErr
	}
	return &mockStream{chunks: m.Chunks, finalErr: m.StreamErr}, nil
}

type mockStream struct {
	chunks   []string
	pos      int
	finalErr error
}

func (s *mockStream) Recv() (string, error) {
	if s.pos >= len(s.chunks) {
		if s.finalErr != nil {
			return "", s.finalErr
		}
		return "", io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}

func (s *mockStream) Close() error { return nil }
