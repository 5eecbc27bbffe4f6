package blockstate

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Database is the minimal persistence surface the block-states facade
// requires of the underlying key-value database engine. The facade treats
// a beacon state as an opaque blob addressable by its 32-byte block root;
// SSZ encoding, fork-digest computation, and crash-consistency are the
// database implementation's concern, not this package's.
type Database interface {
	// State returns the state stored under root. found is false when the
	// root is simply absent; a non-nil err is a fatal store fault.
	State(ctx context.Context, root [32]byte) (state []byte, found bool, err error)
	// SaveState durably persists state under root.
	SaveState(ctx context.Context, root [32]byte, state []byte) error
}

// MockDatabase is an in-memory Database used by tests and by callers that
// want a facade without a real backing store.
type MockDatabase struct {
	mu     sync.Mutex
	states map[[32]byte][]byte
	// FailRoots, when non-nil, causes State and SaveState to return
	// errFakeStoreFault for any root present in the set.
	FailRoots map[[32]byte]bool
}

// NewMockDatabase returns an empty MockDatabase.
func NewMockDatabase() *MockDatabase {
	return &MockDatabase{states: make(map[[32]byte][]byte)}
}

var errFakeStoreFault = errors.New("mock database: simulated store fault")

func (m *MockDatabase) State(_ context.Context, root [32]byte) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRoots[root] {
		return nil, false, errFakeStoreFault
	}
	state, ok := m.states[root]
	return state, ok, nil
}

func (m *MockDatabase) SaveState(_ context.Context, root [32]byte, state []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRoots[root] {
		return errFakeStoreFault
	}
	m.states[root] = state
	return nil
}
