// Package blockstate binds the generic cache coordinator to the
// beacon-state domain: the key is a 32-byte block root, the value an
// opaque state blob, and the backing store is the node's state database.
// It is the concrete cache the gossip pipeline and fork-choice consult,
// the way beacon-chain/state/stategen.State binds hot/cold state
// management to db.NoHeadAccessDatabase in the source repository.
package blockstate

import (
	"context"

	"github.com/mahmudsudo/lambda-ethereum-consensus/beacon-chain/cache/statecache"
	"github.com/pkg/errors"
)

const (
	maxEntries     = 128
	batchPruneSize = 16
)

// Facade is the block-states cache: store_state_info / get_state_info /
// get_state_info_or_fail from design section 6, bound to a concrete
// Database.
type Facade struct {
	db    Database
	cache *statecache.Coordinator[[32]byte, []byte]
}

// New constructs a Facade with the fixed max_entries=128,
// batch_prune_size=16 parameters design section 4.H mandates for the
// block-states cache.
func New(db Database) *Facade {
	f := &Facade{db: db}
	f.cache = statecache.New(statecache.Config[[32]byte, []byte]{
		Name:           "block_states",
		MaxEntries:     maxEntries,
		BatchPruneSize: batchPruneSize,
		StoreFunc: func(root [32]byte, state []byte) error {
			if err := db.SaveState(context.Background(), root, state); err != nil {
				return errors.Wrap(ErrStoreFault, err.Error())
			}
			return nil
		},
	})
	return f
}

// Close stops the facade's cache coordinator.
func (f *Facade) Close() {
	f.cache.Close()
}

// StoreStateInfo durably persists state under root and updates the cache
// (design 6, store_state_info).
func (f *Facade) StoreStateInfo(_ context.Context, root [32]byte, state []byte) error {
	return f.cache.Put(root, state)
}

// GetStateInfo returns the state for root, consulting the cache first and
// falling back to the database on a miss (design 6, get_state_info). found
// is false when the root is absent from both; a non-nil error is a fatal
// ErrStoreFault.
func (f *Facade) GetStateInfo(ctx context.Context, root [32]byte) (state []byte, found bool, err error) {
	return f.cache.Get(root, func(root [32]byte) ([]byte, bool, error) {
		state, found, err := f.db.State(ctx, root)
		if err != nil {
			return nil, false, errors.Wrap(ErrStoreFault, err.Error())
		}
		return state, found, nil
	})
}

// GetStateInfoOrFail is GetStateInfo but raises ErrStateNotFound instead of
// returning found=false (design 4.H, get_or_fail).
func (f *Facade) GetStateInfoOrFail(ctx context.Context, root [32]byte) ([]byte, error) {
	state, found, err := f.GetStateInfo(ctx, root)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrStateNotFound
	}
	return state, nil
}

// Len returns the number of states currently held in the cache.
func (f *Facade) Len() int {
	return f.cache.Len()
}
