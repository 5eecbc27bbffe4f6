// Package statecache implements a bounded, write-through LRU cache
// coordinator: a single-writer/many-reader actor that maps an opaque key to
// an opaque value, backed by a caller-supplied durable store. It is the
// generic engine behind the block-states facade in
// beacon-chain/blockstate, but is domain-agnostic so it can back any
// key/value pair a caller wants a bounded, crash-safe cache in front of.
//
// The coordinator generalizes the LRU wrapper in
// beacon-chain/cache/skip_slot_cache.go from a fixed-size opaque
// hashicorp/golang-lru.Cache to an explicit recency-token index
// (beacon-chain/cache/lruindex) plus a concurrently readable data table,
// so that mutation of the index can be serialized on a single owning
// goroutine while readers never block on the coordinator at all.
package statecache

import (
	"sync"
	"sync/atomic"

	"github.com/mahmudsudo/lambda-ethereum-consensus/beacon-chain/cache/lruindex"
	"github.com/pkg/errors"
)

// tokenCounter is process-wide (design 4.F): every Coordinator instance in
// the process draws recency tokens from the same monotonic sequence, so
// tokens stay globally unique even though each cache's LRU index is
// otherwise independent.
var tokenCounter int64

func nextToken() int64 {
	return atomic.AddInt64(&tokenCounter, 1)
}

// StoreFunc durably persists a key/value pair. Its failure aborts Put
// without mutating the cache; the reference behavior described in design
// section 4.G is to let the error propagate to the Put caller untouched.
type StoreFunc[K comparable, V any] func(key K, value V) error

// FetchFunc resolves a cache miss, typically by reading a backing store.
// It runs outside the coordinator and may block on I/O. found is false
// when the key genuinely does not exist; a non-nil err is a fatal,
// non-recoverable fault and aborts the Get.
type FetchFunc[K comparable, V any] func(key K) (value V, found bool, err error)

type dataEntry[K comparable, V any] struct {
	value V
	token int64
}

type cmdKind int

const (
	cmdInsert cmdKind = iota
	cmdTouch
	cmdLen
)

type command[K comparable, V any] struct {
	kind     cmdKind
	key      K
	value    V
	reply    chan struct{} // non-nil only for cmdInsert
	lenReply chan int      // non-nil only for cmdLen
}

// Coordinator is the cache described in design section 4.G. Zero value is
// not usable; construct with New.
type Coordinator[K comparable, V any] struct {
	name           string
	maxEntries     int
	batchPruneSize int
	storeFunc      StoreFunc[K, V]

	data  sync.Map // K -> dataEntry[K, V]
	size  int      // owned by run()
	index *lruindex.Index[K]

	cmds   chan command[K, V]
	closed chan struct{}
	wg     sync.WaitGroup
}

// Config holds the fixed construction-time parameters of a Coordinator.
type Config[K comparable, V any] struct {
	// Name labels this cache's metrics; the block-states facade uses
	// "block_states", for example.
	Name           string
	MaxEntries     int
	BatchPruneSize int
	StoreFunc      StoreFunc[K, V]
}

// New constructs and starts a Coordinator's owning goroutine.
func New[K comparable, V any](cfg Config[K, V]) *Coordinator[K, V] {
	c := &Coordinator[K, V]{
		name:           cfg.Name,
		maxEntries:     cfg.MaxEntries,
		batchPruneSize: cfg.BatchPruneSize,
		storeFunc:      cfg.StoreFunc,
		index:          lruindex.New[K](),
		cmds:           make(chan command[K, V], 64),
		closed:         make(chan struct{}),
	}
	c.wg.Add(1)
	go c.run()
	return c
}

// Close stops the owning goroutine. Pending synchronous commands already
// submitted are drained before it returns.
func (c *Coordinator[K, V]) Close() {
	close(c.closed)
	c.wg.Wait()
}

func (c *Coordinator[K, V]) run() {
	defer c.wg.Done()
	for {
		select {
		case cmd := <-c.cmds:
			c.handle(cmd)
		case <-c.closed:
			// Drain anything already queued so blocked Put/Get callers
			// don't hang after Close.
			for {
				select {
				case cmd := <-c.cmds:
					c.handle(cmd)
				default:
					return
				}
			}
		}
	}
}

func (c *Coordinator[K, V]) handle(cmd command[K, V]) {
	switch cmd.kind {
	case cmdInsert:
		c.applyInsert(cmd.key, cmd.value)
		if cmd.reply != nil {
			close(cmd.reply)
		}
	case cmdTouch:
		c.applyTouch(cmd.key)
	case cmdLen:
		cmd.lenReply <- c.size
	}
}

// applyInsert implements steps 2-4 of Put (design 4.G): assign a fresh
// token, replace the data-table entry, re-index it, and prune if the table
// now exceeds max_entries.
func (c *Coordinator[K, V]) applyInsert(key K, value V) {
	token := nextToken()

	if prev, ok := c.data.Load(key); ok {
		c.index.Delete(prev.(dataEntry[K, V]).token)
	} else {
		c.size++
	}
	c.data.Store(key, dataEntry[K, V]{value: value, token: token})
	c.index.Insert(token, key)

	c.pruneIfNeeded()
}

func (c *Coordinator[K, V]) applyTouch(key K) {
	cur, ok := c.data.Load(key)
	if !ok {
		return // evicted between the hit and the touch being processed
	}
	entry := cur.(dataEntry[K, V])
	token := nextToken()

	c.index.Delete(entry.token)
	c.index.Insert(token, key)
	c.data.Store(key, dataEntry[K, V]{value: entry.value, token: token})
}

// pruneIfNeeded evicts the batch_prune_size + overflow oldest entries once
// the table exceeds max_entries. Preserving the "+ batch_prune_size"
// over-eviction on every prune (rather than trimming exactly to the bound)
// is intentional hysteresis carried over from the design (section 9): it
// amortizes pruning cost across the next batch_prune_size puts.
func (c *Coordinator[K, V]) pruneIfNeeded() {
	overflow := c.size - c.maxEntries
	if overflow <= 0 {
		return
	}
	toPrune := overflow + c.batchPruneSize
	victims := c.index.PopOldest(toPrune)
	for _, v := range victims {
		c.data.Delete(v.Key)
		c.size--
	}
	if len(victims) > 0 {
		cacheEviction.WithLabelValues(c.name).Add(float64(len(victims)))
	}
}

// Put durably writes (key, value) via StoreFunc, then updates the cache.
// If StoreFunc returns an error, Put returns it immediately and the cache
// is left unmodified (design 4.G, write-through-before-cache ordering).
func (c *Coordinator[K, V]) Put(key K, value V) error {
	if err := c.storeFunc(key, value); err != nil {
		return err
	}
	reply := make(chan struct{})
	c.cmds <- command[K, V]{kind: cmdInsert, key: key, value: value, reply: reply}
	<-reply
	return nil
}

// Get returns the cached value for key, resolving a miss via fetch. A hit
// schedules a non-blocking, fire-and-forget touch; the caller never waits
// on it, and only eventual LRU ordering is guaranteed across concurrent
// gets of the same key. A miss that resolves to a value populates the
// cache without invoking StoreFunc; a miss that resolves to absent leaves
// the cache untouched. A non-nil error from fetch is fatal and propagates
// wrapped with a stack trace, so errors.Is still matches it.
func (c *Coordinator[K, V]) Get(key K, fetch FetchFunc[K, V]) (V, bool, error) {
	if raw, ok := c.data.Load(key); ok {
		entry := raw.(dataEntry[K, V])
		cacheHit.WithLabelValues(c.name).Inc()
		go func() { c.cmds <- command[K, V]{kind: cmdTouch, key: key} }()
		return entry.value, true, nil
	}

	cacheMiss.WithLabelValues(c.name).Inc()
	value, found, err := fetch(key)
	if err != nil {
		var zero V
		return zero, false, errors.WithStack(err)
	}
	if !found {
		var zero V
		return zero, false, nil
	}

	reply := make(chan struct{})
	c.cmds <- command[K, V]{kind: cmdInsert, key: key, value: value, reply: reply}
	<-reply
	return value, true, nil
}

// Len returns the current number of live entries. It is a point-in-time
// snapshot; concurrent Put/Get calls may change it immediately after.
func (c *Coordinator[K, V]) Len() int {
	reply := make(chan int, 1)
	c.cmds <- command[K, V]{kind: cmdLen, lenReply: reply}
	return <-reply
}

// Keys returns a point-in-time snapshot of the live keys, in no particular
// order. It reads the data table directly, the same way the Get hit path
// does, without going through the owning goroutine.
func (c *Coordinator[K, V]) Keys() []K {
	keys := make([]K, 0)
	c.data.Range(func(k, _ any) bool {
		keys = append(keys, k.(K))
		return true
	})
	return keys
}
