// Package lruindex implements the ordered-by-recency index that backs the
// cache coordinator in the sibling statecache package: a mapping from a
// strictly monotonic recency token to the key it was last assigned to,
// iterable in insertion (oldest-first) order, which is ascending token
// order as long as tokens are inserted in increasing order.
//
// It is intentionally not a wrapper around hashicorp/golang-lru: that
// package's Cache type has no notion of a caller-supplied token and no
// batched pop-oldest primitive, both of which the coordinator's
// write-through, single-writer design requires. The algorithm below is the
// same doubly-linked-list-plus-map shape that package uses internally.
package lruindex

import "container/list"

// Entry is one (token, key) pair as returned by PopOldest.
type Entry[K comparable] struct {
	Token int64
	Key   K
}

// Index is an ordered map from recency token to key. It is not
// goroutine-safe; callers serialize access the way the cache coordinator
// does, via a single owning goroutine.
type Index[K comparable] struct {
	order    *list.List // front = oldest, back = newest
	elements map[int64]*list.Element
}

// New returns an empty index.
func New[K comparable]() *Index[K] {
	return &Index[K]{
		order:    list.New(),
		elements: make(map[int64]*list.Element),
	}
}

// Insert records that token now refers to key. Insert is O(1): new tokens
// are always the largest seen so far, so they are appended at the back.
func (idx *Index[K]) Insert(token int64, key K) {
	idx.elements[token] = idx.order.PushBack(Entry[K]{Token: token, Key: key})
}

// Delete removes token from the index, if present. O(1).
func (idx *Index[K]) Delete(token int64) {
	el, ok := idx.elements[token]
	if !ok {
		return
	}
	idx.order.Remove(el)
	delete(idx.elements, token)
}

// Len returns the number of tokens currently indexed.
func (idx *Index[K]) Len() int {
	return idx.order.Len()
}

// PopOldest removes and returns up to n of the earliest-inserted tokens, in
// insertion order. When tokens are inserted in increasing order, as the
// coordinator does, these are the smallest tokens in ascending order;
// tokens inserted out of order are not re-sorted. It returns fewer than n
// entries if the index holds fewer than n tokens.
func (idx *Index[K]) PopOldest(n int) []Entry[K] {
	if n <= 0 {
		return nil
	}
	out := make([]Entry[K], 0, n)
	for i := 0; i < n; i++ {
		front := idx.order.Front()
		if front == nil {
			break
		}
		entry := front.Value.(Entry[K])
		idx.order.Remove(front)
		delete(idx.elements, entry.Token)
		out = append(out, entry)
	}
	return out
}
