package lruindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_InsertDeleteLen(t *testing.T) {
	idx := New[string]()
	idx.Insert(1, "a")
	idx.Insert(2, "b")
	require.Equal(t, 2, idx.Len())

	idx.Delete(1)
	require.Equal(t, 1, idx.Len())

	idx.Delete(999) // deleting an absent token is a no-op
	require.Equal(t, 1, idx.Len())
}

func TestIndex_PopOldest_InsertionOrder(t *testing.T) {
	idx := New[string]()
	idx.Insert(5, "e")
	idx.Insert(1, "a")
	idx.Insert(3, "c")

	// Insertion order, not numeric order, determines pop order: callers
	// are expected to insert tokens in increasing order since the
	// coordinator draws them from a monotonic counter.
	got := idx.PopOldest(2)
	require.Len(t, got, 2)
	require.Equal(t, int64(5), got[0].Token)
	require.Equal(t, "e", got[0].Key)
	require.Equal(t, int64(1), got[1].Token)
	require.Equal(t, "a", got[1].Key)
	require.Equal(t, 1, idx.Len())
}

func TestIndex_PopOldest_FewerThanRequested(t *testing.T) {
	idx := New[string]()
	idx.Insert(1, "a")

	got := idx.PopOldest(5)
	require.Len(t, got, 1)
	require.Equal(t, 0, idx.Len())
}

func TestIndex_PopOldest_MonotonicInsertion(t *testing.T) {
	idx := New[int]()
	for token := int64(0); token < 10; token++ {
		idx.Insert(token, int(token))
	}
	got := idx.PopOldest(3)
	require.Equal(t, []Entry[int]{{0, 0}, {1, 1}, {2, 2}}, got)
}
