package regalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntervalQueueOrder(t *testing.T) {
	arena := newTestArena()
	var q intervalQueue

	a := makeInterval(arena, [][2]LifeNumber{{4, 8}})
	b := makeInterval(arena, [][2]LifeNumber{{0, 2}})
	c := makeInterval(arena, [][2]LifeNumber{{6, 10}})
	d := makeInterval(arena, [][2]LifeNumber{{2, 4}})
	for _, li := range []*LifeInterval{a, b, c, d} {
		q.insert(li)
	}

	var begins []LifeNumber
	for !q.empty() {
		begins = append(begins, q.popFront().Begin())
	}
	require.Equal(t, []LifeNumber{0, 2, 4, 6}, begins)
}

func TestIntervalQueueStableTies(t *testing.T) {
	arena := newTestArena()
	var q intervalQueue

	first := makeInterval(arena, [][2]LifeNumber{{2, 4}})
	q.insert(makeInterval(arena, [][2]LifeNumber{{0, 10}}))
	q.insert(first)
	second := makeInterval(arena, [][2]LifeNumber{{2, 8}})
	q.insert(second)

	q.popFront()
	// Ties drain in insertion order: split tails re-enter behind earlier
	// arrivals with the same begin.
	require.Same(t, first, q.popFront())
	require.Same(t, second, q.popFront())
	require.True(t, q.empty())
}

func TestWorkingIntervalsClear(t *testing.T) {
	arena := newTestArena()
	var w workingIntervals
	w.active.insert(makeInterval(arena, [][2]LifeNumber{{0, 2}}))
	w.stack = append(w.stack, makeInterval(arena, [][2]LifeNumber{{0, 2}}))
	w.handled = append(w.handled, makeInterval(arena, [][2]LifeNumber{{0, 2}}))
	w.fixed = append(w.fixed, nil, makeInterval(arena, [][2]LifeNumber{{0, 2}}))

	w.clear()
	require.True(t, w.active.empty())
	require.True(t, w.inactive.empty())
	require.Empty(t, w.stack)
	require.Empty(t, w.handled)
	require.Empty(t, w.fixed)
}
