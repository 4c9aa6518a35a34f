package regalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStackSlotTable(t *testing.T) {
	var tbl stackSlotTable
	tbl.reset(4)

	s0, ok := tbl.acquire(1)
	require.True(t, ok)
	require.Equal(t, StackSlot(0), s0)
	s1, ok := tbl.acquire(1)
	require.True(t, ok)
	require.Equal(t, StackSlot(1), s1)
	require.True(t, tbl.isLive(s0))

	tbl.release(s0, 1)
	require.False(t, tbl.isLive(s0))
	// Freed slots are reused lowest-first.
	s, ok := tbl.acquire(1)
	require.True(t, ok)
	require.Equal(t, StackSlot(0), s)
}

func TestStackSlotTableWide(t *testing.T) {
	var tbl stackSlotTable
	tbl.reset(8)

	_, ok := tbl.acquire(1) // slot 0
	require.True(t, ok)
	// A doubleword cannot straddle an odd boundary: slot 1 is free but the
	// pair must start even.
	w, ok := tbl.acquire(2)
	require.True(t, ok)
	require.Equal(t, StackSlot(2), w)
	require.True(t, tbl.isLive(2))
	require.True(t, tbl.isLive(3))

	s, ok := tbl.acquire(1)
	require.True(t, ok)
	require.Equal(t, StackSlot(1), s)

	tbl.release(w, 2)
	require.False(t, tbl.isLive(2))
	require.False(t, tbl.isLive(3))
}

func TestStackSlotTableExhaustion(t *testing.T) {
	var tbl stackSlotTable
	tbl.reset(2)

	_, ok := tbl.acquire(2)
	require.True(t, ok)
	_, ok = tbl.acquire(1)
	require.False(t, ok)

	tbl.reset(0)
	_, ok = tbl.acquire(1)
	require.False(t, ok)
}

func TestStackSlotTableReleaseFreePanics(t *testing.T) {
	var tbl stackSlotTable
	tbl.reset(4)
	require.Panics(t, func() { tbl.release(0, 1) })
}

func TestConstantTable(t *testing.T) {
	var tbl constantTable
	tbl.reset(2)

	c0, c1 := newMockInstr("c0").constant(), newMockInstr("c1").constant()
	s0, ok := tbl.assign(c0)
	require.True(t, ok)
	// Assignment is idempotent per instruction.
	again, ok := tbl.assign(c0)
	require.True(t, ok)
	require.Equal(t, s0, again)
	require.True(t, tbl.contains(c0))

	_, ok = tbl.assign(c1)
	require.True(t, ok)
	require.False(t, tbl.hasCapacity())

	_, ok = tbl.assign(newMockInstr("c2").constant())
	require.False(t, ok)
	// A constant that already owns a slot keeps it even with the table full.
	_, ok = tbl.assign(c0)
	require.True(t, ok)

	tbl.reset(2)
	require.False(t, tbl.contains(c0))
	require.True(t, tbl.hasCapacity())
}
