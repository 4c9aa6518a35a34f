package mizuvoapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool[int](func(i *int) { *i = 0 })
	for i := 0; i < 1000; i++ {
		v := p.Allocate()
		require.Equal(t, 0, *v)
		*v = i
	}
	require.Equal(t, 1000, p.Allocated())
	for i := 0; i < 1000; i++ {
		require.Equal(t, i, *p.View(i))
	}

	p.Reset()
	require.Equal(t, 0, p.Allocated())

	// Recycled items must be scrubbed by the reset function.
	v := p.Allocate()
	require.Equal(t, 0, *v)
	require.Equal(t, 1, p.Allocated())
}

func TestPoolNilReset(t *testing.T) {
	p := NewPool[struct{ x int }](nil)
	for i := 0; i < poolPageSize*2; i++ {
		p.Allocate()
	}
	require.Equal(t, poolPageSize*2, p.Allocated())
}
