package regalloc

import "math"

// LifeNumber is a position in the linearized instruction stream. Even
// positions are block boundaries, odd positions are instruction mid-points.
// Ranges over LifeNumbers are half-open.
type LifeNumber uint32

const (
	// lifeNumberGap is the distance between two consecutive instruction
	// slots.
	lifeNumberGap LifeNumber = 2

	// LifeNumberInvalid means "no such position". It deliberately equals
	// lifeNumberMax: the walk compares next-use positions coming from both
	// sentinels (a register with no conflicting use folds to lifeNumberMax,
	// an interval with no next use reports LifeNumberInvalid) and the two
	// must tie for the steal-vs-spill decision to come out as intended.
	LifeNumberInvalid LifeNumber = math.MaxUint32

	// lifeNumberMax is the top of the total order; use-position folds start
	// from it and keep the minimum conflicting position per register.
	lifeNumberMax LifeNumber = math.MaxUint32
)

// IsValid returns true if this is a real position rather than the sentinel.
func (l LifeNumber) IsValid() bool {
	return l != LifeNumberInvalid
}

// isBlockBoundary returns true for even positions, which sit between
// instructions.
func (l LifeNumber) isBlockBoundary() bool {
	return l%2 == 0
}

func minLifeNumber(a, b LifeNumber) LifeNumber {
	if a < b {
		return a
	}
	return b
}
