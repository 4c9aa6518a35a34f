package regalloc

import "fmt"

// These interfaces are implemented by the liveness analyzer to abstract away
// the details of the IR, and allow the register allocator to work on any
// instruction set.

type (
	// Instr is the IR instruction an interval is attached to. The allocator
	// never walks the instruction stream; it only asks an instruction about
	// the handful of properties that change where its value may live.
	Instr interface {
		fmt.Stringer

		// DstCount returns the number of values this instruction defines.
		DstCount() int
		// IsConst returns true if this instruction materializes a single
		// immediate. Such values can be recreated from the constant pool
		// instead of being spilled, see AllocatorConfig.RematConstants.
		IsConst() bool
		// IsParameter returns true if this instruction is a function
		// parameter. Parameters may start out pinned to a stack slot chosen
		// by the calling convention.
		IsParameter() bool
		// MultiOutputSource returns the multi-output instruction this
		// instruction projects one result from, or nil when the instruction
		// is not such a projection. Distinct projections of one multi-output
		// instruction must receive distinct registers.
		MultiOutputSource() Instr
	}

	// Liveness is the slice of the liveness analyzer the allocator consumes:
	// the use table with fixed-location (ABI-dictated) uses, and the fixed
	// locations overlapping synthetic temp intervals.
	Liveness interface {
		// NextUseOnFixedLocation returns the codegen register required by the
		// first fixed-location use of inst at or after from, or RegInvalid if
		// there is none. The allocator uses it as an assignment hint.
		NextUseOnFixedLocation(inst Instr, from LifeNumber) Reg
		// HasUseOnFixedLocation returns true if inst has a fixed-location use
		// exactly at pos.
		HasUseOnFixedLocation(inst Instr, pos LifeNumber) bool
		// EnumerateFixedLocationsOverlappingTemp calls visit with the codegen
		// register of every fixed location overlapping the given synthetic
		// temp interval. Those registers cannot be handed to the temp.
		EnumerateFixedLocationsOverlappingTemp(tmp *LifeInterval, visit func(Reg))
	}
)
