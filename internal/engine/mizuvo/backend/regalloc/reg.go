package regalloc

import (
	"fmt"
	"strings"
)

// Reg represents a register number. Before allocation it is a codegen
// register number as published by the target's isa package; while a file is
// being allocated the same type carries the dense regalloc index produced by
// registerMap. The two spaces never mix: the driver remaps every interval
// back to codegen numbers before returning.
type Reg byte

// RegInvalid is the only file-independent register value, and can be used to
// indicate that no register is specified.
const RegInvalid Reg = 0xff

// String implements fmt.Stringer.
func (r Reg) String() string {
	if r == RegInvalid {
		return "invalid"
	}
	return fmt.Sprintf("r%d", int(r))
}

// regMaskBits bounds the number of registers in one file. Every target in
// the tree fits in 32; the mask type leaves headroom.
const regMaskBits = 64

// RegMask represents a set of codegen registers of one register file.
type RegMask uint64

// NewRegMask returns a RegMask with the given registers.
func NewRegMask(regs ...Reg) RegMask {
	var ret RegMask
	for _, r := range regs {
		ret = ret.add(r)
	}
	return ret
}

func (m RegMask) has(r Reg) bool {
	return r < regMaskBits && m&(1<<uint(r)) != 0
}

func (m RegMask) add(r Reg) RegMask {
	if r >= regMaskBits {
		return m
	}
	return m | 1<<uint(r)
}

// Range calls f for each register in the mask in ascending order.
func (m RegMask) Range(f func(r Reg)) {
	for i := 0; i < regMaskBits; i++ {
		if m&(1<<uint(i)) != 0 {
			f(Reg(i))
		}
	}
}

func (m RegMask) format(info *RegisterInfo, file RegFile) string {
	var ret []string
	m.Range(func(r Reg) {
		ret = append(ret, info.RealRegName(file, r))
	})
	return strings.Join(ret, ", ")
}

// RegFile identifies one of the two register files allocation runs over.
type RegFile byte

const (
	// RegFileInt is the general-purpose integer file.
	RegFileInt RegFile = iota
	// RegFileFloat is the floating-point/vector file.
	RegFileFloat
	// NumRegFile is the number of register files.
	NumRegFile
)

// String implements fmt.Stringer.
func (f RegFile) String() string {
	switch f {
	case RegFileInt:
		return "int"
	case RegFileFloat:
		return "float"
	default:
		return "invalid"
	}
}

// Arch tags the target architecture for the few places where allocation
// depends on it: stack-slot width rules and per-arch register reservations.
type Arch byte

const (
	// ArchNone turns off the slot-pair rule and the callee-saved priority
	// anchor (see AllocatorConfig.Arch).
	ArchNone Arch = iota
	// ArchAMD64 is x86-64.
	ArchAMD64
	// ArchARM64 is aarch64.
	ArchARM64
	// ArchARM32 is 32-bit ARM. 64-bit values occupy two consecutive stack
	// slots on this target.
	ArchARM32
)

// Is32Bit returns true for targets whose native word is 32 bits.
func (a Arch) Is32Bit() bool {
	return a == ArchARM32
}

// RegisterInfo holds the statically-known target register information the
// allocator needs. It is produced by the target's isa package.
type RegisterInfo struct {
	// AllocatableRegisters is the codegen-register mask per register file.
	AllocatableRegisters [NumRegFile]RegMask
	// FirstCalleeSaved anchors the allocation priority per file: the register
	// map numbers registers starting here so callee-saved registers win ties,
	// which is beneficial for call-spanning intervals.
	FirstCalleeSaved [NumRegFile]Reg
	// AccumulatorReg is the target's accumulator pseudo-register, or
	// RegInvalid. Intervals preassigned to it are not allocation targets.
	AccumulatorReg Reg
	// ZeroReg is the target's hardwired zero register, or RegInvalid.
	ZeroReg Reg
	// RealRegName returns the name of the given codegen register for
	// debugging. Codegen numbers are per-file, so the file is part of the
	// key.
	RealRegName func(f RegFile, r Reg) string
	// ArchReserved optionally reports codegen registers that are unavailable
	// on the given architecture even though they are in the mask. May be nil.
	// The allocator consults it when accepting a hint register and when
	// blocking the fixed locations overlapping a temp interval; free- and
	// blocked-register selection does not consult it.
	ArchReserved func(arch Arch, r Reg) bool
}
