// Package arm64 describes the aarch64 register files for the register
// allocator. Codegen register numbers follow the hardware encoding, and each
// number maps to the golang-asm machine register used at emission time.
package arm64

import (
	"fmt"

	goarm64 "github.com/twitchyliquid64/golang-asm/obj/arm64"

	"github.com/mizuvm/mizu/internal/engine/mizuvo/backend/regalloc"
)

const (
	// numRegs is the size of each file on this target.
	numRegs = 32
	// RegZero is the hardwired zero register (x31 in register position).
	RegZero regalloc.Reg = 31
)

// AsmIntReg returns the golang-asm machine register of an integer-file
// codegen number.
func AsmIntReg(r regalloc.Reg) int16 {
	if r >= numRegs {
		panic(fmt.Sprintf("BUG: integer register %d out of range", r))
	}
	if r == RegZero {
		return goarm64.REGZERO
	}
	return int16(goarm64.REG_R0) + int16(r)
}

// AsmFloatReg returns the golang-asm machine register of a float-file
// codegen number (V0..V31, addressed as F registers for scalar use).
func AsmFloatReg(r regalloc.Reg) int16 {
	if r >= numRegs {
		panic(fmt.Sprintf("BUG: float register %d out of range", r))
	}
	return int16(goarm64.REG_F0) + int16(r)
}

// RegName returns the assembly name of a codegen register.
func RegName(f regalloc.RegFile, r regalloc.Reg) string {
	if f == regalloc.RegFileFloat {
		return fmt.Sprintf("v%d", int(r))
	}
	if r == RegZero {
		return "xzr"
	}
	return fmt.Sprintf("x%d", int(r))
}

// RegisterInfo returns the allocator-facing description of this target.
//
// x18 is the platform register, x27 the assembler scratch, x28 the runtime
// context pointer; x29/x30 are the frame pointer and link register. v30/v31
// are the vector scratch pair.
func RegisterInfo() *regalloc.RegisterInfo {
	var intRegs, floatRegs []regalloc.Reg
	for r := regalloc.Reg(0); r <= 26; r++ {
		if r == 18 {
			continue
		}
		intRegs = append(intRegs, r)
	}
	for r := regalloc.Reg(0); r <= 29; r++ {
		floatRegs = append(floatRegs, r)
	}

	info := &regalloc.RegisterInfo{
		AccumulatorReg: regalloc.RegInvalid,
		ZeroReg:        RegZero,
		RealRegName:    RegName,
	}
	info.AllocatableRegisters[regalloc.RegFileInt] = regalloc.NewRegMask(intRegs...)
	info.AllocatableRegisters[regalloc.RegFileFloat] = regalloc.NewRegMask(floatRegs...)
	// AAPCS64: x19-x28 and v8-v15 survive calls.
	info.FirstCalleeSaved[regalloc.RegFileInt] = 19
	info.FirstCalleeSaved[regalloc.RegFileFloat] = 8
	return info
}
