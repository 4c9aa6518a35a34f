// Package amd64 describes the x86-64 register files for the register
// allocator. Codegen register numbers follow the hardware encoding, and each
// number maps to the golang-asm machine register used at emission time.
package amd64

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/mizuvm/mizu/internal/engine/mizuvo/backend/regalloc"
)

// Codegen numbers of the integer file, in hardware-encoding order.
const (
	RegAX regalloc.Reg = iota
	RegCX
	RegDX
	RegBX
	RegSP
	RegBP
	RegSI
	RegDI
	RegR8
	RegR9
	RegR10
	RegR11
	RegR12
	RegR13
	RegR14
	RegR15
)

// numRegs is the size of each file on this target.
const numRegs = 16

// AsmIntReg returns the golang-asm machine register of an integer-file
// codegen number.
func AsmIntReg(r regalloc.Reg) int16 {
	if r >= numRegs {
		panic(fmt.Sprintf("BUG: integer register %d out of range", r))
	}
	return int16(x86.REG_AX) + int16(r)
}

// AsmFloatReg returns the golang-asm machine register of a float-file
// codegen number (X0..X15).
func AsmFloatReg(r regalloc.Reg) int16 {
	if r >= numRegs {
		panic(fmt.Sprintf("BUG: float register %d out of range", r))
	}
	return int16(x86.REG_X0) + int16(r)
}

var intRegNames = [numRegs]string{
	"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15",
}

// RegName returns the assembly name of a codegen register.
func RegName(f regalloc.RegFile, r regalloc.Reg) string {
	if f == regalloc.RegFileFloat {
		return fmt.Sprintf("xmm%d", int(r))
	}
	return intRegNames[r]
}

// RegisterInfo returns the allocator-facing description of this target.
//
// RSP and RBP frame the stack and are never allocatable. R15 and X15 are the
// assembler scratch registers. RAX is published as the accumulator register
// in every mode, so intervals preassigned to RAX are dropped by
// PrepareInterval whether or not AllocatorConfig.BytecodeMode is set.
func RegisterInfo() *regalloc.RegisterInfo {
	intMask := regalloc.NewRegMask(
		RegAX, RegCX, RegDX, RegBX, RegSI, RegDI,
		RegR8, RegR9, RegR10, RegR11, RegR12, RegR13, RegR14,
	)
	var floatRegs []regalloc.Reg
	for r := regalloc.Reg(0); r < numRegs-1; r++ { // X15 is scratch
		floatRegs = append(floatRegs, r)
	}
	floatMask := regalloc.NewRegMask(floatRegs...)

	info := &regalloc.RegisterInfo{
		AccumulatorReg: RegAX,
		ZeroReg:        regalloc.RegInvalid,
		RealRegName:    RegName,
	}
	info.AllocatableRegisters[regalloc.RegFileInt] = intMask
	info.AllocatableRegisters[regalloc.RegFileFloat] = floatMask
	// System V: RBX and R12-R14 survive calls; the float file has no
	// callee-saved registers, so its priority anchor stays at X0.
	info.FirstCalleeSaved[regalloc.RegFileInt] = RegBX
	info.FirstCalleeSaved[regalloc.RegFileFloat] = 0
	return info
}
