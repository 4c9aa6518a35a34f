package amd64

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/twitchyliquid64/golang-asm/obj/x86"

	"github.com/mizuvm/mizu/internal/engine/mizuvo/backend/regalloc"
)

func TestAsmRegs(t *testing.T) {
	require.Equal(t, int16(x86.REG_AX), AsmIntReg(RegAX))
	require.Equal(t, int16(x86.REG_SP), AsmIntReg(RegSP))
	require.Equal(t, int16(x86.REG_R15), AsmIntReg(RegR15))
	require.Equal(t, int16(x86.REG_X0), AsmFloatReg(0))
	require.Equal(t, int16(x86.REG_X15), AsmFloatReg(15))
	require.Panics(t, func() { AsmIntReg(16) })
}

func TestRegisterInfo(t *testing.T) {
	info := RegisterInfo()

	intMask := info.AllocatableRegisters[regalloc.RegFileInt]
	var intRegs []regalloc.Reg
	intMask.Range(func(r regalloc.Reg) { intRegs = append(intRegs, r) })
	// Frame and scratch registers stay out of the integer file.
	require.NotContains(t, intRegs, RegSP)
	require.NotContains(t, intRegs, RegBP)
	require.NotContains(t, intRegs, RegR15)
	require.Contains(t, intRegs, RegAX)
	require.Len(t, intRegs, 13)

	var floatRegs []regalloc.Reg
	info.AllocatableRegisters[regalloc.RegFileFloat].Range(func(r regalloc.Reg) { floatRegs = append(floatRegs, r) })
	require.Len(t, floatRegs, 15)

	require.Equal(t, RegBX, info.FirstCalleeSaved[regalloc.RegFileInt])
	require.Equal(t, RegAX, info.AccumulatorReg)
	require.Equal(t, regalloc.RegInvalid, info.ZeroReg)
	require.Equal(t, "rbx", info.RealRegName(regalloc.RegFileInt, RegBX))
	require.Equal(t, "xmm3", info.RealRegName(regalloc.RegFileFloat, 3))
}

func TestRegisterInfoDrivesAllocator(t *testing.T) {
	a := regalloc.NewAllocator(RegisterInfo(), noLiveness{}, regalloc.AllocatorConfig{
		Arch:          regalloc.ArchAMD64,
		MaxStackSlots: 8,
	})
	li := a.NewInterval(regalloc.RegFileInt)
	li.AppendRange(0, 6)
	li.AddUse(1)
	li.AddUse(5)
	a.PrepareInterval(li)
	require.True(t, a.Allocate())
	// The priority rotation starts at the first callee-saved register.
	require.Equal(t, RegBX, li.Reg())
}

type noLiveness struct{}

func (noLiveness) NextUseOnFixedLocation(regalloc.Instr, regalloc.LifeNumber) regalloc.Reg {
	return regalloc.RegInvalid
}

func (noLiveness) HasUseOnFixedLocation(regalloc.Instr, regalloc.LifeNumber) bool { return false }

func (noLiveness) EnumerateFixedLocationsOverlappingTemp(*regalloc.LifeInterval, func(regalloc.Reg)) {
}
