package arm64

import (
	"testing"

	"github.com/stretchr/testify/require"
	goarm64 "github.com/twitchyliquid64/golang-asm/obj/arm64"

	"github.com/mizuvm/mizu/internal/engine/mizuvo/backend/regalloc"
)

func TestAsmRegs(t *testing.T) {
	require.Equal(t, int16(goarm64.REG_R0), AsmIntReg(0))
	require.Equal(t, int16(goarm64.REG_R30), AsmIntReg(30))
	require.Equal(t, int16(goarm64.REGZERO), AsmIntReg(RegZero))
	require.Equal(t, int16(goarm64.REG_F8), AsmFloatReg(8))
	require.Panics(t, func() { AsmIntReg(32) })
}

func TestRegisterInfo(t *testing.T) {
	info := RegisterInfo()

	var intRegs []regalloc.Reg
	info.AllocatableRegisters[regalloc.RegFileInt].Range(func(r regalloc.Reg) { intRegs = append(intRegs, r) })
	// x18 is the platform register; x27..x30 and xzr serve the runtime.
	require.NotContains(t, intRegs, regalloc.Reg(18))
	require.NotContains(t, intRegs, regalloc.Reg(27))
	require.NotContains(t, intRegs, RegZero)
	require.Contains(t, intRegs, regalloc.Reg(26))
	require.Len(t, intRegs, 26)

	var floatRegs []regalloc.Reg
	info.AllocatableRegisters[regalloc.RegFileFloat].Range(func(r regalloc.Reg) { floatRegs = append(floatRegs, r) })
	require.Len(t, floatRegs, 30)

	require.Equal(t, regalloc.Reg(19), info.FirstCalleeSaved[regalloc.RegFileInt])
	require.Equal(t, regalloc.Reg(8), info.FirstCalleeSaved[regalloc.RegFileFloat])
	require.Equal(t, RegZero, info.ZeroReg)
	require.Equal(t, regalloc.RegInvalid, info.AccumulatorReg)
	require.Equal(t, "x19", info.RealRegName(regalloc.RegFileInt, 19))
	require.Equal(t, "xzr", info.RealRegName(regalloc.RegFileInt, RegZero))
	require.Equal(t, "v7", info.RealRegName(regalloc.RegFileFloat, 7))
}

func TestZeroRegPreassignedIntervalIsDropped(t *testing.T) {
	a := regalloc.NewAllocator(RegisterInfo(), noLiveness{}, regalloc.AllocatorConfig{
		Arch:          regalloc.ArchARM64,
		MaxStackSlots: 8,
	})
	li := a.NewInterval(regalloc.RegFileInt)
	li.AppendRange(0, 4)
	li.AddUse(1)
	li.SetInst(mockZeroInstr{})
	li.SetPreassignedReg(RegZero)
	a.PrepareInterval(li)
	// Nothing to allocate: values pinned to the zero register need no
	// location of their own.
	require.True(t, a.Allocate())
	require.Equal(t, RegZero, li.Reg())
}

type mockZeroInstr struct{}

func (mockZeroInstr) String() string                          { return "zero" }
func (mockZeroInstr) DstCount() int                           { return 1 }
func (mockZeroInstr) IsConst() bool                           { return false }
func (mockZeroInstr) IsParameter() bool                       { return false }
func (mockZeroInstr) MultiOutputSource() regalloc.Instr       { return nil }

type noLiveness struct{}

func (noLiveness) NextUseOnFixedLocation(regalloc.Instr, regalloc.LifeNumber) regalloc.Reg {
	return regalloc.RegInvalid
}

func (noLiveness) HasUseOnFixedLocation(regalloc.Instr, regalloc.LifeNumber) bool { return false }

func (noLiveness) EnumerateFixedLocationsOverlappingTemp(*regalloc.LifeInterval, func(regalloc.Reg)) {
}
