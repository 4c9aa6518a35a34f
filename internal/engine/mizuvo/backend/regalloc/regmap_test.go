package regalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterMapRotation(t *testing.T) {
	var m registerMap
	m.setMask(NewRegMask(0, 1, 2, 3), 2, nil)

	require.Equal(t, 4, m.availableRegsCount())
	// Rotation anchored at the first callee-saved register: regalloc index 0
	// is codegen r2, so first-max selection prefers callee-saved registers.
	require.Equal(t, Reg(2), m.regallocToCodegenReg(0))
	require.Equal(t, Reg(3), m.regallocToCodegenReg(1))
	require.Equal(t, Reg(0), m.regallocToCodegenReg(2))
	require.Equal(t, Reg(1), m.regallocToCodegenReg(3))

	for idx := Reg(0); idx < 4; idx++ {
		require.Equal(t, idx, m.codegenToRegallocReg(m.regallocToCodegenReg(idx)))
	}
	require.Equal(t, RegInvalid, m.codegenToRegallocReg(5))
}

func TestRegisterMapSparseMask(t *testing.T) {
	var m registerMap
	m.setMask(NewRegMask(1, 3, 8), 3, nil)

	require.Equal(t, 3, m.availableRegsCount())
	require.Equal(t, Reg(3), m.regallocToCodegenReg(0))
	require.Equal(t, Reg(8), m.regallocToCodegenReg(1))
	require.Equal(t, Reg(1), m.regallocToCodegenReg(2))
	require.Equal(t, RegInvalid, m.codegenToRegallocReg(0))
}

func TestRegisterMapAvailability(t *testing.T) {
	info := &RegisterInfo{
		ArchReserved: func(arch Arch, r Reg) bool { return arch == ArchARM32 && r == 3 },
	}
	var m registerMap
	m.setMask(NewRegMask(0, 1, 2, 3), 2, info)

	require.True(t, m.isRegAvailable(0, ArchAMD64))
	require.False(t, m.isRegAvailable(4, ArchAMD64))
	require.False(t, m.isRegAvailable(RegInvalid, ArchAMD64))
	// Index 1 maps to codegen r3, reserved on 32-bit ARM only.
	require.False(t, m.isRegAvailable(1, ArchARM32))
	require.True(t, m.isRegAvailable(1, ArchARM64))
}
