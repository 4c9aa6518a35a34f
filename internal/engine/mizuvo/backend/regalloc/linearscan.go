// Package regalloc performs linear-scan register allocation over lifetime
// intervals computed by a liveness analyzer, which is abstracted away by the
// interfaces in api.go.
package regalloc

// References:
// * "Linear Scan Register Allocation" by Christian Wimmer
// * https://llvm.org/ProjectsWithLLVM/2004-Fall-CS426-LS.pdf
//
// The allocator scans forward through the intervals, ordered by increasing
// starting point, and assigns registers while the number of active intervals
// at the point is below the number of available registers. When no register
// is available for some interval, one of the blocked ones is taken over: the
// previous holder is split and spilled, and the blocked register to take is
// selected by usage information — the one with the most distant next use.

import (
	"fmt"

	"github.com/mizuvm/mizu/internal/engine/mizuvo/mizuvoapi"
)

// AllocatorConfig carries the per-compilation switches the allocator honors.
type AllocatorConfig struct {
	// RematConstants lets spilled constants live in the immediate table
	// instead of the stack, to be recreated at use sites.
	RematConstants bool
	// BytecodeMode disallows taking over blocked registers; the bytecode
	// emitter cannot express the resulting shuffles.
	BytecodeMode bool
	// Arch selects architecture-dependent behavior: stack-slot width rules,
	// the callee-saved priority anchor of the register map, and the
	// architecture passed to RegisterInfo.ArchReserved. With ArchNone no
	// value takes a slot pair and the register map is anchored at codegen
	// register 0; ArchReserved is still called, with ArchNone.
	Arch Arch
	// MaxStackSlots bounds the spill area.
	MaxStackSlots uint32
	// MaxConstantSlots bounds the immediate table.
	MaxConstantSlots uint32
}

// Allocator is a linear-scan register allocator for one function at a time.
// It is not safe for concurrent use; Reset recycles it between functions.
type Allocator struct {
	cfg      AllocatorConfig
	regInfo  *RegisterInfo
	liveness Liveness

	// arena owns every LifeInterval record; the queues borrow.
	arena mizuvoapi.Pool[LifeInterval]

	general pendingIntervals
	vector  pendingIntervals
	working workingIntervals

	regMap registerMap
	// regsUsePositions is the per-regalloc-index fold of first conflicting
	// use positions, reused across selections.
	regsUsePositions []LifeNumber

	stackSlots stackSlotTable
	constants  constantTable

	success bool
}

// NewAllocator returns an Allocator for the given target description and
// liveness collaborator.
func NewAllocator(info *RegisterInfo, liveness Liveness, cfg AllocatorConfig) *Allocator {
	a := &Allocator{
		cfg:      cfg,
		regInfo:  info,
		liveness: liveness,
		arena:    mizuvoapi.NewPool[LifeInterval](resetLifeInterval),
		success:  true,
	}
	a.general.fixed = make([]*LifeInterval, regMaskBits)
	a.vector.fixed = make([]*LifeInterval, regMaskBits)
	a.stackSlots.reset(cfg.MaxStackSlots)
	a.constants.reset(cfg.MaxConstantSlots)
	return a
}

// Reset makes the allocator reusable for the next function. Every interval
// obtained from NewInterval becomes invalid.
func (a *Allocator) Reset() {
	a.arena.Reset()
	a.general.clear()
	a.vector.clear()
	a.working.clear()
	a.stackSlots.reset(a.cfg.MaxStackSlots)
	a.constants.reset(a.cfg.MaxConstantSlots)
	a.success = true
}

// NewInterval allocates an interval record owned by this allocator. The
// liveness side populates it and submits it through PrepareInterval.
func (a *Allocator) NewInterval(file RegFile) *LifeInterval {
	li := a.arena.Allocate()
	li.file = file
	return li
}

func (a *Allocator) pendingOf(file RegFile) *pendingIntervals {
	if file == RegFileFloat {
		return &a.vector
	}
	return &a.general
}

// PrepareInterval classifies one interval into its starting queue. Intervals
// that need no location of their own (no destination, multiple destinations,
// the accumulator, the zero register) are dropped here.
func (a *Allocator) PrepareInterval(li *LifeInterval) {
	pending := a.pendingOf(li.file)

	if li.IsPhysical() {
		reg := li.Reg()
		if pending.fixed[reg] != nil {
			panic(fmt.Sprintf("BUG: second fixed interval for %s", reg))
		}
		if li.HasInst() {
			panic("BUG: physical interval carries an instruction")
		}
		pending.fixed[reg] = li
		return
	}

	if !li.HasInst() {
		pending.regular.insert(li)
		return
	}

	acc := a.regInfo.AccumulatorReg
	if li.Inst().DstCount() != 1 || (acc != RegInvalid && li.Reg() == acc) {
		return
	}

	if li.IsPreassigned() && a.regInfo.ZeroReg != RegInvalid && li.Reg() == a.regInfo.ZeroReg {
		return
	}

	pending.regular.insert(li)
}

// Allocate assigns a location to every prepared interval: the integer file
// first, then the float/vector file. On false, partial assignments are not
// valid and the caller must discard them.
func (a *Allocator) Allocate() bool {
	a.assignLocations(RegFileInt)
	a.assignLocations(RegFileFloat)
	return a.success
}

func (a *Allocator) assignLocations(file RegFile) {
	pending := a.pendingOf(file)
	if pending.regular.empty() {
		return
	}

	a.working.clear()
	var priority Reg
	if a.cfg.Arch != ArchNone {
		priority = a.regInfo.FirstCalleeSaved[file]
	}
	mask := a.regInfo.AllocatableRegisters[file]
	a.regMap.setMask(mask, priority, a.regInfo)
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("%s file registers: %s, priority %s\n", file, mask.format(a.regInfo, file), priority)
	}

	n := a.regMap.availableRegsCount()
	if cap(a.regsUsePositions) < n {
		a.regsUsePositions = make([]LifeNumber, n)
	} else {
		a.regsUsePositions = a.regsUsePositions[:n]
	}

	a.addFixedIntervalsToWorking(file)
	a.preprocessPreassignedIntervals(file)

	for !pending.regular.empty() && a.success {
		position := pending.regular.front().Begin()
		a.expireIntervals(position)
		a.walkIntervals(file)
		if mizuvoapi.RegAllocValidationEnabled {
			a.validateWorking(position)
		}
	}
	a.remapRegistersIntervals()
}

// addFixedIntervalsToWorking remaps the physical intervals of this file to
// regalloc indices and installs them into the working fixed vector, which C8
// consults by regalloc index throughout the pass.
func (a *Allocator) addFixedIntervalsToWorking(file RegFile) {
	n := a.regMap.availableRegsCount()
	if cap(a.working.fixed) < n {
		a.working.fixed = make([]*LifeInterval, n)
	} else {
		a.working.fixed = a.working.fixed[:n]
		for i := range a.working.fixed {
			a.working.fixed[i] = nil
		}
	}
	for _, fixed := range a.pendingOf(file).fixed {
		if fixed == nil {
			continue
		}
		reg := a.regMap.codegenToRegallocReg(fixed.Reg())
		if reg == RegInvalid {
			panic(fmt.Sprintf("BUG: fixed interval for %s outside the register mask", fixed.Reg()))
		}
		fixed.setReg(reg)
		a.working.fixed[reg] = fixed
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("fixed interval for %s: %s\n", reg, fixed)
		}
	}
}

func (a *Allocator) preprocessPreassignedIntervals(file RegFile) {
	acc := a.regInfo.AccumulatorReg
	for _, li := range a.pendingOf(file).regular.items {
		if !li.IsPreassigned() || li.IsSplitSibling() || (acc != RegInvalid && li.Reg() == acc) {
			continue
		}
		reg := a.regMap.codegenToRegallocReg(li.Reg())
		if reg == RegInvalid {
			panic(fmt.Sprintf("BUG: preassigned register %s outside the register mask", li.Reg()))
		}
		li.SetPreassignedReg(reg)
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("preassigned interval %s\n", li)
		}
	}
}

// expireIntervals frees registers held by intervals that ended before the
// current position, and migrates intervals between active and inactive when
// the position enters or leaves a hole in their live range.
func (a *Allocator) expireIntervals(current LifeNumber) {
	w := &a.working

	n := 0
	for _, li := range w.active.items {
		switch {
		case !li.HasReg() || li.End() <= current:
			w.handled = append(w.handled, li)
		case !li.Covers(current):
			w.inactive.insert(li)
		default:
			w.active.items[n] = li
			n++
		}
	}
	w.active.items = w.active.items[:n]

	n = 0
	for _, li := range w.inactive.items {
		switch {
		case !li.HasReg() || li.End() <= current:
			w.handled = append(w.handled, li)
		case li.Covers(current):
			w.active.insert(li)
		default:
			w.inactive.items[n] = li
			n++
		}
	}
	w.inactive.items = w.inactive.items[:n]

	n = 0
	for _, li := range w.stack {
		if li.End() <= current {
			loc := li.Location()
			if !loc.IsStackSlot() {
				panic(fmt.Sprintf("BUG: stack queue entry at %s", loc))
			}
			a.stackSlots.release(loc.StackSlot(), a.slotCount(li))
			continue
		}
		w.stack[n] = li
		n++
	}
	w.stack = w.stack[:n]
}

// walkIntervals processes the front of the regular queue.
func (a *Allocator) walkIntervals(file RegFile) {
	current := a.pendingOf(file).regular.popFront()
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("----------------\nprocess interval %s\n", current)
	}

	// A parameter passed in a stack slot stays in that slot; the value may
	// only migrate out at its first use.
	if current.Location().IsStackParameter() {
		if !current.HasInst() || !current.Inst().IsParameter() {
			panic("BUG: stack-parameter location on a non-parameter interval")
		}
		nextUse := current.NextUse(current.Begin() + 1)
		a.splitBeforeUse(file, current, nextUse)
		return
	}

	if !current.HasReg() {
		if !a.tryToAssignRegister(file, current) {
			if mizuvoapi.RegAllocLoggingEnabled {
				fmt.Printf("no available registers for %s\n", current)
			}
			a.success = false
			return
		}
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("%s was assigned to the interval %s\n", current.Location(), current)
		}
	} else {
		if !current.IsPreassigned() {
			panic("BUG: walked interval holds a register but is not preassigned")
		}
		if !a.isIntervalRegFree(current, current.Reg()) {
			a.splitAndSpill(file, &a.working.active, current)
			a.splitAndSpill(file, &a.working.inactive, current)
		}
	}

	a.handleFixedIntervalIntersection(file, current)
	a.working.active.insert(current)
}

func (a *Allocator) tryToAssignRegister(file RegFile, current *LifeInterval) bool {
	if reg := a.getSuitableRegister(current); reg != RegInvalid {
		current.setReg(reg)
		return true
	}

	// Try to take over a blocked register.
	blockedReg, nextBlockedUse := a.getBlockedRegister(current)
	nextUse := current.NextUse(current.Begin())

	// Spill the current interval if its first use comes later than the use
	// of the blocked register.
	if blockedReg != RegInvalid && nextBlockedUse < nextUse && !a.isNonSpillableConstInterval(current) {
		a.splitBeforeUse(file, current, nextUse)
		a.assignStackSlot(current)
		return true
	}

	// A blocked register that will be used in the very next position must
	// not be reassigned.
	if blockedReg == RegInvalid || nextBlockedUse < current.Begin()+lifeNumberGap {
		return false
	}

	current.setReg(blockedReg)
	a.splitAndSpill(file, &a.working.active, current)
	a.splitAndSpill(file, &a.working.inactive, current)
	return true
}

// getSuitableRegister prefers the hint register of the next fixed-location
// use; failing that, any register free across the interval.
func (a *Allocator) getSuitableRegister(current *LifeInterval) Reg {
	if !current.HasInst() {
		return a.getFreeRegister(current)
	}
	if hint := a.liveness.NextUseOnFixedLocation(current.Inst(), current.Begin()); hint != RegInvalid {
		reg := a.regMap.codegenToRegallocReg(hint)
		if reg != RegInvalid && a.regMap.isRegAvailable(reg, a.cfg.Arch) && a.isIntervalRegFree(current, reg) {
			if mizuvoapi.RegAllocLoggingEnabled {
				fmt.Printf("hint register %s is available\n", reg)
			}
			return reg
		}
	}
	return a.getFreeRegister(current)
}

// enumerateIntersectedIntervals calls fn with each interval that holds a
// regalloc register and intersects current, passing the first intersection.
func (a *Allocator) enumerateIntersectedIntervals(items []*LifeInterval, current *LifeInterval, fn func(*LifeInterval, LifeNumber)) {
	count := a.regMap.availableRegsCount()
	for _, li := range items {
		if li == nil || int(li.Reg()) >= count {
			continue
		}
		if x := li.FirstIntersectionWith(current, 0); x.IsValid() {
			fn(li, x)
		}
	}
}

// setFixedUsage folds a fixed interval's intersection into the use-position
// array, exempting the clobber range of the call that defines current: when
// the intersection sits at current's begin and the fixed range containing it
// starts right there, current is the call's definition and may land in the
// clobbered register at that very instant. The range-start check matters: an
// intersection merely equal to current's begin also happens on loop
// back-edges, where the register must stay blocked.
func (a *Allocator) setFixedUsage(current *LifeInterval) func(*LifeInterval, LifeNumber) {
	return func(li *LifeInterval, intersection LifeNumber) {
		if intersection == current.Begin() {
			r, ok := li.FindRangeCovering(intersection)
			if !ok {
				panic("BUG: fixed intersection outside the fixed interval's ranges")
			}
			if r.Begin == intersection {
				return
			}
		}
		a.regsUsePositions[li.Reg()] = intersection
	}
}

func (a *Allocator) fillUsePositions() {
	for i := range a.regsUsePositions {
		a.regsUsePositions[i] = lifeNumberMax
	}
}

// maxUsePosition returns the first regalloc index holding the maximum fold
// value. First-max selection is what makes the priority rotation of the
// register map prefer callee-saved registers on ties.
func (a *Allocator) maxUsePosition() (Reg, LifeNumber) {
	best, bestPos := RegInvalid, LifeNumber(0)
	for i, p := range a.regsUsePositions {
		if best == RegInvalid || p > bestPos {
			best, bestPos = Reg(i), p
		}
	}
	return best, bestPos
}

// getFreeRegister returns a register not blocked by anyone crossing current,
// or RegInvalid.
func (a *Allocator) getFreeRegister(current *LifeInterval) Reg {
	a.fillUsePositions()

	a.enumerateIntersectedIntervals(a.working.fixed, current, a.setFixedUsage(current))
	a.enumerateIntersectedIntervals(a.working.inactive.items, current, func(li *LifeInterval, intersection LifeNumber) {
		p := &a.regsUsePositions[li.Reg()]
		*p = minLifeNumber(intersection, *p)
	})
	count := a.regMap.availableRegsCount()
	for _, li := range a.working.active.items {
		if int(li.Reg()) >= count {
			continue
		}
		a.regsUsePositions[li.Reg()] = 0
	}

	a.blockOverlappedRegisters(current)

	reg, pos := a.maxUsePosition()
	// The register is free only if it stays clear for the whole interval.
	if reg == RegInvalid || pos < current.End() {
		return RegInvalid
	}
	return reg
}

// getBlockedRegister returns the register whose next use is furthest away,
// together with that use position.
func (a *Allocator) getBlockedRegister(current *LifeInterval) (Reg, LifeNumber) {
	// Taking over blocked registers is impossible in bytecode mode.
	if a.cfg.BytecodeMode {
		return RegInvalid, LifeNumberInvalid
	}

	a.fillUsePositions()

	a.enumerateIntersectedIntervals(a.working.fixed, current, a.setFixedUsage(current))
	a.enumerateIntersectedIntervals(a.working.inactive.items, current, func(li *LifeInterval, intersection LifeNumber) {
		p := &a.regsUsePositions[li.Reg()]
		*p = minLifeNumber(li.NextUse(intersection), *p)
	})
	count := a.regMap.availableRegsCount()
	for _, li := range a.working.active.items {
		if int(li.Reg()) >= count {
			continue
		}
		p := &a.regsUsePositions[li.Reg()]
		*p = minLifeNumber(li.NextUse(current.Begin()), *p)
	}

	a.blockOverlappedRegisters(current)
	a.blockSiblingProjections(current)

	reg, _ := a.maxUsePosition()
	if reg == RegInvalid {
		return RegInvalid, LifeNumberInvalid
	}
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("selected blocked %s with next use position %d\n", reg, a.regsUsePositions[reg])
	}
	return reg, a.regsUsePositions[reg]
}

// blockOverlappedRegisters blocks the fixed locations of the instruction a
// synthetic temp interval belongs to; the temp must not shadow them.
func (a *Allocator) blockOverlappedRegisters(current *LifeInterval) {
	if current.HasInst() {
		return
	}
	a.liveness.EnumerateFixedLocationsOverlappingTemp(current, func(cg Reg) {
		reg := a.regMap.codegenToRegallocReg(cg)
		if reg != RegInvalid && a.regMap.isRegAvailable(reg, a.cfg.Arch) {
			a.regsUsePositions[reg] = 0
		}
	})
}

// blockSiblingProjections keeps two projections of one multi-output
// instruction out of the same register: the projection immediately preceding
// current must keep its register for itself.
func (a *Allocator) blockSiblingProjections(current *LifeInterval) {
	if !current.HasInst() {
		return
	}
	source := current.Inst().MultiOutputSource()
	if source == nil {
		return
	}
	count := a.regMap.availableRegsCount()
	for _, li := range a.working.active.items {
		if !li.HasInst() || int(li.Reg()) >= count {
			continue
		}
		if li.Inst().MultiOutputSource() == source && li.Begin()+lifeNumberGap == current.Begin() {
			a.regsUsePositions[li.Reg()] = 0
		}
	}
}

// isIntervalRegFree reports whether reg is free across the whole of current:
// no active holder, no intersecting inactive holder, and no fixed range
// intersecting before current's second position.
func (a *Allocator) isIntervalRegFree(current *LifeInterval, reg Reg) bool {
	if int(reg) < len(a.working.fixed) {
		if fixed := a.working.fixed[reg]; fixed != nil {
			if fixed.FirstIntersectionWith(current, 0) < current.Begin()+lifeNumberGap {
				return false
			}
		}
	}
	for _, li := range a.working.inactive.items {
		if li.Reg() == reg && li.FirstIntersectionWith(current, 0).IsValid() {
			return false
		}
	}
	for _, li := range a.working.active.items {
		if li.Reg() == reg {
			return false
		}
	}
	return true
}

// splitAndSpill splits every interval in the queue that shares current's
// register and intersects it.
func (a *Allocator) splitAndSpill(file RegFile, queue *intervalQueue, current *LifeInterval) {
	for _, li := range queue.items {
		if li.Reg() != current.Reg() || !li.FirstIntersectionWith(current, 0).IsValid() {
			continue
		}
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("conflicting interval %s\n", li)
		}
		a.splitActiveInterval(file, li, current.Begin())
	}
}

// splitActiveInterval splits an interval that loses its register at pos into
// three parts [head | spilled | tail]: the head keeps the register, the
// spilled middle gets a stack slot, and the tail from the next use on is
// re-enqueued for a fresh assignment. When no use precedes pos there is
// nothing for the head to hold, so the whole interval is spilled instead; the
// same happens when the interval begins at pos.
func (a *Allocator) splitActiveInterval(file RegFile, li *LifeInterval, pos LifeNumber) {
	a.beforeConstantIntervalSpill(li, pos)
	prevUse := li.PrevUse(pos)
	nextUse := li.NextUse(pos + 1)
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("prev use position %d, next use position %d\n", prevUse, nextUse)
	}

	splitPos := pos
	if splitPos.isBlockBoundary() {
		splitPos--
	}
	if splitPos <= li.Begin() {
		// Rounding down landed on the interval's begin; keep the smallest
		// head that still covers the use at the definition.
		splitPos = pos
	}

	split := li
	if !prevUse.IsValid() || splitPos <= li.Begin() {
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("spill the whole interval %s\n", li)
		}
		li.ClearLocation()
	} else {
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("split interval %s at position %d\n", li, splitPos)
		}
		split = li.SplitAt(splitPos, &a.arena)
	}
	a.splitBeforeUse(file, split, nextUse)
	a.assignStackSlot(split)
}

// splitBeforeUse splits the interval at the boundary preceding usePos and
// re-enqueues the tail. No-op when there is no use.
func (a *Allocator) splitBeforeUse(file RegFile, li *LifeInterval, usePos LifeNumber) {
	if !usePos.IsValid() {
		return
	}
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("split at %d\n", usePos-1)
	}
	split := li.SplitAt(usePos-1, &a.arena)
	a.addToQueue(file, split)
}

func (a *Allocator) addToQueue(file RegFile, li *LifeInterval) {
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("add to the queue: %s\n", li)
	}
	a.pendingOf(file).regular.insert(li)
}

// handleFixedIntervalIntersection resolves a collision between the register
// just assigned to current and the fixed (preassigned or call-clobber)
// interval on the same register.
func (a *Allocator) handleFixedIntervalIntersection(file RegFile, current *LifeInterval) {
	if !current.HasReg() {
		return
	}
	reg := current.Reg()
	if int(reg) >= len(a.working.fixed) || a.working.fixed[reg] == nil {
		return
	}
	fixed := a.working.fixed[reg]
	intersection := current.FirstIntersectionWith(fixed, 0)
	if intersection == current.Begin() {
		// Current can intersect the fixed interval at the very beginning of
		// its live range only when it is the definition of the call the
		// clobber range was created for. Look for the first intersection
		// beyond that range.
		intersection = current.FirstIntersectionWith(fixed, intersection+1)
	}
	if !intersection.IsValid() {
		return
	}
	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("intersection with fixed interval at %d\n", intersection)
	}

	if current.HasInst() && a.liveness.HasUseOnFixedLocation(current.Inst(), intersection) {
		// The instruction is used at the intersection position: split before
		// that use.
		a.splitBeforeUse(file, current, intersection)
		return
	}

	a.beforeConstantIntervalSpill(current, intersection)
	if lastUse := current.LastUseBefore(intersection); lastUse.IsValid() {
		// Split after the last use before the intersection.
		a.splitBeforeUse(file, current, lastUse+lifeNumberGap)
		return
	}

	// No use before the intersection: the head has nothing to hold, so it
	// goes to the stack and the tail is re-enqueued from the next use.
	nextUse := current.NextUse(intersection)
	current.ClearLocation()
	a.splitBeforeUse(file, current, nextUse)
	a.assignStackSlot(current)
}

func (a *Allocator) slotCount(li *LifeInterval) uint32 {
	if a.cfg.Arch.Is32Bit() && li.wide {
		return 2
	}
	return 1
}

// assignStackSlot parks the interval: constants go to the immediate table
// when rematerialization is on and slots remain, everything else to the next
// free stack slot. Exhaustion of the stack records allocation failure.
func (a *Allocator) assignStackSlot(li *LifeInterval) {
	if li.Location().IsStackSlot() {
		panic("BUG: interval already on the stack")
	}
	if li.IsPhysical() {
		panic("BUG: physical interval passed to stack-slot assignment")
	}
	if mizuvoapi.RegAllocValidationEnabled && !li.HasInst() {
		panic("BUG: temp interval spilled to the stack")
	}

	if a.cfg.RematConstants && li.HasInst() && li.Inst().IsConst() {
		if slot, ok := a.constants.assign(li.Inst()); ok {
			li.SetLocation(MakeConstantLocation(slot))
			if mizuvoapi.RegAllocLoggingEnabled {
				fmt.Printf("%s was assigned to the interval %s\n", li.Location(), li)
			}
			return
		}
	}

	if slot, ok := a.stackSlots.acquire(a.slotCount(li)); ok {
		li.SetLocation(MakeStackSlotLocation(slot))
		if mizuvoapi.RegAllocLoggingEnabled {
			fmt.Printf("%s was assigned to the interval %s\n", li.Location(), li)
		}
		a.working.stack = append(a.working.stack, li)
		return
	}

	if mizuvoapi.RegAllocLoggingEnabled {
		fmt.Printf("there are no available stack slots\n")
	}
	a.success = false
}

// isNonSpillableConstInterval reports whether the interval is a constant
// that can be neither rematerialized (immediate table full) nor spilled to
// the stack.
func (a *Allocator) isNonSpillableConstInterval(li *LifeInterval) bool {
	if li.IsSplitSibling() || li.IsPhysical() {
		return false
	}
	return li.HasInst() && li.Inst().IsConst() && a.cfg.RematConstants &&
		!a.constants.contains(li.Inst()) && !a.constants.hasCapacity()
}

// beforeConstantIntervalSpill guards non-spillable constants about to be
// split. With rematerialization enabled, constant intervals have no use at
// their definition; if no immediate slot is left the whole interval would be
// spilled, which such a constant cannot survive. Prepending a use at the
// beginning forces the split policy into the split-at-a-use path, keeping a
// register at least at the definition site.
func (a *Allocator) beforeConstantIntervalSpill(li *LifeInterval, splitPos LifeNumber) {
	if !a.isNonSpillableConstInterval(li) {
		return
	}
	if li.PrevUse(splitPos).IsValid() {
		return
	}
	li.PrependUse(li.Begin())
}

func (a *Allocator) remapRegallocReg(li *LifeInterval) {
	if li.HasReg() {
		li.setReg(a.regMap.regallocToCodegenReg(li.Reg()))
	}
}

// remapRegistersIntervals translates every surviving regalloc index back to
// its codegen register number.
func (a *Allocator) remapRegistersIntervals() {
	for _, li := range a.working.handled {
		a.remapRegallocReg(li)
	}
	for _, li := range a.working.active.items {
		a.remapRegallocReg(li)
	}
	for _, li := range a.working.inactive.items {
		a.remapRegallocReg(li)
	}
	for _, li := range a.working.fixed {
		if li != nil {
			a.remapRegallocReg(li)
		}
	}
}

// validateWorking checks the inter-step invariants of the working queues.
func (a *Allocator) validateWorking(current LifeNumber) {
	w := &a.working

	var held RegMask
	for i, li := range w.active.items {
		if i > 0 && w.active.items[i-1].Begin() > li.Begin() {
			panic("BUG: active queue out of order")
		}
		if !li.HasReg() || li.End() <= current {
			continue // expired, collected on the next expiration pass
		}
		if held.has(li.Reg()) {
			panic(fmt.Sprintf("BUG: register %s held twice in active", li.Reg()))
		}
		held = held.add(li.Reg())

		if li.IsPhysical() || int(li.Reg()) >= len(w.fixed) {
			continue
		}
		if fixed := w.fixed[li.Reg()]; fixed != nil {
			x := li.FirstIntersectionWith(fixed, 0)
			if x.IsValid() && x != li.Begin() && x <= current {
				panic(fmt.Sprintf("BUG: active %s overlaps fixed interval at %d", li, x))
			}
		}
	}

	for i, li := range w.inactive.items {
		if i > 0 && w.inactive.items[i-1].Begin() > li.Begin() {
			panic("BUG: inactive queue out of order")
		}
		if !li.HasReg() || li.End() <= current {
			continue
		}
		if li.Covers(current) {
			panic(fmt.Sprintf("BUG: inactive %s covers position %d", li, current))
		}
	}

	for _, li := range w.stack {
		loc := li.Location()
		if !loc.IsStackSlot() {
			panic(fmt.Sprintf("BUG: stack queue entry located at %s", loc))
		}
		if !a.stackSlots.isLive(loc.StackSlot()) {
			panic(fmt.Sprintf("BUG: stack queue entry in released slot %d", loc.StackSlot()))
		}
	}
}
