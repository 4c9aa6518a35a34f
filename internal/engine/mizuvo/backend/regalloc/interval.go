package regalloc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mizuvm/mizu/internal/engine/mizuvo/mizuvoapi"
)

type (
	// LifeInterval is the live range of one value, or one split thereof. The
	// liveness analyzer populates intervals via AppendRange/AddUse and hands
	// them to Allocator.PrepareInterval; the allocator assigns the Location.
	//
	// Intervals are arena records owned by the allocator; the queues hold
	// borrowed pointers and moving an interval between queues is a pointer
	// move.
	LifeInterval struct {
		// ranges is the non-contiguous live range, ascending and disjoint.
		ranges []LiveRange
		// uses are the positions where the value is read or defined,
		// ascending.
		uses []LifeNumber
		location Location
		// inst is nil for synthetic temp-register helpers.
		inst Instr
		file RegFile
		// physical marks a hard-register range reserved by the target. A
		// physical interval never carries instruction metadata.
		physical bool
		// preassigned marks an explicit register requirement imposed before
		// allocation (call argument, return value).
		preassigned bool
		// splitSibling marks the tail produced by a split.
		splitSibling bool
		// wide marks a 64-bit value, which occupies two consecutive stack
		// slots on 32-bit targets.
		wide bool
	}

	// LiveRange is one half-open piece [Begin, End) of a live range.
	LiveRange struct {
		Begin, End LifeNumber
	}
)

func resetLifeInterval(li *LifeInterval) {
	li.ranges = li.ranges[:0]
	li.uses = li.uses[:0]
	li.location = Location{}
	li.inst = nil
	li.file = RegFileInt
	li.physical = false
	li.preassigned = false
	li.splitSibling = false
	li.wide = false
}

func (r LiveRange) covers(pos LifeNumber) bool {
	return r.Begin <= pos && pos < r.End
}

// Begin returns the first position covered by the interval.
func (li *LifeInterval) Begin() LifeNumber {
	if len(li.ranges) == 0 {
		return LifeNumberInvalid
	}
	return li.ranges[0].Begin
}

// End returns the position one past the last covered by the interval.
func (li *LifeInterval) End() LifeNumber {
	if len(li.ranges) == 0 {
		return LifeNumberInvalid
	}
	return li.ranges[len(li.ranges)-1].End
}

// File returns the register file this interval allocates from.
func (li *LifeInterval) File() RegFile { return li.file }

// Location returns the currently assigned storage.
func (li *LifeInterval) Location() Location { return li.location }

// SetLocation pins the interval's storage. The liveness side uses this to
// place entry parameters; the allocator owns it afterwards.
func (li *LifeInterval) SetLocation(loc Location) { li.location = loc }

// ClearLocation drops the assigned storage.
func (li *LifeInterval) ClearLocation() { li.location = Location{} }

// HasReg returns true if the interval currently holds a register.
func (li *LifeInterval) HasReg() bool { return li.location.IsRegister() }

// Reg returns the held register, or RegInvalid.
func (li *LifeInterval) Reg() Reg { return li.location.Reg() }

func (li *LifeInterval) setReg(r Reg) { li.location = MakeRegisterLocation(r) }

// SetPreassignedReg pins the interval to the given codegen register before
// allocation begins.
func (li *LifeInterval) SetPreassignedReg(r Reg) {
	li.setReg(r)
	li.preassigned = true
}

// SetPhysicalReg turns the interval into a fixed range of the given codegen
// register (an architectural reservation or a call clobber).
func (li *LifeInterval) SetPhysicalReg(r Reg) {
	li.setReg(r)
	li.physical = true
}

// HasInst returns true if the interval is attached to an IR instruction;
// synthetic temp-register helpers are not.
func (li *LifeInterval) HasInst() bool { return li.inst != nil }

// Inst returns the owning instruction, nil for temp helpers.
func (li *LifeInterval) Inst() Instr { return li.inst }

// SetInst attaches the owning instruction.
func (li *LifeInterval) SetInst(inst Instr) { li.inst = inst }

// IsPhysical returns true for fixed hard-register ranges.
func (li *LifeInterval) IsPhysical() bool { return li.physical }

// IsPreassigned returns true if the register was dictated before allocation.
func (li *LifeInterval) IsPreassigned() bool { return li.preassigned }

// IsSplitSibling returns true for the tail of a prior split.
func (li *LifeInterval) IsSplitSibling() bool { return li.splitSibling }

// MarkWide flags the value as 64-bit for stack-slot sizing on 32-bit targets.
func (li *LifeInterval) MarkWide() { li.wide = true }

// IsWide reports the MarkWide flag.
func (li *LifeInterval) IsWide() bool { return li.wide }

// AppendRange extends the live range with [begin, end). Ranges must be added
// in ascending order and must not touch.
func (li *LifeInterval) AppendRange(begin, end LifeNumber) {
	if begin >= end {
		panic(fmt.Sprintf("BUG: empty live range [%d, %d)", begin, end))
	}
	if n := len(li.ranges); n > 0 && li.ranges[n-1].End > begin {
		panic(fmt.Sprintf("BUG: overlapping live range [%d, %d) after [%d, %d)",
			begin, end, li.ranges[n-1].Begin, li.ranges[n-1].End))
	}
	li.ranges = append(li.ranges, LiveRange{Begin: begin, End: end})
}

// Ranges returns the live range pieces. The slice is borrowed; callers must
// not mutate it.
func (li *LifeInterval) Ranges() []LiveRange { return li.ranges }

// AddUse records a use position, ascending.
func (li *LifeInterval) AddUse(pos LifeNumber) {
	if n := len(li.uses); n > 0 && li.uses[n-1] > pos {
		panic(fmt.Sprintf("BUG: unordered use position %d after %d", pos, li.uses[n-1]))
	}
	li.uses = append(li.uses, pos)
}

// Uses returns the use positions. The slice is borrowed; callers must not
// mutate it.
func (li *LifeInterval) Uses() []LifeNumber { return li.uses }

// PrependUse records a use position in front of every existing one.
func (li *LifeInterval) PrependUse(pos LifeNumber) {
	if len(li.uses) > 0 && li.uses[0] < pos {
		panic(fmt.Sprintf("BUG: prepended use %d after first use %d", pos, li.uses[0]))
	}
	li.uses = append(li.uses, 0)
	copy(li.uses[1:], li.uses)
	li.uses[0] = pos
}

// NextUse returns the first use position at or after from, or
// LifeNumberInvalid.
func (li *LifeInterval) NextUse(from LifeNumber) LifeNumber {
	i := sort.Search(len(li.uses), func(k int) bool { return li.uses[k] >= from })
	if i == len(li.uses) {
		return LifeNumberInvalid
	}
	return li.uses[i]
}

// PrevUse returns the last use position at or before pos, or
// LifeNumberInvalid.
func (li *LifeInterval) PrevUse(pos LifeNumber) LifeNumber {
	i := sort.Search(len(li.uses), func(k int) bool { return li.uses[k] > pos })
	if i == 0 {
		return LifeNumberInvalid
	}
	return li.uses[i-1]
}

// LastUseBefore returns the last use position strictly before pos, or
// LifeNumberInvalid. A use exactly at pos is not "before" it: the
// fixed-collision path dispatches that case through the use table instead.
func (li *LifeInterval) LastUseBefore(pos LifeNumber) LifeNumber {
	i := sort.Search(len(li.uses), func(k int) bool { return li.uses[k] >= pos })
	if i == 0 {
		return LifeNumberInvalid
	}
	return li.uses[i-1]
}

// Covers returns true if pos lies inside the live range, i.e. the interval is
// not in a hole at pos.
func (li *LifeInterval) Covers(pos LifeNumber) bool {
	_, ok := li.FindRangeCovering(pos)
	return ok
}

// FindRangeCovering returns the range containing pos.
func (li *LifeInterval) FindRangeCovering(pos LifeNumber) (LiveRange, bool) {
	i := sort.Search(len(li.ranges), func(k int) bool { return li.ranges[k].End > pos })
	if i < len(li.ranges) && li.ranges[i].covers(pos) {
		return li.ranges[i], true
	}
	return LiveRange{}, false
}

// FirstIntersectionWith returns the first position at or after from where
// both intervals are live, or LifeNumberInvalid.
func (li *LifeInterval) FirstIntersectionWith(other *LifeInterval, from LifeNumber) LifeNumber {
	i, j := 0, 0
	for i < len(li.ranges) && j < len(other.ranges) {
		a, b := li.ranges[i], other.ranges[j]
		lo := a.Begin
		if b.Begin > lo {
			lo = b.Begin
		}
		if from > lo {
			lo = from
		}
		if hi := minLifeNumber(a.End, b.End); lo < hi {
			return lo
		}
		if a.End <= b.End {
			i++
		} else {
			j++
		}
	}
	return LifeNumberInvalid
}

// SplitAt cuts the interval at pos: the receiver keeps everything before pos,
// the returned sibling owns everything from pos on, including the uses. The
// sibling inherits the instruction but starts with no storage assigned.
func (li *LifeInterval) SplitAt(pos LifeNumber, arena *mizuvoapi.Pool[LifeInterval]) *LifeInterval {
	if pos <= li.Begin() || pos >= li.End() {
		panic(fmt.Sprintf("BUG: split position %d outside (%d, %d)", pos, li.Begin(), li.End()))
	}
	tail := arena.Allocate()
	tail.file = li.file
	tail.inst = li.inst
	tail.wide = li.wide
	tail.splitSibling = true

	i := sort.Search(len(li.ranges), func(k int) bool { return li.ranges[k].End > pos })
	if r := li.ranges[i]; r.Begin < pos {
		// pos falls inside this range: the piece [pos, End) moves over.
		tail.ranges = append(tail.ranges, LiveRange{Begin: pos, End: r.End})
		tail.ranges = append(tail.ranges, li.ranges[i+1:]...)
		li.ranges[i].End = pos
		li.ranges = li.ranges[:i+1]
	} else {
		// pos falls in a hole before this range.
		tail.ranges = append(tail.ranges, li.ranges[i:]...)
		li.ranges = li.ranges[:i]
	}

	j := sort.Search(len(li.uses), func(k int) bool { return li.uses[k] >= pos })
	tail.uses = append(tail.uses, li.uses[j:]...)
	li.uses = li.uses[:j]
	return tail
}

// String implements fmt.Stringer for debugging.
func (li *LifeInterval) String() string {
	var buf strings.Builder
	if li.inst != nil {
		buf.WriteString(li.inst.String())
	} else {
		buf.WriteString("tmp")
	}
	for _, r := range li.ranges {
		fmt.Fprintf(&buf, " [%d,%d)", r.Begin, r.End)
	}
	if len(li.uses) > 0 {
		buf.WriteString(" uses{")
		for i, u := range li.uses {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(&buf, "%d", u)
		}
		buf.WriteByte('}')
	}
	fmt.Fprintf(&buf, " @%s", li.location)
	if li.physical {
		buf.WriteString(" physical")
	}
	if li.preassigned {
		buf.WriteString(" preassigned")
	}
	if li.splitSibling {
		buf.WriteString(" sibling")
	}
	return buf.String()
}
