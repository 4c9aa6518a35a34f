package regalloc

import "sort"

// intervalQueue is a list of intervals kept sorted by Begin ascending.
// Insertion is stable: a new interval goes after existing ones with the same
// Begin, so split tails re-enter the queue in arrival order.
type intervalQueue struct {
	items []*LifeInterval
}

func (q *intervalQueue) insert(li *LifeInterval) {
	begin := li.Begin()
	i := sort.Search(len(q.items), func(k int) bool { return q.items[k].Begin() > begin })
	q.items = append(q.items, nil)
	copy(q.items[i+1:], q.items[i:])
	q.items[i] = li
}

func (q *intervalQueue) empty() bool {
	return len(q.items) == 0
}

func (q *intervalQueue) front() *LifeInterval {
	return q.items[0]
}

func (q *intervalQueue) popFront() *LifeInterval {
	li := q.items[0]
	copy(q.items, q.items[1:])
	q.items = q.items[:len(q.items)-1]
	return li
}

func (q *intervalQueue) clear() {
	q.items = q.items[:0]
}

// pendingIntervals receives intervals from the pre-pass: regular ones waiting
// to be walked, and physical (fixed) ones indexed by codegen register.
type pendingIntervals struct {
	regular intervalQueue
	fixed   []*LifeInterval
}

func (p *pendingIntervals) clear() {
	p.regular.clear()
	for i := range p.fixed {
		p.fixed[i] = nil
	}
}

// workingIntervals is the allocation-time state of one register file pass.
// active/inactive are sorted by Begin; fixed is indexed by regalloc register.
// An interval lives in at most one of active/inactive/handled, plus stack
// while it owns a spill slot.
type workingIntervals struct {
	active   intervalQueue
	inactive intervalQueue
	stack    []*LifeInterval
	handled  []*LifeInterval
	fixed    []*LifeInterval
}

func (w *workingIntervals) clear() {
	w.active.clear()
	w.inactive.clear()
	w.stack = w.stack[:0]
	w.handled = w.handled[:0]
	w.fixed = w.fixed[:0]
}
