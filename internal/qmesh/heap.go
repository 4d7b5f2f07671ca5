package qmesh

// Op is a per-edge cost+point record held in a partition's heap (spec.md §3
// Data Model: Operation). Invalidation is lazy: Stale is set when the
// underlying edge mutates, and pop discards stale entries instead of
// patching the heap in place.
type Op struct {
	Edge    EdgeHandle
	Cost    float64
	Point   [3]float64
	Stale   bool
	heapIdx int // backpointer into the owning partitionHeap.items, -1 if not heaped
}

// partitionHeap is a binary min-heap of *Op keyed by (Cost, Edge), the
// latter breaking ties deterministically so that replaying a single-threaded
// run reproduces the same pop order (spec.md §4.E, §8 Determinism).
type partitionHeap struct {
	items []*Op
}

func newPartitionHeap(capacityHint int) *partitionHeap {
	return &partitionHeap{items: make([]*Op, 0, capacityHint)}
}

func (h *partitionHeap) less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Cost != b.Cost {
		return a.Cost < b.Cost
	}
	return a.Edge < b.Edge
}

func (h *partitionHeap) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].heapIdx = i
	h.items[j].heapIdx = j
}

func (h *partitionHeap) push(op *Op) {
	op.heapIdx = len(h.items)
	h.items = append(h.items, op)
	h.siftUp(op.heapIdx)
}

// popMin removes and returns the minimum element, or nil if empty.
func (h *partitionHeap) popMin() *Op {
	if len(h.items) == 0 {
		return nil
	}
	top := h.items[0]
	last := len(h.items) - 1
	h.swap(0, last)
	top.heapIdx = -1
	h.items = h.items[:last]
	if last > 0 {
		h.siftDown(0)
	}
	return top
}

// peekMin returns, without removing, the minimum element's cost. ok is false
// if the heap is empty.
func (h *partitionHeap) peekMin() (cost float64, ok bool) {
	if len(h.items) == 0 {
		return 0, false
	}
	return h.items[0].Cost, true
}

// remove deletes op from the heap given its current backpointer.
func (h *partitionHeap) remove(op *Op) {
	i := op.heapIdx
	if i < 0 || i >= len(h.items) || h.items[i] != op {
		return
	}
	last := len(h.items) - 1
	h.swap(i, last)
	op.heapIdx = -1
	h.items = h.items[:last]
	if i < last {
		h.siftDown(i)
		h.siftUp(i)
	}
}

// update changes op's cost and repositions it.
func (h *partitionHeap) update(op *Op, newCost float64) {
	op.Cost = newCost
	if op.heapIdx < 0 {
		h.push(op)
		return
	}
	h.siftDown(op.heapIdx)
	h.siftUp(op.heapIdx)
}

func (h *partitionHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *partitionHeap) siftDown(i int) {
	n := len(h.items)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.swap(i, smallest)
		i = smallest
	}
}

func (h *partitionHeap) Len() int { return len(h.items) }
