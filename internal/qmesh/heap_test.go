package qmesh

import "testing"

func TestPartitionHeap_PopMinOrder(t *testing.T) {
	h := newPartitionHeap(4)
	costs := []float64{5, 1, 4, 2, 3}
	for i, c := range costs {
		op := &Op{Edge: EdgeHandle(i), Cost: c, heapIdx: -1}
		h.push(op)
	}

	var got []float64
	for h.Len() > 0 {
		got = append(got, h.popMin().Cost)
	}
	want := []float64{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order = %v, want %v", got, want)
		}
	}
}

func TestPartitionHeap_TiesBreakByEdgeHandle(t *testing.T) {
	h := newPartitionHeap(4)
	h.push(&Op{Edge: 5, Cost: 1, heapIdx: -1})
	h.push(&Op{Edge: 2, Cost: 1, heapIdx: -1})
	h.push(&Op{Edge: 9, Cost: 1, heapIdx: -1})

	first := h.popMin()
	if first.Edge != 2 {
		t.Errorf("first pop Edge = %v, want 2 (lowest handle breaks a cost tie)", first.Edge)
	}
}

func TestPartitionHeap_UpdateRepositions(t *testing.T) {
	h := newPartitionHeap(4)
	a := &Op{Edge: 1, Cost: 10, heapIdx: -1}
	b := &Op{Edge: 2, Cost: 20, heapIdx: -1}
	h.push(a)
	h.push(b)

	h.update(a, 30) // a should now sort after b
	if top := h.popMin(); top != b {
		t.Errorf("popMin() after raising a's cost = edge %v, want edge %v", top.Edge, b.Edge)
	}
}

func TestPartitionHeap_UpdateOrphanedPushesBack(t *testing.T) {
	h := newPartitionHeap(4)
	a := &Op{Edge: 1, Cost: 10, heapIdx: -1}
	h.push(a)
	popped := h.popMin()
	if popped.heapIdx != -1 {
		t.Fatalf("popMin left heapIdx = %d, want -1", popped.heapIdx)
	}

	h.update(popped, 5)
	if h.Len() != 1 {
		t.Fatalf("Len() after update on an orphaned op = %d, want 1", h.Len())
	}
	if h.popMin() != popped {
		t.Error("update on an orphaned op did not re-push it into the heap")
	}
}

func TestPartitionHeap_RemoveMidHeap(t *testing.T) {
	h := newPartitionHeap(4)
	ops := make([]*Op, 5)
	for i := range ops {
		ops[i] = &Op{Edge: EdgeHandle(i), Cost: float64(i), heapIdx: -1}
		h.push(ops[i])
	}
	h.remove(ops[2])
	if h.Len() != 4 {
		t.Fatalf("Len() after remove = %d, want 4", h.Len())
	}
	var got []float64
	for h.Len() > 0 {
		got = append(got, h.popMin().Cost)
	}
	want := []float64{0, 1, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order after removing cost=2 = %v, want %v", got, want)
		}
	}
}
