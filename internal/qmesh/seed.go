package qmesh

// SeedQueues computes an initial cost for every live edge and pushes an Op
// into its owning partition's heap (spec.md §2 row E/F, "seed per-edge costs
// into partitioned heaps").
func (m *Mesh) SeedQueues() {
	for i := 0; i < m.Edges.len(); i++ {
		e := m.Edges.get(uint32(i))
		if e.Retired {
			continue
		}
		m.assignEdgePartition(e)
		m.seedOne(EdgeHandle(i), e)
	}
}

func (m *Mesh) seedOne(eh EdgeHandle, e *Edge) {
	cost, penalty, point, _ := m.edgeCost(e, &m.Cfg)
	e.Cost, e.Penalty, e.Point = cost, penalty, point

	idx, ok := m.Ops.alloc()
	if !ok {
		return
	}
	op := m.Ops.get(idx)
	op.Edge = eh
	op.Cost = cost
	op.Point = [3]float64{point.X, point.Y, point.Z}
	op.Stale = false
	op.heapIdx = -1
	e.Op = OpHandle(idx)

	m.Partitions[e.Partition].Heap.push(op)
}

// requeueEdge recomputes an edge's cost after its neighborhood changed and
// either reuses its existing Op (if still heaped, just updates priority) or
// allocates a fresh one, per spec.md §4.G step 4.
func (m *Mesh) requeueEdge(eh EdgeHandle) {
	e := m.Edges.get(uint32(eh))
	if e.Retired {
		return
	}
	m.assignEdgePartition(e)
	cost, penalty, point, _ := m.edgeCost(e, &m.Cfg)
	e.Cost, e.Penalty, e.Point = cost, penalty, point
	e.Flags &^= EdgeInvalidated

	if e.Op.Valid() {
		op := m.Ops.get(uint32(e.Op))
		if op.Edge == eh {
			h := m.Partitions[e.Partition].Heap
			if op.heapIdx < 0 || (op.heapIdx < h.Len() && h.items[op.heapIdx] == op) {
				op.Stale = false
				op.Point = [3]float64{point.X, point.Y, point.Z}
				h.update(op, cost)
				return
			}
			// Still heaped in the edge's previous partition: leave that entry
			// stale there and queue a fresh op in the current partition.
			op.Stale = true
		}
	}

	idx, ok := m.Ops.alloc()
	if !ok {
		return
	}
	op := m.Ops.get(idx)
	op.Edge = eh
	op.Cost = cost
	op.Point = [3]float64{point.X, point.Y, point.Z}
	op.Stale = false
	op.heapIdx = -1
	e.Op = OpHandle(idx)
	m.Partitions[e.Partition].Heap.push(op)
}

// markStale flags e's queued operation stale without touching the heap; a
// stale op is discarded the next time it is popped (spec.md §3 Operation).
func (m *Mesh) markStale(eh EdgeHandle) {
	e := m.Edges.get(uint32(eh))
	if e.Op.Valid() {
		m.Ops.get(uint32(e.Op)).Stale = true
	}
	e.Flags |= EdgeInvalidated
}
