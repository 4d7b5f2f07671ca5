package qmesh

import (
	"sync"
	"sync/atomic"
)

// RunResult carries what the caller needs to report progress and honor
// cancellation after the parallel collapse phase finishes.
type RunResult struct {
	StepsRun int
	Canceled bool
}

// Run drives the syncstep-ramped parallel collapse loop of spec.md §4.H.
// threadCount workers, plus this goroutine acting as coordinator, process
// partitions in lockstep syncsteps separated by a barrier; onStep, if
// non-nil, is called after each syncstep's barrier with the step index and
// the live triangle count, for progress reporting (spec.md §4.J). cancel, if
// non-nil, is polled at each barrier (spec.md §5 Cancellation).
func (m *Mesh) Run(threadCount int, cancel func() bool, onStep func(step, syncStepCount int, liveTriangles, liveVertices int64)) RunResult {
	if threadCount < 1 {
		threadCount = 1
	}
	m.Partitions = m.buildPartitions(threadCount)
	m.SeedQueues()

	buckets := distributePartitions(m.Partitions, threadCount)

	raisedCeiling := false
	abort := m.Cfg.SyncStepAbort
	if abort < m.Cfg.SyncStepCount {
		abort = m.Cfg.SyncStepCount
	}

	step := 0
	for ; step < abort; step++ {
		if cancel != nil && cancel() {
			return RunResult{StepsRun: step, Canceled: true}
		}

		ceiling := m.syncStepCeiling(step)

		var wg sync.WaitGroup
		for _, bucket := range buckets {
			wg.Add(1)
			go func(parts []*Partition) {
				defer wg.Done()
				for _, p := range parts {
					m.runPartitionStep(p, ceiling)
				}
			}(bucket)
		}
		wg.Wait()

		m.drainDeferred()

		if onStep != nil {
			onStep(step, m.Cfg.SyncStepCount, atomic.LoadInt64(&m.stats.LiveTriangleCount), atomic.LoadInt64(&m.stats.LiveVertexCount))
		}

		pastWall := step+1 >= m.Cfg.SyncStepCount
		if m.Cfg.TargetVertexCountMax <= 0 {
			if pastWall {
				step++
				break
			}
			continue
		}

		if int(atomic.LoadInt64(&m.stats.LiveVertexCount)) <= m.Cfg.TargetVertexCountMax {
			step++
			break
		}
		if pastWall && !raisedCeiling {
			m.Cfg.MaxCollapseAcceptCost = FailValue
			raisedCeiling = true
		}
	}

	return RunResult{StepsRun: step}
}

// syncStepCeiling is maxcost_i = maxcollapsecost · (i/syncstepcount)²
// (spec.md §4.H). Past i = syncstepcount, which only a target-vertex-count
// run reaches, the ramp keeps climbing, so ops costlier than maxcollapsecost
// become acceptable in later steps.
func (m *Mesh) syncStepCeiling(i int) float64 {
	n := m.Cfg.SyncStepCount
	if n <= 0 {
		n = 1
	}
	ratio := float64(i) / float64(n)
	return m.Cfg.MaxCollapseCost() * ratio * ratio
}

// distributePartitions assigns partitions to worker buckets round-robin so
// that each worker gets partitionFanout-ish leaves, per spec.md §4.F "each
// worker owns one or more partitions".
func distributePartitions(partitions []*Partition, threadCount int) [][]*Partition {
	buckets := make([][]*Partition, threadCount)
	for i, p := range partitions {
		w := i % threadCount
		buckets[w] = append(buckets[w], p)
	}
	return buckets
}

// runPartitionStep pops p's min operation while its cost stays within
// ceiling, executing same-partition collapses directly and handing
// cross-partition ones to the deferred queue (spec.md §4.H).
func (m *Mesh) runPartitionStep(p *Partition, ceiling float64) {
	for {
		cost, ok := p.Heap.peekMin()
		if !ok || cost > ceiling {
			return
		}
		op := p.Heap.popMin()
		if op == nil {
			return
		}
		if op.Stale {
			continue
		}
		eh := op.Edge
		e := m.Edges.get(uint32(eh))
		if e.Retired {
			continue
		}
		if !m.touchesOnlyPartition(e, p.ID) {
			e.Flags |= EdgeCrossBoundary
			p.Deferred = append(p.Deferred, eh)
			continue
		}
		m.tryCollapse(op)
	}
}

// touchesOnlyPartition reports whether every live triangle incident to
// either endpoint of e belongs to partition partID. A collapse may only run
// without cross-partition locking if this holds (spec.md §4.F/§5).
func (m *Mesh) touchesOnlyPartition(e *Edge, partID int) bool {
	return m.vertexWithinPartition(e.V0, partID) && m.vertexWithinPartition(e.V1, partID)
}

func (m *Mesh) vertexWithinPartition(v VertexHandle, partID int) bool {
	vert := m.Vertices.get(uint32(v))
	for _, th := range vert.Incident {
		t := m.Triangles.get(uint32(th))
		if t.Retired {
			continue
		}
		if t.Partition != partID {
			return false
		}
	}
	return true
}

// drainDeferred is the syncstep barrier: the coordinator (this goroutine,
// single-threaded at this point since all workers have joined via wg.Wait)
// executes every deferred cross-partition operation serially, by owning
// partition in ascending ID order, which is a fixed, reproducible order
// (spec.md §4.H "drains deferred operations serially ... by a fixed owner").
func (m *Mesh) drainDeferred() {
	for _, p := range m.Partitions {
		for _, eh := range p.Deferred {
			e := m.Edges.get(uint32(eh))
			if e.Retired {
				continue
			}
			if !e.Op.Valid() {
				continue
			}
			op := m.Ops.get(uint32(e.Op))
			if op.Edge != eh {
				continue
			}
			m.tryCollapse(op)
		}
		p.Deferred = p.Deferred[:0]
	}
}
