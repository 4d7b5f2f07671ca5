package qmesh

import (
	"sort"

	"github.com/golang/geo/r3"
)

// partitionFanout is K from spec.md §4.F: each thread owns K leaves so that
// cross-partition stealing at the syncstep barrier stays rare without
// requiring a single partition per thread (which would starve a thread once
// its region finishes collapsing early).
const partitionFanout = 4

// Partition is a spatially coherent, lock-free-to-its-owner subset of
// triangles (spec.md §4.F, Glossary: Partition).
type Partition struct {
	ID        int
	Triangles []TriangleHandle
	Heap      *partitionHeap
	Deferred  []EdgeHandle // cross-boundary ops collected this syncstep, drained at the barrier
}

// buildPartitions recursively bisects the live triangles of m along the
// longest axis of their bounding box until there are threadCount*K leaves,
// then records each triangle's owning partition. Edges get theirs later,
// from assignEdgePartition.
func (m *Mesh) buildPartitions(threadCount int) []*Partition {
	leafCount := threadCount * partitionFanout
	if leafCount < 1 {
		leafCount = 1
	}

	all := make([]TriangleHandle, 0, m.Triangles.len())
	for i := 0; i < m.Triangles.len(); i++ {
		t := m.Triangles.get(uint32(i))
		if !t.Retired {
			all = append(all, TriangleHandle(i))
		}
	}

	leaves := m.bisect(all, leafCount)
	partitions := make([]*Partition, len(leaves))
	for i, tris := range leaves {
		for _, th := range tris {
			m.Triangles.get(uint32(th)).Partition = i
		}
		partitions[i] = &Partition{
			ID:        i,
			Triangles: tris,
			Heap:      newPartitionHeap(len(tris)),
		}
	}
	return partitions
}

func (m *Mesh) bisect(tris []TriangleHandle, targetLeaves int) [][]TriangleHandle {
	if targetLeaves <= 1 || len(tris) <= 1 {
		return [][]TriangleHandle{tris}
	}

	centroids := make([]r3.Vector, len(tris))
	lo, hi := r3.Vector{X: infinity, Y: infinity, Z: infinity}, r3.Vector{X: -infinity, Y: -infinity, Z: -infinity}
	for i, th := range tris {
		t := m.Triangles.get(uint32(th))
		p0, p1, p2 := m.vertexPositions(t)
		c := p0.Add(p1).Add(p2).Mul(1.0 / 3.0)
		centroids[i] = c
		lo = minVec(lo, c)
		hi = maxVec(hi, c)
	}

	extent := hi.Sub(lo)
	axis := 0
	if extent.Y > extent.X {
		axis = 1
	}
	if axis == 0 && extent.Z > extent.X {
		axis = 2
	} else if axis == 1 && extent.Z > extent.Y {
		axis = 2
	}

	order := make([]int, len(tris))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return axisValue(centroids[order[i]], axis) < axisValue(centroids[order[j]], axis)
	})

	mid := len(order) / 2
	left := make([]TriangleHandle, mid)
	right := make([]TriangleHandle, len(order)-mid)
	for i, oi := range order[:mid] {
		left[i] = tris[oi]
	}
	for i, oi := range order[mid:] {
		right[i] = tris[oi]
	}

	leftLeaves := targetLeaves / 2
	rightLeaves := targetLeaves - leftLeaves
	result := m.bisect(left, leftLeaves)
	result = append(result, m.bisect(right, rightLeaves)...)
	return result
}

const infinity = 1e300

func axisValue(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func minVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: minF(a.X, b.X), Y: minF(a.Y, b.Y), Z: minF(a.Z, b.Z)}
}

func maxVec(a, b r3.Vector) r3.Vector {
	return r3.Vector{X: maxF(a.X, b.X), Y: maxF(a.Y, b.Y), Z: maxF(a.Z, b.Z)}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// assignEdgePartition pins e to the partition of one of its incident
// triangles and flags it cross-boundary if its triangles disagree (spec.md
// §4.F: "edges straddling partitions are pinned to a single partition and
// flagged cross-boundary").
func (m *Mesh) assignEdgePartition(e *Edge) {
	p0, p1 := NoTriangle, NoTriangle
	if e.Tris[0].Valid() {
		p0 = e.Tris[0]
	}
	if e.Tris[1].Valid() {
		p1 = e.Tris[1]
	}
	switch {
	case p0.Valid():
		e.Partition = m.Triangles.get(uint32(p0)).Partition
	case p1.Valid():
		e.Partition = m.Triangles.get(uint32(p1)).Partition
	default:
		e.Partition = 0
	}
	if p0.Valid() && p1.Valid() {
		a := m.Triangles.get(uint32(p0)).Partition
		b := m.Triangles.get(uint32(p1)).Partition
		if a != b {
			e.Flags |= EdgeCrossBoundary
		}
	}
}
