package qmesh

import (
	"testing"

	"github.com/golang/geo/r3"
)

// buildCube constructs the 8-vertex, 12-triangle unit cube directly against
// the engine, with the same vertices and triangles as meshutil.UnitCube.
func buildCube(m *Mesh) [8]VertexHandle {
	h := 0.5
	pos := [8]r3.Vector{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h},
		{X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	var v [8]VertexHandle
	for i, p := range pos {
		v[i] = m.AddVertex(p)
	}
	tris := [12][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	for _, t := range tris {
		m.AddTriangle(v[t[0]], v[t[1]], v[t[2]])
	}
	return v
}

func TestRun_CollapsesTowardFeatureSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeatureSize = 10 // ceiling (0.25·10)⁶ ≈ 244, far above the cube's collapse costs
	cfg.Flags = FlagPlanarMode
	cfg.SyncStepCount = 16
	m := NewMesh(8, 12, 8, cfg)
	buildCube(m)
	m.BuildQuadrics()
	m.DetectBoundaries(cfg.RidgeDotThreshold)

	before := m.Stats().LiveTriangleCount
	result := m.Run(2, nil, nil)
	after := m.Stats().LiveTriangleCount

	if result.Canceled {
		t.Fatal("Run reported Canceled with no cancel function")
	}
	if after > before {
		t.Errorf("LiveTriangleCount grew from %d to %d", before, after)
	}
	if m.Stats().DecimationCount == 0 {
		t.Error("DecimationCount = 0 with a feature size far larger than the mesh, want at least one collapse")
	}
}

func TestRun_AllEdgesLockedPreventsAnyCollapse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeatureSize = 10
	m := NewMesh(4, 2, 4, cfg)
	v0 := m.AddVertex(r3.Vector{X: 0, Y: 0, Z: 0})
	v1 := m.AddVertex(r3.Vector{X: 1, Y: 0, Z: 0})
	v2 := m.AddVertex(r3.Vector{X: 1, Y: 1, Z: 0})
	v3 := m.AddVertex(r3.Vector{X: 0, Y: 1, Z: 0})
	m.AddTriangle(v0, v1, v2)
	m.AddTriangle(v0, v2, v3)
	m.BuildQuadrics()
	m.DetectBoundaries(cfg.RidgeDotThreshold)

	for i := 0; i < m.Edges.len(); i++ {
		m.Edges.get(uint32(i)).Flags |= EdgeLocked
	}

	result := m.Run(1, nil, nil)
	if result.Canceled {
		t.Fatal("Run reported Canceled")
	}
	if got := m.Stats().DecimationCount; got != 0 {
		t.Errorf("DecimationCount with every edge locked = %d, want 0", got)
	}
}

// tent builds a small non-planar quad (two triangles folded along their
// shared diagonal by raising one corner apex) far from the origin at xOffset,
// so multiple tents seeded into the same mesh never touch each other's
// incident triangles. A larger apex gives the shared diagonal a larger
// quadric error, hence a larger collapse cost.
func tent(m *Mesh, xOffset, apex float64) {
	v0 := m.AddVertex(r3.Vector{X: xOffset, Y: 0, Z: 0})
	v1 := m.AddVertex(r3.Vector{X: xOffset + 1, Y: 0, Z: 0})
	v2 := m.AddVertex(r3.Vector{X: xOffset + 1, Y: 1, Z: apex})
	v3 := m.AddVertex(r3.Vector{X: xOffset, Y: 1, Z: 0})
	m.AddTriangle(v0, v1, v2)
	m.AddTriangle(v0, v2, v3)
}

// TestSeedQueues_CostsNonDecreasingPerPartition verifies the property spec.md
// §8 calls "cost monotonicity within a worker": a partition's heap always
// yields its queued operations to the worker that owns it in non-decreasing
// cost order, so a worker never executes a more expensive collapse while a
// cheaper one sits queued behind it.
func TestSeedQueues_CostsNonDecreasingPerPartition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeatureSize = 10
	m := NewMesh(12, 6, 12, cfg)
	tent(m, 0, 0.01)
	tent(m, 10, 0.3)
	tent(m, 20, 1.5)
	m.BuildQuadrics()
	m.DetectBoundaries(cfg.RidgeDotThreshold)

	m.Partitions = m.buildPartitions(1)
	m.SeedQueues()

	for _, p := range m.Partitions {
		var got []float64
		for p.Heap.Len() > 0 {
			got = append(got, p.Heap.popMin().Cost)
		}
		for i := 1; i < len(got); i++ {
			if got[i] < got[i-1] {
				t.Errorf("partition %d popped costs %v, want non-decreasing", p.ID, got)
				break
			}
		}
	}
}

func TestRun_CancelStopsEarly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeatureSize = 3
	m := NewMesh(8, 12, 8, cfg)
	buildCube(m)
	m.BuildQuadrics()

	result := m.Run(2, func() bool { return true }, nil)
	if !result.Canceled {
		t.Error("Run with an always-true cancel func did not report Canceled")
	}
	if result.StepsRun != 0 {
		t.Errorf("StepsRun with an immediate cancel = %d, want 0", result.StepsRun)
	}
}
