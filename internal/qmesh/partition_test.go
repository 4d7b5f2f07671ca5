package qmesh

import (
	"testing"

	"github.com/golang/geo/r3"
)

func TestBuildPartitions_CoversEveryLiveTriangleExactlyOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeatureSize = 1
	m := NewMesh(8, 12, 8, cfg)
	buildCube(m)

	partitions := m.buildPartitions(4)
	seen := map[TriangleHandle]bool{}
	for _, p := range partitions {
		for _, th := range p.Triangles {
			if seen[th] {
				t.Errorf("triangle %v appears in more than one partition", th)
			}
			seen[th] = true
			got := m.Triangles.get(uint32(th)).Partition
			if got != p.ID {
				t.Errorf("triangle %v.Partition = %d, want %d", th, got, p.ID)
			}
		}
	}
	if len(seen) != 12 {
		t.Errorf("partitions cover %d triangles, want 12", len(seen))
	}
}

func TestBuildPartitions_SingleTriangleNeverSplit(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMesh(3, 1, 3, cfg)
	v0 := m.AddVertex(r3.Vector{X: 0, Y: 0, Z: 0})
	v1 := m.AddVertex(r3.Vector{X: 1, Y: 0, Z: 0})
	v2 := m.AddVertex(r3.Vector{X: 0, Y: 1, Z: 0})
	m.AddTriangle(v0, v1, v2)

	partitions := m.buildPartitions(8)
	total := 0
	for _, p := range partitions {
		total += len(p.Triangles)
	}
	if total != 1 {
		t.Errorf("partitions hold %d triangles total, want 1", total)
	}
}

func TestAssignEdgePartition_FlagsCrossBoundary(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMesh(8, 12, 8, cfg)
	buildCube(m)
	m.buildPartitions(4)

	found := false
	for i := 0; i < m.Edges.len(); i++ {
		e := m.Edges.get(uint32(i))
		m.assignEdgePartition(e)
		if e.Flags&EdgeCrossBoundary != 0 {
			found = true
		}
	}
	if !found {
		t.Error("no edge was flagged cross-boundary across 4 spatial partitions of a cube, expected at least one seam")
	}
}
