package qmesh

import (
	"testing"

	"github.com/golang/geo/r3"
)

// hingedFan builds a vertex v shared by two triangles whose planes meet at a
// right angle, so their normals fall into two distinct clusters under
// splitDotThreshold (dot == 0 for a 90° fold).
func hingedFan(cfg Config) (*Mesh, VertexHandle) {
	m := NewMesh(5, 2, 10, cfg)
	v := m.AddVertex(r3.Vector{X: 0, Y: 0, Z: 0})
	p1 := m.AddVertex(r3.Vector{X: 1, Y: 0, Z: 0})
	p2 := m.AddVertex(r3.Vector{X: 0, Y: 1, Z: 0})
	p3 := m.AddVertex(r3.Vector{X: 1, Y: 0, Z: 0.5})
	p4 := m.AddVertex(r3.Vector{X: 0, Y: 0, Z: 1})

	m.AddTriangle(v, p1, p2) // normal ≈ (0,0,1)
	m.AddTriangle(v, p3, p4) // normal ≈ (0,-1,0)-ish, not coplanar with the first
	m.BuildQuadrics()

	partitions := m.buildPartitions(1)
	m.Partitions = partitions
	return m, v
}

func TestSplitIfDiscontinuous_SplitsTwoNormalClusters(t *testing.T) {
	cfg := DefaultConfig()
	m, v := hingedFan(cfg)

	before := m.Stats().LiveVertexCount
	vert := m.Vertices.get(uint32(v))
	if len(vert.Incident) != 2 {
		t.Fatalf("vertex has %d incident triangles before split, want 2", len(vert.Incident))
	}
	tA, tB := vert.Incident[0], vert.Incident[1]

	m.splitIfDiscontinuous(v)

	after := m.Stats().LiveVertexCount
	if after != before+1 {
		t.Fatalf("LiveVertexCount after split = %d, want %d (one extra vertex for the minority cluster)", after, before+1)
	}

	vert = m.Vertices.get(uint32(v))
	if len(vert.Incident) != 1 || vert.Incident[0] != tA {
		t.Errorf("original vertex's incident triangles = %v, want only the majority-cluster triangle %v", vert.Incident, tA)
	}

	triB := m.Triangles.get(uint32(tB))
	if triB.hasVertex(v) {
		t.Error("minority-cluster triangle still has the original vertex as a corner after split")
	}

	var nv VertexHandle = NoVertex
	for _, c := range triB.V {
		if c != v {
			nv = c
			break
		}
	}
	if !nv.Valid() {
		t.Fatal("could not find the split-created vertex among the minority triangle's corners")
	}
	newVert := m.Vertices.get(uint32(nv))
	if newVert.Pos != vert.Pos {
		t.Errorf("split-created vertex position = %v, want %v (copy of the original)", newVert.Pos, vert.Pos)
	}
	if len(newVert.Incident) != 1 || newVert.Incident[0] != tB {
		t.Errorf("split-created vertex's incident triangles = %v, want only %v", newVert.Incident, tB)
	}
}

func TestSplitIfDiscontinuous_LeavesSingleClusterUntouched(t *testing.T) {
	cfg := DefaultConfig()
	m := NewMesh(4, 2, 8, cfg)
	v0 := m.AddVertex(r3.Vector{X: 0, Y: 0, Z: 0})
	v1 := m.AddVertex(r3.Vector{X: 1, Y: 0, Z: 0})
	v2 := m.AddVertex(r3.Vector{X: 1, Y: 1, Z: 0})
	v3 := m.AddVertex(r3.Vector{X: 0, Y: 1, Z: 0})
	m.AddTriangle(v0, v1, v2)
	m.AddTriangle(v0, v2, v3)
	m.BuildQuadrics()
	m.Partitions = m.buildPartitions(1)

	before := m.Stats().LiveVertexCount
	m.splitIfDiscontinuous(v0)
	after := m.Stats().LiveVertexCount
	if after != before {
		t.Errorf("LiveVertexCount changed from %d to %d splitting a flat fan (single normal cluster)", before, after)
	}
}

func TestSplitIfDiscontinuous_RequeuesRelinkedEdges(t *testing.T) {
	cfg := DefaultConfig()
	m, v := hingedFan(cfg)
	vert := m.Vertices.get(uint32(v))
	tB := vert.Incident[1]
	triBBefore := m.Triangles.get(uint32(tB))
	p1 := triBBefore.V[1] // the corner that follows v in tB's winding

	m.splitIfDiscontinuous(v)

	// The edge between the split-created vertex and p1 must be registered in
	// the edge hash and carry a live, non-stale queued operation: split-time
	// relinking must not leave it heap-orphaned (the bug this test guards
	// against silently made split-created edges permanently uncollapsible).
	triB := m.Triangles.get(uint32(tB))
	var nv VertexHandle
	for _, c := range triB.V {
		if c != p1 {
			nv = c
			break
		}
	}
	eh, ok := m.EdgeHash.lookup(canonicalKey(nv, p1))
	if !ok {
		t.Fatal("edge between the split-created vertex and its shared corner is missing from the edge hash")
	}
	e := m.Edges.get(uint32(eh))
	if e.Retired {
		t.Fatal("relinked edge was left retired after split")
	}
	if !e.Op.Valid() {
		t.Fatal("relinked edge has no queued operation after split")
	}
	op := m.Ops.get(uint32(e.Op))
	if op.Stale {
		t.Error("relinked edge's queued operation is stale after split, want freshly requeued")
	}
	if op.heapIdx < 0 {
		t.Error("relinked edge's queued operation is not present in its partition heap after split")
	}
}
