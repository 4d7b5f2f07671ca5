package qmesh

import (
	"sync/atomic"

	"github.com/golang/geo/r3"
)

// Stats are the run-time counters the public Operation surfaces back to the
// caller (spec.md §6: decimationcount, collisioncount, vertexcount, tricount).
type Stats struct {
	DecimationCount  int64
	CollisionCount   int64
	LiveVertexCount  int64
	LiveTriangleCount int64
	Canceled         bool
}

// Mesh is the engine's working copy of the input geometry: arenas, hashes,
// partitions and run statistics (spec.md §2-§5). Nothing here is exported
// past the qmesh package boundary except through Mesh's own methods.
type Mesh struct {
	Vertices *arena[Vertex]
	Triangles *arena[Triangle]
	Edges    *arena[Edge]
	Ops      *arena[Op]

	EdgeHash *edgeHash
	TriHash  *triangleHash

	Cfg        Config
	Partitions []*Partition

	stats Stats
}

// NewMesh preallocates arenas sized for vertexCount/triangleCount plus the
// vertexAlloc headroom reserved for vertex splitting (spec.md §4.A).
func NewMesh(vertexCount, triangleCount, vertexAlloc int, cfg Config) *Mesh {
	if vertexAlloc < vertexCount {
		vertexAlloc = vertexCount
	}
	edgeBound := 3*triangleCount + 16
	m := &Mesh{
		Vertices:  newArena[Vertex](vertexAlloc),
		Triangles: newArena[Triangle](triangleCount),
		Edges:     newArena[Edge](edgeBound),
		Ops:       newArena[Op](edgeBound),
		EdgeHash:  newEdgeHash(edgeBound),
		TriHash:   newTriangleHash(triangleCount),
		Cfg:       cfg,
	}
	return m
}

// AddVertex allocates a vertex slot at position p and returns its handle.
func (m *Mesh) AddVertex(p r3.Vector) VertexHandle {
	idx, ok := m.Vertices.alloc()
	if !ok {
		return NoVertex
	}
	v := m.Vertices.get(idx)
	v.Pos = p
	v.RedirectTo = NoVertex
	atomic.AddInt64(&m.stats.LiveVertexCount, 1)
	return VertexHandle(idx)
}

// AddTriangle allocates a triangle over three distinct vertices, wires its
// three edges (creating them on first reference) and registers it in the
// triangle hash, bumping CollisionCount on a duplicate key (spec.md §4.C).
func (m *Mesh) AddTriangle(v0, v1, v2 VertexHandle) TriangleHandle {
	idx, ok := m.Triangles.alloc()
	if !ok {
		return NoTriangle
	}
	th := TriangleHandle(idx)
	t := m.Triangles.get(idx)
	t.V = [3]VertexHandle{v0, v1, v2}

	m.TriHash.insert(v0, v1, v2, th)

	t.E[0] = m.linkEdge(v0, v1, th)
	t.E[1] = m.linkEdge(v1, v2, th)
	t.E[2] = m.linkEdge(v2, v0, th)

	m.addIncident(v0, th)
	m.addIncident(v1, th)
	m.addIncident(v2, th)

	atomic.AddInt64(&m.stats.LiveTriangleCount, 1)
	return th
}

// linkEdge finds or creates the canonical edge for (a,b) and registers t as
// one of its incident triangles.
func (m *Mesh) linkEdge(a, b VertexHandle, t TriangleHandle) EdgeHandle {
	lo, hi := canonicalKey(a, b)
	eh, _ := m.EdgeHash.findOrInsert(lo, hi, func() EdgeHandle {
		idx, ok := m.Edges.alloc()
		if !ok {
			return NoEdge
		}
		e := m.Edges.get(idx)
		e.V0, e.V1 = lo, hi
		e.Tris = [2]TriangleHandle{NoTriangle, NoTriangle}
		return EdgeHandle(idx)
	})
	if eh.Valid() {
		m.Edges.get(uint32(eh)).addTriangle(t)
	}
	return eh
}

// BuildQuadrics computes each live triangle's plane/normal and area, and
// accumulates vertex quadrics as area-weighted plane quadrics (spec.md §4.B,
// invariant 4). Call once after all triangles have been loaded.
func (m *Mesh) BuildQuadrics() {
	for i := 0; i < m.Triangles.len(); i++ {
		th := TriangleHandle(i)
		t := m.Triangles.get(uint32(i))
		if t.Retired {
			continue
		}
		p0, p1, p2 := m.vertexPositions(t)
		normal, d, area := trianglePlane(p0, p1, p2)
		t.Normal = normal
		q := planeQuadric(normal.X, normal.Y, normal.Z, d)
		for _, vh := range t.V {
			v := m.Vertices.get(uint32(vh))
			v.Quadric = v.Quadric.Add(q, area)
			v.Area += area
		}
		_ = th
	}
}

// DetectBoundaries flags every edge with exactly one incident triangle as a
// boundary edge, and flags ridges (edges whose two incident triangles meet
// sharply enough that their normals' dot product falls below
// ridgeDotThreshold) the same way, since both are "feature ridge" per spec.md §4.D.3.
func (m *Mesh) DetectBoundaries(ridgeDotThreshold float64) {
	for i := 0; i < m.Edges.len(); i++ {
		e := m.Edges.get(uint32(i))
		if e.Retired {
			continue
		}
		n := e.triCount()
		if n == 1 {
			e.Flags |= EdgeBoundary
			continue
		}
		if n == 2 {
			t0 := m.Triangles.get(uint32(e.Tris[0]))
			t1 := m.Triangles.get(uint32(e.Tris[1]))
			if t0.Normal.Dot(t1.Normal) < ridgeDotThreshold {
				e.Flags |= EdgeBoundary
			}
		}
	}
}

// ApplyBoundaryLocks sets the Locked flag on every boundary edge when
// BOUNDARY_LOCK is configured (spec.md §6 optional BOUNDARY_LOCK flag).
func (m *Mesh) ApplyBoundaryLocks() {
	if !m.Cfg.Flags.has(FlagBoundaryLock) {
		return
	}
	for i := 0; i < m.Edges.len(); i++ {
		e := m.Edges.get(uint32(i))
		if e.Flags&EdgeBoundary != 0 {
			e.Flags |= EdgeLocked
		}
	}
}

// Stats returns a snapshot of the run counters.
func (m *Mesh) Stats() Stats {
	return Stats{
		DecimationCount:   atomic.LoadInt64(&m.stats.DecimationCount),
		CollisionCount:    atomic.LoadInt64(&m.TriHash.collisionCount),
		LiveVertexCount:   atomic.LoadInt64(&m.stats.LiveVertexCount),
		LiveTriangleCount: atomic.LoadInt64(&m.stats.LiveTriangleCount),
		Canceled:          m.stats.Canceled,
	}
}

// LiveTriangles returns the handles of every non-retired triangle, in
// ascending handle order (stable, used by writeback and by tests asserting
// triangle validity).
func (m *Mesh) LiveTriangles() []TriangleHandle {
	out := make([]TriangleHandle, 0, m.stats.LiveTriangleCount)
	for i := 0; i < m.Triangles.len(); i++ {
		if !m.Triangles.get(uint32(i)).Retired {
			out = append(out, TriangleHandle(i))
		}
	}
	return out
}

// LiveVertices returns the handles of every non-retired vertex, in ascending
// handle order.
func (m *Mesh) LiveVertices() []VertexHandle {
	out := make([]VertexHandle, 0, m.stats.LiveVertexCount)
	for i := 0; i < m.Vertices.len(); i++ {
		if !m.Vertices.get(uint32(i)).Retired {
			out = append(out, VertexHandle(i))
		}
	}
	return out
}

// VertexPosition returns v's current position, for writeback.
func (m *Mesh) VertexPosition(v VertexHandle) r3.Vector {
	return m.Vertices.get(uint32(v)).Pos
}

// TriangleCorners returns t's three corner vertex handles, for writeback.
func (m *Mesh) TriangleCorners(t TriangleHandle) (VertexHandle, VertexHandle, VertexHandle) {
	tri := m.Triangles.get(uint32(t))
	return tri.V[0], tri.V[1], tri.V[2]
}
