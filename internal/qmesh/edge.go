package qmesh

import "github.com/golang/geo/r3"

// EdgeFlags are the per-edge bits from spec.md §3 Data Model: Edge.
type EdgeFlags uint8

const (
	EdgeBoundary      EdgeFlags = 1 << iota // exactly one incident triangle, or a ridge (see DetectBoundaries)
	EdgeLocked                              // BOUNDARY_LOCK forbids collapse
	EdgePending                             // currently held by a worker, not yet resolved
	EdgeInvalidated                         // endpoints changed since last cost computation
	EdgeNonManifold                         // more than two incident triangles
	EdgeCrossBoundary                       // incident triangles span more than one partition
)

// Edge is one slot of the edge arena (spec.md §3 Data Model: Edge). V0 < V1
// always holds for a live edge; that pair is its canonical hash key.
type Edge struct {
	V0, V1    VertexHandle
	Tris      [2]TriangleHandle // NoTriangle in the unused slot for boundary edges
	ExtraTris []TriangleHandle  // third-and-beyond incident triangles, non-manifold only
	Op        OpHandle
	Cost      float64
	Penalty   float64
	Point     r3.Vector
	Partition int
	Flags     EdgeFlags
	Retired   bool
}

func canonicalKey(a, b VertexHandle) (VertexHandle, VertexHandle) {
	if a <= b {
		return a, b
	}
	return b, a
}

func (e *Edge) triCount() int {
	n := 0
	if e.Tris[0].Valid() {
		n++
	}
	if e.Tris[1].Valid() {
		n++
	}
	return n + len(e.ExtraTris)
}

// addTriangle registers t as incident to e, promoting the edge to
// non-manifold once a third triangle claims it (spec.md §7 TopologyWarning:
// the edge is marked non-collapsible, not an error).
func (e *Edge) addTriangle(t TriangleHandle) {
	if !e.Tris[0].Valid() {
		e.Tris[0] = t
		return
	}
	if !e.Tris[1].Valid() {
		e.Tris[1] = t
		return
	}
	e.ExtraTris = append(e.ExtraTris, t)
	e.Flags |= EdgeNonManifold
}

func (e *Edge) removeTriangle(t TriangleHandle) {
	if e.Tris[0] == t {
		e.Tris[0] = NoTriangle
		return
	}
	if e.Tris[1] == t {
		e.Tris[1] = NoTriangle
		return
	}
	for i, x := range e.ExtraTris {
		if x == t {
			e.ExtraTris = append(e.ExtraTris[:i], e.ExtraTris[i+1:]...)
			return
		}
	}
}

func (e *Edge) otherTriangle(t TriangleHandle) TriangleHandle {
	if e.Tris[0] == t {
		return e.Tris[1]
	}
	if e.Tris[1] == t {
		return e.Tris[0]
	}
	return NoTriangle
}
