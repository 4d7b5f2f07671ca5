package qmesh

import "github.com/golang/geo/r3"

// Vertex is one slot of the vertex arena (spec.md §3 Data Model: Vertex).
type Vertex struct {
	Pos        r3.Vector
	Normal     r3.Vector
	HasNormal  bool
	Quadric    Quadric
	Area       float64
	Incident   []TriangleHandle // unordered, bounded degree only softly
	RedirectTo VertexHandle     // valid only once Retired
	Generation uint32
	Retired    bool
	Locked     bool // never offered as a collapse endpoint; BOUNDARY_LOCK locks edges, not this field
}

// resolve follows RedirectTo until it reaches a non-retired vertex. Collapse
// rewiring always updates incidence eagerly, so in steady state this is a
// single hop; the loop exists only to stay correct under the rare chain that
// a cross-partition deferred batch can produce before the barrier settles.
func (m *Mesh) resolve(v VertexHandle) VertexHandle {
	for {
		vert := m.Vertices.get(uint32(v))
		if !vert.Retired {
			return v
		}
		v = vert.RedirectTo
	}
}

func (m *Mesh) addIncident(v VertexHandle, t TriangleHandle) {
	vert := m.Vertices.get(uint32(v))
	for _, e := range vert.Incident {
		if e == t {
			return
		}
	}
	vert.Incident = append(vert.Incident, t)
}

func (m *Mesh) removeIncident(v VertexHandle, t TriangleHandle) {
	vert := m.Vertices.get(uint32(v))
	for i, e := range vert.Incident {
		if e == t {
			vert.Incident[i] = vert.Incident[len(vert.Incident)-1]
			vert.Incident = vert.Incident[:len(vert.Incident)-1]
			return
		}
	}
}
