package qmesh

import "github.com/golang/geo/r3"

// Triangle is one slot of the triangle arena (spec.md §3 Data Model: Triangle).
type Triangle struct {
	V          [3]VertexHandle
	E          [3]EdgeHandle
	Normal     r3.Vector
	Generation uint32
	Retired    bool
	Partition  int
}

// plane returns the triangle's supporting plane as (a,b,c,d) with (a,b,c) a
// unit normal, and its area; used to (re)build vertex quadrics (spec.md §4.B).
func trianglePlane(p0, p1, p2 r3.Vector) (normal r3.Vector, d float64, area float64) {
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	cross := e1.Cross(e2)
	length := cross.Norm()
	if length < 1e-20 {
		return r3.Vector{}, 0, 0
	}
	normal = cross.Mul(1 / length)
	d = -normal.Dot(p0)
	area = 0.5 * length
	return normal, d, area
}

// vertexPositions resolves a triangle's three corner positions.
func (m *Mesh) vertexPositions(t *Triangle) (p0, p1, p2 r3.Vector) {
	return m.Vertices.get(uint32(t.V[0])).Pos,
		m.Vertices.get(uint32(t.V[1])).Pos,
		m.Vertices.get(uint32(t.V[2])).Pos
}

// hasVertex reports whether v appears in t's corner triple.
func (t *Triangle) hasVertex(v VertexHandle) bool {
	return t.V[0] == v || t.V[1] == v || t.V[2] == v
}

// otherVertices returns the two corners of t that are not v.
func (t *Triangle) otherVertices(v VertexHandle) (VertexHandle, VertexHandle) {
	switch v {
	case t.V[0]:
		return t.V[1], t.V[2]
	case t.V[1]:
		return t.V[2], t.V[0]
	case t.V[2]:
		return t.V[0], t.V[1]
	}
	return NoVertex, NoVertex
}

