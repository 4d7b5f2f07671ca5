package qmesh

import (
	"sync/atomic"

	"github.com/golang/geo/r3"
)

// tryCollapse pops op's edge through the full validity/rewire/requeue
// sequence of spec.md §4.G. It returns false (without mutating the mesh) if
// op is stale, its edge already retired, or any validity check fails; in the
// validity-failure case the op is bumped above maxcollapsecost and marked
// stale, i.e. "rejected ... reinserted as stale" per spec.md §4.G step 1.
func (m *Mesh) tryCollapse(op *Op) bool {
	if op.Stale {
		return false
	}
	eh := op.Edge
	e := m.Edges.get(uint32(eh))
	if e.Retired {
		op.Stale = true
		return false
	}
	if e.Flags&(EdgeLocked|EdgeNonManifold) != 0 {
		op.Cost = FailValue
		op.Stale = true
		return false
	}

	point := r3.Vector{X: op.Point[0], Y: op.Point[1], Z: op.Point[2]}
	if !m.validateCollapse(e, point) {
		op.Cost = FailValue
		op.Stale = true
		return false
	}

	m.executeCollapse(eh, e, point)
	return true
}

// validateCollapse runs the three structural checks of spec.md §4.G step 1
// (degeneracy, orientation, non-manifold fan). Locked/non-manifold edges are
// rejected by the caller before this is reached.
func (m *Mesh) validateCollapse(e *Edge, point r3.Vector) bool {
	v0, v1 := e.V0, e.V1

	if m.collapseCreatesDegenerate(v0, v1) || m.collapseCreatesDegenerate(v1, v0) {
		return false
	}
	if !m.collapsePreservesOrientation(v0, v1, point) || !m.collapsePreservesOrientation(v1, v0, point) {
		return false
	}
	if !m.collapsePreservesManifold(e) {
		return false
	}
	return true
}

// collapseCreatesDegenerate checks every triangle incident to "from" that
// does not already contain "to": after from is renamed to to, would it have
// two equal corners?
func (m *Mesh) collapseCreatesDegenerate(from, to VertexHandle) bool {
	vert := m.Vertices.get(uint32(from))
	for _, th := range vert.Incident {
		t := m.Triangles.get(uint32(th))
		if t.Retired || t.hasVertex(to) {
			continue
		}
		a, b := t.otherVertices(from)
		if a == to || b == to {
			return true
		}
	}
	return false
}

// collapsePreservesOrientation checks every triangle incident only to "from"
// (not to "to"): substituting point for from's corner must not flip the
// triangle's normal relative to its pre-collapse normal (spec.md §4.G step
// 1, second bullet). The sign convention inverts under TRIANGLE_WINDING_CCW.
func (m *Mesh) collapsePreservesOrientation(from, to VertexHandle, point r3.Vector) bool {
	vert := m.Vertices.get(uint32(from))
	threshold := m.Cfg.OrientationEps
	ccw := m.Cfg.Flags.has(FlagTriangleWindingCCW)
	for _, th := range vert.Incident {
		t := m.Triangles.get(uint32(th))
		if t.Retired || t.hasVertex(to) {
			continue
		}
		a, b := t.otherVertices(from)
		pa := m.Vertices.get(uint32(a)).Pos
		pb := m.Vertices.get(uint32(b)).Pos
		newNormal, _, area := trianglePlane(point, pa, pb)
		if area == 0 {
			continue // already caught as degenerate elsewhere if truly zero-area
		}
		dot := newNormal.Dot(t.Normal)
		ok := dot >= threshold
		if ccw {
			ok = dot <= -threshold
		}
		if !ok {
			return false
		}
	}
	return true
}

// collapsePreservesManifold enforces the link condition: the open 1-ring
// vertices of v0 and v1 may intersect only in the opposite corners of the
// edge's own (at most two) incident triangles (spec.md §4.G step 1, third
// bullet; Glossary has no separate term for this, it is the classic
// edge-collapse "link condition").
func (m *Mesh) collapsePreservesManifold(e *Edge) bool {
	expected := map[VertexHandle]bool{}
	for _, th := range e.Tris {
		if !th.Valid() {
			continue
		}
		t := m.Triangles.get(uint32(th))
		a, b := t.otherVertices(e.V0)
		if a != e.V1 {
			expected[a] = true
		}
		if b != e.V1 {
			expected[b] = true
		}
	}

	link0 := m.linkVertices(e.V0)
	link1 := m.linkVertices(e.V1)
	for v := range link0 {
		if v == e.V1 {
			continue
		}
		if link1[v] && !expected[v] {
			return false
		}
	}
	return true
}

func (m *Mesh) linkVertices(v VertexHandle) map[VertexHandle]bool {
	set := make(map[VertexHandle]bool)
	vert := m.Vertices.get(uint32(v))
	for _, th := range vert.Incident {
		t := m.Triangles.get(uint32(th))
		if t.Retired {
			continue
		}
		a, b := t.otherVertices(v)
		set[a] = true
		set[b] = true
	}
	return set
}

// executeCollapse performs steps 2-5 of spec.md §4.G: rewire, recompute,
// requeue and update counters. e.V0 is kept (lower handle by construction of
// the canonical key); e.V1 is retired.
func (m *Mesh) executeCollapse(eh EdgeHandle, e *Edge, point r3.Vector) {
	keep, gone := e.V0, e.V1
	keepVert := m.Vertices.get(uint32(keep))
	goneVert := m.Vertices.get(uint32(gone))

	mergedQuadric := keepVert.Quadric.Add(goneVert.Quadric, 1)
	mergedArea := keepVert.Area + goneVert.Area

	touched := map[EdgeHandle]bool{}

	// Retire the (at most two) triangles straddling the collapsed edge.
	for _, th := range e.Tris {
		if th.Valid() {
			m.retireTriangle(th, touched, true)
		}
	}

	// Retiring both of its triangles normally retires and releases the
	// collapsed edge already, and its slot may be reused by the rewiring below.
	collapsedRetired := e.Retired

	// Rewire every remaining triangle incident to "gone" onto "keep".
	goneIncident := append([]TriangleHandle(nil), goneVert.Incident...)
	for _, th := range goneIncident {
		t := m.Triangles.get(uint32(th))
		if t.Retired {
			continue
		}
		if t.hasVertex(keep) {
			// Already touches both endpoints but wasn't one of the edge's
			// own two triangles: a non-manifold extra incidence. Retire it
			// rather than leave a degenerate corner.
			m.retireTriangle(th, touched, true)
			continue
		}
		m.renameCorner(t, th, gone, keep, touched)
		m.addIncident(keep, th)
	}

	goneVert.Retired = true
	goneVert.RedirectTo = keep
	goneVert.Incident = nil
	atomic.AddInt64(&m.stats.LiveVertexCount, -1)

	keepVert.Pos = point
	keepVert.Quadric = mergedQuadric
	keepVert.Area = mergedArea

	if !collapsedRetired {
		m.EdgeHash.remove(e.V0, e.V1)
		e.Retired = true
		m.Edges.release(uint32(eh))
		delete(touched, eh) // the collapsed edge itself is never requeued
	}

	if m.Cfg.Flags.has(FlagNormalVertexSplitting) {
		m.splitIfDiscontinuous(keep)
	}

	for th := range touched {
		m.markStale(th)
	}
	for th := range touched {
		m.requeueEdge(th)
	}

	atomic.AddInt64(&m.stats.DecimationCount, 1)
}

// retireTriangle removes t from the triangle hash and every corner's
// incidence list, detaches it from its three edges, and records those edges
// as needing a requeue.
func (m *Mesh) retireTriangle(th TriangleHandle, touched map[EdgeHandle]bool, removeFromTriHash bool) {
	t := m.Triangles.get(uint32(th))
	if t.Retired {
		return
	}
	if removeFromTriHash {
		m.TriHash.remove(t.V[0], t.V[1], t.V[2])
	}
	for _, v := range t.V {
		m.removeIncident(v, th)
	}
	for _, eh := range t.E {
		if !eh.Valid() {
			continue
		}
		edge := m.Edges.get(uint32(eh))
		edge.removeTriangle(th)
		if edge.triCount() == 0 && !edge.Retired {
			m.EdgeHash.remove(edge.V0, edge.V1)
			edge.Retired = true
			m.Edges.release(uint32(eh))
			continue
		}
		touched[eh] = true
	}
	t.Retired = true
	m.Triangles.release(uint32(th))
	atomic.AddInt64(&m.stats.LiveTriangleCount, -1)
}

// renameCorner replaces "from" with "to" in t's corner list, re-registers it
// in the triangle hash (bumping CollisionCount if that key is already taken
// by a surviving triangle, spec.md §4.G step 2 "retire duplicate triangles"),
// relinks its edges, and recomputes its plane.
func (m *Mesh) renameCorner(t *Triangle, th TriangleHandle, from, to VertexHandle, touched map[EdgeHandle]bool) {
	m.TriHash.remove(t.V[0], t.V[1], t.V[2])
	for i, v := range t.V {
		if v == from {
			t.V[i] = to
		}
	}

	if existing, found := m.TriHash.lookupHandle(t.V[0], t.V[1], t.V[2]); found && existing != th {
		// A surviving triangle already claims this corner set: t is now a
		// topological duplicate produced by the merge. Retire it instead of
		// re-registering (component C's collisioncount is bumped by the
		// insert that follows in the caller's next registration attempt, so
		// we bump it here directly since no insert will happen).
		atomic.AddInt64(&m.TriHash.collisionCount, 1)
		m.retireTriangle(th, touched, false)
		return
	}

	m.TriHash.insert(t.V[0], t.V[1], t.V[2], th)

	for i, old := range t.E {
		if !old.Valid() {
			continue
		}
		oldEdge := m.Edges.get(uint32(old))
		oldEdge.removeTriangle(th)
		if oldEdge.triCount() == 0 && !oldEdge.Retired {
			m.EdgeHash.remove(oldEdge.V0, oldEdge.V1)
			oldEdge.Retired = true
			m.Edges.release(uint32(old))
		} else {
			touched[old] = true
		}
		a, b := t.V[i], t.V[(i+1)%3]
		newEdge := m.linkEdge(a, b, th)
		t.E[i] = newEdge
		touched[newEdge] = true
	}

	p0, p1, p2 := m.vertexPositions(t)
	normal, _, _ := trianglePlane(p0, p1, p2)
	t.Normal = normal
}
