package qmesh

import (
	"math"

	"github.com/golang/geo/r3"
)

// idealAspect is the altitude/longest-edge ratio of an equilateral triangle,
// used as the normalizing reference for the compactness penalty.
const idealAspect = 0.8660254037844386 // sqrt(3)/2

// edgeCost computes Cost(E) = value + penalty for edge e and returns the
// chosen collapse point (spec.md §4.D). sentinel is true, with cost
// FailValue, when the edge must never be accepted: it is locked or
// non-manifold, an endpoint is Locked, or its cost exceeds
// cfg.MaxCollapseAcceptCost.
func (m *Mesh) edgeCost(e *Edge, cfg *Config) (cost, penalty float64, point r3.Vector, sentinel bool) {
	if e.Flags&(EdgeLocked|EdgeNonManifold) != 0 {
		return FailValue, 0, r3.Vector{}, true
	}

	v0 := m.Vertices.get(uint32(e.V0))
	v1 := m.Vertices.get(uint32(e.V1))
	if v0.Locked || v1.Locked {
		return FailValue, 0, r3.Vector{}, true
	}

	combined := v0.Quadric.Add(v1.Quadric, 1)
	point, value := m.chooseCollapsePoint(combined, v0, v1)

	penalty = m.compactnessPenalty(e, point, cfg)
	penalty += m.areaScalingPenalty(v0, v1, cfg)
	penalty += m.boundaryPenalty(e, cfg)

	if cfg.Flags.has(FlagPlanarMode) {
		dev := m.maxNormalDeviation(e, point)
		if dev < cfg.PlanarDeviationThresh {
			penalty *= 0.01
		}
	}

	cost = value + penalty
	if cost > cfg.MaxCollapseAcceptCost {
		return FailValue, penalty, point, true
	}
	return cost, penalty, point, false
}

// chooseCollapsePoint implements the optimal -> midpoint -> cheaper-endpoint
// fallback chain of spec.md §4.B.
func (m *Mesh) chooseCollapsePoint(q Quadric, v0, v1 *Vertex) (r3.Vector, float64) {
	const detEps = 1e-12
	if p, ok := q.optimalPoint(detEps); ok {
		return p, q.Eval(p)
	}
	mid := v0.Pos.Add(v1.Pos).Mul(0.5)
	midCost := q.Eval(mid)

	c0 := q.Eval(v0.Pos)
	c1 := q.Eval(v1.Pos)
	best, bestCost := mid, midCost
	if c0 < bestCost {
		best, bestCost = v0.Pos, c0
	}
	if c1 < bestCost {
		best, bestCost = v1.Pos, c1
	}
	return best, bestCost
}

// compactnessPenalty penalizes the worst aspect ratio among the triangles
// that would survive in the 1-ring after the collapse (spec.md §4.D.1).
func (m *Mesh) compactnessPenalty(e *Edge, point r3.Vector, cfg *Config) float64 {
	v0 := m.resolve(e.V0)
	v1 := m.resolve(e.V1)
	worst := 1.0 // best possible aspect; penalty is 0 if nothing is worse than ideal

	visit := func(vh VertexHandle, other VertexHandle) {
		vert := m.Vertices.get(uint32(vh))
		for _, th := range vert.Incident {
			t := m.Triangles.get(uint32(th))
			if t.Retired || t.hasVertex(other) {
				continue // collapsing/degenerating triangle, excluded from the survivor set
			}
			a, b := t.otherVertices(vh)
			pa := m.Vertices.get(uint32(a)).Pos
			pb := m.Vertices.get(uint32(b)).Pos
			aspect := triangleAspect(point, pa, pb)
			if aspect < worst {
				worst = aspect
			}
		}
	}
	visit(v0, v1)
	visit(v1, v0)

	if worst >= idealAspect {
		return 0
	}
	ratio := worst / idealAspect
	deficiency := 1 - ratio
	return cfg.MaxCollapseCost() * deficiency * deficiency * deficiency
}

// triangleAspect returns smallest-altitude / longest-edge for a triangle,
// which both reduce to 2*Area/longestEdge² for any triangle.
func triangleAspect(p0, p1, p2 r3.Vector) float64 {
	e0 := p1.Sub(p2).Norm()
	e1 := p0.Sub(p2).Norm()
	e2 := p0.Sub(p1).Norm()
	longest := math.Max(e0, math.Max(e1, e2))
	if longest < 1e-20 {
		return 0
	}
	cross := p1.Sub(p0).Cross(p2.Sub(p0))
	area := 0.5 * cross.Norm()
	return 2 * area / (longest * longest)
}

// areaScalingPenalty is spec.md §4.D.2: sqrt((area(v0)+area(v1))/featuresize²) * maxcollapsecost.
func (m *Mesh) areaScalingPenalty(v0, v1 *Vertex, cfg *Config) float64 {
	if cfg.FeatureSize <= 0 {
		return 0
	}
	totalArea := v0.Area + v1.Area
	ratio := totalArea / (cfg.FeatureSize * cfg.FeatureSize)
	if ratio < 0 {
		ratio = 0
	}
	return math.Sqrt(ratio) * cfg.MaxCollapseCost()
}

// boundaryPenalty is spec.md §4.D.3: BoundaryWeight·maxcollapsecost, applied
// only when e itself carries EdgeBoundary (an open edge or a ridge, see
// DetectBoundaries). An edge whose endpoints lie on a boundary or ridge but
// which is not flagged itself gets no boundary penalty.
func (m *Mesh) boundaryPenalty(e *Edge, cfg *Config) float64 {
	if e.Flags&EdgeBoundary == 0 {
		return 0
	}
	return cfg.BoundaryWeight * cfg.MaxCollapseCost()
}

// maxNormalDeviation computes the largest change, across every triangle
// touching either endpoint, between its pre-collapse normal and the normal
// it would have if its moved corner sat at point instead (spec.md §4.D
// Planar-mode fast-path).
func (m *Mesh) maxNormalDeviation(e *Edge, point r3.Vector) float64 {
	v0 := m.resolve(e.V0)
	v1 := m.resolve(e.V1)
	maxDev := 0.0

	visit := func(vh VertexHandle, other VertexHandle) {
		vert := m.Vertices.get(uint32(vh))
		for _, th := range vert.Incident {
			t := m.Triangles.get(uint32(th))
			if t.Retired || t.hasVertex(other) {
				continue
			}
			before := t.Normal
			a, b := t.otherVertices(vh)
			pa := m.Vertices.get(uint32(a)).Pos
			pb := m.Vertices.get(uint32(b)).Pos
			after, _, _ := trianglePlane(point, pa, pb)
			dev := 1 - before.Dot(after)
			if dev > maxDev {
				maxDev = dev
			}
		}
	}
	visit(v0, v1)
	visit(v1, v0)
	return maxDev
}
