package qmesh

import "github.com/golang/geo/r3"

// Quadric is the symmetric bilinear form Q associated with a plane
// p=(a,b,c,d), a²+b²+c²=1, stored as the upper triangle of the 4×4 matrix
// a a⊗a (spec.md §4.B). Indices follow row-major order of the upper
// triangle: [aa ab ac ad bb bc bd cc cd dd].
type Quadric struct {
	aa, ab, ac, ad float64
	bb, bc, bd     float64
	cc, cd         float64
	dd             float64
}

// planeQuadric builds Q for a single plane (a,b,c,d).
func planeQuadric(a, b, c, d float64) Quadric {
	return Quadric{
		aa: a * a, ab: a * b, ac: a * c, ad: a * d,
		bb: b * b, bc: b * c, bd: b * d,
		cc: c * c, cd: c * d,
		dd: d * d,
	}
}

// Add accumulates rhs into q, scaled by weight (the triangle's area, per
// spec.md §4.B: "Vertex quadric = Σ area(t)·Q(plane(t))").
func (q Quadric) Add(rhs Quadric, weight float64) Quadric {
	return Quadric{
		aa: q.aa + weight*rhs.aa, ab: q.ab + weight*rhs.ab, ac: q.ac + weight*rhs.ac, ad: q.ad + weight*rhs.ad,
		bb: q.bb + weight*rhs.bb, bc: q.bc + weight*rhs.bc, bd: q.bd + weight*rhs.bd,
		cc: q.cc + weight*rhs.cc, cd: q.cd + weight*rhs.cd,
		dd: q.dd + weight*rhs.dd,
	}
}

// Eval computes xᵀQx for homogeneous x=(px,py,pz,1), i.e. the QEM cost of
// placing a vertex at p.
func (q Quadric) Eval(p r3.Vector) float64 {
	x, y, z := p.X, p.Y, p.Z
	return q.aa*x*x + 2*q.ab*x*y + 2*q.ac*x*z + 2*q.ad*x +
		q.bb*y*y + 2*q.bc*y*z + 2*q.bd*y +
		q.cc*z*z + 2*q.cd*z +
		q.dd
}

// optimalPoint solves the 3×3 linear subsystem
//
//	[aa ab ac] [x]   [-ad]
//	[ab bb bc] [y] = [-bd]
//	[ac bc cc] [z]   [-cd]
//
// which minimizes Eval. If the system is ill-conditioned (|det| below eps)
// it reports ok=false and the caller falls back to the edge midpoint, then
// to the cheaper endpoint (spec.md §4.B).
func (q Quadric) optimalPoint(eps float64) (p r3.Vector, ok bool) {
	a00, a01, a02 := q.aa, q.ab, q.ac
	a10, a11, a12 := q.ab, q.bb, q.bc
	a20, a21, a22 := q.ac, q.bc, q.cc

	det := a00*(a11*a22-a12*a21) - a01*(a10*a22-a12*a20) + a02*(a10*a21-a11*a20)
	if det < 0 {
		det = -det
	}
	if det < eps {
		return r3.Vector{}, false
	}

	b0, b1, b2 := -q.ad, -q.bd, -q.cd

	// Cramer's rule; a 3x3 solve is cheap enough to not warrant an external
	// linear-algebra dependency for this hot inner loop.
	invDet := 1.0 / (a00*(a11*a22-a12*a21) - a01*(a10*a22-a12*a20) + a02*(a10*a21-a11*a20))

	x := (b0*(a11*a22-a12*a21) - a01*(b1*a22-a12*b2) + a02*(b1*a21-a11*b2)) * invDet
	y := (a00*(b1*a22-a12*b2) - b0*(a10*a22-a12*a20) + a02*(a10*b2-b1*a20)) * invDet
	z := (a00*(a11*b2-b1*a21) - a01*(a10*b2-b1*a20) + b0*(a10*a21-a11*a20)) * invDet

	return r3.Vector{X: x, Y: y, Z: z}, true
}
