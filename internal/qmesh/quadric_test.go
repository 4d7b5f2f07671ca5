package qmesh

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestPlaneQuadric_EvalZeroOnPlane(t *testing.T) {
	tests := []struct {
		name   string
		normal r3.Vector
		d      float64
		points []r3.Vector
	}{
		{
			name:   "xy plane through origin",
			normal: r3.Vector{X: 0, Y: 0, Z: 1},
			d:      0,
			points: []r3.Vector{{X: 1, Y: 2, Z: 0}, {X: -3, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 0}},
		},
		{
			name:   "offset plane",
			normal: r3.Vector{X: 1, Y: 0, Z: 0},
			d:      -5,
			points: []r3.Vector{{X: 5, Y: 1, Z: 1}, {X: 5, Y: -9, Z: 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := planeQuadric(tt.normal.X, tt.normal.Y, tt.normal.Z, tt.d)
			for _, p := range tt.points {
				if got := q.Eval(p); math.Abs(got) > 1e-9 {
					t.Errorf("Eval(%v) = %v, want ≈0", p, got)
				}
			}
		})
	}
}

func TestQuadric_OptimalPointMinimizesEval(t *testing.T) {
	q := planeQuadric(0, 0, 1, 0).Add(planeQuadric(1, 0, 0, -1), 1).Add(planeQuadric(0, 1, 0, -1), 1)
	p, ok := q.optimalPoint(1e-12)
	if !ok {
		t.Fatal("optimalPoint reported ill-conditioned for a well-posed 3-plane intersection")
	}
	want := r3.Vector{X: 1, Y: 1, Z: 0}
	if p.Sub(want).Norm() > 1e-6 {
		t.Errorf("optimalPoint() = %v, want ≈%v", p, want)
	}
	if cost := q.Eval(p); cost > 1e-9 {
		t.Errorf("Eval(optimalPoint()) = %v, want ≈0", cost)
	}
}

func TestQuadric_OptimalPointDegenerate(t *testing.T) {
	// A single plane's quadric has a rank-1 3x3 block: the system is
	// singular and optimalPoint must report ok=false.
	q := planeQuadric(0, 0, 1, -3)
	if _, ok := q.optimalPoint(1e-9); ok {
		t.Error("optimalPoint() ok = true for a singular single-plane quadric, want false")
	}
}

func TestQuadric_AddIsAreaWeighted(t *testing.T) {
	base := planeQuadric(1, 0, 0, 0)
	doubled := base.Add(base, 1)
	p := r3.Vector{X: 3, Y: 0, Z: 0}
	if got, want := doubled.Eval(p), 2*base.Eval(p); math.Abs(got-want) > 1e-9 {
		t.Errorf("doubled.Eval(%v) = %v, want %v", p, got, want)
	}
}
