// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package meshdecimate

import (
	"math"
	"time"

	"github.com/2dChan/meshdecimate/meshutil"
	"github.com/golang/geo/r3"
)

// BudgetOptions configures DecimateBudget's binary search (spec.md §4.I).
// Callers do not construct one directly; use the With... setters below,
// mirroring s2delaunay.ComputeDelaunayTriangulation's variadic options.
type BudgetOptions struct {
	maxIterations int
	tolerance     float64
	timeLimit     time.Duration
}

// BudgetOption sets one field of BudgetOptions.
type BudgetOption func(*BudgetOptions)

// WithMaxIterations bounds the number of probes. Defaults to 20.
func WithMaxIterations(n int) BudgetOption {
	if n <= 0 {
		panic("WithMaxIterations: n must be positive")
	}
	return func(o *BudgetOptions) {
		o.maxIterations = n
	}
}

// WithTolerance sets the acceptable relative distance of the final triangle
// count from maxTriangles, |final - max| / max. Defaults to 0.05.
func WithTolerance(t float64) BudgetOption {
	if t <= 0 {
		panic("WithTolerance: t must be positive")
	}
	return func(o *BudgetOptions) {
		o.tolerance = t
	}
}

// WithTimeLimit stops the search early once elapsed, returning the best
// probe found so far; the result still carries a BudgetUnreachable error if
// no probe so far reached maxTriangles or fewer. Unset means no limit.
func WithTimeLimit(d time.Duration) BudgetOption {
	return func(o *BudgetOptions) {
		o.timeLimit = d
	}
}

func newBudgetOptions(setters []BudgetOption) BudgetOptions {
	o := BudgetOptions{maxIterations: 20, tolerance: 0.05}
	for _, set := range setters {
		set(&o)
	}
	return o
}

type budgetProbe struct {
	featureSize float64
	vertexBuf   []byte
	indexBuf    []byte
	op          Operation
}

// DecimateBudget decimates op's mesh to approximately maxTriangles
// triangles by binary-searching the feature size over [ε·diagonal,
// diagonal], where diagonal is estimated from the input's convex hull
// (meshutil.Diagonal). Each probe runs a full Decimate on a fresh copy of
// the input buffers, exploiting the fact that feature size and resulting
// triangle count are monotonically related (spec.md §4.I).
//
// On success it writes the best feasible probe's result back into op's own
// buffers, as Decimate does, and returns true. If no probe ever reached
// maxTriangles or fewer, it writes back the smallest triangle count
// observed and returns a BudgetUnreachable error alongside it, per spec.md
// §7 ("best-effort result plus an error, not nothing").
func DecimateBudget(op *Operation, maxTriangles int, threadCount int, flags Flags, setters ...BudgetOption) (bool, error) {
	// Every probe sets its own FeatureSize, so the caller's value (possibly
	// unset) is not validated here.
	check := *op
	check.FeatureSize = 1
	if err := check.validate(flags); err != nil {
		return false, err
	}
	if maxTriangles <= 0 {
		return false, errf(ConfigurationInvalid, "max triangles must be positive, got %d", maxTriangles)
	}
	opts := newBudgetOptions(setters)

	callerVertexBuf := op.VertexBuffer
	callerIndexBuf := op.IndexBuffer
	origVertices := append([]byte(nil), op.VertexBuffer...)
	origIndices := append([]byte(nil), op.IndexBuffer...)

	points := make([]r3.Vector, op.VertexCount)
	vstride := op.vertexStride()
	for i := range points {
		points[i] = readVector(origVertices, i*vstride, op.VertexFormat)
	}
	diag := meshutil.Diagonal(points)
	if diag <= 0 {
		diag = 1
	}

	lo, hi := 1e-6*diag, diag

	var deadline time.Time
	if opts.timeLimit > 0 {
		deadline = time.Now().Add(opts.timeLimit)
	}

	var bestFeasible *budgetProbe
	bestFeasibleDiff := math.Inf(1)
	var smallestObserved *budgetProbe

	for iter := 0; iter < opts.maxIterations; iter++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		mid := 0.5 * (lo + hi)
		probeOp := *op
		probeOp.VertexBuffer = append([]byte(nil), origVertices...)
		probeOp.IndexBuffer = append([]byte(nil), origIndices...)
		probeOp.FeatureSize = mid
		probeOp.TargetVertexCountMax = 0
		probeOp.StatusCallback = nil

		if _, err := Decimate(&probeOp, threadCount, flags); err != nil {
			return false, err
		}

		probe := &budgetProbe{featureSize: mid, vertexBuf: probeOp.VertexBuffer, indexBuf: probeOp.IndexBuffer, op: probeOp}

		if smallestObserved == nil || probeOp.TriangleCountOut < smallestObserved.op.TriangleCountOut {
			smallestObserved = probe
		}

		diff := math.Abs(float64(probeOp.TriangleCountOut-maxTriangles)) / float64(maxTriangles)
		feasible := probeOp.TriangleCountOut <= maxTriangles

		if feasible && diff < bestFeasibleDiff {
			bestFeasible = probe
			bestFeasibleDiff = diff
		}
		if feasible && diff <= opts.tolerance {
			break
		}

		if feasible {
			// Too few triangles (or just right but want to keep searching
			// for a closer fit): less decimation needed, shrink the ceiling.
			hi = mid
		} else {
			// Too many triangles: more decimation needed.
			lo = mid
		}
	}

	result := bestFeasible
	unreachable := false
	if result == nil {
		result = smallestObserved
		unreachable = true
	}
	if result == nil {
		return false, errf(BudgetUnreachable, "no probe completed within %d iterations", opts.maxIterations)
	}

	copy(callerVertexBuf, result.vertexBuf)
	copy(callerIndexBuf, result.indexBuf)
	op.VertexBuffer = callerVertexBuf
	op.IndexBuffer = callerIndexBuf
	op.FeatureSize = result.featureSize
	op.VertexCountOut = result.op.VertexCountOut
	op.TriangleCountOut = result.op.TriangleCountOut
	op.DecimationCount = result.op.DecimationCount
	op.CollisionCount = result.op.CollisionCount

	if unreachable {
		return false, errf(BudgetUnreachable, "closest reachable triangle count is %d, wanted %d", result.op.TriangleCountOut, maxTriangles)
	}
	return true, nil
}
