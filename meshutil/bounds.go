// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package meshutil

import (
	"math"

	"github.com/golang/geo/r3"
	quickhull "github.com/markus-wa/quickhull-go/v2"
)

// Diagonal estimates a point cloud's bounding diagonal: the convex hull's
// widest vertex-to-vertex span, which is tighter than an axis-aligned box
// diagonal for any non-axis-aligned or non-convex input. It falls back to
// the AABB diagonal if the hull degenerates to fewer than 4 vertices
// (coplanar or collinear input), which the budget driver uses as the upper
// end of its feature-size search range.
func Diagonal(points []r3.Vector) float64 {
	if len(points) == 0 {
		return 0
	}

	qh := new(quickhull.QuickHull)
	hull := qh.ConvexHull(points, true, false, 0.0)

	if len(hull.Vertices) < 4 {
		return aabbDiagonal(points)
	}

	var best float64
	for i := range hull.Vertices {
		for j := i + 1; j < len(hull.Vertices); j++ {
			a := hull.Vertices[i]
			b := hull.Vertices[j]
			dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
			d2 := dx*dx + dy*dy + dz*dz
			if d2 > best {
				best = d2
			}
		}
	}
	if best == 0 {
		return aabbDiagonal(points)
	}
	return math.Sqrt(best)
}

func aabbDiagonal(points []r3.Vector) float64 {
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = r3.Vector{X: minF(min.X, p.X), Y: minF(min.Y, p.Y), Z: minF(min.Z, p.Z)}
		max = r3.Vector{X: maxF(max.X, p.X), Y: maxF(max.Y, p.Y), Z: maxF(max.Z, p.Z)}
	}
	return max.Sub(min).Norm()
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
