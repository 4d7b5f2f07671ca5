// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package meshutil provides synthetic mesh generators and a bounding-extent
// estimator, for exercising and configuring meshdecimate without a model
// loader on hand.
package meshutil

import (
	"math"

	"github.com/golang/geo/r3"
)

// Mesh is a plain in-memory triangle mesh: positions and CCW-wound corner
// indices, suitable for feeding meshdecimate.Operation.OperationData after a
// float32/uint32 buffer conversion.
type Mesh struct {
	Vertices  []r3.Vector
	Triangles [][3]uint32
}

// UVSphere generates a unit-radius sphere tessellated into rings×slices
// quads, each quad split into two triangles. rings and slices must each be
// at least 3.
func UVSphere(rings, slices int) Mesh {
	if rings < 3 {
		rings = 3
	}
	if slices < 3 {
		slices = 3
	}

	var m Mesh
	for r := 0; r <= rings; r++ {
		theta := math.Pi * float64(r) / float64(rings)
		sinT, cosT := math.Sin(theta), math.Cos(theta)
		for s := 0; s <= slices; s++ {
			phi := 2 * math.Pi * float64(s) / float64(slices)
			m.Vertices = append(m.Vertices, r3.Vector{
				X: sinT * math.Cos(phi),
				Y: cosT,
				Z: sinT * math.Sin(phi),
			})
		}
	}

	stride := uint32(slices + 1)
	for r := 0; r < rings; r++ {
		for s := 0; s < slices; s++ {
			a := uint32(r)*stride + uint32(s)
			b := a + 1
			c := a + stride
			d := c + 1
			m.Triangles = append(m.Triangles, [3]uint32{a, b, c}, [3]uint32{b, d, c})
		}
	}
	return m
}

// FlatGrid generates a flat, axis-aligned (XZ plane) grid of cols×rows cells
// spanning [-size/2, size/2] on each axis, each cell split into two
// triangles. cols and rows must each be at least 1.
func FlatGrid(cols, rows int, size float64) Mesh {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	var m Mesh
	for j := 0; j <= rows; j++ {
		z := size*(float64(j)/float64(rows)) - size/2
		for i := 0; i <= cols; i++ {
			x := size*(float64(i)/float64(cols)) - size/2
			m.Vertices = append(m.Vertices, r3.Vector{X: x, Y: 0, Z: z})
		}
	}

	stride := uint32(cols + 1)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			a := uint32(j)*stride + uint32(i)
			b := a + 1
			c := a + stride
			d := c + 1
			m.Triangles = append(m.Triangles, [3]uint32{a, b, c}, [3]uint32{b, d, c})
		}
	}
	return m
}

// UnitCube generates the 8-vertex, 12-triangle unit cube centered at the
// origin with side length 1, used as the canonical small fixture for
// PLANAR_MODE and boundary-lock tests.
func UnitCube() Mesh {
	h := 0.5
	v := []r3.Vector{
		{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h},
		{X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
		{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
	}
	tris := [][3]uint32{
		{0, 2, 1}, {0, 3, 2}, // back
		{4, 5, 6}, {4, 6, 7}, // front
		{0, 1, 5}, {0, 5, 4}, // bottom
		{3, 7, 6}, {3, 6, 2}, // top
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}
	return Mesh{Vertices: v, Triangles: tris}
}
