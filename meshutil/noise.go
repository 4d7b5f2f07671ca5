// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package meshutil

import (
	"math/rand"

	"github.com/golang/geo/r3"
)

// Jitter perturbs a copy of vertices by up to ±amount along each axis,
// using a seeded PRNG for reproducible test fixtures (a tessellated sphere
// or grid is otherwise too regular to exercise the cost model's aspect and
// compactness penalties).
func Jitter(vertices []r3.Vector, amount float64, seed int64) []r3.Vector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	out := make([]r3.Vector, len(vertices))
	for i, v := range vertices {
		out[i] = r3.Vector{
			X: v.X + (random.Float64()*2-1)*amount,
			Y: v.Y + (random.Float64()*2-1)*amount,
			Z: v.Z + (random.Float64()*2-1)*amount,
		}
	}
	return out
}
