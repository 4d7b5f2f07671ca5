// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package meshdecimate

import (
	"encoding/binary"
	"math"

	"github.com/golang/geo/r3"
)

// VertexFormat selects the scalar precision of a vertex or normal buffer
// (spec.md §6: "vertex format ∈ {float32, float64}").
type VertexFormat int

const (
	FormatFloat32 VertexFormat = iota
	FormatFloat64
)

// IndexFormat selects the integer width of a triangle index buffer (spec.md
// §6: "index format ∈ {int32, uint32}").
type IndexFormat int

const (
	FormatUint32 IndexFormat = iota
	FormatInt32
)

func readVector(buf []byte, offset int, format VertexFormat) r3.Vector {
	switch format {
	case FormatFloat64:
		return r3.Vector{
			X: math.Float64frombits(binary.LittleEndian.Uint64(buf[offset:])),
			Y: math.Float64frombits(binary.LittleEndian.Uint64(buf[offset+8:])),
			Z: math.Float64frombits(binary.LittleEndian.Uint64(buf[offset+16:])),
		}
	default:
		return r3.Vector{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[offset+4:]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[offset+8:]))),
		}
	}
}

func writeVector(buf []byte, offset int, format VertexFormat, v r3.Vector) {
	switch format {
	case FormatFloat64:
		binary.LittleEndian.PutUint64(buf[offset:], math.Float64bits(v.X))
		binary.LittleEndian.PutUint64(buf[offset+8:], math.Float64bits(v.Y))
		binary.LittleEndian.PutUint64(buf[offset+16:], math.Float64bits(v.Z))
	default:
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(buf[offset+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(buf[offset+8:], math.Float32bits(float32(v.Z)))
	}
}

func readIndex(buf []byte, offset int, format IndexFormat) uint32 {
	switch format {
	case FormatInt32:
		return uint32(int32(binary.LittleEndian.Uint32(buf[offset:])))
	default:
		return binary.LittleEndian.Uint32(buf[offset:])
	}
}

func writeIndex(buf []byte, offset int, format IndexFormat, v uint32) {
	switch format {
	case FormatInt32:
		binary.LittleEndian.PutUint32(buf[offset:], uint32(int32(v)))
	default:
		binary.LittleEndian.PutUint32(buf[offset:], v)
	}
}

func vertexScalarSize(f VertexFormat) int {
	if f == FormatFloat64 {
		return 8
	}
	return 4
}
