// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package meshutil

import (
	"encoding/binary"
	"math"
)

// EncodeFloat32 packs vertex positions into a tightly-packed little-endian
// float32 buffer, the layout meshdecimate.FormatFloat32 expects.
func (m Mesh) EncodeFloat32() []byte {
	buf := make([]byte, len(m.Vertices)*3*4)
	for i, v := range m.Vertices {
		o := i * 12
		binary.LittleEndian.PutUint32(buf[o:], math.Float32bits(float32(v.X)))
		binary.LittleEndian.PutUint32(buf[o+4:], math.Float32bits(float32(v.Y)))
		binary.LittleEndian.PutUint32(buf[o+8:], math.Float32bits(float32(v.Z)))
	}
	return buf
}

// EncodeUint32 packs triangle indices into a tightly-packed little-endian
// uint32 buffer, the layout meshdecimate.FormatUint32 expects.
func (m Mesh) EncodeUint32() []byte {
	buf := make([]byte, len(m.Triangles)*3*4)
	for i, t := range m.Triangles {
		o := i * 12
		binary.LittleEndian.PutUint32(buf[o:], t[0])
		binary.LittleEndian.PutUint32(buf[o+4:], t[1])
		binary.LittleEndian.PutUint32(buf[o+8:], t[2])
	}
	return buf
}
