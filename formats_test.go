package meshdecimate

import (
	"testing"

	"github.com/golang/geo/r3"
)

func TestVectorRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format VertexFormat
	}{
		{"float32", FormatFloat32},
		{"float64", FormatFloat64},
	}
	want := r3.Vector{X: 1.5, Y: -2.25, Z: 3.75}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 24)
			writeVector(buf, 0, tt.format, want)
			got := readVector(buf, 0, tt.format)
			if got != want {
				t.Errorf("round trip through %v = %v, want %v", tt.name, got, want)
			}
		})
	}
}

func TestIndexRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format IndexFormat
		value  uint32
	}{
		{"uint32", FormatUint32, 1 << 20},
		{"int32", FormatInt32, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, 4)
			writeIndex(buf, 0, tt.format, tt.value)
			got := readIndex(buf, 0, tt.format)
			if got != tt.value {
				t.Errorf("round trip through %v = %v, want %v", tt.name, got, tt.value)
			}
		})
	}
}
