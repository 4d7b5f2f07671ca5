// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package meshdecimate

// Flags are the optional behavior switches of spec.md §6 Configuration
// surface, passed to Decimate/DecimateBudget alongside an Operation.
type Flags uint32

const (
	// PlanarMode penalizes non-coplanar collapses more gently, favoring
	// flattening large near-planar regions over exact shape preservation.
	PlanarMode Flags = 1 << iota
	// NormalVertexSplitting detects normal-cluster discontinuities at a
	// merged vertex and splits it back apart rather than flattening a hard
	// edge or corner.
	NormalVertexSplitting
	// TriangleWindingCCW declares the input wound counter-clockwise; the
	// default is clockwise.
	TriangleWindingCCW
	// BoundaryLock locks every edge flagged as a boundary against collapse:
	// open edges and ridges whose face normals' dot product is below
	// RidgeDotThreshold.
	BoundaryLock
	// ContinuousVertices asserts the input has no duplicate positions. The
	// flag is passed to the engine but has no effect: the build never welds
	// vertices, with or without it.
	ContinuousVertices
)

// Operation bundles the mesh buffers, configuration and output counters for
// one decimation run (spec.md §6). Buffers are raw byte slices with an
// explicit format and stride so callers can pass interleaved vertex data
// without a copy; OperationData installs them.
type Operation struct {
	VertexCount  int
	VertexBuffer []byte
	VertexFormat VertexFormat
	VertexStride int

	TriangleCount int
	IndexBuffer   []byte
	IndexFormat   IndexFormat
	IndexStride   int

	// NormalBuffer, if non-nil, is checked by validate to hold VertexCount
	// normals, but is neither read nor written: NormalVertexSplitting's
	// clustering test always uses incident triangle normals.
	NormalBuffer []byte
	NormalFormat VertexFormat
	NormalStride int

	// VertexAlloc upper-bounds the vertex arena, including duplicates
	// created by NormalVertexSplitting. Defaults to 2×VertexCount if unset.
	VertexAlloc int

	// FeatureSize is the target collapse length scale (spec.md §4.D); the
	// collapse-cost ceiling is (0.25·FeatureSize)^6.
	FeatureSize float64

	// TargetVertexCountMax, if > 0, runs until the live vertex count drops
	// to or below it instead of stopping after SyncStepCount (spec.md §4.H).
	TargetVertexCountMax int

	SyncStepCount int
	SyncStepAbort int

	PlanarDeviationThreshold float64
	RidgeDotThreshold        float64
	BoundaryWeight           float64
	OrientationEps           float64

	StatusCallback StatusCallback
	StatusContext  any

	// Cancel, if set true concurrently with a running Decimate, is observed
	// at the next syncstep barrier (spec.md §5 Cancellation).
	Cancel bool

	// Outputs, populated once Decimate returns true.
	VertexCountOut   int
	TriangleCountOut int
	DecimationCount  int64
	CollisionCount   int64
}

// OperationInit returns an Operation with spec.md's documented defaults
// (DefaultConfig's constants, mirrored here since Operation is the public
// mesh-data-bearing twin of qmesh.Config).
func OperationInit() *Operation {
	return &Operation{
		SyncStepCount:  64,
		SyncStepAbort:  1 << 20,
		BoundaryWeight: 1.0,
	}
}

// OperationData installs the input mesh buffers. vertexCount/triangleCount
// are the element counts, not byte lengths; stride is the byte distance
// between successive elements (0 means "tightly packed", i.e. 3×scalar
// size for vertices, 3×index size for triangles).
func (op *Operation) OperationData(vertexCount int, vertexBuf []byte, vertexFormat VertexFormat, vertexStride int,
	triangleCount int, indexBuf []byte, indexFormat IndexFormat, indexStride int) {
	op.VertexCount = vertexCount
	op.VertexBuffer = vertexBuf
	op.VertexFormat = vertexFormat
	op.VertexStride = vertexStride
	op.TriangleCount = triangleCount
	op.IndexBuffer = indexBuf
	op.IndexFormat = indexFormat
	op.IndexStride = indexStride
}

func (op *Operation) vertexStride() int {
	if op.VertexStride > 0 {
		return op.VertexStride
	}
	return 3 * vertexScalarSize(op.VertexFormat)
}

func (op *Operation) normalStride() int {
	if op.NormalStride > 0 {
		return op.NormalStride
	}
	return 3 * vertexScalarSize(op.NormalFormat)
}

func (op *Operation) indexStride() int {
	if op.IndexStride > 0 {
		return op.IndexStride
	}
	return 3 * 4
}

// vertexAlloc is the upper bound on live vertices the engine may allocate,
// including duplicates NormalVertexSplitting creates. Mirrors the default
// engineConfig applies so validate can check the buffer against the same
// bound the engine will actually write up to.
func (op *Operation) vertexAlloc() int {
	if op.VertexAlloc > 0 {
		return op.VertexAlloc
	}
	return 2 * op.VertexCount
}

func (op *Operation) validate(flags Flags) error {
	if op.VertexCount <= 0 {
		return errf(ConfigurationInvalid, "vertex count must be positive, got %d", op.VertexCount)
	}
	if op.TriangleCount <= 0 {
		return errf(ConfigurationInvalid, "triangle count must be positive, got %d", op.TriangleCount)
	}
	if op.FeatureSize <= 0 {
		return errf(ConfigurationInvalid, "feature size must be positive, got %g", op.FeatureSize)
	}
	// pack() writes back one slot per surviving vertex, and
	// NormalVertexSplitting can grow the live vertex count past VertexCount
	// (out of the vertexAlloc headroom) before packing runs, so the buffer
	// must be sized for the worst case whenever that flag is in play.
	vertexCapacity := op.VertexCount
	if flags&NormalVertexSplitting != 0 {
		vertexCapacity = op.vertexAlloc()
	}
	needVertexBytes := (vertexCapacity-1)*op.vertexStride() + 3*vertexScalarSize(op.VertexFormat)
	if len(op.VertexBuffer) < needVertexBytes {
		return errf(ConfigurationInvalid, "vertex buffer too small: need %d bytes, have %d", needVertexBytes, len(op.VertexBuffer))
	}
	needIndexBytes := (op.TriangleCount-1)*op.indexStride() + 3*4
	if len(op.IndexBuffer) < needIndexBytes {
		return errf(ConfigurationInvalid, "index buffer too small: need %d bytes, have %d", needIndexBytes, len(op.IndexBuffer))
	}
	if op.NormalBuffer != nil {
		needNormalBytes := (op.VertexCount-1)*op.normalStride() + 3*vertexScalarSize(op.NormalFormat)
		if len(op.NormalBuffer) < needNormalBytes {
			return errf(ConfigurationInvalid, "normal buffer too small: need %d bytes, have %d", needNormalBytes, len(op.NormalBuffer))
		}
	}
	if op.SyncStepCount <= 0 {
		return errf(ConfigurationInvalid, "sync step count must be positive, got %d", op.SyncStepCount)
	}
	return nil
}
