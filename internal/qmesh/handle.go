// Package qmesh implements the quadric-error-metric mesh decimation engine:
// arenas, the edge/triangle hash, the cost model, the per-partition priority
// queues, the collapse executor and the syncstep-barrier parallel driver.
//
// Nothing here escapes to callers as a pointer graph; every cross-reference
// is a handle into one of the arenas in this package.
package qmesh

import "math"

// VertexHandle, TriangleHandle, EdgeHandle and OpHandle are stable 32-bit
// indices into their respective arenas. Keeping them as distinct types
// instead of a shared alias makes it a compile error to index a triangle
// pool with an edge handle and so on.
type (
	VertexHandle   uint32
	TriangleHandle uint32
	EdgeHandle     uint32
	OpHandle       uint32
)

// Sentinels denote "none". All four share the same bit pattern, which keeps
// zero-valued structs (before Alloc) visibly invalid rather than pointing at
// slot 0.
const (
	NoVertex   VertexHandle   = 1<<32 - 1
	NoTriangle TriangleHandle = 1<<32 - 1
	NoEdge     EdgeHandle     = 1<<32 - 1
	NoOp       OpHandle       = 1<<32 - 1
)

func (h VertexHandle) Valid() bool   { return h != NoVertex }
func (h TriangleHandle) Valid() bool { return h != NoTriangle }
func (h EdgeHandle) Valid() bool     { return h != NoEdge }
func (h OpHandle) Valid() bool       { return h != NoOp }

// FailValue is MD_OP_FAIL_VALUE from spec.md §4.D: a cost that must never be
// accepted by the driver. Set, as the original, to a quarter of the largest
// float32 value (math.MaxFloat32), although costs are computed in float64,
// leaving headroom above any real cost (costs are bounded by maxcollapsecost in
// normal operation) without risking overflow during comparisons.
const FailValue = 0.25 * math.MaxFloat32
