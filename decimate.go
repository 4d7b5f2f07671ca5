// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package meshdecimate implements parallel quadric-error-metric triangle
// mesh decimation: given a manifold-ish triangle mesh and a target feature
// size (or triangle budget), it collapses edges until the mesh reaches that
// target, preserving shape within the quadric error bound.
package meshdecimate

import (
	"github.com/2dChan/meshdecimate/internal/qmesh"
)

func toEngineFlags(f Flags) qmesh.Flags {
	var out qmesh.Flags
	if f&PlanarMode != 0 {
		out |= qmesh.FlagPlanarMode
	}
	if f&NormalVertexSplitting != 0 {
		out |= qmesh.FlagNormalVertexSplitting
	}
	if f&TriangleWindingCCW != 0 {
		out |= qmesh.FlagTriangleWindingCCW
	}
	if f&BoundaryLock != 0 {
		out |= qmesh.FlagBoundaryLock
	}
	if f&ContinuousVertices != 0 {
		out |= qmesh.FlagContinuousVertices
	}
	return out
}

func (op *Operation) engineConfig(flags Flags) qmesh.Config {
	cfg := qmesh.DefaultConfig()
	cfg.FeatureSize = op.FeatureSize
	cfg.TargetVertexCountMax = op.TargetVertexCountMax
	if op.SyncStepCount > 0 {
		cfg.SyncStepCount = op.SyncStepCount
	}
	if op.SyncStepAbort > 0 {
		cfg.SyncStepAbort = op.SyncStepAbort
	}
	if op.PlanarDeviationThreshold > 0 {
		cfg.PlanarDeviationThresh = op.PlanarDeviationThreshold
	}
	if op.RidgeDotThreshold > 0 {
		cfg.RidgeDotThreshold = op.RidgeDotThreshold
	}
	if op.BoundaryWeight > 0 {
		cfg.BoundaryWeight = op.BoundaryWeight
	}
	cfg.OrientationEps = op.OrientationEps
	cfg.Flags = toEngineFlags(flags)
	vertexAlloc := op.VertexAlloc
	if vertexAlloc <= 0 {
		vertexAlloc = 2 * op.VertexCount
	}
	cfg.VertexAlloc = vertexAlloc
	return cfg
}

// buildMesh loads op's input buffers into a fresh engine mesh and computes
// quadrics and boundary flags, i.e. spec.md §4.J stages BuildMesh/BuildEdges.
func (op *Operation) buildMesh(flags Flags) *qmesh.Mesh {
	cfg := op.engineConfig(flags)
	m := qmesh.NewMesh(op.VertexCount, op.TriangleCount, cfg.VertexAlloc, cfg)

	vstride := op.vertexStride()
	for i := 0; i < op.VertexCount; i++ {
		pos := readVector(op.VertexBuffer, i*vstride, op.VertexFormat)
		m.AddVertex(pos)
	}

	istride := op.indexStride()
	for i := 0; i < op.TriangleCount; i++ {
		base := i * istride
		a := readIndex(op.IndexBuffer, base, op.IndexFormat)
		b := readIndex(op.IndexBuffer, base+4, op.IndexFormat)
		c := readIndex(op.IndexBuffer, base+8, op.IndexFormat)
		m.AddTriangle(qmesh.VertexHandle(a), qmesh.VertexHandle(b), qmesh.VertexHandle(c))
	}

	m.BuildQuadrics()
	m.DetectBoundaries(cfg.RidgeDotThreshold)
	m.ApplyBoundaryLocks()
	return m
}

// pack writes the surviving triangles and vertices of m back into op's
// buffers in place, compacting out every retired slot, and records the
// output counters (spec.md §4.J stage Pack).
func (op *Operation) pack(m *qmesh.Mesh) {
	liveVerts := m.LiveVertices()
	remap := make(map[qmesh.VertexHandle]uint32, len(liveVerts))

	vstride := op.vertexStride()
	for newIdx, vh := range liveVerts {
		remap[vh] = uint32(newIdx)
		pos := m.VertexPosition(vh)
		writeVector(op.VertexBuffer, newIdx*vstride, op.VertexFormat, pos)
	}

	liveTris := m.LiveTriangles()
	istride := op.indexStride()
	for newIdx, th := range liveTris {
		v0, v1, v2 := m.TriangleCorners(th)
		base := newIdx * istride
		writeIndex(op.IndexBuffer, base, op.IndexFormat, remap[v0])
		writeIndex(op.IndexBuffer, base+4, op.IndexFormat, remap[v1])
		writeIndex(op.IndexBuffer, base+8, op.IndexFormat, remap[v2])
	}

	stats := m.Stats()
	op.VertexCountOut = len(liveVerts)
	op.TriangleCountOut = len(liveTris)
	op.DecimationCount = stats.DecimationCount
	op.CollisionCount = stats.CollisionCount
}

// Decimate runs a full decimation of op's input mesh using up to threadCount
// worker goroutines, writing the result back into op's own buffers and
// populating its output counters. It returns false with a non-nil error if
// op fails validation before any work starts (spec.md §6/§7).
func Decimate(op *Operation, threadCount int, flags Flags) (bool, error) {
	if err := op.validate(flags); err != nil {
		return false, err
	}

	op.report(StageInit)
	op.report(StageBuildMesh)
	m := op.buildMesh(flags)
	op.report(StageBuildEdges)
	op.report(StageBuildQueues)

	op.report(StageDecimate)
	cancel := func() bool { return op.Cancel }
	onStep := func(step, syncStepCount int, liveTriangles, liveVertices int64) {
		if op.StatusCallback == nil {
			return
		}
		op.StatusCallback(Status{
			Stage:         StageDecimate,
			Step:          step,
			StepCount:     syncStepCount,
			TriangleCount: liveTriangles,
			VertexCount:   liveVertices,
		}, op.StatusContext)
	}
	result := m.Run(threadCount, cancel, onStep)

	op.report(StageCleanup)
	op.report(StagePack)
	op.pack(m)
	op.report(StageDone)

	if result.Canceled {
		return false, &Error{Kind: Canceled, Msg: "canceled at syncstep barrier"}
	}
	return true, nil
}
