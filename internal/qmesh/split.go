package qmesh

import (
	"sync/atomic"

	"github.com/golang/geo/r3"
)

// splitDotThreshold is the normal-similarity cutoff below which two
// incident triangles are considered to belong to different normal clusters
// at a merged vertex (spec.md §4.G step 3, Glossary: Vertex splitting).
const splitDotThreshold = 0.5

// splitIfDiscontinuous clusters v's incident triangles by normal similarity
// and, if more than one cluster exists, duplicates v into one vertex per
// extra cluster, allocating from the vertexalloc headroom. If the arena is
// exhausted it silently keeps the single merged vertex (spec.md §7
// ResourceExhausted: "falls back to not splitting at that vertex").
//
// NORMAL_VERTEX_SPLITTING combined with PLANAR_MODE tends to produce fewer
// splits than either flag would alone, since the planar fast-path already
// suppresses collapses that would have created the discontinuity; this
// module does not attempt to correct that interaction (spec.md §9).
func (m *Mesh) splitIfDiscontinuous(v VertexHandle) {
	vert := m.Vertices.get(uint32(v))
	if len(vert.Incident) < 2 {
		return
	}

	clusters := m.clusterByNormal(vert.Incident)
	if len(clusters) < 2 {
		return
	}

	// Keep the largest cluster on v; duplicate v for every other cluster.
	largest := 0
	for i, c := range clusters {
		if len(c) > len(clusters[largest]) {
			largest = i
		}
	}

	for i, cluster := range clusters {
		if i == largest {
			continue
		}
		idx, ok := m.Vertices.alloc()
		if !ok {
			return // vertexalloc exhausted: keep remaining clusters merged
		}
		nv := VertexHandle(idx)
		dup := m.Vertices.get(idx)
		*dup = Vertex{
			Pos:        vert.Pos,
			Normal:     vert.Normal,
			HasNormal:  vert.HasNormal,
			Quadric:    vert.Quadric,
			Area:       vert.Area,
			RedirectTo: NoVertex,
		}
		atomic.AddInt64(&m.stats.LiveVertexCount, 1)

		for _, th := range cluster {
			t := m.Triangles.get(uint32(th))
			corner := -1
			for i := range t.V {
				if t.V[i] == v {
					t.V[i] = nv
					corner = i
				}
			}
			if corner < 0 {
				continue
			}
			m.removeIncident(v, th)
			m.addIncident(nv, th)
			m.relinkCornerEdges(th, t, corner)
		}
	}
}

// relinkCornerEdges re-derives the two edges touching t's corner index
// (after splitIfDiscontinuous renamed that corner to a fresh vertex), and
// leaves the third, unaffected edge untouched. Corner i touches edges i and
// (i+2)%3 under the E[i]=(V[i],V[(i+1)%3]) convention established in
// AddTriangle. Both re-derived edges are requeued directly, since a split
// happens outside executeCollapse's touched-edge bookkeeping.
func (m *Mesh) relinkCornerEdges(th TriangleHandle, t *Triangle, corner int) {
	for _, i := range [2]int{corner, (corner + 2) % 3} {
		old := t.E[i]
		if old.Valid() {
			oldEdge := m.Edges.get(uint32(old))
			oldEdge.removeTriangle(th)
			if oldEdge.triCount() == 0 && !oldEdge.Retired {
				m.EdgeHash.remove(oldEdge.V0, oldEdge.V1)
				oldEdge.Retired = true
				m.Edges.release(uint32(old))
			} else {
				m.requeueEdge(old)
			}
		}
		a, b := t.V[i], t.V[(i+1)%3]
		newEdge := m.linkEdge(a, b, th)
		t.E[i] = newEdge
		m.requeueEdge(newEdge)
	}
}

// clusterByNormal groups triangles whose plane normal agrees within
// splitDotThreshold, using each triangle's current (already up to date)
// Normal field.
func (m *Mesh) clusterByNormal(incident []TriangleHandle) [][]TriangleHandle {
	var clusters [][]r3.Vector
	var groups [][]TriangleHandle

	for _, th := range incident {
		t := m.Triangles.get(uint32(th))
		if t.Retired {
			continue
		}
		placed := false
		for i, rep := range clusters {
			if rep[0].Dot(t.Normal) >= splitDotThreshold {
				groups[i] = append(groups[i], th)
				placed = true
				break
			}
		}
		if !placed {
			clusters = append(clusters, []r3.Vector{t.Normal})
			groups = append(groups, []TriangleHandle{th})
		}
	}
	return groups
}
