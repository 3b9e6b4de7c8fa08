package casetable

import (
	"sync"

	"github.com/soypat/tetramarch/keys"
)

// Count holds the per-case vertex and index counts.
type Count struct {
	V, I uint16
}

// Start holds prefix offsets into the concatenated Data table. Vertex edge
// lists begin at Start[i].V; triangle index lists begin at Start[i].I (once
// offset by the total vertex-edge-list length, done once by New).
type Start struct {
	V, I uint32
}

// Table holds the four immutable tables produced by the case-table
// generator: per-case counts, per-case start offsets, the concatenated data
// buffer (edge lists followed by triangle indices), and the per-emitted-
// vertex axis-delta key table.
type Table struct {
	Count [NumCubes]Count
	Start [NumCubes + 1]Start
	// Data concatenates, for every case, its edge-index list followed by its
	// triangle index list (referring to positions within that case's edge
	// list). Start[i].I already accounts for the vertex-table offset.
	Data []uint8
	// Key holds one entry per emitted vertex across all cases (same length
	// and order as the vertex portion of Data), giving the per-axis delta
	// used to compute that vertex's spatial key.
	Key []keys.Delta

	// MaxCellVertices and MaxCellIndices are the maxima of Count[i].V and
	// Count[i].I over all cases, used for resource accounting.
	MaxCellVertices, MaxCellIndices int
}

// tvtx pairs a cube-vertex id with whether it is classified outside for the
// cube case currently being processed.
type tvtx struct {
	v       uint8
	outside bool
}

// permutationParity counts transposition parity of a by comparing vertex
// ids pairwise, mirroring the source's pair-comparison based parity count.
func permutationParity(a [4]tvtx) int {
	parity := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if a[i].v > a[j].v {
				parity ^= 1
			}
		}
	}
	return parity
}

// permute visits every permutation of a[k:] in place, calling visit after
// each full permutation is assembled. visit returns true to stop early.
func permute(a []tvtx, k int, visit func([4]tvtx) bool) bool {
	if k == len(a) {
		var arr [4]tvtx
		copy(arr[:], a)
		return visit(arr)
	}
	for i := k; i < len(a); i++ {
		a[k], a[i] = a[i], a[k]
		stop := permute(a, k+1, visit)
		a[k], a[i] = a[i], a[k]
		if stop {
			return true
		}
	}
	return false
}

// New builds the case tables from scratch by enumerating, for each of the
// 256 cube cases and each of its six tetrahedra, a rotation of the
// tetrahedron's vertices into one of three canonical outside-mask
// configurations, per the construction algorithm.
func New() *Table {
	var t Table
	var vertexTable, indexTable []uint8
	var keyTable []keys.Delta

	for i := 0; i < NumCubes; i++ {
		t.Start[i] = Start{V: uint32(len(vertexTable)), I: uint32(len(indexTable))}

		var triangles []uint8
		for j := 0; j < NumTetrahedra; j++ {
			var tv [4]tvtx
			outside := 0
			for k := 0; k < 4; k++ {
				v := TetrahedronIndices[j][k]
				o := i&(1<<v) != 0
				if o {
					outside++
				}
				tv[k] = tvtx{v: v, outside: o}
			}
			baseParity := permutationParity(tv)

			// Reduce to outside <= 2 by flipping inside/outside; this also
			// flips the required triangle winding, tracked via baseParity.
			if outside > 2 {
				baseParity ^= 1
				for k := range tv {
					tv[k].outside = !tv[k].outside
				}
			}

			// Sort by cube-vertex id ascending before enumerating rotations,
			// matching the canonical-configuration search.
			for a := 0; a < 4; a++ {
				for b := a + 1; b < 4; b++ {
					if tv[b].v < tv[a].v {
						tv[a], tv[b] = tv[b], tv[a]
					}
				}
			}

			permute(tv[:], 0, func(p [4]tvtx) bool {
				if permutationParity(p) != baseParity {
					return false
				}
				t0, t1, t2, t3 := p[0].v, p[1].v, p[2].v, p[3].v
				mask := 0
				for k := 0; k < 4; k++ {
					if p[k].outside {
						mask |= 1 << k
					}
				}
				switch mask {
				case 0:
					return true // no outside vertices, no triangles needed
				case 1:
					triangles = append(triangles,
						findEdgeByVertexIDs(t0, t1),
						findEdgeByVertexIDs(t0, t3),
						findEdgeByVertexIDs(t0, t2))
					return true
				case 3:
					triangles = append(triangles,
						findEdgeByVertexIDs(t0, t2),
						findEdgeByVertexIDs(t1, t2),
						findEdgeByVertexIDs(t1, t3),
						findEdgeByVertexIDs(t1, t3),
						findEdgeByVertexIDs(t0, t3),
						findEdgeByVertexIDs(t0, t2))
					return true
				default:
					return false // not a canonical configuration, keep searching
				}
			})
		}

		// Assign compact per-case vertex indices to the edges the triangles
		// use, in first-use order, and record their key deltas.
		var edgeCompact [NumEdges]int
		for e := range edgeCompact {
			edgeCompact[e] = -1
		}
		for _, tri := range triangles {
			e := int(tri)
			if edgeCompact[e] >= 0 {
				continue
			}
			edgeCompact[e] = len(vertexTable) - int(t.Start[i].V)
			vertexTable = append(vertexTable, uint8(e))
			v0, v1 := EdgeIndices[e][0], EdgeIndices[e][1]
			keyTable = append(keyTable, keys.Delta{
				DX: ((v0 >> 0) & 1) + ((v1 >> 0) & 1),
				DY: ((v0 >> 1) & 1) + ((v1 >> 1) & 1),
				DZ: ((v0 >> 2) & 1) + ((v1 >> 2) & 1),
			})
		}
		for _, tri := range triangles {
			indexTable = append(indexTable, uint8(edgeCompact[tri]))
		}

		t.Count[i] = Count{
			V: uint16(len(vertexTable) - int(t.Start[i].V)),
			I: uint16(len(indexTable) - int(t.Start[i].I)),
		}
		if int(t.Count[i].V) > t.MaxCellVertices {
			t.MaxCellVertices = int(t.Count[i].V)
		}
		if int(t.Count[i].I) > t.MaxCellIndices {
			t.MaxCellIndices = int(t.Count[i].I)
		}
	}

	t.Start[NumCubes] = Start{V: uint32(len(vertexTable)), I: uint32(len(indexTable))}
	// The index table is appended after the vertex table in Data, so every
	// start's I offset must be shifted by the vertex table's final length.
	for i := range t.Start {
		t.Start[i].I += uint32(len(vertexTable))
	}

	t.Data = append(vertexTable, indexTable...)
	t.Key = keyTable
	return &t
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns a process-wide shared Table, built lazily on first use.
// Case tables have no mutable state, so sharing one Table across many
// Engine instances is always safe.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = New()
	})
	return defaultTable
}

// VertexEdges returns the edge indices this case interpolates a vertex on.
func (t *Table) VertexEdges(caseID uint8) []uint8 {
	s := t.Start[caseID]
	n := t.Count[caseID].V
	return t.Data[s.V : s.V+uint32(n)]
}

// TriangleIndices returns the per-case compact vertex indices of the
// triangles for this case (length is a multiple of 3).
func (t *Table) TriangleIndices(caseID uint8) []uint8 {
	s := t.Start[caseID]
	n := t.Count[caseID].I
	return t.Data[s.I : s.I+uint32(n)]
}

// VertexKeys returns the axis-delta key entries for the vertices of this
// case, aligned with VertexEdges.
func (t *Table) VertexKeys(caseID uint8) []keys.Delta {
	s := t.Start[caseID]
	n := t.Count[caseID].V
	return t.Key[s.V : s.V+uint32(n)]
}
