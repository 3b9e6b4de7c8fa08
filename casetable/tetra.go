// Package casetable builds the combinatorial lookup tables that drive
// marching-tetrahedra triangulation of a cube case.
package casetable

// NumEdges is the number of directed edges used by the six-tetrahedra
// decomposition of a cube.
const NumEdges = 19

// NumTetrahedra is the number of tetrahedra a cube decomposes into.
const NumTetrahedra = 6

// NumCubes is the number of distinct 8-bit inside/outside cube cases.
const NumCubes = 256

// EdgeIndices enumerates the 19 directed edges (v0<v1) used by the
// tetrahedral decomposition, in canonical order. Edge index i refers to
// EdgeIndices[i].
var EdgeIndices = [NumEdges][2]uint8{
	{0, 1}, {0, 2}, {0, 3}, {1, 3}, {2, 3}, {0, 4}, {0, 5}, {1, 5}, {4, 5},
	{0, 6}, {2, 6}, {4, 6}, {0, 7}, {1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}, {6, 7},
}

// TetrahedronIndices gives the fixed 6-tetrahedron decomposition of a cube,
// each tetrahedron an ordered 4-tuple of cube-vertex indices. Order matters:
// it defines the reference orientation used by the case-table construction.
var TetrahedronIndices = [NumTetrahedra][4]uint8{
	{0, 7, 1, 3},
	{0, 7, 3, 2},
	{0, 7, 2, 6},
	{0, 7, 6, 4},
	{0, 7, 4, 5},
	{0, 7, 5, 1},
}

// findEdgeByVertexIDs returns the canonical edge index for the edge between
// cube-vertices v0 and v1. Callers must only pass pairs that occur among the
// 19 edges of the decomposition.
func findEdgeByVertexIDs(v0, v1 uint8) uint8 {
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	for i, e := range EdgeIndices {
		if e[0] == v0 && e[1] == v1 {
			return uint8(i)
		}
	}
	panic("casetable: no edge between given vertex ids")
}
