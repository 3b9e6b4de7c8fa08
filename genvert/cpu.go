package genvert

import "github.com/soypat/tetramarch/casetable"

// CPUDevice is the reference Device implementation: a straightforward Go
// loop over compacted cells, used by default and by every test that does
// not require a live GPU.
type CPUDevice struct{}

// SupportsImage2D always reports true: the CPU reference device models the
// image buffers as plain Go slices and has no hardware image-format
// restriction.
func (CPUDevice) SupportsImage2D() bool { return true }

func (CPUDevice) GenerateLayer(p GenerateParams) error {
	zLow := p.Z - 1
	for ci, cell := range p.Cells {
		off := p.Offsets[ci]
		vOff := p.BaseV + off.A
		iOff := p.BaseI + off.B

		edges := p.Table.VertexEdges(cell.Case)
		vkeys := p.Table.VertexKeys(cell.Case)
		for k, e := range edges {
			v0, v1 := edgeEndpoints(e)
			pos, payload := interpolateEdge(p.Prev, p.Cur, cell.X, cell.Y, zLow, v0, v1, p.Threshold)
			idx := int(vOff) + k
			p.Vertices[idx] = VertexRecord{Pos: pos, Payload: payload}
			p.Keys[idx] = cellKeyDelta(cell.X, cell.Y, zLow, vkeys[k])
		}

		tris := p.Table.TriangleIndices(cell.Case)
		for j, compactIdx := range tris {
			p.Indices[int(iOff)+j] = vOff + uint32(compactIdx)
		}
	}
	return nil
}

func edgeEndpoints(edge uint8) (uint8, uint8) {
	e := casetable.EdgeIndices[edge]
	return e[0], e[1]
}
