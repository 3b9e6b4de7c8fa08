// Package shipout implements the Ship-Out Pipeline (§4.6): it welds a
// batch of unwelded vertices by spatial key, partitions the welded set
// into internal and external (block-boundary) vertices, reindexes
// triangles against the welded array, and hands the result to an output
// functor.
package shipout

import (
	"context"

	"github.com/soypat/tetramarch/genvert"
	"github.com/soypat/tetramarch/keys"
	"github.com/soypat/tetramarch/scanutil"
)

// Mesh is the welded output of one ship-out, handed to Output.Invoke.
// Vertices[:NumInternalVertices] are owned outright by this ship-out and
// need never be revisited; the remainder are external vertices lying on
// the upper-z boundary of the shipped region, exposed for stitching with
// the mesh the next ship-out produces.
type Mesh struct {
	Vertices            []genvert.VertexRecord
	VertexKeys          []uint64
	Triangles           []uint32
	NumInternalVertices int
}

// Output is the external output functor of §6. Implementations must not
// block the calling goroutine indefinitely; the core will not begin the
// next ship-out until Invoke returns. Invoke should return ctx.Err()
// promptly if ctx is already done.
type Output interface {
	Invoke(ctx context.Context, mesh *Mesh) error
}

// sortItem is the payload carried through the sort in step 2: the vertex
// attributes plus the vertex's position before sorting, so the
// compact-and-partition pass can build indexRemap from pre-sort triangle
// indices to post-weld welded indices.
type sortItem struct {
	vert genvert.VertexRecord
	orig uint32
}

// Pipeline holds the scratch buffers reused across ship-outs by Ship.
type Pipeline struct {
	items  []sortItem
	flags  []uint32
	scan   []uint32
	remap  []uint32
	verts  []genvert.VertexRecord
	wkeys  []uint64
	tris   []uint32
}

// Ship performs the six steps of §4.6 over the first V unwelded
// vertices/keys (unweldedKeys must have length >= V+1 so the sentinel at
// position V has somewhere to go) and the first I unwelded indices,
// classifies welded vertices as internal/external against zMax (already
// doubled, per the packed-key convention), adds keyOffset's packed
// contribution to every welded key, and invokes out with the result.
//
// Ship reorders unweldedKeys[:V] in place (the sort of step 2) and writes
// the sentinel at unweldedKeys[V]; unweldedVerts is only read, the sort
// working on a copy of it.
func (p *Pipeline) Ship(ctx context.Context, unweldedKeys []uint64, unweldedVerts []genvert.VertexRecord, V int, indices []uint32, I int, zMax int, keyOffset keys.Cell, out Output) error {
	if V == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(unweldedKeys) < V+1 {
		panic("shipout: unweldedKeys needs room for the sentinel at index V")
	}
	if len(unweldedVerts) < V {
		panic("shipout: unweldedVerts shorter than V")
	}

	// Step 1: sentinel.
	unweldedKeys[V] = keys.Sentinel

	// Step 2: stable sort of the first V (key, vertex) pairs, carrying the
	// pre-sort index along so step 4 can build indexRemap.
	if cap(p.items) < V {
		p.items = make([]sortItem, V)
	}
	p.items = p.items[:V]
	for i := 0; i < V; i++ {
		p.items[i] = sortItem{vert: unweldedVerts[i], orig: uint32(i)}
	}
	scanutil.KeyedRadixSort(unweldedKeys[:V], p.items, scanutil.DefaultKeyBits)

	// Step 3: uniqueness count and exclusive scan.
	if cap(p.flags) < V {
		p.flags = make([]uint32, V)
	}
	p.flags = p.flags[:V]
	for i := 0; i < V; i++ {
		if i == 0 || unweldedKeys[i] != unweldedKeys[i-1] {
			p.flags[i] = 1
		} else {
			p.flags[i] = 0
		}
	}
	if cap(p.scan) < V+1 {
		p.scan = make([]uint32, V+1)
	}
	p.scan = p.scan[:V+1]
	numWelded := int(scanutil.ScanFlagsU32(p.flags, p.scan))

	// Step 4: compact, partition internal/external, build indexRemap.
	if cap(p.verts) < numWelded {
		p.verts = make([]genvert.VertexRecord, numWelded)
	}
	p.verts = p.verts[:numWelded]
	if cap(p.wkeys) < numWelded {
		p.wkeys = make([]uint64, numWelded)
	}
	p.wkeys = p.wkeys[:numWelded]
	if cap(p.remap) < V {
		p.remap = make([]uint32, V)
	}
	p.remap = p.remap[:V]

	keyOffsetL := keys.Offset(keyOffset)
	minExternal := keys.MinExternal(zMax)
	firstExternal := numWelded
	for i := 0; i < V; i++ {
		pos := p.scan[i]
		// scan[i+1]-1 is the welded index of the run containing i, the same
		// value for every member of a run of duplicate keys.
		p.remap[p.items[i].orig] = p.scan[i+1] - 1
		if p.flags[i] == 1 {
			p.verts[pos] = p.items[i].vert
			p.wkeys[pos] = unweldedKeys[i] + keyOffsetL
			if unweldedKeys[i] >= minExternal && int(pos) < firstExternal {
				firstExternal = int(pos)
			}
		}
	}

	// Step 5: reindex triangles through indexRemap.
	if cap(p.tris) < I {
		p.tris = make([]uint32, I)
	}
	p.tris = p.tris[:I]
	for j := 0; j < I; j++ {
		p.tris[j] = p.remap[indices[j]]
	}

	// Step 6: package and deliver.
	mesh := &Mesh{
		Vertices:            p.verts,
		VertexKeys:          p.wkeys,
		Triangles:           p.tris,
		NumInternalVertices: firstExternal,
	}
	return out.Invoke(ctx, mesh)
}
