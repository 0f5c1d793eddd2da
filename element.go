package mesh

import (
	"iter"

	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// Element is a handle to one slot of a container. It stays valid across
// container growth; it is invalidated by compaction.
type Element struct {
	c *Container
	i uint32
}

func (e Element) Index() uint32 {
	return e.i
}

func (e Element) Kind() ElementID {
	return e.c.kind
}

func (e Element) Container() *Container {
	return e.c
}

func (e Element) IsNull() bool {
	return e.c == nil
}

func (e Element) Deleted() bool {
	return e.c.flag(e.i, FLAG_DELETED)
}

func (e Element) Selected() bool {
	return e.c.flag(e.i, FLAG_SELECTED)
}

func (e Element) SetSelected(v bool) {
	e.c.setFlag(e.i, FLAG_SELECTED, v)
}

func (e Element) OnBorder() bool {
	return e.c.flag(e.i, FLAG_BORDER)
}

func (e Element) SetOnBorder(v bool) {
	e.c.setFlag(e.i, FLAG_BORDER, v)
}

func (e Element) Visited() bool {
	return e.c.flag(e.i, FLAG_VISITED)
}

func (e Element) SetVisited(v bool) {
	e.c.setFlag(e.i, FLAG_VISITED, v)
}

func (e Element) UserBit(bit uint) bool {
	assertf(bit < USER_BITS_NUMBER, "user bit %d out of range", bit)
	return e.c.flag(e.i, FLAG_USER<<bit)
}

func (e Element) SetUserBit(bit uint, v bool) {
	assertf(bit < USER_BITS_NUMBER, "user bit %d out of range", bit)
	e.c.setFlag(e.i, FLAG_USER<<bit, v)
}

// Flags returns the raw status bits.
func (e Element) Flags() BitFlags {
	e.c.checkIndex(e.i)
	return e.c.flags[e.i]
}

// HasComponent reports whether the schema of e declares id, enabled or not.
func (e Element) HasComponent(id ComponentID) bool {
	return e.c.schema.Has(id)
}

func (e Element) IsComponentAvailable(id ComponentID) bool {
	return e.c.IsComponentAvailable(id)
}

func (e Element) Position() *dvec3.T {
	return Get(e, PositionKey)
}

func (e Element) Normal() *dvec3.T {
	return Get(e, NormalKey)
}

func (e Element) Color() *Color {
	return Get(e, ColorKey)
}

func (e Element) Quality() *float64 {
	return Get(e, QualityKey)
}

func (e Element) TexCoord() *TexCoord {
	return Get(e, TexCoordKey)
}

func (e Element) Mark() *int32 {
	return Get(e, MarkKey)
}

func (e Element) IncrementMark() {
	*Get(e, MarkKey)++
}

func (e Element) PrincipalCurvature() *PrincipalCurvature {
	return Get(e, PrincipalCurvatureKey)
}

func (e Element) Tangent() *Tangent {
	return Get(e, TangentKey)
}

// ImportFrom copies into e the components of src available on both sides.
// References are copied only when copyRefs is set.
func (e Element) ImportFrom(src Element, copyRefs bool) {
	e.c.importElement(e.i, src.c, src.i, copyRefs)
}

func (e Element) refs(k Key[[]uint32]) *[]uint32 {
	return Get(e, k)
}

func (e Element) sibling(kind ElementID, i uint32) Element {
	assertf(e.c.parent != nil, "%v is not part of a mesh", e.c.kind)
	c := e.c.parent.containers[kind]
	assertf(c != nil, "the mesh has no %v container", kind)
	return c.Element(i)
}

// adjacency lists

func (e Element) AdjVertexNumber() int {
	return len(*e.refs(AdjacentVerticesKey))
}

func (e Element) AdjVertexIndex(k int) uint32 {
	return (*e.refs(AdjacentVerticesKey))[k]
}

func (e Element) AdjVertex(k int) Vertex {
	return Vertex{e.sibling(VERTEX, e.AdjVertexIndex(k))}
}

func (e Element) SetAdjVertex(k int, vi uint32) {
	(*e.refs(AdjacentVerticesKey))[k] = vi
}

func (e Element) PushAdjVertex(vi uint32) {
	r := e.refs(AdjacentVerticesKey)
	*r = append(*r, vi)
}

func (e Element) ClearAdjVertices() {
	r := e.refs(AdjacentVerticesKey)
	*r = (*r)[:0]
}

func (e Element) AdjVertexIndices() []uint32 {
	return cloneList(*e.refs(AdjacentVerticesKey))
}

func (e Element) AdjFaceNumber() int {
	return len(*e.refs(AdjacentFacesKey))
}

func (e Element) AdjFaceIndex(k int) uint32 {
	return (*e.refs(AdjacentFacesKey))[k]
}

func (e Element) AdjFace(k int) Face {
	return Face{e.sibling(FACE, e.AdjFaceIndex(k))}
}

func (e Element) SetAdjFace(k int, fi uint32) {
	(*e.refs(AdjacentFacesKey))[k] = fi
}

// PushAdjFace appends fi to the adjacent faces. On faces the list is tied to
// the vertex number, use SetAdjFace instead.
func (e Element) PushAdjFace(fi uint32) {
	assertf(e.c.kind != FACE, "face adjacent faces are tied to the vertex number")
	r := e.refs(AdjacentFacesKey)
	*r = append(*r, fi)
}

func (e Element) ClearAdjFaces() {
	r := e.refs(AdjacentFacesKey)
	if e.c.kind == FACE {
		for k := range *r {
			(*r)[k] = UINT_NULL
		}
		return
	}
	*r = (*r)[:0]
}

func (e Element) AdjFaceIndices() []uint32 {
	return cloneList(*e.refs(AdjacentFacesKey))
}

func (e Element) AdjEdgeNumber() int {
	return len(*e.refs(AdjacentEdgesKey))
}

func (e Element) AdjEdgeIndex(k int) uint32 {
	return (*e.refs(AdjacentEdgesKey))[k]
}

func (e Element) AdjEdge(k int) Edge {
	return Edge{e.sibling(EDGE, e.AdjEdgeIndex(k))}
}

func (e Element) SetAdjEdge(k int, ei uint32) {
	(*e.refs(AdjacentEdgesKey))[k] = ei
}

func (e Element) PushAdjEdge(ei uint32) {
	assertf(e.c.kind != FACE, "face adjacent edges are tied to the vertex number")
	r := e.refs(AdjacentEdgesKey)
	*r = append(*r, ei)
}

func (e Element) ClearAdjEdges() {
	r := e.refs(AdjacentEdgesKey)
	if e.c.kind == FACE {
		for k := range *r {
			(*r)[k] = UINT_NULL
		}
		return
	}
	*r = (*r)[:0]
}

func (e Element) AdjEdgeIndices() []uint32 {
	return cloneList(*e.refs(AdjacentEdgesKey))
}

type Vertex struct {
	Element
}

type Face struct {
	Element
}

// VertexNumber returns the number of vertices of the face.
func (f Face) VertexNumber() int {
	return len(*f.refs(VertexReferencesKey))
}

func (f Face) VertexIndex(k int) uint32 {
	return (*f.refs(VertexReferencesKey))[k]
}

// VertexIndexMod is VertexIndex with k taken modulo the vertex number, so
// -1 is the last vertex.
func (f Face) VertexIndexMod(k int) uint32 {
	n := f.VertexNumber()
	return f.VertexIndex(((k % n) + n) % n)
}

func (f Face) Vertex(k int) Vertex {
	return Vertex{f.sibling(VERTEX, f.VertexIndex(k))}
}

func (f Face) VertexMod(k int) Vertex {
	return Vertex{f.sibling(VERTEX, f.VertexIndexMod(k))}
}

func (f Face) SetVertex(k int, vi uint32) {
	(*f.refs(VertexReferencesKey))[k] = vi
}

// SetVertices sets the vertex references of the face. Fixed size faces
// require exactly their vertex number of indices; polygons resize every list
// tied to the vertex number.
func (f Face) SetVertices(vids ...uint32) {
	vn := f.c.schema.vertexNumber
	if vn > 0 {
		assertf(len(vids) == vn, "face expects %d vertices, got %d", vn, len(vids))
	} else {
		f.c.resizeTied(f.i, len(vids))
	}
	copy(*f.refs(VertexReferencesKey), vids)
}

func (f Face) VertexIndices() []uint32 {
	return cloneList(*f.refs(VertexReferencesKey))
}

func (f Face) Vertices() iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for _, vi := range *f.refs(VertexReferencesKey) {
			if !yield(Vertex{f.sibling(VERTEX, vi)}) {
				return
			}
		}
	}
}

// ContainsVertex reports the position of vi in the face, -1 if absent.
func (f Face) ContainsVertex(vi uint32) int {
	for k, r := range *f.refs(VertexReferencesKey) {
		if r == vi {
			return k
		}
	}
	return -1
}

func (f Face) WedgeColor(k int) *Color {
	return &(*Get(f.Element, WedgeColorsKey))[k]
}

func (f Face) WedgeTexCoord(k int) *TexCoord {
	return &(*Get(f.Element, WedgeTexCoordsKey))[k]
}

type Edge struct {
	Element
}

func (e Edge) VertexIndex(k int) uint32 {
	return (*e.refs(VertexReferencesKey))[k]
}

func (e Edge) Vertex(k int) Vertex {
	return Vertex{e.sibling(VERTEX, e.VertexIndex(k))}
}

func (e Edge) SetVertices(a, b uint32) {
	r := *e.refs(VertexReferencesKey)
	r[0], r[1] = a, b
}
