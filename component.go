package mesh

import (
	"image/color"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/vec2"
)

// Color is an RGBA color with 8 bits per channel.
type Color [4]byte

var (
	ColorBlack = Color{0, 0, 0, 255}
	ColorWhite = Color{255, 255, 255, 255}
	ColorRed   = Color{255, 0, 0, 255}
	ColorGreen = Color{0, 255, 0, 255}
	ColorBlue  = Color{0, 0, 255, 255}
)

func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

func (c Color) Float32() [4]float32 {
	return [4]float32{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}
}

// TexCoord is a texture coordinate plus the index of the texture it refers to.
type TexCoord struct {
	UV    vec2.T
	Index uint16
}

type PrincipalCurvature struct {
	MaxDir   dvec3.T
	MinDir   dvec3.T
	MaxValue float64
	MinValue float64
}

type Tangent struct {
	Dir         dvec3.T
	RightHanded bool
}

// Key gives statically typed access to the value of a component tag.
type Key[T any] struct {
	id ComponentID
}

func (k Key[T]) ID() ComponentID {
	return k.id
}

var (
	PositionKey           = Key[dvec3.T]{POSITION}
	NormalKey             = Key[dvec3.T]{NORMAL}
	ColorKey              = Key[Color]{COLOR}
	QualityKey            = Key[float64]{QUALITY}
	TexCoordKey           = Key[TexCoord]{TEX_COORD}
	MarkKey               = Key[int32]{MARK}
	PrincipalCurvatureKey = Key[PrincipalCurvature]{PRINCIPAL_CURVATURE}
	TangentKey            = Key[Tangent]{TANGENT}
	AdjacentVerticesKey   = Key[[]uint32]{ADJACENT_VERTICES}
	AdjacentFacesKey      = Key[[]uint32]{ADJACENT_FACES}
	AdjacentEdgesKey      = Key[[]uint32]{ADJACENT_EDGES}
	VertexReferencesKey   = Key[[]uint32]{VERTEX_REFERENCES}
	WedgeColorsKey        = Key[[]Color]{WEDGE_COLORS}
	WedgeTexCoordsKey     = Key[[]TexCoord]{WEDGE_TEX_COORDS}
)

// Get returns the value of the component of e addressed by k. It panics when
// the component is not available on e.
func Get[T any](e Element, k Key[T]) *T {
	col := e.c.availableColumn(k.id)
	return &col.(*vecColumn[T]).data[e.i]
}

type componentInfo struct {
	name     string
	elements [ELEMENTS_NUMBER]bool
	// ref reports a column of element indices into refTarget.
	ref       bool
	refTarget ElementID
	// tied reports a list sized by the face vertex number when carried by a face.
	tied      bool
	newColumn func(size int) column
}

func on(kinds ...ElementID) [ELEMENTS_NUMBER]bool {
	var r [ELEMENTS_NUMBER]bool
	for _, k := range kinds {
		r[k] = true
	}
	return r
}

func plainColumn[T any]() func(int) column {
	return func(int) column { return newVecColumn[T](nil, nil, nil) }
}

func nullRefs(size int) []uint32 {
	r := make([]uint32, size)
	for i := range r {
		r[i] = UINT_NULL
	}
	return r
}

func refListColumn(size int) column {
	var fresh func() []uint32
	if size > 0 {
		fresh = func() []uint32 { return nullRefs(size) }
	}
	return newVecColumn(fresh, cloneList[uint32], listCodec[uint32]())
}

func wedgeColumn[E any](size int) column {
	var fresh func() []E
	if size > 0 {
		fresh = func() []E { return make([]E, size) }
	}
	return newVecColumn(fresh, cloneList[E], listCodec[E]())
}

var componentRegistry = [COMPONENTS_NUMBER]componentInfo{
	BIT_FLAGS: {name: "BitFlags", elements: on(VERTEX, FACE, EDGE)},
	POSITION:  {name: "Position", elements: on(VERTEX), newColumn: plainColumn[dvec3.T]()},
	NORMAL:    {name: "Normal", elements: on(VERTEX, FACE), newColumn: plainColumn[dvec3.T]()},
	COLOR:     {name: "Color", elements: on(VERTEX, FACE, EDGE), newColumn: plainColumn[Color]()},
	QUALITY:   {name: "Quality", elements: on(VERTEX, FACE, EDGE), newColumn: plainColumn[float64]()},
	TEX_COORD: {name: "TexCoord", elements: on(VERTEX), newColumn: plainColumn[TexCoord]()},
	MARK:      {name: "Mark", elements: on(VERTEX, FACE, EDGE), newColumn: plainColumn[int32]()},
	PRINCIPAL_CURVATURE: {name: "PrincipalCurvature", elements: on(VERTEX),
		newColumn: plainColumn[PrincipalCurvature]()},
	TANGENT: {name: "Tangent", elements: on(VERTEX), newColumn: plainColumn[Tangent]()},
	ADJACENT_VERTICES: {name: "AdjacentVertices", elements: on(VERTEX),
		ref: true, refTarget: VERTEX, newColumn: refListColumn},
	ADJACENT_FACES: {name: "AdjacentFaces", elements: on(VERTEX, FACE, EDGE),
		ref: true, refTarget: FACE, tied: true, newColumn: refListColumn},
	ADJACENT_EDGES: {name: "AdjacentEdges", elements: on(VERTEX, FACE, EDGE),
		ref: true, refTarget: EDGE, tied: true, newColumn: refListColumn},
	VERTEX_REFERENCES: {name: "VertexReferences", elements: on(FACE, EDGE),
		ref: true, refTarget: VERTEX, tied: true, newColumn: refListColumn},
	WEDGE_COLORS:      {name: "WedgeColors", elements: on(FACE), tied: true, newColumn: wedgeColumn[Color]},
	WEDGE_TEX_COORDS:  {name: "WedgeTexCoords", elements: on(FACE), tied: true, newColumn: wedgeColumn[TexCoord]},
	CUSTOM_COMPONENTS: {name: "CustomComponents", elements: on(VERTEX, FACE, EDGE)},
	BOUNDING_BOX:      {name: "BoundingBox"},
	NAME:              {name: "Name"},
	TRANSFORM_MATRIX:  {name: "TransformMatrix"},
	TEXTURE_IMAGES:    {name: "TextureImages"},
}

// IsReferenceComponent reports whether the tag stores indices of other
// elements, and the kind of those elements.
func IsReferenceComponent(id ComponentID) (bool, ElementID) {
	info := &componentRegistry[id]
	return info.ref, info.refTarget
}

// columnSize returns the list length of a new value of id on an element of
// the given schema: the face vertex number for tied components, 2 for edge
// vertex references, 0 otherwise.
func columnSize(s *ElementSchema, id ComponentID) int {
	info := &componentRegistry[id]
	switch s.kind {
	case FACE:
		if info.tied && s.vertexNumber > 0 {
			return s.vertexNumber
		}
	case EDGE:
		if id == VERTEX_REFERENCES {
			return 2
		}
	}
	return 0
}

func newComponentColumn(s *ElementSchema, id ComponentID, n int) column {
	col := componentRegistry[id].newColumn(columnSize(s, id))
	col.resize(n)
	return col
}
