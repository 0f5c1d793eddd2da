package mesh

import (
	"fmt"
	"math"
)

const MESH_SIGNATURE string = "vcmh"
const MESHEXT string = ".vcm"
const V1 uint32 = 1

// UINT_NULL marks an empty reference or the new index of a deleted element.
const UINT_NULL uint32 = math.MaxUint32

// ElementID identifies the kind of an element container.
type ElementID uint8

const (
	VERTEX ElementID = iota
	FACE
	EDGE
	ELEMENTS_NUMBER
)

var elementNames = [ELEMENTS_NUMBER]string{"Vertex", "Face", "Edge"}

func (e ElementID) String() string {
	if e < ELEMENTS_NUMBER {
		return elementNames[e]
	}
	return fmt.Sprintf("Element(%d)", uint8(e))
}

// ComponentID is the system wide tag of a component. The same tag is used by
// every element kind that carries the component.
type ComponentID uint8

const (
	BIT_FLAGS ComponentID = iota
	POSITION
	NORMAL
	COLOR
	QUALITY
	TEX_COORD
	MARK
	PRINCIPAL_CURVATURE
	TANGENT
	ADJACENT_VERTICES
	ADJACENT_FACES
	ADJACENT_EDGES
	VERTEX_REFERENCES
	WEDGE_COLORS
	WEDGE_TEX_COORDS
	CUSTOM_COMPONENTS

	BOUNDING_BOX
	NAME
	TRANSFORM_MATRIX
	TEXTURE_IMAGES

	COMPONENTS_NUMBER
)

// ELEMENT_COMPONENTS_NUMBER bounds the tags that can appear in an element schema.
const ELEMENT_COMPONENTS_NUMBER = BOUNDING_BOX

func (c ComponentID) String() string {
	if c < COMPONENTS_NUMBER {
		return componentRegistry[c].name
	}
	return fmt.Sprintf("Component(%d)", uint8(c))
}

func (c ComponentID) IsMeshComponent() bool {
	return c >= BOUNDING_BOX && c < COMPONENTS_NUMBER
}

// BitFlags holds the per element status bits.
type BitFlags uint32

const (
	FLAG_DELETED BitFlags = 1 << iota
	FLAG_SELECTED
	FLAG_BORDER
	FLAG_VISITED

	// FLAG_USER is the first bit free for client code.
	FLAG_USER
)

// USER_BITS_NUMBER is the number of user bits available after FLAG_USER.
const USER_BITS_NUMBER = 28
