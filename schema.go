package mesh

import "fmt"

// ElementSchema is the fixed component composition of one element kind:
// which tags it carries and which of them are optional.
type ElementSchema struct {
	kind         ElementID
	vertexNumber int
	mandatory    ComponentMask
	optional     ComponentMask
}

type SchemaOption func(*ElementSchema)

func Mandatory(ids ...ComponentID) SchemaOption {
	return func(s *ElementSchema) {
		for _, id := range ids {
			s.mandatory.Set(id)
		}
	}
}

func Optional(ids ...ComponentID) SchemaOption {
	return func(s *ElementSchema) {
		for _, id := range ids {
			s.optional.Set(id)
		}
	}
}

// NewVertexSchema defines a vertex composition. Vertices always carry
// BIT_FLAGS and a mandatory POSITION.
func NewVertexSchema(opts ...SchemaOption) *ElementSchema {
	return newSchema(VERTEX, 0, opts)
}

// NewFaceSchema defines a face composition with the given vertex number, 3 or
// more for fixed size faces and -1 for polygons. VERTEX_REFERENCES is always
// mandatory.
func NewFaceSchema(vertexNumber int, opts ...SchemaOption) *ElementSchema {
	if vertexNumber != -1 && vertexNumber < 3 {
		panic(fmt.Sprintf("mesh: invalid face vertex number %d", vertexNumber))
	}
	return newSchema(FACE, vertexNumber, append(opts, Mandatory(VERTEX_REFERENCES)))
}

func NewEdgeSchema(opts ...SchemaOption) *ElementSchema {
	return newSchema(EDGE, 2, append(opts, Mandatory(VERTEX_REFERENCES)))
}

func newSchema(kind ElementID, vn int, opts []SchemaOption) *ElementSchema {
	s := &ElementSchema{kind: kind, vertexNumber: vn}
	for _, o := range opts {
		o(s)
	}
	s.mandatory.Set(BIT_FLAGS)
	if err := s.validate(); err != nil {
		panic(err.Error())
	}
	return s
}

func (s *ElementSchema) validate() error {
	if both := s.mandatory.And(s.optional); !both.IsEmpty() {
		return fmt.Errorf("mesh: %v components %v are both mandatory and optional", s.kind, both)
	}
	if s.optional.Has(BIT_FLAGS) || s.optional.Has(CUSTOM_COMPONENTS) {
		return fmt.Errorf("mesh: %v bit flags and custom components cannot be optional", s.kind)
	}
	for id := range s.Components().All() {
		if id >= ELEMENT_COMPONENTS_NUMBER {
			return fmt.Errorf("mesh: %v is a mesh component, not an element component", id)
		}
		if !componentRegistry[id].elements[s.kind] {
			return fmt.Errorf("mesh: component %v cannot be carried by a %v", id, s.kind)
		}
	}
	if s.kind == VERTEX && !s.mandatory.Has(POSITION) {
		return fmt.Errorf("mesh: vertex schema requires a mandatory Position")
	}
	if s.kind != VERTEX && s.optional.Has(VERTEX_REFERENCES) {
		return fmt.Errorf("mesh: %v vertex references cannot be optional", s.kind)
	}
	return nil
}

func (s *ElementSchema) Kind() ElementID {
	return s.kind
}

// VertexNumber returns the face arity, -1 for polygons. It is 2 for edges and
// 0 for vertices.
func (s *ElementSchema) VertexNumber() int {
	return s.vertexNumber
}

func (s *ElementSchema) Components() ComponentMask {
	return s.mandatory | s.optional
}

func (s *ElementSchema) MandatoryComponents() ComponentMask {
	return s.mandatory
}

func (s *ElementSchema) OptionalComponents() ComponentMask {
	return s.optional
}

func (s *ElementSchema) Has(id ComponentID) bool {
	return s.Components().Has(id)
}

func (s *ElementSchema) IsOptional(id ComponentID) bool {
	return s.optional.Has(id)
}

func (s *ElementSchema) Equal(o *ElementSchema) bool {
	return s.kind == o.kind && s.vertexNumber == o.vertexNumber &&
		s.mandatory == o.mandatory && s.optional == o.optional
}

var (
	TriMeshVertexSchema = NewVertexSchema(
		Mandatory(POSITION, NORMAL, CUSTOM_COMPONENTS),
		Optional(COLOR, QUALITY, TEX_COORD, MARK, PRINCIPAL_CURVATURE, TANGENT,
			ADJACENT_VERTICES, ADJACENT_FACES, ADJACENT_EDGES),
	)
	TriMeshFaceSchema = NewFaceSchema(3,
		Mandatory(NORMAL, CUSTOM_COMPONENTS),
		Optional(COLOR, QUALITY, MARK, ADJACENT_FACES, ADJACENT_EDGES,
			WEDGE_COLORS, WEDGE_TEX_COORDS),
	)
	PolyMeshFaceSchema = NewFaceSchema(-1,
		Mandatory(NORMAL, CUSTOM_COMPONENTS),
		Optional(COLOR, QUALITY, MARK, ADJACENT_FACES, ADJACENT_EDGES,
			WEDGE_COLORS, WEDGE_TEX_COORDS),
	)
	EdgeMeshEdgeSchema = NewEdgeSchema(
		Mandatory(CUSTOM_COMPONENTS),
		Optional(COLOR, QUALITY, MARK, ADJACENT_FACES, ADJACENT_EDGES),
	)
	PointCloudVertexSchema = NewVertexSchema(
		Mandatory(POSITION, NORMAL, CUSTOM_COMPONENTS),
		Optional(COLOR, QUALITY, TEX_COORD, MARK, PRINCIPAL_CURVATURE, TANGENT),
	)
)
