package mesh

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuadPolyMesh() *PolyMesh {
	m := NewPolyMesh()
	m.AddVertex(dvec3.T{0, 0, 0})
	m.AddVertex(dvec3.T{1, 0, 0})
	m.AddVertex(dvec3.T{1, 1, 0})
	m.AddVertex(dvec3.T{0, 1, 0})
	m.AddVertex(dvec3.T{2, 0, 0})
	m.AddFace(0, 1, 2, 3)
	m.AddFace(1, 4, 2)
	return m
}

// plainMesh is a user defined mesh type with no color anywhere and no mesh
// components.
type plainMesh struct {
	MeshBase
	VertexContainer
	FaceContainer
}

var (
	plainVertexSchema = NewVertexSchema(Mandatory(POSITION), Optional(QUALITY))
	plainFaceSchema   = NewFaceSchema(3)
)

func newPlainMesh() *plainMesh {
	m := &plainMesh{}
	m.AttachVertices(&m.VertexContainer, plainVertexSchema)
	m.AttachFaces(&m.FaceContainer, plainFaceSchema)
	return m
}

// TestNewMeshes checks the containers of the built-in mesh types.
func TestNewMeshes(t *testing.T) {
	tests := []struct {
		name     string
		mesh     Mesher
		elements [ELEMENTS_NUMBER]bool
	}{
		{"TriMesh", NewTriMesh(), [ELEMENTS_NUMBER]bool{true, true, false}},
		{"PolyMesh", NewPolyMesh(), [ELEMENTS_NUMBER]bool{true, true, false}},
		{"EdgeMesh", NewEdgeMesh(), [ELEMENTS_NUMBER]bool{true, false, true}},
		{"PointCloud", NewPointCloud(), [ELEMENTS_NUMBER]bool{true, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k := ElementID(0); k < ELEMENTS_NUMBER; k++ {
				assert.Equal(t, tt.elements[k], ContainerOf(tt.mesh, k) != nil, "%v", k)
			}
			assert.True(t, tt.mesh.meshBase().IsCompact())
		})
	}
	assert.NotEqual(t, IDOf(NewTriMesh()), IDOf(NewTriMesh()))
}

// TestAddAndDelete covers element counts with holes.
func TestAddAndDelete(t *testing.T) {
	m := NewTriMesh()
	for i := 0; i < 4; i++ {
		m.AddVertex(dvec3.T{float64(i), 0, 0})
	}
	f := m.AddFace(0, 1, 2)
	assert.Equal(t, uint32(0), f)
	m.AddFace(0, 2, 3)

	m.DeleteFace(0)
	assert.Equal(t, uint32(1), m.FaceNumber())
	assert.Equal(t, uint32(2), m.FaceContainerSize())
	assert.Equal(t, uint32(1), m.DeletedFaceNumber())
	assert.True(t, m.Face(0).Deleted())
	assert.Panics(t, func() { m.DeleteFace(0) })
	assert.Panics(t, func() { m.DeleteFace(5) })
	assert.Panics(t, func() { m.AddFace(0, 1) })

	var live []uint32
	for f := range m.Faces() {
		live = append(live, f.Index())
	}
	assert.Equal(t, []uint32{1}, live)
	assert.Equal(t, UINT_NULL, m.FaceIndexIfCompact(0))
	assert.Equal(t, uint32(0), m.FaceIndexIfCompact(1))
}

// TestCompactEdgeReferences builds 3 vertices, an edge on 0 and 2, deletes
// vertex 1 and compacts.
func TestCompactEdgeReferences(t *testing.T) {
	m := NewEdgeMesh()
	m.AddVertex(dvec3.T{0, 0, 0})
	m.AddVertex(dvec3.T{1, 0, 0})
	m.AddVertex(dvec3.T{2, 0, 0})
	m.AddEdge(0, 2)

	m.DeleteVertex(1)
	m.Compact()

	require.Equal(t, uint32(2), m.VertexNumber())
	require.Equal(t, uint32(2), m.VertexContainerSize())
	e := m.Edge(0)
	assert.Equal(t, uint32(0), e.VertexIndex(0))
	assert.Equal(t, uint32(1), e.VertexIndex(1))
	assert.Equal(t, dvec3.T{2, 0, 0}, *e.Vertex(1).Position())
}

// TestCompactFaceReferences checks vertex and adjacency references after a
// compaction of both containers.
func TestCompactFaceReferences(t *testing.T) {
	m := NewTriMesh()
	for i := 0; i < 4; i++ {
		m.AddVertex(dvec3.T{float64(i), float64(i * i), 0})
	}
	m.AddFace(0, 1, 2)
	m.AddFace(0, 2, 3)
	m.EnablePerVertexAdjacentFaces()
	m.Vertex(0).PushAdjFace(0)
	m.Vertex(0).PushAdjFace(1)

	m.DeleteFace(0)
	m.DeleteVertex(1)
	m.Compact()

	require.Equal(t, uint32(1), m.FaceNumber())
	require.Equal(t, uint32(3), m.VertexNumber())
	assert.Equal(t, []uint32{0, 1, 2}, m.Face(0).VertexIndices())
	assert.Equal(t, dvec3.T{3, 9, 0}, *m.Face(0).Vertex(2).Position())
	assert.Equal(t, []uint32{UINT_NULL, 0}, m.Vertex(0).AdjFaceIndices())
	assert.True(t, m.IsCompact())
}

// TestCompactIdempotent compacts twice; the second pass is the identity.
func TestCompactIdempotent(t *testing.T) {
	m := newQuadPolyMesh()
	m.DeleteVertex(4)
	m.DeleteFace(1)
	m.Compact()
	h1, err := Hash(m)
	require.NoError(t, err)

	ni := m.CompactVertices()
	assert.Equal(t, []uint32{0, 1, 2, 3}, ni)
	m.Compact()
	h2, err := Hash(m)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

// TestCompactCustomComponentsInLockstep checks that custom values follow
// their elements.
func TestCompactCustomComponentsInLockstep(t *testing.T) {
	m := NewTriMesh()
	require.NoError(t, AddCustomComponent[uint32](m.PerVertex(), "id"))
	for i := 0; i < 5; i++ {
		v := m.AddVertex(dvec3.T{float64(i), 0, 0})
		require.NoError(t, SetCustomComponent(m.Vertex(v).Element, "id", uint32(i*10)))
	}
	m.DeleteVertex(0)
	m.DeleteVertex(3)
	m.Compact()

	ids, err := CustomComponentValues[uint32](m.PerVertex(), "id")
	require.NoError(t, err)
	assert.Equal(t, []uint32{10, 20, 40}, ids)
	for v := range m.Vertices() {
		id, err := CustomComponent[uint32](v.Element, "id")
		require.NoError(t, err)
		assert.Equal(t, uint32(v.Position()[0]*10), id)
	}
}

// TestOptionalComponentToggle enables, disables and re-enables a component.
func TestOptionalComponentToggle(t *testing.T) {
	m := NewTriMesh()
	m.AddVertex(dvec3.T{})
	m.AddVertex(dvec3.T{})

	assert.False(t, m.IsPerVertexColorEnabled())
	assert.Panics(t, func() { m.Vertex(0).Color() })

	m.EnablePerVertexColor()
	require.True(t, m.IsPerVertexColorEnabled())
	*m.Vertex(0).Color() = ColorRed
	assert.Equal(t, ColorRed, *m.Vertex(0).Color())

	m.AddVertex(dvec3.T{})
	assert.Equal(t, Color{}, *m.Vertex(2).Color())

	m.PerVertex().DisableOptionalComponent(COLOR)
	assert.False(t, m.IsPerVertexColorEnabled())
	assert.Panics(t, func() { m.Vertex(0).Color() })

	m.EnablePerVertexColor()
	assert.Equal(t, Color{}, *m.Vertex(0).Color())

	assert.Panics(t, func() { m.EnablePerVertexComponent(POSITION) })
	assert.Panics(t, func() { m.EnablePerVertexComponent(VERTEX_REFERENCES) })
}

// TestPolygonTiedComponents checks that wedges follow the vertex number of
// polygons.
func TestPolygonTiedComponents(t *testing.T) {
	m := newQuadPolyMesh()
	m.EnablePerFaceComponent(WEDGE_COLORS)
	assert.Len(t, *Get(m.Face(0).Element, WedgeColorsKey), 4)
	assert.Len(t, *Get(m.Face(1).Element, WedgeColorsKey), 3)

	m.Face(1).SetVertices(1, 4, 2, 3, 0)
	assert.Equal(t, 5, m.Face(1).VertexNumber())
	assert.Len(t, *Get(m.Face(1).Element, WedgeColorsKey), 5)
	*m.Face(1).WedgeColor(4) = ColorBlue
	assert.Equal(t, ColorBlue, *m.Face(1).WedgeColor(4))
	assert.Equal(t, uint32(0), m.Face(1).VertexIndexMod(-1))
}

// TestImportMissingComponent imports a TriMesh with colors into a PolyMesh,
// before and after enabling the colors there.
func TestImportMissingComponent(t *testing.T) {
	m := NewTriMesh()
	colors := []Color{ColorRed, ColorGreen, ColorBlue}
	for i := range colors {
		m.AddVertex(dvec3.T{float64(i), 1, 2})
	}
	m.AddFace(0, 1, 2)
	m.EnablePerVertexColor()
	for i, c := range colors {
		*m.Vertex(uint32(i)).Color() = c
	}

	p := NewPolyMesh()
	assert.NotPanics(t, func() { ImportMesh(p, m) })
	assert.False(t, p.IsPerVertexColorEnabled())
	require.Equal(t, uint32(3), p.VertexNumber())
	assert.Equal(t, []uint32{0, 1, 2}, p.Face(0).VertexIndices())

	p.EnablePerVertexColor()
	ImportMesh(p, m)
	for i, c := range colors {
		assert.Equal(t, c, *p.Vertex(uint32(i)).Color())
	}
}

// TestImportUserMesh imports into a mesh type that cannot hold colors or
// mesh components.
func TestImportUserMesh(t *testing.T) {
	m := NewTriMesh()
	m.AddVertex(dvec3.T{1, 2, 3})
	m.AddVertex(dvec3.T{4, 5, 6})
	m.AddVertex(dvec3.T{7, 8, 9})
	m.AddFace(0, 1, 2)
	m.EnablePerVertexColor()
	m.EnablePerVertexQuality()
	*m.Vertex(1).Quality() = 0.5
	m.SetName("source")

	p := newPlainMesh()
	EnableSameOptionalComponentsOf(p, m)
	assert.NotPanics(t, func() { ImportMesh(p, m) })
	assert.True(t, p.PerVertex().IsComponentAvailable(QUALITY))
	assert.False(t, p.PerVertex().IsComponentAvailable(COLOR))
	assert.Equal(t, 0.5, *p.Vertex(1).Quality())
	assert.Equal(t, dvec3.T{4, 5, 6}, *p.Vertex(1).Position())
	assert.True(t, MeshComponents(p).IsEmpty())

	back := NewTriMesh()
	ImportMesh(back, p)
	assert.Equal(t, []uint32{0, 1, 2}, back.Face(0).VertexIndices())
	assert.Equal(t, "", back.Name())
}

// TestImportTriangulates imports polygons into a TriMesh.
func TestImportTriangulates(t *testing.T) {
	p := newQuadPolyMesh()
	p.EnablePerFaceColor()
	*p.Face(0).Color() = ColorGreen

	m := NewTriMesh()
	EnableSameOptionalComponentsOf(m, p)
	ImportMesh(m, p)

	require.Equal(t, uint32(3), m.FaceNumber())
	assert.Equal(t, []uint32{0, 1, 2}, m.Face(0).VertexIndices())
	assert.Equal(t, []uint32{1, 4, 2}, m.Face(1).VertexIndices())
	assert.Equal(t, []uint32{0, 2, 3}, m.Face(2).VertexIndices())
	assert.Equal(t, ColorGreen, *m.Face(2).Color())
}

// TestImportClearsMissingContainers imports an EdgeMesh into a TriMesh.
func TestImportClearsMissingContainers(t *testing.T) {
	m := NewTriMesh()
	m.AddVertex(dvec3.T{})
	m.AddVertex(dvec3.T{})
	m.AddVertex(dvec3.T{})
	m.AddFace(0, 1, 2)

	e := NewEdgeMesh()
	e.AddVertex(dvec3.T{1, 1, 1})
	e.AddVertex(dvec3.T{2, 2, 2})
	e.AddEdge(0, 1)

	ImportMesh(m, e)
	assert.Equal(t, uint32(2), m.VertexNumber())
	assert.Equal(t, uint32(0), m.FaceNumber())
}

// TestClone checks that a clone is deep and bound to itself.
func TestClone(t *testing.T) {
	m := newQuadPolyMesh()
	m.EnablePerVertexQuality()
	*m.Vertex(2).Quality() = 7
	m.SetName("quad")
	require.NoError(t, AddCustomComponent[float32](m.PerFace(), "area"))

	c := m.Clone()
	assert.NotEqual(t, m.ID(), c.ID())
	assert.Equal(t, "quad", c.Name())
	assert.True(t, c.IsPerVertexQualityEnabled())
	assert.True(t, c.PerFace().HasCustomComponent("area"))

	*c.Vertex(2).Quality() = 1
	c.Face(0).SetVertex(0, 4)
	assert.Equal(t, 7.0, *m.Vertex(2).Quality())
	assert.Equal(t, uint32(0), m.Face(0).VertexIndex(0))
	assert.Equal(t, dvec3.T{2, 0, 0}, *c.Face(0).Vertex(0).Position())
	for k := ElementID(0); k < ELEMENTS_NUMBER; k++ {
		if cc := c.containers[k]; cc != nil {
			assert.Same(t, &c.MeshBase, cc.parent, "%v", k)
		}
	}

	h1, err := Hash(m)
	require.NoError(t, err)
	h2, err := Hash(m.Clone())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

// TestAppend offsets references of appended elements.
func TestAppend(t *testing.T) {
	a := newQuadPolyMesh()
	b := newQuadPolyMesh()
	b.DeleteFace(0)
	Append(a, b)

	assert.Equal(t, uint32(10), a.VertexNumber())
	assert.Equal(t, uint32(3), a.FaceNumber())
	assert.Equal(t, uint32(4), a.FaceContainerSize())
	assert.True(t, a.Face(2).Deleted())
	assert.Equal(t, []uint32{6, 9, 7}, a.Face(3).VertexIndices())

	assert.Panics(t, func() { Append(NewTriMesh(), NewPolyMesh()) })
	assert.Panics(t, func() { Append(NewTriMesh(), NewEdgeMesh()) })
}

// TestResizeAndClear covers Resize shrinking and Clear.
func TestResizeAndClear(t *testing.T) {
	m := newQuadPolyMesh()
	m.ResizeVertices(8)
	assert.Equal(t, uint32(8), m.VertexNumber())
	assert.Equal(t, dvec3.T{}, *m.Vertex(7).Position())

	m.Clear()
	assert.Equal(t, uint32(0), m.VertexNumber())
	assert.Equal(t, uint32(0), m.FaceNumber())
	assert.Equal(t, uint32(0), m.FaceContainerSize())
}

// TestFlags covers the selection and user bits.
func TestFlags(t *testing.T) {
	m := NewPointCloud()
	v := m.Vertex(m.AddVertex(dvec3.T{}))
	v.SetSelected(true)
	v.SetUserBit(3, true)
	assert.True(t, v.Selected())
	assert.True(t, v.UserBit(3))
	assert.False(t, v.UserBit(2))
	assert.False(t, v.Visited())
	assert.Panics(t, func() { v.SetUserBit(USER_BITS_NUMBER, true) })

	v.SetSelected(false)
	assert.False(t, v.Selected())
	assert.True(t, v.UserBit(3))
}
