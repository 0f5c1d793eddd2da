package algorithms

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mesh "github.com/flywave/go-vcmesh"
)

func TestPerFaceAdjacentFaces(t *testing.T) {
	m := CreateCube()
	m.EnablePerFaceAdjacentFaces()
	require.NoError(t, UpdatePerFaceAdjacentFaces(m))

	// face 0 is {0, 3, 2, 1}
	assert.Equal(t, []uint32{5, 3, 4, 2}, m.Face(0).AdjFaceIndices())
	for f := range m.Faces() {
		assert.False(t, f.OnBorder(), "face %d", f.Index())
		for k := 0; k < f.VertexNumber(); k++ {
			adj := f.AdjFaceIndex(k)
			require.NotEqual(t, mesh.UINT_NULL, adj)
			assert.GreaterOrEqual(t, m.Face(adj).ContainsVertex(f.VertexIndex(k)), 0)
			assert.GreaterOrEqual(t, m.Face(adj).ContainsVertex(f.VertexIndexMod(k+1)), 0)
		}
	}

	t.Run("open box", func(t *testing.T) {
		m.DeleteFace(1)
		require.NoError(t, UpdatePerFaceAdjacentFaces(m))
		// face 2 is {0, 1, 5, 4}, its side 5-4 lost the top
		assert.Equal(t, []uint32{0, 4, mesh.UINT_NULL, 5}, m.Face(2).AdjFaceIndices())
		assert.True(t, m.Face(2).OnBorder())
		assert.False(t, m.Face(0).OnBorder())
	})
}

func TestPerFaceAdjacentFacesNonManifold(t *testing.T) {
	m := mesh.NewTriMesh()
	m.AddVertex(dvec3.T{0, 0, 0})
	m.AddVertex(dvec3.T{1, 0, 0})
	m.AddVertex(dvec3.T{0, 1, 0})
	m.AddVertex(dvec3.T{0, -1, 0})
	m.AddVertex(dvec3.T{0, 0, 1})
	m.AddFace(0, 1, 2)
	m.AddFace(1, 0, 3)
	m.AddFace(0, 1, 4)
	m.EnablePerFaceAdjacentFaces()
	require.NoError(t, UpdatePerFaceAdjacentFaces(m))

	// the three faces share side 0-1 and are linked in a cycle
	assert.Equal(t, uint32(1), m.Face(0).AdjFaceIndex(0))
	assert.Equal(t, uint32(2), m.Face(1).AdjFaceIndex(0))
	assert.Equal(t, uint32(0), m.Face(2).AdjFaceIndex(0))
	assert.Equal(t, mesh.UINT_NULL, m.Face(0).AdjFaceIndex(1))
	assert.True(t, m.Face(0).OnBorder())
}

func TestPerVertexAdjacency(t *testing.T) {
	m := CreateCube()
	m.EnablePerVertexAdjacentFaces()
	m.EnablePerVertexAdjacentVertices()
	require.NoError(t, UpdatePerVertexAdjacentFaces(m))
	require.NoError(t, UpdatePerVertexAdjacentVertices(m))

	assert.Equal(t, []uint32{0, 2, 5}, m.Vertex(0).AdjFaceIndices())
	assert.Equal(t, []uint32{1, 3, 4}, m.Vertex(0).AdjVertexIndices())
	assert.Equal(t, []uint32{2, 5, 7}, m.Vertex(6).AdjVertexIndices())
	for v := range m.Vertices() {
		assert.Equal(t, 3, v.AdjFaceNumber())
		assert.Equal(t, 3, v.AdjVertexNumber())
	}

	m.DeleteFace(0)
	require.NoError(t, UpdatePerVertexAdjacentFaces(m))
	assert.Equal(t, []uint32{2, 5}, m.Vertex(0).AdjFaceIndices())
}

func TestPerVertexAdjacentEdges(t *testing.T) {
	m := mesh.NewEdgeMesh()
	for i := 0; i < 4; i++ {
		m.AddVertex(dvec3.T{float64(i), 0, 0})
	}
	m.AddEdge(0, 1)
	m.AddEdge(1, 2)
	m.AddEdge(2, 3)
	m.AddEdge(3, 3)

	assert.Error(t, UpdatePerVertexAdjacentEdges(m))
	m.EnablePerVertexComponent(mesh.ADJACENT_EDGES)
	require.NoError(t, UpdatePerVertexAdjacentEdges(m))
	assert.Equal(t, []uint32{0}, m.Vertex(0).AdjEdgeIndices())
	assert.Equal(t, []uint32{0, 1}, m.Vertex(1).AdjEdgeIndices())
	assert.Equal(t, []uint32{2, 3}, m.Vertex(3).AdjEdgeIndices())
}

func TestRemoveDegenerateAndUnreferenced(t *testing.T) {
	m := mesh.NewTriMesh()
	for i := 0; i < 5; i++ {
		m.AddVertex(dvec3.T{float64(i), float64(i * i), 0})
	}
	m.AddFace(0, 1, 2)
	m.AddFace(2, 2, 3)
	m.AddFace(1, 3, 1)

	assert.Equal(t, uint32(2), RemoveDegenerateFaces(m))
	assert.Equal(t, uint32(1), m.FaceNumber())
	assert.Equal(t, uint32(2), RemoveUnreferencedVertices(m))
	assert.True(t, m.Vertex(3).Deleted())
	assert.True(t, m.Vertex(4).Deleted())
	assert.Equal(t, uint32(0), RemoveUnreferencedVertices(m))

	m.Compact()
	assert.Equal(t, uint32(3), m.VertexNumber())
	assert.Equal(t, []uint32{0, 1, 2}, m.Face(0).VertexIndices())
}

// TestRemoveUnreferencedAfterCompaction runs on a face left with a null
// reference by the compaction.
func TestRemoveUnreferencedAfterCompaction(t *testing.T) {
	m := mesh.NewTriMesh()
	for i := 0; i < 4; i++ {
		m.AddVertex(dvec3.T{float64(i), 0, 0})
	}
	m.AddFace(0, 1, 2)
	m.DeleteVertex(1)
	m.Compact()
	require.Equal(t, []uint32{0, mesh.UINT_NULL, 1}, m.Face(0).VertexIndices())

	assert.Equal(t, uint32(1), RemoveUnreferencedVertices(m))
	assert.True(t, m.Vertex(2).Deleted())
	assert.False(t, m.Vertex(0).Deleted())
	assert.False(t, m.Vertex(1).Deleted())
}

func TestExportEdges(t *testing.T) {
	m := mesh.NewEdgeMesh()
	m.AddVertex(dvec3.T{})
	m.AddVertex(dvec3.T{1, 0, 0})
	m.AddVertex(dvec3.T{2, 0, 0})
	m.AddEdge(0, 2)
	b := ExportBuffers(m)
	assert.Equal(t, []uint32{0, 2}, b.Edges)
	assert.Equal(t, 3, b.VertexNumber())
}
