package mesh

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCustomComponentLazyDefault resizes by 10 and reads before writing.
func TestCustomComponentLazyDefault(t *testing.T) {
	m := NewTriMesh()
	m.AddVertex(dvec3.T{})
	require.NoError(t, AddCustomComponent[uint32](m.PerVertex(), "birthVertex"))
	require.NoError(t, SetCustomComponent(m.Vertex(0).Element, "birthVertex", uint32(42)))

	m.ResizeVertices(m.VertexNumber() + 10)
	require.Equal(t, uint32(11), m.VertexNumber())
	for i := uint32(1); i < 11; i++ {
		v, err := CustomComponent[uint32](m.Vertex(i).Element, "birthVertex")
		require.NoError(t, err)
		assert.Equal(t, uint32(0), v)
	}
	v, err := CustomComponent[uint32](m.Vertex(0).Element, "birthVertex")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), v)
}

// TestCustomComponentTypeMismatch reads and writes with the wrong type.
func TestCustomComponentTypeMismatch(t *testing.T) {
	m := NewTriMesh()
	m.AddVertex(dvec3.T{})
	require.NoError(t, AddCustomComponent[float32](m.PerVertex(), "weight"))

	_, err := CustomComponent[float64](m.Vertex(0).Element, "weight")
	var bad *BadCustomComponentTypeError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, "weight", bad.Name)
	assert.Equal(t, "float32", bad.Expected.String())
	assert.Equal(t, "float64", bad.Requested.String())

	err = SetCustomComponent(m.Vertex(0).Element, "weight", 1)
	require.True(t, errors.As(err, &bad))

	_, err = CustomComponentValues[int](m.PerVertex(), "weight")
	require.Error(t, err)

	assert.True(t, IsCustomComponentOfType[float32](m.PerVertex(), "weight"))
	assert.False(t, IsCustomComponentOfType[int](m.PerVertex(), "weight"))
}

func TestCustomComponentNames(t *testing.T) {
	m := NewPolyMesh()
	c := m.PerFace()
	require.NoError(t, AddCustomComponent[int](c, "b"))
	require.NoError(t, AddCustomComponent[string](c, "label"))
	require.NoError(t, AddCustomComponent[int](c, "a"))

	assert.ErrorIs(t, AddCustomComponent[int](c, "a"), ErrCustomComponentExists)
	assert.Equal(t, []string{"a", "b", "label"}, c.CustomComponentNames())
	assert.Equal(t, []string{"a", "b"}, CustomComponentNamesOfType[int](c))

	c.DeleteCustomComponent("b")
	assert.False(t, c.HasCustomComponent("b"))
	m.AddVertex(dvec3.T{})
	m.AddVertex(dvec3.T{})
	m.AddVertex(dvec3.T{})
	f := m.AddFace(0, 1, 2)
	_, err := CustomComponent[int](m.Face(f).Element, "b")
	assert.ErrorIs(t, err, ErrCustomComponentAbsent)
}

// TestCustomComponentInterfaceType stores values behind an interface.
func TestCustomComponentInterfaceType(t *testing.T) {
	m := NewPointCloud()
	m.AddVertex(dvec3.T{})
	require.NoError(t, AddCustomComponent[error](m.PerVertex(), "failure"))

	v, err := CustomComponent[error](m.Vertex(0).Element, "failure")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, SetCustomComponent[error](m.Vertex(0).Element, "failure", ErrBadSignature))
	v, err = CustomComponent[error](m.Vertex(0).Element, "failure")
	require.NoError(t, err)
	assert.Equal(t, ErrBadSignature, v)
}

func TestMeshCustomComponents(t *testing.T) {
	m := NewTriMesh()
	require.NoError(t, AddMeshCustomComponent(m, "scale", 2.5))
	assert.ErrorIs(t, AddMeshCustomComponent(m, "scale", 1.0), ErrCustomComponentExists)

	v, err := MeshCustomComponent[float64](m, "scale")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)

	require.NoError(t, SetMeshCustomComponent(m, "scale", 3.0))
	_, err = MeshCustomComponent[string](m, "scale")
	assert.Error(t, err)

	c := m.Clone()
	v, err = MeshCustomComponent[float64](c, "scale")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
	assert.Equal(t, []string{"scale"}, c.MeshCustomComponentNames())
}
