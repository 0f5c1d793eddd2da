package mesh

import (
	"strings"
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentIDFromName(t *testing.T) {
	tests := []struct {
		name string
		id   ComponentID
		ok   bool
	}{
		{"color", COLOR, true},
		{"tex_coord", TEX_COORD, true},
		{"TexCoord", TEX_COORD, true},
		{"ADJACENT_FACES", ADJACENT_FACES, true},
		{"principal_curvature", PRINCIPAL_CURVATURE, true},
		{"colour", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := ComponentIDFromName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.id, id)
			}
		})
	}
}

const bunnyOptions = `
name: bunny
vertex: [position, color, tex_coord]
face: [quality, adjacent_faces]
custom:
  - {element: vertex, name: birth, type: uint32}
  - {element: face, name: center, type: vec3}
  - {element: mesh, name: author, type: string}
`

func TestOptionsApply(t *testing.T) {
	o, err := LoadOptions(strings.NewReader(bunnyOptions))
	require.NoError(t, err)
	assert.Equal(t, "bunny", o.Name)
	assert.Len(t, o.Custom, 3)

	m := NewTriMesh()
	require.NoError(t, o.Apply(m))
	assert.Equal(t, "bunny", m.Name())
	assert.True(t, m.IsPerVertexColorEnabled())
	assert.True(t, m.IsPerVertexTexCoordEnabled())
	assert.False(t, m.IsPerVertexQualityEnabled())
	assert.True(t, m.IsPerFaceQualityEnabled())
	assert.True(t, m.IsPerFaceComponentEnabled(ADJACENT_FACES))
	assert.True(t, IsCustomComponentOfType[uint32](m.PerVertex(), "birth"))
	assert.True(t, IsCustomComponentOfType[dvec3.T](m.PerFace(), "center"))

	require.NoError(t, SetMeshCustomComponent(m, "author", "someone"))
	author, err := MeshCustomComponent[string](m, "author")
	require.NoError(t, err)
	assert.Equal(t, "someone", author)

	assert.ErrorIs(t, o.Apply(m), ErrCustomComponentExists)
}

func TestLoadOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad yaml", "vertex: [color"},
		{"bad log level", "log_level: loud"},
		{"bad custom type", "custom: [{element: vertex, name: x, type: complex128}]"},
		{"bad custom element", "custom: [{element: wedge, name: x, type: int}]"},
		{"custom without name", "custom: [{element: vertex, type: int}]"},
		{"empty component name", "face: ['']"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOptions(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestOptionsApplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		mesh    Mesher
		missing bool
	}{
		{"unknown component", "vertex: [colour]", NewTriMesh(), false},
		{"component not in schema", "vertex: [color]", newPlainMesh(), true},
		{"no edges", "edge: [color]", NewTriMesh(), true},
		{"no custom on vertices", "custom: [{element: vertex, name: x, type: int}]", newPlainMesh(), true},
		{"no mesh custom", "custom: [{element: mesh, name: x, type: int}]", newPlainMesh(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := LoadOptions(strings.NewReader(tt.doc))
			require.NoError(t, err)
			err = o.Apply(tt.mesh)
			require.Error(t, err)
			var mc *MissingComponentError
			assert.Equal(t, tt.missing, errors.As(err, &mc))
		})
	}
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("warn")
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud")
	assert.Error(t, err)

	SetLogger(l)
	assert.Same(t, l, Logger())
	SetLogger(nil)
	assert.NotNil(t, Logger())
}
