// Package algorithms holds geometry routines built on the public mesh API.
// They check the components they need up front and fail with a
// *mesh.MissingComponentError instead of touching a disabled component.
package algorithms

import (
	"iter"

	dvec3 "github.com/flywave/go3d/float64/vec3"

	mesh "github.com/flywave/go-vcmesh"
)

// VertexMesh is any mesh with vertices.
type VertexMesh interface {
	mesh.Mesher
	PerVertex() *mesh.Container
	Vertex(i uint32) mesh.Vertex
	Vertices() iter.Seq[mesh.Vertex]
	VertexNumber() uint32
	VertexContainerSize() uint32
}

// FaceMesh is any mesh with vertices and faces.
type FaceMesh interface {
	VertexMesh
	PerFace() *mesh.Container
	Face(i uint32) mesh.Face
	Faces() iter.Seq[mesh.Face]
	FaceNumber() uint32
	FaceContainerSize() uint32
}

// EdgeMesh is any mesh with vertices and edges.
type EdgeMesh interface {
	VertexMesh
	PerEdge() *mesh.Container
	Edges() iter.Seq[mesh.Edge]
	EdgeNumber() uint32
}

// BoundingBoxMesh is any mesh with vertices and a bounding box.
type BoundingBoxMesh interface {
	VertexMesh
	BoundingBox() *dvec3.Box
}

func requireComponents(c *mesh.Container, kind mesh.ElementID, ids ...mesh.ComponentID) error {
	for _, id := range ids {
		if c == nil || !c.IsComponentAvailable(id) {
			return &mesh.MissingComponentError{Element: kind, Component: id}
		}
	}
	return nil
}

// RequirePerVertexComponent fails when one of ids is not available on the
// vertices of m.
func RequirePerVertexComponent(m mesh.Mesher, ids ...mesh.ComponentID) error {
	return requireComponents(mesh.ContainerOf(m, mesh.VERTEX), mesh.VERTEX, ids...)
}

func RequirePerFaceComponent(m mesh.Mesher, ids ...mesh.ComponentID) error {
	return requireComponents(mesh.ContainerOf(m, mesh.FACE), mesh.FACE, ids...)
}

func RequirePerEdgeComponent(m mesh.Mesher, ids ...mesh.ComponentID) error {
	return requireComponents(mesh.ContainerOf(m, mesh.EDGE), mesh.EDGE, ids...)
}

// RequireCompactness fails when the mesh has deleted elements.
func RequireCompactness(m mesh.Mesher) error {
	for k := mesh.ElementID(0); k < mesh.ELEMENTS_NUMBER; k++ {
		if c := mesh.ContainerOf(m, k); c != nil && !c.IsCompact() {
			return errNotCompact
		}
	}
	return nil
}

// RequireTriangles fails when a live face of m is not a triangle.
func RequireTriangles(m FaceMesh) error {
	if m.PerFace().Schema().VertexNumber() == 3 {
		return nil
	}
	for f := range m.Faces() {
		if f.VertexNumber() != 3 {
			return errNotTriangles
		}
	}
	return nil
}
