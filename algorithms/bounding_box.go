package algorithms

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// UpdateBoundingBox recomputes the bounding box of m from its live vertices.
func UpdateBoundingBox(m BoundingBoxMesh) {
	*m.BoundingBox() = BoundingBox(m)
}

// BoundingBox returns the box of the live vertices of m, dvec3.MinBox when m
// has none.
func BoundingBox(m VertexMesh) dvec3.Box {
	bbox := dvec3.MinBox
	for v := range m.Vertices() {
		p := *v.Position()
		bbx := dvec3.Box{Min: p, Max: p}
		bbox.Join(&bbx)
	}
	return bbox
}
