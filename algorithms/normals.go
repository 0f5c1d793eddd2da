package algorithms

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"

	mesh "github.com/flywave/go-vcmesh"
)

// FaceNormal returns the unit normal of f, computed from its first three
// vertices for triangles and with Newell's method for polygons. Degenerate
// faces get a zero normal.
func FaceNormal(f mesh.Face) dvec3.T {
	n := areaVector(f)
	if l := n.Length(); l > 0 {
		n.Scale(1 / l)
	}
	return n
}

// areaVector returns a vector along the normal of f, twice as long as its
// area for planar faces.
func areaVector(f mesh.Face) dvec3.T {
	if f.VertexNumber() == 3 {
		pt1 := *f.Vertex(0).Position()
		pt2 := *f.Vertex(1).Position()
		pt3 := *f.Vertex(2).Position()
		sub1 := dvec3.Sub(&pt2, &pt1)
		sub2 := dvec3.Sub(&pt3, &pt1)
		return dvec3.Cross(&sub1, &sub2)
	}
	var n dvec3.T
	vn := f.VertexNumber()
	for k := 0; k < vn; k++ {
		a := *f.Vertex(k).Position()
		b := *f.VertexMod(k + 1).Position()
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n
}

// FaceArea returns the area of f. Polygons are assumed planar.
func FaceArea(f mesh.Face) float64 {
	n := areaVector(f)
	return n.Length() / 2
}

// FaceTriangles splits f with mesh.EarCut and returns triplets of corner
// indices of f.
func FaceTriangles(f mesh.Face) []uint32 {
	pts := make([]dvec3.T, f.VertexNumber())
	for k := range pts {
		pts[k] = *f.Vertex(k).Position()
	}
	return mesh.EarCut(pts)
}

// UpdatePerFaceNormals sets the normal of every live face.
func UpdatePerFaceNormals(m FaceMesh) error {
	if err := RequirePerFaceComponent(m, mesh.NORMAL); err != nil {
		return err
	}
	for f := range m.Faces() {
		*f.Normal() = FaceNormal(f)
	}
	return nil
}

// UpdatePerVertexNormals sets the normal of every vertex to the normalized
// sum of the unit normals of its incident faces. Vertices without faces get
// a zero normal.
func UpdatePerVertexNormals(m FaceMesh) error {
	if err := RequirePerVertexComponent(m, mesh.NORMAL); err != nil {
		return err
	}
	for v := range m.Vertices() {
		*v.Normal() = dvec3.T{}
	}
	for f := range m.Faces() {
		n := FaceNormal(f)
		if n.Length() == 0 {
			continue
		}
		for v := range f.Vertices() {
			v.Normal().Add(&n)
		}
	}
	return NormalizePerVertexNormals(m)
}

// NormalizePerVertexNormals scales every non zero vertex normal to unit
// length.
func NormalizePerVertexNormals(m VertexMesh) error {
	if err := RequirePerVertexComponent(m, mesh.NORMAL); err != nil {
		return err
	}
	for v := range m.Vertices() {
		if v.Normal().Length() > 0 {
			v.Normal().Normalize()
		}
	}
	return nil
}
