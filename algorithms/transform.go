package algorithms

import (
	"math"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"

	mesh "github.com/flywave/go-vcmesh"
)

// TransformMesh is any mesh carrying its own transform matrix.
type TransformMesh interface {
	VertexMesh
	TransformMatrix() *dmat.T
}

func transformPoint(mat *dmat.T, p *dvec3.T) dvec3.T {
	var r dvec3.T
	for row := 0; row < 3; row++ {
		r[row] = mat[0][row]*p[0] + mat[1][row]*p[1] + mat[2][row]*p[2] + mat[3][row]
	}
	return r
}

// normalMatrix returns the cofactor matrix of the linear part of mat, which
// is its inverse transpose scaled by the determinant.
func normalMatrix(mat *dmat.T) (n [3][3]float64, det float64) {
	a := func(r, c int) float64 { return mat[c][r] }
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			r1, r2 := (r+1)%3, (r+2)%3
			c1, c2 := (c+1)%3, (c+2)%3
			n[r][c] = a(r1, c1)*a(r2, c2) - a(r1, c2)*a(r2, c1)
		}
	}
	det = a(0, 0)*n[0][0] + a(0, 1)*n[0][1] + a(0, 2)*n[0][2]
	return n, det
}

func transformNormal(n *[3][3]float64, sign float64, v *dvec3.T) dvec3.T {
	var r dvec3.T
	for row := 0; row < 3; row++ {
		r[row] = (n[row][0]*v[0] + n[row][1]*v[1] + n[row][2]*v[2]) * sign
	}
	if l := r.Length(); l > 0 {
		r.Scale(1 / l)
	}
	return r
}

// ApplyTransformMatrix moves every live vertex of m by mat. Vertex and face
// normals, when available, are transformed by the inverse transpose of the
// linear part and renormalized.
func ApplyTransformMatrix(m VertexMesh, mat *dmat.T) {
	n, det := normalMatrix(mat)
	sign := 1.0
	if det < 0 {
		sign = -1
	}
	if math.Abs(det) == 0 {
		sign = 0
	}
	vnormals := m.PerVertex().IsComponentAvailable(mesh.NORMAL)
	for v := range m.Vertices() {
		*v.Position() = transformPoint(mat, v.Position())
		if vnormals {
			*v.Normal() = transformNormal(&n, sign, v.Normal())
		}
	}
	if fm, ok := m.(FaceMesh); ok && fm.PerFace().IsComponentAvailable(mesh.NORMAL) {
		for f := range fm.Faces() {
			*f.Normal() = transformNormal(&n, sign, f.Normal())
		}
	}
	if bm, ok := m.(BoundingBoxMesh); ok && !isNullBox(bm.BoundingBox()) {
		UpdateBoundingBox(bm)
	}
}

// FreezeTransform applies the transform matrix stored in m to its vertices
// and resets it to the identity.
func FreezeTransform(m TransformMesh) {
	mat := *m.TransformMatrix()
	if mat == dmat.Ident {
		return
	}
	ApplyTransformMatrix(m, &mat)
	*m.TransformMatrix() = dmat.Ident
}

func isNullBox(b *dvec3.Box) bool {
	return b.Min[0] > b.Max[0]
}
