package algorithms

import (
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"

	mesh "github.com/flywave/go-vcmesh"
)

const defaultMeshCells = 200

// FromSDF tessellates s with uniform marching cubes into a new TriMesh.
// Triangle corners with the same position are merged into one vertex, face
// normals come from the tessellation and vertex normals are averaged.
func FromSDF(s sdf.SDF3, cells int) *mesh.TriMesh {
	if cells <= 0 {
		cells = defaultMeshCells
	}
	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))

	m := mesh.NewTriMesh()
	m.ReserveVertices(uint32(len(triangles)))
	m.ReserveFaces(uint32(len(triangles)))
	index := make(map[v3.Vec]uint32, len(triangles))
	vertex := func(p v3.Vec) uint32 {
		if i, ok := index[p]; ok {
			return i
		}
		i := m.AddVertex(dvec3.T{p.X, p.Y, p.Z})
		index[p] = i
		return i
	}
	for _, tri := range triangles {
		a, b, c := vertex(tri[0]), vertex(tri[1]), vertex(tri[2])
		if a == b || b == c || a == c {
			continue
		}
		fi := m.AddFace(a, b, c)
		n := tri.Normal()
		*m.Face(fi).Normal() = dvec3.T{n.X, n.Y, n.Z}
	}
	UpdatePerVertexNormals(m)
	UpdateBoundingBox(m)
	mesh.Logger().Debug("sdf tessellated")
	return m
}

// CreateSphere tessellates a sphere of the given radius centered at the
// origin.
func CreateSphere(radius float64, cells int) (*mesh.TriMesh, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, errors.Wrap(err, "sphere")
	}
	return FromSDF(s, cells), nil
}

// CreateTetrahedron returns the regular tetrahedron inscribed in the cube
// [-1, 1]^3, with outward facing triangles.
func CreateTetrahedron() *mesh.TriMesh {
	m := mesh.NewTriMesh()
	m.AddVertex(dvec3.T{1, 1, 1})
	m.AddVertex(dvec3.T{-1, 1, -1})
	m.AddVertex(dvec3.T{1, -1, -1})
	m.AddVertex(dvec3.T{-1, -1, 1})
	m.AddFace(0, 1, 3)
	m.AddFace(0, 2, 1)
	m.AddFace(0, 3, 2)
	m.AddFace(1, 2, 3)
	UpdatePerFaceNormals(m)
	UpdatePerVertexNormals(m)
	UpdateBoundingBox(m)
	return m
}

// CreateCube returns the cube [-1, 1]^3 made of six outward facing quads.
func CreateCube() *mesh.PolyMesh {
	m := mesh.NewPolyMesh()
	for _, p := range []dvec3.T{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	} {
		m.AddVertex(p)
	}
	for _, q := range [][]uint32{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {2, 3, 7, 6},
		{1, 2, 6, 5}, {0, 4, 7, 3},
	} {
		m.AddFace(q...)
	}
	UpdatePerFaceNormals(m)
	UpdatePerVertexNormals(m)
	UpdateBoundingBox(m)
	return m
}
