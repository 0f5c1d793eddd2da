package algorithms

import (
	mesh "github.com/flywave/go-vcmesh"
)

// Buffers holds flat, render ready arrays of a mesh. Indices refer to the
// compacted vertex numbering; deleted elements are skipped.
type Buffers struct {
	Positions []float32
	Normals   []float32
	Colors    []uint8
	TexCoords []float32
	// Triangles are vertex index triplets, polygons split by mesh.EarCut. TriangleToFace maps every triplet back to its face index in the
	// compacted face numbering.
	Triangles      []uint32
	TriangleToFace []uint32
	Edges          []uint32
	// FaceColors are repeated per triangle when faces carry a color.
	FaceColors []uint8
}

// ExportBuffers flattens m without modifying it. Optional arrays are empty
// when the matching component is not available.
func ExportBuffers(m VertexMesh) *Buffers {
	b := &Buffers{}
	vc := m.PerVertex()
	vn := int(m.VertexNumber())
	vmap := vc.CompactIndices()

	hasNormal := vc.IsComponentAvailable(mesh.NORMAL)
	hasColor := vc.IsComponentAvailable(mesh.COLOR)
	hasTex := vc.IsComponentAvailable(mesh.TEX_COORD)

	b.Positions = make([]float32, 0, vn*3)
	if hasNormal {
		b.Normals = make([]float32, 0, vn*3)
	}
	if hasColor {
		b.Colors = make([]uint8, 0, vn*4)
	}
	if hasTex {
		b.TexCoords = make([]float32, 0, vn*2)
	}
	for v := range m.Vertices() {
		p := v.Position()
		b.Positions = append(b.Positions, float32(p[0]), float32(p[1]), float32(p[2]))
		if hasNormal {
			n := v.Normal()
			b.Normals = append(b.Normals, float32(n[0]), float32(n[1]), float32(n[2]))
		}
		if hasColor {
			c := v.Color()
			b.Colors = append(b.Colors, c[0], c[1], c[2], c[3])
		}
		if hasTex {
			t := v.TexCoord()
			b.TexCoords = append(b.TexCoords, t.UV[0], t.UV[1])
		}
	}

	if fm, ok := m.(FaceMesh); ok {
		exportFaces(b, fm, vmap)
	}
	if em, ok := m.(EdgeMesh); ok {
		b.Edges = make([]uint32, 0, em.EdgeNumber()*2)
		for e := range em.Edges() {
			b.Edges = append(b.Edges, vmap[e.VertexIndex(0)], vmap[e.VertexIndex(1)])
		}
	}
	return b
}

func exportFaces(b *Buffers, m FaceMesh, vmap []uint32) {
	fc := m.PerFace()
	fmap := fc.CompactIndices()
	hasColor := fc.IsComponentAvailable(mesh.COLOR)
	b.Triangles = make([]uint32, 0, m.FaceNumber()*3)
	b.TriangleToFace = make([]uint32, 0, m.FaceNumber())
	for f := range m.Faces() {
		tris := FaceTriangles(f)
		for k := 0; k < len(tris); k += 3 {
			b.Triangles = append(b.Triangles,
				vmap[f.VertexIndex(int(tris[k]))], vmap[f.VertexIndex(int(tris[k+1]))], vmap[f.VertexIndex(int(tris[k+2]))])
			b.TriangleToFace = append(b.TriangleToFace, fmap[f.Index()])
			if hasColor {
				c := f.Color()
				b.FaceColors = append(b.FaceColors, c[0], c[1], c[2], c[3])
			}
		}
	}
}

// TriangleNumber returns the number of exported triangles.
func (b *Buffers) TriangleNumber() int {
	return len(b.Triangles) / 3
}

func (b *Buffers) VertexNumber() int {
	return len(b.Positions) / 3
}
