package mesh

import (
	"testing"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// concavePentagon has its reflex vertex at index 3.
var concavePentagon = []dvec3.T{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}, {2, 1, 0}, {0, 4, 0}}

func triangleCross(pts []dvec3.T, tri []uint32) dvec3.T {
	a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]
	ab := dvec3.Sub(&b, &a)
	ac := dvec3.Sub(&c, &a)
	return dvec3.Cross(&ab, &ac)
}

func TestEarCut(t *testing.T) {
	tests := []struct {
		name    string
		polygon []dvec3.T
		want    []uint32
		area    float64
		normal  dvec3.T
	}{
		{"too small", []dvec3.T{{0, 0, 0}, {1, 0, 0}}, nil, 0, dvec3.T{}},
		{"triangle", []dvec3.T{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint32{0, 1, 2}, 0.5, dvec3.T{0, 0, 1}},
		{"convex quad", []dvec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}, []uint32{0, 1, 2, 0, 2, 3}, 1, dvec3.T{0, 0, 1}},
		{"concave pentagon", concavePentagon, []uint32{1, 2, 3, 0, 1, 3, 0, 3, 4}, 10, dvec3.T{0, 0, 1}},
		{"clockwise quad on x", []dvec3.T{{0, 0, 0}, {0, 0, 2}, {0, 2, 2}, {0, 2, 0}}, []uint32{0, 1, 2, 0, 2, 3}, 4, dvec3.T{-1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris := EarCut(tt.polygon)
			assert.Equal(t, tt.want, tris)
			if tt.want == nil {
				return
			}
			require.Len(t, tris, 3*(len(tt.polygon)-2))
			var area float64
			for k := 0; k < len(tris); k += 3 {
				n := triangleCross(tt.polygon, tris[k:k+3])
				area += n.Length() / 2
				n.Normalize()
				assert.InDelta(t, 0, dvec3.Distance(&n, &tt.normal), 1e-12)
			}
			assert.InDelta(t, tt.area, area, 1e-12)
		})
	}
}

func TestEarCutCollinear(t *testing.T) {
	square := []dvec3.T{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	tris := EarCut(square)
	require.Len(t, tris, 9)
	var area float64
	for k := 0; k < len(tris); k += 3 {
		n := triangleCross(square, tris[k:k+3])
		assert.GreaterOrEqual(t, n[2], 0.0)
		area += n.Length() / 2
	}
	assert.InDelta(t, 4, area, 1e-12)
}

// TestImportConcavePolygon imports a concave polygon with wedge colors into
// a TriMesh.
func TestImportConcavePolygon(t *testing.T) {
	p := NewPolyMesh()
	for _, v := range concavePentagon {
		p.AddVertex(v)
	}
	p.AddFace(0, 1, 2, 3, 4)
	p.EnablePerFaceComponent(WEDGE_COLORS)
	for k := 0; k < 5; k++ {
		*p.Face(0).WedgeColor(k) = Color{uint8(k), 0, 0, 255}
	}

	m := NewTriMesh()
	EnableSameOptionalComponentsOf(m, p)
	ImportMesh(m, p)

	require.Equal(t, uint32(3), m.FaceNumber())
	var area float64
	for f := range m.Faces() {
		n := triangleCross(concavePentagon, f.VertexIndices())
		assert.Greater(t, n[2], 0.0, "face %d", f.Index())
		area += n.Length() / 2
		for k := 0; k < 3; k++ {
			assert.Equal(t, uint8(f.VertexIndex(k)), f.WedgeColor(k)[0])
		}
	}
	assert.InDelta(t, 10, area, 1e-12)
	assert.Equal(t, []uint32{1, 2, 3}, m.Face(0).VertexIndices())
}
