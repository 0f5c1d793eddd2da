package meshio

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/flywave/go3d/float64/vec4"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mesh "github.com/flywave/go-vcmesh"
	"github.com/flywave/go-vcmesh/algorithms"
)

func decodeGlb(t *testing.T, meshes ...algorithms.VertexMesh) *gltf.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteGltfBinary(&buf, meshes...))
	require.Zero(t, buf.Len()%4)
	doc := &gltf.Document{}
	require.NoError(t, gltf.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(doc))
	return doc
}

func checkerImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func TestGltfRoundTrip(t *testing.T) {
	src := algorithms.CreateTetrahedron()
	src.SetName("tetra")
	src.EnablePerVertexColor()
	for v := range src.Vertices() {
		*v.Color() = mesh.Color{uint8(v.Index() * 60), 10, 20, 255}
	}
	*src.TransformMatrix() = dmat.T{
		vec4.T{1, 0, 0, 0}, vec4.T{0, 1, 0, 0}, vec4.T{0, 0, 1, 0}, vec4.T{10, 0, -2, 1},
	}

	doc := decodeGlb(t, src)
	require.Len(t, doc.Meshes, 1)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "tetra", doc.Meshes[0].Name)
	assert.Equal(t, gltf.PrimitiveTriangles, doc.Meshes[0].Primitives[0].Mode)

	dst := mesh.NewTriMesh()
	info, err := DecodeGltf(doc, dst)
	require.NoError(t, err)
	assert.Equal(t, "tetra", dst.Name())
	assert.Equal(t, uint32(4), dst.VertexNumber())
	assert.Equal(t, uint32(4), dst.FaceNumber())
	for i := uint32(0); i < 4; i++ {
		assert.Equal(t, *src.Vertex(i).Position(), *dst.Vertex(i).Position())
		assert.Equal(t, *src.Vertex(i).Color(), *dst.Vertex(i).Color())
		assert.Equal(t, src.Face(i).VertexIndices(), dst.Face(i).VertexIndices())
		assert.InDelta(t, 1, dst.Vertex(i).Normal().Length(), 1e-6)
	}
	assert.Equal(t, *src.TransformMatrix(), *dst.TransformMatrix())

	assert.Equal(t, mesh.MESH_TYPE_TRIANGLE_MESH, info.Type)
	assert.True(t, info.HasPerElementComponent(mesh.VERTEX, mesh.COLOR))
	assert.True(t, info.HasPerElementComponent(mesh.VERTEX, mesh.NORMAL))
	assert.False(t, info.HasPerElementComponent(mesh.VERTEX, mesh.TEX_COORD))
	assert.True(t, info.MeshComponents.Has(mesh.NAME))
	assert.True(t, info.MeshComponents.Has(mesh.TRANSFORM_MATRIX))
}

func TestGltfPolygonsAreTriangulated(t *testing.T) {
	cube := algorithms.CreateCube()
	cube.DeleteFace(2)
	doc := decodeGlb(t, cube)

	dst := mesh.NewTriMesh()
	_, err := DecodeGltf(doc, dst)
	require.NoError(t, err)
	assert.Equal(t, uint32(8), dst.VertexNumber())
	assert.Equal(t, uint32(10), dst.FaceNumber())
	assert.Equal(t, dmat.Ident, *dst.TransformMatrix())

	st, err := algorithms.ComputeStats(context.Background(), dst)
	require.NoError(t, err)
	assert.InDelta(t, 20, st.SurfaceArea, 1e-6)
}

func TestGltfPrimitiveModes(t *testing.T) {
	em := mesh.NewEdgeMesh()
	em.AddVertex(dvec3.T{0, 0, 0})
	em.AddVertex(dvec3.T{1, 0, 0})
	em.AddVertex(dvec3.T{1, 1, 0})
	em.AddEdge(0, 1)
	em.AddEdge(1, 2)

	pc := mesh.NewPointCloud()
	pc.AddVertex(dvec3.T{0, 0, 0})
	pc.AddVertex(dvec3.T{0, 0, 5})

	doc := decodeGlb(t, em, pc)
	require.Len(t, doc.Meshes, 2)
	assert.Equal(t, gltf.PrimitiveLines, doc.Meshes[0].Primitives[0].Mode)
	assert.Equal(t, gltf.PrimitivePoints, doc.Meshes[1].Primitives[0].Mode)
	assert.Len(t, doc.Scenes[0].Nodes, 2)

	acc := doc.Accessors[doc.Meshes[1].Primitives[0].Attributes["POSITION"]]
	assert.Equal(t, uint32(2), acc.Count)
	assert.Equal(t, []float32{0, 0, 5}, acc.Max)

	dst := mesh.NewTriMesh()
	_, err := DecodeGltf(doc, dst)
	require.NoError(t, err)
	assert.Zero(t, dst.VertexNumber())
}

func TestGltfEmbeddedTexture(t *testing.T) {
	src := mesh.NewTriMesh()
	src.AddVertex(dvec3.T{0, 0, 0})
	src.AddVertex(dvec3.T{1, 0, 0})
	src.AddVertex(dvec3.T{0, 1, 0})
	src.AddFace(0, 1, 2)
	src.EnablePerVertexTexCoord()
	src.Vertex(1).TexCoord().UV[0] = 1
	src.Vertex(2).TexCoord().UV[1] = 1
	src.PushTexture(mesh.Texture{Path: "checker.png", Image: checkerImage()})

	doc := decodeGlb(t, src)
	require.Len(t, doc.Images, 1)
	assert.Equal(t, "image/png", doc.Images[0].MimeType)

	dst := mesh.NewTriMesh()
	info, err := DecodeGltf(doc, dst)
	require.NoError(t, err)
	assert.True(t, info.HasPerElementComponent(mesh.VERTEX, mesh.TEX_COORD))
	assert.True(t, info.MeshComponents.Has(mesh.TEXTURE_IMAGES))
	require.Equal(t, 1, dst.TextureNumber())
	assert.Equal(t, "checker.png", dst.TexturePath(0))

	img := dst.Texture(0).Image
	require.NotNil(t, img)
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{0, 255, 0, 255}, color.NRGBAModel.Convert(img.At(1, 0)))
	assert.Equal(t, float32(1), dst.Vertex(2).TexCoord().UV[1])
	assert.Equal(t, uint16(0), dst.Vertex(2).TexCoord().Index)
}

func TestDecodeGltfMalformed(t *testing.T) {
	doc := decodeGlb(t, algorithms.CreateTetrahedron())
	doc.Accessors[0].Count = 1000
	_, err := DecodeGltf(doc, mesh.NewTriMesh())
	var ms *mesh.MalformedStreamError
	assert.ErrorAs(t, err, &ms)

	doc = decodeGlb(t, algorithms.CreateTetrahedron())
	delete(doc.Meshes[0].Primitives[0].Attributes, "POSITION")
	_, err = DecodeGltf(doc, mesh.NewTriMesh())
	assert.ErrorAs(t, err, &ms)
}

func TestBufferViewErrors(t *testing.T) {
	doc := CreateDoc()
	bb := &bufferBuilder{doc: doc, buffer: doc.Buffers[0]}

	i, err := bb.view([]uint8{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), i)

	_, err = bb.view("not fixed size")
	assert.Error(t, err)
	assert.Len(t, doc.BufferViews, 1)

	i, err = bb.view([]float32{1})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), i)
	assert.Equal(t, uint32(4), doc.BufferViews[1].ByteOffset)
	assert.Equal(t, uint32(8), doc.Buffers[0].ByteLength)
}
