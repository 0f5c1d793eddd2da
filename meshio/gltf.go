// Package meshio moves meshes in and out of files: glTF documents and
// texture images.
package meshio

import (
	"bytes"
	"encoding/binary"
	"io"

	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	mesh "github.com/flywave/go-vcmesh"
	"github.com/flywave/go-vcmesh/algorithms"
)

const GLTF_VERSION = "2.0"

// ToGltf builds one document holding every mesh of meshes, each in its own
// node.
func ToGltf(meshes ...algorithms.VertexMesh) (*gltf.Document, error) {
	doc := CreateDoc()
	for _, m := range meshes {
		if err := BuildGltf(doc, m); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func CreateDoc() *gltf.Document {
	doc := &gltf.Document{}
	doc.Asset.Version = GLTF_VERSION
	srcIndex := uint32(0)
	doc.Scene = &srcIndex
	doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	return doc
}

type calcSizeWriter struct {
	writer *bytes.Buffer
	Size   int
}

func (w *calcSizeWriter) Write(p []byte) (n int, err error) {
	n, err = w.writer.Write(p)
	w.Size += n
	return n, err
}

func (w *calcSizeWriter) Bytes() []byte {
	return w.writer.Bytes()
}

func newSizeWriter() *calcSizeWriter {
	return &calcSizeWriter{writer: bytes.NewBuffer(nil)}
}

func calcPadding(offset, paddingUnit int) int {
	padding := offset % paddingUnit
	if padding != 0 {
		padding = paddingUnit - padding
	}
	return padding
}

// GltfBinary encodes doc as glb, padded with spaces to a multiple of
// paddingUnit bytes.
func GltfBinary(doc *gltf.Document, paddingUnit int) ([]byte, error) {
	w := newSizeWriter()
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "meshio: gltf encode")
	}
	if paddingUnit <= 0 {
		return w.Bytes(), nil
	}
	padding := calcPadding(w.Size, paddingUnit)
	if padding == 0 {
		return w.Bytes(), nil
	}
	if _, err := w.Write(bytes.Repeat([]byte{0x20}, padding)); err != nil {
		return nil, errors.Wrap(err, "meshio: gltf padding")
	}
	return w.Bytes(), nil
}

// WriteGltfBinary writes meshes as a single glb stream.
func WriteGltfBinary(wt io.Writer, meshes ...algorithms.VertexMesh) error {
	doc, err := ToGltf(meshes...)
	if err != nil {
		return err
	}
	bt, err := GltfBinary(doc, 4)
	if err != nil {
		return err
	}
	_, err = wt.Write(bt)
	return err
}

type bufferBuilder struct {
	doc    *gltf.Document
	buffer *gltf.Buffer
}

// view appends data, aligned to 4 bytes, to the shared buffer and returns
// the index of its buffer view.
func (b *bufferBuilder) view(data any) (uint32, error) {
	buf := bytes.NewBuffer(nil)
	if err := binary.Write(buf, binary.LittleEndian, data); err != nil {
		return 0, errors.Wrap(err, "meshio: gltf buffer view")
	}
	if pad := calcPadding(int(b.buffer.ByteLength), 4); pad > 0 {
		b.buffer.Data = append(b.buffer.Data, make([]byte, pad)...)
		b.buffer.ByteLength += uint32(pad)
	}
	bv := &gltf.BufferView{
		Buffer:     0,
		ByteOffset: b.buffer.ByteLength,
		ByteLength: uint32(buf.Len()),
	}
	b.buffer.ByteLength += uint32(buf.Len())
	b.buffer.Data = append(b.buffer.Data, buf.Bytes()...)
	b.doc.BufferViews = append(b.doc.BufferViews, bv)
	return uint32(len(b.doc.BufferViews) - 1), nil
}

func (b *bufferBuilder) accessor(acc *gltf.Accessor) uint32 {
	b.doc.Accessors = append(b.doc.Accessors, acc)
	return uint32(len(b.doc.Accessors) - 1)
}

// BuildGltf appends m to doc as one mesh with a node in the default scene.
// Faces become a triangle primitive, edges a line primitive and a mesh
// without both a point primitive. Deleted elements are skipped.
func BuildGltf(doc *gltf.Document, m algorithms.VertexMesh) error {
	if len(doc.Buffers) == 0 {
		doc.Buffers = append(doc.Buffers, &gltf.Buffer{})
	}
	if len(doc.Scenes) == 0 {
		doc.Scenes = append(doc.Scenes, &gltf.Scene{})
	}
	bufs := algorithms.ExportBuffers(m)
	bb := &bufferBuilder{doc: doc, buffer: doc.Buffers[0]}

	attrs := gltf.Attribute{}
	bvPos, err := bb.view(bufs.Positions)
	if err != nil {
		return err
	}
	posacc := &gltf.Accessor{
		BufferView:    &bvPos,
		ComponentType: gltf.ComponentFloat,
		Type:          gltf.AccessorVec3,
		Count:         uint32(bufs.VertexNumber()),
	}
	if bufs.VertexNumber() > 0 {
		posacc.Min, posacc.Max = positionBounds(bufs.Positions)
	}
	attrs["POSITION"] = bb.accessor(posacc)

	if len(bufs.Normals) > 0 {
		bv, err := bb.view(bufs.Normals)
		if err != nil {
			return err
		}
		attrs["NORMAL"] = bb.accessor(&gltf.Accessor{
			BufferView:    &bv,
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec3,
			Count:         uint32(len(bufs.Normals) / 3),
		})
	}
	if len(bufs.TexCoords) > 0 {
		bv, err := bb.view(bufs.TexCoords)
		if err != nil {
			return err
		}
		attrs["TEXCOORD_0"] = bb.accessor(&gltf.Accessor{
			BufferView:    &bv,
			ComponentType: gltf.ComponentFloat,
			Type:          gltf.AccessorVec2,
			Count:         uint32(len(bufs.TexCoords) / 2),
		})
	}
	if len(bufs.Colors) > 0 {
		bv, err := bb.view(bufs.Colors)
		if err != nil {
			return err
		}
		attrs["COLOR_0"] = bb.accessor(&gltf.Accessor{
			BufferView:    &bv,
			ComponentType: gltf.ComponentUbyte,
			Normalized:    true,
			Type:          gltf.AccessorVec4,
			Count:         uint32(len(bufs.Colors) / 4),
		})
	}

	mtlID, err := buildMaterial(bb, m)
	if err != nil {
		return err
	}

	gm := &gltf.Mesh{}
	if n, ok := m.(interface{ Name() string }); ok {
		gm.Name = n.Name()
	}
	if len(bufs.Triangles) > 0 {
		bv, err := bb.view(bufs.Triangles)
		if err != nil {
			return err
		}
		idx := bb.accessor(&gltf.Accessor{
			BufferView:    &bv,
			ComponentType: gltf.ComponentUint,
			Type:          gltf.AccessorScalar,
			Count:         uint32(len(bufs.Triangles)),
		})
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    &idx,
			Material:   &mtlID,
			Mode:       gltf.PrimitiveTriangles,
		})
	}
	if len(bufs.Edges) > 0 {
		bv, err := bb.view(bufs.Edges)
		if err != nil {
			return err
		}
		idx := bb.accessor(&gltf.Accessor{
			BufferView:    &bv,
			ComponentType: gltf.ComponentUint,
			Type:          gltf.AccessorScalar,
			Count:         uint32(len(bufs.Edges)),
		})
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Indices:    &idx,
			Material:   &mtlID,
			Mode:       gltf.PrimitiveLines,
		})
	}
	if len(gm.Primitives) == 0 {
		gm.Primitives = append(gm.Primitives, &gltf.Primitive{
			Attributes: attrs,
			Material:   &mtlID,
			Mode:       gltf.PrimitivePoints,
		})
	}

	meshID := uint32(len(doc.Meshes))
	doc.Meshes = append(doc.Meshes, gm)
	nd := &gltf.Node{Mesh: &meshID, Name: gm.Name}
	if t, ok := m.(interface{ TransformMatrix() *dmat.T }); ok {
		if mat := *t.TransformMatrix(); mat != dmat.Ident {
			nd.Matrix = toGltfMatrix(&mat)
		}
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
	doc.Nodes = append(doc.Nodes, nd)
	mesh.Logger().Sugar().Debugw("gltf mesh built",
		"vertices", bufs.VertexNumber(), "triangles", bufs.TriangleNumber(), "edges", len(bufs.Edges)/2)
	return nil
}

func positionBounds(pos []float32) (min, max []float32) {
	min = []float32{pos[0], pos[1], pos[2]}
	max = []float32{pos[0], pos[1], pos[2]}
	for i := 3; i < len(pos); i += 3 {
		for k := 0; k < 3; k++ {
			if pos[i+k] < min[k] {
				min[k] = pos[i+k]
			}
			if pos[i+k] > max[k] {
				max[k] = pos[i+k]
			}
		}
	}
	return min, max
}

func toGltfMatrix(mat *dmat.T) [16]float32 {
	var r [16]float32
	for c := 0; c < 4; c++ {
		for k := 0; k < 4; k++ {
			r[c*4+k] = float32(mat[c][k])
		}
	}
	return r
}

// buildMaterial adds a double sided material; its base color texture is the
// first loaded texture of m, if any.
func buildMaterial(bb *bufferBuilder, m algorithms.VertexMesh) (uint32, error) {
	doc := bb.doc
	gm := &gltf.Material{DoubleSided: true, AlphaMode: gltf.AlphaMask}
	gm.PBRMetallicRoughness = &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float32{1, 1, 1, 1}}

	if tm, ok := m.(TexturedMesh); ok && tm.TextureNumber() > 0 && tm.Texture(0).Image != nil {
		bt, err := encodePNG(tm.Texture(0).Image, false)
		if err != nil {
			return 0, err
		}
		spCount := uint32(len(doc.Samplers))
		imCount := uint32(len(doc.Images))
		imgIndex, err := bb.view(bt)
		if err != nil {
			return 0, err
		}
		doc.Images = append(doc.Images, &gltf.Image{MimeType: "image/png", BufferView: &imgIndex, Name: tm.Texture(0).Path})
		doc.Samplers = append(doc.Samplers, &gltf.Sampler{WrapS: gltf.WrapRepeat, WrapT: gltf.WrapRepeat})
		texIndex := uint32(len(doc.Textures))
		doc.Textures = append(doc.Textures, &gltf.Texture{Sampler: &spCount, Source: &imCount})
		gm.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{Index: texIndex}
	}
	doc.Materials = append(doc.Materials, gm)
	return uint32(len(doc.Materials) - 1), nil
}
