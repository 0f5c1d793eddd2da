package meshio

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	dmat "github.com/flywave/go3d/float64/mat4"
	"github.com/flywave/go3d/float64/vec4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	mesh "github.com/flywave/go-vcmesh"
)

var emptyMatrix = [16]float32{}

// LoadGltf reads the gltf or glb file at path into a new TriMesh. Every
// triangle primitive of every mesh of the document is merged into it. The
// returned MeshInfo lists what the file provided.
func LoadGltf(path string) (*mesh.TriMesh, mesh.MeshInfo, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, mesh.MeshInfo{}, errors.Wrapf(err, "meshio: open %s", path)
	}
	m := mesh.NewTriMesh()
	m.SetMeshBasePath(filepath.Dir(path))
	info, err := DecodeGltf(doc, m)
	if err != nil {
		return nil, info, errors.Wrap(err, path)
	}
	return m, info, nil
}

// DecodeGltf appends the triangles of doc to m and reports what it read.
func DecodeGltf(doc *gltf.Document, m *mesh.TriMesh) (mesh.MeshInfo, error) {
	info := mesh.MeshInfo{Type: mesh.MESH_TYPE_TRIANGLE_MESH}
	info.SetPerElementComponent(mesh.VERTEX, mesh.POSITION, true)
	info.SetElement(mesh.FACE, true)

	for _, gm := range doc.Meshes {
		if m.Name() == "" && gm.Name != "" {
			m.SetName(gm.Name)
		}
		for _, ps := range gm.Primitives {
			if ps.Mode != gltf.PrimitiveTriangles {
				mesh.Logger().Sugar().Debugw("gltf primitive skipped", "mode", ps.Mode)
				continue
			}
			if err := decodePrimitive(doc, ps, m, &info); err != nil {
				return info, err
			}
		}
	}
	if len(doc.Nodes) == 1 && doc.Nodes[0].Matrix != emptyMatrix {
		if mat := fromGltfMatrix(doc.Nodes[0].Matrix); mat != dmat.Ident {
			*m.TransformMatrix() = mat
			info.MeshComponents.Set(mesh.TRANSFORM_MATRIX)
		}
	}
	if m.Name() != "" {
		info.MeshComponents.Set(mesh.NAME)
	}
	if m.TextureNumber() > 0 {
		info.MeshComponents.Set(mesh.TEXTURE_IMAGES)
	}
	mesh.Logger().Sugar().Debugw("gltf decoded", "vertices", m.VertexNumber(), "faces", m.FaceNumber())
	return info, nil
}

func decodePrimitive(doc *gltf.Document, ps *gltf.Primitive, m *mesh.TriMesh, info *mesh.MeshInfo) error {
	posIdx, ok := ps.Attributes["POSITION"]
	if !ok {
		return &mesh.MalformedStreamError{Reason: "primitive without POSITION"}
	}
	positions, err := readFloats(doc, posIdx, 3)
	if err != nil {
		return err
	}
	base := m.VertexContainerSize()
	vn := uint32(len(positions) / 3)
	m.AddVertices(vn)
	for i := uint32(0); i < vn; i++ {
		*m.Vertex(base + i).Position() = dvec3.T{
			float64(positions[i*3]), float64(positions[i*3+1]), float64(positions[i*3+2]),
		}
	}

	var texIndex uint16
	if ps.Material != nil && int(*ps.Material) < len(doc.Materials) {
		ti, err := decodeMaterialTexture(doc, doc.Materials[*ps.Material], m)
		if err != nil {
			mesh.Logger().Sugar().Warnw("gltf texture skipped", "error", err)
		}
		if ti >= 0 {
			texIndex = uint16(ti)
		}
	}

	if idx, ok := ps.Attributes["NORMAL"]; ok {
		normals, err := readFloats(doc, idx, 3)
		if err != nil {
			return err
		}
		for i := uint32(0); i < vn && int(i*3+2) < len(normals); i++ {
			*m.Vertex(base + i).Normal() = dvec3.T{
				float64(normals[i*3]), float64(normals[i*3+1]), float64(normals[i*3+2]),
			}
		}
		info.SetPerElementComponent(mesh.VERTEX, mesh.NORMAL, true)
	}
	if idx, ok := ps.Attributes["TEXCOORD_0"]; ok {
		uvs, err := readFloats(doc, idx, 2)
		if err != nil {
			return err
		}
		m.EnablePerVertexTexCoord()
		for i := uint32(0); i < vn && int(i*2+1) < len(uvs); i++ {
			tc := m.Vertex(base + i).TexCoord()
			tc.UV[0], tc.UV[1] = uvs[i*2], uvs[i*2+1]
			tc.Index = texIndex
		}
		info.SetPerElementComponent(mesh.VERTEX, mesh.TEX_COORD, true)
	}
	if idx, ok := ps.Attributes["COLOR_0"]; ok {
		cols, n, err := readColors(doc, idx)
		if err != nil {
			return err
		}
		m.EnablePerVertexColor()
		for i := uint32(0); i < vn && int(i+1)*n <= len(cols); i++ {
			c := m.Vertex(base + i).Color()
			*c = mesh.ColorWhite
			copy(c[:], cols[int(i)*n:int(i+1)*n])
		}
		info.SetPerElementComponent(mesh.VERTEX, mesh.COLOR, true)
	}

	var indices []uint32
	if ps.Indices != nil {
		if indices, err = readIndices(doc, *ps.Indices); err != nil {
			return err
		}
	} else {
		indices = make([]uint32, vn)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for k := 0; k+2 < len(indices); k += 3 {
		a, b, c := indices[k], indices[k+1], indices[k+2]
		if a >= vn || b >= vn || c >= vn {
			return &mesh.MalformedStreamError{Reason: "triangle index out of range"}
		}
		m.AddFace(base+a, base+b, base+c)
	}

	return nil
}

// accessorData returns the bytes of the accessor acc and the distance between
// two consecutive elements.
func accessorData(doc *gltf.Document, idx uint32, elemSize int) ([]byte, int, *gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, 0, nil, &mesh.MalformedStreamError{Reason: "accessor out of range"}
	}
	acc := doc.Accessors[idx]
	if acc.BufferView == nil || int(*acc.BufferView) >= len(doc.BufferViews) {
		return nil, 0, acc, &mesh.MalformedStreamError{Reason: "accessor without buffer view"}
	}
	view := doc.BufferViews[*acc.BufferView]
	if int(view.Buffer) >= len(doc.Buffers) {
		return nil, 0, acc, &mesh.MalformedStreamError{Reason: "buffer out of range"}
	}
	data := doc.Buffers[view.Buffer].Data
	stride := elemSize
	if view.ByteStride != 0 {
		stride = int(view.ByteStride)
	}
	start := int(view.ByteOffset) + int(acc.ByteOffset)
	end := start
	if acc.Count > 0 {
		end += stride*(int(acc.Count)-1) + elemSize
	}
	if end > int(view.ByteOffset+view.ByteLength) || end > len(data) {
		return nil, 0, acc, &mesh.MalformedStreamError{Reason: "accessor exceeds its buffer view"}
	}
	return data[start:end], stride, acc, nil
}

func componentSize(ct gltf.ComponentType) int {
	switch ct {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	default:
		return 4
	}
}

func readFloats(doc *gltf.Document, idx uint32, n int) ([]float32, error) {
	if int(idx) < len(doc.Accessors) && doc.Accessors[idx].ComponentType != gltf.ComponentFloat {
		return nil, &mesh.MalformedStreamError{Reason: "vertex attribute is not float"}
	}
	data, stride, acc, err := accessorData(doc, idx, 4*n)
	if err != nil {
		return nil, err
	}
	out := make([]float32, 0, int(acc.Count)*n)
	for i := 0; i < int(acc.Count); i++ {
		bf := bytes.NewReader(data[i*stride : i*stride+4*n])
		v := make([]float32, n)
		if err := binary.Read(bf, binary.LittleEndian, v); err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx uint32) ([]uint32, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, &mesh.MalformedStreamError{Reason: "accessor out of range"}
	}
	size := componentSize(doc.Accessors[idx].ComponentType)
	data, stride, acc, err := accessorData(doc, idx, size)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, acc.Count)
	for i := range out {
		p := data[i*stride:]
		switch size {
		case 1:
			out[i] = uint32(p[0])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(p))
		default:
			out[i] = binary.LittleEndian.Uint32(p)
		}
	}
	return out, nil
}

// readColors returns the colors of accessor idx as bytes, 3 or 4 per vertex.
func readColors(doc *gltf.Document, idx uint32) ([]byte, int, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, 0, &mesh.MalformedStreamError{Reason: "accessor out of range"}
	}
	acc := doc.Accessors[idx]
	n := 4
	if acc.Type == gltf.AccessorVec3 {
		n = 3
	}
	size := componentSize(acc.ComponentType)
	data, stride, _, err := accessorData(doc, idx, size*n)
	if err != nil {
		return nil, 0, err
	}
	out := make([]byte, 0, int(acc.Count)*n)
	for i := 0; i < int(acc.Count); i++ {
		p := data[i*stride:]
		for k := 0; k < n; k++ {
			switch acc.ComponentType {
			case gltf.ComponentUbyte:
				out = append(out, p[k])
			case gltf.ComponentUshort:
				out = append(out, byte(binary.LittleEndian.Uint16(p[k*2:])>>8))
			default:
				f := math.Float32frombits(binary.LittleEndian.Uint32(p[k*4:]))
				out = append(out, byte(math.Round(float64(min(max(f, 0), 1))*255)))
			}
		}
	}
	return out, n, nil
}

// decodeMaterialTexture pushes the base color texture of mt to m, unless m
// already has it, and returns its index, -1 when mt has none. Embedded
// images are decoded, external ones are only recorded by path.
func decodeMaterialTexture(doc *gltf.Document, mt *gltf.Material, m *mesh.TriMesh) (int, error) {
	if mt.PBRMetallicRoughness == nil || mt.PBRMetallicRoughness.BaseColorTexture == nil {
		return -1, nil
	}
	texIdx := mt.PBRMetallicRoughness.BaseColorTexture.Index
	if int(texIdx) >= len(doc.Textures) || doc.Textures[texIdx].Source == nil ||
		int(*doc.Textures[texIdx].Source) >= len(doc.Images) {
		return -1, &mesh.MalformedStreamError{Reason: "texture out of range"}
	}
	img := doc.Images[*doc.Textures[texIdx].Source]
	name := img.Name
	if name == "" && !strings.HasPrefix(img.URI, "data:") {
		name = img.URI
	}
	if name != "" {
		for i := 0; i < m.TextureNumber(); i++ {
			if m.TexturePath(i) == name {
				return i, nil
			}
		}
	}
	if img.BufferView == nil && img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
		m.PushTexturePath(img.URI)
		return m.TextureNumber() - 1, nil
	}
	var bt []byte
	if img.BufferView != nil {
		view := doc.BufferViews[*img.BufferView]
		buffer := doc.Buffers[view.Buffer]
		bt = buffer.Data[view.ByteOffset : view.ByteOffset+view.ByteLength]
	} else {
		var err error
		if bt, err = img.MarshalData(); err != nil {
			return -1, err
		}
	}
	dec, err := decodeFormat(bytes.NewReader(bt), img.MimeType)
	if err != nil {
		return -1, err
	}
	m.PushTexture(mesh.Texture{Path: name, Image: dec})
	return m.TextureNumber() - 1, nil
}

func fromGltfMatrix(mat [16]float32) dmat.T {
	var m dmat.T
	for c := 0; c < 4; c++ {
		m[c] = vec4.T{float64(mat[c*4]), float64(mat[c*4+1]), float64(mat[c*4+2]), float64(mat[c*4+3])}
	}
	return m
}
