package meshio

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"

	mesh "github.com/flywave/go-vcmesh"
	"github.com/flywave/go-vcmesh/algorithms"
)

var ErrUnsupportedFormat = errors.New("meshio: unsupported file format")

// Save writes m to path, choosing the format from the extension: the native
// binary format for .vcm, glTF for .gltf and .glb. A .gltf file keeps its
// geometry in a .bin file next to it.
func Save(path string, m algorithms.VertexMesh) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case mesh.MESHEXT:
		return mesh.MeshWriteTo(path, m)
	case ".glb":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return WriteGltfBinary(f, m)
	case ".gltf":
		doc, err := ToGltf(m)
		if err != nil {
			return err
		}
		if len(doc.Buffers[0].Data) > 0 {
			doc.Buffers[0].URI = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".bin"
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		enc := gltf.NewEncoder(f).WithWriteHandler(dirWriteHandler(filepath.Dir(path)))
		enc.AsBinary = false
		return errors.Wrap(enc.Encode(doc), "meshio: save gltf")
	}
	return errors.Wrap(ErrUnsupportedFormat, path)
}

// dirWriteHandler writes the external resources of a glTF document in the
// directory it names.
type dirWriteHandler string

func (d dirWriteHandler) WriteResource(uri string, data []byte) error {
	return os.WriteFile(filepath.Join(string(d), filepath.FromSlash(uri)), data, 0o664)
}

// Load reads the file at path into m and returns what the file provided.
// Native files must match the schema of m. glTF files are read as triangles
// and imported into m, enabling the optional components they carry.
func Load(path string, m mesh.Mesher) (mesh.MeshInfo, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case mesh.MESHEXT:
		if err := mesh.MeshReadFrom(path, m); err != nil {
			return mesh.MeshInfo{}, err
		}
		return mesh.MeshInfoOf(m), nil
	case ".glb", ".gltf":
		tm, info, err := LoadGltf(path)
		if err != nil {
			return info, err
		}
		info = mesh.EnableOptionalComponentsFromInfo(m, info)
		mesh.ImportMesh(m, tm)
		return info, nil
	}
	return mesh.MeshInfo{}, errors.Wrap(ErrUnsupportedFormat, path)
}
