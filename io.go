package mesh

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	maxListLength       = 1 << 24
	maxStringLength     = 1 << 20
	maxCustomComponents = 1 << 10
	maxElements         = 1 << 30
)

func writeLittleByte(wt io.Writer, v interface{}) error {
	return binary.Write(wt, binary.LittleEndian, v)
}

func readLittleByte(rd io.Reader, v interface{}) error {
	return binary.Read(rd, binary.LittleEndian, v)
}

func writeString(wt io.Writer, s string) error {
	if err := writeLittleByte(wt, uint32(len(s))); err != nil {
		return err
	}
	_, err := wt.Write([]byte(s))
	return err
}

func readString(rd io.Reader) (string, error) {
	var n uint32
	if err := readLittleByte(rd, &n); err != nil {
		return "", err
	}
	if n > maxStringLength {
		return "", &MalformedStreamError{Reason: "string too long"}
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(rd, b); err != nil {
		return "", err
	}
	return string(b), nil
}

// Marshal writes m in the binary mesh format. The stream is self describing:
// every container is preceded by its size and by the mask of the components
// written for it, so a reader never needs to know the writer's enabled set.
func Marshal(wt io.Writer, m Mesher) error {
	b := m.meshBase()
	if _, err := wt.Write([]byte(MESH_SIGNATURE)); err != nil {
		return err
	}
	if err := writeLittleByte(wt, V1); err != nil {
		return err
	}
	if err := meshComponentsMarshal(wt, m); err != nil {
		return errors.Wrap(err, "write mesh components failed")
	}
	var kinds uint8
	for k, c := range b.containers {
		if c != nil {
			kinds |= 1 << k
		}
	}
	if err := writeLittleByte(wt, kinds); err != nil {
		return err
	}
	for _, c := range b.containers {
		if c == nil {
			continue
		}
		if err := containerMarshal(wt, c); err != nil {
			return errors.Wrapf(err, "write %v container failed", c.kind)
		}
	}
	Logger().Debug("mesh written", zap.Stringer("mesh", b.id))
	return nil
}

func containerMarshal(wt io.Writer, c *Container) error {
	header := struct {
		Kind         uint8
		VertexNumber int32
		Components   uint32
		Size         uint32
		ElemNum      uint32
	}{uint8(c.kind), int32(c.schema.vertexNumber), uint32(c.AvailableComponents()),
		c.ElementContainerSize(), c.elemNum}
	if err := writeLittleByte(wt, &header); err != nil {
		return err
	}
	if err := writeLittleByte(wt, c.flags); err != nil {
		return err
	}
	for id := range c.AvailableComponents().All() {
		col := c.columns[id]
		if col == nil {
			continue
		}
		if err := col.marshal(wt); err != nil {
			return errors.Wrapf(err, "write %v failed", id)
		}
	}
	if c.custom != nil {
		return customComponentsMarshal(wt, c.custom)
	}
	return nil
}

// UnMarshal reads a mesh written by Marshal into m, replacing its content.
// Every container of the stream must exist in m with a schema declaring the
// written components, otherwise ErrSchemaMismatch is returned. Optional
// components written in the stream are enabled on m.
func UnMarshal(rd io.Reader, m Mesher) error {
	b := m.meshBase()
	sig := make([]byte, 4)
	if _, err := io.ReadFull(rd, sig); err != nil {
		return err
	}
	if string(sig) != MESH_SIGNATURE {
		return ErrBadSignature
	}
	var version uint32
	if err := readLittleByte(rd, &version); err != nil {
		return err
	}
	if version > V1 {
		return errors.Errorf("mesh: unsupported version %d", version)
	}
	if err := meshComponentsUnMarshal(rd, m); err != nil {
		return errors.Wrap(err, "read mesh components failed")
	}
	var kinds uint8
	if err := readLittleByte(rd, &kinds); err != nil {
		return err
	}
	for k := ElementID(0); k < ELEMENTS_NUMBER; k++ {
		if kinds&(1<<k) == 0 {
			if b.containers[k] != nil {
				b.containers[k].Clear()
			}
			continue
		}
		if b.containers[k] == nil {
			return errors.Wrapf(ErrSchemaMismatch, "mesh has no %v container", k)
		}
		if err := containerUnMarshal(rd, b.containers[k]); err != nil {
			return errors.Wrapf(err, "read %v container failed", k)
		}
	}
	return nil
}

func containerUnMarshal(rd io.Reader, c *Container) error {
	var header struct {
		Kind         uint8
		VertexNumber int32
		Components   uint32
		Size         uint32
		ElemNum      uint32
	}
	if err := readLittleByte(rd, &header); err != nil {
		return err
	}
	if header.Size > maxElements || header.ElemNum > header.Size {
		return &MalformedStreamError{Reason: "bad container size"}
	}
	mask := ComponentMask(header.Components)
	if ElementID(header.Kind) != c.kind || !c.schema.Components().Contains(mask) {
		return errors.Wrapf(ErrSchemaMismatch, "stream components %v, schema %v", mask, c.schema.Components())
	}
	if vn := c.schema.vertexNumber; vn > 0 && int(header.VertexNumber) != vn {
		return errors.Wrapf(ErrSchemaMismatch, "stream vertex number %d, schema %d", header.VertexNumber, vn)
	}
	for id := range mask.And(c.schema.optional).All() {
		c.EnableOptionalComponent(id)
	}
	c.Clear()
	c.grow(int(header.Size))
	if err := readLittleByte(rd, c.flags); err != nil {
		return err
	}
	c.elemNum = header.ElemNum
	for id := range mask.All() {
		col := c.columns[id]
		if col == nil {
			continue
		}
		if err := col.unmarshal(rd, int(header.Size)); err != nil {
			return errors.Wrapf(err, "read %v failed", id)
		}
	}
	if c.kind == FACE && c.schema.vertexNumber < 0 {
		// enabled lists the stream lacks follow the vertex number of each face
		for id, col := range c.columns {
			if col != nil && componentRegistry[id].tied && !mask.Has(ComponentID(id)) {
				c.fitTiedColumn(ComponentID(id))
			}
		}
	}
	if mask.Has(CUSTOM_COMPONENTS) {
		return customComponentsUnMarshal(rd, c.custom, int(header.Size))
	}
	return nil
}

func meshComponentsMarshal(wt io.Writer, m Mesher) error {
	mask := MeshComponents(m)
	if err := writeLittleByte(wt, uint32(mask)); err != nil {
		return err
	}
	if h, ok := m.(nameHolder); ok {
		if err := writeString(wt, h.nameComponent().name); err != nil {
			return err
		}
	}
	if h, ok := m.(boundingBoxHolder); ok {
		bx := h.boundingBoxComponent().BoundingBox()
		if err := writeLittleByte(wt, [2]dvec3.T{bx.Min, bx.Max}); err != nil {
			return err
		}
	}
	if h, ok := m.(transformMatrixHolder); ok {
		if err := writeLittleByte(wt, h.transformMatrixComponent().TransformMatrix()); err != nil {
			return err
		}
	}
	if h, ok := m.(textureImagesHolder); ok {
		t := h.textureImagesComponent()
		if err := writeString(wt, t.basePath); err != nil {
			return err
		}
		if err := writeLittleByte(wt, uint32(len(t.textures))); err != nil {
			return err
		}
		for _, tex := range t.textures {
			if err := writeString(wt, tex.Path); err != nil {
				return err
			}
		}
	}
	if h, ok := m.(meshCustomHolder); ok {
		return customComponentsMarshal(wt, h.meshCustomComponents())
	}
	return nil
}

// meshComponentsUnMarshal reads the mesh components of the stream, dropping
// the ones m does not have.
func meshComponentsUnMarshal(rd io.Reader, m Mesher) error {
	var raw uint32
	if err := readLittleByte(rd, &raw); err != nil {
		return err
	}
	mask := ComponentMask(raw)
	if mask.Has(NAME) {
		name, err := readString(rd)
		if err != nil {
			return err
		}
		if h, ok := m.(nameHolder); ok {
			h.nameComponent().name = name
		}
	}
	if mask.Has(BOUNDING_BOX) {
		var bx [2]dvec3.T
		if err := readLittleByte(rd, &bx); err != nil {
			return err
		}
		if h, ok := m.(boundingBoxHolder); ok {
			*h.boundingBoxComponent().BoundingBox() = dvec3.Box{Min: bx[0], Max: bx[1]}
		}
	}
	if mask.Has(TRANSFORM_MATRIX) {
		var mat [16]float64
		if err := readLittleByte(rd, &mat); err != nil {
			return err
		}
		if h, ok := m.(transformMatrixHolder); ok {
			tm := h.transformMatrixComponent().TransformMatrix()
			for i := 0; i < 4; i++ {
				copy(tm[i][:], mat[i*4:i*4+4])
			}
		}
	}
	if mask.Has(TEXTURE_IMAGES) {
		base, err := readString(rd)
		if err != nil {
			return err
		}
		var n uint32
		if err := readLittleByte(rd, &n); err != nil {
			return err
		}
		if n > maxListLength {
			return &MalformedStreamError{Reason: "too many textures"}
		}
		paths := make([]string, n)
		for i := range paths {
			if paths[i], err = readString(rd); err != nil {
				return err
			}
		}
		if h, ok := m.(textureImagesHolder); ok {
			t := h.textureImagesComponent()
			t.basePath = base
			t.textures = nil
			for _, p := range paths {
				t.PushTexturePath(p)
			}
		}
	}
	if mask.Has(CUSTOM_COMPONENTS) {
		cc := newCustomComponents(1)
		if h, ok := m.(meshCustomHolder); ok {
			cc = h.meshCustomComponents()
		}
		return customComponentsUnMarshal(rd, cc, 1)
	}
	return nil
}

// MarshalBytes returns the binary form of m.
func MarshalBytes(m Mesher) ([]byte, error) {
	var buf bytes.Buffer
	if err := Marshal(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func MeshReadFrom(path string, m Mesher) error {
	f, e := os.Open(path)
	if e != nil {
		return e
	}
	defer f.Close()
	return UnMarshal(f, m)
}

func MeshWriteTo(path string, m Mesher) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	f, e := os.Create(path)
	if e != nil {
		return e
	}
	defer f.Close()
	return Marshal(f, m)
}
