package mesh

import (
	"image"
	"reflect"

	dmat "github.com/flywave/go3d/float64/mat4"
	dvec3 "github.com/flywave/go3d/float64/vec3"
)

// BoundingBoxComponent gives a mesh an axis aligned bounding box. A fresh box
// is empty (min greater than max).
type BoundingBoxComponent struct {
	box   dvec3.Box
	valid bool
}

func (b *BoundingBoxComponent) boundingBoxComponent() *BoundingBoxComponent {
	return b
}

func (b *BoundingBoxComponent) BoundingBox() *dvec3.Box {
	if !b.valid {
		b.box = dvec3.MinBox
		b.valid = true
	}
	return &b.box
}

// IsBoundingBoxNull reports whether the box contains no point.
func (b *BoundingBoxComponent) IsBoundingBoxNull() bool {
	bx := b.BoundingBox()
	return bx.Min[0] > bx.Max[0] || bx.Min[1] > bx.Max[1] || bx.Min[2] > bx.Max[2]
}

func (b *BoundingBoxComponent) ResetBoundingBox() {
	b.box = dvec3.MinBox
	b.valid = true
}

type NameComponent struct {
	name string
}

func (n *NameComponent) nameComponent() *NameComponent {
	return n
}

func (n *NameComponent) Name() string {
	return n.name
}

func (n *NameComponent) SetName(name string) {
	n.name = name
}

// TransformMatrixComponent gives a mesh a 4x4 transform, identity by default.
type TransformMatrixComponent struct {
	mat   dmat.T
	valid bool
}

func (t *TransformMatrixComponent) transformMatrixComponent() *TransformMatrixComponent {
	return t
}

func (t *TransformMatrixComponent) TransformMatrix() *dmat.T {
	if !t.valid {
		t.mat = dmat.Ident
		t.valid = true
	}
	return &t.mat
}

// Texture is a texture of a mesh: its path, relative to the mesh base path,
// and the decoded image when loaded.
type Texture struct {
	Path  string
	Image image.Image
}

type TextureImagesComponent struct {
	textures []Texture
	basePath string
}

func (t *TextureImagesComponent) textureImagesComponent() *TextureImagesComponent {
	return t
}

func (t *TextureImagesComponent) TextureNumber() int {
	return len(t.textures)
}

func (t *TextureImagesComponent) Texture(i int) *Texture {
	return &t.textures[i]
}

func (t *TextureImagesComponent) TexturePath(i int) string {
	return t.textures[i].Path
}

func (t *TextureImagesComponent) PushTexture(tex Texture) {
	t.textures = append(t.textures, tex)
}

func (t *TextureImagesComponent) PushTexturePath(path string) {
	t.textures = append(t.textures, Texture{Path: path})
}

func (t *TextureImagesComponent) ClearTextures() {
	t.textures = nil
}

func (t *TextureImagesComponent) MeshBasePath() string {
	return t.basePath
}

func (t *TextureImagesComponent) SetMeshBasePath(p string) {
	t.basePath = p
}

// MeshCustomComponents gives a mesh named values whose type is chosen at run
// time. It is a custom component table with a single slot.
type MeshCustomComponents struct {
	cc *CustomComponents
}

func (m *MeshCustomComponents) meshCustomComponents() *CustomComponents {
	if m.cc == nil {
		m.cc = newCustomComponents(1)
	}
	return m.cc
}

func (m *MeshCustomComponents) HasMeshCustomComponent(name string) bool {
	return m.meshCustomComponents().has(name)
}

func (m *MeshCustomComponents) DeleteMeshCustomComponent(name string) {
	m.meshCustomComponents().remove(name)
}

func (m *MeshCustomComponents) MeshCustomComponentNames() []string {
	return m.meshCustomComponents().names()
}

type meshCustomHolder interface {
	meshCustomComponents() *CustomComponents
}

// AddMeshCustomComponent adds the custom component name holding v to m.
func AddMeshCustomComponent[T any](m meshCustomHolder, name string, v T) error {
	cc := m.meshCustomComponents()
	if err := cc.add(name, reflect.TypeFor[T]()); err != nil {
		return err
	}
	cc.vecs[name].values[0] = v
	return nil
}

func MeshCustomComponent[T any](m meshCustomHolder, name string) (T, error) {
	var zero T
	v, err := m.meshCustomComponents().vector(name, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	val, _ := v.values[0].(T)
	return val, nil
}

func SetMeshCustomComponent[T any](m meshCustomHolder, name string, val T) error {
	v, err := m.meshCustomComponents().vector(name, reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	v.values[0] = val
	return nil
}

type boundingBoxHolder interface {
	boundingBoxComponent() *BoundingBoxComponent
}

type nameHolder interface {
	nameComponent() *NameComponent
}

type transformMatrixHolder interface {
	transformMatrixComponent() *TransformMatrixComponent
}

type textureImagesHolder interface {
	textureImagesComponent() *TextureImagesComponent
}

// MeshComponents returns the mask of the mesh level components of m.
func MeshComponents(m Mesher) ComponentMask {
	var mask ComponentMask
	if _, ok := m.(boundingBoxHolder); ok {
		mask.Set(BOUNDING_BOX)
	}
	if _, ok := m.(nameHolder); ok {
		mask.Set(NAME)
	}
	if _, ok := m.(transformMatrixHolder); ok {
		mask.Set(TRANSFORM_MATRIX)
	}
	if _, ok := m.(textureImagesHolder); ok {
		mask.Set(TEXTURE_IMAGES)
	}
	if _, ok := m.(meshCustomHolder); ok {
		mask.Set(CUSTOM_COMPONENTS)
	}
	return mask
}

// importMeshComponents copies every mesh level component present in both
// meshes.
func importMeshComponents(dst, src Mesher) {
	if d, ok := dst.(boundingBoxHolder); ok {
		if s, ok := src.(boundingBoxHolder); ok {
			*d.boundingBoxComponent() = *s.boundingBoxComponent()
		}
	}
	if d, ok := dst.(nameHolder); ok {
		if s, ok := src.(nameHolder); ok {
			d.nameComponent().name = s.nameComponent().name
		}
	}
	if d, ok := dst.(transformMatrixHolder); ok {
		if s, ok := src.(transformMatrixHolder); ok {
			*d.transformMatrixComponent() = *s.transformMatrixComponent()
		}
	}
	if d, ok := dst.(textureImagesHolder); ok {
		if s, ok := src.(textureImagesHolder); ok {
			dt, st := d.textureImagesComponent(), s.textureImagesComponent()
			dt.textures = append([]Texture(nil), st.textures...)
			dt.basePath = st.basePath
		}
	}
	if d, ok := dst.(meshCustomHolder); ok {
		if s, ok := src.(meshCustomHolder); ok {
			dc, sc := d.meshCustomComponents(), s.meshCustomComponents()
			dc.importLayout(sc)
			dc.importValue(0, sc, 0)
		}
	}
}
