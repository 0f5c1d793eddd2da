package meshio

import (
	"bytes"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	mesh "github.com/flywave/go-vcmesh"
)

// TexturedMesh is any mesh carrying texture images.
type TexturedMesh interface {
	mesh.Mesher
	TextureNumber() int
	Texture(i int) *mesh.Texture
	PushTexture(tex mesh.Texture)
	MeshBasePath() string
	SetMeshBasePath(p string)
}

var errUnknownFormat = errors.New("meshio: unknown image format")

// DecodeImage decodes a jpeg, png, gif, bmp or tiff image.
func DecodeImage(rd io.ReadSeeker) (image.Image, error) {
	_, format, err := image.DecodeConfig(rd)
	if err != nil {
		return nil, errors.Wrap(err, "meshio: image config")
	}
	if _, err := rd.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return decodeFormat(rd, format)
}

func decodeFormat(rd io.Reader, format string) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(format) {
	case "jpeg", "jpg", "image/jpeg":
		img, err = jpeg.Decode(rd)
	case "png", "image/png":
		img, err = png.Decode(rd)
	case "gif", "image/gif":
		img, err = gif.Decode(rd)
	case "bmp", "image/bmp":
		img, err = bmp.Decode(rd)
	case "tif", "tiff", "image/tiff":
		img, err = tiff.Decode(rd)
	default:
		return nil, errors.Wrap(errUnknownFormat, format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "meshio: decode %s", format)
	}
	return img, nil
}

// LoadImage opens and decodes the image file at path.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImage(f)
}

// LoadTextureImages decodes every texture of m whose image is not loaded yet.
// Relative texture paths are resolved against the mesh base path. Textures
// that cannot be read are left without image and reported in the returned
// error; the others are still loaded.
func LoadTextureImages(m TexturedMesh) error {
	var failed []string
	for i := 0; i < m.TextureNumber(); i++ {
		tex := m.Texture(i)
		if tex.Image != nil || tex.Path == "" {
			continue
		}
		path := tex.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.MeshBasePath(), path)
		}
		img, err := LoadImage(path)
		if err != nil {
			mesh.Logger().Sugar().Warnw("texture not loaded", "path", path, "error", err)
			failed = append(failed, tex.Path)
			continue
		}
		tex.Image = img
	}
	if len(failed) > 0 {
		return errors.Errorf("meshio: cannot load textures %s", strings.Join(failed, ", "))
	}
	return nil
}

// encodePNG returns img as png bytes, flipping it vertically when flipY is
// set.
func encodePNG(img image.Image, flipY bool) ([]byte, error) {
	if flipY {
		img = flipVertical(img)
	}
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		return nil, errors.Wrap(err, "meshio: png encode")
	}
	return buf.Bytes(), nil
}

func flipVertical(img image.Image) *image.NRGBA {
	bd := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bd.Dx(), bd.Dy()))
	for y := 0; y < bd.Dy(); y++ {
		for x := 0; x < bd.Dx(); x++ {
			out.Set(x, bd.Dy()-y-1, img.At(bd.Min.X+x, bd.Min.Y+y))
		}
	}
	return out
}
