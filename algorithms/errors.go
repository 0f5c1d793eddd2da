package algorithms

import "github.com/pkg/errors"

var (
	errNotCompact   = errors.New("algorithms: mesh must be compact")
	errNotTriangles = errors.New("algorithms: mesh must be made of triangles")
)

func IsNotCompact(err error) bool {
	return errors.Is(err, errNotCompact)
}

func IsNotTriangles(err error) bool {
	return errors.Is(err, errNotTriangles)
}
