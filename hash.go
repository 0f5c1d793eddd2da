package mesh

import (
	"github.com/cespare/xxhash/v2"
)

// Hash returns the xxhash of the binary form of m. Two meshes with the same
// elements, enabled components and mesh components have the same hash.
func Hash(m Mesher) (uint64, error) {
	d := xxhash.New()
	if err := Marshal(d, m); err != nil {
		return 0, err
	}
	return d.Sum64(), nil
}
