package algorithms

import (
	mesh "github.com/flywave/go-vcmesh"
)

// RemoveUnreferencedVertices deletes the live vertices no live face uses and
// returns how many were deleted. Null references are ignored. The mesh is not
// compacted.
func RemoveUnreferencedVertices(m FaceMesh) uint32 {
	used := make([]bool, m.VertexContainerSize())
	mark := func(vi uint32) {
		if vi != mesh.UINT_NULL {
			used[vi] = true
		}
	}
	for f := range m.Faces() {
		for _, vi := range f.VertexIndices() {
			mark(vi)
		}
	}
	if em, ok := m.(EdgeMesh); ok {
		for e := range em.Edges() {
			mark(e.VertexIndex(0))
			mark(e.VertexIndex(1))
		}
	}
	var n uint32
	vc := m.PerVertex()
	for i, u := range used {
		if !u && !vc.IsDeleted(uint32(i)) {
			vc.Delete(uint32(i))
			n++
		}
	}
	return n
}

// RemoveDegenerateFaces deletes the live faces referencing the same vertex
// twice and returns how many were deleted.
func RemoveDegenerateFaces(m FaceMesh) uint32 {
	var doomed []uint32
	for f := range m.Faces() {
		seen := make(map[uint32]struct{}, f.VertexNumber())
		for _, vi := range f.VertexIndices() {
			if _, ok := seen[vi]; ok {
				doomed = append(doomed, f.Index())
				break
			}
			seen[vi] = struct{}{}
		}
	}
	for _, fi := range doomed {
		m.PerFace().Delete(fi)
	}
	return uint32(len(doomed))
}
