package algorithms

import (
	"sort"

	mesh "github.com/flywave/go-vcmesh"
)

// UpdatePerVertexAdjacentFaces fills, for every vertex, the list of the live
// faces incident to it, in face order.
func UpdatePerVertexAdjacentFaces(m FaceMesh) error {
	if err := RequirePerVertexComponent(m, mesh.ADJACENT_FACES); err != nil {
		return err
	}
	for v := range m.Vertices() {
		v.ClearAdjFaces()
	}
	for f := range m.Faces() {
		for v := range f.Vertices() {
			v.PushAdjFace(f.Index())
		}
	}
	return nil
}

// UpdatePerVertexAdjacentEdges fills, for every vertex, the list of the live
// edges incident to it.
func UpdatePerVertexAdjacentEdges(m EdgeMesh) error {
	if err := RequirePerVertexComponent(m, mesh.ADJACENT_EDGES); err != nil {
		return err
	}
	for v := range m.Vertices() {
		v.ClearAdjEdges()
	}
	for e := range m.Edges() {
		e.Vertex(0).PushAdjEdge(e.Index())
		if e.VertexIndex(1) != e.VertexIndex(0) {
			e.Vertex(1).PushAdjEdge(e.Index())
		}
	}
	return nil
}

// UpdatePerVertexAdjacentVertices fills, for every vertex, the sorted list of
// the vertices sharing a face side with it.
func UpdatePerVertexAdjacentVertices(m FaceMesh) error {
	if err := RequirePerVertexComponent(m, mesh.ADJACENT_VERTICES); err != nil {
		return err
	}
	adj := make(map[uint32]map[uint32]struct{})
	link := func(a, b uint32) {
		if adj[a] == nil {
			adj[a] = make(map[uint32]struct{})
		}
		adj[a][b] = struct{}{}
	}
	for f := range m.Faces() {
		n := f.VertexNumber()
		for k := 0; k < n; k++ {
			a, b := f.VertexIndex(k), f.VertexIndexMod(k+1)
			link(a, b)
			link(b, a)
		}
	}
	for v := range m.Vertices() {
		v.ClearAdjVertices()
		list := make([]uint32, 0, len(adj[v.Index()]))
		for o := range adj[v.Index()] {
			list = append(list, o)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		for _, o := range list {
			v.PushAdjVertex(o)
		}
	}
	return nil
}

type sideKey struct {
	a, b uint32
}

func newSideKey(a, b uint32) sideKey {
	if a > b {
		a, b = b, a
	}
	return sideKey{a, b}
}

// UpdatePerFaceAdjacentFaces sets, for every side k of every face (from
// vertex k to vertex k+1), the face sharing that side, UINT_NULL on borders.
// On non manifold sides the faces are linked in a cycle. Border sides also
// set the face OnBorder flag.
func UpdatePerFaceAdjacentFaces(m FaceMesh) error {
	if err := RequirePerFaceComponent(m, mesh.ADJACENT_FACES); err != nil {
		return err
	}
	type side struct {
		face uint32
		k    int
	}
	sides := make(map[sideKey][]side)
	var order []sideKey
	for f := range m.Faces() {
		n := f.VertexNumber()
		for k := 0; k < n; k++ {
			key := newSideKey(f.VertexIndex(k), f.VertexIndexMod(k+1))
			if _, ok := sides[key]; !ok {
				order = append(order, key)
			}
			sides[key] = append(sides[key], side{f.Index(), k})
		}
		f.SetOnBorder(false)
	}
	for _, key := range order {
		group := sides[key]
		if len(group) == 1 {
			f := m.Face(group[0].face)
			f.SetAdjFace(group[0].k, mesh.UINT_NULL)
			f.SetOnBorder(true)
			continue
		}
		for i, s := range group {
			next := group[(i+1)%len(group)]
			m.Face(s.face).SetAdjFace(s.k, next.face)
		}
	}
	return nil
}
