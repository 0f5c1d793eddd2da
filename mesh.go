package mesh

import (
	"iter"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Mesher is implemented by every mesh type through its embedded MeshBase.
type Mesher interface {
	meshBase() *MeshBase
}

// MeshBase links the containers of a mesh. Every mesh type embeds it together
// with the container and mesh component mixins it is composed of, and must be
// used through a pointer. Containers point back to their MeshBase, so a copy
// of a mesh value still refers to the source; Clone is the only supported
// copy and go vet reports the others.
type MeshBase struct {
	_          noCopy
	id         uuid.UUID
	containers [ELEMENTS_NUMBER]*Container
}

// noCopy is recognized by the copylocks check of go vet.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

func (m *MeshBase) meshBase() *MeshBase {
	return m
}

func (m *MeshBase) ID() uuid.UUID {
	return m.id
}

func (m *MeshBase) attach(kind ElementID, c *Container, s *ElementSchema) {
	assertf(s.kind == kind, "schema of a %v attached as %v container", s.kind, kind)
	if m.id == uuid.Nil {
		m.id = uuid.New()
	}
	c.init(m, s)
	m.containers[kind] = c
}

// AttachVertices binds the vertex container mixin of a mesh type to its
// schema. Constructors of user defined mesh types call it once.
func (m *MeshBase) AttachVertices(v *VertexContainer, s *ElementSchema) {
	m.attach(VERTEX, &v.vertices, s)
}

func (m *MeshBase) AttachFaces(f *FaceContainer, s *ElementSchema) {
	m.attach(FACE, &f.faces, s)
}

func (m *MeshBase) AttachEdges(e *EdgeContainer, s *ElementSchema) {
	m.attach(EDGE, &e.edges, s)
}

// HasContainer reports whether the mesh has elements of the given kind.
func (m *MeshBase) HasContainer(kind ElementID) bool {
	return m.containers[kind] != nil
}

// Container returns the container of the given kind, nil if the mesh has none.
func (m *MeshBase) Container(kind ElementID) *Container {
	return m.containers[kind]
}

// ContainerOf returns the container of the given kind of m, nil if m has none.
func ContainerOf(m Mesher, kind ElementID) *Container {
	return m.meshBase().containers[kind]
}

// IDOf returns the identifier of m.
func IDOf(m Mesher) uuid.UUID {
	return m.meshBase().id
}

// IsCompact reports whether no container has deleted slots.
func (m *MeshBase) IsCompact() bool {
	for _, c := range m.containers {
		if c != nil && !c.IsCompact() {
			return false
		}
	}
	return true
}

// Clear removes every element of the mesh.
func (m *MeshBase) Clear() {
	for _, c := range m.containers {
		if c != nil {
			c.Clear()
		}
	}
}

// Compact removes the deleted slots of every container and updates every
// reference of the mesh accordingly.
func (m *MeshBase) Compact() {
	var maps [ELEMENTS_NUMBER][]uint32
	for k, c := range m.containers {
		if c != nil && !c.IsCompact() {
			maps[k] = c.CompactIndices()
		}
	}
	m.compactWith(maps)
}

func (m *MeshBase) compactKind(kind ElementID) []uint32 {
	c := m.containers[kind]
	var maps [ELEMENTS_NUMBER][]uint32
	maps[kind] = c.CompactIndices()
	m.compactWith(maps)
	return maps[kind]
}

// compactWith compacts every container with a map, then remaps once every
// reference column pointing at a compacted kind.
func (m *MeshBase) compactWith(maps [ELEMENTS_NUMBER][]uint32) {
	for k, c := range m.containers {
		if c != nil && maps[k] != nil {
			removed := c.DeletedElementNumber()
			c.compactStorage(maps[k])
			Logger().Debug("container compacted", zap.Stringer("mesh", m.id),
				zap.Stringer("element", ElementID(k)), zap.Uint32("removed", removed))
		}
	}
	for _, c := range m.containers {
		if c == nil {
			continue
		}
		for id, col := range c.columns {
			if col == nil {
				continue
			}
			if ok, target := IsReferenceComponent(ComponentID(id)); ok && maps[target] != nil {
				remapRefs(col, maps[target])
			}
		}
	}
}

// EnableSameOptionalComponentsOf enables on every container of dst the
// optional components available on the container of the same kind of src.
func EnableSameOptionalComponentsOf(dst, src Mesher) {
	d, s := dst.meshBase(), src.meshBase()
	for k, c := range d.containers {
		if c != nil && s.containers[k] != nil {
			c.EnableSameOptionalComponentsOf(s.containers[k])
		}
	}
}

// VertexContainer is the mixin giving a mesh type its vertices.
type VertexContainer struct {
	vertices Container
}

// PerVertex returns the vertex container.
func (m *VertexContainer) PerVertex() *Container {
	return &m.vertices
}

func (m *VertexContainer) Vertex(i uint32) Vertex {
	return Vertex{m.vertices.Element(i)}
}

func (m *VertexContainer) VertexNumber() uint32 {
	return m.vertices.ElementNumber()
}

func (m *VertexContainer) VertexContainerSize() uint32 {
	return m.vertices.ElementContainerSize()
}

func (m *VertexContainer) DeletedVertexNumber() uint32 {
	return m.vertices.DeletedElementNumber()
}

// AddVertex adds a vertex at position p and returns its index.
func (m *VertexContainer) AddVertex(p dvec3.T) uint32 {
	i := m.vertices.Add()
	*m.Vertex(i).Position() = p
	return i
}

// AddVertices adds n value initialized vertices and returns the first index.
func (m *VertexContainer) AddVertices(n uint32) uint32 {
	return m.vertices.AddN(n)
}

func (m *VertexContainer) ReserveVertices(n uint32) {
	m.vertices.Reserve(n)
}

func (m *VertexContainer) ResizeVertices(n uint32) {
	m.vertices.Resize(n)
}

// DeleteVertex flags the vertex as deleted. Faces referring to it are not
// touched.
func (m *VertexContainer) DeleteVertex(i uint32) {
	m.vertices.Delete(i)
}

func (m *VertexContainer) VertexIndexIfCompact(i uint32) uint32 {
	return m.vertices.IndexIfCompact(i)
}

func (m *VertexContainer) VertexCompactIndices() []uint32 {
	return m.vertices.CompactIndices()
}

// CompactVertices removes deleted vertices and remaps every vertex reference.
func (m *VertexContainer) CompactVertices() []uint32 {
	return m.vertices.Compact()
}

func (m *VertexContainer) Vertices() iter.Seq[Vertex] {
	return func(yield func(Vertex) bool) {
		for e := range m.vertices.All() {
			if !yield(Vertex{e}) {
				return
			}
		}
	}
}

func (m *VertexContainer) EnablePerVertexComponent(id ComponentID) {
	m.vertices.EnableOptionalComponent(id)
}

func (m *VertexContainer) DisablePerVertexComponent(id ComponentID) {
	m.vertices.DisableOptionalComponent(id)
}

func (m *VertexContainer) IsPerVertexComponentEnabled(id ComponentID) bool {
	return m.vertices.IsComponentAvailable(id)
}

func (m *VertexContainer) EnableAllPerVertexOptionalComponents() {
	m.vertices.EnableAllOptionalComponents()
}

func (m *VertexContainer) EnablePerVertexColor()   { m.EnablePerVertexComponent(COLOR) }
func (m *VertexContainer) EnablePerVertexQuality() { m.EnablePerVertexComponent(QUALITY) }
func (m *VertexContainer) EnablePerVertexTexCoord() {
	m.EnablePerVertexComponent(TEX_COORD)
}
func (m *VertexContainer) EnablePerVertexAdjacentFaces() {
	m.EnablePerVertexComponent(ADJACENT_FACES)
}
func (m *VertexContainer) EnablePerVertexAdjacentVertices() {
	m.EnablePerVertexComponent(ADJACENT_VERTICES)
}

func (m *VertexContainer) IsPerVertexColorEnabled() bool {
	return m.IsPerVertexComponentEnabled(COLOR)
}

func (m *VertexContainer) IsPerVertexQualityEnabled() bool {
	return m.IsPerVertexComponentEnabled(QUALITY)
}

func (m *VertexContainer) IsPerVertexTexCoordEnabled() bool {
	return m.IsPerVertexComponentEnabled(TEX_COORD)
}

// FaceContainer is the mixin giving a mesh type its faces.
type FaceContainer struct {
	faces Container
}

func (m *FaceContainer) PerFace() *Container {
	return &m.faces
}

func (m *FaceContainer) Face(i uint32) Face {
	return Face{m.faces.Element(i)}
}

func (m *FaceContainer) FaceNumber() uint32 {
	return m.faces.ElementNumber()
}

func (m *FaceContainer) FaceContainerSize() uint32 {
	return m.faces.ElementContainerSize()
}

func (m *FaceContainer) DeletedFaceNumber() uint32 {
	return m.faces.DeletedElementNumber()
}

// AddFace adds a face on the given vertices and returns its index. Every
// vertex index is validated before the face is inserted.
func (m *FaceContainer) AddFace(vids ...uint32) uint32 {
	vn := m.faces.schema.vertexNumber
	assertf(vn < 0 || len(vids) == vn, "face expects %d vertices, got %d", vn, len(vids))
	assertf(len(vids) >= 3, "a face needs at least 3 vertices, got %d", len(vids))
	vc := m.faces.parent.containers[VERTEX]
	for _, vi := range vids {
		assertf(!vc.IsDeleted(vi), "vertex %d is deleted", vi)
	}
	i := m.faces.Add()
	m.Face(i).SetVertices(vids...)
	return i
}

func (m *FaceContainer) AddFaces(n uint32) uint32 {
	return m.faces.AddN(n)
}

func (m *FaceContainer) ReserveFaces(n uint32) {
	m.faces.Reserve(n)
}

func (m *FaceContainer) ResizeFaces(n uint32) {
	m.faces.Resize(n)
}

func (m *FaceContainer) DeleteFace(i uint32) {
	m.faces.Delete(i)
}

func (m *FaceContainer) FaceIndexIfCompact(i uint32) uint32 {
	return m.faces.IndexIfCompact(i)
}

func (m *FaceContainer) FaceCompactIndices() []uint32 {
	return m.faces.CompactIndices()
}

func (m *FaceContainer) CompactFaces() []uint32 {
	return m.faces.Compact()
}

func (m *FaceContainer) Faces() iter.Seq[Face] {
	return func(yield func(Face) bool) {
		for e := range m.faces.All() {
			if !yield(Face{e}) {
				return
			}
		}
	}
}

func (m *FaceContainer) EnablePerFaceComponent(id ComponentID) {
	m.faces.EnableOptionalComponent(id)
}

func (m *FaceContainer) DisablePerFaceComponent(id ComponentID) {
	m.faces.DisableOptionalComponent(id)
}

func (m *FaceContainer) IsPerFaceComponentEnabled(id ComponentID) bool {
	return m.faces.IsComponentAvailable(id)
}

func (m *FaceContainer) EnableAllPerFaceOptionalComponents() {
	m.faces.EnableAllOptionalComponents()
}

func (m *FaceContainer) EnablePerFaceColor()   { m.EnablePerFaceComponent(COLOR) }
func (m *FaceContainer) EnablePerFaceQuality() { m.EnablePerFaceComponent(QUALITY) }
func (m *FaceContainer) EnablePerFaceAdjacentFaces() {
	m.EnablePerFaceComponent(ADJACENT_FACES)
}

func (m *FaceContainer) IsPerFaceColorEnabled() bool {
	return m.IsPerFaceComponentEnabled(COLOR)
}

func (m *FaceContainer) IsPerFaceQualityEnabled() bool {
	return m.IsPerFaceComponentEnabled(QUALITY)
}

// EdgeContainer is the mixin giving a mesh type its edges.
type EdgeContainer struct {
	edges Container
}

func (m *EdgeContainer) PerEdge() *Container {
	return &m.edges
}

func (m *EdgeContainer) Edge(i uint32) Edge {
	return Edge{m.edges.Element(i)}
}

func (m *EdgeContainer) EdgeNumber() uint32 {
	return m.edges.ElementNumber()
}

func (m *EdgeContainer) EdgeContainerSize() uint32 {
	return m.edges.ElementContainerSize()
}

// AddEdge adds an edge between the vertices a and b and returns its index.
func (m *EdgeContainer) AddEdge(a, b uint32) uint32 {
	vc := m.edges.parent.containers[VERTEX]
	assertf(!vc.IsDeleted(a) && !vc.IsDeleted(b), "edge on deleted vertex %d-%d", a, b)
	i := m.edges.Add()
	m.Edge(i).SetVertices(a, b)
	return i
}

func (m *EdgeContainer) AddEdges(n uint32) uint32 {
	return m.edges.AddN(n)
}

func (m *EdgeContainer) DeleteEdge(i uint32) {
	m.edges.Delete(i)
}

func (m *EdgeContainer) CompactEdges() []uint32 {
	return m.edges.Compact()
}

func (m *EdgeContainer) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for e := range m.edges.All() {
			if !yield(Edge{e}) {
				return
			}
		}
	}
}

func (m *EdgeContainer) EnablePerEdgeComponent(id ComponentID) {
	m.edges.EnableOptionalComponent(id)
}

func (m *EdgeContainer) IsPerEdgeComponentEnabled(id ComponentID) bool {
	return m.edges.IsComponentAvailable(id)
}

// TriMesh is a mesh of triangles.
type TriMesh struct {
	MeshBase
	VertexContainer
	FaceContainer
	BoundingBoxComponent
	NameComponent
	TransformMatrixComponent
	TextureImagesComponent
	MeshCustomComponents
}

func NewTriMesh() *TriMesh {
	m := &TriMesh{}
	m.AttachVertices(&m.VertexContainer, TriMeshVertexSchema)
	m.AttachFaces(&m.FaceContainer, TriMeshFaceSchema)
	return m
}

func (m *TriMesh) Clone() *TriMesh {
	n := NewTriMesh()
	EnableSameOptionalComponentsOf(n, m)
	ImportMesh(n, m)
	return n
}

// PolyMesh is a mesh of polygons with any vertex number.
type PolyMesh struct {
	MeshBase
	VertexContainer
	FaceContainer
	BoundingBoxComponent
	NameComponent
	TransformMatrixComponent
	TextureImagesComponent
	MeshCustomComponents
}

func NewPolyMesh() *PolyMesh {
	m := &PolyMesh{}
	m.AttachVertices(&m.VertexContainer, TriMeshVertexSchema)
	m.AttachFaces(&m.FaceContainer, PolyMeshFaceSchema)
	return m
}

func (m *PolyMesh) Clone() *PolyMesh {
	n := NewPolyMesh()
	EnableSameOptionalComponentsOf(n, m)
	ImportMesh(n, m)
	return n
}

// EdgeMesh is a mesh of vertices linked by edges.
type EdgeMesh struct {
	MeshBase
	VertexContainer
	EdgeContainer
	BoundingBoxComponent
	NameComponent
	TransformMatrixComponent
	MeshCustomComponents
}

func NewEdgeMesh() *EdgeMesh {
	m := &EdgeMesh{}
	m.AttachVertices(&m.VertexContainer, TriMeshVertexSchema)
	m.AttachEdges(&m.EdgeContainer, EdgeMeshEdgeSchema)
	return m
}

func (m *EdgeMesh) Clone() *EdgeMesh {
	n := NewEdgeMesh()
	EnableSameOptionalComponentsOf(n, m)
	ImportMesh(n, m)
	return n
}

// PointCloud is a mesh made of vertices only.
type PointCloud struct {
	MeshBase
	VertexContainer
	BoundingBoxComponent
	NameComponent
	TransformMatrixComponent
	MeshCustomComponents
}

func NewPointCloud() *PointCloud {
	m := &PointCloud{}
	m.AttachVertices(&m.VertexContainer, PointCloudVertexSchema)
	return m
}

func (m *PointCloud) Clone() *PointCloud {
	n := NewPointCloud()
	EnableSameOptionalComponentsOf(n, m)
	ImportMesh(n, m)
	return n
}
