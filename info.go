package mesh

// MeshType is the face shape reported by a MeshInfo.
type MeshType uint8

const (
	MESH_TYPE_TRIANGLE_MESH MeshType = iota
	MESH_TYPE_QUAD_MESH
	MESH_TYPE_POLYGON_MESH
	MESH_TYPE_UNKNOWN
)

// MeshInfo describes the capabilities of a mesh: which elements it has and
// which components are present on each of them. Loaders fill one to tell the
// caller what they read; savers read one to decide what to write.
type MeshInfo struct {
	Type           MeshType
	Elements       [ELEMENTS_NUMBER]bool
	Components     [ELEMENTS_NUMBER]ComponentMask
	MeshComponents ComponentMask
}

func (i *MeshInfo) HasElement(kind ElementID) bool {
	return i.Elements[kind]
}

func (i *MeshInfo) SetElement(kind ElementID, v bool) {
	i.Elements[kind] = v
}

func (i *MeshInfo) HasPerElementComponent(kind ElementID, id ComponentID) bool {
	return i.Elements[kind] && i.Components[kind].Has(id)
}

// SetPerElementComponent records the component id on kind, and the element
// kind itself when v is true.
func (i *MeshInfo) SetPerElementComponent(kind ElementID, id ComponentID, v bool) {
	if v {
		i.Elements[kind] = true
		i.Components[kind].Set(id)
	} else {
		i.Components[kind].Unset(id)
	}
}

func (i *MeshInfo) HasVertices() bool      { return i.HasElement(VERTEX) }
func (i *MeshInfo) HasFaces() bool         { return i.HasElement(FACE) }
func (i *MeshInfo) HasEdges() bool         { return i.HasElement(EDGE) }
func (i *MeshInfo) HasVertexNormals() bool { return i.HasPerElementComponent(VERTEX, NORMAL) }
func (i *MeshInfo) HasVertexColors() bool  { return i.HasPerElementComponent(VERTEX, COLOR) }
func (i *MeshInfo) HasVertexTexCoords() bool {
	return i.HasPerElementComponent(VERTEX, TEX_COORD)
}
func (i *MeshInfo) HasFaceColors() bool { return i.HasPerElementComponent(FACE, COLOR) }
func (i *MeshInfo) HasFaceWedgeTexCoords() bool {
	return i.HasPerElementComponent(FACE, WEDGE_TEX_COORDS)
}

// Intersect returns the capabilities present in both descriptors.
func (i MeshInfo) Intersect(o MeshInfo) MeshInfo {
	r := MeshInfo{Type: i.Type, MeshComponents: i.MeshComponents.And(o.MeshComponents)}
	if i.Type != o.Type {
		r.Type = MESH_TYPE_UNKNOWN
	}
	for k := range r.Elements {
		r.Elements[k] = i.Elements[k] && o.Elements[k]
		if r.Elements[k] {
			r.Components[k] = i.Components[k].And(o.Components[k])
		}
	}
	return r
}

// MeshInfoOf describes the elements of m and their available components.
func MeshInfoOf(m Mesher) MeshInfo {
	b := m.meshBase()
	info := MeshInfo{Type: MESH_TYPE_UNKNOWN, MeshComponents: MeshComponents(m)}
	for k, c := range b.containers {
		if c == nil {
			continue
		}
		info.Elements[k] = true
		info.Components[k] = c.AvailableComponents()
	}
	if f := b.containers[FACE]; f != nil {
		switch f.schema.vertexNumber {
		case 3:
			info.Type = MESH_TYPE_TRIANGLE_MESH
		case 4:
			info.Type = MESH_TYPE_QUAD_MESH
		default:
			info.Type = MESH_TYPE_POLYGON_MESH
		}
	}
	return info
}

// EnableOptionalComponentsFromInfo enables on m every optional component
// listed in info, and returns the part of info that m can store.
func EnableOptionalComponentsFromInfo(m Mesher, info MeshInfo) MeshInfo {
	b := m.meshBase()
	for k, c := range b.containers {
		if c == nil || !info.Elements[k] {
			continue
		}
		for id := range info.Components[k].And(c.schema.optional).All() {
			c.EnableOptionalComponent(id)
		}
	}
	return info.Intersect(MeshInfoOf(m))
}
