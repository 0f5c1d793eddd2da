package mesh

import (
	dvec3 "github.com/flywave/go3d/float64/vec3"
	"go.uber.org/zap"
)

// ImportMesh replaces the content of dst with the content of src.
//
// Every container of dst is imported from the container of the same kind of
// src, copying only the components available on both sides; containers of
// dst that src lacks are cleared, containers of src that dst lacks are
// skipped. Mesh level components present in both meshes are copied. When dst
// stores triangles and src polygons, polygons are split by EarCut: the first
// triangle keeps the polygon index, the others are appended after the last
// imported face.
//
// Optional components of dst are not enabled; call
// EnableSameOptionalComponentsOf first to receive everything src has.
func ImportMesh(dst, src Mesher) {
	d, s := dst.meshBase(), src.meshBase()
	for k, dc := range d.containers {
		if dc == nil {
			continue
		}
		sc := s.containers[k]
		if sc == nil {
			dc.Clear()
			continue
		}
		dc.ImportFrom(sc, true)
	}
	// references into containers dst does not have are meaningless
	for _, dc := range d.containers {
		if dc == nil {
			continue
		}
		for id, col := range dc.columns {
			if col == nil {
				continue
			}
			if ok, target := IsReferenceComponent(ComponentID(id)); ok &&
				(d.containers[target] == nil || s.containers[target] == nil) {
				n := col.len()
				col.resize(0)
				col.resize(n)
			}
		}
	}
	if df, sf := d.containers[FACE], s.containers[FACE]; df != nil && sf != nil {
		if vn := df.schema.vertexNumber; vn == 3 && sf.schema.vertexNumber != 3 {
			triangulateFaces(df, sf)
		}
	}
	importMeshComponents(dst, src)
	Logger().Debug("mesh imported", zap.Stringer("dst", d.id), zap.Stringer("src", s.id))
}

// triangulateFaces fills the triangles of df from the polygons of sf. df has
// already imported every slot of sf; the polygons with more than 3 vertices
// were left without vertex references.
func triangulateFaces(df, sf *Container) {
	srcRefs := refColumnOf(sf.columns[VERTEX_REFERENCES]).data
	var positions []dvec3.T
	if sf.parent != nil && sf.parent.containers[VERTEX] != nil {
		if col, ok := sf.parent.containers[VERTEX].columns[POSITION].(*vecColumn[dvec3.T]); ok {
			positions = col.data
		}
	}
	for i := range srcRefs {
		poly := srcRefs[i]
		if sf.flags[i]&FLAG_DELETED != 0 || len(poly) == 3 {
			continue
		}
		if len(poly) < 3 {
			// degenerate polygon, nothing to draw
			df.Delete(uint32(i))
			continue
		}
		tris := polygonTriangles(poly, positions)
		setTriangle(df, uint32(i), sf, uint32(i), poly, tris[0:3])
		for k := 3; k < len(tris); k += 3 {
			t := df.Add()
			df.importElement(t, sf, uint32(i), false)
			setTriangle(df, t, sf, uint32(i), poly, tris[k:k+3])
		}
	}
}

// polygonTriangles ear cuts the polygon poly, or fans it when a vertex
// reference is out of positions.
func polygonTriangles(poly []uint32, positions []dvec3.T) []uint32 {
	pts := make([]dvec3.T, len(poly))
	for j, vi := range poly {
		if int(vi) >= len(positions) {
			tris := make([]uint32, 0, 3*(len(poly)-2))
			for k := 1; k+1 < len(poly); k++ {
				tris = append(tris, 0, uint32(k), uint32(k+1))
			}
			return tris
		}
		pts[j] = positions[vi]
	}
	return EarCut(pts)
}

// setTriangle sets the polygon corners of poly listed in corners on the face
// t, with the matching wedges.
func setTriangle(df *Container, t uint32, sf *Container, si uint32, poly []uint32, corners []uint32) {
	refs := refColumnOf(df.columns[VERTEX_REFERENCES]).data[t]
	for j, c := range corners {
		refs[j] = poly[c]
	}
	if dc, sc := df.columns[WEDGE_COLORS], sf.columns[WEDGE_COLORS]; dc != nil && sc != nil {
		d, s := dc.(*vecColumn[[]Color]).data[t], sc.(*vecColumn[[]Color]).data[si]
		for j, c := range corners {
			d[j] = s[c]
		}
	}
	if dc, sc := df.columns[WEDGE_TEX_COORDS], sf.columns[WEDGE_TEX_COORDS]; dc != nil && sc != nil {
		d, s := dc.(*vecColumn[[]TexCoord]).data[t], sc.(*vecColumn[[]TexCoord]).data[si]
		for j, c := range corners {
			d[j] = s[c]
		}
	}
}

// Append adds a copy of every element of src at the end of dst. Both meshes
// must have the same containers with the same vertex number; references of
// the appended elements are shifted to the appended ranges.
func Append(dst, src Mesher) {
	d, s := dst.meshBase(), src.meshBase()
	var offsets [ELEMENTS_NUMBER]uint32
	for k, dc := range d.containers {
		sc := s.containers[k]
		assertf((dc == nil) == (sc == nil), "cannot append meshes with different %v containers", ElementID(k))
		if dc != nil {
			assertf(dc.schema.vertexNumber == sc.schema.vertexNumber,
				"cannot append %v with different vertex numbers", ElementID(k))
			offsets[k] = dc.ElementContainerSize()
		}
	}
	for k, dc := range d.containers {
		if dc != nil {
			if dc.custom != nil && s.containers[k].custom != nil {
				dc.custom.importLayout(s.containers[k].custom)
			}
			dc.appendFrom(s.containers[k], offsets)
		}
	}
}
