package mesh

import (
	"iter"

	"go.uber.org/zap"
)

// Container stores every element of one kind of a mesh. Elements live in
// slots addressed by index; deleting an element only flags its slot until the
// container is compacted. Mandatory components are stored in always allocated
// columns, optional components in columns allocated on enable.
//
// Elements refer to other elements by index, so growing a container never
// invalidates references. Pointers returned by component accessors are only
// valid until the next operation that changes the container size.
type Container struct {
	kind    ElementID
	schema  *ElementSchema
	parent  *MeshBase
	flags   []BitFlags
	elemNum uint32
	columns [ELEMENT_COMPONENTS_NUMBER]column
	custom  *CustomComponents
}

func (c *Container) init(parent *MeshBase, s *ElementSchema) {
	*c = Container{kind: s.kind, schema: s, parent: parent}
	for id := range s.mandatory.All() {
		switch id {
		case BIT_FLAGS:
		case CUSTOM_COMPONENTS:
			c.custom = newCustomComponents(0)
		default:
			c.columns[id] = newComponentColumn(s, id, 0)
		}
	}
}

func (c *Container) Kind() ElementID {
	return c.kind
}

func (c *Container) Schema() *ElementSchema {
	return c.schema
}

// ElementNumber returns the number of non deleted elements.
func (c *Container) ElementNumber() uint32 {
	return c.elemNum
}

// ElementContainerSize returns the number of slots, deleted ones included.
func (c *Container) ElementContainerSize() uint32 {
	return uint32(len(c.flags))
}

func (c *Container) DeletedElementNumber() uint32 {
	return c.ElementContainerSize() - c.elemNum
}

func (c *Container) checkIndex(i uint32) {
	assertf(i < uint32(len(c.flags)), "%v index %d out of range [0, %d)", c.kind, i, len(c.flags))
}

func (c *Container) IsDeleted(i uint32) bool {
	c.checkIndex(i)
	return c.flags[i]&FLAG_DELETED != 0
}

// Element returns the handle of the slot i, deleted or not.
func (c *Container) Element(i uint32) Element {
	c.checkIndex(i)
	return Element{c: c, i: i}
}

func (c *Container) grow(n int) {
	c.flags = append(c.flags, make([]BitFlags, n-len(c.flags))...)
	for _, col := range c.columns {
		if col != nil {
			col.resize(n)
		}
	}
	if c.custom != nil {
		c.custom.resize(n)
	}
}

// Add appends a new value initialized element and returns its index.
func (c *Container) Add() uint32 {
	return c.AddN(1)
}

// AddN appends n elements and returns the index of the first one.
func (c *Container) AddN(n uint32) uint32 {
	first := uint32(len(c.flags))
	c.grow(len(c.flags) + int(n))
	c.elemNum += n
	return first
}

func (c *Container) Reserve(n uint32) {
	if int(n) > cap(c.flags) {
		grown := make([]BitFlags, len(c.flags), n)
		copy(grown, c.flags)
		c.flags = grown
	}
	for _, col := range c.columns {
		if col != nil {
			col.reserve(int(n))
		}
	}
	if c.custom != nil {
		c.custom.reserve(int(n))
	}
}

// Resize sets the number of live elements to n. Growing adds elements at the
// end, shrinking deletes the last live elements.
func (c *Container) Resize(n uint32) {
	if n > c.elemNum {
		c.AddN(n - c.elemNum)
		return
	}
	for i := len(c.flags) - 1; i >= 0 && c.elemNum > n; i-- {
		if c.flags[i]&FLAG_DELETED == 0 {
			c.Delete(uint32(i))
		}
	}
}

// Clear removes every element. Enabled optional components stay enabled.
func (c *Container) Clear() {
	c.flags = c.flags[:0]
	c.elemNum = 0
	for _, col := range c.columns {
		if col != nil {
			col.resize(0)
		}
	}
	if c.custom != nil {
		c.custom.clear()
	}
}

// Delete flags the element i as deleted. Deleting twice or out of range panics.
func (c *Container) Delete(i uint32) {
	c.checkIndex(i)
	assertf(c.flags[i]&FLAG_DELETED == 0, "%v %d already deleted", c.kind, i)
	c.flags[i] |= FLAG_DELETED
	c.elemNum--
}

// IndexIfCompact returns the index the element i would have after compaction,
// UINT_NULL if it is deleted.
func (c *Container) IndexIfCompact(i uint32) uint32 {
	c.checkIndex(i)
	if c.flags[i]&FLAG_DELETED != 0 {
		return UINT_NULL
	}
	var n uint32
	for k := uint32(0); k < i; k++ {
		if c.flags[k]&FLAG_DELETED == 0 {
			n++
		}
	}
	return n
}

// CompactIndices maps every slot to its index after compaction, UINT_NULL for
// deleted slots.
func (c *Container) CompactIndices() []uint32 {
	ni := make([]uint32, len(c.flags))
	var k uint32
	for i, f := range c.flags {
		if f&FLAG_DELETED != 0 {
			ni[i] = UINT_NULL
			continue
		}
		ni[i] = k
		k++
	}
	return ni
}

func (c *Container) IsCompact() bool {
	return c.elemNum == uint32(len(c.flags))
}

// Compact removes the deleted slots and updates every reference to this
// container held by the mesh. It returns the old to new index map.
func (c *Container) Compact() []uint32 {
	if c.parent == nil {
		ni := c.CompactIndices()
		c.compactStorage(ni)
		return ni
	}
	return c.parent.compactKind(c.kind)
}

// compactStorage moves the flags, the columns and the custom components of
// the kept slots in lockstep.
func (c *Container) compactStorage(newIndices []uint32) {
	k := 0
	for i, ni := range newIndices {
		if ni != UINT_NULL {
			c.flags[ni] = c.flags[i]
			k++
		}
	}
	c.flags = c.flags[:k]
	for _, col := range c.columns {
		if col != nil {
			col.compact(newIndices)
		}
	}
	if c.custom != nil {
		c.custom.compact(newIndices)
	}
	c.elemNum = uint32(k)
}

// IsComponentAvailable reports whether id is mandatory or an enabled optional
// component of this container.
func (c *Container) IsComponentAvailable(id ComponentID) bool {
	switch id {
	case BIT_FLAGS:
		return true
	case CUSTOM_COMPONENTS:
		return c.custom != nil
	}
	return id < ELEMENT_COMPONENTS_NUMBER && c.columns[id] != nil
}

func (c *Container) IsOptionalComponentEnabled(id ComponentID) bool {
	return c.schema.IsOptional(id) && c.columns[id] != nil
}

// AvailableComponents returns the mask of the mandatory and enabled components.
func (c *Container) AvailableComponents() ComponentMask {
	m := c.schema.mandatory
	for id := range c.schema.optional.All() {
		if c.columns[id] != nil {
			m.Set(id)
		}
	}
	return m
}

// EnabledOptionalComponents returns the mask of the enabled optional components.
func (c *Container) EnabledOptionalComponents() ComponentMask {
	return c.AvailableComponents().And(c.schema.optional)
}

// EnableOptionalComponent allocates the storage of the optional component id,
// value initialized for every slot. Enabling twice has no effect.
func (c *Container) EnableOptionalComponent(id ComponentID) {
	assertf(c.schema.IsOptional(id), "%v is not an optional %v component", id, c.kind)
	if c.columns[id] != nil {
		return
	}
	c.columns[id] = newComponentColumn(c.schema, id, len(c.flags))
	if c.kind == FACE && c.schema.vertexNumber < 0 && componentRegistry[id].tied {
		c.fitTiedColumn(id)
	}
	Logger().Debug("optional component enabled", zap.Stringer("element", c.kind), zap.Stringer("component", id))
}

// DisableOptionalComponent releases the storage of the optional component id.
func (c *Container) DisableOptionalComponent(id ComponentID) {
	assertf(c.schema.IsOptional(id), "%v is not an optional %v component", id, c.kind)
	if c.columns[id] == nil {
		return
	}
	c.columns[id] = nil
	Logger().Debug("optional component disabled", zap.Stringer("element", c.kind), zap.Stringer("component", id))
}

func (c *Container) EnableAllOptionalComponents() {
	for id := range c.schema.optional.All() {
		c.EnableOptionalComponent(id)
	}
}

func (c *Container) DisableAllOptionalComponents() {
	for id := range c.schema.optional.All() {
		c.DisableOptionalComponent(id)
	}
}

// EnableSameOptionalComponentsOf enables every optional component of c that
// is available in src. It never disables anything.
func (c *Container) EnableSameOptionalComponentsOf(src *Container) {
	for id := range c.schema.optional.All() {
		if src.IsComponentAvailable(id) {
			c.EnableOptionalComponent(id)
		}
	}
}

func (c *Container) availableColumn(id ComponentID) column {
	assertf(id < ELEMENT_COMPONENTS_NUMBER && c.columns[id] != nil,
		"%v component %v is not available", c.kind, id)
	return c.columns[id]
}

func (c *Container) customComponents() *CustomComponents {
	assertf(c.custom != nil, "%v has no custom components", c.kind)
	return c.custom
}

func (c *Container) HasCustomComponent(name string) bool {
	return c.custom != nil && c.custom.has(name)
}

func (c *Container) DeleteCustomComponent(name string) {
	c.customComponents().remove(name)
}

func (c *Container) CustomComponentNames() []string {
	if c.custom == nil {
		return nil
	}
	return c.custom.names()
}

// All yields the non deleted elements in index order.
func (c *Container) All() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for i, f := range c.flags {
			if f&FLAG_DELETED != 0 {
				continue
			}
			if !yield(Element{c: c, i: uint32(i)}) {
				return
			}
		}
	}
}

// AllWithDeleted yields every slot, deleted ones included.
func (c *Container) AllWithDeleted() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for i := range c.flags {
			if !yield(Element{c: c, i: uint32(i)}) {
				return
			}
		}
	}
}

// Indices yields the indices of the non deleted elements.
func (c *Container) Indices() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for i, f := range c.flags {
			if f&FLAG_DELETED == 0 && !yield(uint32(i)) {
				return
			}
		}
	}
}

// importElement copies into slot dst every component of src[srcIdx] that is
// available in both containers. References are copied only when copyRefs is
// set; fixed size lists whose length differs from the destination arity are
// left untouched.
func (c *Container) importElement(dst uint32, src *Container, srcIdx uint32, copyRefs bool) {
	for id, col := range c.columns {
		if col == nil {
			continue
		}
		cid := ComponentID(id)
		sc := src.columns[id]
		if sc == nil {
			continue
		}
		if componentRegistry[cid].ref && !copyRefs {
			continue
		}
		if c.schema.kind == FACE && componentRegistry[cid].tied {
			if vn := c.schema.vertexNumber; vn > 0 && listLen(sc, srcIdx) != vn {
				continue
			}
		}
		col.importValue(dst, sc, srcIdx)
	}
	if c.custom != nil && src.custom != nil {
		c.custom.importValue(dst, src.custom, srcIdx)
	}
	if c.kind == FACE && c.schema.vertexNumber < 0 {
		c.resizeTied(dst, len(refColumnOf(c.columns[VERTEX_REFERENCES]).data[dst]))
	}
}

// ImportFrom replaces the content of c with a copy of every slot of src,
// deleted ones included, so that indices are preserved. Only the components
// available in both containers are copied. c must already have enabled the
// optional components it wants to receive.
func (c *Container) ImportFrom(src *Container, copyRefs bool) {
	c.Clear()
	if c.custom != nil && src.custom != nil {
		c.custom.importLayout(src.custom)
	}
	c.grow(len(src.flags))
	copy(c.flags, src.flags)
	c.elemNum = src.elemNum
	for i := range src.flags {
		c.importElement(uint32(i), src, uint32(i), copyRefs)
	}
}

// appendFrom adds a copy of every slot of src at the end of c, shifting the
// references by the given per kind offsets.
func (c *Container) appendFrom(src *Container, offsets [ELEMENTS_NUMBER]uint32) {
	first := len(c.flags)
	c.grow(first + len(src.flags))
	copy(c.flags[first:], src.flags)
	c.elemNum += src.elemNum
	for i := range src.flags {
		c.importElement(uint32(first+i), src, uint32(i), true)
	}
	for id, col := range c.columns {
		if col == nil || src.columns[id] == nil {
			continue
		}
		if ok, target := IsReferenceComponent(ComponentID(id)); ok && offsets[target] != 0 {
			offsetRefs(col, first, offsets[target])
		}
	}
}

func listLen(col column, i uint32) int {
	switch cc := col.(type) {
	case *vecColumn[[]uint32]:
		return len(cc.data[i])
	case *vecColumn[[]Color]:
		return len(cc.data[i])
	case *vecColumn[[]TexCoord]:
		return len(cc.data[i])
	}
	return -1
}

// resizeTied sets to n the length of every face list of slot i tied to the
// vertex number.
func (c *Container) resizeTied(i uint32, n int) {
	for id, col := range c.columns {
		if col == nil || !componentRegistry[id].tied {
			continue
		}
		switch cc := col.(type) {
		case *vecColumn[[]uint32]:
			cc.data[i] = resizeList(cc.data[i], n, UINT_NULL)
		case *vecColumn[[]Color]:
			cc.data[i] = resizeList(cc.data[i], n, Color{})
		case *vecColumn[[]TexCoord]:
			cc.data[i] = resizeList(cc.data[i], n, TexCoord{})
		}
	}
}

// fitTiedColumn sizes a freshly enabled polygon list column to the vertex
// number of every face.
func (c *Container) fitTiedColumn(id ComponentID) {
	refs := refColumnOf(c.columns[VERTEX_REFERENCES]).data
	for i := range refs {
		switch cc := c.columns[id].(type) {
		case *vecColumn[[]uint32]:
			cc.data[i] = resizeList(cc.data[i], len(refs[i]), UINT_NULL)
		case *vecColumn[[]Color]:
			cc.data[i] = resizeList(cc.data[i], len(refs[i]), Color{})
		case *vecColumn[[]TexCoord]:
			cc.data[i] = resizeList(cc.data[i], len(refs[i]), TexCoord{})
		}
	}
}

func resizeList[E any](l []E, n int, fill E) []E {
	if n <= len(l) {
		return l[:n]
	}
	for len(l) < n {
		l = append(l, fill)
	}
	return l
}

func (c *Container) flag(i uint32, f BitFlags) bool {
	c.checkIndex(i)
	return c.flags[i]&f != 0
}

func (c *Container) setFlag(i uint32, f BitFlags, v bool) {
	c.checkIndex(i)
	if v {
		c.flags[i] |= f
	} else {
		c.flags[i] &^= f
	}
}
