package mesh

import (
	"iter"
	"math/bits"
	"strings"
)

// ComponentMask is a set of component tags. Each bit corresponds to a
// ComponentID.
type ComponentMask uint32

func MaskOf(ids ...ComponentID) ComponentMask {
	var m ComponentMask
	for _, id := range ids {
		m.Set(id)
	}
	return m
}

func (m *ComponentMask) Set(id ComponentID) {
	*m |= 1 << id
}

func (m *ComponentMask) Unset(id ComponentID) {
	*m &^= 1 << id
}

func (m ComponentMask) Has(id ComponentID) bool {
	return m&(1<<id) != 0
}

// Contains reports whether every tag of sub is also set in m.
func (m ComponentMask) Contains(sub ComponentMask) bool {
	return m&sub == sub
}

func (m ComponentMask) And(o ComponentMask) ComponentMask {
	return m & o
}

func (m ComponentMask) Or(o ComponentMask) ComponentMask {
	return m | o
}

func (m ComponentMask) AndNot(o ComponentMask) ComponentMask {
	return m &^ o
}

func (m ComponentMask) IsEmpty() bool {
	return m == 0
}

func (m ComponentMask) Count() int {
	return bits.OnesCount32(uint32(m))
}

// All yields the tags of the mask in ascending order.
func (m ComponentMask) All() iter.Seq[ComponentID] {
	return func(yield func(ComponentID) bool) {
		for b := uint32(m); b != 0; b &= b - 1 {
			if !yield(ComponentID(bits.TrailingZeros32(b))) {
				return
			}
		}
	}
}

func (m ComponentMask) Ids() []ComponentID {
	ids := make([]ComponentID, 0, m.Count())
	for id := range m.All() {
		ids = append(ids, id)
	}
	return ids
}

func (m ComponentMask) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for id := range m.All() {
		if sb.Len() > 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(id.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
