package mesh

import (
	"io"
)

// column is the type erased view of the values of one component over every
// slot of a container.
type column interface {
	len() int
	resize(n int)
	reserve(n int)
	compact(newIndices []uint32)
	clone() column
	importValue(dst uint32, src column, srcIdx uint32)
	appendFrom(src column)
	marshal(wt io.Writer) error
	unmarshal(rd io.Reader, n int) error
}

type valueCodec[T any] struct {
	enc func(io.Writer, *T) error
	dec func(io.Reader, *T) error
}

// vecColumn stores one value per slot. fresh builds the value of a new slot,
// dup deep copies values holding slices.
type vecColumn[T any] struct {
	data  []T
	fresh func() T
	dup   func(T) T
	codec *valueCodec[T]
}

func newVecColumn[T any](fresh func() T, dup func(T) T, codec *valueCodec[T]) *vecColumn[T] {
	return &vecColumn[T]{fresh: fresh, dup: dup, codec: codec}
}

func (c *vecColumn[T]) len() int {
	return len(c.data)
}

func (c *vecColumn[T]) resize(n int) {
	old := len(c.data)
	if n <= old {
		clear(c.data[n:])
		c.data = c.data[:n]
		return
	}
	if n > cap(c.data) {
		grown := make([]T, n, max(n, 2*cap(c.data)))
		copy(grown, c.data)
		c.data = grown
	} else {
		c.data = c.data[:n]
	}
	var zero T
	for i := old; i < n; i++ {
		if c.fresh != nil {
			c.data[i] = c.fresh()
		} else {
			c.data[i] = zero
		}
	}
}

func (c *vecColumn[T]) reserve(n int) {
	if n > cap(c.data) {
		grown := make([]T, len(c.data), n)
		copy(grown, c.data)
		c.data = grown
	}
}

// compact moves every kept value to its new index. New indices never exceed
// old ones, so a single forward pass is enough.
func (c *vecColumn[T]) compact(newIndices []uint32) {
	k := 0
	for i, ni := range newIndices {
		if ni == UINT_NULL {
			continue
		}
		c.data[ni] = c.data[i]
		k++
	}
	clear(c.data[k:])
	c.data = c.data[:k]
}

func (c *vecColumn[T]) copyValue(v T) T {
	if c.dup != nil {
		return c.dup(v)
	}
	return v
}

func (c *vecColumn[T]) clone() column {
	n := &vecColumn[T]{fresh: c.fresh, dup: c.dup, codec: c.codec}
	n.data = make([]T, len(c.data))
	for i := range c.data {
		n.data[i] = c.copyValue(c.data[i])
	}
	return n
}

func (c *vecColumn[T]) importValue(dst uint32, src column, srcIdx uint32) {
	s := src.(*vecColumn[T])
	c.data[dst] = c.copyValue(s.data[srcIdx])
}

func (c *vecColumn[T]) appendFrom(src column) {
	s := src.(*vecColumn[T])
	for i := range s.data {
		c.data = append(c.data, c.copyValue(s.data[i]))
	}
}

func (c *vecColumn[T]) marshal(wt io.Writer) error {
	if c.codec == nil {
		return writeLittleByte(wt, c.data)
	}
	for i := range c.data {
		if err := c.codec.enc(wt, &c.data[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *vecColumn[T]) unmarshal(rd io.Reader, n int) error {
	c.data = make([]T, n)
	if c.codec == nil {
		return readLittleByte(rd, c.data)
	}
	for i := range c.data {
		if err := c.codec.dec(rd, &c.data[i]); err != nil {
			return err
		}
	}
	return nil
}

// listCodec writes a length prefixed list of fixed size values.
func listCodec[E any]() *valueCodec[[]E] {
	return &valueCodec[[]E]{
		enc: func(wt io.Writer, v *[]E) error {
			if err := writeLittleByte(wt, uint32(len(*v))); err != nil {
				return err
			}
			if len(*v) == 0 {
				return nil
			}
			return writeLittleByte(wt, *v)
		},
		dec: func(rd io.Reader, v *[]E) error {
			var n uint32
			if err := readLittleByte(rd, &n); err != nil {
				return err
			}
			if n > maxListLength {
				return &MalformedStreamError{Reason: "list too long"}
			}
			if n == 0 {
				*v = nil
				return nil
			}
			*v = make([]E, n)
			return readLittleByte(rd, *v)
		},
	}
}

func cloneList[E any](v []E) []E {
	if v == nil {
		return nil
	}
	return append([]E(nil), v...)
}

// reference columns

func refColumnOf(c column) *vecColumn[[]uint32] {
	return c.(*vecColumn[[]uint32])
}

// remapRefs rewrites every reference with the given old to new index map.
// References to removed elements become UINT_NULL.
func remapRefs(c column, newIndices []uint32) {
	for _, refs := range refColumnOf(c).data {
		for k, r := range refs {
			if r == UINT_NULL {
				continue
			}
			if int(r) < len(newIndices) {
				refs[k] = newIndices[r]
			} else {
				refs[k] = UINT_NULL
			}
		}
	}
}

// offsetRefs shifts the references of the slots from first on by off.
func offsetRefs(c column, first int, off uint32) {
	data := refColumnOf(c).data
	for i := first; i < len(data); i++ {
		for k, r := range data[i] {
			if r != UINT_NULL {
				data[i][k] = r + off
			}
		}
	}
}
