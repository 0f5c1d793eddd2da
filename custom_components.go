package mesh

import (
	"reflect"
	"sort"

	"github.com/samber/lo"
)

type customVector struct {
	typ    reflect.Type
	values []any
	// needInit is set when the vector grew and the new entries are still nil.
	needInit bool
}

func (v *customVector) init() {
	if !v.needInit {
		return
	}
	for i, val := range v.values {
		if val == nil {
			v.values[i] = reflect.Zero(v.typ).Interface()
		}
	}
	v.needInit = false
}

// CustomComponents stores named per element values whose type is chosen at
// run time. Every vector has one entry per container slot.
type CustomComponents struct {
	vecs map[string]*customVector
	size int
}

func newCustomComponents(size int) *CustomComponents {
	return &CustomComponents{vecs: make(map[string]*customVector), size: size}
}

func (cc *CustomComponents) add(name string, typ reflect.Type) error {
	if _, ok := cc.vecs[name]; ok {
		return ErrCustomComponentExists
	}
	cc.vecs[name] = &customVector{typ: typ, values: make([]any, cc.size), needInit: cc.size > 0}
	return nil
}

func (cc *CustomComponents) remove(name string) {
	delete(cc.vecs, name)
}

func (cc *CustomComponents) has(name string) bool {
	_, ok := cc.vecs[name]
	return ok
}

func (cc *CustomComponents) names() []string {
	ns := lo.Keys(cc.vecs)
	sort.Strings(ns)
	return ns
}

func (cc *CustomComponents) typeOf(name string) (reflect.Type, bool) {
	v, ok := cc.vecs[name]
	if !ok {
		return nil, false
	}
	return v.typ, true
}

func (cc *CustomComponents) vector(name string, typ reflect.Type) (*customVector, error) {
	v, ok := cc.vecs[name]
	if !ok {
		return nil, ErrCustomComponentAbsent
	}
	if v.typ != typ {
		return nil, &BadCustomComponentTypeError{Name: name, Expected: v.typ, Requested: typ}
	}
	v.init()
	return v, nil
}

func (cc *CustomComponents) resize(n int) {
	for _, v := range cc.vecs {
		if n <= len(v.values) {
			clear(v.values[n:])
			v.values = v.values[:n]
			continue
		}
		v.values = append(v.values, make([]any, n-len(v.values))...)
		v.needInit = true
	}
	cc.size = n
}

func (cc *CustomComponents) reserve(n int) {
	for _, v := range cc.vecs {
		if n > cap(v.values) {
			grown := make([]any, len(v.values), n)
			copy(grown, v.values)
			v.values = grown
		}
	}
}

func (cc *CustomComponents) clear() {
	for _, v := range cc.vecs {
		clear(v.values)
		v.values = v.values[:0]
		v.needInit = false
	}
	cc.size = 0
}

func (cc *CustomComponents) compact(newIndices []uint32) {
	k := 0
	for _, ni := range newIndices {
		if ni != UINT_NULL {
			k++
		}
	}
	for _, v := range cc.vecs {
		for i, ni := range newIndices {
			if ni != UINT_NULL {
				v.values[ni] = v.values[i]
			}
		}
		clear(v.values[k:])
		v.values = v.values[:k]
	}
	cc.size = k
}

// clone copies the vectors. Values are copied shallowly, like an assignment
// of the stored type.
func (cc *CustomComponents) clone() *CustomComponents {
	n := newCustomComponents(cc.size)
	for name, v := range cc.vecs {
		n.vecs[name] = &customVector{typ: v.typ, values: append([]any(nil), v.values...), needInit: v.needInit}
	}
	return n
}

// importValue copies the value of every custom component that exists in both
// tables with the same name and type.
func (cc *CustomComponents) importValue(dst uint32, src *CustomComponents, srcIdx uint32) {
	for name, v := range cc.vecs {
		sv, ok := src.vecs[name]
		if !ok || sv.typ != v.typ {
			continue
		}
		val := sv.values[srcIdx]
		v.values[dst] = val
		if val == nil {
			v.needInit = true
		}
	}
}

// importLayout adds to cc every custom component of src that cc lacks.
func (cc *CustomComponents) importLayout(src *CustomComponents) {
	for name, sv := range src.vecs {
		if !cc.has(name) {
			_ = cc.add(name, sv.typ)
		}
	}
}

// AddCustomComponent adds a custom component named name storing values of
// type T to every element of c.
func AddCustomComponent[T any](c *Container, name string) error {
	return c.customComponents().add(name, reflect.TypeFor[T]())
}

// CustomComponent returns the value of the custom component name of e.
func CustomComponent[T any](e Element, name string) (T, error) {
	var zero T
	v, err := e.c.customComponents().vector(name, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	val, _ := v.values[e.i].(T)
	return val, nil
}

func SetCustomComponent[T any](e Element, name string, val T) error {
	v, err := e.c.customComponents().vector(name, reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	v.values[e.i] = val
	return nil
}

// CustomComponentValues returns a copy of the values of the custom component
// name over every slot of c, deleted slots included.
func CustomComponentValues[T any](c *Container, name string) ([]T, error) {
	v, err := c.customComponents().vector(name, reflect.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	return lo.Map(v.values, func(val any, _ int) T {
		t, _ := val.(T)
		return t
	}), nil
}

// CustomComponentNamesOfType lists the custom components of c storing T.
func CustomComponentNamesOfType[T any](c *Container) []string {
	typ := reflect.TypeFor[T]()
	cc := c.customComponents()
	return lo.Filter(cc.names(), func(name string, _ int) bool {
		return cc.vecs[name].typ == typ
	})
}

func IsCustomComponentOfType[T any](c *Container, name string) bool {
	typ, ok := c.customComponents().typeOf(name)
	return ok && typ == reflect.TypeFor[T]()
}
