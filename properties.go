package mesh

import (
	"io"
	"reflect"

	dvec3 "github.com/flywave/go3d/float64/vec3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PropsType is the stream code of the value type of a custom component.
type PropsType uint32

const (
	PROP_TYPE_STRING PropsType = iota
	PROP_TYPE_INT
	PROP_TYPE_FLOAT
	PROP_TYPE_BOOL
	PROP_TYPE_INT32
	PROP_TYPE_UINT32
	PROP_TYPE_UINT64
	PROP_TYPE_FLOAT32
	PROP_TYPE_VEC3
	PROP_TYPE_COLOR
	PROP_TYPE_INT64
)

var propsTypes = map[PropsType]reflect.Type{
	PROP_TYPE_STRING:  reflect.TypeFor[string](),
	PROP_TYPE_INT:     reflect.TypeFor[int](),
	PROP_TYPE_FLOAT:   reflect.TypeFor[float64](),
	PROP_TYPE_BOOL:    reflect.TypeFor[bool](),
	PROP_TYPE_INT32:   reflect.TypeFor[int32](),
	PROP_TYPE_UINT32:  reflect.TypeFor[uint32](),
	PROP_TYPE_UINT64:  reflect.TypeFor[uint64](),
	PROP_TYPE_FLOAT32: reflect.TypeFor[float32](),
	PROP_TYPE_VEC3:    reflect.TypeFor[dvec3.T](),
	PROP_TYPE_COLOR:   reflect.TypeFor[Color](),
	PROP_TYPE_INT64:   reflect.TypeFor[int64](),
}

func propsTypeOf(typ reflect.Type) (PropsType, bool) {
	for code, t := range propsTypes {
		if t == typ {
			return code, true
		}
	}
	return 0, false
}

// IsSerializableCustomType reports whether custom components of type T are
// written by Marshal.
func IsSerializableCustomType[T any]() bool {
	_, ok := propsTypeOf(reflect.TypeFor[T]())
	return ok
}

func marshalPropsValue(wt io.Writer, code PropsType, v any) error {
	switch code {
	case PROP_TYPE_STRING:
		return writeString(wt, v.(string))
	case PROP_TYPE_INT:
		return writeLittleByte(wt, int64(v.(int)))
	case PROP_TYPE_BOOL:
		val := uint8(0)
		if v.(bool) {
			val = 1
		}
		return writeLittleByte(wt, val)
	case PROP_TYPE_VEC3:
		vec := v.(dvec3.T)
		return writeLittleByte(wt, vec[:])
	default:
		// fixed size numbers and arrays
		return writeLittleByte(wt, v)
	}
}

func unmarshalPropsValue(rd io.Reader, code PropsType) (any, error) {
	switch code {
	case PROP_TYPE_STRING:
		return readString(rd)
	case PROP_TYPE_INT:
		var v int64
		err := readLittleByte(rd, &v)
		return int(v), err
	case PROP_TYPE_BOOL:
		var v uint8
		err := readLittleByte(rd, &v)
		return v == 1, err
	}
	typ, ok := propsTypes[code]
	if !ok {
		return nil, &MalformedStreamError{Reason: "unknown custom component type code"}
	}
	ptr := reflect.New(typ)
	if err := readLittleByte(rd, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// customComponentsMarshal writes every custom component whose type has a
// stream code. The others are skipped with a warning.
func customComponentsMarshal(wt io.Writer, cc *CustomComponents) error {
	type entry struct {
		name string
		code PropsType
		vec  *customVector
	}
	var entries []entry
	for _, name := range cc.names() {
		v := cc.vecs[name]
		code, ok := propsTypeOf(v.typ)
		if !ok {
			Logger().Warn("custom component not serializable, skipped",
				zap.String("name", name), zap.Stringer("type", v.typ))
			continue
		}
		entries = append(entries, entry{name, code, v})
	}
	if err := writeLittleByte(wt, uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writeString(wt, e.name); err != nil {
			return errors.Wrap(err, "write custom component name failed")
		}
		if err := writeLittleByte(wt, uint32(e.code)); err != nil {
			return errors.Wrap(err, "write custom component type failed")
		}
		e.vec.init()
		for _, val := range e.vec.values {
			if err := marshalPropsValue(wt, e.code, val); err != nil {
				return errors.Wrapf(err, "write custom component %q failed", e.name)
			}
		}
	}
	return nil
}

// customComponentsUnMarshal reads size values per custom component into cc,
// adding the components cc lacks. A component of cc with the same name and a
// different type is an error.
func customComponentsUnMarshal(rd io.Reader, cc *CustomComponents, size int) error {
	var count uint32
	if err := readLittleByte(rd, &count); err != nil {
		return err
	}
	if count > maxCustomComponents {
		return &MalformedStreamError{Reason: "too many custom components"}
	}
	for i := uint32(0); i < count; i++ {
		name, err := readString(rd)
		if err != nil {
			return errors.Wrap(err, "read custom component name failed")
		}
		var code uint32
		if err := readLittleByte(rd, &code); err != nil {
			return errors.Wrap(err, "read custom component type failed")
		}
		typ, ok := propsTypes[PropsType(code)]
		if !ok {
			return &MalformedStreamError{Reason: "unknown custom component type code"}
		}
		if !cc.has(name) {
			_ = cc.add(name, typ)
		}
		v, err := cc.vector(name, typ)
		if err != nil {
			return err
		}
		for k := 0; k < size; k++ {
			val, err := unmarshalPropsValue(rd, PropsType(code))
			if err != nil {
				return errors.Wrapf(err, "read custom component %q failed", name)
			}
			v.values[k] = val
		}
	}
	return nil
}
