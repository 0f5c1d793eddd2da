package mesh

import (
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CustomComponentOption declares a custom component to add to a mesh.
type CustomComponentOption struct {
	Element string `yaml:"element" validate:"required,oneof=vertex face edge mesh"`
	Name    string `yaml:"name" validate:"required"`
	Type    string `yaml:"type" validate:"required,oneof=string int float64 bool int32 uint32 uint64 float32 int64 vec3 color"`
}

// Options is the yaml description of the components a mesh should carry.
//
//	name: bunny
//	log_level: debug
//	vertex: [color, quality]
//	face: [color]
//	custom:
//	  - {element: vertex, name: birth, type: uint32}
type Options struct {
	Name     string                  `yaml:"name"`
	LogLevel string                  `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Vertex   []string                `yaml:"vertex" validate:"dive,required"`
	Face     []string                `yaml:"face" validate:"dive,required"`
	Edge     []string                `yaml:"edge" validate:"dive,required"`
	Custom   []CustomComponentOption `yaml:"custom" validate:"dive"`
}

var optionTypes = map[string]reflect.Type{
	"string":  propsTypes[PROP_TYPE_STRING],
	"int":     propsTypes[PROP_TYPE_INT],
	"float64": propsTypes[PROP_TYPE_FLOAT],
	"bool":    propsTypes[PROP_TYPE_BOOL],
	"int32":   propsTypes[PROP_TYPE_INT32],
	"uint32":  propsTypes[PROP_TYPE_UINT32],
	"uint64":  propsTypes[PROP_TYPE_UINT64],
	"float32": propsTypes[PROP_TYPE_FLOAT32],
	"int64":   propsTypes[PROP_TYPE_INT64],
	"vec3":    propsTypes[PROP_TYPE_VEC3],
	"color":   propsTypes[PROP_TYPE_COLOR],
}

var optionElements = map[string]ElementID{
	"vertex": VERTEX,
	"face":   FACE,
	"edge":   EDGE,
}

// LoadOptions decodes and validates a yaml Options document.
func LoadOptions(rd io.Reader) (*Options, error) {
	o := &Options{}
	if err := yaml.NewDecoder(rd).Decode(o); err != nil {
		return nil, errors.Wrap(err, "decode mesh options failed")
	}
	if err := validator.New().Struct(o); err != nil {
		return nil, errors.Wrap(err, "invalid mesh options")
	}
	return o, nil
}

// ComponentIDFromName parses a component name, case and underscores ignored
// ("tex_coord", "TexCoord" and "texcoord" are the same tag).
func ComponentIDFromName(name string) (ComponentID, bool) {
	n := strings.ReplaceAll(name, "_", "")
	for id := ComponentID(0); id < COMPONENTS_NUMBER; id++ {
		if strings.EqualFold(componentRegistry[id].name, n) {
			return id, true
		}
	}
	return 0, false
}

// Apply enables the listed optional components on m and adds the custom
// components. Listing a mandatory component is accepted; listing a component
// the mesh cannot carry is an error.
func (o *Options) Apply(m Mesher) error {
	if o.LogLevel != "" {
		l, err := NewLogger(o.LogLevel)
		if err != nil {
			return err
		}
		SetLogger(l)
	}
	if o.Name != "" {
		if h, ok := m.(nameHolder); ok {
			h.nameComponent().SetName(o.Name)
		}
	}
	b := m.meshBase()
	lists := [ELEMENTS_NUMBER][]string{VERTEX: o.Vertex, FACE: o.Face, EDGE: o.Edge}
	for k, names := range lists {
		for _, name := range names {
			id, ok := ComponentIDFromName(name)
			if !ok {
				return errors.Errorf("mesh: unknown component %q", name)
			}
			c := b.containers[k]
			if c == nil || !c.schema.Has(id) {
				return &MissingComponentError{Element: ElementID(k), Component: id}
			}
			if c.schema.IsOptional(id) {
				c.EnableOptionalComponent(id)
			}
		}
	}
	for _, cc := range o.Custom {
		typ := optionTypes[cc.Type]
		var table *CustomComponents
		if cc.Element == "mesh" {
			h, ok := m.(meshCustomHolder)
			if !ok {
				return &MissingComponentError{Component: CUSTOM_COMPONENTS, Mesh: true}
			}
			table = h.meshCustomComponents()
		} else {
			kind := optionElements[cc.Element]
			c := b.containers[kind]
			if c == nil || c.custom == nil {
				return &MissingComponentError{Element: kind, Component: CUSTOM_COMPONENTS}
			}
			table = c.custom
		}
		if err := table.add(cc.Name, typ); err != nil {
			return errors.Wrapf(err, "custom component %q", cc.Name)
		}
	}
	return nil
}
