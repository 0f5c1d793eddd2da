package mesh

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	ErrSchemaMismatch        = errors.New("mesh: stream schema does not match the destination mesh")
	ErrCustomComponentExists = errors.New("mesh: custom component already exists")
	ErrCustomComponentAbsent = errors.New("mesh: custom component does not exist")
	ErrBadSignature          = errors.New("mesh: bad signature")
)

// BadCustomComponentTypeError is returned when a custom component is accessed
// with a type different from the one it was created with.
type BadCustomComponentTypeError struct {
	Name      string
	Expected  reflect.Type
	Requested reflect.Type
}

func (e *BadCustomComponentTypeError) Error() string {
	return fmt.Sprintf("mesh: expected type %v for custom component %q, but was %v", e.Expected, e.Name, e.Requested)
}

// MissingComponentError is returned by algorithms that require a component
// the mesh does not carry or has not enabled.
type MissingComponentError struct {
	Element   ElementID
	Component ComponentID
	Mesh      bool
}

func (e *MissingComponentError) Error() string {
	if e.Mesh {
		return fmt.Sprintf("mesh: the mesh has no %v component", e.Component)
	}
	return fmt.Sprintf("mesh: per %v %v component is missing or not enabled", e.Element, e.Component)
}

type MalformedStreamError struct {
	Reason string
}

func (e *MalformedStreamError) Error() string {
	return "mesh: malformed stream: " + e.Reason
}

// assertf panics with a formatted message when cond is false. It guards
// programmer errors: disabled components, bad indices, double deletes.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf("mesh: "+format, args...))
	}
}
