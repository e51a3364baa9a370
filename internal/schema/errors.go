package schema

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration      = errors.New("resource, base, properties and key should be defined")
	ErrResourceDefinition = errors.New("resource should be a string")
	ErrBaseDefinition     = errors.New("base should be a selector (css|xpath => string)")
	ErrPropertyDefinition = errors.New("property is a name (with type optionally) and a selector (css|xpath => string)")
	ErrKeyDefinition      = errors.New("key should be a name of a defined property")
	ErrUnknownProperty    = errors.New("unknown property")
	ErrSealed             = errors.New("schema is in use and can no longer be declared")
)

// UnknownPropertyError reports access to a property the schema does not declare.
type UnknownPropertyError struct {
	Name string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownProperty, e.Name)
}

// Is matches ErrUnknownProperty.
func (e *UnknownPropertyError) Is(target error) bool {
	return target == ErrUnknownProperty
}
