package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrTooManyComponentTypes is returned when registering a component type
	// would exceed the configured maximum. It indicates a misconfigured world.
	ErrTooManyComponentTypes = errors.New("ecs: too many component types")

	// ErrResourceNotConstructible is returned when a resource has no usable
	// default value or its Init method fails.
	ErrResourceNotConstructible = errors.New("ecs: resource not constructible")

	// ErrEntityRemoved is returned when mutating the components of an entity
	// that has been marked for removal.
	ErrEntityRemoved = errors.New("ecs: entity marked for removal")

	ErrInvalidSystem     = errors.New("ecs: invalid system registration")
	ErrDuplicateSystem   = errors.New("ecs: duplicate system name")
	ErrUnknownSystem     = errors.New("ecs: unknown system")
	ErrDependencyCycle   = errors.New("ecs: dependency cycle")
	ErrMissingComponents = errors.New("ecs: component types not registered")
)

// MissingComponentsError lists every component type required by a dispatcher
// that the world's component storage does not know about.
type MissingComponentsError struct {
	Types []reflect.Type
}

func (e *MissingComponentsError) Error() string {
	names := make([]string, len(e.Types))
	for i, t := range e.Types {
		names[i] = t.String()
	}
	return fmt.Sprintf("%s: %s", ErrMissingComponents, strings.Join(names, ", "))
}

func (e *MissingComponentsError) Unwrap() error {
	return ErrMissingComponents
}

// CycleError names the systems whose ordering constraints could not be
// satisfied.
type CycleError struct {
	Systems []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s between systems %s", ErrDependencyCycle, strings.Join(e.Systems, ", "))
}

func (e *CycleError) Unwrap() error {
	return ErrDependencyCycle
}
