package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Initializer is implemented by resources that need more than a zero value.
// Init is called once, when the resource is first requested.
type Initializer interface {
	Init() error
}

// Resource returns the world's instance of T, constructing it on first use.
// Construction starts from the zero value and calls Init when *T implements
// Initializer. Interface, pointer, func and chan types have no usable zero
// value and fail with ErrResourceNotConstructible, as does a failing or
// panicking Init.
func Resource[T any](w *World) (*T, error) {
	t := reflect.TypeFor[T]()
	key := typeID(t)
	if v, ok := w.resources.Get(key); ok {
		return v.(*T), nil
	}

	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, fmt.Errorf("resource %s: %w: %s has no usable zero value", t, ErrResourceNotConstructible, t.Kind())
	}

	v := new(T)
	if err := initResource(v); err != nil {
		return nil, fmt.Errorf("resource %s: %w: %w", t, ErrResourceNotConstructible, err)
	}
	w.resources.Put(key, v)
	w.log.Debug("constructed resource", zap.Stringer("type", t))
	return v, nil
}

func initResource(v any) (err error) {
	initializer, ok := v.(Initializer)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("init panicked: %v", r)
		}
	}()
	return initializer.Init()
}

// MustResource is like Resource but panics on error.
func MustResource[T any](w *World) *T {
	v, err := Resource[T](w)
	if err != nil {
		panic(err)
	}
	return v
}

// SetResource installs v as the world's instance of T, replacing any
// existing one. Init is not called.
func SetResource[T any](w *World, v *T) {
	w.resources.Put(typeID(reflect.TypeFor[T]()), v)
}

// HasResource reports whether the world holds an instance of T.
func HasResource[T any](w *World) bool {
	_, ok := w.resources.Get(typeID(reflect.TypeFor[T]()))
	return ok
}
