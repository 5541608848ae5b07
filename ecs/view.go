package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View reads several components of an entity at once into a struct of
// component pointers.
//
// T must be a struct whose fields are pointers to component types. Embedded
// fields are always required. Named fields can be marked as optional with the
// `ecs:"optional"` struct tag and are left nil when the entity lacks them.
//
//	type mover struct {
//		*Position
//		*Velocity
//		Name *Name `ecs:"optional"`
//	}
//	view := ecs.NewView[mover](manager)
type View[T any] struct {
	manager     *EntityManager
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a view over m. It panics if T is not a struct of pointer
// fields or carries an unknown ecs tag.
func NewView[T any](m *EntityManager) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	v := &View[T]{
		manager:     m,
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types")
		}

		isOptional := false
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				isOptional = true
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
		}

		v.types = append(v.types, field.Type.Elem())
		v.optional = append(v.optional, isOptional)
		v.fieldOffset = append(v.fieldOffset, field.Offset)
	}
	return v
}

// Requires returns the view's required component types, so a view can
// describe the entity shape of a system.
func (v *View[T]) Requires() []reflect.Type {
	required := make([]reflect.Type, 0, len(v.types))
	for i, t := range v.types {
		if !v.optional[i] {
			required = append(required, t)
		}
	}
	return required
}

// Fill points the fields of *ptr at e's components. It returns false if e is
// missing a required component, in which case *ptr is partially written.
func (v *View[T]) Fill(e *Entity, ptr *T) bool {
	components := v.manager.components
	structPtr := unsafe.Pointer(ptr)

	for i, t := range v.types {
		fieldPtr := unsafe.Add(structPtr, v.fieldOffset[i])

		var component unsafe.Pointer
		if idx, ok := components.TypeIndex(t); ok && e.mask.IsSet(idx) {
			component = components.pointer(idx, e.id)
		}
		if component == nil && !v.optional[i] {
			return false
		}
		*(*unsafe.Pointer)(fieldPtr) = component
	}
	return true
}

// Get returns a populated view struct for e, or nil if e lacks a required
// component.
func (v *View[T]) Get(e *Entity) *T {
	var result T
	if !v.Fill(e, &result) {
		return nil
	}
	return &result
}

// Iter yields every spawned entity that has the view's required components,
// together with its populated view struct.
func (v *View[T]) Iter() iter.Seq2[*Entity, T] {
	return v.Bind(v.manager.EntitiesWith(Query{Required: v.Requires()}))
}

// Bind populates the view for each entity of an existing sequence, such as
// Frame.Entities, skipping entities that lack a required component.
func (v *View[T]) Bind(entities iter.Seq[*Entity]) iter.Seq2[*Entity, T] {
	return func(yield func(*Entity, T) bool) {
		var result T
		for e := range entities {
			if !v.Fill(e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values is Iter without the entities.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
