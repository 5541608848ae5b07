package ecs

import (
	"iter"
	"reflect"
)

// Frame is the per-system view of one dispatch: the entities matching the
// system's component shape, the caller's state and the elapsed time.
type Frame[S any] struct {
	Entities  iter.Seq[*Entity]
	State     S
	DeltaTime float64
	World     *World
}

// EntityManager is shorthand for Frame.World.EntityManager().
func (f *Frame[S]) EntityManager() *EntityManager {
	return f.World.EntityManager()
}

// System is a behavior unit run by a Dispatcher. Requires lists the component
// types an entity must have to appear in Frame.Entities.
//
// Systems may also implement Excluder to filter entities out, and io.Closer
// to release resources when the dispatcher is closed.
type System[S any] interface {
	Requires() []reflect.Type
	Execute(frame *Frame[S]) error
}

// Excluder is implemented by systems that skip entities having any of the
// listed component types.
type Excluder interface {
	Excludes() []reflect.Type
}

// SystemFunc adapts a function to the System interface.
type SystemFunc[S any] struct {
	Types []reflect.Type
	Fn    func(frame *Frame[S]) error
}

// NewSystemFunc returns a system requiring types that runs fn.
func NewSystemFunc[S any](types []reflect.Type, fn func(frame *Frame[S]) error) *SystemFunc[S] {
	return &SystemFunc[S]{Types: types, Fn: fn}
}

func (s *SystemFunc[S]) Requires() []reflect.Type {
	return s.Types
}

func (s *SystemFunc[S]) Execute(frame *Frame[S]) error {
	return s.Fn(frame)
}
