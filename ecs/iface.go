package ecs

import (
	"reflect"
	"unsafe"
)

// iface represents the internal memory layout of an interface{}.
type iface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// typeID returns a process-unique integer key for t: the address of its
// runtime type descriptor.
func typeID(t reflect.Type) uint64 {
	return uint64(uintptr((*iface)(unsafe.Pointer(&t)).data))
}

// TypeOf returns the reflect.Type used to name component type T in queries
// and system requirements.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// Types is shorthand for building a component type list.
func Types(types ...reflect.Type) []reflect.Type {
	return types
}
