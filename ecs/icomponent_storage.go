package ecs

import (
	"reflect"
	"unsafe"
)

// iComponentStorage is the type-erased view of a single component arena.
// ComponentStorage uses it for operations that span every registered type.
type iComponentStorage interface {
	Type() reflect.Type
	Delete(id EntityID) bool
	Has(id EntityID) bool
	Pointer(id EntityID) unsafe.Pointer
	Resize(capacity int)
	Cap() int
	Len() int
}
