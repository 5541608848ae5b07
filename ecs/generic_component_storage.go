package ecs

import (
	"reflect"
	"unsafe"
)

const (
	genericBlockSize = 64
)

// genericComponentStorage is a dense arena holding every component of type T,
// indexed directly by entity id. Components live in fixed-size blocks that
// are never moved, so growing the arena keeps existing *T pointers valid.
type genericComponentStorage[T any] struct {
	blocks []*[genericBlockSize]T
	filled []*[genericBlockSize]bool
	count  int
}

func newGenericComponentStorage[T any](capacity int) *genericComponentStorage[T] {
	cs := &genericComponentStorage[T]{}
	cs.Resize(capacity)
	return cs
}

func (cs *genericComponentStorage[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Set stores item in the slot for id, growing the arena if id is past its end.
func (cs *genericComponentStorage[T]) Set(id EntityID, item T) {
	if int(id) >= cs.Cap() {
		cs.Resize(max(2*cs.Cap(), int(id)+1))
	}
	blockIdx, slotIdx := int(id)/genericBlockSize, int(id)%genericBlockSize
	cs.blocks[blockIdx][slotIdx] = item
	if !cs.filled[blockIdx][slotIdx] {
		cs.filled[blockIdx][slotIdx] = true
		cs.count++
	}
}

// Get returns a pointer to the component stored for id.
func (cs *genericComponentStorage[T]) Get(id EntityID) (*T, bool) {
	if !cs.Has(id) {
		return nil, false
	}
	return &cs.blocks[int(id)/genericBlockSize][int(id)%genericBlockSize], true
}

// Delete empties the slot for id and reports whether it held a component.
func (cs *genericComponentStorage[T]) Delete(id EntityID) bool {
	if !cs.Has(id) {
		return false
	}
	blockIdx, slotIdx := int(id)/genericBlockSize, int(id)%genericBlockSize
	var zero T
	cs.blocks[blockIdx][slotIdx] = zero // drop references held by the old value
	cs.filled[blockIdx][slotIdx] = false
	cs.count--
	return true
}

// Pointer returns the address of the component stored for id, or nil.
func (cs *genericComponentStorage[T]) Pointer(id EntityID) unsafe.Pointer {
	if !cs.Has(id) {
		return nil
	}
	return unsafe.Pointer(&cs.blocks[int(id)/genericBlockSize][int(id)%genericBlockSize])
}

func (cs *genericComponentStorage[T]) Has(id EntityID) bool {
	blockIdx := int(id) / genericBlockSize
	if blockIdx >= len(cs.filled) {
		return false
	}
	return cs.filled[blockIdx][int(id)%genericBlockSize]
}

// Resize grows the arena to hold at least capacity slots. It never shrinks.
func (cs *genericComponentStorage[T]) Resize(capacity int) {
	for cs.Cap() < capacity {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.filled = append(cs.filled, new([genericBlockSize]bool))
	}
}

// Cap returns the number of slots, always a multiple of the block size.
func (cs *genericComponentStorage[T]) Cap() int {
	return len(cs.blocks) * genericBlockSize
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}
