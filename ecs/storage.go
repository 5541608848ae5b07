package ecs

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// ComponentType is the handle for a component type registered with a
// ComponentStorage. It carries the type's mask index and a direct reference
// to its arena, so hot paths never go through a type lookup.
type ComponentType[T any] struct {
	index   int
	storage *genericComponentStorage[T]
}

// Index returns the type's bit index in entity masks.
func (c ComponentType[T]) Index() int {
	return c.index
}

// Valid reports whether the handle came from a successful registration.
func (c ComponentType[T]) Valid() bool {
	return c.storage != nil
}

func (c ComponentType[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// Set stores v for the entity id. It does not touch entity masks; use
// AddComponent to keep an entity's mask in sync.
func (c ComponentType[T]) Set(id EntityID, v T) {
	c.storage.Set(id, v)
}

func (c ComponentType[T]) Get(id EntityID) (*T, bool) {
	return c.storage.Get(id)
}

func (c ComponentType[T]) Has(id EntityID) bool {
	return c.storage.Has(id)
}

func (c ComponentType[T]) Delete(id EntityID) bool {
	return c.storage.Delete(id)
}

// ComponentStorage owns one arena per registered component type. Types are
// registered on first use and receive consecutive indices up to maxTypes.
// Each ComponentStorage is independent; masks built by one must not be used
// with another.
type ComponentStorage struct {
	maxTypes int
	capacity int
	index    *intmap.Map[uint64, int]
	storages []iComponentStorage
	log      *zap.Logger
}

// NewComponentStorage creates storage for at most maxTypes component types,
// with every arena pre-sized to capacity entities.
func NewComponentStorage(maxTypes, capacity int, opts ...Option) *ComponentStorage {
	o := buildOptions(opts)
	return &ComponentStorage{
		maxTypes: maxTypes,
		capacity: capacity,
		index:    intmap.New[uint64, int](maxTypes),
		storages: make([]iComponentStorage, 0, min(maxTypes, 64)),
		log:      o.logger,
	}
}

// RegisterComponent registers T with the storage, or returns the existing
// handle if T is already known. It fails with ErrTooManyComponentTypes once
// the storage's type limit is reached.
func RegisterComponent[T any](s *ComponentStorage) (ComponentType[T], error) {
	if ct, ok := LookupComponent[T](s); ok {
		return ct, nil
	}
	idx, err := s.register(reflect.TypeFor[T](), func(capacity int) iComponentStorage {
		return newGenericComponentStorage[T](capacity)
	})
	if err != nil {
		return ComponentType[T]{}, err
	}
	return ComponentType[T]{index: idx, storage: s.storages[idx].(*genericComponentStorage[T])}, nil
}

// MustRegisterComponent is like RegisterComponent but panics on error.
func MustRegisterComponent[T any](s *ComponentStorage) ComponentType[T] {
	ct, err := RegisterComponent[T](s)
	if err != nil {
		panic(err)
	}
	return ct
}

// LookupComponent returns the handle for T if it has been registered.
func LookupComponent[T any](s *ComponentStorage) (ComponentType[T], bool) {
	idx, ok := s.index.Get(typeID(reflect.TypeFor[T]()))
	if !ok {
		return ComponentType[T]{}, false
	}
	return ComponentType[T]{index: idx, storage: s.storages[idx].(*genericComponentStorage[T])}, true
}

func (s *ComponentStorage) register(t reflect.Type, factory func(capacity int) iComponentStorage) (int, error) {
	if len(s.storages) >= s.maxTypes {
		return -1, fmt.Errorf("%w: cannot register %s, limit is %d", ErrTooManyComponentTypes, t, s.maxTypes)
	}
	idx := len(s.storages)
	s.storages = append(s.storages, factory(s.capacity))
	s.index.Put(typeID(t), idx)
	s.log.Debug("registered component type", zap.Stringer("type", t), zap.Int("index", idx))
	return idx, nil
}

// TypeIndex returns the mask index of a registered type.
func (s *ComponentStorage) TypeIndex(t reflect.Type) (int, bool) {
	return s.index.Get(typeID(t))
}

// Types returns the registered types in index order.
func (s *ComponentStorage) Types() []reflect.Type {
	types := make([]reflect.Type, len(s.storages))
	for i, cs := range s.storages {
		types[i] = cs.Type()
	}
	return types
}

// Len returns the number of registered types.
func (s *ComponentStorage) Len() int {
	return len(s.storages)
}

func (s *ComponentStorage) MaxTypes() int {
	return s.maxTypes
}

// Cap returns the number of entity slots every arena is guaranteed to hold.
func (s *ComponentStorage) Cap() int {
	return s.capacity
}

// NewMask returns an empty mask sized for this storage.
func (s *ComponentStorage) NewMask() Bitmask {
	return NewBitmask(s.maxTypes)
}

// BuildMask returns the mask with the bit of every given type set, together
// with the types that are not registered (and therefore absent from the mask).
func (s *ComponentStorage) BuildMask(types ...reflect.Type) (Bitmask, []reflect.Type) {
	mask := s.NewMask()
	var missing []reflect.Type
	for _, t := range types {
		idx, ok := s.TypeIndex(t)
		if !ok {
			missing = append(missing, t)
			continue
		}
		mask.Set(idx)
	}
	return mask, missing
}

// Has reports whether the entity has a component of the type at index.
func (s *ComponentStorage) Has(index int, id EntityID) bool {
	if index < 0 || index >= len(s.storages) {
		return false
	}
	return s.storages[index].Has(id)
}

func (s *ComponentStorage) pointer(index int, id EntityID) unsafe.Pointer {
	if index < 0 || index >= len(s.storages) {
		return nil
	}
	return s.storages[index].Pointer(id)
}

// Remove deletes the entity's component of type t. It returns the type's
// index and whether a component was removed.
func (s *ComponentStorage) Remove(t reflect.Type, id EntityID) (int, bool) {
	idx, ok := s.TypeIndex(t)
	if !ok {
		return -1, false
	}
	return idx, s.storages[idx].Delete(id)
}

// Clear removes every component of the entity except those whose type is in
// keep. Unregistered types in keep are ignored.
func (s *ComponentStorage) Clear(id EntityID, keep ...reflect.Type) {
	retained, _ := s.BuildMask(keep...)
	for idx, cs := range s.storages {
		if retained.IsSet(idx) {
			continue
		}
		cs.Delete(id)
	}
}

// Resize grows every arena to hold at least capacity entities, preserving
// their contents. It never shrinks.
func (s *ComponentStorage) Resize(capacity int) {
	if capacity <= s.capacity {
		return
	}
	for _, cs := range s.storages {
		cs.Resize(capacity)
	}
	s.capacity = capacity
}
