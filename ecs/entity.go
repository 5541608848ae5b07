package ecs

import "fmt"

// EntityID is a small, densely packed entity identifier. Ids are handed out
// lowest-first and recycled once an entity's destruction has been applied.
type EntityID uint32

// Entity is the record for a single entity: its id, the bitmask of attached
// component types and its removal flag.
//
// Entities are always handled by pointer. The record outlives the entity's
// slot in storage, so holders of a destroyed entity can still observe that it
// was marked for removal.
type Entity struct {
	id      EntityID
	mask    Bitmask
	removed bool
}

// ID returns the entity's identifier.
func (e *Entity) ID() EntityID {
	return e.id
}

// Mask returns the bitmask of component types attached to the entity.
// The returned mask is owned by the entity and must not be modified.
func (e *Entity) Mask() Bitmask {
	return e.mask
}

// IsMarkedForRemoval reports whether the entity has been destroyed. The flag
// is set as soon as DestroyEntity is called, before the destruction is applied.
func (e *Entity) IsMarkedForRemoval() bool {
	return e.removed
}

func (e *Entity) String() string {
	return fmt.Sprintf("Entity(%d)", e.id)
}
