package ecs

import "iter"

// EntityStorage is the authoritative table from entity id to entity record.
// Created entities count as live immediately but only become visible to
// Stream once spawned.
type EntityStorage struct {
	ids       *IDAllocator
	records   []*Entity
	live      int
	maskBytes int
}

// NewEntityStorage creates storage with room for capacity entities whose
// masks are maskBytes long.
func NewEntityStorage(capacity, maskBytes int) *EntityStorage {
	return &EntityStorage{
		ids:       NewIDAllocator(),
		records:   make([]*Entity, capacity),
		maskBytes: maskBytes,
	}
}

// Create allocates an id and a zeroed mask for a new entity. The entity is
// not visible to Stream until it is passed to Spawn.
func (s *EntityStorage) Create() *Entity {
	id := s.ids.Acquire()
	s.live++
	return &Entity{
		id:   id,
		mask: make(Bitmask, s.maskBytes),
	}
}

// Spawn places the entity in its id slot.
func (s *EntityStorage) Spawn(e *Entity) {
	if int(e.id) >= len(s.records) {
		s.Resize(max(2*len(s.records), int(e.id)+1))
	}
	s.records[e.id] = e
}

// Remove clears the entity's slot and releases its id.
func (s *EntityStorage) Remove(e *Entity) {
	if int(e.id) < len(s.records) && s.records[e.id] == e {
		s.records[e.id] = nil
	}
	s.live--
	s.ids.Release(e.id)
}

// Get returns the spawned entity occupying id.
func (s *EntityStorage) Get(id EntityID) (*Entity, bool) {
	if int(id) >= len(s.records) || s.records[id] == nil {
		return nil, false
	}
	return s.records[id], true
}

// Stream yields every spawned entity in ascending id order.
func (s *EntityStorage) Stream() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range s.records {
			if e == nil {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// IsFull reports whether every slot is taken by a live entity.
func (s *EntityStorage) IsFull() bool {
	return s.live >= len(s.records)
}

// Resize grows the table to capacity slots. It never shrinks.
func (s *EntityStorage) Resize(capacity int) {
	if capacity <= len(s.records) {
		return
	}
	records := make([]*Entity, capacity)
	copy(records, s.records)
	s.records = records
}

// Len returns the number of live entities, including ones not yet spawned.
func (s *EntityStorage) Len() int {
	return s.live
}

func (s *EntityStorage) Capacity() int {
	return len(s.records)
}
