package ecs

import (
	"fmt"
	"iter"
	"reflect"

	"go.uber.org/zap"
)

// Query selects entities by component shape. An entity matches when it has
// every required type and group bit and none of the excluded ones.
type Query struct {
	Required       []reflect.Type
	Excluded       []reflect.Type
	RequiredGroups []Bitmask
	ExcludedGroups []Bitmask
}

// EntityManager is the only mutation surface for entities and components.
//
// Entity creation and destruction are deferred: CreateEntity and
// DestroyEntity queue tasks that take effect at the next ApplyModifications.
// Component additions and removals are applied immediately, together with the
// entity's mask.
type EntityManager struct {
	entities   *EntityStorage
	components *ComponentStorage
	tasks      *taskQueue

	// reserved is the entity capacity once every queued grow task is applied.
	reserved int

	log *zap.Logger
}

// NewEntityManager creates an entity manager. Zero config fields fall back
// to DefaultConfig.
func NewEntityManager(cfg Config, opts ...Option) *EntityManager {
	cfg = cfg.withDefaults()
	o := buildOptions(opts)
	return &EntityManager{
		entities:   NewEntityStorage(cfg.InitialCapacity, maskBytes(cfg.MaxComponentTypes)),
		components: NewComponentStorage(cfg.MaxComponentTypes, cfg.InitialCapacity, opts...),
		tasks:      newTaskQueue(),
		reserved:   cfg.InitialCapacity,
		log:        o.logger,
	}
}

// Components returns the manager's component storage. It is exposed for
// registration and mask building; mutate components through the manager.
func (m *EntityManager) Components() *ComponentStorage {
	return m.components
}

// CreateEntity allocates a new entity. It becomes visible to queries after
// the next ApplyModifications.
func (m *EntityManager) CreateEntity() *Entity {
	e := m.entities.Create()
	if m.entities.Len() >= m.reserved {
		m.reserved *= 2
		m.tasks.grow(m.reserved)
	}
	m.tasks.spawn(e)
	return e
}

// DestroyEntity marks e for removal and queues the release of its components,
// storage slot and id. Until the next ApplyModifications the entity keeps its
// components and still matches queries.
func (m *EntityManager) DestroyEntity(e *Entity) {
	if e == nil || e.removed {
		return
	}
	e.removed = true
	m.tasks.despawn(e)
}

// ApplyModifications applies every queued lifecycle task in FIFO order and
// returns how many were applied.
func (m *EntityManager) ApplyModifications() int {
	return m.tasks.drain(m.apply)
}

func (m *EntityManager) apply(t task) {
	switch t.kind {
	case taskGrow:
		m.entities.Resize(t.capacity)
		m.components.Resize(t.capacity)
		m.log.Debug("grew entity capacity", zap.Int("capacity", t.capacity))
	case taskSpawn:
		m.entities.Spawn(t.entity)
	case taskDespawn:
		m.components.Clear(t.entity.id)
		t.entity.mask.Clear()
		m.entities.Remove(t.entity)
	}
}

// Pending returns the number of queued lifecycle tasks.
func (m *EntityManager) Pending() int {
	return m.tasks.Len()
}

// Len returns the number of live entities, including those created but not
// yet spawned and those destroyed but not yet removed.
func (m *EntityManager) Len() int {
	return m.entities.Len()
}

// Capacity returns the number of entity slots currently allocated.
func (m *EntityManager) Capacity() int {
	return m.entities.Capacity()
}

// Entity returns the spawned entity with the given id.
func (m *EntityManager) Entity(id EntityID) (*Entity, bool) {
	return m.entities.Get(id)
}

// Entities yields every spawned entity in ascending id order.
func (m *EntityManager) Entities() iter.Seq[*Entity] {
	return m.entities.Stream()
}

// EntitiesWith yields the spawned entities matching q in ascending id order.
// A required type that has never been registered matches nothing; an
// unregistered excluded type is ignored.
func (m *EntityManager) EntitiesWith(q Query) iter.Seq[*Entity] {
	required, missing := m.components.BuildMask(q.Required...)
	if len(missing) > 0 {
		return func(func(*Entity) bool) {}
	}
	for _, g := range q.RequiredGroups {
		required = Combine(required, g)
	}
	excluded, _ := m.components.BuildMask(q.Excluded...)
	for _, g := range q.ExcludedGroups {
		excluded = Combine(excluded, g)
	}
	return m.filter(required, excluded)
}

func (m *EntityManager) filter(required, excluded Bitmask) iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for e := range m.entities.Stream() {
			if !e.mask.HasAllBitsOf(required) || !e.mask.HasNoneOf(excluded) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// AddComponent attaches c to e, replacing any component of the same type.
// T is registered on first use.
func AddComponent[T any](m *EntityManager, e *Entity, c T) error {
	if e.removed {
		return fmt.Errorf("add %s to %s: %w", reflect.TypeFor[T](), e, ErrEntityRemoved)
	}
	ct, err := RegisterComponent[T](m.components)
	if err != nil {
		return fmt.Errorf("add %s to %s: %w", reflect.TypeFor[T](), e, err)
	}
	ct.Set(e.id, c)
	e.mask.Set(ct.index)
	return nil
}

// RemoveComponent detaches the component of type T from e, if present.
func RemoveComponent[T any](m *EntityManager, e *Entity) error {
	return m.RemoveComponentType(e, reflect.TypeFor[T]())
}

// RemoveComponentType detaches the component of type t from e, if present.
func (m *EntityManager) RemoveComponentType(e *Entity, t reflect.Type) error {
	if e.removed {
		return fmt.Errorf("remove %s from %s: %w", t, e, ErrEntityRemoved)
	}
	if idx, ok := m.components.Remove(t, e.id); ok {
		e.mask.Unset(idx)
	}
	return nil
}

// ClearComponents removes every component of e except those whose type is
// listed in keep.
func (m *EntityManager) ClearComponents(e *Entity, keep ...reflect.Type) error {
	if e.removed {
		return fmt.Errorf("clear %s: %w", e, ErrEntityRemoved)
	}
	m.components.Clear(e.id, keep...)
	e.mask.ForEach(func(bit int) {
		if !m.components.Has(bit, e.id) {
			e.mask.Unset(bit)
		}
	})
	return nil
}

// GetComponent returns e's component of type T. The pointer stays valid
// until the component is removed or the entity's destruction is applied.
func GetComponent[T any](m *EntityManager, e *Entity) (*T, bool) {
	ct, ok := LookupComponent[T](m.components)
	if !ok || !e.mask.IsSet(ct.index) {
		return nil, false
	}
	return ct.Get(e.id)
}

// HasComponent reports whether e has a component of type T.
func HasComponent[T any](m *EntityManager, e *Entity) bool {
	ct, ok := LookupComponent[T](m.components)
	return ok && e.mask.IsSet(ct.index)
}
