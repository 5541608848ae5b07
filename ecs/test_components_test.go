package ecs_test

import (
	"testing"

	"github.com/plus3/ecscore/ecs"
)

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type AI struct {
	State int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string
type Temperature float64

type Inventory struct {
	Items []string
}

// testContext bundles the world under test. Each test builds its own.
type testContext struct {
	t       *testing.T
	world   *ecs.World
	manager *ecs.EntityManager
}

func newTestContext(t *testing.T, cfg ecs.Config) *testContext {
	t.Helper()
	world := ecs.NewWorld(cfg)
	return &testContext{
		t:       t,
		world:   world,
		manager: world.EntityManager(),
	}
}

func smallConfig() ecs.Config {
	return ecs.Config{InitialCapacity: 4, MaxComponentTypes: 16}
}

// spawn creates an entity with the given components and flushes it into the world.
func (tc *testContext) spawn(components ...func(*ecs.EntityManager, *ecs.Entity) error) *ecs.Entity {
	tc.t.Helper()
	e := tc.manager.CreateEntity()
	for _, add := range components {
		if err := add(tc.manager, e); err != nil {
			tc.t.Fatalf("add component: %v", err)
		}
	}
	tc.manager.ApplyModifications()
	return e
}

// with returns a component adder for spawn.
func with[T any](c T) func(*ecs.EntityManager, *ecs.Entity) error {
	return func(m *ecs.EntityManager, e *ecs.Entity) error {
		return ecs.AddComponent(m, e, c)
	}
}

func collect(tc *testContext, q ecs.Query) []ecs.EntityID {
	var ids []ecs.EntityID
	for e := range tc.manager.EntitiesWith(q) {
		ids = append(ids, e.ID())
	}
	return ids
}
