package ecs_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/plus3/ecscore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterComponent(t *testing.T) {
	storage := ecs.NewComponentStorage(8, 16)

	pos, err := ecs.RegisterComponent[Position](storage)
	require.NoError(t, err)
	vel, err := ecs.RegisterComponent[Velocity](storage)
	require.NoError(t, err)

	assert.Equal(t, 0, pos.Index())
	assert.Equal(t, 1, vel.Index())
	assert.True(t, pos.Valid())
	assert.Equal(t, reflect.TypeOf(Position{}), pos.Type())

	// Idempotent per type
	again, err := ecs.RegisterComponent[Position](storage)
	require.NoError(t, err)
	assert.Equal(t, pos.Index(), again.Index())
	assert.Equal(t, 2, storage.Len())

	idx, ok := storage.TypeIndex(reflect.TypeOf(Velocity{}))
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = storage.TypeIndex(reflect.TypeOf(Health{}))
	assert.False(t, ok)

	assert.Equal(t, []reflect.Type{reflect.TypeOf(Position{}), reflect.TypeOf(Velocity{})}, storage.Types())
}

type capA struct{}
type capB struct{}
type capC struct{}
type capD struct{}

func TestRegisterComponentCapacity(t *testing.T) {
	t.Run("exactly max types succeeds", func(t *testing.T) {
		storage := ecs.NewComponentStorage(3, 4)
		_, err := ecs.RegisterComponent[capA](storage)
		require.NoError(t, err)
		_, err = ecs.RegisterComponent[capB](storage)
		require.NoError(t, err)
		_, err = ecs.RegisterComponent[capC](storage)
		require.NoError(t, err)
		assert.Equal(t, 3, storage.Len())
	})

	t.Run("one past max types fails", func(t *testing.T) {
		storage := ecs.NewComponentStorage(3, 4)
		ecs.MustRegisterComponent[capA](storage)
		ecs.MustRegisterComponent[capB](storage)
		ecs.MustRegisterComponent[capC](storage)

		ct, err := ecs.RegisterComponent[capD](storage)
		assert.ErrorIs(t, err, ecs.ErrTooManyComponentTypes)
		assert.False(t, ct.Valid())
		assert.Equal(t, 3, storage.Len())

		// Already registered types still resolve
		_, err = ecs.RegisterComponent[capA](storage)
		assert.NoError(t, err)
	})

	t.Run("must variant panics", func(t *testing.T) {
		storage := ecs.NewComponentStorage(1, 4)
		ecs.MustRegisterComponent[capA](storage)
		assert.Panics(t, func() { ecs.MustRegisterComponent[capB](storage) })
	})
}

func TestComponentTypeOperations(t *testing.T) {
	storage := ecs.NewComponentStorage(8, 4)
	pos := ecs.MustRegisterComponent[Position](storage)

	assert.False(t, pos.Has(1))
	_, ok := pos.Get(1)
	assert.False(t, ok)

	pos.Set(1, Position{X: 1, Y: 2})
	assert.True(t, pos.Has(1))
	p, ok := pos.Get(1)
	require.True(t, ok)
	assert.Equal(t, Position{X: 1, Y: 2}, *p)

	// Pointers write through to storage
	p.X = 10
	p2, _ := pos.Get(1)
	assert.Equal(t, float32(10), p2.X)

	pos.Set(1, Position{X: 3})
	p3, _ := pos.Get(1)
	assert.Equal(t, Position{X: 3}, *p3)

	assert.True(t, pos.Delete(1))
	assert.False(t, pos.Delete(1))
	assert.False(t, pos.Has(1))
}

func TestComponentStorageGrowsOnDemand(t *testing.T) {
	storage := ecs.NewComponentStorage(8, 4)
	score := ecs.MustRegisterComponent[Score](storage)

	score.Set(0, 1)
	first, _ := score.Get(0)

	score.Set(1000, 42)
	v, ok := score.Get(1000)
	require.True(t, ok)
	assert.Equal(t, Score(42), *v)

	// Existing components do not move when the arena grows
	again, _ := score.Get(0)
	assert.Same(t, first, again)
}

func TestComponentStorageResize(t *testing.T) {
	storage := ecs.NewComponentStorage(8, 4)
	name := ecs.MustRegisterComponent[Name](storage)
	for i := 0; i < 4; i++ {
		name.Set(ecs.EntityID(i), Name{Value: fmt.Sprintf("e%d", i)})
	}

	storage.Resize(256)
	assert.GreaterOrEqual(t, storage.Cap(), 256)
	for i := 0; i < 4; i++ {
		n, ok := name.Get(ecs.EntityID(i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprintf("e%d", i), n.Value)
	}

	// Never shrinks
	storage.Resize(2)
	assert.GreaterOrEqual(t, storage.Cap(), 256)

	// Types registered after a resize start at the new capacity
	ecs.MustRegisterComponent[Health](storage)
	assert.GreaterOrEqual(t, storage.Cap(), 256)
}

func TestComponentStorageBuildMask(t *testing.T) {
	storage := ecs.NewComponentStorage(16, 4)
	ecs.MustRegisterComponent[Position](storage)
	ecs.MustRegisterComponent[Velocity](storage)

	mask, missing := storage.BuildMask(reflect.TypeOf(Velocity{}))
	assert.Empty(t, missing)
	assert.Len(t, mask, 2)
	assert.False(t, mask.IsSet(0))
	assert.True(t, mask.IsSet(1))

	mask, missing = storage.BuildMask(reflect.TypeOf(Position{}), reflect.TypeOf(Health{}), reflect.TypeOf(AI{}))
	assert.True(t, mask.IsSet(0))
	assert.Equal(t, []reflect.Type{reflect.TypeOf(Health{}), reflect.TypeOf(AI{})}, missing)
}

func TestComponentStorageClear(t *testing.T) {
	storage := ecs.NewComponentStorage(16, 4)
	pos := ecs.MustRegisterComponent[Position](storage)
	vel := ecs.MustRegisterComponent[Velocity](storage)
	name := ecs.MustRegisterComponent[Name](storage)

	for _, id := range []ecs.EntityID{1, 2} {
		pos.Set(id, Position{})
		vel.Set(id, Velocity{})
		name.Set(id, Name{})
	}

	t.Run("clear all", func(t *testing.T) {
		storage.Clear(1)
		assert.False(t, pos.Has(1))
		assert.False(t, vel.Has(1))
		assert.False(t, name.Has(1))

		// Other entities are untouched
		assert.True(t, pos.Has(2))
	})

	t.Run("clear except", func(t *testing.T) {
		storage.Clear(2, reflect.TypeOf(Name{}), reflect.TypeOf(Health{}))
		assert.False(t, pos.Has(2))
		assert.False(t, vel.Has(2))
		assert.True(t, name.Has(2))
	})
}

func TestComponentStorageRemoveByType(t *testing.T) {
	storage := ecs.NewComponentStorage(16, 4)
	ecs.MustRegisterComponent[Position](storage)
	vel := ecs.MustRegisterComponent[Velocity](storage)
	vel.Set(3, Velocity{DX: 1})

	idx, removed := storage.Remove(reflect.TypeOf(Velocity{}), 3)
	assert.Equal(t, 1, idx)
	assert.True(t, removed)
	assert.False(t, storage.Has(1, 3))

	idx, removed = storage.Remove(reflect.TypeOf(Health{}), 3)
	assert.Equal(t, -1, idx)
	assert.False(t, removed)

	assert.False(t, storage.Has(99, 3))
}
