package main

import (
	"math/rand"

	"github.com/plus3/ecscore/ecs"
)

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

// Lifetime counts down once per tick; the entity is destroyed at zero.
type Lifetime struct {
	Remaining int
}

type tickState struct {
	rng       *rand.Rand
	target    int
	lifetime  int
	Spawned   int64
	Despawned int64
}

type mover struct {
	*Position
	*Velocity
}

func registerComponents(m *ecs.EntityManager) {
	ecs.MustRegisterComponent[Position](m.Components())
	ecs.MustRegisterComponent[Velocity](m.Components())
	ecs.MustRegisterComponent[Lifetime](m.Components())
}

// spawnEntity creates an entity with a random position, and usually a
// velocity and a lifetime.
func spawnEntity(m *ecs.EntityManager, state *tickState) error {
	e := m.CreateEntity()
	if err := ecs.AddComponent(m, e, Position{X: state.rng.Float32() * 1000, Y: state.rng.Float32() * 1000}); err != nil {
		return err
	}
	if state.rng.Intn(4) != 0 {
		v := Velocity{DX: state.rng.Float32()*2 - 1, DY: state.rng.Float32()*2 - 1}
		if err := ecs.AddComponent(m, e, v); err != nil {
			return err
		}
	}
	if state.rng.Intn(2) == 0 {
		if err := ecs.AddComponent(m, e, Lifetime{Remaining: state.rng.Intn(state.lifetime) + 1}); err != nil {
			return err
		}
	}
	state.Spawned++
	return nil
}

func movementSystem(m *ecs.EntityManager) ecs.System[*tickState] {
	view := ecs.NewView[mover](m)
	return ecs.NewSystemFunc(view.Requires(), func(frame *ecs.Frame[*tickState]) error {
		dt := float32(frame.DeltaTime)
		for _, item := range view.Bind(frame.Entities) {
			item.Position.X += item.Velocity.DX * dt
			item.Position.Y += item.Velocity.DY * dt
		}
		return nil
	})
}

func lifetimeSystem() ecs.System[*tickState] {
	return ecs.NewSystemFunc(ecs.Types(ecs.TypeOf[Lifetime]()), func(frame *ecs.Frame[*tickState]) error {
		m := frame.EntityManager()
		for e := range frame.Entities {
			if e.IsMarkedForRemoval() {
				continue
			}
			lt, _ := ecs.GetComponent[Lifetime](m, e)
			lt.Remaining--
			if lt.Remaining <= 0 {
				m.DestroyEntity(e)
				frame.State.Despawned++
			}
		}
		return nil
	})
}

// respawnSystem tops the population back up to the target.
func respawnSystem() ecs.System[*tickState] {
	return ecs.NewSystemFunc(nil, func(frame *ecs.Frame[*tickState]) error {
		m := frame.EntityManager()
		missing := frame.State.target - m.Len()
		for i := 0; i < missing; i++ {
			if err := spawnEntity(m, frame.State); err != nil {
				return err
			}
		}
		return nil
	})
}
