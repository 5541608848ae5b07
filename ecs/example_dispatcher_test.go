package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/ecscore/ecs"
)

type Transform struct {
	X, Y float32
}

type Speed struct {
	DX, DY float32
}

type Hitpoints struct {
	Current, Max int
}

type GameState struct {
	Frames int
}

type PhysicsSystem struct{}

func (s *PhysicsSystem) Requires() []reflect.Type {
	return ecs.Types(ecs.TypeOf[Transform](), ecs.TypeOf[Speed]())
}

func (s *PhysicsSystem) Execute(frame *ecs.Frame[*GameState]) error {
	m := frame.EntityManager()
	for e := range frame.Entities {
		t, _ := ecs.GetComponent[Transform](m, e)
		v, _ := ecs.GetComponent[Speed](m, e)
		t.X += v.DX * float32(frame.DeltaTime)
		t.Y += v.DY * float32(frame.DeltaTime)
	}
	return nil
}

type HealingSystem struct {
	RegenRate float64
}

func (s *HealingSystem) Requires() []reflect.Type {
	return ecs.Types(ecs.TypeOf[Hitpoints]())
}

func (s *HealingSystem) Execute(frame *ecs.Frame[*GameState]) error {
	m := frame.EntityManager()
	for e := range frame.Entities {
		hp, _ := ecs.GetComponent[Hitpoints](m, e)
		hp.Current = min(hp.Max, hp.Current+int(s.RegenRate*frame.DeltaTime))
	}
	return nil
}

type FrameCounter struct{}

func (FrameCounter) Requires() []reflect.Type { return nil }

func (FrameCounter) Execute(frame *ecs.Frame[*GameState]) error {
	frame.State.Frames++
	return nil
}

// ExampleDispatcher demonstrates building a game loop from several systems.
// Systems are ordered by their declared predecessors; each one sees only the
// entities carrying the components it requires.
func ExampleDispatcher() {
	world := ecs.NewWorld(ecs.DefaultConfig())
	m := world.EntityManager()

	for _, spawn := range []struct {
		t  Transform
		s  Speed
		hp Hitpoints
	}{
		{Transform{0, 0}, Speed{10, 5}, Hitpoints{80, 100}},
		{Transform{100, 100}, Speed{-5, -5}, Hitpoints{50, 100}},
	} {
		e := m.CreateEntity()
		_ = ecs.AddComponent(m, e, spawn.t)
		_ = ecs.AddComponent(m, e, spawn.s)
		_ = ecs.AddComponent(m, e, spawn.hp)
	}

	dispatcher, err := ecs.NewDispatcherBuilder[*GameState]().
		Add("healing", &HealingSystem{RegenRate: 10}, "physics").
		Add("physics", &PhysicsSystem{}).
		Add("frames", FrameCounter{}).
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("Order:", dispatcher.Order())

	state := &GameState{}
	m.ApplyModifications()
	if err := dispatcher.Dispatch(world, state, 1.0); err != nil {
		fmt.Println(err)
		return
	}

	view := ecs.NewView[struct {
		*Transform
		*Hitpoints
	}](m)
	fmt.Println("After", state.Frames, "frame:")
	for item := range view.Values() {
		fmt.Printf("Position: (%.0f, %.0f), Health: %d/%d\n",
			item.Transform.X, item.Transform.Y,
			item.Hitpoints.Current, item.Hitpoints.Max)
	}

	// Output:
	// Order: [physics healing frames]
	// After 1 frame:
	// Position: (10, 5), Health: 90/100
	// Position: (95, 95), Health: 60/100
}

// ExampleDispatcher_missingComponents shows that a dispatch refuses to run
// while a required component type has never been registered.
func ExampleDispatcher_missingComponents() {
	world := ecs.NewWorld(ecs.DefaultConfig())

	dispatcher, _ := ecs.NewDispatcherBuilder[*GameState]().
		Add("physics", &PhysicsSystem{}).
		Build()

	err := dispatcher.Dispatch(world, &GameState{}, 1.0)
	fmt.Println(err)

	// Output:
	// ecs: component types not registered: ecs_test.Transform, ecs_test.Speed
}
