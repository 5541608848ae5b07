package ecs

import (
	"fmt"
	"io"
	"reflect"
	"slices"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// DispatcherStats provides statistics about dispatcher execution.
type DispatcherStats struct {
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemEntry[S any] struct {
	name   string
	system System[S]
	after  []string
}

// DispatcherBuilder collects named systems and their ordering constraints.
type DispatcherBuilder[S any] struct {
	entries []systemEntry[S]
	opts    []Option
}

// NewDispatcherBuilder creates an empty builder.
func NewDispatcherBuilder[S any](opts ...Option) *DispatcherBuilder[S] {
	return &DispatcherBuilder[S]{opts: opts}
}

// Add registers system under name. The system runs after every system named
// in after. Errors are reported by Build.
func (b *DispatcherBuilder[S]) Add(name string, system System[S], after ...string) *DispatcherBuilder[S] {
	b.entries = append(b.entries, systemEntry[S]{
		name:   name,
		system: system,
		after:  slices.Clone(after),
	})
	return b
}

// Build validates the registrations and orders the systems so that every
// system runs after its predecessors. Among systems whose predecessors have
// all been placed, the one registered first goes next, so the order is stable
// for a given registration sequence.
func (b *DispatcherBuilder[S]) Build() (*Dispatcher[S], error) {
	o := buildOptions(b.opts)

	index := make(map[string]int, len(b.entries))
	for i, e := range b.entries {
		if e.name == "" {
			return nil, fmt.Errorf("%w: system #%d has no name", ErrInvalidSystem, i)
		}
		if e.system == nil {
			return nil, fmt.Errorf("%w: system %q is nil", ErrInvalidSystem, e.name)
		}
		if _, dup := index[e.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSystem, e.name)
		}
		index[e.name] = i
	}

	indegree := make([]int, len(b.entries))
	successors := make([][]int, len(b.entries))
	for i, e := range b.entries {
		for _, name := range e.after {
			p, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("%w: %q runs after unregistered system %q", ErrUnknownSystem, e.name, name)
			}
			successors[p] = append(successors[p], i)
			indegree[i]++
		}
	}

	placed := make([]bool, len(b.entries))
	systems := make([]systemEntry[S], 0, len(b.entries))
	for len(systems) < len(b.entries) {
		next := -1
		for i := range b.entries {
			if !placed[i] && indegree[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var cycle []string
			for i, e := range b.entries {
				if !placed[i] {
					cycle = append(cycle, e.name)
				}
			}
			return nil, &CycleError{Systems: cycle}
		}
		placed[next] = true
		systems = append(systems, b.entries[next])
		for _, s := range successors[next] {
			indegree[s]--
		}
	}

	d := &Dispatcher[S]{
		systems: systems,
		stats:   make([]*systemStatsInternal, len(systems)),
		log:     o.logger,
	}
	for i := range d.stats {
		d.stats[i] = &systemStatsInternal{minDuration: time.Duration(1<<63 - 1)}
	}
	d.log.Info("built dispatcher", zap.Strings("order", d.Order()))
	return d, nil
}

// Dispatcher runs a fixed, dependency-ordered list of systems.
type Dispatcher[S any] struct {
	systems []systemEntry[S]
	stats   []*systemStatsInternal
	log     *zap.Logger
}

// Order returns the system names in execution order.
func (d *Dispatcher[S]) Order() []string {
	names := make([]string, len(d.systems))
	for i, e := range d.systems {
		names[i] = e.name
	}
	return names
}

type systemMasks struct {
	required Bitmask
	excluded Bitmask
}

// Dispatch runs every system once, in order. Each system sees the spawned
// entities whose mask has all of its required types and none of its excluded
// types.
//
// Before any system runs, every required type of every system must be
// registered with the world's component storage; otherwise Dispatch returns a
// *MissingComponentsError and nothing is executed. An error returned by a
// system stops the dispatch.
func (d *Dispatcher[S]) Dispatch(world *World, state S, delta float64) error {
	manager := world.EntityManager()
	components := manager.Components()

	masks := make([]systemMasks, len(d.systems))
	var missing []reflect.Type
	for i, e := range d.systems {
		required, miss := components.BuildMask(e.system.Requires()...)
		for _, t := range miss {
			if !slices.Contains(missing, t) {
				missing = append(missing, t)
			}
		}
		excluded := components.NewMask()
		if ex, ok := e.system.(Excluder); ok {
			excluded, _ = components.BuildMask(ex.Excludes()...)
		}
		masks[i] = systemMasks{required: required, excluded: excluded}
	}
	if len(missing) > 0 {
		return &MissingComponentsError{Types: missing}
	}

	frame := &Frame[S]{
		State:     state,
		DeltaTime: delta,
		World:     world,
	}
	for i, e := range d.systems {
		frame.Entities = manager.filter(masks[i].required, masks[i].excluded)

		start := time.Now()
		err := e.system.Execute(frame)
		d.stats[i].record(time.Since(start))

		if err != nil {
			return fmt.Errorf("system %q: %w", e.name, err)
		}
	}
	return nil
}

// Stats returns statistics about system execution.
func (d *Dispatcher[S]) Stats() *DispatcherStats {
	stats := &DispatcherStats{
		SystemCount: len(d.systems),
		Systems:     make([]SystemStats, len(d.stats)),
	}

	var totalExecs int64
	for i, internal := range d.stats {
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			Name:           d.systems[i].name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}

// Close closes every system implementing io.Closer, in reverse execution
// order. All failures are combined into the returned error.
func (d *Dispatcher[S]) Close() error {
	var err error
	for i := len(d.systems) - 1; i >= 0; i-- {
		e := d.systems[i]
		closer, ok := e.system.(io.Closer)
		if !ok {
			continue
		}
		if cerr := closer.Close(); cerr != nil {
			d.log.Warn("failed to close system", zap.String("system", e.name), zap.Error(cerr))
			err = multierr.Append(err, fmt.Errorf("close system %q: %w", e.name, cerr))
		}
	}
	return err
}
