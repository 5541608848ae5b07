package ecs_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/plus3/ecscore/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sleepySystem struct {
	executeCount int
	sleepDur     time.Duration
}

func (s *sleepySystem) Requires() []reflect.Type { return nil }

func (s *sleepySystem) Execute(*ecs.Frame[*tickState]) error {
	s.executeCount++
	if s.sleepDur > 0 {
		time.Sleep(s.sleepDur)
	}
	return nil
}

func TestDispatcherStats(t *testing.T) {
	sys1 := &sleepySystem{sleepDur: 1 * time.Millisecond}
	sys2 := &sleepySystem{sleepDur: 2 * time.Millisecond}

	d, err := ecs.NewDispatcherBuilder[*tickState]().
		Add("fast", sys1).
		Add("slow", sys2, "fast").
		Build()
	require.NoError(t, err)

	stats := d.Stats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(0), stats.TotalExecutions)
	for _, s := range stats.Systems {
		assert.Zero(t, s.MinDuration, "min is zero before any execution")
		assert.Zero(t, s.AvgDuration)
	}

	world := ecs.NewWorld(smallConfig())
	for i := 0; i < 3; i++ {
		require.NoError(t, d.Dispatch(world, &tickState{}, 0.016))
	}

	stats = d.Stats()
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "fast", stats.Systems[0].Name)
	assert.Equal(t, "slow", stats.Systems[1].Name)

	for _, s := range stats.Systems {
		assert.Equal(t, int64(3), s.ExecutionCount)
		assert.NotZero(t, s.MinDuration)
		assert.NotZero(t, s.MaxDuration)
		assert.NotZero(t, s.LastDuration)
		assert.LessOrEqual(t, s.MinDuration, s.AvgDuration)
		assert.LessOrEqual(t, s.AvgDuration, s.MaxDuration)
		assert.Equal(t, s.TotalDuration/3, s.AvgDuration)
	}

	assert.Equal(t, 3, sys1.executeCount)
	assert.Equal(t, 3, sys2.executeCount)
}
