package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/plus3/ecscore/config"
	"github.com/plus3/ecscore/ecs"
	"github.com/plus3/ecscore/script"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML or YAML config file.")
	duration := flag.Duration("duration", 0, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 0, "The target number of live entities.")
	scriptPath := flag.String("script", "", "Optional Lua system run after the lifetime system.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *duration > 0 {
		cfg.Stress.Duration = *duration
	}
	if *entityCount > 0 {
		cfg.Stress.Entities = *entityCount
	}
	if *scriptPath != "" {
		cfg.Stress.Script = *scriptPath
	}

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, *gcPauseMetrics, log); err != nil {
		log.Fatal("stress test failed", zap.Error(err))
	}
}

func run(cfg *config.Config, gcPauseMetrics bool, log *zap.Logger) error {
	log.Info("starting ECS stress test",
		zap.Duration("duration", cfg.Stress.Duration),
		zap.Int("entities", cfg.Stress.Entities))

	world := ecs.NewWorld(cfg.World, ecs.WithLogger(log))
	m := world.EntityManager()
	registerComponents(m)

	builder := ecs.NewDispatcherBuilder[*tickState](ecs.WithLogger(log)).
		Add("movement", movementSystem(m)).
		Add("lifetime", lifetimeSystem(), "movement").
		Add("respawn", respawnSystem(), "lifetime")
	if cfg.Stress.Script != "" {
		sys, err := script.LoadFile[*tickState](cfg.Stress.Script, ecs.Types(ecs.TypeOf[Position]()), script.WithLogger(log))
		if err != nil {
			return err
		}
		builder.Add(sys.Name(), sys, "lifetime")
	}
	dispatcher, err := builder.Build()
	if err != nil {
		return err
	}
	defer func() {
		if err := dispatcher.Close(); err != nil {
			log.Warn("close dispatcher", zap.Error(err))
		}
	}()

	state := &tickState{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		target:   cfg.Stress.Entities,
		lifetime: cfg.Stress.Lifetime,
	}

	log.Info("populating world", zap.Int("entities", cfg.Stress.Entities))
	for i := 0; i < cfg.Stress.Entities; i++ {
		if err := spawnEntity(m, state); err != nil {
			return err
		}
	}
	m.ApplyModifications()

	report := &Report{
		Duration:       cfg.Stress.Duration,
		Entities:       cfg.Stress.Entities,
		Systems:        dispatcher.Order(),
		GCPauseMetrics: gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Info("running simulation", zap.Strings("systems", dispatcher.Order()))
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Stress.Duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			m.ApplyModifications()
			if err := dispatcher.Dispatch(world, state, deltaTime.Seconds()); err != nil {
				return err
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}
	m.ApplyModifications()

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Spawned = state.Spawned
	report.Despawned = state.Despawned
	report.FinalEntities = m.Len()
	report.Capacity = m.Capacity()
	report.SystemStats = dispatcher.Stats().Systems
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Info("simulation finished", zap.Int64("updates", report.TotalUpdates))

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")
	return nil
}
