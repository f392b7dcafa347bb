package ecs

import (
	"context"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/plus3/botarena/sim"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Steps           uint64
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
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Named systems report Name() in stats instead of their Go type name.
type Named interface {
	Name() string
}

type queryExecutor interface {
	Execute()
}

// Scheduler manages and executes systems in order, one logical step per Once.
// Wall-clock time is only read for stats and for pacing in Run; systems see
// nothing but the StepContext produced by the driver.
type Scheduler struct {
	storage     *Storage
	driver      *sim.Driver
	systems     []System
	queries     [][]queryExecutor
	systemStats []*systemStatsInternal
	steps       uint64
	paused      atomic.Bool
	afterStep   []func(*sim.StepContext)
}

// NewScheduler creates a new scheduler for the given storage, stepping driver.
func NewScheduler(storage *Storage, driver *sim.Driver) *Scheduler {
	return &Scheduler{
		storage: storage,
		driver:  driver,
		systems: make([]System, 0),
	}
}

// Driver returns the fixed-step driver.
func (s *Scheduler) Driver() *sim.Driver {
	return s.driver
}

// Register adds a system to the scheduler and initializes its Query fields.
func (s *Scheduler) Register(system System) {
	s.queries = append(s.queries, s.initializeQueries(system))
	s.systems = append(s.systems, system)

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemName(system),
		minDuration: time.Duration(1<<63 - 1),
	})
}

func systemName(system System) string {
	if named, ok := system.(Named); ok {
		return named.Name()
	}
	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	return systemType.Name()
}

func (s *Scheduler) initializeQueries(system System) []queryExecutor {
	systemValue := reflect.ValueOf(system)
	if systemValue.Kind() == reflect.Ptr {
		systemValue = systemValue.Elem()
	}

	if systemValue.Kind() != reflect.Struct {
		return nil
	}

	systemType := systemValue.Type()
	var queries []queryExecutor

	for i := 0; i < systemValue.NumField(); i++ {
		field := systemValue.Field(i)
		fieldType := systemType.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() != reflect.Struct {
			continue
		}

		typeName := field.Type().Name()
		isQuery := strings.HasPrefix(typeName, "Query[")
		if !isQuery && !strings.HasPrefix(typeName, "Singleton[") {
			continue
		}

		initMethod := field.Addr().MethodByName("Init")
		if !initMethod.IsValid() {
			panic("Init method not found on field: " + fieldType.Name)
		}
		initMethod.Call([]reflect.Value{
			reflect.ValueOf(s.storage),
		})

		if isQuery {
			if q, ok := field.Addr().Interface().(queryExecutor); ok {
				queries = append(queries, q)
			}
		}
	}
	return queries
}

// Once advances the driver one step and executes all registered systems in
// registration order. Each system's queries are refreshed right before it
// runs; deferred commands are flushed after the last system.
func (s *Scheduler) Once() *sim.StepContext {
	step := s.driver.StepOnce()
	frame := NewUpdateFrame(step, s.storage)

	for i, system := range s.systems {
		for _, q := range s.queries[i] {
			q.Execute()
		}

		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}

	frame.Commands.Flush(s.storage)
	s.steps++
	for _, fn := range s.afterStep {
		fn(step)
	}
	return step
}

// AfterStep registers fn to run at the end of every Once, after deferred
// commands are flushed. Hooks observe the settled world; they are not systems
// and take no part in stats.
func (s *Scheduler) AfterStep(fn func(*sim.StepContext)) {
	s.afterStep = append(s.afterStep, fn)
}

// Steps runs n logical steps back to back.
func (s *Scheduler) Steps(n int) {
	for range n {
		s.Once()
	}
}

// Pause stops Run from stepping. Pausing is modeled by not calling Once; no
// simulation state changes.
func (s *Scheduler) Pause() {
	s.paused.Store(true)
}

func (s *Scheduler) Resume() {
	s.paused.Store(false)
}

func (s *Scheduler) Paused() bool {
	return s.paused.Load()
}

// Run paces logical steps against real time until the context is cancelled.
// Elapsed time accumulates into a backlog that is drained in fixed steps, at
// most maxStepsPerTick per tick; any excess backlog is dropped. The step count
// taken per tick varies with frame timing, but each step is identical to the
// one Once would produce.
func (s *Scheduler) Run(ctx context.Context, maxStepsPerTick int) {
	if maxStepsPerTick <= 0 {
		maxStepsPerTick = 1
	}
	step := time.Duration(s.driver.Step() * float64(time.Second))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	var backlog time.Duration
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			elapsed := now.Sub(lastTime)
			lastTime = now
			if s.Paused() {
				backlog = 0
				continue
			}

			backlog += elapsed
			n := 0
			for backlog >= step && n < maxStepsPerTick && ctx.Err() == nil {
				s.Once()
				backlog -= step
				n++
			}
			if backlog >= step {
				backlog = 0
			}
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Steps:       s.steps,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
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
