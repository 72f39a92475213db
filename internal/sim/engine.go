// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sim provides the fake molecular-dynamics engine behind the
// workbench. Nothing here computes physics: each tick perturbs the previous
// synthetic data point and walks a three-stage progression. The engine is a
// pure state machine so the UI layer owns all timing.
package sim

import (
	"fmt"
	"math/rand"
	"time"
)

// =============================================================================
// STAGES
// =============================================================================

// Stage is one phase of a simulation run.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageMinimization  Stage = "minimization"
	StageEquilibration Stage = "equilibration"
	StageProduction    Stage = "production"
	StageComplete      Stage = "complete"
)

// runOrder is the fixed progression of a run.
var runOrder = []Stage{StageMinimization, StageEquilibration, StageProduction}

// DisplayName returns the stage name for UI display.
func (s Stage) DisplayName() string {
	switch s {
	case StageIdle:
		return "Idle"
	case StageMinimization:
		return "Energy Minimization"
	case StageEquilibration:
		return "Equilibration"
	case StageProduction:
		return "Production MD"
	case StageComplete:
		return "Complete"
	default:
		return string(s)
	}
}

// =============================================================================
// DATA POINTS
// =============================================================================

// DataPoint is one synthetic sample of the simulated trajectory.
type DataPoint struct {
	Time        float64 // picoseconds
	RMSD        float64 // angstroms
	Energy      float64 // kJ/mol
	Temperature float64 // kelvin
}

// =============================================================================
// ENGINE
// =============================================================================

// Config controls the shape of the fake run. Zero values are filled with
// defaults by New.
type Config struct {
	// StepMin/StepMax bound the random progress increment per tick (percent).
	StepMin float64
	StepMax float64

	// TimeStep is the simulated time advanced per tick, in picoseconds.
	TimeStep float64

	// MaxPoints caps the retained data series; older points are dropped.
	MaxPoints int

	// LogCapacity is the size of the rolling log buffer.
	LogCapacity int

	// LogChance is the per-tick probability of emitting a log line.
	LogChance float64
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		StepMin:     3,
		StepMax:     9,
		TimeStep:    2.0,
		MaxPoints:   600,
		LogCapacity: 50,
		LogChance:   0.3,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.StepMin <= 0 {
		c.StepMin = d.StepMin
	}
	if c.StepMax <= c.StepMin {
		c.StepMax = c.StepMin + (d.StepMax - d.StepMin)
	}
	if c.TimeStep <= 0 {
		c.TimeStep = d.TimeStep
	}
	if c.MaxPoints <= 0 {
		c.MaxPoints = d.MaxPoints
	}
	if c.LogCapacity <= 0 {
		c.LogCapacity = d.LogCapacity
	}
	if c.LogChance <= 0 || c.LogChance > 1 {
		c.LogChance = d.LogChance
	}
	return c
}

// Engine advances a staged fake simulation one tick at a time.
// It is not safe for concurrent use; the owning model serializes access.
type Engine struct {
	cfg Config
	rng *rand.Rand

	stage    Stage
	stageIdx int
	progress float64
	tick     int
	running  bool

	points []DataPoint
	log    *LogBuffer
}

// New creates an engine with a time-seeded random source.
func New(cfg Config) *Engine {
	return NewWithRand(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates an engine with the given random source.
// Tests inject a fixed seed here for reproducible runs.
func NewWithRand(cfg Config, rng *rand.Rand) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:   cfg,
		rng:   rng,
		stage: StageIdle,
		log:   NewLogBuffer(cfg.LogCapacity),
	}
}

// Start resets the engine and begins a new run at the first stage.
func (e *Engine) Start() {
	e.stage = runOrder[0]
	e.stageIdx = 0
	e.progress = 0
	e.tick = 0
	e.running = true
	e.points = e.points[:0]
	e.log.Clear()
	e.logf("Starting %s", e.stage)
}

// Stop halts the run in place. A later Start begins from scratch.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.running = false
	e.logf("Run stopped by user at %s (%.0f%%)", e.stage, e.progress)
}

// Advance performs one tick: bump progress by a random step, append a
// perturbed data point, occasionally emit a log line, and on reaching 100%
// move to the next stage (or finish after the last one).
func (e *Engine) Advance() {
	if !e.running {
		return
	}
	e.tick++

	step := e.cfg.StepMin + e.rng.Float64()*(e.cfg.StepMax-e.cfg.StepMin)
	e.progress += step

	e.appendPoint()

	if e.rng.Float64() < e.cfg.LogChance {
		e.logTick()
	}

	if e.progress >= 100 {
		e.advanceStage()
	}
}

// advanceStage moves to the next stage, or completes the run.
func (e *Engine) advanceStage() {
	e.stageIdx++
	if e.stageIdx >= len(runOrder) {
		e.stage = StageComplete
		e.progress = 100
		e.running = false
		e.logf("Production run complete after %d steps", e.tick)
		return
	}
	prev := e.stage
	e.stage = runOrder[e.stageIdx]
	e.progress = 0
	e.logf("%s finished, starting %s", titleCase(string(prev)), e.stage)
}

// =============================================================================
// SYNTHETIC DATA
// =============================================================================

// appendPoint extends the series with a perturbation of the previous point.
func (e *Engine) appendPoint() {
	var p DataPoint
	if len(e.points) == 0 {
		p = DataPoint{
			Time:        0,
			RMSD:        0.4,
			Energy:      -9800,
			Temperature: 120,
		}
	} else {
		last := e.points[len(e.points)-1]
		p = DataPoint{
			Time:        last.Time + e.cfg.TimeStep,
			RMSD:        clamp(last.RMSD+e.gauss(0.02, 0.12), 0.2, 4.5),
			Energy:      last.Energy + e.energyDrift() + e.gauss(0, 90),
			Temperature: e.nextTemperature(last.Temperature),
		}
	}
	e.points = append(e.points, p)
	if len(e.points) > e.cfg.MaxPoints {
		e.points = e.points[len(e.points)-e.cfg.MaxPoints:]
	}
}

// energyDrift biases the potential energy downward while minimizing and
// keeps it flat afterwards, which is roughly what a real run looks like.
func (e *Engine) energyDrift() float64 {
	if e.stage == StageMinimization {
		return -120 * (1 - e.progress/130)
	}
	return 0
}

// nextTemperature ramps toward the 300 K thermostat target during
// equilibration and jitters around it from then on.
func (e *Engine) nextTemperature(last float64) float64 {
	const target = 300.0
	switch e.stage {
	case StageMinimization:
		return clamp(last+e.gauss(0, 3), 80, 180)
	case StageEquilibration:
		return clamp(last+(target-last)*0.18+e.gauss(0, 4), 80, 320)
	default:
		return clamp(last+(target-last)*0.4+e.gauss(0, 3.5), 280, 320)
	}
}

// gauss returns a normally distributed sample.
func (e *Engine) gauss(mean, stddev float64) float64 {
	return mean + e.rng.NormFloat64()*stddev
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// LOGGING
// =============================================================================

// logTick emits a status line in the style of an MD engine log.
func (e *Engine) logTick() {
	if len(e.points) == 0 {
		return
	}
	last := e.points[len(e.points)-1]
	switch e.stage {
	case StageMinimization:
		e.logf("Step %4d  Epot = %10.1f kJ/mol  Fmax converging", e.tick*500, last.Energy)
	case StageEquilibration:
		e.logf("Step %4d  T = %5.1f K  coupling to 300.0 K bath", e.tick*500, last.Temperature)
	default:
		e.logf("Step %4d  t = %6.1f ps  RMSD = %4.2f A  Epot = %9.1f kJ/mol",
			e.tick*500, last.Time, last.RMSD, last.Energy)
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.log.Append(fmt.Sprintf(format, args...))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-32) + s[1:]
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Stage returns the current stage.
func (e *Engine) Stage() Stage { return e.stage }

// Progress returns the progress through the current stage, 0-100.
func (e *Engine) Progress() float64 { return e.progress }

// Running reports whether a run is in flight.
func (e *Engine) Running() bool { return e.running }

// Tick returns the number of ticks since Start.
func (e *Engine) Tick() int { return e.tick }

// StageIndex returns the 1-based stage number and total, for "stage 2/3"
// displays. Idle reports 0; complete reports the final stage.
func (e *Engine) StageIndex() (current, total int) {
	switch e.stage {
	case StageIdle:
		return 0, len(runOrder)
	case StageComplete:
		return len(runOrder), len(runOrder)
	default:
		return e.stageIdx + 1, len(runOrder)
	}
}

// Points returns the retained data series. The slice is shared; callers
// must not mutate it.
func (e *Engine) Points() []DataPoint { return e.points }

// LastPoint returns the most recent data point, if any.
func (e *Engine) LastPoint() (DataPoint, bool) {
	if len(e.points) == 0 {
		return DataPoint{}, false
	}
	return e.points[len(e.points)-1], true
}

// LogLines returns the rolling log contents, oldest first.
func (e *Engine) LogLines() []string { return e.log.Lines() }
