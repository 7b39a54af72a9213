package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/sim"
	"github.com/pthm-cable/creatures/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []uint64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []uint64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windows     []telemetry.WindowStats // collected via the stats callback
	extinctions int
	failed      bool
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			r := fe.runSimulation(cfg, s)
			quality := computeQuality(r.windows, cfg.Population.Target)
			results[idx] = seedResult{
				fitness: computeFitness(r, quality),
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run of maxTicks ticks.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed uint64) *runResult {
	result := &runResult{}

	r, err := sim.New(cfg, sim.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
	})
	if err != nil {
		result.failed = true
		return result
	}
	defer r.Close()

	r.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windows = append(result.windows, stats)
	})

	for r.Tick() < fe.maxTicks {
		if err := r.Step(); err != nil {
			result.failed = true
			break
		}
	}

	result.extinctions = r.Totals().Extinctions
	return result
}

// copyConfig returns an independent copy of the base config. Runs are
// capped so runaway growth cannot stall an evaluation.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	if cfg.Population.Max == 0 {
		cfg.Population.Max = maxPopulationFactor * cfg.Population.Target
	}
	return &cfg
}

// Fitness weights.
const (
	maxPopulationFactor = 10

	extinctionPenalty = 1.0
	failurePenalty    = 10.0
)

// computeFitness calculates the scalar fitness (lower = better).
// Formula: extinctions × penalty + (1 - quality)
// Every extinction outweighs any quality difference.
func computeFitness(r *runResult, quality float64) float64 {
	if r.failed {
		return failurePenalty
	}
	return float64(r.extinctions)*extinctionPenalty + (1 - quality)
}

// Quality component weights.
const (
	qualityWeightSize      = 0.40
	qualityWeightStability = 0.30
	qualityWeightDiversity = 0.30

	qualityWarmupWindows = 1 // skip first N windows (warmup)
)

// computeQuality scores a run ∈ [0, 1] from its window stats: population
// near target, steady population, many distinct genomes.
func computeQuality(windows []telemetry.WindowStats, target int) float64 {
	if len(windows) <= qualityWarmupWindows || target <= 0 {
		return 0
	}

	valid := windows[qualityWarmupWindows:]
	pops := make([]float64, 0, len(valid))
	var diversitySum float64

	for _, w := range valid {
		if w.Population == 0 {
			continue
		}
		pops = append(pops, float64(w.Population))
		diversitySum += float64(w.DistinctGenomes) / float64(w.Population)
	}

	// No window with a live population
	if len(pops) == 0 {
		return 0
	}

	mean := stat.Mean(pops, nil)

	// 1. Mean population relative to target (log-normal bump)
	logErr := math.Log(mean / float64(target))
	sizeScore := math.Exp(-logErr * logErr)

	// 2. Stability (coefficient of variation across windows)
	stabilityScore := 0.0
	if len(pops) >= 2 {
		cv := stat.StdDev(pops, nil) / mean
		stabilityScore = math.Exp(-cv * cv)
	}

	// 3. Genetic diversity (distinct genomes per creature)
	diversityScore := diversitySum / float64(len(pops))

	quality := qualityWeightSize*sizeScore +
		qualityWeightStability*stabilityScore +
		qualityWeightDiversity*diversityScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
