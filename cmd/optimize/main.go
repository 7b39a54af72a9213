// Package main provides CMA-ES optimization for finding simulation parameters
// that keep the creature population steady and diverse.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/integrii/flaggy"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/creatures/config"
)

// EvalRecord is one row of optimize_log.csv.
type EvalRecord struct {
	Eval          int     `csv:"eval"`
	Fitness       float64 `csv:"fitness"`
	Quality       float64 `csv:"quality"`
	ProcreateRate float64 `csv:"procreate_rate"`
	MutationRate  float64 `csv:"mutation_rate"`
	LifespanMs    float64 `csv:"lifespan_ms"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func main() {
	// Simulation runs log every reseed; keep only warnings
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	var (
		configPath string
		maxTicks   = 36000
		seeds      = 3
		maxEvals   = 100
		population int
		outputDir  string
	)

	flaggy.SetName("optimize")
	flaggy.SetDescription("CMA-ES search over population parameters")
	flaggy.String(&configPath, "c", "config", "Base config YAML file (empty = use defaults)")
	flaggy.Int(&maxTicks, "m", "max-ticks", "Simulation duration per run in ticks")
	flaggy.Int(&seeds, "s", "seeds", "Number of seeds per evaluation")
	flaggy.Int(&maxEvals, "e", "max-evals", "Maximum number of evaluations")
	flaggy.Int(&population, "p", "population", "CMA-ES population size (0 = auto)")
	flaggy.String(&outputDir, "o", "output", "Output directory for results")
	flaggy.Parse()

	if outputDir == "" {
		flaggy.ShowHelpAndExit("--output is required")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fatal("failed to create output directory", err)
	}

	if err := config.Init(configPath); err != nil {
		fatal("failed to load config", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	evalSeeds := make([]uint64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = uint64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, int32(maxTicks), evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			return evaluator.Evaluate(params.Denormalize(x))
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	popSize := population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(outputDir, "optimize_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		fatal("failed to create log file", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	// Wrap the function to log evaluations
	originalFunc := problem.Func
	problem.Func = func(x []float64) float64 {
		fitness := originalFunc(x)
		evalCount++

		clamped := params.Clamp(params.Denormalize(x))
		if fitness < bestFitness {
			bestFitness = fitness
			bestParams = clamped
		}

		quality := evaluator.LastQuality()
		record := []EvalRecord{{
			Eval:          evalCount,
			Fitness:       fitness,
			Quality:       quality,
			ProcreateRate: clamped[0],
			MutationRate:  clamped[1],
			LifespanMs:    clamped[2],
		}}
		var werr error
		if evalCount == 1 {
			werr = gocsv.Marshal(record, logFile)
		} else {
			werr = gocsv.MarshalWithoutHeaders(record, logFile)
		}
		if werr != nil {
			slog.Warn("failed to write eval log", "error", werr)
		}

		elapsed := time.Since(startTime)
		avgPerEval := elapsed / time.Duration(evalCount)
		remaining := time.Duration(maxEvals-evalCount) * avgPerEval

		fmt.Printf("Eval %d/%d: fitness=%.4f quality=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
			evalCount, maxEvals, fitness, quality, bestFitness,
			formatDuration(elapsed), formatDuration(remaining))

		return fitness
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", seeds, maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		fatal("no evaluation completed", err)
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.4f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg := *baseCfg
	params.ApplyToConfig(&bestCfg, bestParams)

	configOutPath := filepath.Join(outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		slog.Warn("failed to write best config", "error", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
