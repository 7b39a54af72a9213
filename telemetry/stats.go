package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Population int `csv:"population"`

	// Events during window
	SpontaneousBirths int `csv:"births_spontaneous"`
	OffspringBirths   int `csv:"births_offspring"`
	AgeDeaths         int `csv:"deaths_age"`
	ZoneDeaths        int `csv:"deaths_zone"`
	Extinctions       int `csv:"extinctions"`

	// Size distribution (sampled at window end)
	SizeMean float64 `csv:"size_mean"`
	SizeStd  float64 `csv:"size_std"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`

	// Other phenotype means
	SpeedMean float64 `csv:"speed_mean"`
	AlphaMean float64 `csv:"alpha_mean"`

	// Genetic diversity
	DistinctGenomes int `csv:"distinct_genomes"`
}

// ComputeDistribution returns the mean, population standard deviation and
// empirical 10th/50th/90th percentiles of values. Returns zeros if empty.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n > 1 {
		mean, std = stat.PopMeanStdDev(sorted, nil)
	} else {
		mean = sorted[0]
	}

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// Mean returns the arithmetic mean of values, or 0 if empty.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Int("births_spontaneous", s.SpontaneousBirths),
		slog.Int("births_offspring", s.OffspringBirths),
		slog.Int("deaths_age", s.AgeDeaths),
		slog.Int("deaths_zone", s.ZoneDeaths),
		slog.Int("extinctions", s.Extinctions),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_std", s.SizeStd),
		slog.Float64("size_p10", s.SizeP10),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("size_p90", s.SizeP90),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("alpha_mean", s.AlphaMean),
		slog.Int("distinct_genomes", s.DistinctGenomes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
