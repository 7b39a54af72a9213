package main

import (
	"math"

	"github.com/pthm-cable/creatures/config"
)

// ParamSpec is one tunable config field and its search bounds.
type ParamSpec struct {
	Name    string
	Path    string // yaml path, for logs
	Min     float64
	Max     float64
	Default float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

// ParamVector is the ordered set of parameters searched by CMA-ES.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the reproduction and lifespan parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "procreate_rate", Path: "reproduction.procreate_rate",
			Min: 0.0005, Max: 0.01, Default: 0.0017,
			get: func(c *config.Config) float64 { return c.Reproduction.ProcreateRate },
			set: func(c *config.Config, v float64) { c.Reproduction.ProcreateRate = v },
		},
		{
			Name: "mutation_rate", Path: "mutation.rate",
			Min: 0, Max: 0.2, Default: 0.02,
			get: func(c *config.Config) float64 { return c.Mutation.Rate },
			set: func(c *config.Config, v float64) { c.Mutation.Rate = v },
		},
		{
			Name: "lifespan_ms", Path: "lifecycle.lifespan_ms",
			Min: 3000, Max: 30000, Default: 10000,
			get: func(c *config.Config) float64 { return float64(c.Lifecycle.LifespanMs) },
			set: func(c *config.Config, v float64) { c.Lifecycle.LifespanMs = int(math.Round(v)) },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

func (pv *ParamVector) each(in []float64, fn func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		var v float64
		if in != nil {
			v = in[i]
		}
		out[i] = fn(s, v)
	}
	return out
}

// DefaultVector returns the default raw values.
func (pv *ParamVector) DefaultVector() []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.Default })
}

// Normalize maps raw values onto [0,1] using each parameter's bounds.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return (v - s.Min) / (s.Max - s.Min) })
}

// Denormalize is the inverse of Normalize.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(unit, func(s ParamSpec, v float64) float64 { return s.Min + v*(s.Max-s.Min) })
}

// Clamp limits raw values to their bounds.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	return pv.each(raw, func(s ParamSpec, v float64) float64 { return min(max(v, s.Min), s.Max) })
}

// ApplyToConfig writes clamped raw values into cfg and recomputes its
// derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	for i, v := range pv.Clamp(raw) {
		pv.Specs[i].set(cfg, v)
	}
	cfg.ComputeDerived()
}

// ExtractFromConfig reads the raw parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return pv.each(nil, func(s ParamSpec, _ float64) float64 { return s.get(cfg) })
}
