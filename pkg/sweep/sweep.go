// Package sweep stress-tests the quality score transform over random inputs.
package sweep

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSamples is the number of inputs generated when none is set.
	DefaultSamples = 1000
	// DefaultMaxValue bounds every random input.
	DefaultMaxValue = 100.0
)

// Options configures a sweep.
type Options struct {
	Samples  int
	Workers  int
	MaxValue float64
	// Seed makes the sweep reproducible, 0 picks a random one.
	Seed      uint64
	Precision phred.Precision
	Score     phred.Options
}

// Sample is one scored input.
type Sample struct {
	Input   []float64     `json:"input" yaml:"input"`
	Outcome phred.Outcome `json:"outcome" yaml:"outcome"`
	// MaxIndex is -1 unless the sample is valid.
	MaxIndex     int     `json:"max_index" yaml:"max_index"`
	MaxPosterior float64 `json:"max_posterior,omitempty" yaml:"max_posterior,omitempty"`
	Phred        float64 `json:"phred,omitempty" yaml:"phred,omitempty"`
	Clamped      bool    `json:"clamped,omitempty" yaml:"clamped,omitempty"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty"`
	// Max is the largest input and Gap its distance to the runner-up.
	Max float64 `json:"max" yaml:"max"`
	Gap float64 `json:"gap" yaml:"gap"`
}

// Summary counts outcomes. MinPhred and MaxPhred cover valid samples only.
type Summary struct {
	Seed      uint64  `json:"seed" yaml:"seed"`
	Precision string  `json:"precision" yaml:"precision"`
	Shift     string  `json:"shift" yaml:"shift"`
	Total     int     `json:"total" yaml:"total"`
	Valid     int     `json:"valid" yaml:"valid"`
	Saturated int     `json:"saturated" yaml:"saturated"`
	Overflow  int     `json:"overflow" yaml:"overflow"`
	Invalid   int     `json:"invalid" yaml:"invalid"`
	MinPhred  float64 `json:"min_phred" yaml:"min_phred"`
	MaxPhred  float64 `json:"max_phred" yaml:"max_phred"`
}

// Report is the result of a sweep.
type Report struct {
	Summary Summary   `json:"summary" yaml:"summary"`
	Samples []*Sample `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Run generates opts.Samples inputs of the form [0, r1*max, ..., rn*max]
// and scores them concurrently. Inputs are drawn up front from a single
// generator, so a seed reproduces the same report regardless of Workers.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Samples < 0 {
		return nil, errors.Errorf("invalid sample count: %d", opts.Samples)
	}
	if opts.MaxValue < 0 || math.IsNaN(opts.MaxValue) || math.IsInf(opts.MaxValue, 0) {
		return nil, errors.Errorf("invalid max value: %v", opts.MaxValue)
	}
	if opts.Samples == 0 {
		opts.Samples = DefaultSamples
	}
	if opts.MaxValue == 0 {
		opts.MaxValue = DefaultMaxValue
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
	}

	n := opts.Score.Categories
	if n < 1 {
		n = phred.DefaultCategories
	}

	inputs := generate(opts.Seed, opts.Samples, n, opts.MaxValue)
	samples := make([]*Sample, len(inputs))

	slog.Debug("sweep started", "samples", opts.Samples, "workers", opts.Workers, "seed", opts.Seed)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			samples[i] = score(in, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "sweep interrupted")
	}

	r := &Report{
		Summary: summarize(samples),
		Samples: samples,
	}
	r.Summary.Seed = opts.Seed
	r.Summary.Precision = opts.Precision.String()
	r.Summary.Shift = opts.Score.Shift.String()

	slog.Debug("sweep done", "valid", r.Summary.Valid, "saturated", r.Summary.Saturated, "overflow", r.Summary.Overflow)
	return r, nil
}

func generate(seed uint64, samples, n int, maxValue float64) [][]float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	inputs := make([][]float64, samples)
	for i := range inputs {
		in := make([]float64, n)
		for j := 1; j < n; j++ {
			in[j] = rng.Float64() * maxValue
		}
		inputs[i] = in
	}
	return inputs
}

func score(in []float64, opts Options) *Sample {
	s := &Sample{Input: in, MaxIndex: -1}
	s.Max, s.Gap = topGap(in)

	res, err := phred.ComputeAs(opts.Precision, in, opts.Score)
	var val float64
	if res != nil {
		val = res.Phred
	}
	s.Outcome = phred.Classify(val, err)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	if s.Outcome == phred.OutcomeValid {
		s.MaxIndex = res.MaxIndex
		s.MaxPosterior = res.MaxPosterior
		s.Phred = res.Phred
		s.Clamped = res.Clamped
	}
	return s
}

func topGap(in []float64) (float64, float64) {
	first, second := math.Inf(-1), math.Inf(-1)
	for _, v := range in {
		switch {
		case v > first:
			first, second = v, first
		case v > second:
			second = v
		}
	}
	if math.IsInf(second, -1) {
		return first, 0
	}
	return first, first - second
}

func summarize(samples []*Sample) Summary {
	s := Summary{Total: len(samples)}
	first := true
	for _, smp := range samples {
		switch smp.Outcome {
		case phred.OutcomeValid:
			s.Valid++
			if first || smp.Phred < s.MinPhred {
				s.MinPhred = smp.Phred
			}
			if first || smp.Phred > s.MaxPhred {
				s.MaxPhred = smp.Phred
			}
			first = false
		case phred.OutcomeSaturated:
			s.Saturated++
		case phred.OutcomeOverflow:
			s.Overflow++
		default:
			s.Invalid++
		}
	}
	return s
}
