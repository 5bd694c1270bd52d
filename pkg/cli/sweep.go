package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/phredq/pkg/data"
	"github.com/mchmarny/phredq/pkg/sweep"
	"github.com/urfave/cli/v3"
)

const (
	samplesFlagName = "samples"
	workersFlagName = "workers"
	maxFlagName     = "max"
	seedFlagName    = "seed"
	verboseFlagName = "verbose"
)

func newSweepCmd() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Score random inputs and count valid, saturated and overflowing results",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  samplesFlagName,
				Usage: "Number of random inputs",
				Value: sweep.DefaultSamples,
			},
			&cli.IntFlag{
				Name:  workersFlagName,
				Usage: "Number of concurrent workers (default: workers from config)",
			},
			&cli.FloatFlag{
				Name:  maxFlagName,
				Usage: "Upper bound of every random value",
				Value: sweep.DefaultMaxValue,
			},
			&cli.IntFlag{
				Name:  seedFlagName,
				Usage: "Random seed, 0 picks one (printed in the summary)",
			},
			&cli.BoolFlag{
				Name:  verboseFlagName,
				Usage: "Include every sample in the output",
			},
			&cli.BoolFlag{
				Name:  saveFlagName,
				Usage: "Persist samples to the local database",
			},
		},
		Action: cmdSweep,
	}
}

func cmdSweep(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	workers := int(cmd.Int(workersFlagName))
	if workers < 1 {
		workers = cfg.Config.Workers
	}

	r, err := sweep.Run(ctx, sweep.Options{
		Samples:   int(cmd.Int(samplesFlagName)),
		Workers:   workers,
		MaxValue:  cmd.Float(maxFlagName),
		Seed:      uint64(cmd.Int(seedFlagName)),
		Precision: cfg.Precision,
		Score:     cfg.Options,
	})
	if err != nil {
		return fmt.Errorf("running sweep: %w", err)
	}

	if cmd.Bool(saveFlagName) {
		if err := cfg.save(sweepRecords(cfg, r)); err != nil {
			return err
		}
	}

	if !cmd.Bool(verboseFlagName) {
		r.Samples = nil
	}

	if !cfg.text() {
		return cfg.encode(r)
	}
	return printSweep(cfg, r)
}

func sweepRecords(cfg *appConfig, r *sweep.Report) []*data.Record {
	list := make([]*data.Record, 0, len(r.Samples))
	for _, s := range r.Samples {
		list = append(list, &data.Record{
			Source:       data.SourceSweep,
			Input:        s.Input,
			Precision:    cfg.Precision.String(),
			Shift:        cfg.Options.Shift.String(),
			Outcome:      s.Outcome,
			MaxIndex:     s.MaxIndex,
			MaxPosterior: s.MaxPosterior,
			Phred:        s.Phred,
			Clamped:      s.Clamped,
			Error:        s.Error,
		})
	}
	return list
}

func printSweep(cfg *appConfig, r *sweep.Report) error {
	s := r.Summary
	if _, err := fmt.Fprintf(cfg.out, "seed=%d precision=%s shift=%s\n", s.Seed, s.Precision, s.Shift); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cfg.out, "total=%d valid=%d saturated=%d overflow=%d invalid=%d\n",
		s.Total, s.Valid, s.Saturated, s.Overflow, s.Invalid); err != nil {
		return err
	}
	if s.Valid > 0 {
		if _, err := fmt.Fprintf(cfg.out, "phred min=%f max=%f\n", s.MinPhred, s.MaxPhred); err != nil {
			return err
		}
	}
	for _, smp := range r.Samples {
		if _, err := fmt.Fprintf(cfg.out, "%v\t%s\t%f\n", smp.Input, smp.Outcome, smp.Phred); err != nil {
			return err
		}
	}
	return nil
}
