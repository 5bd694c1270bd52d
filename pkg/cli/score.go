package cli

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/mchmarny/phredq/pkg/data"
	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	fileFlagName = "file"
)

func newScoreCmd() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Aliases:   []string{"s"},
		Usage:     "Compute the quality score of a log-likelihood sequence",
		ArgsUsage: "[values...] (use -- before negative values)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    fileFlagName,
				Aliases: []string{"f"},
				Usage:   "Score one sequence per line from a file (- for stdin)",
			},
			&cli.BoolFlag{
				Name:  saveFlagName,
				Usage: "Persist results to the local database",
			},
		},
		Action: cmdScore,
	}
}

type scoreView struct {
	Line         int           `json:"line,omitempty" yaml:"line,omitempty"`
	Input        []float64     `json:"input" yaml:"input"`
	Posteriors   []float64     `json:"posteriors,omitempty" yaml:"posteriors,omitempty"`
	MaxIndex     int           `json:"max_index" yaml:"max_index"`
	MaxPosterior float64       `json:"max_posterior,omitempty" yaml:"max_posterior,omitempty"`
	Phred        *float64      `json:"phred,omitempty" yaml:"phred,omitempty"`
	Clamped      bool          `json:"clamped,omitempty" yaml:"clamped,omitempty"`
	Outcome      phred.Outcome `json:"outcome" yaml:"outcome"`
	Error        string        `json:"error,omitempty" yaml:"error,omitempty"`
}

func newScoreView(line int, in []float64, res *phred.Result[float64], err error) *scoreView {
	v := &scoreView{Line: line, Input: in, MaxIndex: -1}

	var score float64
	if res != nil {
		score = res.Phred
	}
	v.Outcome = phred.Classify(score, err)

	if err != nil {
		v.Error = err.Error()
		return v
	}

	v.Posteriors = res.Posteriors
	v.MaxIndex = res.MaxIndex
	v.MaxPosterior = res.MaxPosterior
	v.Clamped = res.Clamped
	if !math.IsInf(res.Phred, 0) {
		v.Phred = &res.Phred
	}
	return v
}

// textLine renders a view the way the single-score output does.
func (v *scoreView) textLine() string {
	switch {
	case v.Phred != nil:
		return fmt.Sprintf("%f", *v.Phred)
	case v.Error == "":
		return fmt.Sprintf("%f", math.Inf(1))
	default:
		return "error: " + v.Error
	}
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	if path := cmd.String(fileFlagName); path != "" {
		return scoreFile(ctx, cmd, cfg, path)
	}

	values, err := parseValues(cmd.Args().Slice())
	if err != nil {
		return err
	}

	res, err := phred.ComputeAs(cfg.Precision, values, cfg.Options)
	if cmd.Bool(saveFlagName) {
		rec := data.NewRecord(data.SourceScore, values, cfg.Precision, cfg.Options, res, err)
		if serr := cfg.save([]*data.Record{rec}); serr != nil {
			return serr
		}
	}
	if err != nil {
		return fmt.Errorf("scoring %v: %w", values, err)
	}

	if cfg.text() {
		_, err = fmt.Fprintf(cfg.out, "%f", res.Phred)
		return err
	}
	return cfg.encode(newScoreView(0, values, res, nil))
}

func scoreFile(ctx context.Context, cmd *cli.Command, cfg *appConfig, path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	views := make([]*scoreView, len(lines))
	records := make([]*data.Record, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Config.Workers)
	for i, l := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if l.Err != nil {
				views[i] = &scoreView{Line: l.Line, MaxIndex: -1, Outcome: phred.OutcomeInvalid, Error: l.Err.Error()}
				return nil
			}
			res, err := phred.ComputeAs(cfg.Precision, l.Values, cfg.Options)
			views[i] = newScoreView(l.Line, l.Values, res, err)
			records[i] = data.NewRecord(data.SourceScore, l.Values, cfg.Precision, cfg.Options, res, err)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scoring %s: %w", path, err)
	}

	slog.Debug("batch scored", "path", path, "lines", len(lines))

	if cmd.Bool(saveFlagName) {
		keep := make([]*data.Record, 0, len(records))
		for _, r := range records {
			if r != nil {
				keep = append(keep, r)
			}
		}
		if err := cfg.save(keep); err != nil {
			return err
		}
	}

	if !cfg.text() {
		return cfg.encode(views)
	}
	for _, v := range views {
		if _, err := fmt.Fprintln(cfg.out, v.textLine()); err != nil {
			return err
		}
	}
	return nil
}
