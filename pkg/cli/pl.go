package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/urfave/cli/v3"
)

func newPLCmd() *cli.Command {
	return &cli.Command{
		Name:      "pl",
		Usage:     "Phred-scale natural-log likelihoods relative to the most likely category",
		ArgsUsage: "[values...] (use -- before negative values)",
		Action:    cmdPL,
	}
}

type plView struct {
	Input []float64 `json:"input" yaml:"input"`
	PL    []float64 `json:"pl" yaml:"pl"`
}

func cmdPL(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	values, err := parseValues(cmd.Args().Slice())
	if err != nil {
		return err
	}

	pl, err := phred.PhredScaledLikelihoodsAs(cfg.Precision, values)
	if err != nil {
		return fmt.Errorf("scaling %v: %w", values, err)
	}

	if !cfg.text() {
		return cfg.encode(&plView{Input: values, PL: pl})
	}

	parts := make([]string, len(pl))
	for i, v := range pl {
		parts[i] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	_, err = fmt.Fprint(cfg.out, strings.Join(parts, ","))
	return err
}
