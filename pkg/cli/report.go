package cli

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/mchmarny/phredq/pkg/data"
	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/urfave/cli/v3"
)

const (
	limitFlagName      = "limit"
	reportLimitDefault = 20
)

func newReportCmd() *cli.Command {
	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Show outcome counts and the latest saved records",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  limitFlagName,
				Usage: "Number of latest records to list",
				Value: reportLimitDefault,
			},
		},
		Action: cmdReport,
	}
}

type reportView struct {
	Outcomes map[string]int64 `json:"outcomes" yaml:"outcomes"`
	Records  []*data.Record   `json:"records" yaml:"records"`
}

func cmdReport(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	db, err := cfg.DB()
	if err != nil {
		return err
	}

	counts, err := data.CountOutcomes(db)
	if err != nil {
		return fmt.Errorf("counting outcomes: %w", err)
	}

	list, err := data.ListRecords(db, int(cmd.Int(limitFlagName)))
	if err != nil {
		return fmt.Errorf("listing records: %w", err)
	}

	if !cfg.text() {
		return cfg.encode(&reportView{Outcomes: counts, Records: list})
	}

	outcomes := make([]string, 0, len(counts))
	for k := range counts {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)

	countRows := make([][]string, 0, len(outcomes))
	for _, k := range outcomes {
		countRows = append(countRows, []string{k, strconv.FormatInt(counts[k], 10)})
	}

	recordRows := make([][]string, 0, len(list))
	for _, r := range list {
		score := "-"
		if r.Outcome == phred.OutcomeValid {
			score = strconv.FormatFloat(r.Phred, 'f', 6, 64)
		}
		recordRows = append(recordRows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Source,
			fmt.Sprint(r.Input),
			r.Precision,
			r.Shift,
			string(r.Outcome),
			score,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	_, err = fmt.Fprintf(cfg.out, "%s\n%s\n",
		renderTable([]string{"Outcome", "Count"}, countRows),
		renderTable([]string{"ID", "Source", "Input", "Precision", "Shift", "Outcome", "Phred", "Created"}, recordRows))
	return err
}
