package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/phredq/pkg/data"
	"github.com/urfave/cli/v3"
)

const (
	yesFlagName = "yes"
)

func newResetCmd() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete all saved records and start fresh",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    yesFlagName,
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation prompt",
			},
		},
		Action: cmdReset,
	}
}

func cmdReset(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	dbPath := cfg.Config.DB
	if dbPath == "" {
		dbPath = filepath.Join(cfg.Dir, data.DataFileName)
	}

	if !cmd.Bool(yesFlagName) {
		fmt.Fprintf(cfg.out, "This will permanently delete all records in %s\n", dbPath)
		fmt.Fprint(cfg.out, "Are you sure? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(cfg.out, "Aborted.")
			return nil
		}
	}

	// close the DB before deleting the file
	if cfg.db != nil {
		cfg.db.Close()
		cfg.db = nil
	}

	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting database: %w", err)
	}

	slog.Info("database deleted", "path", dbPath)

	if err := data.Init(dbPath); err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}

	slog.Info("database re-initialized", "path", dbPath)
	fmt.Fprintln(cfg.out, "Reset complete.")
	return nil
}
