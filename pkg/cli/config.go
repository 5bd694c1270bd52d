package cli

import (
	"context"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Print the effective configuration",
		Action: cmdConfig,
	}
}

func cmdConfig(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cfg.text() {
		enc := yaml.NewEncoder(cfg.out)
		if err := enc.Encode(cfg.Config); err != nil {
			return err
		}
		return enc.Close()
	}
	return cfg.encode(cfg.Config)
}
