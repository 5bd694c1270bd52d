package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/phredq/pkg/config"
	"github.com/mchmarny/phredq/pkg/data"
	"github.com/mchmarny/phredq/pkg/logging"
	"github.com/mchmarny/phredq/pkg/phred"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "phredq"
	appConfigKey = "app-config"

	debugFlagName     = "debug"
	configDirFlagName = "config"
	formatFlagName    = "format"
	precisionFlagName = "precision"
	shiftFlagName     = "shift"
	saturateFlagName  = "on-saturate"
	saveFlagName      = "save"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp(os.Stdout)
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Dir       string
	Config    *config.Config
	Options   phred.Options
	Precision phred.Precision

	out io.Writer
	db  *sql.DB
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp(out io.Writer) *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:                 "Phred-scaled quality scores from per-category log-likelihoods",
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Writer:                out,
		Metadata:              map[string]any{},
		Flags: []urfave.Flag{
			&urfave.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&urfave.StringFlag{
				Name:  configDirFlagName,
				Usage: "Path to the config directory (default: $HOME/.phredq)",
			},
			&urfave.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [text, json, yaml]",
			},
			&urfave.StringFlag{
				Name:  precisionFlagName,
				Usage: "Working precision [float64, float32]",
			},
			&urfave.StringFlag{
				Name:  shiftFlagName,
				Usage: "Stabilization shift applied before exponentiation [none, min, max]",
			},
			&urfave.StringFlag{
				Name:  saturateFlagName,
				Usage: "What a saturated max posterior yields [error, clamp, inf]",
			},
		},
		Commands: []*urfave.Command{
			newScoreCmd(),
			newPLCmd(),
			newSweepCmd(),
			newReportCmd(),
			newConfigCmd(),
			newResetCmd(),
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			cfg.out = out
			cmd.Metadata[appConfigKey] = cfg
			return ctx, nil
		},
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg, ok := cmd.Metadata[appConfigKey].(*appConfig); ok && cfg.db != nil {
				return cfg.db.Close()
			}
			return nil
		},
	}
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(cmd *urfave.Command) (*appConfig, error) {
	debug := cmd.Bool(debugFlagName)
	if debug {
		logging.SetDefaultCLILogger("debug")
	}

	dir := cmd.String(configDirFlagName)
	if dir == "" {
		d, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return nil, fmt.Errorf("resolving config dir: %w", err)
		}
		dir = d
	}

	c, err := config.ReadOrCreate(dir)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	overrides := map[string]*string{
		formatFlagName:    &c.Format,
		precisionFlagName: &c.Precision,
		shiftFlagName:     &c.Shift,
		saturateFlagName:  &c.OnSaturate,
	}
	for name, field := range overrides {
		if v := cmd.String(name); v != "" {
			*field = v
		}
	}
	if c.Format == "yml" {
		c.Format = config.FormatYAML
	}
	if debug {
		c.LogLevel = "debug"
	}
	logging.SetDefaultCLILogger(c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts, prec, err := c.ScoreOptions()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	slog.Debug("config loaded", "dir", dir, "precision", prec, "shift", opts.Shift, "on_saturate", opts.Policy)

	return &appConfig{
		Dir:       dir,
		Config:    c,
		Options:   opts,
		Precision: prec,
	}, nil
}

// DB lazily initializes and opens the local database.
func (a *appConfig) DB() (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	path := a.Config.DB
	if path == "" {
		path = filepath.Join(a.Dir, data.DataFileName)
	}

	if err := data.Init(path); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.db = db
	return db, nil
}

func (a *appConfig) save(records []*data.Record) error {
	db, err := a.DB()
	if err != nil {
		return err
	}
	if err := data.SaveRecords(db, records); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	slog.Debug("records saved", "count", len(records))
	return nil
}

func (a *appConfig) text() bool {
	return a.Config.Format == config.FormatText
}

func (a *appConfig) encode(v any) error {
	if a.Config.Format == config.FormatYAML {
		enc := yaml.NewEncoder(a.out)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	e := json.NewEncoder(a.out)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
