package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents app config object.
type Config struct {
	Precision  string `yaml:"precision" json:"precision"`
	Shift      string `yaml:"shift" json:"shift"`
	OnSaturate string `yaml:"on_saturate" json:"on_saturate"`
	Categories int    `yaml:"categories" json:"categories"`
	Format     string `yaml:"format" json:"format"`
	Workers    int    `yaml:"workers" json:"workers"`
	LogLevel   string `yaml:"log_level" json:"log_level"`
	// DB is the sqlite file path, empty means data.db next to the config file.
	DB string `yaml:"db,omitempty" json:"db,omitempty"`
}

// Default returns the config written on first run.
func Default() *Config {
	o := phred.DefaultOptions()
	return &Config{
		Precision:  phred.Float64.String(),
		Shift:      o.Shift.String(),
		OnSaturate: o.Policy.String(),
		Categories: o.Categories,
		Format:     FormatText,
		Workers:    runtime.NumCPU(),
		LogLevel:   "info",
	}
}

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, _, err := c.ScoreOptions(); err != nil {
		return err
	}
	switch c.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return errors.Errorf("unknown format: %q", c.Format)
	}
	if c.Categories < 0 {
		return errors.Errorf("categories must not be negative: %d", c.Categories)
	}
	if c.Workers < 1 {
		return errors.Errorf("workers must be at least 1: %d", c.Workers)
	}
	return nil
}

// ScoreOptions parses the scoring fields.
func (c *Config) ScoreOptions() (phred.Options, phred.Precision, error) {
	var o phred.Options

	prec, err := phred.ParsePrecision(c.Precision)
	if err != nil {
		return o, prec, errors.Wrap(err, "invalid precision")
	}
	if o.Shift, err = phred.ParseShift(c.Shift); err != nil {
		return o, prec, errors.Wrap(err, "invalid shift")
	}
	if o.Policy, err = phred.ParsePolicy(c.OnSaturate); err != nil {
		return o, prec, errors.Wrap(err, "invalid on_saturate")
	}
	o.Categories = c.Categories
	return o, prec, nil
}

func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one.
// Fields missing from an existing file keep their default values.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(dirPath, dirMode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating default config", "path", path)
		if err := Save(dirPath, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	j, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening config file: %s", path)
	}
	defer j.Close()

	b, err := io.ReadAll(j)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	return c, nil
}

// GetOrCreateHomeDir returns the named directory under the user home.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}
	slog.Debug("home dir", "path", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		err := os.Mkdir(dir, dirMode)
		if err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
