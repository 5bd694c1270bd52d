package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/phredq/pkg/phred"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	testDir := t.TempDir()

	c1, err := ReadOrCreate(testDir)
	assert.NoError(t, err)
	assert.NotNil(t, c1)
	assert.NoError(t, c1.Validate())

	c1.Precision = "float32"
	c1.Shift = "max"
	c1.Categories = 4

	err = Save(testDir, c1)
	assert.NoError(t, err)

	c2, err := ReadOrCreate(testDir)
	assert.NoError(t, err)
	assert.NotNil(t, c2)
	assert.Equal(t, c1.Precision, c2.Precision)
	assert.Equal(t, c1.Shift, c2.Shift)
	assert.Equal(t, c1.Categories, c2.Categories)
}

func TestReadOrCreate_CreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, Default().Shift, c.Shift)

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestReadOrCreate_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("shift: none\n"), fileMode))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, "none", c.Shift)
	assert.Equal(t, "float64", c.Precision)
	assert.Equal(t, phred.DefaultCategories, c.Categories)
	assert.NoError(t, c.Validate())
}

func TestReadOrCreate_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("shift: [\n"), fileMode))

	_, err := ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestSave_Errors(t *testing.T) {
	assert.Error(t, Save("", Default()))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"precision", func(c *Config) { c.Precision = "float16" }},
		{"shift", func(c *Config) { c.Shift = "mean" }},
		{"policy", func(c *Config) { c.OnSaturate = "ignore" }},
		{"format", func(c *Config) { c.Format = "xml" }},
		{"categories", func(c *Config) { c.Categories = -1 }},
		{"workers", func(c *Config) { c.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestScoreOptions(t *testing.T) {
	c := Default()
	c.Precision = "float32"
	c.Shift = "max"
	c.OnSaturate = "clamp"
	c.Categories = 0

	o, prec, err := c.ScoreOptions()
	require.NoError(t, err)
	assert.Equal(t, phred.Float32, prec)
	assert.Equal(t, phred.ShiftMax, o.Shift)
	assert.Equal(t, phred.PolicyClamp, o.Policy)
	assert.Equal(t, 0, o.Categories)
}

func TestGetOrCreateHomeDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, created, err := GetOrCreateHomeDir("phredq-test")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, ".phredq-test", filepath.Base(dir))

	_, created, err = GetOrCreateHomeDir(".phredq-test")
	require.NoError(t, err)
	assert.False(t, created)

	_, _, err = GetOrCreateHomeDir("")
	assert.Error(t, err)
}
