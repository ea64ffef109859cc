package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/isodesign/internal/score"
	"github.com/roach88/isodesign/internal/solver"
)

const fullConfig = `
output_dir: runs
database: history.db
max_combinations: 5000
solver:
  mode: influx_i
  args: ["--noopt"]
scoring:
  criteria: [sum_sd, flux_sd, "number of labeled inputs"]
  operation: Multiply
  threshold: 0.5
  weights:
    sum_sd: 2
    number of labeled inputs: 0.5
  log: true
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "runs", cfg.OutputDir)
	assert.Equal(t, "history.db", cfg.Database)
	assert.Equal(t, uint64(5000), cfg.MaxCombinations)
	assert.Equal(t, Solver{Mode: "influx_i", Args: []string{"--noopt"}}, cfg.Solver)
	assert.True(t, cfg.Scoring.Log)

	criteria, op, err := cfg.Scoring.Build()
	require.NoError(t, err)
	assert.Equal(t, score.Multiplication, op)
	assert.Equal(t, []score.Criterion{
		score.SumSD{Weight: 2},
		score.FluxesBelow{Threshold: 0.5, Weight: 1},
		score.LabeledInputs{Weight: 0.5},
	}, criteria)
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, string(solver.Stationary), cfg.Solver.Mode)
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown key", "outdir: x\n", "field outdir not found"},
		{"bad mode", "solver: {mode: influx_z}\n", "solver.mode"},
		{"bad criterion", "scoring: {criteria: [entropy]}\n", "UNKNOWN_CRITERION"},
		{"missing threshold", "scoring: {criteria: [flux_sd]}\n", "MISSING_PARAMETER"},
		{"bad operation", "scoring: {operation: Modulo}\n", "UNKNOWN_OPERATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	// nothing anywhere: defaults
	t.Setenv(EnvVar, "")
	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)

	// working directory file
	require.NoError(t, os.WriteFile(DefaultFile, []byte("output_dir: cwd\n"), 0o644))
	cfg, path, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFile, path)
	assert.Equal(t, "cwd", cfg.OutputDir)

	// environment beats working directory
	envFile := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(envFile, []byte("output_dir: env\n"), 0o644))
	t.Setenv(EnvVar, envFile)
	cfg, _, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.OutputDir)

	// flag beats environment
	flagFile := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(flagFile, []byte("output_dir: flag\n"), 0o644))
	cfg, path, err = Load(flagFile)
	require.NoError(t, err)
	assert.Equal(t, flagFile, path)
	assert.Equal(t, "flag", cfg.OutputDir)
}

func TestLoadExplicitMissingFails(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
