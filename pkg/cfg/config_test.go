package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{EnvColors, EnvCurveTolerance, EnvTracer, EnvSeed, EnvMaxSize,
		EnvWorkers, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vectrace.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	require.Equal(t, Defaults(), c)

	c, err = Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), c)
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
vectorize:
  colors: 12
  curve_tolerance: 0.75
  preprocess: false
  tracer: " Potrace "
batch:
  workers: 3
logging:
  level: DEBUG
  file: /tmp/vectrace.log
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 12, c.Vectorize.Colors)
	require.Equal(t, 0.75, c.Vectorize.CurveTolerance)
	require.False(t, *c.Vectorize.Preprocess)
	require.True(t, *c.Vectorize.Recolor)
	require.Equal(t, "potrace", c.Vectorize.Tracer)
	require.Equal(t, 1.5, c.Vectorize.SimplifyTolerance)
	require.Equal(t, 3, c.Batch.Workers)
	require.Equal(t, "debug", c.Logging.Level)
	require.Equal(t, "console", c.Logging.Format)
	require.Equal(t, "/tmp/vectrace.log", c.Logging.File)
}

func TestLoadExplicitZeros(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
vectorize:
  colors: 0
  smoothing_passes: 0
  min_region_area: 0
  edge_threshold: 0
  recolor: false
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Zero(t, c.Vectorize.Colors)
	require.Zero(t, c.Vectorize.SmoothingPasses)
	require.Zero(t, c.Vectorize.MinRegionArea)
	require.Zero(t, c.Vectorize.EdgeThreshold)
	require.False(t, *c.Vectorize.Recolor)
	// Keys the file leaves out keep their defaults.
	require.Equal(t, 3, c.Vectorize.SmoothWindow)
	require.Equal(t, 4096, c.Vectorize.MaxSize)
	require.Equal(t, "marching", c.Vectorize.Tracer)
}

func TestLoadMalformed(t *testing.T) {
	clearEnv(t)
	c, err := Load(writeConfig(t, "vectorize: [1, 2"))
	require.ErrorContains(t, err, "cfg: parse")
	require.Equal(t, Defaults(), c)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "vectorize:\n  colors: 12\n  seed: 9\n")
	t.Setenv(EnvColors, "5")
	t.Setenv(EnvCurveTolerance, "not-a-number")
	t.Setenv(EnvTracer, "POTRACE")
	t.Setenv(EnvWorkers, "7")
	t.Setenv(EnvLogSource, "yes")
	t.Setenv(EnvLogFormat, "JSON")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, c.Vectorize.Colors)
	require.Equal(t, int64(9), c.Vectorize.Seed)
	require.Equal(t, 2.0, c.Vectorize.CurveTolerance)
	require.Equal(t, "potrace", c.Vectorize.Tracer)
	require.Equal(t, 7, c.Batch.Workers)
	require.True(t, c.Logging.Source)
	require.Equal(t, "json", c.Logging.Format)
}

func TestDefaultsAreIndependent(t *testing.T) {
	a := Defaults()
	*a.Vectorize.Preprocess = false
	require.True(t, *Defaults().Vectorize.Preprocess)
}
