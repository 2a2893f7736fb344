package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file. A file is decoded over Defaults,
// so keys it leaves out keep their default values and keys it sets win,
// even when set to zero or false.
type Config struct {
	Vectorize VectorizeConfig `yaml:"vectorize"`
	Batch     BatchConfig     `yaml:"batch"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type VectorizeConfig struct {
	Colors            int     `yaml:"colors"`
	CurveTolerance    float64 `yaml:"curve_tolerance"`
	SimplifyTolerance float64 `yaml:"simplify_tolerance"`
	CornerThreshold   float64 `yaml:"corner_threshold"`
	MinRegionArea     int     `yaml:"min_region_area"`
	EdgeThreshold     int     `yaml:"edge_threshold"`
	SmoothingPasses   int     `yaml:"smoothing_passes"`
	SmoothWindow      int     `yaml:"smooth_window"`
	Preprocess        *bool   `yaml:"preprocess"`
	Recolor           *bool   `yaml:"recolor"`
	Seed              int64   `yaml:"seed"`
	Tracer            string  `yaml:"tracer"`
	MaxSize           int     `yaml:"max_size"`
}

type BatchConfig struct {
	Workers int `yaml:"workers"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	preprocess, recolor := true, true
	return Config{
		Vectorize: VectorizeConfig{
			CurveTolerance:    2,
			SimplifyTolerance: 1.5,
			CornerThreshold:   60,
			MinRegionArea:     20,
			EdgeThreshold:     25,
			SmoothingPasses:   2,
			SmoothWindow:      3,
			Preprocess:        &preprocess,
			Recolor:           &recolor,
			Seed:              QuantizeSeed,
			Tracer:            "marching",
			MaxSize:           4096,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvColors         = "VECTRACE_COLORS"
	EnvCurveTolerance = "VECTRACE_CURVE_TOL"
	EnvTracer         = "VECTRACE_TRACER"
	EnvSeed           = "VECTRACE_SEED"
	EnvMaxSize        = "VECTRACE_MAX_SIZE"
	EnvWorkers        = "VECTRACE_WORKERS"
	EnvLogLevel       = "VECTRACE_LOG_LEVEL"
	EnvLogFormat      = "VECTRACE_LOG_FORMAT"
	EnvLogSource      = "VECTRACE_LOG_SOURCE"
	EnvLogFile        = "VECTRACE_LOG_FILE"
)

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path or a missing file yields the
// defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	c := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("cfg: %w", err)
		default:
			// Keys present in the file replace the defaults, zeros included.
			if err := yaml.Unmarshal(data, &c); err != nil {
				return Defaults(), fmt.Errorf("cfg: parse %s: %w", path, err)
			}
			normalize(&c)
		}
	}
	ApplyEnv(&c)
	return c, nil
}

// normalize trims and lowercases the keyword fields.
func normalize(c *Config) {
	c.Vectorize.Tracer = strings.ToLower(strings.TrimSpace(c.Vectorize.Tracer))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.File = strings.TrimSpace(c.Logging.File)
}

func envBool(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

// ApplyEnv overrides c with any VECTRACE_* variables that are set.
// Unparsable numbers are ignored.
func ApplyEnv(c *Config) {
	env := func(name string) string { return strings.TrimSpace(os.Getenv(name)) }
	if v := env(EnvColors); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Vectorize.Colors = n
		}
	}
	if v := env(EnvCurveTolerance); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Vectorize.CurveTolerance = f
		}
	}
	if v := env(EnvTracer); v != "" {
		c.Vectorize.Tracer = strings.ToLower(v)
	}
	if v := env(EnvSeed); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Vectorize.Seed = n
		}
	}
	if v := env(EnvMaxSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Vectorize.MaxSize = n
		}
	}
	if v := env(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Workers = n
		}
	}
	if v := env(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := env(EnvLogFormat); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := env(EnvLogSource); v != "" {
		c.Logging.Source = envBool(v)
	}
	if v := env(EnvLogFile); v != "" {
		c.Logging.File = v
	}
}
