package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("VECTRACE_LOG_LEVEL", "debug")
	t.Setenv("VECTRACE_LOG_FORMAT", "json")
	t.Setenv("VECTRACE_LOG_SOURCE", "TRUE")
	t.Setenv("VECTRACE_LOG_FILE", "/tmp/x.log")
	require.Equal(t, Options{Level: "debug", Format: "json", AddSource: true, File: "/tmp/x.log"}, FromEnv())

	t.Setenv("VECTRACE_LOG_LEVEL", "")
	t.Setenv("VECTRACE_LOG_FORMAT", "")
	t.Setenv("VECTRACE_LOG_SOURCE", "")
	t.Setenv("VECTRACE_LOG_FILE", "")
	require.Equal(t, Options{Level: "info", Format: "console"}, FromEnv())
}

func TestConsoleLine(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "debug", Output: &buf})
	l := WithOperation(WithComponent("quantize"), "refine")
	l.WithGroup("stats").Debug("done", "colors", 12, "tol", 1.5, "note", "two words")

	line := buf.String()
	require.True(t, strings.HasSuffix(line, "\n"))
	require.Contains(t, line, " DBG done")
	require.Contains(t, line, "app=vectrace")
	require.Contains(t, line, "component=quantize")
	require.Contains(t, line, "op=refine")
	require.Contains(t, line, "stats.colors=12")
	require.Contains(t, line, "stats.tol=1.5")
	require.Contains(t, line, `stats.note="two words"`)
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})
	L().Info("hidden")
	L().Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "WRN shown")
}

func TestJSONAndFile(t *testing.T) {
	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "vectrace.log")
	Init(Options{Format: "json", File: file, Output: &buf})
	L().Info("traced", "paths", 3, "elapsed", 2*time.Millisecond)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "traced", rec["msg"])
	require.EqualValues(t, 3, rec["paths"])

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"traced"`)
}
