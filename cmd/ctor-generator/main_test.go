package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "code", "CTOR001")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "CTOR001", entry["code"])
}

func TestNewLogger_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger("bogus", "bogus", &buf)
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("CTORGEN_LOG_LEVEL", "debug")
	t.Setenv("CTORGEN_OUTPUT", "/tmp/from-env")

	cfg, err := loadConfig([]string{"-output", "gen", "-dry-run", "./..."}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "gen", cfg.Output, "flags override the environment")
	assert.Equal(t, "_ctor_gen.go", cfg.Suffix)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, []string{"./..."}, cfg.Patterns)
}

func TestLoadConfig_NoPatterns(t *testing.T) {
	var stderr bytes.Buffer

	_, err := loadConfig(nil, &stderr)
	require.ErrorIs(t, err, errNoPatterns)
	assert.Contains(t, stderr.String(), "usage: ctor-generator")
}

func TestRun_DryRun(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-dry-run", "ctor-factory/examples/mailer"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	assert.Contains(t, stdout.String(), "mailer_ctor_gen.go ===")
	assert.Contains(t, stdout.String(), "signature.Func(NewMailer,")
	assert.Contains(t, stderr.String(), "variadic", "rejected constructors are logged")
}

func TestRun_Usage(t *testing.T) {
	assert.Equal(t, exitUsage, run(nil, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Equal(t, exitOK, run([]string{"-h"}, &bytes.Buffer{}, &bytes.Buffer{}))
	assert.Equal(t, exitFailure, run([]string{"ctor-factory/examples/nope"}, &bytes.Buffer{}, &bytes.Buffer{}))
}
