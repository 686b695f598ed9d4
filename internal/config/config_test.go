package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMainConfig_Defaults(t *testing.T) {
	cfg, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "./input", cfg.InputDir)
	assert.Equal(t, "./output", cfg.OutputDir)
	assert.Equal(t, "*.txt", cfg.InputPattern)
	assert.Equal(t, FormatCSV, cfg.OutputFormat)
	assert.Equal(t, "{original}", cfg.OutputNameFormat)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:3000/form.html", cfg.FormURL)
	assert.Equal(t, 2*time.Second, cfg.MinDelay)
	assert.Equal(t, 4*time.Second, cfg.MaxDelay)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMainConfig_MissingRequiredFile(t *testing.T) {
	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadMainConfig_FromYAML(t *testing.T) {
	path := writeConfig(t, `
input_dir: ./lists
output_format: XLSX
output_name_format: "{original}_{date}"
archive_inputs: true
archive_date_subdirs: true
max_concurrency: 2
log_level: debug
min_delay: 500ms
max_delay: 1s
`)

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "./lists", cfg.InputDir)
	assert.Equal(t, FormatXLSX, cfg.OutputFormat)
	assert.Equal(t, "{original}_{date}", cfg.OutputNameFormat)
	assert.True(t, cfg.ArchiveInputs)
	assert.True(t, cfg.ArchiveDateSubdirs)
	assert.Equal(t, 2, cfg.MaxConcurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.MinDelay)
	assert.Equal(t, time.Second, cfg.MaxDelay)
}

func TestLoadMainConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "input_dir: [unclosed")

	_, err := LoadMainConfig(path, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadMainConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "unknown format", body: "output_format: pdf", message: "output_format must be one of"},
		{name: "negative concurrency", body: "max_concurrency: -1", message: "max_concurrency must be at least 1"},
		{name: "bad url", body: "submit_url: not a url", message: "submit_url must be a valid URL"},
		{name: "delay bounds", body: "min_delay: 5s\nmax_delay: 1s", message: "max_delay"},
		{name: "log format", body: "log_format: xml", message: "log_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMainConfig(writeConfig(t, tt.body), true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadMainConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "output_dir: ./from-file\nmax_concurrency: 8")

	t.Setenv("GROCER_OUTPUT_DIR", "./from-env")
	t.Setenv("GROCER_MAX_CONCURRENCY", "1")
	t.Setenv("GROCER_ARCHIVE_INPUTS", "true")
	t.Setenv("GROCER_ARCHIVE_DATE_SUBDIRS", "1")
	t.Setenv("GROCER_REQUEST_TIMEOUT", "3s")

	cfg, err := LoadMainConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "./from-env", cfg.OutputDir)
	assert.Equal(t, 1, cfg.MaxConcurrency)
	assert.True(t, cfg.ArchiveInputs)
	assert.True(t, cfg.ArchiveDateSubdirs)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
}

func TestLoadMainConfig_BadEnvOverride(t *testing.T) {
	t.Setenv("GROCER_MIN_DELAY", "soon")

	_, err := LoadMainConfig(filepath.Join(t.TempDir(), "missing.yaml"), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROCER_MIN_DELAY")
}
