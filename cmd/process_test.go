package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/grocery-list-converter/internal/config"
	"github.com/ginjaninja78/grocery-list-converter/internal/converter"
)

func processConfig(t *testing.T) *config.MainConfig {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "input")
	cfg.OutputDir = filepath.Join(root, "output")
	cfg.InputArchiveDir = filepath.Join(root, "input_archive")
	cfg.OutputArchiveDir = filepath.Join(root, "output_archive")
	cfg.MaxConcurrency = 2
	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))

	t.Cleanup(func() {
		dryRun, filePath, outputFormat = false, "", ""
	})
	return cfg
}

func TestRunProcess(t *testing.T) {
	cfg := processConfig(t)
	lists := map[string]string{
		"a.txt": "Meats -\nHam (2x)\nBacon\n",
		"b.txt": "Pantry\nRice 3x\nToiletries\nSoap\n",
		"c.md":  "Pantry\nIgnored\n",
	}
	for name, text := range lists {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, name), []byte(text), 0o644))
	}

	var out bytes.Buffer
	require.NoError(t, runProcess(&out, cfg))

	text := out.String()
	assert.Contains(t, text, "Found 2 file(s) to process")
	assert.Contains(t, text, "Records:         4 across 3 categories")
	assert.Contains(t, text, "Meats: Ham (2)")
	assert.Contains(t, text, "Pantry: Rice (3)")
	assert.Contains(t, text, "Meats: 2 items")

	for _, name := range []string{"a.csv", "b.csv"} {
		items, vr, err := converter.ReadItems(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err)
		assert.True(t, vr.IsValid)
		assert.Len(t, items, 2)
	}

	logs, err := filepath.Glob(filepath.Join(cfg.OutputDir, "processing_summary_*.txt"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestRunProcess_MissingFileFails(t *testing.T) {
	cfg := processConfig(t)
	filePath = filepath.Join(cfg.InputDir, "missing.txt")

	var out bytes.Buffer
	err := runProcess(&out, cfg)
	require.Error(t, err)
	assert.Contains(t, out.String(), "✗ missing.txt")
}

func TestRunProcess_FormatAndDryRun(t *testing.T) {
	cfg := processConfig(t)
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "a.txt"), []byte("Meats\nHam\n"), 0o644))

	outputFormat = "XML"
	dryRun = true

	var out bytes.Buffer
	require.NoError(t, runProcess(&out, cfg))
	assert.Contains(t, out.String(), "a.txt -> (dry run) (1 records)")
	assert.NoDirExists(t, cfg.OutputDir)

	outputFormat = "pdf"
	assert.ErrorIs(t, runProcess(&out, cfg), converter.ErrUnsupportedFormat)
}

func TestRunVerify(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(good, []byte("category,item,quantity\nMeats,Ham,2\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("category,item,quantity\nMeats,Ham,0\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, runVerify(&out, good))
	assert.Contains(t, out.String(), "1 valid records")

	out.Reset()
	assert.Error(t, runVerify(&out, bad))
	assert.Contains(t, out.String(), "must be at least 1")
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, "skipped", errorType(errStopped))
	assert.Equal(t, "input_read", errorType(converter.ErrInputRead))
	assert.Equal(t, "validation", errorType(converter.ErrValidation))
}
