package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *FileManager {
	t.Helper()
	root := t.TempDir()
	fm := NewFileManager(
		filepath.Join(root, "input"),
		filepath.Join(root, "output"),
		filepath.Join(root, "input_archive"),
		filepath.Join(root, "output_archive"),
	)
	require.NoError(t, fm.EnsureDirectories())
	return fm
}

func TestDiscoverInputFiles(t *testing.T) {
	fm := newManager(t)
	for _, name := range []string{"b.txt", "a.txt", "notes.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(fm.InputDir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(fm.InputDir, "dir.txt"), 0o755))

	files, err := fm.DiscoverInputFiles("")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(fm.InputDir, "a.txt"),
		filepath.Join(fm.InputDir, "b.txt"),
	}, files)

	files, err = fm.DiscoverInputFiles("*.md")
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestArchive(t *testing.T) {
	fm := newManager(t)
	in := filepath.Join(fm.InputDir, "weekly.txt")
	out := filepath.Join(fm.OutputDir, "weekly.csv")
	require.NoError(t, os.WriteFile(in, []byte("Meats -\nHam"), 0o644))
	require.NoError(t, os.WriteFile(out, []byte("category,item,quantity\n"), 0o644))

	archived, err := fm.ArchiveInputFile(in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "weekly.txt"), archived)
	assert.False(t, FileExists(in))
	assert.True(t, FileExists(archived))

	copied, err := fm.ArchiveOutputFile(out)
	require.NoError(t, err)
	assert.True(t, FileExists(out))
	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	assert.Equal(t, "category,item,quantity\n", string(data))
}

func TestArchive_TimestampSubdirs(t *testing.T) {
	fm := newManager(t)
	fm.UseTimestampSubdirs = true
	in := filepath.Join(fm.InputDir, "weekly.txt")
	require.NoError(t, os.WriteFile(in, nil, 0o644))

	archived, err := fm.ArchiveInputFile(in)
	require.NoError(t, err)
	rel, err := filepath.Rel(fm.InputArchiveDir, archived)
	require.NoError(t, err)
	assert.Len(t, strings.Split(rel, string(filepath.Separator)), 4)
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)
	params := map[string]string{"original": "weekly"}

	cases := []struct {
		format, ext, want string
	}{
		{"{original}", ".csv", "weekly.csv"},
		{"{original}_{date}", ".xml", "weekly_20240115.xml"},
		{"list_{timestamp}", ".xlsx", "list_20240115_143022.xlsx"},
		{"{original}.CSV", ".csv", "weekly.CSV"},
		{"{original}-{time}", "", "weekly-143022"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, generateOutputFileName(tc.format, params, tc.ext, now), tc.format)
	}

	name := generateOutputFileName("{uuid}_{uuid}", nil, ".csv", now)
	parts := strings.Split(strings.TrimSuffix(name, ".csv"), "_")
	require.Len(t, parts, 2)
	for _, p := range parts {
		_, err := uuid.Parse(p)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, parts[0], parts[1])
}

func TestBaseName(t *testing.T) {
	assert.Equal(t, "weekly", BaseName("/tmp/in/weekly.txt"))
	assert.Equal(t, "list.v2", BaseName("list.v2.txt"))
	assert.Equal(t, "plain", BaseName("plain"))
}

func TestWriteSummaryLog(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	summary := ProcessingSummary{
		StartTime:       start,
		EndTime:         start.Add(2 * time.Second),
		TotalFiles:      2,
		SuccessfulFiles: 1,
		FailedFiles:     1,
		TotalRecords:    3,
		Categories:      map[string]int{"Pantry": 1, "Meats": 2},
		ProcessedFiles:  []ProcessedFileInfo{{InputFile: "a.txt", OutputFile: "a.csv", Records: 3}},
		FailedFilesList: []FailedFileInfo{{InputFile: "b.txt", ErrorMessage: "boom", ErrorType: "input_read"}},
	}

	path, err := WriteSummaryLog(summary, dir)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "Duration:       2s")
	assert.Contains(t, text, "Records:            3")
	assert.Less(t, strings.Index(text, "Meats: 2 items"), strings.Index(text, "Pantry: 1 items"))
	assert.Contains(t, text, "Error: boom")
	assert.Contains(t, text, "Type:  input_read")
}
