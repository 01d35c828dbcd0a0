package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePrefs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prefs.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFileIsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "reel")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \"Slate\"\nshow_logs = true\n"), 0o644))

	p, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: "Slate", ShowLogs: true}, p)
}

func TestLoad_BlankThemeKeepsDefault(t *testing.T) {
	p, err := Load(writePrefs(t, "theme = \"  \"\nshow_logs = true\n"))
	require.NoError(t, err)
	assert.Equal(t, "Dracula", p.Theme)
	assert.True(t, p.ShowLogs)
}

func TestLoad_FailuresReturnDefaultsWithError(t *testing.T) {
	cases := map[string]string{
		"corrupt":      writePrefs(t, "not valid toml {{{\n"),
		"wrong type":   writePrefs(t, "show_logs = \"yes\"\n"),
		"is directory": t.TempDir(),
	}
	for name, path := range cases {
		t.Run(name, func(t *testing.T) {
			p, err := Load(path)
			assert.Error(t, err)
			assert.Equal(t, Default(), p)
		})
	}
}

func TestSave_RoundTripsAndLeavesNoTempFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "prefs.toml")

	require.NoError(t, Save(path, Prefs{Theme: "Nightfox", ShowLogs: true}))
	require.NoError(t, Save(path, Prefs{Theme: "Slate"}))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Prefs{Theme: "Slate"}, p)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prefs.toml", entries[0].Name())
}

func TestSave_UnwritableDirectory(t *testing.T) {
	blocker := writePrefs(t, "")
	err := Save(filepath.Join(blocker, "prefs.toml"), Default())
	assert.Error(t, err)
}
