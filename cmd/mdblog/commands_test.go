package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndex = `[
  {"file": "b.md", "title": "Go tips", "date": "2024-02-01", "tags": ["go"], "category": "", "description": "", "excerpt": "tips"},
  {"file": "a.md", "title": "Rust notes", "date": "2024-01-01", "tags": ["rust"], "category": "", "description": "", "excerpt": "notes"}
]`

// run executes the root command with isolated configuration.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	previewFlags.tag, previewFlags.search, previewFlags.output, previewFlags.source = "", "", "", ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPreviewListFiltersByTag(t *testing.T) {
	site := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(site, "posts.json"), []byte(testIndex), 0o644))

	out, err := run(t, "preview", "list", "--site-dir", site, "--tag", "go")
	require.NoError(t, err)

	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Go tips")
	assert.NotContains(t, out, "Rust notes")
	assert.Contains(t, out, `class="tag active" data-tag="go"`)
	assert.Contains(t, out, `data-theme=`)
}

func TestPreviewPostWritesErrorState(t *testing.T) {
	site := t.TempDir()
	out, err := run(t, "preview", "post", "missing.md", "--site-dir", site)

	assert.Error(t, err)
	assert.Contains(t, out, "error-message")
}

func TestDraftCreatesPage(t *testing.T) {
	site := t.TempDir()
	out, err := run(t, "draft", "First", "Post", "--site-dir", site, "--date", "2024-06-01", "--tags", "go, web")
	require.NoError(t, err)

	path := filepath.Join(site, "pages", "2024-06-01-first-post.md")
	assert.Contains(t, out, path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tags: ["go","web"]`)
}

func TestThemeCommandPersists(t *testing.T) {
	config := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", config)
	t.Chdir(t.TempDir())

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"theme", "dark"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "dark (saved)\n", buf.String())

	_, err := os.Stat(filepath.Join(config, "mdblog", "preferences.yaml"))
	assert.NoError(t, err)
}
