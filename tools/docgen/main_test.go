package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersell/seller-stats/cmd/seller-stats/cmd"
)

// The command tree is shared, so these tests do not run in parallel.

func TestGenerate_Markdown(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generate(cmd.Root(), "markdown", dir))

	for _, name := range []string{
		"seller-stats.md",
		"seller-stats_stats.md",
		"seller-stats_categories_diff.md",
		"seller-stats_serve.md",
	} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "## seller-stats", name)
		assert.NotContains(t, string(data), "Auto generated by spf13/cobra", name)
	}
}

func TestGenerate_Man(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, generate(cmd.Root(), "man", dir))

	data, err := os.ReadFile(filepath.Join(dir, "seller-stats.1"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "SELLER-STATS")
}

func TestGenerate_UnknownFormat(t *testing.T) {
	err := generate(cmd.Root(), "pdf", t.TempDir())
	require.ErrorContains(t, err, `unknown format "pdf"`)
}
