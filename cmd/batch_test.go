package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverSymbols(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dangcem"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "GTCO.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "klines.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	symbols, err := discoverSymbols(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"DANGCEM", "GTCO"}, symbols)
}

func TestDiscoverSymbols_MissingDir(t *testing.T) {
	_, err := discoverSymbols(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestBatchCommand_Flags(t *testing.T) {
	for _, name := range []string{"dir", "workers", "rate", "quarterly"} {
		require.NotNil(t, batchCmd.Flags().Lookup(name), "batch command should have --%s flag", name)
	}
}
