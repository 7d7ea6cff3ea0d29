package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"ingest", "batch", "klines", "serve", "export"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "equity-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestIngestCommand_Flags(t *testing.T) {
	for _, name := range []string{"dir", "file", "workers", "rate", "quarterly"} {
		require.NotNil(t, ingestCmd.Flags().Lookup(name), "ingest command should have --%s flag", name)
	}
}

func TestKlinesCommand_Flags(t *testing.T) {
	flag := klinesCmd.Flags().Lookup("file")
	require.NotNil(t, flag)
	assert.Equal(t, "klines.json", flag.DefValue)

	require.NotNil(t, klinesCmd.Flags().Lookup("replace"))
	require.NotNil(t, klinesCmd.Flags().Lookup("min-date"))
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	require.NotNil(t, exportCmd.Flags().Lookup("out"))
}
