package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"create", "migrate", "load", "optimize", "report",
	} {
		assert.True(t, names[want], "%s subcommand should exist", want)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	cmd := getRootCmd()

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "string", configFlag.Value.Type())

	for _, name := range []string{
		"host", "port", "user", "password", "database", "ssl-mode",
	} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name),
			"--%s flag should exist", name)
	}
}

func TestRootCommand_Help(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	helpText := buf.String()
	assert.Contains(t, helpText, "tunedb")
	assert.Contains(t, helpText, "catalog")
	assert.Contains(t, helpText, "Available Commands")

	// The phase list matches the subcommands.
	assert.Contains(t, helpText, "five phases")
	for _, phase := range []string{
		"create:", "migrate:", "load:", "optimize:", "report:",
	} {
		assert.Contains(t, helpText, phase)
	}
}

func TestReportCommand_HasSubcommands(t *testing.T) {
	cmd := getReportCmd()

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"prolific", "singles", "genres", "crossover",
		"rated", "listeners", "all",
	} {
		assert.True(t, names[want], "%s subcommand should exist", want)
	}

	topFlag := cmd.PersistentFlags().Lookup("top")
	require.NotNil(t, topFlag)
	assert.Equal(t, "-1", topFlag.DefValue, "top defaults to no limit")
}

func TestLoadCommand_SourceFlags(t *testing.T) {
	cmd := getLoadCmd()

	assert.NotNil(t, cmd.Flags().Lookup("manifest"))
	assert.NotNil(t, cmd.Flags().Lookup("snapshot"))
}
