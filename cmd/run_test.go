package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmdUsesDeclaredDefaults(t *testing.T) {
	path := writeCakeScript(t)

	root := &cobra.Command{Use: "archetype"}
	root.AddCommand(runCmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"run", path})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "fruit = berries")
	assert.Contains(t, out, "fruit.organic = false")
	assert.NotContains(t, out, "fruit.fare-trade", "the unselected tropical branch must not appear")
}

func TestRunCmdSetOverridesADeclaredInput(t *testing.T) {
	path := writeCakeScript(t)

	root := &cobra.Command{Use: "archetype"}
	root.AddCommand(runCmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"run", path, "--set", "fruit=tropical"})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "fruit = tropical")
	assert.Contains(t, out, "fruit.fare-trade = false")
	assert.NotContains(t, out, "fruit.organic")
}

func TestParseSetsRejectsMissingEquals(t *testing.T) {
	_, err := parseSets([]string{"no-equals-sign"})
	assert.Error(t, err)
}
