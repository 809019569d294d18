package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermuteCmdTextOutput(t *testing.T) {
	path := writeCakeScript(t)

	root := &cobra.Command{Use: "archetype"}
	root.AddCommand(permuteCmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"permute", path})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "8 permutation(s)")
}

func TestPermuteCmdRespectsCapFlag(t *testing.T) {
	path := writeCakeScript(t)

	root := &cobra.Command{Use: "archetype"}
	root.AddCommand(permuteCmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"permute", path, "--cap", "3"})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "3 permutation(s)")
}

func TestPermuteCmdJSONOutput(t *testing.T) {
	path := writeCakeScript(t)

	root := &cobra.Command{Use: "archetype"}
	root.AddCommand(permuteCmd)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"permute", path, "--json"})
	require.NoError(t, root.Execute())

	var decoded struct {
		RunID        string              `json:"run_id"`
		Permutations []map[string]string `json:"permutations"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotEmpty(t, decoded.RunID)
	assert.Len(t, decoded.Permutations, 8)
}
