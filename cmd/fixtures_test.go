package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const cakeScriptXML = `<?xml version="1.0" encoding="UTF-8"?>
<archetype-script xmlns="https://helidon.io/archetype/2.0">
  <step label="Pick a cake">
    <inputs>
      <enum id="fruit" default="berries" label="Fruit">
        <option value="berries">
          <boolean id="organic" default="false"/>
        </option>
        <option value="tropical">
          <boolean id="fare-trade" default="false"/>
        </option>
      </enum>
      <boolean id="frosting" default="false"/>
    </inputs>
  </step>
</archetype-script>`

// writeCakeScript writes cakeScriptXML to a temp file and returns its path.
func writeCakeScript(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cake.xml")
	require.NoError(t, os.WriteFile(path, []byte(cakeScriptXML), 0o644))
	return path
}
