package repl

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlio"
)

func init() {
	color.NoColor = true
}

func TestStart(t *testing.T) {
	in := strings.NewReader(`entity a is
  port (x : in bit);
end;

entity b is
  port (
`)
	var out strings.Builder
	require.NoError(t, Start(in, &out, false))

	got := out.String()
	assert.Contains(t, got, "Entity: a\n")
	assert.Contains(t, got, "    - x: in bit\n")
	assert.Contains(t, got, "error[E0101]")
	assert.Contains(t, got, "<stdin:2>")
	assert.True(t, strings.HasPrefix(got, PROMPT))
}

func TestStartWarnings(t *testing.T) {
	in := strings.NewReader("entity a is\nend entity b;\n\n\n")
	var out strings.Builder
	require.NoError(t, Start(in, &out, true, hdlio.WithLibrary("lib_a")))

	got := out.String()
	assert.Contains(t, got, "warning[W0801]")
	assert.Contains(t, got, "Entity: a\n")
	assert.Contains(t, got, "Ports (grouped):\n    None\n")
}

func TestStartEmpty(t *testing.T) {
	var out strings.Builder
	require.NoError(t, Start(strings.NewReader(""), &out, false))
	assert.Equal(t, PROMPT, out.String())
}

func TestStartKeepsBlankLinesInsideUnit(t *testing.T) {
	in := strings.NewReader(`entity alu is
  port (
    a : in bit;

    y : out bit
  );
end;

`)
	var out strings.Builder
	require.NoError(t, Start(in, &out, true))

	got := out.String()
	assert.Contains(t, got, "    Group 1:\n      - a: in bit\n    Group 2:\n      - y: out bit\n")
	assert.NotContains(t, got, "error")
}

func TestIncomplete(t *testing.T) {
	assert.True(t, incomplete("entity a is\n  port (\n"))
	assert.True(t, incomplete("entity alu is\n  port (\n    a : in bit;\n"))
	assert.True(t, incomplete("entity alu is\n  generic (W : natural := 8);\n  port (\n    -- Operands\n    a, b : in bit;\n"))
	assert.False(t, incomplete("entity a is end;\n"))
	assert.False(t, incomplete("entity a is port (x in bit);\nend;\n"))
}
