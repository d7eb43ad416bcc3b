package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

const alu = `entity alu is
  port (
    -- Operands
    a, b : in bit;

    -- Result
    y : out bit
  );
end entity alu;
`

func write(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr strings.Builder
	code := run(args, strings.NewReader(""), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ns", formatDuration(500*time.Nanosecond))
	assert.Equal(t, "1.5μs", formatDuration(1500*time.Nanosecond))
	assert.Equal(t, "2.0ms", formatDuration(2*time.Millisecond))
	assert.Equal(t, "3.00s", formatDuration(3*time.Second))
	assert.Equal(t, "1.50min", formatDuration(90*time.Second))
}

func TestRunFlat(t *testing.T) {
	path := write(t, t.TempDir(), "alu.vhd", alu)

	code, out, errOut := runCLI(t, path)
	assert.Equal(t, 0, code)
	assert.Equal(t, "Entity: alu\n  Generics:\n    None\n  Ports (flat):\n    - a: in bit\n    - b: in bit\n    - y: out bit\n", out)
	assert.Contains(t, errOut, "Successfully processed "+path)
}

func TestRunGrouped(t *testing.T) {
	path := write(t, t.TempDir(), "alu.vhd", alu)

	code, out, _ := runCLI(t, "-grouped", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "    Group 1 (Operands):\n      - a: in bit\n      - b: in bit\n    Group 2 (Result):\n      - y: out bit\n")
}

func TestRunTree(t *testing.T) {
	path := write(t, t.TempDir(), "alu.vhd", alu)

	code, out, _ := runCLI(t, "-tree", path)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "entity_declaration alu")
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := write(t, dir, "bad.vhd", "entity bad is\n  port (a in bit);\nend;\n")

	code, _, errOut := runCLI(t, bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error[E0101]")
	assert.Contains(t, errOut, "bad.vhd:2:")
	assert.Contains(t, errOut, "failed after")

	code, _, errOut = runCLI(t, filepath.Join(dir, "missing.vhd"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "input not found")
}

func TestRunEntity(t *testing.T) {
	path := write(t, t.TempDir(), "alu.vhd", alu)

	code, out, _ := runCLI(t, "-entity", "ALU", path)
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "Entity: alu\n"))

	code, _, errOut := runCLI(t, "-entity", "alx", path)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error[E0400]")
	assert.Contains(t, errOut, "did you mean 'alu'?")
}

func TestRunBadFlags(t *testing.T) {
	code, _, _ := runCLI(t)
	assert.Equal(t, 2, code)

	code, _, errOut := runCLI(t, "-policy", "indent", "x.vhd")
	assert.Equal(t, 2, code)
	assert.NotEmpty(t, errOut)

	code, _, _ = runCLI(t, "-std", "1987", "x.vhd")
	assert.Equal(t, 2, code)
}

func TestRunProject(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "hdlio.yaml", `standard: "2008"
libraries:
  core:
    files: ["rtl/**/*.vhd"]
`)
	write(t, dir, "rtl/alu.vhd", alu)
	write(t, dir, "rtl/sub/reg.vhd", "entity reg is\n  port (d : in bit; q : out bit);\nend;\n")

	code, out, errOut := runCLI(t, "-project", dir)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "(library core)\n")
	assert.Contains(t, out, "Entity: alu\n")
	assert.Contains(t, out, "Entity: reg\n")

	code, out, _ = runCLI(t, "-project", dir, "-entity", "reg")
	assert.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "Entity: reg\n"))

	code, _, errOut = runCLI(t, "-project", dir, "-entity", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no entity named \"nope\"")
}

func TestRunInteractive(t *testing.T) {
	var stdout, stderr strings.Builder
	code := run([]string{"-i"}, strings.NewReader(alu), &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "Entity: alu\n")
}
