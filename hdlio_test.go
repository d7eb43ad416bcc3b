package hdlio_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlio"
)

const counter = `library ieee;
use ieee.std_logic_1164.all;

entity counter is
  generic (
    WIDTH : positive := 8
  );
  port (
    clk : in std_logic;
    rst : in std_logic;

    count : out std_logic_vector(WIDTH - 1 downto 0)
  );
end entity counter;

architecture rtl of counter is
begin
end architecture rtl;
`

func TestParseSource(t *testing.T) {
	res, err := hdlio.ParseSource("counter.vhd", counter, hdlio.ModeAST)
	require.NoError(t, err)
	assert.Equal(t, hdlio.ModeAST, res.Mode)
	assert.Nil(t, res.Tree)
	assert.Empty(t, res.Diagnostics)

	require.Len(t, res.Module.Entities, 1)
	e := res.Module.Entities[0]
	assert.Equal(t, "counter", e.Name)
	require.Len(t, e.PortGroups, 2)
	assert.Len(t, e.PortGroups[0].Ports, 2)

	count, ok := e.Port("COUNT")
	require.True(t, ok)
	assert.Equal(t, hdlio.Out, count.Direction)
	assert.Equal(t, "std_logic_vector(WIDTH - 1 downto 0)", count.FullType())

	assert.Len(t, res.Module.Units, 2)
	assert.Equal(t, "work", res.Module.Library)
	assert.Equal(t, hdlio.VHDL2008, res.Module.Standard)
}

func TestParseSourceOptions(t *testing.T) {
	res, err := hdlio.ParseSource("counter.vhd", counter, hdlio.ModeAST,
		hdlio.WithLibrary("lib_a"),
		hdlio.WithStandard(hdlio.VHDL1993),
		hdlio.WithPolicy(hdlio.PolicyBlankLines),
	)
	require.NoError(t, err)
	assert.Equal(t, "lib_a", res.Module.Library)
	assert.Equal(t, hdlio.VHDL1993, res.Module.Standard)
	assert.Equal(t, "lib_a", res.Module.Units[1].Library)
}

func TestTreeMode(t *testing.T) {
	res, err := hdlio.ParseSource("counter.vhd", counter, hdlio.ModeTree)
	require.NoError(t, err)
	assert.Nil(t, res.Module)
	require.NotNil(t, res.Tree)
	out := res.Tree.String()
	assert.Contains(t, out, "entity_declaration counter")
	assert.Contains(t, out, "architecture_body rtl of counter")
}

func TestSyntaxError(t *testing.T) {
	res, err := hdlio.ParseSource("bad.vhd", "entity bad is\n", hdlio.ModeAST)
	assert.Nil(t, res)
	require.Error(t, err)

	var syntaxErr *hdlio.SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, "bad.vhd", syntaxErr.Pos.Filename)
	assert.NotEmpty(t, syntaxErr.Message)

	var notFound *hdlio.NotFoundError
	assert.False(t, errors.As(err, &notFound))
}

func TestMalformedHeaderClause(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		line   int
		column int
	}{
		{"port", "entity e is\n  port (a in bit);\nend;\n", 2, 11},
		{"generic", "entity e is\n  generic (W integer := 8);\n  port (clk : in bit);\nend;\n", 2, 14},
		{"port after context", "library ieee;\nuse ieee.std_logic_1164.all;\n\nentity e is\n  port (a in bit);\nend;\n", 5, 11},
		{"generic after context", "library ieee;\nuse ieee.std_logic_1164.all;\n\nentity e is\n  generic (W integer := 8);\n  port (clk : in bit);\nend;\n", 5, 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := hdlio.ParseSource("p.vhd", tt.src, hdlio.ModeAST)
			assert.Nil(t, res)

			var syntaxErr *hdlio.SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %v", err)
			assert.Equal(t, tt.line, syntaxErr.Pos.Line)
			assert.Equal(t, tt.column, syntaxErr.Pos.Column)
		})
	}
}

func TestParseFileNotFound(t *testing.T) {
	res, err := hdlio.ParseFile(filepath.Join(t.TempDir(), "missing.vhd"), hdlio.ModeAST)
	assert.Nil(t, res)

	var notFound *hdlio.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var syntaxErr *hdlio.SyntaxError
	assert.False(t, errors.As(err, &syntaxErr))
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.vhd")
	require.NoError(t, os.WriteFile(path, []byte(counter), 0o644))

	res, err := hdlio.ParseFile(path, hdlio.ModeAST)
	require.NoError(t, err)
	assert.Equal(t, path, res.Module.Source)
	assert.Equal(t, path, res.Module.Entities[0].Pos.Filename)
	assert.Equal(t, 4, res.Module.Entities[0].Pos.Line)
}

func TestWarningsDoNotFail(t *testing.T) {
	res, err := hdlio.ParseSource("w.vhd", "entity e is generic (signal s : bit); end entity f;", hdlio.ModeAST)
	require.NoError(t, err)
	assert.Len(t, res.Diagnostics, 2)
	assert.Empty(t, res.Module.Entities[0].Generics)
}

func TestParseMode(t *testing.T) {
	m, err := hdlio.ParseMode("TREE")
	require.NoError(t, err)
	assert.Equal(t, hdlio.ModeTree, m)

	m, err = hdlio.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, hdlio.ModeAST, m)

	_, err = hdlio.ParseMode("json")
	assert.Error(t, err)

	_, err = hdlio.ParseSource("x.vhd", "", hdlio.Mode(7))
	assert.Error(t, err)
}
