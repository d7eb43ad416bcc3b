package reduce

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlio/grammar"
	"hdlio/internal/ast"
	"hdlio/internal/errors"
	"hdlio/internal/group"
)

func reduceSource(t *testing.T, src string, opts Options) (*ast.Module, *errors.Collector) {
	t.Helper()
	file, err := grammar.ParseSource("test.vhd", src)
	require.NoError(t, err)
	stream, err := grammar.Scan("test.vhd", src)
	require.NoError(t, err)
	diags := &errors.Collector{}
	return Reduce(file, stream, opts, diags), diags
}

func portNames(ports []ast.Port) []string {
	var out []string
	for _, p := range ports {
		out = append(out, p.Name)
	}
	return out
}

func groupNames(groups []ast.PortGroup) [][]string {
	var out [][]string
	for _, g := range groups {
		out = append(out, portNames(g.Ports))
	}
	return out
}

func assertPartition(t *testing.T, e ast.Entity) {
	t.Helper()
	var flat []ast.Port
	for _, g := range e.PortGroups {
		assert.NotEmpty(t, g.Ports)
		flat = append(flat, g.Ports...)
	}
	assert.Equal(t, e.Ports, flat)
}

func TestBlankLineGroups(t *testing.T) {
	m, diags := reduceSource(t, `entity e is
  port (clk : in std_logic; rst : in std_logic;

 data : in std_logic_vector(7 downto 0); q : out std_logic_vector(7 downto 0));
end entity e;
`, Options{})
	require.Len(t, m.Entities, 1)
	e := m.Entities[0]

	assert.Equal(t, [][]string{{"clk", "rst"}, {"data", "q"}}, groupNames(e.PortGroups))
	assertPartition(t, e)
	assert.Zero(t, diags.Len())

	data, ok := e.Port("data")
	require.True(t, ok)
	assert.Equal(t, ast.In, data.Direction)
	assert.Equal(t, "std_logic_vector", data.Type)
	assert.Equal(t, "(7 downto 0)", data.Constraint)
	assert.Equal(t, "std_logic_vector(7 downto 0)", data.FullType())

	q, _ := e.Port("q")
	assert.Equal(t, ast.Out, q.Direction)
}

func TestNoSeparatorSingleGroup(t *testing.T) {
	m, _ := reduceSource(t, `entity e is
  port (clk : in std_logic; rst : in std_logic;
 data : in std_logic_vector(7 downto 0); q : out std_logic_vector(7 downto 0));
end entity e;
`, Options{})
	e := m.Entities[0]
	require.Len(t, e.PortGroups, 1)
	assert.Len(t, e.PortGroups[0].Ports, 4)
	assertPartition(t, e)
}

func TestGenericWithDefault(t *testing.T) {
	m, _ := reduceSource(t, `entity e is
  generic (WIDTH : integer := 8);
end entity;
`, Options{})
	e := m.Entities[0]
	require.Len(t, e.Generics, 1)
	g := e.Generics[0]
	assert.Equal(t, "WIDTH", g.Name)
	assert.Equal(t, "integer", g.Type)
	assert.Equal(t, "8", g.Default)
	assert.Equal(t, ast.GenericConstant, g.Kind)
	assert.Equal(t, 2, g.Pos.Line)
	assert.Empty(t, e.Ports)
	assert.Empty(t, e.PortGroups)
}

func TestSharedGenericDeclaration(t *testing.T) {
	m, _ := reduceSource(t, `entity e is
  generic (A, B : integer := 0; C : natural range 0 to 7);
end;
`, Options{})
	gs := m.Entities[0].Generics
	require.Len(t, gs, 3)
	assert.Equal(t, ast.Generic{Name: "A", Type: "integer", Default: "0", Pos: gs[0].Pos}, gs[0])
	assert.Equal(t, ast.Generic{Name: "B", Type: "integer", Default: "0", Pos: gs[1].Pos}, gs[1])
	assert.Equal(t, "natural range 0 to 7", gs[2].Type)
	assert.Empty(t, gs[2].Default)
}

func TestMultiIdentifierPorts(t *testing.T) {
	m, _ := reduceSource(t, `entity e is
  port (
    clk, rst : in std_logic;

    a, b, c : out bit
  );
end;
`, Options{})
	e := m.Entities[0]
	assert.Equal(t, [][]string{{"clk", "rst"}, {"a", "b", "c"}}, groupNames(e.PortGroups))
	for _, p := range e.PortGroups[1].Ports {
		assert.Equal(t, ast.Out, p.Direction)
		assert.Equal(t, "bit", p.Type)
	}
}

func TestNoPortsNoGenerics(t *testing.T) {
	m, _ := reduceSource(t, `entity empty_test is
end entity empty_test;
`, Options{})
	require.Len(t, m.Entities, 1)
	e := m.Entities[0]
	assert.Equal(t, "empty_test", e.Name)
	assert.Empty(t, e.Generics)
	assert.Empty(t, e.Ports)
	assert.Empty(t, e.PortGroups)
}

func TestNoEntities(t *testing.T) {
	m, diags := reduceSource(t, `package util is
  constant N : integer := 4;
end package;
`, Options{})
	assert.Empty(t, m.Entities)
	require.Len(t, m.Units, 1)
	assert.Equal(t, ast.PackageUnit, m.Units[0].Kind)
	assert.Zero(t, diags.Len())
}

func TestMultiEntityFile(t *testing.T) {
	m, _ := reduceSource(t, `library ieee;
use ieee.std_logic_1164.all;

entity first is
  generic (N : positive := 4);
  port (a : in std_logic; y : out std_logic);
end entity first;

architecture rtl of first is
begin
  y <= a;
end architecture;

entity second is
  port (
    -- inputs
    x : in std_logic_vector(3 downto 0);
    -- outputs
    z : buffer std_logic
  );
end entity second;
`, Options{})

	require.Len(t, m.Entities, 2)
	assert.Equal(t, "first", m.Entities[0].Name)
	assert.Equal(t, "second", m.Entities[1].Name)
	assert.Equal(t, []string{"a", "y"}, portNames(m.Entities[0].Ports))
	assert.Equal(t, [][]string{{"x"}, {"z"}}, groupNames(m.Entities[1].PortGroups))
	assert.Equal(t, "inputs", m.Entities[1].PortGroups[0].Name)
	assert.Equal(t, "outputs", m.Entities[1].PortGroups[1].Name)
	assert.Equal(t, ast.Buffer, m.Entities[1].Ports[1].Direction)

	var kinds []ast.UnitKind
	for _, u := range m.Units {
		kinds = append(kinds, u.Kind)
	}
	assert.Equal(t, []ast.UnitKind{ast.EntityUnit, ast.ArchitectureUnit, ast.EntityUnit}, kinds)
	assert.Equal(t, "first", m.Units[1].Of)
}

func TestBlankLinePolicy(t *testing.T) {
	src := `entity e is
  port (
    a : in bit;
    -- not a separator under the blank-line policy
    b : in bit;

    c : out bit
  );
end;
`
	m, _ := reduceSource(t, src, Options{Policy: group.PolicyBlankLines})
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, groupNames(m.Entities[0].PortGroups))

	m, _ = reduceSource(t, src, Options{Policy: group.PolicyComments})
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, groupNames(m.Entities[0].PortGroups))
	assert.Equal(t, "not a separator under the blank-line policy", m.Entities[0].PortGroups[1].Name)
}

func TestPortDetails(t *testing.T) {
	m, _ := reduceSource(t, `entity e is
  port (
    clk   : std_logic;                          -- implicit mode
    count : inout integer range 0 to 255 := 0;  -- with default
    bus_q : linkage resolved_t std_ulogic
  );
end;
`, Options{})
	ports := m.Entities[0].Ports
	require.Len(t, ports, 3)

	assert.Equal(t, ast.In, ports[0].Direction)
	assert.Equal(t, "implicit mode", ports[0].Comment)

	assert.Equal(t, ast.InOut, ports[1].Direction)
	assert.Equal(t, "integer", ports[1].Type)
	assert.Equal(t, "range 0 to 255", ports[1].Constraint)
	assert.Equal(t, "0", ports[1].Default)
	assert.Equal(t, "with default", ports[1].Comment)

	assert.Equal(t, ast.Linkage, ports[2].Direction)
	assert.Equal(t, "resolved_t std_ulogic", ports[2].Type)
	assert.Empty(t, ports[2].Comment)
}

func TestGenericKinds(t *testing.T) {
	m, diags := reduceSource(t, `entity e is
  generic (
    type data_t;
    package fifo_pkg is new work.fifo_generic generic map (<>);
    function to_string(x : data_t) return string is <>;
    constant DEPTH : positive := 16
  );
end entity;
`, Options{})
	assert.Zero(t, diags.Len())

	want := []ast.Generic{
		{Name: "data_t", Kind: ast.GenericType},
		{Name: "fifo_pkg", Kind: ast.GenericPackage, Type: "work.fifo_generic", Default: "generic map (<>)"},
		{Name: "to_string", Kind: ast.GenericSubprogram, Type: "function to_string(x : data_t) return string is <>"},
		{Name: "DEPTH", Kind: ast.GenericConstant, Type: "positive", Default: "16"},
	}
	if diff := cmp.Diff(want, m.Entities[0].Generics, cmpopts.IgnoreFields(ast.Generic{}, "Pos")); diff != "" {
		t.Errorf("generics mismatch (-want +got):\n%s", diff)
	}
}

func TestStructuralViolationsAreSkipped(t *testing.T) {
	m, diags := reduceSource(t, `entity e is
  generic (
    signal s : bit;
    N : natural := 1;
    M : out natural
  );
  port (
    a : in bit;
    constant K : integer;
    type t;
    b : out bit
  );
end entity;
`, Options{})
	e := m.Entities[0]
	assert.Equal(t, []string{"N"}, func() []string {
		var names []string
		for _, g := range e.Generics {
			names = append(names, g.Name)
		}
		return names
	}())
	assert.Equal(t, []string{"a", "b"}, portNames(e.Ports))
	assertPartition(t, e)

	warnings := diags.Warnings()
	require.Len(t, warnings, 4)
	for _, w := range warnings {
		assert.Equal(t, errors.WarningStructuralViolation, w.Code)
	}
	assert.Contains(t, warnings[0].Message, "signal s declared in generic clause")
	assert.Equal(t, 3, warnings[0].Position.Line)
	assert.Contains(t, warnings[1].Message, "mode out")
	assert.Contains(t, warnings[3].Message, "type declaration in port clause")
	assert.False(t, diags.HasErrors())
}

func TestLabelMismatchWarning(t *testing.T) {
	_, diags := reduceSource(t, `entity counter is
end entity countr;
`, Options{})
	require.Len(t, diags.Warnings(), 1)
	w := diags.Warnings()[0]
	assert.Equal(t, errors.WarningLabelMismatch, w.Code)
	assert.Equal(t, 2, w.Position.Line)
	assert.Equal(t, 12, w.Position.Column)

	_, diags = reduceSource(t, "entity counter is\nend entity COUNTER;\n", Options{})
	assert.Zero(t, diags.Len())
}

func TestModuleMetadata(t *testing.T) {
	m, _ := reduceSource(t, "entity e is end;", Options{})
	assert.Equal(t, "test.vhd", m.Source)
	assert.Equal(t, DefaultLibrary, m.Library)
	assert.Equal(t, ast.VHDL2008, m.Standard)
	assert.Equal(t, DefaultLibrary, m.Units[0].Library)

	m, _ = reduceSource(t, "entity e is end;", Options{Library: "lib_a", Standard: ast.VHDL1993})
	assert.Equal(t, "lib_a", m.Library)
	assert.Equal(t, ast.VHDL1993, m.Standard)
}

func TestNilCollector(t *testing.T) {
	src := "entity e is generic (signal s : bit); end;"
	file, err := grammar.ParseSource("test.vhd", src)
	require.NoError(t, err)
	stream, err := grammar.Scan("test.vhd", src)
	require.NoError(t, err)
	assert.NotPanics(t, func() { Reduce(file, stream, Options{}, nil) })
}

func TestClassifyEmptyElement(t *testing.T) {
	_, err := classify(&grammar.InterfaceElement{}, genericClause)
	assert.Error(t, err)
	_, err = classify(nil, portClause)
	assert.Error(t, err)
	kind, err := classify(&grammar.InterfaceElement{Type: &grammar.InterfaceType{Name: &grammar.Identifier{Value: "t"}}}, genericClause)
	require.NoError(t, err)
	assert.IsType(t, typeElement{}, kind)
}

func TestGenericTypesBeforeVHDL2008(t *testing.T) {
	src := `entity e is
  generic (
    type data_t;
    WIDTH : natural := 8
  );
end entity;
`
	m, diags := reduceSource(t, src, Options{Standard: ast.VHDL2002})
	assert.Len(t, m.Entities[0].Generics, 2)
	require.Len(t, diags.Warnings(), 1)
	w := diags.Warnings()[0]
	assert.Equal(t, errors.WarningStandardFeature, w.Code)
	assert.Contains(t, w.Message, "type generic requires VHDL-2008")
	assert.Equal(t, 3, w.Position.Line)

	_, diags = reduceSource(t, src, Options{Standard: ast.VHDL2019})
	assert.Zero(t, diags.Len())
}
