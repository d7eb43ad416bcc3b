package group_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hdlio/grammar"
	"hdlio/internal/group"
	"hdlio/token"
)

type fixture struct {
	stream *token.Stream
	index  *group.SpanIndex
	entity *grammar.EntityDeclaration
}

func load(t *testing.T, src string) fixture {
	t.Helper()
	file, err := grammar.ParseSource("test.vhd", src)
	require.NoError(t, err)
	stream, err := grammar.Scan("test.vhd", src)
	require.NoError(t, err)
	require.NotEmpty(t, file.Units)
	entity := file.Units[0].Unit.Entity
	require.NotNil(t, entity)
	return fixture{stream: stream, index: group.IndexSpans(stream, file), entity: entity}
}

func (f fixture) partition(t *testing.T, policy group.Policy) []group.Run {
	t.Helper()
	require.NotNil(t, f.entity.Ports)
	spans, _ := f.index.Elements(f.entity.Ports.Elements)
	require.Len(t, spans, len(f.entity.Ports.Elements))
	return group.Partition(f.stream, spans, f.index.Opening(f.entity.Ports), policy)
}

func sizes(runs []group.Run) []int {
	var out []int
	for _, r := range runs {
		out = append(out, r.Len())
	}
	return out
}

func names(runs []group.Run) []string {
	var out []string
	for _, r := range runs {
		out = append(out, r.Name)
	}
	return out
}

const commented = `entity grouped_test is
  port (
    -- Clock signals
    clk : in std_logic;
    clk_en : in std_logic;

    -- Reset signals
    reset : in std_logic;
    reset_n : in std_logic;
    -- Data ports
    data_in : in std_logic;   -- sampled on clk
    data_out : out std_logic;
    data_valid : out std_logic -- high for one cycle
  );
end entity grouped_test;
`

func TestBlankLineSeparation(t *testing.T) {
	f := load(t, `entity e is
  port (
    clk : in std_logic;
    rst : in std_logic;

    data : in std_logic;
    q : out std_logic
  );
end entity;
`)
	for _, policy := range []group.Policy{group.PolicyComments, group.PolicyBlankLines} {
		runs := f.partition(t, policy)
		assert.Equal(t, []group.Run{{First: 0, Last: 1}, {First: 2, Last: 3}}, runs, policy.String())
	}
}

func TestNoSeparatorIsOneRun(t *testing.T) {
	f := load(t, `entity e is
  port (
    a : in bit;
    b : in bit; -- trailing comments do not split
    c : out bit;
    d : out bit
  );
end entity;
`)
	assert.Equal(t, []int{4}, sizes(f.partition(t, group.PolicyComments)))
	assert.Equal(t, []int{4}, sizes(f.partition(t, group.PolicyBlankLines)))
}

func TestStandaloneCommentsSeparate(t *testing.T) {
	f := load(t, commented)

	runs := f.partition(t, group.PolicyComments)
	assert.Equal(t, []int{2, 2, 3}, sizes(runs))
	assert.Equal(t, []string{"Clock signals", "Reset signals", "Data ports"}, names(runs))
}

func TestBlankLinePolicyIgnoresComments(t *testing.T) {
	f := load(t, commented)

	runs := f.partition(t, group.PolicyBlankLines)
	assert.Equal(t, []int{2, 5}, sizes(runs))
	assert.Equal(t, []string{"Clock signals", "Reset signals"}, names(runs))
}

func TestMultiIdentifierElementIsNeverSplit(t *testing.T) {
	f := load(t, `entity e is
  port (
    a,

    b : in bit;
    c : out bit
  );
end entity;
`)
	runs := f.partition(t, group.PolicyComments)
	assert.Equal(t, []int{2}, sizes(runs))
}

func TestCommentBlockName(t *testing.T) {
	f := load(t, `entity e is
  port (
    a : in bit;

    -- old note, separated from the block below

    ------------------------
    -- Memory
    -- interface
    ------------------------
    addr : in bit;
    /* also
       data */ data : inout bit
  );
end entity;
`)
	runs := f.partition(t, group.PolicyComments)
	assert.Equal(t, []int{1, 2}, sizes(runs))
	assert.Equal(t, []string{"", "Memory interface"}, names(runs))
}

func TestSingleElement(t *testing.T) {
	f := load(t, "entity e is port (a : in bit); end;")
	runs := f.partition(t, group.PolicyComments)
	assert.Equal(t, []group.Run{{First: 0, Last: 0}}, runs)
}

func TestPartitionEmpty(t *testing.T) {
	assert.Nil(t, group.Partition(nil, nil, -1, group.PolicyComments))
}

func TestPartitionCoversEveryElement(t *testing.T) {
	for _, src := range []string{commented, `entity e is
  port (a : in bit;

  b : in bit;
  -- x
  c : in bit;


  d : in bit);
end;
`} {
		f := load(t, src)
		for _, policy := range []group.Policy{group.PolicyComments, group.PolicyBlankLines} {
			runs := f.partition(t, policy)
			next := 0
			for _, r := range runs {
				assert.Equal(t, next, r.First)
				assert.GreaterOrEqual(t, r.Last, r.First)
				next = r.Last + 1
			}
			assert.Equal(t, len(f.entity.Ports.Elements), next)
		}
	}
}

func TestTrailingComment(t *testing.T) {
	f := load(t, commented)
	spans, _ := f.index.Elements(f.entity.Ports.Elements)

	var comments []string
	for _, s := range spans {
		comments = append(comments, group.TrailingComment(f.stream, s.Last))
	}
	assert.Equal(t, []string{"", "", "", "", "sampled on clk", "", "high for one cycle"}, comments)
}

func TestSpanIndex(t *testing.T) {
	f := load(t, commented)

	span := f.index.Span(f.entity)
	require.True(t, span.Valid())
	assert.Equal(t, "entity", f.stream.At(span.First).Value)
	assert.Equal(t, ";", f.stream.At(span.Last).Value)

	opening := f.index.Opening(f.entity.Ports)
	require.GreaterOrEqual(t, opening, 0)
	assert.Equal(t, "(", f.stream.At(opening).Value)
	assert.Equal(t, 2, f.stream.At(opening).Pos.Line)

	spans, index := f.index.Elements(f.entity.Ports.Elements)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, index)
	assert.Equal(t, "clk : in std_logic", f.stream.Text(spans[0]))
	assert.Equal(t, "data_valid : out std_logic", f.stream.Text(spans[6]))

	assert.Equal(t, token.NoSpan, f.index.Span("not a node"))
	assert.Equal(t, -1, f.index.Opening(f.entity.Generics))
}

func TestParsePolicy(t *testing.T) {
	p, err := group.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, group.PolicyComments, p)

	p, err = group.ParsePolicy("Blank-Lines")
	require.NoError(t, err)
	assert.Equal(t, group.PolicyBlankLines, p)

	_, err = group.ParsePolicy("indentation")
	assert.Error(t, err)
}
