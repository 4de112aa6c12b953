package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qgerrors "github.com/mrz1836/qgate/internal/errors"
)

func parse(t *testing.T, src string) []Declaration {
	t.Helper()
	p := NewParser()
	defer p.Close()
	decls, err := p.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	return decls
}

func TestParser_Declarations(t *testing.T) {
	t.Parallel()

	decls := parse(t, `import functools


@functools.cache
async def load(self, path: str, retries=3, *, strict: bool = False, **opts) -> bytes:
    # leading comment
    r"""Load a file.\n

    Args: path.
    """


class Store(object):
    'Single quoted.'
`)

	require.Len(t, decls, 2)

	load := decls[0]
	assert.Equal(t, KindAsyncFunction, load.Kind)
	assert.Equal(t, "load", load.Name)
	assert.Equal(t, 5, load.Line)
	assert.True(t, load.HasReturnType)
	assert.True(t, load.HasDoc)
	assert.Equal(t, "Load a file.\\n\n\nArgs: path.", load.Doc)
	assert.Equal(t, []Param{
		{Name: "self", Receiver: true},
		{Name: "path", Annotated: true},
		{Name: "retries"},
		{Name: "strict", Annotated: true},
		{Name: "**opts"},
	}, load.Params)

	store := decls[1]
	assert.Equal(t, KindClass, store.Kind)
	assert.Equal(t, "Single quoted.", store.Doc)
	assert.Nil(t, store.Params)
}

func TestParser_NonDocstrings(t *testing.T) {
	t.Parallel()

	decls := parse(t, `def a():
    x = "not a docstring"


def b():
    f"formatted {a}"


def c():
    b"bytes"


def d():
    "one" ' two'
`)

	require.Len(t, decls, 4)
	assert.False(t, decls[0].HasDoc)
	assert.False(t, decls[1].HasDoc)
	assert.False(t, decls[2].HasDoc)
	assert.True(t, decls[3].HasDoc)
	assert.Equal(t, "one two", decls[3].Doc)
}

func TestParser_SyntaxError(t *testing.T) {
	t.Parallel()

	p := NewParser()
	defer p.Close()

	_, err := p.Parse(context.Background(), []byte("x = 1\ndef broken(:\n    pass\n"))
	require.Error(t, err)

	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Line)
	assert.True(t, errors.Is(err, qgerrors.ErrSourceParse))
}

func TestParser_RejectsConstructsTreeSitterRecovers(t *testing.T) {
	t.Parallel()

	p := NewParser()
	defer p.Close()

	_, err := p.Parse(context.Background(), []byte("import os\nprint 'x'\n"))
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Line)
	assert.Contains(t, syntaxErr.Msg, "print")

	_, err = p.Parse(context.Background(), []byte("def f():\nreturn 1\n"))
	require.ErrorAs(t, err, &syntaxErr)
	assert.ErrorIs(t, err, qgerrors.ErrSourceParse)
}

func TestCleanDoc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "  Summary.  ", "Summary.  "},
		{"indented body", "Summary.\n\n    Args: x.\n    Returns: y.\n    ", "Summary.\n\nArgs: x.\nReturns: y."},
		{"leading blank lines", "\n\n    Summary.\n", "Summary."},
		{"tabs", "Summary.\n\tDetail.", "Summary.\nDetail."},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanDoc(tt.in))
		})
	}
}

func TestChecks(t *testing.T) {
	t.Parallel()

	d := Declaration{Kind: KindFunction, Name: "__init__", Params: []Param{{Name: "self", Receiver: true}, {Name: "x", Annotated: true}}}
	assert.True(t, HasTypeHints(d), "initializer needs no return type")

	d.Name = "run"
	assert.False(t, HasTypeHints(d))

	assert.True(t, HasShortDescription(Declaration{Doc: "one\ntwo"}))
	assert.False(t, HasShortDescription(Declaration{Doc: "one\ntwo\nthree"}))
	assert.True(t, HasParamsSection(Declaration{Doc: "Parameters: x"}))
	assert.True(t, HasReturnsSection(Declaration{Doc: "Return: y"}))
}

func TestNewProgressManager_NonTerminalIsNoOp(t *testing.T) {
	t.Parallel()

	pm := NewProgressManager(true, &discard{})
	_, ok := pm.(NoOpProgressManager)
	assert.True(t, ok)
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
