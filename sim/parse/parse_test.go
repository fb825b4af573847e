package parse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/rms/sim/ast"
)

func TestParseForms(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		text string
		exp  string
	}{
		{"int", "3", "3"},
		{"negative float", "-3.34", "-3.34"},
		{"symbol", "gcd-done", "gcd-done"},
		{"operator symbols", "(+ - <= ->x)", "(+ - <= ->x)"},
		{"string", `"abc"`, `"abc"`},
		{"escaped string", `"a\"b"`, `"a\"b"`},
		{"quote", "'a", "'a"},
		{"nested quote", "''(kenjin che)", "''(kenjin che)"},
		{"empty list", "()", "()"},
		{"comment", "; leading\n(a ; inner\n b)", "(a b)"},
		{"hex", "0x10", "16"},
		{"octal looking", "010", "10"},
		{"float keeps dot", "2.0", "2.0"},
		{
			name: "define",
			text: `
(define (gcd a b)
  (if (= b 0)
      a
      (gcd b (rem a b))))`,
			exp: "(define (gcd a b) (if (= b 0) a (gcd b (rem a b))))",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			x, err := Parse(ctx, []byte(tc.text))
			require.NoError(t, err)
			assert.Equal(t, tc.exp, ast.Text(x))
		})
	}
}

func TestParseNodes(t *testing.T) {
	x, err := Parse(context.Background(), []byte(`(assign n (op -) (reg n) (const 1))`))
	require.NoError(t, err)

	l, ok := x.(ast.List)
	require.True(t, ok, "list expected, got %T", x)
	require.Len(t, l.Items, 5)

	assert.Equal(t, ast.Base{Pos: 0, End: 35}, l.Base)

	head, ok := l.Head()
	assert.True(t, ok)
	assert.Equal(t, "assign", head)

	c, ok := l.Items[4].(ast.List).Tagged("const")
	require.True(t, ok)
	assert.Equal(t, ast.Int{Base: ast.Base{Pos: 32, End: 33}, Value: 1}, c)
}

func TestParseAll(t *testing.T) {
	xs, err := ParseAll(context.Background(), []byte("a (b c)\n; tail comment\n 4"))
	require.NoError(t, err)
	require.Len(t, xs, 3)

	assert.Equal(t, "a", ast.Text(xs[0]))
	assert.Equal(t, "(b c)", ast.Text(xs[1]))
	assert.Equal(t, "4", ast.Text(xs[2]))
}

func TestParseErrors(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		name string
		text string
		is   error
		line int
		col  int
	}{
		{name: "empty", text: "  ", is: ErrUnexpectedEOF, line: 1, col: 3},
		{name: "unclosed list", text: "(a\n (b c)", is: ErrUnexpectedEOF, line: 2, col: 7},
		{name: "stray paren", text: ")", is: ErrUnbalancedParen, line: 1, col: 1},
		{name: "unterminated string", text: `"abc`, is: ErrUnexpectedEOF, line: 1, col: 5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(ctx, []byte(tc.text))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.is)

			var se SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tc.line, se.Line, "line")
			assert.Equal(t, tc.col, se.Col, "col")
		})
	}

	_, err := Parse(ctx, []byte("a b"))
	var pe PartialReadError
	assert.ErrorAs(t, err, &pe)
}

func TestDatum(t *testing.T) {
	x, err := Parse(context.Background(), []byte(`(1 2.5 "s" sym #t false '(x) ())`))
	require.NoError(t, err)

	assert.Equal(t, []any{
		int64(1),
		2.5,
		"s",
		ast.Symbol("sym"),
		true,
		false,
		[]any{ast.Symbol("x")},
		[]any{},
	}, ast.Datum(x))
}
