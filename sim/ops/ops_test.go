package ops

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/rms/sim/ast"
	"github.com/slowlang/rms/sim/machine"
	"github.com/slowlang/rms/sim/parse"
)

func call(t *testing.T, tab machine.OpTable, name string, args ...Value) (Value, error) {
	t.Helper()

	op, ok := tab.Lookup(name)
	require.True(t, ok, "op %v", name)

	return op(args...)
}

func TestArith(t *testing.T) {
	tab := Standard()

	for _, tc := range []struct {
		op   string
		args []Value
		exp  Value
	}{
		{"+", nil, int64(0)},
		{"+", []Value{int64(1), int64(2), int64(3)}, int64(6)},
		{"+", []Value{int64(1), 0.5}, 1.5},
		{"-", []Value{int64(5)}, int64(-5)},
		{"-", []Value{int64(10), int64(3), int64(2)}, int64(5)},
		{"*", nil, int64(1)},
		{"*", []Value{int64(4), int64(5)}, int64(20)},
		{"*", []Value{2.0, int64(3)}, 6.0},
		{"/", []Value{int64(10), int64(2)}, int64(5)},
		{"/", []Value{int64(1), int64(2)}, 0.5},
		{"/", []Value{int64(4)}, 0.25},
		{"rem", []Value{int64(206), int64(40)}, int64(6)},
		{"rem", []Value{int64(-7), int64(2)}, int64(-1)},
		{"quotient", []Value{int64(7), int64(2)}, int64(3)},
		{"=", []Value{int64(2), 2.0}, true},
		{"=", []Value{int64(2), int64(3)}, false},
		{"<", []Value{int64(1), int64(2), int64(3)}, true},
		{"<", []Value{int64(1), int64(3), int64(2)}, false},
		{">", []Value{int64(3), int64(2)}, true},
		{"<=", []Value{int64(2), int64(2)}, true},
		{">=", []Value{int64(1), int64(2)}, false},
	} {
		res, err := call(t, tab, tc.op, tc.args...)
		if assert.NoError(t, err, "%v %v", tc.op, tc.args) {
			assert.Equal(t, tc.exp, res, "%v %v", tc.op, tc.args)
		}
	}
}

func TestArithErrors(t *testing.T) {
	tab := Standard()

	for _, tc := range []struct {
		op   string
		args []Value
		err  error
	}{
		{"-", nil, ErrArgCount},
		{"/", nil, ErrArgCount},
		{"<", nil, ErrArgCount},
		{"+", []Value{int64(1), "a"}, ErrArgType},
		{"/", []Value{int64(1), int64(0)}, ErrDivisionByZero},
		{"/", []Value{1.0, 0.0}, ErrDivisionByZero},
		{"rem", []Value{int64(1), int64(0)}, ErrDivisionByZero},
		{"rem", []Value{1.5, int64(1)}, ErrArgType},
		{"quotient", []Value{int64(1)}, ErrArgCount},
		{"not", nil, ErrArgCount},
		{"car", []Value{int64(1)}, ErrArgType},
		{"cdr", []Value{nil}, ErrArgType},
		{"read", nil, ErrNoInput},
	} {
		_, err := call(t, tab, tc.op, tc.args...)
		assert.ErrorIs(t, err, tc.err, "%v %v", tc.op, tc.args)
	}
}

func TestLists(t *testing.T) {
	tab := Standard()

	l, err := call(t, tab, "list", int64(1), int64(2), int64(3))
	require.NoError(t, err)
	assert.Equal(t, "(1 2 3)", Format(l))

	h, err := call(t, tab, "car", l)
	require.NoError(t, err)
	assert.Equal(t, int64(1), h)

	rest, err := call(t, tab, "cdr", l)
	require.NoError(t, err)
	assert.Equal(t, "(2 3)", Format(rest))

	p, err := call(t, tab, "cons", ast.Symbol("a"), ast.Symbol("b"))
	require.NoError(t, err)
	assert.Equal(t, "(a . b)", Format(p))

	p, err = call(t, tab, "cons", int64(0), []any{int64(1), int64(2)})
	require.NoError(t, err)
	assert.Equal(t, "(0 1 2)", Format(p))

	for _, tc := range []struct {
		op  string
		v   Value
		exp bool
	}{
		{"null?", nil, true},
		{"null?", []any{}, true},
		{"null?", l, false},
		{"pair?", l, true},
		{"pair?", []any{int64(1)}, true},
		{"pair?", int64(1), false},
		{"pair?", nil, false},
	} {
		res, err := call(t, tab, tc.op, tc.v)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, res, "%v %v", tc.op, Format(tc.v))
	}

	// quoted constants are slices
	res, err := call(t, tab, "cdr", []any{int64(1), int64(2)})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2)}, res)
}

func TestEqNot(t *testing.T) {
	tab := Standard()

	l := List(int64(1))

	for _, tc := range []struct {
		a, b Value
		exp  bool
	}{
		{ast.Symbol("a"), ast.Symbol("a"), true},
		{ast.Symbol("a"), ast.Symbol("b"), false},
		{int64(1), int64(1), true},
		{l, l, true},
		{l, List(int64(1)), false},
		{nil, []any{}, true},
		{[]any{int64(1)}, []any{int64(1)}, false},
	} {
		res, err := call(t, tab, "eq?", tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.exp, res, "%v %v", Format(tc.a), Format(tc.b))
	}

	res, err := call(t, tab, "not", false)
	require.NoError(t, err)
	assert.Equal(t, true, res)

	res, err = call(t, tab, "not", int64(0))
	require.NoError(t, err)
	assert.Equal(t, false, res)
}

func TestPrintRead(t *testing.T) {
	var out bytes.Buffer

	in := strings.NewReader("(1 2\n 3) foo\n\"str\"\n")

	tab := Standard(WithOutput(&out), WithInput(in))

	_, err := call(t, tab, "print", "x =", int64(5), 1.0, ast.Symbol("sym"), List(true, "q"))
	require.NoError(t, err)
	assert.Equal(t, "x = 5 1.0 sym (true \"q\")\n", out.String())

	for _, exp := range []Value{
		[]any{int64(1), int64(2), int64(3)},
		ast.Symbol("foo"),
		"str",
	} {
		v, err := call(t, tab, "read")
		require.NoError(t, err)
		assert.Equal(t, exp, v)
	}

	_, err = call(t, tab, "read")
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadSyntaxError(t *testing.T) {
	tab := Standard(WithInput(strings.NewReader("(1 2\n")))

	_, err := call(t, tab, "read")
	assert.ErrorIs(t, err, parse.ErrUnexpectedEOF)
}

func TestSelect(t *testing.T) {
	tab, err := Select(Standard(), []string{"+", "rem"})
	require.NoError(t, err)
	assert.Equal(t, []string{"+", "rem"}, tab.Names())

	tab, err = Select(Standard(), nil)
	require.NoError(t, err)
	assert.Contains(t, tab.Names(), "read")

	_, err = Select(Standard(), []string{"+", "frob"})
	assert.ErrorIs(t, err, ErrUnknownOperation)
}

func TestMachineWithStandardOps(t *testing.T) {
	ctx := context.Background()

	x, err := parse.Parse(ctx, []byte(`(
		(assign product (const 1))
		(assign counter (const 1))
	 test-counter
		(test (op >) (reg counter) (reg n))
		(branch (label fact-done))
		(assign product (op *) (reg counter) (reg product))
		(assign counter (op +) (reg counter) (const 1))
		(goto (label test-counter))
	 fact-done
		(perform (op print) (const "fact") (reg n) (reg product)))`))
	require.NoError(t, err)

	var out bytes.Buffer

	m, err := machine.New(ctx, []string{"n", "product", "counter"}, Standard(WithOutput(&out)), x)
	require.NoError(t, err)

	r, err := m.GetRegister("n")
	require.NoError(t, err)
	r.Set(int64(10))

	err = m.Start(ctx)
	require.NoError(t, err)

	assert.Equal(t, "fact 10 3628800\n", out.String())
}
