package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/rms/sim/ast"
)

const gcdTOML = `
registers  = ["a", "b", "t"]
operations = ["rem", "="]
controller = "gcd.scm"
print      = ["a"]

[init]
a = 206
b = 40
`

const gcdYAML = `
registers: [a, b, t]
operations: [rem, "="]
source: |
  (test-b
    (test (op =) (reg b) (const 0))
    (branch (label gcd-done))
    (assign t (op rem) (reg a) (reg b))
    (assign a (reg b))
    (assign b (reg t))
    (goto (label test-b))
   gcd-done)
init:
  a: 206
  b: 40
  s: [1, 2.5, x]
print: [a]
`

func TestParseTOML(t *testing.T) {
	c, err := Parse("toml", []byte(gcdTOML))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "t"}, c.Registers)
	assert.Equal(t, []string{"rem", "="}, c.Operations)
	assert.Equal(t, "gcd.scm", c.Controller)
	assert.Equal(t, []string{"a"}, c.Print)
	assert.Equal(t, map[string]any{"a": int64(206), "b": int64(40)}, c.Init)

	assert.NoError(t, c.Validate(nil))
}

func TestParseYAML(t *testing.T) {
	c, err := Parse("yaml", []byte(gcdYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "t"}, c.Registers)
	assert.Contains(t, c.Source, "(test-b")
	assert.Equal(t, int64(206), c.Init["a"])
	assert.Equal(t, []any{int64(1), 2.5, "x"}, c.Init["s"])

	_, text, err := c.ControllerText()
	require.NoError(t, err)
	assert.Equal(t, c.Source, string(text))
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := Parse("ini", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Parse("toml", []byte("registers = ["))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "gcd.toml"), []byte(gcdTOML), 0o644)
	require.NoError(t, err)

	err = os.WriteFile(filepath.Join(dir, "gcd.scm"), []byte("(done)"), 0o644)
	require.NoError(t, err)

	c, err := Load(filepath.Join(dir, "gcd.toml"))
	require.NoError(t, err)

	assert.Equal(t, dir, c.Dir)

	name, text, err := c.ControllerText()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "gcd.scm"), name)
	assert.Equal(t, "(done)", string(text))

	_, err = Load(filepath.Join(dir, "gcd.scm"))
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.True(t, IsConfigFile("x.yml"))
	assert.True(t, IsConfigFile("x.TOML"))
	assert.False(t, IsConfigFile("x.scm"))
}

func TestValidate(t *testing.T) {
	c := &Config{
		Registers:  []string{"a", "a", "pc", "b c"},
		Operations: []string{"+", "frob"},
		Controller: "x.scm",
		Source:     "(done)",
		Init:       map[string]any{"z": int64(1)},
		Print:      []string{"a", "flag", "y"},
	}

	err := c.Validate(func(op string) bool { return op == "+" })
	require.Error(t, err)

	for _, e := range []error{
		ErrBothControllers,
		ErrDuplicateRegister,
		ErrBadRegister,
		ErrUnknownOperation,
		ErrUnknownRegister,
	} {
		assert.ErrorIs(t, err, e)
	}

	err = (&Config{}).Validate(nil)
	assert.ErrorIs(t, err, ErrNoController)

	// registers inferred from the controller
	err = (&Config{Source: "(done)", Init: map[string]any{"n": int64(1)}}).Validate(nil)
	assert.NoError(t, err)
}

func TestParseAssignments(t *testing.T) {
	r, err := ParseAssignments("a=206, b = 40,c=1.5,d=#t,e=foo,f=0x10")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": int64(206),
		"b": int64(40),
		"c": 1.5,
		"d": true,
		"e": ast.Symbol("foo"),
		"f": int64(16),
	}, r)

	r, err = ParseAssignments("")
	require.NoError(t, err)
	assert.Empty(t, r)

	_, err = ParseAssignments("a")
	assert.Error(t, err)

	assert.Equal(t, []string{"a", "b"}, SplitList(" a,,b "))
	assert.Nil(t, SplitList(""))
}
