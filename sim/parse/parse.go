package parse

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/ast"
)

type (
	State struct {
		b []byte // all files concatenated

		Grammar Parser

		files []file
	}

	file struct {
		base int
		size int
		name string
	}

	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	PartialReadError struct {
		End int
	}

	SyntaxError struct {
		Name string
		Line int
		Col  int
		Err  error
	}
)

var (
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrUnbalancedParen = errors.New("unbalanced )")
)

func ParseFile(ctx context.Context, name string) (ast.Node, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	s := New()
	s.AddFile(name, data)

	return s.Parse(ctx)
}

// Parse parses exactly one form from text.
func Parse(ctx context.Context, text []byte) (x ast.Node, err error) {
	s := New()

	s.AddFile("", text)

	return s.Parse(ctx)
}

// ParseAll parses every top level form in text.
func ParseAll(ctx context.Context, text []byte) ([]ast.Node, error) {
	s := New()

	s.AddFile("", text)

	return s.ParseAll(ctx)
}

func New() *State {
	return &State{
		Grammar: Form{},
	}
}

func (s *State) Parse(ctx context.Context) (x ast.Node, err error) {
	x, i, err := s.Grammar.Parse(ctx, s.b, 0)
	if err != nil {
		return nil, s.syntaxError(i, err)
	}

	i = Blank.Skip(s.b, i)

	if i != len(s.b) {
		return x, s.syntaxError(i, PartialReadError{End: i})
	}

	return x, nil
}

func (s *State) ParseAll(ctx context.Context) (xs []ast.Node, err error) {
	i := Blank.Skip(s.b, 0)

	for i < len(s.b) {
		var x ast.Node

		x, i, err = s.Grammar.Parse(ctx, s.b, i)
		if err != nil {
			return xs, s.syntaxError(i, err)
		}

		xs = append(xs, x)

		i = Blank.Skip(s.b, i)
	}

	return xs, nil
}

func (s *State) AddFile(name string, text []byte) {
	f := file{
		name: name,
		base: len(s.b),
		size: len(text),
	}

	s.b = append(s.b, text...)

	s.files = append(s.files, f)
}

func (s *State) Text(pos, end int) []byte {
	return s.b[pos:end]
}

// Position returns file name and 1-based line and column of pos.
func (s *State) Position(pos int) (name string, line, col int) {
	base := 0

	for _, f := range s.files {
		if pos >= f.base && pos <= f.base+f.size {
			name, base = f.name, f.base
			break
		}
	}

	if pos > len(s.b) {
		pos = len(s.b)
	}

	text := s.b[base:pos]

	line = 1 + bytes.Count(text, []byte{'\n'})
	col = 1 + len(text) - (bytes.LastIndexByte(text, '\n') + 1)

	return name, line, col
}

func (s *State) syntaxError(pos int, err error) error {
	name, line, col := s.Position(pos)

	return SyntaxError{
		Name: name,
		Line: line,
		Col:  col,
		Err:  err,
	}
}

func (e PartialReadError) Error() string {
	return fmt.Sprintf("unexpected input after form at offset %d", e.End)
}

func (e SyntaxError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%d:%d: %v", e.Line, e.Col, e.Err)
	}

	return fmt.Sprintf("%s:%d:%d: %v", e.Name, e.Line, e.Col, e.Err)
}

func (e SyntaxError) Unwrap() error { return e.Err }
