package parse

import (
	"context"
	"strings"
	"unicode/utf8"

	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/ast"
)

type (
	// Atom is a number or an identifier.
	Atom struct{}

	Ident struct{}

	String struct{}
)

func (p Atom) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = Num{}.Parse(ctx, b, st)
	if err == nil {
		return x, i, nil
	}

	return Ident{}.Parse(ctx, b, st)
}

func (p Ident) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = atomEnd(b, st)
	if i == st {
		return nil, st, errors.New("Ident expected")
	}

	for j := st; j < i; {
		r, w := utf8.DecodeRune(b[j:])
		if r == utf8.RuneError && w <= 1 {
			return nil, j, errors.New("bad rune")
		}

		j += w
	}

	return ast.Ident{
		Base: ast.Base{Pos: st, End: i},
		Name: string(b[st:i]),
	}, i, nil
}

func (p String) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '"' {
		return nil, st, errors.New("String expected")
	}

	var s strings.Builder

	for i = st + 1; i < len(b); i++ {
		switch c := b[i]; c {
		case '"':
			return ast.String{
				Base:  ast.Base{Pos: st, End: i + 1},
				Value: s.String(),
			}, i + 1, nil
		case '\\':
			if i+1 < len(b) {
				i++
				c = b[i]
			}

			s.WriteByte(c)
		default:
			s.WriteByte(c)
		}
	}

	return nil, i, errors.Wrap(ErrUnexpectedEOF, "unterminated string")
}

func atomEnd(b []byte, st int) (i int) {
	i = st

	for i < len(b) && !delimiter(b[i]) {
		i++
	}

	return i
}

func delimiter(c byte) bool {
	switch c {
	case '(', ')', '"', '\'', ';':
		return true
	}

	return SpaceAll.Is(c)
}
