package parse

import (
	"context"
	"strconv"

	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/ast"
)

type (
	// Num accepts an atom only if the whole atom is a number.
	Num struct{}
)

func (p Num) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = atomEnd(b, st)

	x, ok := number(b[st:i], ast.Base{Pos: st, End: i})
	if !ok {
		return nil, st, errors.New("Num expected")
	}

	return x, i, nil
}

func number(text []byte, base ast.Base) (ast.Node, bool) {
	digit := false

	for _, c := range text {
		if c >= '0' && c <= '9' {
			digit = true
			break
		}
	}

	if !digit {
		return nil, false
	}

	s := string(text)

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ast.Int{Base: base, Value: v}, true
	}

	if basePrefix(s) {
		if v, err := strconv.ParseInt(s, 0, 64); err == nil {
			return ast.Int{Base: base, Value: v}, true
		}
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return ast.Float{Base: base, Value: v}, true
	}

	return nil, false
}

// basePrefix reports 0x, 0o and 0b literals, optionally signed.
func basePrefix(s string) bool {
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}

	if len(s) < 3 || s[0] != '0' {
		return false
	}

	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}

	return false
}
