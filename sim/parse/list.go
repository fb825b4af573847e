package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/ast"
)

type (
	// Form is any single datum with leading blanks skipped.
	Form struct{}

	List struct{}

	Quote struct{}
)

func (p Form) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = Blank.Skip(b, st)

	if i == len(b) {
		return nil, i, ErrUnexpectedEOF
	}

	if b[i] == ')' {
		return nil, i, ErrUnbalancedParen
	}

	return AnyOf{List{}, Quote{}, String{}, Atom{}}.Parse(ctx, b, i)
}

func (p List) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '(' {
		return nil, st, errors.New("List expected")
	}

	l := ast.List{}

	for i = st + 1; ; {
		i = Blank.Skip(b, i)

		if i == len(b) {
			return nil, i, errors.Wrap(ErrUnexpectedEOF, "list opened at %d", st)
		}

		if b[i] == ')' {
			i++
			break
		}

		var e ast.Node

		e, i, err = Form{}.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "item %d", len(l.Items))
		}

		l.Items = append(l.Items, e)
	}

	l.Base = ast.Base{Pos: st, End: i}

	return l, i, nil
}

func (p Quote) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '\'' {
		return nil, st, errors.New("Quote expected")
	}

	q, i, err := Form{}.Parse(ctx, b, st+1)
	if err != nil {
		return nil, i, errors.Wrap(err, "quoted")
	}

	return ast.List{
		Base: ast.Base{Pos: st, End: i},
		Items: []ast.Node{
			ast.Ident{Base: ast.Base{Pos: st, End: st + 1}, Name: "quote"},
			q,
		},
	}, i, nil
}
