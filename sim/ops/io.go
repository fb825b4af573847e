package ops

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/ast"
	"github.com/slowlang/rms/sim/machine"
	"github.com/slowlang/rms/sim/parse"
)

type (
	// reader returns one datum at a time from a line oriented stream.
	reader struct {
		r *bufio.Reader

		buf   []byte
		queue []Value
	}
)

// print writes its arguments separated by spaces.
// Strings are written without quotes.
func (e *env) print(args ...Value) (Value, error) {
	var b []byte

	for i, a := range args {
		if i != 0 {
			b = append(b, ' ')
		}

		if s, ok := a.(string); ok {
			b = append(b, s...)
			continue
		}

		b = AppendValue(b, a)
	}

	b = append(b, '\n')

	_, err := e.out.Write(b)
	if err != nil {
		return nil, errors.Wrap(err, "print")
	}

	return nil, nil
}

func (e *env) read(args ...Value) (Value, error) {
	if err := argc(args, 0); err != nil {
		return nil, err
	}

	if e.in == nil {
		return nil, ErrNoInput
	}

	return e.in.next()
}

func (r *reader) next() (Value, error) {
	for len(r.queue) == 0 {
		line, err := r.r.ReadBytes('\n')
		r.buf = append(r.buf, line...)

		if len(r.buf) != 0 {
			xs, perr := parse.ParseAll(context.Background(), r.buf)

			switch {
			case perr == nil:
				for _, x := range xs {
					r.queue = append(r.queue, ast.Datum(x))
				}

				r.buf = r.buf[:0]
			case errors.Is(perr, parse.ErrUnexpectedEOF) && err == nil:
				// form continues on the next line
			default:
				r.buf = r.buf[:0]

				return nil, errors.Wrap(perr, "read")
			}
		}

		if err == io.EOF && len(r.queue) == 0 {
			return nil, errors.Wrap(io.EOF, "read")
		}

		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "read")
		}
	}

	v := r.queue[0]
	r.queue = r.queue[1:]

	return v, nil
}

// Format returns the printed form of v.
func Format(v Value) string {
	return string(AppendValue(nil, v))
}

// AppendValue appends the printed form of v.
// Lists print as (a b c), improper lists as (a . b).
func AppendValue(b []byte, v Value) []byte {
	switch v := v.(type) {
	case nil:
		return append(b, "()"...)
	case bool:
		if v {
			return append(b, "true"...)
		}

		return append(b, "false"...)
	case int64:
		return strconv.AppendInt(b, v, 10)
	case int:
		return strconv.AppendInt(b, int64(v), 10)
	case float64:
		return ast.Format(b, ast.Float{Value: v})
	case string:
		return ast.Format(b, ast.String{Value: v})
	case ast.Symbol:
		return append(b, v...)
	case machine.Seq:
		return append(b, v.String()...)
	case []any:
		b = append(b, '(')

		for i, x := range v {
			if i != 0 {
				b = append(b, ' ')
			}

			b = AppendValue(b, x)
		}

		return append(b, ')')
	case *Pair:
		if v == nil {
			return append(b, "()"...)
		}

		b = append(b, '(')
		b = AppendValue(b, v.Car)

		var rest Value = v.Cdr

		for {
			switch r := rest.(type) {
			case *Pair:
				if r != nil {
					b = append(b, ' ')
					b = AppendValue(b, r.Car)
					rest = r.Cdr

					continue
				}
			case nil:
			case []any:
				for _, x := range r {
					b = append(b, ' ')
					b = AppendValue(b, x)
				}
			default:
				b = append(b, " . "...)
				b = AppendValue(b, r)
			}

			return append(b, ')')
		}
	case fmt.Stringer:
		return append(b, v.String()...)
	default:
		return hfmt.Appendf(b, "%v", v)
	}
}
