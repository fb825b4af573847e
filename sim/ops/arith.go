package ops

import (
	"tlog.app/go/errors"
)

// number is an int64 or a float64 operand.
type number struct {
	i     int64
	f     float64
	float bool
}

func toNumber(v Value, pos int) (n number, err error) {
	switch v := v.(type) {
	case int64:
		return number{i: v}, nil
	case int:
		return number{i: int64(v)}, nil
	case float64:
		return number{f: v, float: true}, nil
	default:
		return n, errors.Wrap(ErrArgType, "arg %d: want number, got %T", pos, v)
	}
}

func (n number) value() Value {
	if n.float {
		return n.f
	}

	return n.i
}

func (n number) toFloat() float64 {
	if n.float {
		return n.f
	}

	return float64(n.i)
}

func (n number) zero() bool {
	if n.float {
		return n.f == 0
	}

	return n.i == 0
}

func numbers(args []Value) ([]number, error) {
	r := make([]number, len(args))

	for i, a := range args {
		n, err := toNumber(a, i)
		if err != nil {
			return nil, err
		}

		r[i] = n
	}

	return r, nil
}

func (n number) add(m number) number {
	if n.float || m.float {
		return number{f: n.toFloat() + m.toFloat(), float: true}
	}

	return number{i: n.i + m.i}
}

func (n number) sub(m number) number {
	if n.float || m.float {
		return number{f: n.toFloat() - m.toFloat(), float: true}
	}

	return number{i: n.i - m.i}
}

func (n number) mul(m number) number {
	if n.float || m.float {
		return number{f: n.toFloat() * m.toFloat(), float: true}
	}

	return number{i: n.i * m.i}
}

// div keeps integers when m divides n exactly.
func (n number) div(m number) (number, error) {
	if m.zero() {
		return number{}, ErrDivisionByZero
	}

	if !n.float && !m.float && n.i%m.i == 0 {
		return number{i: n.i / m.i}, nil
	}

	return number{f: n.toFloat() / m.toFloat(), float: true}, nil
}

func (n number) cmp(m number) int {
	if !n.float && !m.float {
		switch {
		case n.i < m.i:
			return -1
		case n.i > m.i:
			return 1
		}

		return 0
	}

	a, b := n.toFloat(), m.toFloat()

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}

	return 0
}

func add(args ...Value) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return nil, err
	}

	var r number

	for _, n := range ns {
		r = r.add(n)
	}

	return r.value(), nil
}

func mul(args ...Value) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return nil, err
	}

	r := number{i: 1}

	for _, n := range ns {
		r = r.mul(n)
	}

	return r.value(), nil
}

// sub negates a single argument.
func sub(args ...Value) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return nil, err
	}

	if len(ns) == 0 {
		return nil, errors.Wrap(ErrArgCount, "want at least 1")
	}

	if len(ns) == 1 {
		return number{}.sub(ns[0]).value(), nil
	}

	r := ns[0]

	for _, n := range ns[1:] {
		r = r.sub(n)
	}

	return r.value(), nil
}

// div returns the reciprocal of a single argument.
func div(args ...Value) (Value, error) {
	ns, err := numbers(args)
	if err != nil {
		return nil, err
	}

	if len(ns) == 0 {
		return nil, errors.Wrap(ErrArgCount, "want at least 1")
	}

	if len(ns) == 1 {
		ns = append([]number{{i: 1}}, ns...)
	}

	r := ns[0]

	for _, n := range ns[1:] {
		r, err = r.div(n)
		if err != nil {
			return nil, err
		}
	}

	return r.value(), nil
}

func ints(args []Value) (a, b int64, err error) {
	if err = argc(args, 2); err != nil {
		return
	}

	ns, err := numbers(args)
	if err != nil {
		return
	}

	for i, n := range ns {
		if n.float {
			return 0, 0, errors.Wrap(ErrArgType, "arg %d: want integer, got %v", i, n.f)
		}
	}

	if ns[1].i == 0 {
		return 0, 0, ErrDivisionByZero
	}

	return ns[0].i, ns[1].i, nil
}

// rem has the sign of the dividend.
func rem(args ...Value) (Value, error) {
	a, b, err := ints(args)
	if err != nil {
		return nil, err
	}

	return a % b, nil
}

func quotient(args ...Value) (Value, error) {
	a, b, err := ints(args)
	if err != nil {
		return nil, err
	}

	return a / b, nil
}

// compare builds a chained numeric comparison: (< a b c) is a<b && b<c.
func compare(name string, ok func(c int) bool) func(args ...Value) (Value, error) {
	return func(args ...Value) (Value, error) {
		if len(args) == 0 {
			return nil, errors.Wrap(ErrArgCount, "%v: want at least 1", name)
		}

		ns, err := numbers(args)
		if err != nil {
			return nil, err
		}

		for i := 1; i < len(ns); i++ {
			if !ok(ns[i-1].cmp(ns[i])) {
				return false, nil
			}
		}

		return true, nil
	}
}
