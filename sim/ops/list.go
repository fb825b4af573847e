package ops

import (
	"tlog.app/go/errors"
)

type (
	// Pair is a cons cell. Lists are chains of pairs ending with nil.
	Pair struct {
		Car Value
		Cdr Value
	}
)

// List builds a proper list of vals.
func List(vals ...Value) Value {
	var r Value

	for i := len(vals) - 1; i >= 0; i-- {
		r = &Pair{Car: vals[i], Cdr: r}
	}

	return r
}

// isNull reports whether v is the empty list.
// Quoted constants arrive as slices, so an empty slice counts too.
func isNull(v Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case []any:
		return len(v) == 0
	}

	return false
}

func isPair(v Value) bool {
	switch v := v.(type) {
	case *Pair:
		return v != nil
	case []any:
		return len(v) != 0
	}

	return false
}

func cons(args ...Value) (Value, error) {
	if err := argc(args, 2); err != nil {
		return nil, err
	}

	return &Pair{Car: args[0], Cdr: args[1]}, nil
}

func car(args ...Value) (Value, error) {
	if err := argc(args, 1); err != nil {
		return nil, err
	}

	switch p := args[0].(type) {
	case *Pair:
		if p != nil {
			return p.Car, nil
		}
	case []any:
		if len(p) != 0 {
			return p[0], nil
		}
	}

	return nil, errors.Wrap(ErrArgType, "car: want pair, got %v", Format(args[0]))
}

func cdr(args ...Value) (Value, error) {
	if err := argc(args, 1); err != nil {
		return nil, err
	}

	switch p := args[0].(type) {
	case *Pair:
		if p != nil {
			return p.Cdr, nil
		}
	case []any:
		if len(p) != 0 {
			return p[1:], nil
		}
	}

	return nil, errors.Wrap(ErrArgType, "cdr: want pair, got %v", Format(args[0]))
}

func list(args ...Value) (Value, error) {
	return List(args...), nil
}

func nullp(args ...Value) (Value, error) {
	if err := argc(args, 1); err != nil {
		return nil, err
	}

	return isNull(args[0]), nil
}

func pairp(args ...Value) (Value, error) {
	if err := argc(args, 1); err != nil {
		return nil, err
	}

	return isPair(args[0]), nil
}
