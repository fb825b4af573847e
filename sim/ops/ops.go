package ops

import (
	"bufio"
	"io"

	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/machine"
)

type (
	Value = machine.Value

	// Option configures Standard.
	Option interface{ apply(e *env) }

	env struct {
		out io.Writer
		in  *reader
	}

	outputOption struct{ io.Writer }
	inputOption  struct{ io.Reader }
)

var (
	ErrArgCount         = errors.New("wrong number of arguments")
	ErrArgType          = errors.New("wrong argument type")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrNoInput          = errors.New("no input")
)

// WithOutput sets where print writes. Output is discarded by default.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithInput sets where read takes data from. read fails by default.
func WithInput(r io.Reader) Option { return inputOption{r} }

func (o outputOption) apply(e *env) { e.out = o.Writer }

func (o inputOption) apply(e *env) {
	if o.Reader == nil {
		e.in = nil
		return
	}

	e.in = &reader{r: bufio.NewReader(o.Reader)}
}

// Standard returns a fresh table of the standard operations.
func Standard(opts ...Option) machine.OpTable {
	e := &env{out: io.Discard}

	for _, o := range opts {
		if o != nil {
			o.apply(e)
		}
	}

	return machine.OpTable{
		"+":        add,
		"-":        sub,
		"*":        mul,
		"/":        div,
		"rem":      rem,
		"quotient": quotient,

		"=":  compare("=", func(c int) bool { return c == 0 }),
		"<":  compare("<", func(c int) bool { return c < 0 }),
		">":  compare(">", func(c int) bool { return c > 0 }),
		"<=": compare("<=", func(c int) bool { return c <= 0 }),
		">=": compare(">=", func(c int) bool { return c >= 0 }),

		"not":   not,
		"eq?":   eqp,
		"null?": nullp,
		"pair?": pairp,

		"cons": cons,
		"car":  car,
		"cdr":  cdr,
		"list": list,

		"print": e.print,
		"read":  e.read,
	}
}

// Select returns the subset of table named by names.
// Empty names selects everything.
func Select(table machine.OpTable, names []string) (machine.OpTable, error) {
	if len(names) == 0 {
		return table, nil
	}

	r := make(machine.OpTable, len(names))

	for _, name := range names {
		op, ok := table[name]
		if !ok {
			return nil, errors.Wrap(ErrUnknownOperation, "%v", name)
		}

		r[name] = op
	}

	return r, nil
}

func argc(args []Value, n int) error {
	if len(args) != n {
		return errors.Wrap(ErrArgCount, "want %d, got %d", n, len(args))
	}

	return nil
}

func not(args ...Value) (Value, error) {
	if err := argc(args, 1); err != nil {
		return nil, err
	}

	return !machine.Truthy(args[0]), nil
}

func eqp(args ...Value) (Value, error) {
	if err := argc(args, 2); err != nil {
		return nil, err
	}

	return eq(args[0], args[1]), nil
}

// eq is identity for pairs and plain equality for everything else.
// Values of uncomparable types are never eq.
func eq(a, b Value) (r bool) {
	if isNull(a) && isNull(b) {
		return true
	}

	defer func() {
		if recover() != nil {
			r = false
		}
	}()

	return a == b
}
