package machine

import (
	"context"
	"runtime/debug"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/rms/sim/ast"
)

type (
	// Machine is an assembled register machine.
	// It's not safe for concurrent use.
	Machine struct {
		pc    *Register
		flag  *Register
		stack *Stack

		regs  map[string]*Register
		order []string

		host      Ops
		builtin   OpTable
		installed OpTable

		prog *Program

		halting bool

		executed int
		counts   []int
		coverage Coverage
	}
)

// Reserved register names.
const (
	PC   = "pc"
	Flag = "flag"
)

// New allocates registers, seeds the operation table with ops plus the
// built-in initialize, assembles controller and points pc at its first
// instruction. ops is consulted every time an operation runs,
// so the host may add or replace entries between runs.
func New(ctx context.Context, registers []string, ops Ops, controller ast.Node) (m *Machine, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "machine: new", "registers", registers)
	defer tr.Finish("err", &err)

	m = &Machine{
		pc:        NewRegister(PC),
		flag:      NewRegister(Flag),
		stack:     NewStack(),
		regs:      make(map[string]*Register),
		host:      ops,
		installed: make(OpTable),
	}

	m.regs[PC] = m.pc
	m.regs[Flag] = m.flag

	m.builtin = OpTable{
		"initialize": func(args ...Value) (Value, error) {
			m.stack.Reset()
			return nil, nil
		},
	}

	for _, name := range registers {
		if _, err := m.AllocateRegister(name); err != nil {
			return nil, &AssemblyError{Pos: -1, Err: err}
		}
	}

	m.prog, err = m.assemble(ctx, controller)
	if err != nil {
		return nil, err
	}

	m.counts = make([]int, len(m.prog.Insts))
	m.pc.Set(m.prog.Entry())

	return m, nil
}

// AllocateRegister adds a register.
// Instructions assembled before the register existed find it at run time.
func (m *Machine) AllocateRegister(name string) (*Register, error) {
	if _, ok := m.regs[name]; ok {
		return nil, errors.Wrap(ErrDuplicateRegister, "register %v", name)
	}

	r := NewRegister(name)

	m.regs[name] = r
	m.order = append(m.order, name)

	return r, nil
}

func (m *Machine) GetRegister(name string) (*Register, error) {
	r, ok := m.regs[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownRegister, "register %v", name)
	}

	return r, nil
}

// Registers returns user register names in allocation order.
func (m *Machine) Registers() []string {
	return append([]string{}, m.order...)
}

func (m *Machine) Stack() *Stack { return m.stack }

func (m *Machine) Program() *Program { return m.prog }

// PC returns the remaining instruction sequence.
// ok is false if the host stored something else in pc.
func (m *Machine) PC() (s Seq, ok bool) {
	s, ok = m.pc.Get().(Seq)
	return
}

// Halted reports whether there is nothing left to execute.
func (m *Machine) Halted() bool {
	s, ok := m.PC()

	return ok && s.Empty()
}

// Rewind points pc back at the first instruction.
func (m *Machine) Rewind() {
	m.halting = false
	m.pc.Set(m.prog.Entry())
}

// InstallOperation adds or replaces an operation.
// It takes precedence over the table given to New.
func (m *Machine) InstallOperation(name string, op Op) {
	tlog.V("ops").Printw("install operation", "op", name, "from", loc.Caller(1))

	m.installed[name] = op
}

// Halt makes the machine stop once the current instruction completes.
// Host operations call it to end a run early.
// It has no effect if called between instructions.
func (m *Machine) Halt() {
	m.halting = true
}

// Start runs until pc is empty or an instruction fails.
// There is no step limit, ctx is only used for tracing.
func (m *Machine) Start(ctx context.Context) (err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "machine: start")

	executed := m.executed
	defer func() {
		tr.Finish("err", err, "executed", m.executed-executed, "stack_depth", m.stack.Len())
	}()

	for {
		more, err := m.step(tr)
		if err != nil {
			return err
		}

		if !more {
			return nil
		}
	}
}

// Step executes a single instruction.
// It returns false if the machine was already halted.
func (m *Machine) Step(ctx context.Context) (bool, error) {
	return m.step(tlog.SpanFromContext(ctx))
}

func (m *Machine) step(tr tlog.Span) (bool, error) {
	pc, ok := m.PC()
	if !ok || pc.prog != m.prog {
		return false, &RuntimeError{Index: -1, Err: errors.Wrap(ErrBadJumpTarget, "pc holds %T", m.pc.Get())}
	}

	if pc.Empty() {
		return false, nil
	}

	in := pc.Head()

	m.halting = false

	if tr.If("exec") {
		tr.Printw("exec", "pc", in.Index, "inst", in.Text, "flag", m.flag.Get(), "stack_depth", m.stack.Len())
	}

	err := m.execute(in, pc)
	if err != nil {
		m.halting = false

		return false, &RuntimeError{Index: in.Index, Text: in.Text, Err: err}
	}

	m.executed++
	m.counts[in.Index]++
	m.coverage.Set(in.Index)

	if m.halting {
		m.halting = false
		m.pc.Set(Seq{prog: m.prog, off: len(m.prog.Insts)})

		tr.Printw("halted by operation", "pc", in.Index)
	}

	return true, nil
}

// execute runs one instruction. On error neither registers nor the stack
// have been changed and pc still points at the instruction.
func (m *Machine) execute(in *Instruction, pc Seq) error {
	switch x := in.Exec.(type) {
	case Assign:
		r, err := m.register(x.Target)
		if err != nil {
			return err
		}

		v, err := m.eval(x.Value)
		if err != nil {
			return err
		}

		r.Set(v)
	case Test:
		v, err := m.call(x.Cond)
		if err != nil {
			return err
		}

		m.flag.Set(v)
	case Branch:
		if Truthy(m.flag.Get()) {
			m.pc.Set(x.Dest)
			return nil
		}
	case Goto:
		if x.Reg == nil {
			m.pc.Set(x.Dest)
			return nil
		}

		r, err := m.register(*x.Reg)
		if err != nil {
			return err
		}

		dest, ok := r.Get().(Seq)
		if !ok || dest.prog != m.prog {
			return errors.Wrap(ErrBadJumpTarget, "register %v holds %v", x.Reg.Name, r.Get())
		}

		m.pc.Set(dest)

		return nil
	case Save:
		r, err := m.register(x.Reg)
		if err != nil {
			return err
		}

		m.stack.Push(r.Get())
	case Restore:
		r, err := m.register(x.Reg)
		if err != nil {
			return err
		}

		v, err := m.stack.Pop()
		if err != nil {
			return errors.Wrap(err, "restore %v", x.Reg.Name)
		}

		r.Set(v)
	case Perform:
		_, err := m.call(x.Action)
		if err != nil {
			return err
		}
	default:
		return errors.Wrap(ErrUnknownInstruction, "%T", in.Exec)
	}

	m.pc.Set(pc.Tail())

	return nil
}

func (m *Machine) eval(x Expr) (Value, error) {
	switch x := x.(type) {
	case Const:
		return x.Value, nil
	case LabelRef:
		return x.Dest, nil
	case RegRef:
		r, err := m.register(x)
		if err != nil {
			return nil, err
		}

		return r.Get(), nil
	case *OpExp:
		return m.call(x)
	default:
		return nil, errors.Wrap(ErrBadExpression, "%T", x)
	}
}

// call evaluates operands left to right and invokes the operation.
func (m *Machine) call(x *OpExp) (res Value, err error) {
	op, ok := m.lookup(x.Name)
	if !ok {
		return nil, errors.Wrap(ErrOperationNotFound, "op %v", x.Name)
	}

	args := make([]Value, len(x.Args))

	for i, a := range x.Args {
		args[i], err = m.eval(a)
		if err != nil {
			return nil, errors.Wrap(err, "op %v arg %d", x.Name, i)
		}
	}

	defer func() {
		p := recover()
		if p == nil {
			return
		}

		res = nil
		err = &OperationPanicError{Name: x.Name, Value: p, Stack: debug.Stack()}
	}()

	res, err = op(args...)
	if err != nil {
		return nil, errors.Wrap(err, "op %v", x.Name)
	}

	if tlog.If("ops") {
		tlog.Printw("op", "op", x.Name, "args", args, "res", res)
	}

	return res, nil
}

func (m *Machine) register(r RegRef) (*Register, error) {
	if r.reg != nil {
		return r.reg, nil
	}

	return m.GetRegister(r.Name)
}
