package machine

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/rms/sim/ast"
)

type assembler struct {
	m    *Machine
	prog *Program

	tr tlog.Span
}

// assemble builds the label table, then compiles every instruction
// against the machine registers, operations and the full label table.
func (m *Machine) assemble(ctx context.Context, controller ast.Node) (_ *Program, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "machine: assemble")
	defer tr.Finish("err", &err)

	l, ok := controller.(ast.List)
	if !ok {
		return nil, &AssemblyError{Pos: -1, Err: errors.Wrap(ErrBadController, "got %T", controller)}
	}

	a := &assembler{
		m:    m,
		prog: &Program{Labels: make(map[string]Seq)},
		tr:   tr,
	}

	pos, err := a.extractLabels(l)
	if err != nil {
		return nil, err
	}

	for i, in := range a.prog.Insts {
		in.Exec, err = a.compile(in.Source.(ast.List))
		if err != nil {
			return nil, &AssemblyError{Pos: pos[i], Text: in.Text, Err: err}
		}

		if tr.If("asm") {
			tr.Printw("instruction", "index", in.Index, "tag", in.Exec.Tag(), "text", in.Text, "labels", a.prog.LabelsAt(i))
		}
	}

	tr.Printw("assembled", "instructions", len(a.prog.Insts), "labels", len(a.prog.Labels))

	return a.prog, nil
}

// extractLabels binds every label to the view that starts at the
// next instruction and collects instructions in order.
// It returns the controller position of every instruction.
func (a *assembler) extractLabels(l ast.List) (pos []int, err error) {
	p := a.prog

	for i, x := range l.Items {
		switch x := x.(type) {
		case ast.Ident:
			if _, ok := p.Labels[x.Name]; ok {
				return nil, &AssemblyError{Pos: i, Text: x.Name, Err: errors.Wrap(ErrDuplicateLabel, "label %v", x.Name)}
			}

			p.Labels[x.Name] = Seq{prog: p, off: len(p.Insts)}
		case ast.List:
			p.Insts = append(p.Insts, &Instruction{
				Index:  len(p.Insts),
				Source: x,
				Text:   ast.Text(x),
			})

			pos = append(pos, i)
		default:
			return nil, &AssemblyError{Pos: i, Text: ast.Text(x), Err: errors.Wrap(ErrUnknownInstruction, "%T", x)}
		}
	}

	return pos, nil
}

func (a *assembler) compile(l ast.List) (Executable, error) {
	tag, ok := l.Head()
	if !ok {
		return nil, ErrUnknownInstruction
	}

	args := l.Items[1:]

	switch tag {
	case "assign":
		return a.assign(args)
	case "test":
		return a.test(args)
	case "branch":
		return a.branch(args)
	case "goto":
		return a.gotoInst(args)
	case "save":
		r, ok := a.regArg(args)
		if !ok {
			return nil, ErrBadSaveInstruction
		}

		return Save{Reg: r}, nil
	case "restore":
		r, ok := a.regArg(args)
		if !ok {
			return nil, ErrBadRestoreInstruction
		}

		return Restore{Reg: r}, nil
	case "perform":
		return a.perform(args)
	default:
		return nil, errors.Wrap(ErrUnknownInstruction, "%v", tag)
	}
}

// (assign reg value-expr)
func (a *assembler) assign(args []ast.Node) (Executable, error) {
	if len(args) < 2 {
		return nil, ErrBadAssignInstruction
	}

	target, ok := args[0].(ast.Ident)
	if !ok {
		return nil, errors.Wrap(ErrBadAssignInstruction, "target is %v", ast.Text(args[0]))
	}

	val := args[1:]

	if isOperationExp(val) {
		op, err := a.operationExp(val)
		if err != nil {
			return nil, err
		}

		return Assign{Target: a.ref(target.Name), Value: op}, nil
	}

	if len(val) != 1 {
		return nil, errors.Wrap(ErrBadAssignInstruction, "%d value expressions", len(val))
	}

	x, err := a.primitive(val[0])
	if err != nil {
		return nil, err
	}

	return Assign{Target: a.ref(target.Name), Value: x}, nil
}

// (test op-expr)
func (a *assembler) test(args []ast.Node) (Executable, error) {
	if !isOperationExp(args) {
		return nil, ErrBadTestExpression
	}

	op, err := a.operationExp(args)
	if err != nil {
		return nil, err
	}

	return Test{Cond: op}, nil
}

// (branch (label L))
func (a *assembler) branch(args []ast.Node) (Executable, error) {
	name, ok := tagged(args, "label")
	if !ok {
		return nil, ErrBadBranchInstruction
	}

	dest, err := a.resolve(name)
	if err != nil {
		return nil, err
	}

	return Branch{Label: name, Dest: dest}, nil
}

// (goto (label L)) or (goto (reg R))
func (a *assembler) gotoInst(args []ast.Node) (Executable, error) {
	if name, ok := tagged(args, "label"); ok {
		dest, err := a.resolve(name)
		if err != nil {
			return nil, err
		}

		return Goto{Label: name, Dest: dest}, nil
	}

	if name, ok := tagged(args, "reg"); ok {
		r := a.ref(name)

		return Goto{Reg: &r}, nil
	}

	return nil, ErrBadGotoInstruction
}

// (perform op-expr)
func (a *assembler) perform(args []ast.Node) (Executable, error) {
	if !isOperationExp(args) {
		return nil, ErrBadPerformInstruction
	}

	op, err := a.operationExp(args)
	if err != nil {
		return nil, err
	}

	return Perform{Action: op}, nil
}

// operationExp compiles ((op name) primitive-exp...).
func (a *assembler) operationExp(x []ast.Node) (*OpExp, error) {
	head := x[0].(ast.List)

	name, ok := head.Items[1].(ast.Ident)
	if !ok {
		return nil, errors.Wrap(ErrBadExpression, "operation name %v", ast.Text(head.Items[1]))
	}

	e := &OpExp{
		Name: name.Name,
		Args: make([]Expr, len(x)-1),
	}

	if _, ok := a.m.lookup(name.Name); !ok && a.tr.If("asm") {
		a.tr.Printw("operation not in table yet", "op", name.Name)
	}

	for i, arg := range x[1:] {
		v, err := a.primitive(arg)
		if err != nil {
			return nil, errors.Wrap(err, "op %v arg %d", name.Name, i)
		}

		e.Args[i] = v
	}

	return e, nil
}

// primitive compiles (const v), (label L) or (reg R).
func (a *assembler) primitive(x ast.Node) (Expr, error) {
	l, ok := x.(ast.List)
	if !ok {
		return nil, errors.Wrap(ErrBadExpression, "%v", ast.Text(x))
	}

	if v, ok := l.Tagged("const"); ok {
		return Const{Value: ast.Datum(v)}, nil
	}

	if v, ok := l.Tagged("label"); ok {
		name, ok := v.(ast.Ident)
		if !ok {
			return nil, errors.Wrap(ErrBadExpression, "%v", ast.Text(x))
		}

		dest, err := a.resolve(name.Name)
		if err != nil {
			return nil, err
		}

		return LabelRef{Name: name.Name, Dest: dest}, nil
	}

	if v, ok := l.Tagged("reg"); ok {
		name, ok := v.(ast.Ident)
		if !ok {
			return nil, errors.Wrap(ErrBadExpression, "%v", ast.Text(x))
		}

		return a.ref(name.Name), nil
	}

	return nil, errors.Wrap(ErrBadExpression, "%v", ast.Text(x))
}

func (a *assembler) resolve(label string) (Seq, error) {
	dest, ok := a.prog.Label(label)
	if !ok {
		return Seq{}, errors.Wrap(ErrUnresolvedLabel, "label %v", label)
	}

	return dest, nil
}

func (a *assembler) ref(name string) RegRef {
	return RegRef{Name: name, reg: a.m.regs[name]}
}

// regArg accepts the single bare register name of save and restore.
func (a *assembler) regArg(args []ast.Node) (RegRef, bool) {
	if len(args) != 1 {
		return RegRef{}, false
	}

	name, ok := args[0].(ast.Ident)
	if !ok {
		return RegRef{}, false
	}

	return a.ref(name.Name), true
}

// tagged matches a single (tag name) argument.
func tagged(args []ast.Node, tag string) (string, bool) {
	if len(args) != 1 {
		return "", false
	}

	l, ok := args[0].(ast.List)
	if !ok {
		return "", false
	}

	v, ok := l.Tagged(tag)
	if !ok {
		return "", false
	}

	name, ok := v.(ast.Ident)

	return name.Name, ok
}

// isOperationExp reports whether x starts with (op name).
func isOperationExp(x []ast.Node) bool {
	if len(x) == 0 {
		return false
	}

	head, ok := x[0].(ast.List)
	if !ok || len(head.Items) != 2 {
		return false
	}

	tag, ok := head.Head()

	return ok && tag == "op"
}
