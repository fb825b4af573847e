package sim

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/rms/sim/ast"
	"github.com/slowlang/rms/sim/config"
	"github.com/slowlang/rms/sim/machine"
	"github.com/slowlang/rms/sim/ops"
	"github.com/slowlang/rms/sim/parse"
)

// CompileFile reads a controller file and assembles a machine for it.
// If regs is nil registers are inferred from the controller.
func CompileFile(ctx context.Context, name string, regs []string, table machine.Ops) (m *machine.Machine, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, regs, table)
}

func Compile(ctx context.Context, name string, text []byte, regs []string, table machine.Ops) (m *machine.Machine, err error) {
	st := parse.New()

	st.AddFile(name, text)

	x, err := st.Parse(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	if regs == nil {
		regs = InferRegisters(x)

		tlog.SpanFromContext(ctx).V("asm").Printw("inferred registers", "registers", regs)
	}

	m, err = machine.New(ctx, regs, table, x)
	if err != nil {
		return nil, errors.Wrap(err, "assemble")
	}

	return m, nil
}

// LoadFile loads a machine file, or a bare controller file
// with the standard operations and inferred registers.
func LoadFile(ctx context.Context, name string, opts ...ops.Option) (m *machine.Machine, c *config.Config, err error) {
	if config.IsConfigFile(name) {
		c, err = config.Load(name)
		if err != nil {
			return nil, nil, err
		}
	} else {
		c = &config.Config{
			Controller: filepath.Base(name),
			Dir:        filepath.Dir(name),
		}
	}

	m, err = Load(ctx, c, opts...)
	if err != nil {
		return nil, c, err
	}

	return m, c, nil
}

// Load builds a machine as c describes and sets its initial register values.
func Load(ctx context.Context, c *config.Config, opts ...ops.Option) (m *machine.Machine, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "sim: load", "controller", c.Controller, "dir", c.Dir)
	defer tr.Finish("err", &err)

	std := ops.Standard(opts...)

	err = c.Validate(func(op string) bool {
		_, ok := std.Lookup(op)
		return ok
	})
	if err != nil {
		return nil, errors.Wrap(err, "validate")
	}

	table, err := ops.Select(std, c.Operations)
	if err != nil {
		return nil, err
	}

	name, text, err := c.ControllerText()
	if err != nil {
		return nil, err
	}

	var regs []string
	if len(c.Registers) != 0 {
		regs = c.Registers
	}

	m, err = Compile(ctx, name, text, regs, table)
	if err != nil {
		return nil, err
	}

	err = Init(m, c.Init)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Init sets registers to values.
func Init(m *machine.Machine, values map[string]any) error {
	keys := make([]string, 0, len(values))

	for k := range values {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		r, err := m.GetRegister(k)
		if err != nil {
			return errors.Wrap(err, "init")
		}

		r.Set(values[k])
	}

	return nil
}

// InferRegisters collects register names a controller mentions,
// in order of appearance. pc and flag are skipped.
func InferRegisters(controller ast.Node) (regs []string) {
	l, ok := controller.(ast.List)
	if !ok {
		return nil
	}

	seen := map[string]bool{machine.PC: true, machine.Flag: true}

	add := func(n ast.Node) {
		id, ok := n.(ast.Ident)
		if !ok || seen[id.Name] {
			return
		}

		seen[id.Name] = true
		regs = append(regs, id.Name)
	}

	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		l, ok := n.(ast.List)
		if !ok {
			return
		}

		if r, ok := l.Tagged("reg"); ok {
			add(r)
			return
		}

		if _, ok := l.Tagged("const"); ok {
			return
		}

		for _, x := range l.Items {
			walk(x)
		}
	}

	for _, x := range l.Items {
		in, ok := x.(ast.List)
		if !ok || len(in.Items) < 2 {
			continue
		}

		switch tag, _ := in.Head(); tag {
		case "assign", "save", "restore":
			add(in.Items[1])
		}

		walk(in)
	}

	return regs
}
