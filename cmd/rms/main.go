package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/rms/sim"
	"github.com/slowlang/rms/sim/ast"
	"github.com/slowlang/rms/sim/config"
	"github.com/slowlang/rms/sim/format"
	"github.com/slowlang/rms/sim/machine"
	"github.com/slowlang/rms/sim/ops"
	"github.com/slowlang/rms/sim/parse"
)

func main() {
	runCmd := &cli.Command{
		Name:        "run",
		Description: "run a machine file or a bare controller",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("regs", "", "comma separated register names, inferred from the controller if empty"),
			cli.NewFlag("set", "", "initial register values: a=206,b=40"),
			cli.NewFlag("print", "", "registers to print after the run"),
			cli.NewFlag("stats", false, "print execution statistics"),
			cli.NewFlag("coverage", false, "print instructions never executed"),
			cli.NewFlag("profile", 0, "print N most executed instructions"),
		},
	}

	listCmd := &cli.Command{
		Name:        "list",
		Description: "print assembled program",
		Action:      listAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("regs", "", "comma separated register names"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "print parsed controller text",
		Action:      parseAct,
		Args:        cli.Args{},
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "validate and assemble machine files",
		Action:      checkAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "rms",
		Description: "rms is a register machine simulator",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("v", "", "verbosity topics: asm,exec,ops"),
			cli.NewFlag("log", "stderr", "log destination"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			runCmd,
			listCmd,
			parseCmd,
			checkCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	w := os.Stderr

	if name := c.String("log"); name != "" && name != "stderr" {
		f, err := os.Create(name)
		if err != nil {
			return errors.Wrap(err, "open log")
		}

		w = f
	}

	tlog.DefaultLogger = tlog.New(tlog.NewConsoleWriter(w, tlog.LstdFlags))

	tlog.SetVerbosity(c.String("v"))

	return nil
}

func runAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	if len(c.Args) != 1 {
		return errors.New("expected one file, got %d", len(c.Args))
	}

	m, cfg, err := load(ctx, c, c.Args[0])
	if err != nil {
		return err
	}

	vals, err := config.ParseAssignments(c.String("set"))
	if err != nil {
		return errors.Wrap(err, "set")
	}

	err = sim.Init(m, vals)
	if err != nil {
		return err
	}

	err = m.Start(ctx)
	if err != nil {
		return errors.Wrap(err, "run %v", c.Args[0])
	}

	r := format.Report{
		Registers: append(cfg.Print, config.SplitList(c.String("print"))...),
		Stats:     c.Bool("stats"),
		Coverage:  c.Bool("coverage"),
		Profile:   c.Int("profile"),
	}

	b, err := format.AppendReport(ctx, nil, m, r)
	if err != nil {
		return errors.Wrap(err, "report")
	}

	_, err = os.Stdout.Write(b)

	return err
}

func listAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		m, _, err := load(ctx, c, a)
		if err != nil {
			return err
		}

		b, err := format.Format(ctx, nil, m.Program())
		if err != nil {
			return errors.Wrap(err, "format %v", a)
		}

		fmt.Printf("%s", b)
	}

	return nil
}

func parseAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	for _, a := range c.Args {
		x, err := parse.ParseFile(ctx, a)
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}

		fmt.Printf("%s\n", ast.Format(nil, x))
	}

	return nil
}

func checkAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var errs *multierror.Error

	for _, a := range c.Args {
		m, _, err := sim.LoadFile(ctx, a)
		if err != nil {
			errs = multierror.Append(errs, errors.Wrap(err, "%v", a))
			continue
		}

		fmt.Printf("%v: ok, %d instructions, %d registers\n", a, len(m.Program().Insts), len(m.Registers()))
	}

	return errs.ErrorOrNil()
}

// load reads a machine file or a bare controller.
// Output of print and input of read are the process stdio.
func load(ctx context.Context, c *cli.Command, name string) (*machine.Machine, *config.Config, error) {
	var cfg *config.Config

	if config.IsConfigFile(name) {
		var err error

		cfg, err = config.Load(name)
		if err != nil {
			return nil, nil, err
		}
	} else {
		cfg = &config.Config{
			Controller: filepath.Base(name),
			Dir:        filepath.Dir(name),
		}
	}

	if regs := config.SplitList(c.String("regs")); regs != nil {
		cfg.Registers = regs
	}

	m, err := sim.Load(ctx, cfg, ops.WithOutput(os.Stdout), ops.WithInput(os.Stdin))
	if err != nil {
		return nil, nil, errors.Wrap(err, "load %v", name)
	}

	return m, cfg, nil
}
