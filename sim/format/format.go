package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/rms/sim/machine"
	"github.com/slowlang/rms/sim/ops"
)

type (
	// Report selects parts of a run summary.
	Report struct {
		Registers []string
		Stats     bool
		Coverage  bool
		Profile   int
	}
)

// Format appends a human readable listing of x.
func Format(ctx context.Context, b []byte, x any) ([]byte, error) {
	switch x := x.(type) {
	case *machine.Program:
		return formatProgram(ctx, b, x, 0)
	case *machine.Machine:
		return formatProgram(ctx, b, x.Program(), 0)
	case machine.Stats:
		return formatStats(b, x, 0), nil
	case []machine.Hot:
		return formatProfile(b, x, 0), nil
	default:
		return nil, errors.New("unsupported type: %T", x)
	}
}

// AppendReport appends what r asks for about m after a run.
func AppendReport(ctx context.Context, b []byte, m *machine.Machine, r Report) ([]byte, error) {
	for _, name := range r.Registers {
		reg, err := m.GetRegister(name)
		if err != nil {
			return b, err
		}

		b = app(b, 0, "%v = ", name)
		b = ops.AppendValue(b, reg.Get())
		b = append(b, '\n')
	}

	if r.Stats {
		b = app(b, 0, "stats:\n")
		b = formatStats(b, m.Stats(), 1)
	}

	if r.Coverage {
		b = formatCoverage(b, m, 0)
	}

	if r.Profile != 0 {
		b = app(b, 0, "profile:\n")
		b = formatProfile(b, m.Profile(r.Profile), 1)
	}

	return b, nil
}

func formatProgram(ctx context.Context, b []byte, p *machine.Program, d int) ([]byte, error) {
	for i, in := range p.Insts {
		b = formatLabels(b, p, i, d)

		if in.Exec == nil {
			return nil, errors.New("instruction %d is not assembled", i)
		}

		b = app(b, d+1, "%d\t%s\t%s\n", in.Index, in.Exec.Tag(), in.Text)
	}

	b = formatLabels(b, p, len(p.Insts), d)

	return b, nil
}

func formatLabels(b []byte, p *machine.Program, off, d int) []byte {
	for _, l := range p.LabelsAt(off) {
		b = app(b, d, "%s:\n", l)
	}

	return b
}

func formatStats(b []byte, s machine.Stats, d int) []byte {
	b = app(b, d, "executed\t%d\n", s.Executed)
	b = app(b, d, "pushes\t%d\n", s.Pushes)
	b = app(b, d, "max depth\t%d\n", s.MaxDepth)
	b = app(b, d, "depth\t%d\n", s.Depth)
	b = app(b, d, "covered\t%d/%d\n", s.Covered, s.Total)

	return b
}

func formatCoverage(b []byte, m *machine.Machine, d int) []byte {
	p := m.Program()
	c := m.Coverage()

	missing := c.Missing(len(p.Insts))

	b = app(b, d, "coverage: %d/%d\n", len(p.Insts)-len(missing), len(p.Insts))

	for _, i := range missing {
		b = app(b, d+1, "%d\t%s\n", i, p.Insts[i].Text)
	}

	return b
}

func formatProfile(b []byte, hot []machine.Hot, d int) []byte {
	for _, h := range hot {
		b = app(b, d, "%d\t%d\t%s\n", h.Count, h.Index, h.Text)
	}

	return b
}

func app(b []byte, d int, f string, args ...any) []byte {
	const tabs = "\t\t\t\t\t\t\t\t"
	b = append(b, tabs[:d]...)
	b = hfmt.Appendf(b, f, args...)
	return b
}
