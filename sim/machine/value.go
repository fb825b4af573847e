package machine

import (
	"sort"

	"github.com/nikandfor/hacked/hfmt"
)

type (
	// Value is anything a register or the stack can hold:
	// int64, float64, bool, Seq, or a value returned by a host operation.
	Value = any

	// Program is the assembled instruction store owned by one Machine.
	Program struct {
		Insts  []*Instruction
		Labels map[string]Seq
	}

	// Seq is a view of the program suffix starting at an instruction.
	// The zero Seq is empty.
	Seq struct {
		prog *Program
		off  int
	}
)

// Truthy reports whether v counts as true for branch.
// Only false and nil are false.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	default:
		return true
	}
}

// Entry is the whole program.
func (p *Program) Entry() Seq {
	return Seq{prog: p}
}

func (p *Program) Label(name string) (Seq, bool) {
	s, ok := p.Labels[name]
	return s, ok
}

// LabelsAt returns labels bound to instruction offset off in name order.
func (p *Program) LabelsAt(off int) (names []string) {
	for name, s := range p.Labels {
		if s.off == off {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

func (s Seq) Empty() bool {
	return s.prog == nil || s.off >= len(s.prog.Insts)
}

func (s Seq) Head() *Instruction {
	if s.Empty() {
		return nil
	}

	return s.prog.Insts[s.off]
}

func (s Seq) Tail() Seq {
	if s.Empty() {
		return s
	}

	return Seq{prog: s.prog, off: s.off + 1}
}

func (s Seq) Offset() int { return s.off }

func (s Seq) Len() int {
	if s.Empty() {
		return 0
	}

	return len(s.prog.Insts) - s.off
}

func (s Seq) Program() *Program { return s.prog }

func (s Seq) String() string {
	if s.prog == nil {
		return "<seq>"
	}

	if l := s.prog.LabelsAt(s.off); len(l) != 0 {
		return string(hfmt.Appendf(nil, "<seq %v @%d>", l[0], s.off))
	}

	return string(hfmt.Appendf(nil, "<seq @%d>", s.off))
}
