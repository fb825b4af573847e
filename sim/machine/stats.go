package machine

import "tlog.app/go/tlog/tlwire"

type (
	// Stats are execution counters since New or the last ResetStats.
	// Pushes and MaxDepth are also cleared by initialize.
	Stats struct {
		Executed int
		Pushes   int
		MaxDepth int
		Depth    int
		Covered  int
		Total    int
	}
)

func (m *Machine) Stats() Stats {
	return Stats{
		Executed: m.executed,
		Pushes:   m.stack.pushes,
		MaxDepth: m.stack.maxDepth,
		Depth:    m.stack.Len(),
		Covered:  m.coverage.Size(),
		Total:    len(m.prog.Insts),
	}
}

// Coverage returns a copy of executed instruction indexes.
func (m *Machine) Coverage() Coverage {
	return m.coverage.Copy()
}

// Counts returns per instruction execution counts.
func (m *Machine) Counts() []int {
	return append([]int{}, m.counts...)
}

// ResetStats clears counters and coverage. Stack contents are kept.
func (m *Machine) ResetStats() {
	m.executed = 0
	m.stack.pushes = 0
	m.stack.maxDepth = m.stack.Len()
	m.coverage.Reset()

	for i := range m.counts {
		m.counts[i] = 0
	}
}

func (s Stats) TlogAppend(b []byte) []byte {
	var e tlwire.Encoder

	b = e.AppendMap(b, 6)

	b = e.AppendKeyInt(b, "executed", s.Executed)
	b = e.AppendKeyInt(b, "pushes", s.Pushes)
	b = e.AppendKeyInt(b, "max_depth", s.MaxDepth)
	b = e.AppendKeyInt(b, "depth", s.Depth)
	b = e.AppendKeyInt(b, "covered", s.Covered)
	b = e.AppendKeyInt(b, "total", s.Total)

	return b
}
