package machine

import "sort"

type (
	// Op is a host operation callable from op-expressions.
	Op func(args ...Value) (Value, error)

	// Ops is the operation table a host hands to New.
	Ops interface {
		Lookup(name string) (Op, bool)
	}

	OpTable map[string]Op
)

func (t OpTable) Lookup(name string) (Op, bool) {
	op, ok := t[name]
	return op, ok && op != nil
}

func (t OpTable) Names() []string {
	names := make([]string, 0, len(t))

	for name := range t {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// lookup resolves installed operations first, then the host table,
// then built-ins.
func (m *Machine) lookup(name string) (Op, bool) {
	if op, ok := m.installed.Lookup(name); ok {
		return op, true
	}

	if m.host != nil {
		if op, ok := m.host.Lookup(name); ok {
			return op, true
		}
	}

	return m.builtin.Lookup(name)
}
