package machine

import "nikand.dev/go/heap"

type (
	// Hot is an instruction with its execution count.
	Hot struct {
		Index int
		Count int
		Text  string
	}
)

// Profile returns up to n most executed instructions, most executed first.
// Ties are ordered by index. n <= 0 means all executed instructions.
func (m *Machine) Profile(n int) []Hot {
	h := heap.Heap[Hot]{Less: hotLess}

	for i, c := range m.counts {
		if c == 0 {
			continue
		}

		h.Push(Hot{Index: i, Count: c, Text: m.prog.Insts[i].Text})
	}

	if n <= 0 || n > h.Len() {
		n = h.Len()
	}

	r := make([]Hot, 0, n)

	for len(r) < n {
		r = append(r, h.Pop())
	}

	return r
}

func hotLess(d []Hot, i, j int) bool {
	if d[i].Count != d[j].Count {
		return d[i].Count > d[j].Count
	}

	return d[i].Index < d[j].Index
}
