package machine

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Coverage is a bitmap of instruction indexes that have been executed.
	Coverage struct {
		b []uint64
	}
)

func (s *Coverage) Set(i int) {
	i, j := s.ij(i)

	s.grow(i)

	s.b[i] |= 1 << j
}

func (s *Coverage) IsSet(i int) bool {
	i, j := s.ij(i)

	if i >= len(s.b) {
		return false
	}

	return (s.b[i] & (1 << j)) != 0
}

// Size is the number of executed instructions.
func (s *Coverage) Size() (r int) {
	if s == nil {
		return 0
	}

	for _, c := range s.b {
		r += bits.OnesCount64(c)
	}

	return r
}

func (s *Coverage) Reset() {
	for i := range s.b {
		s.b[i] = 0
	}
}

func (s *Coverage) Range(f func(i int) bool) {
	for i, x := range s.b {
		for x != 0 {
			j := bits.TrailingZeros64(x)
			x &^= 1 << j

			if !f(i*64 + j) {
				return
			}
		}
	}
}

// Missing returns indexes below n that were never executed.
func (s *Coverage) Missing(n int) (r []int) {
	for i := 0; i < n; i++ {
		if !s.IsSet(i) {
			r = append(r, i)
		}
	}

	return r
}

func (s *Coverage) Copy() Coverage {
	return Coverage{b: append([]uint64{}, s.b...)}
}

func (s Coverage) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if s.b == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(i int) bool {
		b = e.AppendInt(b, i)

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func (s *Coverage) ij(pos int) (i int, j int) {
	i, j = pos/64, pos%64

	return i, j
}

func (s *Coverage) grow(i int) {
	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}
