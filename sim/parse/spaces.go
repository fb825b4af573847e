package parse

type (
	Spaces uint64

	// Blanks skips spaces and ; line comments.
	Blanks struct {
		Spaces Spaces
	}
)

var (
	SpaceAll = NewSpaces(' ', '\t', '\r', '\n', '\f', '\v')

	Blank = Blanks{Spaces: SpaceAll}
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Is(c byte) bool {
	return c < 64 && s&(1<<c) != 0
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && s.Is(b[i]) {
		i++
	}

	return
}

func (s Blanks) Skip(b []byte, st int) (i int) {
	i = s.Spaces.Skip(b, st)

	for i < len(b) && b[i] == ';' {
		for i < len(b) && b[i] != '\n' {
			i++
		}

		i = s.Spaces.Skip(b, i)
	}

	return i
}
