package ast

import (
	"strconv"

	"github.com/nikandfor/hacked/hfmt"
)

// Format appends the textual form of n to b.
func Format(b []byte, n Node) []byte {
	switch n := n.(type) {
	case Ident:
		return append(b, n.Name...)
	case Int:
		return strconv.AppendInt(b, n.Value, 10)
	case Float:
		st := len(b)
		b = strconv.AppendFloat(b, n.Value, 'g', -1, 64)

		if isIntText(b[st:]) {
			b = append(b, ".0"...)
		}

		return b
	case String:
		return appendString(b, n.Value)
	case List:
		if q, ok := n.Tagged("quote"); ok {
			b = append(b, '\'')
			return Format(b, q)
		}

		b = append(b, '(')

		for i, x := range n.Items {
			if i != 0 {
				b = append(b, ' ')
			}

			b = Format(b, x)
		}

		return append(b, ')')
	default:
		return hfmt.Appendf(b, "#<%T>", n)
	}
}

func Text(n Node) string {
	return string(Format(nil, n))
}

func isIntText(b []byte) bool {
	for i, c := range b {
		if c == '-' && i == 0 {
			continue
		}

		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

func appendString(b []byte, s string) []byte {
	b = append(b, '"')

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			b = append(b, '\\', c)
		default:
			b = append(b, c)
		}
	}

	return append(b, '"')
}
