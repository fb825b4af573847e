package ast

import "strings"

// Symbol is the run-time value of a quoted or constant identifier.
type Symbol string

func (s Symbol) String() string { return string(s) }

// Datum converts a parsed node into the plain value a machine stores:
// int64, float64, string, bool, Symbol, or []any for lists.
// (quote x) yields the datum of x.
func Datum(n Node) any {
	switch n := n.(type) {
	case Int:
		return n.Value
	case Float:
		return n.Value
	case String:
		return n.Value
	case Ident:
		switch strings.ToLower(n.Name) {
		case "#t", "true":
			return true
		case "#f", "false":
			return false
		}

		return Symbol(n.Name)
	case List:
		if q, ok := n.Tagged("quote"); ok {
			return Datum(q)
		}

		l := make([]any, len(n.Items))

		for i, x := range n.Items {
			l[i] = Datum(x)
		}

		return l
	default:
		return nil
	}
}
