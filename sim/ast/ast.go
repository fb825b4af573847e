package ast

type (
	Node interface {
		Span() Base
	}

	Base struct {
		Pos int
		End int
	}

	Ident struct {
		Base `tlog:",embed"`

		Name string
	}

	Int struct {
		Base `tlog:",embed"`

		Value int64
	}

	Float struct {
		Base `tlog:",embed"`

		Value float64
	}

	String struct {
		Base `tlog:",embed"`

		Value string
	}

	List struct {
		Base `tlog:",embed"`

		Items []Node
	}
)

func (b Base) Span() Base { return b }

// Head returns the list's first element name if it is an identifier.
func (l List) Head() (string, bool) {
	if len(l.Items) == 0 {
		return "", false
	}

	id, ok := l.Items[0].(Ident)

	return id.Name, ok
}

// Tagged reports whether l is a two element list (tag x).
func (l List) Tagged(tag string) (Node, bool) {
	if len(l.Items) != 2 {
		return nil, false
	}

	if h, ok := l.Head(); !ok || h != tag {
		return nil, false
	}

	return l.Items[1], true
}
