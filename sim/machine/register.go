package machine

type (
	Register struct {
		name  string
		value Value
	}

	// Stack is the machine control stack.
	// It also keeps push statistics until Reset.
	Stack struct {
		vals []Value

		pushes   int
		maxDepth int
	}
)

func NewRegister(name string) *Register {
	return &Register{name: name}
}

func (r *Register) Name() string { return r.name }

func (r *Register) Get() Value { return r.value }

func (r *Register) Set(v Value) { r.value = v }

func NewStack() *Stack {
	return &Stack{}
}

func (s *Stack) Push(v Value) {
	s.vals = append(s.vals, v)

	s.pushes++
	if len(s.vals) > s.maxDepth {
		s.maxDepth = len(s.vals)
	}
}

func (s *Stack) Pop() (Value, error) {
	i := len(s.vals) - 1
	if i < 0 {
		return nil, ErrStackUnderflow
	}

	v := s.vals[i]
	s.vals[i] = nil
	s.vals = s.vals[:i]

	return v, nil
}

func (s *Stack) Len() int { return len(s.vals) }

// Values returns a copy of the stack contents, bottom first.
func (s *Stack) Values() []Value {
	return append([]Value{}, s.vals...)
}

// Reset empties the stack and clears push statistics.
func (s *Stack) Reset() {
	s.vals = nil
	s.pushes = 0
	s.maxDepth = 0
}
