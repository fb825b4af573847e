package machine

import "github.com/slowlang/rms/sim/ast"

type (
	// Instruction is one assembled controller instruction.
	Instruction struct {
		Index  int
		Source ast.Node
		Text   string

		Exec Executable
	}

	// Executable is one of Assign, Test, Branch, Goto, Save, Restore or Perform.
	Executable interface {
		Tag() string
	}

	// Expr is one of Const, LabelRef, RegRef or *OpExp.
	Expr interface {
		expr()
	}

	Assign struct {
		Target RegRef
		Value  Expr
	}

	Test struct {
		Cond *OpExp
	}

	Branch struct {
		Label string
		Dest  Seq
	}

	// Goto jumps to Dest, or through Reg when it is set.
	Goto struct {
		Label string
		Dest  Seq
		Reg   *RegRef
	}

	Save struct {
		Reg RegRef
	}

	Restore struct {
		Reg RegRef
	}

	Perform struct {
		Action *OpExp
	}

	Const struct {
		Value Value
	}

	LabelRef struct {
		Name string
		Dest Seq
	}

	// RegRef names a register. reg is nil if the register
	// did not exist at assembly time.
	RegRef struct {
		Name string
		reg  *Register
	}

	// OpExp is ((op Name) Args...).
	// The operation is looked up by Name every time it runs.
	OpExp struct {
		Name string
		Args []Expr
	}
)

func (Assign) Tag() string  { return "assign" }
func (Test) Tag() string    { return "test" }
func (Branch) Tag() string  { return "branch" }
func (Goto) Tag() string    { return "goto" }
func (Save) Tag() string    { return "save" }
func (Restore) Tag() string { return "restore" }
func (Perform) Tag() string { return "perform" }

func (Const) expr()    {}
func (LabelRef) expr() {}
func (RegRef) expr()   {}
func (*OpExp) expr()   {}
