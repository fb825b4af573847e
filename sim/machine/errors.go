package machine

import (
	"fmt"

	"tlog.app/go/errors"
)

// Assembly errors.
var (
	ErrDuplicateLabel        = errors.New("duplicate label")
	ErrUnresolvedLabel       = errors.New("unresolved label")
	ErrDuplicateRegister     = errors.New("duplicate register")
	ErrUnknownInstruction    = errors.New("unknown instruction")
	ErrBadAssignInstruction  = errors.New("bad assign instruction")
	ErrBadTestExpression     = errors.New("bad test expression")
	ErrBadBranchInstruction  = errors.New("bad branch instruction")
	ErrBadGotoInstruction    = errors.New("bad goto instruction")
	ErrBadSaveInstruction    = errors.New("bad save instruction")
	ErrBadRestoreInstruction = errors.New("bad restore instruction")
	ErrBadPerformInstruction = errors.New("bad perform instruction")
	ErrBadExpression         = errors.New("bad expression")
	ErrBadController         = errors.New("controller is not a list")
)

// Run-time errors.
var (
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrOperationNotFound = errors.New("operation not found")
	ErrUnknownRegister   = errors.New("unknown register")
	ErrBadJumpTarget     = errors.New("bad jump target")
)

type (
	// AssemblyError is returned by New when the controller can't be assembled.
	// Pos is the element position in the controller list.
	AssemblyError struct {
		Pos  int
		Text string
		Err  error
	}

	// RuntimeError is returned by Start and Step.
	// Index is the failed instruction index, pc still points at it.
	RuntimeError struct {
		Index int
		Text  string
		Err   error
	}

	// OperationPanicError is a recovered panic from a host operation.
	OperationPanicError struct {
		Name  string
		Value any
		Stack []byte
	}
)

func (e *AssemblyError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("assemble: %v", e.Err)
	}

	return fmt.Sprintf("assemble: element %d %s: %v", e.Pos, e.Text, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("instruction %d %s: %v", e.Index, e.Text, e.Err)
}

func (e *RuntimeError) Unwrap() error { return e.Err }

func (e *OperationPanicError) Error() string {
	return fmt.Sprintf("operation %v panicked: %v", e.Name, e.Value)
}

func (e *OperationPanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
