package cpu

import (
	"errors"

	"github.com/ezrec/pasm/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty      = errors.New(f("ip empty"))
	ErrCellRange    = errors.New(f("cell out of range"))
	ErrDivideByZero = errors.New(f("division by zero"))
	ErrModuloByZero = errors.New(f("modulo by zero"))
	ErrOverflow     = errors.New(f("integer overflow"))
	ErrInputMissing = errors.New(f("no numeric input attached"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))

	// Assembler errors
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("missing argument"))
	ErrInstructionInvalid = errors.New(f("unknown instruction"))
	ErrQuoteMismatch      = errors.New(f("mismatched or unmatched quotation mark"))
	ErrMemoryFull         = errors.New(f("too many variables"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v undefined", string(el))
}

type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("bad instruction %v", Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax locates an assembly error in the source.
type ErrSyntax struct {
	LineNo int // 1-based line number.
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// Index returns the zero-based index of the faulting line.
func (err *ErrSyntax) Index() int {
	return err.LineNo - 1
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a 32-bit integer", string(err))
}

type ErrParseVariable string

func (err ErrParseVariable) Error() string {
	return f("'%v' is not a variable", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
