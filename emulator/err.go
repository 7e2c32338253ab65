package emulator

import (
	"github.com/ezrec/pasm/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// Index returns the zero-based index of the faulting line.
func (err *ErrRuntime) Index() int {
	return err.LineNo - 1
}
