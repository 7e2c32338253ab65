package io

import (
	"errors"

	"github.com/ezrec/pasm/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrInputEnd = errors.New(f("end of numeric input"))
)

type ErrParseInput string

func (err ErrParseInput) Error() string {
	return f("input '%v' is not a 32-bit integer", string(err))
}
