// Package io provides the I/O channels for the pasm machine: numeric input
// for getnum and text output for print.
package io

// Input supplies signed 32-bit numbers, one per request.
type Input interface {
	// ReadNumber blocks until the next number is available.
	ReadNumber() (value int32, err error)
}

// Output receives program text as it is printed.
type Output interface {
	// WriteText writes text verbatim.
	WriteText(text string) error
}
