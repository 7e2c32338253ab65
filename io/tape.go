package io

import (
	"bufio"
	"io"
	"iter"
	"maps"
	"strconv"
)

// Tape provides sequential numeric input and text output.
// Input is consumed one whitespace separated word at a time; output is
// written through as each print executes.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
}

// flusher is an Output that holds its own buffer.
type flusher interface {
	Flush() error
}

var _ Input = (*Tape)(nil)
var _ Output = (*Tape)(nil)

// Defines returns an iter of defines for the channel.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{})
}

// Rewind drops any buffered input, so that Input is read afresh.
func (tc *Tape) Rewind() {
	tc.scanner = nil
}

// ReadNumber reads the next word from the input as a signed 32-bit integer.
func (tc *Tape) ReadNumber() (value int32, err error) {
	err = tc.Flush()
	if err != nil {
		return
	}

	if tc.Input == nil {
		err = ErrInputEnd
		return
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
	}

	if !tc.scanner.Scan() {
		err = tc.scanner.Err()
		if err == nil {
			err = ErrInputEnd
		}
		return
	}

	word := tc.scanner.Text()
	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrParseInput(word)
		return
	}

	value = int32(v64)
	return
}

// WriteText writes text to the output immediately.
func (tc *Tape) WriteText(text string) (err error) {
	if tc.Output == nil {
		return
	}

	_, err = io.WriteString(tc.Output, text)
	if err != nil {
		return
	}

	return tc.Flush()
}

// Flush flushes the output, if it is itself buffered.
func (tc *Tape) Flush() (err error) {
	fl, ok := tc.Output.(flusher)
	if !ok {
		return
	}

	return fl.Flush()
}
