// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/ezrec/pasm/cpu"
	"github.com/ezrec/pasm/diag"
	"github.com/ezrec/pasm/emulator"
)

const EXIT_USAGE = 2

// defineFlags collects -D NAME=VALUE predefines.
type defineFlags map[string]string

func (df defineFlags) String() string {
	var defs []string
	for name, value := range df {
		defs = append(defs, name+"="+value)
	}
	return strings.Join(defs, ",")
}

func (df defineFlags) Set(text string) error {
	name, value, ok := strings.Cut(text, "=")
	if !ok || len(name) == 0 {
		return fmt.Errorf("%v: expected NAME=VALUE", text)
	}
	df[name] = value
	return nil
}

// ErrUsage is a command line misuse, reported without source context.
type ErrUsage string

func (err ErrUsage) Error() string {
	return string(err)
}

const (
	ErrNoFile      = ErrUsage("no file supplied")
	ErrTooManyArgs = ErrUsage("too many arguments")
	ErrSizeInvalid = ErrUsage("-m and -j must be positive")
)

// checkArgs validates the positional arguments and machine sizes, returning
// the source file name.
func checkArgs(args []string, memory int, jumps int) (source string, err error) {
	switch len(args) {
	case 0:
		err = ErrNoFile
		return
	case 1:
		// pass
	default:
		err = ErrTooManyArgs
		return
	}

	if memory <= 0 || jumps <= 0 {
		err = ErrSizeInvalid
		return
	}

	source = args[0]
	return
}

// load assembles the named source file.
func load(asm *cpu.Assembler, source string) (prog *cpu.Program, err error) {
	inf, err := os.Open(source)
	if err != nil {
		return
	}
	defer inf.Close()

	return asm.Parse(inf)
}

func main() {
	var listing bool
	var input string
	var verbose bool
	var memory int
	var jumps int
	defines := defineFlags{}

	flag.BoolVar(&listing, "l", false, "List the resolved program, do not execute")
	flag.StringVar(&input, "i", "-", "Numeric input")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.IntVar(&memory, "m", cpu.MEMORY_SIZE, "Memory cells")
	flag.IntVar(&jumps, "j", cpu.JUMP_BUFFER_SIZE, "Jump buffer entries")
	flag.Var(defines, "D", "Predefine NAME=VALUE for $(...) expressions")

	flag.Parse()

	source, err := checkArgs(flag.Args(), memory, jumps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		atexit.Exit(EXIT_USAGE)
	}

	report := diag.NewReporter()

	emu := emulator.NewEmulator(memory, jumps)
	emu.Verbose = verbose
	emu.Tape.Output = os.Stdout
	atexit.Register(func() { emu.Close() })

	asm := &cpu.Assembler{Verbose: verbose, MemorySize: memory}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}
	for name, value := range defines {
		asm.Predefine(name, value)
	}

	prog, err := load(asm, source)
	var syntax *cpu.ErrSyntax
	switch {
	case errors.As(err, &syntax):
		report.Fatal(asm.Lines, err)
	case err != nil:
		atexit.Fatalf("%v: could not open file: %v", os.Args[0], err)
	}

	if listing {
		prog.Listing(os.Stdout)
		atexit.Exit(0)
	}

	if input == "-" {
		emu.Tape.Input = os.Stdin
	} else {
		numbers, err := os.Open(input)
		if err != nil {
			atexit.Fatalf("%v: %v", input, err)
		}
		defer numbers.Close()
		emu.Tape.Input = numbers
	}

	emu.Program = prog
	emu.Reset()

	err = emu.Run()
	if err != nil {
		emu.Close()
		report.Fatal(prog.Lines, err)
	}

	atexit.Exit(0)
}
