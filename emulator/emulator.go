// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"iter"
	"log"

	"github.com/ezrec/pasm/cpu"
	"github.com/ezrec/pasm/internal"
	"github.com/ezrec/pasm/io"
)

// Emulator state. CPU + IO channels.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Tape io.Tape // Numeric input and text output.
}

// NewEmulator creates a new emulator with the given memory and jump buffer
// sizes. Zero selects the defaults.
func NewEmulator(memory int, jumps int) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(memory, jumps),
		Program: &cpu.Program{},
	}

	emu.Cpu.Input = &emu.Tape
	emu.Cpu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Tape.Defines(),
	)
}

// Close flushes pending output.
func (emu *Emulator) Close() (err error) {
	return emu.Tape.Flush()
}

// Reset the emulator state, and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Program = emu.Program
	emu.Cpu.Reset()
	emu.Tape.Rewind()

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return emu.Cpu.Ip
}

// LineNo returns the current line number for the executing instruction.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Instruction == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrIpEmpty) {
		err = emu.Tape.Flush()
		done = true
		return
	}

	return
}

// Run ticks the emulator until the program ends, or fails.
func (emu *Emulator) Run() (err error) {
	var done bool
	for !done {
		done, err = emu.Tick()
		if err != nil {
			if emu.Verbose {
				log.Printf("emulator: %v\n%v", err, emu.Cpu.String())
			}
			return
		}
	}

	return
}
