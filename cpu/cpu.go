package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/ezrec/pasm/io"
)

//go:generate go tool mockgen -destination=mock_io_test.go -package=cpu github.com/ezrec/pasm/cpu Input,Output

// Input is the numeric input channel used by getnum.
type Input io.Input

// Output is the text output channel used by print.
type Output io.Output

// IP_HALT is the instruction pointer after an 'end'.
const IP_HALT = -1

// Cpu is the register machine executing a linked Program.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Program *Program // Program being executed.

	Ip     int        // Current instruction pointer.
	Memory Memory     // Memory cells.
	Jump   JumpBuffer // Return addresses.

	Input  Input        // Numeric input for getnum.
	Output Output       // Text output for print.
	Random func() int32 // Source for rand.

	Ticks int // Executed instruction counter.
}

// NewCpu creates a new CPU with a specific memory and jump buffer size.
func NewCpu(memory int, jumps int) (cpu *Cpu) {
	if memory <= 0 {
		memory = MEMORY_SIZE
	}

	cpu = &Cpu{
		Program: &Program{},
		Memory:  make(Memory, memory),
		Jump:    NewJumpBuffer(jumps),
		Random:  func() int32 { return int32(rand.Uint32()) },
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"MEMORY_SIZE":      strconv.Itoa(len(cpu.Memory)),
		"JUMP_BUFFER_SIZE": strconv.Itoa(cpu.Jump.Capacity()),
	})
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 8s: %d\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 8s: %d\n", "ticks", cpu.Ticks)
	if cpu.Jump.Capacity() > 0 {
		text += fmt.Sprintf("% 8s: %d (cursor %d)\n", "jump", cpu.Jump.Peek(), cpu.Jump.Cursor)
	}

	var names []string
	if cpu.Program != nil {
		names = cpu.Program.Variables
	}
	for cell, name := range names {
		if cell >= len(cpu.Memory) {
			break
		}
		text += fmt.Sprintf("% 8s: %d\n", name, cpu.Memory[cell])
	}

	return
}

// Reset the CPU state.
// - Clears memory and the jump buffer.
// - Zeros statistics counters.
// - Points the IP at the start sentinel.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Memory)
	cpu.Jump.Reset()
	cpu.Ip = 0
	cpu.Ticks = 0
}

// FetchCode fetches the instruction at the IP.
func (cpu *Cpu) FetchCode() (ins Instruction, err error) {
	if cpu.Program == nil || cpu.Ip < 0 || cpu.Ip >= len(cpu.Program.Instructions) {
		err = ErrIpEmpty
		return
	}

	ins = cpu.Program.Instructions[cpu.Ip]
	return
}

// Tick executes a single instruction. Returns ErrIpEmpty once the program
// has run off its end or executed 'end'.
func (cpu *Cpu) Tick() (err error) {
	ins, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(ins)
	return
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(ins Instruction) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(ins), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("%03d: %v", cpu.Ip, ins)
	}

	next_ip := cpu.Ip + 1

	jump := func(target int) {
		cpu.Jump.Push(cpu.Ip)
		next_ip = target + 1
	}

	switch ins.Op {
	case OP_START:
		// no-op
	case OP_GOTO:
		jump(ins.Label)
	case OP_CMP:
		var a, b int32
		a, err = cpu.Memory.Load(ins.Cell)
		if err != nil {
			return
		}
		b, err = cpu.getValue(ins.Operand)
		if err != nil {
			return
		}
		if (a == b) != ins.Invert {
			jump(ins.Label)
		}
	case OP_RET:
		next_ip = cpu.Jump.Pop() + 1
	case OP_END:
		next_ip = IP_HALT
	case OP_SET, OP_COPY, OP_CHANGE, OP_MUL, OP_DIV, OP_MOD, OP_ABS:
		var input, value int32
		input, err = cpu.Memory.Load(ins.Cell)
		if err != nil {
			return
		}
		if ins.Op != OP_ABS {
			value, err = cpu.getValue(ins.Operand)
			if err != nil {
				return
			}
		}
		var output int32
		output, err = cpu.doAlu(ins.Op, input, value)
		if err != nil {
			return
		}
		err = cpu.Memory.Store(ins.Cell, output)
	case OP_GETNUM:
		if cpu.Input == nil {
			err = ErrInputMissing
			return
		}
		var value int32
		value, err = cpu.Input.ReadNumber()
		if err != nil {
			return
		}
		err = cpu.Memory.Store(ins.Cell, value)
	case OP_RAND:
		err = cpu.Memory.Store(ins.Cell, cpu.Random())
	case OP_PRINT:
		text := ins.Text
		if ins.Cell != CELL_NONE {
			var value int32
			value, err = cpu.Memory.Load(ins.Cell)
			if err != nil {
				return
			}
			text = strconv.FormatInt(int64(value), 10) + text
		}
		if cpu.Output != nil {
			err = cpu.Output.WriteText(text)
		}
	default:
		err = ErrOpcodeDecode
	}

	if err != nil {
		return
	}

	cpu.Ip = next_ip
	cpu.Ticks++

	return
}

// getValue gets the value specified by the Operand.
func (cpu *Cpu) getValue(od Operand) (value int32, err error) {
	if od.Immediate {
		value = od.Value
		return
	}

	return cpu.Memory.Load(od.Cell)
}

// fit narrows a 64-bit result, failing on overflow.
func fit(v64 int64) (value int32, err error) {
	if v64 < math.MinInt32 || v64 > math.MaxInt32 {
		err = ErrOverflow
		return
	}

	value = int32(v64)
	return
}

// doAlu performs the requested arithmetic, and returns the output value.
func (cpu *Cpu) doAlu(op Op, input int32, value int32) (output int32, err error) {
	switch op {
	case OP_SET, OP_COPY:
		output = value
	case OP_CHANGE:
		output, err = fit(int64(input) + int64(value))
	case OP_MUL:
		output, err = fit(int64(input) * int64(value))
	case OP_DIV:
		if value == 0 {
			err = ErrDivideByZero
			return
		}
		output, err = fit(int64(input) / int64(value))
	case OP_MOD:
		if value == 0 {
			err = ErrModuloByZero
			return
		}
		output = int32(int64(input) % int64(value))
	case OP_ABS:
		v64 := int64(input)
		if v64 < 0 {
			v64 = -v64
		}
		output, err = fit(v64)
	default:
		err = ErrOpcodeDecode
	}

	return
}
