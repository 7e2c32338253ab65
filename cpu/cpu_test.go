package cpu

import (
	"bytes"
	"errors"
	"maps"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pasm/io"
)

// run ticks the cpu until the program completes, an error occurs, or the
// tick limit is reached.
func run(cpu *Cpu, limit int) (done bool, err error) {
	for range limit {
		err = cpu.Tick()
		if errors.Is(err, ErrIpEmpty) {
			done = true
			err = nil
			return
		}
		if err != nil {
			return
		}
	}

	return
}

func newTestCpu(t *testing.T, lines ...string) (cpu *Cpu) {
	cpu = NewCpu(0, 0)
	cpu.Program = assemble(t, lines...)
	cpu.Reset()
	return
}

func TestCpu_Alu(t *testing.T) {
	table := [](struct {
		name  string
		lines []string
		x     int32
	}){
		{"set", []string{"set x 5"}, 5},
		{"abs", []string{"set x -7", "abs x"}, 7},
		{"abs-positive", []string{"set x 7", "abs x"}, 7},
		{"change", []string{"set x 5", "change x 3"}, 8},
		{"change-cell", []string{"set x 5", "set y -2", "change x y"}, 3},
		{"change-self", []string{"set x 5", "change x x"}, 10},
		{"mul", []string{"set x 7", "mul x -3"}, -21},
		{"div", []string{"set x -7", "div x 2"}, -3},
		{"mod", []string{"set x -7", "mod x 2"}, -1},
		{"mod-negative", []string{"set x 7", "mod x -2"}, 1},
		{"mod-min", []string{"set x -2147483648", "mod x -1"}, 0},
		{"copy", []string{"set y 4", "copy y x"}, 4},
		{"unset", []string{"change x 0"}, 0},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			cpu := newTestCpu(t, entry.lines...)
			done, err := run(cpu, 100)
			assert.NoError(err)
			assert.True(done)
			assert.Equal(entry.x, cpu.Memory[0])
			assert.Equal(len(entry.lines)+1, cpu.Ticks)
		})
	}
}

func TestCpu_Alu_Errors(t *testing.T) {
	table := [](struct {
		name  string
		lines []string
		err   error
	}){
		{"div-zero", []string{"set x 1", "div x 0"}, ErrDivideByZero},
		{"div-zero-cell", []string{"set x 1", "div x y"}, ErrDivideByZero},
		{"mod-zero", []string{"set x 1", "mod x 0"}, ErrModuloByZero},
		{"change-overflow", []string{"set x 2147483647", "change x 1"}, ErrOverflow},
		{"change-underflow", []string{"set x -2147483648", "change x -1"}, ErrOverflow},
		{"mul-overflow", []string{"set x 65536", "mul x 65536"}, ErrOverflow},
		{"div-overflow", []string{"set x -2147483648", "div x -1"}, ErrOverflow},
		{"abs-overflow", []string{"set x -2147483648", "abs x"}, ErrOverflow},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			cpu := newTestCpu(t, entry.lines...)
			_, err := run(cpu, 100)
			assert.ErrorIs(err, entry.err)
			assert.ErrorIs(err, ErrOpcode{})

			// The faulting instruction does not retire.
			assert.Equal(2, cpu.Ip)
			assert.Equal(2, cpu.Ticks)
		})
	}
}

func TestCpu_Goto_Loop(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t,
		"set x 1",
		"label L",
		"set x 2",
		"goto L",
	)

	done, err := run(cpu, 1000)
	assert.NoError(err)
	assert.False(done)
	assert.Equal(int32(2), cpu.Memory[0])
	assert.Equal(3, cpu.Jump.Peek())
}

func TestCpu_Goto_Ret(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	output := NewMockOutput(ctrl)
	gomock.InOrder(
		output.EXPECT().WriteText("in\n").Return(nil),
		output.EXPECT().WriteText("after\n").Return(nil),
	)

	cpu := newTestCpu(t,
		"goto sub",
		`printl "after"`,
		"end",
		"label sub",
		`printl "in"`,
		"ret",
	)
	cpu.Output = output

	done, err := run(cpu, 100)
	assert.NoError(err)
	assert.True(done)
	assert.Equal(IP_HALT, cpu.Ip)
	assert.Equal(6, cpu.Ticks)
}

func TestCpu_Cmp(t *testing.T) {
	table := [](struct {
		name   string
		test   string
		output string
	}){
		{"cmp-equal", "cmp x 5 eq", "eq\n"},
		{"cmp-differ", "cmp x 6 eq", "ne\n"},
		{"ncmp-equal", "ncmp x 5 eq", "ne\n"},
		{"ncmp-differ", "ncmp x 6 eq", "eq\n"},
		{"cmp-cell", "cmp x y eq", "ne\n"},
		{"cmp-self", "cmp x x eq", "eq\n"},
	}

	for _, entry := range table {
		t.Run(entry.name, func(t *testing.T) {
			assert := assert.New(t)

			buffer := &bytes.Buffer{}
			tape := &io.Tape{Output: buffer}

			cpu := newTestCpu(t,
				"set x 5",
				"set y 6",
				entry.test,
				`printl "ne"`,
				"end",
				"label eq",
				`printl "eq"`,
			)
			cpu.Output = tape

			done, err := run(cpu, 100)
			assert.NoError(err)
			assert.True(done)
			assert.Equal(entry.output, buffer.String())
		})
	}
}

func TestCpu_GetNum(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	input := NewMockInput(ctrl)
	output := NewMockOutput(ctrl)

	gomock.InOrder(
		input.EXPECT().ReadNumber().Return(int32(42), nil),
		output.EXPECT().WriteText("42\n").Return(nil),
		input.EXPECT().ReadNumber().Return(int32(0), io.ErrInputEnd),
	)

	cpu := newTestCpu(t,
		"getnum x",
		"printl x",
		"getnum x",
	)
	cpu.Input = input
	cpu.Output = output

	done, err := run(cpu, 100)
	assert.False(done)
	assert.ErrorIs(err, io.ErrInputEnd)
	assert.Equal(int32(42), cpu.Memory[0])
}

func TestCpu_GetNum_NoInput(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "getnum x")

	_, err := run(cpu, 100)
	assert.ErrorIs(err, ErrInputMissing)
}

func TestCpu_Print(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	output := NewMockOutput(ctrl)
	gomock.InOrder(
		output.EXPECT().WriteText("-5").Return(nil),
		output.EXPECT().WriteText("-5\n").Return(nil),
		output.EXPECT().WriteText("x = ").Return(nil),
		output.EXPECT().WriteText("0\n").Return(nil),
	)

	cpu := newTestCpu(t,
		"set x -5",
		"print x",
		"printl x",
		`print "x = "`,
		"printl y",
	)
	cpu.Output = output

	done, err := run(cpu, 100)
	assert.NoError(err)
	assert.True(done)
}

func TestCpu_Print_Error(t *testing.T) {
	assert := assert.New(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	broken := errors.New("broken pipe")

	output := NewMockOutput(ctrl)
	output.EXPECT().WriteText(gomock.Any()).Return(broken)

	cpu := newTestCpu(t, `print "hello"`)
	cpu.Output = output

	_, err := run(cpu, 100)
	assert.ErrorIs(err, broken)
	assert.Equal(1, cpu.Ip)
}

func TestCpu_Rand(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "rand x", "rand y")

	values := []int32{17, -3}
	cpu.Random = func() (value int32) {
		value, values = values[0], values[1:]
		return
	}

	done, err := run(cpu, 100)
	assert.NoError(err)
	assert.True(done)
	assert.Equal(int32(17), cpu.Memory[0])
	assert.Equal(int32(-3), cpu.Memory[1])
}

func TestCpu_CellRange(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(1, 0)
	cpu.Program = assemble(t, "set x 1", "set y 2")
	cpu.Reset()

	_, err := run(cpu, 100)
	assert.ErrorIs(err, ErrCellRange)
	assert.Equal(int32(1), cpu.Memory[0])
}

func TestCpu_Decode(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(0, 0)
	err := cpu.Execute(Instruction{Op: Op(99)})
	assert.ErrorIs(err, ErrOpcodeDecode)
}

func TestCpu_Defines(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu(0, 0)
	assert.Equal(map[string]string{
		"MEMORY_SIZE":      "8192",
		"JUMP_BUFFER_SIZE": "100",
	}, maps.Collect(cpu.Defines()))

	cpu = NewCpu(16, 4)
	defines := maps.Collect(cpu.Defines())
	assert.Equal("16", defines["MEMORY_SIZE"])
	assert.Equal("4", defines["JUMP_BUFFER_SIZE"])
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "set x 3", "goto L", "label L")

	done, err := run(cpu, 100)
	assert.NoError(err)
	assert.True(done)
	assert.Equal(int32(3), cpu.Memory[0])
	assert.Equal(1, cpu.Jump.Cursor)

	cpu.Reset()
	assert.Equal(0, cpu.Ip)
	assert.Equal(0, cpu.Ticks)
	assert.Equal(int32(0), cpu.Memory[0])
	assert.Equal(0, cpu.Jump.Cursor)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := newTestCpu(t, "set count 12")
	_, err := run(cpu, 100)
	assert.NoError(err)

	text := cpu.String()
	assert.Contains(text, "   count: 12\n")
	assert.Contains(text, "      ip: 2\n")
}
