package cpu

import (
	"fmt"
	"strconv"
)

// Op is an instruction operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_START  = Op(0)  // start
	OP_GOTO   = Op(1)  // goto
	OP_SET    = Op(2)  // set
	OP_GETNUM = Op(3)  // getnum
	OP_RAND   = Op(4)  // rand
	OP_CMP    = Op(5)  // cmp
	OP_CHANGE = Op(6)  // change
	OP_COPY   = Op(7)  // copy
	OP_MUL    = Op(8)  // mul
	OP_DIV    = Op(9)  // div
	OP_MOD    = Op(10) // mod
	OP_ABS    = Op(11) // abs
	OP_PRINT  = Op(12) // print
	OP_RET    = Op(13) // ret
	OP_END    = Op(14) // end
)

// Linked returns true if the operation carries a label to be linked.
func (op Op) Linked() bool {
	return op == OP_GOTO || op == OP_CMP
}

// Cell is a dense memory cell id.
type Cell int

// CELL_NONE marks an instruction without a target cell.
const CELL_NONE = Cell(-1)

// Operand is either a literal (Immediate) or the value of a memory cell.
type Operand struct {
	Immediate bool  // If set, Value is the operand; otherwise Cell is read.
	Value     int32 // Literal value.
	Cell      Cell  // Memory cell.
}

// Imm makes an immediate operand.
func Imm(value int32) Operand {
	return Operand{Immediate: true, Value: value}
}

// Addr makes a memory cell operand.
func Addr(cell Cell) Operand {
	return Operand{Cell: cell}
}

func (od Operand) String() string {
	if od.Immediate {
		return strconv.FormatInt(int64(od.Value), 10)
	}
	return fmt.Sprintf("@%d", int(od.Cell))
}

// Instruction is a single decoded line of the program.
//
// Only the fields used by Op are meaningful:
//   - goto:   Label
//   - set:    Cell, Operand (immediate)
//   - getnum, rand, abs: Cell
//   - cmp:    Cell, Operand, Label, Invert
//   - change, mul, div, mod: Cell, Operand
//   - copy:   Cell (destination), Operand (source cell)
//   - print:  Cell (or CELL_NONE), Text
type Instruction struct {
	LineNo  int // Source line number, 0 for the start sentinel.
	Op      Op
	Cell    Cell
	Operand Operand
	Label   int    // Label id before linking, instruction index after.
	Invert  bool   // cmp only: jump when not equal.
	Text    string // print only: literal text.
}

func MakeStart() Instruction {
	return Instruction{Op: OP_START, Cell: CELL_NONE}
}

func MakeGoto(label int) Instruction {
	return Instruction{Op: OP_GOTO, Cell: CELL_NONE, Label: label}
}

func MakeSet(cell Cell, value int32) Instruction {
	return Instruction{Op: OP_SET, Cell: cell, Operand: Imm(value)}
}

func MakeGetNum(cell Cell) Instruction {
	return Instruction{Op: OP_GETNUM, Cell: cell}
}

func MakeRand(cell Cell) Instruction {
	return Instruction{Op: OP_RAND, Cell: cell}
}

func MakeCmp(cell Cell, operand Operand, label int, invert bool) Instruction {
	return Instruction{Op: OP_CMP, Cell: cell, Operand: operand, Label: label, Invert: invert}
}

func MakeChange(cell Cell, operand Operand) Instruction {
	return Instruction{Op: OP_CHANGE, Cell: cell, Operand: operand}
}

// MakeCopy copies the value of src into dst.
func MakeCopy(src Cell, dst Cell) Instruction {
	return Instruction{Op: OP_COPY, Cell: dst, Operand: Addr(src)}
}

func MakeMul(cell Cell, operand Operand) Instruction {
	return Instruction{Op: OP_MUL, Cell: cell, Operand: operand}
}

func MakeDiv(cell Cell, operand Operand) Instruction {
	return Instruction{Op: OP_DIV, Cell: cell, Operand: operand}
}

func MakeMod(cell Cell, operand Operand) Instruction {
	return Instruction{Op: OP_MOD, Cell: cell, Operand: operand}
}

func MakeAbs(cell Cell) Instruction {
	return Instruction{Op: OP_ABS, Cell: cell}
}

// MakePrint prints the value of cell (unless CELL_NONE), followed by text.
func MakePrint(cell Cell, text string) Instruction {
	return Instruction{Op: OP_PRINT, Cell: cell, Text: text}
}

func MakeRet() Instruction {
	return Instruction{Op: OP_RET, Cell: CELL_NONE}
}

func MakeEnd() Instruction {
	return Instruction{Op: OP_END, Cell: CELL_NONE}
}

// String disassembles the instruction using raw cell ids.
func (ins Instruction) String() string {
	return ins.Format(func(cell Cell) string {
		return fmt.Sprintf("@%d", int(cell))
	})
}

// Format disassembles the instruction, naming cells with name.
func (ins Instruction) Format(name func(cell Cell) string) (text string) {
	operand := func(od Operand) string {
		if od.Immediate {
			return strconv.FormatInt(int64(od.Value), 10)
		}
		return name(od.Cell)
	}

	switch ins.Op {
	case OP_START, OP_RET, OP_END:
		text = ins.Op.String()
	case OP_GOTO:
		text = fmt.Sprintf("goto %d", ins.Label)
	case OP_SET, OP_CHANGE, OP_MUL, OP_DIV, OP_MOD:
		text = fmt.Sprintf("%v %v %v", ins.Op, name(ins.Cell), operand(ins.Operand))
	case OP_GETNUM, OP_RAND, OP_ABS:
		text = fmt.Sprintf("%v %v", ins.Op, name(ins.Cell))
	case OP_COPY:
		text = fmt.Sprintf("copy %v %v", operand(ins.Operand), name(ins.Cell))
	case OP_CMP:
		mnemonic := "cmp"
		if ins.Invert {
			mnemonic = "ncmp"
		}
		text = fmt.Sprintf("%v %v %v %d", mnemonic, name(ins.Cell), operand(ins.Operand), ins.Label)
	case OP_PRINT:
		text = "print"
		if ins.Cell != CELL_NONE {
			text += " " + name(ins.Cell)
		}
		text += " " + strconv.Quote(ins.Text)
	default:
		text = ins.Op.String()
	}

	return
}
