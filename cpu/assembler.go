// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":    "0",
	"INT32_MIN": strconv.Itoa(math.MinInt32),
	"INT32_MAX": strconv.Itoa(math.MaxInt32),
}

// MAX_LINE is the longest accepted source line, in bytes.
const MAX_LINE = 16 << 20

var (
	reNumber = regexp.MustCompile(`^[+-]?[0-9]+$`)
	reParen  = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a two pass assembler for the pasm language.
type Assembler struct {
	Verbose     bool          // If set, verbosely logs the assembler actions.
	MemorySize  int           // Maximum number of variables; MEMORY_SIZE if zero.
	Instruction []Instruction // List of generated instructions.
	Lines       []string      // Source lines of the last Parse.

	Variable SymbolTable       // Variable names to cell ids.
	Label    SymbolTable       // Label names to label ids.
	Equate   map[string]string // Map of equates for $(...) expressions.

	predefine map[string]string // Predefines
	labelIp   []int             // Instruction index by label id, -1 if undefined.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// isNumber checks if a word is lexically a signed integer.
func isNumber(word string) bool {
	return reNumber.MatchString(word)
}

// valueOf returns the value of an integer literal.
func (asm *Assembler) valueOf(word string) (value int32, err error) {
	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = int32(v64)
	return
}

// cellOf resolves a variable name to its memory cell.
func (asm *Assembler) cellOf(word string) (cell Cell, err error) {
	if len(word) == 0 || isNumber(word) {
		err = ErrParseVariable(word)
		return
	}

	limit := asm.MemorySize
	if limit <= 0 {
		limit = MEMORY_SIZE
	}

	id := asm.Variable.Resolve(word)
	if id >= limit {
		err = ErrMemoryFull
		return
	}

	cell = Cell(id)
	return
}

// operandOf decodes a word as an immediate or a variable.
func (asm *Assembler) operandOf(word string) (od Operand, err error) {
	if isNumber(word) {
		var value int32
		value, err = asm.valueOf(word)
		if err != nil {
			return
		}
		od = Imm(value)
		return
	}

	var cell Cell
	cell, err = asm.cellOf(word)
	if err != nil {
		return
	}

	od = Addr(cell)
	return
}

// labelOf resolves a label name to its label id.
func (asm *Assembler) labelOf(word string) (id int) {
	id = asm.Label.Resolve(word)
	for len(asm.labelIp) <= id {
		asm.labelIp = append(asm.labelIp, -1)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, err := strconv.ParseInt(str, 0, 64)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < math.MinInt32 || st_int64 > math.MaxInt32 {
		err = ErrParseExpression(expr)
		return
	}
	value = int32(st_int64)
	return
}

// expand replaces $(...) expressions with their decimal values.
func (asm *Assembler) expand(text string, lineno int) (expanded string, err error) {
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	expanded = reParen.ReplaceAllStringFunc(text, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			if err == nil {
				err = _err
			}
			return str
		}
		return strconv.Itoa(int(value))
	})

	return
}

// wordsOf splits arguments on single spaces, dropping empty words.
func wordsOf(text string) []string {
	return slices.DeleteFunc(strings.Split(text, " "), func(a string) bool { return len(a) == 0 })
}

// arity checks the argument count.
func arity(words []string, count int) (err error) {
	switch {
	case len(words) < count:
		err = ErrOpcodeValueMissing
	case len(words) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// Parse parses an input stream into a linked Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	var lines []string

	scanner := bufio.NewScanner(input)
	scanner.Buffer(nil, MAX_LINE)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	err = scanner.Err()
	if err != nil {
		asm.Lines = lines
		err = &ErrSyntax{LineNo: len(lines) + 1, Err: err}
		return
	}

	return asm.ParseLines(lines)
}

// ParseLines parses source lines into a linked Program.
func (asm *Assembler) ParseLines(lines []string) (prog *Program, err error) {
	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = lines
	asm.Variable.Reset()
	asm.Label.Reset()
	asm.labelIp = asm.labelIp[:0]
	asm.Instruction = append(asm.Instruction[:0], MakeStart())
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for n, text := range lines {
		lineno = n + 1
		line = strings.TrimSpace(text)

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}

	// Final linking of jump labels.
	for n := range asm.Instruction {
		ins := &asm.Instruction[n]

		if !ins.Op.Linked() {
			continue
		}

		ip := asm.labelIp[ins.Label]
		if ip < 0 {
			lineno = ins.LineNo
			line = strings.TrimSpace(lines[lineno-1])
			err = ErrLabelMissing(asm.Label.Name(ins.Label))
			return
		}

		if asm.Verbose {
			log.Printf("link: line %d %v -> %d", ins.LineNo, asm.Label.Name(ins.Label), ip)
		}

		ins.Label = ip
	}

	prog = &Program{
		Instructions: slices.Clone(asm.Instruction),
		Variables:    asm.Variable.Names(),
		Labels:       asm.Label.Names(),
		Targets:      slices.Clone(asm.labelIp),
		Lines:        lines,
	}

	return
}

// parseLine decodes a single trimmed line, appending at most one instruction.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	if len(line) == 0 {
		return
	}

	var ins Instruction

	// A start sentinel is never emitted; 'label' leaves ins as one.
	defer func() {
		if err != nil || ins.Op == OP_START {
			return
		}
		ins.LineNo = lineno
		asm.Instruction = append(asm.Instruction, ins)
	}()

	mnemonic, args, _ := strings.Cut(line, " ")

	switch mnemonic {
	case "print":
		ins, err = asm.parsePrint(args, "")
		return
	case "printl":
		ins, err = asm.parsePrint(args, "\n")
		return
	}

	args, err = asm.expand(args, lineno)
	if err != nil {
		return
	}

	words := wordsOf(args)

	var cell Cell
	var od Operand

	switch mnemonic {
	case "set":
		if err = arity(words, 2); err != nil {
			return
		}
		if cell, err = asm.cellOf(words[0]); err != nil {
			return
		}
		var value int32
		if value, err = asm.valueOf(words[1]); err != nil {
			return
		}
		ins = MakeSet(cell, value)
	case "getnum", "rand", "abs":
		if err = arity(words, 1); err != nil {
			return
		}
		if cell, err = asm.cellOf(words[0]); err != nil {
			return
		}
		switch mnemonic {
		case "getnum":
			ins = MakeGetNum(cell)
		case "rand":
			ins = MakeRand(cell)
		case "abs":
			ins = MakeAbs(cell)
		}
	case "change", "mul", "div", "mod":
		if err = arity(words, 2); err != nil {
			return
		}
		if cell, err = asm.cellOf(words[0]); err != nil {
			return
		}
		if od, err = asm.operandOf(words[1]); err != nil {
			return
		}
		switch mnemonic {
		case "change":
			ins = MakeChange(cell, od)
		case "mul":
			ins = MakeMul(cell, od)
		case "div":
			ins = MakeDiv(cell, od)
		case "mod":
			ins = MakeMod(cell, od)
		}
	case "copy":
		if err = arity(words, 2); err != nil {
			return
		}
		var dst Cell
		if cell, err = asm.cellOf(words[0]); err != nil {
			return
		}
		if dst, err = asm.cellOf(words[1]); err != nil {
			return
		}
		ins = MakeCopy(cell, dst)
	case "cmp", "ncmp":
		if err = arity(words, 3); err != nil {
			return
		}
		if cell, err = asm.cellOf(words[0]); err != nil {
			return
		}
		if od, err = asm.operandOf(words[1]); err != nil {
			return
		}
		ins = MakeCmp(cell, od, asm.labelOf(words[2]), mnemonic == "ncmp")
	case "label":
		if err = arity(words, 1); err != nil {
			return
		}
		id := asm.labelOf(words[0])
		if asm.labelIp[id] >= 0 {
			err = ErrLabelDuplicate
			return
		}
		// Binds to the most recently emitted instruction.
		asm.labelIp[id] = len(asm.Instruction) - 1
	case "goto":
		if err = arity(words, 1); err != nil {
			return
		}
		ins = MakeGoto(asm.labelOf(words[0]))
	case "ret":
		if err = arity(words, 0); err != nil {
			return
		}
		ins = MakeRet()
	case "end":
		if err = arity(words, 0); err != nil {
			return
		}
		ins = MakeEnd()
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}

// parsePrint decodes the arguments of print and printl.
func (asm *Assembler) parsePrint(args string, suffix string) (ins Instruction, err error) {
	if len(args) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	quoted := 0
	if strings.HasPrefix(args, `"`) {
		quoted++
	}
	if strings.HasSuffix(args, `"`) {
		quoted++
	}

	switch {
	case quoted == 2 && len(args) >= 2:
		ins = MakePrint(CELL_NONE, args[1:len(args)-1]+suffix)
	case quoted != 0:
		err = ErrQuoteMismatch
	default:
		words := wordsOf(args)
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var cell Cell
		cell, err = asm.cellOf(words[0])
		if err != nil {
			return
		}
		ins = MakePrint(cell, suffix)
	}

	return
}

// String describes the assembler state.
func (asm *Assembler) String() string {
	return fmt.Sprintf("%d instructions, %d variables, %d labels",
		len(asm.Instruction), asm.Variable.Len(), asm.Label.Len())
}
