package cpu

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Program is a resolved, linked instruction listing.
type Program struct {
	Instructions []Instruction
	Variables    []string // Variable names, by cell id.
	Labels       []string // Label names, by label id.
	Targets      []int    // Linked instruction index, by label id.
	Lines        []string // Source text.
}

// Debug associates an instruction with its source text.
type Debug struct {
	*Instruction
	Line string
}

// Debug returns the instruction at ip, or an empty Debug if out of range.
func (prog *Program) Debug(ip int) (dbg Debug) {
	if ip < 0 || ip >= len(prog.Instructions) {
		return
	}

	dbg.Instruction = &prog.Instructions[ip]
	n := dbg.LineNo - 1
	if n >= 0 && n < len(prog.Lines) {
		dbg.Line = prog.Lines[n]
	}

	return
}

// Name returns the variable name of a cell.
func (prog *Program) Name(cell Cell) string {
	if cell >= 0 && int(cell) < len(prog.Variables) {
		return prog.Variables[cell]
	}
	return fmt.Sprintf("@%d", int(cell))
}

// Disassemble formats an instruction with variable names.
func (prog *Program) Disassemble(ins Instruction) string {
	return ins.Format(prog.Name)
}

// Listing writes the instruction and symbol tables.
func (prog *Program) Listing(w io.Writer) {
	code := table.NewWriter()
	code.SetOutputMirror(w)
	code.SetTitle("Program")
	code.AppendHeader(table.Row{"Ip", "Line", "Instruction"})
	for ip, ins := range prog.Instructions {
		code.AppendRow(table.Row{ip, ins.LineNo, prog.Disassemble(ins)})
	}
	code.Render()

	vars := table.NewWriter()
	vars.SetOutputMirror(w)
	vars.SetTitle("Variables")
	vars.AppendHeader(table.Row{"Cell", "Name"})
	for cell, name := range prog.Variables {
		vars.AppendRow(table.Row{cell, name})
	}
	vars.Render()

	labels := table.NewWriter()
	labels.SetOutputMirror(w)
	labels.SetTitle("Labels")
	labels.AppendHeader(table.Row{"Label", "Name", "Ip"})
	for id, name := range prog.Labels {
		var ip any = "-"
		if id < len(prog.Targets) {
			ip = prog.Targets[id]
		}
		labels.AppendRow(table.Row{id, name, ip})
	}
	labels.Render()
}
