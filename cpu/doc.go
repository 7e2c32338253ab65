// Package cpu implements the register machine and assembler for the pasm
// pseudo-assembly language.
//
// The machine consists of an instruction pointer (IP), a fixed array of signed
// 32-bit memory cells addressed by dense variable ids, and a fixed-capacity
// circular jump buffer holding return addresses for goto, cmp and ret.
//
// The assembler is two pass: the first pass decodes one instruction per line
// while recording label positions, the second links every jump to the
// resolved instruction index.
package cpu
