package inspect

import (
	"fmt"

	"hmc14/pkg/assembler"
	"hmc14/pkg/encoding"
)

// Word is one line of a parsed `.ob` file: an address and its raw 14-bit
// value, decoded lazily on request since a word's correct interpretation
// (instruction vs. plain data) depends on where it falls relative to the
// code/data boundary the header line gives.
type Word struct {
	Addr  uint16
	Value uint16
}

// Describe renders a word's address, octal value, and (for the code region)
// a best-effort decode of its instruction bit fields, for the interactive
// pager. Every code-region word is decoded as an instruction, including the
// additional operand words that follow an instruction word.
func Describe(w Word, isCode bool) string {
	if !isCode {
		return fmt.Sprintf("%s\t%s\tdata %d", encoding.RenderAddress(w.Addr), encoding.RenderOctal(w.Value), int16(w.Value))
	}

	srcMode := (w.Value >> 12) & 0x3
	opcode := (w.Value >> 8) & 0xF
	dstMode := (w.Value >> 6) & 0x3

	mnemonic, ok := assembler.MnemonicForCode(opcode)
	if !ok {
		// Every 4-bit opcode value has a mnemonic, so this branch is not
		// taken for any word; operand words in the code region are shown
		// with the instruction fields below instead of as value plus A/R/E.
		are := w.Value & 0x3
		value := int32(w.Value>>2) << 20 >> 20 // sign-extend 12 bits
		return fmt.Sprintf("%s\t%s\toperand value=%d are=%d", encoding.RenderAddress(w.Addr), encoding.RenderOctal(w.Value), value, are)
	}

	return fmt.Sprintf(
		"%s\t%s\t%s src=%d dst=%d",
		encoding.RenderAddress(w.Addr), encoding.RenderOctal(w.Value), mnemonic, srcMode, dstMode,
	)
}
