package assembler

import "strings"

// TokenType classifies a single lexical token produced by the tokenizer.
type TokenType uint

const (
	TOKEN_NONE TokenType = iota
	TOKEN_IDENT
	TOKEN_LABEL
	TOKEN_DIRECTIVE
	TOKEN_NUMBER
	TOKEN_IMMEDIATE
	TOKEN_STRING
	TOKEN_LPAREN
	TOKEN_RPAREN
	TOKEN_COMMA
)

// AddrMode is one of the four operand shapes from spec.md §3.
type AddrMode int

const (
	ModeImmediate AddrMode = 0
	ModeDirect    AddrMode = 1
	ModeJump      AddrMode = 2
	ModeRegister  AddrMode = 3
	modeNone      AddrMode = -1
)

// ARE is the two-bit Absolute/Relocatable/External tag.
type ARE uint16

const (
	Absolute    ARE = 0b00
	External    ARE = 0b01
	Relocatable ARE = 0b10
)

// SymbolKind distinguishes where a symbol's value came from.
type SymbolKind int

const (
	SymbolCode SymbolKind = iota
	SymbolData
	SymbolExternal
)

// DirectiveType enumerates the four directives spec.md allows.
type DirectiveType uint

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_DATA
	DIRECTIVE_STRING
	DIRECTIVE_ENTRY
	DIRECTIVE_EXTERN
)

func parseDirective(ident string) DirectiveType {
	switch {
	case strings.EqualFold(ident, ".data"):
		return DIRECTIVE_DATA
	case strings.EqualFold(ident, ".string"):
		return DIRECTIVE_STRING
	case strings.EqualFold(ident, ".entry"):
		return DIRECTIVE_ENTRY
	case strings.EqualFold(ident, ".extern"):
		return DIRECTIVE_EXTERN
	}

	return DIRECTIVE_INVALID
}

// opcodeSpec is one row of the fixed opcode table from spec.md §6, plus
// the addressing-mode legality rules from spec.md §4.2.
type opcodeSpec struct {
	Code     uint16
	Operands int // 0, 1, or 2
	SrcModes []AddrMode
	DstModes []AddrMode
}

var opcodeTable = map[string]opcodeSpec{
	"mov":  {0, 2, []AddrMode{ModeImmediate, ModeDirect, ModeRegister}, []AddrMode{ModeDirect, ModeRegister}},
	"cmp":  {1, 2, []AddrMode{ModeImmediate, ModeDirect, ModeRegister}, []AddrMode{ModeImmediate, ModeDirect, ModeRegister}},
	"add":  {2, 2, []AddrMode{ModeImmediate, ModeDirect, ModeRegister}, []AddrMode{ModeDirect, ModeRegister}},
	"sub":  {3, 2, []AddrMode{ModeImmediate, ModeDirect, ModeRegister}, []AddrMode{ModeDirect, ModeRegister}},
	"not":  {4, 1, nil, []AddrMode{ModeDirect, ModeRegister}},
	"clr":  {5, 1, nil, []AddrMode{ModeDirect, ModeRegister}},
	"lea":  {6, 2, []AddrMode{ModeDirect}, []AddrMode{ModeDirect, ModeRegister}},
	"inc":  {7, 1, nil, []AddrMode{ModeDirect, ModeRegister}},
	"dec":  {8, 1, nil, []AddrMode{ModeDirect, ModeRegister}},
	"jmp":  {9, 1, nil, []AddrMode{ModeDirect, ModeJump}},
	"bne":  {10, 1, nil, []AddrMode{ModeDirect, ModeJump}},
	"red":  {11, 1, nil, []AddrMode{ModeDirect, ModeRegister}},
	"prn":  {12, 1, nil, []AddrMode{ModeImmediate, ModeDirect, ModeRegister}},
	"jsr":  {13, 1, nil, []AddrMode{ModeDirect, ModeJump}},
	"rts":  {14, 0, nil, nil},
	"stop": {15, 0, nil, nil},
}

func lookupOpcode(ident string) (string, opcodeSpec, bool) {
	lower := strings.ToLower(ident)
	spec, ok := opcodeTable[lower]
	return lower, spec, ok
}

func isMnemonic(ident string) bool {
	_, _, ok := lookupOpcode(ident)
	return ok
}

// MnemonicForCode reverse-looks-up an opcode value, for disassembly-style
// tooling that only has the encoded word.
func MnemonicForCode(code uint16) (string, bool) {
	for name, spec := range opcodeTable {
		if spec.Code == code {
			return name, true
		}
	}
	return "", false
}

func parseRegister(ident string) (uint16, bool) {
	if len(ident) != 2 || (ident[0] != 'r' && ident[0] != 'R') {
		return 0, false
	}

	switch ident[1] {
	case '0', '1', '2', '3', '4', '5', '6', '7':
		return uint16(ident[1] - '0'), true
	}

	return 0, false
}

func isRegisterName(ident string) bool {
	_, ok := parseRegister(ident)
	return ok
}

func isReservedWord(ident string) bool {
	if isMnemonic(ident) || isRegisterName(ident) {
		return true
	}

	switch strings.ToLower(ident) {
	case "data", "string", "entry", "extern", "mcr", "endmcr":
		return true
	}

	return false
}

func addrModeLegal(modes []AddrMode, m AddrMode) bool {
	for _, candidate := range modes {
		if candidate == m {
			return true
		}
	}
	return false
}

