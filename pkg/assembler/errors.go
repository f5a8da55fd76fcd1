package assembler

import "fmt"

// TokenError is implemented by diagnostics that know their source position,
// mirroring the teacher's TokenError interface.
type TokenError interface {
	error
	Line() int
}

type positioned struct {
	line int
}

func (p positioned) Line() int { return p.line }

type UnterminatedMacroError struct {
	positioned
	Name string
}

func (e *UnterminatedMacroError) Error() string {
	return fmt.Sprintf("unterminated macro definition '%s'", e.Name)
}

type MacroRedefinedError struct {
	positioned
	Name string
}

func (e *MacroRedefinedError) Error() string {
	return fmt.Sprintf("macro '%s' redefines an existing macro or reserved word", e.Name)
}

type MacroExtraneousTokensError struct {
	positioned
}

func (e *MacroExtraneousTokensError) Error() string {
	return "extraneous tokens on mcr/endmcr line"
}

type MacroUseMixedTokensError struct {
	positioned
	Name string
}

func (e *MacroUseMixedTokensError) Error() string {
	return fmt.Sprintf("macro use of '%s' mixed with other tokens", e.Name)
}

type InvalidIdentifierError struct {
	positioned
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier '%s'", e.Name)
}

type ReservedWordError struct {
	positioned
	Name string
}

func (e *ReservedWordError) Error() string {
	return fmt.Sprintf("'%s' is a reserved word and cannot be used as a symbol name", e.Name)
}

type DuplicateSymbolError struct {
	positioned
	Name string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol '%s' is already defined", e.Name)
}

type UndefinedSymbolError struct {
	positioned
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol '%s'", e.Name)
}

type UndefinedEntryError struct {
	positioned
	Name string
}

func (e *UndefinedEntryError) Error() string {
	return fmt.Sprintf("entry names undefined symbol '%s'", e.Name)
}

type ExternEntryConflictError struct {
	positioned
	Name string
}

func (e *ExternEntryConflictError) Error() string {
	return fmt.Sprintf("'%s' is external and cannot be declared as an entry", e.Name)
}

type ExternRedefinedError struct {
	positioned
	Name string
}

func (e *ExternRedefinedError) Error() string {
	return fmt.Sprintf("external symbol '%s' cannot be redefined locally", e.Name)
}

type UnknownMnemonicError struct {
	positioned
	Token string
}

func (e *UnknownMnemonicError) Error() string {
	return fmt.Sprintf("unknown instruction or directive '%s'", e.Token)
}

type IllegalAddressingModeError struct {
	positioned
	Mnemonic string
	Which    string // "source" or "destination"
}

func (e *IllegalAddressingModeError) Error() string {
	return fmt.Sprintf("illegal addressing mode for %s operand of '%s'", e.Which, e.Mnemonic)
}

type InvalidOperandCountError struct {
	positioned
	Mnemonic string
	Want     int
	Have     int
}

func (e *InvalidOperandCountError) Error() string {
	return fmt.Sprintf("'%s' takes %d operand(s), got %d", e.Mnemonic, e.Want, e.Have)
}

type InvalidOperandError struct {
	positioned
	Detail string
}

func (e *InvalidOperandError) Error() string {
	return e.Detail
}

type InvalidLiteralError struct {
	positioned
	Text string
}

func (e *InvalidLiteralError) Error() string {
	return fmt.Sprintf("invalid numeric literal '%s'", e.Text)
}

type OversizedLiteralError struct {
	positioned
	Text string
	Bits uint
}

func (e *OversizedLiteralError) Error() string {
	return fmt.Sprintf("literal '%s' does not fit in %d bits", e.Text, e.Bits)
}

type InvalidStringError struct {
	positioned
	Text string
}

func (e *InvalidStringError) Error() string {
	return fmt.Sprintf("invalid or unterminated string literal %s", e.Text)
}

type UnexpectedCharacterError struct {
	positioned
	Char rune
}

func (e *UnexpectedCharacterError) Error() string {
	return fmt.Sprintf("unexpected character %q", e.Char)
}

type MemoryOverflowError struct {
	positioned
}

func (e *MemoryOverflowError) Error() string {
	return "program exceeds 256 words of memory"
}

// diagKind maps a TokenError to the short kind string recorded on the
// Diagnostic, so callers don't have to repeat it at every call site.
func diagKind(err TokenError) string {
	switch err.(type) {
	case *UnterminatedMacroError:
		return "unterminated-macro"
	case *MacroRedefinedError:
		return "macro-redefined"
	case *MacroExtraneousTokensError:
		return "macro-syntax"
	case *MacroUseMixedTokensError:
		return "macro-syntax"
	case *InvalidIdentifierError:
		return "invalid-identifier"
	case *ReservedWordError:
		return "reserved-word"
	case *DuplicateSymbolError:
		return "duplicate-symbol"
	case *UndefinedSymbolError:
		return "undefined-symbol"
	case *UndefinedEntryError:
		return "undefined-entry"
	case *ExternEntryConflictError:
		return "extern-entry-conflict"
	case *ExternRedefinedError:
		return "extern-redefined"
	case *UnknownMnemonicError:
		return "unknown-mnemonic"
	case *IllegalAddressingModeError:
		return "illegal-addressing-mode"
	case *InvalidOperandCountError:
		return "invalid-operand-count"
	case *InvalidOperandError:
		return "invalid-operand"
	case *InvalidLiteralError:
		return "invalid-literal"
	case *OversizedLiteralError:
		return "oversized-literal"
	case *InvalidStringError:
		return "invalid-string"
	case *UnexpectedCharacterError:
		return "unexpected-character"
	case *MemoryOverflowError:
		return "memory-overflow"
	}
	return "error"
}
