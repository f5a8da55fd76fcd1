package assembler

import (
	"strconv"
	"strings"

	"hmc14/pkg/encoding"
)

const (
	icStart     uint16 = 100
	memoryLimit uint16 = 256
)

// Pass1Result is everything pass2 needs: the symbol table and the two
// growing memory images, plus whatever pass1 could not resolve yet.
type Pass1Result struct {
	Symbols     *SymbolTable
	Code        []MemoryWord
	Data        []MemoryWord
	ICFinal     uint16
	DCFinal     uint16
	Diagnostics Diagnostics
}

type operand struct {
	Mode   AddrMode
	Reg    uint16
	Imm    int32
	Label  string
	Inner1 *operand
	Inner2 *operand
	Line   int
}

// RunPass1 implements spec.md §4.2: lexes, parses, validates, and lays out
// the already-macro-expanded line stream, building the symbol table and
// the two memory images as it goes.
func RunPass1(file string, lines []SourceLine) *Pass1Result {
	res := &Pass1Result{Symbols: NewSymbolTable()}

	var ic, dc uint16 = icStart, 0

	for _, sl := range lines {
		text := strings.TrimSpace(stripComment(sl.Text))
		if text == "" {
			continue
		}

		tokens, lexErrs := tokenize(text, sl.Line)
		for _, e := range lexErrs {
			res.Diagnostics.Raise(sl.File, e)
		}
		if len(lexErrs) > 0 {
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		var label string
		hasLabel := false

		if tokens[0].Type == TOKEN_LABEL {
			label = tokens[0].Value
			hasLabel = true
			tokens = tokens[1:]

			if err := validateIdentifier(label, sl.Line); err != nil {
				res.Diagnostics.Raise(sl.File, err)
				hasLabel = false
			}
		}

		if len(tokens) == 0 {
			if hasLabel {
				res.Diagnostics.Raise(sl.File, &UnknownMnemonicError{positioned{sl.Line}, ""})
			}
			continue
		}

		head := tokens[0]

		if head.Type == TOKEN_DIRECTIVE {
			directive := parseDirective(head.Value)
			if directive == DIRECTIVE_INVALID {
				res.Diagnostics.Raise(sl.File, &UnknownMnemonicError{positioned{sl.Line}, head.Value})
				continue
			}
			handleDirective(res, sl, directive, tokens[1:], label, hasLabel, &dc)
			if !checkBounds(res, sl, ic, dc) {
				break
			}
			continue
		}

		if head.Type != TOKEN_IDENT || !isMnemonic(head.Value) {
			res.Diagnostics.Raise(sl.File, &UnknownMnemonicError{positioned{sl.Line}, head.Value})
			continue
		}

		handleInstruction(res, sl, head.Value, tokens[1:], label, hasLabel, &ic)
		if !checkBounds(res, sl, ic, dc) {
			break
		}
	}

	res.ICFinal = ic
	res.DCFinal = dc
	return res
}

func checkBounds(res *Pass1Result, sl SourceLine, ic, dc uint16) bool {
	if uint32(ic-icStart)+uint32(dc) > uint32(memoryLimit) {
		res.Diagnostics.Raise(sl.File, &MemoryOverflowError{positioned{sl.Line}})
		return false
	}
	return true
}

func handleDirective(
	res *Pass1Result, sl SourceLine, directive DirectiveType, operands []Token,
	label string, hasLabel bool, dc *uint16,
) {
	switch directive {
	case DIRECTIVE_DATA:
		values, err := parseDataOperands(operands, sl.Line)
		if err != nil {
			res.Diagnostics.Raise(sl.File, err)
			return
		}
		if hasLabel {
			insertSymbol(res, sl, label, *dc, SymbolData)
		}
		for _, v := range values {
			res.Data = append(res.Data, MemoryWord{Kind: KindData, Value: encoding.ClampBits(v, 14), Line: sl.Line})
			*dc++
		}

	case DIRECTIVE_STRING:
		runes, err := parseStringOperand(operands, sl.Line)
		if err != nil {
			res.Diagnostics.Raise(sl.File, err)
			return
		}
		if hasLabel {
			insertSymbol(res, sl, label, *dc, SymbolData)
		}
		for _, r := range runes {
			res.Data = append(res.Data, MemoryWord{Kind: KindData, Value: uint16(r), Line: sl.Line})
			*dc++
		}
		res.Data = append(res.Data, MemoryWord{Kind: KindData, Value: 0, Line: sl.Line})
		*dc++

	case DIRECTIVE_EXTERN:
		if hasLabel {
			res.Diagnostics.Warn(sl.File, &InvalidOperandError{positioned{sl.Line}, "label before .extern is ignored"})
		}
		name, err := parseSingleIdent(operands, sl.Line)
		if err != nil {
			res.Diagnostics.Raise(sl.File, err)
			return
		}
		if err := validateIdentifier(name, sl.Line); err != nil {
			res.Diagnostics.Raise(sl.File, err)
			return
		}
		if dup := res.Symbols.InsertUnique(&Symbol{Name: name, Value: 0, Kind: SymbolExternal, DefLine: sl.Line}); dup != nil {
			res.Diagnostics.Raise(sl.File, dup)
		}

	case DIRECTIVE_ENTRY:
		if hasLabel {
			res.Diagnostics.Warn(sl.File, &InvalidOperandError{positioned{sl.Line}, "label before .entry is ignored"})
		}
		name, err := parseSingleIdent(operands, sl.Line)
		if err != nil {
			res.Diagnostics.Raise(sl.File, err)
			return
		}
		if err := validateIdentifier(name, sl.Line); err != nil {
			res.Diagnostics.Raise(sl.File, err)
			return
		}
		res.Symbols.MarkEntry(name, sl.Line)
	}
}

func insertSymbol(res *Pass1Result, sl SourceLine, name string, value uint16, kind SymbolKind) {
	if dup := res.Symbols.InsertUnique(&Symbol{Name: name, Value: value, Kind: kind, DefLine: sl.Line}); dup != nil {
		res.Diagnostics.Raise(sl.File, dup)
	}
}

func parseSingleIdent(tokens []Token, lineNo int) (string, TokenError) {
	if len(tokens) != 1 || tokens[0].Type != TOKEN_IDENT {
		return "", &InvalidOperandCountError{positioned{lineNo}, "directive", 1, len(tokens)}
	}
	return tokens[0].Value, nil
}

func parseDataOperands(tokens []Token, lineNo int) ([]int32, TokenError) {
	if len(tokens) == 0 {
		return nil, &InvalidOperandCountError{positioned{lineNo}, ".data", 1, 0}
	}

	var values []int32
	expectNumber := true

	for _, t := range tokens {
		if expectNumber {
			if t.Type != TOKEN_NUMBER {
				return nil, &InvalidOperandError{positioned{lineNo}, "'.data' expects comma-separated integers"}
			}
			v, err := encoding.DecodeInt(t.Value)
			if err != nil {
				return nil, &InvalidLiteralError{positioned{lineNo}, t.Value}
			}
			if !encoding.InRange(v, 14) {
				return nil, &OversizedLiteralError{positioned{lineNo}, t.Value, 14}
			}
			values = append(values, v)
		} else if t.Type != TOKEN_COMMA {
			return nil, &InvalidOperandError{positioned{lineNo}, "expected ',' between '.data' values"}
		}
		expectNumber = !expectNumber
	}

	if expectNumber {
		return nil, &InvalidOperandError{positioned{lineNo}, "'.data' ends with a trailing comma"}
	}

	return values, nil
}

func parseStringOperand(tokens []Token, lineNo int) ([]rune, TokenError) {
	if len(tokens) != 1 || tokens[0].Type != TOKEN_STRING {
		return nil, &InvalidOperandCountError{positioned{lineNo}, ".string", 1, len(tokens)}
	}

	raw := tokens[0].Value
	unquoted, err := strconv.Unquote(raw)
	if err != nil {
		return nil, &InvalidStringError{positioned{lineNo}, raw}
	}

	for _, r := range unquoted {
		if r > 126 || r < 32 {
			return nil, &InvalidStringError{positioned{lineNo}, raw}
		}
	}

	return []rune(unquoted), nil
}

func handleInstruction(
	res *Pass1Result, sl SourceLine, mnemonicRaw string, rest []Token,
	label string, hasLabel bool, ic *uint16,
) {
	mnemonic, spec, _ := lookupOpcode(mnemonicRaw)

	if hasLabel {
		insertSymbol(res, sl, label, *ic, SymbolCode)
	}

	groups := splitOperandGroups(rest)
	if spec.Operands == 0 {
		groups = nil
	}

	if len(groups) != spec.Operands {
		res.Diagnostics.Raise(sl.File, &InvalidOperandCountError{positioned{sl.Line}, mnemonic, spec.Operands, len(groups)})
		return
	}

	var srcOp, dstOp *operand
	ok := true

	if spec.Operands == 2 {
		srcOp, ok = parseOperandGroup(groups[0], sl.Line)
		if !ok {
			res.Diagnostics.Raise(sl.File, &InvalidOperandError{positioned{sl.Line}, "malformed source operand"})
			return
		}
		dstOp, ok = parseOperandGroup(groups[1], sl.Line)
		if !ok {
			res.Diagnostics.Raise(sl.File, &InvalidOperandError{positioned{sl.Line}, "malformed destination operand"})
			return
		}
		if !addrModeLegal(spec.SrcModes, srcOp.Mode) {
			res.Diagnostics.Raise(sl.File, &IllegalAddressingModeError{positioned{sl.Line}, mnemonic, "source"})
			return
		}
		if !addrModeLegal(spec.DstModes, dstOp.Mode) {
			res.Diagnostics.Raise(sl.File, &IllegalAddressingModeError{positioned{sl.Line}, mnemonic, "destination"})
			return
		}
	} else if spec.Operands == 1 {
		dstOp, ok = parseOperandGroup(groups[0], sl.Line)
		if !ok {
			res.Diagnostics.Raise(sl.File, &InvalidOperandError{positioned{sl.Line}, "malformed operand"})
			return
		}
		if !addrModeLegal(spec.DstModes, dstOp.Mode) {
			res.Diagnostics.Raise(sl.File, &IllegalAddressingModeError{positioned{sl.Line}, mnemonic, "destination"})
			return
		}
		if dstOp.Mode == ModeJump {
			if diag := validateJumpInner(dstOp); diag != nil {
				res.Diagnostics.Raise(sl.File, diag)
				return
			}
		}
	}

	srcMode, dstMode := modeNone, modeNone
	if srcOp != nil {
		srcMode = srcOp.Mode
	}
	if dstOp != nil {
		dstMode = dstOp.Mode
	}

	firstWord := MemoryWord{Kind: KindInstruction, Value: encodeInstructionWord(spec.Code, srcMode, dstMode), Line: sl.Line}
	res.Code = append(res.Code, firstWord)
	*ic++

	var extra []MemoryWord
	switch spec.Operands {
	case 2:
		extra = pairedWords(srcOp, dstOp)
	case 1:
		extra = wordsFromOperand(dstOp)
	}

	res.Code = append(res.Code, extra...)
	*ic += uint16(len(extra))
}

func validateJumpInner(op *operand) TokenError {
	if op.Inner1 == nil || op.Inner2 == nil {
		return &InvalidOperandError{positioned{op.Line}, "jump parameter list requires exactly two operands"}
	}
	for _, inner := range []*operand{op.Inner1, op.Inner2} {
		switch inner.Mode {
		case ModeImmediate, ModeDirect, ModeRegister:
		default:
			return &InvalidOperandError{positioned{inner.Line}, "jump parameters must be immediate, direct, or register"}
		}
	}
	return nil
}

// splitOperandGroups splits a token list on top-level commas, treating a
// balanced (...) span as a single, unsplit group.
func splitOperandGroups(tokens []Token) [][]Token {
	if len(tokens) == 0 {
		return nil
	}

	var groups [][]Token
	var current []Token
	depth := 0

	for _, t := range tokens {
		switch t.Type {
		case TOKEN_LPAREN:
			depth++
			current = append(current, t)
		case TOKEN_RPAREN:
			depth--
			current = append(current, t)
		case TOKEN_COMMA:
			if depth == 0 {
				groups = append(groups, current)
				current = nil
				continue
			}
			current = append(current, t)
		default:
			current = append(current, t)
		}
	}
	groups = append(groups, current)

	return groups
}

// parseOperandGroup interprets one top-level operand group as one of the
// four addressing-mode shapes from spec.md §3.
func parseOperandGroup(tokens []Token, lineNo int) (*operand, bool) {
	if len(tokens) == 0 {
		return nil, false
	}

	if len(tokens) == 1 {
		t := tokens[0]
		switch t.Type {
		case TOKEN_IMMEDIATE:
			v, err := encoding.DecodeInt(t.Value)
			if err != nil || !encoding.InRange(v, 14) {
				return nil, false
			}
			return &operand{Mode: ModeImmediate, Imm: v, Line: lineNo}, true
		case TOKEN_IDENT:
			if reg, ok := parseRegister(t.Value); ok {
				return &operand{Mode: ModeRegister, Reg: reg, Line: lineNo}, true
			}
			return &operand{Mode: ModeDirect, Label: t.Value, Line: lineNo}, true
		}
		return nil, false
	}

	// Jump-with-parameters: IDENT ( inner1 , inner2 )
	if tokens[0].Type != TOKEN_IDENT || tokens[1].Type != TOKEN_LPAREN || tokens[len(tokens)-1].Type != TOKEN_RPAREN {
		return nil, false
	}

	inner := tokens[2 : len(tokens)-1]
	innerGroups := splitOperandGroups(inner)
	if len(innerGroups) != 2 {
		return &operand{Mode: ModeJump, Label: tokens[0].Value, Line: lineNo}, false
	}

	inner1, ok1 := parseOperandGroup(innerGroups[0], lineNo)
	inner2, ok2 := parseOperandGroup(innerGroups[1], lineNo)

	return &operand{
		Mode:   ModeJump,
		Label:  tokens[0].Value,
		Inner1: inner1,
		Inner2: inner2,
		Line:   lineNo,
	}, ok1 && ok2
}

func encodeInstructionWord(opcode uint16, srcMode, dstMode AddrMode) uint16 {
	sm, dm := srcMode, dstMode
	if sm == modeNone {
		sm = 0
	}
	if dm == modeNone {
		dm = 0
	}

	var w uint16
	w |= uint16(sm&0x3) << 12
	w |= (opcode & 0xF) << 8
	w |= uint16(dm&0x3) << 6
	return w
}

// encodeOperandValue packs a 12-bit two's-complement value and the 2-bit
// A/R/E tag into one word, per spec.md §6's operand-word layout.
func encodeOperandValue(v int32, are ARE) uint16 {
	value := encoding.ClampBits(v, 12)
	return (value << 2) | uint16(are)
}

// wordsFromOperand emits the additional word(s) for a single operand.
func wordsFromOperand(op *operand) []MemoryWord {
	switch op.Mode {
	case ModeImmediate:
		return []MemoryWord{{Kind: KindOperand, Value: encodeOperandValue(op.Imm, Absolute), ARE: Absolute, Line: op.Line}}
	case ModeDirect:
		return []MemoryWord{{Kind: KindPlaceholder, Symbol: op.Label, Line: op.Line}}
	case ModeRegister:
		return []MemoryWord{{Kind: KindOperand, Value: op.Reg & 0x7, ARE: Absolute, Line: op.Line}}
	case ModeJump:
		words := []MemoryWord{{Kind: KindPlaceholder, Symbol: op.Label, Line: op.Line}}
		words = append(words, pairedWords(op.Inner1, op.Inner2)...)
		return words
	}
	return nil
}

// pairedWords applies the register-pair word-economy rule from spec.md
// §4.2 to any two operands appearing together, whether the two top-level
// operands of a 2-operand instruction or the two inner operands of a
// jump-with-parameters target.
func pairedWords(a, b *operand) []MemoryWord {
	if a.Mode == ModeRegister && b.Mode == ModeRegister {
		v := ((a.Reg & 0x7) << 3) | (b.Reg & 0x7)
		return []MemoryWord{{Kind: KindOperand, Value: v, ARE: Absolute, Line: a.Line}}
	}
	out := wordsFromOperand(a)
	out = append(out, wordsFromOperand(b)...)
	return out
}

func validateIdentifier(name string, lineNo int) TokenError {
	if len(name) < 1 || len(name) > 31 {
		return &InvalidIdentifierError{positioned{lineNo}, name}
	}
	if !isASCIILetter(rune(name[0])) {
		return &InvalidIdentifierError{positioned{lineNo}, name}
	}
	for _, r := range name {
		if !isASCIILetter(r) && !isASCIIDigit(r) {
			return &InvalidIdentifierError{positioned{lineNo}, name}
		}
	}
	if isReservedWord(name) {
		return &ReservedWordError{positioned{lineNo}, name}
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
