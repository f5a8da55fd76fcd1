package assembler

// Pass2Result is the fully-resolved output of one file: the final code and
// data images (placeholders replaced, data relocated), the externs that
// were actually referenced, and the resolved `.entry` listing.
type Pass2Result struct {
	Code        []MemoryWord
	Data        []MemoryWord
	Entries     []EntryResult
	Externs     []ExternRef
	Diagnostics Diagnostics
}

// ExternRef is one use of an external symbol, for the .ext listing.
type ExternRef struct {
	Name    string
	Address uint16
}

// RunPass2 implements spec.md §4.3: first relocate every data symbol (and
// the data image itself) by ICFinal, then resolve each KindPlaceholder word
// left by pass1 against the now-complete symbol table, and finally resolve
// every pending `.entry`. It is only invoked when pass1 recorded no errors.
func RunPass2(file string, p1 *Pass1Result) *Pass2Result {
	res := &Pass2Result{}

	p1.Symbols.RelocateData(p1.ICFinal)

	res.Data = make([]MemoryWord, len(p1.Data))
	copy(res.Data, p1.Data)

	addr := icStart
	code := make([]MemoryWord, len(p1.Code))

	for i, w := range p1.Code {
		switch w.Kind {
		case KindPlaceholder:
			sym, ok := p1.Symbols.Lookup(w.Symbol)
			if !ok {
				res.Diagnostics.Raise(file, &UndefinedSymbolError{positioned{w.Line}, w.Symbol})
				code[i] = MemoryWord{Kind: KindOperand, Value: 0, Line: w.Line}
				addr++
				continue
			}

			sym.Referenced = true

			if sym.Kind == SymbolExternal {
				code[i] = MemoryWord{Kind: KindOperand, Value: encodeOperandValue(0, External), ARE: External, Line: w.Line}
				res.Externs = append(res.Externs, ExternRef{Name: sym.Name, Address: addr})
			} else {
				code[i] = MemoryWord{
					Kind:  KindOperand,
					Value: encodeOperandValue(int32(sym.Value), Relocatable),
					ARE:   Relocatable,
					Line:  w.Line,
				}
			}

		default:
			code[i] = w
		}
		addr++
	}

	res.Code = code

	entries, entryErrs := p1.Symbols.IterEntries()
	for _, e := range entryErrs {
		res.Diagnostics.Raise(file, e)
	}
	res.Entries = entries

	return res
}
