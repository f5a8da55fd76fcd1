package assembler

// SymbolTable is an insertion-ordered name -> Symbol mapping, spec.md §4.5.
// Symbol values change only during pass1 and the pass2 relocation step;
// after that pass2 only sets the Referenced and Exported flags as it
// resolves placeholders and entries.
type SymbolTable struct {
	order   []string
	symbols map[string]*Symbol
	pending []pendingEntry
}

type pendingEntry struct {
	name string
	line int
}

// EntryResult is one resolved `.entry` for the entries listing.
type EntryResult struct {
	Name  string
	Value uint16
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// InsertUnique adds sym, or reports a duplicate-symbol diagnostic.
func (t *SymbolTable) InsertUnique(sym *Symbol) *DuplicateSymbolError {
	if _, exists := t.symbols[sym.Name]; exists {
		return &DuplicateSymbolError{positioned{sym.DefLine}, sym.Name}
	}
	t.symbols[sym.Name] = sym
	t.order = append(t.order, sym.Name)
	return nil
}

func (t *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := t.symbols[name]
	return sym, ok
}

// MarkEntry records a pending `.entry name` use; resolution happens in
// IterEntries once every label in the file has been assembled.
func (t *SymbolTable) MarkEntry(name string, line int) {
	t.pending = append(t.pending, pendingEntry{name, line})
}

// RelocateData adds offset to the value of every data-kind symbol, per
// spec.md §4.3's pass2 relocation step.
func (t *SymbolTable) RelocateData(offset uint16) {
	for _, name := range t.order {
		sym := t.symbols[name]
		if sym.Kind == SymbolData {
			sym.Value += offset
		}
	}
}

// IterEntries resolves every pending `.entry` against the (by now fully
// populated and relocated) symbol table, in the order the directives
// appeared in source.
func (t *SymbolTable) IterEntries() ([]EntryResult, []TokenError) {
	var results []EntryResult
	var errs []TokenError

	for _, p := range t.pending {
		sym, ok := t.symbols[p.name]
		if !ok {
			errs = append(errs, &UndefinedEntryError{positioned{p.line}, p.name})
			continue
		}
		if sym.Kind == SymbolExternal {
			errs = append(errs, &ExternEntryConflictError{positioned{p.line}, p.name})
			continue
		}
		sym.Exported = true
		results = append(results, EntryResult{p.name, sym.Value})
	}

	return results, errs
}

// Ordered returns every symbol in insertion order, for debug listings.
func (t *SymbolTable) Ordered() []*Symbol {
	out := make([]*Symbol, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.symbols[name])
	}
	return out
}
