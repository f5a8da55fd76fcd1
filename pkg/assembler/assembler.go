package assembler

import "strings"

// Result is the complete output of assembling one source file.
type Result struct {
	File        string
	Code        []MemoryWord
	Data        []MemoryWord
	Entries     []EntryResult
	Externs     []ExternRef
	Symbols     *SymbolTable
	ICFinal     uint16
	DCFinal     uint16
	Diagnostics []Diagnostic
}

// OK reports whether the file assembled cleanly enough to emit output.
func (r *Result) OK() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Assemble runs the full pipeline over one file's source text: macro
// preprocessing, pass1 layout, and (only if pass1 is clean) pass2
// resolution, per spec.md §2's strictly-forward control flow. State is
// fresh for every call, so callers can run each file independently;
// nothing here is an AssembleLC3Source copy, it is written in the same
// single-entry-point shape the teacher's assembler package exposes.
func Assemble(file string, source string) *Result {
	rawLines := strings.Split(source, "\n")
	if len(rawLines) > 0 && rawLines[len(rawLines)-1] == "" {
		rawLines = rawLines[:len(rawLines)-1]
	}

	expanded, ppDiags := Preprocess(file, rawLines)

	p1 := RunPass1(file, expanded)

	var diags Diagnostics
	diags.Append(ppDiags...)
	diags.Append(p1.Diagnostics.Items()...)

	res := &Result{
		File:    file,
		Symbols: p1.Symbols,
		ICFinal: p1.ICFinal,
		DCFinal: p1.DCFinal,
	}

	if diags.HasErrors() {
		res.Code = p1.Code
		res.Data = p1.Data
		res.Diagnostics = diags.Items()
		return res
	}

	p2 := RunPass2(file, p1)
	diags.Append(p2.Diagnostics.Items()...)

	res.Code = p2.Code
	res.Data = p2.Data
	res.Entries = p2.Entries
	res.Externs = p2.Externs
	res.Diagnostics = diags.Items()

	return res
}
