// Package output renders an assembled file's memory image and symbol
// listings into the on-disk `.ob`/`.ent`/`.ext`/`.tbl` formats.
package output

import (
	"bytes"
	"fmt"
	"os"

	"hmc14/pkg/assembler"
	"hmc14/pkg/encoding"
)

const codeBase uint16 = 100

// WriteObject writes the `.ob` object file: a header line with the code and
// data word counts, then one `<address>\t<word>` line per word, code words
// first then data words (data addresses continue on from the code image).
func WriteObject(path string, res *assembler.Result) error {
	buf := new(bytes.Buffer)

	fmt.Fprintf(buf, "%d %d\n", len(res.Code), len(res.Data))

	addr := codeBase
	for _, w := range res.Code {
		fmt.Fprintf(buf, "%s\t%s\n", encoding.RenderAddress(addr), encoding.RenderOctal(w.Value))
		addr++
	}
	for _, w := range res.Data {
		fmt.Fprintf(buf, "%s\t%s\n", encoding.RenderAddress(addr), encoding.RenderOctal(w.Value))
		addr++
	}

	return os.WriteFile(path, buf.Bytes(), 0666)
}

// WriteEntries writes the `.ent` file, in source definition order. Callers
// must skip this when res.Entries is empty; per spec, no empty file is
// written.
func WriteEntries(path string, entries []assembler.EntryResult) error {
	buf := new(bytes.Buffer)
	for _, e := range entries {
		fmt.Fprintf(buf, "%s\t%s\n", e.Name, encoding.RenderAddress(e.Value))
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

// WriteExterns writes the `.ext` file, one line per use (duplicates
// expected). Callers must skip this when externs is empty.
func WriteExterns(path string, externs []assembler.ExternRef) error {
	buf := new(bytes.Buffer)
	for _, e := range externs {
		fmt.Fprintf(buf, "%s\t%s\n", e.Name, encoding.RenderAddress(e.Address))
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

// WriteSymbolTable writes the `-debug` `.tbl` listing: every symbol in
// insertion order with its kind, value, and export/reference flags.
func WriteSymbolTable(path string, symbols *assembler.SymbolTable) error {
	buf := new(bytes.Buffer)
	for _, sym := range symbols.Ordered() {
		fmt.Fprintf(buf, "%s\t%s\t%s\t%s\n", sym.Name, encoding.RenderAddress(sym.Value), kindLabel(sym.Kind), flagsLabel(sym))
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

func kindLabel(k assembler.SymbolKind) string {
	switch k {
	case assembler.SymbolData:
		return "data"
	case assembler.SymbolExternal:
		return "extern"
	default:
		return "code"
	}
}

func flagsLabel(sym *assembler.Symbol) string {
	switch {
	case sym.Exported && sym.Referenced:
		return "entry,used"
	case sym.Exported:
		return "entry"
	case sym.Referenced:
		return "used"
	default:
		return "-"
	}
}
