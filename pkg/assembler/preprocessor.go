package assembler

import "strings"

type macro struct {
	name string
	body []SourceLine
}

// Preprocess implements spec.md §4.1: it recognizes `mcr name`/`endmcr`
// definition blocks, stores their bodies verbatim, and replaces bare
// macro-use lines with the stored body, tagging every emitted line with
// the original file+line of the use site (or, for lines outside any
// macro, their own file+line).
func Preprocess(file string, rawLines []string) ([]SourceLine, []Diagnostic) {
	var diags Diagnostics
	macros := make(map[string]*macro)

	var out []SourceLine

	i := 0
	for i < len(rawLines) {
		lineNo := i + 1
		stripped := strings.TrimSpace(stripComment(rawLines[i]))
		fields := strings.Fields(stripped)

		if len(fields) > 0 && strings.EqualFold(fields[0], "mcr") {
			name, nextIndex, ok := defineMacro(file, rawLines, i, fields, macros, &diags)
			_ = name
			if !ok {
				break
			}
			i = nextIndex
			continue
		}

		if len(fields) == 1 {
			if m, ok := macros[fields[0]]; ok {
				for _, bodyLine := range m.body {
					out = append(out, SourceLine{File: file, Line: lineNo, Text: bodyLine.Text})
				}
				i++
				continue
			}
		} else if len(fields) > 1 {
			if _, ok := macros[fields[0]]; ok {
				diags.Raise(file, &MacroUseMixedTokensError{positioned{lineNo}, fields[0]})
				i++
				continue
			}
		}

		out = append(out, SourceLine{File: file, Line: lineNo, Text: rawLines[i]})
		i++
	}

	return out, diags.Items()
}

// defineMacro consumes a `mcr name` ... `endmcr` block starting at index i
// (0-based, rawLines[i] is the "mcr name" line) and registers it. It
// returns the index to resume scanning from.
func defineMacro(
	file string, rawLines []string, i int, headerFields []string,
	macros map[string]*macro, diags *Diagnostics,
) (string, int, bool) {
	lineNo := i + 1

	if len(headerFields) != 2 {
		diags.Raise(file, &MacroExtraneousTokensError{positioned{lineNo}})
	}

	name := ""
	if len(headerFields) >= 2 {
		name = headerFields[1]
	}

	if name != "" {
		if isReservedWord(name) {
			diags.Raise(file, &MacroRedefinedError{positioned{lineNo}, name})
		} else if _, exists := macros[name]; exists {
			diags.Raise(file, &MacroRedefinedError{positioned{lineNo}, name})
		}
	}

	var body []SourceLine
	j := i + 1
	terminated := false

	for j < len(rawLines) {
		bodyFields := strings.Fields(strings.TrimSpace(stripComment(rawLines[j])))

		if len(bodyFields) >= 1 && bodyFields[0] == "endmcr" {
			if len(bodyFields) != 1 {
				diags.Raise(file, &MacroExtraneousTokensError{positioned{j + 1}})
			}
			terminated = true
			j++
			break
		}

		if len(bodyFields) >= 1 && strings.EqualFold(bodyFields[0], "mcr") {
			diags.Raise(file, &MacroExtraneousTokensError{positioned{j + 1}})
		}

		body = append(body, SourceLine{File: file, Line: j + 1, Text: rawLines[j]})
		j++
	}

	if !terminated {
		diags.Raise(file, &UnterminatedMacroError{positioned{lineNo}, name})
		return name, j, false
	}

	if name != "" && !isReservedWord(name) {
		if _, exists := macros[name]; !exists {
			macros[name] = &macro{name: name, body: body}
		}
	}

	return name, j, true
}
