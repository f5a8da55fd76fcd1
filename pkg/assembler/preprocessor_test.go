package assembler_test

import (
	"strings"
	"testing"

	"hmc14/pkg/assembler"
)

func diagKinds(diags []assembler.Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Kind)
	}
	return out
}

func hasKind(diags []assembler.Diagnostic, kind string) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestPreprocessExpandsMacro(t *testing.T) {
	lines := strings.Split("mcr GREET\nprn #1\nendmcr\nGREET", "\n")
	out, diags := assembler.Preprocess("test.as", lines)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(out) != 1 {
		t.Fatalf("want 1 expanded line, have %d", len(out))
	}
	if strings.TrimSpace(out[0].Text) != "prn #1" {
		t.Fatalf("want expanded body line, have %q", out[0].Text)
	}
	// Use-site line is reported, not the macro body's original line.
	if out[0].Line != 4 {
		t.Fatalf("want use-site line 4, have %d", out[0].Line)
	}
}

func TestPreprocessUnterminatedMacro(t *testing.T) {
	lines := strings.Split("mcr GREET\nprn #1\n", "\n")
	_, diags := assembler.Preprocess("test.as", lines)
	if !hasKind(diags, "unterminated-macro") {
		t.Fatalf("want unterminated-macro diagnostic, have %v", diagKinds(diags))
	}
}

func TestPreprocessMacroRedefined(t *testing.T) {
	lines := strings.Split("mcr GREET\nprn #1\nendmcr\nmcr GREET\nprn #2\nendmcr\n", "\n")
	_, diags := assembler.Preprocess("test.as", lines)
	if !hasKind(diags, "macro-redefined") {
		t.Fatalf("want macro-redefined diagnostic, have %v", diagKinds(diags))
	}
}

func TestPreprocessMacroUseMixedTokens(t *testing.T) {
	lines := strings.Split("mcr GREET\nprn #1\nendmcr\nGREET extra\n", "\n")
	_, diags := assembler.Preprocess("test.as", lines)
	if !hasKind(diags, "macro-syntax") {
		t.Fatalf("want macro-syntax diagnostic, have %v", diagKinds(diags))
	}
}

func TestPreprocessIdempotentOnPlainSource(t *testing.T) {
	lines := strings.Split("A: stop\nB: stop\n", "\n")
	out1, _ := assembler.Preprocess("test.as", lines)
	expanded := make([]string, 0, len(out1))
	for _, sl := range out1 {
		expanded = append(expanded, sl.Text)
	}
	out2, _ := assembler.Preprocess("test.as", expanded)
	if len(out1) != len(out2) {
		t.Fatalf("re-expanding already-expanded source should be a no-op, got lengths %d and %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i].Text != out2[i].Text {
			t.Fatalf("line %d differs between runs: %q vs %q", i, out1[i].Text, out2[i].Text)
		}
	}
}
