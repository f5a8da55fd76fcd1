package assembler_test

import (
	"reflect"
	"testing"

	"hmc14/pkg/assembler"
)

type testCase struct {
	Name    string
	Input   string
	Code    map[int]uint16 // index into res.Code -> expected Value
	Data    map[int]uint16
	Entries map[string]uint16
	Externs map[string]uint16
}

type failCase struct {
	Name  string
	Input string
	Kind  string
}

func run(t *testing.T, test *testCase) {
	res := assembler.Assemble("test.as", test.Input)

	if !res.OK() {
		t.Fatalf("%s: unexpected errors: %v", test.Name, res.Diagnostics)
	}

	for i, want := range test.Code {
		if i >= len(res.Code) {
			t.Fatalf("%s: missing code word [%d], want:%014b", test.Name, i, want)
		}
		if have := res.Code[i].Value; have != want {
			t.Fatalf("%s: code[%d] want:%014b have:%014b", test.Name, i, want, have)
		}
	}

	for i, want := range test.Data {
		if i >= len(res.Data) {
			t.Fatalf("%s: missing data word [%d], want:%014b", test.Name, i, want)
		}
		if have := res.Data[i].Value; have != want {
			t.Fatalf("%s: data[%d] want:%014b have:%014b", test.Name, i, want, have)
		}
	}

	for name, want := range test.Entries {
		found := false
		for _, e := range res.Entries {
			if e.Name == name {
				found = true
				if e.Value != want {
					t.Fatalf("%s: entry %s want:%d have:%d", test.Name, name, want, e.Value)
				}
			}
		}
		if !found {
			t.Fatalf("%s: missing entry %s", test.Name, name)
		}
	}

	for name, want := range test.Externs {
		found := false
		for _, e := range res.Externs {
			if e.Name == name && e.Address == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s: missing extern use %s@%d", test.Name, name, want)
		}
	}
}

func runFail(t *testing.T, test *failCase) {
	res := assembler.Assemble("test.as", test.Input)

	if res.OK() {
		t.Fatalf("%s: want error, assembled cleanly", test.Name)
	}

	for _, d := range res.Diagnostics {
		if d.Kind == test.Kind {
			return
		}
	}

	kinds := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	t.Fatalf("%s: want diagnostic kind %q, have %v", test.Name, test.Kind, kinds)
}

func TestMinimal(t *testing.T) {
	run(t, &testCase{
		Name:  "Minimal",
		Input: "MAIN: stop",
		Code: map[int]uint16{
			0: 15 << 8,
		},
	})
}

func TestImmediatePrint(t *testing.T) {
	res := assembler.Assemble("test.as", "prn #5")
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	if len(res.Code) != 2 {
		t.Fatalf("want 2 code words, have %d", len(res.Code))
	}
}

func TestDataAndEntry(t *testing.T) {
	run(t, &testCase{
		Name: "DataAndEntry",
		Input: "LEN: .data 6,-9,15\n" +
			".entry LEN\n",
		Data: map[int]uint16{
			0: 6,
			1: 0b11111111110111,
			2: 15,
		},
		Entries: map[string]uint16{
			"LEN": 100,
		},
	})
}

func TestExternalReference(t *testing.T) {
	res := assembler.Assemble("test.as", ".extern EXT\njmp EXT\n")
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	if len(res.Externs) != 1 {
		t.Fatalf("want 1 extern use, have %d", len(res.Externs))
	}
	if res.Externs[0].Name != "EXT" || res.Externs[0].Address != 101 {
		t.Fatalf("want EXT@101, have %s@%d", res.Externs[0].Name, res.Externs[0].Address)
	}
}

func TestIllegalAddressing(t *testing.T) {
	runFail(t, &failCase{
		Name:  "IllegalAddressing",
		Input: "mov r3, #5",
		Kind:  "illegal-addressing-mode",
	})
}

func TestMacroExpansion(t *testing.T) {
	res := assembler.Assemble("test.as", "mcr DOUBLE\nadd r1, r1\nendmcr\nDOUBLE\nDOUBLE\n")
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	if len(res.Code) != 4 {
		t.Fatalf("want 2 expansions x 2 words each, have %d", len(res.Code))
	}
}

func TestUndefinedSymbol(t *testing.T) {
	runFail(t, &failCase{
		Name:  "UndefinedSymbol",
		Input: "jmp MISSING",
		Kind:  "undefined-symbol",
	})
}

func TestDuplicateSymbol(t *testing.T) {
	runFail(t, &failCase{
		Name:  "DuplicateSymbol",
		Input: "A: stop\nA: stop\n",
		Kind:  "duplicate-symbol",
	})
}

func TestMemoryOverflow(t *testing.T) {
	var sb []byte
	for i := 0; i < 300; i++ {
		sb = append(sb, []byte("stop\n")...)
	}
	runFail(t, &failCase{
		Name:  "MemoryOverflow",
		Input: string(sb),
		Kind:  "memory-overflow",
	})
}

func TestDeterminism(t *testing.T) {
	input := "LEN: .data 1,2,3\n.entry LEN\nmov LEN, r2\n"
	a := assembler.Assemble("test.as", input)
	b := assembler.Assemble("test.as", input)

	if !reflect.DeepEqual(a.Code, b.Code) || !reflect.DeepEqual(a.Data, b.Data) {
		t.Fatal("repeated assembly of identical input produced different images")
	}
}

func TestRoundTripHeaderCount(t *testing.T) {
	res := assembler.Assemble("test.as", "A: stop\nB: stop\nstop\n")
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	if int(res.ICFinal-100) != len(res.Code) {
		t.Fatalf("want ICFinal-100 == len(Code) (%d), have ICFinal-100=%d", len(res.Code), res.ICFinal-100)
	}
}

func TestRegisterPairEconomy(t *testing.T) {
	res := assembler.Assemble("test.as", "mov r1, r2\n")
	if !res.OK() {
		t.Fatalf("unexpected errors: %v", res.Diagnostics)
	}
	if len(res.Code) != 2 {
		t.Fatalf("want first word + one shared register word, have %d words", len(res.Code))
	}
}
