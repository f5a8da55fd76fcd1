package encoding_test

import (
	"testing"

	"hmc14/pkg/encoding"
)

func TestDecodeInt(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Want  int32
	}{
		{"Plain", "123", 123},
		{"Immediate", "#123", 123},
		{"Negative", "-9", -9},
		{"ImmediateNegative", "#-9", -9},
		{"Plus", "+7", 7},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			have, err := encoding.DecodeInt(test.Input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if have != test.Want {
				t.Fatalf("want:%d have:%d", test.Want, have)
			}
		})
	}

	if _, err := encoding.DecodeInt(""); err == nil {
		t.Fatal("want error for empty literal, have nil")
	}
	if _, err := encoding.DecodeInt("abc"); err == nil {
		t.Fatal("want error for non-numeric literal, have nil")
	}
}

func TestClampBits(t *testing.T) {
	tests := []struct {
		Name string
		V    int32
		Bits uint
		Want uint16
	}{
		{"PositiveFits", 5, 12, 5},
		{"NegativeTwosComplement", -9, 14, 0b11111111110111},
		{"NegativeTwelveBit", -1, 12, 0xFFF},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			have := encoding.ClampBits(test.V, test.Bits)
			if have != test.Want {
				t.Fatalf("want:%014b have:%014b", test.Want, have)
			}
		})
	}
}

func TestInRange(t *testing.T) {
	if !encoding.InRange(2047, 12) {
		t.Fatal("want 2047 in range of 12 bits, have false")
	}
	if encoding.InRange(2048, 12) {
		t.Fatal("want 2048 out of range of 12 bits, have true")
	}
	if !encoding.InRange(-2048, 12) {
		t.Fatal("want -2048 in range of 12 bits, have false")
	}
	if encoding.InRange(-2049, 12) {
		t.Fatal("want -2049 out of range of 12 bits, have true")
	}
}

func TestRenderOctal(t *testing.T) {
	tests := []struct {
		Word uint16
		Want string
	}{
		{0, "00000"},
		{1, "00001"},
		{0x3FFF, "37777"},
	}

	for _, test := range tests {
		have := encoding.RenderOctal(test.Word)
		if have != test.Want {
			t.Fatalf("RenderOctal(%d): want:%s have:%s", test.Word, test.Want, have)
		}
	}
}

func TestRenderAddress(t *testing.T) {
	tests := []struct {
		Addr uint16
		Want string
	}{
		{100, "0100"},
		{0, "0000"},
		{9999, "9999"},
	}

	for _, test := range tests {
		have := encoding.RenderAddress(test.Addr)
		if have != test.Want {
			t.Fatalf("RenderAddress(%d): want:%s have:%s", test.Addr, test.Want, have)
		}
	}
}
