package fonts

import (
	"bytes"
	"math"
	"testing"
)

func TestCoreMetrics_KnownFaces(t *testing.T) {
	for _, name := range []string{Helvetica, HelveticaBold, HelveticaOblique} {
		if CoreMetrics(name) == nil {
			t.Errorf("no metrics for %s", name)
		}
	}
	if CoreMetrics("Courier") != nil {
		t.Errorf("unexpected metrics for unknown face")
	}
}

func TestMeasureString(t *testing.T) {
	m := CoreMetrics(Helvetica)
	// H=722 i=222 space=278 from the AFM table.
	got := m.MeasureString("Hi ", 10)
	want := float64(722+222+278) / 1000.0 * 10
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("MeasureString = %v, want %v", got, want)
	}
	if m.MeasureString("", 10) != 0 {
		t.Fatalf("empty string must measure zero")
	}
	// Unknown runes fall back to the default width.
	if got := m.MeasureString("世", 10); got != float64(m.Default)/1000.0*10 {
		t.Fatalf("fallback width = %v", got)
	}
}

func TestBoldWiderThanRegular(t *testing.T) {
	text := "Total payable"
	reg := CoreMetrics(Helvetica).MeasureString(text, 10)
	bold := CoreMetrics(HelveticaBold).MeasureString(text, 10)
	if bold <= reg {
		t.Fatalf("bold (%v) not wider than regular (%v)", bold, reg)
	}
}

func TestEncodeWinAnsi(t *testing.T) {
	got := EncodeWinAnsi("Az 09")
	if !bytes.Equal(got, []byte("Az 09")) {
		t.Fatalf("ASCII must pass through: % x", got)
	}

	cases := []struct {
		in   string
		want byte
	}{
		{"•", 0x95}, // bullet
		{"–", 0x96}, // en dash
		{"—", 0x97}, // em dash
		{"’", 0x92}, // right single quote
		{"€", 0x80}, // euro
		{"…", 0x85}, // ellipsis
	}
	for _, tc := range cases {
		got := EncodeWinAnsi(tc.in)
		if len(got) != 1 || got[0] != tc.want {
			t.Errorf("EncodeWinAnsi(%q) = % x, want %02x", tc.in, got, tc.want)
		}
	}

	// Latin-1 range maps through directly; everything else degrades to '?'.
	if got := EncodeWinAnsi("°"); !bytes.Equal(got, []byte{0xB0}) {
		t.Errorf("degree sign = % x", got)
	}
	if got := EncodeWinAnsi("世"); !bytes.Equal(got, []byte{'?'}) {
		t.Errorf("unmapped rune = % x, want '?'", got)
	}
}

func TestLoadTrueType_RejectsGarbage(t *testing.T) {
	if _, err := LoadTrueType("Body", []byte("definitely not sfnt data")); err == nil {
		t.Fatalf("expected parse error")
	}
}
