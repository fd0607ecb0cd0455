package writer

import (
	"bytes"
	"compress/zlib"
	"context"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/tradiedocs/docpdf/builder"
	"github.com/tradiedocs/docpdf/ir/semantic"
)

func buildTestDoc(t *testing.T) *semantic.Document {
	t.Helper()
	b := builder.NewBuilder()
	b.SetInfo(&semantic.DocumentInfo{Title: "Sample Quote"})
	b.SetLanguage("en-AU")
	b.NewPage(200, 200).
		DrawText("Hello", 10, 20, builder.TextOptions{FontSize: 12}).
		Finish()
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build doc: %v", err)
	}
	return doc
}

func TestWriter_StructureAndTrailer(t *testing.T) {
	doc := buildTestDoc(t)

	var buf bytes.Buffer
	if err := New().Write(context.Background(), doc, &buf, Config{Producer: "docpdf"}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	data := buf.Bytes()

	if !bytes.HasPrefix(data, []byte("%PDF-1.7\n")) {
		t.Fatalf("missing header: %q", data[:16])
	}
	if !bytes.HasSuffix(data, []byte("%%EOF\n")) {
		t.Fatalf("missing EOF marker: %q", data[len(data)-16:])
	}
	for _, want := range []string{
		"/Type /Catalog",
		"/Type /Pages",
		"/Count 1",
		"/Type /Page",
		"/MediaBox [0 0 200 200]",
		"/BaseFont /Helvetica",
		"/Encoding /WinAnsiEncoding",
		"/Title (Sample Quote)",
		"/Producer (docpdf)",
		"/Lang (en-AU)",
		"(Hello) Tj",
		"trailer",
		"startxref",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestWriter_XrefOffsetPointsAtTable(t *testing.T) {
	doc := buildTestDoc(t)

	var buf bytes.Buffer
	if err := New().Write(context.Background(), doc, &buf, Config{}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	data := buf.String()

	idx := strings.LastIndex(data, "startxref\n")
	if idx < 0 {
		t.Fatalf("no startxref")
	}
	rest := data[idx+len("startxref\n"):]
	end := strings.IndexByte(rest, '\n')
	off, err := strconv.Atoi(rest[:end])
	if err != nil {
		t.Fatalf("bad startxref value %q: %v", rest[:end], err)
	}
	if !strings.HasPrefix(data[off:], "xref\n") {
		t.Fatalf("startxref %d does not point at the xref table: %q", off, data[off:off+10])
	}

	// Each in-use entry must point at "N 0 obj".
	lines := strings.Split(data[off:], "\n")
	num := 0
	for _, line := range lines[2:] { // skip "xref" and the subsection header
		if len(line) < 18 {
			break
		}
		if strings.HasSuffix(line, " n ") {
			objOff, err := strconv.Atoi(line[:10])
			if err != nil {
				t.Fatalf("bad offset in entry %q", line)
			}
			want := strconv.Itoa(num) + " 0 obj"
			if !strings.HasPrefix(data[objOff:], want) {
				t.Errorf("xref entry %d points at %q, want %q", num, data[objOff:objOff+12], want)
			}
		}
		num++
	}
}

func TestWriter_Deterministic(t *testing.T) {
	doc := buildTestDoc(t)

	var a, b bytes.Buffer
	if err := New().Write(context.Background(), doc, &a, Config{Producer: "docpdf"}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := New().Write(context.Background(), doc, &b, Config{Producer: "docpdf"}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("output differs between runs: %d vs %d bytes", a.Len(), b.Len())
	}
}

func TestWriter_FlateContentFilter(t *testing.T) {
	doc := buildTestDoc(t)

	var buf bytes.Buffer
	if err := New().Write(context.Background(), doc, &buf, Config{ContentFilter: FilterFlate}); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	data := buf.Bytes()
	if bytes.Contains(data, []byte("(Hello) Tj")) {
		t.Fatalf("content stream not compressed")
	}
	if !bytes.Contains(data, []byte("/Filter /FlateDecode")) {
		t.Fatalf("missing FlateDecode filter entry")
	}

	// Decompress the first stream and confirm the text survived.
	start := bytes.Index(data, []byte("stream\n"))
	if start < 0 {
		t.Fatalf("no stream in output")
	}
	start += len("stream\n")
	end := bytes.Index(data[start:], []byte("\nendstream"))
	if end < 0 {
		t.Fatalf("unterminated stream")
	}
	zr, err := zlib.NewReader(bytes.NewReader(data[start : start+end]))
	if err != nil {
		t.Fatalf("open flate stream: %v", err)
	}
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("inflate: %v", err)
	}
	if !bytes.Contains(plain, []byte("(Hello) Tj")) {
		t.Fatalf("decompressed content missing text: %q", plain)
	}
}

func TestWriter_EmptyDocumentRejected(t *testing.T) {
	var buf bytes.Buffer
	err := New().Write(context.Background(), &semantic.Document{}, &buf, Config{})
	if err == nil {
		t.Fatalf("expected error for document with no pages")
	}
}

func TestWriter_CancelledContext(t *testing.T) {
	doc := buildTestDoc(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	if err := New().Write(ctx, doc, &buf, Config{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestEscapeLiteralString(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "(plain)"},
		{"a(b)c", `(a\(b\)c)`},
		{"back\\slash", `(back\\slash)`},
		{"line\nbreak", `(line\nbreak)`},
	}
	for _, tc := range cases {
		if got := string(escapeLiteralString([]byte(tc.in))); got != tc.want {
			t.Errorf("escape %q = %q, want %q", tc.in, got, tc.want)
		}
	}
	if got := string(escapeLiteralString([]byte{0x95})); got != `(\225)` {
		t.Errorf("high byte = %q", got)
	}
}
