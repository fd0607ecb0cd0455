package layout

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/tradiedocs/docpdf/builder"
	"github.com/tradiedocs/docpdf/fonts"
	"github.com/tradiedocs/docpdf/ir/semantic"
)

var testClock = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

func newTestEngine(opts ...Option) *Engine {
	base := []Option{WithGeneratedAt(testClock)}
	return NewEngine(DefaultConfig(), append(base, opts...)...)
}

// pageStrings returns the decoded text of every Tj operation on a page.
// Test content is ASCII so the WinAnsi bytes decode directly.
func pageStrings(pg builder.PageBuilder) []string {
	var out []string
	for _, cs := range pg.Page().Contents {
		for _, op := range cs.Operations {
			if op.Operator != "Tj" || len(op.Operands) == 0 {
				continue
			}
			if s, ok := op.Operands[0].(semantic.StringOperand); ok {
				out = append(out, string(s.Value))
			}
		}
	}
	return out
}

func pageContains(pg builder.PageBuilder, substr string) bool {
	for _, s := range pageStrings(pg) {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func TestWrap_LinesFitWithinWidth(t *testing.T) {
	e := newTestEngine()
	text := strings.Repeat("replace existing switchboard and test all circuits ", 8)
	maxWidth := e.contentWidth()
	lines := e.wrap(CleanText(text), fonts.Helvetica, e.cfg.FontSizes.Body, maxWidth)
	if len(lines) < 2 {
		t.Fatalf("expected wrapped text, got %d lines", len(lines))
	}
	for _, line := range lines {
		if w := e.b.MeasureText(line, e.cfg.FontSizes.Body, fonts.Helvetica); w > maxWidth {
			t.Errorf("line %q measures %.1f, max %.1f", line, w, maxWidth)
		}
	}
	if got := strings.Join(lines, " "); got != CleanText(text) {
		t.Errorf("wrapping lost content:\n got %q\nwant %q", got, CleanText(text))
	}
}

func TestWrap_LongWordSplitsAtRunes(t *testing.T) {
	e := newTestEngine()
	word := strings.Repeat("x", 400)
	lines := e.wrap(word, fonts.Helvetica, 10, 100)
	if len(lines) < 2 {
		t.Fatalf("expected the word to split, got %d lines", len(lines))
	}
	for _, line := range lines {
		if w := e.b.MeasureText(line, 10, fonts.Helvetica); w > 100 {
			t.Errorf("fragment %q measures %.1f, max 100", line, w)
		}
	}
	if strings.Join(lines, "") != word {
		t.Errorf("rune splitting lost characters")
	}
}

func TestAddText_EmptyInputsDrawNothing(t *testing.T) {
	e := newTestEngine()
	for _, in := range []string{"", "   ", "**", "\n\t"} {
		e.AddText(in, TextStyle{})
		e.AddParagraph(in)
	}
	if e.PageCount() != 0 {
		t.Fatalf("empty appends created %d pages", e.PageCount())
	}
}

func TestAddParagraph_EmptyConsumesNoSpace(t *testing.T) {
	e := newTestEngine()
	e.AddParagraph("first paragraph")
	before := e.y
	e.AddParagraph("   ")
	e.AddParagraph("**")
	if e.y != before {
		t.Fatalf("cursor moved from %.2f to %.2f on empty input", before, e.y)
	}
}

func TestAddTitle_EmptyConsumesNoSpace(t *testing.T) {
	e := newTestEngine()
	e.AddParagraph("body before the title")
	before := e.y
	e.AddTitle("   ")
	e.AddTitle("##")
	if e.y != before {
		t.Fatalf("cursor moved from %.2f to %.2f on empty title", before, e.y)
	}
}

func TestWithTrueTypeFont_BodyTextUsesEmbeddedFace(t *testing.T) {
	e := newTestEngine(WithTrueTypeFont("Body", goregular.TTF))
	e.AddParagraph("embedded face body text")
	e.Finalize()
	data, err := e.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}

	font, ok := e.pages[0].Page().Resources.Fonts["Body"]
	if !ok {
		t.Fatalf("registered font missing from page resources")
	}
	if font.Subtype != "Type0" || font.Encoding != "Identity-H" {
		t.Fatalf("unexpected font resource: subtype %q encoding %q", font.Subtype, font.Encoding)
	}

	usesFace := false
	for _, cs := range e.pages[0].Page().Contents {
		for _, op := range cs.Operations {
			if op.Operator == "Tf" && op.Operands[0].(semantic.NameOperand).Value == "Body" {
				usesFace = true
			}
		}
	}
	if !usesFace {
		t.Fatalf("no text run selects the embedded face")
	}
	if !bytes.Contains(data, []byte("/FontFile2")) {
		t.Fatalf("embedded font program missing from output")
	}
}

func TestLongDocumentPaginates(t *testing.T) {
	e := newTestEngine()
	para := "Supply and install new distribution board including RCBO protection " +
		"on all final subcircuits, verification testing and certificate of compliance."
	for i := 0; i < 40; i++ {
		e.AddParagraph(fmt.Sprintf("Item %d: %s", i+1, para))
	}
	if e.PageCount() < 2 {
		t.Fatalf("expected at least 2 pages, got %d", e.PageCount())
	}
	// Every drawn line stays inside the bottom margin.
	for pi, pg := range e.pages {
		for _, cs := range pg.Page().Contents {
			for _, op := range cs.Operations {
				if op.Operator != "Tm" || len(op.Operands) != 6 {
					continue
				}
				y := op.Operands[5].(semantic.NumberOperand).Value
				if y < e.cfg.Margins.Bottom-1 {
					t.Fatalf("page %d has text at y=%.2f below bottom margin %.2f", pi+1, y, e.cfg.Margins.Bottom)
				}
			}
		}
	}
}

func TestEnsureSpace_ReportsBreaks(t *testing.T) {
	e := newTestEngine()
	if e.ensureSpace(100) {
		t.Fatalf("implicit first page must not count as a break")
	}
	e.y = e.cfg.Margins.Bottom + 10
	if !e.ensureSpace(50) {
		t.Fatalf("expected a page break")
	}
	if e.PageCount() != 2 {
		t.Fatalf("expected 2 pages, got %d", e.PageCount())
	}
	if e.y != e.cfg.PageSize.Height-e.cfg.Margins.Top {
		t.Fatalf("cursor not reset after break: %.2f", e.y)
	}
}

func TestAddBulletList_ItemNeverSplits(t *testing.T) {
	e := newTestEngine()
	// Walk the cursor close to the bottom, then add an item that wraps to
	// several lines. The whole unit must move to page 2.
	e.ensurePage()
	e.y = e.cfg.Margins.Bottom + e.lineHeight(e.cfg.FontSizes.Body)*1.5
	item := strings.Repeat("marker7 ", 30)
	e.AddBulletList([]string{item})
	if e.PageCount() != 2 {
		t.Fatalf("expected the item to break to page 2, got %d pages", e.PageCount())
	}
	if pageContains(e.pages[0], "marker7") {
		t.Fatalf("item text leaked onto page 1")
	}
	if !pageContains(e.pages[1], "marker7") {
		t.Fatalf("item text missing from page 2")
	}
}

func TestAddNumberedList_MarkersSkipEmptyItems(t *testing.T) {
	e := newTestEngine()
	e.AddNumberedList([]string{"first defect", "  ", "second defect"})
	got := pageStrings(e.pages[0])
	joined := strings.Join(got, "\n")
	for _, want := range []string{"1.", "2.", "first defect", "second defect"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in %q", want, joined)
		}
	}
	if strings.Contains(joined, "3.") {
		t.Errorf("empty item consumed a number: %q", joined)
	}
}

func TestAddChecklist_RendersTextAndGlyphLines(t *testing.T) {
	e := newTestEngine()
	e.AddChecklist([]ChecklistItem{
		{Text: "RCD tested", Passed: true},
		{Text: "Switchboard labelled", Passed: false},
	})
	if !pageContains(e.pages[0], "RCD tested") || !pageContains(e.pages[0], "Switchboard labelled") {
		t.Fatalf("checklist text missing")
	}
	// Each glyph is two stroked segments.
	segments := 0
	for _, cs := range e.pages[0].Page().Contents {
		for _, op := range cs.Operations {
			if op.Operator == "l" {
				segments++
			}
		}
	}
	if segments < 4 {
		t.Fatalf("expected at least 4 glyph segments, got %d", segments)
	}
}

func TestFinalize_StampsEveryPage(t *testing.T) {
	e := newTestEngine(WithIssuer("Acme Trades"), WithDocumentID("Q-1042"))
	for i := 0; i < 60; i++ {
		e.AddParagraph(fmt.Sprintf("Paragraph %d with enough words to take a couple of lines when wrapped at body size.", i))
	}
	e.Finalize()
	total := e.PageCount()
	if total < 2 {
		t.Fatalf("expected a multi-page document, got %d pages", total)
	}
	for i, pg := range e.pages {
		want := fmt.Sprintf("Page %d of %d", i+1, total)
		if !pageContains(pg, want) {
			t.Errorf("page %d missing footer %q", i+1, want)
		}
		if !pageContains(pg, "Acme Trades") {
			t.Errorf("page %d missing issuer", i+1)
		}
		if !pageContains(pg, "Ref Q-1042") {
			t.Errorf("page %d missing document reference", i+1)
		}
		if !pageContains(pg, "Generated 10 Jun 2025") {
			t.Errorf("page %d missing generation timestamp", i+1)
		}
	}
}

func TestFinalize_SecondCallIsNoOp(t *testing.T) {
	e := newTestEngine()
	e.AddParagraph("body")
	e.Finalize()
	e.Finalize()
	count := 0
	for _, s := range pageStrings(e.pages[0]) {
		if strings.Contains(s, "Page 1 of 1") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("footer stamped %d times", count)
	}
}

func TestBytes_IdempotentAfterFinalize(t *testing.T) {
	e := newTestEngine(WithIssuer("Acme Trades"))
	e.AddParagraph("deterministic output")
	e.Finalize()
	first, err := e.Bytes()
	if err != nil {
		t.Fatalf("first Bytes: %v", err)
	}
	second, err := e.Bytes()
	if err != nil {
		t.Fatalf("second Bytes: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("serialization not idempotent: %d vs %d bytes", len(first), len(second))
	}
	if !bytes.HasPrefix(first, []byte("%PDF-1.7")) {
		t.Fatalf("missing PDF header: %q", first[:16])
	}
}

func TestDataURI(t *testing.T) {
	e := newTestEngine()
	e.AddParagraph("inline preview")
	e.Finalize()
	uri, err := e.DataURI()
	if err != nil {
		t.Fatalf("DataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:application/pdf;base64,JVBERi0xLjc") {
		t.Fatalf("unexpected data URI prefix: %.60q", uri)
	}
}

func TestEmptyDocumentStillProducesOnePage(t *testing.T) {
	e := newTestEngine()
	e.Finalize()
	if e.PageCount() != 1 {
		t.Fatalf("expected one page, got %d", e.PageCount())
	}
	b, err := e.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("empty output")
	}
}
