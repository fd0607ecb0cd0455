package layout

import (
	"strings"
	"testing"

	"github.com/tradiedocs/docpdf/ir/semantic"
)

func sizeOperand(t *testing.T, op semantic.Operand) float64 {
	t.Helper()
	n, ok := op.(semantic.NumberOperand)
	if !ok {
		t.Fatalf("operand %T is not a number", op)
	}
	return n.Value
}

func TestAppendMarkdown_BlocksMapToRenderers(t *testing.T) {
	e := newTestEngine()
	src := strings.Join([]string{
		"# Scope of Work",
		"",
		"Remove the existing **hot water system** and make safe.",
		"",
		"## Inclusions",
		"",
		"- Supply new unit",
		"- Commissioning",
		"",
		"1. Isolate supply",
		"2. Swap unit",
	}, "\n")
	if err := e.AppendMarkdown(src); err != nil {
		t.Fatalf("AppendMarkdown: %v", err)
	}
	pg := e.pages[0]
	for _, want := range []string{
		"Scope of Work",
		"Remove the existing hot water system and make safe.",
		"Inclusions",
		"Supply new unit",
		"Commissioning",
		"Isolate supply",
		"Swap unit",
		"1.",
		"2.",
	} {
		if !pageContains(pg, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}
	// Emphasis markers never reach the page.
	for _, s := range pageStrings(pg) {
		if strings.Contains(s, "**") || strings.Contains(s, "#") {
			t.Errorf("markup leaked into output: %q", s)
		}
	}
}

func TestAppendMarkdown_DeepHeadingsClampToLevelTwo(t *testing.T) {
	e := newTestEngine()
	if err := e.AppendMarkdown("#### Deep Heading"); err != nil {
		t.Fatalf("AppendMarkdown: %v", err)
	}
	if !pageContains(e.pages[0], "Deep Heading") {
		t.Fatalf("heading text missing")
	}
	// Clamped headings render at the level-two size.
	found := false
	for _, cs := range e.pages[0].Page().Contents {
		for _, op := range cs.Operations {
			if op.Operator != "Tf" {
				continue
			}
			if sizeOperand(t, op.Operands[1]) == e.cfg.FontSizes.Heading2 {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("no text drawn at the level-two heading size")
	}
}

func TestAppendMarkdown_NestedListFlattens(t *testing.T) {
	e := newTestEngine()
	src := "- outer item\n  - inner detail\n"
	if err := e.AppendMarkdown(src); err != nil {
		t.Fatalf("AppendMarkdown: %v", err)
	}
	if !pageContains(e.pages[0], "outer item; inner detail") {
		t.Fatalf("nested list not flattened: %v", pageStrings(e.pages[0]))
	}
}

func TestAppendMarkdown_EmptyInput(t *testing.T) {
	e := newTestEngine()
	if err := e.AppendMarkdown(""); err != nil {
		t.Fatalf("AppendMarkdown: %v", err)
	}
	if e.PageCount() != 0 {
		t.Fatalf("empty markdown created %d pages", e.PageCount())
	}
}
