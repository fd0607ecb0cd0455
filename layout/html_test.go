package layout

import (
	"strings"
	"testing"
)

func TestAppendHTML_BlocksMapToRenderers(t *testing.T) {
	e := newTestEngine()
	src := `<h1>Terms and Conditions</h1>
<p>Payment is due within <strong>14 days</strong> of invoice.</p>
<h3>Variations</h3>
<ul><li>Written approval required</li><li>Priced before commencement</li></ul>
<ol><li>First step</li><li>Second step</li></ol>`
	if err := e.AppendHTML(src); err != nil {
		t.Fatalf("AppendHTML: %v", err)
	}
	pg := e.pages[0]
	for _, want := range []string{
		"Terms and Conditions",
		"Payment is due within 14 days of invoice.",
		"Variations",
		"Written approval required",
		"Priced before commencement",
		"First step",
		"Second step",
		"1.",
	} {
		if !pageContains(pg, want) {
			t.Errorf("rendered output missing %q", want)
		}
	}
	for _, s := range pageStrings(pg) {
		if strings.Contains(s, "<") || strings.Contains(s, ">") {
			t.Errorf("markup leaked into output: %q", s)
		}
	}
}

func TestAppendHTML_FragmentWithoutStructure(t *testing.T) {
	e := newTestEngine()
	// Bare text still parses; nothing is drawn because no block elements map.
	if err := e.AppendHTML("<div><span>note</span></div>"); err != nil {
		t.Fatalf("AppendHTML: %v", err)
	}
}

func TestAppendHTML_MalformedInputDegrades(t *testing.T) {
	e := newTestEngine()
	// html.Parse repairs broken markup rather than failing.
	if err := e.AppendHTML("<p>unclosed paragraph"); err != nil {
		t.Fatalf("AppendHTML: %v", err)
	}
	if !pageContains(e.pages[0], "unclosed paragraph") {
		t.Fatalf("repaired content missing")
	}
}
