package layout

import (
	"fmt"
	"strings"

	"github.com/tradiedocs/docpdf/builder"
	"github.com/tradiedocs/docpdf/fonts"
)

// Align controls horizontal line placement.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle configures a text run. Zero values fall back to the body role,
// the regular face, the palette text color, left alignment and the full
// content width.
type TextStyle struct {
	Font     string
	FontSize float64
	Color    builder.Color
	Align    Align
	MaxWidth float64
	Indent   float64
}

// bodyFace is the regular face body text renders in: the font registered
// with WithTrueTypeFont when one is set, Helvetica otherwise.
func (e *Engine) bodyFace() string {
	if e.bodyFont != "" {
		return e.bodyFont
	}
	return fonts.Helvetica
}

func (e *Engine) resolveStyle(s TextStyle) TextStyle {
	if s.Font == "" {
		s.Font = e.bodyFace()
	}
	if s.FontSize == 0 {
		s.FontSize = e.cfg.FontSizes.Body
	}
	if isZero(s.Color) {
		s.Color = e.cfg.Palette.Text
	}
	if s.MaxWidth == 0 {
		s.MaxWidth = e.contentWidth()
	}
	return s
}

// AddText cleans the input, wraps it to the style's width and draws it line
// by line, checking space before each line. Text that cleans to empty
// consumes no space and draws nothing.
func (e *Engine) AddText(text string, style TextStyle) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return
	}
	style = e.resolveStyle(style)
	avail := style.MaxWidth - style.Indent
	lines := e.wrap(cleaned, style.Font, style.FontSize, avail)
	lh := e.lineHeight(style.FontSize)
	for _, line := range lines {
		e.ensureSpace(lh)
		e.drawLineOfText(line, style)
		e.advance(lh)
	}
}

func (e *Engine) drawLineOfText(line string, style TextStyle) {
	x := e.cfg.Margins.Left + style.Indent
	switch style.Align {
	case AlignCenter:
		w := e.b.MeasureText(line, style.FontSize, style.Font)
		x = e.cfg.PageSize.Width/2 - w/2
	case AlignRight:
		w := e.b.MeasureText(line, style.FontSize, style.Font)
		x = e.cfg.PageSize.Width - e.cfg.Margins.Right - w
	}
	e.page.DrawText(line, x, e.y-style.FontSize, builder.TextOptions{
		Font:     style.Font,
		FontSize: style.FontSize,
		Color:    style.Color,
	})
}

// AddParagraph renders body text followed by the paragraph spacing.
func (e *Engine) AddParagraph(text string) {
	before := CleanText(text)
	if before == "" {
		return
	}
	e.AddText(text, TextStyle{})
	e.advance(e.cfg.ParagraphSpacing)
}

// AddTitle renders the document title centered in the primary color.
func (e *Engine) AddTitle(text string) {
	if CleanText(text) == "" {
		return
	}
	e.AddText(text, TextStyle{
		Font:     fonts.HelveticaBold,
		FontSize: e.cfg.FontSizes.Title,
		Color:    e.cfg.Palette.Primary,
		Align:    AlignCenter,
	})
	e.advance(e.cfg.SectionSpacing)
}

// AddHeading renders a level 1 or 2 heading with an underline rule and
// fixed spacing before and after.
func (e *Engine) AddHeading(level int, text string) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return
	}
	size := e.cfg.FontSizes.Heading1
	if level >= 2 {
		size = e.cfg.FontSizes.Heading2
	}
	lh := e.lineHeight(size)
	// Reserve the heading line plus the rule so they stay together.
	e.ensureSpace(lh + 4)
	e.advance(e.cfg.SectionSpacing / 2)
	e.ensureSpace(lh + 4)

	style := e.resolveStyle(TextStyle{Font: fonts.HelveticaBold, FontSize: size, Color: e.cfg.Palette.Primary})
	lines := e.wrap(cleaned, style.Font, style.FontSize, style.MaxWidth)
	var lastWidth float64
	for _, line := range lines {
		e.ensureSpace(lh)
		e.drawLineOfText(line, style)
		lastWidth = e.b.MeasureText(line, style.FontSize, style.Font)
		e.advance(lh)
	}
	ruleY := e.y + lh - size - 3
	e.page.DrawLine(e.cfg.Margins.Left, ruleY, e.cfg.Margins.Left+lastWidth, ruleY, builder.LineOptions{
		StrokeColor: e.cfg.Palette.Rule,
		LineWidth:   0.8,
	})
	e.advance(e.cfg.SectionSpacing / 2)
}

// AddBulletList renders one marker-plus-wrapped-text unit per item. Space
// is checked per item, never per whole list, and an item is never split
// across pages.
func (e *Engine) AddBulletList(items []string) {
	e.addMarkedList(items, func(int) string { return "•" })
}

// AddNumberedList renders a numbered list with the same pagination rules
// as AddBulletList.
func (e *Engine) AddNumberedList(items []string) {
	e.addMarkedList(items, func(i int) string { return fmt.Sprintf("%d.", i+1) })
}

func (e *Engine) addMarkedList(items []string, marker func(int) string) {
	const indent = 14.0
	size := e.cfg.FontSizes.Body
	lh := e.lineHeight(size)
	style := e.resolveStyle(TextStyle{Indent: indent})
	rendered := 0

	for _, item := range items {
		cleaned := CleanText(item)
		if cleaned == "" {
			continue
		}
		lines := e.wrap(cleaned, style.Font, size, style.MaxWidth-indent)
		e.ensureSpace(float64(len(lines)) * lh)
		e.ensurePage()
		e.page.DrawText(marker(rendered), e.cfg.Margins.Left, e.y-size, builder.TextOptions{
			Font:     style.Font,
			FontSize: size,
			Color:    style.Color,
		})
		for _, line := range lines {
			e.ensureSpace(lh)
			e.drawLineOfText(line, style)
			e.advance(lh)
		}
		rendered++
	}
	if rendered > 0 {
		e.advance(e.cfg.ParagraphSpacing)
	}
}

// ChecklistItem is a checklist entry with a pass/fail state.
type ChecklistItem struct {
	Text   string
	Passed bool
}

// AddChecklist renders items with a drawn tick or cross glyph. Pagination
// follows the list rules: per-item space check, items never split.
func (e *Engine) AddChecklist(items []ChecklistItem) {
	const indent = 16.0
	size := e.cfg.FontSizes.Body
	lh := e.lineHeight(size)
	style := e.resolveStyle(TextStyle{Indent: indent})
	rendered := 0

	for _, item := range items {
		cleaned := CleanText(item.Text)
		if cleaned == "" {
			continue
		}
		lines := e.wrap(cleaned, style.Font, size, style.MaxWidth-indent)
		e.ensureSpace(float64(len(lines)) * lh)
		e.ensurePage()
		e.drawCheckGlyph(item.Passed, size)
		for _, line := range lines {
			e.ensureSpace(lh)
			e.drawLineOfText(line, style)
			e.advance(lh)
		}
		rendered++
	}
	if rendered > 0 {
		e.advance(e.cfg.ParagraphSpacing)
	}
}

// drawCheckGlyph draws the pass tick or fail cross as line segments so the
// glyph does not depend on the face's symbol coverage.
func (e *Engine) drawCheckGlyph(passed bool, size float64) {
	x := e.cfg.Margins.Left
	top := e.y - 1
	s := size * 0.75
	if passed {
		c := e.cfg.Palette.Pass
		e.page.DrawLine(x, top-s*0.6, x+s*0.35, top-s, builder.LineOptions{StrokeColor: c, LineWidth: 1.4})
		e.page.DrawLine(x+s*0.35, top-s, x+s, top-s*0.15, builder.LineOptions{StrokeColor: c, LineWidth: 1.4})
		return
	}
	c := e.cfg.Palette.Fail
	e.page.DrawLine(x, top-s, x+s*0.8, top-s*0.15, builder.LineOptions{StrokeColor: c, LineWidth: 1.4})
	e.page.DrawLine(x, top-s*0.15, x+s*0.8, top-s, builder.LineOptions{StrokeColor: c, LineWidth: 1.4})
}

// wrap splits cleaned text into lines that each measure within maxWidth at
// the given size. Words longer than a full line fall back to rune-level
// splitting.
func (e *Engine) wrap(text string, font string, size, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := ""
	for _, word := range words {
		if e.b.MeasureText(word, size, font) > maxWidth {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			lines = append(lines, e.splitLongWord(word, font, size, maxWidth)...)
			if len(lines) > 0 {
				// Continue the line from the last fragment.
				current = lines[len(lines)-1]
				lines = lines[:len(lines)-1]
			}
			continue
		}
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if e.b.MeasureText(candidate, size, font) <= maxWidth {
			current = candidate
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

func (e *Engine) splitLongWord(word, font string, size, maxWidth float64) []string {
	var parts []string
	var sb strings.Builder
	for _, r := range word {
		candidate := sb.String() + string(r)
		if sb.Len() > 0 && e.b.MeasureText(candidate, size, font) > maxWidth {
			parts = append(parts, sb.String())
			sb.Reset()
		}
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

func isZero(c builder.Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}
