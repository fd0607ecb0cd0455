package fonts

import (
	"bytes"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/tradiedocs/docpdf/ir/semantic"
)

// ShapedGlyph is a single shaped glyph with positioning information in
// 1/1000 em units.
type ShapedGlyph struct {
	ID       int
	Cluster  int
	XAdvance float64
	YAdvance float64
	XOffset  float64
	YOffset  float64
}

var faceCache sync.Map // *semantic.FontDescriptor -> *gofont.Face

func faceFor(font *semantic.Font) (*gofont.Face, error) {
	if cached, ok := faceCache.Load(font.Descriptor); ok {
		return cached.(*gofont.Face), nil
	}
	face, err := gofont.ParseTTF(bytes.NewReader(font.Descriptor.FontFile))
	if err != nil {
		return nil, err
	}
	faceCache.Store(font.Descriptor, face)
	return face, nil
}

// ShapeText shapes text with the embedded font program of a Type0 font and
// returns the glyphs with their advances.
func ShapeText(text string, font *semantic.Font) ([]ShapedGlyph, error) {
	if font == nil || font.Descriptor == nil || len(font.Descriptor.FontFile) == 0 {
		return nil, nil
	}
	face, err := faceFor(font)
	if err != nil {
		return nil, err
	}

	shaper := &shaping.HarfbuzzShaper{}
	runes := []rune(text)
	script := detectScript(runes)

	// Shape at 1000 units per em so advances come back in glyph space.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      face,
		Size:      fixed.Int26_6(1000 * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	output := shaper.Shape(input)

	result := make([]ShapedGlyph, 0, len(output.Glyphs))
	for _, g := range output.Glyphs {
		result = append(result, ShapedGlyph{
			ID:       int(g.GlyphID),
			Cluster:  int(g.ClusterIndex),
			XAdvance: float64(g.XAdvance) / 64.0,
			YAdvance: float64(g.YAdvance) / 64.0,
			XOffset:  float64(g.XOffset) / 64.0,
			YOffset:  float64(g.YOffset) / 64.0,
		})
	}
	return result, nil
}

// MeasureShaped returns the advance width of text at size for an embedded
// TrueType font, falling back to the font's width table when shaping fails.
func MeasureShaped(text string, font *semantic.Font, size float64) float64 {
	glyphs, err := ShapeText(text, font)
	if err == nil && len(glyphs) > 0 {
		total := 0.0
		for _, g := range glyphs {
			total += g.XAdvance
		}
		return total / 1000.0 * size
	}
	// Width-table fallback keyed through ToUnicode.
	total := 0
	runeToCID := make(map[rune]int, len(font.ToUnicode))
	for cid, runes := range font.ToUnicode {
		for _, r := range runes {
			runeToCID[r] = cid
		}
	}
	for _, r := range text {
		if cid, ok := runeToCID[r]; ok {
			if w, ok := font.Widths[cid]; ok {
				total += w
				continue
			}
		}
		total += 500
	}
	return float64(total) / 1000.0 * size
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana, language.Nko:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Han, r):
		return language.Han
	case unicode.Is(unicode.Hiragana, r):
		return language.Hiragana
	case unicode.Is(unicode.Katakana, r):
		return language.Katakana
	case unicode.Is(unicode.Hangul, r):
		return language.Hangul
	}
	return language.Unknown
}
