// Package layout implements the document layout engine: a vertical cursor
// over builder pages, wrapped text flow, structured business blocks, and a
// finalization pass that stamps footers once the page count is known.
//
// One engine instance serves one export: construct, append content in
// order, Finalize, then read Bytes or DataURI. Instances are not safe for
// concurrent use.
package layout

import (
	"time"

	"github.com/tradiedocs/docpdf/builder"
	"github.com/tradiedocs/docpdf/ir/semantic"
	"github.com/tradiedocs/docpdf/observability"
)

// MM converts millimetres to points, the unit the engine works in.
func MM(mm float64) float64 { return mm * 72.0 / 25.4 }

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// FontSizes maps semantic text roles to point sizes.
type FontSizes struct {
	Title    float64
	Heading1 float64
	Heading2 float64
	Body     float64
	Small    float64
	Tiny     float64
}

// Palette is the named color set every renderer draws from.
type Palette struct {
	Primary    builder.Color
	Text       builder.Color
	Muted      builder.Color
	HeaderFill builder.Color
	HeaderText builder.Color
	RowShade   builder.Color
	BoxFill    builder.Color
	Rule       builder.Color
	Pass       builder.Color
	Fail       builder.Color
}

// Config is the immutable layout configuration, fixed at construction.
type Config struct {
	PageSize         builder.PaperSize
	Margins          Margins
	FontSizes        FontSizes
	LineHeight       float64 // multiplier on font size
	ParagraphSpacing float64
	SectionSpacing   float64
	Palette          Palette
}

// DefaultConfig returns the A4 configuration used by the document
// compositors: millimetre-based margins, the standard role sizes and the
// house palette.
func DefaultConfig() Config {
	return Config{
		PageSize: builder.A4,
		Margins: Margins{
			Top:    MM(18),
			Bottom: MM(20),
			Left:   MM(15),
			Right:  MM(15),
		},
		FontSizes: FontSizes{
			Title:    20,
			Heading1: 14,
			Heading2: 11.5,
			Body:     10,
			Small:    8.5,
			Tiny:     7,
		},
		LineHeight:       1.2,
		ParagraphSpacing: 6,
		SectionSpacing:   12,
		Palette: Palette{
			Primary:    builder.Color{R: 0.10, G: 0.21, B: 0.36},
			Text:       builder.Color{R: 0.13, G: 0.13, B: 0.13},
			Muted:      builder.Color{R: 0.45, G: 0.45, B: 0.45},
			HeaderFill: builder.Color{R: 0.10, G: 0.21, B: 0.36},
			HeaderText: builder.Color{R: 0.98, G: 0.98, B: 0.98},
			RowShade:   builder.Color{R: 0.95, G: 0.96, B: 0.97},
			BoxFill:    builder.Color{R: 0.92, G: 0.95, B: 0.91},
			Rule:       builder.Color{R: 0.78, G: 0.78, B: 0.78},
			Pass:       builder.Color{R: 0.13, G: 0.55, B: 0.13},
			Fail:       builder.Color{R: 0.77, G: 0.12, B: 0.12},
		},
	}
}

// Engine renders content top to bottom onto builder pages. All state is
// mutated in place; discarding the instance is the only rollback.
type Engine struct {
	cfg Config
	b   builder.PDFBuilder
	log observability.Logger

	issuer      string
	documentID  string
	generatedAt time.Time
	info        *semantic.DocumentInfo
	bodyFont    string

	pages     []builder.PageBuilder
	page      builder.PageBuilder
	y         float64
	pageIndex int // 1-based, 0 before the first page

	finalized bool
	pdfBytes  []byte
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithLogger sets the logger used for non-fatal render warnings.
func WithLogger(log observability.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithIssuer sets the issuer name stamped into every footer.
func WithIssuer(name string) Option {
	return func(e *Engine) { e.issuer = name }
}

// WithDocumentID sets an optional document identifier for the footer.
func WithDocumentID(id string) Option {
	return func(e *Engine) { e.documentID = id }
}

// WithGeneratedAt pins the generation timestamp used in footers and
// document metadata. Defaults to the construction time.
func WithGeneratedAt(t time.Time) Option {
	return func(e *Engine) { e.generatedAt = t }
}

// WithInfo sets the PDF document information dictionary. The creation
// date is filled from the generation timestamp at serialization time.
func WithInfo(title, author, subject string) Option {
	return func(e *Engine) {
		e.info = &semantic.DocumentInfo{
			Title:    title,
			Author:   author,
			Subject:  subject,
			Producer: "docpdf",
		}
	}
}

// WithTrueTypeFont embeds a font and makes it the default body face. Styles
// can still name it (or the core faces) explicitly.
func WithTrueTypeFont(name string, data []byte) Option {
	return func(e *Engine) {
		e.b.RegisterTrueTypeFont(name, data)
		e.bodyFont = name
	}
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config, opts ...Option) *Engine {
	if cfg.PageSize.Width == 0 || cfg.PageSize.Height == 0 {
		cfg.PageSize = builder.A4
	}
	if cfg.LineHeight == 0 {
		cfg.LineHeight = 1.2
	}
	e := &Engine{
		cfg:         cfg,
		b:           builder.NewBuilder(),
		log:         observability.NopLogger{},
		generatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's layout configuration.
func (e *Engine) Config() Config { return e.cfg }

// PageCount returns the number of pages started so far.
func (e *Engine) PageCount() int { return e.pageIndex }

// contentWidth is derived once from the page geometry; every renderer wraps
// to it unless a block-local override is given.
func (e *Engine) contentWidth() float64 {
	return e.cfg.PageSize.Width - e.cfg.Margins.Left - e.cfg.Margins.Right
}

func (e *Engine) ensurePage() {
	if e.page == nil {
		e.newPage()
	}
}

func (e *Engine) newPage() {
	e.page = e.b.NewPage(e.cfg.PageSize.Width, e.cfg.PageSize.Height)
	e.pages = append(e.pages, e.page)
	e.pageIndex++
	e.y = e.cfg.PageSize.Height - e.cfg.Margins.Top
}

// ensureSpace starts a new page when fewer than required points remain
// above the bottom margin. Reports whether a page break occurred. Callers
// pass a conservative over-estimate; content is drawn only after the check
// so a unit never straddles the boundary.
func (e *Engine) ensureSpace(required float64) bool {
	if e.page == nil {
		e.newPage()
		return false
	}
	if e.y-required < e.cfg.Margins.Bottom {
		e.newPage()
		return true
	}
	return false
}

// advance moves the cursor down by amount points.
func (e *Engine) advance(amount float64) {
	e.y -= amount
}

// AddSpace inserts deliberate blank vertical space.
func (e *Engine) AddSpace(points float64) {
	e.ensurePage()
	e.advance(points)
}

func (e *Engine) lineHeight(fontSize float64) float64 {
	return fontSize * e.cfg.LineHeight
}

func pdfDate(t time.Time) string {
	return t.UTC().Format("D:20060102150405Z")
}
