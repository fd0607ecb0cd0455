// Package semantic holds the in-memory document model produced by the
// builder and consumed by the writer.
package semantic

// Document is a fully composed PDF document ready for serialization.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
	Lang  string
}

// DocumentInfo maps onto the PDF Info dictionary.
type DocumentInfo struct {
	Title        string
	Author       string
	Subject      string
	Keywords     string
	Creator      string
	Producer     string
	CreationDate string // PDF date string, e.g. D:20250101120000Z
}

// Page is a single page: geometry, resources and content streams.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Contents  []ContentStream
	Resources *Resources
}

// ContentStream is an ordered list of drawing operations. RawBytes, when
// set, takes precedence over Operations at serialization time.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation is a single content-stream operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a content-stream operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

// Resources holds the per-page resource dictionaries.
type Resources struct {
	Fonts    map[string]*Font
	XObjects map[string]XObject
}

// Font describes a font resource. Core Type1 fonts carry only BaseFont;
// embedded TrueType fonts are Type0/Identity-H with a descendant CID font.
type Font struct {
	Subtype        string
	BaseFont       string
	Encoding       string
	Widths         map[int]int // glyph widths in 1/1000 em, keyed by code or CID
	ToUnicode      map[int][]rune
	CIDSystemInfo  *CIDSystemInfo
	DescendantFont *CIDFont
	Descriptor     *FontDescriptor
}

// CIDSystemInfo identifies the character collection of a CID font.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// CIDFont is the descendant font of a Type0 composite font.
type CIDFont struct {
	Subtype       string
	BaseFont      string
	CIDSystemInfo CIDSystemInfo
	DW            int
	W             map[int]int
	Descriptor    *FontDescriptor
}

// FontDescriptor carries font-wide metrics and the embedded font program.
type FontDescriptor struct {
	FontName     string
	Flags        int
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	StemV        float64
	FontBBox     [4]float64
	FontFile     []byte
	FontFileType string // FontFile2 for TrueType
}

// XObject is an external object; only image XObjects are produced here.
type XObject struct {
	Subtype          string
	Width            int
	Height           int
	ColorSpace       ColorSpace
	BitsPerComponent int
	Data             []byte
	Interpolate      bool
	SMask            *XObject
}

// Image is an alias kept for call-site readability.
type Image = XObject

// ColorSpace names the color space of an image.
type ColorSpace interface {
	ColorSpaceName() string
}

// DeviceColorSpace is one of DeviceRGB, DeviceGray, DeviceCMYK.
type DeviceColorSpace struct {
	Name string
}

func (cs DeviceColorSpace) ColorSpaceName() string { return cs.Name }

// Rectangle is a PDF rectangle in default user space.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the horizontal extent.
func (r Rectangle) Width() float64 { return r.URX - r.LLX }

// Height returns the vertical extent.
func (r Rectangle) Height() float64 { return r.URY - r.LLY }
