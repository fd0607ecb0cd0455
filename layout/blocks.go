package layout

import (
	"bytes"

	"github.com/tradiedocs/docpdf/auformat"
	"github.com/tradiedocs/docpdf/builder"
	"github.com/tradiedocs/docpdf/fonts"
	"github.com/tradiedocs/docpdf/observability"
)

// Business carries the identity fields of the issuing business. Every
// field is optional and is independently omitted when empty.
type Business struct {
	LegalName   string
	TradingName string
	ABN         string
	Phone       string
	Email       string
	Address     string
	Licence     string
	Logo        []byte // PNG/JPEG; decode failure skips the logo
}

const headerBandHeight = 64.0

// AddBusinessHeader draws the branded identity banner. It is always placed
// at the very top of page 1 and assumes a fresh page, so it does not check
// remaining space.
func (e *Engine) AddBusinessHeader(b Business) {
	e.ensurePage()
	pal := e.cfg.Palette
	pageW := e.cfg.PageSize.Width
	top := e.cfg.PageSize.Height
	bandBottom := top - headerBandHeight

	e.page.DrawRectangle(0, bandBottom, pageW, headerBandHeight, builder.RectOptions{
		Fill:      true,
		FillColor: pal.HeaderFill,
	})

	textX := e.cfg.Margins.Left
	if len(b.Logo) > 0 {
		if img, err := builder.ImageFromReader(bytes.NewReader(b.Logo)); err != nil {
			e.log.Warn("skipping logo: image decode failed", observability.Error("err", err))
		} else {
			logoH := headerBandHeight - 16
			logoW := logoH * float64(img.Width) / float64(img.Height)
			e.page.DrawImage(img, textX, bandBottom+8, logoW, logoH, builder.ImageOptions{Interpolate: true})
			textX += logoW + 10
		}
	}

	y := top - 24.0
	if b.LegalName != "" {
		e.page.DrawText(b.LegalName, textX, y, builder.TextOptions{
			Font:     fonts.HelveticaBold,
			FontSize: 15,
			Color:    pal.HeaderText,
		})
		y -= 13
	}
	if b.TradingName != "" && b.TradingName != b.LegalName {
		e.page.DrawText("Trading as "+b.TradingName, textX, y, builder.TextOptions{
			Font:     fonts.Helvetica,
			FontSize: 9,
			Color:    pal.HeaderText,
		})
		y -= 11
	}
	if b.ABN != "" {
		e.page.DrawText("ABN "+auformat.ABN(b.ABN), textX, y, builder.TextOptions{
			Font:     fonts.Helvetica,
			FontSize: 9,
			Color:    pal.HeaderText,
		})
	}

	// Contact block, right-anchored.
	contact := make([]string, 0, 4)
	for _, line := range []string{b.Phone, b.Email, b.Address, b.Licence} {
		if line != "" {
			contact = append(contact, line)
		}
	}
	cy := top - 18.0
	for _, line := range contact {
		w := e.b.MeasureText(line, e.cfg.FontSizes.Small, fonts.Helvetica)
		e.page.DrawText(line, pageW-e.cfg.Margins.Right-w, cy, builder.TextOptions{
			Font:     fonts.Helvetica,
			FontSize: e.cfg.FontSizes.Small,
			Color:    pal.HeaderText,
		})
		cy -= 11
	}

	e.y = bandBottom - e.cfg.SectionSpacing
}

// TableColumn describes one table column. A zero width means an equal
// share of the width left after the explicit columns.
type TableColumn struct {
	Header string
	Width  float64
	Align  Align
}

// TableSpec describes a table block: a styled header row and data rows
// with alternating shading.
type TableSpec struct {
	Columns []TableColumn
	Rows    [][]string
}

const cellPadding = 4.0

// AddTable draws the header row and then each data row, checking space
// per row so tables span pages without ever splitting a row. On a page
// break the header row is drawn again before the row that moved.
func (e *Engine) AddTable(t TableSpec) {
	if len(t.Columns) == 0 {
		return
	}
	widths := e.columnWidths(t.Columns)
	size := e.cfg.FontSizes.Small
	lh := e.lineHeight(size)

	headerH := lh + 2*cellPadding
	e.ensureSpace(headerH + lh + 2*cellPadding) // header plus at least one row
	e.drawTableHeader(t.Columns, widths, headerH, size)

	for i, row := range t.Rows {
		cells := make([][]string, len(t.Columns))
		maxLines := 1
		for c := range t.Columns {
			text := ""
			if c < len(row) {
				text = CleanText(row[c])
			}
			cells[c] = e.wrap(text, e.bodyFace(), size, widths[c]-2*cellPadding)
			if len(cells[c]) > maxLines {
				maxLines = len(cells[c])
			}
		}
		rowH := float64(maxLines)*lh + 2*cellPadding

		if e.ensureSpace(rowH) {
			e.drawTableHeader(t.Columns, widths, headerH, size)
			// A row taller than a fresh page's remaining space is clamped
			// so it still ends at the bottom margin.
			if e.y-rowH < e.cfg.Margins.Bottom {
				e.y = e.cfg.Margins.Bottom + rowH
			}
		}
		e.drawTableRow(t.Columns, widths, cells, rowH, size, i%2 == 1)
	}
	e.advance(e.cfg.SectionSpacing)
}

func (e *Engine) columnWidths(cols []TableColumn) []float64 {
	total := e.contentWidth()
	widths := make([]float64, len(cols))
	remaining := total
	flexible := 0
	for i, c := range cols {
		if c.Width > 0 {
			widths[i] = c.Width
			remaining -= c.Width
		} else {
			flexible++
		}
	}
	if flexible > 0 {
		share := remaining / float64(flexible)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = share
			}
		}
	}
	return widths
}

func (e *Engine) drawTableHeader(cols []TableColumn, widths []float64, headerH float64, size float64) {
	e.ensurePage()
	pal := e.cfg.Palette
	e.page.DrawRectangle(e.cfg.Margins.Left, e.y-headerH, e.contentWidth(), headerH, builder.RectOptions{
		Fill:      true,
		FillColor: pal.HeaderFill,
	})
	x := e.cfg.Margins.Left
	for i, col := range cols {
		e.drawCellText(col.Header, x, e.y-cellPadding, widths[i], size, fonts.HelveticaBold, pal.HeaderText, col.Align)
		x += widths[i]
	}
	e.advance(headerH)
}

func (e *Engine) drawTableRow(cols []TableColumn, widths []float64, cells [][]string, rowH, size float64, shaded bool) {
	pal := e.cfg.Palette
	if shaded {
		e.page.DrawRectangle(e.cfg.Margins.Left, e.y-rowH, e.contentWidth(), rowH, builder.RectOptions{
			Fill:      true,
			FillColor: pal.RowShade,
		})
	}
	lh := e.lineHeight(size)
	x := e.cfg.Margins.Left
	for c := range cols {
		cellY := e.y - cellPadding
		for _, line := range cells[c] {
			e.drawCellText(line, x, cellY, widths[c], size, e.bodyFace(), pal.Text, cols[c].Align)
			cellY -= lh
		}
		x += widths[c]
	}
	e.page.DrawLine(e.cfg.Margins.Left, e.y-rowH, e.cfg.Margins.Left+e.contentWidth(), e.y-rowH, builder.LineOptions{
		StrokeColor: pal.Rule,
		LineWidth:   0.4,
	})
	e.advance(rowH)
}

func (e *Engine) drawCellText(text string, x, topY, colWidth, size float64, font string, color builder.Color, align Align) {
	if text == "" {
		return
	}
	tx := x + cellPadding
	switch align {
	case AlignRight:
		w := e.b.MeasureText(text, size, font)
		tx = x + colWidth - cellPadding - w
	case AlignCenter:
		w := e.b.MeasureText(text, size, font)
		tx = x + (colWidth-w)/2
	}
	e.page.DrawText(text, tx, topY-size, builder.TextOptions{
		Font:     font,
		FontSize: size,
		Color:    color,
	})
}

// Totals is the monetary summary for the totals box. Amounts display as
// whole dollars.
type Totals struct {
	Subtotal float64
	GST      float64
	Total    float64
}

const (
	totalsBoxWidth  = 190.0
	totalsLineH     = 15.0
	totalsBoxPad    = 8.0
	totalsBoxHeight = 3*totalsLineH + 2*totalsBoxPad
)

// AddTotalsBox draws the highlighted subtotal/GST/total box anchored to
// the right edge of the content area.
func (e *Engine) AddTotalsBox(t Totals) {
	e.ensureSpace(totalsBoxHeight + e.cfg.SectionSpacing)
	pal := e.cfg.Palette
	boxLeft := e.cfg.PageSize.Width - e.cfg.Margins.Right - totalsBoxWidth
	boxTop := e.y

	e.page.DrawRectangle(boxLeft, boxTop-totalsBoxHeight, totalsBoxWidth, totalsBoxHeight, builder.RectOptions{
		Fill:        true,
		Stroke:      true,
		FillColor:   pal.BoxFill,
		StrokeColor: pal.Rule,
		LineWidth:   0.6,
	})

	rows := []struct {
		label  string
		amount float64
		font   string
		size   float64
	}{
		{"Subtotal", t.Subtotal, fonts.Helvetica, e.cfg.FontSizes.Body},
		{"GST", t.GST, fonts.Helvetica, e.cfg.FontSizes.Body},
		{"Total", t.Total, fonts.HelveticaBold, e.cfg.FontSizes.Body + 1},
	}
	y := boxTop - totalsBoxPad
	for _, row := range rows {
		e.page.DrawText(row.label, boxLeft+totalsBoxPad, y-row.size, builder.TextOptions{
			Font:     row.font,
			FontSize: row.size,
			Color:    pal.Text,
		})
		amount := auformat.Currency(row.amount)
		w := e.b.MeasureText(amount, row.size, row.font)
		e.page.DrawText(amount, boxLeft+totalsBoxWidth-totalsBoxPad-w, y-row.size, builder.TextOptions{
			Font:     row.font,
			FontSize: row.size,
			Color:    pal.Text,
		})
		y -= totalsLineH
	}
	e.advance(totalsBoxHeight + e.cfg.SectionSpacing)
}

// Signatures names the two signing parties. Empty names leave the line
// blank for hand signing.
type Signatures struct {
	ContractorName string
	ClientName     string
}

const signatureBlockHeight = 64.0

// AddSignatureBlock draws side-by-side contractor and client signature
// lines.
func (e *Engine) AddSignatureBlock(s Signatures) {
	e.ensureSpace(signatureBlockHeight + e.cfg.SectionSpacing)
	half := e.contentWidth() / 2
	e.drawSignatureColumn("Contractor", s.ContractorName, e.cfg.Margins.Left, half-12)
	e.drawSignatureColumn("Client", s.ClientName, e.cfg.Margins.Left+half+12, half-12)
	e.advance(signatureBlockHeight + e.cfg.SectionSpacing)
}

func (e *Engine) drawSignatureColumn(label, name string, x, width float64) {
	pal := e.cfg.Palette
	size := e.cfg.FontSizes.Small
	e.page.DrawText(label, x, e.y-size, builder.TextOptions{
		Font:     fonts.HelveticaBold,
		FontSize: size,
		Color:    pal.Muted,
	})
	lineY := e.y - 36
	e.page.DrawLine(x, lineY, x+width, lineY, builder.LineOptions{
		StrokeColor: pal.Text,
		LineWidth:   0.8,
	})
	caption := "Signature"
	if name != "" {
		caption = name
	}
	e.page.DrawText(caption, x, lineY-size-3, builder.TextOptions{
		Font:     fonts.Helvetica,
		FontSize: size,
		Color:    pal.Muted,
	})
	e.page.DrawText("Date:", x+width-60, lineY-size-3, builder.TextOptions{
		Font:     fonts.Helvetica,
		FontSize: size,
		Color:    pal.Muted,
	})
}
