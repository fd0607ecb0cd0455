// Package documents composes full trade documents (quotes, SWMS,
// variations, progress claims, handovers) through the layout engine. Each
// compositor takes the business data by value and returns finalized PDF
// bytes ready to serve.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/tradiedocs/docpdf/auformat"
	"github.com/tradiedocs/docpdf/layout"
)

// GSTRate is the Australian goods and services tax rate.
const GSTRate = 0.10

// Client identifies the customer a document is addressed to.
type Client struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// LineItem is one costed row of work or materials.
type LineItem struct {
	Description string
	Qty         float64
	Unit        string
	UnitPrice   float64
}

// Amount is the extended price of the line.
func (li LineItem) Amount() float64 {
	qty := li.Qty
	if qty == 0 {
		qty = 1
	}
	return qty * li.UnitPrice
}

// TotalsFor sums line items into subtotal, GST and total.
func TotalsFor(items []LineItem) layout.Totals {
	subtotal := 0.0
	for _, li := range items {
		subtotal += li.Amount()
	}
	gst := subtotal * GSTRate
	return layout.Totals{Subtotal: subtotal, GST: gst, Total: subtotal + gst}
}

// Filename derives the attachment filename from the document type and a
// truncated record identifier.
func Filename(docType, id string) string {
	short := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, id)
	if len(short) > 8 {
		short = short[:8]
	}
	if short == "" {
		short = "document"
	}
	return fmt.Sprintf("%s-%s.pdf", strings.ToLower(docType), short)
}

func issuerName(b layout.Business) string {
	if b.TradingName != "" {
		return b.TradingName
	}
	return b.LegalName
}

func newEngine(b layout.Business, title, docID string, opts []layout.Option) *layout.Engine {
	base := []layout.Option{
		layout.WithIssuer(issuerName(b)),
		layout.WithDocumentID(docID),
		layout.WithInfo(title, issuerName(b), "Generated by docpdf"),
	}
	return layout.NewEngine(layout.DefaultConfig(), append(base, opts...)...)
}

// addClientBlock renders the addressee and document metadata lines.
func addClientBlock(e *layout.Engine, c Client, docLabel, number string, date time.Time) {
	e.AddText(docLabel+" "+number, layout.TextStyle{
		Font:     "Helvetica-Bold",
		FontSize: e.Config().FontSizes.Heading1,
		Color:    e.Config().Palette.Primary,
	})
	e.AddText("Date: "+auformat.Date(date), layout.TextStyle{FontSize: e.Config().FontSizes.Small})
	e.AddSpace(4)
	if c.Name != "" {
		e.AddText("To: "+c.Name, layout.TextStyle{})
	}
	for _, line := range []string{c.Address, c.Phone, c.Email} {
		if line != "" {
			e.AddText(line, layout.TextStyle{FontSize: e.Config().FontSizes.Small, Color: e.Config().Palette.Muted})
		}
	}
	e.AddSpace(e.Config().SectionSpacing)
}

// addItemsTable renders costed line items with right-aligned money columns.
func addItemsTable(e *layout.Engine, items []LineItem) {
	rows := make([][]string, 0, len(items))
	for _, li := range items {
		qty := ""
		if li.Qty != 0 {
			qty = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", li.Qty), "0"), ".")
			if li.Unit != "" {
				qty += " " + li.Unit
			}
		}
		rows = append(rows, []string{
			li.Description,
			qty,
			auformat.Currency(li.UnitPrice),
			auformat.Currency(li.Amount()),
		})
	}
	e.AddTable(layout.TableSpec{
		Columns: []layout.TableColumn{
			{Header: "Description"},
			{Header: "Qty", Width: 70},
			{Header: "Rate", Width: 70, Align: layout.AlignRight},
			{Header: "Amount", Width: 80, Align: layout.AlignRight},
		},
		Rows: rows,
	})
}
