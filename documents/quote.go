package documents

import (
	"fmt"
	"time"

	"github.com/tradiedocs/docpdf/layout"
)

// Quote is the data for a priced quotation.
type Quote struct {
	Number      string
	Business    layout.Business
	Client      Client
	Date        time.Time
	ScopeOfWork string // markdown, usually LLM-drafted
	Inclusions  []string
	Exclusions  []string
	Items       []LineItem
	Notes       string
	ValidDays   int
}

// RenderQuote composes the quote and returns the finalized PDF bytes.
func RenderQuote(q Quote, opts ...layout.Option) ([]byte, error) {
	e := newEngine(q.Business, "Quote "+q.Number, q.Number, opts)

	e.AddBusinessHeader(q.Business)
	addClientBlock(e, q.Client, "Quote", q.Number, q.Date)

	if q.ScopeOfWork != "" {
		e.AddHeading(1, "Scope of Work")
		if err := e.AppendMarkdown(q.ScopeOfWork); err != nil {
			return nil, fmt.Errorf("render scope: %w", err)
		}
	}
	if len(q.Inclusions) > 0 {
		e.AddHeading(2, "Inclusions")
		e.AddBulletList(q.Inclusions)
	}
	if len(q.Exclusions) > 0 {
		e.AddHeading(2, "Exclusions")
		e.AddBulletList(q.Exclusions)
	}

	if len(q.Items) > 0 {
		e.AddHeading(1, "Pricing")
		addItemsTable(e, q.Items)
		e.AddTotalsBox(TotalsFor(q.Items))
	}

	if q.Notes != "" {
		e.AddHeading(2, "Notes")
		e.AddParagraph(q.Notes)
	}
	if q.ValidDays > 0 {
		e.AddParagraph(fmt.Sprintf("This quote is valid for %d days from the date of issue.", q.ValidDays))
	}

	e.AddSignatureBlock(layout.Signatures{
		ContractorName: issuerName(q.Business),
		ClientName:     q.Client.Name,
	})

	e.Finalize()
	return e.Bytes()
}
