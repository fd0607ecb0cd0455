package documents

import (
	"fmt"
	"time"

	"github.com/tradiedocs/docpdf/layout"
)

// Variation is a contract variation against an existing job.
type Variation struct {
	Number      string
	ContractRef string
	Business    layout.Business
	Client      Client
	Date        time.Time
	Reason      string // markdown
	Items       []LineItem
	TimeImpact  string
	Notes       string
}

// RenderVariation composes the variation and returns the finalized PDF
// bytes.
func RenderVariation(v Variation, opts ...layout.Option) ([]byte, error) {
	e := newEngine(v.Business, "Variation "+v.Number, v.Number, opts)

	e.AddBusinessHeader(v.Business)
	e.AddTitle("Contract Variation")
	addClientBlock(e, v.Client, "Variation", v.Number, v.Date)

	if v.ContractRef != "" {
		e.AddText("Original contract: "+v.ContractRef, layout.TextStyle{})
		e.AddSpace(4)
	}

	if v.Reason != "" {
		e.AddHeading(1, "Description of Variation")
		if err := e.AppendMarkdown(v.Reason); err != nil {
			return nil, fmt.Errorf("render variation description: %w", err)
		}
	}

	if len(v.Items) > 0 {
		e.AddHeading(1, "Cost Adjustment")
		addItemsTable(e, v.Items)
		e.AddTotalsBox(TotalsFor(v.Items))
	}

	if v.TimeImpact != "" {
		e.AddHeading(2, "Impact on Program")
		e.AddParagraph(v.TimeImpact)
	}
	if v.Notes != "" {
		e.AddHeading(2, "Notes")
		e.AddParagraph(v.Notes)
	}

	e.AddParagraph("Work described in this variation will not commence until this document is approved in writing.")
	e.AddSignatureBlock(layout.Signatures{
		ContractorName: issuerName(v.Business),
		ClientName:     v.Client.Name,
	})

	e.Finalize()
	return e.Bytes()
}
