package documents

import (
	"fmt"
	"time"

	"github.com/tradiedocs/docpdf/layout"
)

// Handover is the practical-completion handover pack for a finished job.
type Handover struct {
	Number          string
	Business        layout.Business
	Client          Client
	Date            time.Time
	SiteAddress     string
	CompletionItems []layout.ChecklistItem
	Maintenance     string // markdown
	WarrantyMonths  int
	Defects         []string
}

// RenderHandover composes the handover document and returns the finalized
// PDF bytes.
func RenderHandover(h Handover, opts ...layout.Option) ([]byte, error) {
	e := newEngine(h.Business, "Handover "+h.Number, h.Number, opts)

	e.AddBusinessHeader(h.Business)
	e.AddTitle("Practical Completion & Handover")
	addClientBlock(e, h.Client, "Handover", h.Number, h.Date)

	if h.SiteAddress != "" {
		e.AddText("Site: "+h.SiteAddress, layout.TextStyle{})
		e.AddSpace(4)
	}

	if len(h.CompletionItems) > 0 {
		e.AddHeading(1, "Completion Checklist")
		e.AddChecklist(h.CompletionItems)
	}

	if len(h.Defects) > 0 {
		e.AddHeading(2, "Outstanding Defects")
		e.AddNumberedList(h.Defects)
	}

	if h.Maintenance != "" {
		e.AddHeading(1, "Care and Maintenance")
		if err := e.AppendMarkdown(h.Maintenance); err != nil {
			return nil, fmt.Errorf("render maintenance notes: %w", err)
		}
	}

	if h.WarrantyMonths > 0 {
		e.AddHeading(2, "Warranty")
		e.AddParagraph(fmt.Sprintf(
			"Workmanship is warranted for %d months from the date of practical completion, in addition to any statutory warranties.",
			h.WarrantyMonths))
	}

	e.AddSignatureBlock(layout.Signatures{
		ContractorName: issuerName(h.Business),
		ClientName:     h.Client.Name,
	})

	e.Finalize()
	return e.Bytes()
}
