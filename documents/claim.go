package documents

import (
	"fmt"
	"time"

	"github.com/tradiedocs/docpdf/auformat"
	"github.com/tradiedocs/docpdf/layout"
)

// ClaimStage is one stage line of a progress claim.
type ClaimStage struct {
	Stage         string
	ContractValue float64
	PercentDone   float64 // 0..100
	ThisClaim     float64
}

// ProgressClaim is a staged payment claim against a contract.
type ProgressClaim struct {
	Number      string
	ContractRef string
	Business    layout.Business
	Client      Client
	Date        time.Time
	Stages      []ClaimStage
	DueDays     int
	PaymentInfo string
}

// RenderProgressClaim composes the claim and returns the finalized PDF
// bytes.
func RenderProgressClaim(c ProgressClaim, opts ...layout.Option) ([]byte, error) {
	e := newEngine(c.Business, "Progress Claim "+c.Number, c.Number, opts)

	e.AddBusinessHeader(c.Business)
	e.AddTitle("Progress Claim")
	addClientBlock(e, c.Client, "Claim", c.Number, c.Date)

	if c.ContractRef != "" {
		e.AddText("Contract: "+c.ContractRef, layout.TextStyle{})
		e.AddSpace(4)
	}

	if len(c.Stages) > 0 {
		e.AddHeading(1, "Claim Summary")
		rows := make([][]string, 0, len(c.Stages))
		claimed := 0.0
		for _, st := range c.Stages {
			claimed += st.ThisClaim
			rows = append(rows, []string{
				st.Stage,
				auformat.Currency(st.ContractValue),
				fmt.Sprintf("%.0f%%", st.PercentDone),
				auformat.Currency(st.ThisClaim),
			})
		}
		e.AddTable(layout.TableSpec{
			Columns: []layout.TableColumn{
				{Header: "Stage"},
				{Header: "Contract Value", Width: 90, Align: layout.AlignRight},
				{Header: "Complete", Width: 65, Align: layout.AlignCenter},
				{Header: "This Claim", Width: 90, Align: layout.AlignRight},
			},
			Rows: rows,
		})
		gst := claimed * GSTRate
		e.AddTotalsBox(layout.Totals{Subtotal: claimed, GST: gst, Total: claimed + gst})
	}

	if c.DueDays > 0 {
		e.AddParagraph(fmt.Sprintf("Payment is due within %d days of the date of this claim.", c.DueDays))
	}
	if c.PaymentInfo != "" {
		e.AddHeading(2, "Payment Details")
		e.AddParagraph(c.PaymentInfo)
	}

	e.Finalize()
	return e.Bytes()
}
