package documents

import (
	"fmt"
	"time"

	"github.com/tradiedocs/docpdf/layout"
)

// HazardRow is one activity entry in the safe work method statement.
type HazardRow struct {
	Activity   string
	Hazards    string
	RiskRating string // e.g. Low, Medium, High, Extreme
	Controls   string
}

// SWMS is the data for a safe work method statement.
type SWMS struct {
	Number        string
	Business      layout.Business
	Client        Client
	Date          time.Time
	SiteAddress   string
	WorkActivity  string
	HighRiskWork  []string
	Hazards       []HazardRow
	PPE           []layout.ChecklistItem
	EmergencyInfo string // markdown
	ReviewedBy    string
}

// RenderSWMS composes the SWMS and returns the finalized PDF bytes.
func RenderSWMS(s SWMS, opts ...layout.Option) ([]byte, error) {
	e := newEngine(s.Business, "SWMS "+s.Number, s.Number, opts)

	e.AddBusinessHeader(s.Business)
	e.AddTitle("Safe Work Method Statement")
	addClientBlock(e, s.Client, "SWMS", s.Number, s.Date)

	if s.SiteAddress != "" {
		e.AddText("Site: "+s.SiteAddress, layout.TextStyle{})
	}
	if s.WorkActivity != "" {
		e.AddText("Work activity: "+s.WorkActivity, layout.TextStyle{})
	}
	e.AddSpace(e.Config().SectionSpacing)

	if len(s.HighRiskWork) > 0 {
		e.AddHeading(1, "High Risk Construction Work")
		e.AddBulletList(s.HighRiskWork)
	}

	if len(s.Hazards) > 0 {
		e.AddHeading(1, "Hazard Assessment and Controls")
		rows := make([][]string, 0, len(s.Hazards))
		for _, h := range s.Hazards {
			rows = append(rows, []string{h.Activity, h.Hazards, h.RiskRating, h.Controls})
		}
		e.AddTable(layout.TableSpec{
			Columns: []layout.TableColumn{
				{Header: "Activity", Width: 110},
				{Header: "Hazards"},
				{Header: "Risk", Width: 55, Align: layout.AlignCenter},
				{Header: "Control Measures"},
			},
			Rows: rows,
		})
	}

	if len(s.PPE) > 0 {
		e.AddHeading(1, "Personal Protective Equipment")
		e.AddChecklist(s.PPE)
	}

	if s.EmergencyInfo != "" {
		e.AddHeading(1, "Emergency Procedures")
		if err := e.AppendMarkdown(s.EmergencyInfo); err != nil {
			return nil, fmt.Errorf("render emergency procedures: %w", err)
		}
	}

	e.AddSignatureBlock(layout.Signatures{
		ContractorName: s.ReviewedBy,
		ClientName:     s.Client.Name,
	})

	e.Finalize()
	return e.Bytes()
}
