package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/tradiedocs/docpdf/documents"
	"github.com/tradiedocs/docpdf/layout"
)

// maxJobSize limits job file input to prevent memory exhaustion.
const maxJobSize = 1 << 20

var (
	errEmptyJob      = errors.New("job file is empty")
	errJobTooLarge   = errors.New("job file exceeds maximum size")
	errUnknownType   = errors.New("unknown document type")
	errMissingDoc    = errors.New("job file has no section for its document type")
	errMissingNumber = errors.New("document number is required")
)

// jobFile is the YAML schema for a render job. Exactly one document
// section should be present, matching the type field.
type jobFile struct {
	Type     string        `yaml:"type"` // quote, swms, variation, claim, handover
	Output   string        `yaml:"output,omitempty"`
	Date     string        `yaml:"date,omitempty"` // YYYY-MM-DD, defaults to today
	Business businessJob   `yaml:"business"`
	Client   clientJob     `yaml:"client"`
	Quote    *quoteJob     `yaml:"quote,omitempty"`
	SWMS     *swmsJob      `yaml:"swms,omitempty"`
	Var      *variationJob `yaml:"variation,omitempty"`
	Claim    *claimJob     `yaml:"claim,omitempty"`
	Handover *handoverJob  `yaml:"handover,omitempty"`
}

type businessJob struct {
	LegalName   string `yaml:"legal_name"`
	TradingName string `yaml:"trading_name,omitempty"`
	ABN         string `yaml:"abn"`
	Phone       string `yaml:"phone,omitempty"`
	Email       string `yaml:"email,omitempty"`
	Address     string `yaml:"address,omitempty"`
	Licence     string `yaml:"licence,omitempty"`
	Logo        string `yaml:"logo,omitempty"` // path to a PNG or JPEG
}

type clientJob struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address,omitempty"`
	Phone   string `yaml:"phone,omitempty"`
	Email   string `yaml:"email,omitempty"`
}

type itemJob struct {
	Description string  `yaml:"description"`
	Qty         float64 `yaml:"qty,omitempty"`
	Unit        string  `yaml:"unit,omitempty"`
	Price       float64 `yaml:"price"`
}

type checkJob struct {
	Text   string `yaml:"text"`
	Passed bool   `yaml:"passed"`
}

type quoteJob struct {
	Number      string    `yaml:"number"`
	ScopeOfWork string    `yaml:"scope_of_work,omitempty"`
	Inclusions  []string  `yaml:"inclusions,omitempty"`
	Exclusions  []string  `yaml:"exclusions,omitempty"`
	Items       []itemJob `yaml:"items,omitempty"`
	Notes       string    `yaml:"notes,omitempty"`
	ValidDays   int       `yaml:"valid_days,omitempty"`
}

type hazardJob struct {
	Activity string `yaml:"activity"`
	Hazards  string `yaml:"hazards"`
	Risk     string `yaml:"risk"`
	Controls string `yaml:"controls"`
}

type swmsJob struct {
	Number        string      `yaml:"number"`
	SiteAddress   string      `yaml:"site_address,omitempty"`
	WorkActivity  string      `yaml:"work_activity,omitempty"`
	HighRiskWork  []string    `yaml:"high_risk_work,omitempty"`
	Hazards       []hazardJob `yaml:"hazards,omitempty"`
	PPE           []checkJob  `yaml:"ppe,omitempty"`
	EmergencyInfo string      `yaml:"emergency_info,omitempty"`
	ReviewedBy    string      `yaml:"reviewed_by,omitempty"`
}

type variationJob struct {
	Number      string    `yaml:"number"`
	ContractRef string    `yaml:"contract_ref,omitempty"`
	Reason      string    `yaml:"reason,omitempty"`
	Items       []itemJob `yaml:"items,omitempty"`
	TimeImpact  string    `yaml:"time_impact,omitempty"`
	Notes       string    `yaml:"notes,omitempty"`
}

type stageJob struct {
	Stage         string  `yaml:"stage"`
	ContractValue float64 `yaml:"contract_value"`
	PercentDone   float64 `yaml:"percent_done"`
	ThisClaim     float64 `yaml:"this_claim"`
}

type claimJob struct {
	Number      string     `yaml:"number"`
	ContractRef string     `yaml:"contract_ref,omitempty"`
	Stages      []stageJob `yaml:"stages,omitempty"`
	DueDays     int        `yaml:"due_days,omitempty"`
	PaymentInfo string     `yaml:"payment_info,omitempty"`
}

type handoverJob struct {
	Number          string     `yaml:"number"`
	SiteAddress     string     `yaml:"site_address,omitempty"`
	CompletionItems []checkJob `yaml:"completion_items,omitempty"`
	Maintenance     string     `yaml:"maintenance,omitempty"`
	WarrantyMonths  int        `yaml:"warranty_months,omitempty"`
	Defects         []string   `yaml:"defects,omitempty"`
}

// loadJob reads and parses a job file, rejecting unknown fields so that
// typos in hand-written YAML surface as errors instead of silent drops.
func loadJob(path string) (*jobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file: %w", err)
	}
	if len(data) == 0 {
		return nil, errEmptyJob
	}
	if len(data) > maxJobSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", errJobTooLarge, len(data), maxJobSize)
	}

	var job jobFile
	if err := yaml.UnmarshalWithOptions(data, &job, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse job file: %w", err)
	}
	return &job, nil
}

func (j *jobFile) business() (layout.Business, error) {
	b := layout.Business{
		LegalName:   j.Business.LegalName,
		TradingName: j.Business.TradingName,
		ABN:         j.Business.ABN,
		Phone:       j.Business.Phone,
		Email:       j.Business.Email,
		Address:     j.Business.Address,
		Licence:     j.Business.Licence,
	}
	if j.Business.Logo != "" {
		logo, err := os.ReadFile(j.Business.Logo)
		if err != nil {
			return layout.Business{}, fmt.Errorf("read logo: %w", err)
		}
		b.Logo = logo
	}
	return b, nil
}

func (j *jobFile) client() documents.Client {
	return documents.Client{
		Name:    j.Client.Name,
		Address: j.Client.Address,
		Phone:   j.Client.Phone,
		Email:   j.Client.Email,
	}
}

func (j *jobFile) date() (time.Time, error) {
	if j.Date == "" {
		return time.Now(), nil
	}
	t, err := time.Parse("2006-01-02", j.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", j.Date, err)
	}
	return t, nil
}

func lineItems(items []itemJob) []documents.LineItem {
	out := make([]documents.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, documents.LineItem{
			Description: it.Description,
			Qty:         it.Qty,
			Unit:        it.Unit,
			UnitPrice:   it.Price,
		})
	}
	return out
}

func checklist(items []checkJob) []layout.ChecklistItem {
	out := make([]layout.ChecklistItem, 0, len(items))
	for _, it := range items {
		out = append(out, layout.ChecklistItem{Text: it.Text, Passed: it.Passed})
	}
	return out
}

// render dispatches on the job type and returns the PDF bytes plus the
// document number used for the default output filename.
func (j *jobFile) render(opts ...layout.Option) ([]byte, string, error) {
	biz, err := j.business()
	if err != nil {
		return nil, "", err
	}
	date, err := j.date()
	if err != nil {
		return nil, "", err
	}
	client := j.client()

	switch j.Type {
	case "quote":
		if j.Quote == nil {
			return nil, "", errMissingDoc
		}
		if j.Quote.Number == "" {
			return nil, "", errMissingNumber
		}
		pdf, err := documents.RenderQuote(documents.Quote{
			Number:      j.Quote.Number,
			Business:    biz,
			Client:      client,
			Date:        date,
			ScopeOfWork: j.Quote.ScopeOfWork,
			Inclusions:  j.Quote.Inclusions,
			Exclusions:  j.Quote.Exclusions,
			Items:       lineItems(j.Quote.Items),
			Notes:       j.Quote.Notes,
			ValidDays:   j.Quote.ValidDays,
		}, opts...)
		return pdf, j.Quote.Number, err

	case "swms":
		if j.SWMS == nil {
			return nil, "", errMissingDoc
		}
		if j.SWMS.Number == "" {
			return nil, "", errMissingNumber
		}
		hazards := make([]documents.HazardRow, 0, len(j.SWMS.Hazards))
		for _, h := range j.SWMS.Hazards {
			hazards = append(hazards, documents.HazardRow{
				Activity:   h.Activity,
				Hazards:    h.Hazards,
				RiskRating: h.Risk,
				Controls:   h.Controls,
			})
		}
		pdf, err := documents.RenderSWMS(documents.SWMS{
			Number:        j.SWMS.Number,
			Business:      biz,
			Client:        client,
			Date:          date,
			SiteAddress:   j.SWMS.SiteAddress,
			WorkActivity:  j.SWMS.WorkActivity,
			HighRiskWork:  j.SWMS.HighRiskWork,
			Hazards:       hazards,
			PPE:           checklist(j.SWMS.PPE),
			EmergencyInfo: j.SWMS.EmergencyInfo,
			ReviewedBy:    j.SWMS.ReviewedBy,
		}, opts...)
		return pdf, j.SWMS.Number, err

	case "variation":
		if j.Var == nil {
			return nil, "", errMissingDoc
		}
		if j.Var.Number == "" {
			return nil, "", errMissingNumber
		}
		pdf, err := documents.RenderVariation(documents.Variation{
			Number:      j.Var.Number,
			ContractRef: j.Var.ContractRef,
			Business:    biz,
			Client:      client,
			Date:        date,
			Reason:      j.Var.Reason,
			Items:       lineItems(j.Var.Items),
			TimeImpact:  j.Var.TimeImpact,
			Notes:       j.Var.Notes,
		}, opts...)
		return pdf, j.Var.Number, err

	case "claim":
		if j.Claim == nil {
			return nil, "", errMissingDoc
		}
		if j.Claim.Number == "" {
			return nil, "", errMissingNumber
		}
		stages := make([]documents.ClaimStage, 0, len(j.Claim.Stages))
		for _, s := range j.Claim.Stages {
			stages = append(stages, documents.ClaimStage{
				Stage:         s.Stage,
				ContractValue: s.ContractValue,
				PercentDone:   s.PercentDone,
				ThisClaim:     s.ThisClaim,
			})
		}
		pdf, err := documents.RenderProgressClaim(documents.ProgressClaim{
			Number:      j.Claim.Number,
			ContractRef: j.Claim.ContractRef,
			Business:    biz,
			Client:      client,
			Date:        date,
			Stages:      stages,
			DueDays:     j.Claim.DueDays,
			PaymentInfo: j.Claim.PaymentInfo,
		}, opts...)
		return pdf, j.Claim.Number, err

	case "handover":
		if j.Handover == nil {
			return nil, "", errMissingDoc
		}
		if j.Handover.Number == "" {
			return nil, "", errMissingNumber
		}
		pdf, err := documents.RenderHandover(documents.Handover{
			Number:          j.Handover.Number,
			Business:        biz,
			Client:          client,
			Date:            date,
			SiteAddress:     j.Handover.SiteAddress,
			CompletionItems: checklist(j.Handover.CompletionItems),
			Maintenance:     j.Handover.Maintenance,
			WarrantyMonths:  j.Handover.WarrantyMonths,
			Defects:         j.Handover.Defects,
		}, opts...)
		return pdf, j.Handover.Number, err

	default:
		return nil, "", fmt.Errorf("%w: %q", errUnknownType, j.Type)
	}
}
