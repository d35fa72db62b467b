package services

import (
	"fmt"
	"sort"
)

// DocumentRow is one line of a rendered proposal (equipment or installation).
type DocumentRow struct {
	Section     string // "Equipment" or "Installation"
	Index       string
	Description string
	Qty         float64
	Unit        string
	OurCost     float64
	QuotedPrice float64
}

// SummaryLine is one labelled amount on the financial summary.
type SummaryLine struct {
	Label   string
	OurCost float64
	Quoted  float64
}

// ProposalDocument holds everything the document renderers need. It is
// built from a recalculated proposal and never written back to it.
type ProposalDocument struct {
	CompanyName    string
	ProposalNumber string
	CreatedDate    string
	Customer       Customer
	ProjectType    ProjectType
	NetworkYears   int

	Rows    []DocumentRow
	Summary []SummaryLine

	GrossProjectCost   float64
	TotalIncentives    float64
	NetProjectCost     float64
	TotalActualCost    float64
	GrossProfit        float64
	GrossMarginPercent float64

	PaymentOptions []PaymentOptionAnalysis
}

// BuildProposalDocument lays out a recalculated proposal for rendering.
// Installation rows are grouped by subgroup in first-appearance order.
func BuildProposalDocument(p Proposal, companyName, createdDate string) ProposalDocument {
	doc := ProposalDocument{
		CompanyName:        companyName,
		ProposalNumber:     p.ProposalNumber,
		CreatedDate:        createdDate,
		Customer:           p.Customer,
		ProjectType:        p.ProjectType,
		NetworkYears:       p.NetworkYears,
		GrossProjectCost:   p.GrossProjectCost,
		TotalIncentives:    p.TotalIncentives,
		NetProjectCost:     p.NetProjectCost,
		TotalActualCost:    p.EffectiveActualCost(),
		GrossProfit:        p.GrossProfit,
		GrossMarginPercent: p.GrossMarginPercent,
		PaymentOptions:     EnabledPaymentOptions(AnalyzePaymentOptions(p)),
	}

	for i, item := range p.EVSEItems {
		doc.Rows = append(doc.Rows, DocumentRow{
			Section:     "Equipment",
			Index:       fmt.Sprintf("E%d", i+1),
			Description: item.Name,
			Qty:         item.Quantity,
			Unit:        UnitEach,
			OurCost:     item.TotalCost,
			QuotedPrice: item.TotalPrice,
		})
	}

	factor, err := MarkupFactor(p.CSMRCostBasisPercent, p.CSMRMarginPercent)
	if err != nil {
		factor = 0
	}
	order := make(map[string]int)
	items := append([]InstallationItem(nil), p.InstallationItems...)
	for _, item := range items {
		if _, ok := order[item.Subgroup]; !ok {
			order[item.Subgroup] = len(order)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return order[items[i].Subgroup] < order[items[j].Subgroup]
	})
	for i, item := range items {
		pricebook := item.TotalMaterial + item.TotalLabor
		doc.Rows = append(doc.Rows, DocumentRow{
			Section:     "Installation",
			Index:       fmt.Sprintf("I%d", i+1),
			Description: item.Name,
			Qty:         item.Quantity,
			Unit:        item.Unit,
			OurCost:     pricebook * p.CSMRCostBasisPercent / 100,
			QuotedPrice: pricebook * factor,
		})
	}

	doc.Summary = []SummaryLine{
		{Label: "EVSE Equipment", OurCost: p.EVSEActualCost, Quoted: p.EVSEQuotedPrice},
		{Label: "Installation (CSMR)", OurCost: p.CSMRActualCost, Quoted: p.CSMRQuotedPrice},
		{Label: "Utility Allowance", OurCost: p.UtilityAllowance, Quoted: p.UtilityAllowance},
		{Label: "Shipping", OurCost: p.ShippingCost, Quoted: p.ShippingCost},
		{Label: fmt.Sprintf("Network Plan (%d yr)", p.NetworkYears), OurCost: p.NetworkActualCost, Quoted: p.NetworkPlanCost},
	}
	if p.EVSESalesTax > 0 {
		doc.Summary = append(doc.Summary, SummaryLine{Label: "EVSE Sales Tax", OurCost: p.EVSESalesTax})
	}
	return doc
}
