package services

import "math"

// PaymentOption is an ownership/payment structure offered to the customer.
// CostPercentage is the share of the net project cost the customer pays;
// RevenueShare is the share of charging revenue the customer keeps.
type PaymentOption struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	CostPercentage float64 `json:"costPercentage"`
	RevenueShare   float64 `json:"revenueShare"`
}

// PaymentOptionAnalysis is the profitability of one option for a proposal.
type PaymentOptionAnalysis struct {
	PaymentOption
	CustomerPays      float64 `json:"customerPays"`
	CustomerDiscount  float64 `json:"customerDiscount"`
	CSEVCost          float64 `json:"csevCost"`
	CSEVProfit        float64 `json:"csevProfit"`
	CSEVMarginPercent float64 `json:"csevMarginPercent"`

	// Free marks an option with a zero cost percentage; the margin is
	// reported as 0.
	Free    bool `json:"free"`
	Enabled bool `json:"enabled"`
}

var epcOptions = []PaymentOption{
	{ID: "purchase", Name: "Full Purchase", CostPercentage: 100, RevenueShare: 100},
	{ID: "cost-share-75", Name: "Cost Share 75%", CostPercentage: 75, RevenueShare: 80},
	{ID: "cost-share-50", Name: "Cost Share 50%", CostPercentage: 50, RevenueShare: 60},
}

var siteHostOptions = []PaymentOption{
	{ID: "site-host-free", Name: "No-Cost Site Host", CostPercentage: 0, RevenueShare: 10},
	{ID: "site-host-25", Name: "Site Host 25% Contribution", CostPercentage: 25, RevenueShare: 30},
	{ID: "site-host-50", Name: "Site Host 50% Contribution", CostPercentage: 50, RevenueShare: 50},
	{ID: "purchase", Name: "Full Purchase", CostPercentage: 100, RevenueShare: 100},
}

var distributionOptions = []PaymentOption{
	{ID: "distribution", Name: "Equipment Distribution", CostPercentage: 100, RevenueShare: 0},
}

// PaymentOptions returns the options configured for a project type.
func PaymentOptions(t ProjectType) []PaymentOption {
	var src []PaymentOption
	switch {
	case t == ProjectDistribution:
		src = distributionOptions
	case t.IsSiteHost():
		src = siteHostOptions
	default:
		src = epcOptions
	}
	return append([]PaymentOption(nil), src...)
}

// AnalyzePaymentOptions computes profitability for every option configured
// for the proposal's project type. Overrides on the proposal take
// precedence over computed defaults. Options losing money are disabled
// unless the proposal explicitly sets their visibility. A proposal whose
// margin settings are out of range has no valid price to split, so the
// result is empty.
func AnalyzePaymentOptions(p Proposal) []PaymentOptionAnalysis {
	if checkMargin(p.EVSEMarginPercent) != nil || checkMargin(p.CSMRMarginPercent) != nil {
		return []PaymentOptionAnalysis{}
	}
	options := PaymentOptions(p.ProjectType)
	out := make([]PaymentOptionAnalysis, 0, len(options))
	for _, opt := range options {
		out = append(out, AnalyzePaymentOption(p, opt, p.PaymentOverrides[opt.ID]))
	}
	return out
}

// AnalyzePaymentOption computes profitability for a single option. A net
// project cost below zero, where incentives exceed the gross price, is
// billed as zero.
func AnalyzePaymentOption(p Proposal, opt PaymentOption, ov PaymentOptionOverride) PaymentOptionAnalysis {
	if ov.CostPercentage != nil {
		opt.CostPercentage = *ov.CostPercentage
	}
	if ov.RevenueShare != nil {
		opt.RevenueShare = *ov.RevenueShare
	}

	a := PaymentOptionAnalysis{PaymentOption: opt}
	billable := math.Max(p.NetProjectCost, 0)
	a.CustomerPays = billable * opt.CostPercentage / 100
	a.CustomerDiscount = billable - a.CustomerPays
	a.CSEVCost = p.EffectiveActualCost()
	if ov.Cost != nil {
		a.CSEVCost = *ov.Cost
	}
	a.CSEVProfit = a.CustomerPays - a.CSEVCost
	a.Free = opt.CostPercentage == 0
	if a.CustomerPays > 0 {
		a.CSEVMarginPercent = a.CSEVProfit / a.CustomerPays * 100
	}

	a.Enabled = a.CSEVProfit >= 0
	if ov.Enabled != nil {
		a.Enabled = *ov.Enabled
	}
	return a
}

// EnabledPaymentOptions filters an analysis down to visible options.
func EnabledPaymentOptions(all []PaymentOptionAnalysis) []PaymentOptionAnalysis {
	var out []PaymentOptionAnalysis
	for _, a := range all {
		if a.Enabled {
			out = append(out, a)
		}
	}
	return out
}
