package services

import (
	"errors"
	"fmt"
	"log/slog"
)

// Calculator derives every financial field of a proposal from its line items
// and pricing settings. It only reads the catalog; Recalculate is pure apart
// from warning logs.
type Calculator struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewCalculator returns a calculator pricing against catalog. A nil logger
// discards warnings.
func NewCalculator(catalog Catalog, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Calculator{catalog: catalog, logger: logger}
}

// Catalog returns the pricebook the calculator prices against.
func (c *Calculator) Catalog() Catalog {
	return c.catalog
}

// Recalculate returns a copy of in with all derived fields recomputed.
//
// An invalid margin setting is returned as a *ConfigError; cost-side fields
// are still computed, while quoted prices and every total derived from them
// are left at zero.
func (c *Calculator) Recalculate(in Proposal) (Proposal, error) {
	p := in.Clone()
	p.Warnings = nil

	var errs []error
	evseMarginErr := checkMargin(p.EVSEMarginPercent)
	if evseMarginErr != nil {
		errs = append(errs, &ConfigError{Field: "evseMarginPercent", Value: p.EVSEMarginPercent, Err: evseMarginErr})
	}
	csmrMarginErr := checkMargin(p.CSMRMarginPercent)
	if csmrMarginErr != nil {
		errs = append(errs, &ConfigError{Field: "csmrMarginPercent", Value: p.CSMRMarginPercent, Err: csmrMarginErr})
	}
	quotedOK := evseMarginErr == nil && csmrMarginErr == nil

	c.priceEVSE(&p, evseMarginErr == nil)

	p.EVSESalesTax = 0
	if TaxLiable(p.ProjectType) {
		p.EVSESalesTax = p.EVSEActualCost * p.SalesTaxRate / 100
	}

	c.priceCSMR(&p, csmrMarginErr == nil)
	c.priceCatalogPassThroughs(&p)

	p.TotalActualCost = p.EVSEActualCost + p.EVSESalesTax + p.CSMRActualCost +
		p.UtilityAllowance + p.ShippingCost + p.NetworkActualCost
	p.TotalIncentives = p.MakeReadyIncentive + p.NYSERDAIncentive

	if quotedOK {
		p.GrossProjectCost = p.EVSEQuotedPrice + p.CSMRQuotedPrice +
			p.UtilityAllowance + p.ShippingCost + p.NetworkPlanCost
		p.NetProjectCost = p.GrossProjectCost - p.TotalIncentives
		p.GrossProfit = p.NetProjectCost - p.EffectiveActualCost()
		p.GrossMarginPercent = 0
		if p.NetProjectCost != 0 {
			p.GrossMarginPercent = p.GrossProfit / p.NetProjectCost * 100
		}
	} else {
		p.GrossProjectCost = 0
		p.NetProjectCost = 0
		p.GrossProfit = 0
		p.GrossMarginPercent = 0
	}

	return p, errors.Join(errs...)
}

func (c *Calculator) priceEVSE(p *Proposal, marginOK bool) {
	p.EVSEActualCost = 0
	p.EVSEQuotedPrice = 0
	for i := range p.EVSEItems {
		item := &p.EVSEItems[i]
		item.TotalCost = LineTotal(item.UnitCost, item.Quantity)
		switch {
		case item.PriceOverride != nil:
			item.UnitPrice = *item.PriceOverride
		case marginOK:
			item.UnitPrice, _ = ApplyMargin(item.UnitCost, p.EVSEMarginPercent)
		default:
			item.UnitPrice = 0
		}
		item.TotalPrice = LineTotal(item.UnitPrice, item.Quantity)

		p.EVSEActualCost += item.TotalCost
		p.EVSEQuotedPrice += item.TotalPrice
	}
	if !marginOK {
		p.EVSEQuotedPrice = 0
	}
}

func (c *Calculator) priceCSMR(p *Proposal, marginOK bool) {
	p.CSMRPricebookTotal = 0
	for i := range p.InstallationItems {
		item := &p.InstallationItems[i]
		item.TotalMaterial = LineTotal(item.MaterialPrice, item.Quantity)
		item.TotalLabor = LineTotal(item.LaborPrice, item.Quantity)
		p.CSMRPricebookTotal += item.TotalMaterial + item.TotalLabor

		if _, ok := c.catalog.Service(item.ServiceID); !ok {
			c.warn(p, "unresolved installation service", "serviceId", item.ServiceID, "itemId", item.ID)
		}
	}

	p.CSMRActualCost = p.CSMRPricebookTotal * p.CSMRCostBasisPercent / 100
	p.CSMRQuotedPrice = 0
	if marginOK {
		p.CSMRQuotedPrice, _ = ApplyMargin(p.CSMRActualCost, p.CSMRMarginPercent)
	}
}

// priceCatalogPassThroughs sums shipping and the selected network term from
// each item's catalog product and refreshes its port count. Unresolved
// products contribute nothing.
func (c *Calculator) priceCatalogPassThroughs(p *Proposal) {
	p.ShippingCost = 0
	p.NetworkPlanCost = 0
	p.NetworkActualCost = 0
	for i := range p.EVSEItems {
		item := &p.EVSEItems[i]
		product, ok := c.catalog.Product(item.ProductID)
		if !ok {
			c.warn(p, "unresolved EVSE product", "productId", item.ProductID, "itemId", item.ID)
			continue
		}
		item.Ports = product.Ports
		p.ShippingCost += LineTotal(product.ShippingCost, item.Quantity)

		if p.NetworkYears == 0 {
			continue
		}
		plan, ok := product.NetworkPlans[p.NetworkYears]
		if !ok {
			c.warn(p, "no network plan for term", "productId", item.ProductID, "years", p.NetworkYears)
			continue
		}
		p.NetworkPlanCost += LineTotal(plan.Price, item.Quantity)
		p.NetworkActualCost += LineTotal(plan.Cost, item.Quantity)
	}
}

func (c *Calculator) warn(p *Proposal, msg string, args ...any) {
	c.logger.Warn(msg, args...)
	detail := msg
	for i := 0; i+1 < len(args); i += 2 {
		detail += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	p.Warnings = append(p.Warnings, detail)
}
