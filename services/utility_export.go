package services

import (
	"math"
	"strings"
)

// LaborRatePerHour converts quoted labor dollars into informational hours.
const LaborRatePerHour = 125.0

// CategoryTotals is the quoted cost of one rebate-form category.
type CategoryTotals struct {
	LaborCost    float64 `json:"laborCost"`
	LaborHours   float64 `json:"laborHours"`
	MaterialCost float64 `json:"materialCost"`
}

// Total returns quoted labor plus material.
func (t CategoryTotals) Total() float64 {
	return t.LaborCost + t.MaterialCost
}

// ExcelExportData is the flat payload written into a utility template.
type ExcelExportData struct {
	UtilityType   UtilityType `json:"utilityType"`
	ChargingLevel string      `json:"chargingLevel"`

	CustomerName string `json:"customerName"`
	SiteAddress  string `json:"siteAddress"`
	SiteCity     string `json:"siteCity"`
	SiteState    string `json:"siteState"`
	SiteZip      string `json:"siteZip"`

	NumPlugs    int `json:"numPlugs"`
	NumStations int `json:"numStations"`

	EVSEPartNumber string  `json:"evsePartNumber,omitempty"`
	EVSEModel      string  `json:"evseModel,omitempty"`
	EVSEQuantity   float64 `json:"evseQuantity,omitempty"`
	EVSEUnitPrice  float64 `json:"evseUnitPrice,omitempty"`
	EVSEPrice      float64 `json:"evsePrice,omitempty"`

	NetworkPlanQty       float64 `json:"networkPlanQty,omitempty"`
	NetworkPlanUnitPrice float64 `json:"networkPlanUnitPrice,omitempty"`
	NetworkPlanTotal     float64 `json:"networkPlanTotal,omitempty"`

	ShippingCost           float64 `json:"shippingCost,omitempty"`
	ShippingAndNetworkCost float64 `json:"shippingAndNetworkCost,omitempty"`

	TrenchingQty float64 `json:"trenchingQty,omitempty"`
	ConduitQty   float64 `json:"conduitQty,omitempty"`
	CablesQty    float64 `json:"cablesQty,omitempty"`

	Categories map[string]CategoryTotals `json:"categories"`
}

// MarkupFactor converts pricebook dollars to quoted dollars:
// costBasis/100 * 1/(1 - margin/100).
func MarkupFactor(costBasisPercent, marginPercent float64) (float64, error) {
	if err := checkMargin(marginPercent); err != nil {
		return 0, &ConfigError{Field: "csmrMarginPercent", Value: marginPercent, Err: err}
	}
	return (costBasisPercent / 100) * (1 / (1 - marginPercent/100)), nil
}

// BuildUtilityBreakdown sums quoted material and labor per category for the
// utility. Values are unrounded.
func BuildUtilityBreakdown(p Proposal, u UtilityType) (map[string]CategoryTotals, error) {
	m, err := mappingFor(u)
	if err != nil {
		return nil, err
	}
	factor, err := MarkupFactor(p.CSMRCostBasisPercent, p.CSMRMarginPercent)
	if err != nil {
		return nil, err
	}

	out := make(map[string]CategoryTotals)
	for _, item := range p.InstallationItems {
		cat := m.resolve(item.ServiceID, item.Subgroup)
		t := out[cat]
		quotedLabor := item.TotalLabor * factor
		t.MaterialCost += item.TotalMaterial * factor
		t.LaborCost += quotedLabor
		t.LaborHours += quotedLabor / LaborRatePerHour
		out[cat] = t
	}
	return out, nil
}

// PortCount guesses the plugs on one unit from a product id: dual-port
// products carry "dual" in their identifier. Catalog port counts take
// precedence, see EVSEItem.PortsPerUnit.
func PortCount(productID string) int {
	if strings.Contains(strings.ToLower(productID), "dual") {
		return 2
	}
	return 1
}

// ExportChargingLevel reports the export charging level of a proposal.
func ExportChargingLevel(p Proposal) string {
	switch strings.ToLower(p.ChargingLevel) {
	case ChargingDCFC, "level3", "dc":
		return ChargingDCFC
	case ChargingLevel2:
		return ChargingLevel2
	}
	if p.ProjectType == ProjectLevel3EPC {
		return ChargingDCFC
	}
	return ChargingLevel2
}

// BuildExportData flattens a recalculated proposal into the payload for one
// utility's template. Currency values are rounded to cents.
func BuildExportData(p Proposal, u UtilityType) (ExcelExportData, error) {
	breakdown, err := BuildUtilityBreakdown(p, u)
	if err != nil {
		return ExcelExportData{}, err
	}

	data := ExcelExportData{
		UtilityType:   u,
		ChargingLevel: ExportChargingLevel(p),
		CustomerName:  p.Customer.Name,
		SiteAddress:   p.Customer.Address,
		SiteCity:      p.Customer.City,
		SiteState:     p.Customer.State,
		SiteZip:       p.Customer.Zip,
		Categories:    make(map[string]CategoryTotals, len(breakdown)),
	}

	for cat, t := range breakdown {
		data.Categories[cat] = CategoryTotals{
			LaborCost:    RoundCents(t.LaborCost),
			LaborHours:   RoundCents(t.LaborHours),
			MaterialCost: RoundCents(t.MaterialCost),
		}
	}

	var stations float64
	var plugs float64
	for _, item := range p.EVSEItems {
		stations += item.Quantity
		plugs += float64(item.PortsPerUnit()) * item.Quantity
	}
	// Quantities are validated as whole units; round rather than truncate
	// any float noise.
	data.NumStations = int(math.Round(stations))
	data.NumPlugs = int(math.Round(plugs))

	if len(p.EVSEItems) > 0 {
		first := p.EVSEItems[0]
		data.EVSEPartNumber = first.PartNumber
		if data.EVSEPartNumber == "" {
			data.EVSEPartNumber = first.ProductID
		}
		data.EVSEModel = first.Name
		data.EVSEQuantity = stations
		data.EVSEUnitPrice = RoundCents(first.UnitPrice)
		data.EVSEPrice = RoundCents(p.EVSEQuotedPrice)
	}

	if p.NetworkPlanCost > 0 {
		data.NetworkPlanQty = stations
		data.NetworkPlanTotal = RoundCents(p.NetworkPlanCost)
		if stations > 0 {
			data.NetworkPlanUnitPrice = RoundCents(p.NetworkPlanCost / stations)
		}
	}
	data.ShippingCost = RoundCents(p.ShippingCost)
	data.ShippingAndNetworkCost = SumCents(p.ShippingCost, p.NetworkPlanCost)

	if u == UtilityNYSEGRGE {
		for _, item := range p.InstallationItems {
			if item.Unit != UnitFoot {
				continue
			}
			switch item.Subgroup {
			case "Trenching", "Boring":
				data.TrenchingQty += item.Quantity
			case "Conduit":
				data.ConduitQty += item.Quantity
			case "Wire":
				data.CablesQty += item.Quantity
			}
		}
	}

	return data, nil
}

// Validate checks the payload is exportable: a known utility, a known
// charging level and only categories the utility's template has rows for.
func (d ExcelExportData) Validate() error {
	if _, err := mappingFor(d.UtilityType); err != nil {
		return err
	}
	if d.ChargingLevel != ChargingLevel2 && d.ChargingLevel != ChargingDCFC {
		return &exportFieldError{field: "chargingLevel", value: d.ChargingLevel}
	}
	for cat := range d.Categories {
		if !hasCategoryRow(d.UtilityType, cat) {
			return &exportFieldError{field: "categories", value: cat, err: ErrUnknownCategory}
		}
	}
	return nil
}

type exportFieldError struct {
	field string
	value string
	err   error
}

func (e *exportFieldError) Error() string {
	if e.err != nil {
		return e.field + " " + e.value + ": " + e.err.Error()
	}
	return "invalid " + e.field + " " + e.value
}

func (e *exportFieldError) Unwrap() error {
	if e.err != nil {
		return e.err
	}
	return ErrValidation
}
