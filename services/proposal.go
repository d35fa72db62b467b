package services

// ProjectType identifies the commercial structure of a proposal.
type ProjectType string

const (
	ProjectLevel2EPC      ProjectType = "level2-epc"
	ProjectLevel3EPC      ProjectType = "level3-epc"
	ProjectMixedEPC       ProjectType = "mixed-epc"
	ProjectSiteHost       ProjectType = "site-host"
	ProjectLevel2SiteHost ProjectType = "level2-site-host"
	ProjectDistribution   ProjectType = "distribution"
)

// ProjectTypes lists every supported project type in display order.
var ProjectTypes = []ProjectType{
	ProjectLevel2EPC,
	ProjectLevel3EPC,
	ProjectMixedEPC,
	ProjectSiteHost,
	ProjectLevel2SiteHost,
	ProjectDistribution,
}

// Valid reports whether t is one of the known project types.
func (t ProjectType) Valid() bool {
	for _, pt := range ProjectTypes {
		if pt == t {
			return true
		}
	}
	return false
}

// IsSiteHost reports whether the customer hosts chargers owned by the installer.
func (t ProjectType) IsSiteHost() bool {
	return t == ProjectSiteHost || t == ProjectLevel2SiteHost
}

// Customer holds the descriptive fields printed on proposals and rebate forms.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Contact string `json:"contact,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// EVSEItem is one purchased equipment line.
type EVSEItem struct {
	ID         string  `json:"id"`
	ProductID  string  `json:"productId"`
	PartNumber string  `json:"partNumber"`
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity" validate:"gt=0,whole"`
	UnitCost   float64 `json:"unitCost" validate:"gte=0"`
	TotalCost  float64 `json:"totalCost"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`

	// Ports is the plug count of one unit, copied from the catalog product.
	Ports int `json:"ports,omitempty" validate:"gte=0"`

	// PriceOverride replaces the margin-derived unit price when set.
	PriceOverride *float64 `json:"priceOverride,omitempty" validate:"omitempty,gte=0"`
}

// PortsPerUnit returns the plugs on one unit of the line's product. Lines
// without a catalog port count fall back to the product id.
func (i EVSEItem) PortsPerUnit() int {
	if i.Ports > 0 {
		return i.Ports
	}
	return PortCount(i.ProductID)
}

// InstallationItem is one installation service line at pricebook rates.
type InstallationItem struct {
	ID            string  `json:"id"`
	ServiceID     string  `json:"itemId"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity" validate:"gt=0"`
	Unit          string  `json:"unit"`
	Subgroup      string  `json:"subgroup"`
	MaterialPrice float64 `json:"materialPrice" validate:"gte=0"`
	LaborPrice    float64 `json:"laborPrice" validate:"gte=0"`
	TotalMaterial float64 `json:"totalMaterial"`
	TotalLabor    float64 `json:"totalLabor"`
}

// PricingSettings are the percentage inputs driving every margin formula.
type PricingSettings struct {
	EVSEMarginPercent    float64 `json:"evseMarginPercent" validate:"gte=0,lt=100"`
	CSMRCostBasisPercent float64 `json:"csmrCostBasisPercent" validate:"gte=0,lte=100"`
	CSMRMarginPercent    float64 `json:"csmrMarginPercent" validate:"gte=0,lt=100"`
	SalesTaxRate         float64 `json:"salesTaxRate" validate:"gte=0,lte=100"`
}

// PaymentOptionOverride replaces individual computed values for one option.
type PaymentOptionOverride struct {
	Cost           *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
	CostPercentage *float64 `json:"costPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	RevenueShare   *float64 `json:"revenueShare,omitempty" validate:"omitempty,gte=0,lte=100"`
	Enabled        *bool    `json:"enabled,omitempty"`
}

// Proposal is the aggregate every calculation reads from and writes to.
// Fields under "derived" are owned by Recalculate and never edited directly.
type Proposal struct {
	Customer       Customer    `json:"customer"`
	ProjectType    ProjectType `json:"projectType"`
	LocationType   string      `json:"locationType"`
	AccessType     string      `json:"accessType"`
	UtilityID      string      `json:"utilityId"`
	ChargingLevel  string      `json:"chargingLevel"`
	NetworkYears   int         `json:"networkYears"`
	ProposalNumber string      `json:"proposalNumber,omitempty"`

	EVSEItems         []EVSEItem         `json:"evseItems" validate:"dive"`
	InstallationItems []InstallationItem `json:"installationItems" validate:"dive"`

	// Margins of 100 or more are reported by Recalculate as a ConfigError
	// rather than rejected here.
	PricingSettings `validate:"-"`

	UtilityAllowance   float64  `json:"utilityAllowance" validate:"gte=0"`
	MakeReadyIncentive float64  `json:"makeReadyIncentive" validate:"gte=0"`
	NYSERDAIncentive   float64  `json:"nyseradaIncentive" validate:"gte=0"`
	ActualCostOverride *float64 `json:"actualCostOverride,omitempty" validate:"omitempty,gte=0"`

	PaymentOverrides map[string]PaymentOptionOverride `json:"paymentOverrides,omitempty" validate:"omitempty,dive"`

	// derived
	EVSEActualCost     float64 `json:"evseActualCost"`
	EVSEQuotedPrice    float64 `json:"evseQuotedPrice"`
	EVSESalesTax       float64 `json:"evseSalesTax"`
	CSMRPricebookTotal float64 `json:"csmrPricebookTotal"`
	CSMRActualCost     float64 `json:"csmrActualCost"`
	CSMRQuotedPrice    float64 `json:"csmrQuotedPrice"`
	ShippingCost       float64 `json:"shippingCost"`
	NetworkPlanCost    float64 `json:"networkPlanCost"`
	NetworkActualCost  float64 `json:"networkActualCost"`
	TotalActualCost    float64 `json:"totalActualCost"`
	GrossProjectCost   float64 `json:"grossProjectCost"`
	TotalIncentives    float64 `json:"totalIncentives"`
	NetProjectCost     float64 `json:"netProjectCost"`
	GrossProfit        float64 `json:"grossProfit"`
	GrossMarginPercent float64 `json:"grossMarginPercent"`

	Warnings []string `json:"warnings,omitempty"`
}

// NewProposal returns an empty proposal carrying the given pricing defaults.
func NewProposal(projectType ProjectType, settings PricingSettings, networkYears int) Proposal {
	return Proposal{
		ProjectType:       projectType,
		NetworkYears:      networkYears,
		PricingSettings:   settings,
		EVSEItems:         []EVSEItem{},
		InstallationItems: []InstallationItem{},
	}
}

// EffectiveActualCost is the cost used for profitability: the override when
// present, otherwise the computed total.
func (p Proposal) EffectiveActualCost() float64 {
	if p.ActualCostOverride != nil {
		return *p.ActualCostOverride
	}
	return p.TotalActualCost
}

// Clone returns a deep copy so reducers never share slices or maps with
// their input.
func (p Proposal) Clone() Proposal {
	out := p
	out.EVSEItems = append([]EVSEItem(nil), p.EVSEItems...)
	for i := range out.EVSEItems {
		if po := out.EVSEItems[i].PriceOverride; po != nil {
			v := *po
			out.EVSEItems[i].PriceOverride = &v
		}
	}
	out.InstallationItems = append([]InstallationItem(nil), p.InstallationItems...)
	if p.ActualCostOverride != nil {
		v := *p.ActualCostOverride
		out.ActualCostOverride = &v
	}
	if p.PaymentOverrides != nil {
		out.PaymentOverrides = make(map[string]PaymentOptionOverride, len(p.PaymentOverrides))
		for k, v := range p.PaymentOverrides {
			out.PaymentOverrides[k] = v
		}
	}
	out.Warnings = append([]string(nil), p.Warnings...)
	return out
}
