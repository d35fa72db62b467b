package services

import "fmt"

// UtilityType identifies a utility rebate program and its spreadsheet.
type UtilityType string

const (
	UtilityNationalGrid UtilityType = "national-grid"
	UtilityNYSEGRGE     UtilityType = "nyseg-rge"
)

// Utilities lists every supported utility.
var Utilities = []UtilityType{UtilityNationalGrid, UtilityNYSEGRGE}

// ParseUtility accepts a utility id, including the ids the intake forms use
// for the individual NYSEG and RG&E territories.
func ParseUtility(id string) (UtilityType, error) {
	switch id {
	case string(UtilityNationalGrid), "nationalgrid", "ngrid":
		return UtilityNationalGrid, nil
	case string(UtilityNYSEGRGE), "nyseg", "rge":
		return UtilityNYSEGRGE, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUtility, id)
}

// categoryMapping buckets installation items for one utility: the item-id
// map wins, then the subgroup map, then other.
type categoryMapping struct {
	itemIDs   map[string]string
	subgroups map[string]string
	other     string
}

func (m categoryMapping) resolve(itemID, subgroup string) string {
	if cat, ok := m.itemIDs[itemID]; ok {
		return cat
	}
	if cat, ok := m.subgroups[subgroup]; ok {
		return cat
	}
	return m.other
}

// National Grid categories.
const (
	NGProfessionalServices = "Professional Services"
	NGPermits              = "Permits"
	NGTrenching            = "Trenching"
	NGBoring               = "Boring"
	NGConduit              = "Conduit"
	NGWireCable            = "Wire & Cable"
	NGServiceUpgrade       = "Service Upgrade"
	NGElectricalEquipment  = "Electrical Equipment"
	NGTransformer          = "Transformer"
	NGFoundations          = "Foundations"
	NGRestoration          = "Restoration"
	NGSignageProtection    = "Signage & Protection"
	NGEVSEInstallation     = "EVSE Installation"
	NGOther                = "Other"
)

// NYSEG/RG&E categories.
const (
	NYDesignCosts          = "Design Costs"
	NYPermits              = "Permits"
	NYTrenchingRestoration = "Trenching/Restoration"
	NYConduit              = "Conduit"
	NYWireCable            = "Wire & Cable"
	NYElectricalEquipment  = "Electrical Equipment"
	NYServiceUpgrade       = "Service Upgrade"
	NYCivilFoundations     = "Civil & Foundations"
	NYEVSEInstallation     = "EVSE Installation"
	NYOther                = "Other"
)

// The two tables disagree on several assignments and are kept independent.

var nationalGridMapping = categoryMapping{
	itemIDs: map[string]string{
		"project-management":   NGProfessionalServices,
		"utility-coordination": NGProfessionalServices,
		"engineering-design":   NGProfessionalServices,
		"load-calculation":     NGProfessionalServices,
		"permit-fee":           NGPermits,
	},
	subgroups: map[string]string{
		"Project Management": NGProfessionalServices,
		"Engineering":        NGProfessionalServices,
		"Permits":            NGPermits,
		"Trenching":          NGTrenching,
		"Boring":             NGBoring,
		"Conduit":            NGConduit,
		"Wire":               NGWireCable,
		"Electrical Service": NGServiceUpgrade,
		"Panels":             NGElectricalEquipment,
		"Circuits":           NGElectricalEquipment,
		"Transformer":        NGTransformer,
		"Concrete":           NGFoundations,
		"Restoration":        NGRestoration,
		"Signage":            NGSignageProtection,
		"Bollards":           NGSignageProtection,
		"Equipment Install":  NGEVSEInstallation,
		"Commissioning":      NGEVSEInstallation,
	},
	other: NGOther,
}

var nysegMapping = categoryMapping{
	itemIDs: map[string]string{
		"project-management":   NYDesignCosts,
		"utility-coordination": NYDesignCosts,
		"engineering-design":   NYDesignCosts,
		"permit-fee":           NYPermits,
	},
	subgroups: map[string]string{
		"Project Management": NYDesignCosts,
		"Engineering":        NYDesignCosts,
		"Permits":            NYPermits,
		"Trenching":          NYTrenchingRestoration,
		"Boring":             NYTrenchingRestoration,
		"Restoration":        NYTrenchingRestoration,
		"Conduit":            NYConduit,
		"Wire":               NYWireCable,
		"Electrical Service": NYServiceUpgrade,
		"Panels":             NYElectricalEquipment,
		"Circuits":           NYElectricalEquipment,
		"Transformer":        NYElectricalEquipment,
		"Concrete":           NYCivilFoundations,
		"Signage":            NYCivilFoundations,
		"Bollards":           NYCivilFoundations,
		"Equipment Install":  NYEVSEInstallation,
		"Commissioning":      NYEVSEInstallation,
	},
	other: NYOther,
}

func mappingFor(u UtilityType) (categoryMapping, error) {
	switch u {
	case UtilityNationalGrid:
		return nationalGridMapping, nil
	case UtilityNYSEGRGE:
		return nysegMapping, nil
	}
	return categoryMapping{}, fmt.Errorf("%w: %q", ErrUnknownUtility, u)
}

// ResolveCategory returns the rebate-form category an installation item
// belongs to for the given utility. Unmapped items land in the utility's
// Other category.
func ResolveCategory(u UtilityType, itemID, subgroup string) (string, error) {
	m, err := mappingFor(u)
	if err != nil {
		return "", err
	}
	return m.resolve(itemID, subgroup), nil
}

// OtherCategory returns the fallback category for a utility.
func OtherCategory(u UtilityType) (string, error) {
	m, err := mappingFor(u)
	if err != nil {
		return "", err
	}
	return m.other, nil
}
