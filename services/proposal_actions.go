package services

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// whole accepts integral values only; equipment is bought in units.
	_ = v.RegisterValidation("whole", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return f == math.Trunc(f)
	})
	return v
}

// Action is a single edit to a proposal. Apply mutates a private copy; the
// caller recomputes derived fields afterwards.
type Action interface {
	Apply(p *Proposal, catalog Catalog) error
}

// Dispatch validates and applies an action, then recomputes every derived
// field. On a rejected action the input proposal is returned unchanged.
// A configuration error from recalculation is returned with the (partially
// computed) new proposal.
func Dispatch(calc *Calculator, p Proposal, action Action) (Proposal, error) {
	if err := validateStruct(action); err != nil {
		return p, err
	}
	next := p.Clone()
	if err := action.Apply(&next, calc.Catalog()); err != nil {
		return p, err
	}
	return calc.Recalculate(next)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", field, fe.Tag()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

// Validate checks the user-entered fields of a proposal arriving from a
// client: a known project type, positive quantities in whole equipment
// units, and non-negative prices, incentives, allowance and overrides.
func (p Proposal) Validate() error {
	if !p.ProjectType.Valid() {
		return fmt.Errorf("%w: unknown project type %q", ErrValidation, p.ProjectType)
	}
	return validateStruct(p)
}

func findEVSE(p *Proposal, id string) (*EVSEItem, error) {
	for i := range p.EVSEItems {
		if p.EVSEItems[i].ID == id {
			return &p.EVSEItems[i], nil
		}
	}
	return nil, fmt.Errorf("%w: evse item %q", ErrUnknownItem, id)
}

func findInstallation(p *Proposal, id string) (*InstallationItem, error) {
	for i := range p.InstallationItems {
		if p.InstallationItems[i].ID == id {
			return &p.InstallationItems[i], nil
		}
	}
	return nil, fmt.Errorf("%w: installation item %q", ErrUnknownItem, id)
}

func lookupProduct(catalog Catalog, id string) (PricebookProduct, error) {
	product, ok := catalog.Product(id)
	if !ok {
		return PricebookProduct{}, fmt.Errorf("%w: product %q", ErrUnknownReference, id)
	}
	return product, nil
}

// ── EVSE ─────────────────────────────────────────────────────────────

type AddEVSEItem struct {
	ProductID string  `validate:"required"`
	Quantity  float64 `validate:"gt=0,whole"`
}

func (a AddEVSEItem) Apply(p *Proposal, catalog Catalog) error {
	product, err := lookupProduct(catalog, a.ProductID)
	if err != nil {
		return err
	}
	p.EVSEItems = append(p.EVSEItems, EVSEItem{
		ID:         uuid.NewString(),
		ProductID:  product.ID,
		PartNumber: product.PartNumber,
		Name:       product.Name,
		Quantity:   a.Quantity,
		UnitCost:   product.UnitCost,
		Ports:      product.Ports,
	})
	return nil
}

type UpdateEVSEQuantity struct {
	ItemID   string  `validate:"required"`
	Quantity float64 `validate:"gt=0,whole"`
}

func (a UpdateEVSEQuantity) Apply(p *Proposal, _ Catalog) error {
	item, err := findEVSE(p, a.ItemID)
	if err != nil {
		return err
	}
	item.Quantity = a.Quantity
	return nil
}

// ChangeEVSEProduct swaps the product on a line, resetting cost and any
// price override.
type ChangeEVSEProduct struct {
	ItemID    string `validate:"required"`
	ProductID string `validate:"required"`
}

func (a ChangeEVSEProduct) Apply(p *Proposal, catalog Catalog) error {
	item, err := findEVSE(p, a.ItemID)
	if err != nil {
		return err
	}
	product, err := lookupProduct(catalog, a.ProductID)
	if err != nil {
		return err
	}
	item.ProductID = product.ID
	item.PartNumber = product.PartNumber
	item.Name = product.Name
	item.UnitCost = product.UnitCost
	item.Ports = product.Ports
	item.PriceOverride = nil
	return nil
}

// OverrideEVSEPrice pins a line's unit price. A nil UnitPrice clears it.
type OverrideEVSEPrice struct {
	ItemID    string   `validate:"required"`
	UnitPrice *float64 `validate:"omitempty,gte=0"`
}

func (a OverrideEVSEPrice) Apply(p *Proposal, _ Catalog) error {
	item, err := findEVSE(p, a.ItemID)
	if err != nil {
		return err
	}
	if a.UnitPrice == nil {
		item.PriceOverride = nil
		return nil
	}
	v := *a.UnitPrice
	item.PriceOverride = &v
	return nil
}

type RemoveEVSEItem struct {
	ItemID string `validate:"required"`
}

func (a RemoveEVSEItem) Apply(p *Proposal, _ Catalog) error {
	for i := range p.EVSEItems {
		if p.EVSEItems[i].ID == a.ItemID {
			p.EVSEItems = append(p.EVSEItems[:i], p.EVSEItems[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: evse item %q", ErrUnknownItem, a.ItemID)
}

// ── Installation ─────────────────────────────────────────────────────

type AddInstallationItem struct {
	ServiceID string  `validate:"required"`
	Quantity  float64 `validate:"gt=0"`
}

func (a AddInstallationItem) Apply(p *Proposal, catalog Catalog) error {
	svc, ok := catalog.Service(a.ServiceID)
	if !ok {
		return fmt.Errorf("%w: service %q", ErrUnknownReference, a.ServiceID)
	}
	p.InstallationItems = append(p.InstallationItems, InstallationItem{
		ID:            uuid.NewString(),
		ServiceID:     svc.ID,
		Name:          svc.Name,
		Quantity:      a.Quantity,
		Unit:          svc.Unit,
		Subgroup:      svc.Subgroup,
		MaterialPrice: svc.MaterialPrice,
		LaborPrice:    svc.LaborPrice,
	})
	return nil
}

type UpdateInstallationQuantity struct {
	ItemID   string  `validate:"required"`
	Quantity float64 `validate:"gt=0"`
}

func (a UpdateInstallationQuantity) Apply(p *Proposal, _ Catalog) error {
	item, err := findInstallation(p, a.ItemID)
	if err != nil {
		return err
	}
	item.Quantity = a.Quantity
	return nil
}

type RemoveInstallationItem struct {
	ItemID string `validate:"required"`
}

func (a RemoveInstallationItem) Apply(p *Proposal, _ Catalog) error {
	for i := range p.InstallationItems {
		if p.InstallationItems[i].ID == a.ItemID {
			p.InstallationItems = append(p.InstallationItems[:i], p.InstallationItems[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: installation item %q", ErrUnknownItem, a.ItemID)
}

// ── Settings ─────────────────────────────────────────────────────────

type SetPricingSettings struct {
	Settings PricingSettings
}

func (a SetPricingSettings) Apply(p *Proposal, _ Catalog) error {
	p.PricingSettings = a.Settings
	return nil
}

// SetNetworkYears selects the network term; 0 means no network plan.
type SetNetworkYears struct {
	Years int `validate:"oneof=0 1 3 5"`
}

func (a SetNetworkYears) Apply(p *Proposal, _ Catalog) error {
	p.NetworkYears = a.Years
	return nil
}

type SetProjectType struct {
	ProjectType ProjectType `validate:"required"`
}

func (a SetProjectType) Apply(p *Proposal, _ Catalog) error {
	if !a.ProjectType.Valid() {
		return fmt.Errorf("%w: unknown project type %q", ErrValidation, a.ProjectType)
	}
	p.ProjectType = a.ProjectType
	return nil
}

type SetIncentives struct {
	MakeReady float64 `validate:"gte=0"`
	NYSERDA   float64 `validate:"gte=0"`
}

func (a SetIncentives) Apply(p *Proposal, _ Catalog) error {
	p.MakeReadyIncentive = a.MakeReady
	p.NYSERDAIncentive = a.NYSERDA
	return nil
}

type SetUtilityAllowance struct {
	Amount float64 `validate:"gte=0"`
}

func (a SetUtilityAllowance) Apply(p *Proposal, _ Catalog) error {
	p.UtilityAllowance = a.Amount
	return nil
}

// SetActualCostOverride replaces the computed cost used for profitability.
// A nil Amount clears the override.
type SetActualCostOverride struct {
	Amount *float64 `validate:"omitempty,gte=0"`
}

func (a SetActualCostOverride) Apply(p *Proposal, _ Catalog) error {
	if a.Amount == nil {
		p.ActualCostOverride = nil
		return nil
	}
	v := *a.Amount
	p.ActualCostOverride = &v
	return nil
}

// SetPaymentOverride replaces the overrides for one payment option. An
// override with no fields set removes it.
type SetPaymentOverride struct {
	OptionID string `validate:"required"`
	Override PaymentOptionOverride
}

func (a SetPaymentOverride) Apply(p *Proposal, _ Catalog) error {
	known := false
	for _, opt := range PaymentOptions(p.ProjectType) {
		if opt.ID == a.OptionID {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: payment option %q", ErrUnknownReference, a.OptionID)
	}

	ov := a.Override
	if ov.Cost == nil && ov.CostPercentage == nil && ov.RevenueShare == nil && ov.Enabled == nil {
		delete(p.PaymentOverrides, a.OptionID)
		return nil
	}
	if p.PaymentOverrides == nil {
		p.PaymentOverrides = make(map[string]PaymentOptionOverride)
	}
	p.PaymentOverrides[a.OptionID] = ov
	return nil
}

// ── JSON envelope ────────────────────────────────────────────────────

// ActionRequest is the wire form of an Action: Type selects the action and
// the remaining fields carry its arguments.
type ActionRequest struct {
	Type        string                 `json:"type"`
	ItemID      string                 `json:"itemId,omitempty"`
	ProductID   string                 `json:"productId,omitempty"`
	ServiceID   string                 `json:"serviceId,omitempty"`
	Quantity    float64                `json:"quantity,omitempty"`
	Amount      *float64               `json:"amount,omitempty"`
	Years       int                    `json:"years,omitempty"`
	ProjectType ProjectType            `json:"projectType,omitempty"`
	Settings    *PricingSettings       `json:"settings,omitempty"`
	MakeReady   float64                `json:"makeReady,omitempty"`
	NYSERDA     float64                `json:"nyserda,omitempty"`
	OptionID    string                 `json:"optionId,omitempty"`
	Override    *PaymentOptionOverride `json:"override,omitempty"`
}

// DecodeAction converts a wire request into its Action.
func DecodeAction(r ActionRequest) (Action, error) {
	switch r.Type {
	case "addEvseItem":
		return AddEVSEItem{ProductID: r.ProductID, Quantity: r.Quantity}, nil
	case "updateEvseQuantity":
		return UpdateEVSEQuantity{ItemID: r.ItemID, Quantity: r.Quantity}, nil
	case "changeEvseProduct":
		return ChangeEVSEProduct{ItemID: r.ItemID, ProductID: r.ProductID}, nil
	case "overrideEvsePrice":
		return OverrideEVSEPrice{ItemID: r.ItemID, UnitPrice: r.Amount}, nil
	case "removeEvseItem":
		return RemoveEVSEItem{ItemID: r.ItemID}, nil
	case "addInstallationItem":
		return AddInstallationItem{ServiceID: r.ServiceID, Quantity: r.Quantity}, nil
	case "updateInstallationQuantity":
		return UpdateInstallationQuantity{ItemID: r.ItemID, Quantity: r.Quantity}, nil
	case "removeInstallationItem":
		return RemoveInstallationItem{ItemID: r.ItemID}, nil
	case "setPricingSettings":
		if r.Settings == nil {
			return nil, fmt.Errorf("%w: setPricingSettings requires settings", ErrValidation)
		}
		return SetPricingSettings{Settings: *r.Settings}, nil
	case "setNetworkYears":
		return SetNetworkYears{Years: r.Years}, nil
	case "setProjectType":
		return SetProjectType{ProjectType: r.ProjectType}, nil
	case "setIncentives":
		return SetIncentives{MakeReady: r.MakeReady, NYSERDA: r.NYSERDA}, nil
	case "setUtilityAllowance":
		if r.Amount == nil {
			return SetUtilityAllowance{}, nil
		}
		return SetUtilityAllowance{Amount: *r.Amount}, nil
	case "setActualCostOverride":
		return SetActualCostOverride{Amount: r.Amount}, nil
	case "setPaymentOverride":
		var ov PaymentOptionOverride
		if r.Override != nil {
			ov = *r.Override
		}
		return SetPaymentOverride{OptionID: r.OptionID, Override: ov}, nil
	}
	return nil, fmt.Errorf("%w: unknown action type %q", ErrValidation, r.Type)
}
