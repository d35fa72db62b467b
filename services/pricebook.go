package services

import "sort"

// Charging levels as carried on products and export payloads.
const (
	ChargingLevel2 = "level2"
	ChargingDCFC   = "dcfc"
)

// Installation units.
const (
	UnitFoot    = "ft"
	UnitEach    = "each"
	UnitCircuit = "circuit"
	UnitProject = "project"
)

// NetworkPlan is the per-station network subscription for one term.
type NetworkPlan struct {
	Price float64 `json:"price"` // charged to the customer
	Cost  float64 `json:"cost"`  // paid to the network provider
}

// NetworkTerms are the subscription lengths (years) a proposal may select.
var NetworkTerms = []int{1, 3, 5}

// PricebookProduct is a catalog entry for a piece of charging equipment.
type PricebookProduct struct {
	ID            string              `json:"id"`
	PartNumber    string              `json:"partNumber"`
	Name          string              `json:"name"`
	Manufacturer  string              `json:"manufacturer"`
	ChargingLevel string              `json:"chargingLevel"`
	Ports         int                 `json:"ports"`
	UnitCost      float64             `json:"unitCost"`
	ShippingCost  float64             `json:"shippingCost"`
	NetworkPlans  map[int]NetworkPlan `json:"networkPlans"`
}

// InstallationService is a catalog entry for a unit of installation work.
type InstallationService struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Subgroup      string  `json:"subgroup"`
	Unit          string  `json:"unit"`
	MaterialPrice float64 `json:"materialPrice"`
	LaborPrice    float64 `json:"laborPrice"`
}

// Catalog is the read-only pricebook a proposal is priced against.
type Catalog struct {
	Products map[string]PricebookProduct
	Services map[string]InstallationService
}

// NewCatalog indexes products and services by ID.
func NewCatalog(products []PricebookProduct, services []InstallationService) Catalog {
	c := Catalog{
		Products: make(map[string]PricebookProduct, len(products)),
		Services: make(map[string]InstallationService, len(services)),
	}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	for _, s := range services {
		c.Services[s.ID] = s
	}
	return c
}

// Product looks up a product by ID.
func (c Catalog) Product(id string) (PricebookProduct, bool) {
	p, ok := c.Products[id]
	if !ok {
		return PricebookProduct{}, false
	}
	plans := make(map[int]NetworkPlan, len(p.NetworkPlans))
	for k, v := range p.NetworkPlans {
		plans[k] = v
	}
	p.NetworkPlans = plans
	return p, true
}

// Service looks up an installation service by ID.
func (c Catalog) Service(id string) (InstallationService, bool) {
	s, ok := c.Services[id]
	return s, ok
}

// Subgroups returns the distinct service subgroups, sorted.
func (c Catalog) Subgroups() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.Services {
		if s.Subgroup == "" || seen[s.Subgroup] {
			continue
		}
		seen[s.Subgroup] = true
		out = append(out, s.Subgroup)
	}
	sort.Strings(out)
	return out
}

// SortedProducts returns products ordered by ID.
func (c Catalog) SortedProducts() []PricebookProduct {
	out := make([]PricebookProduct, 0, len(c.Products))
	for _, p := range c.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedServices returns services ordered by subgroup then ID.
func (c Catalog) SortedServices() []InstallationService {
	out := make([]InstallationService, 0, len(c.Services))
	for _, s := range c.Services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Subgroup != out[j].Subgroup {
			return out[i].Subgroup < out[j].Subgroup
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func plans(p1, c1, p3, c3, p5, c5 float64) map[int]NetworkPlan {
	return map[int]NetworkPlan{
		1: {Price: p1, Cost: c1},
		3: {Price: p3, Cost: c3},
		5: {Price: p5, Cost: c5},
	}
}

// DefaultProducts is the built-in equipment pricebook.
var DefaultProducts = []PricebookProduct{
	{ID: "cp-cpf50-single", PartNumber: "CPF50-L23-PMG", Name: "ChargePoint CPF50 Single Port", Manufacturer: "ChargePoint", ChargingLevel: ChargingLevel2, Ports: 1, UnitCost: 2750, ShippingCost: 85, NetworkPlans: plans(380, 250, 1050, 700, 1650, 1100)},
	{ID: "cp-cpf50-dual", PartNumber: "CPF50-L23-DUAL", Name: "ChargePoint CPF50 Dual Port", Manufacturer: "ChargePoint", ChargingLevel: ChargingLevel2, Ports: 2, UnitCost: 5200, ShippingCost: 140, NetworkPlans: plans(760, 500, 2100, 1400, 3300, 2200)},
	{ID: "cp-ct4021-dual", PartNumber: "CT4021-GW1", Name: "ChargePoint CT4000 Dual Port Pedestal", Manufacturer: "ChargePoint", ChargingLevel: ChargingLevel2, Ports: 2, UnitCost: 7400, ShippingCost: 275, NetworkPlans: plans(760, 500, 2100, 1400, 3300, 2200)},
	{ID: "autel-maxicharger-l2-single", PartNumber: "MAXI-US-AC-W12", Name: "Autel MaxiCharger AC Single Port", Manufacturer: "Autel", ChargingLevel: ChargingLevel2, Ports: 1, UnitCost: 1650, ShippingCost: 60, NetworkPlans: plans(300, 180, 840, 510, 1320, 800)},
	{ID: "autel-maxicharger-l2-dual", PartNumber: "MAXI-US-AC-D80", Name: "Autel MaxiCharger AC Dual Port", Manufacturer: "Autel", ChargingLevel: ChargingLevel2, Ports: 2, UnitCost: 3900, ShippingCost: 120, NetworkPlans: plans(600, 360, 1680, 1020, 2640, 1600)},
	{ID: "cp-express-250", PartNumber: "CPE250C-625-CCS1-CHD", Name: "ChargePoint Express 250 DC Fast Charger", Manufacturer: "ChargePoint", ChargingLevel: ChargingDCFC, Ports: 1, UnitCost: 48500, ShippingCost: 1200, NetworkPlans: plans(1500, 1000, 4200, 2800, 6600, 4400)},
	{ID: "autel-dc-hipower-dual", PartNumber: "MAXI-DH480-DUAL", Name: "Autel MaxiCharger DC HiPower Dual Port", Manufacturer: "Autel", ChargingLevel: ChargingDCFC, Ports: 2, UnitCost: 62000, ShippingCost: 1800, NetworkPlans: plans(2400, 1600, 6600, 4400, 10500, 7000)},
}

// DefaultServices is the built-in installation pricebook.
var DefaultServices = []InstallationService{
	{ID: "project-management", Name: "Project Management", Subgroup: "Project Management", Unit: UnitProject, LaborPrice: 2500},
	{ID: "utility-coordination", Name: "Utility Coordination", Subgroup: "Electrical Service", Unit: UnitProject, LaborPrice: 1200},
	{ID: "engineering-design", Name: "Electrical Engineering & Stamped Drawings", Subgroup: "Engineering", Unit: UnitProject, LaborPrice: 3800},
	{ID: "load-calculation", Name: "Load Calculation", Subgroup: "Engineering", Unit: UnitProject, LaborPrice: 650},
	{ID: "permit-fee", Name: "Electrical Permit", Subgroup: "Permits", Unit: UnitEach, MaterialPrice: 750},
	{ID: "trenching-soft", Name: "Trenching - Soft Dig", Subgroup: "Trenching", Unit: UnitFoot, MaterialPrice: 4, LaborPrice: 18},
	{ID: "trenching-asphalt", Name: "Trenching - Asphalt/Concrete", Subgroup: "Trenching", Unit: UnitFoot, MaterialPrice: 9, LaborPrice: 35},
	{ID: "directional-boring", Name: "Directional Boring", Subgroup: "Boring", Unit: UnitFoot, MaterialPrice: 12, LaborPrice: 40},
	{ID: "conduit-2in-pvc", Name: "2\" Schedule 40 PVC Conduit", Subgroup: "Conduit", Unit: UnitFoot, MaterialPrice: 3.5, LaborPrice: 6},
	{ID: "conduit-1in-emt", Name: "1\" EMT Conduit", Subgroup: "Conduit", Unit: UnitFoot, MaterialPrice: 2.25, LaborPrice: 5},
	{ID: "wire-6awg", Name: "#6 AWG THHN Copper", Subgroup: "Wire", Unit: UnitFoot, MaterialPrice: 1.8, LaborPrice: 1.2},
	{ID: "wire-1-0awg", Name: "1/0 AWG THHN Copper", Subgroup: "Wire", Unit: UnitFoot, MaterialPrice: 5.4, LaborPrice: 2.1},
	{ID: "service-upgrade-400a", Name: "400A Service Upgrade", Subgroup: "Electrical Service", Unit: UnitProject, MaterialPrice: 6500, LaborPrice: 5200},
	{ID: "panel-225a", Name: "225A Distribution Panel", Subgroup: "Panels", Unit: UnitEach, MaterialPrice: 1850, LaborPrice: 950},
	{ID: "l2-circuit", Name: "Level 2 Branch Circuit (50A)", Subgroup: "Circuits", Unit: UnitCircuit, MaterialPrice: 180, LaborPrice: 320},
	{ID: "dcfc-circuit", Name: "DCFC Feeder Circuit (200A)", Subgroup: "Circuits", Unit: UnitCircuit, MaterialPrice: 1400, LaborPrice: 1600},
	{ID: "transformer-75kva", Name: "75 kVA Step-Down Transformer", Subgroup: "Transformer", Unit: UnitEach, MaterialPrice: 7800, LaborPrice: 2400},
	{ID: "concrete-pad", Name: "Concrete Equipment Pad", Subgroup: "Concrete", Unit: UnitEach, MaterialPrice: 650, LaborPrice: 900},
	{ID: "pedestal-base", Name: "Charger Pedestal Foundation", Subgroup: "Concrete", Unit: UnitEach, MaterialPrice: 220, LaborPrice: 380},
	{ID: "asphalt-restoration", Name: "Asphalt Restoration", Subgroup: "Restoration", Unit: UnitFoot, MaterialPrice: 6, LaborPrice: 11},
	{ID: "ev-signage", Name: "EV Parking Signage", Subgroup: "Signage", Unit: UnitEach, MaterialPrice: 95, LaborPrice: 85},
	{ID: "stall-striping", Name: "EV Stall Striping & Stencil", Subgroup: "Signage", Unit: UnitEach, MaterialPrice: 60, LaborPrice: 140},
	{ID: "bollard", Name: "Steel Pipe Bollard", Subgroup: "Bollards", Unit: UnitEach, MaterialPrice: 240, LaborPrice: 310},
	{ID: "charger-mounting", Name: "Charger Mounting & Termination", Subgroup: "Equipment Install", Unit: UnitEach, MaterialPrice: 75, LaborPrice: 450},
	{ID: "commissioning", Name: "Station Commissioning & Activation", Subgroup: "Commissioning", Unit: UnitEach, LaborPrice: 350},
}

// DefaultCatalog returns the built-in pricebook.
func DefaultCatalog() Catalog {
	return NewCatalog(DefaultProducts, DefaultServices)
}
