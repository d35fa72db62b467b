package services

import (
	"bytes"
	"math"
	"testing"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func testCalculator() *Calculator {
	return NewCalculator(DefaultCatalog(), nil)
}

func testSettings() PricingSettings {
	return PricingSettings{
		EVSEMarginPercent:    30,
		CSMRCostBasisPercent: 70,
		CSMRMarginPercent:    35,
		SalesTaxRate:         8,
	}
}

// installationFromCatalog builds an installation line for a catalog service.
func installationFromCatalog(t *testing.T, id string, qty float64) InstallationItem {
	t.Helper()
	svc, ok := DefaultCatalog().Service(id)
	if !ok {
		t.Fatalf("default catalog has no service %q", id)
	}
	return InstallationItem{
		ID:            "inst-" + id,
		ServiceID:     svc.ID,
		Name:          svc.Name,
		Quantity:      qty,
		Unit:          svc.Unit,
		Subgroup:      svc.Subgroup,
		MaterialPrice: svc.MaterialPrice,
		LaborPrice:    svc.LaborPrice,
	}
}

// evseFromCatalog builds an EVSE line for a catalog product.
func evseFromCatalog(t *testing.T, id string, qty float64) EVSEItem {
	t.Helper()
	product, ok := DefaultCatalog().Product(id)
	if !ok {
		t.Fatalf("default catalog has no product %q", id)
	}
	return EVSEItem{
		ID:         "evse-" + id,
		ProductID:  product.ID,
		PartNumber: product.PartNumber,
		Name:       product.Name,
		Quantity:   qty,
		UnitCost:   product.UnitCost,
		Ports:      product.Ports,
	}
}

// sampleProposal is a Level 2 EPC job touching most installation subgroups.
func sampleProposal(t *testing.T) Proposal {
	t.Helper()
	p := NewProposal(ProjectLevel2EPC, testSettings(), 5)
	p.Customer = Customer{Name: "Acme Parking", Address: "100 Main St", City: "Albany", State: "NY", Zip: "12207"}
	p.ProposalNumber = "P-1001"
	p.EVSEItems = []EVSEItem{evseFromCatalog(t, "cp-cpf50-dual", 2)}
	p.InstallationItems = []InstallationItem{
		installationFromCatalog(t, "project-management", 1),
		installationFromCatalog(t, "utility-coordination", 1),
		installationFromCatalog(t, "permit-fee", 1),
		installationFromCatalog(t, "trenching-soft", 120),
		installationFromCatalog(t, "directional-boring", 40),
		installationFromCatalog(t, "conduit-2in-pvc", 150),
		installationFromCatalog(t, "wire-6awg", 300),
		installationFromCatalog(t, "l2-circuit", 2),
		installationFromCatalog(t, "pedestal-base", 2),
		installationFromCatalog(t, "asphalt-restoration", 30),
		installationFromCatalog(t, "bollard", 2),
		installationFromCatalog(t, "charger-mounting", 2),
		installationFromCatalog(t, "commissioning", 2),
	}
	return p
}

// recalculated runs p through the default calculator and fails on error.
func recalculated(t *testing.T, p Proposal) Proposal {
	t.Helper()
	out, err := testCalculator().Recalculate(p)
	if err != nil {
		t.Fatalf("Recalculate() error: %v", err)
	}
	return out
}
