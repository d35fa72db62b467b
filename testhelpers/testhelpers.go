// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"proposalgen/collections"
	"proposalgen/config"
	"proposalgen/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app, runs collections.Setup to create all tables and
// seeds the built-in pricebook.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)
	if err := collections.Seed(app); err != nil {
		t.Fatalf("failed to seed test app: %v", err)
	}

	return app
}

// NewTestConfig returns the default configuration with templates read from
// templatesDir.
func NewTestConfig(t *testing.T, templatesDir string) *config.Config {
	t.Helper()

	return &config.Config{
		TemplatesDir:         templatesDir,
		CompanyName:          "Clean Street EV",
		DefaultEVSEMargin:    30,
		DefaultCSMRCostBasis: 70,
		DefaultCSMRMargin:    35,
		DefaultSalesTax:      8,
		DefaultNetworkYears:  5,
		DefaultProjectType:   string(services.ProjectLevel2EPC),
	}
}

// NewTemplateDir writes blank templates for every utility into a temporary
// directory and returns it.
func NewTemplateDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for _, u := range services.Utilities {
		if _, err := services.ScaffoldTemplateFile(dir, u); err != nil {
			t.Fatalf("failed to scaffold %s template: %v", u, err)
		}
	}
	return dir
}

// SampleProposal returns a Level 2 EPC proposal with two dual-port chargers
// and a typical installation scope, priced against the default catalog.
func SampleProposal(t *testing.T) services.Proposal {
	t.Helper()

	catalog := services.DefaultCatalog()
	p := services.NewProposal(services.ProjectLevel2EPC, services.PricingSettings{
		EVSEMarginPercent:    30,
		CSMRCostBasisPercent: 70,
		CSMRMarginPercent:    35,
		SalesTaxRate:         8,
	}, 5)
	p.Customer = services.Customer{
		Name:    "Acme Parking",
		Address: "100 Main St",
		City:    "Albany",
		State:   "NY",
		Zip:     "12207",
	}
	p.ProposalNumber = "P-1001"

	product, ok := catalog.Product("cp-cpf50-dual")
	if !ok {
		t.Fatalf("default catalog has no cp-cpf50-dual")
	}
	p.EVSEItems = append(p.EVSEItems, services.EVSEItem{
		ID:         "evse-1",
		ProductID:  product.ID,
		PartNumber: product.PartNumber,
		Name:       product.Name,
		Quantity:   2,
		UnitCost:   product.UnitCost,
		Ports:      product.Ports,
	})

	for i, line := range []struct {
		serviceID string
		qty       float64
	}{
		{"project-management", 1},
		{"permit-fee", 1},
		{"trenching-soft", 120},
		{"conduit-2in-pvc", 150},
		{"wire-6awg", 300},
		{"charger-mounting", 2},
	} {
		svc, ok := catalog.Service(line.serviceID)
		if !ok {
			t.Fatalf("default catalog has no service %q", line.serviceID)
		}
		p.InstallationItems = append(p.InstallationItems, services.InstallationItem{
			ID:            "inst-" + string(rune('a'+i)),
			ServiceID:     svc.ID,
			Name:          svc.Name,
			Quantity:      line.qty,
			Unit:          svc.Unit,
			Subgroup:      svc.Subgroup,
			MaterialPrice: svc.MaterialPrice,
			LaborPrice:    svc.LaborPrice,
		})
	}
	return p
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
