package services

import (
	"errors"
	"testing"
)

func TestMarkupFactor(t *testing.T) {
	got, err := MarkupFactor(70, 35)
	if err != nil {
		t.Fatalf("MarkupFactor() error: %v", err)
	}
	if !approxEqual(got, 0.7/0.65, 1e-12) {
		t.Errorf("MarkupFactor(70, 35) = %v, want %v", got, 0.7/0.65)
	}
	if _, err := MarkupFactor(70, 100); !errors.Is(err, ErrInvalidMargin) {
		t.Errorf("MarkupFactor(70, 100) error = %v, want ErrInvalidMargin", err)
	}
}

func TestBuildUtilityBreakdown_MarkupEquivalence(t *testing.T) {
	settings := []PricingSettings{
		testSettings(),
		{CSMRCostBasisPercent: 100, CSMRMarginPercent: 40},
		{CSMRCostBasisPercent: 55, CSMRMarginPercent: 12.5},
		{CSMRCostBasisPercent: 85, CSMRMarginPercent: 0},
	}
	for _, u := range Utilities {
		for _, s := range settings {
			p := sampleProposal(t)
			p.PricingSettings = s
			p = recalculated(t, p)

			breakdown, err := BuildUtilityBreakdown(p, u)
			if err != nil {
				t.Fatalf("BuildUtilityBreakdown(%s) error: %v", u, err)
			}
			var sum float64
			for _, cat := range breakdown {
				sum += cat.MaterialCost + cat.LaborCost
			}
			if !approxEqual(sum, p.CSMRQuotedPrice, 0.01) {
				t.Errorf("%s %+v: category sum %v, csmrQuotedPrice %v", u, s, sum, p.CSMRQuotedPrice)
			}
		}
	}
}

func TestBuildUtilityBreakdown_LaborHours(t *testing.T) {
	p := NewProposal(ProjectLevel2EPC, PricingSettings{CSMRCostBasisPercent: 100, CSMRMarginPercent: 0}, 0)
	p.InstallationItems = []InstallationItem{installationFromCatalog(t, "charger-mounting", 2)}
	p = recalculated(t, p)

	breakdown, err := BuildUtilityBreakdown(p, UtilityNationalGrid)
	if err != nil {
		t.Fatalf("BuildUtilityBreakdown() error: %v", err)
	}
	got := breakdown[NGEVSEInstallation]
	if got.LaborCost != 900 || got.MaterialCost != 150 {
		t.Errorf("labor/material = %v/%v, want 900/150", got.LaborCost, got.MaterialCost)
	}
	if got.LaborHours != 900/LaborRatePerHour {
		t.Errorf("laborHours = %v, want %v", got.LaborHours, 900/LaborRatePerHour)
	}
}

func TestBuildUtilityBreakdown_PermitFee(t *testing.T) {
	p := NewProposal(ProjectLevel2EPC, testSettings(), 0)
	p.InstallationItems = []InstallationItem{installationFromCatalog(t, "permit-fee", 1)}
	p = recalculated(t, p)

	breakdown, err := BuildUtilityBreakdown(p, UtilityNationalGrid)
	if err != nil {
		t.Fatalf("BuildUtilityBreakdown() error: %v", err)
	}
	if len(breakdown) != 1 {
		t.Fatalf("expected 1 category, got %v", breakdown)
	}
	if _, ok := breakdown[NGPermits]; !ok {
		t.Errorf("permit fee landed in %v, want %q", breakdown, NGPermits)
	}
}

func TestPortCount(t *testing.T) {
	tests := map[string]int{
		"cp-cpf50-dual":         2,
		"autel-dc-hipower-dual": 2,
		"cp-cpf50-single":       1,
		"cp-express-250":        1,
	}
	for id, want := range tests {
		if got := PortCount(id); got != want {
			t.Errorf("PortCount(%q) = %d, want %d", id, got, want)
		}
	}
}

func TestEVSEItemPortsPerUnit(t *testing.T) {
	tests := []struct {
		name string
		item EVSEItem
		want int
	}{
		{"catalog count wins", EVSEItem{ProductID: "cp-cpf50-single", Ports: 2}, 2},
		{"name fallback", EVSEItem{ProductID: "legacy-dual"}, 2},
		{"single fallback", EVSEItem{ProductID: "legacy"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.PortsPerUnit(); got != tt.want {
				t.Errorf("PortsPerUnit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildExportData_PlugsFromItemPorts(t *testing.T) {
	p := sampleProposal(t)
	p.EVSEItems = []EVSEItem{
		{ID: "q", ProductID: "custom-quad-pedestal", Name: "Quad Pedestal", Quantity: 2, UnitCost: 9000, Ports: 4},
		{ID: "d", ProductID: "legacy-dual", Name: "Legacy Dual", Quantity: 3, UnitCost: 5000},
	}
	p = recalculated(t, p)

	data, err := BuildExportData(p, UtilityNationalGrid)
	if err != nil {
		t.Fatalf("BuildExportData() error: %v", err)
	}
	if data.NumStations != 5 || data.NumPlugs != 14 {
		t.Errorf("stations/plugs = %d/%d, want 5/14", data.NumStations, data.NumPlugs)
	}
}

func TestExportChargingLevel(t *testing.T) {
	tests := []struct {
		name  string
		p     Proposal
		level string
	}{
		{"level2 epc", Proposal{ProjectType: ProjectLevel2EPC}, ChargingLevel2},
		{"level3 epc", Proposal{ProjectType: ProjectLevel3EPC}, ChargingDCFC},
		{"explicit dcfc", Proposal{ProjectType: ProjectSiteHost, ChargingLevel: "dcfc"}, ChargingDCFC},
		{"explicit level3", Proposal{ProjectType: ProjectMixedEPC, ChargingLevel: "Level3"}, ChargingDCFC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportChargingLevel(tt.p); got != tt.level {
				t.Errorf("ExportChargingLevel() = %q, want %q", got, tt.level)
			}
		})
	}
}

func TestBuildExportData(t *testing.T) {
	p := sampleProposal(t)
	p.EVSEItems = append(p.EVSEItems, evseFromCatalog(t, "cp-cpf50-single", 1))
	p = recalculated(t, p)

	data, err := BuildExportData(p, UtilityNYSEGRGE)
	if err != nil {
		t.Fatalf("BuildExportData() error: %v", err)
	}

	if data.CustomerName != "Acme Parking" || data.SiteZip != "12207" {
		t.Errorf("header = %q/%q", data.CustomerName, data.SiteZip)
	}
	if data.NumStations != 3 || data.NumPlugs != 5 {
		t.Errorf("stations/plugs = %d/%d, want 3/5", data.NumStations, data.NumPlugs)
	}
	if data.EVSEPartNumber != "CPF50-L23-DUAL" || data.EVSEQuantity != 3 {
		t.Errorf("evse line = %q x %v", data.EVSEPartNumber, data.EVSEQuantity)
	}
	if data.EVSEPrice != RoundCents(p.EVSEQuotedPrice) {
		t.Errorf("evsePrice = %v, want %v", data.EVSEPrice, RoundCents(p.EVSEQuotedPrice))
	}
	if data.NetworkPlanQty != 3 || data.NetworkPlanTotal != RoundCents(p.NetworkPlanCost) {
		t.Errorf("network = %v x / %v total", data.NetworkPlanQty, data.NetworkPlanTotal)
	}
	if data.ShippingAndNetworkCost != SumCents(p.ShippingCost, p.NetworkPlanCost) {
		t.Errorf("shippingAndNetwork = %v", data.ShippingAndNetworkCost)
	}

	// trenching 120 + boring 40; conduit 150; wire 300
	if data.TrenchingQty != 160 || data.ConduitQty != 150 || data.CablesQty != 300 {
		t.Errorf("footage = %v/%v/%v, want 160/150/300", data.TrenchingQty, data.ConduitQty, data.CablesQty)
	}

	for cat, totals := range data.Categories {
		for name, v := range map[string]float64{"labor": totals.LaborCost, "material": totals.MaterialCost, "hours": totals.LaborHours} {
			if v != RoundCents(v) {
				t.Errorf("%s %s = %v, not rounded to cents", cat, name, v)
			}
		}
	}
	if err := data.Validate(); err != nil {
		t.Errorf("built payload should validate: %v", err)
	}
}

func TestBuildExportData_NationalGridHasNoFootage(t *testing.T) {
	p := recalculated(t, sampleProposal(t))
	data, err := BuildExportData(p, UtilityNationalGrid)
	if err != nil {
		t.Fatalf("BuildExportData() error: %v", err)
	}
	if data.TrenchingQty != 0 || data.ConduitQty != 0 || data.CablesQty != 0 {
		t.Errorf("footage should only be filled for NYSEG/RG&E, got %v/%v/%v", data.TrenchingQty, data.ConduitQty, data.CablesQty)
	}
}

func TestBuildExportData_Errors(t *testing.T) {
	p := recalculated(t, sampleProposal(t))
	if _, err := BuildExportData(p, "coned"); !errors.Is(err, ErrUnknownUtility) {
		t.Errorf("unknown utility error = %v, want ErrUnknownUtility", err)
	}

	p.CSMRMarginPercent = 100
	var cfgErr *ConfigError
	if _, err := BuildExportData(p, UtilityNationalGrid); !errors.As(err, &cfgErr) {
		t.Errorf("invalid margin error = %v, want *ConfigError", err)
	}
}

func TestExcelExportData_Validate(t *testing.T) {
	tests := []struct {
		name string
		data ExcelExportData
		want error
	}{
		{"unknown utility", ExcelExportData{UtilityType: "coned", ChargingLevel: ChargingLevel2}, ErrUnknownUtility},
		{"unknown charging level", ExcelExportData{UtilityType: UtilityNationalGrid, ChargingLevel: "level1"}, ErrValidation},
		{"foreign category", ExcelExportData{
			UtilityType:   UtilityNYSEGRGE,
			ChargingLevel: ChargingLevel2,
			Categories:    map[string]CategoryTotals{NGProfessionalServices: {LaborCost: 1}},
		}, ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.data.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() error = %v, want %v", err, tt.want)
			}
		})
	}
}
