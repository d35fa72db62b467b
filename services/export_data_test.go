package services

import "testing"

func TestBuildProposalDocument_GroupsInstallationBySubgroup(t *testing.T) {
	p := NewProposal(ProjectLevel2EPC, testSettings(), 5)
	p.EVSEItems = []EVSEItem{evseFromCatalog(t, "cp-cpf50-dual", 2)}
	p.InstallationItems = []InstallationItem{
		installationFromCatalog(t, "trenching-soft", 100),
		installationFromCatalog(t, "project-management", 1),
		installationFromCatalog(t, "trenching-asphalt", 20),
	}
	p = recalculated(t, p)

	doc := BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026")

	if len(doc.Rows) != 4 {
		t.Fatalf("len(Rows) = %d, want 4", len(doc.Rows))
	}
	if doc.Rows[0].Section != "Equipment" || doc.Rows[0].Index != "E1" {
		t.Errorf("Rows[0] = %+v, want equipment row E1", doc.Rows[0])
	}
	wantOrder := []string{"trenching-soft", "trenching-asphalt", "project-management"}
	for i, id := range wantOrder {
		row := doc.Rows[i+1]
		svc, _ := DefaultCatalog().Service(id)
		if row.Description != svc.Name {
			t.Errorf("Rows[%d].Description = %q, want %q", i+1, row.Description, svc.Name)
		}
		if row.Section != "Installation" {
			t.Errorf("Rows[%d].Section = %q, want Installation", i+1, row.Section)
		}
	}
	if doc.Rows[3].Index != "I3" {
		t.Errorf("last installation index = %q, want I3", doc.Rows[3].Index)
	}
}

func TestBuildProposalDocument_InstallationRowsMatchTotals(t *testing.T) {
	p := recalculated(t, sampleProposal(t))
	doc := BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026")

	var ourCost, quoted float64
	for _, r := range doc.Rows {
		if r.Section == "Installation" {
			ourCost += r.OurCost
			quoted += r.QuotedPrice
		}
	}
	if !approxEqual(ourCost, p.CSMRActualCost, 0.01) {
		t.Errorf("installation our cost = %.2f, want %.2f", ourCost, p.CSMRActualCost)
	}
	if !approxEqual(quoted, p.CSMRQuotedPrice, 0.01) {
		t.Errorf("installation quoted = %.2f, want %.2f", quoted, p.CSMRQuotedPrice)
	}
	if doc.GrossProjectCost != p.GrossProjectCost || doc.NetProjectCost != p.NetProjectCost {
		t.Errorf("document totals differ from proposal")
	}
}

func TestBuildProposalDocument_SalesTaxLine(t *testing.T) {
	tests := []struct {
		projectType ProjectType
		wantTax     bool
	}{
		{ProjectLevel2EPC, true},
		{ProjectDistribution, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.projectType), func(t *testing.T) {
			p := NewProposal(tt.projectType, testSettings(), 0)
			p.EVSEItems = []EVSEItem{evseFromCatalog(t, "cp-cpf50-dual", 1)}
			p = recalculated(t, p)

			doc := BuildProposalDocument(p, "Clean Street EV", "Jan 2, 2026")
			var found bool
			for _, s := range doc.Summary {
				if s.Label == "EVSE Sales Tax" {
					found = true
					if !approxEqual(s.OurCost, p.EVSESalesTax, 0.001) {
						t.Errorf("tax line = %.2f, want %.2f", s.OurCost, p.EVSESalesTax)
					}
					if s.Quoted != 0 {
						t.Errorf("tax line quoted = %.2f, want 0", s.Quoted)
					}
				}
			}
			if found != tt.wantTax {
				t.Errorf("sales tax line present = %v, want %v", found, tt.wantTax)
			}
		})
	}
}
