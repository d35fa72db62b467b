package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proposalgen/services"
	"proposalgen/testhelpers"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"template missing", &services.TemplateError{Utility: services.UtilityNationalGrid, Err: services.ErrTemplateNotFound}, http.StatusNotFound},
		{"validation", fmt.Errorf("%w: bad", services.ErrValidation), http.StatusBadRequest},
		{"unknown utility", services.ErrUnknownUtility, http.StatusBadRequest},
		{"unknown category", services.ErrUnknownCategory, http.StatusBadRequest},
		{"unknown reference", services.ErrUnknownReference, http.StatusBadRequest},
		{"unknown item", services.ErrUnknownItem, http.StatusBadRequest},
		{"config", &services.ConfigError{Field: "evseMarginPercent", Value: 100, Err: services.ErrInvalidMargin}, http.StatusBadRequest},
		{"template broken", &services.TemplateError{Err: errors.New("zip: not a valid zip file")}, http.StatusInternalServerError},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "Acme Parking Lot", "Acme-Parking-Lot"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"quotes removed", `The "Lot"`, "The-Lot"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestErrorStrings(t *testing.T) {
	if got := errorStrings(nil); got == nil || len(got) != 0 {
		t.Errorf("errorStrings(nil) = %#v, want empty slice", got)
	}
	joined := errors.Join(errors.New("a"), errors.Join(errors.New("b"), errors.New("c")))
	got := errorStrings(joined)
	if strings.Join(got, ",") != "a,b,c" {
		t.Errorf("errorStrings(joined) = %v, want [a b c]", got)
	}
}

func TestProposalInput(t *testing.T) {
	cfg := testhelpers.NewTestConfig(t, t.TempDir())

	p, err := proposalInput(cfg, nil)
	if err != nil {
		t.Fatalf("proposalInput(nil) error: %v", err)
	}
	if p.ProjectType != services.ProjectLevel2EPC || p.NetworkYears != 5 || p.EVSEMarginPercent != 30 {
		t.Errorf("default proposal = %+v", p)
	}

	blank := services.Proposal{}
	p, err = proposalInput(cfg, &blank)
	if err != nil {
		t.Fatalf("proposalInput(blank) error: %v", err)
	}
	if p.ProjectType != services.ProjectLevel2EPC {
		t.Errorf("project type = %q, want configured default", p.ProjectType)
	}

	bad := services.Proposal{ProjectType: "rooftop-solar"}
	if _, err := proposalInput(cfg, &bad); !errors.Is(err, services.ErrValidation) {
		t.Errorf("proposalInput(bad type) error = %v, want ErrValidation", err)
	}

	negative := testhelpers.SampleProposal(t)
	negative.InstallationItems[0].LaborPrice = -50
	_, err = proposalInput(cfg, &negative)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("proposalInput(negative labor) error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "InstallationItems[0].LaborPrice") {
		t.Errorf("error %q should name the offending field", err)
	}
}

func TestProposalRoutes_RejectOutOfRangeInput(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testhelpers.NewTestConfig(t, t.TempDir())

	edits := map[string]func(*services.Proposal){
		"negative quantity":   func(p *services.Proposal) { p.EVSEItems[0].Quantity = -2 },
		"fractional quantity": func(p *services.Proposal) { p.EVSEItems[0].Quantity = 1.5 },
		"negative unit cost":  func(p *services.Proposal) { p.EVSEItems[0].UnitCost = -4500 },
		"negative material":   func(p *services.Proposal) { p.InstallationItems[0].MaterialPrice = -1 },
		"negative incentive":  func(p *services.Proposal) { p.MakeReadyIncentive = -10000 },
		"negative allowance":  func(p *services.Proposal) { p.UtilityAllowance = -500 },
	}
	routes := map[string]func(*testing.T, *services.Proposal) int{
		"calculate": func(t *testing.T, p *services.Proposal) int {
			return postJSON(t, app, HandleProposalCalculate(app, cfg), "/api/proposals/calculate", CalculateRequest{Proposal: p}).Code
		},
		"utility breakdown": func(t *testing.T, p *services.Proposal) int {
			return postJSON(t, app, HandleUtilityBreakdown(app, cfg), "/api/proposals/utility-breakdown",
				UtilityBreakdownRequest{Proposal: p, UtilityType: "national-grid"}).Code
		},
		"pdf": func(t *testing.T, p *services.Proposal) int {
			return postJSON(t, app, HandleProposalPDF(app, cfg), "/api/proposals/pdf", DocumentRequest{Proposal: p}).Code
		},
		"cost summary": func(t *testing.T, p *services.Proposal) int {
			return postJSON(t, app, HandleCostSummaryExcel(app, cfg), "/api/proposals/cost-summary", DocumentRequest{Proposal: p}).Code
		},
		"financial summary": func(t *testing.T, p *services.Proposal) int {
			return postJSON(t, app, HandleFinancialSummary(app, cfg), "/proposals/summary", DocumentRequest{Proposal: p}).Code
		},
	}
	for editName, edit := range edits {
		for routeName, post := range routes {
			t.Run(editName+"/"+routeName, func(t *testing.T) {
				p := testhelpers.SampleProposal(t)
				edit(&p)
				if code := post(t, &p); code != http.StatusBadRequest {
					t.Errorf("status = %d, want 400", code)
				}
			})
		}
	}
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"exportData": {}, "extra": 1}`))
	e := newTestRequestEvent(app, req, httptest.NewRecorder())

	var dst UtilityExportRequest
	if err := decodeJSON(e, &dst); !errors.Is(err, services.ErrValidation) {
		t.Errorf("decodeJSON() error = %v, want ErrValidation", err)
	}
}
