package handlers

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"proposalgen/services"
	"proposalgen/testhelpers"
)

func TestHandleProposalPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testhelpers.NewTestConfig(t, t.TempDir())
	p := testhelpers.SampleProposal(t)

	rec := postJSON(t, app, HandleProposalPDF(app, cfg), "/api/proposals/pdf", DocumentRequest{Proposal: &p})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != pdfContentType {
		t.Errorf("Content-Type = %q, want %q", ct, pdfContentType)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Acme-Parking_P-1001_") || !strings.HasSuffix(cd, `.pdf"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestHandleCostSummaryExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testhelpers.NewTestConfig(t, t.TempDir())
	p := testhelpers.SampleProposal(t)

	rec := postJSON(t, app, HandleCostSummaryExcel(app, cfg), "/api/proposals/cost-summary", DocumentRequest{Proposal: &p})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("Content-Type = %q, want %q", ct, xlsxContentType)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, `filename="CostSummary_Acme-Parking_P-1001_`) {
		t.Errorf("Content-Disposition = %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("body is not a workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Acme Parking", "A1"); v != "Acme Parking - Cost Summary" {
		t.Errorf("A1 = %q", v)
	}
}

func TestHandleFinancialSummary(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testhelpers.NewTestConfig(t, t.TempDir())
	p := testhelpers.SampleProposal(t)
	p.Customer.Name = "Acme <Parking>"

	rec := postJSON(t, app, HandleFinancialSummary(app, cfg), "/proposals/summary", DocumentRequest{Proposal: &p})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	want, err := services.NewCalculator(services.DefaultCatalog(), nil).Recalculate(p)
	if err != nil {
		t.Fatalf("Recalculate() error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`class="financial-summary"`,
		"Acme &lt;Parking&gt;",
		"P-1001",
		"Gross Project Cost",
		services.FormatUSD(want.NetProjectCost),
		"Full Purchase",
	)
}

func TestDocumentHandlers_RejectBadInput(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testhelpers.NewTestConfig(t, t.TempDir())
	bad := services.Proposal{ProjectType: "rooftop"}

	handlers := map[string]func(*testing.T) int{
		"pdf": func(t *testing.T) int {
			return postJSON(t, app, HandleProposalPDF(app, cfg), "/api/proposals/pdf", DocumentRequest{Proposal: &bad}).Code
		},
		"cost summary": func(t *testing.T) int {
			return postJSON(t, app, HandleCostSummaryExcel(app, cfg), "/api/proposals/cost-summary", `{"proposal": 7}`).Code
		},
		"financial summary": func(t *testing.T) int {
			return postJSON(t, app, HandleFinancialSummary(app, cfg), "/proposals/summary", `{`).Code
		},
	}
	for name, run := range handlers {
		t.Run(name, func(t *testing.T) {
			if code := run(t); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", code)
			}
		})
	}
}

func TestDocumentFilename(t *testing.T) {
	doc := services.ProposalDocument{Customer: services.Customer{Name: "Acme Parking"}}
	if got := documentFilename(doc, "pdf"); !strings.HasPrefix(got, "Acme-Parking_") || !strings.HasSuffix(got, ".pdf") {
		t.Errorf("documentFilename() = %q", got)
	}
	if got := documentFilename(services.ProposalDocument{}, "xlsx"); !strings.HasPrefix(got, "Proposal_") {
		t.Errorf("documentFilename(empty) = %q, want Proposal_ prefix", got)
	}
}
