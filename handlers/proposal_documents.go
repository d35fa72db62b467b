package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/config"
	"proposalgen/services"
	"proposalgen/templates"
)

// DocumentRequest carries the proposal a document is rendered from.
type DocumentRequest struct {
	Proposal *services.Proposal `json:"proposal"`
}

// buildDocument decodes the request, recalculates the proposal and lays it
// out for rendering. It writes the error response itself and returns ok=false
// when the request cannot be served.
func buildDocument(app *pocketbase.PocketBase, cfg *config.Config, e *core.RequestEvent, tag string) (services.ProposalDocument, bool, error) {
	var req DocumentRequest
	if err := decodeJSON(e, &req); err != nil {
		return services.ProposalDocument{}, false, jsonError(e, http.StatusBadRequest, err.Error())
	}
	p, err := proposalInput(cfg, req.Proposal)
	if err != nil {
		return services.ProposalDocument{}, false, jsonError(e, http.StatusBadRequest, err.Error())
	}

	calc, err := newCalculator(app)
	if err != nil {
		app.Logger().Error(tag+": load catalog", "error", err)
		return services.ProposalDocument{}, false, jsonError(e, http.StatusInternalServerError, "Failed to load pricebook")
	}
	p, err = calc.Recalculate(p)
	if err != nil {
		return services.ProposalDocument{}, false, jsonError(e, statusFor(err), err.Error())
	}

	return services.BuildProposalDocument(p, cfg.CompanyName, time.Now().Format("Jan 2, 2006")), true, nil
}

func documentFilename(doc services.ProposalDocument, ext string) string {
	name := sanitizeFilename(doc.Customer.Name)
	if name == "" {
		name = "Proposal"
	}
	if doc.ProposalNumber != "" {
		name += "_" + sanitizeFilename(doc.ProposalNumber)
	}
	return fmt.Sprintf("%s_%d.%s", name, time.Now().Year(), ext)
}

// HandleProposalPDF returns a handler that downloads the customer-facing
// proposal PDF.
func HandleProposalPDF(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, ok, err := buildDocument(app, cfg, e, "proposal_pdf")
		if !ok {
			return err
		}

		pdfBytes, err := services.GenerateProposalPDF(doc)
		if err != nil {
			app.Logger().Error("proposal_pdf: failed to generate", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}
		return attachment(e, pdfContentType, documentFilename(doc, "pdf"), pdfBytes)
	}
}

// HandleCostSummaryExcel returns a handler that downloads the internal cost
// summary workbook.
func HandleCostSummaryExcel(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, ok, err := buildDocument(app, cfg, e, "cost_summary")
		if !ok {
			return err
		}

		xlsxBytes, err := services.GenerateCostSummaryExcel(doc)
		if err != nil {
			app.Logger().Error("cost_summary: failed to generate", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}
		return attachment(e, xlsxContentType, "CostSummary_"+documentFilename(doc, "xlsx"), xlsxBytes)
	}
}

// HandleFinancialSummary returns a handler that renders the financial
// summary fragment as HTML.
func HandleFinancialSummary(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		doc, ok, err := buildDocument(app, cfg, e, "financial_summary")
		if !ok {
			return err
		}
		e.Response.Header().Set("Content-Type", "text/html; charset=utf-8")
		return templates.FinancialSummary(doc).Render(e.Request.Context(), e.Response)
	}
}
