package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/config"
	"proposalgen/services"
)

// UtilityBreakdownRequest asks for a proposal's export payload for one utility.
type UtilityBreakdownRequest struct {
	Proposal    *services.Proposal `json:"proposal"`
	UtilityType string             `json:"utilityType"`
}

// UtilityExportRequest carries a payload built by the utility-breakdown route.
type UtilityExportRequest struct {
	ExportData *services.ExcelExportData `json:"exportData"`
}

// HandleUtilityBreakdown returns a handler that recalculates a proposal and
// responds with its export payload for the requested utility.
func HandleUtilityBreakdown(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req UtilityBreakdownRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		u, err := services.ParseUtility(req.UtilityType)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		p, err := proposalInput(cfg, req.Proposal)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		calc, err := newCalculator(app)
		if err != nil {
			app.Logger().Error("utility_breakdown: load catalog", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load pricebook")
		}
		p, err = calc.Recalculate(p)
		if err != nil {
			return jsonError(e, statusFor(err), err.Error())
		}

		data, err := services.BuildExportData(p, u)
		if err != nil {
			return jsonError(e, statusFor(err), err.Error())
		}
		return e.JSON(http.StatusOK, data)
	}
}

// HandleUtilityExport returns a handler that fills the utility's template
// with the posted payload and downloads the workbook.
//
// Responses: 200 with the workbook, 400 for a missing or invalid payload,
// 404 when the utility's template is absent, 500 for any other failure.
// Error bodies are {"error": "..."}.
func HandleUtilityExport(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req UtilityExportRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		if req.ExportData == nil {
			return jsonError(e, http.StatusBadRequest, "exportData is required")
		}
		data := *req.ExportData

		xlsx, err := services.FillTemplate(cfg.TemplatesDir, data)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				app.Logger().Error("utility_export: fill template",
					"utility", data.UtilityType, "error", err)
				return jsonError(e, status, "Failed to generate utility workbook")
			}
			app.Logger().Warn("utility_export: rejected",
				"utility", data.UtilityType, "status", status, "error", err)
			return jsonError(e, status, err.Error())
		}

		return attachment(e, xlsxContentType, services.ExportFilename(data), xlsx)
	}
}
