package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/config"
	"proposalgen/services"
)

// CalculateRequest carries the proposal being edited and the edits to apply
// in order. Derived fields in Proposal are ignored and recomputed.
type CalculateRequest struct {
	Proposal *services.Proposal       `json:"proposal"`
	Actions  []services.ActionRequest `json:"actions"`
}

// CalculateResponse is the recomputed proposal with its payment analysis.
// Errors lists configuration problems that left part of the proposal
// unpriced; the proposal is still returned but no payment options are.
type CalculateResponse struct {
	Proposal       services.Proposal                `json:"proposal"`
	PaymentOptions []services.PaymentOptionAnalysis `json:"paymentOptions"`
	Warnings       []string                         `json:"warnings"`
	Errors         []string                         `json:"errors"`
}

// actionErrorBody reports which action in the batch was rejected.
type actionErrorBody struct {
	Error       string `json:"error"`
	ActionIndex int    `json:"actionIndex"`
}

// HandleProposalCalculate returns a handler that applies a batch of edits to
// a proposal and responds with the recomputed result. A rejected edit fails
// the whole request with 400; a configuration error is reported in the
// response body alongside the partially computed proposal.
func HandleProposalCalculate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req CalculateRequest
		if err := decodeJSON(e, &req); err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		p, err := proposalInput(cfg, req.Proposal)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		calc, err := newCalculator(app)
		if err != nil {
			app.Logger().Error("calculate: load catalog", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load pricebook")
		}

		p, calcErr := calc.Recalculate(p)
		for i, ar := range req.Actions {
			action, err := services.DecodeAction(ar)
			if err != nil {
				return e.JSON(http.StatusBadRequest, actionErrorBody{Error: err.Error(), ActionIndex: i})
			}
			next, err := services.Dispatch(calc, p, action)
			if err != nil && !isConfigError(err) {
				return e.JSON(statusFor(err), actionErrorBody{
					Error:       fmt.Sprintf("%s: %v", ar.Type, err),
					ActionIndex: i,
				})
			}
			p, calcErr = next, err
		}

		warnings := p.Warnings
		if warnings == nil {
			warnings = []string{}
		}
		// An unpriced proposal has nothing to split between payment options.
		options := []services.PaymentOptionAnalysis{}
		if calcErr == nil {
			options = services.AnalyzePaymentOptions(p)
		}
		return e.JSON(http.StatusOK, CalculateResponse{
			Proposal:       p,
			PaymentOptions: options,
			Warnings:       warnings,
			Errors:         errorStrings(calcErr),
		})
	}
}

// isConfigError reports whether err consists only of configuration errors.
func isConfigError(err error) bool {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			if !isConfigError(e) {
				return false
			}
		}
		return true
	}
	var cfgErr *services.ConfigError
	return errors.As(err, &cfgErr)
}
