package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/collections"
	"proposalgen/config"
	"proposalgen/services"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// errorBody is the JSON shape of every API error response.
type errorBody struct {
	Error string `json:"error"`
}

// jsonError writes {"error": msg} with the given status.
func jsonError(e *core.RequestEvent, status int, msg string) error {
	return e.JSON(status, errorBody{Error: msg})
}

// statusFor maps a domain error onto an HTTP status: bad input is the
// caller's fault, a missing template is 404, anything else is ours.
func statusFor(err error) int {
	var cfgErr *services.ConfigError
	switch {
	case errors.Is(err, services.ErrTemplateNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrUnknownUtility),
		errors.Is(err, services.ErrUnknownCategory),
		errors.Is(err, services.ErrUnknownReference),
		errors.Is(err, services.ErrUnknownItem),
		errors.Is(err, services.ErrInvalidMargin),
		errors.As(err, &cfgErr):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(e *core.RequestEvent, dst any) error {
	if e.Request.Body == nil {
		return fmt.Errorf("%w: empty request body", services.ErrValidation)
	}
	dec := json.NewDecoder(e.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", services.ErrValidation, err)
	}
	return nil
}

// newCalculator builds a calculator over the pricebook stored in PocketBase.
func newCalculator(app *pocketbase.PocketBase) (*services.Calculator, error) {
	catalog, err := collections.LoadCatalog(app)
	if err != nil {
		return nil, err
	}
	return services.NewCalculator(catalog, app.Logger()), nil
}

// proposalInput resolves the proposal a request carries. A missing proposal
// starts from the configured defaults and a missing project type takes the
// configured default. Out-of-range line items or incentives fail with
// ErrValidation.
func proposalInput(cfg *config.Config, p *services.Proposal) (services.Proposal, error) {
	if p == nil {
		return cfg.NewProposal(), nil
	}
	out := p.Clone()
	if out.ProjectType == "" {
		out.ProjectType = services.ProjectType(cfg.DefaultProjectType)
	}
	if err := out.Validate(); err != nil {
		return services.Proposal{}, err
	}
	return out, nil
}

// errorStrings flattens a (possibly joined) error into its messages.
func errorStrings(err error) []string {
	if err == nil {
		return []string{}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, errorStrings(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return s
}

// attachment writes b as a file download.
func attachment(e *core.RequestEvent, contentType, filename string, b []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	e.Response.WriteHeader(http.StatusOK)
	_, err := e.Response.Write(b)
	return err
}
