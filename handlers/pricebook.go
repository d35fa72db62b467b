package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/collections"
	"proposalgen/services"
)

// pricebookResponse is the catalog as the proposal editor consumes it.
type pricebookResponse struct {
	Products  []services.PricebookProduct    `json:"products"`
	Services  []services.InstallationService `json:"services"`
	Subgroups []string                       `json:"subgroups"`
	Utilities []services.UtilityType         `json:"utilities"`
}

// HandlePricebook returns a handler that serves the stored pricebook as JSON.
func HandlePricebook(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		catalog, err := collections.LoadCatalog(app)
		if err != nil {
			app.Logger().Error("pricebook: load catalog", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to load pricebook")
		}
		return e.JSON(http.StatusOK, pricebookResponse{
			Products:  catalog.SortedProducts(),
			Services:  catalog.SortedServices(),
			Subgroups: catalog.Subgroups(),
			Utilities: services.Utilities,
		})
	}
}
