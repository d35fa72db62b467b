package main

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/collections"
	"proposalgen/commands"
	"proposalgen/config"
	"proposalgen/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(commands.NewScaffoldCommand(cfg))

	// Create pricebook collections and seed the built-in catalog on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		jsonOnly := handlers.RequireJSONBody()

		// ── Pricebook ────────────────────────────────────────────
		se.Router.GET("/api/pricebook", handlers.HandlePricebook(app))

		// ── Proposal editing ─────────────────────────────────────
		se.Router.POST("/api/proposals/calculate", handlers.HandleProposalCalculate(app, cfg)).BindFunc(jsonOnly)

		// ── Utility exports ──────────────────────────────────────
		se.Router.POST("/api/proposals/utility-breakdown", handlers.HandleUtilityBreakdown(app, cfg)).BindFunc(jsonOnly)
		se.Router.POST("/api/utility-export", handlers.HandleUtilityExport(app, cfg)).BindFunc(jsonOnly)

		// ── Proposal documents ───────────────────────────────────
		se.Router.POST("/api/proposals/pdf", handlers.HandleProposalPDF(app, cfg)).BindFunc(jsonOnly)
		se.Router.POST("/api/proposals/cost-summary", handlers.HandleCostSummaryExcel(app, cfg)).BindFunc(jsonOnly)
		se.Router.POST("/proposals/summary", handlers.HandleFinancialSummary(app, cfg)).BindFunc(jsonOnly)

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/api/pricebook")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
