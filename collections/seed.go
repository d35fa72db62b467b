package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/services"
)

// Seed populates the pricebook collections from the built-in catalog.
// Collections that already hold records are left untouched so pricebook
// edits made in the admin UI survive restarts.
func Seed(app *pocketbase.PocketBase) error {
	return SeedCatalog(app, services.DefaultCatalog())
}

// SeedCatalog writes catalog into empty pricebook collections.
func SeedCatalog(app *pocketbase.PocketBase, catalog services.Catalog) error {
	productsCol, err := app.FindCollectionByNameOrId(ProductsCollection)
	if err != nil {
		return fmt.Errorf("find %s: %w", ProductsCollection, err)
	}
	servicesCol, err := app.FindCollectionByNameOrId(ServicesCollection)
	if err != nil {
		return fmt.Errorf("find %s: %w", ServicesCollection, err)
	}

	existing, err := app.CountRecords(productsCol)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if existing == 0 {
		for _, p := range catalog.SortedProducts() {
			record := core.NewRecord(productsCol)
			record.Set("product_id", p.ID)
			record.Set("part_number", p.PartNumber)
			record.Set("name", p.Name)
			record.Set("manufacturer", p.Manufacturer)
			record.Set("charging_level", p.ChargingLevel)
			record.Set("ports", p.Ports)
			record.Set("unit_cost", p.UnitCost)
			record.Set("shipping_cost", p.ShippingCost)
			for _, f := range networkTermFields {
				plan := p.NetworkPlans[f.years]
				record.Set(f.price, plan.Price)
				record.Set(f.cost, plan.Cost)
			}
			if err := app.Save(record); err != nil {
				return fmt.Errorf("save product %q: %w", p.ID, err)
			}
		}
		log.Printf("Seeded %d pricebook products", len(catalog.Products))
	}

	existing, err = app.CountRecords(servicesCol)
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if existing == 0 {
		for _, s := range catalog.SortedServices() {
			record := core.NewRecord(servicesCol)
			record.Set("service_id", s.ID)
			record.Set("name", s.Name)
			record.Set("subgroup", s.Subgroup)
			record.Set("unit", s.Unit)
			record.Set("material_price", s.MaterialPrice)
			record.Set("labor_price", s.LaborPrice)
			if err := app.Save(record); err != nil {
				return fmt.Errorf("save service %q: %w", s.ID, err)
			}
		}
		log.Printf("Seeded %d installation services", len(catalog.Services))
	}

	return nil
}
