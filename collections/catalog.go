package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"proposalgen/services"
)

// LoadCatalog reads the pricebook collections into a services.Catalog.
func LoadCatalog(app *pocketbase.PocketBase) (services.Catalog, error) {
	productRecords, err := app.FindAllRecords(ProductsCollection)
	if err != nil {
		return services.Catalog{}, fmt.Errorf("load products: %w", err)
	}
	serviceRecords, err := app.FindAllRecords(ServicesCollection)
	if err != nil {
		return services.Catalog{}, fmt.Errorf("load services: %w", err)
	}

	products := make([]services.PricebookProduct, 0, len(productRecords))
	for _, r := range productRecords {
		products = append(products, productFromRecord(r))
	}
	svcs := make([]services.InstallationService, 0, len(serviceRecords))
	for _, r := range serviceRecords {
		svcs = append(svcs, services.InstallationService{
			ID:            r.GetString("service_id"),
			Name:          r.GetString("name"),
			Subgroup:      r.GetString("subgroup"),
			Unit:          r.GetString("unit"),
			MaterialPrice: r.GetFloat("material_price"),
			LaborPrice:    r.GetFloat("labor_price"),
		})
	}
	return services.NewCatalog(products, svcs), nil
}

func productFromRecord(r *core.Record) services.PricebookProduct {
	p := services.PricebookProduct{
		ID:            r.GetString("product_id"),
		PartNumber:    r.GetString("part_number"),
		Name:          r.GetString("name"),
		Manufacturer:  r.GetString("manufacturer"),
		ChargingLevel: r.GetString("charging_level"),
		Ports:         r.GetInt("ports"),
		UnitCost:      r.GetFloat("unit_cost"),
		ShippingCost:  r.GetFloat("shipping_cost"),
		NetworkPlans:  make(map[int]services.NetworkPlan, len(networkTermFields)),
	}
	for _, f := range networkTermFields {
		p.NetworkPlans[f.years] = services.NetworkPlan{
			Price: r.GetFloat(f.price),
			Cost:  r.GetFloat(f.cost),
		}
	}
	return p
}
