package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Collection names.
const (
	ProductsCollection = "pricebook_products"
	ServicesCollection = "installation_services"
)

// Setup programmatically creates/ensures the pricebook_products and
// installation_services collections exist.
func Setup(app *pocketbase.PocketBase) {
	ensureCollection(app, ProductsCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "product_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "part_number", Required: false})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "manufacturer", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "charging_level",
			Required:  true,
			Values:    []string{"level2", "dcfc"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "ports", Required: false, OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "unit_cost", Required: false})
		c.Fields.Add(&core.NumberField{Name: "shipping_cost", Required: false})
		for _, years := range networkTermFields {
			c.Fields.Add(&core.NumberField{Name: years.price, Required: false})
			c.Fields.Add(&core.NumberField{Name: years.cost, Required: false})
		}
		c.AddIndex("idx_pricebook_products_product_id", true, "product_id", "")
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, ServicesCollection, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "service_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "subgroup", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "unit",
			Required:  true,
			Values:    []string{"ft", "each", "circuit", "project"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "material_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "labor_price", Required: false})
		c.AddIndex("idx_installation_services_service_id", true, "service_id", "")
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})
}

// networkTermFields names the price/cost fields for each network term.
var networkTermFields = []struct {
	years       int
	price, cost string
}{
	{1, "network_1yr_price", "network_1yr_cost"},
	{3, "network_3yr_price", "network_3yr_cost"},
	{5, "network_5yr_price", "network_5yr_cost"},
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
