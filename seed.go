package main

import (
	"context"
	"fmt"
	"log/slog"

	"sareehouse/internal/models"
	"sareehouse/internal/repositories"
	"sareehouse/internal/validation"
)

const imageBase = "https://res.cloudinary.com/diujpbja7/image/upload/"

// starterCatalog is the storefront's launch collection, one lead saree per
// category plus a few variants of the same designs.
var starterCatalog = []models.Product{
	{ID: "19591-7", Name: "Kanjivaram Silk Saree", Category: "Traditional",
		Description: "Pure silk Kanjivaram with zari border.",
		Images:      []string{imageBase + "v1739209801/19591-7_ybplnl.png"}, Colors: []string{"Maroon", "Gold"}},
	{ID: "19591-3", Name: "Kanjivaram Silk Saree", Category: "Traditional",
		Description: "Pure silk Kanjivaram with zari border.",
		Images:      []string{imageBase + "v1739209801/19591-7_ybplnl.png"}, Colors: []string{"Green", "Gold"}},
	{ID: "19635-2", Name: "Banarasi Bridal Saree", Category: "Bridal",
		Description: "Heavy Banarasi brocade for the wedding day.",
		Images:      []string{imageBase + "v1739209826/19635-2_airf6b.png"}, Colors: []string{"Red"}},
	{ID: "19635-5", Name: "Banarasi Bridal Saree", Category: "Bridal",
		Description: "Heavy Banarasi brocade for the wedding day.",
		Images:      []string{imageBase + "v1739209826/19635-2_airf6b.png"}, Colors: []string{"Pink"}},
	{ID: "19593-4", Name: "Festive Georgette Saree", Category: "Festive",
		Description: "Sequinned georgette for celebrations.",
		Images:      []string{imageBase + "v1739209805/19593-4_qjomfv.png"}, Colors: []string{"Royal Blue"}},
	{ID: "24341-4", Name: "Printed Chiffon Saree", Category: "Casual",
		Description: "Lightweight floral chiffon for everyday wear.",
		Images:      []string{imageBase + "v1739209841/24341-4_xuiw47.jpg"}, Colors: []string{"Peach"}},
	{ID: "24347-1", Name: "Cotton Handloom Saree", Category: "Casual",
		Description: "Breathable handloom cotton.",
		Images:      []string{imageBase + "v1739209841/24341-4_xuiw47.jpg"}, Colors: []string{"White", "Blue"}},
}

// seedCatalog loads products into an empty catalog. A catalog that already
// holds products is left alone. Every product is validated before any is
// written.
func seedCatalog(ctx context.Context, repo repositories.ProductRepository, products []models.Product, log *slog.Logger) error {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("check catalog before seeding: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	v := validation.New()
	for i := range products {
		if err := validation.Struct(v, &products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].ID, err)
		}
	}
	for i := range products {
		product := products[i]
		if err := repo.Create(ctx, &product); err != nil {
			return fmt.Errorf("seed product %s: %w", product.ID, err)
		}
	}
	log.Info("seeded catalog", "products", len(products))
	return nil
}
