package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"sareehouse/internal/models"
	"sareehouse/internal/services"
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service      *services.ProductService
	similarLimit int
	log          *slog.Logger
}

// NewProductHandler creates a new ProductHandler. similarLimit is used when a
// similar-products request names no limit.
func NewProductHandler(service *services.ProductService, similarLimit int, log *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:      service,
		similarLimit: similarLimit,
		log:          log,
	}
}

// RegisterRoutes registers the public catalog routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Get("/:id/similar", h.HandleGetSimilarProducts)

	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:slug/products", h.HandleGetCategoryProducts)
}

// RegisterAdminRoutes registers catalog writes. router must already enforce
// authentication and the admin role.
func (h *ProductHandler) RegisterAdminRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists the catalog, optionally narrowed by ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var (
		products []models.Product
		err      error
	)
	if category := c.Query("category"); category != "" {
		products, err = h.service.GetProductsByCategory(c.UserContext(), category)
	} else {
		products, err = h.service.GetAllProducts(c.UserContext())
	}
	if err != nil {
		return respondError(c, h.log, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleGetSimilarProducts returns products related to :id.
func (h *ProductHandler) HandleGetSimilarProducts(c *fiber.Ctx) error {
	limit := h.similarLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid limit",
				"error":   err.Error(),
			})
		}
		limit = n
	}

	products, err := h.service.SimilarProducts(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return respondError(c, h.log, "Could not retrieve similar products", err)
	}
	return c.JSON(products)
}

// HandleGetCategories lists categories with slugs and counts.
func (h *ProductHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.log, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryProducts lists the products of the category named by :slug.
func (h *ProductHandler) HandleGetCategoryProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByCategorySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve category", err)
	}
	return c.JSON(products)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the product at :id.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badBody(c, err)
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(c.UserContext(), &product); err != nil {
		return respondError(c, h.log, "Could not update product", err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes the product at :id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
