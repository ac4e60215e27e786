package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sareehouse/internal/middleware"
	"sareehouse/internal/services"
)

// CollectionHandler serves the caller's cart and wishlist.
type CollectionHandler struct {
	service *services.CollectionService
	log     *slog.Logger
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service *services.CollectionService, log *slog.Logger) *CollectionHandler {
	return &CollectionHandler{service: service, log: log}
}

// RegisterRoutes registers the /me routes. router must enforce authentication.
func (h *CollectionHandler) RegisterRoutes(router fiber.Router) {
	me := router.Group("/me")
	me.Get("/collection", h.HandleGetCollection)
	me.Get("/collection/:productId", h.HandleGetMembership)
	me.Get("/cart", h.HandleGetCart)
	me.Post("/cart", h.HandleAddToCart)
	me.Delete("/cart/:productId", h.HandleRemoveFromCart)
	me.Get("/wishlist", h.HandleGetWishlist)
	me.Post("/wishlist/:productId/toggle", h.HandleToggleWishlist)
}

// HandleGetCollection returns the stored cart and wishlist IDs.
func (h *CollectionHandler) HandleGetCollection(c *fiber.Ctx) error {
	state, err := h.service.State(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve collection", err)
	}
	return c.JSON(state)
}

// HandleGetMembership reports whether :productId is in the cart and the wishlist.
func (h *CollectionHandler) HandleGetMembership(c *fiber.Ctx) error {
	state, err := h.service.State(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve collection", err)
	}
	productID := c.Params("productId")
	return c.JSON(fiber.Map{
		"product_id":  productID,
		"in_cart":     h.service.IsInCart(state, productID),
		"in_wishlist": h.service.IsInWishlist(state, productID),
	})
}

// HandleGetCart returns the cart resolved into products.
func (h *CollectionHandler) HandleGetCart(c *fiber.Ctx) error {
	products, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve cart", err)
	}
	return c.JSON(products)
}

// AddToCartRequest names the product to append.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
}

// HandleAddToCart appends a product to the cart.
func (h *CollectionHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	state, err := h.service.AddToCart(c.UserContext(), middleware.UserID(c), req.ProductID)
	if err != nil {
		return respondError(c, h.log, "Could not add to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

// HandleRemoveFromCart drops one occurrence of :productId from the cart.
func (h *CollectionHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	state, err := h.service.RemoveFromCart(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, "Could not remove from cart", err)
	}
	return c.JSON(state)
}

// HandleGetWishlist returns the wishlist resolved into products.
func (h *CollectionHandler) HandleGetWishlist(c *fiber.Ctx) error {
	products, err := h.service.GetWishlist(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve wishlist", err)
	}
	return c.JSON(products)
}

// HandleToggleWishlist adds :productId to the wishlist or removes it.
func (h *CollectionHandler) HandleToggleWishlist(c *fiber.Ctx) error {
	state, err := h.service.ToggleWishlist(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.log, "Could not toggle wishlist", err)
	}
	return c.JSON(state)
}
