package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"sareehouse/internal/apperrors"
	"sareehouse/internal/middleware"
	"sareehouse/internal/models"
	"sareehouse/internal/services"
)

// UserHandler serves a user's own account.
type UserHandler struct {
	service *services.UserService
	log     *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log *slog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

// RegisterRoutes registers the account routes. router must enforce authentication.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/:id", h.selfOnly, h.HandleGetUser)
	userRoutes.Patch("/:id", h.selfOnly, h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.selfOnly, h.HandleDeleteUser)
}

func (h *UserHandler) selfOnly(c *fiber.Ctx) error {
	if c.Params("id") != middleware.UserID(c) {
		return respondError(c, h.log, "Access denied", apperrors.Forbidden("users may only access their own account"))
	}
	return c.Next()
}

// HandleGetUser returns the caller's account.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.FindUserByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial update to the caller's account.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var input models.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return respondError(c, h.log, "Could not update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser removes the caller's account with its cart and wishlist.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, "Could not delete user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
