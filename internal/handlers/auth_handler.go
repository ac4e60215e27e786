package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"sareehouse/internal/models"
	"sareehouse/internal/services"
	"sareehouse/internal/validation"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
	log         *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validate:    validation.New(),
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/password-reset", h.HandleRequestPasswordReset)
	authRoutes.Post("/password-reset/confirm", h.HandleConfirmPasswordReset)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return validationFailed(c, err)
	}

	user, err := h.userService.CreateUser(c.UserContext(), input)
	if err != nil {
		return respondError(c, h.log, "Registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, h.log, "Authentication failed", err)
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// PasswordResetRequest asks for a reset token for Email.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleRequestPasswordReset issues a reset token. Without a mail transport
// the token is returned in the response body.
func (h *AuthHandler) HandleRequestPasswordReset(c *fiber.Ctx) error {
	var req PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, expires, err := h.userService.GeneratePasswordResetToken(c.UserContext(), req.Email)
	if err != nil {
		return respondError(c, h.log, "Could not issue reset token", err)
	}
	return c.JSON(fiber.Map{
		"message":    "Reset token issued",
		"token":      token,
		"expires_at": expires,
	})
}

// PasswordResetConfirmRequest sets Password for the owner of Token.
type PasswordResetConfirmRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// HandleConfirmPasswordReset consumes a reset token and stores the new password.
func (h *AuthHandler) HandleConfirmPasswordReset(c *fiber.Ctx) error {
	var req PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	if err := h.userService.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return respondError(c, h.log, "Password reset failed", err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
