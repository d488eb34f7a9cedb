package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"findash-api/internal/models"
	"findash-api/internal/service"
	"findash-api/internal/utils"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	resp, err := h.authService.Login(req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid email or password", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", err)
	}

	return utils.SuccessResponse(c, "Login successful", resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Name, email and password are required", nil)
	}

	resp, err := h.authService.Register(req)
	if errors.Is(err, service.ErrEmailTaken) {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Email already registered", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Registration failed", err)
	}

	return utils.CreatedResponse(c, "Registration successful", resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	resp, err := h.authService.Refresh(req.RefreshToken)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired refresh token", nil)
	}
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Token refresh failed", err)
	}

	return utils.SuccessResponse(c, "Token refreshed", resp)
}

// Me echoes the authenticated identity from the token claims.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, "Authenticated", fiber.Map{
		"user_id":    c.Locals("user_id"),
		"company_id": c.Locals("company_id"),
		"email":      c.Locals("email"),
		"role":       c.Locals("role"),
	})
}
