package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/dto"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/service"
)

// AuthHandler exposes the authenticate and authorize operations.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Authenticate handles POST /api/authenticate.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.AuthenticateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	token, err := h.auth.Authenticate(c.UserContext(), domain.Credential{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{JWT: token.JWT})
}

// Authorize handles POST /api/authorize.
func (h *AuthHandler) Authorize(c *fiber.Ctx) error {
	var req dto.AuthorizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	authorization, err := h.auth.Authorize(c.UserContext(), domain.AuthToken{JWT: req.JWT})
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthorizationResponse{
		SubjectID:     authorization.SubjectID,
		Authenticated: authorization.Authenticated,
		Role:          string(authorization.Role),
	})
}
