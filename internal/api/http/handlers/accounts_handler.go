package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-gateway/internal/api/dto"
	"github.com/spec-kit/auth-gateway/internal/domain"
	"github.com/spec-kit/auth-gateway/internal/service"
)

// AccountsHandler exposes the identity service's account endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs the handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accountService}
}

// SecurityProfile handles GET /api/user/security/:email.
func (h *AccountsHandler) SecurityProfile(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid email parameter")
	}

	profile, err := h.accounts.SecurityProfile(c.UserContext(), email)
	if err != nil {
		return err
	}

	return c.JSON(dto.SecurityProfileResponse{
		Email:    profile.Email,
		Password: profile.PasswordHash,
		Role:     string(profile.Role),
		Enabled:  profile.Enabled,
	})
}

// Profile handles GET /api/user/profile/:email.
func (h *AccountsHandler) Profile(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid email parameter")
	}

	account, err := h.accounts.Profile(c.UserContext(), email)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileResponse{
		Email:     account.Email,
		Role:      string(account.Role),
		Enabled:   account.Enabled,
		CreatedAt: account.CreatedAt,
	})
}

// Register handles POST /api/user/new.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if _, err := h.accounts.Register(c.UserContext(), req.Email, req.Password, domain.Role(req.Role)); err != nil {
		return err
	}

	return c.SendStatus(http.StatusCreated)
}

// Update handles PUT /api/user/update.
func (h *AccountsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.accounts.Update(c.UserContext(), req.Email, req.Password, domain.Role(req.Role), req.Enabled); err != nil {
		return err
	}

	return c.SendStatus(http.StatusAccepted)
}

// Delete handles DELETE /api/user/delete/:email.
func (h *AccountsHandler) Delete(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid email parameter")
	}

	if err := h.accounts.Delete(c.UserContext(), email); err != nil {
		return err
	}

	return c.SendStatus(http.StatusAccepted)
}
