package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/resumekit/cv-service/internal/api/dto"
	"github.com/resumekit/cv-service/internal/auth"
	"github.com/resumekit/cv-service/internal/service"
	apperrors "github.com/resumekit/cv-service/pkg/util"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	auth         *service.AuthService
	cookieName   string
	secureCookie bool
}

// NewAuthHandler constructs handler. secureCookie is false only for local
// development over plain http.
func NewAuthHandler(authService *service.AuthService, cookieName string, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, cookieName: cookieName, secureCookie: secureCookie}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	account, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return apperrors.NewConflict("account already exists", nil)
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewAccountResponse(account))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(&req); err != nil {
		return err
	}

	account, session, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return err
	}

	c.Cookie(auth.SessionCookie(h.cookieName, session.Token, session.ExpiresAt, h.secureCookie))
	return c.JSON(dto.LoginResponse{User: dto.NewAccountResponse(account)})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this only
// clears the cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(auth.ExpiredCookie(h.cookieName, h.secureCookie))
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	account, err := h.auth.Account(c.UserContext(), id.AccountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return apperrors.NewUnauthorized("account no longer exists")
		}
		return err
	}
	return c.JSON(dto.NewAccountResponse(account))
}
