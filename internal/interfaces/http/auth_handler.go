package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/auth"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

// AuthHandler maneja el login.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log zerolog.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "auth.login", "", err)
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return unauthorized(c, "UNAUTHORIZED", "identifiants invalides")
		}
		if errors.Is(err, domain.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "FORBIDDEN", Error: "Forbidden", Message: "compte désactivé",
			})
		}
		return respondError(c, h.log, "auth.login", in.Email, err)
	}
	return c.JSON(out)
}

// Me GET /api/auth/me: identidad del token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"id":    GetUserID(c),
		"email": GetEmail(c),
		"role":  GetRole(c),
	})
}
