package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/pkg/jwt"
)

// Locals keys para la identidad en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware valida el Bearer Token JWT y copia la identidad a c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "MISSING_TOKEN", "en-tête Authorization requis")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "INVALID_TOKEN", "format attendu : Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return unauthorized(c, "MISSING_TOKEN", "token vide")
		}
		id, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return unauthorized(c, "INVALID_TOKEN", "token invalide ou expiré")
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)
		c.Locals(LocalRole, id.Role)
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir DESPUÉS de AuthMiddleware.
// Token sin rol → 401 MISSING_ROLE; rol no permitido → 403 FORBIDDEN.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return unauthorized(c, "MISSING_ROLE", "rôle absent du token")
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Error:   "Forbidden",
				Message: "droits insuffisants pour cette opération",
			})
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code:    code,
		Error:   "Unauthorized",
		Message: message,
	})
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole devuelve el rol del usuario autenticado.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func GetEmail(c *fiber.Ctx) string {
	return localString(c, LocalEmail)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
