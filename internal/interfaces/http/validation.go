package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/devis-factures-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateStruct aplica las etiquetas validate: del DTO y traduce los fallos a ErrInvalidArgument.
// Details lleva campo → regla incumplida.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid("requête invalide")
	}
	details := make(map[string]any, len(verrs))
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldPath(fe.Namespace())
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		details[name] = rule
		fields = append(fields, name)
	}
	return &domain.Error{
		Kind:    domain.ErrInvalidArgument,
		Message: "champs invalides : " + strings.Join(fields, ", "),
		Details: details,
	}
}

// fieldPath quita el nombre del struct raíz: "QuoteRequest.Lines[0].Description" → "Lines[0].Description".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// parseBody decodifica el cuerpo (JSON o formulario) y lo valida.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("corps de requête illisible")
	}
	return validateStruct(out)
}

// parseQuery decodifica los parámetros de query y los valida.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.Invalid("paramètres de requête invalides")
	}
	return validateStruct(out)
}

// pathID lee :id y comprueba que sea un UUID.
func pathID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", &domain.Error{
			Kind:    domain.ErrInvalidArgument,
			Message: "identifiant invalide",
			Details: map[string]any{"id": id},
		}
	}
	return id, nil
}
