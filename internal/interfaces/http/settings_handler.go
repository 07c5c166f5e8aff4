package http

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
)

// SettingsHandler parámetros de la empresa y su logo.
type SettingsHandler struct {
	uc  *billing.SettingsUseCase
	log zerolog.Logger
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *billing.SettingsUseCase, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{uc: uc, log: log}
}

// Get GET /api/parametres
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Context())
	if err != nil {
		return respondError(c, h.log, "parametres.get", "", err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Guardar parámetros
// @Description  multipart/form-data; el archivo opcional "logo" (png, jpeg, svg, webp, 2 MiB máx.) reemplaza el actual.
// @Tags         parametres
// @Accept       multipart/form-data
// @Produce      json
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/parametres [post]
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "parametres.save", "", err)
	}
	logo, err := readLogo(c)
	if err != nil {
		return respondError(c, h.log, "parametres.save", "", err)
	}
	out, err := h.uc.Save(c.Context(), in, logo)
	if err != nil {
		return respondError(c, h.log, "parametres.save", "", err)
	}
	return c.JSON(out)
}

// readLogo devuelve el archivo "logo" del formulario, o nil si no se envió.
func readLogo(c *fiber.Ctx) (*dto.LogoUpload, error) {
	fh, err := c.FormFile("logo")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, domain.Invalid("fichier logo illisible")
	}
	if fh.Size > billing.MaxLogoSize {
		return nil, &domain.Error{
			Kind:    domain.ErrInvalidArgument,
			Message: "le logo dépasse la taille maximale autorisée",
			Details: map[string]any{"maxBytes": billing.MaxLogoSize, "size": fh.Size},
		}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, domain.Invalid("fichier logo illisible")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, billing.MaxLogoSize+1))
	if err != nil {
		return nil, domain.Invalid("fichier logo illisible")
	}
	return &dto.LogoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

// Logo GET /api/parametres/logo
func (h *SettingsHandler) Logo(c *fiber.Ctx) error {
	data, contentType, err := h.uc.Logo(c.Context())
	if err != nil {
		return respondError(c, h.log, "parametres.logo", "", err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(data)
}
