package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

// QuoteHandler maneja devis, su conversión a factura y sus acomptes.
type QuoteHandler struct {
	uc       *billing.QuoteUseCase
	deposits *billing.DepositUseCase
	log      zerolog.Logger
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *billing.QuoteUseCase, deposits *billing.DepositUseCase, log zerolog.Logger) *QuoteHandler {
	return &QuoteHandler{uc: uc, deposits: deposits, log: log}
}

// Create godoc
// @Summary      Crear devis
// @Description  Los totales se recalculan en el servidor a partir de las líneas.
// @Tags         devis
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuoteRequest  true  "devis"
// @Success      201   {object}  dto.QuoteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/devis [post]
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var in dto.QuoteRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "devis.create", "", err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, "devis.create", "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/devis?clientId=&status=
func (h *QuoteHandler) List(c *fiber.Ctx) error {
	var q dto.QuoteListQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, h.log, "devis.list", "", err)
	}
	list, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, h.log, "devis.list", "", err)
	}
	return c.JSON(list)
}

// GetByID GET /api/devis/:id (incluye cliente y facturas derivadas)
func (h *QuoteHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "devis.get", "", err)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "devis.get", id, err)
	}
	return c.JSON(out)
}

// Update PUT /api/devis/:id (400 INVALID_STATE si ya tiene facturas)
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "devis.update", "", err)
	}
	var in dto.QuoteRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "devis.update", id, err)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, h.log, "devis.update", id, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/devis/:id (400 CONFLICT con invoiceIds/count si tiene facturas)
func (h *QuoteHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "devis.delete", "", err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, h.log, "devis.delete", id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Convert godoc
// @Summary      Convertir devis en factura
// @Description  Copia las líneas (o factura el saldo si hubo acomptes) y marca el devis como aceptado.
// @Tags         devis
// @Produce      json
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/devis/{id}/convertir [post]
func (h *QuoteHandler) Convert(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "devis.convert", "", err)
	}
	out, err := h.uc.Convert(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "devis.convert", id, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Deposits GET /api/devis/:id/acomptes
func (h *QuoteHandler) Deposits(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "devis.acomptes", "", err)
	}
	out, err := h.deposits.ListDeposits(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "devis.acomptes", id, err)
	}
	return c.JSON(out)
}

// Suggestions GET /api/devis/:id/acomptes/suggestions
func (h *QuoteHandler) Suggestions(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "devis.suggestions", "", err)
	}
	out, err := h.deposits.Suggestions(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "devis.suggestions", id, err)
	}
	return c.JSON(out)
}
