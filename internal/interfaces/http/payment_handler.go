package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

// PaymentHandler maneja los pagos; cada mutación recalcula la factura afectada.
type PaymentHandler struct {
	uc  *billing.PaymentUseCase
	log zerolog.Logger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar pago
// @Tags         paiements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PaymentRequest  true  "pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/paiements [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.PaymentRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "paiements.create", "", err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, "paiements.create", in.InvoiceID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/paiements?invoiceId=&clientId=
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var q dto.PaymentListQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, h.log, "paiements.list", "", err)
	}
	list, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, h.log, "paiements.list", "", err)
	}
	return c.JSON(list)
}

// GetByID GET /api/paiements/:id
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "paiements.get", "", err)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "paiements.get", id, err)
	}
	return c.JSON(out)
}

// Update PUT /api/paiements/:id
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "paiements.update", "", err)
	}
	var in dto.PaymentRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "paiements.update", id, err)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, h.log, "paiements.update", id, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/paiements/:id
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "paiements.delete", "", err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, h.log, "paiements.delete", id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
