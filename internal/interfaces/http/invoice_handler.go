package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InvoiceHandler maneja facturas, facturas de acompte y la exportación.
type InvoiceHandler struct {
	uc       *billing.InvoiceUseCase
	deposits *billing.DepositUseCase
	export   *billing.ExportUseCase
	log      zerolog.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, deposits *billing.DepositUseCase, export *billing.ExportUseCase, log zerolog.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, deposits: deposits, export: export, log: log}
}

// Create godoc
// @Summary      Crear factura
// @Description  Factura independiente o ligada a un devis del mismo cliente.
// @Tags         factures
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/factures [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "factures.create", "", err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, "factures.create", "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/factures?clientId=&devisId=&status=
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, h.log, "factures.list", "", err)
	}
	list, err := h.uc.List(c.Context(), q)
	if err != nil {
		return respondError(c, h.log, "factures.list", "", err)
	}
	return c.JSON(list)
}

// GetByID GET /api/factures/:id (cliente, devis, pagos, montantPaye, resteAPayer)
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "factures.get", "", err)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "factures.get", id, err)
	}
	return c.JSON(out)
}

// Update PUT /api/factures/:id (400 INVALID_STATE si ya tiene pagos)
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "factures.update", "", err)
	}
	var in dto.InvoiceRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "factures.update", id, err)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, h.log, "factures.update", id, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/factures/:id (400 CONFLICT con paymentCount/paymentIds/totalAmount)
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "factures.delete", "", err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, h.log, "factures.delete", id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Pay PUT /api/factures/:id/payer: recalcula estado y saldo a partir de los pagos.
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "factures.payer", "", err)
	}
	out, err := h.uc.RecheckStatus(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "factures.payer", id, err)
	}
	return c.JSON(out)
}

// CreateDeposit godoc
// @Summary      Crear factura de acompte
// @Description  El acumulado de acomptes no puede superar el total del devis ni el máximo configurado.
// @Tags         factures
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DepositRequest  true  "devisId, montant"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/factures/acompte [post]
func (h *InvoiceHandler) CreateDeposit(c *fiber.Ctx) error {
	var in dto.DepositRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "factures.acompte", "", err)
	}
	out, err := h.deposits.CreateDeposit(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, "factures.acompte", in.DevisID, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Export GET /api/factures/export: mismos filtros que el listado, en XLSX.
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	var q dto.InvoiceListQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, h.log, "factures.export", "", err)
	}
	data, err := h.export.ExportInvoices(c.Context(), q)
	if err != nil {
		return respondError(c, h.log, "factures.export", "", err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="factures-%s.xlsx"`, time.Now().Format("20060102")))
	return c.Send(data)
}
