package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc  *billing.ClientUseCase
	log zerolog.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *billing.ClientUseCase, log zerolog.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ClientRequest  true  "cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "clients.create", "", err)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, h.log, "clients.create", "", err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/clients?q=&limit=50&offset=0
func (h *ClientHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := parseQuery(c, &page); err != nil {
		return respondError(c, h.log, "clients.list", "", err)
	}
	list, err := h.uc.List(c.Context(), c.Query("q"), page)
	if err != nil {
		return respondError(c, h.log, "clients.list", "", err)
	}
	return c.JSON(list)
}

// GetByID GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "clients.get", "", err)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.log, "clients.get", id, err)
	}
	return c.JSON(out)
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "clients.update", "", err)
	}
	var in dto.ClientRequest
	if err := parseBody(c, &in); err != nil {
		return respondError(c, h.log, "clients.update", id, err)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, h.log, "clients.update", id, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar cliente
// @Description  Rechazado (400 CONFLICT) si el cliente tiene devis, facturas o pagos; details lleva los conteos.
// @Tags         clients
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, h.log, "clients.delete", "", err)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, h.log, "clients.delete", id, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
