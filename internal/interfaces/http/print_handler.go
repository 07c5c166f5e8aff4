package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
)

// PrintHandler proyección imprimible (JSON) o PDF de devis, facturas y recibos.
type PrintHandler struct {
	uc  *billing.PrintUseCase
	log zerolog.Logger
}

// NewPrintHandler construye el handler.
func NewPrintHandler(uc *billing.PrintUseCase, log zerolog.Logger) *PrintHandler {
	return &PrintHandler{uc: uc, log: log}
}

// Print godoc
// @Summary      Documento imprimible
// @Tags         print
// @Produce      json,application/pdf
// @Param        type    query  string  true   "devis | facture | paiement"
// @Param        id      query  string  true   "uuid del documento"
// @Param        format  query  string  false  "json (por defecto) | pdf"
// @Success      200   {object}  dto.PrintDocument
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/print [get]
func (h *PrintHandler) Print(c *fiber.Ctx) error {
	var q dto.PrintQuery
	if err := parseQuery(c, &q); err != nil {
		return respondError(c, h.log, "print", "", err)
	}
	if q.Format != "pdf" {
		doc, err := h.uc.Document(c.Context(), q.Type, q.ID)
		if err != nil {
			return respondError(c, h.log, "print", q.ID, err)
		}
		return c.JSON(doc)
	}
	data, doc, err := h.uc.PDF(c.Context(), q.Type, q.ID)
	if err != nil {
		return respondError(c, h.log, "print.pdf", q.ID, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s-%s.pdf"`, q.Type, doc.Reference))
	return c.Send(data)
}
