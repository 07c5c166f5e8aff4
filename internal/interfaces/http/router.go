package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/devis-factures-api/internal/application/auth"
	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC   *billing.ClientUseCase
	QuoteUC    *billing.QuoteUseCase
	InvoiceUC  *billing.InvoiceUseCase
	PaymentUC  *billing.PaymentUseCase
	DepositUC  *billing.DepositUseCase
	SettingsUC *billing.SettingsUseCase
	PrintUC    *billing.PrintUseCase
	ExportUC   *billing.ExportUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
	Log        zerolog.Logger
}

// Router registra las rutas de la API. Lectura: admin y lecteur; escritura: solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	api.Post("/auth/login", authHandler.Login)

	// Logo (público: lo referencian los documentos impresos)
	settingsHandler := NewSettingsHandler(deps.SettingsUC, deps.Log)
	api.Get("/parametres/logo", settingsHandler.Logo)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	read := RequireRole(entity.RoleAdmin, entity.RoleReader)
	write := RequireRole(entity.RoleAdmin)

	protected.Get("/auth/me", read, authHandler.Me)

	// Clients
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.Log)
	clients.Get("/", read, clientHandler.List)
	clients.Post("/", write, clientHandler.Create)
	clients.Get("/:id", read, clientHandler.GetByID)
	clients.Put("/:id", write, clientHandler.Update)
	clients.Delete("/:id", write, clientHandler.Delete)

	// Devis
	quotes := protected.Group("/devis")
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.DepositUC, deps.Log)
	quotes.Get("/", read, quoteHandler.List)
	quotes.Post("/", write, quoteHandler.Create)
	quotes.Get("/:id", read, quoteHandler.GetByID)
	quotes.Put("/:id", write, quoteHandler.Update)
	quotes.Delete("/:id", write, quoteHandler.Delete)
	quotes.Post("/:id/convertir", write, quoteHandler.Convert)
	quotes.Get("/:id/acomptes", read, quoteHandler.Deposits)
	quotes.Get("/:id/acomptes/suggestions", read, quoteHandler.Suggestions)

	// Factures (las rutas fijas antes de /:id)
	invoices := protected.Group("/factures")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DepositUC, deps.ExportUC, deps.Log)
	invoices.Get("/export", read, invoiceHandler.Export)
	invoices.Post("/acompte", write, invoiceHandler.CreateDeposit)
	invoices.Get("/", read, invoiceHandler.List)
	invoices.Post("/", write, invoiceHandler.Create)
	invoices.Get("/:id", read, invoiceHandler.GetByID)
	invoices.Put("/:id", write, invoiceHandler.Update)
	invoices.Delete("/:id", write, invoiceHandler.Delete)
	invoices.Put("/:id/payer", write, invoiceHandler.Pay)

	// Paiements
	payments := protected.Group("/paiements")
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.Log)
	payments.Get("/", read, paymentHandler.List)
	payments.Post("/", write, paymentHandler.Create)
	payments.Get("/:id", read, paymentHandler.GetByID)
	payments.Put("/:id", write, paymentHandler.Update)
	payments.Delete("/:id", write, paymentHandler.Delete)

	// Paramètres
	protected.Get("/parametres", read, settingsHandler.Get)
	protected.Post("/parametres", write, settingsHandler.Save)

	// Impression
	printHandler := NewPrintHandler(deps.PrintUC, deps.Log)
	protected.Get("/print", read, printHandler.Print)
}
