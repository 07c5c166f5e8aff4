// Package bootstrap construye el grafo de dependencias compartido por cmd/api y cmd/billingctl.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/devis-factures-api/internal/application/auth"
	"github.com/jhoicas/devis-factures-api/internal/application/billing"
	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/domain"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
	"github.com/jhoicas/devis-factures-api/internal/domain/repository"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/export"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/memory"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/pdf"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/postgres"
	"github.com/jhoicas/devis-factures-api/internal/infrastructure/storage"
	"github.com/jhoicas/devis-factures-api/pkg/config"
	"github.com/jhoicas/devis-factures-api/pkg/logger"
)

// Container casos de uso listos para usar y la función de cierre de recursos.
type Container struct {
	Clients  *billing.ClientUseCase
	Quotes   *billing.QuoteUseCase
	Invoices *billing.InvoiceUseCase
	Payments *billing.PaymentUseCase
	Deposits *billing.DepositUseCase
	Settings *billing.SettingsUseCase
	Print    *billing.PrintUseCase
	Export   *billing.ExportUseCase
	Auth     *auth.AuthUseCase

	close func()
}

// Close libera el pool de conexiones (no-op con el driver memory).
func (c *Container) Close() {
	if c.close != nil {
		c.close()
	}
}

// New abre la persistencia según DB_DRIVER y el almacenamiento según STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	var (
		repos   billing.Repositories
		tx      billing.TxRunner
		users   repository.UserRepository
		closeFn func()
	)
	switch cfg.DB.Driver {
	case "memory":
		st := memory.NewStore()
		repos, tx, users = st.Repositories(), st, st.Users()
		log.Warn().Msg("DB_DRIVER=memory: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		repos, tx, users = postgres.NewRepositories(pool), postgres.NewTxRunner(pool), postgres.NewUserRepository(pool)
		closeFn = pool.Close
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		if closeFn != nil {
			closeFn()
		}
		return nil, err
	}

	opts := billing.OptionsFromConfig(cfg.Billing)
	invoices := billing.NewInvoiceUseCase(repos, tx, opts, log.Component("factures"))
	return &Container{
		Clients:  billing.NewClientUseCase(repos.Clients),
		Quotes:   billing.NewQuoteUseCase(repos, tx, opts, log.Component("devis")),
		Invoices: invoices,
		Payments: billing.NewPaymentUseCase(repos, tx, opts, log.Component("paiements")),
		Deposits: billing.NewDepositUseCase(repos, tx, opts, log.Component("acomptes")),
		Settings: billing.NewSettingsUseCase(repos.Settings, files, opts, log.Component("parametres")),
		Print:    billing.NewPrintUseCase(repos, files, pdf.NewMarotoPDFGenerator(), opts, log.Component("print")),
		Export:   billing.NewExportUseCase(invoices, export.NewExcelExporter()),
		Auth: auth.NewAuthUseCase(users, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		close: closeFn,
	}, nil
}

// EnsureAdmin crea el administrador de AUTH_BOOTSTRAP_* si aún no existe.
func (c *Container) EnsureAdmin(ctx context.Context, cfg config.AuthConfig, log *logger.Logger) error {
	if cfg.BootstrapEmail == "" {
		return nil
	}
	_, err := c.Auth.CreateUser(ctx, dto.CreateUserRequest{
		Email:    cfg.BootstrapEmail,
		Password: cfg.BootstrapPassword,
		Name:     "Administrateur",
		Role:     entity.RoleAdmin,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("crear administrador inicial: %w", err)
	}
	log.Info().Str("email", cfg.BootstrapEmail).Msg("administrador inicial creado")
	return nil
}
