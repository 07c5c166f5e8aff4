package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/devis-factures-api/internal/application/dto"
	"github.com/jhoicas/devis-factures-api/internal/bootstrap"
	"github.com/jhoicas/devis-factures-api/internal/domain/entity"
)

// withContainer abre el grafo de dependencias para la duración del comando.
func withContainer(st *cliState, cmd *cobra.Command, fn func(ctx context.Context, c *bootstrap.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := bootstrap.New(ctx, st.cfg, st.log)
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

// parseAsOf interpreta --as-of (YYYY-MM-DD); vacío significa hoy.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--as-of debe tener el formato AAAA-MM-DD: %w", err)
	}
	return t, nil
}

func newUsersCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Gestión de usuarios"}

	var in dto.CreateUserRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea un usuario (admin o lecteur)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withContainer(st, cmd, func(ctx context.Context, c *bootstrap.Container) error {
				u, err := c.Auth.CreateUser(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "usuario creado: %s (%s, %s)\n", u.Email, u.Role, u.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "email de acceso")
	create.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	create.Flags().StringVar(&in.Name, "name", "", "nombre visible")
	create.Flags().StringVar(&in.Role, "role", entity.RoleReader, "admin | lecteur")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newInvoicesCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{Use: "invoices", Short: "Tareas sobre facturas"}

	var asOf string
	overdue := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Marca en retard las facturas vencidas con saldo pendiente",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			return withContainer(st, cmd, func(ctx context.Context, c *bootstrap.Container) error {
				n, err := c.Invoices.MarkOverdue(ctx, t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "facturas marcadas en retard: %d\n", n)
				return nil
			})
		},
	}
	overdue.Flags().StringVar(&asOf, "as-of", "", "fecha de referencia AAAA-MM-DD (por defecto hoy)")

	cmd.AddCommand(overdue)
	return cmd
}

func newQuotesCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{Use: "quotes", Short: "Tareas sobre devis"}

	var asOf string
	expire := &cobra.Command{
		Use:   "expire",
		Short: "Marca expirés los devis cuya validez terminó",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseAsOf(asOf)
			if err != nil {
				return err
			}
			return withContainer(st, cmd, func(ctx context.Context, c *bootstrap.Container) error {
				n, err := c.Quotes.ExpireQuotes(ctx, t)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "devis expirés: %d\n", n)
				return nil
			})
		},
	}
	expire.Flags().StringVar(&asOf, "as-of", "", "fecha de referencia AAAA-MM-DD (por defecto hoy)")

	cmd.AddCommand(expire)
	return cmd
}
