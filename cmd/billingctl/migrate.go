package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

const migrationsSource = "file://db/migrations"

func newMigrateCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte las migraciones de db/migrations",
	}

	open := func() (*migrate.Migrate, error) {
		m, err := migrate.New(migrationsSource, st.cfg.DB.ConnectionString())
		if err != nil {
			return nil, fmt.Errorf("crear instancia de migrate: %w", err)
		}
		return m, nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica todas las migraciones pendientes",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migrate up: %w", err)
				}
				st.log.Info().Msg("migraciones aplicadas")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte todas las migraciones",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migrate down: %w", err)
				}
				st.log.Info().Msg("migraciones revertidas")
				return nil
			},
		},
		&cobra.Command{
			Use:   "steps N",
			Short: "Aplica (N>0) o revierte (N<0) N migraciones",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("argumento steps inválido: %w", err)
				}
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migrate steps: %w", err)
				}
				st.log.Info().Int("steps", n).Msg("pasos de migración aplicados")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Muestra la versión actual del esquema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := open()
				if err != nil {
					return err
				}
				defer m.Close()
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "version: ninguna")
					return nil
				}
				if err != nil {
					return fmt.Errorf("obtener versión: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}
