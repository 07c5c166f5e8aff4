// Comando billingctl: migraciones, alta de usuarios y tareas programadas
// (vencimiento de facturas y devis) sobre la misma configuración que la API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/devis-factures-api/pkg/config"
	"github.com/jhoicas/devis-factures-api/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cliState struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	st := &cliState{}
	root := &cobra.Command{
		Use:           "billingctl",
		Short:         "Administración de devis-factures-api",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			st.cfg = cfg
			st.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: cmd.ErrOrStderr()})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(st),
		newUsersCmd(st),
		newInvoicesCmd(st),
		newQuotesCmd(st),
	)
	return root
}
