package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/orris-inc/licenser/internal/interfaces/cli/importcmd"
	"github.com/orris-inc/licenser/internal/interfaces/cli/migrate"
	"github.com/orris-inc/licenser/internal/interfaces/cli/server"
	"github.com/orris-inc/licenser/internal/interfaces/cli/sweep"
	"github.com/orris-inc/licenser/internal/interfaces/cli/token"
	"github.com/orris-inc/licenser/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "licenser",
		Short:   "Licenser - license keys, activations and update delivery",
		Long:    `Licenser issues license keys for storefront products, tracks site activations and serves signed update packages.`,
		Version: version.Current,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
		importcmd.NewCommand(),
		token.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
