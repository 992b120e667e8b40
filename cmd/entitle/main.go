package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entitle-inc/entitle/internal/interfaces/cli/catalog"
	"github.com/entitle-inc/entitle/internal/interfaces/cli/migrate"
	"github.com/entitle-inc/entitle/internal/interfaces/cli/server"
	"github.com/entitle-inc/entitle/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "entitle",
		Short: "Entitle - multi-brand license entitlement service",
		Long:  `Entitle issues license keys for brands, tracks seat activations and serves the license API.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		catalog.NewBrandCommand(),
		catalog.NewProductCommand(),
		catalog.NewSeedCommand(),
		newVersionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Info()
			fmt.Fprintf(cmd.OutOrStdout(), "entitle %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildTime)
		},
	}
}
