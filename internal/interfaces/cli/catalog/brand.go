package catalog

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/infrastructure/database"
)

func NewBrandCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brand",
		Short: "Manage brands",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.AddCommand(newBrandCreateCommand())

	return cmd
}

func newBrandCreateCommand() *cobra.Command {
	var in usecases.CreateBrandCommand

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a brand and print its API key",
		Long: `Create a brand. The API key is printed once and only its hash is
stored, so keep the output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer database.Close()

			created, err := rt.createBrand.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Brand created\n")
			fmt.Fprintf(out, "  ID:      %d\n", created.ID)
			fmt.Fprintf(out, "  Name:    %s\n", created.Name)
			fmt.Fprintf(out, "  Slug:    %s\n", created.Slug)
			fmt.Fprintf(out, "  API key: %s\n", created.APIKey)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "Brand display name (required)")
	cmd.Flags().StringVar(&in.Slug, "slug", "", "Public slug; derived from the name when empty")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
