package catalog

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/entitle-inc/entitle/internal/application/brand/dto"
	"github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/infrastructure/database"
)

func NewProductCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage a brand's products",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.AddCommand(
		newProductCreateCommand(),
		newProductListCommand(),
		newProductSetActiveCommand("activate", true),
		newProductSetActiveCommand("deactivate", false),
	)

	return cmd
}

func newProductCreateCommand() *cobra.Command {
	var in usecases.CreateProductCommand

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product for a brand",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer database.Close()

			p, err := rt.createProduct.Execute(cmd.Context(), in)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), []*dto.ProductResponse{p})
			return nil
		},
	}

	cmd.Flags().UintVar(&in.BrandID, "brand-id", 0, "Owning brand ID (required)")
	cmd.Flags().StringVar(&in.Name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&in.Slug, "slug", "", "Product slug; derived from the name when empty")
	cmd.Flags().StringVar(&in.Description, "description", "", "Markdown description")
	_ = cmd.MarkFlagRequired("brand-id")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProductListCommand() *cobra.Command {
	var brandID uint

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a brand's products",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer database.Close()

			products, err := rt.listProducts.Execute(cmd.Context(), brandID)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), products)
			return nil
		},
	}

	cmd.Flags().UintVar(&brandID, "brand-id", 0, "Owning brand ID (required)")
	_ = cmd.MarkFlagRequired("brand-id")

	return cmd
}

// newProductSetActiveCommand builds activate/deactivate. Inactive products
// cannot be provisioned; existing licenses keep working.
func newProductSetActiveCommand(use string, active bool) *cobra.Command {
	var brandID, productID uint

	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Mark a product as %sd for provisioning", use),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer database.Close()

			p, err := rt.setActive.Execute(cmd.Context(), brandID, productID, active)
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), []*dto.ProductResponse{p})
			return nil
		},
	}

	cmd.Flags().UintVar(&brandID, "brand-id", 0, "Owning brand ID (required)")
	cmd.Flags().UintVar(&productID, "id", 0, "Product ID (required)")
	_ = cmd.MarkFlagRequired("brand-id")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func printProducts(out io.Writer, products []*dto.ProductResponse) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tNAME\tACTIVE")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", p.ID, p.Slug, p.Name, p.Active)
	}
	_ = w.Flush()
}
