package catalog

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/entitle-inc/entitle/internal/application/brand/usecases"
	"github.com/entitle-inc/entitle/internal/infrastructure/database"
)

// SeedFile is the YAML layout accepted by the seed command.
type SeedFile struct {
	Brands []SeedBrand `yaml:"brands"`
}

type SeedBrand struct {
	Name     string        `yaml:"name"`
	Slug     string        `yaml:"slug"`
	Products []SeedProduct `yaml:"products"`
}

type SeedProduct struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
}

func NewSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create brands and products from a YAML file",
		Long: `Create the brands and products listed in a YAML file. Entries whose
slug already exists are left untouched, so the command can be re-run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := readSeedFile(file)
			if err != nil {
				return err
			}

			rt, err := openRuntime()
			if err != nil {
				return err
			}
			defer database.Close()

			return rt.applySeed(cmd.Context(), seed, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the seed YAML file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readSeedFile(path string) (*SeedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return parseSeed(raw)
}

func parseSeed(raw []byte) (*SeedFile, error) {
	var seed SeedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	for i, b := range seed.Brands {
		if b.Name == "" {
			return nil, fmt.Errorf("brands[%d]: name is required", i)
		}
		for j, p := range b.Products {
			if p.Name == "" {
				return nil, fmt.Errorf("brands[%d].products[%d]: name is required", i, j)
			}
		}
	}
	return &seed, nil
}

// applySeed creates what is missing. API keys of new brands are written to
// out; keys of existing brands cannot be recovered.
func (rt *runtime) applySeed(ctx context.Context, seed *SeedFile, out io.Writer) error {
	for _, sb := range seed.Brands {
		brandID, err := rt.seedBrand(ctx, sb, out)
		if err != nil {
			return err
		}

		existing, err := rt.productSlugs(ctx, brandID)
		if err != nil {
			return err
		}
		for _, sp := range sb.Products {
			if sp.Slug != "" && existing[sp.Slug] {
				fmt.Fprintf(out, "  product %s exists, skipped\n", sp.Slug)
				continue
			}
			p, err := rt.createProduct.Execute(ctx, usecases.CreateProductCommand{
				BrandID:     brandID,
				Name:        sp.Name,
				Slug:        sp.Slug,
				Description: sp.Description,
			})
			if err != nil {
				return fmt.Errorf("product %q: %w", sp.Name, err)
			}
			fmt.Fprintf(out, "  product %s created (id %d)\n", p.Slug, p.ID)
		}
	}
	return nil
}

func (rt *runtime) seedBrand(ctx context.Context, sb SeedBrand, out io.Writer) (uint, error) {
	if sb.Slug != "" {
		b, err := rt.brandRepo.GetBySlug(ctx, sb.Slug)
		if err != nil {
			return 0, err
		}
		if b != nil {
			fmt.Fprintf(out, "brand %s exists (id %d), skipped\n", b.Slug(), b.ID())
			return b.ID(), nil
		}
	}

	created, err := rt.createBrand.Execute(ctx, usecases.CreateBrandCommand{Name: sb.Name, Slug: sb.Slug})
	if err != nil {
		return 0, fmt.Errorf("brand %q: %w", sb.Name, err)
	}
	fmt.Fprintf(out, "brand %s created (id %d) api_key=%s\n", created.Slug, created.ID, created.APIKey)
	return created.ID, nil
}

func (rt *runtime) productSlugs(ctx context.Context, brandID uint) (map[string]bool, error) {
	products, err := rt.productRepo.ListByBrand(ctx, brandID)
	if err != nil {
		return nil, err
	}
	slugs := make(map[string]bool, len(products))
	for _, p := range products {
		slugs[p.Slug()] = true
	}
	return slugs, nil
}
