package usecases

import (
	"context"
	"strings"

	"github.com/entitle-inc/entitle/internal/domain/brand"
	"github.com/entitle-inc/entitle/internal/shared/errors"
	"github.com/entitle-inc/entitle/internal/shared/utils"
)

type slugLister func(ctx context.Context, base string) ([]string, error)

// resolveSlug derives a free slug from name when explicit is empty. An
// explicit slug is used as given and must not be taken.
func resolveSlug(ctx context.Context, list slugLister, name, explicit, entity string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if !utils.IsSlug(explicit) {
			return "", errors.NewValidationError("Validation failed",
				"slug must contain only lowercase letters, digits and dashes")
		}
		taken, err := list(ctx, explicit)
		if err != nil {
			return "", err
		}
		for _, s := range taken {
			if strings.EqualFold(s, explicit) {
				return "", errors.NewConflictError(entity+" slug already exists", explicit).WithReason("slug_taken")
			}
		}
		return explicit, nil
	}

	base := utils.Slugify(name)
	if base == "" {
		return "", errors.NewValidationError("Validation failed",
			"name must contain at least one letter or digit")
	}
	taken, err := list(ctx, base)
	if err != nil {
		return "", err
	}
	return brand.UniqueSlug(base, taken), nil
}
