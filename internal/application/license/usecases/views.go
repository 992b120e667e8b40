package usecases

import (
	"time"

	"github.com/entitle-inc/entitle/internal/application/license/dto"
	"github.com/entitle-inc/entitle/internal/domain/license"
	"github.com/entitle-inc/entitle/internal/shared/logger"
	"github.com/entitle-inc/entitle/internal/shared/services/markdown"
)

// viewRenderer turns read projections into responses. Product descriptions
// are brand-authored markdown and are rendered to sanitized HTML.
type viewRenderer struct {
	md     markdown.MarkdownService
	logger logger.Interface
}

func (r viewRenderer) licenseResponse(l *license.License, now time.Time) dto.LicenseResponse {
	return dto.LicenseResponse{
		ID:        l.ID(),
		ProductID: l.ProductID(),
		Status:    l.Status().String(),
		ExpiresAt: l.ExpiresAt(),
		SeatLimit: l.SeatLimit(),
		IsExpired: l.IsExpired(now),
		UpdatedAt: l.UpdatedAt(),
	}
}

func (r viewRenderer) keyResponse(view *license.KeyView, withBrand bool, now time.Time) dto.LicenseKeyResponse {
	resp := dto.LicenseKeyResponse{
		Key:           view.Key.Key(),
		CustomerEmail: view.Key.CustomerEmail(),
		Licenses:      make([]dto.LicenseResponse, 0, len(view.Licenses)),
		CreatedAt:     view.Key.CreatedAt(),
	}
	if withBrand {
		resp.Brand = &dto.BrandRef{Name: view.BrandName, Slug: view.BrandSlug}
	}

	for _, lv := range view.Licenses {
		item := r.licenseResponse(lv.License, now)
		seats := lv.ActiveSeats
		item.ActiveSeats = &seats
		item.Product = &dto.ProductResponse{
			ID:              lv.Product.ID,
			Name:            lv.Product.Name,
			Slug:            lv.Product.Slug,
			DescriptionHTML: r.description(lv.Product),
		}
		resp.Licenses = append(resp.Licenses, item)
	}
	return resp
}

func (r viewRenderer) description(p license.ProductView) string {
	if r.md == nil || p.Description == "" {
		return ""
	}
	html, err := r.md.ToHTMLSanitized(p.Description)
	if err != nil {
		r.logger.Warnw("failed to render product description", "product_id", p.ID, "error", err)
		return ""
	}
	return html
}
