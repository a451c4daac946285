package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/repository"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// ProductService manages the deposit whitelist.
type ProductService struct {
	products *repository.ProductRepository
}

// NewProductService constructs a ProductService.
func NewProductService(products *repository.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

// List returns all whitelisted products.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx)
}

// Create adds a whitelist entry. Category defaults to bottle, points value
// to 1, matching how admins add deposit items in practice.
func (s *ProductService) Create(ctx context.Context, barcode, name string, category models.ProductCategory, pointsValue int) (*models.Product, error) {
	barcode = strings.TrimSpace(barcode)
	name = strings.TrimSpace(name)
	if barcode == "" || name == "" {
		return nil, errors.New("barcode and name are required")
	}
	if category == "" {
		category = models.CategoryBottle
	}
	if pointsValue <= 0 {
		pointsValue = 1
	}

	p := &models.Product{
		Barcode:     barcode,
		Name:        name,
		Category:    category,
		PointsValue: pointsValue,
	}
	if err := s.products.Create(ctx, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, utils.ErrProductExists
		}
		return nil, err
	}

	log.Info().Str("barcode", barcode).Str("name", name).Msg("product whitelisted")
	return p, nil
}

// Delete removes a whitelist entry by barcode.
func (s *ProductService) Delete(ctx context.Context, barcode string) error {
	n, err := s.products.Delete(ctx, barcode)
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrProductNotFound
	}
	log.Info().Str("barcode", barcode).Msg("product removed from whitelist")
	return nil
}
