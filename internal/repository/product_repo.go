package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ecopoints/kiosk_api/internal/models"
)

// ProductRepository handles data access for the deposit whitelist.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByBarcode returns a whitelisted product, or sql.ErrNoRows when the
// barcode is unknown.
func (r *ProductRepository) GetByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	const q = `SELECT barcode, name, category, points_value
	           FROM allowed_products WHERE barcode = $1`

	var p models.Product
	if err := r.db.GetContext(ctx, &p, q, barcode); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns the whole whitelist ordered by name.
func (r *ProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	const q = `SELECT barcode, name, category, points_value
	           FROM allowed_products ORDER BY name`

	var products []models.Product
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a new whitelist entry. A unique violation on barcode
// surfaces as a driver error for the service to map.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	const q = `INSERT INTO allowed_products (barcode, name, category, points_value)
	           VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, q, p.Barcode, p.Name, p.Category, p.PointsValue)
	return err
}

// Delete removes a whitelist entry by barcode. Returns the number of rows
// removed so the caller can distinguish a miss.
func (r *ProductRepository) Delete(ctx context.Context, barcode string) (int64, error) {
	const q = `DELETE FROM allowed_products WHERE barcode = $1`

	res, err := r.db.ExecContext(ctx, q, barcode)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
