package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ecopoints/kiosk_api/internal/models"
)

// ScanLogRepository reads the append-only scan history. Writes happen inside
// the accrual transaction in StudentRepository; this repository only serves
// the dashboard and the administrative bulk clear.
type ScanLogRepository struct {
	db *sqlx.DB
}

// NewScanLogRepository creates a new ScanLogRepository.
func NewScanLogRepository(db *sqlx.DB) *ScanLogRepository {
	return &ScanLogRepository{db: db}
}

// Recent returns the newest scans for the live feed.
func (r *ScanLogRepository) Recent(ctx context.Context, limit int) ([]models.ScanLogEntry, error) {
	const q = `SELECT id, lrn, section, points_added, product_name, scanned_at
	           FROM scan_logs ORDER BY scanned_at DESC LIMIT $1`

	var logs []models.ScanLogEntry
	if err := r.db.SelectContext(ctx, &logs, q, limit); err != nil {
		return nil, err
	}
	return logs, nil
}

// CountAll returns the total number of accepted scans.
func (r *ScanLogRepository) CountAll(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(1) FROM scan_logs`

	var n int
	if err := r.db.GetContext(ctx, &n, q); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear wipes the scan history (administrative bulk clear).
func (r *ScanLogRepository) Clear(ctx context.Context) (int64, error) {
	const q = `DELETE FROM scan_logs`

	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
