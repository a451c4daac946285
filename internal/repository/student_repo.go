package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ecopoints/kiosk_api/internal/models"
)

// StudentRepository handles data access for the points ledger.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByLRN returns a single student row, or sql.ErrNoRows.
func (r *StudentRepository) GetByLRN(ctx context.Context, lrn string) (*models.StudentAccount, error) {
	const q = `SELECT lrn, full_name, points_balance, section, last_updated
	           FROM student_points WHERE lrn = $1`

	var s models.StudentAccount
	if err := r.db.GetContext(ctx, &s, q, lrn); err != nil {
		return nil, err
	}
	return &s, nil
}

// Register inserts a fresh ledger row with a zero balance. Returns
// sql.ErrNoRows-style conflict detection to the caller via the driver error.
func (r *StudentRepository) Register(ctx context.Context, lrn, fullName string, section *string) (*models.StudentAccount, error) {
	const q = `INSERT INTO student_points (lrn, full_name, points_balance, section, last_updated)
	           VALUES ($1, $2, 0, $3, now())
	           RETURNING lrn, full_name, points_balance, section, last_updated`

	var s models.StudentAccount
	if err := r.db.GetContext(ctx, &s, q, lrn, fullName, section); err != nil {
		return nil, err
	}
	return &s, nil
}

// AccruePoints applies a positive point delta and appends the scan log entry
// in one transaction. The ledger write is a single upsert with arithmetic
// increment, so concurrent deposits for the same LRN serialize on the row and
// the final balance is the sum of all deltas. The incoming section only
// replaces a stored one when it is non-null.
func (r *StudentRepository) AccruePoints(ctx context.Context, lrn, fullName string, pointsToAdd int, section *string, productName *string) (*models.StudentAccount, error) {
	const upsert = `
	    INSERT INTO student_points (lrn, full_name, points_balance, section, last_updated)
	    VALUES ($1, $2, $3, $4, now())
	    ON CONFLICT (lrn) DO UPDATE SET
	        points_balance = student_points.points_balance + EXCLUDED.points_balance,
	        section        = COALESCE(EXCLUDED.section, student_points.section),
	        last_updated   = now()
	    RETURNING lrn, full_name, points_balance, section, last_updated`

	const logScan = `
	    INSERT INTO scan_logs (lrn, section, points_added, product_name)
	    VALUES ($1, $2, $3, $4)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin accrual tx: %w", err)
	}
	defer tx.Rollback()

	var s models.StudentAccount
	if err := tx.GetContext(ctx, &s, upsert, lrn, fullName, pointsToAdd, section); err != nil {
		return nil, fmt.Errorf("ledger upsert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, logScan, lrn, section, pointsToAdd, productName); err != nil {
		return nil, fmt.Errorf("scan log insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit accrual tx: %w", err)
	}
	return &s, nil
}

// RedeemPoints debits the ledger and appends the redemption log entry in one
// transaction. The debit is conditional on sufficient balance inside the
// UPDATE itself; zero affected rows means the balance was too low at the
// moment of the write, regardless of what the caller read earlier.
func (r *StudentRepository) RedeemPoints(ctx context.Context, lrn, rewardName string, rewardCost int) (int, error) {
	const debit = `
	    UPDATE student_points
	    SET points_balance = points_balance - $2, last_updated = now()
	    WHERE lrn = $1 AND points_balance >= $2
	    RETURNING points_balance`

	const logRedemption = `
	    INSERT INTO redemption_logs (lrn, reward_name, points_redeemed)
	    VALUES ($1, $2, $3)`

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin redemption tx: %w", err)
	}
	defer tx.Rollback()

	var newBalance int
	if err := tx.GetContext(ctx, &newBalance, debit, lrn, rewardCost); err != nil {
		if err == sql.ErrNoRows {
			return 0, sql.ErrNoRows
		}
		return 0, fmt.Errorf("conditional debit: %w", err)
	}
	if _, err := tx.ExecContext(ctx, logRedemption, lrn, rewardName, rewardCost); err != nil {
		return 0, fmt.Errorf("redemption log insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit redemption tx: %w", err)
	}
	return newBalance, nil
}

// TopByBalance returns the highest ledger balances for the contributors chart.
func (r *StudentRepository) TopByBalance(ctx context.Context, limit int) ([]models.StudentAccount, error) {
	const q = `SELECT lrn, full_name, points_balance, section, last_updated
	           FROM student_points ORDER BY points_balance DESC LIMIT $1`

	var students []models.StudentAccount
	if err := r.db.SelectContext(ctx, &students, q, limit); err != nil {
		return nil, err
	}
	return students, nil
}
