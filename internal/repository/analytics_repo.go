package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DailyCount is scans per calendar day.
type DailyCount struct {
	Day   string `db:"day" json:"day"`
	Count int    `db:"count" json:"count"`
}

// HourCount is scans per hour of day (0-23).
type HourCount struct {
	Hour  int `db:"hour" json:"hour"`
	Count int `db:"count" json:"count"`
}

// SectionPoints is the summed live balance per section.
type SectionPoints struct {
	Section     string `db:"section" json:"section"`
	TotalPoints int    `db:"total_points" json:"totalPoints"`
}

// PointsEconomy contrasts points issued against points redeemed.
type PointsEconomy struct {
	Earned   int `db:"earned" json:"earned"`
	Redeemed int `db:"redeemed" json:"redeemed"`
}

// RegistrationStatus splits accounts into active (positive balance) and
// inactive (zero balance, typically fully redeemed).
type RegistrationStatus struct {
	Active   int `db:"active" json:"active"`
	Inactive int `db:"inactive" json:"inactive"`
}

// AnalyticsRepository runs the aggregate queries behind the admin dashboard.
// The aggregation happens in SQL instead of pulling whole tables into the
// process the way the original dashboard widgets did.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository creates a new AnalyticsRepository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// DailyScans returns per-day scan counts for the trailing N days.
func (r *AnalyticsRepository) DailyScans(ctx context.Context, days int) ([]DailyCount, error) {
	const q = `
	    SELECT to_char(scanned_at::date, 'YYYY-MM-DD') AS day, COUNT(1) AS count
	    FROM scan_logs
	    WHERE scanned_at >= now() - make_interval(days => $1)
	    GROUP BY scanned_at::date
	    ORDER BY scanned_at::date`

	var counts []DailyCount
	if err := r.db.SelectContext(ctx, &counts, q, days); err != nil {
		return nil, err
	}
	return counts, nil
}

// PeakHours returns the hour-of-day histogram across all scans.
func (r *AnalyticsRepository) PeakHours(ctx context.Context) ([]HourCount, error) {
	const q = `
	    SELECT extract(hour FROM scanned_at)::int AS hour, COUNT(1) AS count
	    FROM scan_logs
	    GROUP BY hour
	    ORDER BY hour`

	var counts []HourCount
	if err := r.db.SelectContext(ctx, &counts, q); err != nil {
		return nil, err
	}
	return counts, nil
}

// SectionRankings sums live balances per section, highest first. Accounts
// with no section are excluded.
func (r *AnalyticsRepository) SectionRankings(ctx context.Context) ([]SectionPoints, error) {
	const q = `
	    SELECT section, COALESCE(SUM(points_balance), 0) AS total_points
	    FROM student_points
	    WHERE section IS NOT NULL
	    GROUP BY section
	    ORDER BY total_points DESC`

	var rankings []SectionPoints
	if err := r.db.SelectContext(ctx, &rankings, q); err != nil {
		return nil, err
	}
	return rankings, nil
}

// Economy returns the totals of points ever issued and ever redeemed.
func (r *AnalyticsRepository) Economy(ctx context.Context) (*PointsEconomy, error) {
	const q = `
	    SELECT
	        (SELECT COALESCE(SUM(points_added), 0) FROM scan_logs)       AS earned,
	        (SELECT COALESCE(SUM(points_redeemed), 0) FROM redemption_logs) AS redeemed`

	var e PointsEconomy
	if err := r.db.GetContext(ctx, &e, q); err != nil {
		return nil, err
	}
	return &e, nil
}

// Registrations counts accounts by activity.
func (r *AnalyticsRepository) Registrations(ctx context.Context) (*RegistrationStatus, error) {
	const q = `
	    SELECT
	        COUNT(1) FILTER (WHERE points_balance > 0) AS active,
	        COUNT(1) FILTER (WHERE points_balance = 0) AS inactive
	    FROM student_points`

	var s RegistrationStatus
	if err := r.db.GetContext(ctx, &s, q); err != nil {
		return nil, err
	}
	return &s, nil
}
