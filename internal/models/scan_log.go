package models

import "time"

// ScanLogEntry is an append-only record of one accepted deposit scan. LRN and
// section are snapshots by value, not enforced foreign keys: logs survive
// account deletion and may reference an LRN with no live account.
type ScanLogEntry struct {
	ID          string    `db:"id" json:"id"`
	LRN         string    `db:"lrn" json:"lrn"`
	Section     *string   `db:"section" json:"section,omitempty"`
	PointsAdded int       `db:"points_added" json:"pointsAdded"`
	ProductName *string   `db:"product_name" json:"productName,omitempty"`
	ScannedAt   time.Time `db:"scanned_at" json:"scannedAt"`
}
