package models

import "time"

// StudentAccount is a row in the points ledger, keyed by LRN (Learner
// Reference Number, a fixed 12-digit string). Rows are created implicitly on
// first deposit or explicitly through registration, and never deleted in
// normal operation.
type StudentAccount struct {
	LRN           string    `db:"lrn" json:"lrn"`
	FullName      string    `db:"full_name" json:"fullName"`
	PointsBalance int       `db:"points_balance" json:"pointsBalance"`
	Section       *string   `db:"section" json:"section,omitempty"`
	LastUpdated   time.Time `db:"last_updated" json:"lastUpdated"`
}

// LRNLength is the required length of a Learner Reference Number.
const LRNLength = 12
