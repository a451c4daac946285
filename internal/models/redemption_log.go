package models

import "time"

// RedemptionLogEntry is an append-only record of one successful reward claim.
type RedemptionLogEntry struct {
	ID             string    `db:"id" json:"id"`
	LRN            string    `db:"lrn" json:"lrn"`
	RewardName     string    `db:"reward_name" json:"rewardName"`
	PointsRedeemed int       `db:"points_redeemed" json:"pointsRedeemed"`
	RedeemedAt     time.Time `db:"redeemed_at" json:"redeemedAt"`
}
