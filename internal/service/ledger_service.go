package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// uniqueViolation is the Postgres error code for duplicate-key inserts.
const uniqueViolation = "23505"

// LedgerStore is the persistence surface the ledger service needs.
type LedgerStore interface {
	GetByLRN(ctx context.Context, lrn string) (*models.StudentAccount, error)
	Register(ctx context.Context, lrn, fullName string, section *string) (*models.StudentAccount, error)
	AccruePoints(ctx context.Context, lrn, fullName string, pointsToAdd int, section *string, productName *string) (*models.StudentAccount, error)
	RedeemPoints(ctx context.Context, lrn, rewardName string, rewardCost int) (int, error)
}

// RedemptionResult is what a successful reward claim returns.
type RedemptionResult struct {
	NewBalance int    `json:"newBalance"`
	ClaimCode  string `json:"claimCode"`
}

// LedgerService owns the points ledger: lookups, registration, accrual and
// redemption.
type LedgerService struct {
	students LedgerStore
	sections *SectionService
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(students LedgerStore, sections *SectionService) *LedgerService {
	return &LedgerService{students: students, sections: sections}
}

// Lookup returns a student by LRN.
func (s *LedgerService) Lookup(ctx context.Context, lrn string) (*models.StudentAccount, error) {
	student, err := s.students.GetByLRN(ctx, lrn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

// Register creates an account with a zero balance for the flow where a
// lookup by LRN found nothing. Free-text section input is corrected against
// the canonical list on the way in; uncorrectable input is stored as null.
func (s *LedgerService) Register(ctx context.Context, lrn, fullName string, sectionInput string) (*models.StudentAccount, error) {
	section := s.sections.NormalizePtr(sectionInput)

	student, err := s.students.Register(ctx, lrn, fullName, section)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, utils.ErrStudentExists
		}
		return nil, err
	}
	log.Info().Str("lrn", lrn).Msg("student registered")
	return student, nil
}

// Accrue applies a positive point delta to the student's ledger row,
// creating the row if absent, and logs the scan — one atomic unit in the
// store. fullName is only used when the row does not exist yet; a nil
// section keeps whatever the ledger already has.
func (s *LedgerService) Accrue(ctx context.Context, lrn, fullName string, pointsToAdd int, section *string, productName *string) (*models.StudentAccount, error) {
	if pointsToAdd <= 0 {
		return nil, utils.ErrInvalidPoints
	}

	student, err := s.students.AccruePoints(ctx, lrn, fullName, pointsToAdd, section, productName)
	if err != nil {
		log.Error().Err(err).Str("lrn", lrn).Int("points", pointsToAdd).Msg("accrual failed")
		return nil, err
	}

	log.Info().
		Str("lrn", lrn).
		Int("points_added", pointsToAdd).
		Int("balance", student.PointsBalance).
		Msg("points accrued")
	return student, nil
}

// Redeem debits the balance for a reward claim. currentBalance is the value
// the kiosk read just before; it only powers the fast rejection. The real
// sufficiency decision happens inside the store's conditional decrement, so
// two simultaneous claims cannot both spend the same points.
func (s *LedgerService) Redeem(ctx context.Context, lrn string, currentBalance int, rewardName string, rewardCost int) (*RedemptionResult, error) {
	if rewardCost <= 0 {
		return nil, utils.ErrInvalidPoints
	}
	if currentBalance < rewardCost {
		return nil, utils.ErrInsufficientPoints
	}

	newBalance, err := s.students.RedeemPoints(ctx, lrn, rewardName, rewardCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The conditional decrement matched nothing: either the balance
			// moved underneath the kiosk's read or the row is gone.
			return nil, utils.ErrInsufficientPoints
		}
		log.Error().Err(err).Str("lrn", lrn).Msg("redemption failed")
		return nil, err
	}

	code, err := utils.GenerateClaimCode()
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("lrn", lrn).
		Str("reward", rewardName).
		Int("cost", rewardCost).
		Int("balance", newBalance).
		Msg("reward redeemed")
	return &RedemptionResult{NewBalance: newBalance, ClaimCode: code}, nil
}
