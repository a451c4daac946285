package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/repository"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// triviaBonus is the point reward for a correct post-deposit trivia answer.
const triviaBonus = 1

// EngagementService records the post-deposit sentiment/trivia prompts and the
// suggestion box.
type EngagementService struct {
	store  *repository.EngagementRepository
	ledger *LedgerService
}

// NewEngagementService constructs an EngagementService.
func NewEngagementService(store *repository.EngagementRepository, ledger *LedgerService) *EngagementService {
	return &EngagementService{store: store, ledger: ledger}
}

// RecordSentiment stores one anonymous mood answer.
func (s *EngagementService) RecordSentiment(ctx context.Context, feeling string) error {
	feeling = strings.TrimSpace(feeling)
	if feeling == "" {
		return errors.New("feeling is required")
	}
	return s.store.InsertSentiment(ctx, feeling)
}

// RecordTrivia stores one trivia answer and pays the bonus point for a
// correct one through the regular accrual path. A failed bonus accrual does
// not undo the answer log; the student just misses one point, which the
// original kiosk accepted too.
func (s *EngagementService) RecordTrivia(ctx context.Context, lrn string, questionID int, isCorrect bool) error {
	if err := s.store.InsertTrivia(ctx, questionID, isCorrect); err != nil {
		return err
	}

	if isCorrect && lrn != "" {
		if _, err := s.ledger.Accrue(ctx, lrn, "", triviaBonus, nil, nil); err != nil {
			log.Warn().Err(err).Str("lrn", lrn).Msg("trivia bonus accrual failed")
		}
	}
	return nil
}

// Suggest stores a suggestion box message.
func (s *EngagementService) Suggest(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return errors.New("message is required")
	}
	return s.store.InsertSuggestion(ctx, message)
}

// SentimentLogs lists mood answers for the dashboard.
func (s *EngagementService) SentimentLogs(ctx context.Context) ([]models.SentimentLog, error) {
	return s.store.ListSentiment(ctx)
}

// TriviaLogs lists trivia answers for the dashboard.
func (s *EngagementService) TriviaLogs(ctx context.Context) ([]models.TriviaLog, error) {
	return s.store.ListTrivia(ctx)
}

// Suggestions lists suggestion box messages for the dashboard.
func (s *EngagementService) Suggestions(ctx context.Context) ([]models.Suggestion, error) {
	return s.store.ListSuggestions(ctx)
}

// DeleteSuggestion removes one reviewed suggestion.
func (s *EngagementService) DeleteSuggestion(ctx context.Context, id string) error {
	n, err := s.store.DeleteSuggestion(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.ErrSuggestionNotFound
	}
	return nil
}
