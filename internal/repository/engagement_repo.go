package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ecopoints/kiosk_api/internal/models"
)

// EngagementRepository stores post-deposit sentiment and trivia answers and
// the suggestion box.
type EngagementRepository struct {
	db *sqlx.DB
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// InsertSentiment records one mood answer.
func (r *EngagementRepository) InsertSentiment(ctx context.Context, feeling string) error {
	const q = `INSERT INTO sentiment_logs (feeling) VALUES ($1)`

	_, err := r.db.ExecContext(ctx, q, feeling)
	return err
}

// InsertTrivia records one trivia answer.
func (r *EngagementRepository) InsertTrivia(ctx context.Context, questionID int, isCorrect bool) error {
	const q = `INSERT INTO trivia_logs (question_id, is_correct) VALUES ($1, $2)`

	_, err := r.db.ExecContext(ctx, q, questionID, isCorrect)
	return err
}

// InsertSuggestion records a suggestion box message.
func (r *EngagementRepository) InsertSuggestion(ctx context.Context, message string) error {
	const q = `INSERT INTO suggestions (message) VALUES ($1)`

	_, err := r.db.ExecContext(ctx, q, message)
	return err
}

// ListSentiment returns mood answers, newest first.
func (r *EngagementRepository) ListSentiment(ctx context.Context) ([]models.SentimentLog, error) {
	const q = `SELECT id, feeling, created_at FROM sentiment_logs ORDER BY created_at DESC`

	var logs []models.SentimentLog
	if err := r.db.SelectContext(ctx, &logs, q); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListTrivia returns trivia answers, newest first.
func (r *EngagementRepository) ListTrivia(ctx context.Context) ([]models.TriviaLog, error) {
	const q = `SELECT id, question_id, is_correct, created_at FROM trivia_logs ORDER BY created_at DESC`

	var logs []models.TriviaLog
	if err := r.db.SelectContext(ctx, &logs, q); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListSuggestions returns suggestion box messages, newest first.
func (r *EngagementRepository) ListSuggestions(ctx context.Context) ([]models.Suggestion, error) {
	const q = `SELECT id, message, created_at FROM suggestions ORDER BY created_at DESC`

	var suggestions []models.Suggestion
	if err := r.db.SelectContext(ctx, &suggestions, q); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// DeleteSuggestion removes one suggestion by id.
func (r *EngagementRepository) DeleteSuggestion(ctx context.Context, id string) (int64, error) {
	const q = `DELETE FROM suggestions WHERE id = $1`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
