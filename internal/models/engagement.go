package models

import "time"

// SentimentLog records one anonymous post-deposit mood answer.
type SentimentLog struct {
	ID        string    `db:"id" json:"id"`
	Feeling   string    `db:"feeling" json:"feeling"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TriviaLog records one post-deposit trivia answer. Correct answers earn a
// one-point bonus through the regular accrual path.
type TriviaLog struct {
	ID         string    `db:"id" json:"id"`
	QuestionID int       `db:"question_id" json:"questionId"`
	IsCorrect  bool      `db:"is_correct" json:"isCorrect"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Suggestion is a free-text message dropped into the kiosk suggestion box.
type Suggestion struct {
	ID        string    `db:"id" json:"id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
