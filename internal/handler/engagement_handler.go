package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ecopoints/kiosk_api/internal/service"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// EngagementHandler exposes the post-deposit prompts and the suggestion box.
type EngagementHandler struct {
	engagement *service.EngagementService
}

// NewEngagementHandler constructs an EngagementHandler.
func NewEngagementHandler(engagement *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

type sentimentRequest struct {
	Feeling string `json:"feeling" binding:"required"`
}

// RecordSentiment stores one anonymous mood answer.
func (h *EngagementHandler) RecordSentiment(c *gin.Context) {
	var req sentimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "feeling is required")
		return
	}
	if err := h.engagement.RecordSentiment(c.Request.Context(), req.Feeling); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to record sentiment")
		return
	}
	utils.Success(c, 201, "Sentiment recorded", nil)
}

type triviaRequest struct {
	LRN        string `json:"lrn"`
	QuestionID int    `json:"questionId" binding:"required"`
	IsCorrect  *bool  `json:"isCorrect" binding:"required"`
}

// RecordTrivia stores one trivia answer; a correct one earns a bonus point.
func (h *EngagementHandler) RecordTrivia(c *gin.Context) {
	var req triviaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "questionId and isCorrect are required")
		return
	}
	if err := h.engagement.RecordTrivia(c.Request.Context(), req.LRN, req.QuestionID, *req.IsCorrect); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to record trivia answer")
		return
	}
	utils.Success(c, 201, "Trivia answer recorded", nil)
}

type suggestionRequest struct {
	Message string `json:"message" binding:"required"`
}

// Suggest drops a message into the suggestion box.
func (h *EngagementHandler) Suggest(c *gin.Context) {
	var req suggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "message is required")
		return
	}
	if err := h.engagement.Suggest(c.Request.Context(), req.Message); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to record suggestion")
		return
	}
	utils.Success(c, 201, "Suggestion recorded", nil)
}

// ListSuggestions returns all suggestion box messages (admin).
func (h *EngagementHandler) ListSuggestions(c *gin.Context) {
	suggestions, err := h.engagement.Suggestions(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list suggestions")
		return
	}
	utils.Success(c, 200, "Suggestions retrieved", gin.H{"suggestions": suggestions})
}

// DeleteSuggestion removes a reviewed suggestion (admin).
func (h *EngagementHandler) DeleteSuggestion(c *gin.Context) {
	if err := h.engagement.DeleteSuggestion(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, utils.ErrSuggestionNotFound) {
			utils.Error(c, 404, "SUGGESTION_NOT_FOUND", "No such suggestion")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete suggestion")
		return
	}
	utils.Success(c, 200, "Suggestion deleted", nil)
}

// ListSentiment returns all mood answers (admin).
func (h *EngagementHandler) ListSentiment(c *gin.Context) {
	logs, err := h.engagement.SentimentLogs(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list sentiment logs")
		return
	}
	utils.Success(c, 200, "Sentiment logs retrieved", gin.H{"sentimentLogs": logs})
}

// ListTrivia returns all trivia answers (admin).
func (h *EngagementHandler) ListTrivia(c *gin.Context) {
	logs, err := h.engagement.TriviaLogs(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list trivia logs")
		return
	}
	utils.Success(c, 200, "Trivia logs retrieved", gin.H{"triviaLogs": logs})
}
