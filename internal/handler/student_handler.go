package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ecopoints/kiosk_api/internal/service"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// StudentHandler exposes ledger lookups, registration and redemption.
type StudentHandler struct {
	ledger *service.LedgerService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(ledger *service.LedgerService) *StudentHandler {
	return &StudentHandler{ledger: ledger}
}

// GetStudent returns one ledger row by LRN (the check-points screen).
func (h *StudentHandler) GetStudent(c *gin.Context) {
	student, err := h.ledger.Lookup(c.Request.Context(), c.Param("lrn"))
	if err != nil {
		if errors.Is(err, utils.ErrStudentNotFound) {
			utils.Error(c, 404, "STUDENT_NOT_FOUND", "Student not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to fetch student")
		return
	}
	utils.Success(c, 200, "Student retrieved", student)
}

type registerRequest struct {
	LRN      string `json:"lrn" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Section  string `json:"section"`
}

// Register creates a zero-balance account when a lookup found nothing.
func (h *StudentHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "lrn and fullName are required")
		return
	}

	student, err := h.ledger.Register(c.Request.Context(), req.LRN, req.FullName, req.Section)
	if err != nil {
		if errors.Is(err, utils.ErrStudentExists) {
			utils.Error(c, 409, "STUDENT_EXISTS", "An account with this LRN already exists")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to register student")
		return
	}
	utils.Success(c, 201, "Student registered", student)
}

type redeemRequest struct {
	LRN            string `json:"lrn" binding:"required"`
	CurrentBalance int    `json:"currentBalance"`
	RewardName     string `json:"rewardName" binding:"required"`
	RewardCost     int    `json:"rewardCost" binding:"required"`
}

// Redeem debits the balance for a reward claim and returns the claim code.
func (h *StudentHandler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "lrn, rewardName and rewardCost are required")
		return
	}

	result, err := h.ledger.Redeem(c.Request.Context(), req.LRN, req.CurrentBalance, req.RewardName, req.RewardCost)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInsufficientPoints):
			utils.Error(c, 409, "INSUFFICIENT_POINTS", "Not enough points for this reward")
		case errors.Is(err, utils.ErrInvalidPoints):
			utils.Error(c, 400, "INVALID_REQUEST", "rewardCost must be positive")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to redeem points")
		}
		return
	}
	utils.Success(c, 200, "Reward redeemed", result)
}
