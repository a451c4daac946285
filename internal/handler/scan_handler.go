package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ecopoints/kiosk_api/internal/service"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// ScanHandler exposes the kiosk session and scan endpoints.
type ScanHandler struct {
	scans    *service.ScanService
	sections *service.SectionService
}

// NewScanHandler constructs a ScanHandler.
func NewScanHandler(scans *service.ScanService, sections *service.SectionService) *ScanHandler {
	return &ScanHandler{scans: scans, sections: sections}
}

// OpenSession starts a kiosk visit and returns the session ID used by all
// subsequent scan calls.
func (h *ScanHandler) OpenSession(c *gin.Context) {
	sess := h.scans.Sessions().Open()
	utils.Success(c, 201, "Session opened", gin.H{"sessionId": sess.ID})
}

// CloseSession ends a kiosk visit.
func (h *ScanHandler) CloseSession(c *gin.Context) {
	h.scans.Sessions().Close(c.Param("id"))
	utils.Success(c, 200, "Session closed", nil)
}

type bindAccountRequest struct {
	LRN      string `json:"lrn"`
	FullName string `json:"fullName" binding:"required"`
	Section  string `json:"section"`
}

// BindAccount attaches the student's name (and optionally a manually entered
// LRN and section) to the session after the account screen.
func (h *ScanHandler) BindAccount(c *gin.Context) {
	sess, ok := h.scans.Sessions().Get(c.Param("id"))
	if !ok {
		utils.Error(c, 404, "SESSION_NOT_FOUND", "Unknown or expired session")
		return
	}

	var req bindAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "fullName is required")
		return
	}

	section := h.sections.NormalizePtr(req.Section)
	sess.BindAccount(req.LRN, req.FullName, section)

	utils.Success(c, 200, "Account bound to session", gin.H{
		"lrn":     req.LRN,
		"section": section,
	})
}

type scanRequest struct {
	Code string `json:"code" binding:"required"`
}

// ScanIdentity validates a decoded identity QR payload for the session.
// Rejections are part of the normal flow and come back as accepted=false
// with a reason, not as HTTP errors.
func (h *ScanHandler) ScanIdentity(c *gin.Context) {
	sess, ok := h.scans.Sessions().Get(c.Param("id"))
	if !ok {
		utils.Error(c, 404, "SESSION_NOT_FOUND", "Unknown or expired session")
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "code is required")
		return
	}

	result := h.scans.ValidateIdentityScan(sess, req.Code)
	utils.Success(c, 200, "Identity scan processed", result)
}

// ScanItem validates one deposited item and, when accepted, accrues the
// points and logs the scan in one atomic unit.
func (h *ScanHandler) ScanItem(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "code is required")
		return
	}

	outcome, err := h.scans.ProcessDeposit(c.Request.Context(), c.Param("id"), req.Code)
	if err != nil {
		if errors.Is(err, utils.ErrSessionNotFound) {
			utils.Error(c, 404, "SESSION_NOT_FOUND", "Unknown or expired session")
			return
		}
		// Persistence failure: nothing was recorded, the student can rescan.
		utils.Error(c, 500, "INTERNAL_ERROR", "Could not record the deposit, please rescan")
		return
	}
	utils.Success(c, 200, "Item scan processed", outcome)
}

// NormalizeSection previews the section corrector for the account screen.
func (h *ScanHandler) NormalizeSection(c *gin.Context) {
	match := h.sections.Normalize(c.Query("input"))
	utils.Success(c, 200, "Section normalized", gin.H{
		"corrected":        match.Corrected,
		"wasAutoCorrected": match.WasAutoCorrected,
	})
}
