package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ecopoints/kiosk_api/internal/service"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// AnalyticsHandler serves the admin dashboard charts and the public global
// stats shown on the kiosk start screen.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// GetDailyScans returns the trailing-week scan counts.
func (h *AnalyticsHandler) GetDailyScans(c *gin.Context) {
	counts, err := h.analytics.DailyScans(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load daily scans")
		return
	}
	utils.Success(c, 200, "Daily scans retrieved", gin.H{"days": counts})
}

// GetTopContributors returns the five highest balances.
func (h *AnalyticsHandler) GetTopContributors(c *gin.Context) {
	students, err := h.analytics.TopContributors(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load top contributors")
		return
	}
	utils.Success(c, 200, "Top contributors retrieved", gin.H{"students": students})
}

// GetSectionRankings returns summed balances per section.
func (h *AnalyticsHandler) GetSectionRankings(c *gin.Context) {
	rankings, err := h.analytics.SectionRankings(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load section rankings")
		return
	}
	utils.Success(c, 200, "Section rankings retrieved", gin.H{"sections": rankings})
}

// GetPeakHours returns the hour-of-day histogram.
func (h *AnalyticsHandler) GetPeakHours(c *gin.Context) {
	hours, err := h.analytics.PeakHours(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load peak hours")
		return
	}
	utils.Success(c, 200, "Peak hours retrieved", gin.H{"hours": hours})
}

// GetEconomy returns points issued versus redeemed.
func (h *AnalyticsHandler) GetEconomy(c *gin.Context) {
	economy, err := h.analytics.Economy(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load points economy")
		return
	}
	utils.Success(c, 200, "Points economy retrieved", economy)
}

// GetRegistrations returns the active/inactive account split.
func (h *AnalyticsHandler) GetRegistrations(c *gin.Context) {
	status, err := h.analytics.Registrations(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load registration status")
		return
	}
	utils.Success(c, 200, "Registration status retrieved", status)
}

// GetSemesterGoal returns progress toward the configured scan target.
func (h *AnalyticsHandler) GetSemesterGoal(c *gin.Context) {
	progress, err := h.analytics.SemesterGoal(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load semester goal")
		return
	}
	utils.Success(c, 200, "Semester goal retrieved", progress)
}

// GetRecentScans returns the live feed rows.
func (h *AnalyticsHandler) GetRecentScans(c *gin.Context) {
	scans, err := h.analytics.RecentScans(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load recent scans")
		return
	}
	utils.Success(c, 200, "Recent scans retrieved", gin.H{"scans": scans})
}

// GetGlobalStats returns the public total-items counter.
func (h *AnalyticsHandler) GetGlobalStats(c *gin.Context) {
	stats, err := h.analytics.GlobalStats(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load global stats")
		return
	}
	utils.Success(c, 200, "Global stats retrieved", stats)
}

// ClearScanLogs wipes the scan history (admin bulk clear).
func (h *AnalyticsHandler) ClearScanLogs(c *gin.Context) {
	n, err := h.analytics.ClearScanLogs(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to clear scan logs")
		return
	}
	utils.Success(c, 200, "Scan logs cleared", gin.H{"deleted": n})
}
