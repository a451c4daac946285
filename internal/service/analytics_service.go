package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ecopoints/kiosk_api/internal/cache"
	"github.com/ecopoints/kiosk_api/internal/models"
	"github.com/ecopoints/kiosk_api/internal/repository"
)

// GoalProgress is the semester goal chart payload.
type GoalProgress struct {
	Goal    int     `json:"goal"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

// AnalyticsService serves the read-only admin dashboard and the public
// counters on the kiosk start screen.
type AnalyticsService struct {
	analytics  *repository.AnalyticsRepository
	scanLogs   *repository.ScanLogRepository
	students   *repository.StudentRepository
	statsCache *cache.StatsCache
	goal       int
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(
	analytics *repository.AnalyticsRepository,
	scanLogs *repository.ScanLogRepository,
	students *repository.StudentRepository,
	statsCache *cache.StatsCache,
	goal int,
) *AnalyticsService {
	return &AnalyticsService{
		analytics:  analytics,
		scanLogs:   scanLogs,
		students:   students,
		statsCache: statsCache,
		goal:       goal,
	}
}

// DailyScans returns the trailing seven days of scan activity.
func (s *AnalyticsService) DailyScans(ctx context.Context) ([]repository.DailyCount, error) {
	return s.analytics.DailyScans(ctx, 7)
}

// TopContributors returns the five highest balances.
func (s *AnalyticsService) TopContributors(ctx context.Context) ([]models.StudentAccount, error) {
	return s.students.TopByBalance(ctx, 5)
}

// SectionRankings returns summed balances per section.
func (s *AnalyticsService) SectionRankings(ctx context.Context) ([]repository.SectionPoints, error) {
	return s.analytics.SectionRankings(ctx)
}

// PeakHours returns the hour-of-day scan histogram.
func (s *AnalyticsService) PeakHours(ctx context.Context) ([]repository.HourCount, error) {
	return s.analytics.PeakHours(ctx)
}

// Economy returns points issued versus points redeemed.
func (s *AnalyticsService) Economy(ctx context.Context) (*repository.PointsEconomy, error) {
	return s.analytics.Economy(ctx)
}

// Registrations returns the active/inactive account split.
func (s *AnalyticsService) Registrations(ctx context.Context) (*repository.RegistrationStatus, error) {
	return s.analytics.Registrations(ctx)
}

// SemesterGoal returns progress toward the configured scan target.
func (s *AnalyticsService) SemesterGoal(ctx context.Context) (*GoalProgress, error) {
	total, err := s.scanLogs.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	p := &GoalProgress{Goal: s.goal, Total: total}
	if s.goal > 0 {
		p.Percent = float64(total) / float64(s.goal) * 100
		if p.Percent > 100 {
			p.Percent = 100
		}
	}
	return p, nil
}

// RecentScans returns the live feed rows.
func (s *AnalyticsService) RecentScans(ctx context.Context) ([]models.ScanLogEntry, error) {
	return s.scanLogs.Recent(ctx, 10)
}

// GlobalStats returns the public total-items counter, served from the Redis
// cache when fresh. Cache failures fall back to the database; the counter is
// too cheap to fail a kiosk boot over.
func (s *AnalyticsService) GlobalStats(ctx context.Context) (*cache.GlobalStats, error) {
	if cached, err := s.statsCache.Get(ctx); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("stats cache read failed")
	}

	total, err := s.scanLogs.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &cache.GlobalStats{TotalItems: total}
	if err := s.statsCache.Set(ctx, stats); err != nil {
		log.Warn().Err(err).Msg("stats cache write failed")
	}
	return stats, nil
}

// ClearScanLogs is the administrative bulk clear of scan history.
func (s *AnalyticsService) ClearScanLogs(ctx context.Context) (int64, error) {
	n, err := s.scanLogs.Clear(ctx)
	if err != nil {
		return 0, err
	}
	log.Warn().Int64("rows", n).Msg("scan logs cleared by admin")
	return n, nil
}
