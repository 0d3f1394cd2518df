package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

// statsWindowWeeks is the trailing behavioral window every stat is computed
// over. Stats are derived fresh per request and never cached.
const statsWindowWeeks = 4

type ClientStats struct {
	CompletionRate    float64 `json:"completion_rate"`
	Consistency       float64 `json:"consistency"`
	PainFrequency     float64 `json:"pain_frequency"`
	AvgNutritionScore float64 `json:"avg_nutrition_score"`
	WeeksSinceStart   int     `json:"weeks_since_start"`
	TotalSessions     int     `json:"total_sessions"`
	CompletedSessions int     `json:"completed_sessions"`
	CancelledSessions int     `json:"cancelled_sessions"`
	NoShowSessions    int     `json:"no_show_sessions"`
}

type StatsService interface {
	CalculateClientStats(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, now time.Time) (*ClientStats, error)
}

type statsService struct {
	db                *gorm.DB
	log               *logger.Logger
	sessionRepo       repos.ScheduledSessionRepo
	checkinRepo       repos.DailyCheckinRepo
	clientProgramRepo repos.ClientProgramRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, sessionRepo repos.ScheduledSessionRepo, checkinRepo repos.DailyCheckinRepo, clientProgramRepo repos.ClientProgramRepo) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{
		db:                db,
		log:               serviceLog,
		sessionRepo:       sessionRepo,
		checkinRepo:       checkinRepo,
		clientProgramRepo: clientProgramRepo,
	}
}

func (ss *statsService) CalculateClientStats(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, now time.Time) (*ClientStats, error) {
	windowStart := now.AddDate(0, 0, -statsWindowWeeks*7)

	assignment, err := ss.clientProgramRepo.GetByClientID(ctx, tx, clientID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client program: %w", err)
	}

	weeksSinceStart := 0
	if assignment != nil {
		weeksSinceStart = wholeWeeksBetween(assignment.StartDate, now)
	}

	sessions, err := ss.sessionRepo.ListForClientBetween(ctx, tx, clientID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("Failed to load recent sessions: %w", err)
	}

	stats := &ClientStats{WeeksSinceStart: weeksSinceStart}
	stats.TotalSessions = len(sessions)
	for _, session := range sessions {
		switch session.Status {
		case types.SessionCompleted:
			stats.CompletedSessions++
		case types.SessionCancelled:
			stats.CancelledSessions++
		case types.SessionNoShow:
			stats.NoShowSessions++
		}
	}

	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100
	}
	stats.Consistency = float64(stats.TotalSessions) / float64(statsWindowWeeks)

	checkins, err := ss.checkinRepo.ListForClientBetween(ctx, tx, clientID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("Failed to load recent check-ins: %w", err)
	}

	if len(checkins) > 0 {
		painCount := 0
		nutritionSum := 0
		for _, checkin := range checkins {
			if checkin.PainAtTraining {
				painCount++
			}
			nutritionSum += checkin.NutritionScore
		}
		stats.PainFrequency = float64(painCount) / float64(len(checkins)) * 100
		stats.AvgNutritionScore = float64(nutritionSum) / float64(len(checkins))
	}

	return stats, nil
}

func wholeWeeksBetween(start, now time.Time) int {
	if !start.Before(now) {
		return 0
	}
	return int(now.Sub(start).Hours() / (24 * 7))
}
