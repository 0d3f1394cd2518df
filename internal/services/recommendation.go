package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

const maxRecommendations = 3

type CurrentProgramSummary struct {
	ProgramID       uuid.UUID `json:"program_id"`
	ProgramName     string    `json:"program_name"`
	WeeksSinceStart int       `json:"weeks_since_start"`
	CompletionRate  float64   `json:"completion_rate"`
	TotalSessions   int       `json:"total_sessions"`
	Completed       int       `json:"completed"`
	Cancelled       int       `json:"cancelled"`
	NoShow          int       `json:"no_show"`
}

type RecommendationResult struct {
	Recommendations []*ProgramRecommendation `json:"recommendations"`
	CurrentProgram  *CurrentProgramSummary   `json:"current_program"`
	ClientStats     *ClientStats             `json:"client_stats"`
}

type RecommendationService interface {
	// GenerateRecommendations scores every program visible to the client's
	// trainer (minus the currently-assigned one) and returns the top 3.
	GenerateRecommendations(ctx context.Context, trainerID, clientID uuid.UUID) (*RecommendationResult, error)
	// RecordFeedback closes the loop when a trainer assigns any program:
	// the most recent pending log entry learns whether it was followed.
	RecordFeedback(ctx context.Context, tx *gorm.DB, clientID, selectedProgramID uuid.UUID, feedback *string) error
	ListLog(ctx context.Context, trainerID, clientID uuid.UUID, limit int) ([]*types.RecommendationLog, error)
}

type recommendationService struct {
	db                *gorm.DB
	log               *logger.Logger
	clientRepo        repos.ClientProfileRepo
	programRepo       repos.WorkoutProgramRepo
	clientProgramRepo repos.ClientProgramRepo
	recLogRepo        repos.RecommendationLogRepo
	statsService      StatsService
	classifier        *GoalClassifier
	weights           ScoringWeights
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	clientRepo repos.ClientProfileRepo,
	programRepo repos.WorkoutProgramRepo,
	clientProgramRepo repos.ClientProgramRepo,
	recLogRepo repos.RecommendationLogRepo,
	statsService StatsService,
	classifier *GoalClassifier,
	weights ScoringWeights,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:                db,
		log:               serviceLog,
		clientRepo:        clientRepo,
		programRepo:       programRepo,
		clientProgramRepo: clientProgramRepo,
		recLogRepo:        recLogRepo,
		statsService:      statsService,
		classifier:        classifier,
		weights:           weights,
	}
}

func (rs *recommendationService) GenerateRecommendations(ctx context.Context, trainerID, clientID uuid.UUID) (*RecommendationResult, error) {
	clients, err := rs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, apierr.NotFound("Client not found")
	}
	client := clients[0]
	if client.TrainerID != trainerID {
		return nil, apierr.Forbidden("You can only generate recommendations for your own clients")
	}

	now := time.Now()
	stats, err := rs.statsService.CalculateClientStats(ctx, nil, clientID, now)
	if err != nil {
		return nil, err
	}

	assignment, err := rs.clientProgramRepo.GetByClientID(ctx, nil, clientID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load current assignment: %w", err)
	}

	programs, err := rs.programRepo.ListVisibleToTrainer(ctx, nil, client.TrainerID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load program catalog: %w", err)
	}

	goal := rs.classifier.Classify(client.GoalDescription)

	recommendations := make([]*ProgramRecommendation, 0, len(programs))
	for _, program := range programs {
		if assignment != nil && assignment.ProgramID == program.ID {
			continue
		}
		recommendations = append(recommendations, scoreProgram(program, goal, stats, rs.weights))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}

	// Audit trail only: a failed log write must not fail the response.
	if len(recommendations) > 0 {
		if err := rs.logRecommendation(ctx, clientID, recommendations[0], stats); err != nil {
			rs.log.Warn("Failed to persist recommendation log entry", "client_id", clientID, "error", err)
		}
	}

	result := &RecommendationResult{
		Recommendations: recommendations,
		ClientStats:     stats,
	}
	if assignment != nil && assignment.Program != nil {
		result.CurrentProgram = &CurrentProgramSummary{
			ProgramID:       assignment.ProgramID,
			ProgramName:     assignment.Program.Name,
			WeeksSinceStart: stats.WeeksSinceStart,
			CompletionRate:  stats.CompletionRate,
			TotalSessions:   stats.TotalSessions,
			Completed:       stats.CompletedSessions,
			Cancelled:       stats.CancelledSessions,
			NoShow:          stats.NoShowSessions,
		}
	}
	return result, nil
}

func (rs *recommendationService) logRecommendation(ctx context.Context, clientID uuid.UUID, top *ProgramRecommendation, stats *ClientStats) error {
	reasons, err := json.Marshal(top.Reasons)
	if err != nil {
		return err
	}
	warnings, err := json.Marshal(top.Warnings)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	entry := &types.RecommendationLog{
		ClientID:             clientID,
		RecommendedProgramID: top.ProgramID,
		Score:                top.Score,
		Confidence:           top.Confidence,
		Reasons:              datatypes.JSON(reasons),
		Warnings:             datatypes.JSON(warnings),
		ClientStats:          datatypes.JSON(snapshot),
	}
	_, err = rs.recLogRepo.Create(ctx, nil, []*types.RecommendationLog{entry})
	return err
}

func (rs *recommendationService) RecordFeedback(ctx context.Context, tx *gorm.DB, clientID, selectedProgramID uuid.UUID, feedback *string) error {
	entry, err := rs.recLogRepo.GetLatestPending(ctx, tx, clientID)
	if err != nil {
		return fmt.Errorf("Failed to load pending recommendation log: %w", err)
	}
	if entry == nil {
		return nil
	}

	accepted := entry.RecommendedProgramID == selectedProgramID
	now := time.Now()
	fields := map[string]interface{}{
		"trainer_accepted": accepted,
		"action_taken_at":  now,
	}
	if !accepted {
		fields["trainer_selected_program_id"] = selectedProgramID
	}
	if feedback != nil {
		fields["trainer_feedback"] = *feedback
	}
	if err := rs.recLogRepo.Update(ctx, tx, entry.ID, fields); err != nil {
		return fmt.Errorf("Failed to record recommendation feedback: %w", err)
	}
	return nil
}

func (rs *recommendationService) ListLog(ctx context.Context, trainerID, clientID uuid.UUID, limit int) ([]*types.RecommendationLog, error) {
	clients, err := rs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, apierr.NotFound("Client not found")
	}
	if clients[0].TrainerID != trainerID {
		return nil, apierr.Forbidden("You can only view recommendations for your own clients")
	}
	return rs.recLogRepo.ListByClientID(ctx, nil, clientID, limit)
}
