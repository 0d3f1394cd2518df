package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type CreateCheckinInput struct {
	Date           time.Time
	NutritionScore int
	PainAtTraining bool
	Note           *string
}

type CheckinService interface {
	// Create upserts the client's check-in for the given day.
	Create(ctx context.Context, userID uuid.UUID, input CreateCheckinInput) (*types.DailyCheckin, error)
	ListForClient(ctx context.Context, trainerID, clientID uuid.UUID, limit int) ([]*types.DailyCheckin, error)
	ListMine(ctx context.Context, userID uuid.UUID, limit int) ([]*types.DailyCheckin, error)
}

type checkinService struct {
	db          *gorm.DB
	log         *logger.Logger
	checkinRepo repos.DailyCheckinRepo
	clientRepo  repos.ClientProfileRepo
}

func NewCheckinService(db *gorm.DB, log *logger.Logger, checkinRepo repos.DailyCheckinRepo, clientRepo repos.ClientProfileRepo) CheckinService {
	serviceLog := log.With("service", "CheckinService")
	return &checkinService{db: db, log: serviceLog, checkinRepo: checkinRepo, clientRepo: clientRepo}
}

func (cs *checkinService) Create(ctx context.Context, userID uuid.UUID, input CreateCheckinInput) (*types.DailyCheckin, error) {
	if input.NutritionScore < 0 || input.NutritionScore > 10 {
		return nil, apierr.Validation("nutrition_score must be between 0 and 10")
	}

	profile, err := cs.clientRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.NotFound("Client profile not found")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	// One row per calendar day.
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	row := &types.DailyCheckin{
		ClientID:       profile.ID,
		Date:           date,
		NutritionScore: input.NutritionScore,
		PainAtTraining: input.PainAtTraining,
		Note:           input.Note,
	}
	if err := cs.checkinRepo.Upsert(ctx, nil, row); err != nil {
		return nil, fmt.Errorf("Failed to save check-in: %w", err)
	}
	return row, nil
}

func (cs *checkinService) ListForClient(ctx context.Context, trainerID, clientID uuid.UUID, limit int) ([]*types.DailyCheckin, error) {
	clients, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, apierr.NotFound("Client not found")
	}
	if clients[0].TrainerID != trainerID {
		return nil, apierr.Forbidden("You can only view check-ins for your own clients")
	}
	return cs.checkinRepo.ListByClientID(ctx, nil, clientID, limit)
}

func (cs *checkinService) ListMine(ctx context.Context, userID uuid.UUID, limit int) ([]*types.DailyCheckin, error) {
	profile, err := cs.clientRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.NotFound("Client profile not found")
	}
	return cs.checkinRepo.ListByClientID(ctx, nil, profile.ID, limit)
}
