package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/normalization"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type CreateClientInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Timezone        string
	Age             *int
	Height          *float64
	Weight          *float64
	GoalDescription string
}

type UpdateClientInput struct {
	FirstName       *string
	LastName        *string
	Timezone        *string
	Age             *int
	Height          *float64
	Weight          *float64
	GoalDescription *string
	Status          *string
}

type AssignProgramInput struct {
	ProgramID    uuid.UUID
	StartDate    time.Time
	TrainingDays []string
}

type ClientPage struct {
	Data   []*types.ClientProfile `json:"data"`
	Total  int64                  `json:"total"`
	Offset int                    `json:"offset"`
	Limit  int                    `json:"limit"`
}

type ClientService interface {
	Create(ctx context.Context, trainerID uuid.UUID, input CreateClientInput) (*types.ClientProfile, error)
	List(ctx context.Context, trainerID uuid.UUID, filter repos.ClientProfileFilter) (*ClientPage, error)
	Get(ctx context.Context, trainerID, clientID uuid.UUID) (*types.ClientProfile, error)
	GetMyProfile(ctx context.Context, userID uuid.UUID) (*types.ClientProfile, error)
	Update(ctx context.Context, trainerID, clientID uuid.UUID, input UpdateClientInput) (*types.ClientProfile, error)
	Delete(ctx context.Context, trainerID, clientID uuid.UUID) error
	// AssignProgram replaces the client's active assignment, regenerates the
	// session calendar and records recommendation feedback, atomically.
	AssignProgram(ctx context.Context, trainerID, clientID uuid.UUID, input AssignProgramInput) (*types.ClientProgram, error)
	GetClientProgram(ctx context.Context, trainerID, clientID uuid.UUID) (*types.ClientProgram, error)
	RemoveProgram(ctx context.Context, trainerID, clientID uuid.UUID) error
	UpdateTrainingDays(ctx context.Context, trainerID, clientID uuid.UUID, trainingDays []string) (*types.ClientProgram, error)
}

type clientService struct {
	db                *gorm.DB
	log               *logger.Logger
	userRepo          repos.UserRepo
	clientRepo        repos.ClientProfileRepo
	programRepo       repos.WorkoutProgramRepo
	clientProgramRepo repos.ClientProgramRepo
	sessionRepo       repos.ScheduledSessionRepo
	scheduleService   ScheduleService
	recService        RecommendationService
}

func NewClientService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	clientRepo repos.ClientProfileRepo,
	programRepo repos.WorkoutProgramRepo,
	clientProgramRepo repos.ClientProgramRepo,
	sessionRepo repos.ScheduledSessionRepo,
	scheduleService ScheduleService,
	recService RecommendationService,
) ClientService {
	serviceLog := log.With("service", "ClientService")
	return &clientService{
		db:                db,
		log:               serviceLog,
		userRepo:          userRepo,
		clientRepo:        clientRepo,
		programRepo:       programRepo,
		clientProgramRepo: clientProgramRepo,
		sessionRepo:       sessionRepo,
		scheduleService:   scheduleService,
		recService:        recService,
	}
}

func (cs *clientService) Create(ctx context.Context, trainerID uuid.UUID, input CreateClientInput) (*types.ClientProfile, error) {
	email := normalization.ParseInputString(input.Email)
	if email == "" || input.Password == "" {
		return nil, apierr.Validation("Email and password are required")
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, apierr.Validation("First and last name are required")
	}

	exists, err := cs.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("Failed to check email: %w", err)
	}
	if exists {
		return nil, apierr.Conflict("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Failed to hash password: %w", err)
	}

	timezone := normalization.TrimInputString(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	var profile *types.ClientProfile
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := &types.User{
			Email:     email,
			Password:  string(hash),
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Role:      types.RoleClient,
		}
		users, err := cs.userRepo.Create(ctx, tx, []*types.User{user})
		if err != nil {
			return fmt.Errorf("Failed to create client user: %w", err)
		}

		row := &types.ClientProfile{
			UserID:          users[0].ID,
			TrainerID:       trainerID,
			FirstName:       input.FirstName,
			LastName:        input.LastName,
			Timezone:        timezone,
			Age:             input.Age,
			Height:          input.Height,
			Weight:          input.Weight,
			GoalDescription: input.GoalDescription,
			Status:          types.ClientStatusActive,
		}
		profiles, err := cs.clientRepo.Create(ctx, tx, []*types.ClientProfile{row})
		if err != nil {
			return fmt.Errorf("Failed to create client profile: %w", err)
		}
		profile = profiles[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func (cs *clientService) List(ctx context.Context, trainerID uuid.UUID, filter repos.ClientProfileFilter) (*ClientPage, error) {
	rows, total, err := cs.clientRepo.ListByTrainer(ctx, nil, trainerID, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to list clients: %w", err)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	return &ClientPage{Data: rows, Total: total, Offset: filter.Offset, Limit: limit}, nil
}

func (cs *clientService) loadOwnedClient(ctx context.Context, trainerID, clientID uuid.UUID) (*types.ClientProfile, error) {
	clients, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{clientID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, apierr.NotFound("Client not found")
	}
	if clients[0].TrainerID != trainerID {
		return nil, apierr.Forbidden("You can only manage your own clients")
	}
	return clients[0], nil
}

func (cs *clientService) Get(ctx context.Context, trainerID, clientID uuid.UUID) (*types.ClientProfile, error) {
	return cs.loadOwnedClient(ctx, trainerID, clientID)
}

func (cs *clientService) GetMyProfile(ctx context.Context, userID uuid.UUID) (*types.ClientProfile, error) {
	profile, err := cs.clientRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.NotFound("Client profile not found")
	}
	return profile, nil
}

func (cs *clientService) Update(ctx context.Context, trainerID, clientID uuid.UUID, input UpdateClientInput) (*types.ClientProfile, error) {
	client, err := cs.loadOwnedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.FirstName != nil {
		fields["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["last_name"] = *input.LastName
	}
	if input.Timezone != nil {
		fields["timezone"] = *input.Timezone
	}
	if input.Age != nil {
		fields["age"] = *input.Age
	}
	if input.Height != nil {
		fields["height"] = *input.Height
	}
	if input.Weight != nil {
		fields["weight"] = *input.Weight
	}
	if input.GoalDescription != nil {
		fields["goal_description"] = *input.GoalDescription
	}
	if input.Status != nil {
		switch *input.Status {
		case types.ClientStatusActive, types.ClientStatusPaused, types.ClientStatusArchived:
		default:
			return nil, apierr.Validation("Invalid client status: %s", *input.Status)
		}
		fields["status"] = *input.Status
	}

	if len(fields) > 0 {
		if err := cs.clientRepo.Update(ctx, nil, client.ID, fields); err != nil {
			return nil, fmt.Errorf("Failed to update client: %w", err)
		}
	}

	clients, err := cs.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{client.ID})
	if err != nil || len(clients) == 0 {
		return client, nil
	}
	return clients[0], nil
}

func (cs *clientService) Delete(ctx context.Context, trainerID, clientID uuid.UUID) error {
	client, err := cs.loadOwnedClient(ctx, trainerID, clientID)
	if err != nil {
		return err
	}
	if err := cs.clientRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{client.ID}); err != nil {
		return fmt.Errorf("Failed to delete client: %w", err)
	}
	return nil
}

func (cs *clientService) AssignProgram(ctx context.Context, trainerID, clientID uuid.UUID, input AssignProgramInput) (*types.ClientProgram, error) {
	client, err := cs.loadOwnedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	programs, err := cs.programRepo.GetByIDs(ctx, nil, []uuid.UUID{input.ProgramID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load program: %w", err)
	}
	if len(programs) == 0 {
		return nil, apierr.NotFound("Program not found")
	}
	program := programs[0]
	if !program.IsDefault && (program.TrainerID == nil || *program.TrainerID != trainerID) {
		return nil, apierr.Forbidden("You can only assign your own or default programs")
	}

	trainingDays, err := validateTrainingDays(input.TrainingDays, program.SessionsPerWeek)
	if err != nil {
		return nil, err
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	assignment := &types.ClientProgram{
		ClientID:  client.ID,
		ProgramID: program.ID,
		StartDate: startDate,
	}
	if err := assignment.SetTrainingDays(trainingDays); err != nil {
		return nil, fmt.Errorf("Failed to encode training days: %w", err)
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.clientProgramRepo.Upsert(ctx, tx, assignment); err != nil {
			return fmt.Errorf("Failed to save assignment: %w", err)
		}
		assignment.Program = program
		if err := cs.scheduleService.GenerateScheduledSessions(ctx, tx, client.ID, trainerID, assignment, startDate); err != nil {
			return err
		}
		return cs.recService.RecordFeedback(ctx, tx, client.ID, program.ID, nil)
	})
	if err != nil {
		return nil, err
	}

	return cs.clientProgramRepo.GetByClientID(ctx, nil, client.ID)
}

func (cs *clientService) GetClientProgram(ctx context.Context, trainerID, clientID uuid.UUID) (*types.ClientProgram, error) {
	if _, err := cs.loadOwnedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	assignment, err := cs.clientProgramRepo.GetByClientID(ctx, nil, clientID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client program: %w", err)
	}
	if assignment == nil {
		return nil, apierr.NotFound("Client has no active program")
	}
	return assignment, nil
}

func (cs *clientService) RemoveProgram(ctx context.Context, trainerID, clientID uuid.UUID) error {
	client, err := cs.loadOwnedClient(ctx, trainerID, clientID)
	if err != nil {
		return err
	}

	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.clientProgramRepo.FullDeleteByClientID(ctx, tx, client.ID); err != nil {
			return fmt.Errorf("Failed to remove assignment: %w", err)
		}
		// Completed and cancelled history stays untouched.
		if err := cs.sessionRepo.FullDeleteFutureScheduled(ctx, tx, client.ID, time.Now()); err != nil {
			return fmt.Errorf("Failed to remove future sessions: %w", err)
		}
		return nil
	})
}

func (cs *clientService) UpdateTrainingDays(ctx context.Context, trainerID, clientID uuid.UUID, trainingDays []string) (*types.ClientProgram, error) {
	client, err := cs.loadOwnedClient(ctx, trainerID, clientID)
	if err != nil {
		return nil, err
	}

	assignment, err := cs.clientProgramRepo.GetByClientID(ctx, nil, client.ID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client program: %w", err)
	}
	if assignment == nil || assignment.Program == nil {
		return nil, apierr.NotFound("Client has no active program")
	}

	days, err := validateTrainingDays(trainingDays, assignment.Program.SessionsPerWeek)
	if err != nil {
		return nil, err
	}

	if err := assignment.SetTrainingDays(days); err != nil {
		return nil, fmt.Errorf("Failed to encode training days: %w", err)
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.clientProgramRepo.UpdateTrainingDays(ctx, tx, client.ID, assignment.TrainingDays, true); err != nil {
			return fmt.Errorf("Failed to update training days: %w", err)
		}
		return cs.scheduleService.GenerateScheduledSessions(ctx, tx, client.ID, trainerID, assignment, time.Now())
	})
	if err != nil {
		return nil, err
	}

	return cs.clientProgramRepo.GetByClientID(ctx, nil, client.ID)
}

func validateTrainingDays(days []string, sessionsPerWeek int) ([]string, error) {
	if len(days) != sessionsPerWeek {
		return nil, apierr.Validation("Expected %d training days, got %d", sessionsPerWeek, len(days))
	}
	seen := map[string]bool{}
	for _, day := range days {
		if _, ok := weekdayOffsets[day]; !ok {
			return nil, apierr.Validation("Unknown training day: %s", day)
		}
		if seen[day] {
			return nil, apierr.Validation("Duplicate training day: %s", day)
		}
		seen[day] = true
	}
	return days, nil
}
