package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type ProgramSessionInput struct {
	DayNumber int    `json:"day_number"`
	Name      string `json:"name"`
	Focus     string `json:"focus"`
	Notes     string `json:"notes"`
}

type CreateProgramInput struct {
	Name            string
	Description     string
	SessionsPerWeek int
	DurationWeeks   *int
	Sessions        []ProgramSessionInput
}

type UpdateProgramInput struct {
	Name          *string
	Description   *string
	DurationWeeks *int
	Sessions      []ProgramSessionInput
}

type ProgramService interface {
	Create(ctx context.Context, trainerID uuid.UUID, input CreateProgramInput) (*types.WorkoutProgram, error)
	List(ctx context.Context, trainerID uuid.UUID) ([]*types.WorkoutProgram, error)
	Get(ctx context.Context, trainerID, programID uuid.UUID) (*types.WorkoutProgram, error)
	Update(ctx context.Context, trainerID, programID uuid.UUID, input UpdateProgramInput) (*types.WorkoutProgram, error)
	Delete(ctx context.Context, trainerID, programID uuid.UUID) error
	// Clone copies a default or owned program into a trainer-owned editable copy.
	Clone(ctx context.Context, trainerID, programID uuid.UUID) (*types.WorkoutProgram, error)
}

type programService struct {
	db          *gorm.DB
	log         *logger.Logger
	programRepo repos.WorkoutProgramRepo
}

func NewProgramService(db *gorm.DB, log *logger.Logger, programRepo repos.WorkoutProgramRepo) ProgramService {
	serviceLog := log.With("service", "ProgramService")
	return &programService{db: db, log: serviceLog, programRepo: programRepo}
}

func validateProgramSessions(sessions []ProgramSessionInput, sessionsPerWeek int) error {
	if sessionsPerWeek < 1 || sessionsPerWeek > 7 {
		return apierr.Validation("sessions_per_week must be between 1 and 7")
	}
	if len(sessions) == 0 {
		return apierr.Validation("A program needs at least one session template")
	}
	for _, session := range sessions {
		if session.Name == "" || session.Focus == "" {
			return apierr.Validation("Each session needs a name and a focus")
		}
	}
	return nil
}

func sessionRowsFromInput(sessions []ProgramSessionInput) []*types.ProgramSession {
	rows := make([]*types.ProgramSession, 0, len(sessions))
	for i, session := range sessions {
		dayNumber := session.DayNumber
		if dayNumber == 0 {
			dayNumber = i + 1
		}
		rows = append(rows, &types.ProgramSession{
			DayNumber: dayNumber,
			Name:      session.Name,
			Focus:     session.Focus,
			Notes:     session.Notes,
		})
	}
	return rows
}

func (ps *programService) Create(ctx context.Context, trainerID uuid.UUID, input CreateProgramInput) (*types.WorkoutProgram, error) {
	if input.Name == "" {
		return nil, apierr.Validation("Program name is required")
	}
	if err := validateProgramSessions(input.Sessions, input.SessionsPerWeek); err != nil {
		return nil, err
	}

	program := &types.WorkoutProgram{
		TrainerID:       &trainerID,
		Name:            input.Name,
		Description:     input.Description,
		SessionsPerWeek: input.SessionsPerWeek,
		DurationWeeks:   input.DurationWeeks,
		Sessions:        sessionRowsFromInput(input.Sessions),
	}

	programs, err := ps.programRepo.Create(ctx, nil, []*types.WorkoutProgram{program})
	if err != nil {
		return nil, fmt.Errorf("Failed to create program: %w", err)
	}
	return programs[0], nil
}

func (ps *programService) List(ctx context.Context, trainerID uuid.UUID) ([]*types.WorkoutProgram, error) {
	programs, err := ps.programRepo.ListVisibleToTrainer(ctx, nil, trainerID)
	if err != nil {
		return nil, fmt.Errorf("Failed to list programs: %w", err)
	}
	return programs, nil
}

func (ps *programService) loadVisibleProgram(ctx context.Context, trainerID, programID uuid.UUID) (*types.WorkoutProgram, error) {
	programs, err := ps.programRepo.GetByIDs(ctx, nil, []uuid.UUID{programID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load program: %w", err)
	}
	if len(programs) == 0 {
		return nil, apierr.NotFound("Program not found")
	}
	program := programs[0]
	if !program.IsDefault && (program.TrainerID == nil || *program.TrainerID != trainerID) {
		return nil, apierr.Forbidden("You do not have access to this program")
	}
	return program, nil
}

func (ps *programService) Get(ctx context.Context, trainerID, programID uuid.UUID) (*types.WorkoutProgram, error) {
	return ps.loadVisibleProgram(ctx, trainerID, programID)
}

func (ps *programService) Update(ctx context.Context, trainerID, programID uuid.UUID, input UpdateProgramInput) (*types.WorkoutProgram, error) {
	program, err := ps.loadVisibleProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}
	// Defaults are shared; clone before editing.
	if program.TrainerID == nil || *program.TrainerID != trainerID {
		return nil, apierr.Forbidden("Default programs cannot be edited, clone first")
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.DurationWeeks != nil {
		fields["duration_weeks"] = *input.DurationWeeks
	}

	err = ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := ps.programRepo.Update(ctx, tx, program.ID, fields); err != nil {
				return fmt.Errorf("Failed to update program: %w", err)
			}
		}
		if input.Sessions != nil {
			if err := validateProgramSessions(input.Sessions, program.SessionsPerWeek); err != nil {
				return err
			}
			if err := ps.programRepo.ReplaceSessions(ctx, tx, program.ID, sessionRowsFromInput(input.Sessions)); err != nil {
				return fmt.Errorf("Failed to replace program sessions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	programs, err := ps.programRepo.GetByIDs(ctx, nil, []uuid.UUID{program.ID})
	if err != nil || len(programs) == 0 {
		return program, nil
	}
	return programs[0], nil
}

func (ps *programService) Delete(ctx context.Context, trainerID, programID uuid.UUID) error {
	program, err := ps.loadVisibleProgram(ctx, trainerID, programID)
	if err != nil {
		return err
	}
	if program.TrainerID == nil || *program.TrainerID != trainerID {
		return apierr.Forbidden("Default programs cannot be deleted")
	}
	if err := ps.programRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{program.ID}); err != nil {
		return fmt.Errorf("Failed to delete program: %w", err)
	}
	return nil
}

func (ps *programService) Clone(ctx context.Context, trainerID, programID uuid.UUID) (*types.WorkoutProgram, error) {
	source, err := ps.loadVisibleProgram(ctx, trainerID, programID)
	if err != nil {
		return nil, err
	}

	copySessions := make([]*types.ProgramSession, 0, len(source.Sessions))
	for _, session := range source.Sessions {
		copySessions = append(copySessions, &types.ProgramSession{
			DayNumber: session.DayNumber,
			Name:      session.Name,
			Focus:     session.Focus,
			Notes:     session.Notes,
		})
	}

	clone := &types.WorkoutProgram{
		TrainerID:       &trainerID,
		Name:            source.Name + " (copy)",
		Description:     source.Description,
		SessionsPerWeek: source.SessionsPerWeek,
		DurationWeeks:   source.DurationWeeks,
		Sessions:        copySessions,
	}

	programs, err := ps.programRepo.Create(ctx, nil, []*types.WorkoutProgram{clone})
	if err != nil {
		return nil, fmt.Errorf("Failed to clone program: %w", err)
	}
	return programs[0], nil
}
