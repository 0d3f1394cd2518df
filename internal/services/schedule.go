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

const (
	maxSessionsPerDay           = 2
	minSessionIntervalHours     = 2
	defaultProgramDurationWeeks = 12
)

var weekdayOffsets = map[string]int{
	types.Monday:    0,
	types.Tuesday:   1,
	types.Wednesday: 2,
	types.Thursday:  3,
	types.Friday:    4,
	types.Saturday:  5,
	types.Sunday:    6,
}

type CreateSessionInput struct {
	ClientID        uuid.UUID
	SessionName     string
	SessionType     string
	StartAt         time.Time
	EndAt           *time.Time
	AutoRecommended bool
}

type CreateClientSessionInput struct {
	StartAt time.Time
	EndAt   *time.Time
}

type SessionSuggestion struct {
	SessionName string `json:"session_name"`
	SessionType string `json:"session_type"`
}

type ListSessionsQuery struct {
	ClientID  uuid.UUID
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

type SessionPage struct {
	Data   []*types.ScheduledSession `json:"data"`
	Total  int64                     `json:"total"`
	Offset int                       `json:"offset"`
	Limit  int                       `json:"limit"`
}

type WeekCalendar struct {
	WeekStart time.Time                 `json:"week_start"`
	WeekEnd   time.Time                 `json:"week_end"`
	Sessions  []*types.ScheduledSession `json:"sessions"`
}

type ScheduleService interface {
	Create(ctx context.Context, trainerID uuid.UUID, input CreateSessionInput) (*types.ScheduledSession, error)
	CreateForClient(ctx context.Context, userID uuid.UUID, input CreateClientSessionInput) (*types.ScheduledSession, error)
	GetClientSuggestion(ctx context.Context, userID uuid.UUID) (*SessionSuggestion, error)
	List(ctx context.Context, userID uuid.UUID, role string, query ListSessionsQuery) (*SessionPage, error)
	UpdateStatus(ctx context.Context, sessionID, userID uuid.UUID, role, status string) (*types.ScheduledSession, error)
	Complete(ctx context.Context, sessionID, userID uuid.UUID, role string, notes *string) (*types.ScheduledSession, error)
	Remove(ctx context.Context, sessionID, trainerID uuid.UUID) error
	GetWeekCalendar(ctx context.Context, userID uuid.UUID, role string, date time.Time) (*WeekCalendar, error)
	GetUpcoming(ctx context.Context, userID uuid.UUID, role string, limit int) ([]*types.ScheduledSession, error)
	GetHistory(ctx context.Context, userID uuid.UUID, role string, limit, offset int) (*SessionPage, error)
	// EnforceSessionLimits applies the per-day count and minimum-interval
	// invariants; violations are Conflict errors, never silent adjustments.
	EnforceSessionLimits(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, startAt time.Time) error
	// GenerateScheduledSessions expands an assignment into dated SCHEDULED
	// rows across the program duration, deleting future SCHEDULED rows first
	// so regeneration never duplicates.
	GenerateScheduledSessions(ctx context.Context, tx *gorm.DB, clientID, trainerID uuid.UUID, assignment *types.ClientProgram, startDate time.Time) error
}

type scheduleService struct {
	db                *gorm.DB
	log               *logger.Logger
	sessionRepo       repos.ScheduledSessionRepo
	clientRepo        repos.ClientProfileRepo
	clientProgramRepo repos.ClientProgramRepo
}

func NewScheduleService(db *gorm.DB, log *logger.Logger, sessionRepo repos.ScheduledSessionRepo, clientRepo repos.ClientProfileRepo, clientProgramRepo repos.ClientProgramRepo) ScheduleService {
	serviceLog := log.With("service", "ScheduleService")
	return &scheduleService{
		db:                db,
		log:               serviceLog,
		sessionRepo:       sessionRepo,
		clientRepo:        clientRepo,
		clientProgramRepo: clientProgramRepo,
	}
}

func (ss *scheduleService) EnforceSessionLimits(ctx context.Context, tx *gorm.DB, clientID uuid.UUID, startAt time.Time) error {
	dayStart := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	sameDaySessions, err := ss.sessionRepo.ListScheduledForDay(ctx, tx, clientID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("Failed to load same-day sessions: %w", err)
	}

	if len(sameDaySessions) >= maxSessionsPerDay {
		return apierr.Conflict("Max %d sesiuni pe zi.", maxSessionsPerDay)
	}

	minInterval := minSessionIntervalHours * time.Hour
	for _, session := range sameDaySessions {
		diff := session.StartAt.Sub(startAt)
		if diff < 0 {
			diff = -diff
		}
		if diff < minInterval {
			return apierr.Conflict("Pastreaza un interval de minim %d ore intre sesiuni.", minSessionIntervalHours)
		}
	}
	return nil
}

// nextProgramSession picks the next template by round-robin on the client's
// current SCHEDULED count, independent of calendar date.
func (ss *scheduleService) nextProgramSession(ctx context.Context, tx *gorm.DB, clientID uuid.UUID) (*types.ProgramSession, error) {
	assignment, err := ss.clientProgramRepo.GetByClientID(ctx, tx, clientID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client program: %w", err)
	}
	if assignment == nil || assignment.Program == nil || len(assignment.Program.Sessions) == 0 {
		return nil, apierr.NotFound("No active program sessions found")
	}

	scheduledCount, err := ss.sessionRepo.CountScheduled(ctx, tx, clientID)
	if err != nil {
		return nil, fmt.Errorf("Failed to count scheduled sessions: %w", err)
	}

	sessions := assignment.Program.Sessions
	return sessions[int(scheduledCount)%len(sessions)], nil
}

func (ss *scheduleService) Create(ctx context.Context, trainerID uuid.UUID, input CreateSessionInput) (*types.ScheduledSession, error) {
	clients, err := ss.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{input.ClientID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load client: %w", err)
	}
	if len(clients) == 0 {
		return nil, apierr.NotFound("Client not found")
	}
	if clients[0].TrainerID != trainerID {
		return nil, apierr.Forbidden("You can only schedule sessions for your own clients")
	}

	var created *types.ScheduledSession
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.EnforceSessionLimits(ctx, tx, input.ClientID, input.StartAt); err != nil {
			return err
		}
		row := &types.ScheduledSession{
			ClientID:        input.ClientID,
			TrainerID:       trainerID,
			SessionName:     input.SessionName,
			SessionType:     input.SessionType,
			StartAt:         input.StartAt,
			EndAt:           input.EndAt,
			Status:          types.SessionScheduled,
			AutoRecommended: input.AutoRecommended,
		}
		rows, err := ss.sessionRepo.Create(ctx, tx, []*types.ScheduledSession{row})
		if err != nil {
			return fmt.Errorf("Failed to create scheduled session: %w", err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ss *scheduleService) CreateForClient(ctx context.Context, userID uuid.UUID, input CreateClientSessionInput) (*types.ScheduledSession, error) {
	profile, err := ss.clientRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.NotFound("Client profile not found")
	}

	var created *types.ScheduledSession
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.EnforceSessionLimits(ctx, tx, profile.ID, input.StartAt); err != nil {
			return err
		}
		suggestion, err := ss.nextProgramSession(ctx, tx, profile.ID)
		if err != nil {
			return err
		}
		row := &types.ScheduledSession{
			ClientID:        profile.ID,
			TrainerID:       profile.TrainerID,
			SessionName:     suggestion.Name,
			SessionType:     suggestion.Focus,
			StartAt:         input.StartAt,
			EndAt:           input.EndAt,
			Status:          types.SessionScheduled,
			AutoRecommended: true,
		}
		rows, err := ss.sessionRepo.Create(ctx, tx, []*types.ScheduledSession{row})
		if err != nil {
			return fmt.Errorf("Failed to create scheduled session: %w", err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ss *scheduleService) GetClientSuggestion(ctx context.Context, userID uuid.UUID) (*SessionSuggestion, error) {
	profile, err := ss.clientRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("Failed to load client profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.NotFound("Client profile not found")
	}

	next, err := ss.nextProgramSession(ctx, nil, profile.ID)
	if err != nil {
		return nil, err
	}
	return &SessionSuggestion{SessionName: next.Name, SessionType: next.Focus}, nil
}

func (ss *scheduleService) List(ctx context.Context, userID uuid.UUID, role string, query ListSessionsQuery) (*SessionPage, error) {
	filter := repos.ScheduledSessionFilter{
		Status:    query.Status,
		StartFrom: query.StartDate,
		StartTo:   query.EndDate,
		Offset:    query.Offset,
		Limit:     query.Limit,
	}

	if role == types.RoleTrainer {
		if query.ClientID != uuid.Nil {
			clients, err := ss.clientRepo.GetByIDs(ctx, nil, []uuid.UUID{query.ClientID})
			if err != nil {
				return nil, fmt.Errorf("Failed to load client: %w", err)
			}
			if len(clients) == 0 || clients[0].TrainerID != userID {
				return nil, apierr.Forbidden("You can only view sessions for your own clients")
			}
			filter.ClientID = query.ClientID
		} else {
			filter.TrainerID = userID
		}
	} else {
		profile, err := ss.clientRepo.GetByUserID(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("Failed to load client profile: %w", err)
		}
		if profile == nil {
			return nil, apierr.NotFound("Client profile not found")
		}
		filter.ClientID = profile.ID
	}

	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	rows, total, err := ss.sessionRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to list sessions: %w", err)
	}
	return &SessionPage{Data: rows, Total: total, Offset: query.Offset, Limit: filter.Limit}, nil
}

func (ss *scheduleService) loadOwnedSession(ctx context.Context, sessionID, userID uuid.UUID, role string) (*types.ScheduledSession, error) {
	rows, err := ss.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{sessionID})
	if err != nil {
		return nil, fmt.Errorf("Failed to load session: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound("Session not found")
	}
	session := rows[0]

	if role == types.RoleTrainer && session.TrainerID != userID {
		return nil, apierr.Forbidden("You can only update your own sessions")
	}
	if role == types.RoleClient {
		if session.Client == nil || session.Client.UserID != userID {
			return nil, apierr.Forbidden("You can only update your own sessions")
		}
	}
	return session, nil
}

func (ss *scheduleService) UpdateStatus(ctx context.Context, sessionID, userID uuid.UUID, role, status string) (*types.ScheduledSession, error) {
	switch status {
	case types.SessionScheduled, types.SessionCompleted, types.SessionCancelled, types.SessionNoShow:
	default:
		return nil, apierr.Validation("Invalid session status: %s", status)
	}

	session, err := ss.loadOwnedSession(ctx, sessionID, userID, role)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"status": status}
	if status == types.SessionCompleted {
		fields["completed_at"] = time.Now()
	} else {
		// Reverting a completed session must also drop its completion time,
		// otherwise a SCHEDULED row keeps a stale completed_at.
		fields["completed_at"] = nil
	}
	if err := ss.sessionRepo.Update(ctx, nil, session.ID, fields); err != nil {
		return nil, fmt.Errorf("Failed to update session status: %w", err)
	}

	rows, err := ss.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil || len(rows) == 0 {
		return session, nil
	}
	return rows[0], nil
}

func (ss *scheduleService) Complete(ctx context.Context, sessionID, userID uuid.UUID, role string, notes *string) (*types.ScheduledSession, error) {
	session, err := ss.loadOwnedSession(ctx, sessionID, userID, role)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":       types.SessionCompleted,
		"completed_at": time.Now(),
	}
	if notes != nil {
		fields["notes"] = *notes
	}
	if err := ss.sessionRepo.Update(ctx, nil, session.ID, fields); err != nil {
		return nil, fmt.Errorf("Failed to complete session: %w", err)
	}

	rows, err := ss.sessionRepo.GetByIDs(ctx, nil, []uuid.UUID{session.ID})
	if err != nil || len(rows) == 0 {
		return session, nil
	}
	return rows[0], nil
}

func (ss *scheduleService) Remove(ctx context.Context, sessionID, trainerID uuid.UUID) error {
	session, err := ss.loadOwnedSession(ctx, sessionID, trainerID, types.RoleTrainer)
	if err != nil {
		return err
	}
	if err := ss.sessionRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{session.ID}); err != nil {
		return fmt.Errorf("Failed to delete session: %w", err)
	}
	return nil
}

func (ss *scheduleService) GetWeekCalendar(ctx context.Context, userID uuid.UUID, role string, date time.Time) (*WeekCalendar, error) {
	weekStart := startOfWeek(date)
	weekEnd := weekStart.AddDate(0, 0, 7)

	filter := repos.ScheduledSessionFilter{
		StartFrom: &weekStart,
		StartTo:   &weekEnd,
		Limit:     200,
	}
	if role == types.RoleClient {
		profile, err := ss.clientRepo.GetByUserID(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("Failed to load client profile: %w", err)
		}
		if profile == nil {
			return nil, apierr.NotFound("Client profile not found")
		}
		filter.ClientID = profile.ID
		filter.Status = types.SessionScheduled
	} else {
		filter.TrainerID = userID
	}

	rows, _, err := ss.sessionRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to load week calendar: %w", err)
	}
	return &WeekCalendar{WeekStart: weekStart, WeekEnd: weekEnd, Sessions: rows}, nil
}

func (ss *scheduleService) GetUpcoming(ctx context.Context, userID uuid.UUID, role string, limit int) ([]*types.ScheduledSession, error) {
	now := time.Now()
	filter := repos.ScheduledSessionFilter{
		Status:    types.SessionScheduled,
		StartFrom: &now,
		Limit:     limit,
	}
	if role == types.RoleClient {
		profile, err := ss.clientRepo.GetByUserID(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("Failed to load client profile: %w", err)
		}
		if profile == nil {
			return nil, apierr.NotFound("Client profile not found")
		}
		filter.ClientID = profile.ID
	} else {
		filter.TrainerID = userID
	}

	rows, _, err := ss.sessionRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to load upcoming sessions: %w", err)
	}
	return rows, nil
}

func (ss *scheduleService) GetHistory(ctx context.Context, userID uuid.UUID, role string, limit, offset int) (*SessionPage, error) {
	if limit <= 0 {
		limit = 20
	}
	filter := repos.ScheduledSessionFilter{
		Status:  types.SessionCompleted,
		OrderBy: "completed_at DESC",
		Offset:  offset,
		Limit:   limit,
	}
	if role == types.RoleClient {
		profile, err := ss.clientRepo.GetByUserID(ctx, nil, userID)
		if err != nil {
			return nil, fmt.Errorf("Failed to load client profile: %w", err)
		}
		if profile == nil {
			return nil, apierr.NotFound("Client profile not found")
		}
		filter.ClientID = profile.ID
	} else {
		filter.TrainerID = userID
	}

	rows, total, err := ss.sessionRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("Failed to load session history: %w", err)
	}
	return &SessionPage{Data: rows, Total: total, Offset: offset, Limit: limit}, nil
}

func (ss *scheduleService) GenerateScheduledSessions(ctx context.Context, tx *gorm.DB, clientID, trainerID uuid.UUID, assignment *types.ClientProgram, startDate time.Time) error {
	if assignment == nil || assignment.Program == nil {
		return apierr.NotFound("Program not found for assignment")
	}
	program := assignment.Program
	if len(program.Sessions) == 0 {
		return apierr.Validation("Program has no sessions to schedule")
	}

	trainingDays := assignment.TrainingDaysList()
	if len(trainingDays) != program.SessionsPerWeek {
		return apierr.Validation("Expected %d training days, got %d", program.SessionsPerWeek, len(trainingDays))
	}
	offsets := make([]int, len(trainingDays))
	for i, day := range trainingDays {
		offset, ok := weekdayOffsets[day]
		if !ok {
			return apierr.Validation("Unknown training day: %s", day)
		}
		offsets[i] = offset
	}

	durationWeeks := defaultProgramDurationWeeks
	if program.DurationWeeks != nil && *program.DurationWeeks > 0 {
		durationWeeks = *program.DurationWeeks
	}

	rows := buildSessionCalendar(program, clientID, trainerID, trainingDays, offsets, startDate, durationWeeks)

	run := func(tx *gorm.DB) error {
		// Delete-then-insert keeps regeneration idempotent. The delete window
		// must match the insert window, which starts at the Monday of
		// startDate's week; deleting from startDate itself would leave
		// earlier-weekday SCHEDULED rows alive next to their re-inserted
		// copies. Only SCHEDULED rows are removed, so completed and cancelled
		// history is never touched.
		if err := ss.sessionRepo.FullDeleteFutureScheduled(ctx, tx, clientID, startOfWeek(startDate)); err != nil {
			return fmt.Errorf("Failed to clear future scheduled sessions: %w", err)
		}
		if _, err := ss.sessionRepo.Create(ctx, tx, rows); err != nil {
			return fmt.Errorf("Failed to insert generated sessions: %w", err)
		}
		return nil
	}

	if tx != nil {
		return run(tx)
	}
	return ss.db.WithContext(ctx).Transaction(run)
}

// buildSessionCalendar expands the assignment into dated rows. Templates
// rotate round-robin across the chosen weekdays by flat index, not by
// matching weekday to a program day number.
func buildSessionCalendar(program *types.WorkoutProgram, clientID, trainerID uuid.UUID, trainingDays []string, offsets []int, startDate time.Time, durationWeeks int) []*types.ScheduledSession {
	templates := program.Sessions
	weekStart := startOfWeek(startDate)

	rows := make([]*types.ScheduledSession, 0, durationWeeks*len(trainingDays))
	index := 0
	for week := 0; week < durationWeeks; week++ {
		for _, offset := range offsets {
			day := weekStart.AddDate(0, 0, week*7+offset)
			startAt := time.Date(day.Year(), day.Month(), day.Day(),
				startDate.Hour(), startDate.Minute(), 0, 0, startDate.Location())
			template := templates[index%len(templates)]
			rows = append(rows, &types.ScheduledSession{
				ClientID:        clientID,
				TrainerID:       trainerID,
				SessionName:     template.Name,
				SessionType:     template.Focus,
				StartAt:         startAt,
				Status:          types.SessionScheduled,
				AutoRecommended: true,
			})
			index++
		}
	}
	return rows
}

// startOfWeek returns local Monday 00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	diff := weekday - 1
	if weekday == 0 {
		diff = 6
	}
	day := t.AddDate(0, 0, -diff)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, t.Location())
}
