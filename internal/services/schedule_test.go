package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

func templatesABC(programID uuid.UUID) []*types.ProgramSession {
	return []*types.ProgramSession{
		{ID: uuid.New(), ProgramID: programID, DayNumber: 1, Name: "Day A", Focus: "FULL_BODY"},
		{ID: uuid.New(), ProgramID: programID, DayNumber: 2, Name: "Day B", Focus: "UPPER"},
		{ID: uuid.New(), ProgramID: programID, DayNumber: 3, Name: "Day C", Focus: "LOWER"},
	}
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"monday stays", time.Date(2026, 8, 31, 14, 30, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"wednesday rewinds", time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
		{"sunday rewinds six days", time.Date(2026, 9, 6, 23, 0, 0, 0, time.UTC), time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := startOfWeek(tc.in); !got.Equal(tc.want) {
				t.Fatalf("startOfWeek(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestBuildSessionCalendarRotation(t *testing.T) {
	programID := uuid.New()
	program := &types.WorkoutProgram{
		ID:              programID,
		Name:            "Full Body 3x",
		SessionsPerWeek: 3,
		Sessions:        templatesABC(programID),
	}
	clientID := uuid.New()
	trainerID := uuid.New()
	// Tuesday 18:00.
	startDate := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	trainingDays := []string{types.Monday, types.Wednesday, types.Friday}
	offsets := []int{0, 2, 4}

	rows := buildSessionCalendar(program, clientID, trainerID, trainingDays, offsets, startDate, 12)

	if len(rows) != 36 {
		t.Fatalf("got %d rows, want 36", len(rows))
	}

	// Flat round-robin: A, B, C, A, B, C...
	wantNames := []string{"Day A", "Day B", "Day C"}
	for i, row := range rows {
		if row.SessionName != wantNames[i%3] {
			t.Fatalf("row %d name = %s, want %s", i, row.SessionName, wantNames[i%3])
		}
		if row.Status != types.SessionScheduled {
			t.Fatalf("row %d status = %s", i, row.Status)
		}
		if !row.AutoRecommended {
			t.Fatalf("row %d should be auto-recommended", i)
		}
		if row.StartAt.Hour() != 18 || row.StartAt.Minute() != 0 {
			t.Fatalf("row %d did not carry time of day: %v", i, row.StartAt)
		}
	}

	// First week lands on Mon/Wed/Fri of the start week.
	if rows[0].StartAt.Weekday() != time.Monday {
		t.Fatalf("first session weekday = %v, want Monday", rows[0].StartAt.Weekday())
	}
	if rows[1].StartAt.Weekday() != time.Wednesday {
		t.Fatalf("second session weekday = %v, want Wednesday", rows[1].StartAt.Weekday())
	}
	if rows[2].StartAt.Weekday() != time.Friday {
		t.Fatalf("third session weekday = %v, want Friday", rows[2].StartAt.Weekday())
	}

	// Last week is 11 weeks after the first.
	gap := rows[33].StartAt.Sub(rows[0].StartAt)
	if gap != 11*7*24*time.Hour {
		t.Fatalf("last week offset = %v, want 11 weeks", gap)
	}
}

func TestGenerateScheduledSessionsValidation(t *testing.T) {
	programID := uuid.New()
	program := &types.WorkoutProgram{
		ID:              programID,
		Name:            "Full Body 3x",
		SessionsPerWeek: 3,
		Sessions:        templatesABC(programID),
	}
	clientID := uuid.New()
	svc := NewScheduleService(nil, testLogger(t), &fakeSessionRepo{}, &fakeClientProfileRepo{}, &fakeClientProgramRepo{})
	tx := &gorm.DB{}

	assignment := &types.ClientProgram{ClientID: clientID, ProgramID: programID, Program: program}
	if err := assignment.SetTrainingDays([]string{types.Monday, types.Wednesday}); err != nil {
		t.Fatalf("set training days: %v", err)
	}
	err := svc.GenerateScheduledSessions(context.Background(), tx, clientID, uuid.New(), assignment, time.Now())
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected validation error for day-count mismatch, got %v", err)
	}

	empty := &types.ClientProgram{ClientID: clientID, ProgramID: programID, Program: &types.WorkoutProgram{ID: programID, SessionsPerWeek: 3}}
	if err := empty.SetTrainingDays([]string{types.Monday, types.Wednesday, types.Friday}); err != nil {
		t.Fatalf("set training days: %v", err)
	}
	err = svc.GenerateScheduledSessions(context.Background(), tx, clientID, uuid.New(), empty, time.Now())
	if !errors.As(err, &apiErr) || apiErr.Status != 400 {
		t.Fatalf("expected validation error for empty templates, got %v", err)
	}
}

func TestGenerateScheduledSessionsRegenerates(t *testing.T) {
	programID := uuid.New()
	program := &types.WorkoutProgram{
		ID:              programID,
		Name:            "Full Body 3x",
		SessionsPerWeek: 3,
		DurationWeeks:   intPtr(8),
		Sessions:        templatesABC(programID),
	}
	clientID := uuid.New()
	startDate := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)

	sessionRepo := &fakeSessionRepo{}
	// A stale future SCHEDULED row that regeneration must clear.
	sessionRepo.sessions = append(sessionRepo.sessions, &types.ScheduledSession{
		ID:       uuid.New(),
		ClientID: clientID,
		Status:   types.SessionScheduled,
		StartAt:  startDate.AddDate(0, 0, 3),
	})
	// Completed history must survive.
	completed := &types.ScheduledSession{
		ID:       uuid.New(),
		ClientID: clientID,
		Status:   types.SessionCompleted,
		StartAt:  startDate.AddDate(0, 0, -3),
	}
	sessionRepo.sessions = append(sessionRepo.sessions, completed)

	svc := NewScheduleService(nil, testLogger(t), sessionRepo, &fakeClientProfileRepo{}, &fakeClientProgramRepo{})

	assignment := &types.ClientProgram{ClientID: clientID, ProgramID: programID, Program: program, StartDate: startDate}
	if err := assignment.SetTrainingDays([]string{types.Monday, types.Wednesday, types.Friday}); err != nil {
		t.Fatalf("set training days: %v", err)
	}

	if err := svc.GenerateScheduledSessions(context.Background(), &gorm.DB{}, clientID, uuid.New(), assignment, startDate); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sessionRepo.created) != 24 {
		t.Fatalf("created %d rows, want 24 (8 weeks x 3 days)", len(sessionRepo.created))
	}
	// 24 generated + the completed row; the stale future one is gone.
	if len(sessionRepo.sessions) != 25 {
		t.Fatalf("repo holds %d rows, want 25", len(sessionRepo.sessions))
	}
	found := false
	for _, s := range sessionRepo.sessions {
		if s.ID == completed.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("completed history row was deleted")
	}
}

func TestGenerateScheduledSessionsMidWeekRestart(t *testing.T) {
	programID := uuid.New()
	program := &types.WorkoutProgram{
		ID:              programID,
		Name:            "Full Body 3x",
		SessionsPerWeek: 3,
		DurationWeeks:   intPtr(8),
		Sessions:        templatesABC(programID),
	}
	clientID := uuid.New()
	trainerID := uuid.New()

	sessionRepo := &fakeSessionRepo{}
	svc := NewScheduleService(nil, testLogger(t), sessionRepo, &fakeClientProfileRepo{}, &fakeClientProgramRepo{})

	assignment := &types.ClientProgram{ClientID: clientID, ProgramID: programID, Program: program}
	if err := assignment.SetTrainingDays([]string{types.Monday, types.Wednesday, types.Friday}); err != nil {
		t.Fatalf("set training days: %v", err)
	}

	// Initial generation on Monday morning.
	monday := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	if err := svc.GenerateScheduledSessions(context.Background(), &gorm.DB{}, clientID, trainerID, assignment, monday); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Training days change mid-week; regeneration starts from Wednesday.
	// The first week's Monday row must not survive next to its replacement.
	wednesday := time.Date(2026, 9, 2, 11, 0, 0, 0, time.UTC)
	if err := svc.GenerateScheduledSessions(context.Background(), &gorm.DB{}, clientID, trainerID, assignment, wednesday); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sessionRepo.sessions) != 24 {
		t.Fatalf("repo holds %d rows after regeneration, want 24", len(sessionRepo.sessions))
	}
	seen := map[string]time.Time{}
	for _, s := range sessionRepo.sessions {
		if s.Status != types.SessionScheduled {
			continue
		}
		day := s.StartAt.Format("2006-01-02")
		if prev, ok := seen[day]; ok {
			t.Fatalf("duplicate sessions on %s: %v and %v", day, prev.Format("15:04"), s.StartAt.Format("15:04"))
		}
		seen[day] = s.StartAt
	}
}

func TestListDefaultsReportedLimit(t *testing.T) {
	trainerID := uuid.New()
	sessionRepo := &fakeSessionRepo{}
	svc := NewScheduleService(nil, testLogger(t), sessionRepo, &fakeClientProfileRepo{}, &fakeClientProgramRepo{})

	page, err := svc.List(context.Background(), trainerID, types.RoleTrainer, ListSessionsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionRepo.lastFilter.Limit != 50 {
		t.Fatalf("queried limit = %d, want 50", sessionRepo.lastFilter.Limit)
	}
	if page.Limit != sessionRepo.lastFilter.Limit {
		t.Fatalf("page reports limit %d, query used %d", page.Limit, sessionRepo.lastFilter.Limit)
	}

	history, err := svc.GetHistory(context.Background(), trainerID, types.RoleTrainer, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sessionRepo.lastFilter.Limit != 20 {
		t.Fatalf("queried history limit = %d, want 20", sessionRepo.lastFilter.Limit)
	}
	if history.Limit != sessionRepo.lastFilter.Limit {
		t.Fatalf("history reports limit %d, query used %d", history.Limit, sessionRepo.lastFilter.Limit)
	}
}

func TestUpdateStatusClearsCompletedAt(t *testing.T) {
	trainerID := uuid.New()
	completedAt := time.Date(2026, 9, 7, 10, 0, 0, 0, time.UTC)
	session := &types.ScheduledSession{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		TrainerID:   trainerID,
		Status:      types.SessionCompleted,
		StartAt:     completedAt,
		CompletedAt: &completedAt,
	}
	sessionRepo := &fakeSessionRepo{sessions: []*types.ScheduledSession{session}}
	svc := NewScheduleService(nil, testLogger(t), sessionRepo, &fakeClientProfileRepo{}, &fakeClientProgramRepo{})

	updated, err := svc.UpdateStatus(context.Background(), session.ID, trainerID, types.RoleTrainer, types.SessionScheduled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessionRepo.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(sessionRepo.updates))
	}
	if at, present := sessionRepo.updates[0]["completed_at"]; !present || at != nil {
		t.Fatalf("completed_at not cleared in update: %v", sessionRepo.updates[0])
	}
	if updated.CompletedAt != nil {
		t.Fatalf("reverted session still carries completed_at %v", updated.CompletedAt)
	}
}

func TestEnforceSessionLimits(t *testing.T) {
	clientID := uuid.New()
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	newService := func(existing ...time.Time) ScheduleService {
		repo := &fakeSessionRepo{}
		for _, at := range existing {
			repo.sessions = append(repo.sessions, &types.ScheduledSession{
				ID:       uuid.New(),
				ClientID: clientID,
				Status:   types.SessionScheduled,
				StartAt:  at,
			})
		}
		return NewScheduleService(nil, testLogger(t), repo, &fakeClientProfileRepo{}, &fakeClientProgramRepo{})
	}

	t.Run("interval too small", func(t *testing.T) {
		svc := newService(day.Add(9 * time.Hour))
		err := svc.EnforceSessionLimits(context.Background(), nil, clientID, day.Add(10*time.Hour))
		var apiErr *apierr.Error
		if !errors.As(err, &apiErr) || apiErr.Status != 409 {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("two hours exactly is allowed", func(t *testing.T) {
		svc := newService(day.Add(9 * time.Hour))
		if err := svc.EnforceSessionLimits(context.Background(), nil, clientID, day.Add(11*time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("day limit reached", func(t *testing.T) {
		svc := newService(day.Add(9*time.Hour), day.Add(11*time.Hour+30*time.Minute))
		err := svc.EnforceSessionLimits(context.Background(), nil, clientID, day.Add(18*time.Hour))
		var apiErr *apierr.Error
		if !errors.As(err, &apiErr) || apiErr.Status != 409 {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("next day is free", func(t *testing.T) {
		svc := newService(day.Add(9*time.Hour), day.Add(11*time.Hour+30*time.Minute))
		if err := svc.EnforceSessionLimits(context.Background(), nil, clientID, day.AddDate(0, 0, 1).Add(9*time.Hour)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
