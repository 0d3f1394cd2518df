package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CristianCureu/fitness-app-api/internal/logger"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return log
}

func TestCalculateClientStatsNoHistory(t *testing.T) {
	svc := NewStatsService(nil, testLogger(t), &fakeSessionRepo{}, &fakeCheckinRepo{}, &fakeClientProgramRepo{})

	stats, err := svc.CalculateClientStats(context.Background(), nil, uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CompletionRate != 0 || stats.PainFrequency != 0 || stats.AvgNutritionScore != 0 {
		t.Fatalf("rate fields should be zero with no history: %+v", stats)
	}
	if stats.WeeksSinceStart != 0 {
		t.Fatalf("weeks_since_start should be 0 without an assignment, got %d", stats.WeeksSinceStart)
	}
	if stats.TotalSessions != 0 || stats.Consistency != 0 {
		t.Fatalf("session counts should be zero with no history: %+v", stats)
	}
}

func TestCalculateClientStatsCountsWindow(t *testing.T) {
	clientID := uuid.New()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	sessionRepo := &fakeSessionRepo{}
	for i, status := range []string{
		types.SessionCompleted,
		types.SessionCompleted,
		types.SessionCompleted,
		types.SessionCancelled,
		types.SessionNoShow,
		types.SessionScheduled,
	} {
		sessionRepo.sessions = append(sessionRepo.sessions, &types.ScheduledSession{
			ID:       uuid.New(),
			ClientID: clientID,
			Status:   status,
			StartAt:  now.AddDate(0, 0, -(i + 1)),
		})
	}

	checkinRepo := &fakeCheckinRepo{}
	for i, c := range []struct {
		pain      bool
		nutrition int
	}{
		{true, 8},
		{false, 6},
		{false, 7},
		{false, 9},
	} {
		checkinRepo.checkins = append(checkinRepo.checkins, &types.DailyCheckin{
			ClientID:       clientID,
			Date:           now.AddDate(0, 0, -(i + 1)),
			PainAtTraining: c.pain,
			NutritionScore: c.nutrition,
		})
	}

	programRepo := &fakeClientProgramRepo{assignment: &types.ClientProgram{
		ClientID:  clientID,
		StartDate: now.AddDate(0, 0, -42),
	}}

	svc := NewStatsService(nil, testLogger(t), sessionRepo, checkinRepo, programRepo)
	stats, err := svc.CalculateClientStats(context.Background(), nil, clientID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalSessions != 6 {
		t.Fatalf("total sessions = %d, want 6", stats.TotalSessions)
	}
	if stats.CompletedSessions != 3 || stats.CancelledSessions != 1 || stats.NoShowSessions != 1 {
		t.Fatalf("status counts wrong: %+v", stats)
	}
	if stats.CompletionRate != 50 {
		t.Fatalf("completion rate = %v, want 50", stats.CompletionRate)
	}
	if stats.Consistency != 1.5 {
		t.Fatalf("consistency = %v, want 1.5", stats.Consistency)
	}
	if stats.PainFrequency != 25 {
		t.Fatalf("pain frequency = %v, want 25", stats.PainFrequency)
	}
	if stats.AvgNutritionScore != 7.5 {
		t.Fatalf("avg nutrition = %v, want 7.5", stats.AvgNutritionScore)
	}
	// 42 days since start is 6 whole weeks.
	if stats.WeeksSinceStart != 6 {
		t.Fatalf("weeks since start = %d, want 6", stats.WeeksSinceStart)
	}
}

func TestWholeWeeksBetween(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 0},
		{6, 0},
		{7, 1},
		{13, 1},
		{28, 4},
	}
	for _, tc := range cases {
		start := now.AddDate(0, 0, -tc.daysAgo)
		if got := wholeWeeksBetween(start, now); got != tc.want {
			t.Fatalf("wholeWeeksBetween(%d days) = %d, want %d", tc.daysAgo, got, tc.want)
		}
	}
}
