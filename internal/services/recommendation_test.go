package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/types"
)

type recFixture struct {
	svc        RecommendationService
	trainerID  uuid.UUID
	clientID   uuid.UUID
	programs   *fakeProgramRepo
	assignment *fakeClientProgramRepo
	recLog     *fakeRecLogRepo
}

func newRecFixture(t *testing.T, goal string) *recFixture {
	t.Helper()
	trainerID := uuid.New()
	clientID := uuid.New()

	clientRepo := &fakeClientProfileRepo{profiles: []*types.ClientProfile{{
		ID:              clientID,
		UserID:          uuid.New(),
		TrainerID:       trainerID,
		GoalDescription: goal,
	}}}
	programs := &fakeProgramRepo{programs: []*types.WorkoutProgram{
		{ID: uuid.New(), Name: "Strength Foundation", SessionsPerWeek: 3, DurationWeeks: intPtr(12), IsDefault: true},
		{ID: uuid.New(), Name: "Fat Loss Circuit", SessionsPerWeek: 4, DurationWeeks: intPtr(8), IsDefault: true},
		{ID: uuid.New(), Name: "Upper/Lower Split", SessionsPerWeek: 4, DurationWeeks: intPtr(12), IsDefault: true},
		{ID: uuid.New(), Name: "PPL 6x", SessionsPerWeek: 6, DurationWeeks: intPtr(12), IsDefault: true},
	}}
	assignment := &fakeClientProgramRepo{}
	recLog := &fakeRecLogRepo{}

	classifier, err := NewGoalClassifier("ro")
	if err != nil {
		t.Fatalf("classifier init: %v", err)
	}
	statsService := NewStatsService(nil, testLogger(t), &fakeSessionRepo{}, &fakeCheckinRepo{}, assignment)
	svc := NewRecommendationService(nil, testLogger(t), clientRepo, programs, assignment, recLog, statsService, classifier, DefaultScoringWeights)

	return &recFixture{
		svc:        svc,
		trainerID:  trainerID,
		clientID:   clientID,
		programs:   programs,
		assignment: assignment,
		recLog:     recLog,
	}
}

func TestGenerateRecommendationsTopThreeSorted(t *testing.T) {
	fx := newRecFixture(t, "forță")

	result, err := fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, fx.clientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(result.Recommendations))
	}
	for i := 1; i < len(result.Recommendations); i++ {
		if result.Recommendations[i].Score > result.Recommendations[i-1].Score {
			t.Fatalf("recommendations not sorted desc: %v then %v",
				result.Recommendations[i-1].Score, result.Recommendations[i].Score)
		}
	}
}

func TestGenerateRecommendationsExcludesCurrentProgram(t *testing.T) {
	fx := newRecFixture(t, "forță")
	current := fx.programs.programs[0]
	fx.assignment.assignment = &types.ClientProgram{
		ClientID:  fx.clientID,
		ProgramID: current.ID,
		Program:   current,
		StartDate: time.Now().AddDate(0, 0, -70),
	}

	result, err := fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, fx.clientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, rec := range result.Recommendations {
		if rec.ProgramID == current.ID {
			t.Fatalf("current program was recommended")
		}
	}
	if result.CurrentProgram == nil || result.CurrentProgram.ProgramID != current.ID {
		t.Fatalf("current program summary missing: %+v", result.CurrentProgram)
	}
}

func TestGenerateRecommendationsLowConfidenceWithThinHistory(t *testing.T) {
	fx := newRecFixture(t, "forță")

	result, err := fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, fx.clientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// No sessions at all, so every recommendation is LOW regardless of score.
	for _, rec := range result.Recommendations {
		if rec.Confidence != ConfidenceLow {
			t.Fatalf("confidence = %s for %s, want LOW", rec.Confidence, rec.ProgramName)
		}
	}
}

func TestGenerateRecommendationsForeignClient(t *testing.T) {
	fx := newRecFixture(t, "forță")

	_, err := fx.svc.GenerateRecommendations(context.Background(), uuid.New(), fx.clientID)
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, uuid.New())
	if !errors.As(err, &apiErr) || apiErr.Status != 404 {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGenerateRecommendationsWritesLog(t *testing.T) {
	fx := newRecFixture(t, "forță")

	result, err := fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, fx.clientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.recLog.entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(fx.recLog.entries))
	}
	entry := fx.recLog.entries[0]
	if entry.RecommendedProgramID != result.Recommendations[0].ProgramID {
		t.Fatalf("log entry references %v, want top recommendation %v",
			entry.RecommendedProgramID, result.Recommendations[0].ProgramID)
	}
}

func TestRecordFeedbackAcceptance(t *testing.T) {
	fx := newRecFixture(t, "forță")

	if _, err := fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, fx.clientID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recommended := fx.recLog.entries[0].RecommendedProgramID

	if err := fx.svc.RecordFeedback(context.Background(), nil, fx.clientID, recommended, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.recLog.updates) != 1 {
		t.Fatalf("got %d updates, want 1", len(fx.recLog.updates))
	}
	if accepted, _ := fx.recLog.updates[0]["trainer_accepted"].(bool); !accepted {
		t.Fatalf("expected trainer_accepted = true")
	}
	if _, present := fx.recLog.updates[0]["trainer_selected_program_id"]; present {
		t.Fatalf("accepted feedback should not record a different selection")
	}

	// The entry is no longer pending; recording again is a no-op.
	if err := fx.svc.RecordFeedback(context.Background(), nil, fx.clientID, recommended, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fx.recLog.updates) != 1 {
		t.Fatalf("feedback applied twice to the same entry")
	}
}

func TestRecordFeedbackRejection(t *testing.T) {
	fx := newRecFixture(t, "forță")

	if _, err := fx.svc.GenerateRecommendations(context.Background(), fx.trainerID, fx.clientID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	other := uuid.New()
	note := "prefer mai puțin volum"
	if err := fx.svc.RecordFeedback(context.Background(), nil, fx.clientID, other, &note); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	update := fx.recLog.updates[0]
	if accepted, _ := update["trainer_accepted"].(bool); accepted {
		t.Fatalf("expected trainer_accepted = false")
	}
	if update["trainer_selected_program_id"] != other {
		t.Fatalf("selected program not recorded: %v", update["trainer_selected_program_id"])
	}
	if update["trainer_feedback"] != note {
		t.Fatalf("feedback note not recorded: %v", update["trainer_feedback"])
	}
}

func TestRecordFeedbackWithoutPendingEntry(t *testing.T) {
	fx := newRecFixture(t, "forță")
	if err := fx.svc.RecordFeedback(context.Background(), nil, fx.clientID, uuid.New(), nil); err != nil {
		t.Fatalf("expected nil error with no pending entry, got %v", err)
	}
	if len(fx.recLog.updates) != 0 {
		t.Fatalf("no update expected without a pending entry")
	}
}
