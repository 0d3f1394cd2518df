package services

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/CristianCureu/fitness-app-api/internal/types"
)

func intPtr(v int) *int { return &v }

func testProgram(name string, sessionsPerWeek int) *types.WorkoutProgram {
	return &types.WorkoutProgram{
		ID:              uuid.New(),
		Name:            name,
		SessionsPerWeek: sessionsPerWeek,
		DurationWeeks:   intPtr(12),
	}
}

func TestScoreProgramBounds(t *testing.T) {
	cases := []struct {
		name  string
		stats ClientStats
	}{
		{"perfect history", ClientStats{CompletionRate: 95, Consistency: 3, PainFrequency: 0, AvgNutritionScore: 9, WeeksSinceStart: 11, TotalSessions: 12}},
		{"no history", ClientStats{}},
		{"poor history", ClientStats{CompletionRate: 20, Consistency: 0.5, PainFrequency: 60, AvgNutritionScore: 2, WeeksSinceStart: 1, TotalSessions: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := scoreProgram(testProgram("Strength 3x", 3), GoalStrength, &tc.stats, DefaultScoringWeights)
			if rec.Score < 0 || rec.Score > 100 {
				t.Fatalf("score out of range: %v", rec.Score)
			}
			rounded := math.Round(rec.Score*10) / 10
			if rec.Score != rounded {
				t.Fatalf("score not rounded to one decimal: %v", rec.Score)
			}
		})
	}
}

func TestScoreProgramWeightsSumToOne(t *testing.T) {
	w := DefaultScoringWeights
	sum := w.CompletionRate + w.Consistency + w.PainFrequency + w.GoalAlignment + w.TimeInProgram + w.NutritionScore
	if math.Abs(sum-1.0) > 1e-9 {
		t.Fatalf("weights sum to %v, want 1.0", sum)
	}
}

func TestScoreCompletionRateTiers(t *testing.T) {
	cases := []struct {
		rate     float64
		spw      int
		want     float64
		warnings int
	}{
		{90, 3, 1.0, 0},
		{80, 3, 0.85, 0},
		{65, 3, 0.6, 0},
		{65, 5, 0.6, 1},
		{50, 3, 0.3, 1},
		{50, 4, 0.3, 2},
	}

	for _, tc := range cases {
		reasons := []string{}
		warnings := []string{}
		got := scoreCompletionRate(tc.rate, tc.spw, &reasons, &warnings)
		if got != tc.want {
			t.Fatalf("scoreCompletionRate(%v, %d) = %v, want %v", tc.rate, tc.spw, got, tc.want)
		}
		if len(warnings) != tc.warnings {
			t.Fatalf("scoreCompletionRate(%v, %d) warnings = %d, want %d", tc.rate, tc.spw, len(warnings), tc.warnings)
		}
	}
}

func TestScoreConsistencyUsesProgramRatio(t *testing.T) {
	reasons := []string{}
	warnings := []string{}
	// 2.8 of 3 sessions/week is a 0.93 ratio.
	if got := scoreConsistency(2.8, 3, &reasons, &warnings); got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
	// The same consistency against a 5x program drops to the lowest tier.
	reasons = nil
	warnings = nil
	if got := scoreConsistency(2.8, 5, &reasons, &warnings); got != 0.5 {
		t.Fatalf("got %v, want 0.5", got)
	}
}

func TestScorePainFrequencyTiers(t *testing.T) {
	cases := []struct {
		pain float64
		spw  int
		want float64
	}{
		{0, 3, 1.0},
		{10, 3, 0.85},
		{20, 3, 0.5},
		{45, 3, 0.2},
	}
	for _, tc := range cases {
		reasons := []string{}
		warnings := []string{}
		if got := scorePainFrequency(tc.pain, tc.spw, &reasons, &warnings); got != tc.want {
			t.Fatalf("scorePainFrequency(%v, %d) = %v, want %v", tc.pain, tc.spw, got, tc.want)
		}
	}
}

func TestScoreGoalAlignment(t *testing.T) {
	cases := []struct {
		goal        GoalCategory
		programName string
		want        float64
	}{
		{GoalFatLoss, "Fat Loss Circuit", 1.0},
		{GoalFatLoss, "Beginner Full Body", 0.7},
		{GoalFatLoss, "PPL 6x", 0.4},
		{GoalStrength, "Strength Foundation", 1.0},
		{GoalStrength, "Upper/Lower Split", 0.8},
		{GoalStrength, "Fat Loss Circuit", 0.5},
		{GoalHypertrophy, "PPL Volume Block", 1.0},
		{GoalHypertrophy, "Upper/Lower Split", 0.9},
		{GoalHypertrophy, "Strength Foundation", 0.6},
		{GoalUnspecified, "Anything", 0.5},
	}

	for _, tc := range cases {
		reasons := []string{}
		got := scoreGoalAlignment(tc.goal, tc.programName, "", &reasons)
		if got != tc.want {
			t.Fatalf("scoreGoalAlignment(%s, %q) = %v, want %v", tc.goal, tc.programName, got, tc.want)
		}
	}
}

func TestScoreGoalAlignmentEmitsStrengthReason(t *testing.T) {
	reasons := []string{}
	got := scoreGoalAlignment(GoalStrength, "Strength Foundation", "", &reasons)
	if got != 1.0 {
		t.Fatalf("got %v, want 1.0", got)
	}
	if len(reasons) != 1 || !strings.Contains(reasons[0], "forț") {
		t.Fatalf("expected a strength alignment reason, got %v", reasons)
	}
}

func TestScoreTimeInProgram(t *testing.T) {
	cases := []struct {
		weeks    int
		duration *int
		want     float64
	}{
		{0, intPtr(12), 1.0},
		{2, intPtr(12), 0.2},
		{11, intPtr(12), 1.0},
		{14, intPtr(12), 1.0},
		{17, intPtr(12), 0.9},
		{7, intPtr(12), 0.8},
		{5, intPtr(12), 0.5},
		{11, nil, 1.0},
	}

	for _, tc := range cases {
		reasons := []string{}
		warnings := []string{}
		if got := scoreTimeInProgram(tc.weeks, tc.duration, &reasons, &warnings); got != tc.want {
			t.Fatalf("scoreTimeInProgram(%d) = %v, want %v", tc.weeks, got, tc.want)
		}
	}
}

func TestScoreNutrition(t *testing.T) {
	cases := []struct {
		score       float64
		programName string
		want        float64
		warnings    int
	}{
		{8, "Strength", 1.0, 0},
		{6.5, "Strength", 0.7, 0},
		{4, "Strength", 0.4, 1},
		{4, "Fat Loss Circuit", 0.4, 2},
		{4, "PPL 6x", 0.4, 2},
		{0, "Strength", 0.5, 0},
	}

	for _, tc := range cases {
		reasons := []string{}
		warnings := []string{}
		got := scoreNutrition(tc.score, tc.programName, &reasons, &warnings)
		if got != tc.want {
			t.Fatalf("scoreNutrition(%v, %q) = %v, want %v", tc.score, tc.programName, got, tc.want)
		}
		if len(warnings) != tc.warnings {
			t.Fatalf("scoreNutrition(%v, %q) warnings = %d, want %d", tc.score, tc.programName, len(warnings), tc.warnings)
		}
	}
}

func TestDetermineConfidence(t *testing.T) {
	cases := []struct {
		name   string
		score  float64
		total  int
		weeks  int
		want   string
	}{
		{"thin history forces low", 95, 3, 10, ConfidenceLow},
		{"early weeks force low", 95, 20, 1, ConfidenceLow},
		{"high score and volume", 85, 12, 5, ConfidenceHigh},
		{"medium tier", 65, 7, 5, ConfidenceMedium},
		{"high score low volume", 85, 6, 5, ConfidenceMedium},
		{"low score", 40, 20, 10, ConfidenceLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := determineConfidence(tc.score, tc.total, tc.weeks); got != tc.want {
				t.Fatalf("determineConfidence(%v, %d, %d) = %s, want %s", tc.score, tc.total, tc.weeks, got, tc.want)
			}
		})
	}
}
