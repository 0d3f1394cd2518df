package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/CristianCureu/fitness-app-api/internal/types"
)

const (
	ConfidenceHigh   = "HIGH"
	ConfidenceMedium = "MEDIUM"
	ConfidenceLow    = "LOW"
)

// ScoringWeights is immutable configuration injected into the recommendation
// service; the six weights sum to 1.0 so the final score stays in [0, 100].
type ScoringWeights struct {
	CompletionRate float64
	Consistency    float64
	PainFrequency  float64
	GoalAlignment  float64
	TimeInProgram  float64
	NutritionScore float64
}

var DefaultScoringWeights = ScoringWeights{
	CompletionRate: 0.35,
	Consistency:    0.20,
	PainFrequency:  0.15,
	GoalAlignment:  0.15,
	TimeInProgram:  0.10,
	NutritionScore: 0.05,
}

type ProgramRecommendation struct {
	ProgramID   uuid.UUID `json:"program_id"`
	ProgramName string    `json:"program_name"`
	Score       float64   `json:"score"`
	Confidence  string    `json:"confidence"`
	Reasons     []string  `json:"reasons"`
	Warnings    []string  `json:"warnings"`
}

// scoreProgram computes the weighted 0-100 score of one candidate program for
// a client. Every tier transition emits exactly one reason or warning so the
// decision stays explainable in the UI and auditable in the log.
func scoreProgram(program *types.WorkoutProgram, goal GoalCategory, stats *ClientStats, weights ScoringWeights) *ProgramRecommendation {
	reasons := []string{}
	warnings := []string{}
	totalScore := 0.0

	completionScore := scoreCompletionRate(stats.CompletionRate, program.SessionsPerWeek, &reasons, &warnings)
	totalScore += completionScore * weights.CompletionRate * 100

	consistencyScore := scoreConsistency(stats.Consistency, program.SessionsPerWeek, &reasons, &warnings)
	totalScore += consistencyScore * weights.Consistency * 100

	painScore := scorePainFrequency(stats.PainFrequency, program.SessionsPerWeek, &reasons, &warnings)
	totalScore += painScore * weights.PainFrequency * 100

	goalScore := scoreGoalAlignment(goal, program.Name, program.Description, &reasons)
	totalScore += goalScore * weights.GoalAlignment * 100

	timeScore := scoreTimeInProgram(stats.WeeksSinceStart, program.DurationWeeks, &reasons, &warnings)
	totalScore += timeScore * weights.TimeInProgram * 100

	nutritionScore := scoreNutrition(stats.AvgNutritionScore, program.Name, &reasons, &warnings)
	totalScore += nutritionScore * weights.NutritionScore * 100

	return &ProgramRecommendation{
		ProgramID:   program.ID,
		ProgramName: program.Name,
		Score:       math.Round(totalScore*10) / 10,
		Confidence:  determineConfidence(totalScore, stats.TotalSessions, stats.WeeksSinceStart),
		Reasons:     reasons,
		Warnings:    warnings,
	}
}

func scoreCompletionRate(completionRate float64, programSessionsPerWeek int, reasons, warnings *[]string) float64 {
	switch {
	case completionRate >= 85:
		*reasons = append(*reasons, fmt.Sprintf("Completion rate excelent: %d%%", int(math.Round(completionRate))))
		return 1.0
	case completionRate >= 75:
		*reasons = append(*reasons, fmt.Sprintf("Completion rate foarte bun: %d%%", int(math.Round(completionRate))))
		return 0.85
	case completionRate >= 60:
		*reasons = append(*reasons, fmt.Sprintf("Completion rate decent: %d%%", int(math.Round(completionRate))))
		if programSessionsPerWeek >= 5 {
			*warnings = append(*warnings, "Completion rate ar putea fi insuficient pentru un program cu frecvență mare")
		}
		return 0.6
	default:
		*warnings = append(*warnings, fmt.Sprintf("Completion rate scăzut: %d%% - risc ridicat de abandon", int(math.Round(completionRate))))
		if programSessionsPerWeek >= 4 {
			*warnings = append(*warnings, "Program cu prea multe sesiuni pentru consistency actuală")
		}
		return 0.3
	}
}

func scoreConsistency(consistency float64, programSessionsPerWeek int, reasons, warnings *[]string) float64 {
	ratio := consistency / float64(programSessionsPerWeek)

	switch {
	case ratio >= 0.9:
		*reasons = append(*reasons, fmt.Sprintf("Consistency excelentă: %.1f sesiuni/săptămână", consistency))
		return 1.0
	case ratio >= 0.75:
		*reasons = append(*reasons, fmt.Sprintf("Consistency bună: %.1f sesiuni/săptămână", consistency))
		return 0.85
	case ratio >= 0.6:
		*warnings = append(*warnings, fmt.Sprintf("Consistency moderată: %.1f sesiuni/săptămână - program ar putea fi prea intens", consistency))
		return 0.5
	default:
		*warnings = append(*warnings, fmt.Sprintf("Consistency scăzută: %.1f sesiuni/săptămână - consideră un program mai puțin intens", consistency))
		return 0.2
	}
}

func scorePainFrequency(painFrequency float64, programSessionsPerWeek int, reasons, warnings *[]string) float64 {
	switch {
	case painFrequency == 0:
		*reasons = append(*reasons, "Nicio durere raportată - recovery excelent")
		return 1.0
	case painFrequency < 15:
		*reasons = append(*reasons, "Durere minimă - recovery bun")
		return 0.85
	case painFrequency < 30:
		*warnings = append(*warnings, fmt.Sprintf("Durere raportată în %d%% din antrenamente", int(math.Round(painFrequency))))
		if programSessionsPerWeek >= 5 {
			*warnings = append(*warnings, "Program cu volum mare nu e recomandat cu durere frecventă")
		}
		return 0.5
	default:
		*warnings = append(*warnings, fmt.Sprintf("Durere frecventă: %d%% - prioritizează recovery", int(math.Round(painFrequency))))
		if programSessionsPerWeek >= 3 {
			*warnings = append(*warnings, "Recomandare: program cu frecvență redusă până la îmbunătățirea recovery-ului")
		}
		return 0.2
	}
}

func scoreGoalAlignment(goal GoalCategory, programName, programDescription string, reasons *[]string) float64 {
	progName := strings.ToLower(programName + " " + programDescription)

	switch goal {
	case GoalFatLoss:
		if strings.Contains(progName, "fat loss") || strings.Contains(progName, "circuit") {
			*reasons = append(*reasons, "Aliniere perfectă cu obiectivul de pierdere în greutate")
			return 1.0
		}
		if strings.Contains(progName, "beginner") || strings.Contains(progName, "full body") {
			*reasons = append(*reasons, "Program compatibil cu obiectivul de pierdere în greutate")
			return 0.7
		}
		return 0.4
	case GoalStrength:
		if strings.Contains(progName, "strength") {
			*reasons = append(*reasons, "Aliniere perfectă cu obiectivul de creștere a forței")
			return 1.0
		}
		if strings.Contains(progName, "upper/lower") {
			*reasons = append(*reasons, "Program compatibil cu obiectivul de strength")
			return 0.8
		}
		return 0.5
	case GoalHypertrophy:
		if strings.Contains(progName, "ppl") || strings.Contains(progName, "push/pull/legs") {
			*reasons = append(*reasons, "Volum maxim pentru hipertrofie")
			return 1.0
		}
		if strings.Contains(progName, "upper/lower") {
			*reasons = append(*reasons, "Echilibru bun între volum și recovery pentru hipertrofie")
			return 0.9
		}
		return 0.6
	default:
		return 0.5
	}
}

func scoreTimeInProgram(weeksSinceStart int, programDurationWeeks *int, reasons, warnings *[]string) float64 {
	if weeksSinceStart == 0 {
		*reasons = append(*reasons, "Moment ideal pentru a începe un nou program")
		return 1.0
	}

	duration := defaultProgramDurationWeeks
	if programDurationWeeks != nil && *programDurationWeeks > 0 {
		duration = *programDurationWeeks
	}

	switch {
	case weeksSinceStart < 4:
		*warnings = append(*warnings, fmt.Sprintf("Doar %d săptămâni în programul curent - prea devreme pentru schimbare", weeksSinceStart))
		return 0.2
	case weeksSinceStart >= duration-2 && weeksSinceStart <= duration+2:
		*reasons = append(*reasons, "Programul curent se apropie de final - moment ideal pentru tranziție")
		return 1.0
	case weeksSinceStart > duration+4:
		*reasons = append(*reasons, fmt.Sprintf("Programul curent depășit (%d/%d săptămâni)", weeksSinceStart, duration))
		return 0.9
	case weeksSinceStart >= 6:
		*reasons = append(*reasons, "Suficient timp în programul curent pentru evaluare")
		return 0.8
	default:
		return 0.5
	}
}

func scoreNutrition(avgNutritionScore float64, programName string, reasons, warnings *[]string) float64 {
	progName := strings.ToLower(programName)

	switch {
	case avgNutritionScore >= 7:
		*reasons = append(*reasons, fmt.Sprintf("Nutriție foarte bună: %.1f/10", avgNutritionScore))
		return 1.0
	case avgNutritionScore >= 6:
		*reasons = append(*reasons, fmt.Sprintf("Nutriție decentă: %.1f/10", avgNutritionScore))
		return 0.7
	case avgNutritionScore > 0:
		*warnings = append(*warnings, fmt.Sprintf("Nutriție sub-optimă: %.1f/10", avgNutritionScore))
		if strings.Contains(progName, "fat loss") {
			*warnings = append(*warnings, "Programul de fat loss necesită nutriție mai bună pentru rezultate")
		} else if strings.Contains(progName, "ppl") || strings.Contains(progName, "6x") {
			*warnings = append(*warnings, "Volumul mare de antrenament necesită nutriție mai bună")
		}
		return 0.4
	default:
		// No nutrition data at all.
		return 0.5
	}
}

// determineConfidence labels a recommendation by data sufficiency first and
// score magnitude second; thin history forces LOW regardless of score.
func determineConfidence(score float64, totalSessions, weeksSinceStart int) string {
	if totalSessions < 4 || weeksSinceStart < 2 {
		return ConfidenceLow
	}
	if score >= 80 && totalSessions >= 10 {
		return ConfidenceHigh
	}
	if score >= 60 && totalSessions >= 6 {
		return ConfidenceMedium
	}
	return ConfidenceLow
}
