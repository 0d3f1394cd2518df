package services

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type GoalCategory string

const (
	GoalFatLoss     GoalCategory = "FAT_LOSS"
	GoalStrength    GoalCategory = "STRENGTH"
	GoalHypertrophy GoalCategory = "HYPERTROPHY"
	GoalUnspecified GoalCategory = "UNSPECIFIED"
)

//go:embed locales/goals_*.yaml
var goalLocaleFS embed.FS

type goalKeywordSet struct {
	FatLoss     []string `yaml:"fat_loss"`
	Strength    []string `yaml:"strength"`
	Hypertrophy []string `yaml:"hypertrophy"`
}

// GoalClassifier maps free-text client goals to a goal category using
// locale-specific keyword lists. Keyword data is plain YAML so locales can be
// swapped without touching scoring logic.
type GoalClassifier struct {
	keywords goalKeywordSet
}

func NewGoalClassifier(locale string) (*GoalClassifier, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = "ro"
	}
	raw, err := goalLocaleFS.ReadFile(fmt.Sprintf("locales/goals_%s.yaml", locale))
	if err != nil {
		return nil, fmt.Errorf("Failed to load goal keywords for locale %q: %w", locale, err)
	}
	var keywords goalKeywordSet
	if err := yaml.Unmarshal(raw, &keywords); err != nil {
		return nil, fmt.Errorf("Failed to parse goal keywords for locale %q: %w", locale, err)
	}
	return &GoalClassifier{keywords: keywords}, nil
}

// Classify checks fat loss, then strength, then hypertrophy; the first
// category with a keyword hit wins.
func (gc *GoalClassifier) Classify(goal string) GoalCategory {
	normalized := strings.ToLower(goal)
	if containsAny(normalized, gc.keywords.FatLoss) {
		return GoalFatLoss
	}
	if containsAny(normalized, gc.keywords.Strength) {
		return GoalStrength
	}
	if containsAny(normalized, gc.keywords.Hypertrophy) {
		return GoalHypertrophy
	}
	return GoalUnspecified
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
