package services

import "testing"

func TestGoalClassifierRomanian(t *testing.T) {
	classifier, err := NewGoalClassifier("ro")
	if err != nil {
		t.Fatalf("classifier init: %v", err)
	}

	cases := []struct {
		goal string
		want GoalCategory
	}{
		{"Obiectiv: slăbit 10 kg", GoalFatLoss},
		{"pierdere în greutate", GoalFatLoss},
		{"Vreau mai multă forță la genuflexiuni", GoalStrength},
		{"putere maximă", GoalStrength},
		{"masă musculară", GoalHypertrophy},
		{"hipertrofie și volum", GoalHypertrophy},
		{"să fiu mai sănătos", GoalUnspecified},
		{"", GoalUnspecified},
	}

	for _, tc := range cases {
		if got := classifier.Classify(tc.goal); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.goal, got, tc.want)
		}
	}
}

func TestGoalClassifierFatLossWinsTies(t *testing.T) {
	classifier, err := NewGoalClassifier("ro")
	if err != nil {
		t.Fatalf("classifier init: %v", err)
	}
	// Fat loss keywords are checked first.
	if got := classifier.Classify("slăbit și masă musculară"); got != GoalFatLoss {
		t.Fatalf("got %s, want %s", got, GoalFatLoss)
	}
}

func TestGoalClassifierEnglish(t *testing.T) {
	classifier, err := NewGoalClassifier("en")
	if err != nil {
		t.Fatalf("classifier init: %v", err)
	}
	if got := classifier.Classify("I want to get stronger"); got != GoalStrength {
		t.Fatalf("got %s, want %s", got, GoalStrength)
	}
	if got := classifier.Classify("build muscle mass"); got != GoalHypertrophy {
		t.Fatalf("got %s, want %s", got, GoalHypertrophy)
	}
}

func TestGoalClassifierUnknownLocale(t *testing.T) {
	if _, err := NewGoalClassifier("xx"); err == nil {
		t.Fatalf("expected error for unknown locale")
	}
}

func TestGoalClassifierDefaultsToRomanian(t *testing.T) {
	classifier, err := NewGoalClassifier("")
	if err != nil {
		t.Fatalf("classifier init: %v", err)
	}
	if got := classifier.Classify("forță"); got != GoalStrength {
		t.Fatalf("got %s, want %s", got, GoalStrength)
	}
}
