package services

import (
	"testing"

	"github.com/CristianCureu/fitness-app-api/internal/types"
)

func TestValidateTrainingDays(t *testing.T) {
	cases := []struct {
		name    string
		days    []string
		perWeek int
		wantErr bool
	}{
		{"matching count", []string{types.Monday, types.Wednesday, types.Friday}, 3, false},
		{"too few", []string{types.Monday, types.Wednesday}, 3, true},
		{"too many", []string{types.Monday, types.Tuesday, types.Wednesday, types.Friday}, 3, true},
		{"unknown day", []string{types.Monday, "FUNDAY", types.Friday}, 3, true},
		{"duplicate day", []string{types.Monday, types.Monday, types.Friday}, 3, true},
		{"single day", []string{types.Sunday}, 1, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validateTrainingDays(tc.days, tc.perWeek)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %v", tc.days)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
