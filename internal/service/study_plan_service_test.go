package service

import (
	"errors"
	"testing"
	"time"

	"learning_pathway_backend/internal/util"
)

func TestValidatePlanDates(t *testing.T) {
	now := time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC)
	today := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{"today is allowed", today, today.AddDate(0, 1, 0), nil},
		{"future start", today.AddDate(0, 0, 7), today.AddDate(0, 2, 0), nil},
		{"start in past", today.AddDate(0, 0, -1), today.AddDate(0, 1, 0), util.ErrStartDateInPast},
		{"end before start", today.AddDate(0, 0, 10), today.AddDate(0, 0, 5), util.ErrEndBeforeStart},
		{"end equals start", today.AddDate(0, 0, 10), today.AddDate(0, 0, 10), util.ErrEndBeforeStart},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePlanDates(tc.start, tc.end, now)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ValidatePlanDates() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateWeeklyHours(t *testing.T) {
	for _, hours := range []int{1, 40, 168} {
		if err := ValidateWeeklyHours(hours); err != nil {
			t.Errorf("ValidateWeeklyHours(%d) = %v, want nil", hours, err)
		}
	}
	for _, hours := range []int{0, -5, 169, 1000} {
		if !errors.Is(ValidateWeeklyHours(hours), util.ErrInvalidWeeklyLoad) {
			t.Errorf("ValidateWeeklyHours(%d) should fail", hours)
		}
	}
}
