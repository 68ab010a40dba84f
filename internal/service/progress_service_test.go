package service

import (
	"testing"

	"learning_pathway_backend/internal/model"
)

func TestCompletionPercentage(t *testing.T) {
	cases := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{0, 8, 0},
		{4, 8, 50},
		{8, 8, 100},
		{1, 3, 100.0 / 3},
	}
	for _, tc := range cases {
		if got := CompletionPercentage(tc.completed, tc.total); got != tc.want {
			t.Errorf("CompletionPercentage(%d, %d) = %v, want %v", tc.completed, tc.total, got, tc.want)
		}
	}
}

func TestPlanBecameComplete(t *testing.T) {
	cases := []struct {
		name             string
		completed, total int
		status           model.PlanStatus
		want             bool
	}{
		{"all resources done on active plan", 3, 3, model.PlanActive, true},
		{"partially done", 2, 3, model.PlanActive, false},
		{"empty plan never completes", 0, 0, model.PlanActive, false},
		{"already completed plan is left alone", 3, 3, model.PlanCompleted, false},
		{"paused plan still completes", 2, 2, model.PlanPaused, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PlanBecameComplete(tc.completed, tc.total, tc.status); got != tc.want {
				t.Errorf("PlanBecameComplete(%d, %d, %s) = %v, want %v", tc.completed, tc.total, tc.status, got, tc.want)
			}
		})
	}
}
