package service

import (
	"testing"

	"learning_pathway_backend/internal/model"
)

func buildQuestion(id uint, points int, optionIDs []uint, correctIdx int) model.Question {
	q := model.Question{Points: points}
	q.ID = id
	for i, oid := range optionIDs {
		opt := model.QuestionOption{IsCorrect: i == correctIdx}
		opt.ID = oid
		q.Options = append(q.Options, opt)
	}
	return q
}

func TestGradeAttemptAllCorrect(t *testing.T) {
	questions := []model.Question{
		buildQuestion(1, 1, []uint{11, 12, 13, 14}, 0),
		buildQuestion(2, 2, []uint{21, 22, 23, 24}, 3),
	}
	sel11, sel24 := uint(11), uint(24)
	selected := map[uint]*uint{1: &sel11, 2: &sel24}

	answers, earned, total, correct := GradeAttempt(questions, selected)

	if earned != 3 || total != 3 || correct != 2 {
		t.Errorf("earned=%d total=%d correct=%d, want 3/3/2", earned, total, correct)
	}
	if len(answers) != 2 {
		t.Fatalf("got %d answers, want 2", len(answers))
	}
	for _, a := range answers {
		if !a.IsCorrect {
			t.Errorf("answer for question %d should be correct", a.QuestionID)
		}
	}
}

func TestGradeAttemptWrongAndMissing(t *testing.T) {
	questions := []model.Question{
		buildQuestion(1, 1, []uint{11, 12}, 0),
		buildQuestion(2, 1, []uint{21, 22}, 0),
		buildQuestion(3, 1, []uint{31, 32}, 0),
	}
	wrong := uint(12)
	selected := map[uint]*uint{1: &wrong} // 2未作答，3完全没提交

	answers, earned, total, correct := GradeAttempt(questions, selected)

	if earned != 0 || correct != 0 {
		t.Errorf("earned=%d correct=%d, want 0/0", earned, correct)
	}
	if total != 3 {
		t.Errorf("total=%d, want 3", total)
	}
	// 每道题都要有答案记录，未作答也记一条
	if len(answers) != 3 {
		t.Errorf("got %d answers, want 3", len(answers))
	}
}

func TestGradeAttemptNilSelection(t *testing.T) {
	questions := []model.Question{buildQuestion(1, 1, []uint{11, 12}, 0)}
	selected := map[uint]*uint{1: nil}

	answers, earned, _, correct := GradeAttempt(questions, selected)
	if earned != 0 || correct != 0 {
		t.Errorf("nil selection should not score: earned=%d correct=%d", earned, correct)
	}
	if answers[0].IsCorrect {
		t.Error("nil selection should not be correct")
	}
}

func TestScorePercentage(t *testing.T) {
	cases := []struct {
		earned, total int
		want          float64
	}{
		{0, 0, 0},
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{7, 10, 70},
	}
	for _, tc := range cases {
		if got := ScorePercentage(tc.earned, tc.total); got != tc.want {
			t.Errorf("ScorePercentage(%d, %d) = %v, want %v", tc.earned, tc.total, got, tc.want)
		}
	}
}

func TestFallbackQuizHasValidAnswers(t *testing.T) {
	quiz := fallbackQuiz("Go")
	if len(quiz.Questions) == 0 {
		t.Fatal("fallback quiz must contain questions")
	}
	for i, q := range quiz.Questions {
		switch q.Answer {
		case "a", "b", "c", "d":
		default:
			t.Errorf("question %d has invalid answer key %q", i, q.Answer)
		}
		if q.Question == "" || q.A == "" || q.B == "" || q.C == "" || q.D == "" {
			t.Errorf("question %d has empty fields", i)
		}
	}
}
