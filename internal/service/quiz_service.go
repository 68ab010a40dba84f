package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/util"
	"learning_pathway_backend/pkg/logger"
)

type QuizService struct {
	quizRepo  *repository.QuizRepository
	planRepo  *repository.StudyPlanRepository
	aiService *AIService
}

func NewQuizService(quizRepo *repository.QuizRepository, planRepo *repository.StudyPlanRepository, aiService *AIService) *QuizService {
	return &QuizService{quizRepo: quizRepo, planRepo: planRepo, aiService: aiService}
}

type GenerateQuizInput struct {
	Topic         string               `json:"topic" binding:"required,max=200"`
	Difficulty    model.QuizDifficulty `json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	QuestionCount int                  `json:"questionCount" binding:"omitempty,min=1,max=20"`
	StudyPlanID   *uint                `json:"studyPlanId"`
	PassingScore  int                  `json:"passingScore" binding:"omitempty,min=0,max=100"`
	MaxAttempts   *int                 `json:"maxAttempts" binding:"omitempty,min=1"`
	TimeLimit     *int                 `json:"timeLimit" binding:"omitempty,min=1"`
}

// Generate AI出题并保存为草稿，AI失败时使用兜底题目
func (s *QuizService) Generate(ctx context.Context, userID uint, input *GenerateQuizInput) (*model.Quiz, error) {
	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = model.QuizMedium
	}
	questionCount := input.QuestionCount
	if questionCount <= 0 {
		questionCount = 5
	}
	passingScore := input.PassingScore
	if passingScore <= 0 {
		passingScore = 70
	}

	if input.StudyPlanID != nil {
		plan, err := s.planRepo.FindByID(*input.StudyPlanID)
		if err != nil {
			return nil, err
		}
		if plan.UserID != userID {
			return nil, util.ErrPermissionDenied
		}
	}

	generated, err := s.aiService.GenerateQuiz(ctx, input.Topic, difficulty, questionCount)
	if err != nil {
		logger.Log.Warn("AI quiz generation failed, using fallback questions",
			zap.String("topic", input.Topic),
			zap.Error(err),
		)
		generated = fallbackQuiz(input.Topic)
	}

	quiz := &model.Quiz{
		Title:        input.Topic + " Quiz",
		Description:  "Auto-generated quiz on " + input.Topic,
		StudyPlanID:  input.StudyPlanID,
		CreatedBy:    userID,
		Difficulty:   difficulty,
		Status:       model.QuizDraft,
		PassingScore: passingScore,
		MaxAttempts:  input.MaxAttempts,
		TimeLimit:    input.TimeLimit,
	}

	for i, q := range generated.Questions {
		question := model.Question{
			Text:   q.Question,
			Type:   model.MultipleChoice,
			Order:  i,
			Points: 1,
		}
		answer := strings.ToLower(strings.TrimSpace(q.Answer))
		options := []struct {
			key  string
			text string
		}{
			{"a", q.A}, {"b", q.B}, {"c", q.C}, {"d", q.D},
		}
		for j, opt := range options {
			if opt.text == "" {
				continue
			}
			question.Options = append(question.Options, model.QuestionOption{
				Text:      opt.text,
				IsCorrect: opt.key == answer,
				Order:     j,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	quiz.TotalQuestions = len(quiz.Questions)

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return s.quizRepo.FindByID(quiz.ID)
}

// fallbackQuiz AI不可用时的兜底题目
func fallbackQuiz(topic string) *GeneratedQuiz {
	return &GeneratedQuiz{
		Questions: []GeneratedQuestion{
			{
				Question: "Which approach is generally most effective when starting to learn " + topic + "?",
				A:        "Memorizing advanced material before the fundamentals",
				B:        "Building a foundation with fundamentals and practicing regularly",
				C:        "Skipping practice entirely",
				D:        "Studying only once a month",
				Answer:   "b",
			},
			{
				Question: "What is a recommended way to retain knowledge about " + topic + "?",
				A:        "Passive reading only",
				B:        "Avoiding any review",
				C:        "Spaced repetition and active recall",
				D:        "Cramming the night before",
				Answer:   "c",
			},
			{
				Question: "When stuck on a difficult concept in " + topic + ", a good first step is to:",
				A:        "Give up on the topic",
				B:        "Ignore the concept permanently",
				C:        "Memorize it without understanding",
				D:        "Break it into smaller parts and consult another resource",
				Answer:   "d",
			},
		},
	}
}

func (s *QuizService) Get(userID uint, quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	// 草稿仅创建者可见
	if quiz.Status != model.QuizPublished && quiz.CreatedBy != userID {
		return nil, util.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) List(userID uint, status model.QuizStatus, page, pageSize int) ([]model.Quiz, int64, error) {
	return s.quizRepo.List(userID, status, page, pageSize)
}

// Publish 发布测验，空卷不可发布
func (s *QuizService) Publish(userID, quizID uint) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}
	if len(quiz.Questions) == 0 {
		return nil, util.ErrQuizEmpty
	}
	if err := s.quizRepo.UpdateFields(quizID, map[string]interface{}{"status": model.QuizPublished}); err != nil {
		return nil, err
	}
	return s.quizRepo.FindByID(quizID)
}

type QuestionInput struct {
	Text        string `json:"text" binding:"required"`
	Explanation string `json:"explanation"`
	Points      int    `json:"points" binding:"omitempty,min=1"`
	Order       int    `json:"order"`
	Options     []struct {
		Text      string `json:"text" binding:"required"`
		IsCorrect bool   `json:"isCorrect"`
	} `json:"options" binding:"required,min=2,max=6"`
}

func (input *QuestionInput) toModel() model.Question {
	points := input.Points
	if points <= 0 {
		points = 1
	}
	question := model.Question{
		Text:        input.Text,
		Type:        model.MultipleChoice,
		Order:       input.Order,
		Points:      points,
		Explanation: input.Explanation,
	}
	for i, opt := range input.Options {
		question.Options = append(question.Options, model.QuestionOption{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Order:     i,
		})
	}
	return question
}

// AddQuestion 手动添加题目，仅限创建者
func (s *QuizService) AddQuestion(userID, quizID uint, input *QuestionInput) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}

	question := input.toModel()
	question.QuizID = quizID
	if err := s.quizRepo.CreateQuestion(&question); err != nil {
		return nil, err
	}
	return s.quizRepo.FindByID(quizID)
}

// UpdateQuestion 整体替换题目内容与选项
func (s *QuizService) UpdateQuestion(userID, questionID uint, input *QuestionInput) (*model.Quiz, error) {
	existing, err := s.quizRepo.FindQuestion(questionID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizRepo.FindByID(existing.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}

	updated := input.toModel()
	updated.ID = existing.ID
	updated.QuizID = existing.QuizID
	if err := s.quizRepo.UpdateQuestion(&updated); err != nil {
		return nil, err
	}
	return s.quizRepo.FindByID(existing.QuizID)
}

func (s *QuizService) DeleteQuestion(userID, questionID uint) (*model.Quiz, error) {
	existing, err := s.quizRepo.FindQuestion(questionID)
	if err != nil {
		return nil, err
	}
	quiz, err := s.quizRepo.FindByID(existing.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.CreatedBy != userID {
		return nil, util.ErrPermissionDenied
	}

	if err := s.quizRepo.DeleteQuestion(existing); err != nil {
		return nil, err
	}
	return s.quizRepo.FindByID(existing.QuizID)
}

// PlanStats 某计划下的作答统计
func (s *QuizService) PlanStats(userID, planID uint) (*repository.PlanAttemptStats, error) {
	plan, err := s.planRepo.FindByID(planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.quizRepo.StatsByPlan(planID, userID)
}

func (s *QuizService) Delete(userID, quizID uint) error {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return err
	}
	if quiz.CreatedBy != userID {
		return util.ErrPermissionDenied
	}
	return s.quizRepo.Delete(quizID)
}

// StartAttempt 开始作答，校验发布状态与次数上限
func (s *QuizService) StartAttempt(userID, quizID uint) (*model.QuizAttempt, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizPublished {
		return nil, util.ErrQuizNotPublished
	}

	count, err := s.quizRepo.CountAttempts(quizID, userID)
	if err != nil {
		return nil, err
	}
	if !quiz.AllowRetake && count >= 1 {
		return nil, util.ErrMaxAttemptsReached
	}
	if quiz.MaxAttempts != nil && count >= int64(*quiz.MaxAttempts) {
		return nil, util.ErrMaxAttemptsReached
	}

	attempt := &model.QuizAttempt{
		QuizID:        quizID,
		UserID:        userID,
		StudyPlanID:   quiz.StudyPlanID,
		StartedAt:     time.Now(),
		AttemptNumber: int(count) + 1,
	}
	if err := s.quizRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

type SubmitAnswerInput struct {
	QuestionID       uint  `json:"questionId" binding:"required"`
	SelectedOptionID *uint `json:"selectedOptionId"`
}

type SubmitAttemptInput struct {
	Answers []SubmitAnswerInput `json:"answers" binding:"required"`
}

// AttemptResult 成绩单
type AttemptResult struct {
	Attempt   *model.QuizAttempt `json:"attempt"`
	Questions []model.Question   `json:"questions,omitempty"` // 仅在show_correct_answers时返回
}

// SubmitAttempt 提交答案并判分
func (s *QuizService) SubmitAttempt(userID, attemptID uint, input *SubmitAttemptInput) (*AttemptResult, error) {
	attempt, err := s.quizRepo.FindAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.CompletedAt != nil {
		return nil, util.ErrAttemptAlreadyEnded
	}

	quiz, err := s.quizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	selected := make(map[uint]*uint, len(input.Answers))
	for i := range input.Answers {
		selected[input.Answers[i].QuestionID] = input.Answers[i].SelectedOptionID
	}

	answers, earned, totalPoints, correct := GradeAttempt(quiz.Questions, selected)
	for i := range answers {
		answers[i].AttemptID = attempt.ID
	}

	now := time.Now()
	taken := int(now.Sub(attempt.StartedAt).Seconds())

	attempt.CompletedAt = &now
	attempt.TimeTaken = &taken
	attempt.TotalScore = earned
	attempt.PercentageScore = ScorePercentage(earned, totalPoints)
	attempt.IsPassed = attempt.PercentageScore >= float64(quiz.PassingScore)
	attempt.AnswersCount = len(answers)
	attempt.CorrectAnswers = correct

	if err := s.quizRepo.SubmitAttempt(attempt, answers); err != nil {
		return nil, err
	}

	result := &AttemptResult{Attempt: attempt}
	if quiz.ShowCorrectAnswers {
		result.Questions = quiz.Questions
	}
	return result, nil
}

// GradeAttempt 判分：逐题比对选项，返回答案记录、得分、总分、答对数
func GradeAttempt(questions []model.Question, selected map[uint]*uint) (answers []model.Answer, earned, totalPoints, correct int) {
	for _, q := range questions {
		totalPoints += q.Points

		optionID, answered := selected[q.ID]
		answer := model.Answer{
			QuestionID:       q.ID,
			SelectedOptionID: optionID,
		}

		if answered && optionID != nil {
			for _, opt := range q.Options {
				if opt.ID == *optionID && opt.IsCorrect {
					answer.IsCorrect = true
					earned += q.Points
					correct++
					break
				}
			}
		}

		answers = append(answers, answer)
	}
	return answers, earned, totalPoints, correct
}

// ScorePercentage 得分百分比，空卷为0
func ScorePercentage(earned, totalPoints int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return float64(earned) / float64(totalPoints) * 100
}

func (s *QuizService) ListAttempts(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.quizRepo.FindAttemptsByUser(quizID, userID)
}

// AttemptReview 单次作答回顾
type AttemptReview struct {
	Attempt   *model.QuizAttempt `json:"attempt"`
	Answers   []model.Answer     `json:"answers"`
	Questions []model.Question   `json:"questions,omitempty"` // 仅在show_correct_answers时返回
}

// ReviewAttempt 查看某次作答的答题明细
func (s *QuizService) ReviewAttempt(userID, attemptID uint) (*AttemptReview, error) {
	attempt, err := s.quizRepo.FindAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	answers, err := s.quizRepo.FindAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	review := &AttemptReview{Attempt: attempt, Answers: answers}

	quiz, err := s.quizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	if quiz.ShowCorrectAnswers && attempt.CompletedAt != nil {
		review.Questions = quiz.Questions
	}
	return review, nil
}
