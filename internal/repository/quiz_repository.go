package repository

import (
	"errors"

	"gorm.io/gorm"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/util"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create 创建测验及其题目、选项，单事务写入
func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(quiz).Error
	})
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.sort_order ASC")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.sort_order ASC")
	}).First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) List(userID uint, status model.QuizStatus, page, pageSize int) ([]model.Quiz, int64, error) {
	query := r.db.Model(&model.Quiz{})
	if userID != 0 {
		query = query.Where("created_by = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []model.Quiz
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&quizzes).Error
	return quizzes, total, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *QuizRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.Quiz{}).Where("id = ?", id).Updates(fields).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).Where("quiz_id = ?", id).Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.QuestionOption{}).Error; err != nil {
				return err
			}
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *QuizRepository) CreateQuestion(question *model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		return tx.Model(&model.Quiz{}).Where("id = ?", question.QuizID).
			Update("total_questions", gorm.Expr("total_questions + ?", 1)).Error
	})
}

func (r *QuizRepository) FindQuestion(id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.Preload("Options").First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

// UpdateQuestion 整体替换题目及其选项
func (r *QuizRepository) UpdateQuestion(question *model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		return tx.Save(question).Error
	})
}

func (r *QuizRepository) DeleteQuestion(question *model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.QuestionOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.Question{}, question.ID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Quiz{}).
			Where("id = ? AND total_questions > 0", question.QuizID).
			Update("total_questions", gorm.Expr("total_questions - ?", 1)).Error
	})
}

// PlanAttemptStats 某计划下所有测验的作答统计
type PlanAttemptStats struct {
	TotalAttempts int64   `json:"totalAttempts"`
	PassedCount   int64   `json:"passedCount"`
	AverageScore  float64 `json:"averageScore"`
	BestScore     float64 `json:"bestScore"`
}

func (r *QuizRepository) StatsByPlan(planID, userID uint) (*PlanAttemptStats, error) {
	stats := &PlanAttemptStats{}
	completed := func() *gorm.DB {
		return r.db.Model(&model.QuizAttempt{}).
			Where("study_plan_id = ? AND user_id = ? AND completed_at IS NOT NULL", planID, userID)
	}

	if err := completed().Count(&stats.TotalAttempts).Error; err != nil {
		return nil, err
	}
	if stats.TotalAttempts == 0 {
		return stats, nil
	}
	if err := completed().Where("is_passed = ?", true).Count(&stats.PassedCount).Error; err != nil {
		return nil, err
	}

	row := completed().
		Select("COALESCE(AVG(percentage_score), 0) AS average_score, COALESCE(MAX(percentage_score), 0) AS best_score").
		Row()
	if err := row.Scan(&stats.AverageScore, &stats.BestScore); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *QuizRepository) CountAttempts(quizID, userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Count(&count).Error
	return count, err
}

func (r *QuizRepository) CreateAttempt(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *QuizRepository) FindAttempt(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.First(&attempt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

func (r *QuizRepository) FindAttemptsByUser(quizID, userID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Where("quiz_id = ? AND user_id = ?", quizID, userID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}

// SubmitAttempt 保存答案并落盘成绩，单事务
func (r *QuizRepository) SubmitAttempt(attempt *model.QuizAttempt, answers []model.Answer) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return tx.Save(attempt).Error
	})
}

func (r *QuizRepository) FindAnswers(attemptID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}
