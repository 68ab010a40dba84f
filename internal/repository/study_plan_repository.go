package repository

import (
	"errors"

	"gorm.io/gorm"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/util"
)

type StudyPlanRepository struct {
	db *gorm.DB
}

func NewStudyPlanRepository(db *gorm.DB) *StudyPlanRepository {
	return &StudyPlanRepository{db: db}
}

func (r *StudyPlanRepository) Create(plan *model.StudyPlan) error {
	return r.db.Create(plan).Error
}

func (r *StudyPlanRepository) FindByID(id uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	err := r.db.Preload("PlanResources", func(db *gorm.DB) *gorm.DB {
		return db.Order("study_plan_resources.order_index ASC")
	}).Preload("PlanResources.Resource").First(&plan, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (r *StudyPlanRepository) FindByUser(userID uint, status model.PlanStatus, page, pageSize int) ([]model.StudyPlan, int64, error) {
	query := r.db.Model(&model.StudyPlan{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plans []model.StudyPlan
	offset := (page - 1) * pageSize
	err := query.Preload("PlanResources.Resource").
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&plans).Error
	return plans, total, err
}

// FindRecentByUser 仪表盘用，取最近若干条计划
func (r *StudyPlanRepository) FindRecentByUser(userID uint, limit int) ([]model.StudyPlan, error) {
	var plans []model.StudyPlan
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&plans).Error
	return plans, err
}

func (r *StudyPlanRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudyPlan{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *StudyPlanRepository) CountByUserAndStatus(userID uint, status model.PlanStatus) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudyPlan{}).
		Where("user_id = ? AND status = ?", userID, status).
		Count(&count).Error
	return count, err
}

func (r *StudyPlanRepository) Update(plan *model.StudyPlan) error {
	return r.db.Save(plan).Error
}

func (r *StudyPlanRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.StudyPlan{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除计划及其关联数据，单事务保证一致性
func (r *StudyPlanRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var planResourceIDs []uint
		if err := tx.Model(&model.StudyPlanResource{}).
			Where("study_plan_id = ?", id).
			Pluck("id", &planResourceIDs).Error; err != nil {
			return err
		}

		if len(planResourceIDs) > 0 {
			if err := tx.Where("study_plan_resource_id IN ?", planResourceIDs).
				Delete(&model.ResourceProgress{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("study_plan_id = ?", id).Delete(&model.StudyPlanResource{}).Error; err != nil {
			return err
		}
		if err := tx.Where("study_plan_id = ?", id).Delete(&model.Progress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("study_plan_id = ?", id).Delete(&model.StudySession{}).Error; err != nil {
			return err
		}

		// 计划关联的测验连同题目、作答一并删除
		var quizIDs []uint
		if err := tx.Model(&model.Quiz{}).Where("study_plan_id = ?", id).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			var questionIDs []uint
			if err := tx.Model(&model.Question{}).Where("quiz_id IN ?", quizIDs).Pluck("id", &questionIDs).Error; err != nil {
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
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.Question{}).Error; err != nil {
				return err
			}
			if err := tx.Where("quiz_id IN ?", quizIDs).Delete(&model.QuizAttempt{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", quizIDs).Delete(&model.Quiz{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&model.StudyPlan{}, id).Error
	})
}

// AttachResources 批量关联资源到计划，冲突时忽略（唯一索引兜底）
func (r *StudyPlanRepository) AttachResources(links []model.StudyPlanResource) error {
	if len(links) == 0 {
		return nil
	}
	return r.db.Create(&links).Error
}

func (r *StudyPlanRepository) FindPlanResource(id uint) (*model.StudyPlanResource, error) {
	var link model.StudyPlanResource
	err := r.db.Preload("Resource").First(&link, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *StudyPlanRepository) FindPlanResources(planID uint) ([]model.StudyPlanResource, error) {
	var links []model.StudyPlanResource
	err := r.db.Where("study_plan_id = ?", planID).
		Preload("Resource").
		Order("order_index ASC").
		Find(&links).Error
	return links, err
}

func (r *StudyPlanRepository) UpdatePlanResource(link *model.StudyPlanResource) error {
	return r.db.Save(link).Error
}

func (r *StudyPlanRepository) CountPlanResources(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudyPlanResource{}).
		Where("study_plan_id = ?", planID).
		Count(&count).Error
	return count, err
}

func (r *StudyPlanRepository) CountCompletedPlanResources(planID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.StudyPlanResource{}).
		Where("study_plan_id = ? AND is_completed = ?", planID, true).
		Count(&count).Error
	return count, err
}
