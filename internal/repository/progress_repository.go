package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"learning_pathway_backend/internal/model"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetOrCreate 取出用户在某计划下的总进度，不存在则初始化一条
func (r *ProgressRepository) GetOrCreate(userID, planID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.Where("user_id = ? AND study_plan_id = ?", userID, planID).First(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	progress = model.Progress{
		UserID:      userID,
		StudyPlanID: planID,
		StartedAt:   &now,
	}
	if err := r.db.Create(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *ProgressRepository) Update(progress *model.Progress) error {
	return r.db.Save(progress).Error
}

func (r *ProgressRepository) FindByUser(userID uint) ([]model.Progress, error) {
	var items []model.Progress
	err := r.db.Where("user_id = ?", userID).Order("last_activity DESC").Find(&items).Error
	return items, err
}

func (r *ProgressRepository) FindByUserAndPlan(userID, planID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.db.Where("user_id = ? AND study_plan_id = ?", userID, planID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// TotalHoursByUser 用户所有计划累计学习时长
func (r *ProgressRepository) TotalHoursByUser(userID uint) (float64, error) {
	var total float64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_hours_spent), 0)").
		Scan(&total).Error
	return total, err
}

// TotalCompletedResourcesByUser 用户累计完成资源数
func (r *ProgressRepository) TotalCompletedResourcesByUser(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&model.Progress{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(completed_resources), 0)").
		Scan(&total).Error
	return total, err
}

// GetOrCreateResourceProgress 取出或初始化单个资源的进度记录
func (r *ProgressRepository) GetOrCreateResourceProgress(userID, planResourceID uint) (*model.ResourceProgress, error) {
	var rp model.ResourceProgress
	err := r.db.Where("user_id = ? AND study_plan_resource_id = ?", userID, planResourceID).First(&rp).Error
	if err == nil {
		return &rp, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	rp = model.ResourceProgress{
		UserID:              userID,
		StudyPlanResourceID: planResourceID,
		StartedAt:           &now,
	}
	if err := r.db.Create(&rp).Error; err != nil {
		return nil, err
	}
	return &rp, nil
}

func (r *ProgressRepository) UpdateResourceProgress(rp *model.ResourceProgress) error {
	return r.db.Save(rp).Error
}

func (r *ProgressRepository) CreateSession(session *model.StudySession) error {
	return r.db.Create(session).Error
}

func (r *ProgressRepository) FindSession(id string) (*model.StudySession, error) {
	var session model.StudySession
	err := r.db.Where("id = ?", id).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *ProgressRepository) UpdateSession(session *model.StudySession) error {
	return r.db.Save(session).Error
}

func (r *ProgressRepository) FindSessionsByUser(userID uint, limit int) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.db.Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
