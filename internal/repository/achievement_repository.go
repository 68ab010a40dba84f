package repository

import (
	"errors"

	"gorm.io/gorm"

	"learning_pathway_backend/internal/model"
)

type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

func (r *AchievementRepository) FindByUser(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.db.Where("user_id = ?", userID).Order("earned_at DESC").Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) Has(userID uint, achType model.AchievementType) (bool, error) {
	var count int64
	err := r.db.Model(&model.Achievement{}).
		Where("user_id = ? AND type = ?", userID, achType).
		Count(&count).Error
	return count > 0, err
}

// Award 颁发成就，重复颁发视为成功（唯一索引兜底）
func (r *AchievementRepository) Award(achievement *model.Achievement) (bool, error) {
	err := r.db.Create(achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
