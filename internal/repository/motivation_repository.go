package repository

import (
	"errors"

	"gorm.io/gorm"

	"learning_pathway_backend/internal/model"
)

type MotivationRepository struct {
	db *gorm.DB
}

func NewMotivationRepository(db *gorm.DB) *MotivationRepository {
	return &MotivationRepository{db: db}
}

// Random 随机取一条启用中的激励短句
func (r *MotivationRepository) Random() (*model.Motivation, error) {
	var motivation model.Motivation
	err := r.db.Where("is_enabled = ?", true).Order("RAND()").First(&motivation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &motivation, nil
}
