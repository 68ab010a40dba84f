package repository

import (
	"errors"

	"gorm.io/gorm"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/util"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) Create(resource *model.Resource) error {
	return r.db.Create(resource).Error
}

func (r *ResourceRepository) CreateBatch(resources []model.Resource) error {
	if len(resources) == 0 {
		return nil
	}
	return r.db.Create(&resources).Error
}

func (r *ResourceRepository) FindByID(id uint) (*model.Resource, error) {
	var resource model.Resource
	if err := r.db.First(&resource, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}
	return &resource, nil
}

// FindByTopicAsc 按推荐次数升序取某主题下的资源（最少被推荐的优先）
func (r *ResourceRepository) FindByTopicAsc(topic string, limit int) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.db.Where("topic = ?", topic).
		Order("times_recommended ASC, id ASC").
		Limit(limit).
		Find(&resources).Error
	return resources, err
}

// FindByTopicDesc 按推荐次数降序取某主题下的资源（最受欢迎的优先）
func (r *ResourceRepository) FindByTopicDesc(topic string, limit int) ([]model.Resource, error) {
	var resources []model.Resource
	err := r.db.Where("topic = ?", topic).
		Order("times_recommended DESC, id ASC").
		Limit(limit).
		Find(&resources).Error
	return resources, err
}

func (r *ResourceRepository) CountByTopic(topic string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Resource{}).Where("topic = ?", topic).Count(&count).Error
	return count, err
}

// AllURLs 返回全表已存在的URL集合，用于入库前去重
func (r *ResourceRepository) AllURLs() (map[string]bool, error) {
	var urls []string
	if err := r.db.Model(&model.Resource{}).Pluck("url", &urls).Error; err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(urls))
	for _, u := range urls {
		set[u] = true
	}
	return set, nil
}

// IncrementTimesRecommended 原子自增推荐次数，保证计数只增不减
func (r *ResourceRepository) IncrementTimesRecommended(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&model.Resource{}).
		Where("id IN ?", ids).
		Update("times_recommended", gorm.Expr("times_recommended + ?", 1)).Error
}

func (r *ResourceRepository) Search(keyword, category string, resourceType model.ResourceType, page, pageSize int) ([]model.Resource, int64, error) {
	query := r.db.Model(&model.Resource{})

	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("title LIKE ? OR topic LIKE ? OR description LIKE ?", like, like, like)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if resourceType != "" {
		query = query.Where("type = ?", resourceType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var resources []model.Resource
	offset := (page - 1) * pageSize
	err := query.Order("times_recommended DESC").Offset(offset).Limit(pageSize).Find(&resources).Error
	return resources, total, err
}
