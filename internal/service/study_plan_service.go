package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/util"
	"learning_pathway_backend/pkg/logger"
)

type StudyPlanService struct {
	planRepo       *repository.StudyPlanRepository
	progressRepo   *repository.ProgressRepository
	recommendation *RecommendationService
	achievements   *AchievementService
}

func NewStudyPlanService(
	planRepo *repository.StudyPlanRepository,
	progressRepo *repository.ProgressRepository,
	recommendation *RecommendationService,
	achievements *AchievementService,
) *StudyPlanService {
	return &StudyPlanService{
		planRepo:       planRepo,
		progressRepo:   progressRepo,
		recommendation: recommendation,
		achievements:   achievements,
	}
}

type CreatePlanInput struct {
	Title                 string `json:"title" binding:"required,max=200"`
	Description           string `json:"description"`
	LearningObjective     string `json:"learningObjective" binding:"required,max=500"`
	StartDate             string `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate               string `json:"endDate" binding:"required"`   // YYYY-MM-DD
	PreferredResources    string `json:"preferredResources"`
	EstimatedHoursPerWeek int    `json:"estimatedHoursPerWeek" binding:"required"`
	ResourceCount         int    `json:"resourceCount"`
}

// ValidatePlanDates 计划日期校验：开始日不得早于今天，结束日必须晚于开始日
func ValidatePlanDates(startDate, endDate time.Time, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if startDate.Before(today) {
		return util.ErrStartDateInPast
	}
	if !endDate.After(startDate) {
		return util.ErrEndBeforeStart
	}
	return nil
}

// ValidateWeeklyHours 每周学习时长必须落在1到168小时之间
func ValidateWeeklyHours(hours int) error {
	if hours < 1 || hours > 168 {
		return util.ErrInvalidWeeklyLoad
	}
	return nil
}

// Create 创建学习计划，随即为学习目标物化推荐资源并初始化进度
func (s *StudyPlanService) Create(ctx context.Context, user *model.User, input *CreatePlanInput) (*model.StudyPlan, error) {
	startDate, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return nil, util.ErrStartDateInPast
	}
	endDate, err := time.Parse("2006-01-02", input.EndDate)
	if err != nil {
		return nil, util.ErrEndBeforeStart
	}

	if err := ValidatePlanDates(startDate, endDate, time.Now()); err != nil {
		return nil, err
	}
	if err := ValidateWeeklyHours(input.EstimatedHoursPerWeek); err != nil {
		return nil, err
	}

	plan := &model.StudyPlan{
		UserID:                user.ID,
		Title:                 input.Title,
		Description:           input.Description,
		LearningObjective:     input.LearningObjective,
		StartDate:             startDate,
		EndDate:               endDate,
		PreferredResources:    input.PreferredResources,
		EstimatedHoursPerWeek: input.EstimatedHoursPerWeek,
		Status:                model.PlanActive,
	}

	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}

	// 按学习目标拉取推荐资源并挂到计划上，失败不阻塞计划创建
	resourceCount := input.ResourceCount
	if resourceCount <= 0 {
		resourceCount = 6
	}
	resources, err := s.recommendation.GetSmartResources(ctx, input.LearningObjective, user.LearningStyle, resourceCount)
	if err != nil {
		logger.Log.Warn("Failed to materialize plan resources",
			zap.Uint("plan_id", plan.ID),
			zap.Error(err),
		)
	} else {
		links := make([]model.StudyPlanResource, 0, len(resources))
		for i, r := range resources {
			if r.ID == 0 {
				continue
			}
			links = append(links, model.StudyPlanResource{
				StudyPlanID: plan.ID,
				ResourceID:  r.ID,
				OrderIndex:  i,
			})
		}
		if err := s.planRepo.AttachResources(links); err != nil {
			logger.Log.Warn("Failed to attach plan resources", zap.Uint("plan_id", plan.ID), zap.Error(err))
		}
	}

	// 初始化总进度记录
	if progress, err := s.progressRepo.GetOrCreate(user.ID, plan.ID); err == nil {
		total, _ := s.planRepo.CountPlanResources(plan.ID)
		progress.TotalResources = int(total)
		if err := s.progressRepo.Update(progress); err != nil {
			logger.Log.Warn("Failed to init plan progress", zap.Uint("plan_id", plan.ID), zap.Error(err))
		}
	}

	s.achievements.CheckPlanAchievements(user.ID)

	return s.planRepo.FindByID(plan.ID)
}

func (s *StudyPlanService) Get(userID, planID uint) (*model.StudyPlan, error) {
	plan, err := s.planRepo.FindByID(planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return plan, nil
}

func (s *StudyPlanService) List(userID uint, status model.PlanStatus, page, pageSize int) ([]model.StudyPlan, int64, error) {
	return s.planRepo.FindByUser(userID, status, page, pageSize)
}

type UpdatePlanInput struct {
	Title                 string           `json:"title" binding:"omitempty,max=200"`
	Description           *string          `json:"description"`
	LearningObjective     string           `json:"learningObjective" binding:"omitempty,max=500"`
	EndDate               string           `json:"endDate"`
	PreferredResources    *string          `json:"preferredResources"`
	EstimatedHoursPerWeek int              `json:"estimatedHoursPerWeek"`
	Status                model.PlanStatus `json:"status" binding:"omitempty,oneof=active completed paused cancelled"`
}

// Update 更新计划字段，状态流转到completed时落盘完成时间
func (s *StudyPlanService) Update(userID, planID uint, input *UpdatePlanInput) (*model.StudyPlan, error) {
	plan, err := s.Get(userID, planID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}

	if input.Title != "" {
		fields["title"] = input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.LearningObjective != "" {
		fields["learning_objective"] = input.LearningObjective
	}
	if input.PreferredResources != nil {
		fields["preferred_resources"] = *input.PreferredResources
	}
	if input.EstimatedHoursPerWeek != 0 {
		if err := ValidateWeeklyHours(input.EstimatedHoursPerWeek); err != nil {
			return nil, err
		}
		fields["estimated_hours_per_week"] = input.EstimatedHoursPerWeek
	}
	if input.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", input.EndDate)
		if err != nil || !endDate.After(plan.StartDate) {
			return nil, util.ErrEndBeforeStart
		}
		fields["end_date"] = endDate
	}
	if input.Status != "" {
		fields["status"] = input.Status
		if input.Status == model.PlanCompleted {
			if progress, err := s.progressRepo.FindByUserAndPlan(userID, planID); err == nil {
				now := time.Now()
				progress.CompletedAt = &now
				if err := s.progressRepo.Update(progress); err != nil {
					logger.Log.Warn("Failed to stamp plan completion", zap.Uint("plan_id", planID), zap.Error(err))
				}
			}
			s.achievements.CheckCompletionAchievements(userID)
		}
	}

	if len(fields) > 0 {
		if err := s.planRepo.UpdateFields(planID, fields); err != nil {
			return nil, err
		}
	}

	return s.planRepo.FindByID(planID)
}

// Delete 删除计划及其进度、会话等关联数据
func (s *StudyPlanService) Delete(userID, planID uint) error {
	if _, err := s.Get(userID, planID); err != nil {
		return err
	}
	return s.planRepo.Delete(planID)
}

// RefreshResources 为计划追加一批新的推荐资源
func (s *StudyPlanService) RefreshResources(ctx context.Context, user *model.User, planID uint, count int) (*model.StudyPlan, error) {
	plan, err := s.Get(user.ID, planID)
	if err != nil {
		return nil, err
	}

	if count <= 0 {
		count = 4
	}

	resources, err := s.recommendation.GetSmartResources(ctx, plan.LearningObjective, user.LearningStyle, count)
	if err != nil {
		return nil, err
	}

	existing := make(map[uint]bool, len(plan.PlanResources))
	maxOrder := -1
	for _, link := range plan.PlanResources {
		existing[link.ResourceID] = true
		if link.OrderIndex > maxOrder {
			maxOrder = link.OrderIndex
		}
	}

	var links []model.StudyPlanResource
	for _, r := range resources {
		if r.ID == 0 || existing[r.ID] {
			continue
		}
		maxOrder++
		links = append(links, model.StudyPlanResource{
			StudyPlanID: planID,
			ResourceID:  r.ID,
			OrderIndex:  maxOrder,
		})
	}

	if err := s.planRepo.AttachResources(links); err != nil {
		return nil, err
	}

	// 资源总数变了，同步总进度
	if progress, err := s.progressRepo.GetOrCreate(user.ID, planID); err == nil {
		total, _ := s.planRepo.CountPlanResources(planID)
		progress.TotalResources = int(total)
		if progress.TotalResources > 0 {
			progress.CompletionPercentage = float64(progress.CompletedResources) / float64(progress.TotalResources) * 100
		}
		if err := s.progressRepo.Update(progress); err != nil {
			logger.Log.Warn("Failed to sync plan progress", zap.Uint("plan_id", planID), zap.Error(err))
		}
	}

	return s.planRepo.FindByID(planID)
}
