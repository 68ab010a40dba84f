package service

import (
	"go.uber.org/zap"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/pkg/logger"
)

// AchievementService 成就颁发，所有检查都尽力而为，失败只记日志
type AchievementService struct {
	achievementRepo *repository.AchievementRepository
	planRepo        *repository.StudyPlanRepository
	progressRepo    *repository.ProgressRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	planRepo *repository.StudyPlanRepository,
	progressRepo *repository.ProgressRepository,
) *AchievementService {
	return &AchievementService{
		achievementRepo: achievementRepo,
		planRepo:        planRepo,
		progressRepo:    progressRepo,
	}
}

func (s *AchievementService) ListByUser(userID uint) ([]model.Achievement, error) {
	return s.achievementRepo.FindByUser(userID)
}

func (s *AchievementService) award(userID uint, achType model.AchievementType, title, description string) {
	has, err := s.achievementRepo.Has(userID, achType)
	if err != nil || has {
		return
	}
	awarded, err := s.achievementRepo.Award(&model.Achievement{
		UserID:      userID,
		Type:        achType,
		Title:       title,
		Description: description,
	})
	if err != nil {
		logger.Log.Warn("Failed to award achievement",
			zap.Uint("user_id", userID),
			zap.String("type", string(achType)),
			zap.Error(err),
		)
		return
	}
	if awarded {
		logger.Log.Info("Achievement awarded",
			zap.Uint("user_id", userID),
			zap.String("type", string(achType)),
		)
	}
}

// CheckPlanAchievements 创建计划后的成就检查
func (s *AchievementService) CheckPlanAchievements(userID uint) {
	count, err := s.planRepo.CountByUser(userID)
	if err != nil {
		return
	}
	if count >= 1 {
		s.award(userID, model.AchFirstPlan, "Getting Started", "Created your first study plan.")
	}
}

// CheckCompletionAchievements 完成计划后的成就检查
func (s *AchievementService) CheckCompletionAchievements(userID uint) {
	completed, err := s.planRepo.CountByUserAndStatus(userID, model.PlanCompleted)
	if err != nil {
		return
	}
	if completed >= 1 {
		s.award(userID, model.AchFirstCompletion, "Finisher", "Completed your first study plan.")
	}
	if completed >= 1 {
		s.award(userID, model.AchPlanCompleted, "Plan Completed", "Completed a study plan.")
	}
}

// CheckProgressAchievements 学习进度变化后的成就检查（时长、资源数）
func (s *AchievementService) CheckProgressAchievements(userID uint) {
	hours, err := s.progressRepo.TotalHoursByUser(userID)
	if err == nil {
		if hours >= 10 {
			s.award(userID, model.AchHours10, "Dedicated Learner", "Logged 10 hours of study time.")
		}
		if hours >= 50 {
			s.award(userID, model.AchHours50, "Committed Learner", "Logged 50 hours of study time.")
		}
		if hours >= 100 {
			s.award(userID, model.AchHours100, "Study Marathoner", "Logged 100 hours of study time.")
		}
	}

	resources, err := s.progressRepo.TotalCompletedResourcesByUser(userID)
	if err == nil {
		if resources >= 10 {
			s.award(userID, model.AchResources10, "Resource Explorer", "Completed 10 learning resources.")
		}
		if resources >= 50 {
			s.award(userID, model.AchResources50, "Resource Master", "Completed 50 learning resources.")
		}
	}
}
