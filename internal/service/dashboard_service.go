package service

import (
	"context"

	"go.uber.org/zap"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/pkg/logger"
)

type DashboardService struct {
	userRepo        *repository.UserRepository
	planRepo        *repository.StudyPlanRepository
	progressRepo    *repository.ProgressRepository
	motivationRepo  *repository.MotivationRepository
	achievementRepo *repository.AchievementRepository
	recommendation  *RecommendationService
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	planRepo *repository.StudyPlanRepository,
	progressRepo *repository.ProgressRepository,
	motivationRepo *repository.MotivationRepository,
	achievementRepo *repository.AchievementRepository,
	recommendation *RecommendationService,
) *DashboardService {
	return &DashboardService{
		userRepo:        userRepo,
		planRepo:        planRepo,
		progressRepo:    progressRepo,
		motivationRepo:  motivationRepo,
		achievementRepo: achievementRepo,
		recommendation:  recommendation,
	}
}

type DashboardStats struct {
	TotalPlans         int64   `json:"totalPlans"`
	ActivePlans        int64   `json:"activePlans"`
	CompletedPlans     int64   `json:"completedPlans"`
	TotalHoursSpent    float64 `json:"totalHoursSpent"`
	CompletedResources int64   `json:"completedResources"`
}

type Dashboard struct {
	User                 *model.User         `json:"user"`
	Stats                DashboardStats      `json:"stats"`
	RecentPlans          []model.StudyPlan   `json:"recentPlans"`
	RecentAchievements   []model.Achievement `json:"recentAchievements"`
	Motivation           string              `json:"motivation,omitempty"`
	AIRecommendations    string              `json:"aiRecommendations,omitempty"`
	RecommendationsCache bool                `json:"recommendationsCached"`
	SuggestedResources   []model.Resource    `json:"suggestedResources,omitempty"`
}

// Get 汇总仪表盘：统计、最近计划、成就、激励短句、AI学习建议
func (s *DashboardService) Get(ctx context.Context, userID uint) (*Dashboard, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{User: user}

	dashboard.Stats.TotalPlans, _ = s.planRepo.CountByUser(userID)
	dashboard.Stats.ActivePlans, _ = s.planRepo.CountByUserAndStatus(userID, model.PlanActive)
	dashboard.Stats.CompletedPlans, _ = s.planRepo.CountByUserAndStatus(userID, model.PlanCompleted)
	dashboard.Stats.TotalHoursSpent, _ = s.progressRepo.TotalHoursByUser(userID)
	dashboard.Stats.CompletedResources, _ = s.progressRepo.TotalCompletedResourcesByUser(userID)

	recentPlans, err := s.planRepo.FindRecentByUser(userID, 5)
	if err != nil {
		logger.Log.Warn("Failed to load recent plans", zap.Uint("user_id", userID), zap.Error(err))
	}
	dashboard.RecentPlans = recentPlans

	achievements, err := s.achievementRepo.FindByUser(userID)
	if err == nil {
		if len(achievements) > 5 {
			achievements = achievements[:5]
		}
		dashboard.RecentAchievements = achievements
	}

	if motivation, err := s.motivationRepo.Random(); err == nil && motivation != nil {
		dashboard.Motivation = motivation.Content
	}

	// AI建议尽力而为，失败不影响仪表盘其余数据
	activePlans, _, _ := s.planRepo.FindByUser(userID, model.PlanActive, 1, 10)
	recommendations, cached, err := s.recommendation.StudyRecommendations(ctx, user, activePlans)
	if err != nil {
		logger.Log.Warn("Failed to generate study recommendations", zap.Uint("user_id", userID), zap.Error(err))
	} else {
		dashboard.AIRecommendations = recommendations
		dashboard.RecommendationsCache = cached
	}

	// 用目标关键词作为主题拉一批推荐资源
	if topic := TopicFromGoals(user.Goals); topic != "" {
		resources, err := s.recommendation.GetSmartResources(ctx, topic, user.LearningStyle, 4)
		if err != nil {
			logger.Log.Warn("Failed to load suggested resources", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			dashboard.SuggestedResources = resources
		}
	}

	return dashboard, nil
}
