package service

import (
	"time"

	"go.uber.org/zap"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/util"
	"learning_pathway_backend/pkg/logger"
)

type ProgressService struct {
	progressRepo *repository.ProgressRepository
	planRepo     *repository.StudyPlanRepository
	achievements *AchievementService
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	planRepo *repository.StudyPlanRepository,
	achievements *AchievementService,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		planRepo:     planRepo,
		achievements: achievements,
	}
}

func (s *ProgressService) GetPlanProgress(userID, planID uint) (*model.Progress, error) {
	plan, err := s.planRepo.FindByID(planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.progressRepo.GetOrCreate(userID, planID)
}

func (s *ProgressService) ListByUser(userID uint) ([]model.Progress, error) {
	return s.progressRepo.FindByUser(userID)
}

// ToggleResourceCompletion 切换计划内单个资源的完成状态并重算总进度
func (s *ProgressService) ToggleResourceCompletion(userID, planResourceID uint, completed bool) (*model.Progress, error) {
	link, err := s.planRepo.FindPlanResource(planResourceID)
	if err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByID(link.StudyPlanID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	now := time.Now()
	link.IsCompleted = completed
	if completed {
		link.CompletionDate = &now
	} else {
		link.CompletionDate = nil
	}
	if err := s.planRepo.UpdatePlanResource(link); err != nil {
		return nil, err
	}

	rp, err := s.progressRepo.GetOrCreateResourceProgress(userID, planResourceID)
	if err != nil {
		return nil, err
	}
	rp.IsCompleted = completed
	if completed {
		rp.ProgressPercentage = 100
		rp.CompletedAt = &now
	} else {
		rp.CompletedAt = nil
	}
	if err := s.progressRepo.UpdateResourceProgress(rp); err != nil {
		return nil, err
	}

	progress, err := s.Recalculate(userID, link.StudyPlanID)
	if err != nil {
		return nil, err
	}

	s.achievements.CheckProgressAchievements(userID)
	return progress, nil
}

type UpdateResourceProgressInput struct {
	ProgressPercentage *float64 `json:"progressPercentage" binding:"omitempty,min=0,max=100"`
	TimeSpent          *float64 `json:"timeSpent" binding:"omitempty,min=0"`
	Notes              *string  `json:"notes"`
}

// UpdateResourceProgress 更新资源学习进度，达到100%自动置为完成
func (s *ProgressService) UpdateResourceProgress(userID, planResourceID uint, input *UpdateResourceProgressInput) (*model.ResourceProgress, error) {
	link, err := s.planRepo.FindPlanResource(planResourceID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(link.StudyPlanID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	rp, err := s.progressRepo.GetOrCreateResourceProgress(userID, planResourceID)
	if err != nil {
		return nil, err
	}

	if input.ProgressPercentage != nil {
		rp.ProgressPercentage = *input.ProgressPercentage
		if rp.ProgressPercentage >= 100 && !rp.IsCompleted {
			now := time.Now()
			rp.IsCompleted = true
			rp.CompletedAt = &now
			link.IsCompleted = true
			link.CompletionDate = &now
			if err := s.planRepo.UpdatePlanResource(link); err != nil {
				return nil, err
			}
		}
	}
	if input.TimeSpent != nil {
		rp.TimeSpent += *input.TimeSpent
	}
	if input.Notes != nil {
		rp.Notes = *input.Notes
	}

	if err := s.progressRepo.UpdateResourceProgress(rp); err != nil {
		return nil, err
	}

	if _, err := s.Recalculate(userID, link.StudyPlanID); err != nil {
		logger.Log.Warn("Failed to recalculate plan progress",
			zap.Uint("plan_id", link.StudyPlanID),
			zap.Error(err),
		)
	}
	s.achievements.CheckProgressAchievements(userID)

	return rp, nil
}

// Recalculate 按关联资源的完成情况重算计划总进度，全部完成时把计划置为已完成
func (s *ProgressService) Recalculate(userID, planID uint) (*model.Progress, error) {
	plan, err := s.planRepo.FindByID(planID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progressRepo.GetOrCreate(userID, planID)
	if err != nil {
		return nil, err
	}

	total, err := s.planRepo.CountPlanResources(planID)
	if err != nil {
		return nil, err
	}
	completed, err := s.planRepo.CountCompletedPlanResources(planID)
	if err != nil {
		return nil, err
	}

	progress.TotalResources = int(total)
	progress.CompletedResources = int(completed)
	progress.CompletionPercentage = CompletionPercentage(int(completed), int(total))

	if total > 0 && completed == total && progress.CompletedAt == nil {
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := s.progressRepo.Update(progress); err != nil {
		return nil, err
	}

	if PlanBecameComplete(int(completed), int(total), plan.Status) {
		if err := s.planRepo.UpdateFields(planID, map[string]interface{}{"status": model.PlanCompleted}); err != nil {
			logger.Log.Warn("Failed to mark plan completed",
				zap.Uint("plan_id", planID),
				zap.Error(err),
			)
		} else {
			s.achievements.CheckCompletionAchievements(userID)
		}
	}

	return progress, nil
}

// PlanBecameComplete 所有资源已完成且计划尚未处于完成状态
func PlanBecameComplete(completed, total int, status model.PlanStatus) bool {
	return total > 0 && completed == total && status != model.PlanCompleted
}

// CompletionPercentage 完成百分比，空计划为0
func CompletionPercentage(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

type StartSessionInput struct {
	StudyPlanID uint  `json:"studyPlanId" binding:"required"`
	ResourceID  *uint `json:"resourceId"`
}

// StartSession 开始一次学习会话
func (s *ProgressService) StartSession(userID uint, input *StartSessionInput) (*model.StudySession, error) {
	plan, err := s.planRepo.FindByID(input.StudyPlanID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	session := &model.StudySession{
		UserID:      userID,
		StudyPlanID: input.StudyPlanID,
		ResourceID:  input.ResourceID,
		StartedAt:   time.Now(),
	}
	if err := s.progressRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

type EndSessionInput struct {
	Notes string `json:"notes"`
}

// EndSession 结束会话，把时长累加到计划总进度
func (s *ProgressService) EndSession(userID uint, sessionID string, input *EndSessionInput) (*model.StudySession, error) {
	session, err := s.progressRepo.FindSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	if session.EndedAt != nil {
		return session, nil
	}

	now := time.Now()
	session.EndedAt = &now
	session.Duration = now.Sub(session.StartedAt).Hours()
	if input.Notes != "" {
		session.Notes = input.Notes
	}
	if err := s.progressRepo.UpdateSession(session); err != nil {
		return nil, err
	}

	if progress, err := s.progressRepo.GetOrCreate(userID, session.StudyPlanID); err == nil {
		progress.TotalHoursSpent += session.Duration
		if err := s.progressRepo.Update(progress); err != nil {
			logger.Log.Warn("Failed to add session hours to progress",
				zap.Uint("plan_id", session.StudyPlanID),
				zap.Error(err),
			)
		}
	}

	s.achievements.CheckProgressAchievements(userID)
	return session, nil
}

func (s *ProgressService) RecentSessions(userID uint, limit int) ([]model.StudySession, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.progressRepo.FindSessionsByUser(userID, limit)
}
