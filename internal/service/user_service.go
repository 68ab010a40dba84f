package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/util"
)

type UserService struct {
	userRepo       *repository.UserRepository
	recommendation *RecommendationService
}

func NewUserService(userRepo *repository.UserRepository, recommendation *RecommendationService) *UserService {
	return &UserService{userRepo: userRepo, recommendation: recommendation}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	return s.userRepo.FindByID(userID)
}

type UpdateProfileInput struct {
	Name          string              `json:"name" binding:"omitempty,min=2,max=150"`
	LearningStyle model.LearningStyle `json:"learningStyle" binding:"omitempty,oneof=Visual Auditory Kinesthetic Reading/Writing"`
	Goals         *string             `json:"goals"`
	Language      string              `json:"language" binding:"omitempty,max=10"`
	Avatar        string              `json:"avatar"`
}

// UpdateProfile 更新用户画像，学习风格或目标变更时使推荐缓存失效
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, input *UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	profileChanged := false

	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.LearningStyle != "" && input.LearningStyle != user.LearningStyle {
		fields["learning_style"] = input.LearningStyle
		profileChanged = true
	}
	if input.Goals != nil && *input.Goals != user.Goals {
		fields["goals"] = *input.Goals
		profileChanged = true
	}
	if input.Language != "" {
		fields["language"] = input.Language
	}
	if input.Avatar != "" {
		fields["avatar"] = input.Avatar
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	if profileChanged {
		s.recommendation.InvalidateStudyRecommendations(ctx, userID)
	}

	return s.userRepo.FindByID(userID)
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ListUsers 管理端用户列表
func (s *UserService) ListUsers(page, pageSize int) ([]model.User, int64, error) {
	return s.userRepo.List(page, pageSize)
}

// DeleteAccount 注销账号并清理关联数据与缓存
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return err
	}
	if err := s.userRepo.DeleteCascade(userID); err != nil {
		return err
	}
	s.recommendation.InvalidateStudyRecommendations(ctx, userID)
	return nil
}

func (s *UserService) ChangePassword(userID uint, input *ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.OldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(userID, map[string]interface{}{"password": string(hashed)})
}
