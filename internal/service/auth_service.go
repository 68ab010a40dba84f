package service

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/internal/repository"
	"learning_pathway_backend/internal/util"
	"learning_pathway_backend/pkg/logger"
)

type AuthService struct {
	cfg      *config.Config
	userRepo *repository.UserRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo}
}

type RegisterInput struct {
	Name          string              `json:"name" binding:"required,min=2,max=150"`
	Email         string              `json:"email" binding:"required,email"`
	Password      string              `json:"password" binding:"required,min=8"`
	LearningStyle model.LearningStyle `json:"learningStyle" binding:"required,oneof=Visual Auditory Kinesthetic Reading/Writing"`
	Goals         string              `json:"goals"`
	Language      string              `json:"language"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register 注册新用户，邮箱唯一，密码bcrypt加密存储
func (s *AuthService) Register(input *RegisterInput) (*AuthResult, error) {
	exists, err := s.userRepo.EmailExists(input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	language := input.Language
	if language == "" {
		language = "en"
	}

	user := &model.User{
		Name:          input.Name,
		Email:         input.Email,
		Password:      string(hashed),
		Role:          model.Student,
		LearningStyle: input.LearningStyle,
		Goals:         input.Goals,
		Language:      language,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.cfg)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("learning_style", string(user.LearningStyle)),
	)

	return &AuthResult{Token: token, User: user}, nil
}

// Login 校验凭据并签发JWT
func (s *AuthService) Login(input *LoginInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if err == util.ErrUserNotFound {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Disabled {
		return nil, util.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.cfg)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(user.ID, time.Now()); err != nil {
		logger.Log.Warn("Failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	return &AuthResult{Token: token, User: user}, nil
}
