package util

import "errors"

// 业务错误，service层返回，controller层映射为HTTP状态码
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")

	ErrPlanNotFound     = errors.New("study plan not found")
	ErrResourceNotFound = errors.New("resource not found")

	ErrQuizNotFound        = errors.New("quiz not found")
	ErrQuizEmpty           = errors.New("quiz has no questions")
	ErrQuestionNotFound    = errors.New("question not found")
	ErrQuizNotPublished    = errors.New("quiz is not published")
	ErrMaxAttemptsReached  = errors.New("maximum attempts reached")
	ErrAttemptNotFound     = errors.New("quiz attempt not found")
	ErrAttemptAlreadyEnded = errors.New("quiz attempt already submitted")

	ErrPermissionDenied = errors.New("permission denied")
	ErrUnauthorized     = errors.New("unauthorized")

	ErrStartDateInPast   = errors.New("start date cannot be in the past")
	ErrEndBeforeStart    = errors.New("end date must be after start date")
	ErrInvalidWeeklyLoad = errors.New("estimated hours per week must be between 1 and 168")
)
