package model

import "time"

// Progress 每个用户每个学习计划一条总进度记录
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID               uint       `gorm:"index;uniqueIndex:idx_user_plan;type:bigint unsigned" json:"userId"`
	StudyPlanID          uint       `gorm:"uniqueIndex:idx_user_plan;type:bigint unsigned" json:"studyPlanId"`
	TotalResources       int        `gorm:"default:0" json:"totalResources"`
	CompletedResources   int        `gorm:"default:0" json:"completedResources"`
	TotalHoursSpent      float64    `gorm:"default:0" json:"totalHoursSpent"`
	CompletionPercentage float64    `gorm:"default:0" json:"completionPercentage"`
	StartedAt            *time.Time `json:"startedAt,omitempty"`
	LastActivity         time.Time  `gorm:"autoUpdateTime" json:"lastActivity"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}

func (Progress) TableName() string {
	return "progress"
}

// ResourceProgress 计划内单个资源的完成进度，(user, plan_resource)唯一
type ResourceProgress struct {
	BaseModel
	UserID              uint       `gorm:"index;uniqueIndex:idx_user_plan_resource;type:bigint unsigned" json:"userId"`
	StudyPlanResourceID uint       `gorm:"uniqueIndex:idx_user_plan_resource;type:bigint unsigned" json:"studyPlanResourceId"`
	IsCompleted         bool       `gorm:"default:false" json:"isCompleted"`
	ProgressPercentage  float64    `gorm:"default:0" json:"progressPercentage"`
	TimeSpent           float64    `gorm:"default:0" json:"timeSpent"` // 小时
	StartedAt           *time.Time `json:"startedAt,omitempty"`
	CompletedAt         *time.Time `json:"completedAt,omitempty"`
	Notes               string     `gorm:"type:text" json:"notes"`
}

func (ResourceProgress) TableName() string {
	return "resource_progress"
}

// StudySession 一次学习会话，结束时把时长累加到总进度
type StudySession struct {
	UUIDBase
	UserID      uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	StudyPlanID uint       `gorm:"index;type:bigint unsigned" json:"studyPlanId"`
	ResourceID  *uint      `gorm:"type:bigint unsigned" json:"resourceId,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	EndedAt     *time.Time `json:"endedAt,omitempty"`
	Duration    float64    `gorm:"default:0" json:"duration"` // 小时
	Notes       string     `gorm:"type:text" json:"notes"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}
