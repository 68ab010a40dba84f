package model

import "time"

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanPaused    PlanStatus = "paused"
	PlanCancelled PlanStatus = "cancelled"
)

// swagger:model StudyPlan
type StudyPlan struct {
	BaseModel
	UserID                uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	Title                 string     `gorm:"size:200;not null" json:"title"`
	Description           string     `gorm:"type:text" json:"description"`
	LearningObjective     string     `gorm:"size:500;not null" json:"learningObjective"`
	StartDate             time.Time  `gorm:"type:date;not null" json:"startDate"`
	EndDate               time.Time  `gorm:"type:date;not null" json:"endDate"`
	PreferredResources    string     `gorm:"size:300" json:"preferredResources"`
	EstimatedHoursPerWeek int        `gorm:"not null" json:"estimatedHoursPerWeek"`
	Status                PlanStatus `gorm:"type:enum('active','completed','paused','cancelled');default:'active'" json:"status"`

	PlanResources []StudyPlanResource `gorm:"foreignKey:StudyPlanID" json:"planResources,omitempty"`
}

func (StudyPlan) TableName() string {
	return "study_plans"
}

// StudyPlanResource 计划与资源的关联，(plan, resource)唯一
type StudyPlanResource struct {
	BaseModel
	StudyPlanID    uint       `gorm:"index;uniqueIndex:idx_plan_resource;type:bigint unsigned" json:"studyPlanId"`
	ResourceID     uint       `gorm:"uniqueIndex:idx_plan_resource;type:bigint unsigned" json:"resourceId"`
	OrderIndex     int        `gorm:"default:0" json:"orderIndex"`
	Priority       int        `gorm:"default:0" json:"priority"`
	IsCompleted    bool       `gorm:"default:false" json:"isCompleted"`
	CompletionDate *time.Time `gorm:"type:date" json:"completionDate,omitempty"`

	Resource Resource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
}

func (StudyPlanResource) TableName() string {
	return "study_plan_resources"
}
