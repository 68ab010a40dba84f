package model

import "time"

type AchievementType string

const (
	AchFirstPlan       AchievementType = "first_plan"
	AchFirstCompletion AchievementType = "first_completion"
	AchPlanCompleted   AchievementType = "plan_completed"
	AchHours10         AchievementType = "hours_10"
	AchHours50         AchievementType = "hours_50"
	AchHours100        AchievementType = "hours_100"
	AchResources10     AchievementType = "resources_10"
	AchResources50     AchievementType = "resources_50"
)

// Achievement 用户成就，(user, type)唯一，重复颁发被唯一索引挡掉
// swagger:model Achievement
type Achievement struct {
	BaseModel
	UserID      uint            `gorm:"index;uniqueIndex:idx_user_achievement;type:bigint unsigned" json:"userId"`
	Type        AchievementType `gorm:"size:50;uniqueIndex:idx_user_achievement" json:"type"`
	Title       string          `gorm:"size:200" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	EarnedAt    time.Time       `gorm:"autoCreateTime" json:"earnedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
