package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// LearningStyle 学习风格，用于个性化推荐
type LearningStyle string

const (
	Visual         LearningStyle = "Visual"
	Auditory       LearningStyle = "Auditory"
	Kinesthetic    LearningStyle = "Kinesthetic"
	ReadingWriting LearningStyle = "Reading/Writing"
)

// swagger:model User
type User struct {
	BaseModel
	Name          string        `gorm:"size:150;not null" json:"name"`
	Email         string        `gorm:"size:100;unique;not null" json:"email"`
	Password      string        `gorm:"size:100;not null" json:"-"`
	Role          UserRole      `gorm:"type:enum('student','admin');default:'student'" json:"role"`
	LearningStyle LearningStyle `gorm:"size:50" json:"learningStyle"`
	Goals         string        `gorm:"type:text" json:"goals"`
	Language      string        `gorm:"size:10;default:'en'" json:"language"`
	Avatar        string        `gorm:"size:255" json:"avatar"`
	Disabled      bool          `gorm:"default:false" json:"disabled"`
	LastLogin     time.Time     `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen      time.Time     `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
