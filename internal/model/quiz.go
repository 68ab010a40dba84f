package model

import "time"

type QuizDifficulty string

const (
	QuizEasy   QuizDifficulty = "easy"
	QuizMedium QuizDifficulty = "medium"
	QuizHard   QuizDifficulty = "hard"
)

type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizPublished QuizStatus = "published"
	QuizArchived  QuizStatus = "archived"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title              string         `gorm:"size:255;not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	StudyPlanID        *uint          `gorm:"index;type:bigint unsigned" json:"studyPlanId,omitempty"`
	CreatedBy          uint           `gorm:"index;type:bigint unsigned" json:"createdBy"`
	Difficulty         QuizDifficulty `gorm:"type:enum('easy','medium','hard');default:'medium'" json:"difficulty"`
	Status             QuizStatus     `gorm:"type:enum('draft','published','archived');default:'draft'" json:"status"`
	TotalQuestions     int            `gorm:"default:0" json:"totalQuestions"`
	PassingScore       int            `gorm:"default:70" json:"passingScore"` // 及格线（百分比）
	TimeLimit          *int           `json:"timeLimit,omitempty"`            // 分钟
	ShuffleQuestions   bool           `gorm:"default:false" json:"shuffleQuestions"`
	ShowCorrectAnswers bool           `gorm:"default:true" json:"showCorrectAnswers"`
	AllowRetake        bool           `gorm:"default:true" json:"allowRetake"`
	MaxAttempts        *int           `json:"maxAttempts,omitempty"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	BaseModel
	QuizID      uint         `gorm:"index;type:bigint unsigned" json:"quizId"`
	Text        string       `gorm:"type:text;not null" json:"text"`
	Type        QuestionType `gorm:"type:enum('multiple_choice','true_false');default:'multiple_choice'" json:"type"`
	Order       int          `gorm:"column:sort_order;default:0" json:"order"`
	Points      int          `gorm:"default:1" json:"points"`
	Explanation string       `gorm:"type:text" json:"explanation"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
	Order      int    `gorm:"column:sort_order;default:0" json:"order"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}

// swagger:model QuizAttempt
type QuizAttempt struct {
	BaseModel
	QuizID          uint       `gorm:"index;type:bigint unsigned" json:"quizId"`
	UserID          uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	StudyPlanID     *uint      `gorm:"type:bigint unsigned" json:"studyPlanId,omitempty"`
	StartedAt       time.Time  `gorm:"autoCreateTime" json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
	TotalScore      int        `gorm:"default:0" json:"totalScore"`
	PercentageScore float64    `gorm:"default:0" json:"percentageScore"`
	IsPassed        bool       `gorm:"default:false" json:"isPassed"`
	TimeTaken       *int       `json:"timeTaken,omitempty"` // 秒
	AnswersCount    int        `gorm:"default:0" json:"answersCount"`
	CorrectAnswers  int        `gorm:"default:0" json:"correctAnswers"`
	AttemptNumber   int        `gorm:"default:1" json:"attemptNumber"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

type Answer struct {
	BaseModel
	QuestionID       uint  `gorm:"index;type:bigint unsigned" json:"questionId"`
	AttemptID        uint  `gorm:"index;type:bigint unsigned" json:"attemptId"`
	SelectedOptionID *uint `gorm:"type:bigint unsigned" json:"selectedOptionId,omitempty"`
	IsCorrect        bool  `gorm:"default:false" json:"isCorrect"`
}

func (Answer) TableName() string {
	return "answers"
}
