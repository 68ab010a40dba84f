package model

import "strings"

type ResourceType string

const (
	Video         ResourceType = "video"
	Article       ResourceType = "article"
	Interactive   ResourceType = "interactive"
	Course        ResourceType = "course"
	Practice      ResourceType = "practice"
	Documentation ResourceType = "documentation"
	Tutorial      ResourceType = "tutorial"
	Book          ResourceType = "book"
)

type Difficulty string

const (
	Beginner      Difficulty = "beginner"
	Intermediate  Difficulty = "intermediate"
	Advanced      Difficulty = "advanced"
	AllDifficulty Difficulty = "all"
)

// Resource 全局学习资源池，URL全表唯一，times_recommended只增不减
// swagger:model Resource
type Resource struct {
	BaseModel
	Topic            string       `gorm:"size:200;index;not null" json:"topic"`
	Title            string       `gorm:"size:300;not null" json:"title"`
	URL              string       `gorm:"size:500;unique;not null" json:"url"`
	Description      string       `gorm:"type:text" json:"description"`
	Type             ResourceType `gorm:"size:20;index;not null" json:"type"`
	Category         string       `gorm:"size:50;index;default:'other'" json:"category"`
	Difficulty       Difficulty   `gorm:"size:15;default:'all'" json:"difficulty"`
	Platform         string       `gorm:"size:100" json:"platform"`
	LearningStyle    string       `gorm:"size:200" json:"learningStyle"`
	EstimatedTime    string       `gorm:"size:50" json:"estimatedTime"`
	IsExternal       bool         `gorm:"default:true" json:"isExternal"`
	IsFree           bool         `gorm:"default:true" json:"isFree"`
	Language         string       `gorm:"size:10;default:'en'" json:"language"`
	TimesRecommended int          `gorm:"default:0" json:"timesRecommended"`
}

func (Resource) TableName() string {
	return "resources"
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"programming", []string{"python", "java", "javascript", "c++", "c#", "golang", "programming", "coding", "algorithm", "data structures"}},
	{"web_development", []string{"web", "html", "css", "react", "vue", "angular", "django", "flask", "node", "frontend", "backend"}},
	{"data_science", []string{"data science", "data analysis", "pandas", "numpy", "statistics", "analytics"}},
	{"machine_learning", []string{"machine learning", "ml", "ai", "artificial intelligence", "neural", "deep learning", "tensorflow", "pytorch"}},
	{"mobile_development", []string{"mobile", "android", "ios", "swift", "kotlin", "react native", "flutter"}},
	{"design", []string{"design", "ui", "ux", "photoshop", "illustrator", "figma", "drawing"}},
	{"business", []string{"business", "marketing", "management", "entrepreneurship", "startup"}},
	{"languages", []string{"language", "english", "spanish", "french", "german", "japanese", "chinese", "learn to speak"}},
	{"science", []string{"science", "physics", "chemistry", "biology", "math", "mathematics"}},
	{"arts", []string{"music", "guitar", "piano", "singing", "painting", "arts", "craft"}},
	{"cooking", []string{"cooking", "baking", "recipe", "culinary", "chef"}},
	{"fitness", []string{"fitness", "workout", "exercise", "yoga", "gym", "health"}},
}

// DetectCategoryFromTopic 根据主题关键词推断资源分类
func DetectCategoryFromTopic(topic string) string {
	topicLower := strings.ToLower(topic)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(topicLower, kw) {
				return entry.category
			}
		}
	}
	return "other"
}
