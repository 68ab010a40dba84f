package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/pkg/logger"
	"learning_pathway_backend/pkg/monitoring"
)

// ResourceStore 推荐服务需要的资源读写能力
type ResourceStore interface {
	CountByTopic(topic string) (int64, error)
	FindByTopicAsc(topic string, limit int) ([]model.Resource, error)
	FindByTopicDesc(topic string, limit int) ([]model.Resource, error)
	AllURLs() (map[string]bool, error)
	CreateBatch(resources []model.Resource) error
	IncrementTimesRecommended(ids []uint) error
}

// RecommendationService 资源推荐：读穿透缓存 + AI补充 + 静态兜底
type RecommendationService struct {
	cfg          *config.Config
	resourceRepo ResourceStore
	aiService    *AIService
	rdb          *redis.Client
}

func NewRecommendationService(cfg *config.Config, resourceRepo ResourceStore, aiService *AIService, rdb *redis.Client) *RecommendationService {
	return &RecommendationService{
		cfg:          cfg,
		resourceRepo: resourceRepo,
		aiService:    aiService,
		rdb:          rdb,
	}
}

// GetSmartResources 核心推荐入口
// 库中某主题的资源足够时直接做多样性混选，否则调AI补库，AI失败回退到精选目录。
// 每次返回都会原子递增所选资源的times_recommended。
func (s *RecommendationService) GetSmartResources(ctx context.Context, topic string, learningStyle model.LearningStyle, limit int) ([]model.Resource, error) {
	if limit <= 0 {
		limit = 6
	}

	count, err := s.resourceRepo.CountByTopic(topic)
	if err != nil {
		return nil, err
	}

	if count >= int64(limit) {
		resources, err := s.selectDiverse(topic, limit)
		if err != nil {
			return nil, err
		}
		monitoring.ResourceCacheCounter.WithLabelValues("hit").Inc()
		s.markRecommended(resources)
		return resources, nil
	}

	// 库存不足，调AI补库
	suggestions, err := s.aiService.SuggestResources(ctx, topic, learningStyle, limit*2)
	if err != nil {
		logger.Log.Warn("AI resource suggestion failed, serving stored resources",
			zap.String("topic", topic),
			zap.Error(err),
		)
		// AI不可用时先用库中已有的资源，一条都没有才退到精选目录
		stored, serr := s.selectDiverse(topic, limit)
		if serr != nil {
			return nil, serr
		}
		if len(stored) > 0 {
			monitoring.ResourceCacheCounter.WithLabelValues("partial").Inc()
			s.markRecommended(stored)
			return stored, nil
		}
		monitoring.ResourceCacheCounter.WithLabelValues("fallback").Inc()
		return s.curatedFallback(topic, learningStyle, limit), nil
	}

	stored, err := s.storeSuggestions(topic, suggestions)
	if err != nil {
		return nil, err
	}

	monitoring.ResourceCacheCounter.WithLabelValues("fill").Inc()

	// 入库后重新混选，保证新旧资源都有机会露出
	resources, err := s.selectDiverse(topic, limit)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 {
		resources = stored
		if len(resources) > limit {
			resources = resources[:limit]
		}
	}
	s.markRecommended(resources)
	return resources, nil
}

// selectDiverse 多样性混选：一半取最少被推荐的（给新资源露出机会），
// 剩余名额取最受欢迎的，按ID去重
func (s *RecommendationService) selectDiverse(topic string, limit int) ([]model.Resource, error) {
	half := limit / 2

	least, err := s.resourceRepo.FindByTopicAsc(topic, half)
	if err != nil {
		return nil, err
	}

	popular, err := s.resourceRepo.FindByTopicDesc(topic, limit)
	if err != nil {
		return nil, err
	}

	return MergeDiverse(least, popular, limit), nil
}

// MergeDiverse 合并两组资源并按ID去重，least优先，popular补足名额
func MergeDiverse(least, popular []model.Resource, limit int) []model.Resource {
	seen := make(map[uint]bool, limit)
	result := make([]model.Resource, 0, limit)

	for _, r := range least {
		if len(result) >= limit {
			break
		}
		if !seen[r.ID] {
			seen[r.ID] = true
			result = append(result, r)
		}
	}

	for _, r := range popular {
		if len(result) >= limit {
			break
		}
		if !seen[r.ID] {
			seen[r.ID] = true
			result = append(result, r)
		}
	}

	return result
}

// markRecommended 递增推荐计数，失败只记日志不影响响应
func (s *RecommendationService) markRecommended(resources []model.Resource) {
	if len(resources) == 0 {
		return
	}
	ids := make([]uint, 0, len(resources))
	for _, r := range resources {
		if r.ID != 0 {
			ids = append(ids, r.ID)
		}
	}
	if err := s.resourceRepo.IncrementTimesRecommended(ids); err != nil {
		logger.Log.Warn("Failed to increment recommendation counters", zap.Error(err))
	}
}

// storeSuggestions 过滤搜索页URL、与全库去重后入库，times_recommended从1起
func (s *RecommendationService) storeSuggestions(topic string, suggestions []SuggestedResource) ([]model.Resource, error) {
	existing, err := s.resourceRepo.AllURLs()
	if err != nil {
		return nil, err
	}

	category := model.DetectCategoryFromTopic(topic)

	var toStore []model.Resource
	for _, sug := range suggestions {
		if sug.URL == "" || sug.Title == "" {
			continue
		}
		if IsSearchURL(sug.URL) {
			continue
		}
		if existing[sug.URL] {
			continue
		}
		existing[sug.URL] = true

		toStore = append(toStore, model.Resource{
			Topic:            topic,
			Title:            sug.Title,
			URL:              sug.URL,
			Description:      sug.Description,
			Type:             normalizeResourceType(sug.Type),
			Category:         category,
			Difficulty:       normalizeDifficulty(sug.Difficulty),
			Platform:         sug.Platform,
			EstimatedTime:    sug.EstimatedTime,
			IsExternal:       true,
			IsFree:           sug.IsFree,
			TimesRecommended: 1,
		})
	}

	if err := s.resourceRepo.CreateBatch(toStore); err != nil {
		return nil, err
	}
	return toStore, nil
}

func normalizeResourceType(raw string) model.ResourceType {
	switch model.ResourceType(strings.ToLower(strings.TrimSpace(raw))) {
	case model.Video, model.Article, model.Interactive, model.Course,
		model.Practice, model.Documentation, model.Tutorial, model.Book:
		return model.ResourceType(strings.ToLower(strings.TrimSpace(raw)))
	default:
		return model.Article
	}
}

func normalizeDifficulty(raw string) model.Difficulty {
	switch model.Difficulty(strings.ToLower(strings.TrimSpace(raw))) {
	case model.Beginner, model.Intermediate, model.Advanced:
		return model.Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	default:
		return model.AllDifficulty
	}
}

// stylePreference 各学习风格偏好的资源类型，排序用
var stylePreference = map[model.LearningStyle][]model.ResourceType{
	model.Visual:         {model.Video, model.Interactive, model.Course},
	model.Auditory:       {model.Video, model.Course, model.Tutorial},
	model.Kinesthetic:    {model.Practice, model.Interactive, model.Tutorial},
	model.ReadingWriting: {model.Article, model.Documentation, model.Book},
}

// SortByLearningStyle 按学习风格偏好稳定排序，偏好类型靠前
func SortByLearningStyle(resources []model.Resource, style model.LearningStyle) {
	prefs := stylePreference[style]
	rank := func(t model.ResourceType) int {
		for i, p := range prefs {
			if p == t {
				return i
			}
		}
		return len(prefs)
	}
	sort.SliceStable(resources, func(i, j int) bool {
		return rank(resources[i].Type) < rank(resources[j].Type)
	})
}

// curatedFallback AI不可用时的精选通用目录，按学习风格排序后截取
func (s *RecommendationService) curatedFallback(topic string, style model.LearningStyle, limit int) []model.Resource {
	catalog := []model.Resource{
		{
			Topic:         topic,
			Title:         fmt.Sprintf("%s - freeCodeCamp", topic),
			URL:           "https://www.freecodecamp.org/learn",
			Description:   "Free interactive curriculum with hands-on projects.",
			Type:          model.Interactive,
			Platform:      "freeCodeCamp",
			Difficulty:    model.Beginner,
			EstimatedTime: "Self-paced",
			IsFree:        true,
		},
		{
			Topic:         topic,
			Title:         fmt.Sprintf("%s courses - Coursera", topic),
			URL:           "https://www.coursera.org/",
			Description:   "University-backed courses with certificates.",
			Type:          model.Course,
			Platform:      "Coursera",
			Difficulty:    model.AllDifficulty,
			EstimatedTime: "4-6 weeks",
			IsFree:        false,
		},
		{
			Topic:         topic,
			Title:         fmt.Sprintf("%s - Khan Academy", topic),
			URL:           "https://www.khanacademy.org/",
			Description:   "Free video lessons and practice exercises.",
			Type:          model.Video,
			Platform:      "Khan Academy",
			Difficulty:    model.Beginner,
			EstimatedTime: "Self-paced",
			IsFree:        true,
		},
		{
			Topic:         topic,
			Title:         fmt.Sprintf("%s documentation and guides - MDN", topic),
			URL:           "https://developer.mozilla.org/",
			Description:   "Authoritative reference documentation and tutorials.",
			Type:          model.Documentation,
			Platform:      "MDN",
			Difficulty:    model.AllDifficulty,
			EstimatedTime: "Self-paced",
			IsFree:        true,
		},
		{
			Topic:         topic,
			Title:         fmt.Sprintf("%s - edX", topic),
			URL:           "https://www.edx.org/",
			Description:   "Courses from top universities, free to audit.",
			Type:          model.Course,
			Platform:      "edX",
			Difficulty:    model.Intermediate,
			EstimatedTime: "6-8 weeks",
			IsFree:        true,
		},
		{
			Topic:         topic,
			Title:         fmt.Sprintf("Practice %s - exercism", topic),
			URL:           "https://exercism.org/",
			Description:   "Hands-on exercises with mentor feedback.",
			Type:          model.Practice,
			Platform:      "Exercism",
			Difficulty:    model.AllDifficulty,
			EstimatedTime: "Self-paced",
			IsFree:        true,
		},
	}

	SortByLearningStyle(catalog, style)
	if len(catalog) > limit {
		catalog = catalog[:limit]
	}
	return catalog
}

// StudyRecommendations 学习建议，按用户在Redis中缓存
func (s *RecommendationService) StudyRecommendations(ctx context.Context, user *model.User, activePlans []model.StudyPlan) (string, bool, error) {
	cacheKey := fmt.Sprintf("study_recommendations:%d", user.ID)

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil && cached != "" {
		return cached, true, nil
	}
	if err != nil && err != redis.Nil {
		logger.Log.Warn("Redis get failed for study recommendations", zap.Error(err))
	}

	recommendations, err := s.aiService.GenerateStudyRecommendations(ctx, user, activePlans)
	if err != nil {
		logger.Log.Warn("AI study recommendations failed, serving static fallback",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		// 兜底内容不写缓存，下次请求再试AI
		return fallbackStudyRecommendations(user.LearningStyle), false, nil
	}

	if err := s.rdb.Set(ctx, cacheKey, recommendations, s.cfg.AI.RecommendationTTL).Err(); err != nil {
		logger.Log.Warn("Redis set failed for study recommendations", zap.Error(err))
	}

	return recommendations, false, nil
}

// fallbackStudyRecommendations AI不可用时按学习风格给出的通用建议
func fallbackStudyRecommendations(style model.LearningStyle) string {
	base := "Set a fixed daily study slot and protect it.\n" +
		"Break each objective into sessions of 25-50 minutes with short breaks.\n" +
		"Review what you learned at the end of each week."

	switch style {
	case model.Visual:
		return "Use diagrams, mind maps and video walkthroughs for new concepts.\n" + base
	case model.Auditory:
		return "Explain concepts out loud and favor lectures or podcasts while reviewing.\n" + base
	case model.Kinesthetic:
		return "Learn by doing: build a small project or exercise for every new concept.\n" + base
	case model.ReadingWriting:
		return "Take written notes in your own words and summarize each session.\n" + base
	default:
		return base
	}
}

// TopicFromGoals 从用户目标文本取前几个关键词作为推荐主题
func TopicFromGoals(goals string) string {
	fields := strings.Fields(goals)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return strings.Join(fields, " ")
}

// InvalidateStudyRecommendations 用户画像变更后让建议缓存失效
func (s *RecommendationService) InvalidateStudyRecommendations(ctx context.Context, userID uint) {
	cacheKey := fmt.Sprintf("study_recommendations:%d", userID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		logger.Log.Warn("Redis del failed for study recommendations", zap.Error(err))
	}
}
