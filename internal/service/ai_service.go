package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
	"learning_pathway_backend/pkg/logger"
	"learning_pathway_backend/pkg/monitoring"
)

// AIService 对接OpenAI兼容的chat completions接口
type AIService struct {
	cfg    *config.Config
	client *http.Client
}

func NewAIService(cfg *config.Config) *AIService {
	return &AIService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Chat 发起一次对话补全请求，systemPrompt可为空
func (s *AIService) Chat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := make([]AIChatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, AIChatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: userPrompt})

	reqBody := ChatCompletionRequest{
		Model:       s.cfg.AI.Model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   2000,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(s.cfg.AI.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.AI.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		monitoring.AIRequestCounter.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("ai request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		monitoring.AIRequestCounter.WithLabelValues("chat", "error").Inc()
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		monitoring.AIRequestCounter.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("ai api returned status %d: %s", resp.StatusCode, string(body))
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		monitoring.AIRequestCounter.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("failed to parse ai response: %w", err)
	}

	if completion.Error != nil {
		monitoring.AIRequestCounter.WithLabelValues("chat", "error").Inc()
		return "", fmt.Errorf("ai api error: %s", completion.Error.Message)
	}

	if len(completion.Choices) == 0 {
		monitoring.AIRequestCounter.WithLabelValues("chat", "empty").Inc()
		return "", fmt.Errorf("ai api returned no choices")
	}

	monitoring.AIRequestCounter.WithLabelValues("chat", "success").Inc()
	return completion.Choices[0].Message.Content, nil
}

// SuggestedResource AI返回的资源推荐条目
type SuggestedResource struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Difficulty    string `json:"difficulty"`
	Platform      string `json:"platform"`
	EstimatedTime string `json:"estimated_time"`
	IsFree        bool   `json:"is_free"`
}

// SuggestResources 请求AI针对主题和学习风格给出资源清单
func (s *AIService) SuggestResources(ctx context.Context, topic string, learningStyle model.LearningStyle, count int) ([]SuggestedResource, error) {
	systemPrompt := "You are an expert learning advisor. You recommend real, high-quality, currently available online learning resources. " +
		"Respond with a JSON array only, no prose. Each element must have the fields: " +
		`"title", "url", "type", "description", "difficulty", "platform", "estimated_time", "is_free". ` +
		"The url must be a direct link to the specific resource page, never a search results page."

	userPrompt := fmt.Sprintf(
		"Recommend %d diverse learning resources for the topic %q. "+
			"The learner's preferred learning style is %q, so weight the resource types accordingly "+
			"(Visual: videos and interactive content, Auditory: podcasts and video lectures, "+
			"Kinesthetic: hands-on practice and interactive exercises, Reading/Writing: articles, documentation and books). "+
			"Mix free and paid, and mix difficulty levels.",
		count, topic, string(learningStyle),
	)

	content, err := s.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	cleaned := CleanAIJSON(content)

	var suggestions []SuggestedResource
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		logger.Log.Warn("Failed to parse ai resource suggestions",
			zap.String("topic", topic),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to parse ai resource suggestions: %w", err)
	}

	return suggestions, nil
}

// GenerateStudyRecommendations 根据用户画像生成学习建议文本
func (s *AIService) GenerateStudyRecommendations(ctx context.Context, user *model.User, activePlans []model.StudyPlan) (string, error) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Learner profile:\n- Preferred learning style: %s\n", user.LearningStyle))
	if user.Goals != "" {
		sb.WriteString(fmt.Sprintf("- Stated goals: %s\n", user.Goals))
	}
	if len(activePlans) > 0 {
		sb.WriteString("- Active study plans:\n")
		for _, plan := range activePlans {
			sb.WriteString(fmt.Sprintf("  - %s (objective: %s, %d hours/week)\n",
				plan.Title, plan.LearningObjective, plan.EstimatedHoursPerWeek))
		}
	}
	sb.WriteString("\nGive 3-5 concise, actionable study recommendations tailored to this learner. Plain text, one recommendation per line.")

	systemPrompt := "You are a supportive study coach who gives personalized, practical advice."
	return s.Chat(ctx, systemPrompt, sb.String())
}

// GeneratedQuiz AI生成的测验结构
type GeneratedQuiz struct {
	Questions []GeneratedQuestion `json:"questions"`
}

type GeneratedQuestion struct {
	Question string `json:"question"`
	A        string `json:"a"`
	B        string `json:"b"`
	C        string `json:"c"`
	D        string `json:"d"`
	Answer   string `json:"answer"`
}

// GenerateQuiz 请求AI按固定JSON格式出题
func (s *AIService) GenerateQuiz(ctx context.Context, topic string, difficulty model.QuizDifficulty, questionCount int) (*GeneratedQuiz, error) {
	systemPrompt := "You are a quiz generator. Respond with JSON only, no prose, in exactly this format: " +
		`{"questions":[{"question":"...","a":"...","b":"...","c":"...","d":"...","answer":"a"}]}. ` +
		`The "answer" field must be one of "a", "b", "c", "d".`

	userPrompt := fmt.Sprintf("Generate %d %s-difficulty multiple choice questions about %q.",
		questionCount, string(difficulty), topic)

	content, err := s.Chat(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	cleaned := CleanAIJSON(content)

	var quiz GeneratedQuiz
	if err := json.Unmarshal([]byte(cleaned), &quiz); err != nil {
		return nil, fmt.Errorf("failed to parse generated quiz: %w", err)
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("generated quiz has no questions")
	}

	return &quiz, nil
}

// AnalyzeProgress 生成一段针对当前进度的分析与鼓励
func (s *AIService) AnalyzeProgress(ctx context.Context, user *model.User, progress []model.Progress) (string, error) {
	var sb strings.Builder
	sb.WriteString("Learner progress summary:\n")
	for _, p := range progress {
		sb.WriteString(fmt.Sprintf("- Plan #%d: %.1f%% complete, %d/%d resources done, %.1f hours spent\n",
			p.StudyPlanID, p.CompletionPercentage, p.CompletedResources, p.TotalResources, p.TotalHoursSpent))
	}
	sb.WriteString("\nWrite a short, encouraging analysis (3-4 sentences) of this progress with one concrete suggestion.")

	systemPrompt := "You are a supportive study coach."
	return s.Chat(ctx, systemPrompt, sb.String())
}

// CleanAIJSON 剥离markdown代码围栏并截取内嵌的JSON片段
func CleanAIJSON(content string) string {
	cleaned := strings.TrimSpace(content)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	// 模型偶尔在JSON前后夹带说明文字，截取最外层的JSON片段
	if !strings.HasPrefix(cleaned, "{") && !strings.HasPrefix(cleaned, "[") {
		objStart := strings.Index(cleaned, "{")
		arrStart := strings.Index(cleaned, "[")

		start := -1
		var closer string
		switch {
		case arrStart >= 0 && (objStart < 0 || arrStart < objStart):
			start = arrStart
			closer = "]"
		case objStart >= 0:
			start = objStart
			closer = "}"
		}

		if start >= 0 {
			if end := strings.LastIndex(cleaned, closer); end > start {
				cleaned = cleaned[start : end+1]
			}
		}
	}

	return cleaned
}

// IsSearchURL 判断URL是否为搜索结果页，此类链接不允许入库
func IsSearchURL(url string) bool {
	lowered := strings.ToLower(url)
	patterns := []string{
		"results?search_query=",
		"search?q=",
		"search?query=",
		"/search/",
		"google.com/search",
	}
	for _, p := range patterns {
		if strings.Contains(lowered, p) {
			return true
		}
	}
	return false
}
