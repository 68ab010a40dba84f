package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
)

func newTestAIService(baseURL string) *AIService {
	cfg := &config.Config{}
	cfg.AI.BaseURL = baseURL
	cfg.AI.APIKey = "test-key"
	cfg.AI.Model = "test-model"
	return NewAIService(cfg)
}

func completionResponse(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestChatSendsBearerTokenAndModel(t *testing.T) {
	var gotAuth string
	var gotReq ChatCompletionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("hello")))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	content, err := svc.Chat(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if content != "hello" {
		t.Errorf("content = %q, want %q", content, "hello")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want Bearer test-key", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("model = %q, want test-model", gotReq.Model)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Role != "user" {
		t.Errorf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestChatNonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	if _, err := svc.Chat(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestChatEmptyChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	if _, err := svc.Chat(context.Background(), "", "prompt"); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestSuggestResourcesParsesFencedJSON(t *testing.T) {
	payload := "```json\n" + `[{"title":"Go Tour","url":"https://go.dev/tour","type":"interactive","description":"Interactive intro","difficulty":"beginner","platform":"go.dev","estimated_time":"4 hours","is_free":true}]` + "\n```"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(payload)))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	suggestions, err := svc.SuggestResources(context.Background(), "golang", model.Visual, 5)
	if err != nil {
		t.Fatalf("SuggestResources returned error: %v", err)
	}
	if len(suggestions) != 1 {
		t.Fatalf("got %d suggestions, want 1", len(suggestions))
	}
	if suggestions[0].URL != "https://go.dev/tour" {
		t.Errorf("url = %q", suggestions[0].URL)
	}
	if !suggestions[0].IsFree {
		t.Error("is_free should be true")
	}
}

func TestGenerateQuizParsesQuestions(t *testing.T) {
	payload := `{"questions":[{"question":"What is 2+2?","a":"3","b":"4","c":"5","d":"6","answer":"b"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse(payload)))
	}))
	defer server.Close()

	svc := newTestAIService(server.URL)
	quiz, err := svc.GenerateQuiz(context.Background(), "math", model.QuizEasy, 1)
	if err != nil {
		t.Fatalf("GenerateQuiz returned error: %v", err)
	}
	if len(quiz.Questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(quiz.Questions))
	}
	if quiz.Questions[0].Answer != "b" {
		t.Errorf("answer = %q, want b", quiz.Questions[0].Answer)
	}
}

func TestCleanAIJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"plain array", `[1,2]`, `[1,2]`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced without language", "```\n[1,2]\n```", `[1,2]`},
		{"prose around object", `Here you go: {"a":1} Hope it helps!`, `{"a":1}`},
		{"prose around array", `Sure! [1,2] done`, `[1,2]`},
		{"array before object", `answer [1,2] and {"x":3}`, `[1,2]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanAIJSON(tc.in); got != tc.want {
				t.Errorf("CleanAIJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsSearchURL(t *testing.T) {
	search := []string{
		"https://www.youtube.com/results?search_query=golang",
		"https://www.bing.com/search?q=golang",
		"https://www.google.com/search?q=golang",
		"https://example.com/search/golang",
	}
	for _, u := range search {
		if !IsSearchURL(u) {
			t.Errorf("IsSearchURL(%q) = false, want true", u)
		}
	}

	direct := []string{
		"https://go.dev/tour",
		"https://www.youtube.com/watch?v=abc123",
		"https://www.coursera.org/learn/golang",
	}
	for _, u := range direct {
		if IsSearchURL(u) {
			t.Errorf("IsSearchURL(%q) = true, want false", u)
		}
	}
}
