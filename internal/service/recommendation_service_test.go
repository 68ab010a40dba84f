package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
)

func res(id uint, times int) model.Resource {
	r := model.Resource{TimesRecommended: times}
	r.ID = id
	return r
}

func topicRes(id uint, topic string, times int) model.Resource {
	r := res(id, times)
	r.Topic = topic
	r.URL = fmt.Sprintf("https://example.com/resource/%d", id)
	r.Title = fmt.Sprintf("Resource %d", id)
	return r
}

// fakeResourceStore 内存实现，记录计数自增与入库调用
type fakeResourceStore struct {
	resources   []model.Resource
	incremented [][]uint
	created     []model.Resource
}

func (f *fakeResourceStore) CountByTopic(topic string) (int64, error) {
	var n int64
	for _, r := range f.resources {
		if r.Topic == topic {
			n++
		}
	}
	return n, nil
}

func (f *fakeResourceStore) byTopic(topic string, asc bool, limit int) []model.Resource {
	var out []model.Resource
	for _, r := range f.resources {
		if r.Topic == topic {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return out[i].TimesRecommended < out[j].TimesRecommended
		}
		return out[i].TimesRecommended > out[j].TimesRecommended
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (f *fakeResourceStore) FindByTopicAsc(topic string, limit int) ([]model.Resource, error) {
	return f.byTopic(topic, true, limit), nil
}

func (f *fakeResourceStore) FindByTopicDesc(topic string, limit int) ([]model.Resource, error) {
	return f.byTopic(topic, false, limit), nil
}

func (f *fakeResourceStore) AllURLs() (map[string]bool, error) {
	set := make(map[string]bool, len(f.resources))
	for _, r := range f.resources {
		set[r.URL] = true
	}
	return set, nil
}

func (f *fakeResourceStore) CreateBatch(resources []model.Resource) error {
	for i := range resources {
		resources[i].ID = uint(len(f.resources) + 1)
		f.resources = append(f.resources, resources[i])
		f.created = append(f.created, resources[i])
	}
	return nil
}

func (f *fakeResourceStore) IncrementTimesRecommended(ids []uint) error {
	f.incremented = append(f.incremented, ids)
	return nil
}

func newTestRecommendationService(store *fakeResourceStore, baseURL string) *RecommendationService {
	return NewRecommendationService(&config.Config{}, store, newTestAIService(baseURL), nil)
}

// countingAIServer 统计上游AI请求次数
func countingAIServer(t *testing.T, status int, body string) (*httptest.Server, *int) {
	t.Helper()
	calls := new(int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, calls
}

func TestGetSmartResourcesHitSkipsAI(t *testing.T) {
	store := &fakeResourceStore{}
	for i := 1; i <= 6; i++ {
		store.resources = append(store.resources, topicRes(uint(i), "golang", i))
	}
	server, calls := countingAIServer(t, http.StatusInternalServerError, "")
	svc := newTestRecommendationService(store, server.URL)

	got, err := svc.GetSmartResources(context.Background(), "golang", model.Visual, 6)
	if err != nil {
		t.Fatalf("GetSmartResources returned error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d resources, want 6", len(got))
	}
	if *calls != 0 {
		t.Errorf("AI was called %d times on a cache hit, want 0", *calls)
	}
	if len(store.incremented) != 1 {
		t.Errorf("counters incremented %d times, want 1", len(store.incremented))
	}
}

func TestGetSmartResourcesFillCallsAIOnce(t *testing.T) {
	store := &fakeResourceStore{resources: []model.Resource{topicRes(1, "golang", 3)}}

	suggestions := []SuggestedResource{
		{Title: "Go Tour", URL: "https://go.dev/tour", Type: "interactive", Difficulty: "beginner", IsFree: true},
		{Title: "Effective Go", URL: "https://go.dev/doc/effective_go", Type: "documentation", Difficulty: "intermediate", IsFree: true},
	}
	payload, _ := json.Marshal(suggestions)
	server, calls := countingAIServer(t, http.StatusOK, completionResponse(string(payload)))
	svc := newTestRecommendationService(store, server.URL)

	got, err := svc.GetSmartResources(context.Background(), "golang", model.Visual, 6)
	if err != nil {
		t.Fatalf("GetSmartResources returned error: %v", err)
	}
	if *calls != 1 {
		t.Errorf("AI was called %d times on a fill, want exactly 1", *calls)
	}
	if len(store.created) != 2 {
		t.Errorf("stored %d suggestions, want 2", len(store.created))
	}
	if len(got) == 0 {
		t.Error("expected resources after AI fill")
	}
}

func TestGetSmartResourcesAIFailureReturnsStoredRows(t *testing.T) {
	store := &fakeResourceStore{}
	for i := 1; i <= 3; i++ {
		store.resources = append(store.resources, topicRes(uint(i), "golang", i))
	}
	server, _ := countingAIServer(t, http.StatusInternalServerError, "")
	svc := newTestRecommendationService(store, server.URL)

	got, err := svc.GetSmartResources(context.Background(), "golang", model.Visual, 6)
	if err != nil {
		t.Fatalf("GetSmartResources returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d resources, want the 3 stored rows", len(got))
	}
	for _, r := range got {
		if r.ID == 0 || r.Topic != "golang" {
			t.Errorf("unexpected resource in result: %+v", r)
		}
	}
	if len(store.incremented) != 1 {
		t.Errorf("counters incremented %d times, want 1", len(store.incremented))
	}
	if len(store.created) != 0 {
		t.Errorf("stored %d rows on AI failure, want 0", len(store.created))
	}
}

func TestGetSmartResourcesAIFailureCuratedWhenNoneStored(t *testing.T) {
	store := &fakeResourceStore{}
	server, _ := countingAIServer(t, http.StatusInternalServerError, "")
	svc := newTestRecommendationService(store, server.URL)

	got, err := svc.GetSmartResources(context.Background(), "golang", model.Visual, 6)
	if err != nil {
		t.Fatalf("GetSmartResources returned error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("got %d resources, want 6 curated entries", len(got))
	}
	for _, r := range got {
		if r.URL == "" || r.Topic != "golang" {
			t.Errorf("unexpected curated entry: %+v", r)
		}
	}
	if len(store.incremented) != 0 {
		t.Errorf("curated catalog must not bump stored counters, got %d increments", len(store.incremented))
	}
}

func TestMergeDiverse(t *testing.T) {
	least := []model.Resource{res(1, 0), res(2, 1), res(3, 2)}
	popular := []model.Resource{res(9, 50), res(8, 40), res(1, 0), res(7, 30)}

	got := MergeDiverse(least, popular, 6)

	wantIDs := []uint{1, 2, 3, 9, 8, 7}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d resources, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("position %d: got id %d, want %d", i, got[i].ID, id)
		}
	}
}

func TestMergeDiverseRespectsLimit(t *testing.T) {
	least := []model.Resource{res(1, 0), res(2, 0)}
	popular := []model.Resource{res(3, 9), res(4, 8), res(5, 7)}

	got := MergeDiverse(least, popular, 3)
	if len(got) != 3 {
		t.Fatalf("got %d resources, want 3", len(got))
	}
	// least优先露出
	if got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("unexpected order: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestMergeDiverseDeduplicates(t *testing.T) {
	least := []model.Resource{res(1, 0)}
	popular := []model.Resource{res(1, 0), res(2, 5)}

	got := MergeDiverse(least, popular, 5)
	if len(got) != 2 {
		t.Fatalf("got %d resources, want 2 after dedup", len(got))
	}
}

func TestSortByLearningStyle(t *testing.T) {
	resources := []model.Resource{
		{Type: model.Article},
		{Type: model.Video},
		{Type: model.Practice},
		{Type: model.Interactive},
	}

	SortByLearningStyle(resources, model.Visual)
	if resources[0].Type != model.Video {
		t.Errorf("Visual learner: first type = %s, want video", resources[0].Type)
	}
	if resources[1].Type != model.Interactive {
		t.Errorf("Visual learner: second type = %s, want interactive", resources[1].Type)
	}

	SortByLearningStyle(resources, model.ReadingWriting)
	if resources[0].Type != model.Article {
		t.Errorf("Reading/Writing learner: first type = %s, want article", resources[0].Type)
	}

	SortByLearningStyle(resources, model.Kinesthetic)
	if resources[0].Type != model.Practice {
		t.Errorf("Kinesthetic learner: first type = %s, want practice", resources[0].Type)
	}
}

func TestSortByLearningStyleIsStable(t *testing.T) {
	resources := []model.Resource{res(1, 0), res(2, 0), res(3, 0)}
	for i := range resources {
		resources[i].Type = model.Article
	}

	SortByLearningStyle(resources, model.Visual)
	for i, id := range []uint{1, 2, 3} {
		if resources[i].ID != id {
			t.Errorf("position %d: got id %d, want %d", i, resources[i].ID, id)
		}
	}
}

func TestTopicFromGoals(t *testing.T) {
	cases := []struct {
		goals string
		want  string
	}{
		{"", ""},
		{"   ", ""},
		{"learn Go", "learn Go"},
		{"I want to master backend development with Go", "I want to master backend"},
	}
	for _, tc := range cases {
		if got := TopicFromGoals(tc.goals); got != tc.want {
			t.Errorf("TopicFromGoals(%q) = %q, want %q", tc.goals, got, tc.want)
		}
	}
}

func TestFallbackStudyRecommendationsPerStyle(t *testing.T) {
	styles := []model.LearningStyle{model.Visual, model.Auditory, model.Kinesthetic, model.ReadingWriting}
	seen := map[string]bool{}
	for _, style := range styles {
		text := fallbackStudyRecommendations(style)
		if text == "" {
			t.Errorf("empty fallback for %s", style)
		}
		if seen[text] {
			t.Errorf("fallback for %s duplicates another style", style)
		}
		seen[text] = true
	}
}

func TestNormalizeResourceType(t *testing.T) {
	if got := normalizeResourceType(" Video "); got != model.Video {
		t.Errorf("got %s, want video", got)
	}
	if got := normalizeResourceType("podcast"); got != model.Article {
		t.Errorf("unknown type: got %s, want article fallback", got)
	}
}

func TestNormalizeDifficulty(t *testing.T) {
	if got := normalizeDifficulty("BEGINNER"); got != model.Beginner {
		t.Errorf("got %s, want beginner", got)
	}
	if got := normalizeDifficulty("expert"); got != model.AllDifficulty {
		t.Errorf("unknown difficulty: got %s, want all fallback", got)
	}
}
