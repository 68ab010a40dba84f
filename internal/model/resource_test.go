package model

import "testing"

func TestDetectCategoryFromTopic(t *testing.T) {
	cases := []struct {
		topic string
		want  string
	}{
		{"Learn Python for beginners", "programming"},
		{"React and frontend basics", "web_development"},
		{"Deep Learning with PyTorch", "machine_learning"},
		{"Data analysis with pandas", "data_science"},
		{"iOS development in Swift", "mobile_development"},
		{"UX design fundamentals", "design"},
		{"Learn to speak Japanese", "languages"},
		{"Organic chemistry", "science"},
		{"Guitar for absolute beginners", "arts"},
		{"Sourdough baking", "cooking"},
		{"Yoga at home", "fitness"},
		{"Medieval history", "other"},
	}

	for _, tc := range cases {
		if got := DetectCategoryFromTopic(tc.topic); got != tc.want {
			t.Errorf("DetectCategoryFromTopic(%q) = %q, want %q", tc.topic, got, tc.want)
		}
	}
}

func TestDetectCategoryIsCaseInsensitive(t *testing.T) {
	if got := DetectCategoryFromTopic("PYTHON PROGRAMMING"); got != "programming" {
		t.Errorf("got %q, want programming", got)
	}
}
