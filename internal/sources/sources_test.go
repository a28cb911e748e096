package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMaxItems(t *testing.T) {
	t.Parallel()

	cases := []struct {
		priority int
		want     int
	}{
		{10, 10},
		{9, 10},
		{8, 7},
		{7, 7},
		{6, 5},
		{1, 5},
	}

	for _, tc := range cases {
		got := Source{Priority: tc.priority}.MaxItems()
		if got != tc.want {
			t.Errorf("priority %d: MaxItems() = %d, want %d", tc.priority, got, tc.want)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	srcs, err := Load("")
	if err != nil {
		t.Fatalf("Load with empty path: %v", err)
	}
	if len(srcs) == 0 {
		t.Fatal("default registry is empty")
	}

	byType := map[string]int{}
	for _, s := range srcs {
		byType[s.NewsType]++

		if s.Kind != KindRSS && s.Kind != KindReddit {
			t.Errorf("source %s has unknown kind %q", s.Name, s.Kind)
		}
		if s.URL == "" {
			t.Errorf("source %s has no URL", s.Name)
		}
		if s.Language == "" {
			t.Errorf("source %s has no language", s.Name)
		}
		if s.Priority < 1 || s.Priority > 10 {
			t.Errorf("source %s priority %d out of range", s.Name, s.Priority)
		}
	}

	for _, newsType := range []string{TypeAI, TypeWorld, TypeBusiness, TypeNYC, TypeCostaRica} {
		if byType[newsType] == 0 {
			t.Errorf("no default sources for news type %s", newsType)
		}
	}
}

func TestLoadYAMLOverride(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.yaml")
	data := `sources:
  - url: https://example.org/feed.xml
    name: Example Feed
    newsType: world
    priority: 9
  - subreddit: golang
    name: r/golang
    newsType: ai
    kind: reddit
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	srcs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(srcs) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(srcs))
	}

	if srcs[0].Kind != KindRSS {
		t.Errorf("expected rss kind default, got %q", srcs[0].Kind)
	}
	if srcs[0].Language != "en" {
		t.Errorf("expected language default en, got %q", srcs[0].Language)
	}

	if srcs[1].URL != "https://www.reddit.com/r/golang/hot.json" {
		t.Errorf("reddit URL not derived: %q", srcs[1].URL)
	}
	if srcs[1].Priority != 5 {
		t.Errorf("expected priority default 5, got %d", srcs[1].Priority)
	}
}

func TestLoadRejectsEmptyRegistry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte("sources: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty registry")
	}
}
