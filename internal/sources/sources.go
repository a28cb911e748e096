package sources

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind tells the orchestrator which fetcher handles a source.
type Kind string

const (
	KindRSS    Kind = "rss"
	KindReddit Kind = "reddit"
)

// News type buckets. Every article belongs to exactly one.
const (
	TypeAI        = "ai"
	TypeWorld     = "world"
	TypeBusiness  = "business"
	TypeNYC       = "nyc"
	TypeCostaRica = "costa-rica"
	TypeLocal     = "local"
)

// NewsTypes lists all buckets in reporting order.
var NewsTypes = []string{TypeAI, TypeWorld, TypeBusiness, TypeNYC, TypeCostaRica, TypeLocal}

// Source is one configured upstream feed or listing API. Immutable for the
// process lifetime.
type Source struct {
	URL         string `yaml:"url"`
	Name        string `yaml:"name"`
	NewsType    string `yaml:"newsType"`
	Kind        Kind   `yaml:"kind"`
	Subreddit   string `yaml:"subreddit"`
	Location    string `yaml:"location"`
	SubLocation string `yaml:"subLocation"`
	Language    string `yaml:"language"`
	Company     string `yaml:"company"`
	Priority    int    `yaml:"priority"`
}

// MaxItems caps how many items one fetch may contribute, so a prolific feed
// cannot dominate a run.
func (s Source) MaxItems() int {
	switch {
	case s.Priority >= 9:
		return 10
	case s.Priority >= 7:
		return 7
	default:
		return 5
	}
}

type registryFile struct {
	Sources []Source `yaml:"sources"`
}

// Load reads the source registry from a YAML file. An empty path returns the
// built-in registry.
func Load(path string) ([]Source, error) {
	if path == "" {
		return Defaults(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources config: %w", err)
	}
	defer f.Close()

	var cfg registryFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse sources config: %w", err)
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("sources config %s lists no sources", path)
	}

	for i := range cfg.Sources {
		applyDefaults(&cfg.Sources[i])
	}
	return cfg.Sources, nil
}

func applyDefaults(s *Source) {
	if s.Kind == "" {
		s.Kind = KindRSS
	}
	if s.Language == "" {
		s.Language = "en"
	}
	if s.Priority <= 0 {
		s.Priority = 5
	}
	if s.Priority > 10 {
		s.Priority = 10
	}
	if s.Kind == KindReddit && s.URL == "" {
		s.URL = "https://www.reddit.com/r/" + s.Subreddit + "/hot.json"
	}
}

// Defaults returns the built-in registry.
func Defaults() []Source {
	srcs := []Source{
		// AI & technology
		{URL: "https://openai.com/blog/rss.xml", Name: "OpenAI Blog", NewsType: TypeAI, Company: "OpenAI", Priority: 10},
		{URL: "https://blog.google/technology/ai/rss/", Name: "Google AI Blog", NewsType: TypeAI, Company: "Google", Priority: 10},
		{URL: "https://www.anthropic.com/index/rss.xml", Name: "Anthropic Blog", NewsType: TypeAI, Company: "Anthropic", Priority: 10},
		{URL: "https://techcrunch.com/category/artificial-intelligence/feed/", Name: "TechCrunch AI", NewsType: TypeAI, Priority: 8},
		{URL: "https://venturebeat.com/ai/feed/", Name: "VentureBeat AI", NewsType: TypeAI, Priority: 7},
		{URL: "https://www.theverge.com/ai-artificial-intelligence/rss/index.xml", Name: "The Verge AI", NewsType: TypeAI, Priority: 7},
		{URL: "https://www.wired.com/feed/tag/ai/latest/rss", Name: "Wired AI", NewsType: TypeAI, Priority: 7},
		{URL: "https://arstechnica.com/ai/feed/", Name: "Ars Technica AI", NewsType: TypeAI, Priority: 6},
		{URL: "https://www.technologyreview.com/feed/", Name: "MIT Tech Review", NewsType: TypeAI, Priority: 8},
		{URL: "https://spectrum.ieee.org/feeds/feed.rss", Name: "IEEE Spectrum", NewsType: TypeAI, Priority: 7},

		// World
		{URL: "https://feeds.bbci.co.uk/news/world/rss.xml", Name: "BBC World News", NewsType: TypeWorld, Priority: 9},
		{URL: "https://www.aljazeera.com/xml/rss/all.xml", Name: "Al Jazeera", NewsType: TypeWorld, Priority: 8},
		{URL: "https://feeds.npr.org/1004/rss.xml", Name: "NPR World News", NewsType: TypeWorld, Priority: 8},
		{URL: "https://rss.cnn.com/rss/edition_world.rss", Name: "CNN World", NewsType: TypeWorld, Priority: 7},
		{URL: "https://www.theguardian.com/world/rss", Name: "The Guardian World", NewsType: TypeWorld, Priority: 8},
		{URL: "https://feeds.apnews.com/rss/apf-topnews", Name: "AP News", NewsType: TypeWorld, Priority: 9},

		// Business
		{URL: "https://feeds.bloomberg.com/markets/news.rss", Name: "Bloomberg Markets", NewsType: TypeBusiness, Priority: 9},
		{URL: "https://www.cnbc.com/id/100003114/device/rss/rss.html", Name: "CNBC Business", NewsType: TypeBusiness, Priority: 8},
		{URL: "https://feeds.marketwatch.com/marketwatch/topstories/", Name: "MarketWatch", NewsType: TypeBusiness, Priority: 7},
		{URL: "https://fortune.com/feed/", Name: "Fortune", NewsType: TypeBusiness, Priority: 7},
		{URL: "https://www.economist.com/business/rss.xml", Name: "The Economist Business", NewsType: TypeBusiness, Priority: 8},

		// NYC
		{URL: "https://rss.nytimes.com/services/xml/rss/nyt/NYRegion.xml", Name: "NY Times Metro", NewsType: TypeNYC, Location: "New York", Priority: 9},
		{URL: "https://gothamist.com/feed", Name: "Gothamist", NewsType: TypeNYC, Location: "New York", Priority: 8},
		{URL: "https://patch.com/new-york/new-york-city/rss.xml", Name: "NYC Patch", NewsType: TypeNYC, Location: "New York", Priority: 6},
		{URL: "https://nypost.com/feed/", Name: "NY Post", NewsType: TypeNYC, Location: "New York", Priority: 7},

		// Costa Rica
		{URL: "https://ticotimes.net/feed", Name: "Tico Times", NewsType: TypeCostaRica, Location: "Costa Rica", Priority: 9},
		{URL: "https://qcostarica.com/feed/", Name: "Q Costa Rica", NewsType: TypeCostaRica, Location: "Costa Rica", Priority: 8},
		{URL: "https://news.co.cr/feed/", Name: "Costa Rica News", NewsType: TypeCostaRica, Location: "Costa Rica", Priority: 7},

		// Reddit listing sources
		{Subreddit: "artificial", Name: "r/artificial", NewsType: TypeAI, Kind: KindReddit, Priority: 10},
		{Subreddit: "MachineLearning", Name: "r/MachineLearning", NewsType: TypeAI, Kind: KindReddit, Priority: 9},
		{Subreddit: "OpenAI", Name: "r/OpenAI", NewsType: TypeAI, Kind: KindReddit, Priority: 8},
		{Subreddit: "worldnews", Name: "r/worldnews", NewsType: TypeWorld, Kind: KindReddit, Priority: 10},
		{Subreddit: "news", Name: "r/news", NewsType: TypeWorld, Kind: KindReddit, Priority: 9},
		{Subreddit: "business", Name: "r/business", NewsType: TypeBusiness, Kind: KindReddit, Priority: 8},
		{Subreddit: "stocks", Name: "r/stocks", NewsType: TypeBusiness, Kind: KindReddit, Priority: 7},
		{Subreddit: "nyc", Name: "r/nyc", NewsType: TypeNYC, Kind: KindReddit, Location: "New York", Priority: 9},
		{Subreddit: "costarica", Name: "r/costarica", NewsType: TypeCostaRica, Kind: KindReddit, Location: "Costa Rica", Priority: 7},
	}

	for i := range srcs {
		applyDefaults(&srcs[i])
	}
	return srcs
}
