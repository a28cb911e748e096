package classify

import "newsdash/internal/sources"

// Vocabulary is the immutable keyword configuration driving classification.
// Loaded once at startup and passed in explicitly so Classify stays a pure
// function of its inputs.
type Vocabulary struct {
	// Categories holds the ordered category list per news type. Order is the
	// tie-break: the first category with any keyword hit wins.
	Categories map[string][]string
	// CategoryKeywords maps a category to its match keywords.
	CategoryKeywords map[string][]string
	// Fallback is assigned when no category keyword matches.
	Fallback string

	// AITags are scanned as tags for ai-type articles only.
	AITags []string
	// Locations maps a micro-location tag to the keywords that imply it.
	Locations map[string][]string
	// Companies is the tracked company list.
	Companies []string

	PositiveWords []string
	NegativeWords []string
	// SentimentMargin is how far one polarity count must exceed the other.
	SentimentMargin int

	HighImpactWords   []string
	MediumImpactWords []string
	FinancialWords    []string
}

// DefaultVocabulary returns the standard keyword tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Categories: map[string][]string{
			sources.TypeAI:        {"product_launch", "funding", "research", "partnership", "ethics_policy", "technical_breakthrough", "hardware", "use_case"},
			sources.TypeWorld:     {"politics", "conflict", "climate", "health", "science", "culture", "disasters", "human_interest"},
			sources.TypeBusiness:  {"markets", "earnings", "deals", "economy", "startups", "crypto", "real_estate", "commodities"},
			sources.TypeNYC:       {"crime", "politics", "transit", "real_estate", "culture", "food", "events", "weather"},
			sources.TypeCostaRica: {"tourism", "expat_life", "real_estate", "environment", "politics", "culture", "weather", "wildlife"},
			sources.TypeLocal:     {"crime", "politics", "events", "weather"},
		},
		CategoryKeywords: map[string][]string{
			"product_launch":         {"launch", "announce", "release", "introduce", "unveil", "debut"},
			"funding":                {"funding", "investment", "raise", "valuation", "series", "round"},
			"research":               {"research", "study", "paper", "breakthrough", "discover", "finding"},
			"partnership":            {"partnership", "collaborate", "team up", "join forces", "alliance"},
			"ethics_policy":          {"regulation", "ethics", "policy", "governance", "law", "compliance"},
			"technical_breakthrough": {"breakthrough", "milestone", "achievement", "innovation"},
			"hardware":               {"chip", "gpu", "processor", "hardware", "computing power"},
			"use_case":               {"application", "use case", "implementation", "deploy", "real-world"},
			"politics":               {"election", "president", "prime minister", "government", "parliament", "policy"},
			"conflict":               {"war", "conflict", "military", "attack", "peace", "ceasefire"},
			"climate":                {"climate", "global warming", "emissions", "renewable", "environment"},
			"health":                 {"pandemic", "vaccine", "disease", "health", "medical", "outbreak"},
			"markets":                {"stock", "shares", "dow", "nasdaq", "trading", "market"},
			"earnings":               {"earnings", "profit", "revenue", "quarterly", "results"},
			"deals":                  {"merger", "acquisition", "deal", "buyout", "takeover"},
			"economy":                {"inflation", "gdp", "unemployment", "recession", "growth"},
			"transit":                {"mta", "subway", "bus", "traffic", "congestion", "transit"},
			"crime":                  {"crime", "arrest", "police", "nypd", "shooting", "robbery"},
			"tourism":                {"tourist", "visitor", "travel", "destination", "hotel", "resort"},
			"expat_life":             {"expat", "resident", "retirement", "living in", "move to"},
			"wildlife":               {"wildlife", "animal", "conservation", "national park", "biodiversity"},
		},
		Fallback: "general",

		AITags: []string{
			"llm", "gpt", "claude", "gemini", "transformer", "neural network",
			"machine learning", "deep learning", "ai safety", "chatbot",
			"computer vision", "nlp", "generative ai", "multimodal",
			"foundation model", "rag", "ai agent", "open source",
		},
		Locations: map[string][]string{
			"Bowery":    {"bowery", "lower east side", "east village", "noho", "nolita"},
			"Ojochal":   {"ojochal", "uvita", "dominical", "costa ballena", "puntarenas"},
			"Dominical": {"dominical", "dominicalito", "playa dominical", "baru", "escaleras"},
		},
		Companies: []string{
			"OpenAI", "Google", "Anthropic", "Meta", "Microsoft", "Apple",
			"NVIDIA", "Amazon", "Tesla", "IBM", "Mistral", "Stability AI",
			"Hugging Face", "DeepMind", "Perplexity", "Cohere",
			"Bloomberg", "Goldman Sachs", "JPMorgan", "Bank of America",
			"New York Times", "Wall Street Journal", "CNN", "BBC",
		},

		PositiveWords: []string{
			"success", "breakthrough", "launch", "achievement", "innovative",
			"growth", "profit", "gain", "win", "positive", "improve",
		},
		NegativeWords: []string{
			"fail", "loss", "decline", "crisis", "crash", "concern",
			"issue", "problem", "criticism", "lawsuit", "fall", "drop",
		},
		SentimentMargin: 0,

		HighImpactWords:   []string{"breaking", "exclusive", "urgent", "crisis", "emergency", "major"},
		MediumImpactWords: []string{"announcement", "launch", "release", "update", "new"},
		FinancialWords:    []string{"billion", "million", "acquisition", "merger", "ipo"},
	}
}
