package news

import (
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"newsdash/internal/sources"
)

var testSource = sources.Source{
	Name:     "Test Feed",
	NewsType: sources.TypeAI,
	Language: "en",
	Priority: 8,
}

func parseItem(t *testing.T, rss string) *gofeed.Item {
	t.Helper()
	feed, err := gofeed.NewParser().ParseString(rss)
	if err != nil {
		t.Fatalf("parse test feed: %v", err)
	}
	if len(feed.Items) == 0 {
		t.Fatal("test feed has no items")
	}
	return feed.Items[0]
}

func rssDoc(item string) string {
	return `<?xml version="1.0"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel><title>test</title>` + item + `</channel></rss>`
}

func TestNormalizeContentPreference(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	item := parseItem(t, rssDoc(`<item>
		<title>Some title</title>
		<link>https://example.org/a</link>
		<description>short description</description>
		<content:encoded><![CDATA[the full body of the article]]></content:encoded>
	</item>`))

	a := Normalize(item, testSource, now)
	if a.Content != "the full body of the article" {
		t.Errorf("expected encoded content preferred, got %q", a.Content)
	}

	item = parseItem(t, rssDoc(`<item>
		<title>Some title</title>
		<link>https://example.org/b</link>
		<description>short description</description>
	</item>`))

	a = Normalize(item, testSource, now)
	if a.Content != "short description" {
		t.Errorf("expected description fallback, got %q", a.Content)
	}

	item = parseItem(t, rssDoc(`<item>
		<title>Only a title</title>
		<link>https://example.org/c</link>
	</item>`))

	a = Normalize(item, testSource, now)
	if a.Content != "Only a title" {
		t.Errorf("expected title as last resort, got %q", a.Content)
	}
}

func TestNormalizePublishedFallback(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	item := parseItem(t, rssDoc(`<item>
		<title>dated</title>
		<link>https://example.org/a</link>
		<pubDate>Mon, 02 Jun 2025 09:30:00 GMT</pubDate>
	</item>`))

	a := Normalize(item, testSource, now)
	if a.PublishedDate.Day() != 2 || a.PublishedDate.Hour() != 9 {
		t.Errorf("declared publish time not used: %v", a.PublishedDate)
	}

	item = parseItem(t, rssDoc(`<item>
		<title>undated</title>
		<link>https://example.org/b</link>
	</item>`))

	a = Normalize(item, testSource, now)
	if !a.PublishedDate.Equal(now) {
		t.Errorf("expected now fallback, got %v", a.PublishedDate)
	}
}

func TestNormalizeImageResolution(t *testing.T) {
	t.Parallel()

	now := time.Now()

	// media:content wins over everything else
	item := parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/a</link>
		<media:content url="https://img.example.org/media.jpg"/>
		<media:thumbnail url="https://img.example.org/thumb.jpg"/>
		<enclosure url="https://img.example.org/enc.jpg" type="image/jpeg" length="1"/>
	</item>`))
	if got := Normalize(item, testSource, now).ImageURL; got != "https://img.example.org/media.jpg" {
		t.Errorf("media:content not preferred: %q", got)
	}

	// thumbnail next
	item = parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/b</link>
		<media:thumbnail url="https://img.example.org/thumb.jpg"/>
	</item>`))
	if got := Normalize(item, testSource, now).ImageURL; got != "https://img.example.org/thumb.jpg" {
		t.Errorf("media:thumbnail not used: %q", got)
	}

	// image enclosure
	item = parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/c</link>
		<enclosure url="https://img.example.org/enc.png" type="image/png" length="1"/>
	</item>`))
	if got := Normalize(item, testSource, now).ImageURL; got != "https://img.example.org/enc.png" {
		t.Errorf("enclosure not used: %q", got)
	}

	// inline <img> in content markup
	item = parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/d</link>
		<content:encoded><![CDATA[<p>hello</p><img src="https://img.example.org/inline.gif" alt=""/>]]></content:encoded>
	</item>`))
	if got := Normalize(item, testSource, now).ImageURL; got != "https://img.example.org/inline.gif" {
		t.Errorf("inline img not extracted: %q", got)
	}

	// nothing resolvable
	item = parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/e</link>
		<description>plain text only</description>
	</item>`))
	if got := Normalize(item, testSource, now).ImageURL; got != "" {
		t.Errorf("expected empty image url, got %q", got)
	}
}

func TestNormalizeCopiesSourceMetadata(t *testing.T) {
	t.Parallel()

	src := sources.Source{
		Name:        "Tico Times",
		NewsType:    sources.TypeCostaRica,
		Location:    "Costa Rica",
		SubLocation: "Ojochal",
		Language:    "en",
	}

	item := parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/a</link>
	</item>`))

	a := Normalize(item, src, time.Now())
	if a.Source != "Tico Times" || a.NewsType != sources.TypeCostaRica {
		t.Errorf("source metadata not copied: %+v", a)
	}
	if a.Location != "Costa Rica" || a.SubLocation != "Ojochal" || a.Language != "en" {
		t.Errorf("location metadata not copied: %+v", a)
	}
	if a.LinkStatus != LinkUnchecked {
		t.Errorf("expected unchecked link status, got %q", a.LinkStatus)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 600)
	if got := Truncate(long, 500); len([]rune(got)) != 500 {
		t.Errorf("expected 500 runes, got %d", len([]rune(got)))
	}

	if got := Truncate("short", 500); got != "short" {
		t.Errorf("short string modified: %q", got)
	}

	// multi-byte runes must not be split
	unicode := strings.Repeat("ñ", 510)
	got := Truncate(unicode, 500)
	if len([]rune(got)) != 500 {
		t.Errorf("expected 500 runes, got %d", len([]rune(got)))
	}
	for _, r := range got {
		if r != 'ñ' {
			t.Fatalf("rune corrupted: %q", r)
		}
	}
}

func TestNormalizeSummaryIsTruncatedContent(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("long content ", 100)
	item := parseItem(t, rssDoc(`<item>
		<title>t</title><link>https://example.org/a</link>
		<description>` + body + `</description>
	</item>`))

	a := Normalize(item, testSource, time.Now())
	if len([]rune(a.Summary)) != 500 {
		t.Errorf("summary should be 500 runes, got %d", len([]rune(a.Summary)))
	}
	if !strings.HasPrefix(a.Content, a.Summary) {
		t.Error("summary is not a prefix of content")
	}
}
