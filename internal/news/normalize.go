package news

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"newsdash/internal/sources"
)

const summaryMaxRunes = 500

// Normalize maps one raw feed item into a pre-classification Article. Fields
// the classifier fills (category, tags, companies, sentiment, importance)
// are left zero.
func Normalize(item *gofeed.Item, src sources.Source, now time.Time) Article {
	content := resolveContent(item)

	published := now
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return Article{
		Title:         strings.TrimSpace(item.Title),
		Summary:       Truncate(content, summaryMaxRunes),
		Content:       content,
		Source:        src.Name,
		SourceURL:     item.Link,
		PublishedDate: published,
		NewsType:      src.NewsType,
		Location:      src.Location,
		SubLocation:   src.SubLocation,
		Language:      src.Language,
		Author:        resolveAuthor(item),
		ImageURL:      resolveImage(item),
		LinkStatus:    LinkUnchecked,
	}
}

// resolveContent prefers the fullest text variant the feed offers. Falls back
// to the title so content is never empty.
func resolveContent(item *gofeed.Item) string {
	if c := strings.TrimSpace(item.Content); c != "" {
		return c
	}
	if d := strings.TrimSpace(item.Description); d != "" {
		return d
	}
	return strings.TrimSpace(item.Title)
}

func resolveAuthor(item *gofeed.Item) string {
	for _, a := range item.Authors {
		if a != nil && a.Name != "" {
			return a.Name
		}
	}
	if creators, ok := item.Custom["dc:creator"]; ok && creators != "" {
		return creators
	}
	return ""
}

// resolveImage walks the possible image shapes in preference order: media
// extension URL, media thumbnail, image-typed enclosure, then the first inline
// <img> in the content markup. Returns "" when nothing resolves.
func resolveImage(item *gofeed.Item) string {
	if u := extensionURL(item, "media", "content"); u != "" {
		return u
	}
	if u := extensionURL(item, "media", "thumbnail"); u != "" {
		return u
	}
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return inlineImage(item.Content)
}

// extensionURL digs a url attribute out of a namespaced feed extension. The
// reference is sometimes a bare value and sometimes an element with attrs.
func extensionURL(item *gofeed.Item, namespace, name string) string {
	exts, ok := item.Extensions[namespace]
	if !ok {
		return ""
	}
	for _, e := range exts[name] {
		if u, ok := e.Attrs["url"]; ok && u != "" {
			return u
		}
		if e.Value != "" && strings.HasPrefix(e.Value, "http") {
			return e.Value
		}
	}
	return ""
}

func inlineImage(html string) string {
	if !strings.Contains(html, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}

// Truncate cuts s to at most max runes. A hard cut, not word-boundary aware,
// matching how summaries have always been produced.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
