// Package reddit ingests community discussion posts from subreddit hot
// listings and shapes them into articles.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"newsdash/internal/news"
	"newsdash/internal/retry"
	"newsdash/internal/sources"
)

const listingLimit = 50

// Client fetches subreddit listings over the public JSON API.
type Client struct {
	httpClient *http.Client
	retry      retry.Config
	userAgent  string
}

func NewClient(timeout time.Duration, retryCfg retry.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retry:      retryCfg,
		// Reddit rejects default Go user agents with 429s.
		userAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	URL         string  `json:"url"`
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	Ups         int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	Over18      bool    `json:"over_18"`
	IsVideo     bool    `json:"is_video"`
	Thumbnail   string  `json:"thumbnail"`
	IsGallery   bool    `json:"is_gallery"`

	MediaMetadata map[string]struct {
		S struct {
			U string `json:"u"`
		} `json:"s"`
	} `json:"media_metadata"`

	Preview *struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

// Fetch returns articles built from the subreddit's hot listing, capped at the
// source's priority-derived limit. NSFW and video posts are skipped. Permalinks
// point at reddit itself, so articles arrive pre-marked with a valid link.
func (c *Client) Fetch(ctx context.Context, src sources.Source, now time.Time) ([]news.Article, error) {
	var posts []post

	err := retry.WithRetry(ctx, c.retry, func() error {
		fetched, err := c.listHot(ctx, src)
		if err != nil {
			return err
		}
		if len(fetched) == 0 {
			return fmt.Errorf("subreddit %s returned no posts", src.Subreddit)
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	articles := make([]news.Article, 0, src.MaxItems())
	for _, p := range posts {
		if p.Over18 || p.IsVideo {
			continue
		}
		articles = append(articles, c.toArticle(p, src, now))
		if len(articles) >= src.MaxItems() {
			break
		}
	}
	return articles, nil
}

func (c *Client) listHot(ctx context.Context, src sources.Source) ([]post, error) {
	url := fmt.Sprintf("%s?limit=%d", src.URL, listingLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", src.Subreddit, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s: HTTP %d", src.Subreddit, resp.StatusCode)
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode r/%s listing: %w", src.Subreddit, err)
	}

	posts := make([]post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (c *Client) toArticle(p post, src sources.Source, now time.Time) news.Article {
	content := p.Selftext
	if content == "" {
		content = p.Title
	}

	published := now
	if p.CreatedUTC > 0 {
		published = time.Unix(int64(p.CreatedUTC), 0).UTC()
	}

	return news.Article{
		Title:         p.Title,
		Summary:       news.Truncate(content, 500),
		Content:       content,
		Source:        src.Name,
		SourceURL:     "https://reddit.com" + p.Permalink,
		PublishedDate: published,
		NewsType:      src.NewsType,
		Location:      src.Location,
		SubLocation:   src.SubLocation,
		Language:      src.Language,
		Author:        p.Author,
		ImageURL:      imageURL(p),
		Upvotes:       p.Ups,
		Comments:      p.NumComments,
		LinkStatus:    news.LinkValid,
		LastValidated: now,
	}
}

// imageURL walks the shapes a reddit post can carry an image in: a direct
// image link, gallery metadata, a preview source, then the thumbnail.
func imageURL(p post) string {
	if isImageLink(p.URL) {
		return p.URL
	}
	if p.IsGallery {
		for _, media := range p.MediaMetadata {
			if media.S.U != "" {
				return strings.ReplaceAll(media.S.U, "&amp;", "&")
			}
		}
	}
	if p.Preview != nil && len(p.Preview.Images) > 0 {
		if u := p.Preview.Images[0].Source.URL; u != "" {
			return strings.ReplaceAll(u, "&amp;", "&")
		}
	}
	if strings.HasPrefix(p.Thumbnail, "http") {
		return p.Thumbnail
	}
	return ""
}

func isImageLink(url string) bool {
	return strings.Contains(url, ".jpg") || strings.Contains(url, ".png") || strings.Contains(url, ".gif")
}
