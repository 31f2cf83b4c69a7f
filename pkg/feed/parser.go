package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/feedhub/feedhub/pkg/domain"
)

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
	sanitizer *bluemonday.Policy
}

// NewParser creates a new feed parser
func NewParser(timeout time.Duration, userAgent string) *Parser {
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Parse fetches the feed at url and converts entries to articles, tagging
// each with feedName. It returns every entry the feed carries; time-window
// filtering is the caller's concern.
func (p *Parser) Parse(ctx context.Context, feedName, url string) ([]domain.Article, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	parser := gofeed.NewParser()
	parsed, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		article := domain.Article{
			Title:       item.Title,
			Link:        item.Link,
			Description: p.plainText(item.Description),
			FeedName:    feedName,
		}
		if article.Title == "" {
			article.Title = "No title"
		}

		// prefer published, fall back to updated, otherwise leave unknown
		if item.PublishedParsed != nil {
			t := item.PublishedParsed.UTC()
			article.Published = &t
		} else if item.UpdatedParsed != nil {
			t := item.UpdatedParsed.UTC()
			article.Published = &t
		}

		articles = append(articles, article)
	}

	return articles, nil
}

// plainText strips markup from feed-provided text, descriptions are untrusted
func (p *Parser) plainText(s string) string {
	return strings.TrimSpace(p.sanitizer.Sanitize(s))
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	// add browser-like headers
	addBrowserHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}
