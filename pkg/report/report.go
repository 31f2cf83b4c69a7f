package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/feedhub/feedhub/pkg/domain"
)

// markdownArticleLimit caps per-feed article tables in the markdown report
const markdownArticleLimit = 10

// Collection is the JSON artifact consumed by downstream presentation
// scripts. Feed data reflects the window-filtered view of the run.
type Collection struct {
	Metadata    Metadata            `json:"metadata"`
	Feeds       map[string]FeedData `json:"feeds"`
	FailedFeeds []FailedFeed        `json:"failed_feeds"`
	Summary     Summary             `json:"summary"`
}

// Metadata describes when and for what window the collection ran
type Metadata struct {
	CollectedAt string `json:"collected_at"`
	Since       string `json:"since"`
	Hours       int    `json:"hours"`
}

// FeedData holds the qualifying articles of one successful feed
type FeedData struct {
	URL      string    `json:"url"`
	Articles []Article `json:"articles"`
	Count    int       `json:"count"`
}

// Article is the serialized form of a collected article. Published is
// "Unknown" when the feed provided no parsable date.
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

// FailedFeed identifies a feed that could not be fetched or parsed
type FailedFeed struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// Summary carries the run totals
type Summary struct {
	TotalFeeds      int `json:"total_feeds"`
	SuccessfulFeeds int `json:"successful_feeds"`
	FailedFeeds     int `json:"failed_feeds"`
	TotalArticles   int `json:"total_articles"`
}

// New builds the collection report. res supplies metadata and the failure
// list, filtered supplies the window-filtered article sets for successful
// feeds (any order, the JSON object is keyed by name).
func New(res domain.CollectResult, filtered []domain.FeedResult) *Collection {
	c := &Collection{
		Metadata: Metadata{
			CollectedAt: res.CollectedAt.UTC().Format(time.RFC3339),
			Since:       res.Since.UTC().Format(time.RFC3339),
			Hours:       res.Hours,
		},
		Feeds:       make(map[string]FeedData, len(filtered)),
		FailedFeeds: []FailedFeed{},
	}

	totalArticles := 0
	for _, r := range filtered {
		articles := make([]Article, 0, len(r.Articles))
		for _, a := range r.Articles {
			published := "Unknown"
			if a.Published != nil {
				published = a.Published.UTC().Format(time.RFC3339)
			}
			articles = append(articles, Article{Title: a.Title, Link: a.Link, Published: published})
		}
		c.Feeds[r.Descriptor.Name] = FeedData{
			URL:      r.Descriptor.URL,
			Articles: articles,
			Count:    len(articles),
		}
		totalArticles += len(articles)
	}

	for _, r := range res.Failures() {
		c.FailedFeeds = append(c.FailedFeeds, FailedFeed{
			Name:  r.Descriptor.Name,
			URL:   r.Descriptor.URL,
			Error: r.Err,
		})
	}

	c.Summary = Summary{
		TotalFeeds:      len(res.Results),
		SuccessfulFeeds: len(c.Feeds),
		FailedFeeds:     len(c.FailedFeeds),
		TotalArticles:   totalArticles,
	}

	return c
}

// WriteJSON writes the collection as indented JSON. Map keys marshal sorted,
// so output is byte-identical across runs with the same inputs.
func (c *Collection) WriteJSON(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil { //nolint:gosec // published artifact
		return fmt.Errorf("write collection: %w", err)
	}
	return nil
}

// Markdown renders the run report for workflow summaries
func (c *Collection) Markdown() string {
	var b strings.Builder

	b.WriteString("# Feed Collection Summary\n\n")
	fmt.Fprintf(&b, "**Collected at:** %s\n\n", c.Metadata.CollectedAt)
	fmt.Fprintf(&b, "**Time range:** Last %d hours\n\n", c.Metadata.Hours)

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total feeds:** %d\n", c.Summary.TotalFeeds)
	fmt.Fprintf(&b, "- **Successful:** %d\n", c.Summary.SuccessfulFeeds)
	fmt.Fprintf(&b, "- **Failed:** %d\n", c.Summary.FailedFeeds)
	fmt.Fprintf(&b, "- **Total articles:** %d\n\n", c.Summary.TotalArticles)

	if len(c.Feeds) > 0 {
		b.WriteString("## Successful Feeds\n\n")
		names := make([]string, 0, len(c.Feeds))
		for name := range c.Feeds {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			feed := c.Feeds[name]
			fmt.Fprintf(&b, "### %s\n\n", name)
			fmt.Fprintf(&b, "- **Articles:** %d\n\n", feed.Count)

			if len(feed.Articles) == 0 {
				b.WriteString("*No new articles*\n\n")
				continue
			}

			b.WriteString("| Title | Published |\n")
			b.WriteString("|-------|-----------|\n")
			for i, a := range feed.Articles {
				if i == markdownArticleLimit {
					break
				}
				title := a.Title
				if len(title) > 80 {
					title = title[:80] + "..."
				}
				fmt.Fprintf(&b, "| [%s](%s) | %s |\n", title, a.Link, a.Published)
			}
			if feed.Count > markdownArticleLimit {
				fmt.Fprintf(&b, "\n*...and %d more articles*\n", feed.Count-markdownArticleLimit)
			}
			b.WriteString("\n")
		}
	}

	if len(c.FailedFeeds) > 0 {
		b.WriteString("## Failed Feeds\n\n")
		b.WriteString("| Feed Name | URL | Error |\n")
		b.WriteString("|-----------|-----|-------|\n")
		for _, f := range c.FailedFeeds {
			errMsg := f.Error
			if errMsg == "" {
				errMsg = "Unknown"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", f.Name, f.URL, errMsg)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// WriteMarkdown writes the markdown report to path
func (c *Collection) WriteMarkdown(path string) error {
	if err := os.WriteFile(path, []byte(c.Markdown()), 0o644); err != nil { //nolint:gosec // published artifact
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}
