package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/feedhub/feedhub/pkg/domain"
)

// Generator creates RSS 2.0 documents from aggregated articles. It never
// re-sorts its input, the order it is given is the order it emits.
type Generator struct {
	baseURL string
	title   string
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL, title string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		title:   title,
	}
}

// Master creates the aggregate RSS 2.0 feed combining articles from all
// configured sources, each item carries its source feed name.
func (g *Generator) Master(articles []domain.Article, collectedAt time.Time) (string, error) {
	return g.render(renderParams{
		title:       fmt.Sprintf("%s - All Articles", g.title),
		selfLink:    g.baseURL + "/feed.xml",
		description: "Aggregated articles from all configured feeds",
		articles:    articles,
		collectedAt: collectedAt,
		withSource:  true,
	})
}

// PerFeed creates the RSS 2.0 feed for a single source feed, addressed by
// its slug.
func (g *Generator) PerFeed(feedName, slug string, articles []domain.Article, collectedAt time.Time) (string, error) {
	return g.render(renderParams{
		title:       fmt.Sprintf("%s - %s", g.title, feedName),
		selfLink:    fmt.Sprintf("%s/feed-%s.xml", g.baseURL, slug),
		description: fmt.Sprintf("Articles from %s", feedName),
		articles:    articles,
		collectedAt: collectedAt,
	})
}

type renderParams struct {
	title       string
	selfLink    string
	description string
	articles    []domain.Article
	collectedAt time.Time
	withSource  bool
}

func (g *Generator) render(p renderParams) (string, error) {
	items := make([]*RSSItem, 0, len(p.articles))
	for _, a := range p.articles {
		item := &RSSItem{
			Title: a.Title,
			Link:  a.Link,
			GUID:  &RSSGUID{IsPermaLink: "true", Value: a.Link},
		}
		if a.Published != nil {
			item.PubDate = a.Published.Format(time.RFC1123Z)
		}
		if p.withSource {
			item.Source = a.FeedName
		}
		items = append(items, item)
	}

	doc := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         p.title,
			Link:          g.baseURL + "/",
			Description:   p.description,
			AtomLink:      &AtomLink{Href: p.selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: p.collectedAt.Format(time.RFC1123Z),
			Generator:     "FeedHub RSS Generator",
			Items:         items,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}

	return xml.Header + string(output), nil
}
