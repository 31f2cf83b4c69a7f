package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedhub/feedhub/pkg/domain"
)

func TestGenerator_Master(t *testing.T) {
	generator := NewGenerator("https://example.com/hub/", "FeedHub")

	pubTime := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	collectedAt := time.Date(2024, 1, 11, 6, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{
			Title:     "Dated Article",
			Link:      "https://example.com/article1",
			Published: &pubTime,
			FeedName:  "AWS Blog",
		},
		{
			Title:    "Undated Article",
			Link:     "https://example.com/article2",
			FeedName: "Kubernetes Blog",
		},
	}

	rss, err := generator.Master(articles, collectedAt)
	require.NoError(t, err)

	// channel structure
	assert.Contains(t, rss, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, rss, `<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	assert.Contains(t, rss, `<title>FeedHub - All Articles</title>`)
	assert.Contains(t, rss, `<link>https://example.com/hub/</link>`)
	assert.Contains(t, rss, `<lastBuildDate>Thu, 11 Jan 2024 06:00:00 +0000</lastBuildDate>`)
	assert.Contains(t, rss, `<generator>FeedHub RSS Generator</generator>`)

	// atom self link (namespace is on the link element)
	assert.Contains(t, rss, `href="https://example.com/hub/feed.xml" rel="self" type="application/rss+xml"`)

	// dated item carries pubDate and source
	assert.Contains(t, rss, `<title>Dated Article</title>`)
	assert.Contains(t, rss, `<guid isPermaLink="true">https://example.com/article1</guid>`)
	assert.Contains(t, rss, `<pubDate>Wed, 10 Jan 2024 09:00:00 +0000</pubDate>`)
	assert.Contains(t, rss, `<source>AWS Blog</source>`)

	// undated item omits pubDate entirely
	assert.Contains(t, rss, `<title>Undated Article</title>`)
	assert.Equal(t, 1, strings.Count(rss, "<pubDate>"), "only the dated item has a pubDate")
}

func TestGenerator_PerFeed(t *testing.T) {
	generator := NewGenerator("https://example.com", "FeedHub")

	pubTime := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{Title: "Article", Link: "https://aws.example.com/post", Published: &pubTime, FeedName: "AWS Blog"},
	}

	rss, err := generator.PerFeed("AWS Blog", "aws-blog", articles, pubTime)
	require.NoError(t, err)

	assert.Contains(t, rss, `<title>FeedHub - AWS Blog</title>`)
	assert.Contains(t, rss, `<description>Articles from AWS Blog</description>`)
	assert.Contains(t, rss, `href="https://example.com/feed-aws-blog.xml"`)
	assert.NotContains(t, rss, "<source>", "per-feed items don't repeat the source")
}

func TestGenerator_Escaping(t *testing.T) {
	generator := NewGenerator("https://example.com", "FeedHub")

	articles := []domain.Article{
		{Title: `<script>alert(1)</script> & "quotes"`, Link: "https://example.com/a?x=1&y=2"},
	}

	rss, err := generator.Master(articles, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.NotContains(t, rss, "<script>")
	assert.Contains(t, rss, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, rss, "https://example.com/a?x=1&amp;y=2")
}

func TestGenerator_PreservesOrder(t *testing.T) {
	generator := NewGenerator("https://example.com", "FeedHub")

	// deliberately not date-sorted, the generator must trust its input order
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{Title: "First", Link: "https://example.com/1", Published: &older},
		{Title: "Second", Link: "https://example.com/2", Published: &newer},
	}

	rss, err := generator.Master(articles, newer)
	require.NoError(t, err)

	assert.Less(t, strings.Index(rss, "<title>First</title>"), strings.Index(rss, "<title>Second</title>"))
}

func TestGenerator_Deterministic(t *testing.T) {
	generator := NewGenerator("https://example.com", "FeedHub")

	pubTime := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	articles := []domain.Article{
		{Title: "Article", Link: "https://example.com/post", Published: &pubTime},
	}

	first, err := generator.Master(articles, pubTime)
	require.NoError(t, err)
	second, err := generator.Master(articles, pubTime)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerator_EmptyArticles(t *testing.T) {
	generator := NewGenerator("https://example.com", "FeedHub")

	rss, err := generator.PerFeed("Empty Blog", "empty-blog", nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Contains(t, rss, `<title>FeedHub - Empty Blog</title>`)
	assert.NotContains(t, rss, "<item>")
}
