package collector

import (
	"context"
	"log"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"golang.org/x/sync/errgroup"

	"github.com/feedhub/feedhub/pkg/domain"
)

// Parser fetches and parses a single feed into articles
type Parser interface {
	Parse(ctx context.Context, feedName, url string) ([]domain.Article, error)
}

// Collector fetches all configured feeds with bounded concurrency. Each feed
// gets its own FeedResult, a failing feed is converted into data and never
// aborts the run.
type Collector struct {
	parser      Parser
	concurrency int
	attempts    int
}

// NewCollector creates a collector. concurrency 1 means sequential fetching,
// attempts 1 means a single try per feed per run.
func NewCollector(parser Parser, concurrency, attempts int) *Collector {
	if concurrency <= 0 {
		concurrency = 1
	}
	if attempts <= 0 {
		attempts = 1
	}
	return &Collector{parser: parser, concurrency: concurrency, attempts: attempts}
}

// Collect fetches every descriptor and returns one FeedResult per descriptor
// in configuration order. Each fetch produces its own result and the slice is
// assembled only after all fetches complete, no partial writes are visible.
func (c *Collector) Collect(ctx context.Context, descriptors []domain.FeedDescriptor) []domain.FeedResult {
	results := make([]domain.FeedResult, len(descriptors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, d := range descriptors {
		g.Go(func() error {
			results[i] = c.fetchOne(gctx, d)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are recorded per feed

	return results
}

// fetchOne retrieves a single feed, converting any error into a failed result
func (c *Collector) fetchOne(ctx context.Context, d domain.FeedDescriptor) domain.FeedResult {
	log.Printf("[DEBUG] fetching %q from %s", d.Name, d.URL)

	var articles []domain.Article
	var err error
	if c.attempts > 1 {
		retrier := repeater.NewBackoff(c.attempts, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
		err = retrier.Do(ctx, func() error {
			var ferr error
			articles, ferr = c.parser.Parse(ctx, d.Name, d.URL)
			return ferr
		})
	} else {
		articles, err = c.parser.Parse(ctx, d.Name, d.URL)
	}

	if err != nil {
		log.Printf("[WARN] feed %q failed: %v", d.Name, err)
		return domain.FeedResult{Descriptor: d, Failed: true, Err: err.Error()}
	}

	log.Printf("[INFO] feed %q returned %d articles", d.Name, len(articles))
	return domain.FeedResult{Descriptor: d, Articles: articles}
}
