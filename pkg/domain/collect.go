package domain

import "time"

// CollectResult holds the outcome of one collection run. Results has one
// entry per configured feed in configuration order, timestamps are inputs of
// the run rather than clock reads so regeneration is reproducible.
type CollectResult struct {
	Results     []FeedResult
	CollectedAt time.Time
	Since       time.Time
	Hours       int
}

// Successes returns results for feeds that fetched and parsed cleanly, in
// configuration order.
func (c *CollectResult) Successes() []FeedResult {
	res := make([]FeedResult, 0, len(c.Results))
	for _, r := range c.Results {
		if !r.Failed {
			res = append(res, r)
		}
	}
	return res
}

// Failures returns results for feeds that failed to fetch or parse, in
// configuration order.
func (c *CollectResult) Failures() []FeedResult {
	res := []FeedResult{}
	for _, r := range c.Results {
		if r.Failed {
			res = append(res, r)
		}
	}
	return res
}

// TotalArticles returns the article count across all successful feeds.
func (c *CollectResult) TotalArticles() int {
	total := 0
	for _, r := range c.Results {
		total += len(r.Articles)
	}
	return total
}
