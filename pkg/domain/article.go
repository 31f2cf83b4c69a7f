package domain

import "time"

// Article is a single entry parsed from a feed, identified by its link.
// Published is nil when the feed provided no parsable date; such articles are
// kept and ordered after all dated ones.
type Article struct {
	Title       string
	Link        string
	Description string
	Published   *time.Time
	FeedName    string
}

// PublishedOrZero returns the publication time or the zero time when unknown.
func (a *Article) PublishedOrZero() time.Time {
	if a.Published == nil {
		return time.Time{}
	}
	return *a.Published
}
