package collector

import (
	"time"

	"github.com/feedhub/feedhub/pkg/domain"
)

// WithinWindow reports whether the article qualifies for the lookback window.
// The boundary is inclusive: an article published exactly at since qualifies.
// Articles without a parsable date are kept rather than silently dropped,
// callers order them after all dated articles.
func WithinWindow(a domain.Article, since time.Time) bool {
	if a.Published == nil {
		return true
	}
	return !a.Published.Before(since)
}
