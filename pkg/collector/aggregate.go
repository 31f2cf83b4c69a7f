package collector

import (
	"sort"
	"time"

	"github.com/feedhub/feedhub/pkg/domain"
)

// Aggregate applies the lookback window to every successful feed result and
// builds the two views the renderers consume:
//
//   - master: the union of all qualifying articles, de-duplicated by link
//     (first occurrence in configuration order wins), sorted by published
//     time descending; articles without a date go after all dated ones,
//     keeping their encounter order.
//   - ordered: the successful feeds re-sorted for rendering, feeds with at
//     least one qualifying article alphabetically by name before feeds with
//     none, also alphabetical. Per-feed article lists are window-filtered and
//     date-sorted the same way as master.
//
// Failed feeds are excluded from both views, they surface through the
// failure list instead. Pure function: same inputs, same outputs.
func Aggregate(results []domain.FeedResult, since time.Time) (master []domain.Article, ordered []domain.FeedResult) {
	ordered = make([]domain.FeedResult, 0, len(results))
	for _, r := range results {
		if r.Failed {
			continue
		}
		filtered := make([]domain.Article, 0, len(r.Articles))
		for _, a := range r.Articles {
			if WithinWindow(a, since) {
				filtered = append(filtered, a)
			}
		}
		ordered = append(ordered, domain.FeedResult{Descriptor: r.Descriptor, Articles: filtered})
	}

	// master merge happens in configuration order so "first occurrence wins"
	// is deterministic regardless of the render ordering below
	seen := make(map[string]struct{})
	master = []domain.Article{}
	for _, r := range ordered {
		for _, a := range r.Articles {
			if _, ok := seen[a.Link]; ok {
				continue
			}
			seen[a.Link] = struct{}{}
			master = append(master, a)
		}
	}
	sortByPublished(master)

	for i := range ordered {
		sortByPublished(ordered[i].Articles)
	}

	// feeds with qualifying articles come first, alphabetical within each group
	sort.SliceStable(ordered, func(i, j int) bool {
		iHas, jHas := len(ordered[i].Articles) > 0, len(ordered[j].Articles) > 0
		if iHas != jHas {
			return iHas
		}
		return ordered[i].Descriptor.Name < ordered[j].Descriptor.Name
	})

	return master, ordered
}

// sortByPublished orders articles newest first, undated articles go last and
// keep their encounter order
func sortByPublished(articles []domain.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].Published, articles[j].Published
		switch {
		case a == nil || b == nil:
			return a != nil && b == nil
		default:
			return a.After(*b)
		}
	})
}
