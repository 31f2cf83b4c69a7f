package collector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/feedhub/feedhub/pkg/domain"
)

// nonAlphanumeric matches runs of characters that can't appear in a slug
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a feed name into a URL and filename safe identifier:
// lowercase, non-alphanumeric runs collapsed to a single hyphen, no leading
// or trailing hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(name)
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "feed"
	}
	return slug
}

// Slugs assigns a unique slug to every descriptor. Collisions get
// deterministic -2, -3, ... suffixes. Descriptors are processed in the given
// order (configuration order), so regeneration always yields the same map.
func Slugs(descriptors []domain.FeedDescriptor) map[string]string {
	used := make(map[string]struct{}, len(descriptors))
	slugs := make(map[string]string, len(descriptors))
	for _, d := range descriptors {
		base := Slugify(d.Name)
		slug := base
		for n := 2; ; n++ {
			if _, taken := used[slug]; !taken {
				break
			}
			slug = fmt.Sprintf("%s-%d", base, n)
		}
		used[slug] = struct{}{}
		slugs[d.Name] = slug
	}
	return slugs
}
