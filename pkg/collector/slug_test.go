package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feedhub/feedhub/pkg/domain"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "AWS Blog", "aws-blog"},
		{"slashes", "DevOps/SRE Weekly", "devops-sre-weekly"},
		{"punctuation runs", "Hello -- World!!", "hello-world"},
		{"leading and trailing", "  My Feed  ", "my-feed"},
		{"already clean", "kubernetes", "kubernetes"},
		{"digits kept", "Top 10 News", "top-10-news"},
		{"nothing usable", "!!!", "feed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestSlugs_Collisions(t *testing.T) {
	descriptors := []domain.FeedDescriptor{
		{Name: "My Feed", URL: "https://a.example.com/rss"},
		{Name: "My-Feed ", URL: "https://b.example.com/rss"},
		{Name: "My  Feed", URL: "https://c.example.com/rss"},
		{Name: "Other", URL: "https://d.example.com/rss"},
	}

	slugs := Slugs(descriptors)
	assert.Equal(t, "my-feed", slugs["My Feed"])
	assert.Equal(t, "my-feed-2", slugs["My-Feed "])
	assert.Equal(t, "my-feed-3", slugs["My  Feed"])
	assert.Equal(t, "other", slugs["Other"])
}

func TestSlugs_Deterministic(t *testing.T) {
	descriptors := []domain.FeedDescriptor{
		{Name: "Feed One"},
		{Name: "Feed-One"},
		{Name: "feed one"},
	}

	first := Slugs(descriptors)
	second := Slugs(descriptors)
	assert.Equal(t, first, second, "same input order yields same slugs")
	assert.Equal(t, "feed-one", first["Feed One"])
	assert.Equal(t, "feed-one-2", first["Feed-One"])
	assert.Equal(t, "feed-one-3", first["feed one"])
}
