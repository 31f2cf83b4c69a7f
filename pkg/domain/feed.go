package domain

// FeedDescriptor identifies a configured feed source. Name is the feed
// identity and must be unique within a configuration.
type FeedDescriptor struct {
	Name string
	URL  string
}

// FeedResult is the outcome of fetching one configured feed. Failed and empty
// are distinct states: a feed that fetched cleanly but has no qualifying
// articles is empty, never failed.
type FeedResult struct {
	Descriptor FeedDescriptor
	Articles   []Article
	Failed     bool
	Err        string // error message for failed feeds, empty otherwise
}

// Count returns the number of articles in the result.
func (r *FeedResult) Count() int {
	return len(r.Articles)
}
