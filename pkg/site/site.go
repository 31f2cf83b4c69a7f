package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/feedhub/feedhub/pkg/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Site is everything the renderer needs for one collection run.
type Site struct {
	Ordered     []domain.FeedResult // successful feeds in render order, window-filtered
	Failures    []domain.FeedResult
	Slugs       map[string]string // feed name -> slug
	CollectedAt time.Time
}

// Renderer produces the static HTML pages for a collection run. Pages are
// fully regenerated each time, there is no partial-success mode: any
// template problem fails the whole run.
type Renderer struct {
	siteTitle string
	pages     map[string]*template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer(siteTitle string) (*Renderer, error) {
	r := &Renderer{siteTitle: siteTitle, pages: make(map[string]*template.Template, 3)}
	for _, name := range []string{"feeds.html", "summary.html", "settings.html"} {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// NavLink is one entry in the sidebar navigation
type NavLink struct {
	Label  string
	Href   string
	Active bool
}

// pageData is shared by every rendered page
type pageData struct {
	Title        string
	SiteTitle    string
	Nav          []NavLink
	GeneratedAt  string
	CacheVersion string
}

// Section is one feed block on an index or feed page
type Section struct {
	Name     string
	Slug     string
	Count    int
	Articles []ArticleView
}

// ArticleView is one rendered article entry. PublishedISO feeds the
// data-published attribute the client script filters on, empty when the
// publication time is unknown.
type ArticleView struct {
	Title         string
	Link          string
	Description   string
	PublishedISO  string
	PublishedText string
}

type feedsPageData struct {
	pageData
	Sections []Section
}

// FailedView is one entry of the failed feeds list on the summary page
type FailedView struct {
	Name  string
	URL   string
	Error string
}

// BreakdownItem is one row of the per-feed breakdown on the summary page
type BreakdownItem struct {
	Name    string
	Slug    string
	Count   int
	Percent string
}

type summaryPageData struct {
	pageData
	TotalFeeds      int
	SuccessfulFeeds int
	FailedCount     int
	TotalArticles   int
	Failed          []FailedView
	Breakdown       []BreakdownItem
}

// FeedOption is one feed checkbox on the settings page
type FeedOption struct {
	Name string
	Slug string
}

type settingsPageData struct {
	pageData
	Feeds []FeedOption
}

// RenderAll renders every page of the site: the master index, one page per
// successful feed, the summary page and the settings page. Returned map is
// keyed by output filename.
func (r *Renderer) RenderAll(s Site) (map[string]string, error) {
	pages := make(map[string]string, len(s.Ordered)+3)

	indexData := feedsPageData{
		pageData: r.base(s, r.siteTitle, "index"),
		Sections: r.sections(s.Ordered, s.Slugs),
	}
	page, err := r.execute("feeds.html", indexData)
	if err != nil {
		return nil, err
	}
	pages["index.html"] = page

	for _, fr := range s.Ordered {
		name := fr.Descriptor.Name
		data := feedsPageData{
			pageData: r.base(s, name+" - "+r.siteTitle, name),
			Sections: r.sections([]domain.FeedResult{fr}, s.Slugs),
		}
		page, err := r.execute("feeds.html", data)
		if err != nil {
			return nil, err
		}
		pages["feed-"+s.Slugs[name]+".html"] = page
	}

	page, err = r.execute("summary.html", r.summaryData(s))
	if err != nil {
		return nil, err
	}
	pages["summary.html"] = page

	page, err = r.execute("settings.html", r.settingsData(s))
	if err != nil {
		return nil, err
	}
	pages["settings.html"] = page

	return pages, nil
}

// base builds the shared page chrome: nav in the render-order invariant
// (feeds with articles alphabetically before empty feeds), footer timestamp
// and cache-busting asset version
func (r *Renderer) base(s Site, title, active string) pageData {
	nav := make([]NavLink, 0, len(s.Ordered)+3)
	nav = append(nav, NavLink{Label: "All Feeds", Href: "index.html", Active: active == "index"})
	for _, fr := range s.Ordered {
		name := fr.Descriptor.Name
		nav = append(nav, NavLink{Label: name, Href: "feed-" + s.Slugs[name] + ".html", Active: active == name})
	}
	nav = append(nav,
		NavLink{Label: "Summary", Href: "summary.html", Active: active == "summary"},
		NavLink{Label: "Settings", Href: "settings.html", Active: active == "settings"},
	)

	return pageData{
		Title:        title,
		SiteTitle:    r.siteTitle,
		Nav:          nav,
		GeneratedAt:  s.CollectedAt.UTC().Format("January 02, 2006 at 03:04 PM UTC"),
		CacheVersion: strconv.FormatInt(s.CollectedAt.Unix(), 10),
	}
}

func (r *Renderer) sections(results []domain.FeedResult, slugs map[string]string) []Section {
	sections := make([]Section, 0, len(results))
	for _, fr := range results {
		name := fr.Descriptor.Name
		section := Section{
			Name:     name,
			Slug:     slugs[name],
			Count:    fr.Count(),
			Articles: make([]ArticleView, 0, len(fr.Articles)),
		}
		for _, a := range fr.Articles {
			view := ArticleView{
				Title:         a.Title,
				Link:          a.Link,
				Description:   a.Description,
				PublishedText: "Unknown",
			}
			if a.Published != nil {
				view.PublishedISO = a.Published.UTC().Format(time.RFC3339)
				view.PublishedText = a.Published.UTC().Format("Jan 02, 2006 at 03:04 PM")
			}
			section.Articles = append(section.Articles, view)
		}
		sections = append(sections, section)
	}
	return sections
}

func (r *Renderer) summaryData(s Site) summaryPageData {
	totalArticles := 0
	for _, fr := range s.Ordered {
		totalArticles += fr.Count()
	}

	failed := make([]FailedView, 0, len(s.Failures))
	for _, fr := range s.Failures {
		errMsg := fr.Err
		if errMsg == "" {
			errMsg = "Unknown"
		}
		failed = append(failed, FailedView{Name: fr.Descriptor.Name, URL: fr.Descriptor.URL, Error: errMsg})
	}

	// breakdown sorted by article count descending, Ordered is already
	// alphabetical within groups so equal counts stay deterministic
	breakdown := make([]BreakdownItem, 0, len(s.Ordered))
	for _, fr := range s.Ordered {
		percent := 0.0
		if totalArticles > 0 {
			percent = float64(fr.Count()) / float64(totalArticles) * 100
		}
		breakdown = append(breakdown, BreakdownItem{
			Name:    fr.Descriptor.Name,
			Slug:    s.Slugs[fr.Descriptor.Name],
			Count:   fr.Count(),
			Percent: strconv.FormatFloat(percent, 'f', 1, 64),
		})
	}
	sortBreakdown(breakdown)

	return summaryPageData{
		pageData:        r.base(s, "Summary - "+r.siteTitle, "summary"),
		TotalFeeds:      len(s.Ordered) + len(s.Failures),
		SuccessfulFeeds: len(s.Ordered),
		FailedCount:     len(s.Failures),
		TotalArticles:   totalArticles,
		Failed:          failed,
		Breakdown:       breakdown,
	}
}

func (r *Renderer) settingsData(s Site) settingsPageData {
	feeds := make([]FeedOption, 0, len(s.Ordered))
	for _, fr := range s.Ordered {
		feeds = append(feeds, FeedOption{Name: fr.Descriptor.Name, Slug: s.Slugs[fr.Descriptor.Name]})
	}
	return settingsPageData{
		pageData: r.base(s, "Settings - "+r.siteTitle, "settings"),
		Feeds:    feeds,
	}
}

// sortBreakdown orders breakdown rows by article count descending, stable so
// the alphabetical order of equal-count feeds survives
func sortBreakdown(items []BreakdownItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Count > items[j].Count })
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.pages[name].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

// WriteAll writes rendered artifacts into dir, overwriting what is there.
// The map may carry any text artifact (HTML pages, RSS XML) keyed by filename.
func WriteAll(dir string, pages map[string]string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // site output directory
		return fmt.Errorf("create output dir: %w", err)
	}
	for name, content := range pages {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // published artifact
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
