package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/feedhub/feedhub/pkg/collector"
	"github.com/feedhub/feedhub/pkg/config"
	"github.com/feedhub/feedhub/pkg/domain"
	"github.com/feedhub/feedhub/pkg/feed"
	"github.com/feedhub/feedhub/pkg/report"
	"github.com/feedhub/feedhub/pkg/site"
	"github.com/feedhub/feedhub/server"
)

// collectionFloorHours keeps collection at 30 days minimum so the client-side
// timeframe filters (24h, 7d, 30d) always have data to work with
const collectionFloorHours = 720

// Opts with all CLI options
type Opts struct {
	Config   string `short:"c" long:"config" env:"FEEDHUB_CONFIG" required:"true" description:"path to feeds configuration file"`
	Hours    int    `long:"hours" env:"FEEDHUB_HOURS" default:"24" description:"lookback window in hours"`
	Output   string `short:"o" long:"output" env:"FEEDHUB_OUTPUT" default:"feeds-data.json" description:"output path for the JSON collection summary"`
	SiteDir  string `long:"site-dir" env:"FEEDHUB_SITE_DIR" default:"site" description:"output directory for HTML pages and RSS feeds"`
	Markdown string `long:"markdown" env:"FEEDHUB_MARKDOWN" description:"optional output path for the markdown run report"`

	Title   string `long:"title" env:"FEEDHUB_TITLE" default:"FeedHub" description:"site title"`
	BaseURL string `long:"base-url" env:"FEEDHUB_BASE_URL" default:"https://feedhub.example.com" description:"public base URL of the site"`

	Timeout     time.Duration `long:"timeout" env:"FEEDHUB_TIMEOUT" default:"30s" description:"per-feed fetch timeout"`
	Concurrency int           `long:"concurrency" env:"FEEDHUB_CONCURRENCY" default:"4" description:"maximum concurrent feed fetches"`
	Retries     int           `long:"retries" env:"FEEDHUB_RETRIES" default:"1" description:"fetch attempts per feed"`
	UserAgent   string        `long:"user-agent" env:"FEEDHUB_USER_AGENT" default:"Mozilla/5.0 FeedHub/1.0" description:"user agent for feed requests"`

	Serve  bool   `long:"serve" description:"serve the generated site after the run"`
	Listen string `short:"l" long:"listen" env:"LISTEN" default:":8080" description:"preview server listen address"`

	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting feedhub version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] run failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] done")
}

// run executes one collection: load config, fetch all feeds, aggregate,
// write every artifact. Per-feed failures are part of a normal run, only
// configuration and render problems return an error.
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	descriptors := cfg.Descriptors()

	hours := opts.Hours
	if hours < collectionFloorHours {
		hours = collectionFloorHours
	}
	collectedAt := time.Now().UTC().Truncate(time.Second)
	since := collectedAt.Add(-time.Duration(hours) * time.Hour)
	log.Printf("[INFO] fetching articles published after %s (last %d hours) from %d feeds",
		since.Format(time.RFC3339), hours, len(descriptors))

	coll := collector.NewCollector(feed.NewParser(opts.Timeout, opts.UserAgent), opts.Concurrency, opts.Retries)
	res := domain.CollectResult{
		Results:     coll.Collect(ctx, descriptors),
		CollectedAt: collectedAt,
		Since:       since,
		Hours:       hours,
	}

	master, ordered := collector.Aggregate(res.Results, since)
	slugs := collector.Slugs(descriptors)

	// JSON summary for downstream scripts
	rep := report.New(res, ordered)
	if err := rep.WriteJSON(opts.Output); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	log.Printf("[INFO] collection summary written to %s", opts.Output)

	if opts.Markdown != "" {
		if err := rep.WriteMarkdown(opts.Markdown); err != nil {
			return fmt.Errorf("write markdown report: %w", err)
		}
		log.Printf("[INFO] markdown report written to %s", opts.Markdown)
	}

	// HTML pages
	renderer, err := site.NewRenderer(opts.Title)
	if err != nil {
		return fmt.Errorf("init renderer: %w", err)
	}
	pages, err := renderer.RenderAll(site.Site{
		Ordered:     ordered,
		Failures:    res.Failures(),
		Slugs:       slugs,
		CollectedAt: collectedAt,
	})
	if err != nil {
		return fmt.Errorf("render pages: %w", err)
	}

	// RSS documents, master plus one per successful feed
	gen := feed.NewGenerator(opts.BaseURL, opts.Title)
	masterXML, err := gen.Master(master, collectedAt)
	if err != nil {
		return fmt.Errorf("generate master feed: %w", err)
	}
	pages["feed.xml"] = masterXML

	for _, fr := range ordered {
		name := fr.Descriptor.Name
		feedXML, err := gen.PerFeed(name, slugs[name], fr.Articles, collectedAt)
		if err != nil {
			return fmt.Errorf("generate feed for %q: %w", name, err)
		}
		pages["feed-"+slugs[name]+".xml"] = feedXML
	}

	if err := site.WriteAll(opts.SiteDir, pages); err != nil {
		return fmt.Errorf("write site: %w", err)
	}
	log.Printf("[INFO] %d files written to %s", len(pages), opts.SiteDir)

	failures := res.Failures()
	log.Printf("[INFO] collected %d articles from %d feeds, %d failed",
		len(master), len(ordered), len(failures))
	for _, fr := range failures {
		log.Printf("[WARN] failed feed %q (%s): %s", fr.Descriptor.Name, fr.Descriptor.URL, fr.Err)
	}

	if opts.Serve {
		srv := server.New(server.Config{Listen: opts.Listen, Dir: opts.SiteDir, Version: revision, Debug: opts.Debug})
		return srv.Run(ctx)
	}

	return nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
