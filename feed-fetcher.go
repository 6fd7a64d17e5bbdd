package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
)

// FeedFetcher pulls the RSS feed and keeps the entries published today (UTC)
type FeedFetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
	log    zerolog.Logger
}

func NewFeedFetcher(log zerolog.Logger) *FeedFetcher {
	return &FeedFetcher{
		parser: gofeed.NewParser(),
		now:    time.Now,
		log:    log.With().Str("component", "feed").Logger(),
	}
}

// TodaysItems fetches feedURL and returns today's entries in feed order.
// An empty result is not an error.
func (f *FeedFetcher) TodaysItems(ctx context.Context, feedURL string) ([]NewsItem, error) {
	f.log.Debug().Str("url", feedURL).Msg("Fetching feed")

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		stageErr := &StageError{Stage: StageFetch, Err: fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)}
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			stageErr.StatusCode = httpErr.StatusCode
			stageErr.Detail = httpErr.Status
		}
		return nil, stageErr
	}

	items := filterToday(feed.Items, f.now(), f.log)
	f.log.Info().
		Int("entries", len(feed.Items)).
		Int("today", len(items)).
		Msg("Parsed feed")
	return items, nil
}

// filterToday keeps entries whose parsed publication time falls on the UTC
// calendar day of now. Entries without a parsed time are dropped.
func filterToday(entries []*gofeed.Item, now time.Time, log zerolog.Logger) []NewsItem {
	year, month, day := now.UTC().Date()

	items := make([]NewsItem, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if entry.PublishedParsed == nil {
			log.Debug().Str("title", entry.Title).Msg("Skipping entry without publication date")
			continue
		}
		y, m, d := entry.PublishedParsed.UTC().Date()
		if y != year || m != month || d != day {
			continue
		}
		items = append(items, NewsItem{
			Title:   entry.Title,
			Summary: plainText(entry.Description),
		})
	}
	return items
}

// plainText reduces an HTML summary to its visible text with entities decoded
// and whitespace collapsed.
func plainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
