package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func rssItem(title, summary string, published *time.Time) string {
	pubDate := ""
	if published != nil {
		pubDate = "<pubDate>" + published.Format(time.RFC1123Z) + "</pubDate>"
	}
	return fmt.Sprintf("<item><title>%s</title><description>%s</description>%s</item>", title, summary, pubDate)
}

func rssDocument(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>TLDR Tech</title>
<link>https://example.com</link>
<description>Daily tech</description>
` + strings.Join(items, "\n") + `
</channel>
</rss>`
}

func newTestFetcher() *FeedFetcher {
	f := NewFeedFetcher(zerolog.Nop())
	f.now = func() time.Time { return feedNow }
	return f
}

func serveFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func timePtr(t time.Time) *time.Time { return &t }

func TestFeedFetcher_TodaysItems_KeepsTodayInFeedOrder(t *testing.T) {
	srv := serveFeed(t, rssDocument(
		rssItem("Chip launch", "New chips ship", timePtr(feedNow.Add(-2*time.Hour))),
		rssItem("Old news", "From yesterday", timePtr(feedNow.Add(-24*time.Hour))),
		rssItem("Rocket test", "Static fire done", timePtr(feedNow.Add(-11*time.Hour))),
	))

	items, err := newTestFetcher().TodaysItems(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, []NewsItem{
		{Title: "Chip launch", Summary: "New chips ship"},
		{Title: "Rocket test", Summary: "Static fire done"},
	}, items)
}

func TestFeedFetcher_TodaysItems_NothingToday(t *testing.T) {
	srv := serveFeed(t, rssDocument(
		rssItem("Old news", "From yesterday", timePtr(feedNow.Add(-30*time.Hour))),
	))

	items, err := newTestFetcher().TodaysItems(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFeedFetcher_TodaysItems_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	items, err := newTestFetcher().TodaysItems(context.Background(), srv.URL)

	require.Error(t, err)
	assert.Nil(t, items)
	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageFetch, stageErr.Stage)
	assert.Equal(t, http.StatusNotFound, stageErr.StatusCode)
}

func TestFeedFetcher_TodaysItems_InvalidFeed(t *testing.T) {
	srv := serveFeed(t, "this is not a feed")

	_, err := newTestFetcher().TodaysItems(context.Background(), srv.URL)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StageFetch, stageErr.Stage)
	assert.Zero(t, stageErr.StatusCode)
}

func TestFeedFetcher_TodaysItems_ContextCancelled(t *testing.T) {
	srv := serveFeed(t, rssDocument())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher().TodaysItems(ctx, srv.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFilterToday(t *testing.T) {
	// 23:30 UTC on the 14th, written with a +02:00 offset as the 15th
	lateTonight := time.Date(2026, 10, 15, 1, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	// 08:00 on the 14th in New York is already the 14th at 12:00 UTC
	ny := time.Date(2026, 10, 14, 8, 0, 0, 0, time.FixedZone("EDT", -4*60*60))
	// 22:00 on the 13th in New York is 02:00 on the 14th UTC
	nyLastNight := time.Date(2026, 10, 13, 22, 0, 0, 0, time.FixedZone("EDT", -4*60*60))
	tomorrow := feedNow.Add(24 * time.Hour)

	entries := []*gofeed.Item{
		{Title: "no date", Description: "dropped"},
		{Title: "offset today", Description: "kept", PublishedParsed: &lateTonight},
		nil,
		{Title: "new york", Description: "kept", PublishedParsed: &ny},
		{Title: "tomorrow", Description: "dropped", PublishedParsed: &tomorrow},
		{Title: "new york last night", Description: "kept", PublishedParsed: &nyLastNight},
	}

	items := filterToday(entries, feedNow, zerolog.Nop())

	assert.Equal(t, []NewsItem{
		{Title: "offset today", Summary: "kept"},
		{Title: "new york", Summary: "kept"},
		{Title: "new york last night", Summary: "kept"},
	}, items)
}

func TestFilterToday_UsesUTCDateOfNow(t *testing.T) {
	// 20:00 on the 13th in New York is 00:00 on the 14th UTC
	now := time.Date(2026, 10, 13, 20, 0, 0, 0, time.FixedZone("EDT", -4*60*60))
	published := time.Date(2026, 10, 14, 0, 5, 0, 0, time.UTC)

	items := filterToday([]*gofeed.Item{{Title: "t", PublishedParsed: &published}}, now, zerolog.Nop())

	assert.Len(t, items, 1)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "No major tech headlines today.", "No major tech headlines today."},
		{"markup", "<p>Apple <b>ships</b>\n  new chips.</p>", "Apple ships new chips."},
		{"link", `Read <a href="https://example.com">more</a>`, "Read more"},
		{"entities only", "AT&amp;T buys &quot;Acme&quot; &lt;again&gt;", `AT&T buys "Acme" <again>`},
		{"double escaped", "AT&amp;amp;T", "AT&amp;T"},
		{"plain multiline", "Line one\n   line two", "Line one line two"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainText(tt.in))
		})
	}
}
