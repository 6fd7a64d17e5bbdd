package main

import "strings"

// NewsItem is one of today's headlines as handed to the script writer
type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// fallbackItem stands in for the feed on days nothing was published
var fallbackItem = NewsItem{
	Title:   "Slow news day",
	Summary: "No major tech headlines today.",
}

// Host binds a podcast persona to a prebuilt TTS voice
type Host struct {
	Name  string
	Voice string
}

var defaultHosts = []Host{
	{Name: "Sam", Voice: "Fenrir"},
	{Name: "Alex", Voice: "Charon"},
}

// PodcastScript is the generated dialogue, one "Name : line" per turn
type PodcastScript string

// MissingSpeakers returns the names of hosts that never appear in the script
func (s PodcastScript) MissingSpeakers(hosts []Host) []string {
	var missing []string
	for _, h := range hosts {
		if !strings.Contains(string(s), h.Name) {
			missing = append(missing, h.Name)
		}
	}
	return missing
}

// RunReport summarizes a single pipeline run
type RunReport struct {
	RunID     string
	Items     []NewsItem
	Fallback  bool
	Script    PodcastScript
	AudioPath string
	MessageID int
}
