package main

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type newsSource interface {
	TodaysItems(ctx context.Context, feedURL string) ([]NewsItem, error)
}

type speechRenderer interface {
	Synthesize(ctx context.Context, script PodcastScript, outputPath string) (string, error)
}

type audioSender interface {
	SendAudio(ctx context.Context, path, caption string) (int, error)
}

// Pipeline runs fetch, script, speech and delivery strictly in that order
type Pipeline struct {
	cfg      *Config
	feed     newsSource
	writer   ScriptWriter
	speech   speechRenderer
	sender   audioSender
	log      zerolog.Logger
	newRunID func() string
}

func NewPipeline(cfg *Config, feed newsSource, writer ScriptWriter, speech speechRenderer, sender audioSender, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		feed:     feed,
		writer:   writer,
		speech:   speech,
		sender:   sender,
		log:      log,
		newRunID: uuid.NewString,
	}
}

// Run produces and delivers one episode. A stage failure stops the run and is
// returned as a *StageError; the report holds whatever was done before it.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{RunID: p.newRunID()}
	log := p.log.With().Str("run_id", report.RunID).Logger()
	log.Info().Str("feed", p.cfg.FeedURL).Msg("Starting podcast run")

	items, err := p.feed.TodaysItems(ctx, p.cfg.FeedURL)
	if err != nil {
		log.Error().Err(err).Msg("Fetching feed failed")
		return report, err
	}
	log.Info().Int("count", len(items)).Msg("Found entries for today")
	if len(items) == 0 {
		items = []NewsItem{fallbackItem}
		report.Fallback = true
		log.Warn().Msg("No entries published today, using fallback item")
	}
	report.Items = items

	script, err := p.writer.WriteScript(ctx, items)
	if err != nil {
		log.Error().Err(err).Msg("Generating script failed")
		return report, err
	}
	report.Script = script

	// Missing tags only warn; the episode is still voiced and sent
	if missing := script.MissingSpeakers(p.cfg.Hosts); len(missing) > 0 {
		log.Warn().
			Str("missing", strings.Join(missing, ", ")).
			Msg("Script might be missing speaker tags")
	}

	audioPath, err := p.speech.Synthesize(ctx, script, p.cfg.OutputPath)
	if err != nil {
		log.Error().Err(err).Msg("Synthesizing speech failed")
		return report, err
	}
	report.AudioPath = audioPath

	messageID, err := p.sender.SendAudio(ctx, audioPath, p.cfg.Caption)
	if err != nil {
		log.Error().Err(err).Msg("Delivering audio failed")
		return report, err
	}
	report.MessageID = messageID

	log.Info().
		Str("audio", audioPath).
		Int("message_id", messageID).
		Msg("Podcast run completed")
	return report, nil
}
