// main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

func main() {
	// Parse command line flags
	feedURL := flag.String("feed", "", "RSS feed URL (overrides RSS_URL)")
	outPath := flag.String("out", "", "Path of the WAV file to write (overrides OUTPUT_PATH)")
	schedule := flag.String("schedule", "", "Cron expression; keep running and publish on every tick")
	flag.Parse()

	// Startup messages go out at info until the configured level is known
	bootLog := newLogger("info", os.Stderr)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		bootLog.Warn().Err(err).Msg("Could not load .env file")
	}

	cfg, err := LoadConfig(os.Getenv)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("Error loading configuration")
	}
	logger := newLogger(cfg.LogLevel, os.Stderr)
	cfg.Override(*feedURL, *outPath, *schedule)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Error setting up pipeline")
	}

	if cfg.Schedule == "" {
		if _, err := pipeline.Run(ctx); err != nil {
			stop()
			logger.Fatal().Err(err).Msg("Podcast run failed")
		}
		return
	}

	scheduler := NewScheduler(cfg.Schedule, func(ctx context.Context) error {
		_, err := pipeline.Run(ctx)
		return err
	}, logger)
	if err := scheduler.Start(ctx); err != nil {
		stop()
		logger.Fatal().Err(err).Msg("Scheduler failed")
	}
}

func buildPipeline(ctx context.Context, cfg *Config, logger zerolog.Logger) (*Pipeline, error) {
	var writer ScriptWriter
	switch cfg.ScriptProvider {
	case providerOpenAI:
		writer = NewOpenAIScriptWriter(openai.DefaultConfig(cfg.OpenAIAPIKey), cfg.ScriptModel, logger)
	default:
		writer = NewGeminiScriptWriter(cfg.GeminiAPIKey, cfg.ScriptModel, logger)
	}

	speech, err := NewSpeechSynthesizer(ctx, cfg.GeminiAPIKey, cfg.TTSModel, cfg.Hosts, logger)
	if err != nil {
		return nil, err
	}

	sender, err := NewTelegramSender(cfg.BotToken, cfg.ChatID, logger)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	return NewPipeline(cfg, NewFeedFetcher(logger), writer, speech, sender, logger), nil
}
