package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/adhocore/gronx"
)

const (
	defaultFeedURL    = "https://bullrich.dev/tldr-rss/tech.rss"
	defaultOutputPath = "out.wav"
	defaultCaption    = "Here's your daily tech podcast!"
	defaultTTSModel   = "gemini-2.5-flash-preview-tts"

	providerGemini = "gemini"
	providerOpenAI = "openai"
)

// Config is built once at startup and handed to every stage
type Config struct {
	GeminiAPIKey string
	OpenAIAPIKey string
	BotToken     string
	ChatID       string

	FeedURL    string
	OutputPath string
	Caption    string

	ScriptProvider string
	ScriptModel    string
	TTSModel       string
	Hosts          []Host

	// Schedule is a cron expression; empty means run once and exit.
	Schedule string
	LogLevel string
}

// LoadConfig reads the configuration from getenv. Every missing required
// variable is reported in a single error.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		GeminiAPIKey:   getenv("GEMINI_API_KEY"),
		OpenAIAPIKey:   getenv("OPENAI_API_KEY"),
		BotToken:       getenv("BOT_TOKEN"),
		ChatID:         getenv("CHAT_ID"),
		FeedURL:        envOr(getenv, "RSS_URL", defaultFeedURL),
		OutputPath:     envOr(getenv, "OUTPUT_PATH", defaultOutputPath),
		Caption:        envOr(getenv, "CAPTION", defaultCaption),
		ScriptProvider: strings.ToLower(envOr(getenv, "SCRIPT_PROVIDER", providerGemini)),
		ScriptModel:    getenv("SCRIPT_MODEL"),
		TTSModel:       envOr(getenv, "TTS_MODEL", defaultTTSModel),
		Schedule:       getenv("SCHEDULE"),
		LogLevel:       envOr(getenv, "LOG_LEVEL", "info"),
	}

	cfg.Hosts = make([]Host, 0, len(defaultHosts))
	for _, h := range defaultHosts {
		cfg.Hosts = append(cfg.Hosts, Host{
			Name:  h.Name,
			Voice: envOr(getenv, strings.ToUpper(h.Name)+"_VOICE", h.Voice),
		})
	}

	var missing []string
	required := []struct{ name, value string }{
		{"GEMINI_API_KEY", cfg.GeminiAPIKey},
		{"BOT_TOKEN", cfg.BotToken},
		{"CHAT_ID", cfg.ChatID},
	}
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}
	if cfg.ScriptProvider == providerOpenAI && cfg.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	if cfg.ScriptModel == "" {
		cfg.ScriptModel = defaultScriptModel(cfg.ScriptProvider)
	}
	return cfg, nil
}

// Override applies non-empty command line values on top of the environment
func (c *Config) Override(feedURL, outputPath, schedule string) {
	if feedURL != "" {
		c.FeedURL = feedURL
	}
	if outputPath != "" {
		c.OutputPath = outputPath
	}
	if schedule != "" {
		c.Schedule = schedule
	}
}

// Validate checks the values LoadConfig cannot: URL shape, provider name and
// the cron expression.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.FeedURL); err != nil {
		return fmt.Errorf("invalid feed url %q: %w", c.FeedURL, err)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path must not be empty")
	}
	switch c.ScriptProvider {
	case providerGemini, providerOpenAI:
	default:
		return fmt.Errorf("unknown script provider %q", c.ScriptProvider)
	}
	if len(c.Hosts) == 0 {
		return fmt.Errorf("at least one host is required")
	}
	if c.Schedule != "" && !gronx.New().IsValid(c.Schedule) {
		return fmt.Errorf("invalid cron expression: %s", c.Schedule)
	}
	return nil
}

func defaultScriptModel(provider string) string {
	if provider == providerOpenAI {
		return defaultOpenAIModel
	}
	return defaultGeminiModel
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return fallback
}
