package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.5-flash"

const podcastInstruction = `Role: You write scripts for a tech podcast with two hosts, Alex and Sam. Alex is analytical and reserved. Sam is energetic and witty.

Task: Turn the tech news items below (title and summary) into a lively conversation between Alex and Sam. They discuss every item, share opinions, ask each other questions, clear up confusing points and now and then crack a light joke or analogy.

Keep the tone friendly and natural, like two smart friends catching up on the day's headlines. Spend roughly one to two minutes of dialogue on each topic and use smooth transitions between topics.

Include
- real back-and-forth dialogue, no monologues
- occasional reactions such as "Whoa, seriously?" or "That makes sense."
- consistent personalities, Alex thoughtful and Sam punchy and funny

Open with the show name, its theme and the two hosts with their traits, for example "Tech Talk From Apps to Orbit with hosts Alex (analytical, reserved) and Sam (energetic, witty)".

Do not use colons anywhere except between a speaker name and that speaker's words.
Every line of the conversation must look exactly like
Alex : what Alex says
Sam : what Sam says`

// ScriptWriter turns today's items into a two-host dialogue
type ScriptWriter interface {
	WriteScript(ctx context.Context, items []NewsItem) (PodcastScript, error)
}

// buildPrompt serializes the items into the user turn of the request
func buildPrompt(items []NewsItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("failed to encode news items: %w", err)
	}
	return string(data), nil
}

// textStream yields generated text chunk by chunk and returns io.EOF when the
// stream is exhausted.
type textStream interface {
	Next() (string, error)
}

// drainStream concatenates every chunk in arrival order
func drainStream(s textStream) (PodcastScript, error) {
	var b strings.Builder
	for {
		chunk, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return PodcastScript(b.String()), err
		}
		b.WriteString(chunk)
	}
	return PodcastScript(b.String()), nil
}

// GeminiScriptWriter streams the script from a Gemini text model
type GeminiScriptWriter struct {
	apiKey string
	model  string
	opts   []option.ClientOption
	log    zerolog.Logger
}

func NewGeminiScriptWriter(apiKey, model string, log zerolog.Logger, opts ...option.ClientOption) *GeminiScriptWriter {
	return &GeminiScriptWriter{
		apiKey: apiKey,
		model:  model,
		opts:   opts,
		log:    log.With().Str("component", "script").Str("provider", providerGemini).Logger(),
	}
}

func (w *GeminiScriptWriter) WriteScript(ctx context.Context, items []NewsItem) (PodcastScript, error) {
	prompt, err := buildPrompt(items)
	if err != nil {
		return "", &StageError{Stage: StageGenerate, Err: err}
	}

	opts := append([]option.ClientOption{option.WithAPIKey(w.apiKey)}, w.opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", newStageError(StageGenerate, fmt.Errorf("failed to create gemini client: %w", err))
	}
	defer client.Close()

	model := client.GenerativeModel(w.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(podcastInstruction)}}
	model.ResponseMIMEType = "text/plain"

	w.log.Info().Str("model", w.model).Int("items", len(items)).Msg("Generating script")
	script, err := drainStream(geminiStream{it: model.GenerateContentStream(ctx, genai.Text(prompt))})
	if err != nil {
		return "", newStageError(StageGenerate, fmt.Errorf("gemini stream failed: %w", err))
	}
	if script == "" {
		return "", &StageError{Stage: StageGenerate, Err: ErrEmptyScript}
	}

	w.log.Info().Int("chars", len(script)).Msg("Script generated")
	return script, nil
}

type geminiIterator interface {
	Next() (*genai.GenerateContentResponse, error)
}

// geminiStream adapts the SDK iterator to textStream
type geminiStream struct {
	it geminiIterator
}

func (s geminiStream) Next() (string, error) {
	resp, err := s.it.Next()
	if errors.Is(err, iterator.Done) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return responseText(resp), nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
