package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIScriptWriter streams the script from an OpenAI chat model
type OpenAIScriptWriter struct {
	client *openai.Client
	model  string
	log    zerolog.Logger
}

func NewOpenAIScriptWriter(config openai.ClientConfig, model string, log zerolog.Logger) *OpenAIScriptWriter {
	return &OpenAIScriptWriter{
		client: openai.NewClientWithConfig(config),
		model:  model,
		log:    log.With().Str("component", "script").Str("provider", providerOpenAI).Logger(),
	}
}

func (w *OpenAIScriptWriter) WriteScript(ctx context.Context, items []NewsItem) (PodcastScript, error) {
	prompt, err := buildPrompt(items)
	if err != nil {
		return "", &StageError{Stage: StageGenerate, Err: err}
	}

	req := openai.ChatCompletionRequest{
		Model: w.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: podcastInstruction},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stream: true,
	}

	w.log.Info().Str("model", w.model).Int("items", len(items)).Msg("Generating script")
	stream, err := w.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", newStageError(StageGenerate, fmt.Errorf("failed to open openai stream: %w", err))
	}
	defer stream.Close()

	script, err := drainStream(openaiStream{stream: stream})
	if err != nil {
		return "", newStageError(StageGenerate, fmt.Errorf("openai stream failed: %w", err))
	}
	if script == "" {
		return "", &StageError{Stage: StageGenerate, Err: ErrEmptyScript}
	}

	w.log.Info().Int("chars", len(script)).Msg("Script generated")
	return script, nil
}

// openaiStream adapts a chat completion stream to textStream. Recv already
// reports io.EOF at the end of the stream.
type openaiStream struct {
	stream *openai.ChatCompletionStream
}

func (s openaiStream) Next() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}
