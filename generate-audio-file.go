package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	gemini "google.golang.org/genai"
)

// speechModel is the slice of the genai Models service the synthesizer needs
type speechModel interface {
	GenerateContent(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error)
}

// SpeechSynthesizer renders a script with one prebuilt voice per host
type SpeechSynthesizer struct {
	models speechModel
	model  string
	hosts  []Host
	log    zerolog.Logger
}

// NewSpeechSynthesizer creates a synthesizer backed by the Gemini API
func NewSpeechSynthesizer(ctx context.Context, apiKey, model string, hosts []Host, log zerolog.Logger) (*SpeechSynthesizer, error) {
	client, err := gemini.NewClient(ctx, &gemini.ClientConfig{
		APIKey:  apiKey,
		Backend: gemini.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newSpeechSynthesizer(client.Models, model, hosts, log), nil
}

func newSpeechSynthesizer(models speechModel, model string, hosts []Host, log zerolog.Logger) *SpeechSynthesizer {
	return &SpeechSynthesizer{
		models: models,
		model:  model,
		hosts:  hosts,
		log:    log.With().Str("component", "speech").Logger(),
	}
}

// Synthesize converts the script to speech and saves it as a WAV file at
// outputPath, which it returns.
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, script PodcastScript, outputPath string) (string, error) {
	s.log.Info().Str("model", s.model).Int("hosts", len(s.hosts)).Msg("Synthesizing speech")

	resp, err := s.models.GenerateContent(ctx, s.model, gemini.Text(string(script)), s.speechConfig())
	if err != nil {
		return "", newStageError(StageSynthesize, fmt.Errorf("failed to synthesize speech: %w", err))
	}

	pcm, mimeType, err := extractPCM(resp)
	if err != nil {
		return "", &StageError{Stage: StageSynthesize, Err: err}
	}

	if err := writeWave(outputPath, pcm); err != nil {
		return "", &StageError{Stage: StageSynthesize, Err: err}
	}

	s.log.Info().
		Str("path", outputPath).
		Str("mime_type", mimeType).
		Int("bytes", len(pcm)).
		Dur("duration", pcmDuration(len(pcm))).
		Msg("Audio written")
	return outputPath, nil
}

func (s *SpeechSynthesizer) speechConfig() *gemini.GenerateContentConfig {
	voices := make([]*gemini.SpeakerVoiceConfig, 0, len(s.hosts))
	for _, h := range s.hosts {
		voices = append(voices, &gemini.SpeakerVoiceConfig{
			Speaker: h.Name,
			VoiceConfig: &gemini.VoiceConfig{
				PrebuiltVoiceConfig: &gemini.PrebuiltVoiceConfig{VoiceName: h.Voice},
			},
		})
	}
	return &gemini.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &gemini.SpeechConfig{
			MultiSpeakerVoiceConfig: &gemini.MultiSpeakerVoiceConfig{
				SpeakerVoiceConfigs: voices,
			},
		},
	}
}

// extractPCM pulls the inline audio out of the first part of the first
// candidate.
func extractPCM(resp *gemini.GenerateContentResponse) ([]byte, string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, "", fmt.Errorf("%w: no candidates", ErrNoAudio)
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, "", fmt.Errorf("%w: candidate has no content parts (finish reason %q)", ErrNoAudio, finishReason(candidate))
	}
	part := candidate.Content.Parts[0]
	if part == nil || part.InlineData == nil {
		return nil, "", fmt.Errorf("%w: first part has no inline data", ErrNoAudio)
	}
	data := part.InlineData.Data
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: inline data is empty", ErrNoAudio)
	}
	if len(data)%waveBlockAlign != 0 {
		return nil, "", fmt.Errorf("%w: %d bytes is not a whole number of samples", ErrNoAudio, len(data))
	}
	return data, part.InlineData.MIMEType, nil
}

func finishReason(c *gemini.Candidate) string {
	if c == nil {
		return ""
	}
	return string(c.FinishReason)
}
