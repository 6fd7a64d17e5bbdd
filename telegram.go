package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/rs/zerolog"
)

// telegramCaptionMaxLen is the Bot API limit for media captions
const telegramCaptionMaxLen = 1024

// TelegramSender uploads the episode to a single chat through sendAudio
type TelegramSender struct {
	bot    *telego.Bot
	chatID telego.ChatID
	log    zerolog.Logger
}

func NewTelegramSender(token, chatID string, log zerolog.Logger, opts ...telego.BotOption) (*TelegramSender, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramSender{
		bot:    bot,
		chatID: parseChatID(chatID),
		log:    log.With().Str("component", "telegram").Logger(),
	}, nil
}

// parseChatID accepts numeric ids (including negative group ids) and
// @channel usernames.
func parseChatID(s string) telego.ChatID {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return tu.ID(id)
	}
	return tu.Username(s)
}

// SendAudio uploads the file at path with caption and returns the id of the
// message Telegram created.
func (s *TelegramSender) SendAudio(ctx context.Context, path, caption string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, &StageError{Stage: StageDeliver, Err: fmt.Errorf("failed to open audio file: %w", err)}
	}
	defer file.Close()

	msg, err := s.bot.SendAudio(ctx, &telego.SendAudioParams{
		ChatID:  s.chatID,
		Audio:   tu.File(file),
		Caption: truncateCaption(caption),
	})
	if err != nil {
		stageErr := newStageError(StageDeliver, fmt.Errorf("sendAudio to %s failed: %w", s.chatID.String(), err))
		s.log.Error().
			Int("status", stageErr.StatusCode).
			Str("description", stageErr.Detail).
			Err(err).
			Msg("Telegram rejected the upload")
		return 0, stageErr
	}

	s.log.Info().
		Int("message_id", msg.MessageID).
		Str("chat", s.chatID.String()).
		Msg("Audio delivered")
	return msg.MessageID, nil
}

func truncateCaption(caption string) string {
	runes := []rune(caption)
	if len(runes) <= telegramCaptionMaxLen {
		return caption
	}
	return string(runes[:telegramCaptionMaxLen])
}
