// Package notify pushes request lifecycle notifications to an admin
// Telegram chat.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/user/streamflix-go/internal/live"
	"github.com/user/streamflix-go/internal/model"
)

// Telegram sends notifications through the Bot API. It implements
// live.Notifier.
type Telegram struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram creates a Telegram notifier for the given admin chat
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	return &Telegram{api: api, chatID: chatID}, nil
}

// RequestSubmitted notifies the admin chat about a new content request
func (t *Telegram) RequestSubmitted(req model.Request) {
	text := fmt.Sprintf("📥 New content request: %s", req.Title)
	if req.Type != "" {
		text += fmt.Sprintf(" (%s)", req.Type)
	}
	if req.Year != "" {
		text += fmt.Sprintf(", %s", req.Year)
	}
	t.send(text)
}

// RequestStatusChanged forwards a status transition notification
func (t *Telegram) RequestStatusChanged(change live.StatusChange) {
	msg := change.Message()
	if msg == "" {
		return
	}

	var icon string
	switch change.Status {
	case model.RequestStatusAccepted:
		icon = "✅"
	case model.RequestStatusCompleted:
		icon = "🎬"
	case model.RequestStatusRejected:
		icon = "❌"
	default:
		icon = "ℹ️"
	}
	t.send(fmt.Sprintf("%s %s", icon, msg))
}

func (t *Telegram) send(text string) {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		log.Error().Err(err).Msg("Failed to send Telegram notification")
	}
}
