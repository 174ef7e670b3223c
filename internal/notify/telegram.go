// Package notify pushes booking events to front-of-house staff chat.
package notify

import (
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"littlelemon/internal/events"
	"littlelemon/internal/models"
)

// TelegramNotifier sends booking notifications to a staff chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zerolog.Logger
}

// NewTelegramNotifier creates the notifier and verifies the token.
func NewTelegramNotifier(token string, chatID int64, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID, logger: logger}, nil
}

// Attach subscribes the notifier to booking lifecycle events.
func (n *TelegramNotifier) Attach(bus *events.Bus) {
	bus.Subscribe(events.TypeBookingCreated, n.handle("New reservation"))
	bus.Subscribe(events.TypeBookingCancelled, n.handle("Reservation cancelled"))
}

func (n *TelegramNotifier) handle(title string) events.Handler {
	return func(event events.Event) error {
		var b models.Booking
		if err := json.Unmarshal(event.Payload, &b); err != nil {
			n.logger.Warn().Err(err).Str("event", event.Type).Msg("bad event payload")
			return err
		}

		text := fmt.Sprintf("%s\n%s %s — %s, party of %d\nPhone: %s",
			title, b.Date, b.Time, b.Name, b.PartySize, b.Phone)
		if b.Notes != "" {
			text += "\nNotes: " + b.Notes
		}

		msg := tgbotapi.NewMessage(n.chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Warn().Err(err).Str("event", event.Type).Msg("telegram send failed")
			return err
		}
		return nil
	}
}
