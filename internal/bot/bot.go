// Package bot is the Telegram adapter around the engine. It parses chat
// commands into engine calls and renders structured results as reply text;
// no review or reminder invariants live here.
package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/IGCrystal-NEO/ewords/internal/engine"
)

// Bot represents the Telegram bot application
type Bot struct {
	api    *tgbotapi.BotAPI
	engine *engine.Engine
	config *BotConfig
}

// New creates a new bot instance over the given engine.
func New(token string, eng *engine.Engine) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %v", err)
	}
	return &Bot{
		api:    api,
		engine: eng,
		config: DefaultConfig(),
	}, nil
}

// Start runs the long-polling update loop until the context is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	log.Printf("Authorized as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			if err := b.HandleCommand(update.Message); err != nil {
				log.Printf("Error handling /%s from %d: %v", update.Message.Command(), update.Message.Chat.ID, err)
			}
		}
	}
}

// Stop shuts down the update channel.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// SendReminder implements the scheduler's Notifier. The opaque user ID is
// the chat ID this adapter handed to the engine.
func (b *Bot) SendReminder(userID string) error {
	chatID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %v", userID, err)
	}
	return b.send(tgbotapi.NewMessage(chatID, b.config.ReminderText))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %v", err)
	}
	return nil
}

func (b *Bot) reply(message *tgbotapi.Message, text string) error {
	return b.send(tgbotapi.NewMessage(message.Chat.ID, text))
}
