// Package telegram delivers operator notifications through a Telegram bot.
package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

type Adapter struct {
	bot     *tgbotapi.BotAPI
	chatID  int64
	limiter *rate.Limiter
}

func New(token string, chatID int64) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Adapter{
		bot:    bot,
		chatID: chatID,
		// Bot API throttles around one message per second per chat; stay
		// comfortably under it.
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}, nil
}

func (a *Adapter) Notify(ctx context.Context, message string) error {
	if err := a.limiter.Wait(ctx); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(a.chatID, message)
	if _, err := a.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
