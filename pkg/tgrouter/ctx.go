package tgrouter

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Ctx struct {
	update  *tgbotapi.Update
	bot     *tgbotapi.BotAPI
	Context context.Context
}

func (c *Ctx) Bot() *tgbotapi.BotAPI {
	return c.bot
}

func (c *Ctx) Update() *tgbotapi.Update {
	return c.update
}

// ChatID returns the originating chat id, 0 when the update has no chat.
func (c *Ctx) ChatID() int64 {
	if chat := c.update.FromChat(); chat != nil {
		return chat.ID
	}
	return 0
}

// Reply sends plain text back to the originating chat.
func (c *Ctx) Reply(text string) error {
	_, err := c.bot.Send(tgbotapi.NewMessage(c.ChatID(), text))
	return err
}
